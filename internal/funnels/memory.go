package funnels

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type memoryFunnelRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Funnel
	bySlug map[string]uuid.UUID
}

// NewMemoryFunnelRepository constructs an in-memory repository for funnels.
func NewMemoryFunnelRepository() FunnelRepository {
	return &memoryFunnelRepository{
		byID:   make(map[uuid.UUID]*Funnel),
		bySlug: make(map[string]uuid.UUID),
	}
}

func (m *memoryFunnelRepository) Create(_ context.Context, funnel *Funnel) (*Funnel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneFunnel(funnel)
	if cloned.ID == uuid.Nil {
		cloned.ID = uuid.New()
	}
	m.byID[cloned.ID] = cloned
	if cloned.Slug != "" {
		m.bySlug[cloned.Slug] = cloned.ID
	}
	return cloneFunnel(cloned), nil
}

func (m *memoryFunnelRepository) GetByID(_ context.Context, id uuid.UUID) (*Funnel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "funnel", Key: id.String()}
	}
	return cloneFunnel(record), nil
}

func (m *memoryFunnelRepository) GetBySlug(_ context.Context, slug string) (*Funnel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.bySlug[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "funnel", Key: slug}
	}
	return cloneFunnel(m.byID[id]), nil
}

func (m *memoryFunnelRepository) List(_ context.Context) ([]*Funnel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Funnel, 0, len(m.byID))
	for _, record := range m.byID {
		records = append(records, cloneFunnel(record))
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Slug < records[j].Slug })
	return records, nil
}

func (m *memoryFunnelRepository) Update(_ context.Context, funnel *Funnel) (*Funnel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.byID[funnel.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "funnel", Key: funnel.ID.String()}
	}
	if current.Slug != funnel.Slug {
		delete(m.bySlug, current.Slug)
	}
	cloned := cloneFunnel(funnel)
	m.byID[cloned.ID] = cloned
	if cloned.Slug != "" {
		m.bySlug[cloned.Slug] = cloned.ID
	}
	return cloneFunnel(cloned), nil
}

func (m *memoryFunnelRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if record, ok := m.byID[id]; ok {
		delete(m.bySlug, record.Slug)
		delete(m.byID, id)
	}
	return nil
}

type memoryStepRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*Step
}

// NewMemoryStepRepository constructs an in-memory repository for steps.
func NewMemoryStepRepository() StepRepository {
	return &memoryStepRepository{
		byID: make(map[uuid.UUID]*Step),
	}
}

func (m *memoryStepRepository) Create(_ context.Context, step *Step) (*Step, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneStep(step)
	if cloned.ID == uuid.Nil {
		cloned.ID = uuid.New()
	}
	m.byID[cloned.ID] = cloned
	return cloneStep(cloned), nil
}

func (m *memoryStepRepository) GetByID(_ context.Context, id uuid.UUID) (*Step, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "funnel_step", Key: id.String()}
	}
	return cloneStep(record), nil
}

func (m *memoryStepRepository) ListByFunnel(_ context.Context, funnelID uuid.UUID) ([]*Step, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Step, 0)
	for _, record := range m.byID {
		if record.FunnelID == funnelID {
			records = append(records, cloneStep(record))
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Position < records[j].Position })
	return records, nil
}

func (m *memoryStepRepository) Update(_ context.Context, step *Step) (*Step, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[step.ID]; !ok {
		return nil, &NotFoundError{Resource: "funnel_step", Key: step.ID.String()}
	}
	cloned := cloneStep(step)
	m.byID[cloned.ID] = cloned
	return cloneStep(cloned), nil
}

func (m *memoryStepRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.byID, id)
	return nil
}
