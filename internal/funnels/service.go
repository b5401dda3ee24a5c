package funnels

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-funnel/internal/elements"
	"github.com/goliatone/go-funnel/internal/logging"
	"github.com/goliatone/go-funnel/pkg/interfaces"
)

// Service manages funnels and their steps. Loading a step decodes its
// element document into a Collection, running legacy content migrations
// exactly once, before any panel ever sees the elements.
type Service interface {
	CreateFunnel(ctx context.Context, input CreateFunnelInput) (*Funnel, error)
	GetFunnel(ctx context.Context, id uuid.UUID) (*Funnel, error)
	GetFunnelBySlug(ctx context.Context, slug string) (*Funnel, error)
	ListFunnels(ctx context.Context) ([]*Funnel, error)
	DeleteFunnel(ctx context.Context, id uuid.UUID) error

	AddStep(ctx context.Context, input AddStepInput) (*Step, error)
	RenameStep(ctx context.Context, stepID uuid.UUID, title string) (*Step, error)
	DeleteStep(ctx context.Context, stepID uuid.UUID) error

	LoadStep(ctx context.Context, stepID uuid.UUID, opts ...elements.CollectionOption) (*elements.Collection, error)
	SaveStep(ctx context.Context, stepID uuid.UUID, collection *elements.Collection) (*Step, error)

	StepDirectory(funnelID uuid.UUID) interfaces.StepDirectory
}

// CreateFunnelInput captures the information required to register a funnel.
// Slug is normalized before storage; when empty it is derived from Name.
type CreateFunnelInput struct {
	Slug string
	Name string
}

// AddStepInput captures the data required to append a step to a funnel.
// Position past the end is clamped to append.
type AddStepInput struct {
	FunnelID uuid.UUID
	Title    string
	Position *int
}

type service struct {
	funnels  FunnelRepository
	steps    StepRepository
	migrator *elements.Migrator
	logger   interfaces.Logger
	now      func() time.Time
	idgen    func() uuid.UUID
}

// ServiceOption configures the funnels service.
type ServiceOption func(*service)

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMigrator overrides the content migrator applied at load.
func WithMigrator(migrator *elements.Migrator) ServiceOption {
	return func(s *service) {
		if migrator != nil {
			s.migrator = migrator
		}
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator injects the id source.
func WithIDGenerator(gen func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if gen != nil {
			s.idgen = gen
		}
	}
}

// NewService wires a funnels service over the given repositories.
func NewService(funnels FunnelRepository, steps StepRepository, opts ...ServiceOption) Service {
	s := &service{
		funnels:  funnels,
		steps:    steps,
		migrator: elements.DefaultMigrator(),
		logger:   logging.NoOp(),
		now:      time.Now,
		idgen:    uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) CreateFunnel(ctx context.Context, input CreateFunnelInput) (*Funnel, error) {
	candidate := input.Slug
	if candidate == "" {
		candidate = input.Name
	}
	if candidate == "" {
		return nil, ErrFunnelSlugRequired
	}
	normalized, err := slug.Normalize(candidate)
	if err != nil {
		return nil, fmt.Errorf("funnels: normalize slug %q: %w", candidate, err)
	}
	now := s.now()
	funnel := &Funnel{
		ID:        s.idgen(),
		Slug:      normalized,
		Name:      input.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	record, err := s.funnels.Create(ctx, funnel)
	if err != nil {
		return nil, fmt.Errorf("funnels: create funnel: %w", err)
	}
	s.logger.Info("funnels.create", "funnel_id", record.ID.String(), "slug", record.Slug)
	return record, nil
}

func (s *service) GetFunnel(ctx context.Context, id uuid.UUID) (*Funnel, error) {
	return s.funnels.GetByID(ctx, id)
}

func (s *service) GetFunnelBySlug(ctx context.Context, slug string) (*Funnel, error) {
	return s.funnels.GetBySlug(ctx, slug)
}

func (s *service) ListFunnels(ctx context.Context) ([]*Funnel, error) {
	return s.funnels.List(ctx)
}

func (s *service) DeleteFunnel(ctx context.Context, id uuid.UUID) error {
	steps, err := s.steps.ListByFunnel(ctx, id)
	if err != nil {
		return fmt.Errorf("funnels: list steps: %w", err)
	}
	for _, step := range steps {
		if err := s.steps.Delete(ctx, step.ID); err != nil {
			return fmt.Errorf("funnels: delete step %s: %w", step.ID, err)
		}
	}
	return s.funnels.Delete(ctx, id)
}

func (s *service) AddStep(ctx context.Context, input AddStepInput) (*Step, error) {
	if _, err := s.funnels.GetByID(ctx, input.FunnelID); err != nil {
		return nil, err
	}
	existing, err := s.steps.ListByFunnel(ctx, input.FunnelID)
	if err != nil {
		return nil, fmt.Errorf("funnels: list steps: %w", err)
	}

	position := len(existing)
	if input.Position != nil {
		position = *input.Position
		if position < 0 || position > len(existing) {
			position = len(existing)
		}
	}

	now := s.now()
	step := &Step{
		ID:        s.idgen(),
		FunnelID:  input.FunnelID,
		Title:     input.Title,
		Position:  position,
		Elements:  []StepElement{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	record, err := s.steps.Create(ctx, step)
	if err != nil {
		return nil, fmt.Errorf("funnels: create step: %w", err)
	}

	// shift later siblings down
	for _, sibling := range existing {
		if sibling.Position >= position {
			sibling.Position++
			sibling.UpdatedAt = now
			if _, err := s.steps.Update(ctx, sibling); err != nil {
				return nil, fmt.Errorf("funnels: reposition step %s: %w", sibling.ID, err)
			}
		}
	}

	s.logger.Info("funnels.step.add", "step_id", record.ID.String(), "position", position)
	return record, nil
}

func (s *service) RenameStep(ctx context.Context, stepID uuid.UUID, title string) (*Step, error) {
	step, err := s.steps.GetByID(ctx, stepID)
	if err != nil {
		return nil, err
	}
	step.Title = title
	step.UpdatedAt = s.now()
	return s.steps.Update(ctx, step)
}

func (s *service) DeleteStep(ctx context.Context, stepID uuid.UUID) error {
	return s.steps.Delete(ctx, stepID)
}

// LoadStep decodes the step's element document into a Collection. Legacy
// content shapes are migrated before the collection is built; a changed
// document is written back immediately so the migration runs once per
// step, not once per panel mount.
func (s *service) LoadStep(ctx context.Context, stepID uuid.UUID, opts ...elements.CollectionOption) (*elements.Collection, error) {
	step, err := s.steps.GetByID(ctx, stepID)
	if err != nil {
		return nil, err
	}

	list := DecodeElements(step.Elements)
	migrated, err := s.migrator.RunAll(list)
	if err != nil {
		return nil, fmt.Errorf("funnels: migrate step %s: %w", stepID, err)
	}
	if migrated {
		step.Elements = EncodeElements(list)
		step.UpdatedAt = s.now()
		if _, err := s.steps.Update(ctx, step); err != nil {
			return nil, fmt.Errorf("funnels: persist migrated step %s: %w", stepID, err)
		}
		s.logger.Info("funnels.step.migrated", "step_id", stepID.String())
	}

	return elements.NewCollection(list, opts...), nil
}

// SaveStep encodes the collection back into the step's element document.
func (s *service) SaveStep(ctx context.Context, stepID uuid.UUID, collection *elements.Collection) (*Step, error) {
	step, err := s.steps.GetByID(ctx, stepID)
	if err != nil {
		return nil, err
	}
	step.Elements = EncodeElements(collection.Elements())
	step.UpdatedAt = s.now()
	record, err := s.steps.Update(ctx, step)
	if err != nil {
		return nil, fmt.Errorf("funnels: save step %s: %w", stepID, err)
	}
	s.logger.Debug("funnels.step.save", "step_id", stepID.String(), "elements", len(step.Elements))
	return record, nil
}

// StepDirectory returns the read-only step listing for one funnel, used to
// populate "navigate to step" selectors.
func (s *service) StepDirectory(funnelID uuid.UUID) interfaces.StepDirectory {
	return &stepDirectory{service: s, funnelID: funnelID}
}

type stepDirectory struct {
	service  *service
	funnelID uuid.UUID
}

func (d *stepDirectory) Steps(ctx context.Context) ([]interfaces.StepRef, error) {
	steps, err := d.service.steps.ListByFunnel(ctx, d.funnelID)
	if err != nil {
		return nil, err
	}
	refs := make([]interfaces.StepRef, 0, len(steps))
	for _, step := range steps {
		refs = append(refs, interfaces.StepRef{ID: step.ID, Title: step.Title})
	}
	return refs, nil
}
