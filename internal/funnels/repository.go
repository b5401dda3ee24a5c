package funnels

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FunnelRepository exposes persistence operations for funnel records.
type FunnelRepository interface {
	Create(ctx context.Context, funnel *Funnel) (*Funnel, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Funnel, error)
	GetBySlug(ctx context.Context, slug string) (*Funnel, error)
	List(ctx context.Context) ([]*Funnel, error)
	Update(ctx context.Context, funnel *Funnel) (*Funnel, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// StepRepository exposes persistence operations for funnel steps.
type StepRepository interface {
	Create(ctx context.Context, step *Step) (*Step, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Step, error)
	ListByFunnel(ctx context.Context, funnelID uuid.UUID) ([]*Step, error)
	Update(ctx context.Context, step *Step) (*Step, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NewFunnelRepository creates a repository for Funnel entities.
func NewFunnelRepository(db *bun.DB) repository.Repository[*Funnel] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Funnel]{
		NewRecord: func() *Funnel { return &Funnel{} },
		GetID: func(f *Funnel) uuid.UUID {
			return f.ID
		},
		SetID: func(f *Funnel, id uuid.UUID) {
			f.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(f *Funnel) string {
			return f.Slug
		},
	})
}

// NewStepRepository creates a repository for Step entities.
func NewStepRepository(db *bun.DB) repository.Repository[*Step] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Step]{
		NewRecord: func() *Step { return &Step{} },
		GetID: func(s *Step) uuid.UUID {
			return s.ID
		},
		SetID: func(s *Step, id uuid.UUID) {
			s.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(s *Step) string {
			return s.ID.String()
		},
	})
}
