package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// StepRef is the read-only projection of a funnel step exposed to
// navigation editors ("go to step" selectors).
type StepRef struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

// StepDirectory lists the steps of the funnel being edited. The funnel core
// only ever reads from it; ownership of the step list stays with the host.
type StepDirectory interface {
	Steps(ctx context.Context) ([]StepRef, error)
}
