package panels

import (
	"context"
	"fmt"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-funnel/internal/elements"
	"github.com/goliatone/go-funnel/pkg/interfaces"
)

// Navigation is the edit payload for an element's navigation behavior.
// StepID is required when Type is "step"; URL when Type is "url".
// OpenInNewTab only applies to url targets.
type Navigation struct {
	Type         string
	StepID       string
	URL          string
	OpenInNewTab bool
}

func (n Navigation) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.Type, validation.Required,
			validation.In(
				elements.NavigationNext,
				elements.NavigationStep,
				elements.NavigationURL,
				elements.NavigationNone,
			)),
		validation.Field(&n.StepID,
			validation.When(n.Type == elements.NavigationStep, validation.Required),
		),
		validation.Field(&n.URL,
			validation.When(n.Type == elements.NavigationURL,
				validation.Required, validation.By(validHTTPURL)),
		),
	)
}

func validHTTPURL(value any) error {
	raw, _ := value.(string)
	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return validation.NewError("validation_url", "must be a valid URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return validation.NewError("validation_url_scheme", "must use http or https")
	}
	return nil
}

// setNavigation validates nav, resolves step targets against the funnel's
// step directory, and commits the navigation partial one level deep.
func setNavigation(ctx context.Context, s *session, steps interfaces.StepDirectory, nav Navigation) error {
	if err := nav.Validate(); err != nil {
		return err
	}

	leaves := map[string]any{"type": nav.Type}
	switch nav.Type {
	case elements.NavigationStep:
		if err := ensureStepExists(ctx, steps, nav.StepID); err != nil {
			return err
		}
		leaves["stepId"] = nav.StepID
	case elements.NavigationURL:
		leaves["url"] = nav.URL
		leaves["openInNewTab"] = nav.OpenInNewTab
	}

	return s.apply(ctx, elements.NavigationPartial(leaves))
}

func ensureStepExists(ctx context.Context, steps interfaces.StepDirectory, stepID string) error {
	if steps == nil {
		return fmt.Errorf("%w: no step directory", ErrUnknownStep)
	}
	id, err := uuid.Parse(stepID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownStep, stepID)
	}
	refs, err := steps.Steps(ctx)
	if err != nil {
		return fmt.Errorf("panels: list steps: %w", err)
	}
	for _, ref := range refs {
		if ref.ID == id {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownStep, stepID)
}
