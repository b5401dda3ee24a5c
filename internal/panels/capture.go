package panels

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-funnel/internal/elements"
	"github.com/goliatone/go-funnel/pkg/interfaces"
)

// Capture field kinds accepted by AddField and SetFieldType.
var captureFieldTypes = []any{"email", "phone", "text", "name"}

// CapturePanel edits lead capture forms: an ordered list of input fields
// plus a submit button. At least one field always remains.
type CapturePanel struct {
	*session
	steps interfaces.StepDirectory
}

// SetTitle proposes a new form title on the content window.
func (p *CapturePanel) SetTitle(title string) {
	p.propose(elements.Content{"title": title})
}

// SetButtonLabel proposes a new submit label on the content window.
func (p *CapturePanel) SetButtonLabel(label string) {
	p.propose(elements.Content{"buttonLabel": label})
}

// AddField appends a capture field of the given kind.
func (p *CapturePanel) AddField(ctx context.Context, fieldType, placeholder string) (string, error) {
	if err := validation.Validate(fieldType, validation.Required, validation.In(captureFieldTypes...)); err != nil {
		return "", err
	}
	id := uuid.New().String()
	field := map[string]any{
		"id":          id,
		"type":        fieldType,
		"placeholder": placeholder,
		"required":    false,
	}
	content := p.Content()
	partial := elements.InsertSubItem(content, "captureFields",
		len(elements.SubItems(content, "captureFields")), field)
	if err := p.apply(ctx, partial); err != nil {
		return "", err
	}
	return id, nil
}

// RemoveField removes a capture field, keeping at least one.
func (p *CapturePanel) RemoveField(ctx context.Context, fieldID string) error {
	partial, err := elements.RemoveSubItem(p.Content(), "captureFields", fieldID,
		elements.Floor(elements.TypeCapture, "captureFields"))
	if err != nil {
		return err
	}
	return p.apply(ctx, partial)
}

// SetFieldPlaceholder replaces one field's placeholder text.
func (p *CapturePanel) SetFieldPlaceholder(ctx context.Context, fieldID, placeholder string) error {
	return p.updateField(ctx, fieldID, func(field map[string]any) {
		field["placeholder"] = placeholder
	})
}

// SetFieldType changes one field's input kind.
func (p *CapturePanel) SetFieldType(ctx context.Context, fieldID, fieldType string) error {
	if err := validation.Validate(fieldType, validation.Required, validation.In(captureFieldTypes...)); err != nil {
		return err
	}
	return p.updateField(ctx, fieldID, func(field map[string]any) {
		field["type"] = fieldType
	})
}

// SetFieldRequired toggles whether the field must be filled before submit.
func (p *CapturePanel) SetFieldRequired(ctx context.Context, fieldID string, required bool) error {
	return p.updateField(ctx, fieldID, func(field map[string]any) {
		field["required"] = required
	})
}

// SetNavigation validates and commits the post-submit navigation target.
func (p *CapturePanel) SetNavigation(ctx context.Context, nav Navigation) error {
	return setNavigation(ctx, p.session, p.steps, nav)
}

func (p *CapturePanel) updateField(ctx context.Context, fieldID string, mutate func(map[string]any)) error {
	partial, err := elements.ReplaceSubItem(p.Content(), "captureFields", fieldID,
		func(field map[string]any) map[string]any {
			mutate(field)
			return field
		})
	if err != nil {
		return err
	}
	return p.apply(ctx, partial)
}
