package funnels

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-funnel/internal/elements"
)

var ErrFunnelSlugRequired = errors.New("funnels: slug is required")

// Funnel is a published flow: an ordered sequence of steps the visitor
// walks through.
type Funnel struct {
	bun.BaseModel `bun:"table:funnels,alias:f"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Slug      string    `bun:"slug,notnull" json:"slug"`
	Name      string    `bun:"name,notnull" json:"name"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	Steps     []*Step   `bun:"rel:has-many,join:id=funnel_id" json:"steps,omitempty"`
}

// Step is one screen of a funnel. Its canvas elements are stored as a
// single JSON document; the document is decoded into a Collection for
// editing and encoded back on save.
type Step struct {
	bun.BaseModel `bun:"table:funnel_steps,alias:fs"`

	ID        uuid.UUID     `bun:",pk,type:uuid" json:"id"`
	FunnelID  uuid.UUID     `bun:"funnel_id,notnull,type:uuid" json:"funnel_id"`
	Title     string        `bun:"title,notnull" json:"title"`
	Position  int           `bun:"position,notnull,default:0" json:"position"`
	Elements  []StepElement `bun:"elements,type:jsonb,notnull" json:"elements"`
	CreatedAt time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// StepElement is the persisted form of one canvas element.
type StepElement struct {
	ID      uuid.UUID      `json:"id"`
	Type    string         `json:"type"`
	Content map[string]any `json:"content"`
}

// DecodeElements converts the persisted document into canvas elements.
func DecodeElements(doc []StepElement) []*elements.Element {
	out := make([]*elements.Element, 0, len(doc))
	for _, record := range doc {
		content := elements.Content(record.Content)
		out = append(out, &elements.Element{
			ID:      record.ID,
			Type:    elements.Type(record.Type),
			Content: content.Clone(),
		})
	}
	return out
}

// EncodeElements converts canvas elements into the persisted document.
func EncodeElements(list []*elements.Element) []StepElement {
	doc := make([]StepElement, 0, len(list))
	for _, element := range list {
		doc = append(doc, StepElement{
			ID:      element.ID,
			Type:    string(element.Type),
			Content: element.Content.Clone(),
		})
	}
	return doc
}

// NotFoundError is returned when a funnel resource cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("funnels: %s %q not found", e.Resource, e.Key)
}

func cloneFunnel(f *Funnel) *Funnel {
	if f == nil {
		return nil
	}
	out := *f
	out.Steps = make([]*Step, 0, len(f.Steps))
	for _, step := range f.Steps {
		out.Steps = append(out.Steps, cloneStep(step))
	}
	return &out
}

func cloneStep(s *Step) *Step {
	if s == nil {
		return nil
	}
	out := *s
	out.Elements = make([]StepElement, 0, len(s.Elements))
	for _, element := range s.Elements {
		content := elements.Content(element.Content)
		out.Elements = append(out.Elements, StepElement{
			ID:      element.ID,
			Type:    element.Type,
			Content: content.Clone(),
		})
	}
	return &out
}
