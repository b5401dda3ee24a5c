package elements

import (
	"github.com/google/uuid"
)

// Type is the closed enumeration of canvas element kinds. The set is shared
// by the defaults table, the panel dispatcher and the host renderer; adding
// a kind means extending the definitions table in definitions.go.
type Type string

const (
	TypeText                Type = "text"
	TypeMultipleChoice      Type = "multiple_choice"
	TypeMultipleChoiceImage Type = "multiple_choice_image"
	TypeButton              Type = "button"
	TypeImage               Type = "image"
	TypeCarousel            Type = "carousel"
	TypeHeight              Type = "height"
	TypeWeight              Type = "weight"
	TypeComparison          Type = "comparison"
	TypeArguments           Type = "arguments"
	TypeGraphics            Type = "graphics"
	TypeTestimonials        Type = "testimonials"
	TypeLevel               Type = "level"
	TypeCapture             Type = "capture"
	TypeLoading             Type = "loading"
	TypeCartesian           Type = "cartesian"
	TypeSpacer              Type = "spacer"
	TypeRating              Type = "rating"
	TypeVideo               Type = "video"
	TypePricing             Type = "pricing"
)

// Valid reports whether t belongs to the closed enumeration.
func (t Type) Valid() bool {
	_, ok := definitions[t]
	return ok
}

// Types returns the enumeration in registration order.
func Types() []Type {
	out := make([]Type, len(definitionOrder))
	copy(out, definitionOrder)
	return out
}

// Navigation action kinds stored under content["navigation"]["type"].
const (
	NavigationNext = "next"
	NavigationStep = "step"
	NavigationURL  = "url"
	NavigationNone = "none"
)

// Content is the open, type-dependent payload of an element. Panels read
// keys with defaults and write partial keys back; unknown keys round-trip
// untouched so older payloads survive newer code.
type Content map[string]any

// Clone returns a deep copy of the content tree. Nested maps and slices are
// copied; scalar values are shared (they are immutable through this API).
func (c Content) Clone() Content {
	if c == nil {
		return nil
	}
	return Content(cloneMap(map[string]any(c)))
}

// String reads a string key, returning fallback when absent or mistyped.
func (c Content) String(key, fallback string) string {
	if v, ok := c[key].(string); ok {
		return v
	}
	return fallback
}

// Float reads a numeric key, tolerating both float64 (JSON) and int values.
func (c Content) Float(key string, fallback float64) float64 {
	switch v := c[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return fallback
	}
}

// Bool reads a boolean key, returning fallback when absent or mistyped.
func (c Content) Bool(key string, fallback bool) bool {
	if v, ok := c[key].(bool); ok {
		return v
	}
	return fallback
}

// Map reads a nested mapping such as style or navigation. Returns nil when
// the key is absent or holds a different shape.
func (c Content) Map(key string) map[string]any {
	if v, ok := c[key].(map[string]any); ok {
		return v
	}
	return nil
}

// Element is one configurable unit placed on the funnel canvas.
type Element struct {
	ID      uuid.UUID `json:"id"`
	Type    Type      `json:"type"`
	Content Content   `json:"content"`
}

// Clone returns a deep structural copy sharing nothing mutable with the
// receiver. The id is preserved; use Collection.Duplicate for copies that
// need fresh identity.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	return &Element{
		ID:      e.ID,
		Type:    e.Type,
		Content: e.Content.Clone(),
	}
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		return cloneMap(tv)
	case Content:
		return Content(cloneMap(map[string]any(tv)))
	case []any:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = cloneValue(item)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(tv))
		for i, item := range tv {
			out[i] = cloneMap(item)
		}
		return out
	default:
		return v
	}
}
