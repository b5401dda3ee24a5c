package panels

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-funnel/internal/elements"
	"github.com/goliatone/go-funnel/pkg/interfaces"
)

// RangePanel edits height and weight inputs: a unit, user-configurable
// min/max bounds and a default value. Manual entry outside the configured
// bounds is rejected, not clamped, because the bounds themselves are what
// the editor is configuring.
type RangePanel struct {
	*session
	units []string
}

// SetUnit commits the measurement unit.
func (p *RangePanel) SetUnit(ctx context.Context, unit string) error {
	allowed := make([]any, len(p.units))
	for i, u := range p.units {
		allowed[i] = u
	}
	if err := validation.Validate(unit, validation.Required, validation.In(allowed...)); err != nil {
		return err
	}
	return p.apply(ctx, elements.Content{"unit": unit})
}

// SetBounds commits new min/max bounds. The current default value is
// clamped into the new range so the element stays consistent.
func (p *RangePanel) SetBounds(ctx context.Context, min, max float64) error {
	if min >= max {
		return fmt.Errorf("%w: min %v must be below max %v", ErrOutOfRange, min, max)
	}
	value := clampFloat(p.Content().Float("value", min), min, max)
	return p.apply(ctx, elements.Content{"min": min, "max": max, "value": value})
}

// SetValue commits a new default value. Values outside the configured
// bounds are rejected and the previous value is retained.
func (p *RangePanel) SetValue(ctx context.Context, value float64) error {
	content := p.Content()
	min := content.Float("min", 0)
	max := content.Float("max", 0)
	if value < min || value > max {
		return fmt.Errorf("%w: %v outside [%v, %v]", ErrOutOfRange, value, min, max)
	}
	return p.apply(ctx, elements.Content{"value": value})
}

// LevelPanel edits progress level bars. Percentages clamp to [0, 100].
type LevelPanel struct {
	*session
}

// SetLabel proposes a new label on the content window.
func (p *LevelPanel) SetLabel(label string) {
	p.propose(elements.Content{"label": label})
}

// SetPercent commits the fill percentage, clamped to [0, 100].
func (p *LevelPanel) SetPercent(ctx context.Context, percent float64) error {
	return p.apply(ctx, elements.Content{"percent": clampFloat(percent, 0, 100)})
}

// RatingPanel edits star rating inputs.
type RatingPanel struct {
	*session
}

// SetTitle proposes a new title on the content window.
func (p *RatingPanel) SetTitle(title string) {
	p.propose(elements.Content{"title": title})
}

// SetMax commits the rating scale size, clamped to [1, 10].
func (p *RatingPanel) SetMax(ctx context.Context, max int) error {
	return p.apply(ctx, elements.Content{"max": clampInt(max, 1, 10)})
}

// SetIcon commits the rating icon.
func (p *RatingPanel) SetIcon(ctx context.Context, icon string) error {
	if err := validation.Validate(icon, validation.Required,
		validation.In("star", "heart", "circle")); err != nil {
		return err
	}
	return p.apply(ctx, elements.Content{"icon": icon})
}

// SpacerPanel edits vertical spacing.
type SpacerPanel struct {
	*session
}

// SetHeight commits the spacer height in pixels, clamped to [0, 512].
func (p *SpacerPanel) SetHeight(ctx context.Context, height int) error {
	return p.apply(ctx, elements.Content{"height": clampInt(height, 0, 512)})
}

// LoadingPanel edits interstitial loading screens.
type LoadingPanel struct {
	*session
	steps interfaces.StepDirectory
}

// SetText proposes the loading message on the content window.
func (p *LoadingPanel) SetText(text string) {
	p.propose(elements.Content{"text": text})
}

// SetDuration commits the display duration in seconds, clamped to [1, 30].
func (p *LoadingPanel) SetDuration(ctx context.Context, seconds int) error {
	return p.apply(ctx, elements.Content{"duration": clampInt(seconds, 1, 30)})
}

// SetNavigation validates and commits where the funnel goes when the
// loading screen finishes.
func (p *LoadingPanel) SetNavigation(ctx context.Context, nav Navigation) error {
	return setNavigation(ctx, p.session, p.steps, nav)
}
