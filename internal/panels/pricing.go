package panels

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-funnel/internal/elements"
	"github.com/goliatone/go-funnel/pkg/interfaces"
)

// PricingPanel edits plan tables. At least one plan remains, and at most
// one plan carries the highlight.
type PricingPanel struct {
	*session
	steps interfaces.StepDirectory
}

// SetTitle proposes a new title on the content window.
func (p *PricingPanel) SetTitle(title string) {
	p.propose(elements.Content{"title": title})
}

// AddPlan inserts a plan at index.
func (p *PricingPanel) AddPlan(ctx context.Context, index int, name, price, period string) (string, error) {
	id := uuid.New().String()
	plan := map[string]any{
		"id":        id,
		"name":      name,
		"price":     price,
		"period":    period,
		"features":  []any{},
		"highlight": false,
	}
	partial := elements.InsertSubItem(p.Content(), "plans", index, plan)
	if err := p.apply(ctx, partial); err != nil {
		return "", err
	}
	return id, nil
}

// RemovePlan removes a plan, keeping at least one.
func (p *PricingPanel) RemovePlan(ctx context.Context, planID string) error {
	partial, err := elements.RemoveSubItem(p.Content(), "plans", planID,
		elements.Floor(elements.TypePricing, "plans"))
	if err != nil {
		return err
	}
	return p.apply(ctx, partial)
}

// UpdatePlan replaces a plan's name, price and billing period.
func (p *PricingPanel) UpdatePlan(ctx context.Context, planID, name, price, period string) error {
	return p.updatePlan(ctx, planID, func(plan map[string]any) {
		plan["name"] = name
		plan["price"] = price
		plan["period"] = period
	})
}

// SetHighlight marks one plan as featured and clears the flag everywhere
// else, so the highlight stays exclusive.
func (p *PricingPanel) SetHighlight(ctx context.Context, planID string) error {
	content := p.Content()
	if _, ok := elements.SubItemByID(content, "plans", planID); !ok {
		return elements.ErrSubItemNotFound
	}
	partial := elements.MapSubItems(content, "plans", func(plan map[string]any) map[string]any {
		id, _ := plan["id"].(string)
		plan["highlight"] = id == planID
		return plan
	})
	return p.apply(ctx, partial)
}

// AddFeature appends a feature line to a plan.
func (p *PricingPanel) AddFeature(ctx context.Context, planID, feature string) error {
	return p.updatePlan(ctx, planID, func(plan map[string]any) {
		features, _ := plan["features"].([]any)
		plan["features"] = append(features, feature)
	})
}

// RemoveFeature deletes the feature line at index, clamped no-ops aside.
func (p *PricingPanel) RemoveFeature(ctx context.Context, planID string, index int) error {
	return p.updatePlan(ctx, planID, func(plan map[string]any) {
		features, _ := plan["features"].([]any)
		if index < 0 || index >= len(features) {
			return
		}
		plan["features"] = append(features[:index:index], features[index+1:]...)
	})
}

// SetNavigation validates and commits the plan selection target.
func (p *PricingPanel) SetNavigation(ctx context.Context, nav Navigation) error {
	return setNavigation(ctx, p.session, p.steps, nav)
}

func (p *PricingPanel) updatePlan(ctx context.Context, planID string, mutate func(map[string]any)) error {
	partial, err := elements.ReplaceSubItem(p.Content(), "plans", planID,
		func(plan map[string]any) map[string]any {
			mutate(plan)
			return plan
		})
	if err != nil {
		return err
	}
	return p.apply(ctx, partial)
}
