package panels

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-funnel/internal/elements"
)

// GraphicsPanel edits progress chart elements. Point x-coordinates are
// positional: inserting or removing a point renumbers x over the whole
// series so it stays sequential.
type GraphicsPanel struct {
	*session
}

// SetChartType commits the chart rendering kind.
func (p *GraphicsPanel) SetChartType(ctx context.Context, chartType string) error {
	if err := validation.Validate(chartType, validation.Required,
		validation.In("line", "bar", "area")); err != nil {
		return err
	}
	return p.apply(ctx, elements.Content{"chartType": chartType})
}

// AddPoint inserts a data point at index with the given y value.
func (p *GraphicsPanel) AddPoint(ctx context.Context, index int, y float64) (string, error) {
	id := uuid.New().String()
	point := map[string]any{"id": id, "x": 0, "y": y, "label": ""}
	partial := elements.InsertSubItem(p.Content(), "chartData", index, point)
	partial = elements.RenumberField(partial, "chartData", "x")
	if err := p.apply(ctx, partial); err != nil {
		return "", err
	}
	return id, nil
}

// RemovePoint removes a data point and renumbers the series.
func (p *GraphicsPanel) RemovePoint(ctx context.Context, pointID string) error {
	partial, err := elements.RemoveSubItem(p.Content(), "chartData", pointID, 0)
	if err != nil {
		return err
	}
	partial = elements.RenumberField(partial, "chartData", "x")
	return p.apply(ctx, partial)
}

// SetPointValue replaces one point's y value.
func (p *GraphicsPanel) SetPointValue(ctx context.Context, pointID string, y float64) error {
	partial, err := elements.ReplaceSubItem(p.Content(), "chartData", pointID,
		func(point map[string]any) map[string]any {
			point["y"] = y
			return point
		})
	if err != nil {
		return err
	}
	return p.apply(ctx, partial)
}

// SetPointLabel replaces one point's label.
func (p *GraphicsPanel) SetPointLabel(ctx context.Context, pointID, label string) error {
	partial, err := elements.ReplaceSubItem(p.Content(), "chartData", pointID,
		func(point map[string]any) map[string]any {
			point["label"] = label
			return point
		})
	if err != nil {
		return err
	}
	return p.apply(ctx, partial)
}

// CartesianPanel edits labelled x/y charts. Like GraphicsPanel, x stays
// positional across inserts and removals.
type CartesianPanel struct {
	*session
}

// SetAxisLabels proposes both axis labels on the content window.
func (p *CartesianPanel) SetAxisLabels(xLabel, yLabel string) {
	p.propose(elements.Content{"xLabel": xLabel, "yLabel": yLabel})
}

// AddPoint inserts a point at index with the given y value.
func (p *CartesianPanel) AddPoint(ctx context.Context, index int, y float64) (string, error) {
	id := uuid.New().String()
	point := map[string]any{"id": id, "x": 0, "y": y}
	partial := elements.InsertSubItem(p.Content(), "chartPoints", index, point)
	partial = elements.RenumberField(partial, "chartPoints", "x")
	if err := p.apply(ctx, partial); err != nil {
		return "", err
	}
	return id, nil
}

// RemovePoint removes a point and renumbers the series.
func (p *CartesianPanel) RemovePoint(ctx context.Context, pointID string) error {
	partial, err := elements.RemoveSubItem(p.Content(), "chartPoints", pointID, 0)
	if err != nil {
		return err
	}
	partial = elements.RenumberField(partial, "chartPoints", "x")
	return p.apply(ctx, partial)
}

// SetPointValue replaces one point's y value.
func (p *CartesianPanel) SetPointValue(ctx context.Context, pointID string, y float64) error {
	partial, err := elements.ReplaceSubItem(p.Content(), "chartPoints", pointID,
		func(point map[string]any) map[string]any {
			point["y"] = y
			return point
		})
	if err != nil {
		return err
	}
	return p.apply(ctx, partial)
}
