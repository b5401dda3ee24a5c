package panels

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-funnel/internal/elements"
)

// ComparisonPanel edits before/after comparison tables. The table keeps at
// least two entries.
type ComparisonPanel struct {
	*session
}

// SetTitle proposes a new title on the content window.
func (p *ComparisonPanel) SetTitle(title string) {
	p.propose(elements.Content{"title": title})
}

// UpdateItemLabel replaces one entry's label, keeping its id and order.
func (p *ComparisonPanel) UpdateItemLabel(ctx context.Context, itemID, label string) error {
	partial, err := elements.ReplaceSubItem(p.Content(), "comparisonData", itemID,
		func(item map[string]any) map[string]any {
			item["label"] = label
			return item
		})
	if err != nil {
		return err
	}
	return p.apply(ctx, partial)
}

// SetItemHighlight toggles one entry's highlight flag.
func (p *ComparisonPanel) SetItemHighlight(ctx context.Context, itemID string, highlight bool) error {
	partial, err := elements.ReplaceSubItem(p.Content(), "comparisonData", itemID,
		func(item map[string]any) map[string]any {
			item["highlight"] = highlight
			return item
		})
	if err != nil {
		return err
	}
	return p.apply(ctx, partial)
}

// AddItem inserts a new entry at index.
func (p *ComparisonPanel) AddItem(ctx context.Context, index int, label string) (string, error) {
	id := uuid.New().String()
	item := map[string]any{"id": id, "label": label, "highlight": false}
	partial := elements.InsertSubItem(p.Content(), "comparisonData", index, item)
	if err := p.apply(ctx, partial); err != nil {
		return "", err
	}
	return id, nil
}

// RemoveItem removes an entry, keeping at least two.
func (p *ComparisonPanel) RemoveItem(ctx context.Context, itemID string) error {
	partial, err := elements.RemoveSubItem(p.Content(), "comparisonData", itemID,
		elements.Floor(elements.TypeComparison, "comparisonData"))
	if err != nil {
		return err
	}
	return p.apply(ctx, partial)
}

// ArgumentsPanel edits selling point lists. At least one argument remains.
type ArgumentsPanel struct {
	*session
}

// SetTitle proposes a new title on the content window.
func (p *ArgumentsPanel) SetTitle(title string) {
	p.propose(elements.Content{"title": title})
}

// AddArgument appends an argument with an icon and text.
func (p *ArgumentsPanel) AddArgument(ctx context.Context, icon, text string) (string, error) {
	id := uuid.New().String()
	item := map[string]any{"id": id, "icon": icon, "text": text}
	content := p.Content()
	partial := elements.InsertSubItem(content, "argumentItems",
		len(elements.SubItems(content, "argumentItems")), item)
	if err := p.apply(ctx, partial); err != nil {
		return "", err
	}
	return id, nil
}

// RemoveArgument removes an argument, keeping at least one.
func (p *ArgumentsPanel) RemoveArgument(ctx context.Context, itemID string) error {
	partial, err := elements.RemoveSubItem(p.Content(), "argumentItems", itemID,
		elements.Floor(elements.TypeArguments, "argumentItems"))
	if err != nil {
		return err
	}
	return p.apply(ctx, partial)
}

// UpdateArgument replaces one argument's icon and text.
func (p *ArgumentsPanel) UpdateArgument(ctx context.Context, itemID, icon, text string) error {
	partial, err := elements.ReplaceSubItem(p.Content(), "argumentItems", itemID,
		func(item map[string]any) map[string]any {
			item["icon"] = icon
			item["text"] = text
			return item
		})
	if err != nil {
		return err
	}
	return p.apply(ctx, partial)
}
