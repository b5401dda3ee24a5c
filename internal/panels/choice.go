package panels

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-funnel/internal/assets"
	"github.com/goliatone/go-funnel/internal/elements"
	"github.com/goliatone/go-funnel/pkg/interfaces"
)

// ChoicePanel edits multiple choice elements, with and without option
// images. Option arrays are rebuilt copy-on-write; order is preserved and
// option ids never change on edit.
type ChoicePanel struct {
	*session
	steps interfaces.StepDirectory
	media *assets.Pipeline
}

func newChoicePanel(s *session, deps Deps) *ChoicePanel {
	return &ChoicePanel{session: s, steps: deps.Steps, media: deps.Media}
}

// SetTitle proposes a new question title on the content window.
func (p *ChoicePanel) SetTitle(title string) {
	p.propose(elements.Content{"title": title})
}

// SetAllowMultiple commits whether more than one option can be selected.
func (p *ChoicePanel) SetAllowMultiple(ctx context.Context, allow bool) error {
	return p.apply(ctx, elements.Content{"allowMultiple": allow})
}

// SetAutoAdvance commits whether selecting an option advances the funnel.
func (p *ChoicePanel) SetAutoAdvance(ctx context.Context, auto bool) error {
	return p.apply(ctx, elements.Content{"autoAdvance": auto})
}

// SetRequiredAnswer commits whether the question must be answered.
func (p *ChoicePanel) SetRequiredAnswer(ctx context.Context, required bool) error {
	return p.apply(ctx, elements.Content{"requiredAnswer": required})
}

// SetColumns commits the grid column count for image choices, clamped to
// [1, 4].
func (p *ChoicePanel) SetColumns(ctx context.Context, columns int) error {
	return p.apply(ctx, elements.Content{"columns": clampInt(columns, 1, 4)})
}

// UpdateOptionText replaces one option's label, keeping its id and order.
func (p *ChoicePanel) UpdateOptionText(ctx context.Context, optionID, text string) error {
	partial, err := elements.ReplaceSubItem(p.Content(), "options", optionID,
		func(option map[string]any) map[string]any {
			option["text"] = text
			return option
		})
	if err != nil {
		return err
	}
	return p.apply(ctx, partial)
}

// AddOption inserts a new option at index, clamped to the array bounds.
func (p *ChoicePanel) AddOption(ctx context.Context, index int, text string) (string, error) {
	id := uuid.New().String()
	option := map[string]any{"id": id, "text": text}
	if p.typ == elements.TypeMultipleChoiceImage {
		option["imageUrl"] = ""
		option["imageManaged"] = false
	}
	partial := elements.InsertSubItem(p.Content(), "options", index, option)
	if err := p.apply(ctx, partial); err != nil {
		return "", err
	}
	return id, nil
}

// RemoveOption removes an option, honoring the minimum of one. A removed
// image option releases its managed asset best-effort.
func (p *ChoicePanel) RemoveOption(ctx context.Context, optionID string) error {
	content := p.Content()
	removed, _ := elements.SubItemByID(content, "options", optionID)
	partial, err := elements.RemoveSubItem(content, "options", optionID,
		elements.Floor(p.typ, "options"))
	if err != nil {
		return err
	}
	if err := p.apply(ctx, partial); err != nil {
		return err
	}
	p.releaseOptionAsset(ctx, removed)
	return nil
}

// SetOptionImage uploads an image for one option and commits its URL plus
// bookkeeping metadata. The option's previous managed asset is replaced.
func (p *ChoicePanel) SetOptionImage(ctx context.Context, optionID string, upload MediaUpload) error {
	if p.media == nil {
		return ErrMissingMedia
	}
	option, ok := elements.SubItemByID(p.Content(), "options", optionID)
	if !ok {
		return elements.ErrSubItemNotFound
	}

	asset, err := p.media.Upload(ctx, assets.UploadInput{
		Data:        upload.Data,
		Filename:    upload.Filename,
		ContentType: upload.ContentType,
		OwnerID:     p.id,
		Kind:        assets.KindChoiceImage,
		Slot:        optionID,
		PreviousURL: managedURL(option, "imageUrl", "imageManaged"),
	})
	if err != nil {
		return err
	}

	partial, err := elements.ReplaceSubItem(p.Content(), "options", optionID,
		func(option map[string]any) map[string]any {
			option["imageUrl"] = asset.URL
			option["imageManaged"] = true
			option["imageFilename"] = asset.Filename
			return option
		})
	if err != nil {
		return err
	}
	return p.apply(ctx, partial)
}

// SetNavigation validates and commits the element's navigation target.
func (p *ChoicePanel) SetNavigation(ctx context.Context, nav Navigation) error {
	return setNavigation(ctx, p.session, p.steps, nav)
}

func (p *ChoicePanel) releaseOptionAsset(ctx context.Context, option map[string]any) {
	if p.media == nil || option == nil {
		return
	}
	if url := managedURL(option, "imageUrl", "imageManaged"); url != "" {
		p.media.Release(ctx, url)
	}
}

// MediaUpload is the file payload panels hand to the asset pipeline.
type MediaUpload struct {
	Data        []byte
	Filename    string
	ContentType string
}

func managedURL(item map[string]any, urlKey, managedKey string) string {
	if item == nil {
		return ""
	}
	managed, _ := item[managedKey].(bool)
	if !managed {
		return ""
	}
	url, _ := item[urlKey].(string)
	return url
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
