package panels

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-funnel/internal/assets"
	"github.com/goliatone/go-funnel/internal/elements"
)

// ImagePanel edits standalone image elements. Uploaded assets are managed
// by the pipeline; externally linked URLs are stored as-is and never
// deleted.
type ImagePanel struct {
	*session
	media *assets.Pipeline
}

// SetImage uploads a file and commits its URL plus bookkeeping metadata.
// A previously uploaded asset for this element is replaced.
func (p *ImagePanel) SetImage(ctx context.Context, upload MediaUpload) error {
	if p.media == nil {
		return ErrMissingMedia
	}
	asset, err := p.media.Upload(ctx, assets.UploadInput{
		Data:        upload.Data,
		Filename:    upload.Filename,
		ContentType: upload.ContentType,
		OwnerID:     p.id,
		Kind:        assets.KindImage,
		PreviousURL: managedURL(p.Content(), "imageUrl", "imageManaged"),
	})
	if err != nil {
		return err
	}
	return p.apply(ctx, elements.Content{
		"imageUrl":      asset.URL,
		"imageManaged":  true,
		"imageFilename": asset.Filename,
	})
}

// SetExternalURL commits a hot-linked image URL. A previously uploaded
// managed asset is released best-effort.
func (p *ImagePanel) SetExternalURL(ctx context.Context, raw string) error {
	if err := validation.Validate(raw, validation.Required, validation.By(validHTTPURL)); err != nil {
		return err
	}
	previous := managedURL(p.Content(), "imageUrl", "imageManaged")
	if err := p.apply(ctx, elements.Content{
		"imageUrl":      raw,
		"imageManaged":  false,
		"imageFilename": "",
	}); err != nil {
		return err
	}
	if p.media != nil && previous != "" {
		p.media.Release(ctx, previous)
	}
	return nil
}

// SetAlt proposes the accessibility text on the content window.
func (p *ImagePanel) SetAlt(alt string) {
	p.propose(elements.Content{"alt": alt})
}

// CarouselPanel edits slide carousels. At least one slide remains.
type CarouselPanel struct {
	*session
	media *assets.Pipeline
}

// AddSlide appends an empty slide.
func (p *CarouselPanel) AddSlide(ctx context.Context) (string, error) {
	id := uuid.New().String()
	slide := map[string]any{"id": id, "imageUrl": "", "imageManaged": false, "caption": ""}
	content := p.Content()
	partial := elements.InsertSubItem(content, "slides",
		len(elements.SubItems(content, "slides")), slide)
	if err := p.apply(ctx, partial); err != nil {
		return "", err
	}
	return id, nil
}

// RemoveSlide removes a slide, keeping at least one. A removed slide's
// managed asset is released best-effort.
func (p *CarouselPanel) RemoveSlide(ctx context.Context, slideID string) error {
	content := p.Content()
	removed, _ := elements.SubItemByID(content, "slides", slideID)
	partial, err := elements.RemoveSubItem(content, "slides", slideID,
		elements.Floor(elements.TypeCarousel, "slides"))
	if err != nil {
		return err
	}
	if err := p.apply(ctx, partial); err != nil {
		return err
	}
	if p.media != nil {
		if url := managedURL(removed, "imageUrl", "imageManaged"); url != "" {
			p.media.Release(ctx, url)
		}
	}
	return nil
}

// SetSlideImage uploads an image for one slide, replacing its previous
// managed asset.
func (p *CarouselPanel) SetSlideImage(ctx context.Context, slideID string, upload MediaUpload) error {
	if p.media == nil {
		return ErrMissingMedia
	}
	slide, ok := elements.SubItemByID(p.Content(), "slides", slideID)
	if !ok {
		return elements.ErrSubItemNotFound
	}

	asset, err := p.media.Upload(ctx, assets.UploadInput{
		Data:        upload.Data,
		Filename:    upload.Filename,
		ContentType: upload.ContentType,
		OwnerID:     p.id,
		Kind:        assets.KindSlide,
		Slot:        slideID,
		PreviousURL: managedURL(slide, "imageUrl", "imageManaged"),
	})
	if err != nil {
		return err
	}

	partial, err := elements.ReplaceSubItem(p.Content(), "slides", slideID,
		func(slide map[string]any) map[string]any {
			slide["imageUrl"] = asset.URL
			slide["imageManaged"] = true
			slide["imageFilename"] = asset.Filename
			return slide
		})
	if err != nil {
		return err
	}
	return p.apply(ctx, partial)
}

// SetSlideCaption replaces one slide's caption.
func (p *CarouselPanel) SetSlideCaption(ctx context.Context, slideID, caption string) error {
	partial, err := elements.ReplaceSubItem(p.Content(), "slides", slideID,
		func(slide map[string]any) map[string]any {
			slide["caption"] = caption
			return slide
		})
	if err != nil {
		return err
	}
	return p.apply(ctx, partial)
}

// SetAutoplay commits whether slides advance automatically.
func (p *CarouselPanel) SetAutoplay(ctx context.Context, autoplay bool) error {
	return p.apply(ctx, elements.Content{"autoplay": autoplay})
}

// SetInterval commits the autoplay interval in seconds, clamped to [1, 30].
func (p *CarouselPanel) SetInterval(ctx context.Context, seconds int) error {
	return p.apply(ctx, elements.Content{"interval": clampInt(seconds, 1, 30)})
}

// TestimonialsPanel edits social proof cards. At least one testimonial
// remains.
type TestimonialsPanel struct {
	*session
	media *assets.Pipeline
}

// SetTitle proposes a new title on the content window.
func (p *TestimonialsPanel) SetTitle(title string) {
	p.propose(elements.Content{"title": title})
}

// AddTestimonial appends a testimonial card.
func (p *TestimonialsPanel) AddTestimonial(ctx context.Context, name, text string) (string, error) {
	id := uuid.New().String()
	card := map[string]any{
		"id":            id,
		"name":          name,
		"text":          text,
		"rating":        5,
		"avatarUrl":     "",
		"avatarManaged": false,
	}
	content := p.Content()
	partial := elements.InsertSubItem(content, "testimonials",
		len(elements.SubItems(content, "testimonials")), card)
	if err := p.apply(ctx, partial); err != nil {
		return "", err
	}
	return id, nil
}

// RemoveTestimonial removes a card, keeping at least one. Its managed
// avatar is released best-effort.
func (p *TestimonialsPanel) RemoveTestimonial(ctx context.Context, cardID string) error {
	content := p.Content()
	removed, _ := elements.SubItemByID(content, "testimonials", cardID)
	partial, err := elements.RemoveSubItem(content, "testimonials", cardID,
		elements.Floor(elements.TypeTestimonials, "testimonials"))
	if err != nil {
		return err
	}
	if err := p.apply(ctx, partial); err != nil {
		return err
	}
	if p.media != nil {
		if url := managedURL(removed, "avatarUrl", "avatarManaged"); url != "" {
			p.media.Release(ctx, url)
		}
	}
	return nil
}

// UpdateTestimonial replaces a card's name, text and rating. Ratings clamp
// to [1, 5].
func (p *TestimonialsPanel) UpdateTestimonial(ctx context.Context, cardID, name, text string, rating int) error {
	partial, err := elements.ReplaceSubItem(p.Content(), "testimonials", cardID,
		func(card map[string]any) map[string]any {
			card["name"] = name
			card["text"] = text
			card["rating"] = clampInt(rating, 1, 5)
			return card
		})
	if err != nil {
		return err
	}
	return p.apply(ctx, partial)
}

// SetAvatar uploads a card's avatar image, replacing its previous managed
// asset.
func (p *TestimonialsPanel) SetAvatar(ctx context.Context, cardID string, upload MediaUpload) error {
	if p.media == nil {
		return ErrMissingMedia
	}
	card, ok := elements.SubItemByID(p.Content(), "testimonials", cardID)
	if !ok {
		return elements.ErrSubItemNotFound
	}

	asset, err := p.media.Upload(ctx, assets.UploadInput{
		Data:        upload.Data,
		Filename:    upload.Filename,
		ContentType: upload.ContentType,
		OwnerID:     p.id,
		Kind:        assets.KindAvatar,
		Slot:        cardID,
		PreviousURL: managedURL(card, "avatarUrl", "avatarManaged"),
	})
	if err != nil {
		return err
	}

	partial, err := elements.ReplaceSubItem(p.Content(), "testimonials", cardID,
		func(card map[string]any) map[string]any {
			card["avatarUrl"] = asset.URL
			card["avatarManaged"] = true
			card["avatarFilename"] = asset.Filename
			return card
		})
	if err != nil {
		return err
	}
	return p.apply(ctx, partial)
}
