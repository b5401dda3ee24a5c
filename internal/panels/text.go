package panels

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-funnel/internal/elements"
	"github.com/goliatone/go-funnel/internal/richtext"
	"github.com/goliatone/go-funnel/pkg/interfaces"
)

// TextPanel edits rich text elements. Typing and formatting go through the
// rich text document model and are committed debounced, so per-keystroke
// changes coalesce into one write.
type TextPanel struct {
	*session
}

// Text returns the current markup.
func (p *TextPanel) Text() string {
	return p.Content().String("text", "")
}

// SetText proposes a full markup replacement on the content window.
func (p *TextPanel) SetText(markup string) {
	p.propose(elements.Content{"text": markup})
}

// Format applies a formatting command to the current document and proposes
// the re-serialized markup.
func (p *TextPanel) Format(ctx context.Context, cmd richtext.FormatCommand) error {
	editor := richtext.NewEditor(richtext.Parse(p.Text()), richtext.WithLogger(p.logger))
	if err := editor.Format(ctx, cmd); err != nil {
		return err
	}
	p.propose(elements.Content{"text": editor.Document().Serialize()})
	return nil
}

// Replace applies a text replacement command to the current document and
// proposes the re-serialized markup.
func (p *TextPanel) Replace(ctx context.Context, cmd richtext.ReplaceCommand) error {
	editor := richtext.NewEditor(richtext.Parse(p.Text()), richtext.WithLogger(p.logger))
	if err := editor.Replace(ctx, cmd); err != nil {
		return err
	}
	p.propose(elements.Content{"text": editor.Document().Serialize()})
	return nil
}

// ButtonPanel edits call-to-action buttons.
type ButtonPanel struct {
	*session
	steps interfaces.StepDirectory
}

// SetLabel proposes a new button label on the content window.
func (p *ButtonPanel) SetLabel(label string) {
	p.propose(elements.Content{"label": label})
}

// SetNavigation validates and commits the button's navigation target.
func (p *ButtonPanel) SetNavigation(ctx context.Context, nav Navigation) error {
	return setNavigation(ctx, p.session, p.steps, nav)
}

// VideoPanel edits embedded video elements.
type VideoPanel struct {
	*session
}

// SetVideoURL validates and commits the video source URL.
func (p *VideoPanel) SetVideoURL(ctx context.Context, raw string) error {
	if err := validation.Validate(raw, validation.Required, validation.By(validHTTPURL)); err != nil {
		return err
	}
	return p.apply(ctx, elements.Content{"videoUrl": raw})
}

// SetAutoplay commits the autoplay flag.
func (p *VideoPanel) SetAutoplay(ctx context.Context, autoplay bool) error {
	return p.apply(ctx, elements.Content{"autoplay": autoplay})
}

// SetControls commits whether player controls are shown.
func (p *VideoPanel) SetControls(ctx context.Context, controls bool) error {
	return p.apply(ctx, elements.Content{"controls": controls})
}
