package richtext

import (
	"context"
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-funnel/internal/commands"
	"github.com/goliatone/go-funnel/pkg/interfaces"
)

// ErrEmptyRange rejects formatting commands whose range selects nothing.
var ErrEmptyRange = errors.New("richtext: empty range")

// Style names a formatting attribute a command can toggle or set.
type Style string

const (
	StyleBold      Style = "bold"
	StyleItalic    Style = "italic"
	StyleHighlight Style = "highlight"
	StyleColor     Style = "color"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// FormatCommand toggles a boolean style over [Start, End) or sets a color.
// Boolean styles toggle: if every character in the range already carries the
// style it is removed, otherwise applied. StyleColor sets Value; an empty
// Value clears the color.
type FormatCommand struct {
	Start int
	End   int
	Style Style
	Value string
}

func (FormatCommand) Type() string { return "funnel.richtext.format" }

func (c FormatCommand) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Start, validation.Min(0)),
		validation.Field(&c.End, validation.Min(c.Start)),
		validation.Field(&c.Style, validation.Required,
			validation.In(StyleBold, StyleItalic, StyleHighlight, StyleColor)),
		validation.Field(&c.Value,
			validation.When(c.Style == StyleColor && c.Value != "",
				validation.Match(hexColor).Error("must be a hex color"))),
	)
}

// ReplaceCommand substitutes [Start, End) with Text. Inserted characters
// inherit the style of the character immediately before the range.
type ReplaceCommand struct {
	Start int
	End   int
	Text  string
}

func (ReplaceCommand) Type() string { return "funnel.richtext.replace" }

func (c ReplaceCommand) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Start, validation.Min(0)),
		validation.Field(&c.End, validation.Min(c.Start)),
	)
}

// Editor applies edit commands to a document. Commands go through the
// shared command handler so validation and failure wrapping match every
// other edit operation in the module.
type Editor struct {
	doc     *Document
	format  *commands.Handler[FormatCommand]
	replace *commands.Handler[ReplaceCommand]
}

// EditorOption configures an Editor.
type EditorOption func(*editorConfig)

type editorConfig struct {
	logger interfaces.Logger
}

// WithLogger attaches a logger to the editor's command handlers.
func WithLogger(logger interfaces.Logger) EditorOption {
	return func(cfg *editorConfig) {
		cfg.logger = logger
	}
}

// NewEditor wraps doc. A nil doc starts empty.
func NewEditor(doc *Document, opts ...EditorOption) *Editor {
	if doc == nil {
		doc = &Document{}
	}
	cfg := editorConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Editor{doc: doc}

	formatOpts := []commands.HandlerOption[FormatCommand]{
		commands.WithOperation[FormatCommand]("richtext.format"),
	}
	replaceOpts := []commands.HandlerOption[ReplaceCommand]{
		commands.WithOperation[ReplaceCommand]("richtext.replace"),
	}
	if cfg.logger != nil {
		formatOpts = append(formatOpts, commands.WithLogger[FormatCommand](cfg.logger))
		replaceOpts = append(replaceOpts, commands.WithLogger[ReplaceCommand](cfg.logger))
	}
	e.format = commands.NewHandler(e.applyFormat, formatOpts...)
	e.replace = commands.NewHandler(e.applyReplace, replaceOpts...)
	return e
}

// Document returns the editor's document.
func (e *Editor) Document() *Document {
	return e.doc
}

// Format executes a formatting command against the document.
func (e *Editor) Format(ctx context.Context, cmd FormatCommand) error {
	return e.format.Execute(ctx, cmd)
}

// Replace executes a text replacement command against the document.
func (e *Editor) Replace(ctx context.Context, cmd ReplaceCommand) error {
	return e.replace.Execute(ctx, cmd)
}

func (e *Editor) applyFormat(_ context.Context, cmd FormatCommand) error {
	start, end := e.doc.clampRange(cmd.Start, cmd.End)
	if start == end {
		return ErrEmptyRange
	}

	if cmd.Style == StyleColor {
		for i := start; i < end; i++ {
			e.doc.chars[i].style.color = cmd.Value
		}
		return nil
	}

	// toggle: remove only when the whole range already has the style
	enable := false
	for i := start; i < end; i++ {
		if !hasStyle(e.doc.chars[i].style, cmd.Style) {
			enable = true
			break
		}
	}
	for i := start; i < end; i++ {
		setStyle(&e.doc.chars[i].style, cmd.Style, enable)
	}
	return nil
}

func (e *Editor) applyReplace(_ context.Context, cmd ReplaceCommand) error {
	start, end := e.doc.clampRange(cmd.Start, cmd.End)

	var inherited charStyle
	if start > 0 {
		inherited = e.doc.chars[start-1].style
	} else if end < len(e.doc.chars) {
		inherited = e.doc.chars[end].style
	}

	inserted := make([]styledChar, 0, len(cmd.Text))
	for _, r := range cmd.Text {
		style := inherited
		if r == '\n' {
			style = charStyle{}
		}
		inserted = append(inserted, styledChar{r: r, style: style})
	}

	next := make([]styledChar, 0, len(e.doc.chars)-(end-start)+len(inserted))
	next = append(next, e.doc.chars[:start]...)
	next = append(next, inserted...)
	next = append(next, e.doc.chars[end:]...)
	e.doc.chars = next
	return nil
}

func hasStyle(s charStyle, style Style) bool {
	switch style {
	case StyleBold:
		return s.bold
	case StyleItalic:
		return s.italic
	case StyleHighlight:
		return s.highlight
	default:
		return false
	}
}

func setStyle(s *charStyle, style Style, enable bool) {
	switch style {
	case StyleBold:
		s.bold = enable
	case StyleItalic:
		s.italic = enable
	case StyleHighlight:
		s.highlight = enable
	}
}
