package richtext_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-funnel/internal/richtext"
)

func TestParseSerializeRoundTrip(t *testing.T) {
	cases := []string{
		"<p>plain text</p>",
		"<p>with <b>bold</b> and <i>italic</i></p>",
		"<p>first</p><p>second</p>",
		"<p><mark>marked</mark> and <span style=\"color:#ff0000\">red</span></p>",
	}
	for _, markup := range cases {
		doc := richtext.Parse(markup)
		if got := doc.Serialize(); got != markup {
			t.Fatalf("round trip changed markup:\n in:  %s\n out: %s", markup, got)
		}
	}
}

func TestParseUnescapesEntities(t *testing.T) {
	doc := richtext.Parse("<p>a &amp; b &lt;c&gt;</p>")
	if got := doc.Text(); got != "a & b <c>" {
		t.Fatalf("unexpected text %q", got)
	}
	if got := doc.Serialize(); got != "<p>a &amp; b &lt;c&gt;</p>" {
		t.Fatalf("entities not re-escaped: %s", got)
	}
}

func TestFormatAppliesBoldOverRange(t *testing.T) {
	editor := richtext.NewEditor(richtext.Parse("<p>hello world</p>"))

	err := editor.Format(context.Background(), richtext.FormatCommand{
		Start: 0, End: 5, Style: richtext.StyleBold,
	})
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if got := editor.Document().Serialize(); got != "<p><b>hello</b> world</p>" {
		t.Fatalf("unexpected markup %s", got)
	}
}

func TestFormatTogglesOffWhenRangeAlreadyStyled(t *testing.T) {
	editor := richtext.NewEditor(richtext.Parse("<p><b>hello</b> world</p>"))

	err := editor.Format(context.Background(), richtext.FormatCommand{
		Start: 0, End: 5, Style: richtext.StyleBold,
	})
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if got := editor.Document().Serialize(); got != "<p>hello world</p>" {
		t.Fatalf("expected bold removed, got %s", got)
	}
}

func TestFormatPartiallyStyledRangeExtendsStyle(t *testing.T) {
	editor := richtext.NewEditor(richtext.Parse("<p><b>he</b>llo</p>"))

	err := editor.Format(context.Background(), richtext.FormatCommand{
		Start: 0, End: 5, Style: richtext.StyleBold,
	})
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if got := editor.Document().Serialize(); got != "<p><b>hello</b></p>" {
		t.Fatalf("expected whole range bold, got %s", got)
	}
}

func TestFormatColorSetsAndClears(t *testing.T) {
	editor := richtext.NewEditor(richtext.Parse("<p>hello</p>"))
	ctx := context.Background()

	if err := editor.Format(ctx, richtext.FormatCommand{
		Start: 0, End: 5, Style: richtext.StyleColor, Value: "#ff0000",
	}); err != nil {
		t.Fatalf("set color: %v", err)
	}
	if got := editor.Document().Serialize(); got != "<p><span style=\"color:#ff0000\">hello</span></p>" {
		t.Fatalf("unexpected markup %s", got)
	}

	if err := editor.Format(ctx, richtext.FormatCommand{
		Start: 0, End: 5, Style: richtext.StyleColor,
	}); err != nil {
		t.Fatalf("clear color: %v", err)
	}
	if got := editor.Document().Serialize(); got != "<p>hello</p>" {
		t.Fatalf("expected color cleared, got %s", got)
	}
}

func TestFormatRejectsBadColor(t *testing.T) {
	editor := richtext.NewEditor(richtext.Parse("<p>hello</p>"))

	err := editor.Format(context.Background(), richtext.FormatCommand{
		Start: 0, End: 5, Style: richtext.StyleColor, Value: "red",
	})
	if err == nil {
		t.Fatal("expected validation error for non-hex color")
	}
}

func TestFormatEmptyRange(t *testing.T) {
	editor := richtext.NewEditor(richtext.Parse("<p>hello</p>"))

	err := editor.Format(context.Background(), richtext.FormatCommand{
		Start: 2, End: 2, Style: richtext.StyleBold,
	})
	if !errors.Is(err, richtext.ErrEmptyRange) {
		t.Fatalf("expected ErrEmptyRange, got %v", err)
	}
}

func TestReplaceInheritsSurroundingStyle(t *testing.T) {
	editor := richtext.NewEditor(richtext.Parse("<p><b>hello</b></p>"))

	err := editor.Replace(context.Background(), richtext.ReplaceCommand{
		Start: 5, End: 5, Text: " there",
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if got := editor.Document().Serialize(); got != "<p><b>hello there</b></p>" {
		t.Fatalf("expected inserted text to stay bold, got %s", got)
	}
}

func TestReplaceDeletesRange(t *testing.T) {
	editor := richtext.NewEditor(richtext.Parse("<p>hello world</p>"))

	err := editor.Replace(context.Background(), richtext.ReplaceCommand{
		Start: 5, End: 11,
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if got := editor.Document().Text(); got != "hello" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestParseSkipsUnknownTagsKeepsText(t *testing.T) {
	doc := richtext.Parse("<p><u>under</u> over</p>")
	if got := doc.Text(); got != "under over" {
		t.Fatalf("unexpected text %q", got)
	}
}
