package richtext

import (
	"html"
	"strings"
)

// Document is an in-memory model of a rich text value. Formatting is stored
// per character rather than as live markup, so edit commands operate on
// ranges and serialization happens once, at commit time.
type Document struct {
	chars []styledChar
}

type styledChar struct {
	r     rune
	style charStyle
}

type charStyle struct {
	bold      bool
	italic    bool
	highlight bool
	color     string
}

// Parse builds a document from the persisted markup. The markup dialect is
// the one Serialize emits: <p> paragraphs with <b>, <i>, <mark> and
// <span style="color:..."> runs. Unknown tags are skipped, their inner text
// kept, so documents survive round-trips through older payloads.
func Parse(markup string) *Document {
	doc := &Document{}
	var style charStyle
	var stack []charStyle

	push := func(next charStyle) {
		stack = append(stack, style)
		style = next
	}
	pop := func() {
		if len(stack) == 0 {
			return
		}
		style = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
	}

	rest := markup
	for rest != "" {
		lt := strings.IndexByte(rest, '<')
		if lt < 0 {
			doc.appendText(rest, style)
			break
		}
		if lt > 0 {
			doc.appendText(rest[:lt], style)
			rest = rest[lt:]
		}
		gt := strings.IndexByte(rest, '>')
		if gt < 0 {
			doc.appendText(rest, style)
			break
		}
		tag := strings.ToLower(strings.TrimSpace(rest[1:gt]))
		rest = rest[gt+1:]

		switch {
		case tag == "b" || tag == "strong":
			next := style
			next.bold = true
			push(next)
		case tag == "i" || tag == "em":
			next := style
			next.italic = true
			push(next)
		case tag == "mark":
			next := style
			next.highlight = true
			push(next)
		case strings.HasPrefix(tag, "span"):
			next := style
			if color := colorFromTag(tag); color != "" {
				next.color = color
			}
			push(next)
		case tag == "/b" || tag == "/strong" || tag == "/i" || tag == "/em" ||
			tag == "/mark" || tag == "/span":
			pop()
		case tag == "/p":
			doc.chars = append(doc.chars, styledChar{r: '\n'})
		case tag == "p" || strings.HasPrefix(tag, "p "):
			// paragraph open carries no style
		case tag == "br" || tag == "br/" || tag == "br /":
			doc.chars = append(doc.chars, styledChar{r: '\n'})
		}
	}

	// trailing paragraph break is a serialization artifact, not content
	if n := len(doc.chars); n > 0 && doc.chars[n-1].r == '\n' {
		doc.chars = doc.chars[:n-1]
	}
	return doc
}

func colorFromTag(tag string) string {
	idx := strings.Index(tag, "color:")
	if idx < 0 {
		return ""
	}
	value := tag[idx+len("color:"):]
	for _, stop := range []string{"\"", "'", ";"} {
		if end := strings.Index(value, stop); end >= 0 {
			value = value[:end]
		}
	}
	return strings.TrimSpace(value)
}

func (d *Document) appendText(chunk string, style charStyle) {
	for _, r := range html.UnescapeString(chunk) {
		d.chars = append(d.chars, styledChar{r: r, style: style})
	}
}

// Len returns the document length in characters. Paragraph breaks count as
// one character each.
func (d *Document) Len() int {
	return len(d.chars)
}

// Text returns the unformatted text with paragraph breaks as newlines.
func (d *Document) Text() string {
	var sb strings.Builder
	for _, c := range d.chars {
		sb.WriteRune(c.r)
	}
	return sb.String()
}

// Serialize renders the document back to the persisted markup. Adjacent
// characters with identical formatting collapse into a single run.
func (d *Document) Serialize() string {
	var sb strings.Builder
	sb.WriteString("<p>")

	var open charStyle
	closeRun := func() {
		if open.color != "" {
			sb.WriteString("</span>")
		}
		if open.highlight {
			sb.WriteString("</mark>")
		}
		if open.italic {
			sb.WriteString("</i>")
		}
		if open.bold {
			sb.WriteString("</b>")
		}
		open = charStyle{}
	}
	openRun := func(style charStyle) {
		if style.bold {
			sb.WriteString("<b>")
		}
		if style.italic {
			sb.WriteString("<i>")
		}
		if style.highlight {
			sb.WriteString("<mark>")
		}
		if style.color != "" {
			sb.WriteString(`<span style="color:` + style.color + `">`)
		}
		open = style
	}

	for _, c := range d.chars {
		if c.r == '\n' {
			closeRun()
			sb.WriteString("</p><p>")
			continue
		}
		if c.style != open {
			closeRun()
			openRun(c.style)
		}
		sb.WriteString(html.EscapeString(string(c.r)))
	}
	closeRun()
	sb.WriteString("</p>")
	return sb.String()
}

func (d *Document) clampRange(start, end int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > len(d.chars) {
		end = len(d.chars)
	}
	if start > end {
		start = end
	}
	return start, end
}
