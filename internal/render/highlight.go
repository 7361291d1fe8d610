package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyleName is the chroma style used for code blocks.
const DefaultStyleName = "monokai"

// Color is a 24-bit color. The zero value means the terminal default.
type Color struct {
	R, G, B uint8
	Set     bool
}

// RGB returns a set color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, Set: true}
}

// Span is a run of text drawn with one style.
type Span struct {
	Text   string
	FG     Color
	Bold   bool
	Italic bool
}

// Highlighter colors code with chroma.
type Highlighter struct {
	style *chroma.Style
}

// NewHighlighter creates a highlighter for the named chroma style. Unknown
// names fall back to chroma's default.
func NewHighlighter(styleName string) *Highlighter {
	if styleName == "" {
		styleName = DefaultStyleName
	}
	return &Highlighter{style: styles.Get(styleName)}
}

// Background returns the style's background color.
func (h *Highlighter) Background() Color {
	bg := h.style.Get(chroma.Background).Background
	if !bg.IsSet() {
		return Color{}
	}
	return RGB(bg.Red(), bg.Green(), bg.Blue())
}

// Lines tokenizes lines as one unit and returns the spans of each line.
// lang is a language name, alias or file name; when nothing matches the
// content is analysed.
func (h *Highlighter) Lines(lang string, lines []string) [][]Span {
	out := make([][]Span, len(lines))
	if len(lines) == 0 {
		return out
	}

	text := strings.Join(lines, "\n") + "\n"
	lexer := chroma.Coalesce(lexerFor(lang, text))
	tokens, err := chroma.Tokenise(lexer, nil, text)
	if err != nil {
		for i, l := range lines {
			out[i] = []Span{{Text: l}}
		}
		return out
	}

	base := h.style.Get(chroma.Text).Colour
	row := 0
	for _, tok := range tokens {
		if tok.Type == chroma.EOFType {
			break
		}
		entry := h.style.Get(tok.Type)
		span := Span{
			Bold:   entry.Bold == chroma.Yes,
			Italic: entry.Italic == chroma.Yes,
		}
		if entry.Colour.IsSet() && entry.Colour != base {
			span.FG = RGB(entry.Colour.Red(), entry.Colour.Green(), entry.Colour.Blue())
		}

		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				row++
			}
			if row >= len(out) {
				break
			}
			if part == "" {
				continue
			}
			s := span
			s.Text = part
			out[row] = append(out[row], s)
		}
	}
	return out
}

func lexerFor(lang, text string) chroma.Lexer {
	if lang != "" {
		if l := lexers.Get(lang); l != nil {
			return l
		}
		if l := lexers.Match(lang); l != nil {
			return l
		}
	}
	if l := lexers.Analyse(text); l != nil {
		return l
	}
	return lexers.Fallback
}

// PlainText joins the text of spans.
func PlainText(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}
