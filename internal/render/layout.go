package render

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/previewsync/internal/preview/offset"
)

// RowHeight is the height of one terminal row in layout units. Scroll
// positions are measured in these units so the animation can settle between
// rows before the view snaps to a whole row.
const RowHeight = 16.0

// TabWidth is the number of columns a tab expands to in code.
const TabWidth = 4

// Row is one terminal row of the laid-out document.
type Row struct {
	// Block is the index of the block the row belongs to, or -1 for the
	// spacing between blocks.
	Block int
	Spans []Span
	// Code marks rows of preformatted blocks.
	Code bool
	// Heading is the heading level, or 0.
	Heading int
}

// Layout places blocks on rows of a fixed width. It measures blocks for the
// offset index.
type Layout struct {
	width int
	rows  []Row
	geom  map[string]offset.Geometry
}

// NewLayout lays out blocks for a terminal width in columns. hl may be nil,
// in which case code is not colored.
func NewLayout(blocks []Block, width int, hl *Highlighter) *Layout {
	if width < 1 {
		width = 1
	}
	l := &Layout{
		width: width,
		geom:  make(map[string]offset.Geometry, len(blocks)),
	}

	for i, b := range blocks {
		if b.Kind == KindComment {
			l.geom[b.ID] = offset.Geometry{Top: l.Height(), Visible: false}
			continue
		}
		if len(l.rows) > 0 {
			l.rows = append(l.rows, Row{Block: -1})
		}

		start := len(l.rows)
		switch b.Kind {
		case KindCode:
			l.code(i, b, hl)
		case KindHeading:
			for _, line := range wrap(strings.Join(b.Text, " "), width) {
				l.rows = append(l.rows, Row{Block: i, Spans: []Span{{Text: line, Bold: true}}, Heading: b.Level})
			}
		default:
			for _, line := range wrap(joinParagraph(b.Text), width) {
				l.rows = append(l.rows, Row{Block: i, Spans: []Span{{Text: line}}})
			}
		}
		if len(l.rows) == start {
			l.rows = append(l.rows, Row{Block: i})
		}

		l.geom[b.ID] = offset.Geometry{
			Top:     float64(start) * RowHeight,
			Height:  float64(len(l.rows)-start) * RowHeight,
			Visible: true,
		}
	}
	return l
}

func (l *Layout) code(i int, b Block, hl *Highlighter) {
	text := make([]string, len(b.Text))
	for j, line := range b.Text {
		text[j] = strings.ReplaceAll(line, "\t", strings.Repeat(" ", TabWidth))
	}

	var spans [][]Span
	if hl != nil {
		spans = hl.Lines(b.Lang, text)
	} else {
		spans = make([][]Span, len(text))
		for j, line := range text {
			spans[j] = []Span{{Text: line}}
		}
	}
	for _, s := range spans {
		l.rows = append(l.rows, Row{Block: i, Spans: truncateSpans(s, l.width), Code: true})
	}
}

// Measure implements offset.Measurer.
func (l *Layout) Measure(b offset.Block) offset.Geometry {
	return l.geom[b.ID]
}

// ContainerTop implements offset.Measurer. Blocks are placed from the top of
// the document.
func (l *Layout) ContainerTop() float64 {
	return 0
}

// Rows returns the laid-out rows.
func (l *Layout) Rows() []Row {
	return l.rows
}

// Width returns the layout width in columns.
func (l *Layout) Width() int {
	return l.width
}

// Height returns the document height in layout units.
func (l *Layout) Height() float64 {
	return float64(len(l.rows)) * RowHeight
}

func joinParagraph(lines []string) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if s := strings.TrimSpace(line); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// wrap breaks text into lines no wider than width columns, splitting on
// spaces and breaking words that don't fit on a line of their own.
func wrap(text string, width int) []string {
	var lines []string
	var cur strings.Builder
	curWidth := 0

	flush := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		curWidth = 0
	}

	for _, word := range strings.Fields(text) {
		w := runewidth.StringWidth(word)
		if curWidth > 0 && curWidth+1+w <= width {
			cur.WriteByte(' ')
			cur.WriteString(word)
			curWidth += 1 + w
			continue
		}
		if curWidth > 0 {
			flush()
		}
		for w > width {
			head := runewidth.Truncate(word, width, "")
			if head == "" {
				// A single rune wider than the line.
				head = string([]rune(word)[:1])
			}
			lines = append(lines, head)
			word = word[len(head):]
			w = runewidth.StringWidth(word)
		}
		cur.WriteString(word)
		curWidth = w
	}
	if curWidth > 0 {
		flush()
	}
	return lines
}

// truncateSpans cuts spans at width columns.
func truncateSpans(spans []Span, width int) []Span {
	out := make([]Span, 0, len(spans))
	used := 0
	for _, s := range spans {
		w := runewidth.StringWidth(s.Text)
		if used+w <= width {
			out = append(out, s)
			used += w
			continue
		}
		if rest := width - used; rest > 0 {
			s.Text = runewidth.Truncate(s.Text, rest, "")
			if s.Text != "" {
				out = append(out, s)
			}
		}
		break
	}
	return out
}
