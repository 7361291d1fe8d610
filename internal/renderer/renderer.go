package renderer

import (
	"github.com/mattn/go-runewidth"

	"github.com/dshills/previewsync/internal/preview/overlay"
	"github.com/dshills/previewsync/internal/render"
	"github.com/dshills/previewsync/internal/renderer/backend"
	"github.com/dshills/previewsync/internal/renderer/viewport"
)

// Colors used outside code blocks.
var (
	HeaderStyle     = backend.Style{Reverse: true}
	HeadingColor    = backend.RGB(0x66, 0xd9, 0xef)
	DefaultBackdrop = backend.RGB(0, 0, 0)
)

// Renderer is the drawing facade. It is used from the event loop only.
type Renderer struct {
	backend backend.Backend
	view    *viewport.Viewport
	hl      *render.Highlighter
	codeBG  backend.Color

	layout *render.Layout
	marker overlay.State
	header Header
}

// New creates a renderer. hl may be nil to draw code without colors.
func New(b backend.Backend, view *viewport.Viewport, hl *render.Highlighter) *Renderer {
	r := &Renderer{
		backend: b,
		view:    view,
		hl:      hl,
		marker:  overlay.State{Display: overlay.DisplayNone},
	}
	if hl != nil {
		r.codeBG = toColor(hl.Background())
	}
	return r
}

// Layout splits lines into blocks, lays them out at the viewport width and
// makes the result current. The layout measures the blocks for the offset
// index.
func (r *Renderer) Layout(path string, lines []string) ([]render.Block, *render.Layout) {
	blocks := render.Document(path, lines)
	l := render.NewLayout(blocks, r.view.Width(), r.hl)
	r.layout = l
	r.header.Title = path
	r.view.SetContentHeight(l.Height())
	return blocks, l
}

// Current returns the current layout, or nil.
func (r *Renderer) Current() *render.Layout {
	return r.layout
}

// SetMarker updates the cursor line marker. It matches
// overlay.CursorLine.OnChange.
func (r *Renderer) SetMarker(s overlay.State) {
	r.marker = s
}

// SetMode sets the sync mode shown in the header.
func (r *Renderer) SetMode(mode string) {
	r.header.Mode = mode
}

// SetMessage sets a transient header message.
func (r *Renderer) SetMessage(msg string) {
	r.header.Message = msg
}

// Header returns the header state.
func (r *Renderer) Header() Header {
	h := r.header
	h.Percent = int(r.view.ScrollPercent() + 0.5)
	return h
}

// Draw paints the header and the visible rows, then flushes.
func (r *Renderer) Draw() {
	r.backend.Clear()
	width, height := r.view.Width(), r.view.Height()

	r.drawText(0, width, r.Header().Text(width), HeaderStyle)

	if r.layout != nil {
		rows := r.layout.Rows()
		first := r.view.FirstRow()

		markerRow := -1
		if r.marker.Drawn() {
			if y, ok := r.view.ScreenRow(r.marker.Top); ok {
				markerRow = y
			}
		}

		for y := viewport.HeaderRows; y < height; y++ {
			var row render.Row
			if i := first + y - viewport.HeaderRows; i >= 0 && i < len(rows) {
				row = rows[i]
			}
			var bg backend.Color
			if row.Code {
				bg = r.codeBG
			}
			if y == markerRow {
				bg = r.blend(bg)
			}
			r.drawRow(y, width, row, bg)
		}
	}

	r.backend.Show()
}

func (r *Renderer) blend(bg backend.Color) backend.Color {
	base := bg
	if !base.Set {
		base = DefaultBackdrop
	}
	cr, cg, cb, err := r.marker.Style.Blend(base.R, base.G, base.B)
	if err != nil {
		return bg
	}
	return backend.RGB(cr, cg, cb)
}

func (r *Renderer) drawRow(y, width int, row render.Row, bg backend.Color) {
	x := 0
	for _, span := range row.Spans {
		style := backend.Style{
			Foreground: toColor(span.FG),
			Background: bg,
			Bold:       span.Bold,
			Italic:     span.Italic,
		}
		if row.Heading > 0 {
			style.Foreground = HeadingColor
		}
		for _, c := range span.Text {
			w := runewidth.RuneWidth(c)
			if w == 0 {
				continue
			}
			if x+w > width {
				return
			}
			r.backend.SetContent(x, y, c, style)
			x += w
		}
	}
	if bg.Set {
		for ; x < width; x++ {
			r.backend.SetContent(x, y, ' ', backend.Style{Background: bg})
		}
	}
}

func (r *Renderer) drawText(y, width int, text string, style backend.Style) {
	x := 0
	for _, c := range text {
		w := runewidth.RuneWidth(c)
		if w == 0 {
			continue
		}
		if x+w > width {
			return
		}
		r.backend.SetContent(x, y, c, style)
		x += w
	}
}

func toColor(c render.Color) backend.Color {
	if !c.Set {
		return backend.Color{}
	}
	return backend.RGB(c.R, c.G, c.B)
}
