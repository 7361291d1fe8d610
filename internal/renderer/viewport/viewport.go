// Package viewport provides the scroll container of the preview.
//
// Positions are in layout units (render.RowHeight per terminal row). The
// scroll position is kept on a whole unit so that reading it back after an
// assignment can differ from what was written, the same way a browser
// rounds scrollTop to device pixels.
package viewport

import (
	"math"
	"sync"

	"github.com/dshills/previewsync/internal/render"
)

// HeaderRows is the number of terminal rows above the scroll container.
const HeaderRows = 1

// WheelStep is how far one wheel notch scrolls, in layout units.
const WheelStep = 3 * render.RowHeight

// Viewport is the scrollable region below the header.
type Viewport struct {
	mu sync.RWMutex

	// Size in screen cells, header included
	width  int
	height int

	contentHeight float64
	top           float64

	onScroll func(y float64)
}

// NewViewport creates a viewport with the given terminal size.
// Width and height are clamped to a minimum of 1.
func NewViewport(width, height int) *Viewport {
	v := &Viewport{}
	v.width, v.height = clampSize(width, height)
	return v
}

func clampSize(width, height int) (int, int) {
	if width < 1 {
		width = 1
	}
	if height < HeaderRows+1 {
		height = HeaderRows + 1
	}
	return width, height
}

// OnScroll registers the scroll listener. It is called synchronously,
// after the position changed, with the new position.
func (v *Viewport) OnScroll(fn func(y float64)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onScroll = fn
}

// Width returns the width in columns.
func (v *Viewport) Width() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width
}

// Height returns the terminal height in rows, header included.
func (v *Viewport) Height() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.height
}

// Rows returns the number of rows available to content.
func (v *Viewport) Rows() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.height - HeaderRows
}

// Resize changes the terminal size. The position is clamped to the new
// bounds.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	v.width, v.height = clampSize(width, height)
	v.mu.Unlock()
	v.SetScrollTop(v.ScrollTop())
}

// SetContentHeight sets the height of the laid-out document. The position
// is clamped to the new bounds.
func (v *Viewport) SetContentHeight(h float64) {
	v.mu.Lock()
	v.contentHeight = math.Max(0, h)
	v.mu.Unlock()
	v.SetScrollTop(v.ScrollTop())
}

// ContentHeight returns the document height.
func (v *Viewport) ContentHeight() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.contentHeight
}

// ViewHeight is the height of the visible content area.
func (v *Viewport) ViewHeight() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return float64(v.height-HeaderRows) * render.RowHeight
}

// MaxScrollTop is the largest reachable position.
func (v *Viewport) MaxScrollTop() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.maxScrollTop()
}

func (v *Viewport) maxScrollTop() float64 {
	return math.Max(0, v.contentHeight-float64(v.height-HeaderRows)*render.RowHeight)
}

// ScrollTop implements scroll.Surface.
func (v *Viewport) ScrollTop() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.top
}

// SetScrollTop implements scroll.Surface. The position is rounded and
// clamped; listeners are notified only when it changes.
func (v *Viewport) SetScrollTop(y float64) {
	v.mu.Lock()
	y = math.Round(y)
	y = math.Min(y, v.maxScrollTop())
	y = math.Max(y, 0)
	if y == v.top {
		v.mu.Unlock()
		return
	}
	v.top = y
	fn := v.onScroll
	v.mu.Unlock()

	if fn != nil {
		fn(y)
	}
}

// ScrollBy moves the position by delta.
func (v *Viewport) ScrollBy(delta float64) {
	v.SetScrollTop(v.ScrollTop() + delta)
}

// PageDown scrolls one screen down, keeping one row of context.
func (v *Viewport) PageDown() {
	v.ScrollBy(v.page())
}

// PageUp scrolls one screen up, keeping one row of context.
func (v *Viewport) PageUp() {
	v.ScrollBy(-v.page())
}

func (v *Viewport) page() float64 {
	return math.Max(render.RowHeight, v.ViewHeight()-render.RowHeight)
}

// ScrollToTop scrolls to the start of the document.
func (v *Viewport) ScrollToTop() {
	v.SetScrollTop(0)
}

// ScrollToBottom scrolls to the end of the document.
func (v *Viewport) ScrollToBottom() {
	v.SetScrollTop(v.MaxScrollTop())
}

// ContainerOffsetTop implements arbiter.Viewport: content starts below the
// header.
func (v *Viewport) ContainerOffsetTop() float64 {
	return HeaderRows * render.RowHeight
}

// ScreenHeight implements arbiter.Viewport.
func (v *Viewport) ScreenHeight() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return float64(v.height) * render.RowHeight
}

// FirstRow returns the layout row drawn at the top of the content area.
func (v *Viewport) FirstRow() int {
	return int(math.Round(v.ScrollTop() / render.RowHeight))
}

// ScreenRow returns the terminal row a layout position is drawn on, and
// false when it is outside the content area.
func (v *Viewport) ScreenRow(y float64) (int, bool) {
	row := HeaderRows + int(math.Floor(y/render.RowHeight)) - v.FirstRow()
	return row, row >= HeaderRows && row < v.Height()
}

// ScrollPercent returns the position as a percentage of the scrollable
// range.
func (v *Viewport) ScrollPercent() float64 {
	maxTop := v.MaxScrollTop()
	if maxTop == 0 {
		return 100
	}
	return v.ScrollTop() / maxTop * 100
}
