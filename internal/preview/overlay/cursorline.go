// Package overlay holds the cursor line marker drawn over the rendered view.
package overlay

import (
	"errors"
	"strconv"
	"strings"
)

// Display values of the marker element.
const (
	DisplayNone  = "none"
	DisplayBlock = "block"
)

// ErrInvalidColor is returned for colors that are not #rgb or #rrggbb.
var ErrInvalidColor = errors.New("invalid color")

// Style is the user-configurable appearance of the marker.
type Style struct {
	Disabled bool
	Color    string
	Opacity  float64
}

// DefaultStyle returns the built-in marker style.
func DefaultStyle() Style {
	return Style{
		Color:   "#c86414",
		Opacity: 0.2,
	}
}

// State is what the host needs to draw the marker.
type State struct {
	Display string
	Top     float64
	Style   Style
}

// Drawn returns true if the marker should be painted.
func (s State) Drawn() bool {
	return s.Display == DisplayBlock && !s.Style.Disabled && s.Style.Opacity > 0
}

// CursorLine is the highlighted-line marker. Its position is maintained even
// while the style disables drawing so that re-enabling it shows the right
// line immediately.
type CursorLine struct {
	display  string
	top      float64
	style    Style
	onChange func(State)
}

// NewCursorLine creates a hidden marker.
func NewCursorLine(style Style) *CursorLine {
	return &CursorLine{display: DisplayNone, style: style}
}

// OnChange registers a callback fired after every mutation.
func (c *CursorLine) OnChange(fn func(State)) {
	c.onChange = fn
}

// Show displays the marker at top.
func (c *CursorLine) Show(top float64) {
	c.display = DisplayBlock
	c.top = top
	c.changed()
}

// Hide hides the marker. The last position is kept.
func (c *CursorLine) Hide() {
	c.display = DisplayNone
	c.changed()
}

// SetStyle updates the appearance.
func (c *CursorLine) SetStyle(style Style) {
	c.style = style
	c.changed()
}

// State returns the current marker state.
func (c *CursorLine) State() State {
	return State{Display: c.display, Top: c.top, Style: c.style}
}

func (c *CursorLine) changed() {
	if c.onChange != nil {
		c.onChange(c.State())
	}
}

// ParseColor parses #rgb or #rrggbb.
func ParseColor(s string) (r, g, b uint8, err error) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if !ok {
		return 0, 0, 0, ErrInvalidColor
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return 0, 0, 0, ErrInvalidColor
	}
	v, perr := strconv.ParseUint(hex, 16, 32)
	if perr != nil {
		return 0, 0, 0, ErrInvalidColor
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}

// Blend mixes the marker color over a background with the style's opacity.
func (s Style) Blend(bgR, bgG, bgB uint8) (r, g, b uint8, err error) {
	cr, cg, cb, err := ParseColor(s.Color)
	if err != nil {
		return 0, 0, 0, err
	}
	a := s.Opacity
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	mix := func(fg, bg uint8) uint8 {
		return uint8(float64(fg)*a + float64(bg)*(1-a) + 0.5)
	}
	return mix(cr, bgR), mix(cg, bgG), mix(cb, bgB), nil
}
