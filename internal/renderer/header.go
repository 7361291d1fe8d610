package renderer

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Header is the top row: file name on the left, sync state on the right.
type Header struct {
	Title   string
	Mode    string
	Message string
	Percent int
}

// Text returns the header padded or truncated to width columns. The right
// side wins when both do not fit.
func (h Header) Text(width int) string {
	if width <= 0 {
		return ""
	}

	var right []string
	if h.Message != "" {
		right = append(right, h.Message)
	}
	if h.Mode != "" {
		right = append(right, "["+h.Mode+"]")
	}
	right = append(right, fmt.Sprintf("%3d%%", h.Percent))
	r := strings.Join(right, " ") + " "

	rw := runewidth.StringWidth(r)
	if rw >= width {
		return runewidth.Truncate(r, width, "")
	}

	avail := width - rw - 1
	if avail < 2 {
		return strings.Repeat(" ", width-rw) + r
	}
	l := runewidth.Truncate(" "+h.Title, avail, "…")
	pad := width - rw - runewidth.StringWidth(l)
	return l + strings.Repeat(" ", pad) + r
}
