package protocol

import (
	"strconv"
	"strings"

	"github.com/dshills/previewsync/internal/preview/arbiter"
)

// ParseHash turns a line fragment such as "#L10" or "#L10-L20" into a
// navigation request. Fragment lines are one-based. Anything else, including
// heading anchors, yields nil.
func ParseHash(hash string) *arbiter.Navigation {
	frag, ok := strings.CutPrefix(hash, "#")
	if !ok {
		return nil
	}
	start, _, _ := strings.Cut(frag, "-")
	digits, ok := strings.CutPrefix(start, "L")
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return nil
	}
	return &arbiter.Navigation{LineStart: n - 1}
}
