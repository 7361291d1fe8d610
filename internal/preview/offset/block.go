package offset

import "fmt"

// NoLine marks a missing line number in a Block.
const NoLine = -1

// PreformattedBias is added to every line after the first inside a
// preformatted block embedded in a larger document. Monospace lines are
// shorter than the surrounding prose and the cursor overlay sits too low
// without it.
const PreformattedBias = -8.0

// Block is one laid-out unit of the rendered document.
type Block struct {
	// ID identifies the block to the rendering layer. It is only used for
	// diagnostics and by Measurer implementations.
	ID string

	// StartLine and EndLine are the inclusive source line range (0-based).
	StartLine int
	EndLine   int

	// Preformatted is set for code-like blocks.
	Preformatted bool
}

// LineCount returns the number of source lines the block covers.
func (b Block) LineCount() int {
	return b.EndLine + 1 - b.StartLine
}

// validate reports whether the block carries a usable line range.
func (b Block) validate() error {
	if b.StartLine <= NoLine || b.EndLine <= NoLine || b.EndLine < b.StartLine {
		return fmt.Errorf("block %q lines [%d,%d]: %w", b.ID, b.StartLine, b.EndLine, ErrMissingLineRange)
	}
	return nil
}

// Geometry is the measured placement of a block inside the scroll container.
type Geometry struct {
	// Top is the block's offset from the top of the container content.
	Top float64

	// Height is the full rendered height of the block.
	Height float64

	// Visible is false for blocks inside collapsed or hidden regions.
	Visible bool
}

// Bottom returns Top + Height.
func (g Geometry) Bottom() float64 {
	return g.Top + g.Height
}

// Measurer provides live layout geometry.
type Measurer interface {
	// Measure returns the current geometry of a block.
	Measure(b Block) Geometry

	// ContainerTop returns the top of the document element itself, used as
	// the starting point for lines before the first block.
	ContainerTop() float64
}

// MeasureFunc adapts a function to Measurer with a zero container top.
type MeasureFunc func(b Block) Geometry

// Measure calls f(b).
func (f MeasureFunc) Measure(b Block) Geometry { return f(b) }

// ContainerTop returns 0.
func (f MeasureFunc) ContainerTop() float64 { return 0 }
