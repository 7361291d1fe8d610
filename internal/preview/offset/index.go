package offset

import (
	"fmt"
	"sort"
)

// Build measures blocks and produces a new Table.
//
// Invisible blocks are skipped and the rest are walked in StartLine order;
// out-of-order input (footnotes are rendered after the text that references
// them) is normal. Build fails if any block lacks a line range.
func Build(blocks []Block, m Measurer) (*Table, error) {
	for i, b := range blocks {
		if err := b.validate(); err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
	}

	// A document rendered as a single code block is a source file shown
	// verbatim, not markdown with an embedded fence.
	codeFile := len(blocks) == 1 && blocks[0].Preformatted

	type measured struct {
		block Block
		geom  Geometry
	}
	visible := make([]measured, 0, len(blocks))
	for _, b := range blocks {
		g := m.Measure(b)
		if !g.Visible {
			continue
		}
		visible = append(visible, measured{block: b, geom: g})
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].block.StartLine < visible[j].block.StartLine
	})

	t := &Table{blocks: make([]Block, len(visible))}
	currLine := 0

	for idx, v := range visible {
		b, g := v.block, v.geom
		t.blocks[idx] = b

		if currLine >= b.StartLine {
			currLine = b.StartLine
		} else {
			acc := m.ContainerTop()
			if idx > 0 {
				acc = visible[idx-1].geom.Bottom()
			}
			perLine := (g.Top - acc) / float64(b.StartLine-currLine)

			for ; currLine < b.StartLine; currLine++ {
				offset := acc
				// Zero here is a layout artifact of collapsed regions, not
				// a real position.
				if offset == 0 {
					if prev, ok := t.at(currLine - 1); ok && prev.Offset != 0 {
						offset = prev.Offset
					}
				}
				t.put(currLine, offset, idx)
				acc += perLine
			}
		}

		lineRange := b.LineCount()
		if codeFile && lineRange > 1 {
			// The closing fence of a code file is not rendered.
			lineRange--
		}
		perLine := g.Height / float64(lineRange)
		embeddedCode := b.Preformatted && !codeFile

		acc := g.Top
		for ; currLine <= b.EndLine; currLine++ {
			offset := acc
			if embeddedCode && currLine != b.StartLine {
				offset += PreformattedBias
			}
			t.put(currLine, offset, idx)
			acc += perLine
		}
	}

	return t, nil
}
