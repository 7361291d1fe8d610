// Package offset maps source line numbers to vertical offsets inside a
// rendered document view.
//
// The rendering layer hands over a set of blocks, each tagged with the
// inclusive range of source lines it was produced from. Build measures every
// block through a Measurer and produces a Table with one entry per source
// line:
//
//   - lines inside a block share the block's height evenly
//   - lines between two blocks are interpolated across the gap
//   - lines after the last block are left empty; Lookup falls back to the
//     nearest lower line
//
// A Table is immutable. Every render produces a new one.
package offset
