// Package renderer draws the preview on a terminal backend.
//
// The renderer is responsible for:
//   - Laying out the current document at the terminal width
//   - Drawing the rows visible at the viewport's scroll position
//   - Painting the cursor line marker over its row
//   - The header with the file name, sync mode and scroll position
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│           Renderer                      │
//	├─────────────────────────────────────────┤
//	│  render.Layout │ Viewport │ Marker      │
//	├─────────────────────────────────────────┤
//	│           Backend Abstraction           │
//	├─────────────────────────────────────────┤
//	│  Terminal (tcell) │ NullBackend (tests) │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	term, _ := backend.NewTerminal()
//	view := viewport.NewViewport(term.Size())
//	r := renderer.New(term, view, render.NewHighlighter(""))
//	blocks, layout := r.Layout("README.md", lines)
//	r.Draw()
package renderer
