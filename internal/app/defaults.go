package app

// OffsetStep is the top offset change per key press, in percent.
const OffsetStep = 5.0

// DefaultKeymap returns the default key bindings, key name to command.
// Key names are single runes or bracketed names such as "<PageDown>" and
// "<C-c>".
func DefaultKeymap() map[string]string {
	return map[string]string{
		// Scrolling
		"j":          "view.lineDown",
		"<Down>":     "view.lineDown",
		"k":          "view.lineUp",
		"<Up>":       "view.lineUp",
		" ":          "view.pageDown",
		"<PageDown>": "view.pageDown",
		"b":          "view.pageUp",
		"<PageUp>":   "view.pageUp",
		"g":          "view.top",
		"<Home>":     "view.top",
		"G":          "view.bottom",
		"<End>":      "view.bottom",

		// Sync settings, forwarded to the editor
		"s": "sync.scroll",
		"c": "sync.cursorline",
		"+": "sync.offsetDown",
		"-": "sync.offsetUp",
		"x": "sync.clearOverrides",

		// Application
		"q":     "app.quit",
		"<C-c>": "app.quit",
		"<C-l>": "app.redraw",
	}
}
