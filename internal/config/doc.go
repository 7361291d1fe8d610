// Package config holds the preview settings and their sources.
//
// Settings are layered, lowest precedence first:
//
//  1. Built-in defaults (Default)
//  2. A TOML or YAML file, chosen by extension
//  3. PREVIEWSYNC_* environment variables
//
// On top of the loaded settings, the editor may push runtime overrides
// ("scroll toggle", "cursorline.color #fff", ...). Overrides survive a reload
// of the file and are dropped by the clear_overrides action.
//
// # Keys
//
//	scroll.disable          bool    false
//	scroll.top_offset_pct   number  35
//	scroll.half_life_ms     number  100
//	cursor_line.disable     bool    false
//	cursor_line.color       string  "#c86414"
//	cursor_line.opacity     number  0.2 (0..1)
//	logging.level           string  "info"
package config
