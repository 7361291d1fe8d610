package config

import (
	"github.com/dshills/previewsync/internal/config/loader"
)

// Source describes where settings come from.
type Source struct {
	// Path is the config file. Empty means defaults and environment only.
	Path string
	// FS reads the file. Defaults to the OS file system.
	FS loader.FileSystem
	// Env reads environment overrides. Nil skips the environment.
	Env loader.Loader
}

// DefaultSource reads path and the PREVIEWSYNC_* environment.
func DefaultSource(path string) Source {
	return Source{
		Path: path,
		FS:   loader.DefaultFS(),
		Env:  loader.NewEnvLoader(loader.EnvPrefix),
	}
}

// Load reads and validates settings from src. On error the returned
// settings are still usable: every value that failed is left at its
// default.
func Load(src Source) (Settings, error) {
	merged := make(map[string]any)

	if src.Path != "" {
		fl, err := loader.ForPath(src.FS, src.Path)
		if err != nil {
			return Default(), err
		}
		m, err := fl.Load()
		if err != nil {
			return Default(), err
		}
		merged = loader.DeepMerge(merged, m)
	}

	if src.Env != nil {
		m, err := src.Env.Load()
		if err != nil {
			return Default(), err
		}
		merged = loader.DeepMerge(merged, m)
	}

	return Decode(merged)
}

// Decode overlays m onto the defaults and validates the result. Like Load,
// it returns usable settings alongside any error.
func Decode(m map[string]any) (Settings, error) {
	s, err := FromMap(m)
	if err != nil {
		return sanitize(s), err
	}
	if err := s.Validate(); err != nil {
		return sanitize(s), err
	}
	return s, nil
}

// sanitize resets values that fail validation to their defaults.
func sanitize(s Settings) Settings {
	err := s.Validate()
	verrs, ok := err.(ValidationErrors)
	if !ok {
		return s
	}
	def := Default()
	for _, e := range verrs {
		switch e.Path {
		case "scroll.top_offset_pct":
			s.Scroll.TopOffsetPct = def.Scroll.TopOffsetPct
		case "scroll.half_life_ms":
			s.Scroll.HalfLifeMS = def.Scroll.HalfLifeMS
		case "cursor_line.color":
			s.CursorLine.Color = def.CursorLine.Color
		case "cursor_line.opacity":
			s.CursorLine.Opacity = def.CursorLine.Opacity
		case "logging.level":
			s.Logging.Level = def.Logging.Level
		}
	}
	return s
}
