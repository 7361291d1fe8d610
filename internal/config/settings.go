package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dshills/previewsync/internal/preview/overlay"
)

// Settings is the effective preview configuration.
type Settings struct {
	Scroll     ScrollSettings
	CursorLine CursorLineSettings
	Logging    LoggingSettings
}

// ScrollSettings controls synced scrolling.
type ScrollSettings struct {
	// Disable turns synced scrolling off. The cursor line is still drawn.
	Disable bool
	// TopOffsetPct places the cursor line this far down the screen.
	TopOffsetPct float64
	// HalfLifeMS is the animation half-life in milliseconds.
	HalfLifeMS float64
}

// CursorLineSettings controls the cursor line marker.
type CursorLineSettings struct {
	Disable bool
	Color   string
	Opacity float64
}

// LoggingSettings controls the log file.
type LoggingSettings struct {
	Level string
}

// Default returns the built-in settings.
func Default() Settings {
	style := overlay.DefaultStyle()
	return Settings{
		Scroll: ScrollSettings{
			TopOffsetPct: 35,
			HalfLifeMS:   100,
		},
		CursorLine: CursorLineSettings{
			Color:   style.Color,
			Opacity: style.Opacity,
		},
		Logging: LoggingSettings{Level: "info"},
	}
}

// TopOffsetPct returns the cursor placement, or nil when synced scrolling is
// disabled.
func (s Settings) TopOffsetPct() *float64 {
	if s.Scroll.Disable {
		return nil
	}
	pct := s.Scroll.TopOffsetPct
	return &pct
}

// HalfLife returns the animation half-life.
func (s Settings) HalfLife() time.Duration {
	return time.Duration(s.Scroll.HalfLifeMS * float64(time.Millisecond))
}

// CursorStyle returns the marker appearance.
func (s Settings) CursorStyle() overlay.Style {
	return overlay.Style{
		Disabled: s.CursorLine.Disable,
		Color:    s.CursorLine.Color,
		Opacity:  s.CursorLine.Opacity,
	}
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}

// Validate checks every setting and reports all problems at once.
func (s Settings) Validate() error {
	var errs ValidationErrors

	if s.Scroll.TopOffsetPct < 0 || s.Scroll.TopOffsetPct > 100 {
		errs.add("scroll.top_offset_pct", ErrCodeOutOfRange, s.Scroll.TopOffsetPct, "must be between 0 and 100")
	}
	if s.Scroll.HalfLifeMS <= 0 {
		errs.add("scroll.half_life_ms", ErrCodeOutOfRange, s.Scroll.HalfLifeMS, "must be positive")
	}
	if _, _, _, err := overlay.ParseColor(s.CursorLine.Color); err != nil {
		errs.add("cursor_line.color", ErrCodePatternMismatch, s.CursorLine.Color, "must be #rgb or #rrggbb")
	}
	if s.CursorLine.Opacity < 0 || s.CursorLine.Opacity > 1 {
		errs.add("cursor_line.opacity", ErrCodeOutOfRange, s.CursorLine.Opacity, "must be between 0 and 1")
	}
	if !logLevels[strings.ToLower(s.Logging.Level)] {
		errs.add("logging.level", ErrCodeInvalidEnum, s.Logging.Level, "must be one of debug, info, warn, error")
	}

	return errs.asError()
}

// field binds a dotted key to a Settings member.
type field struct {
	set func(s *Settings, v any) bool
	typ string
}

var fields = map[string]field{
	"scroll.disable":        boolField(func(s *Settings) *bool { return &s.Scroll.Disable }),
	"scroll.top_offset_pct": numberField(func(s *Settings) *float64 { return &s.Scroll.TopOffsetPct }),
	"scroll.half_life_ms":   numberField(func(s *Settings) *float64 { return &s.Scroll.HalfLifeMS }),
	"cursor_line.disable":   boolField(func(s *Settings) *bool { return &s.CursorLine.Disable }),
	"cursor_line.color":     stringField(func(s *Settings) *string { return &s.CursorLine.Color }),
	"cursor_line.opacity":   numberField(func(s *Settings) *float64 { return &s.CursorLine.Opacity }),
	"logging.level":         stringField(func(s *Settings) *string { return &s.Logging.Level }),
}

func boolField(ptr func(*Settings) *bool) field {
	return field{typ: "bool", set: func(s *Settings, v any) bool {
		b, ok := v.(bool)
		if ok {
			*ptr(s) = b
		}
		return ok
	}}
}

func numberField(ptr func(*Settings) *float64) field {
	return field{typ: "number", set: func(s *Settings, v any) bool {
		f, ok := toFloat(v)
		if ok {
			*ptr(s) = f
		}
		return ok
	}}
}

func stringField(ptr func(*Settings) *string) field {
	return field{typ: "string", set: func(s *Settings, v any) bool {
		str, ok := v.(string)
		if ok {
			*ptr(s) = str
		}
		return ok
	}}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	default:
		return 0, false
	}
}

// FromMap overlays a nested configuration map, as produced by the loaders,
// onto the defaults. Unknown keys and wrongly typed values are reported
// together; the returned settings contain every value that did apply.
func FromMap(m map[string]any) (Settings, error) {
	s := Default()
	var errs ValidationErrors

	flat := make(map[string]any)
	flatten("", m, flat)

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := flat[k]
		f, ok := fields[k]
		if !ok {
			errs.add(k, ErrCodeUnknownSetting, v, "unknown setting")
			continue
		}
		if !f.set(&s, v) {
			errs.add(k, ErrCodeTypeMismatch, v, "expected %s, got %T", f.typ, v)
		}
	}

	return s, errs.asError()
}

func flatten(prefix string, m map[string]any, out map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			flatten(key, sub, out)
			continue
		}
		out[key] = v
	}
}

// String renders the settings as dotted key/value pairs for logging.
func (s Settings) String() string {
	return fmt.Sprintf(
		"scroll.disable=%t scroll.top_offset_pct=%g scroll.half_life_ms=%g cursor_line.disable=%t cursor_line.color=%s cursor_line.opacity=%g logging.level=%s",
		s.Scroll.Disable, s.Scroll.TopOffsetPct, s.Scroll.HalfLifeMS,
		s.CursorLine.Disable, s.CursorLine.Color, s.CursorLine.Opacity, s.Logging.Level,
	)
}
