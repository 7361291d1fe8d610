package loader

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestEnvLoader(env ...string) *EnvLoader {
	l := NewEnvLoader(EnvPrefix)
	l.environ = func() []string { return env }
	return l
}

func TestEnvLoader_Load(t *testing.T) {
	l := newTestEnvLoader(
		"PREVIEWSYNC_SCROLL_TOP_OFFSET_PCT=25",
		"PREVIEWSYNC_SCROLL_DISABLE=yes",
		"PREVIEWSYNC_CURSOR_LINE_COLOR=#abcdef",
		"PREVIEWSYNC_CURSOR_LINE_OPACITY=0.3",
		"PREVIEWSYNC_LOG_LEVEL=debug",
		"HOME=/root",
		"PREVIEWSYNC_BROKEN",
	)

	got, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"scroll":      map[string]any{"top_offset_pct": int64(25), "disable": true},
		"cursor_line": map[string]any{"color": "#abcdef", "opacity": 0.3},
		"logging":     map[string]any{"level": "debug"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvLoader_CustomMapping(t *testing.T) {
	l := newTestEnvLoader("PREVIEWSYNC_OFFSET=10")
	l.AddMapping("PREVIEWSYNC_OFFSET", "scroll.top_offset_pct")

	got, _ := l.Load()
	if got["scroll"].(map[string]any)["top_offset_pct"] != int64(10) {
		t.Errorf("unexpected result %v", got)
	}
}

func TestEnvLoader_RealEnvironment(t *testing.T) {
	t.Setenv("PREVIEWSYNC_SCROLL_HALF_LIFE_MS", "120")

	got, err := NewEnvLoader(EnvPrefix).Load()
	if err != nil {
		t.Fatal(err)
	}
	if got["scroll"].(map[string]any)["half_life_ms"] != int64(120) {
		t.Errorf("unexpected result %v", got)
	}
}

func TestParseEnvValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"true", true},
		{"OFF", false},
		{"1", int64(1)},
		{"-3", int64(-3)},
		{"0.25", 0.25},
		{"#c86414", "#c86414"},
		{`["a",1]`, []any{"a", 1.0}},
		{`{"x":true}`, map[string]any{"x": true}},
		{"[not json", "[not json"},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, parseEnvValue(tt.in)); diff != "" {
			t.Errorf("parseEnvValue(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}
