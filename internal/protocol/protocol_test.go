package protocol

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/previewsync/internal/preview/arbiter"
)

func intp(v int) *int { return &v }

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Message
	}{
		{
			name: "init",
			in:   `{"type":"init","lines":["# Title","","text"],"repoName":"r","currentPath":"README.md","cursorLine":2,"cursorCol":0}`,
			want: Message{
				Kind:        KindInit,
				CurrentPath: "README.md",
				Lines:       []string{"# Title", "", "text"},
				HasLines:    true,
				CursorLine:  intp(2),
			},
		},
		{
			name: "entry with hash",
			in:   `{"type":"entry","currentPath":"docs/a.md","lines":[],"cursorLine":null,"hash":"#L10-L20"}`,
			want: Message{
				Kind:        KindEntry,
				CurrentPath: "docs/a.md",
				Lines:       []string{},
				HasLines:    true,
				Hash:        "#L10-L20",
			},
		},
		{
			name: "cursor move without lines",
			in:   `{"type":"cursor_move","cursorLine":7,"currentPath":"README.md"}`,
			want: Message{Kind: KindCursorMove, CurrentPath: "README.md", CursorLine: intp(7)},
		},
		{
			name: "content change",
			in:   `{"type":"content_change","currentPath":"a.md","linesCountChange":true,"lines":["x"]}`,
			want: Message{
				Kind:             KindContentChange,
				CurrentPath:      "a.md",
				Lines:            []string{"x"},
				HasLines:         true,
				LinesCountChange: true,
			},
		},
		{
			name: "update config action",
			in:   `{"type":"update_config","action":["scroll.offset",20]}`,
			want: Message{Kind: KindUpdateConfig, Action: &Action{Name: "scroll.offset", Arg: 20.0}},
		},
		{
			name: "update config without argument",
			in:   `{"type":"update_config","action":["clear_overrides"]}`,
			want: Message{Kind: KindUpdateConfig, Action: &Action{Name: "clear_overrides"}},
		},
		{
			name: "update config object",
			in:   `{"type":"update_config","config":{"scroll":{"disable":true}}}`,
			want: Message{
				Kind:   KindUpdateConfig,
				Config: map[string]any{"scroll": map[string]any{"disable": true}},
			},
		},
		{
			name: "goodbye",
			in:   `{"type":"goodbye"}`,
			want: Message{Kind: KindGoodbye},
		},
		{
			name: "negative cursor is no line",
			in:   `{"type":"cursor_move","cursorLine":-1}`,
			want: Message{Kind: KindCursorMove},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.in))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{`not json`, ErrMalformed},
		{`[1,2]`, ErrMalformed},
		{`{"lines":[]}`, ErrMalformed},
		{`{"type":"update_config"}`, ErrMalformed},
		{`{"type":"update_config","action":[3]}`, ErrMalformed},
		{`{"type":"entries","path":"/"}`, ErrUnknownType},
	}
	for _, tt := range tests {
		_, err := Decode([]byte(tt.in))
		if !errors.Is(err, tt.want) {
			t.Errorf("Decode(%s): expected %v, got %v", tt.in, tt.want, err)
		}
	}
}

func TestParseHash(t *testing.T) {
	tests := []struct {
		in   string
		want *arbiter.Navigation
	}{
		{"#L10-L20", &arbiter.Navigation{LineStart: 9}},
		{"#L1", &arbiter.Navigation{LineStart: 0}},
		{"#L0", nil},
		{"#installation", nil},
		{"#Lx", nil},
		{"L10", nil},
		{"", nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, ParseHash(tt.in)); diff != "" {
			t.Errorf("ParseHash(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestReader(t *testing.T) {
	input := strings.Join([]string{
		`{"type":"init","lines":["a"],"currentPath":"a.md","cursorLine":0}`,
		``,
		`garbage`,
		`{"type":"goodbye"}`,
	}, "\n")
	r := NewReader(strings.NewReader(input))

	msg, err := r.Next()
	if err != nil || msg.Kind != KindInit {
		t.Fatalf("expected init, got %v, %v", msg.Kind, err)
	}

	_, err = r.Next()
	if !errors.Is(err, ErrMalformed) || !strings.Contains(err.Error(), "record 3") {
		t.Fatalf("expected malformed record 3, got %v", err)
	}

	msg, err = r.Next()
	if err != nil || msg.Kind != KindGoodbye {
		t.Fatalf("expected goodbye, got %v, %v", msg.Kind, err)
	}
	if r.Line() != 4 {
		t.Errorf("expected goodbye on line 4, got %d", r.Line())
	}

	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	if err := w.SendInit(); err != nil {
		t.Fatal(err)
	}
	if err := w.SendAction(Action{Name: "scroll", Arg: "toggle"}); err != nil {
		t.Fatal(err)
	}
	if err := w.SendAction(Action{Name: "clear_overrides"}); err != nil {
		t.Fatal(err)
	}

	want := `{"type":"init"}
{"type":"update_config","action":["scroll","toggle"]}
{"type":"update_config","action":["clear_overrides"]}
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeActionRoundTrip(t *testing.T) {
	data, err := EncodeAction(Action{Name: "cursorline.opacity", Arg: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	msg, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(&Action{Name: "cursorline.opacity", Arg: 0.5}, msg.Action); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
