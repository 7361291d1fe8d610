package overlay

import (
	"errors"
	"testing"
)

func TestCursorLineShowHide(t *testing.T) {
	c := NewCursorLine(DefaultStyle())
	if c.State().Display != DisplayNone {
		t.Fatal("new marker should be hidden")
	}

	var changes []State
	c.OnChange(func(s State) { changes = append(changes, s) })

	c.Show(120)
	if st := c.State(); st.Display != DisplayBlock || st.Top != 120 {
		t.Errorf("expected block at 120, got %+v", st)
	}
	if !c.State().Drawn() {
		t.Error("shown marker with default style should be drawn")
	}

	c.Hide()
	if st := c.State(); st.Display != DisplayNone || st.Top != 120 {
		t.Errorf("hide should keep the position, got %+v", st)
	}
	if len(changes) != 2 {
		t.Errorf("expected 2 change notifications, got %d", len(changes))
	}
}

func TestCursorLineStyleDisables(t *testing.T) {
	c := NewCursorLine(DefaultStyle())
	c.Show(10)

	c.SetStyle(Style{Disabled: true, Color: "#fff", Opacity: 1})
	if c.State().Drawn() {
		t.Error("disabled style should not draw")
	}
	c.SetStyle(Style{Color: "#fff", Opacity: 0})
	if c.State().Drawn() {
		t.Error("transparent marker should not draw")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b uint8
		err     bool
	}{
		{"#c86414", 0xc8, 0x64, 0x14, false},
		{"#fff", 0xff, 0xff, 0xff, false},
		{" #000000 ", 0, 0, 0, false},
		{"c86414", 0, 0, 0, true},
		{"#12345", 0, 0, 0, true},
		{"#zzzzzz", 0, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, g, b, err := ParseColor(tt.in)
			if tt.err {
				if !errors.Is(err, ErrInvalidColor) {
					t.Fatalf("expected ErrInvalidColor, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if r != tt.r || g != tt.g || b != tt.b {
				t.Errorf("got (%d,%d,%d), want (%d,%d,%d)", r, g, b, tt.r, tt.g, tt.b)
			}
		})
	}
}

func TestStyleBlend(t *testing.T) {
	s := Style{Color: "#ffffff", Opacity: 0.5}
	r, g, b, err := s.Blend(0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if r != 128 || g != 128 || b != 128 {
		t.Errorf("expected mid grey, got (%d,%d,%d)", r, g, b)
	}

	s.Opacity = 3
	r, _, _, _ = s.Blend(0, 0, 0)
	if r != 255 {
		t.Errorf("opacity should clamp to 1, got %d", r)
	}
}
