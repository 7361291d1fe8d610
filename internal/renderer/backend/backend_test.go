package backend

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func TestNullBackendSetContent(t *testing.T) {
	b := NewNullBackend(10, 3)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	style := Style{Foreground: RGB(255, 0, 0), Bold: true}
	for i, r := range "hello" {
		b.SetContent(i, 1, r, style)
	}
	b.SetContent(-1, 0, 'x', style)
	b.SetContent(0, 5, 'x', style)

	if got := b.Line(1); got != "hello     " {
		t.Errorf("got %q", got)
	}
	if c := b.Cell(0, 1); c.Style != style {
		t.Errorf("style not kept: %+v", c.Style)
	}
	if c := b.Cell(20, 20); c != (Cell{}) {
		t.Errorf("out of bounds should return an empty cell, got %+v", c)
	}

	b.Clear()
	if got := b.Line(1); got != "          " {
		t.Errorf("Clear left %q", got)
	}
	b.Show()
	if b.Shows() != 1 {
		t.Errorf("expected 1 show, got %d", b.Shows())
	}
}

func TestNullBackendEvents(t *testing.T) {
	b := NewNullBackend(80, 24)

	b.Resize(100, 40)
	ev := b.PollEvent()
	if ev.Type != EventResize || ev.Width != 100 || ev.Height != 40 {
		t.Errorf("unexpected event %+v", ev)
	}
	if w, h := b.Size(); w != 100 || h != 40 {
		t.Errorf("expected size (100, 40), got (%d, %d)", w, h)
	}

	b.Interrupt("wake")
	if ev := b.PollEvent(); ev.Type != EventInterrupt || ev.Data != "wake" {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestNullBackendShutdownUnblocksPoll(t *testing.T) {
	b := NewNullBackend(80, 24)
	got := make(chan Event, 1)
	go func() { got <- b.PollEvent() }()

	b.Shutdown()
	b.Shutdown()
	select {
	case ev := <-got:
		if ev.Type != EventNone {
			t.Errorf("expected EventNone, got %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("PollEvent did not return after Shutdown")
	}
}

func TestModMaskHas(t *testing.T) {
	m := ModCtrl | ModAlt
	if !m.Has(ModCtrl) || !m.Has(ModAlt) || m.Has(ModShift) {
		t.Errorf("unexpected mask %b", m)
	}
}

func TestConvertEvent(t *testing.T) {
	tests := []struct {
		name string
		in   tcell.Event
		want Event
	}{
		{
			name: "rune",
			in:   tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone),
			want: Event{Type: EventKey, Key: KeyRune, Rune: 'q'},
		},
		{
			name: "page down",
			in:   tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone),
			want: Event{Type: EventKey, Key: KeyPageDown},
		},
		{
			name: "wheel down",
			in:   tcell.NewEventMouse(3, 4, tcell.WheelDown, tcell.ModNone),
			want: Event{Type: EventMouse, MouseX: 3, MouseY: 4, MouseButton: MouseWheelDown},
		},
		{
			name: "wheel up",
			in:   tcell.NewEventMouse(0, 0, tcell.WheelUp, tcell.ModShift),
			want: Event{Type: EventMouse, MouseButton: MouseWheelUp, Mod: ModShift},
		},
		{
			name: "resize",
			in:   tcell.NewEventResize(120, 50),
			want: Event{Type: EventResize, Width: 120, Height: 50},
		},
		{
			name: "after fini",
			in:   nil,
			want: Event{Type: EventNone},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := convertEvent(tt.in); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConvertStyle(t *testing.T) {
	s := convertStyle(Style{Foreground: RGB(1, 2, 3), Bold: true})
	fg, bg, attrs := s.Decompose()
	if fg != tcell.NewRGBColor(1, 2, 3) {
		t.Errorf("unexpected foreground %v", fg)
	}
	if bg != tcell.ColorDefault {
		t.Errorf("background should stay default, got %v", bg)
	}
	if attrs&tcell.AttrBold == 0 || attrs&tcell.AttrReverse != 0 {
		t.Errorf("unexpected attributes %v", attrs)
	}
}
