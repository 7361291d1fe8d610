package config

import (
	"fmt"

	"github.com/dshills/previewsync/internal/preview/overlay"
)

// ActionKind identifies a runtime update.
type ActionKind string

// Runtime update actions sent by the editor.
const (
	ActionClearOverrides    ActionKind = "clear_overrides"
	ActionScroll            ActionKind = "scroll"
	ActionScrollOffset      ActionKind = "scroll.offset"
	ActionCursorLine        ActionKind = "cursorline"
	ActionCursorLineColor   ActionKind = "cursorline.color"
	ActionCursorLineOpacity ActionKind = "cursorline.opacity"
)

// Switch is the argument of on/off style actions.
type Switch string

// Switch values.
const (
	SwitchToggle Switch = "toggle"
	SwitchOn     Switch = "on"
	SwitchOff    Switch = "off"
)

// Action is a validated runtime update.
type Action struct {
	Kind   ActionKind
	Switch Switch
	Number float64
	Text   string
}

// ParseAction validates an action name and its argument.
func ParseAction(name string, arg any) (Action, error) {
	a := Action{Kind: ActionKind(name)}

	switch a.Kind {
	case ActionClearOverrides:
		return a, nil

	case ActionScroll, ActionCursorLine:
		s, _ := arg.(string)
		switch Switch(s) {
		case SwitchToggle, SwitchOn, SwitchOff:
			a.Switch = Switch(s)
			return a, nil
		}
		return Action{}, fmt.Errorf("%w: %s expects toggle, on or off, got %v", ErrInvalidAction, name, arg)

	case ActionScrollOffset:
		n, ok := toFloat(arg)
		if !ok || n < 0 || n > 100 {
			return Action{}, fmt.Errorf("%w: %s expects a percentage, got %v", ErrInvalidAction, name, arg)
		}
		a.Number = n
		return a, nil

	case ActionCursorLineColor:
		s, _ := arg.(string)
		if _, _, _, err := overlay.ParseColor(s); err != nil {
			return Action{}, fmt.Errorf("%w: %s: %v", ErrInvalidAction, name, err)
		}
		a.Text = s
		return a, nil

	case ActionCursorLineOpacity:
		n, ok := toFloat(arg)
		if !ok || n < 0 || n > 1 {
			return Action{}, fmt.Errorf("%w: %s expects a number between 0 and 1, got %v", ErrInvalidAction, name, arg)
		}
		a.Number = n
		return a, nil
	}

	return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// Overrides are runtime changes layered over the loaded settings.
type Overrides struct {
	ScrollDisable     *bool
	TopOffsetPct      *float64
	CursorLineDisable *bool
	CursorLineColor   *string
	CursorLineOpacity *float64
}

// IsZero reports whether no override is set.
func (o Overrides) IsZero() bool {
	return o == Overrides{}
}

// Merge returns base with the overrides applied.
func (o Overrides) Merge(base Settings) Settings {
	s := base
	if o.ScrollDisable != nil {
		s.Scroll.Disable = *o.ScrollDisable
	}
	if o.TopOffsetPct != nil {
		s.Scroll.TopOffsetPct = *o.TopOffsetPct
	}
	if o.CursorLineDisable != nil {
		s.CursorLine.Disable = *o.CursorLineDisable
	}
	if o.CursorLineColor != nil {
		s.CursorLine.Color = *o.CursorLineColor
	}
	if o.CursorLineOpacity != nil {
		s.CursorLine.Opacity = *o.CursorLineOpacity
	}
	return s
}

// State pairs the loaded settings with the runtime overrides.
type State struct {
	Base      Settings
	Overrides Overrides
}

// NewState creates a state without overrides.
func NewState(base Settings) *State {
	return &State{Base: base}
}

// Effective returns the settings in force.
func (st *State) Effective() Settings {
	return st.Overrides.Merge(st.Base)
}

// Reload replaces the loaded settings and keeps the overrides.
func (st *State) Reload(base Settings) {
	st.Base = base
}

// Apply records an action as an override. Toggles flip the effective value.
func (st *State) Apply(a Action) {
	eff := st.Effective()

	switch a.Kind {
	case ActionClearOverrides:
		st.Overrides = Overrides{}
	case ActionScroll:
		st.Overrides.ScrollDisable = switchToDisable(a.Switch, eff.Scroll.Disable)
	case ActionScrollOffset:
		n := a.Number
		st.Overrides.TopOffsetPct = &n
	case ActionCursorLine:
		st.Overrides.CursorLineDisable = switchToDisable(a.Switch, eff.CursorLine.Disable)
	case ActionCursorLineColor:
		c := a.Text
		st.Overrides.CursorLineColor = &c
	case ActionCursorLineOpacity:
		n := a.Number
		st.Overrides.CursorLineOpacity = &n
	}
}

func switchToDisable(s Switch, disabled bool) *bool {
	var v bool
	switch s {
	case SwitchOn:
		v = false
	case SwitchOff:
		v = true
	default:
		v = !disabled
	}
	return &v
}
