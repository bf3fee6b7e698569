package common

import (
	"fmt"

	"gopkg.in/guregu/null.v3"
)

// MouseButton is a mouse button used for clicks.
type MouseButton string

// Mouse buttons. The zero value keeps the engine's default, the left button.
const (
	MouseButtonLeft   MouseButton = "left"
	MouseButtonRight  MouseButton = "right"
	MouseButtonMiddle MouseButton = "middle"
)

// Position is a point relative to the top-left corner of an element.
type Position struct {
	X float64
	Y float64
}

// ClickOptions are the options of clicking a page selector or an element.
// Strict only applies to page clicks, where the selector is resolved.
type ClickOptions struct {
	Button      MouseButton
	ClickCount  null.Int
	Delay       null.Float
	Force       null.Bool
	Modifiers   []string
	NoWaitAfter null.Bool
	Position    *Position
	Strict      null.Bool
	Timeout     null.Float
	Trial       null.Bool
}

// NewClickOptions returns click options with the engine's defaults.
func NewClickOptions() *ClickOptions {
	return &ClickOptions{}
}

// Parse parses the named arguments of the click keyword.
func (o *ClickOptions) Parse(opts Options) error { //nolint:cyclop
	return opts.each(func(k string, v any) (err error) {
		switch k {
		case "button":
			var s string
			s, err = enum(v, string(MouseButtonLeft), string(MouseButtonRight), string(MouseButtonMiddle))
			o.Button = MouseButton(s)
		case "click_count":
			o.ClickCount, err = nullInt(v)
		case "delay":
			o.Delay, err = nullFloat(v)
		case "force":
			o.Force, err = nullBool(v)
		case "modifiers":
			o.Modifiers, err = parseModifiers(v)
		case "no_wait_after":
			o.NoWaitAfter, err = nullBool(v)
		case "position":
			o.Position, err = parsePosition(v)
		case "strict":
			o.Strict, err = nullBool(v)
		case "timeout":
			o.Timeout, err = nullFloat(v)
		case "trial":
			o.Trial, err = nullBool(v)
		default:
			return unknownOption("click", k)
		}
		if err != nil {
			return fmt.Errorf("parsing %q option: %w", k, err)
		}
		return nil
	})
}

func parseModifiers(v any) ([]string, error) {
	mods, err := ToStringSlice(v)
	if err != nil {
		return nil, err
	}
	for _, m := range mods {
		if err := oneOf(m, "Alt", "Control", "ControlOrMeta", "Meta", "Shift"); err != nil {
			return nil, err
		}
	}
	return mods, nil
}

func parsePosition(v any) (*Position, error) {
	m, err := ToMap(v)
	if err != nil {
		return nil, err
	}
	var p Position
	err = Options(m).each(func(k string, v any) (err error) {
		switch k {
		case "x":
			p.X, err = ToFloat(v)
		case "y":
			p.Y, err = ToFloat(v)
		default:
			return unknownOption("position", k)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// IsVisibleOptions are the options of a page visibility check.
type IsVisibleOptions struct {
	Strict  null.Bool
	Timeout null.Float
}

// NewIsVisibleOptions returns visibility options with the engine's defaults.
func NewIsVisibleOptions() *IsVisibleOptions {
	return &IsVisibleOptions{}
}

// Parse parses the named arguments of the is visible keyword.
func (o *IsVisibleOptions) Parse(opts Options) error {
	return opts.each(func(k string, v any) (err error) {
		switch k {
		case "strict":
			o.Strict, err = nullBool(v)
		case "timeout":
			o.Timeout, err = nullFloat(v)
		default:
			return unknownOption("is visible", k)
		}
		if err != nil {
			return fmt.Errorf("parsing %q option: %w", k, err)
		}
		return nil
	})
}

// SelectorState is the state a selector waits for.
type SelectorState string

// Selector states. The zero value keeps the engine's default, which is
// SelectorStateVisible.
const (
	SelectorStateAttached SelectorState = "attached"
	SelectorStateDetached SelectorState = "detached"
	SelectorStateVisible  SelectorState = "visible"
	SelectorStateHidden   SelectorState = "hidden"
)

// WaitForSelectorOptions are the options of waiting for a selector.
type WaitForSelectorOptions struct {
	State   SelectorState
	Strict  null.Bool
	Timeout null.Float
}

// NewWaitForSelectorOptions returns selector wait options with the engine's
// defaults.
func NewWaitForSelectorOptions() *WaitForSelectorOptions {
	return &WaitForSelectorOptions{}
}

// Parse parses the named arguments of the wait for selector keyword.
func (o *WaitForSelectorOptions) Parse(opts Options) error {
	return opts.each(func(k string, v any) (err error) {
		switch k {
		case "state":
			var s string
			s, err = enum(v,
				string(SelectorStateAttached), string(SelectorStateDetached),
				string(SelectorStateVisible), string(SelectorStateHidden),
			)
			o.State = SelectorState(s)
		case "strict":
			o.Strict, err = nullBool(v)
		case "timeout":
			o.Timeout, err = nullFloat(v)
		default:
			return unknownOption("wait for selector", k)
		}
		if err != nil {
			return fmt.Errorf("parsing %q option: %w", k, err)
		}
		return nil
	})
}

// ElementState is a state an element handle can wait for.
type ElementState string

// Element states.
const (
	ElementStateVisible  ElementState = "visible"
	ElementStateHidden   ElementState = "hidden"
	ElementStateStable   ElementState = "stable"
	ElementStateEnabled  ElementState = "enabled"
	ElementStateDisabled ElementState = "disabled"
	ElementStateEditable ElementState = "editable"
)

// ParseElementState validates an element state argument.
func ParseElementState(v any) (ElementState, error) {
	s, err := enum(v,
		string(ElementStateVisible), string(ElementStateHidden), string(ElementStateStable),
		string(ElementStateEnabled), string(ElementStateDisabled), string(ElementStateEditable),
	)
	if err != nil {
		return "", fmt.Errorf("parsing element state: %w", err)
	}
	return ElementState(s), nil
}

// WaitForElementStateOptions are the options of waiting for an element state.
type WaitForElementStateOptions struct {
	Timeout null.Float
}

// NewWaitForElementStateOptions returns element state wait options with the
// engine's default timeout.
func NewWaitForElementStateOptions() *WaitForElementStateOptions {
	return &WaitForElementStateOptions{}
}

// Parse parses the named arguments of the wait for element state keyword.
func (o *WaitForElementStateOptions) Parse(opts Options) error {
	return opts.each(func(k string, v any) (err error) {
		switch k {
		case "timeout":
			o.Timeout, err = nullFloat(v)
		default:
			return unknownOption("wait for element state", k)
		}
		if err != nil {
			return fmt.Errorf("parsing %q option: %w", k, err)
		}
		return nil
	})
}
