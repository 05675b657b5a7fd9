// Package disclosure is the expand/collapse controller behind the
// learning cards and the mobile navigation menu.
package disclosure

import (
	"fmt"
	"strconv"
)

// State of one card. The zero value is collapsed.
type State struct {
	Expanded bool
}

// Toggle flips the state.
func (s State) Toggle() State {
	return State{Expanded: !s.Expanded}
}

func (s State) String() string {
	if s.Expanded {
		return "expanded"
	}
	return "collapsed"
}

// Input is a user activation of the control.
type Input interface {
	input()
}

// Click is a pointer activation. Button 0 is the primary button.
type Click struct {
	Button int
}

// Key is a key press while the control has focus. Name follows
// KeyboardEvent.key, so Space arrives as " ".
type Key struct {
	Name string
}

func (Click) input() {}
func (Key) input()   {}

// Outcome reports how an input was handled.
type Outcome struct {
	Toggled bool
	// PreventDefault asks the page not to run the key's default action,
	// which for Space is scrolling.
	PreventDefault bool
}

// Activate applies in to s. Primary clicks, Enter and Space all toggle;
// anything else leaves s alone.
func Activate(s State, in Input) (State, Outcome) {
	switch in := in.(type) {
	case Click:
		if in.Button == 0 {
			return s.Toggle(), Outcome{Toggled: true}
		}
	case Key:
		if isActivationKey(in.Name) {
			return s.Toggle(), Outcome{Toggled: true, PreventDefault: true}
		}
	}
	return s, Outcome{}
}

func isActivationKey(name string) bool {
	switch name {
	case "Enter", " ", "Space", "Spacebar":
		return true
	}
	return false
}

// ParseInput decodes an activation posted by the page: kind is "click"
// or "keydown".
func ParseInput(kind, button, key string) (Input, error) {
	switch kind {
	case "click", "":
		b := 0
		if button != "" {
			n, err := strconv.Atoi(button)
			if err != nil {
				return nil, fmt.Errorf("parse button %q: %w", button, err)
			}
			b = n
		}
		return Click{Button: b}, nil
	case "keydown":
		return Key{Name: key}, nil
	}
	return nil, fmt.Errorf("unknown activation %q", kind)
}
