package app

import (
	"unicode"

	"watchface/hal"
)

// action is what a key press asks the simulated host to do.
type action uint8

const (
	actNone action = iota
	actToggleAmbient
	actToggleVisible
	actTogglePeek
	actNextZone
	actTap
	actToggleLowBit
	actQuit
)

func (a action) String() string {
	switch a {
	case actToggleAmbient:
		return "toggle_ambient"
	case actToggleVisible:
		return "toggle_visible"
	case actTogglePeek:
		return "toggle_peek"
	case actNextZone:
		return "next_zone"
	case actTap:
		return "tap"
	case actToggleLowBit:
		return "toggle_low_bit"
	case actQuit:
		return "quit"
	default:
		return "none"
	}
}

func keyAction(ev hal.KeyEvent) action {
	if !ev.Press {
		return actNone
	}
	switch ev.Code {
	case hal.KeyEnter:
		return actTap
	case hal.KeyF1:
		return actToggleLowBit
	case hal.KeyEscape:
		return actQuit
	}
	switch unicode.ToLower(ev.Rune) {
	case 'a':
		return actToggleAmbient
	case 'v':
		return actToggleVisible
	case 'p':
		return actTogglePeek
	case 'z':
		return actNextZone
	case 'q':
		return actQuit
	}
	return actNone
}
