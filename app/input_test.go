package app

import (
	"testing"

	"watchface/hal"
)

func TestKeyAction(t *testing.T) {
	cases := []struct {
		ev   hal.KeyEvent
		want action
	}{
		{hal.KeyEvent{Press: true, Rune: 'a'}, actToggleAmbient},
		{hal.KeyEvent{Press: true, Rune: 'A'}, actToggleAmbient},
		{hal.KeyEvent{Press: true, Rune: 'v'}, actToggleVisible},
		{hal.KeyEvent{Press: true, Rune: 'p'}, actTogglePeek},
		{hal.KeyEvent{Press: true, Rune: 'z'}, actNextZone},
		{hal.KeyEvent{Press: true, Rune: 'q'}, actQuit},
		{hal.KeyEvent{Press: true, Code: hal.KeyEnter}, actTap},
		{hal.KeyEvent{Press: true, Code: hal.KeyF1}, actToggleLowBit},
		{hal.KeyEvent{Press: true, Code: hal.KeyEscape}, actQuit},
		{hal.KeyEvent{Press: false, Rune: 'a'}, actNone},
		{hal.KeyEvent{Press: true, Rune: 'x'}, actNone},
	}
	for _, tc := range cases {
		if got := keyAction(tc.ev); got != tc.want {
			t.Fatalf("keyAction(%+v): expected %v, got %v", tc.ev, tc.want, got)
		}
	}
}
