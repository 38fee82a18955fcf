//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type hostKeyboard struct {
	ch chan KeyEvent
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, 64)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

var hostSpecialKeys = []struct {
	key  ebiten.Key
	code KeyCode
}{
	{ebiten.KeyEnter, KeyEnter},
	{ebiten.KeyEscape, KeyEscape},
	{ebiten.KeyF1, KeyF1},
}

func (k *hostKeyboard) poll() {
	emit := func(ev KeyEvent) {
		select {
		case k.ch <- ev:
		default:
		}
	}

	// Letter keys arrive as text input; the face binds single characters.
	for _, r := range ebiten.AppendInputChars(nil) {
		emit(KeyEvent{Press: true, Rune: r})
	}

	for _, sk := range hostSpecialKeys {
		if inpututil.IsKeyJustPressed(sk.key) {
			emit(KeyEvent{Code: sk.code, Press: true})
		}
		if inpututil.IsKeyJustReleased(sk.key) {
			emit(KeyEvent{Code: sk.code, Press: false})
		}
	}
}
