//go:build tinygo && baremetal && !picocalc

package hal

import (
	"machine"
)

type tinyGoHAL struct {
	logger *uartLogger
	fb     Framebuffer
	kbd    Keyboard
	host   *lifecycle
}

// New returns a Pico 2 (RP2350) HAL implementation.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1. There is no panel driver;
// frames are composited into memory and Present reports ErrNotImplemented.
// Build with the picocalc tag to drive the PicoCalc ILI9488 instead.
func New(cfg HostConfig) HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	w, h := cfg.size()
	return &tinyGoHAL{
		logger: &uartLogger{uart: uart},
		fb:     newMemFramebuffer(w, h, nil),
		kbd:    &stubKeyboard{},
		host:   newLifecycle(cfg),
	}
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) Display() Display { return tinyGoDisplay{fb: h.fb} }
func (h *tinyGoHAL) Input() Input     { return tinyGoInput{kbd: h.kbd} }
func (h *tinyGoHAL) Host() Host       { return h.host }
