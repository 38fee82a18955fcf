//go:build tinygo && baremetal && picocalc

package hal

import (
	"errors"
	"machine"
	"time"
)

// The PicoCalc carrier wires a 320x320 ILI9488 to SPI1.
const (
	panelWidth  = 320
	panelHeight = 320
)

type panelHAL struct {
	logger *uartLogger
	fb     *memFramebuffer
	kbd    Keyboard
	host   *lifecycle
}

// New returns a PicoCalc HAL: UART0 logging on GP0/GP1 and frames presented
// to the ILI9488 panel. cfg's size is ignored; the surface is the panel's.
// Without a panel, frames stay in memory and Present reports
// ErrNotImplemented.
func New(cfg HostConfig) HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	logger := &uartLogger{uart: uart}

	var present func(buf []byte, w, h int) error
	if lcd, err := initILI9488(); err != nil {
		logger.WriteLineString("panel: " + err.Error())
	} else {
		present = lcd.blit
	}

	cfg.Width, cfg.Height = panelWidth, panelHeight
	return &panelHAL{
		logger: logger,
		fb:     newMemFramebuffer(panelWidth, panelHeight, present),
		kbd:    &stubKeyboard{},
		host:   newLifecycle(cfg),
	}
}

func (h *panelHAL) Logger() Logger   { return h.logger }
func (h *panelHAL) Display() Display { return tinyGoDisplay{fb: h.fb} }
func (h *panelHAL) Input() Input     { return tinyGoInput{kbd: h.kbd} }
func (h *panelHAL) Host() Host       { return h.host }

type ili9488 struct {
	spi *machine.SPI
	cs  machine.Pin
	dc  machine.Pin
	rst machine.Pin

	scratch []byte
}

func initILI9488() (*ili9488, error) {
	if machine.SPI1 == nil {
		return nil, errors.New("SPI1 unavailable")
	}
	if err := machine.SPI1.Configure(machine.SPIConfig{
		SCK:       machine.GP10,
		SDO:       machine.GP11,
		SDI:       machine.GP12,
		Frequency: 40_000_000,
	}); err != nil {
		return nil, err
	}

	d := &ili9488{
		spi:     machine.SPI1,
		cs:      machine.GP13,
		dc:      machine.GP14,
		rst:     machine.GP15,
		scratch: make([]byte, 4096),
	}
	for _, p := range []machine.Pin{d.cs, d.dc, d.rst} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.High()
	}

	d.rst.Low()
	time.Sleep(64 * time.Millisecond)
	d.rst.High()
	time.Sleep(140 * time.Millisecond)

	d.cmd(0xC0, 0x17, 0x15)             // power control 1
	d.cmd(0xC1, 0x41)                   // power control 2
	d.cmd(0xC5, 0x00, 0x12, 0x80, 0x40) // VCOM
	d.cmd(0x3A, 0x55)                   // 16bpp
	d.cmd(0xB1, 0xA0, 0x11)             // frame rate
	d.cmd(0xB6, 0x02, 0x22, 0x27)       // 320 lines
	d.cmd(0x21)                         // inversion on
	d.cmd(0x36, 0x40|0x04|0x08)         // mirrored, BGR
	d.cmd(0x11)                         // sleep out
	time.Sleep(120 * time.Millisecond)
	d.cmd(0x29) // display on
	return d, nil
}

func (d *ili9488) cmd(c byte, data ...byte) {
	d.cs.Low()
	d.dc.Low()
	d.spi.Tx([]byte{c}, nil)
	d.dc.High()
	if len(data) > 0 {
		d.spi.Tx(data, nil)
	}
	d.cs.High()
}

// blit writes a full frame. The panel takes big-endian RGB565.
func (d *ili9488) blit(buf []byte, w, h int) error {
	if w <= 0 || h <= 0 {
		return errPanelFrame
	}
	x1, y1 := uint16(w-1), uint16(h-1)
	d.cmd(0x2A, 0, 0, byte(x1>>8), byte(x1))
	d.cmd(0x2B, 0, 0, byte(y1>>8), byte(y1))
	d.cmd(0x2C)

	d.cs.Low()
	defer d.cs.High()
	d.dc.High()
	return streamRGB565BE(buf, d.scratch, w, h, func(p []byte) error {
		return d.spi.Tx(p, nil)
	})
}
