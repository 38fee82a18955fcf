package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// ErrStop is returned by an app step to end the host loop cleanly.
var ErrStop = errors.New("stop")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyEnter
	KeyEscape
	KeyF1
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
}

// HostEventKind identifies a surface or pointer event from the host.
type HostEventKind uint8

const (
	// HostResize reports a new framebuffer size in Width/Height.
	HostResize HostEventKind = iota + 1
	// HostTouch and HostTap are the press and release of a pointer at X/Y.
	HostTouch
	HostTap
	// HostClose asks the app to shut down.
	HostClose
)

// HostEvent is one event from the host's surface.
type HostEvent struct {
	Kind   HostEventKind
	Width  int
	Height int
	X, Y   int
}

// Host describes the surface the face runs on.
type Host interface {
	// LowBitAmbient reports whether the display drops colour depth in
	// ambient mode.
	LowBitAmbient() bool
	// TimeZone returns the host's default IANA zone id.
	TimeZone() string
	Events() <-chan HostEvent
}

// HostConfig is the platform-independent part of HAL construction.
type HostConfig struct {
	Width         int
	Height        int
	LowBitAmbient bool
	TimeZone      string
}

// HAL provides the only contact point between the face and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
	Host() Host
}
