//go:build tinygo && !baremetal

package hal

type tinyGoHostHAL struct {
	logger tinyGoHostLogger
	fb     *memFramebuffer
	kbd    *tinyGoHostKeyboard
	host   *lifecycle
}

// New returns a TinyGo-on-host HAL implementation.
//
// This is used by `tinygo run` targets like linux/wasm where there is no MCU pin mapping.
func New(cfg HostConfig) HAL {
	w, h := cfg.size()
	return &tinyGoHostHAL{
		fb: newMemFramebuffer(w, h, func([]byte, int, int) error {
			return nil
		}),
		kbd:  &tinyGoHostKeyboard{ch: make(chan KeyEvent)},
		host: newLifecycle(cfg),
	}
}

func (h *tinyGoHostHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHostHAL) Display() Display { return tinyGoDisplay{fb: h.fb} }
func (h *tinyGoHostHAL) Input() Input     { return tinyGoInput{kbd: h.kbd} }
func (h *tinyGoHostHAL) Host() Host       { return h.host }

type tinyGoHostLogger struct{}

func (tinyGoHostLogger) WriteLineString(s string) {
	println(s)
}

func (tinyGoHostLogger) WriteLineBytes(b []byte) {
	println(string(b))
}

type tinyGoHostKeyboard struct {
	ch chan KeyEvent
}

func (k *tinyGoHostKeyboard) Events() <-chan KeyEvent { return k.ch }
