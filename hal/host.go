//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"
)

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	kbd    *hostKeyboard
	host   *lifecycle
}

// New returns a host HAL implementation.
func New(cfg HostConfig) HAL {
	return newHostHAL(cfg)
}

func newHostHAL(cfg HostConfig) *hostHAL {
	w, h := cfg.size()
	return &hostHAL{
		logger: &hostLogger{w: os.Stdout},
		fb:     newHostFramebuffer(w, h),
		kbd:    newHostKeyboard(),
		host:   newLifecycle(cfg),
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd} }
func (h *hostHAL) Host() Host       { return h.host }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd *hostKeyboard
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
