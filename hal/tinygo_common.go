//go:build tinygo

package hal

import "time"

type tinyGoDisplay struct {
	fb Framebuffer
}

func (d tinyGoDisplay) Framebuffer() Framebuffer { return d.fb }

type tinyGoInput struct {
	kbd Keyboard
}

func (in tinyGoInput) Keyboard() Keyboard { return in.kbd }

// memFramebuffer is an RGB565 buffer with an optional present hook.
type memFramebuffer struct {
	w       int
	h       int
	stride  int
	buf     []byte
	present func(buf []byte, w, h int) error
}

func newMemFramebuffer(w, h int, present func(buf []byte, w, h int) error) *memFramebuffer {
	stride := w * 2
	return &memFramebuffer{
		w:       w,
		h:       h,
		stride:  stride,
		buf:     make([]byte, stride*h),
		present: present,
	}
}

func (f *memFramebuffer) Width() int          { return f.w }
func (f *memFramebuffer) Height() int         { return f.h }
func (f *memFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *memFramebuffer) StrideBytes() int    { return f.stride }
func (f *memFramebuffer) Buffer() []byte      { return f.buf }

func (f *memFramebuffer) ClearRGB(r, g, b uint8) {
	pixel := RGB565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i < len(f.buf); i += 2 {
		f.buf[i] = lo
		f.buf[i+1] = hi
	}
}

func (f *memFramebuffer) Present() error {
	if f.present == nil {
		return ErrNotImplemented
	}
	return f.present(f.buf, f.w, f.h)
}

// RunLoop calls the app step at hz until it fails. TinyGo targets have no
// window or headless runner of their own.
func RunLoop(newApp func(HAL) func() error, cfg HostConfig, hz int) error {
	if hz <= 0 {
		hz = 30
	}
	step := newApp(New(cfg))
	t := time.NewTicker(time.Second / time.Duration(hz))
	defer t.Stop()
	for range t.C {
		if step == nil {
			continue
		}
		if err := step(); err != nil {
			if err == ErrStop {
				return nil
			}
			return err
		}
	}
	return nil
}
