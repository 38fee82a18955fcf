//go:build !tinygo

package hal

import (
	"image"
	"image/png"
	"os"
	"sync"
)

type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	buf    []byte
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	f := &hostFramebuffer{}
	f.resize(width, height)
	return f
}

func (f *hostFramebuffer) Width() int          { return f.width }
func (f *hostFramebuffer) Height() int         { return f.height }
func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *hostFramebuffer) StrideBytes() int    { return f.stride }
func (f *hostFramebuffer) Buffer() []byte      { return f.buf }
func (f *hostFramebuffer) Present() error      { return nil }

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pixel := RGB565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i < len(f.buf); i += 2 {
		f.buf[i] = lo
		f.buf[i+1] = hi
	}
}

// resize reallocates the buffer. It reports whether the size changed.
func (f *hostFramebuffer) resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if width == f.width && height == f.height {
		return false
	}
	f.width = width
	f.height = height
	f.stride = width * 2
	f.buf = make([]byte, f.stride*height)
	return true
}

func (f *hostFramebuffer) snapshotRGB565(dst []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.buf)
}

// image expands the buffer to an opaque RGBA image.
func (f *hostFramebuffer) image() *image.RGBA {
	f.mu.Lock()
	defer f.mu.Unlock()
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	expandRGB565(img.Pix, f.buf)
	return img
}

func (f *hostFramebuffer) writePNG(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, f.image()); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func expandRGB565(dst, src []byte) {
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, g, b := RGB888From565(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = g
		dst[j+2] = b
		dst[j+3] = 0xFF
	}
}
