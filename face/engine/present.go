package engine

import (
	"errors"
	"image"

	"watchface/hal"
)

var errFormat = errors.New("unsupported framebuffer format")

// present writes img into fb as RGB565, scaling with nearest-neighbour
// sampling when the sizes differ.
func present(fb hal.Framebuffer, img *image.RGBA) error {
	if fb.Format() != hal.PixelFormatRGB565 {
		return errFormat
	}
	dw, dh := fb.Width(), fb.Height()
	sb := img.Bounds()
	sw, sh := sb.Dx(), sb.Dy()
	if dw <= 0 || dh <= 0 || sw <= 0 || sh <= 0 {
		return nil
	}
	buf := fb.Buffer()
	stride := fb.StrideBytes()
	if stride < dw*2 || len(buf) < stride*(dh-1)+dw*2 {
		return fb.Present()
	}

	for y := 0; y < dh; y++ {
		sy := sb.Min.Y + y*sh/dh
		row := buf[y*stride:]
		for x := 0; x < dw; x++ {
			sx := sb.Min.X + x*sw/dw
			i := img.PixOffset(sx, sy)
			p := hal.RGB565(img.Pix[i], img.Pix[i+1], img.Pix[i+2])
			row[x*2] = byte(p)
			row[x*2+1] = byte(p >> 8)
		}
	}
	return fb.Present()
}
