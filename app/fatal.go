package app

import (
	"image/color"
	"strings"
	"unicode/utf8"

	"watchface/hal"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	fatalBG = color.RGBA{R: 0x60, G: 0x00, B: 0x00, A: 0xff}
	fatalFG = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// drawFatal fills the framebuffer with lines of text, wrapped to the screen
// width. Text that does not fit vertically is cut.
func drawFatal(fb hal.Framebuffer, lines []string) {
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	fb.ClearRGB(fatalBG.R, fatalBG.G, fatalBG.B)

	font := &proggy.TinySZ8pt7b
	fontHeight := int16(font.YAdvance)
	_, outbox := tinyfont.LineWidth(font, "0")
	fontWidth := int16(outbox)
	if fontWidth <= 0 || fontHeight <= 0 {
		_ = fb.Present()
		return
	}

	var d drivers.Displayer = fbDisplay{fb: fb}
	cols := int16(fb.Width()) / fontWidth
	if cols <= 0 {
		cols = 1
	}
	maxH := int16(fb.Height())

	y := fontHeight
	for _, line := range lines {
		for len(line) > 0 {
			if y > maxH {
				_ = fb.Present()
				return
			}
			chunk, rest := takeRunes(line, cols)
			tinyfont.WriteLine(d, font, 0, y, chunk, fatalFG)
			y += fontHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = fb.Present()
}

// fbDisplay adapts a framebuffer to the tinyfont drawing target.
type fbDisplay struct {
	fb hal.Framebuffer
}

func (d fbDisplay) Size() (x, y int16) {
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	buf := d.fb.Buffer()
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	pixel := hal.RGB565(c.R, c.G, c.B)
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d fbDisplay) Display() error { return nil }

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if utf8.RuneCountInString(s) <= int(n) {
		return s, ""
	}
	var i int
	for count := int16(0); i < len(s) && count < n; count++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return s[:i], s[i:]
}
