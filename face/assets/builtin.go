package assets

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"watchface/face/mode"

	"golang.org/x/image/vector"
)

const builtinPrefix = "builtin:"

var (
	builtinBackgroundSize = image.Pt(320, 320)
	builtinFaceSize       = image.Pt(36, 36)
	builtinHourSize       = image.Pt(14, 92)
	builtinMinuteSize     = image.Pt(10, 134)
)

type palette struct {
	dial        color.RGBA
	rim         color.RGBA
	hourTick    color.RGBA
	minuteTick  color.RGBA
	minuteTicks bool
	hand        color.RGBA
	capFill     color.RGBA
	capRing     color.RGBA
	oneBit      bool
}

var palettes = [mode.Count]palette{
	mode.Interactive: {
		dial:        color.RGBA{0x1b, 0x2a, 0x49, 0xff},
		rim:         color.RGBA{0x46, 0x5c, 0x88, 0xff},
		hourTick:    color.RGBA{0xf4, 0xf1, 0xde, 0xff},
		minuteTick:  color.RGBA{0x9a, 0xa5, 0xb8, 0xff},
		minuteTicks: true,
		hand:        color.RGBA{0xf4, 0xf1, 0xde, 0xff},
		capFill:     color.RGBA{0xf2, 0xa5, 0x41, 0xff},
		capRing:     color.RGBA{0x1b, 0x2a, 0x49, 0xff},
	},
	mode.Ambient: {
		dial:       color.RGBA{0x00, 0x00, 0x00, 0xff},
		rim:        color.RGBA{0x30, 0x30, 0x30, 0xff},
		hourTick:   color.RGBA{0x90, 0x90, 0x90, 0xff},
		minuteTick: color.RGBA{0x50, 0x50, 0x50, 0xff},
		hand:       color.RGBA{0xc0, 0xc0, 0xc0, 0xff},
		capFill:    color.RGBA{0x60, 0x60, 0x60, 0xff},
		capRing:    color.RGBA{0x00, 0x00, 0x00, 0xff},
	},
	mode.AmbientLowFidelity: {
		dial:     color.RGBA{0x00, 0x00, 0x00, 0xff},
		rim:      color.RGBA{0x00, 0x00, 0x00, 0xff},
		hourTick: color.RGBA{0xff, 0xff, 0xff, 0xff},
		hand:     color.RGBA{0xff, 0xff, 0xff, 0xff},
		capFill:  color.RGBA{0xff, 0xff, 0xff, 0xff},
		capRing:  color.RGBA{0x00, 0x00, 0x00, 0xff},
		oneBit:   true,
	},
}

// Builtin returns a source that draws every variant procedurally, so the face
// can run without an asset bundle.
func Builtin() Source { return builtinSource{} }

// BuiltinID names the built-in variant of el for md.
func BuiltinID(el Element, md mode.Mode) string {
	return builtinPrefix + el.String() + "/" + md.String()
}

// DefaultManifest lists the built-in variants.
func DefaultManifest() Manifest {
	ids := func(el Element) []string {
		out := make([]string, 0, mode.Count)
		for _, md := range mode.All {
			out = append(out, BuiltinID(el, md))
		}
		return out
	}
	return Manifest{
		Background: ids(Background),
		Face:       ids(Face),
		HourHand:   ids(HourHand),
		MinuteHand: ids(MinuteHand),
	}
}

type builtinSource struct{}

func (builtinSource) LoadNativeBitmap(id string) (image.Image, error) {
	for _, el := range Elements {
		for _, md := range mode.All {
			if BuiltinID(el, md) == id {
				return drawBuiltin(el, md), nil
			}
		}
	}
	return nil, fmt.Errorf("assets: unknown builtin %q", id)
}

func drawBuiltin(el Element, md mode.Mode) *image.RGBA {
	p := palettes[md]

	var img *image.RGBA
	switch el {
	case Background:
		img = drawDial(p)
	case Face:
		img = drawCap(p)
	case HourHand:
		img = drawHand(builtinHourSize, 4, p.hand)
	case MinuteHand:
		img = drawHand(builtinMinuteSize, 3, p.hand)
	}
	if p.oneBit {
		oneBit(img)
	}
	return img
}

func drawDial(p palette) *image.RGBA {
	sz := builtinBackgroundSize
	img := image.NewRGBA(image.Rectangle{Max: sz})
	fillRect(img, img.Bounds(), color.RGBA{A: 0xff})

	cx, cy := float64(sz.X)/2, float64(sz.Y)/2
	outer := math.Min(cx, cy) - 2
	fillPolygon(img, circle(cx, cy, outer), p.rim)
	fillPolygon(img, circle(cx, cy, outer-6), p.dial)

	for i := 0; i < 60; i++ {
		deg := float64(i) * 6
		if i%5 == 0 {
			fillPolygon(img, radialBar(cx, cy, deg, outer-34, outer-12, 3), p.hourTick)
			continue
		}
		if p.minuteTicks {
			fillPolygon(img, radialBar(cx, cy, deg, outer-20, outer-12, 1), p.minuteTick)
		}
	}
	return img
}

func drawCap(p palette) *image.RGBA {
	sz := builtinFaceSize
	img := image.NewRGBA(image.Rectangle{Max: sz})
	c := float64(sz.X) / 2
	fillPolygon(img, circle(c, c, c-1), p.capRing)
	fillPolygon(img, circle(c, c, c-6), p.capFill)
	return img
}

// drawHand draws a tapered hand whose pivot is the bottom centre of the image.
func drawHand(sz image.Point, tip float64, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rectangle{Max: sz})
	w, h := float64(sz.X), float64(sz.Y)
	mid := w / 2
	fillPolygon(img, [][2]float64{
		{0, h},
		{w, h},
		{mid + tip/2, tip * 2},
		{mid, 0},
		{mid - tip/2, tip * 2},
	}, c)
	return img
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func fillPolygon(img *image.RGBA, pts [][2]float64, c color.Color) {
	if len(pts) < 3 {
		return
	}
	b := img.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	r.MoveTo(float32(pts[0][0]), float32(pts[0][1]))
	for _, p := range pts[1:] {
		r.LineTo(float32(p[0]), float32(p[1]))
	}
	r.ClosePath()
	r.Draw(img, b, image.NewUniform(c), image.Point{})
}

func circle(cx, cy, radius float64) [][2]float64 {
	const segments = 96
	pts := make([][2]float64, 0, segments)
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / segments
		pts = append(pts, [2]float64{cx + radius*math.Cos(a), cy + radius*math.Sin(a)})
	}
	return pts
}

// radialBar returns a bar from r0 to r1 along the clock angle deg, measured
// clockwise from 12 o'clock.
func radialBar(cx, cy, deg, r0, r1, halfWidth float64) [][2]float64 {
	a := deg * math.Pi / 180
	dx, dy := math.Sin(a), -math.Cos(a)
	px, py := math.Cos(a), math.Sin(a)
	return [][2]float64{
		{cx + dx*r0 - px*halfWidth, cy + dy*r0 - py*halfWidth},
		{cx + dx*r1 - px*halfWidth, cy + dy*r1 - py*halfWidth},
		{cx + dx*r1 + px*halfWidth, cy + dy*r1 + py*halfWidth},
		{cx + dx*r0 + px*halfWidth, cy + dy*r0 + py*halfWidth},
	}
}

// oneBit snaps every pixel to transparent, opaque black or opaque white, as a
// low-bit ambient panel would show it.
func oneBit(img *image.RGBA) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		a := img.Pix[i+3]
		if a < 0x80 {
			img.Pix[i+0], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 0, 0, 0, 0
			continue
		}
		lum := (uint32(img.Pix[i+0]) + uint32(img.Pix[i+1]) + uint32(img.Pix[i+2])) / 3
		v := uint8(0)
		if lum*2 >= uint32(a) {
			v = 0xff
		}
		img.Pix[i+0], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = v, v, v, 0xff
	}
}
