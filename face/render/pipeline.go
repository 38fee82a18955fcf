// Package render composites the watch face: background, rotated hands and the
// centre face, for the current display mode and surface geometry.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"watchface/face/assets"
	"watchface/face/clock"
	"watchface/face/mode"

	"golang.org/x/image/draw"
)

// Geometry is the surface layout the variants are scaled for.
type Geometry struct {
	Width   int
	Height  int
	Scale   float64
	CenterX float64
	CenterY float64
}

// InvalidGeometryError is returned for a surface size that cannot be laid out.
// The previous geometry stays in effect.
type InvalidGeometryError struct {
	Width  int
	Height int
}

func (e *InvalidGeometryError) Error() string {
	return fmt.Sprintf("render: invalid surface size %dx%d", e.Width, e.Height)
}

var errNoGeometry = errors.New("render: no surface geometry")

// Options are the pipeline's fixed paint settings.
type Options struct {
	// Background fills the whole surface before anything else is drawn.
	Background color.RGBA
	// PeekMask covers the peek card region in ambient modes.
	PeekMask color.RGBA
	// FaceOffset nudges the centre face right and down, in native pixels.
	FaceOffset float64
}

func DefaultOptions() Options {
	return Options{
		Background: color.RGBA{0, 0, 0, 0xff},
		PeekMask:   color.RGBA{0, 0, 0, 0xff},
		FaceOffset: 1,
	}
}

// Frame is one composited image plus the canvas calls that produced it.
type Frame struct {
	Image    *image.RGBA
	Mode     mode.Mode
	Snapshot clock.Snapshot
	Ops      []Op
}

// Pipeline owns the geometry and drives the variant table's rescale.
type Pipeline struct {
	table *assets.Table
	opts  Options

	geom    Geometry
	hasGeom bool
	peek    image.Rectangle

	// HandAntiAlias selects bilinear sampling for rotated hands; nearest
	// neighbour otherwise. FilterBitmaps does the same for background and
	// face. Both are set at construction and changed only by SetAmbient.
	HandAntiAlias bool
	FilterBitmaps bool

	target *image.RGBA
}

func NewPipeline(t *assets.Table, opts Options) *Pipeline {
	return &Pipeline{
		table:         t,
		opts:          opts,
		HandAntiAlias: true,
		FilterBitmaps: true,
	}
}

// OnGeometryChanged lays out a w x h surface and rescales every variant so
// the background spans the surface width.
func (p *Pipeline) OnGeometryChanged(w, h int) error {
	if w <= 0 || h <= 0 {
		return &InvalidGeometryError{Width: w, Height: h}
	}
	native := p.table.NativeSize(assets.Background, mode.Interactive).X
	if native <= 0 {
		return &InvalidGeometryError{Width: w, Height: h}
	}
	scale := float64(w) / float64(native)
	if err := p.table.Rescale(scale); err != nil {
		return fmt.Errorf("render: rescale: %w", err)
	}
	p.geom = Geometry{
		Width:   w,
		Height:  h,
		Scale:   scale,
		CenterX: float64(w) / 2,
		CenterY: float64(h) / 2,
	}
	p.hasGeom = true
	if p.target == nil || p.target.Bounds().Dx() != w || p.target.Bounds().Dy() != h {
		p.target = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	return nil
}

// Geometry returns the current layout and whether one has been set.
func (p *Pipeline) Geometry() (Geometry, bool) { return p.geom, p.hasGeom }

// SetPeekRegion records where the host overlays its notification card.
func (p *Pipeline) SetPeekRegion(r image.Rectangle) { p.peek = r.Canon() }

func (p *Pipeline) PeekRegion() image.Rectangle { return p.peek }

// SetAmbient updates the paint settings after a capability or ambient report.
// Hands lose anti-aliasing only in low-bit ambient.
func (p *Pipeline) SetAmbient(ambient, lowBit bool) {
	p.HandAntiAlias = !(ambient && lowBit)
}

// RenderFrame composites one frame. The returned image is reused by the next
// call.
func (p *Pipeline) RenderFrame(md mode.Mode, snap clock.Snapshot) (*Frame, error) {
	if !p.hasGeom {
		return nil, errNoGeometry
	}
	if !md.Valid() {
		return nil, fmt.Errorf("render: invalid mode %d", md)
	}
	g := p.geom
	c := NewCanvas(p.target)

	c.Clear(p.opts.Background)
	c.DrawImage(assets.Background.String(), p.table.Select(assets.Background, md), 0, 0, p.bitmapFilter())

	if md.IsAmbient() && !p.peek.Empty() {
		c.DrawRect(p.peek, p.opts.PeekMask)
	}

	minDeg := snap.MinuteAngle()
	hourDeg := snap.HourAngle()

	c.Save()
	c.Rotate(minDeg, g.CenterX, g.CenterY)
	p.drawHand(c, assets.MinuteHand, md)
	c.Rotate(360-minDeg+hourDeg, g.CenterX, g.CenterY)
	p.drawHand(c, assets.HourHand, md)
	c.Restore()

	face := p.table.Select(assets.Face, md)
	fb := face.Bounds()
	nudge := p.opts.FaceOffset * g.Scale
	c.DrawImage(assets.Face.String(), face,
		g.CenterX-float64(fb.Dx()/2)+nudge,
		g.CenterY-float64(fb.Dy()/2)+nudge,
		p.bitmapFilter())

	return &Frame{Image: p.target, Mode: md, Snapshot: snap, Ops: c.Ops()}, nil
}

// drawHand anchors the hand's bottom centre on the surface centre.
func (p *Pipeline) drawHand(c *Canvas, el assets.Element, md mode.Mode) {
	img := p.table.Select(el, md)
	b := img.Bounds()
	g := p.geom
	c.DrawImage(el.String(), img, g.CenterX-float64(b.Dx())/2, g.CenterY-float64(b.Dy()), p.handFilter())
}

func (p *Pipeline) handFilter() draw.Interpolator {
	if p.HandAntiAlias {
		return draw.BiLinear
	}
	return draw.NearestNeighbor
}

func (p *Pipeline) bitmapFilter() draw.Interpolator {
	if p.FilterBitmaps {
		return draw.BiLinear
	}
	return draw.NearestNeighbor
}
