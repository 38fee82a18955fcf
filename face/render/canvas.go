package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// OpKind identifies a recorded canvas operation.
type OpKind uint8

const (
	OpClear OpKind = iota + 1
	OpRect
	OpImage
	OpSave
	OpRestore
	OpRotate
)

func (k OpKind) String() string {
	switch k {
	case OpClear:
		return "clear"
	case OpRect:
		return "rect"
	case OpImage:
		return "image"
	case OpSave:
		return "save"
	case OpRestore:
		return "restore"
	case OpRotate:
		return "rotate"
	default:
		return "unknown"
	}
}

// Op is one recorded canvas call.
//
// Rotation is the total canvas rotation in effect when the op ran, in degrees
// normalized to [0, 360). For OpRotate, Degrees is the argument as passed.
type Op struct {
	Kind     OpKind
	Label    string
	Rect     image.Rectangle
	Color    color.RGBA
	Degrees  float64
	Rotation float64
}

type canvasState struct {
	m   f64.Aff3
	rot float64
}

// Canvas draws into an RGBA image through a save/restore transform stack.
type Canvas struct {
	dst   *image.RGBA
	m     f64.Aff3
	rot   float64
	stack []canvasState
	ops   []Op
}

var identity = f64.Aff3{1, 0, 0, 0, 1, 0}

// NewCanvas returns a canvas drawing into dst with an identity transform.
func NewCanvas(dst *image.RGBA) *Canvas {
	return &Canvas{dst: dst, m: identity}
}

// Ops returns the operations recorded so far.
func (c *Canvas) Ops() []Op { return c.ops }

// Rotation returns the total rotation in degrees, normalized to [0, 360).
func (c *Canvas) Rotation() float64 { return normDeg(c.rot) }

func (c *Canvas) Save() {
	c.stack = append(c.stack, canvasState{m: c.m, rot: c.rot})
	c.record(Op{Kind: OpSave})
}

// Restore pops the last saved transform. Unbalanced calls are ignored.
func (c *Canvas) Restore() {
	if n := len(c.stack); n > 0 {
		s := c.stack[n-1]
		c.stack = c.stack[:n-1]
		c.m, c.rot = s.m, s.rot
	}
	c.record(Op{Kind: OpRestore})
}

// Rotate turns the canvas clockwise by deg degrees about (cx, cy).
func (c *Canvas) Rotate(deg, cx, cy float64) {
	sin, cos := sinCos(deg)
	r := f64.Aff3{
		cos, -sin, cx - cos*cx + sin*cy,
		sin, cos, cy - sin*cx - cos*cy,
	}
	c.m = mul(c.m, r)
	c.rot += deg
	c.record(Op{Kind: OpRotate, Degrees: deg})
}

// Clear fills the whole target, ignoring the transform.
func (c *Canvas) Clear(col color.RGBA) {
	draw.Draw(c.dst, c.dst.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
	c.record(Op{Kind: OpClear, Rect: c.dst.Bounds(), Color: col})
}

// DrawRect fills r with an opaque colour.
func (c *Canvas) DrawRect(r image.Rectangle, col color.RGBA) {
	if !r.Empty() {
		if c.m == identity {
			draw.Draw(c.dst, r, image.NewUniform(col), image.Point{}, draw.Src)
		} else {
			m := mul(c.m, translate(float64(r.Min.X), float64(r.Min.Y)))
			sr := image.Rect(0, 0, r.Dx(), r.Dy())
			draw.NearestNeighbor.Transform(c.dst, m, image.NewUniform(col), sr, draw.Src, nil)
		}
	}
	c.record(Op{Kind: OpRect, Rect: r, Color: col})
}

// DrawImage draws img with its top-left corner at (x, y) in canvas space.
// interp samples the source whenever the transform is not a whole-pixel
// translation.
func (c *Canvas) DrawImage(label string, img image.Image, x, y float64, interp draw.Interpolator) {
	sb := img.Bounds()
	m := mul(c.m, translate(x, y))
	if tx, ty, ok := integerTranslation(m); ok {
		dr := image.Rect(tx, ty, tx+sb.Dx(), ty+sb.Dy())
		draw.Draw(c.dst, dr, img, sb.Min, draw.Over)
	} else {
		if interp == nil {
			interp = draw.BiLinear
		}
		m = mul(m, translate(-float64(sb.Min.X), -float64(sb.Min.Y)))
		interp.Transform(c.dst, m, img, sb, draw.Over, nil)
	}
	r := image.Rect(int(math.Floor(x)), int(math.Floor(y)), 0, 0)
	r.Max = r.Min.Add(sb.Size())
	c.record(Op{Kind: OpImage, Label: label, Rect: r})
}

func (c *Canvas) record(op Op) {
	op.Rotation = normDeg(c.rot)
	c.ops = append(c.ops, op)
}

func translate(x, y float64) f64.Aff3 {
	return f64.Aff3{1, 0, x, 0, 1, y}
}

// mul returns a·b, the transform applying b first.
func mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3], a[0]*b[1] + a[1]*b[4], a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3], a[3]*b[1] + a[4]*b[4], a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

func integerTranslation(m f64.Aff3) (int, int, bool) {
	if m[0] != 1 || m[1] != 0 || m[3] != 0 || m[4] != 1 {
		return 0, 0, false
	}
	if m[2] != math.Trunc(m[2]) || m[5] != math.Trunc(m[5]) {
		return 0, 0, false
	}
	return int(m[2]), int(m[5]), true
}

// sinCos is exact on quarter turns so axis-aligned hands stay pixel-sharp.
func sinCos(deg float64) (float64, float64) {
	d := normDeg(deg)
	switch d {
	case 0:
		return 0, 1
	case 90:
		return 1, 0
	case 180:
		return 0, -1
	case 270:
		return -1, 0
	}
	return math.Sincos(d * math.Pi / 180)
}

func normDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
