package assets

import (
	"errors"
	"fmt"
	"image"
	"math"

	"watchface/face/mode"

	"golang.org/x/image/draw"
)

// AssetMissingError reports an element for which fewer than all mode variants
// could be resolved. It is fatal at startup: the face cannot render a mode it
// has no bitmap for.
type AssetMissingError struct {
	Element  Element
	Resolved int
	Err      error
}

func (e *AssetMissingError) Error() string {
	msg := fmt.Sprintf("assets: %s: %d of %d variants resolved", e.Element, e.Resolved, mode.Count)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AssetMissingError) Unwrap() error { return e.Err }

var errBadFactor = errors.New("assets: scale factor must be positive and finite")

// Table stores every variant of every element.
//
// The load-time originals are kept so that each rescale starts from native
// dimensions instead of compounding the previous scale.
type Table struct {
	native  [ElementCount][mode.Count]image.Image
	variant [ElementCount][mode.Count]*image.RGBA
	scale   float64
}

// LoadElement resolves the variants of one element through src.
func LoadElement(src Source, m Manifest, el Element) ([mode.Count]image.Image, error) {
	var out [mode.Count]image.Image
	ids := m.IDs(el)

	resolved := 0
	var firstErr error
	for i := 0; i < len(ids) && i < mode.Count; i++ {
		img, err := src.LoadNativeBitmap(ids[i])
		if err == nil && (img == nil || img.Bounds().Empty()) {
			err = fmt.Errorf("%s: empty bitmap", ids[i])
		}
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		out[i] = img
		resolved++
	}
	if resolved < mode.Count {
		return out, &AssetMissingError{Element: el, Resolved: resolved, Err: firstErr}
	}
	return out, nil
}

// Load resolves all elements listed in m. It fails with *AssetMissingError on
// the first element that cannot provide every variant.
func Load(src Source, m Manifest) (*Table, error) {
	if src == nil {
		return nil, errors.New("assets: nil source")
	}
	t := &Table{scale: 1}
	for _, el := range Elements {
		imgs, err := LoadElement(src, m, el)
		if err != nil {
			return nil, err
		}
		for i, img := range imgs {
			t.native[el][i] = img
			t.variant[el][i] = toRGBA(img)
		}
	}
	return t, nil
}

// Select returns the variant of el drawn in mode md.
func (t *Table) Select(el Element, md mode.Mode) *image.RGBA {
	return t.variant[el][md]
}

// NativeSize returns the load-time dimensions of a variant.
func (t *Table) NativeSize(el Element, md mode.Mode) image.Point {
	return t.native[el][md].Bounds().Size()
}

// Scale returns the factor shared by all variants since the last Rescale.
func (t *Table) Scale() float64 { return t.scale }

// Rescale replaces every variant with its original scaled by factor.
//
// Variants already at the target size are left as they are, so repeating a
// rescale with the same factor does no work.
func (t *Table) Rescale(factor float64) error {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return errBadFactor
	}
	for _, el := range Elements {
		for _, md := range mode.All {
			src := t.native[el][md]
			sb := src.Bounds()
			w := scaledDim(sb.Dx(), factor)
			h := scaledDim(sb.Dy(), factor)

			cur := t.variant[el][md].Bounds()
			if cur.Dx() == w && cur.Dy() == h {
				continue
			}
			dst := image.NewRGBA(image.Rect(0, 0, w, h))
			draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
			t.variant[el][md] = dst
		}
	}
	t.scale = factor
	return nil
}

func scaledDim(n int, factor float64) int {
	v := int(float64(n) * factor)
	if v < 1 {
		return 1
	}
	return v
}

func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
