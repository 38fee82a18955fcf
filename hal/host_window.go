//go:build !tinygo && cgo

package hal

import (
	"errors"
	"image"

	"watchface/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// windowScale is the number of screen pixels per framebuffer pixel.
const windowScale = 2

// RunWindow starts a resizable desktop window that displays the framebuffer
// and forwards keyboard, pointer and resize input. It blocks until the window
// closes.
func RunWindow(newApp func(HAL) func() error, cfg HostConfig) error {
	h := newHostHAL(cfg)
	step := newApp(h)

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle("watchface (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*windowScale, h.fb.height*windowScale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(60)
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type hostGame struct {
	h       *hostHAL
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	step    func() error
	closing bool
}

func (g *hostGame) Update() error {
	g.h.kbd.poll()
	g.pollPointer()
	if ebiten.IsWindowBeingClosed() && !g.closing {
		g.closing = true
		g.h.host.emit(HostEvent{Kind: HostClose})
	}
	if g.step != nil {
		if err := g.step(); err != nil {
			if errors.Is(err, ErrStop) {
				return ebiten.Termination
			}
			return err
		}
	}
	return nil
}

func (g *hostGame) pollPointer() {
	x, y := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.h.host.emit(HostEvent{Kind: HostTouch, X: x, Y: y})
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.h.host.emit(HostEvent{Kind: HostTap, X: x, Y: y})
	}
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	w, h := fb.Width(), fb.Height()
	if g.img == nil || g.img.Bounds().Dx() != w || g.img.Bounds().Dy() != h {
		g.img = image.NewRGBA(image.Rect(0, 0, w, h))
		g.scratch = make([]byte, w*h*2)
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(w, h)
	}

	fb.snapshotRGB565(g.scratch)
	expandRGB565(g.img.Pix, g.scratch)

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

// Layout follows the window size: a resize reallocates the framebuffer and is
// reported to the app.
func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	w := outsideWidth / windowScale
	h := outsideHeight / windowScale
	if g.h.fb.resize(w, h) {
		g.h.host.emit(HostEvent{Kind: HostResize, Width: w, Height: h})
	}
	return g.h.fb.Width(), g.h.fb.Height()
}
