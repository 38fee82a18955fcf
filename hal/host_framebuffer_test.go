//go:build !tinygo

package hal

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestHostFramebufferResize(t *testing.T) {
	f := newHostFramebuffer(4, 4)
	if f.resize(4, 4) {
		t.Fatal("expected same-size resize to be a no-op")
	}
	if f.resize(0, 10) {
		t.Fatal("expected zero width to be rejected")
	}
	if !f.resize(8, 2) {
		t.Fatal("expected resize to report a change")
	}
	if f.Width() != 8 || f.Height() != 2 || f.StrideBytes() != 16 || len(f.Buffer()) != 32 {
		t.Fatalf("unexpected geometry %dx%d stride %d len %d", f.Width(), f.Height(), f.StrideBytes(), len(f.Buffer()))
	}
}

func TestHostFramebufferWritePNG(t *testing.T) {
	f := newHostFramebuffer(3, 2)
	f.ClearRGB(0xff, 0, 0)

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := f.writePNG(path); err != nil {
		t.Fatalf("writePNG: %v", err)
	}
	in, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer in.Close()
	img, err := png.Decode(in)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := img.Bounds().Size(); got.X != 3 || got.Y != 2 {
		t.Fatalf("expected 3x2, got %v", got)
	}
	r, g, b, a := img.At(1, 1).RGBA()
	if r>>8 != 0xff || g != 0 || b != 0 || a>>8 != 0xff {
		t.Fatalf("expected opaque red, got %d %d %d %d", r, g, b, a)
	}
}
