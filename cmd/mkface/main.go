// Command mkface writes, checks and previews watch face asset bundles.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"watchface/face/assets"
	"watchface/face/clock"
	"watchface/face/mode"
	"watchface/face/render"

	"github.com/jonboulle/clockwork"
)

func main() {
	var (
		modeFlag = flag.String("mode", "check", "write|check|render.")
		inDir    = flag.String("in", "", "Bundle directory to read (check, render; empty = built-in).")
		outPath  = flag.String("out", "", "Bundle directory (write) or PNG file (render).")
		size     = flag.Int("size", 320, "Surface size in pixels (render mode only).")
		at       = flag.String("time", "10:10", "Wall time HH:MM (render mode only).")
		face     = flag.String("face", "interactive", "interactive|ambient|ambient_low_bit (render mode only).")
	)
	flag.Parse()

	switch strings.ToLower(*modeFlag) {
	case "write":
		if *outPath == "" {
			fatalf("usage: mkface -mode write -out DIR")
		}
		if err := writeBundle(*outPath, assets.Builtin()); err != nil {
			fatalf("write: %v", err)
		}
	case "check":
		src, m, err := openSource(*inDir)
		if err != nil {
			fatalf("check: %v", err)
		}
		if err := checkBundle(os.Stdout, src, m); err != nil {
			fatalf("check: %v", err)
		}
	case "render":
		if *outPath == "" {
			fatalf("usage: mkface -mode render [-in DIR] -out face.png [-size 320] [-time 10:10] [-face ambient]")
		}
		md, err := parseMode(*face)
		if err != nil {
			fatalf("render: %v", err)
		}
		src, m, err := openSource(*inDir)
		if err != nil {
			fatalf("render: %v", err)
		}
		if err := renderPreview(*outPath, src, m, *size, *at, md); err != nil {
			fatalf("render: %v", err)
		}
	default:
		fatalf("unknown mode: %s", *modeFlag)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

func openSource(dir string) (assets.Source, assets.Manifest, error) {
	if dir == "" {
		return assets.Builtin(), assets.DefaultManifest(), nil
	}
	return assets.OpenBundle(os.DirFS(dir))
}

func fileName(el assets.Element, md mode.Mode) string {
	return el.String() + "_" + md.String() + ".png"
}

// writeBundle encodes every variant of src as PNG next to a manifest that
// lists them.
func writeBundle(dir string, src assets.Source) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var m assets.Manifest
	for _, el := range assets.Elements {
		ids := make([]string, 0, mode.Count)
		for _, md := range mode.All {
			img, err := src.LoadNativeBitmap(assets.BuiltinID(el, md))
			if err != nil {
				return err
			}
			name := fileName(el, md)
			if err := writePNG(filepath.Join(dir, name), img); err != nil {
				return err
			}
			ids = append(ids, name)
		}
		switch el {
		case assets.Background:
			m.Background = ids
		case assets.Face:
			m.Face = ids
		case assets.HourHand:
			m.HourHand = ids
		case assets.MinuteHand:
			m.MinuteHand = ids
		}
	}
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, assets.ManifestName), data, 0o644)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := png.Encode(bw, img); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// checkBundle loads every variant and prints its native size.
func checkBundle(w io.Writer, src assets.Source, m assets.Manifest) error {
	t, err := assets.Load(src, m)
	if err != nil {
		return err
	}
	for _, el := range assets.Elements {
		for _, md := range mode.All {
			sz := t.NativeSize(el, md)
			fmt.Fprintf(w, "%-12s %-16s %4dx%d\n", el, md, sz.X, sz.Y)
		}
	}
	bg := t.NativeSize(assets.Background, mode.Interactive)
	for _, md := range mode.All[1:] {
		if t.NativeSize(assets.Background, md) != bg {
			fmt.Fprintf(w, "warning: %s background is not %dx%d\n", md, bg.X, bg.Y)
		}
	}
	return nil
}

func parseMode(s string) (mode.Mode, error) {
	for _, md := range mode.All {
		if strings.EqualFold(s, md.String()) {
			return md, nil
		}
	}
	return 0, fmt.Errorf("unknown face mode: %s", s)
}

// renderPreview draws one frame at wall time hh:mm UTC.
func renderPreview(path string, src assets.Source, m assets.Manifest, size int, hhmm string, md mode.Mode) error {
	wall, err := time.Parse("15:04", hhmm)
	if err != nil {
		return fmt.Errorf("bad time %q: %w", hhmm, err)
	}
	t, err := assets.Load(src, m)
	if err != nil {
		return err
	}
	p := render.NewPipeline(t, render.DefaultOptions())
	if err := p.OnGeometryChanged(size, size); err != nil {
		return err
	}
	p.SetAmbient(md.IsAmbient(), md == mode.AmbientLowFidelity)

	st := clock.NewState(clockwork.NewFakeClockAt(time.Date(2024, 1, 1, wall.Hour(), wall.Minute(), 0, 0, time.UTC)))
	snap, err := st.Refresh("UTC")
	if err != nil {
		return err
	}
	f, err := p.RenderFrame(md, snap)
	if err != nil {
		return err
	}
	return writePNG(path, f.Image)
}
