package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"watchface/face/assets"
	"watchface/face/mode"
)

func TestWriteThenCheckBundle(t *testing.T) {
	dir := t.TempDir()
	if err := writeBundle(dir, assets.Builtin()); err != nil {
		t.Fatalf("write: %v", err)
	}

	src, m, err := openSource(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(m.HourHand) != mode.Count || m.HourHand[2] != "hour_hand_ambient_low_bit.png" {
		t.Fatalf("unexpected manifest %+v", m)
	}

	var out bytes.Buffer
	if err := checkBundle(&out, src, m); err != nil {
		t.Fatalf("check: %v", err)
	}
	if got := strings.Count(out.String(), "\n"); got != assets.ElementCount*mode.Count {
		t.Fatalf("expected %d lines, got %d:\n%s", assets.ElementCount*mode.Count, got, out.String())
	}
	if strings.Contains(out.String(), "warning") {
		t.Fatalf("unexpected warning:\n%s", out.String())
	}
}

func TestCheckReportsMissingVariant(t *testing.T) {
	dir := t.TempDir()
	if err := writeBundle(dir, assets.Builtin()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Remove(filepath.Join(dir, "face_ambient.png")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	src, m, err := openSource(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	err = checkBundle(&bytes.Buffer{}, src, m)
	if err == nil || !strings.Contains(err.Error(), "face") {
		t.Fatalf("expected missing face error, got %v", err)
	}
}

func TestRenderPreview(t *testing.T) {
	path := filepath.Join(t.TempDir(), "face.png")
	if err := renderPreview(path, assets.Builtin(), assets.DefaultManifest(), 160, "03:00", mode.Ambient); err != nil {
		t.Fatalf("render: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 160, 160) {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
}

func TestParseMode(t *testing.T) {
	md, err := parseMode("Ambient_Low_Bit")
	if err != nil || md != mode.AmbientLowFidelity {
		t.Fatalf("expected low-bit ambient, got %v %v", md, err)
	}
	if _, err := parseMode("dim"); err == nil {
		t.Fatalf("expected error")
	}
}
