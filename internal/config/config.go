// Package config reads the optional watchface.yaml and resolves defaults.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up by default.
const FileName = "watchface.yaml"

// Config represents the optional watchface.yaml configuration.
type Config struct {
	Face    FaceConfig    `yaml:"face"`
	Display DisplayConfig `yaml:"display"`
	Clock   ClockConfig   `yaml:"clock"`
	Log     LogConfig     `yaml:"log"`
}

// FaceConfig selects the assets and paint settings.
type FaceConfig struct {
	// Bundle is an asset bundle directory; empty uses the built-in face.
	Bundle     string   `yaml:"bundle,omitempty"`
	FaceOffset *float64 `yaml:"face_offset,omitempty"`
	Background string   `yaml:"background,omitempty"`
	PeekMask   string   `yaml:"peek_mask,omitempty"`
}

// DisplayConfig describes the simulated surface.
type DisplayConfig struct {
	Width         int  `yaml:"width,omitempty"`
	Height        int  `yaml:"height,omitempty"`
	LowBitAmbient bool `yaml:"low_bit_ambient,omitempty"`
}

// ClockConfig holds the time zone settings.
type ClockConfig struct {
	Zone  string   `yaml:"zone,omitempty"`
	Zones []string `yaml:"zones,omitempty"`
}

type LogConfig struct {
	Level string `yaml:"level,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Bundle        string
	FaceOffset    float64
	Background    color.RGBA
	PeekMask      color.RGBA
	Width         int
	Height        int
	LowBitAmbient bool
	Zone          string
	Zones         []string
	LogLevel      slog.Level
}

var defaultZones = []string{"UTC", "Europe/London", "America/New_York", "Asia/Tokyo", "Australia/Sydney"}

// Default returns the configuration used when no file is present.
func Default() *Resolved {
	r, _ := (&Config{}).Resolve()
	return r
}

// LoadOptional reads path if present. A missing file yields an empty Config.
func LoadOptional(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a watchface.yaml document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	return &cfg, nil
}

// Resolve validates the configuration and fills in defaults.
func (c *Config) Resolve() (*Resolved, error) {
	r := &Resolved{
		Bundle:        strings.TrimSpace(c.Face.Bundle),
		FaceOffset:    1,
		Width:         c.Display.Width,
		Height:        c.Display.Height,
		LowBitAmbient: c.Display.LowBitAmbient,
		Zone:          strings.TrimSpace(c.Clock.Zone),
		LogLevel:      slog.LevelInfo,
	}
	if c.Face.FaceOffset != nil {
		r.FaceOffset = *c.Face.FaceOffset
	}
	if r.Width <= 0 {
		r.Width = 320
	}
	if r.Height <= 0 {
		r.Height = r.Width
	}

	var err error
	if r.Background, err = parseColor(c.Face.Background, "#000000"); err != nil {
		return nil, fmt.Errorf("face.background: %w", err)
	}
	if r.PeekMask, err = parseColor(c.Face.PeekMask, "#000000"); err != nil {
		return nil, fmt.Errorf("face.peek_mask: %w", err)
	}

	for _, z := range c.Clock.Zones {
		if z = strings.TrimSpace(z); z != "" {
			r.Zones = append(r.Zones, z)
		}
	}
	if len(r.Zones) == 0 {
		r.Zones = append([]string(nil), defaultZones...)
	}

	if lvl := strings.TrimSpace(c.Log.Level); lvl != "" {
		if err := r.LogLevel.UnmarshalText([]byte(lvl)); err != nil {
			return nil, fmt.Errorf("log.level: %w", err)
		}
	}
	return r, nil
}

// parseColor accepts #rrggbb or #rgb. Colours are always opaque.
func parseColor(s, def string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		s = def
	}
	if len(s) == 4 && s[0] == '#' {
		s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
