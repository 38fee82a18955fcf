package assets

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// ManifestName is the manifest file name inside an asset bundle.
const ManifestName = "manifest.yaml"

// Manifest maps each element to its variant ids, in mode order:
// interactive, ambient, ambient low-bit.
type Manifest struct {
	Background []string `yaml:"background"`
	Face       []string `yaml:"face"`
	HourHand   []string `yaml:"hour_hand"`
	MinuteHand []string `yaml:"minute_hand"`
}

// IDs returns the variant ids listed for el.
func (m Manifest) IDs(el Element) []string {
	switch el {
	case Background:
		return m.Background
	case Face:
		return m.Face
	case HourHand:
		return m.HourHand
	case MinuteHand:
		return m.MinuteHand
	default:
		return nil
	}
}

// ParseManifest decodes a YAML manifest.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("assets: parse manifest: %w", err)
	}
	return m, nil
}

// LoadManifest reads and decodes the manifest of a bundle.
func LoadManifest(fsys fs.FS) (Manifest, error) {
	data, err := fs.ReadFile(fsys, ManifestName)
	if err != nil {
		return Manifest{}, fmt.Errorf("assets: read manifest: %w", err)
	}
	return ParseManifest(data)
}

// Marshal encodes the manifest as YAML.
func (m Manifest) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}
