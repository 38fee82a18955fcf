package assets

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
)

// Source resolves a variant id to its native bitmap.
type Source interface {
	LoadNativeBitmap(id string) (image.Image, error)
}

// DirSource decodes variant files from an asset bundle; ids are paths
// relative to the bundle root.
type DirSource struct {
	FS fs.FS
}

func (s DirSource) LoadNativeBitmap(id string) (image.Image, error) {
	f, err := s.FS.Open(id)
	if err != nil {
		return nil, fmt.Errorf("assets: open %s: %w", id, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", id, err)
	}
	return img, nil
}

// OpenBundle returns the source and manifest of a bundle directory.
func OpenBundle(fsys fs.FS) (Source, Manifest, error) {
	m, err := LoadManifest(fsys)
	if err != nil {
		return nil, Manifest{}, err
	}
	return DirSource{FS: fsys}, m, nil
}
