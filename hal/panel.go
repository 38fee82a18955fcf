package hal

import "errors"

var (
	errPanelFrame   = errors.New("panel: frame smaller than w*h pixels")
	errPanelScratch = errors.New("panel: scratch buffer too small")
)

// streamRGB565BE sends the first w*h pixels of buf, stored little-endian as
// in every Framebuffer, to tx in big-endian order. scratch bounds the size of
// each transfer.
func streamRGB565BE(buf, scratch []byte, w, h int, tx func([]byte) error) error {
	n := w * h * 2
	if w <= 0 || h <= 0 || len(buf) < n {
		return errPanelFrame
	}
	scratch = scratch[:len(scratch)&^1]
	if len(scratch) == 0 {
		return errPanelScratch
	}
	for off := 0; off < n; {
		c := len(scratch)
		if c > n-off {
			c = n - off
		}
		src := buf[off : off+c]
		for i := 0; i < c; i += 2 {
			scratch[i] = src[i+1]
			scratch[i+1] = src[i]
		}
		if err := tx(scratch[:c]); err != nil {
			return err
		}
		off += c
	}
	return nil
}
