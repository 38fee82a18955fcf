//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Host  HostConfig
	Hz    int
	Ticks uint64
	// Snapshot, if set, is where the last framebuffer is written as PNG.
	Snapshot string
}

// closeGrace is how many steps the app gets to shut down after HostClose.
const closeGrace = 8

// RunHeadless runs the face without opening a window. Cancelling ctx asks the
// app to close.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) (err error) {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}

	h := newHostHAL(cfg.Host)
	step := newApp(h)

	if cfg.Snapshot != "" {
		defer func() {
			if werr := h.fb.writePNG(cfg.Snapshot); werr != nil && err == nil {
				err = fmt.Errorf("snapshot: %w", werr)
			}
		}()
	}

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	grace := -1
	done := ctx.Done()
	for {
		select {
		case <-done:
			done = nil
			grace = closeGrace
			h.host.emit(HostEvent{Kind: HostClose})
		case <-t.C:
			if step != nil {
				if err := step(); err != nil {
					if errors.Is(err, ErrStop) {
						return nil
					}
					return err
				}
			}
			tick++
			if grace > 0 {
				grace--
				if grace == 0 {
					return ctx.Err()
				}
			}
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}
