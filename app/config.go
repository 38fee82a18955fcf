package app

import (
	"watchface/face/render"
	"watchface/hal"
	"watchface/internal/config"
)

// ConfigFrom maps resolved settings onto an app Config. The asset source is
// left to the caller.
func ConfigFrom(r *config.Resolved) Config {
	return Config{
		Options: render.Options{
			Background: r.Background,
			PeekMask:   r.PeekMask,
			FaceOffset: r.FaceOffset,
		},
		Zones:    append([]string(nil), r.Zones...),
		LogLevel: r.LogLevel,
	}
}

// HostConfigFrom returns the simulated host's surface settings.
func HostConfigFrom(r *config.Resolved) hal.HostConfig {
	return hal.HostConfig{
		Width:         r.Width,
		Height:        r.Height,
		LowBitAmbient: r.LowBitAmbient,
		TimeZone:      r.Zone,
	}
}
