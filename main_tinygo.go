//go:build tinygo

package main

import (
	"watchface/app"
	"watchface/hal"
	"watchface/internal/config"
)

func main() {
	r := config.Default()
	cfg := app.ConfigFrom(r)
	if err := hal.RunLoop(func(h hal.HAL) func() error {
		return app.NewWithConfig(h, cfg)
	}, app.HostConfigFrom(r), 30); err != nil {
		println("watchface:", err.Error())
	}
}
