//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	_ "time/tzdata"

	"watchface/app"
	"watchface/face/assets"
	"watchface/hal"
	"watchface/internal/buildinfo"
	"watchface/internal/config"
)

func main() {
	var (
		headless   bool
		hz         int
		ticks      uint64
		snapshot   string
		configPath string
		bundle     string
		zone       string
		lowBit     bool
		version    bool
	)
	flag.BoolVar(&headless, "headless", false, "Run without a window.")
	flag.IntVar(&hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&snapshot, "snapshot", "", "Write the last headless frame to this PNG file.")
	flag.StringVar(&configPath, "config", config.FileName, "Path to the configuration file.")
	flag.StringVar(&bundle, "bundle", "", "Asset bundle directory (overrides face.bundle).")
	flag.StringVar(&zone, "zone", "", "Host time zone (overrides clock.zone).")
	flag.BoolVar(&lowBit, "low-bit", false, "Report a low-bit ambient display.")
	flag.BoolVar(&version, "version", false, "Print the build version and exit.")
	flag.Parse()

	if version {
		fmt.Println(buildinfo.String())
		return
	}

	c, err := config.LoadOptional(configPath)
	if err != nil {
		fatalf("%v", err)
	}
	r, err := c.Resolve()
	if err != nil {
		fatalf("%s: %v", configPath, err)
	}
	if bundle != "" {
		r.Bundle = bundle
	} else if r.Bundle != "" && !filepath.IsAbs(r.Bundle) {
		r.Bundle = filepath.Join(filepath.Dir(configPath), r.Bundle)
	}
	if zone != "" {
		r.Zone = zone
	}
	if lowBit {
		r.LowBitAmbient = true
	}

	cfg := app.ConfigFrom(r)
	if r.Bundle != "" {
		src, m, err := assets.OpenBundle(os.DirFS(r.Bundle))
		if err != nil {
			fatalf("bundle %s: %v", r.Bundle, err)
		}
		cfg.Source, cfg.Manifest = src, m
	}
	host := app.HostConfigFrom(r)

	if headless {
		cfg.ExitOnFatal = true
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err := hal.RunHeadless(ctx, func(h hal.HAL) func() error {
			return app.NewWithConfig(h, cfg)
		}, hal.HeadlessConfig{Host: host, Hz: hz, Ticks: ticks, Snapshot: snapshot})
		if err != nil && !errors.Is(err, context.Canceled) {
			fatalf("%v", err)
		}
		return
	}

	if err := hal.RunWindow(func(h hal.HAL) func() error {
		return app.NewWithConfig(h, cfg)
	}, host); err != nil {
		fatalf("%v", err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "watchface: "+format+"\n", args...)
	os.Exit(1)
}
