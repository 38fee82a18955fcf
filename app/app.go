// Package app wires the watch face to a HAL: it plays the host, turning
// surface, pointer and key input into lifecycle messages for the face.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"watchface/face/assets"
	"watchface/face/engine"
	"watchface/face/render"
	"watchface/hal"
	"watchface/internal/buildinfo"
	"watchface/kernel"
	"watchface/proto"

	"github.com/jonboulle/clockwork"
)

// Config selects the face's assets and the simulated host's behaviour.
type Config struct {
	// Source and Manifest default to the built-in face.
	Source   assets.Source
	Manifest assets.Manifest
	Options  render.Options

	// Zones are cycled through by the zone key.
	Zones    []string
	LogLevel slog.Level
	// ExitOnFatal makes the step return a fatal error instead of leaving the
	// error screen up until the host closes.
	ExitOnFatal bool

	Clock      clockwork.Clock
	MailboxLen int
	StepBudget int
}

type system struct {
	h   hal.HAL
	fb  hal.Framebuffer
	log *slog.Logger
	k   *kernel.Kernel
	eng *engine.Engine
	clk clockwork.Clock

	ctx    context.Context
	cancel context.CancelFunc
	minute *minuteTicker

	budget      int
	exitOnFatal bool

	zones   []string
	zoneIdx int
	zone    string

	ambient bool
	visible bool
	lowBit  bool
	peek    bool

	panicked *kernel.PanicInfo
	fatal    error
	closing  bool
	stopped  bool
}

// NewWithConfig starts the face on h and returns the per-frame step.
func NewWithConfig(h hal.HAL, cfg Config) func() error {
	s := newSystem(h, cfg)
	return s.step
}

// New starts the built-in face with default settings.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, Config{Options: render.DefaultOptions()})
}

func newSystem(h hal.HAL, cfg Config) *system {
	if cfg.Source == nil {
		cfg.Source = assets.Builtin()
		cfg.Manifest = assets.DefaultManifest()
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.StepBudget <= 0 {
		cfg.StepBudget = 32
	}

	s := &system{
		h:           h,
		log:         newLogger(h.Logger(), cfg.LogLevel),
		k:           kernel.New(cfg.MailboxLen),
		clk:         cfg.Clock,
		budget:      cfg.StepBudget,
		exitOnFatal: cfg.ExitOnFatal,
	}
	if d := h.Display(); d != nil {
		s.fb = d.Framebuffer()
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	host := h.Host()
	s.lowBit = host.LowBitAmbient()
	s.zone = host.TimeZone()
	s.zones = append([]string{s.zone}, withoutZone(cfg.Zones, s.zone)...)

	s.eng = engine.New(engine.Config{
		Source:      cfg.Source,
		Manifest:    cfg.Manifest,
		Options:     cfg.Options,
		Clock:       cfg.Clock,
		Framebuffer: s.fb,
		Wake: func(gen uint32) bool {
			return s.k.PostWait(s.ctx, uint16(proto.MsgWake), proto.WakePayload(gen)) == kernel.SendOK
		},
		HostZone: func() string { return s.zone },
		Logger:   s.log,
	})
	s.k.AddTask(s.eng)

	s.k.OnPanic(func(info kernel.PanicInfo) {
		s.panicked = &info
	})

	s.log.Info("watchface starting", "build", buildinfo.Short(), "zone", s.zone, "low_bit", s.lowBit)

	w, ht := 0, 0
	if s.fb != nil {
		w, ht = s.fb.Width(), s.fb.Height()
	}
	s.post(proto.MsgCreate, nil)
	s.post(proto.MsgCapability, proto.BoolPayload(s.lowBit))
	s.post(proto.MsgSurfaceChanged, proto.SizePayload(w, ht))
	s.visible = true
	s.post(proto.MsgVisibility, proto.BoolPayload(true))

	s.minute = startMinuteTicker(s.clk, func() bool {
		return s.k.PostWait(s.ctx, uint16(proto.MsgTimeTick), nil) == kernel.SendOK
	})
	return s
}

func (s *system) step() error {
	if s.stopped {
		return hal.ErrStop
	}
	s.pumpHost()
	s.pumpKeys()

	if s.fatal != nil {
		if s.closing {
			s.shutdown()
			return hal.ErrStop
		}
		return nil
	}

	s.k.Step(s.budget)

	if p := s.panicked; p != nil {
		s.panicked = nil
		for _, frame := range p.Stack {
			s.log.Error("panic frame", "at", frame)
		}
		return s.fail(fmt.Errorf("task %d panicked handling %s: %v", p.TaskID, proto.Kind(p.Kind), p.Value))
	}
	if err := s.eng.Err(); err != nil {
		return s.fail(err)
	}
	if s.closing && s.k.Pending() == 0 {
		s.shutdown()
		return hal.ErrStop
	}

	if _, err := s.eng.Frame(); err != nil {
		return s.fail(err)
	}
	return nil
}

func (s *system) pumpHost() {
	ch := s.h.Host().Events()
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			s.onHostEvent(ev)
		default:
			return
		}
	}
}

func (s *system) onHostEvent(ev hal.HostEvent) {
	now := s.clk.Now().UnixMilli()
	switch ev.Kind {
	case hal.HostResize:
		s.post(proto.MsgSurfaceChanged, proto.SizePayload(ev.Width, ev.Height))
		if s.peek {
			s.post(proto.MsgPeekCard, proto.RectPayload(s.peekRect()))
		}
	case hal.HostTouch:
		s.post(proto.MsgTap, proto.TapPayload(proto.Tap{Type: proto.TapTouch, X: ev.X, Y: ev.Y, TimeMs: now}))
	case hal.HostTap:
		s.post(proto.MsgTap, proto.TapPayload(proto.Tap{Type: proto.TapTap, X: ev.X, Y: ev.Y, TimeMs: now}))
	case hal.HostClose:
		s.close()
	}
}

func (s *system) pumpKeys() {
	in := s.h.Input()
	if in == nil {
		return
	}
	kbd := in.Keyboard()
	if kbd == nil {
		return
	}
	ch := kbd.Events()
	if ch == nil {
		return
	}
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			s.apply(keyAction(ev))
		default:
			return
		}
	}
}

func (s *system) apply(a action) {
	if a == actNone {
		return
	}
	s.log.Debug("key", "action", a.String())
	switch a {
	case actToggleAmbient:
		s.ambient = !s.ambient
		s.post(proto.MsgAmbient, proto.BoolPayload(s.ambient))
	case actToggleVisible:
		s.visible = !s.visible
		s.post(proto.MsgVisibility, proto.BoolPayload(s.visible))
	case actTogglePeek:
		s.peek = !s.peek
		s.post(proto.MsgPeekCard, proto.RectPayload(s.peekRect()))
	case actNextZone:
		s.zoneIdx = (s.zoneIdx + 1) % len(s.zones)
		s.zone = s.zones[s.zoneIdx]
		if payload, ok := proto.ZonePayload(s.zone); ok {
			s.post(proto.MsgTimeZone, payload)
		}
		s.log.Info("time zone", "zone", s.zone)
	case actTap:
		s.post(proto.MsgTap, proto.TapPayload(proto.Tap{Type: proto.TapTap, TimeMs: s.clk.Now().UnixMilli()}))
	case actToggleLowBit:
		s.lowBit = !s.lowBit
		s.post(proto.MsgCapability, proto.BoolPayload(s.lowBit))
	case actQuit:
		s.close()
	}
}

// peekRect is the simulated notification card: the bottom quarter of the
// screen while shown, empty otherwise.
func (s *system) peekRect() image.Rectangle {
	if !s.peek || s.fb == nil {
		return image.Rectangle{}
	}
	w, h := s.fb.Width(), s.fb.Height()
	return image.Rect(0, h-h/4, w, h)
}

func (s *system) close() {
	if s.closing {
		return
	}
	s.closing = true
	if s.fatal != nil {
		return
	}
	if s.visible {
		s.visible = false
		s.post(proto.MsgVisibility, proto.BoolPayload(false))
	}
	s.post(proto.MsgDestroy, nil)
}

func (s *system) shutdown() {
	if s.stopped {
		return
	}
	s.stopped = true
	s.minute.Stop()
	s.cancel()
	s.k.Close()
	s.log.Info("watchface stopped", "frames", s.eng.Frames())
}

// fail shows err on the screen. The face does not draw again.
func (s *system) fail(err error) error {
	if s.fatal == nil {
		s.fatal = err
		s.log.Error("fatal", "err", err)
		s.eng.OnDestroy()
		s.minute.Stop()
		s.cancel()
		lines := []string{"watchface: fatal error", ""}
		var missing *assets.AssetMissingError
		if errors.As(err, &missing) {
			lines = append(lines, "missing assets for "+missing.Element.String(), "")
		}
		lines = append(lines, err.Error())
		drawFatal(s.fb, lines)
	}
	if s.exitOnFatal {
		s.shutdown()
		return err
	}
	return nil
}

func (s *system) post(kind proto.Kind, payload []byte) {
	if res := s.k.Post(uint16(kind), payload); res != kernel.SendOK {
		s.log.Warn("message dropped", "kind", kind.String(), "result", res.String())
	}
}

func withoutZone(zones []string, zone string) []string {
	out := make([]string, 0, len(zones))
	for _, z := range zones {
		if z != zone {
			out = append(out, z)
		}
	}
	return out
}
