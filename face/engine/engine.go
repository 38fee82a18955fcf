// Package engine routes host lifecycle callbacks to the watch face core.
//
// An Engine is not safe for concurrent use. It is driven from one goroutine:
// the kernel dispatches host messages to Handle, and the host's frame step
// calls Frame.
package engine

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"

	"watchface/face/assets"
	"watchface/face/clock"
	"watchface/face/mode"
	"watchface/face/render"
	"watchface/face/sched"
	"watchface/hal"
	"watchface/proto"

	"github.com/jonboulle/clockwork"
)

// Config wires an Engine to its collaborators.
type Config struct {
	Source   assets.Source
	Manifest assets.Manifest
	Options  render.Options

	Clock       clockwork.Clock
	Framebuffer hal.Framebuffer

	// Wake delivers a scheduler wake back to the engine's goroutine. It is
	// called from timer goroutines.
	Wake func(gen uint32) bool
	// HostZone returns the host's current default zone id.
	HostZone func() string

	Logger *slog.Logger
}

var errDestroyed = errors.New("engine: destroyed")

// Engine owns every piece of face state.
type Engine struct {
	log      *slog.Logger
	src      assets.Source
	manifest assets.Manifest
	opts     render.Options
	fb       hal.Framebuffer
	hostZone func() string

	table *assets.Table
	pipe  *render.Pipeline
	clock *clock.State
	modes *mode.Controller
	sched *sched.Scheduler

	created   bool
	destroyed bool
	visible   bool

	zoneRegistered bool
	zoneID         string

	dirty  bool
	frames uint64
	last   *render.Frame
	err    error
}

func New(cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	hostZone := cfg.HostZone
	if hostZone == nil {
		hostZone = func() string { return "UTC" }
	}
	e := &Engine{
		log:      log.With("component", "engine"),
		src:      cfg.Source,
		manifest: cfg.Manifest,
		opts:     cfg.Options,
		fb:       cfg.Framebuffer,
		hostZone: hostZone,
		clock:    clock.NewState(cfg.Clock),
	}
	e.modes = mode.NewController(modeHooks{e})
	e.sched = sched.New(cfg.Clock, cfg.Wake, e.Invalidate)
	return e
}

type modeHooks struct{ e *Engine }

func (h modeHooks) RedrawRequested() { h.e.Invalidate() }
func (h modeHooks) ScheduleChanged() { h.e.reschedule() }

// OnCreate loads every asset variant. A missing variant is fatal: the error is
// kept, and the engine refuses to draw.
func (e *Engine) OnCreate() error {
	if e.destroyed {
		return errDestroyed
	}
	if e.created {
		return nil
	}
	table, err := assets.Load(e.src, e.manifest)
	if err != nil {
		e.err = fmt.Errorf("engine: create: %w", err)
		e.log.Error("asset load failed", "err", err)
		return e.err
	}
	e.table = table
	e.pipe = render.NewPipeline(table, e.opts)
	e.syncPaint()
	e.zoneID = e.hostZone()
	e.created = true
	e.log.Info("created", "zone", e.zoneID)
	e.reschedule()
	return nil
}

// OnGeometryChanged lays the face out for a new surface size. Invalid sizes
// are ignored and the previous geometry is kept.
func (e *Engine) OnGeometryChanged(w, h int) {
	if !e.ready("surface_changed") {
		return
	}
	if err := e.pipe.OnGeometryChanged(w, h); err != nil {
		var ge *render.InvalidGeometryError
		if errors.As(err, &ge) {
			e.log.Debug("geometry ignored", "width", w, "height", h)
			return
		}
		e.log.Warn("geometry change failed", "err", err)
		return
	}
	g, _ := e.pipe.Geometry()
	e.log.Debug("geometry", "width", g.Width, "height", g.Height, "scale", g.Scale)
	e.Invalidate()
}

// OnVisibilityChanged starts or stops listening for zone changes and
// re-evaluates the tick schedule. Becoming visible rebinds the clock to the
// host's current zone.
func (e *Engine) OnVisibilityChanged(visible bool) {
	if !e.ready("visibility") {
		return
	}
	if visible {
		e.zoneRegistered = true
		e.zoneID = e.hostZone()
		e.clock.HandleZoneChanged(e.zoneID)
		e.Invalidate()
	} else {
		e.zoneRegistered = false
	}
	e.visible = visible
	e.reschedule()
}

// OnDestroy stops the scheduler. Wakes still in flight are dropped.
func (e *Engine) OnDestroy() {
	e.sched.Stop()
	e.zoneRegistered = false
	e.visible = false
	e.destroyed = true
	e.dirty = false
	e.log.Info("destroyed", "frames", e.frames)
}

func (e *Engine) OnCapabilityReport(lowBitAmbient bool) {
	e.modes.OnCapabilityReport(lowBitAmbient)
	e.syncPaint()
}

func (e *Engine) OnAmbientChanged(ambient bool) {
	if !e.modes.OnAmbientChanged(ambient) {
		e.reschedule()
	}
	e.syncPaint()
	e.log.Debug("ambient", "ambient", ambient, "mode", e.modes.Mode())
}

// OnTap does nothing but redraw.
func (e *Engine) OnTap(typ proto.TapType, x, y int, timeMs int64) {
	e.log.Debug("tap", "type", typ.String(), "x", x, "y", y, "t", timeMs)
	e.Invalidate()
}

// OnTimeZoneChanged rebinds the clock. It reports false when the engine is
// not listening, which is the case while hidden.
func (e *Engine) OnTimeZoneChanged(zoneID string) bool {
	if !e.zoneRegistered {
		e.log.Debug("zone change ignored", "zone", zoneID)
		return false
	}
	e.zoneID = zoneID
	e.clock.HandleZoneChanged(zoneID)
	e.Invalidate()
	return true
}

// OnTimeTick is the host's once-a-minute tick.
func (e *Engine) OnTimeTick() { e.Invalidate() }

// OnPeekCardPositionUpdate records where the host shows its notification card.
func (e *Engine) OnPeekCardPositionUpdate(r image.Rectangle) {
	if !e.ready("peek_card") {
		return
	}
	e.pipe.SetPeekRegion(r)
	e.Invalidate()
}

// OnWake handles a scheduler wake posted back from a timer.
func (e *Engine) OnWake(gen uint32) bool {
	if !e.sched.OnWake(gen) {
		e.log.Debug("stale wake dropped", "gen", gen)
		return false
	}
	return true
}

// Invalidate requests a redraw. Requests made before the next Frame collapse
// into one.
func (e *Engine) Invalidate() {
	if e.destroyed {
		return
	}
	e.dirty = true
}

// Frame draws if a redraw is pending. It is called once per display frame.
func (e *Engine) Frame() (bool, error) {
	if e.err != nil {
		return false, e.err
	}
	if !e.dirty || !e.created || e.destroyed || !e.visible {
		return false, nil
	}
	if _, ok := e.pipe.Geometry(); !ok {
		return false, nil
	}
	e.dirty = false

	snap, err := e.clock.Refresh(e.zoneID)
	if err != nil {
		e.log.Warn("clock refresh", "err", err)
	}
	md := e.modes.Mode()
	f, err := e.pipe.RenderFrame(md, snap)
	if err != nil {
		return false, err
	}
	if e.fb != nil {
		if err := present(e.fb, f.Image); err != nil && !errors.Is(err, hal.ErrNotImplemented) {
			return true, fmt.Errorf("engine: present: %w", err)
		}
	}
	e.last = f
	e.frames++

	if e.visible && md == mode.Interactive {
		e.dirty = true
	}
	return true, nil
}

func (e *Engine) syncPaint() {
	if e.pipe != nil {
		e.pipe.SetAmbient(e.modes.Ambient(), e.modes.LowBitAmbient())
	}
}

func (e *Engine) reschedule() {
	e.sched.Reevaluate(sched.State{Visible: e.visible, Ambient: e.modes.Ambient()})
}

func (e *Engine) ready(op string) bool {
	if !e.created || e.destroyed {
		e.log.Debug("lifecycle call outside created state", "op", op)
		return false
	}
	return true
}

// Err returns the fatal error, if any.
func (e *Engine) Err() error { return e.err }

func (e *Engine) Mode() mode.Mode { return e.modes.Mode() }

func (e *Engine) Visible() bool { return e.visible }

func (e *Engine) Dirty() bool { return e.dirty }

func (e *Engine) Frames() uint64 { return e.frames }

// PendingWakes returns the number of armed scheduler wakes.
func (e *Engine) PendingWakes() int { return e.sched.Pending() }

// LastFrame returns the most recent frame. Its image is reused by the next
// Frame call.
func (e *Engine) LastFrame() *render.Frame { return e.last }

func (e *Engine) Zone() string { return e.zoneID }

// Pipeline exposes the render pipeline once created.
func (e *Engine) Pipeline() *render.Pipeline { return e.pipe }
