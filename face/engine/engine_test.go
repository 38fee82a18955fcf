package engine

import (
	"errors"
	"fmt"
	"image"
	"testing"
	"time"
	_ "time/tzdata"

	"watchface/face/assets"
	"watchface/face/mode"
	"watchface/face/render"
	"watchface/hal"
	"watchface/kernel"
	"watchface/proto"

	"github.com/jonboulle/clockwork"
)

type memFB struct {
	w, h     int
	buf      []byte
	presents int
}

func newMemFB(w, h int) *memFB {
	return &memFB{w: w, h: h, buf: make([]byte, w*h*2)}
}

func (f *memFB) Width() int              { return f.w }
func (f *memFB) Height() int             { return f.h }
func (f *memFB) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *memFB) StrideBytes() int        { return f.w * 2 }
func (f *memFB) Buffer() []byte          { return f.buf }
func (f *memFB) ClearRGB(r, g, b uint8)  {}

func (f *memFB) Present() error {
	f.presents++
	return nil
}

func (f *memFB) pixel(x, y int) uint16 {
	i := y*f.w*2 + x*2
	return uint16(f.buf[i]) | uint16(f.buf[i+1])<<8
}

type harness struct {
	e     *Engine
	fc    *clockwork.FakeClock
	fb    *memFB
	wakes chan uint32
	zone  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		fc:    clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)),
		fb:    newMemFB(320, 320),
		wakes: make(chan uint32, 8),
		zone:  "UTC",
	}
	h.e = New(Config{
		Source:      assets.Builtin(),
		Manifest:    assets.DefaultManifest(),
		Options:     render.DefaultOptions(),
		Clock:       h.fc,
		Framebuffer: h.fb,
		Wake: func(gen uint32) bool {
			h.wakes <- gen
			return true
		},
		HostZone: func() string { return h.zone },
	})
	return h
}

// start brings the engine to a visible, laid-out state.
func (h *harness) start(t *testing.T, ambient bool) {
	t.Helper()
	if err := h.e.OnCreate(); err != nil {
		t.Fatalf("create: %v", err)
	}
	h.e.OnCapabilityReport(false)
	h.e.OnGeometryChanged(320, 320)
	h.e.OnAmbientChanged(ambient)
	h.e.OnVisibilityChanged(true)
}

func mustFrame(t *testing.T, e *Engine) bool {
	t.Helper()
	drawn, err := e.Frame()
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	return drawn
}

type missingSource struct{ assets.Source }

func (s missingSource) LoadNativeBitmap(id string) (image.Image, error) {
	if id == assets.BuiltinID(assets.HourHand, mode.AmbientLowFidelity) {
		return nil, fmt.Errorf("no %s", id)
	}
	return s.Source.LoadNativeBitmap(id)
}

func TestMissingAssetIsFatal(t *testing.T) {
	e := New(Config{
		Source:   missingSource{assets.Builtin()},
		Manifest: assets.DefaultManifest(),
		Options:  render.DefaultOptions(),
		Clock:    clockwork.NewFakeClock(),
	})
	err := e.OnCreate()
	var missing *assets.AssetMissingError
	if !errors.As(err, &missing) {
		t.Fatalf("expected AssetMissingError, got %v", err)
	}
	if missing.Element != assets.HourHand || missing.Resolved != 2 {
		t.Fatalf("unexpected error detail %+v", missing)
	}

	e.OnGeometryChanged(320, 320)
	e.OnVisibilityChanged(true)
	e.Invalidate()
	if drawn, err := e.Frame(); drawn || err == nil {
		t.Fatalf("expected no frame and the fatal error, got drawn=%v err=%v", drawn, err)
	}
}

func TestRedrawRequestsCoalesce(t *testing.T) {
	h := newHarness(t)
	h.start(t, true)

	if !mustFrame(t, h.e) {
		t.Fatal("expected first frame to draw")
	}
	if mustFrame(t, h.e) {
		t.Fatal("expected ambient frame not to request another")
	}

	for i := 0; i < 5; i++ {
		h.e.Invalidate()
	}
	if !mustFrame(t, h.e) {
		t.Fatal("expected one frame for the batched requests")
	}
	if mustFrame(t, h.e) {
		t.Fatal("expected batched requests to collapse into one frame")
	}
	if got := h.e.Frames(); got != 2 {
		t.Fatalf("expected 2 frames, got %d", got)
	}
}

func TestInteractiveRedrawsContinuously(t *testing.T) {
	h := newHarness(t)
	h.start(t, false)

	for i := 0; i < 3; i++ {
		if !mustFrame(t, h.e) {
			t.Fatalf("frame %d: expected continuous redraw", i)
		}
	}

	h.e.OnVisibilityChanged(false)
	if mustFrame(t, h.e) {
		t.Fatal("expected hidden face not to draw")
	}
}

func TestTapAndTimeTickRedraw(t *testing.T) {
	h := newHarness(t)
	h.start(t, true)
	mustFrame(t, h.e)

	h.e.OnTap(proto.TapTap, 10, 10, 0)
	if !mustFrame(t, h.e) {
		t.Fatal("expected tap to redraw")
	}
	h.e.OnTimeTick()
	if !mustFrame(t, h.e) {
		t.Fatal("expected time tick to redraw")
	}
}

func TestScheduleFollowsVisibilityAndAmbient(t *testing.T) {
	h := newHarness(t)
	if err := h.e.OnCreate(); err != nil {
		t.Fatalf("create: %v", err)
	}
	steps := []struct {
		name string
		do   func()
		want int
	}{
		{"created hidden", func() {}, 0},
		{"visible", func() { h.e.OnVisibilityChanged(true) }, 1},
		{"visible again", func() { h.e.OnVisibilityChanged(true) }, 1},
		{"ambient", func() { h.e.OnAmbientChanged(true) }, 0},
		{"interactive", func() { h.e.OnAmbientChanged(false) }, 1},
		{"hidden", func() { h.e.OnVisibilityChanged(false) }, 0},
		{"visible", func() { h.e.OnVisibilityChanged(true) }, 1},
		{"destroyed", func() { h.e.OnDestroy() }, 0},
	}
	for _, s := range steps {
		s.do()
		if got := h.e.PendingWakes(); got != s.want {
			t.Fatalf("%s: expected %d pending wakes, got %d", s.name, s.want, got)
		}
	}
}

func TestWakeRequestsRedraw(t *testing.T) {
	h := newHarness(t)
	h.start(t, false)
	mustFrame(t, h.e)

	// Leave interactive's continuous loop out of the picture.
	h.e.dirty = false

	h.fc.Advance(time.Second)
	var gen uint32
	select {
	case gen = <-h.wakes:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for wake")
	}
	if !h.e.OnWake(gen) {
		t.Fatal("expected wake to be accepted")
	}
	if !h.e.Dirty() {
		t.Fatal("expected wake to request a redraw")
	}
	if h.e.OnWake(gen) {
		t.Fatal("expected a repeated wake to be dropped")
	}
}

func TestZoneChangeOnlyWhileVisible(t *testing.T) {
	h := newHarness(t)
	if err := h.e.OnCreate(); err != nil {
		t.Fatalf("create: %v", err)
	}
	if h.e.OnTimeZoneChanged("Asia/Tokyo") {
		t.Fatal("expected zone change ignored while hidden")
	}

	h.zone = "Europe/Berlin"
	h.e.OnVisibilityChanged(true)
	if got := h.e.Zone(); got != "Europe/Berlin" {
		t.Fatalf("expected host zone on visibility regain, got %q", got)
	}
	if !h.e.OnTimeZoneChanged("Asia/Tokyo") {
		t.Fatal("expected zone change accepted while visible")
	}
	if got := h.e.Zone(); got != "Asia/Tokyo" {
		t.Fatalf("expected Asia/Tokyo, got %q", got)
	}
}

func TestFramePresentsToFramebuffer(t *testing.T) {
	h := newHarness(t)
	h.start(t, false)
	mustFrame(t, h.e)

	if h.fb.presents != 1 {
		t.Fatalf("expected 1 present, got %d", h.fb.presents)
	}
	f := h.e.LastFrame()
	if f == nil {
		t.Fatal("expected a last frame")
	}
	if f.Snapshot.Hour != 3 || f.Snapshot.Minute != 0 {
		t.Fatalf("expected 03:00, got %02d:%02d", f.Snapshot.Hour, f.Snapshot.Minute)
	}
	c := f.Image.RGBAAt(5, 160)
	if got, want := h.fb.pixel(5, 160), hal.RGB565(c.R, c.G, c.B); got != want {
		t.Fatalf("expected framebuffer pixel %#04x, got %#04x", want, got)
	}
}

func TestPresentScalesToFramebuffer(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Pix[img.PixOffset(2, 2)] = 0xff
	img.Pix[img.PixOffset(2, 2)+3] = 0xff

	fb := newMemFB(2, 2)
	if err := present(fb, img); err != nil {
		t.Fatalf("present: %v", err)
	}
	if got := fb.pixel(1, 1); got != 0xF800 {
		t.Fatalf("expected red at (1,1), got %#04x", got)
	}
	if got := fb.pixel(0, 0); got != 0 {
		t.Fatalf("expected black at (0,0), got %#04x", got)
	}
}

func TestHandleDispatchesThroughKernel(t *testing.T) {
	h := newHarness(t)
	k := kernel.New(16)
	k.AddTask(h.e)

	zone, _ := proto.ZonePayload("Asia/Tokyo")
	msgs := []struct {
		kind    proto.Kind
		payload []byte
	}{
		{proto.MsgCreate, nil},
		{proto.MsgCapability, proto.BoolPayload(true)},
		{proto.MsgSurfaceChanged, proto.SizePayload(320, 320)},
		{proto.MsgVisibility, proto.BoolPayload(true)},
		{proto.MsgAmbient, proto.BoolPayload(true)},
		{proto.MsgPeekCard, proto.RectPayload(image.Rect(0, 240, 320, 320))},
		{proto.MsgTimeZone, zone},
		{proto.MsgSurfaceChanged, proto.SizePayload(0, 0)},
	}
	for _, m := range msgs {
		if res := k.Post(uint16(m.kind), m.payload); res != kernel.SendOK {
			t.Fatalf("post %s: %s", m.kind, res)
		}
	}
	k.Step(0)

	if got := h.e.Mode(); got != mode.AmbientLowFidelity {
		t.Fatalf("expected ambient_low_bit, got %s", got)
	}
	if got := h.e.Zone(); got != "Asia/Tokyo" {
		t.Fatalf("expected Asia/Tokyo, got %q", got)
	}
	if got := h.e.Pipeline().PeekRegion(); got != image.Rect(0, 240, 320, 320) {
		t.Fatalf("expected peek region set, got %v", got)
	}
	if g, _ := h.e.Pipeline().Geometry(); g.Width != 320 {
		t.Fatalf("expected zero-size report ignored, got width %d", g.Width)
	}
	if h.e.Pipeline().HandAntiAlias {
		t.Fatal("expected hand anti-aliasing off in low-bit ambient")
	}
	if got := h.e.PendingWakes(); got != 0 {
		t.Fatalf("expected no wakes in ambient, got %d", got)
	}

	k.Post(uint16(proto.MsgDestroy), nil)
	k.Step(0)
	h.e.Invalidate()
	if mustFrame(t, h.e) {
		t.Fatal("expected no frames after destroy")
	}
}

func TestLowBitClearedInAmbientRestoresAntiAlias(t *testing.T) {
	h := newHarness(t)
	h.start(t, false)

	steps := []struct {
		name      string
		apply     func()
		mode      mode.Mode
		antiAlias bool
	}{
		{"low-bit reported", func() { h.e.OnCapabilityReport(true) }, mode.Interactive, true},
		{"enter ambient", func() { h.e.OnAmbientChanged(true) }, mode.AmbientLowFidelity, false},
		{"low-bit cleared", func() { h.e.OnCapabilityReport(false) }, mode.Ambient, true},
		{"leave ambient", func() { h.e.OnAmbientChanged(false) }, mode.Interactive, true},
	}
	for _, s := range steps {
		s.apply()
		if got := h.e.Mode(); got != s.mode {
			t.Fatalf("%s: expected mode %s, got %s", s.name, s.mode, got)
		}
		if got := h.e.Pipeline().HandAntiAlias; got != s.antiAlias {
			t.Fatalf("%s: expected anti-aliasing %v, got %v", s.name, s.antiAlias, got)
		}
	}
}
