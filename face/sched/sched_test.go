package sched

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

const testTimeout = 1 * time.Second

func TestComputeNextDelay(t *testing.T) {
	cases := []struct {
		now  int64
		want int64
	}{
		{2500, 500},
		{3000, 1000},
		{0, 1000},
		{1, 999},
		{2999, 1},
		{-250, 250},
	}
	for _, tc := range cases {
		if got := ComputeNextDelay(tc.now, 1000); got != tc.want {
			t.Fatalf("ComputeNextDelay(%d): expected %d, got %d", tc.now, tc.want, got)
		}
	}
}

func TestNextDelayAlignsToSecond(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_250)
	if got := NextDelay(now, time.Second); got != 750*time.Millisecond {
		t.Fatalf("expected 750ms, got %s", got)
	}
	if got := NextDelay(time.UnixMilli(60_000), time.Minute); got != time.Minute {
		t.Fatalf("expected a full minute on the boundary, got %s", got)
	}
}

type harness struct {
	fc      *clockwork.FakeClock
	s       *Scheduler
	wakes   chan uint32
	redraws int
}

func newHarness(startMs int64) *harness {
	h := &harness{
		fc:    clockwork.NewFakeClockAt(time.UnixMilli(startMs)),
		wakes: make(chan uint32, 16),
	}
	h.s = New(h.fc, func(gen uint32) bool {
		h.wakes <- gen
		return true
	}, func() { h.redraws++ })
	return h
}

func (h *harness) nextWake(t *testing.T) uint32 {
	t.Helper()
	select {
	case gen := <-h.wakes:
		return gen
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for wake")
		return 0
	}
}

func TestReevaluateHiddenArmsNothing(t *testing.T) {
	h := newHarness(2500)
	h.s.Reevaluate(State{Visible: false, Ambient: false})
	if got := h.s.Pending(); got != 0 {
		t.Fatalf("expected 0 pending wakes, got %d", got)
	}
	h.s.Reevaluate(State{Visible: true, Ambient: true})
	if got := h.s.Pending(); got != 0 {
		t.Fatalf("expected 0 pending wakes in ambient, got %d", got)
	}
}

func TestReevaluateDoesNotAccumulate(t *testing.T) {
	h := newHarness(2500)
	for i := 0; i < 5; i++ {
		h.s.Reevaluate(State{Visible: true})
		if got := h.s.Pending(); got != 1 {
			t.Fatalf("call %d: expected 1 pending wake, got %d", i, got)
		}
	}

	h.fc.Advance(500 * time.Millisecond)
	gen := h.nextWake(t)
	select {
	case extra := <-h.wakes:
		t.Fatalf("expected a single fired wake, got another generation %d", extra)
	case <-time.After(50 * time.Millisecond):
	}
	if !h.s.OnWake(gen) {
		t.Fatal("expected the surviving wake to be accepted")
	}
}

func TestReevaluateTicksImmediately(t *testing.T) {
	h := newHarness(2500)
	h.s.Reevaluate(State{Visible: false})
	h.s.Reevaluate(State{Visible: true, Ambient: true})
	if h.redraws != 0 {
		t.Fatalf("expected no tick while idle, got %d", h.redraws)
	}

	h.s.Reevaluate(State{Visible: true})
	if h.redraws != 1 {
		t.Fatalf("expected an immediate tick, got %d redraws", h.redraws)
	}
	if h.s.Pending() != 1 {
		t.Fatalf("expected the aligned wake armed, got %d pending", h.s.Pending())
	}
	select {
	case <-h.wakes:
		t.Fatal("expected the immediate tick not to go through the timer")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWakeRedrawsAndRearms(t *testing.T) {
	h := newHarness(2500)
	h.s.Reevaluate(State{Visible: true})

	h.fc.Advance(499 * time.Millisecond)
	select {
	case <-h.wakes:
		t.Fatal("expected no wake before the second boundary")
	case <-time.After(50 * time.Millisecond):
	}

	h.fc.Advance(1 * time.Millisecond)
	gen := h.nextWake(t)
	if !h.s.OnWake(gen) {
		t.Fatal("expected wake to be accepted")
	}
	if h.redraws != 2 {
		t.Fatalf("expected 2 redraws, got %d", h.redraws)
	}
	if h.s.Pending() != 1 {
		t.Fatalf("expected re-armed wake, got %d pending", h.s.Pending())
	}

	h.fc.Advance(1000 * time.Millisecond)
	gen = h.nextWake(t)
	if !h.s.OnWake(gen) {
		t.Fatal("expected second wake to be accepted")
	}
	if h.redraws != 3 {
		t.Fatalf("expected 3 redraws, got %d", h.redraws)
	}
}

func TestWakeAfterAmbientFlipIsDropped(t *testing.T) {
	h := newHarness(2500)
	h.s.Reevaluate(State{Visible: true})

	h.fc.Advance(500 * time.Millisecond)
	gen := h.nextWake(t)

	h.s.Reevaluate(State{Visible: true, Ambient: true})
	if h.s.OnWake(gen) {
		t.Fatal("expected in-flight wake to be dropped after the ambient flip")
	}
	if h.redraws != 1 {
		t.Fatalf("expected only the immediate tick, got %d redraws", h.redraws)
	}
	if h.s.Pending() != 0 {
		t.Fatalf("expected nothing pending in ambient, got %d", h.s.Pending())
	}
}

func TestStopDropsLateWakes(t *testing.T) {
	h := newHarness(0)
	h.s.Reevaluate(State{Visible: true})

	h.fc.Advance(time.Second)
	gen := h.nextWake(t)

	h.s.Stop()
	if h.s.OnWake(gen) {
		t.Fatal("expected wake after Stop to be dropped")
	}
	h.s.Reevaluate(State{Visible: true})
	if h.s.Pending() != 0 {
		t.Fatalf("expected stopped scheduler to stay idle, got %d pending", h.s.Pending())
	}
}
