// Package sched decides when the face wakes up to redraw in interactive mode.
//
// Wakes are aligned to whole interval boundaries of wall-clock time rather
// than spaced a fixed delay from "now", so that ticks land close to real
// second rollovers. Timer callbacks run off the face's execution context; they
// only post the wake's generation back into it, and OnWake does the rest.
package sched

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Interval is the interactive wake period.
const Interval = time.Second

// ComputeNextDelay returns the delay from nowMs to the next interval boundary.
// It never returns 0: a boundary hit exactly rolls to a full interval.
func ComputeNextDelay(nowMs, intervalMs int64) int64 {
	if intervalMs <= 0 {
		return 0
	}
	r := nowMs % intervalMs
	if r < 0 {
		r += intervalMs
	}
	return intervalMs - r
}

// NextDelay is ComputeNextDelay on time values, at millisecond precision.
func NextDelay(now time.Time, interval time.Duration) time.Duration {
	ms := ComputeNextDelay(now.UnixMilli(), interval.Milliseconds())
	return time.Duration(ms) * time.Millisecond
}

// State holds the only inputs deciding whether periodic wakes run.
type State struct {
	Visible bool
	Ambient bool
}

// ShouldRun reports whether the interactive wake should be armed.
func (s State) ShouldRun() bool { return s.Visible && !s.Ambient }

// Scheduler keeps at most one pending wake.
type Scheduler struct {
	clock    clockwork.Clock
	post     func(gen uint32) bool
	redraw   func()
	interval time.Duration

	state   State
	pending uint32
	nextGen uint32
	timer   clockwork.Timer
	stopped bool
}

// New returns a scheduler. post delivers a fired wake's generation to the
// owning context (it may be called from any goroutine); redraw is invoked on
// that context for every accepted wake.
func New(c clockwork.Clock, post func(gen uint32) bool, redraw func()) *Scheduler {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	return &Scheduler{clock: c, post: post, redraw: redraw, interval: Interval}
}

// Reevaluate cancels any pending wake and, if st says the scheduler should
// run, ticks once at once and arms exactly one new wake at the next boundary.
func (s *Scheduler) Reevaluate(st State) {
	s.state = st
	s.cancel()
	if s.stopped || !st.ShouldRun() {
		return
	}
	if s.redraw != nil {
		s.redraw()
	}
	s.arm()
}

// OnWake handles a posted wake. Wakes from a cancelled or replaced arming are
// dropped and OnWake reports false. An accepted wake requests one redraw and
// re-arms only if the current state still says the scheduler should run.
func (s *Scheduler) OnWake(gen uint32) bool {
	if gen == 0 || gen != s.pending {
		return false
	}
	s.pending = 0
	s.timer = nil

	if s.redraw != nil {
		s.redraw()
	}
	if !s.stopped && s.state.ShouldRun() {
		s.arm()
	}
	return true
}

// Stop cancels the pending wake for good. Wakes already in flight are dropped
// by the generation check.
func (s *Scheduler) Stop() {
	s.stopped = true
	s.cancel()
}

// Pending returns the number of armed wakes (0 or 1).
func (s *Scheduler) Pending() int {
	if s.pending != 0 {
		return 1
	}
	return 0
}

// State returns the last state passed to Reevaluate.
func (s *Scheduler) State() State { return s.state }

func (s *Scheduler) cancel() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = 0
}

func (s *Scheduler) arm() {
	s.nextGen++
	if s.nextGen == 0 {
		s.nextGen++
	}
	gen := s.nextGen
	s.pending = gen

	post := s.post
	s.timer = s.clock.AfterFunc(NextDelay(s.clock.Now(), s.interval), func() {
		if post != nil {
			post(gen)
		}
	})
}
