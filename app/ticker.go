package app

import (
	"sync"
	"time"

	"watchface/face/sched"

	"github.com/jonboulle/clockwork"
)

// minuteTicker calls fire at every whole minute of wall-clock time. It
// stands in for the host's ambient time tick.
type minuteTicker struct {
	clock clockwork.Clock
	fire  func() bool

	mu      sync.Mutex
	timer   clockwork.Timer
	stopped bool
}

func startMinuteTicker(c clockwork.Clock, fire func() bool) *minuteTicker {
	t := &minuteTicker{clock: c, fire: fire}
	t.mu.Lock()
	t.arm()
	t.mu.Unlock()
	return t
}

// arm must be called with mu held.
func (t *minuteTicker) arm() {
	d := sched.NextDelay(t.clock.Now(), time.Minute)
	t.timer = t.clock.AfterFunc(d, t.tick)
}

func (t *minuteTicker) tick() {
	ok := t.fire()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || !ok {
		return
	}
	t.arm()
}

func (t *minuteTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
	}
}
