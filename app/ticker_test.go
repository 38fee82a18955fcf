package app

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func expectFire(t *testing.T, ch <-chan struct{}, want bool) {
	t.Helper()
	wait := 50 * time.Millisecond
	if want {
		wait = time.Second
	}
	select {
	case <-ch:
		if !want {
			t.Fatalf("expected no tick")
		}
	case <-time.After(wait):
		if want {
			t.Fatalf("expected a tick")
		}
	}
}

func TestMinuteTickerAlignsToMinute(t *testing.T) {
	fc := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 3, 0, 30, 0, time.UTC))
	fired := make(chan struct{}, 4)
	mt := startMinuteTicker(fc, func() bool {
		fired <- struct{}{}
		return true
	})
	defer mt.Stop()

	fc.Advance(29 * time.Second)
	expectFire(t, fired, false)
	fc.Advance(time.Second)
	expectFire(t, fired, true)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := fc.BlockUntilContext(ctx, 1); err != nil {
		t.Fatalf("ticker did not re-arm: %v", err)
	}
	fc.Advance(time.Minute)
	expectFire(t, fired, true)
}

func TestMinuteTickerStop(t *testing.T) {
	fc := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC))
	fired := make(chan struct{}, 4)
	mt := startMinuteTicker(fc, func() bool {
		fired <- struct{}{}
		return true
	})
	mt.Stop()
	fc.Advance(2 * time.Minute)
	expectFire(t, fired, false)
}

func TestMinuteTickerStopsWhenRejected(t *testing.T) {
	fc := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC))
	fired := make(chan struct{}, 4)
	mt := startMinuteTicker(fc, func() bool {
		fired <- struct{}{}
		return false
	})
	defer mt.Stop()

	fc.Advance(time.Minute)
	expectFire(t, fired, true)
	fc.Advance(time.Minute)
	expectFire(t, fired, false)
}
