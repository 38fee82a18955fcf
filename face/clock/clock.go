// Package clock tracks wall-clock time in the face's time zone and derives the
// hand angles from it.
package clock

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

// Snapshot is the time shown by one frame.
type Snapshot struct {
	Hour       int // 0-23
	Minute     int // 0-59
	TimeZoneID string
	Time       time.Time
}

// MinuteAngle returns the minute hand angle in degrees clockwise from 12.
func (s Snapshot) MinuteAngle() float64 { return MinuteAngle(s.Minute) }

// HourAngle returns the hour hand angle in degrees clockwise from 12.
func (s Snapshot) HourAngle() float64 { return HourAngle(s.Hour, s.Minute) }

// MinuteAngle is minute*6, in [0, 354].
func MinuteAngle(minute int) float64 {
	return float64(wrap(minute, 60)) * 6
}

// HourAngle advances through the minute fraction so the hour hand creeps
// between hour marks. The result is always in [0, 360).
func HourAngle(hour, minute int) float64 {
	h := wrap(hour, 12)
	m := wrap(minute, 60)
	return (float64(h) + float64(m)/60) * 30
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// State binds the system clock to a time zone.
type State struct {
	clock clockwork.Clock

	zoneID string
	loc    *time.Location

	snap  Snapshot
	valid bool
}

func NewState(c clockwork.Clock) *State {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	return &State{clock: c}
}

// Refresh reads the clock and binds it to zoneID.
//
// An unknown zone binds UTC; the returned snapshot is still usable and the
// error says which zone failed.
func (s *State) Refresh(zoneID string) (Snapshot, error) {
	var err error
	if s.loc == nil || zoneID != s.zoneID {
		s.zoneID = zoneID
		s.loc, err = time.LoadLocation(zoneID)
		if err != nil {
			s.loc = time.UTC
			err = fmt.Errorf("clock: load zone %q: %w", zoneID, err)
		}
	}

	now := s.clock.Now().In(s.loc)
	s.snap = Snapshot{
		Hour:       now.Hour(),
		Minute:     now.Minute(),
		TimeZoneID: s.loc.String(),
		Time:       now,
	}
	s.valid = true
	return s.snap, err
}

// HandleZoneChanged drops the cached snapshot and location so that the next
// Refresh rebinds to zoneID.
func (s *State) HandleZoneChanged(zoneID string) {
	s.zoneID = zoneID
	s.loc = nil
	s.snap = Snapshot{}
	s.valid = false
}

// Zone returns the zone id the state is bound (or about to be bound) to.
func (s *State) Zone() string { return s.zoneID }

// Snapshot returns the last refreshed snapshot, if any.
func (s *State) Snapshot() (Snapshot, bool) { return s.snap, s.valid }
