package hal

import (
	"os"
	"strings"
	"time"
)

const (
	defaultWidth  = 320
	defaultHeight = 320
)

type lifecycle struct {
	lowBit bool
	zone   string
	ch     chan HostEvent
}

func newLifecycle(cfg HostConfig) *lifecycle {
	zone := cfg.TimeZone
	if zone == "" {
		zone = localZoneID(os.Getenv("TZ"), os.Readlink)
	}
	return &lifecycle{
		lowBit: cfg.LowBitAmbient,
		zone:   zone,
		ch:     make(chan HostEvent, 32),
	}
}

func (l *lifecycle) LowBitAmbient() bool      { return l.lowBit }
func (l *lifecycle) TimeZone() string         { return l.zone }
func (l *lifecycle) Events() <-chan HostEvent { return l.ch }

// emit drops the event when nobody is draining the channel.
func (l *lifecycle) emit(ev HostEvent) bool {
	select {
	case l.ch <- ev:
		return true
	default:
		return false
	}
}

func (cfg HostConfig) size() (int, int) {
	w, h := cfg.Width, cfg.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

// localZoneID names the machine's zone by IANA id: $TZ first, then the
// zoneinfo target of /etc/localtime, else UTC.
func localZoneID(tz string, readlink func(string) (string, error)) string {
	if id := strings.TrimPrefix(tz, ":"); id != "" && validZone(id) {
		return id
	}
	if p, err := readlink("/etc/localtime"); err == nil {
		if i := strings.LastIndex(p, "zoneinfo/"); i >= 0 {
			if id := p[i+len("zoneinfo/"):]; validZone(id) {
				return id
			}
		}
	}
	return "UTC"
}

func validZone(id string) bool {
	if id == "Local" {
		return false
	}
	_, err := time.LoadLocation(id)
	return err == nil
}
