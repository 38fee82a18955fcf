package hal

import (
	"errors"
	"testing"
	_ "time/tzdata"
)

func TestLifecycleDefaults(t *testing.T) {
	t.Setenv("TZ", "Europe/Paris")
	l := newLifecycle(HostConfig{})
	if got := l.TimeZone(); got != "Europe/Paris" {
		t.Fatalf("expected Europe/Paris zone, got %q", got)
	}
	if l.LowBitAmbient() {
		t.Fatal("expected full-colour ambient by default")
	}
	w, h := HostConfig{}.size()
	if w != defaultWidth || h != defaultHeight {
		t.Fatalf("expected %dx%d, got %dx%d", defaultWidth, defaultHeight, w, h)
	}
}

func TestLifecycleEmitDropsWhenFull(t *testing.T) {
	l := newLifecycle(HostConfig{TimeZone: "Asia/Tokyo", LowBitAmbient: true})
	for i := 0; i < cap(l.ch); i++ {
		if !l.emit(HostEvent{Kind: HostTap}) {
			t.Fatalf("emit %d: expected queued", i)
		}
	}
	if l.emit(HostEvent{Kind: HostTap}) {
		t.Fatal("expected emit to drop on a full queue")
	}
	ev := <-l.Events()
	if ev.Kind != HostTap {
		t.Fatalf("expected tap, got %d", ev.Kind)
	}
}

func TestLocalZoneID(t *testing.T) {
	noLink := func(string) (string, error) { return "", errors.New("no link") }
	link := func(target string) func(string) (string, error) {
		return func(string) (string, error) { return target, nil }
	}
	cases := []struct {
		name     string
		tz       string
		readlink func(string) (string, error)
		want     string
	}{
		{"tz", "Asia/Tokyo", noLink, "Asia/Tokyo"},
		{"tz with colon", ":America/New_York", noLink, "America/New_York"},
		{"bad tz falls to link", "Nowhere/Town", link("/usr/share/zoneinfo/Europe/London"), "Europe/London"},
		{"link", "", link("../usr/share/zoneinfo/Australia/Sydney"), "Australia/Sydney"},
		{"link outside zoneinfo", "", link("/etc/clock"), "UTC"},
		{"nothing", "", noLink, "UTC"},
		{"Local is not an id", "Local", noLink, "UTC"},
	}
	for _, tc := range cases {
		if got := localZoneID(tc.tz, tc.readlink); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}
