package hal

import "testing"

func TestRGB565Primaries(t *testing.T) {
	cases := []struct {
		r, g, b uint8
		want    uint16
	}{
		{0xff, 0, 0, 0xF800},
		{0, 0xff, 0, 0x07E0},
		{0, 0, 0xff, 0x001F},
		{0xff, 0xff, 0xff, 0xFFFF},
		{0, 0, 0, 0},
	}
	for _, tc := range cases {
		if got := RGB565(tc.r, tc.g, tc.b); got != tc.want {
			t.Fatalf("RGB565(%d,%d,%d): expected %#04x, got %#04x", tc.r, tc.g, tc.b, tc.want, got)
		}
		r, g, b := RGB888From565(tc.want)
		if r != tc.r || g != tc.g || b != tc.b {
			t.Fatalf("RGB888From565(%#04x): expected (%d,%d,%d), got (%d,%d,%d)", tc.want, tc.r, tc.g, tc.b, r, g, b)
		}
	}
}
