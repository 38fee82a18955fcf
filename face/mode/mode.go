// Package mode tracks which display mode the watch face renders in.
//
// The mode is never stored on its own: it is derived from whether the display
// is in ambient (reduced power) state and whether the hardware reported a
// low-bit ambient capability.
package mode

// Mode selects which precomputed variant of each visual element is drawn.
type Mode uint8

const (
	Interactive Mode = iota
	Ambient
	AmbientLowFidelity
)

// Count is the number of display modes; every element carries one variant per mode.
const Count = 3

// All lists the modes in variant order.
var All = [Count]Mode{Interactive, Ambient, AmbientLowFidelity}

// Of derives the mode from the two host signals.
func Of(ambient, lowBitAmbient bool) Mode {
	switch {
	case !ambient:
		return Interactive
	case lowBitAmbient:
		return AmbientLowFidelity
	default:
		return Ambient
	}
}

// IsAmbient reports whether m is one of the reduced-power modes.
func (m Mode) IsAmbient() bool { return m != Interactive }

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool { return m < Count }

func (m Mode) String() string {
	switch m {
	case Interactive:
		return "interactive"
	case Ambient:
		return "ambient"
	case AmbientLowFidelity:
		return "ambient_low_bit"
	default:
		return "unknown"
	}
}
