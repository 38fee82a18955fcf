// Package assets holds the precomputed bitmap variants of every visual
// element of the watch face, one per display mode.
package assets

// Element identifies one of the composited layers of the face.
type Element uint8

const (
	Background Element = iota
	Face
	HourHand
	MinuteHand
)

// ElementCount is the number of visual elements.
const ElementCount = 4

// Elements lists every element in load order.
var Elements = [ElementCount]Element{Background, Face, HourHand, MinuteHand}

func (e Element) String() string {
	switch e {
	case Background:
		return "background"
	case Face:
		return "face"
	case HourHand:
		return "hour_hand"
	case MinuteHand:
		return "minute_hand"
	default:
		return "unknown"
	}
}
