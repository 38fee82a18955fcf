// Package proto defines the messages posted into the face's kernel and their
// fixed little-endian payload layouts.
package proto

// Kind identifies the message type carried in kernel.Message.Kind.
type Kind uint16

const (
	MsgCreate Kind = iota + 1
	MsgSurfaceChanged
	MsgVisibility
	MsgAmbient
	MsgCapability
	MsgTap
	MsgTimeZone
	MsgTimeTick
	MsgWake
	MsgPeekCard
	MsgDestroy
)

func (k Kind) String() string {
	switch k {
	case MsgCreate:
		return "create"
	case MsgSurfaceChanged:
		return "surface_changed"
	case MsgVisibility:
		return "visibility"
	case MsgAmbient:
		return "ambient"
	case MsgCapability:
		return "capability"
	case MsgTap:
		return "tap"
	case MsgTimeZone:
		return "time_zone"
	case MsgTimeTick:
		return "time_tick"
	case MsgWake:
		return "wake"
	case MsgPeekCard:
		return "peek_card"
	case MsgDestroy:
		return "destroy"
	default:
		return "unknown"
	}
}

// TapType is the phase of a touch gesture.
type TapType uint8

const (
	TapTouch TapType = iota
	TapTouchCancel
	TapTap
)

func (t TapType) String() string {
	switch t {
	case TapTouch:
		return "touch"
	case TapTouchCancel:
		return "touch_cancel"
	case TapTap:
		return "tap"
	default:
		return "unknown"
	}
}
