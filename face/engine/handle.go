package engine

import (
	"watchface/kernel"
	"watchface/proto"
)

// Handle dispatches one kernel message to the matching lifecycle hook.
// Malformed payloads are logged and dropped.
func (e *Engine) Handle(_ *kernel.Context, msg kernel.Message) {
	kind := proto.Kind(msg.Kind)
	payload := msg.Payload()

	switch kind {
	case proto.MsgCreate:
		_ = e.OnCreate()
		return
	case proto.MsgDestroy:
		e.OnDestroy()
		return
	case proto.MsgTimeTick:
		e.OnTimeTick()
		return
	case proto.MsgSurfaceChanged:
		if w, h, ok := proto.DecodeSizePayload(payload); ok {
			e.OnGeometryChanged(w, h)
			return
		}
	case proto.MsgVisibility:
		if v, ok := proto.DecodeBoolPayload(payload); ok {
			e.OnVisibilityChanged(v)
			return
		}
	case proto.MsgAmbient:
		if v, ok := proto.DecodeBoolPayload(payload); ok {
			e.OnAmbientChanged(v)
			return
		}
	case proto.MsgCapability:
		if v, ok := proto.DecodeBoolPayload(payload); ok {
			e.OnCapabilityReport(v)
			return
		}
	case proto.MsgTap:
		if t, ok := proto.DecodeTapPayload(payload); ok {
			e.OnTap(t.Type, t.X, t.Y, t.TimeMs)
			return
		}
	case proto.MsgTimeZone:
		if id, ok := proto.DecodeZonePayload(payload); ok {
			e.OnTimeZoneChanged(id)
			return
		}
	case proto.MsgWake:
		if gen, ok := proto.DecodeWakePayload(payload); ok {
			e.OnWake(gen)
			return
		}
	case proto.MsgPeekCard:
		if r, ok := proto.DecodeRectPayload(payload); ok {
			e.OnPeekCardPositionUpdate(r)
			return
		}
	default:
		e.log.Warn("unknown message", "kind", uint16(kind))
		return
	}
	e.log.Warn("bad payload", "kind", kind.String(), "len", msg.Len)
}
