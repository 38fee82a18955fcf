package proto

import (
	"encoding/binary"
	"image"
)

// MaxZoneIDBytes is the longest zone id a MsgTimeZone payload carries.
const MaxZoneIDBytes = 63

// BoolPayload encodes MsgVisibility, MsgAmbient and MsgCapability.
//
// Layout:
//   - u8: 0 or 1
func BoolPayload(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

// DecodeBoolPayload decodes a BoolPayload.
func DecodeBoolPayload(payload []byte) (v bool, ok bool) {
	if len(payload) < 1 {
		return false, false
	}
	return payload[0] != 0, true
}

// SizePayload encodes a MsgSurfaceChanged payload.
//
// Layout (little-endian):
//   - i32: width
//   - i32: height
func SizePayload(w, h int) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(int32(w)))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(int32(h)))
	return buf
}

// DecodeSizePayload decodes a SizePayload.
func DecodeSizePayload(payload []byte) (w, h int, ok bool) {
	if len(payload) < 8 {
		return 0, 0, false
	}
	w = int(int32(binary.LittleEndian.Uint32(payload[0:4])))
	h = int(int32(binary.LittleEndian.Uint32(payload[4:8])))
	return w, h, true
}

// Tap is a decoded MsgTap payload.
type Tap struct {
	Type TapType
	X, Y int
	// TimeMs is the host's event time in Unix milliseconds.
	TimeMs int64
}

// TapPayload encodes a MsgTap payload.
//
// Layout (little-endian):
//   - u8: tap type
//   - i32: x
//   - i32: y
//   - i64: event time (Unix ms)
func TapPayload(t Tap) []byte {
	buf := make([]byte, 17)
	buf[0] = byte(t.Type)
	binary.LittleEndian.PutUint32(buf[1:5], uint32(int32(t.X)))
	binary.LittleEndian.PutUint32(buf[5:9], uint32(int32(t.Y)))
	binary.LittleEndian.PutUint64(buf[9:17], uint64(t.TimeMs))
	return buf
}

// DecodeTapPayload decodes a TapPayload.
func DecodeTapPayload(payload []byte) (Tap, bool) {
	if len(payload) < 17 {
		return Tap{}, false
	}
	return Tap{
		Type:   TapType(payload[0]),
		X:      int(int32(binary.LittleEndian.Uint32(payload[1:5]))),
		Y:      int(int32(binary.LittleEndian.Uint32(payload[5:9]))),
		TimeMs: int64(binary.LittleEndian.Uint64(payload[9:17])),
	}, true
}

// ZonePayload encodes a MsgTimeZone payload. It reports false for ids that do
// not fit.
//
// Layout:
//   - u8: id length
//   - [len]byte: IANA zone id
func ZonePayload(zoneID string) ([]byte, bool) {
	if len(zoneID) > MaxZoneIDBytes {
		return nil, false
	}
	buf := make([]byte, 1+len(zoneID))
	buf[0] = byte(len(zoneID))
	copy(buf[1:], zoneID)
	return buf, true
}

// DecodeZonePayload decodes a ZonePayload.
func DecodeZonePayload(payload []byte) (zoneID string, ok bool) {
	if len(payload) < 1 {
		return "", false
	}
	n := int(payload[0])
	if n > MaxZoneIDBytes || len(payload) < 1+n {
		return "", false
	}
	return string(payload[1 : 1+n]), true
}

// WakePayload encodes a MsgWake payload.
//
// Layout (little-endian):
//   - u32: generation
func WakePayload(gen uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf[0:4], gen)
	return buf
}

// DecodeWakePayload decodes a WakePayload.
func DecodeWakePayload(payload []byte) (gen uint32, ok bool) {
	if len(payload) < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(payload[0:4]), true
}

// RectPayload encodes a MsgPeekCard payload. An empty rectangle clears the
// peek card.
//
// Layout (little-endian):
//   - i32: min x
//   - i32: min y
//   - i32: max x
//   - i32: max y
func RectPayload(r image.Rectangle) []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(int32(r.Min.X)))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(int32(r.Min.Y)))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(int32(r.Max.X)))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(int32(r.Max.Y)))
	return buf
}

// DecodeRectPayload decodes a RectPayload.
func DecodeRectPayload(payload []byte) (image.Rectangle, bool) {
	if len(payload) < 16 {
		return image.Rectangle{}, false
	}
	v := func(i int) int { return int(int32(binary.LittleEndian.Uint32(payload[i : i+4]))) }
	return image.Rect(v(0), v(4), v(8), v(12)), true
}
