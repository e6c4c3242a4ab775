package cbor

import (
	"encoding/binary"
	"math"
)

// minBufferSize is the capacity of a fresh Encoder buffer.
const minBufferSize = 4

// growCap returns the capacity a buffer of capacity c grows to when sz more
// bytes are needed: half again as large, or exactly large enough, whichever
// is bigger.
func growCap(c, sz int) int {
	return max(c+c/2, c+sz)
}

// ensure 'sz' extra bytes in 'b' btw len(b) and cap(b)
func ensure(b []byte, sz int) ([]byte, int) {
	l := len(b)
	c := cap(b)
	if c-l < sz {
		o := make([]byte, l+sz, growCap(c, sz))
		n := copy(o, b)
		return o, n
	}
	return b[:l+sz], l
}

func appendByte(b []byte, c byte) []byte {
	o, n := ensure(b, 1)
	o[n] = c
	return o
}

// appendUintCore encodes an unsigned argument with the given major type,
// always using the shortest header that holds u.
func appendUintCore(b []byte, majorType uint8, u uint64) []byte {
	switch {
	case u <= addInfoDirect:
		return appendByte(b, makeByte(majorType, uint8(u)))
	case u <= math.MaxUint8:
		o, n := ensure(b, 2)
		o[n] = makeByte(majorType, addInfoUint8)
		o[n+1] = uint8(u)
		return o
	case u <= math.MaxUint16:
		o, n := ensure(b, 3)
		o[n] = makeByte(majorType, addInfoUint16)
		binary.BigEndian.PutUint16(o[n+1:], uint16(u))
		return o
	case u <= math.MaxUint32:
		o, n := ensure(b, 5)
		o[n] = makeByte(majorType, addInfoUint32)
		binary.BigEndian.PutUint32(o[n+1:], uint32(u))
		return o
	default:
		o, n := ensure(b, 9)
		o[n] = makeByte(majorType, addInfoUint64)
		binary.BigEndian.PutUint64(o[n+1:], u)
		return o
	}
}

// appendFloat64 appends a float64
func appendFloat64(b []byte, f float64) []byte {
	o, n := ensure(b, 9)
	o[n] = makeByte(majorTypeSimple, simpleFloat64)
	binary.BigEndian.PutUint64(o[n+1:], math.Float64bits(f))
	return o
}

// appendFloat32 appends a float32
func appendFloat32(b []byte, f float32) []byte {
	o, n := ensure(b, 5)
	o[n] = makeByte(majorTypeSimple, simpleFloat32)
	binary.BigEndian.PutUint32(o[n+1:], math.Float32bits(f))
	return o
}

// appendBool appends a bool
func appendBool(b []byte, val bool) []byte {
	if val {
		return appendByte(b, makeByte(majorTypeSimple, simpleTrue))
	}
	return appendByte(b, makeByte(majorTypeSimple, simpleFalse))
}

// appendString appends a definite-length byte or text string.
// The header and payload are reserved in one shot.
func appendString[T []byte | string](b []byte, majorType uint8, data T) []byte {
	sz := uint64(len(data))
	h := HeaderSize(sz)
	o, n := ensure(b, h+int(sz))
	switch h {
	case 1:
		o[n] = makeByte(majorType, uint8(sz))
	case 2:
		o[n] = makeByte(majorType, addInfoUint8)
		o[n+1] = uint8(sz)
	case 3:
		o[n] = makeByte(majorType, addInfoUint16)
		binary.BigEndian.PutUint16(o[n+1:], uint16(sz))
	case 5:
		o[n] = makeByte(majorType, addInfoUint32)
		binary.BigEndian.PutUint32(o[n+1:], uint32(sz))
	case 9:
		o[n] = makeByte(majorType, addInfoUint64)
		binary.BigEndian.PutUint64(o[n+1:], sz)
	}
	copy(o[n+h:], data)
	return o
}
