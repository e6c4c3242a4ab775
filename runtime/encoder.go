package cbor

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Encoder appends CBOR items to a buffer it owns. Every method commits its bytes
// immediately and returns the Encoder so calls can be chained in document order:
//
//	e := cbor.NewEncoder()
//	e.Object(2).Text("a").U8(1).Text("b").Array(2).U8(2).U8(3)
//	out, err := e.Buffer(), e.Err()
//
// The first failure is sticky: later calls do nothing and Err reports it.
// An Encoder is not safe for concurrent use.
type Encoder struct {
	b   []byte
	err error
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{b: make([]byte, 0, minBufferSize)}
}

// Buffer returns a copy of the bytes written so far.
func (e *Encoder) Buffer() []byte {
	out := make([]byte, len(e.b))
	copy(out, e.b)
	return out
}

// Err returns the first error encountered, if any.
func (e *Encoder) Err() error { return e.err }

// Len returns the number of bytes written.
func (e *Encoder) Len() int { return len(e.b) }

// Cap returns the capacity of the backing buffer.
func (e *Encoder) Cap() int { return cap(e.b) }

// Reset discards written bytes and any error; capacity is unchanged.
func (e *Encoder) Reset() {
	e.b = e.b[:0]
	e.err = nil
}

// unsigned writes u under majorType if it is within limit.
func (e *Encoder) unsigned(method string, majorType uint8, u, limit uint64, negative bool) *Encoder {
	if e.err != nil {
		return e
	}
	if u > limit {
		e.err = &RangeError{Method: method, Value: u, Negative: negative, Limit: limit}
		return e
	}
	e.b = appendUintCore(e.b, majorType, u)
	return e
}

// signed writes x with the magnitude of negative values bounded by limit.
// Non-negative values go through the unsigned writer of the same width.
func (e *Encoder) signed(method string, x int64, limit uint64) *Encoder {
	if x >= 0 {
		return e.unsigned("u"+method[1:], majorTypeUint, uint64(x), limit, false)
	}
	return e.unsigned(method, majorTypeNegInt, uint64(-1-x), limit, true)
}

// U8 writes an unsigned integer no larger than 255.
func (e *Encoder) U8(x uint64) *Encoder {
	return e.unsigned("u8", majorTypeUint, x, math.MaxUint8, false)
}

// U16 writes an unsigned integer no larger than 65535.
func (e *Encoder) U16(x uint64) *Encoder {
	return e.unsigned("u16", majorTypeUint, x, math.MaxUint16, false)
}

// U32 writes an unsigned integer no larger than 4294967295.
func (e *Encoder) U32(x uint64) *Encoder {
	return e.unsigned("u32", majorTypeUint, x, math.MaxUint32, false)
}

// U64 writes an unsigned integer no larger than MaxSafeInteger.
func (e *Encoder) U64(x uint64) *Encoder {
	return e.unsigned("u64", majorTypeUint, x, MaxSafeInteger, false)
}

// I8 writes a signed integer. Negative values must satisfy -1-x <= 255,
// non-negative values x <= 255.
func (e *Encoder) I8(x int64) *Encoder {
	return e.signed("i8", x, math.MaxUint8)
}

// I16 writes a signed integer whose magnitude argument fits 16 bits.
func (e *Encoder) I16(x int64) *Encoder {
	return e.signed("i16", x, math.MaxUint16)
}

// I32 writes a signed integer whose magnitude argument fits 32 bits.
func (e *Encoder) I32(x int64) *Encoder {
	return e.signed("i32", x, math.MaxUint32)
}

// I64 writes a signed integer whose magnitude argument is at most MaxSafeInteger.
func (e *Encoder) I64(x int64) *Encoder {
	return e.signed("i64", x, MaxSafeInteger)
}

// F32 writes a single precision float. The value is never narrowed.
func (e *Encoder) F32(x float32) *Encoder {
	if e.err == nil {
		e.b = appendFloat32(e.b, x)
	}
	return e
}

// F64 writes a double precision float. The value is never narrowed.
func (e *Encoder) F64(x float64) *Encoder {
	if e.err == nil {
		e.b = appendFloat64(e.b, x)
	}
	return e
}

// Bool writes true or false.
func (e *Encoder) Bool(x bool) *Encoder {
	if e.err == nil {
		e.b = appendBool(e.b, x)
	}
	return e
}

// Null writes null.
func (e *Encoder) Null() *Encoder {
	return e.simple(nullByte)
}

// Undefined writes undefined.
func (e *Encoder) Undefined() *Encoder {
	return e.simple(makeByte(majorTypeSimple, simpleUndefined))
}

// Bytes writes a definite-length byte string.
func (e *Encoder) Bytes(x []byte) *Encoder {
	if e.checkLen("bytes", len(x)) {
		e.b = appendString(e.b, majorTypeBytes, x)
	}
	return e
}

// Text writes a definite-length text string. Invalid UTF-8 sequences in x
// are replaced with U+FFFD before encoding.
func (e *Encoder) Text(x string) *Encoder {
	if !utf8.ValidString(x) {
		x = strings.ToValidUTF8(x, string(utf8.RuneError))
	}
	if e.checkLen("text", len(x)) {
		e.b = appendString(e.b, majorTypeText, x)
	}
	return e
}

// Array writes the header of an array of n elements. The elements follow
// as separate calls; their count is not checked.
func (e *Encoder) Array(n int) *Encoder {
	if e.checkLen("array", n) {
		e.b = appendUintCore(e.b, majorTypeArray, uint64(n))
	}
	return e
}

// ArrayBegin starts an indefinite-length array, closed by ArrayEnd.
func (e *Encoder) ArrayBegin() *Encoder {
	return e.simple(makeByte(majorTypeArray, addInfoIndefinite))
}

// ArrayEnd writes the break byte closing an indefinite-length array.
func (e *Encoder) ArrayEnd() *Encoder {
	return e.simple(breakByte)
}

// Object writes the header of a map of n key/value pairs. Keys and values
// follow as alternating calls.
func (e *Encoder) Object(n int) *Encoder {
	if e.checkLen("object", n) {
		e.b = appendUintCore(e.b, majorTypeMap, uint64(n))
	}
	return e
}

// ObjectBegin starts an indefinite-length map, closed by ObjectEnd.
func (e *Encoder) ObjectBegin() *Encoder {
	return e.simple(makeByte(majorTypeMap, addInfoIndefinite))
}

// ObjectEnd writes the break byte closing an indefinite-length map.
func (e *Encoder) ObjectEnd() *Encoder {
	return e.simple(breakByte)
}

// Tag writes a semantic tag header. The tagged item follows as the next call.
func (e *Encoder) Tag(t uint64) *Encoder {
	return e.unsigned("tag", majorTypeTag, t, MaxSafeInteger, false)
}

func (e *Encoder) simple(c byte) *Encoder {
	if e.err == nil {
		e.b = appendByte(e.b, c)
	}
	return e
}

// checkLen reports whether n is a representable length, recording a
// RangeError otherwise.
func (e *Encoder) checkLen(method string, n int) bool {
	if e.err != nil {
		return false
	}
	switch {
	case n < 0:
		e.err = &RangeError{Method: method, Value: uint64(-(n + 1)) + 1, Negative: true, Limit: MaxSafeInteger}
		return false
	case uint64(n) > MaxSafeInteger:
		e.err = &RangeError{Method: method, Value: uint64(n), Limit: MaxSafeInteger}
		return false
	}
	return true
}
