package cbor

import (
	"math"
	"unicode/utf8"

	"github.com/x448/float16"
)

// Config bounds what a Decoder accepts. Zero fields take the DefaultConfig value.
type Config struct {
	MaxArrayLength int // elements in a definite array
	MaxObjectSize  int // pairs in a definite map
	MaxBytesLength int // byte string length, summed over chunks
	MaxTextLength  int // text string length in bytes, summed over chunks
	MaxNesting     int // aggregates and tags enclosing an item visited by Skip
}

// DefaultConfig returns the limits used by NewDecoder.
func DefaultConfig() Config {
	return Config{
		MaxArrayLength: 1000,
		MaxObjectSize:  1000,
		MaxBytesLength: 5 << 20,
		MaxTextLength:  5 << 20,
		MaxNesting:     16,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxArrayLength <= 0 {
		c.MaxArrayLength = def.MaxArrayLength
	}
	if c.MaxObjectSize <= 0 {
		c.MaxObjectSize = def.MaxObjectSize
	}
	if c.MaxBytesLength <= 0 {
		c.MaxBytesLength = def.MaxBytesLength
	}
	if c.MaxTextLength <= 0 {
		c.MaxTextLength = def.MaxTextLength
	}
	if c.MaxNesting <= 0 {
		c.MaxNesting = def.MaxNesting
	}
	return c
}

// Decoder reads CBOR items from a fixed buffer in the order the caller asks for
// them. Each read either consumes exactly one item and returns it, or returns a
// *DecodeError and leaves the cursor where it was.
//
// The buffer is never modified. Byte strings returned by Bytes alias it.
// A Decoder is not safe for concurrent use.
type Decoder struct {
	buf []byte
	off int
	cfg Config
}

// NewDecoder returns a Decoder over b using DefaultConfig.
func NewDecoder(b []byte) *Decoder {
	return &Decoder{buf: b, cfg: DefaultConfig()}
}

// NewDecoderConfig returns a Decoder over b using cfg.
func NewDecoderConfig(b []byte, cfg Config) *Decoder {
	return &Decoder{buf: b, cfg: cfg.withDefaults()}
}

// Config returns the limits in effect.
func (d *Decoder) Config() Config { return d.cfg }

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int { return d.off }

// Remaining returns the unread part of the buffer.
func (d *Decoder) Remaining() []byte { return d.buf[d.off:] }

// Done reports whether the whole buffer has been consumed.
func (d *Decoder) Done() bool { return d.off >= len(d.buf) }

// Finish returns a *TrailingBytesError unless the whole buffer has been consumed.
func (d *Decoder) Finish() error {
	if d.Done() {
		return nil
	}
	return &TrailingBytesError{Offset: d.off, Count: len(d.buf) - d.off}
}

// Reset points the decoder at b and rewinds it.
func (d *Decoder) Reset(b []byte) {
	d.buf = b
	d.off = 0
}

// U8 reads an unsigned integer no larger than 255.
func (d *Decoder) U8() (uint8, error) {
	u, err := d.readUnsigned(math.MaxUint8)
	return uint8(u), err
}

// U16 reads an unsigned integer no larger than 65535.
func (d *Decoder) U16() (uint16, error) {
	u, err := d.readUnsigned(math.MaxUint16)
	return uint16(u), err
}

// U32 reads an unsigned integer no larger than 4294967295.
func (d *Decoder) U32() (uint32, error) {
	u, err := d.readUnsigned(math.MaxUint32)
	return uint32(u), err
}

// U64 reads an unsigned integer no larger than MaxSafeInteger.
func (d *Decoder) U64() (uint64, error) {
	return d.readUnsigned(MaxSafeInteger)
}

// Unsigned reads a major type 0 integer of any header width. Negative integers
// are an unexpected type.
func (d *Decoder) Unsigned() (uint64, error) {
	return d.readUnsigned(MaxSafeInteger)
}

// I8 reads a signed integer in [-128, 127].
func (d *Decoder) I8() (int8, error) {
	x, err := d.readSigned(math.MaxInt8)
	return int8(x), err
}

// I16 reads a signed integer in [-32768, 32767].
func (d *Decoder) I16() (int16, error) {
	x, err := d.readSigned(math.MaxInt16)
	return int16(x), err
}

// I32 reads a signed integer in [-2147483648, 2147483647].
func (d *Decoder) I32() (int32, error) {
	x, err := d.readSigned(math.MaxInt32)
	return int32(x), err
}

// I64 reads a signed integer whose magnitude argument is at most MaxSafeInteger.
func (d *Decoder) I64() (int64, error) {
	return d.readSigned(MaxSafeInteger)
}

// Int reads a major type 0 or 1 integer of any header width.
func (d *Decoder) Int() (int64, error) {
	return d.readSigned(MaxSafeInteger)
}

// F16 reads a half precision float, widened to float32.
func (d *Decoder) F16() (float32, error) {
	p, err := d.readFixed(Float16Type, 2)
	if err != nil {
		return 0, err
	}
	return float16.Frombits(be.Uint16(p)).Float32(), nil
}

// F32 reads a single precision float.
func (d *Decoder) F32() (float32, error) {
	p, err := d.readFixed(Float32Type, 4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(be.Uint32(p)), nil
}

// F64 reads a double precision float.
func (d *Decoder) F64() (float64, error) {
	p, err := d.readFixed(Float64Type, 8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(be.Uint64(p)), nil
}

// Bool reads true or false.
func (d *Decoder) Bool() (bool, error) {
	_, info, err := d.typeInfoWithAssert(d.off, BoolType)
	if err != nil {
		return false, err
	}
	d.off++
	return info == simpleTrue, nil
}

// Null reads null.
func (d *Decoder) Null() error {
	if _, _, err := d.typeInfoWithAssert(d.off, NullType); err != nil {
		return err
	}
	d.off++
	return nil
}

// Undefined reads undefined.
func (d *Decoder) Undefined() error {
	if _, _, err := d.typeInfoWithAssert(d.off, UndefinedType); err != nil {
		return err
	}
	d.off++
	return nil
}

// Bytes reads a byte string. A definite-length result aliases the decoder's
// buffer; an indefinite-length one is a fresh concatenation of its chunks.
func (d *Decoder) Bytes() ([]byte, error) {
	b, next, err := d.readString(BytesType, d.cfg.MaxBytesLength)
	if err != nil {
		return nil, err
	}
	d.off = next
	return b, nil
}

// Text reads a text string. Invalid UTF-8 is rejected with KindInvalidType.
func (d *Decoder) Text() (string, error) {
	b, next, err := d.readString(TextType, d.cfg.MaxTextLength)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", d.fail(KindInvalidType, d.off, "invalid UTF-8 in text string")
	}
	d.off = next
	return string(b), nil
}

// Array reads an array header and returns its element count, or Indefinite.
// Elements of an indefinite array are read until Break returns true.
func (d *Decoder) Array() (int, error) {
	return d.readAggregate(ArrayType, d.cfg.MaxArrayLength)
}

// Object reads a map header and returns its pair count, or Indefinite.
// Keys and values are read alternately.
func (d *Decoder) Object() (int, error) {
	return d.readAggregate(ObjectType, d.cfg.MaxObjectSize)
}

// Break consumes a break byte if it is next and reports whether it did.
func (d *Decoder) Break() (bool, error) {
	if err := d.need(d.off, d.off, 1); err != nil {
		return false, err
	}
	if d.buf[d.off] != breakByte {
		return false, nil
	}
	d.off++
	return true, nil
}

// Tag reads a semantic tag header and returns the tag number. The tagged item
// is the next read.
func (d *Decoder) Tag() (uint64, error) {
	at := d.off
	_, info, err := d.typeInfoWithAssert(at, TaggedType)
	if err != nil {
		return 0, err
	}
	t, next, err := d.readArg(at, info)
	if err != nil {
		return 0, err
	}
	if t > MaxSafeInteger {
		return 0, d.fail(KindIntOverflow, at, Overflow{Value: t, Limit: MaxSafeInteger})
	}
	d.off = next
	return t, nil
}

// NextType classifies the next header without consuming it.
func (d *Decoder) NextType() (Type, error) {
	t, _, err := d.typeInfo(d.off)
	return t, err
}

// Skip consumes the next item whatever its shape, including everything nested
// in it. Items enclosed in more than Config.MaxNesting aggregates or tags fail
// with KindTooNested.
func (d *Decoder) Skip() error {
	next, err := d.skip(d.off, 0)
	if err != nil {
		return err
	}
	d.off = next
	return nil
}

// Optional reads a nullable value: null is consumed and reported as nil
// without calling read, anything else is passed to read.
//
//	age, err := cbor.Optional(d, d.U8)
func Optional[T any](d *Decoder, read func() (T, error)) (*T, error) {
	if d.off < len(d.buf) && d.buf[d.off] == nullByte {
		d.off++
		return nil, nil
	}
	v, err := read()
	if err != nil {
		return nil, err
	}
	return &v, nil
}
