// Package cbor is a schedule-driven CBOR codec.
//
// The package has two halves that share no state:
//   - (*Encoder).Xxx() appends one value to a growable buffer. Calls are made in the
//     order of the document being written, e.g. Object(2), Text("a"), U8(1), ...
//   - (*Decoder).Xxx() reads one value from a fixed buffer. The caller drives the
//     reads in the same order the producer wrote them, and uses Skip and Optional
//     to tolerate unknown or absent fields.
//
// Nothing is self-describing beyond what NextType reports about the next header:
// both sides agree on the call sequence by convention.
//
// Integer magnitudes are limited to MaxSafeInteger (2^53-1) on both sides.
package cbor

// MaxSafeInteger is the largest integer magnitude the codec accepts.
const MaxSafeInteger = 1<<53 - 1

// Indefinite is returned by (*Decoder).Array and (*Decoder).Object for
// indefinite-length aggregates. The caller reads items until Break reports true.
const Indefinite = -1

// CBOR major types (3 bits)
const (
	majorTypeUint   = 0 // unsigned integer
	majorTypeNegInt = 1 // negative integer
	majorTypeBytes  = 2 // byte string
	majorTypeText   = 3 // text string (UTF-8)
	majorTypeArray  = 4 // array
	majorTypeMap    = 5 // map
	majorTypeTag    = 6 // semantic tag
	majorTypeSimple = 7 // float, simple values, break
)

// Additional info values (5 bits)
const (
	// 0-23: literal value
	addInfoDirect     = 23 // max direct value
	addInfoUint8      = 24 // 1-byte uint8 follows
	addInfoUint16     = 25 // 2-byte uint16 follows
	addInfoUint32     = 26 // 4-byte uint32 follows
	addInfoUint64     = 27 // 8-byte uint64 follows
	addInfoIndefinite = 31 // indefinite length (for bytes, text, array, map)
)

// Simple values in major type 7
const (
	simpleFalse     = 20
	simpleTrue      = 21
	simpleNull      = 22
	simpleUndefined = 23
	simpleFloat16   = 25
	simpleFloat32   = 26
	simpleFloat64   = 27
	simpleBreak     = 31
)

var (
	breakByte = makeByte(majorTypeSimple, simpleBreak)
	nullByte  = makeByte(majorTypeSimple, simpleNull)
)

// makeByte creates a CBOR initial byte from major type and additional info
func makeByte(majorType, addInfo uint8) byte {
	return byte((majorType << 5) | addInfo)
}

// getMajorType extracts the major type from a CBOR initial byte
func getMajorType(b byte) uint8 {
	return (b >> 5) & 0x07
}

// getAddInfo extracts the additional info from a CBOR initial byte
func getAddInfo(b byte) uint8 {
	return b & 0x1f
}

// Type is the logical kind of a CBOR item.
type Type uint8

// CBOR Types
const (
	InvalidType Type = iota

	ArrayType     // array, definite or indefinite
	BoolType      // true / false
	BreakType     // 0xff terminator
	BytesType     // byte string
	Float16Type   // IEEE 754 binary16
	Float32Type   // IEEE 754 binary32
	Float64Type   // IEEE 754 binary64
	Uint8Type     // unsigned, header info <= 24
	Uint16Type    // unsigned, 2-byte argument
	Uint32Type    // unsigned, 4-byte argument
	Uint64Type    // unsigned, 8-byte argument
	Int8Type      // negative, header info <= 24
	Int16Type     // negative, 2-byte argument
	Int32Type     // negative, 4-byte argument
	Int64Type     // negative, 8-byte argument
	NullType      // null
	ObjectType    // map
	TaggedType    // semantic tag
	TextType      // text string
	UndefinedType // undefined

	typeCount
)

// Major returns the 3-bit major type t is encoded with.
// ok is false for InvalidType and unknown values.
func (t Type) Major() (major uint8, ok bool) {
	switch t {
	case Uint8Type, Uint16Type, Uint32Type, Uint64Type:
		return majorTypeUint, true
	case Int8Type, Int16Type, Int32Type, Int64Type:
		return majorTypeNegInt, true
	case BytesType:
		return majorTypeBytes, true
	case TextType:
		return majorTypeText, true
	case ArrayType:
		return majorTypeArray, true
	case ObjectType:
		return majorTypeMap, true
	case TaggedType:
		return majorTypeTag, true
	case BoolType, BreakType, Float16Type, Float32Type, Float64Type, NullType, UndefinedType:
		return majorTypeSimple, true
	default:
		return 0, false
	}
}

// String implements fmt.Stringer
func (t Type) String() string {
	switch t {
	case ArrayType:
		return "array"
	case BoolType:
		return "bool"
	case BreakType:
		return "break"
	case BytesType:
		return "bytes"
	case Float16Type:
		return "float16"
	case Float32Type:
		return "float32"
	case Float64Type:
		return "float64"
	case Uint8Type:
		return "uint8"
	case Uint16Type:
		return "uint16"
	case Uint32Type:
		return "uint32"
	case Uint64Type:
		return "uint64"
	case Int8Type:
		return "int8"
	case Int16Type:
		return "int16"
	case Int32Type:
		return "int32"
	case Int64Type:
		return "int64"
	case NullType:
		return "null"
	case ObjectType:
		return "object"
	case TaggedType:
		return "tagged"
	case TextType:
		return "text"
	case UndefinedType:
		return "undefined"
	default:
		return "<invalid>"
	}
}

// headerType classifies a header byte. Integer kinds are named after the width
// of the header argument, so 0x18 is Uint8Type and 0x19 is Uint16Type.
// ok is false for headers outside the supported subset: reserved additional
// info 28-30, indefinite integers and tags, and unassigned simple values.
func headerType(major, info uint8) (Type, bool) {
	if info >= 28 && info <= 30 {
		return InvalidType, false
	}
	switch major {
	case majorTypeUint, majorTypeNegInt:
		var t Type
		switch {
		case info <= addInfoUint8:
			t = Uint8Type
		case info == addInfoUint16:
			t = Uint16Type
		case info == addInfoUint32:
			t = Uint32Type
		case info == addInfoUint64:
			t = Uint64Type
		default:
			return InvalidType, false
		}
		if major == majorTypeNegInt {
			t += Int8Type - Uint8Type
		}
		return t, true
	case majorTypeBytes:
		return BytesType, true
	case majorTypeText:
		return TextType, true
	case majorTypeArray:
		return ArrayType, true
	case majorTypeMap:
		return ObjectType, true
	case majorTypeTag:
		if info == addInfoIndefinite {
			return InvalidType, false
		}
		return TaggedType, true
	default:
		switch info {
		case simpleFalse, simpleTrue:
			return BoolType, true
		case simpleNull:
			return NullType, true
		case simpleUndefined:
			return UndefinedType, true
		case simpleFloat16:
			return Float16Type, true
		case simpleFloat32:
			return Float32Type, true
		case simpleFloat64:
			return Float64Type, true
		case simpleBreak:
			return BreakType, true
		}
		return InvalidType, false
	}
}

// Marshaler matches the interface of the same name in github.com/fxamacker/cbor/v2,
// so generated types can be handed to either library.
type Marshaler interface {
	MarshalCBOR() ([]byte, error)
}

// Unmarshaler is the decoding counterpart of Marshaler.
type Unmarshaler interface {
	UnmarshalCBOR([]byte) error
}

// Encodable is implemented by types that write themselves to an Encoder.
type Encodable interface {
	EncodeCBOR(e *Encoder)
}

// Decodable is implemented by types that read themselves from a Decoder.
type Decodable interface {
	DecodeCBOR(d *Decoder) error
}
