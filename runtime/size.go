package cbor

import "math"

// Worst-case encoded sizes. For strings the total is the prefix size plus the
// payload length.
const (
	U8Size           = 2
	U16Size          = 3
	U32Size          = 5
	U64Size          = 9
	F32Size          = 5
	F64Size          = 9
	BoolSize         = 1
	NullSize         = 1
	BreakSize        = 1
	HeaderMaxSize    = 9
	BytesPrefixSize  = HeaderMaxSize
	TextPrefixSize   = HeaderMaxSize
	ArrayHeaderSize  = HeaderMaxSize
	ObjectHeaderSize = HeaderMaxSize
)

// HeaderSize returns the length of the shortest header carrying argument u.
func HeaderSize(u uint64) int {
	switch {
	case u <= addInfoDirect:
		return 1
	case u <= math.MaxUint8:
		return 2
	case u <= math.MaxUint16:
		return 3
	case u <= math.MaxUint32:
		return 5
	default:
		return 9
	}
}
