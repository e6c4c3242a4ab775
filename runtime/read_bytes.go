package cbor

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

var be = binary.BigEndian

var (
	uintTypes = []Type{Uint8Type, Uint16Type, Uint32Type, Uint64Type}
	intTypes  = []Type{Uint8Type, Uint16Type, Uint32Type, Uint64Type, Int8Type, Int16Type, Int32Type, Int64Type}
)

func (d *Decoder) fail(k Kind, at int, extra any) error {
	return &DecodeError{Kind: k, Offset: at, Extra: extra}
}

// need checks that n bytes are available at pos for the item whose header is at 'at'.
func (d *Decoder) need(at, pos int, n uint64) error {
	have := len(d.buf) - pos
	if have < 0 {
		have = 0
	}
	if uint64(have) < n {
		return d.fail(KindUnexpectedEOF, at, Short{Need: int(min(n, math.MaxInt32)), Have: have})
	}
	return nil
}

// header splits the byte at pos into major type and additional info.
func (d *Decoder) header(pos int) (major, info uint8, err error) {
	if err := d.need(pos, pos, 1); err != nil {
		return 0, 0, err
	}
	b := d.buf[pos]
	return getMajorType(b), getAddInfo(b), nil
}

// typeInfo reads and classifies the header at pos.
func (d *Decoder) typeInfo(pos int) (Type, uint8, error) {
	major, info, err := d.header(pos)
	if err != nil {
		return InvalidType, 0, err
	}
	t, ok := headerType(major, info)
	if !ok {
		return InvalidType, 0, d.fail(KindInvalidType, pos, d.buf[pos])
	}
	return t, info, nil
}

// typeInfoWithAssert classifies the header at pos and fails with
// KindUnexpectedType unless it is one of accept.
func (d *Decoder) typeInfoWithAssert(pos int, accept ...Type) (Type, uint8, error) {
	t, info, err := d.typeInfo(pos)
	if err != nil {
		return t, info, err
	}
	for _, a := range accept {
		if a == t {
			return t, info, nil
		}
	}
	return t, info, d.fail(KindUnexpectedType, pos, TypeMismatch{Got: t, Header: d.buf[pos], Want: accept})
}

// readArg resolves the argument of the header at 'at': a literal for info 0-23,
// or the 1/2/4/8 big-endian bytes following the header for info 24-27.
// It returns the argument and the position after it.
func (d *Decoder) readArg(at int, info uint8) (uint64, int, error) {
	pos := at + 1
	switch {
	case info <= addInfoDirect:
		return uint64(info), pos, nil
	case info == addInfoUint8:
		if err := d.need(at, pos, 1); err != nil {
			return 0, at, err
		}
		return uint64(d.buf[pos]), pos + 1, nil
	case info == addInfoUint16:
		if err := d.need(at, pos, 2); err != nil {
			return 0, at, err
		}
		return uint64(be.Uint16(d.buf[pos:])), pos + 2, nil
	case info == addInfoUint32:
		if err := d.need(at, pos, 4); err != nil {
			return 0, at, err
		}
		return uint64(be.Uint32(d.buf[pos:])), pos + 4, nil
	case info == addInfoUint64:
		if err := d.need(at, pos, 8); err != nil {
			return 0, at, err
		}
		return be.Uint64(d.buf[pos:]), pos + 8, nil
	default:
		return 0, at, d.fail(KindInvalidType, at, d.buf[at])
	}
}

// readLength resolves a definite length and checks it against limit.
func (d *Decoder) readLength(at int, info uint8, limit int) (int, int, error) {
	n, pos, err := d.readArg(at, info)
	if err != nil {
		return 0, at, err
	}
	if n > uint64(limit) {
		return 0, at, d.fail(KindTooLong, at, Overflow{Value: n, Limit: uint64(limit)})
	}
	return int(n), pos, nil
}

// readUnsigned reads a major type 0 integer of any header width, bounded by limit.
func (d *Decoder) readUnsigned(limit uint64) (uint64, error) {
	at := d.off
	_, info, err := d.typeInfoWithAssert(at, uintTypes...)
	if err != nil {
		return 0, err
	}
	u, next, err := d.readArg(at, info)
	if err != nil {
		return 0, err
	}
	if u > limit {
		return 0, d.fail(KindIntOverflow, at, Overflow{Value: u, Limit: limit})
	}
	d.off = next
	return u, nil
}

// readSigned reads a major type 0 or 1 integer whose magnitude is bounded by limit.
func (d *Decoder) readSigned(limit uint64) (int64, error) {
	at := d.off
	t, info, err := d.typeInfoWithAssert(at, intTypes...)
	if err != nil {
		return 0, err
	}
	m, next, err := d.readArg(at, info)
	if err != nil {
		return 0, err
	}
	if m > limit {
		return 0, d.fail(KindIntOverflow, at, Overflow{Value: m, Limit: limit})
	}
	d.off = next
	if t >= Int8Type {
		return -1 - int64(m), nil
	}
	return int64(m), nil
}

// readFixed reads the n-byte payload of a float header of type t.
func (d *Decoder) readFixed(t Type, n uint64) ([]byte, error) {
	at := d.off
	if _, _, err := d.typeInfoWithAssert(at, t); err != nil {
		return nil, err
	}
	if err := d.need(at, at+1, n); err != nil {
		return nil, err
	}
	d.off = at + 1 + int(n)
	return d.buf[at+1 : d.off], nil
}

// readString reads a byte or text string payload. Definite strings alias the
// buffer; indefinite strings are the concatenation of their definite chunks.
func (d *Decoder) readString(t Type, limit int) ([]byte, int, error) {
	at := d.off
	_, info, err := d.typeInfoWithAssert(at, t)
	if err != nil {
		return nil, at, err
	}
	if info != addInfoIndefinite {
		n, pos, err := d.readLength(at, info, limit)
		if err != nil {
			return nil, at, err
		}
		if err := d.need(at, pos, uint64(n)); err != nil {
			return nil, at, err
		}
		return d.buf[pos : pos+n : pos+n], pos + n, nil
	}

	out := []byte{}
	pos := at + 1
	for {
		if err := d.need(at, pos, 1); err != nil {
			return nil, at, err
		}
		if d.buf[pos] == breakByte {
			return out, pos + 1, nil
		}
		ct, cinfo, err := d.typeInfo(pos)
		if err != nil {
			return nil, at, err
		}
		if ct != t {
			return nil, at, d.fail(KindInvalidType, pos, "chunk of "+ct.String()+" in indefinite-length "+t.String())
		}
		if cinfo == addInfoIndefinite {
			return nil, at, d.fail(KindInvalidType, pos, "nested indefinite-length chunk")
		}
		n, q, err := d.readLength(pos, cinfo, limit-len(out))
		if err != nil {
			return nil, at, err
		}
		if err := d.need(pos, q, uint64(n)); err != nil {
			return nil, at, err
		}
		chunk := d.buf[q : q+n]
		if t == TextType && !utf8.Valid(chunk) {
			return nil, at, d.fail(KindInvalidType, pos, "invalid UTF-8 in text string")
		}
		out = append(out, chunk...)
		pos = q + n
	}
}

// readAggregate reads an array or map header, returning Indefinite for the
// 0x9f/0xbf forms.
func (d *Decoder) readAggregate(t Type, limit int) (int, error) {
	at := d.off
	_, info, err := d.typeInfoWithAssert(at, t)
	if err != nil {
		return 0, err
	}
	if info == addInfoIndefinite {
		d.off = at + 1
		return Indefinite, nil
	}
	n, next, err := d.readLength(at, info, limit)
	if err != nil {
		return 0, err
	}
	d.off = next
	return n, nil
}

// skip returns the position after the item at pos. depth is the number of
// aggregates and tags enclosing the item.
func (d *Decoder) skip(pos, depth int) (int, error) {
	if depth > d.cfg.MaxNesting {
		return pos, d.fail(KindTooNested, pos, d.cfg.MaxNesting)
	}
	major, info, err := d.header(pos)
	if err != nil {
		return pos, err
	}
	if info >= 28 && info <= 30 {
		return pos, d.fail(KindInvalidType, pos, d.buf[pos])
	}

	switch major {
	case majorTypeUint, majorTypeNegInt, majorTypeTag:
		if info == addInfoIndefinite {
			return pos, d.fail(KindInvalidType, pos, d.buf[pos])
		}
		_, next, err := d.readArg(pos, info)
		if err != nil {
			return pos, err
		}
		if major == majorTypeTag {
			return d.skip(next, depth+1)
		}
		return next, nil

	case majorTypeBytes, majorTypeText:
		if info == addInfoIndefinite {
			// series of definite chunks of the same major type terminated by break
			p := pos + 1
			for {
				cmajor, cinfo, err := d.header(p)
				if err != nil {
					return pos, err
				}
				if d.buf[p] == breakByte {
					return p + 1, nil
				}
				if cmajor != major {
					return pos, d.fail(KindInvalidType, p, "chunk of wrong major type in indefinite-length string")
				}
				if cinfo == addInfoIndefinite {
					return pos, d.fail(KindInvalidType, p, "nested indefinite-length chunk")
				}
				if p, err = d.skipPayload(p, cinfo); err != nil {
					return pos, err
				}
			}
		}
		return d.skipPayload(pos, info)

	case majorTypeArray, majorTypeMap:
		items := 1
		if major == majorTypeMap {
			items = 2
		}
		p := pos + 1
		if info == addInfoIndefinite {
			for {
				if err := d.need(pos, p, 1); err != nil {
					return pos, err
				}
				if d.buf[p] == breakByte {
					return p + 1, nil
				}
				for j := 0; j < items; j++ {
					if p, err = d.skip(p, depth+1); err != nil {
						return pos, err
					}
				}
			}
		}
		n, p, err := d.readArg(pos, info)
		if err != nil {
			return pos, err
		}
		for i := uint64(0); i < n; i++ {
			for j := 0; j < items; j++ {
				if p, err = d.skip(p, depth+1); err != nil {
					return pos, err
				}
			}
		}
		return p, nil

	default:
		switch {
		case info <= addInfoDirect: // false, true, null, undefined, unassigned simple values
			return pos + 1, nil
		case info <= simpleFloat64: // simple value in 1 byte, or a float
			n := uint64(1) << (info - addInfoUint8)
			if err := d.need(pos, pos+1, n); err != nil {
				return pos, err
			}
			return pos + 1 + int(n), nil
		default:
			return pos, d.fail(KindInvalidType, pos, "unexpected break")
		}
	}
}

// skipPayload skips a definite-length string whose header is at pos.
func (d *Decoder) skipPayload(pos int, info uint8) (int, error) {
	n, q, err := d.readArg(pos, info)
	if err != nil {
		return pos, err
	}
	if err := d.need(pos, q, n); err != nil {
		return pos, err
	}
	return q + int(n), nil
}
