package cbor

import (
	"bytes"
	"encoding/hex"
	"math"
	"strconv"
)

// DiagBytes renders the first CBOR item of b in RFC 8949 diagnostic notation
// and returns the bytes after it. On error the input is returned unchanged.
func DiagBytes(b []byte) (string, []byte, error) {
	d := NewDecoder(b)
	s, err := d.Diag()
	if err != nil {
		return "", b, err
	}
	return s, d.Remaining(), nil
}

// Diag consumes the next item and renders it in diagnostic notation, e.g.
// {"a": 1, "b": [_ 2, 3]}. Nesting is bounded by Config.MaxNesting.
// On error the cursor is not moved.
func (d *Decoder) Diag() (string, error) {
	start := d.off
	out, err := d.diag(nil, 0)
	if err != nil {
		d.off = start
		return "", err
	}
	return string(out), nil
}

func (d *Decoder) diag(out []byte, depth int) ([]byte, error) {
	if depth > d.cfg.MaxNesting {
		return out, d.fail(KindTooNested, d.off, d.cfg.MaxNesting)
	}
	t, err := d.NextType()
	if err != nil {
		return out, err
	}
	switch t {
	case Uint8Type, Uint16Type, Uint32Type, Uint64Type:
		u, err := d.Unsigned()
		if err != nil {
			return out, err
		}
		return strconv.AppendUint(out, u, 10), nil

	case Int8Type, Int16Type, Int32Type, Int64Type:
		x, err := d.Int()
		if err != nil {
			return out, err
		}
		return strconv.AppendInt(out, x, 10), nil

	case BytesType, TextType:
		if getAddInfo(d.buf[d.off]) == addInfoIndefinite {
			return d.diagChunks(out, t)
		}
		return d.diagString(out, t)

	case ArrayType, ObjectType:
		var n int
		if t == ArrayType {
			out = append(out, '[')
			n, err = d.Array()
		} else {
			out = append(out, '{')
			n, err = d.Object()
		}
		if err != nil {
			return out, err
		}
		if n == Indefinite {
			out = append(out, '_', ' ')
		}
		for i := 0; n == Indefinite || i < n; i++ {
			if n == Indefinite {
				done, err := d.Break()
				if err != nil {
					return out, err
				}
				if done {
					break
				}
			}
			if i > 0 {
				out = append(out, ", "...)
			}
			if out, err = d.diag(out, depth+1); err != nil {
				return out, err
			}
			if t == ObjectType {
				out = append(out, ": "...)
				if out, err = d.diag(out, depth+1); err != nil {
					return out, err
				}
			}
		}
		if t == ArrayType {
			return append(out, ']'), nil
		}
		return append(out, '}'), nil

	case TaggedType:
		tag, err := d.Tag()
		if err != nil {
			return out, err
		}
		out = strconv.AppendUint(out, tag, 10)
		out = append(out, '(')
		if out, err = d.diag(out, depth+1); err != nil {
			return out, err
		}
		return append(out, ')'), nil

	case BoolType:
		v, err := d.Bool()
		if err != nil {
			return out, err
		}
		return strconv.AppendBool(out, v), nil

	case NullType:
		d.off++
		return append(out, "null"...), nil

	case UndefinedType:
		d.off++
		return append(out, "undefined"...), nil

	case Float16Type:
		f, err := d.F16()
		if err != nil {
			return out, err
		}
		return appendFloatDiag(out, float64(f)), nil

	case Float32Type:
		f, err := d.F32()
		if err != nil {
			return out, err
		}
		return appendFloatDiag(out, float64(f)), nil

	case Float64Type:
		f, err := d.F64()
		if err != nil {
			return out, err
		}
		return appendFloatDiag(out, f), nil

	default: // a break with no open aggregate
		return out, d.fail(KindInvalidType, d.off, "unexpected break")
	}
}

func (d *Decoder) diagString(out []byte, t Type) ([]byte, error) {
	if t == BytesType {
		b, err := d.Bytes()
		if err != nil {
			return out, err
		}
		out = append(out, "h'"...)
		out = hex.AppendEncode(out, b)
		return append(out, '\''), nil
	}
	s, err := d.Text()
	if err != nil {
		return out, err
	}
	return strconv.AppendQuote(out, s), nil
}

// diagChunks renders an indefinite-length string chunk by chunk: (_ h'01', h'02').
func (d *Decoder) diagChunks(out []byte, t Type) ([]byte, error) {
	d.off++
	out = append(out, "(_"...)
	for i := 0; ; i++ {
		done, err := d.Break()
		if err != nil {
			return out, err
		}
		if done {
			return append(out, ')'), nil
		}
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, ' ')
		if _, _, err := d.typeInfoWithAssert(d.off, t); err != nil {
			return out, err
		}
		if getAddInfo(d.buf[d.off]) == addInfoIndefinite {
			return out, d.fail(KindInvalidType, d.off, "nested indefinite-length chunk")
		}
		if out, err = d.diagString(out, t); err != nil {
			return out, err
		}
	}
}

// appendFloatDiag formats f the way JavaScript prints numbers: plain decimal
// between 1e-6 and 1e21, exponent form outside it, always with a fraction.
// Half and single precision values are widened first.
func appendFloatDiag(out []byte, f float64) []byte {
	switch {
	case math.IsInf(f, 1):
		return append(out, "Infinity"...)
	case math.IsInf(f, -1):
		return append(out, "-Infinity"...)
	case math.IsNaN(f):
		return append(out, "NaN"...)
	}
	start := len(out)
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		out = strconv.AppendFloat(out, f, 'e', -1, 64)
		// e-07 -> e-7
		if n := len(out); n-start >= 4 && string(out[n-4:n-1]) == "e-0" {
			out = append(out[:n-2], out[n-1])
		}
	} else {
		out = strconv.AppendFloat(out, f, 'f', -1, 64)
	}
	num := out[start:]
	if bytes.IndexByte(num, '.') >= 0 {
		return out
	}
	if e := bytes.IndexByte(num, 'e'); e >= 0 {
		exp := string(num[e:])
		return append(append(out[:start+e], ".0"...), exp...)
	}
	return append(out, ".0"...)
}
