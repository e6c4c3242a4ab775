package cbor_test

import (
	"errors"
	"reflect"
	"testing"

	cbor "github.com/m-2k/wire-webapp-cbor/runtime"
)

var boundaryMagnitudes = []uint64{
	0, 1, 10, 23, 24, 25, 100, 255, 256, 1000, 65535, 65536, 1000000,
	4294967295, 4294967296, 1000000000000, cbor.MaxSafeInteger,
}

type intWidth struct {
	name   string
	ulimit uint64 // encoder bound for both signs, decoder ceiling for U*
	slimit uint64 // decoder ceiling on the magnitude -1-x for I*
	encU   func(*cbor.Encoder, uint64) *cbor.Encoder
	encI   func(*cbor.Encoder, int64) *cbor.Encoder
	decU   func(*cbor.Decoder) (uint64, error)
	decI   func(*cbor.Decoder) (int64, error)
}

var intWidths = []intWidth{
	{
		"8", 255, 127, (*cbor.Encoder).U8, (*cbor.Encoder).I8,
		func(d *cbor.Decoder) (uint64, error) { v, err := d.U8(); return uint64(v), err },
		func(d *cbor.Decoder) (int64, error) { v, err := d.I8(); return int64(v), err },
	},
	{
		"16", 65535, 32767, (*cbor.Encoder).U16, (*cbor.Encoder).I16,
		func(d *cbor.Decoder) (uint64, error) { v, err := d.U16(); return uint64(v), err },
		func(d *cbor.Decoder) (int64, error) { v, err := d.I16(); return int64(v), err },
	},
	{
		"32", 4294967295, 2147483647, (*cbor.Encoder).U32, (*cbor.Encoder).I32,
		func(d *cbor.Decoder) (uint64, error) { v, err := d.U32(); return uint64(v), err },
		func(d *cbor.Decoder) (int64, error) { v, err := d.I32(); return int64(v), err },
	},
	{
		"64", cbor.MaxSafeInteger, cbor.MaxSafeInteger, (*cbor.Encoder).U64, (*cbor.Encoder).I64,
		(*cbor.Decoder).U64,
		(*cbor.Decoder).I64,
	},
}

func TestIntegerBoundaryRoundTrip(t *testing.T) {
	for _, v := range boundaryMagnitudes {
		for _, w := range intWidths {
			// unsigned writer and reader of the same width
			e := w.encU(cbor.NewEncoder(), v)
			if v > w.ulimit {
				var re *cbor.RangeError
				if !errors.As(e.Err(), &re) {
					t.Fatalf("U%s(%d): expected range error, got %v", w.name, v, e.Err())
				}
			} else {
				if e.Err() != nil {
					t.Fatalf("U%s(%d): %v", w.name, v, e.Err())
				}
				if e.Len() != cbor.HeaderSize(v) {
					t.Fatalf("U%s(%d): %d bytes, want minimal %d", w.name, v, e.Len(), cbor.HeaderSize(v))
				}
			}
			wire := cbor.NewEncoder().U64(v).Buffer()
			got, err := w.decU(cbor.NewDecoder(wire))
			switch {
			case v > w.ulimit:
				if !errors.Is(err, cbor.ErrIntOverflow) {
					t.Fatalf("U%s read of %d: expected overflow, got %v", w.name, v, err)
				}
			case err != nil || got != v:
				t.Fatalf("U%s read of %d: %d, %v", w.name, v, got, err)
			}

			// signed reader on the positive value
			gotI, err := w.decI(cbor.NewDecoder(wire))
			switch {
			case v > w.slimit:
				if !errors.Is(err, cbor.ErrIntOverflow) {
					t.Fatalf("I%s read of %d: expected overflow, got %v", w.name, v, err)
				}
			case err != nil || gotI != int64(v):
				t.Fatalf("I%s read of %d: %d, %v", w.name, v, gotI, err)
			}

			if v == 0 {
				continue
			}
			// negation, magnitude on the wire is v-1
			x, m := -int64(v), v-1
			e = w.encI(cbor.NewEncoder(), x)
			if m > w.ulimit {
				if e.Err() == nil {
					t.Fatalf("I%s(%d): expected range error", w.name, x)
				}
			} else if e.Err() != nil || e.Len() != cbor.HeaderSize(m) {
				t.Fatalf("I%s(%d): len=%d err=%v", w.name, x, e.Len(), e.Err())
			}
			wire = cbor.NewEncoder().I64(x).Buffer()
			gotI, err = w.decI(cbor.NewDecoder(wire))
			switch {
			case m > w.slimit:
				if !errors.Is(err, cbor.ErrIntOverflow) {
					t.Fatalf("I%s read of %d: expected overflow, got %v", w.name, x, err)
				}
			case err != nil || gotI != x:
				t.Fatalf("I%s read of %d: %d, %v", w.name, x, gotI, err)
			}
			if _, err := cbor.NewDecoder(wire).Unsigned(); !errors.Is(err, cbor.ErrUnexpectedType) {
				t.Fatalf("Unsigned read of %d: %v", x, err)
			}
		}

		wire := cbor.NewEncoder().U64(v).Buffer()
		if got, err := cbor.NewDecoder(wire).Int(); err != nil || got != int64(v) {
			t.Fatalf("Int read of %d: %d, %v", v, got, err)
		}
		if got, err := cbor.NewDecoder(wire).Unsigned(); err != nil || got != v {
			t.Fatalf("Unsigned read of %d: %d, %v", v, got, err)
		}
		if v != 0 {
			wire = cbor.NewEncoder().I64(-int64(v)).Buffer()
			if got, err := cbor.NewDecoder(wire).Int(); err != nil || got != -int64(v) {
				t.Fatalf("Int read of -%d: %d, %v", v, got, err)
			}
		}
	}
}

// readNested decodes arrays of small integers into []any, accepting both
// definite and indefinite lengths.
func readNested(t *testing.T, d *cbor.Decoder) []any {
	t.Helper()
	n, err := d.Array()
	if err != nil {
		t.Fatalf("array at %d: %v", d.Offset(), err)
	}
	out := []any{}
	for i := 0; n == cbor.Indefinite || i < n; i++ {
		if n == cbor.Indefinite {
			done, err := d.Break()
			if err != nil {
				t.Fatalf("break at %d: %v", d.Offset(), err)
			}
			if done {
				break
			}
		}
		typ, err := d.NextType()
		if err != nil {
			t.Fatal(err)
		}
		if typ == cbor.ArrayType {
			out = append(out, readNested(t, d))
			continue
		}
		v, err := d.U8()
		if err != nil {
			t.Fatalf("element at %d: %v", d.Offset(), err)
		}
		out = append(out, v)
	}
	return out
}

func TestNestedDefiniteIndefiniteEquivalence(t *testing.T) {
	def := cbor.NewEncoder().
		Array(3).U8(1).
		Array(2).U8(2).U8(3).
		Array(2).U8(4).U8(5).
		Buffer()
	indef := cbor.NewEncoder().
		ArrayBegin().U8(1).
		ArrayBegin().U8(2).U8(3).ArrayEnd().
		ArrayBegin().U8(4).U8(5).ArrayEnd().
		ArrayEnd().
		Buffer()
	if want := mustHex(t, "8301820203820405"); !reflect.DeepEqual(def, want) {
		t.Fatalf("definite: %x", def)
	}
	if want := mustHex(t, "9f019f0203ff9f0405ffff"); !reflect.DeepEqual(indef, want) {
		t.Fatalf("indefinite: %x", indef)
	}

	want := []any{uint8(1), []any{uint8(2), uint8(3)}, []any{uint8(4), uint8(5)}}
	for _, b := range [][]byte{def, indef} {
		d := cbor.NewDecoder(b)
		if got := readNested(t, d); !reflect.DeepEqual(got, want) {
			t.Fatalf("%x: got %v want %v", b, got, want)
		}
		if !d.Done() {
			t.Fatalf("%x: %d bytes left", b, len(d.Remaining()))
		}
	}
}

func TestTypedReadTruncationIsEOF(t *testing.T) {
	cases := []struct {
		name string
		hex  string
		read func(d *cbor.Decoder) error
	}{
		{"u16", "1903e8", func(d *cbor.Decoder) error { _, err := d.U16(); return err }},
		{"u32", "1a00010000", func(d *cbor.Decoder) error { _, err := d.U32(); return err }},
		{"u64", "1b000000e8d4a51000", func(d *cbor.Decoder) error { _, err := d.U64(); return err }},
		{"i32", "3a00053d89", func(d *cbor.Decoder) error { _, err := d.I32(); return err }},
		{"i64", "3b000000058879da85", func(d *cbor.Decoder) error { _, err := d.I64(); return err }},
		{"int", "3b000000058879da85", func(d *cbor.Decoder) error { _, err := d.Int(); return err }},
		{"f16", "f93c00", func(d *cbor.Decoder) error { _, err := d.F16(); return err }},
		{"f32", "fa47c35000", func(d *cbor.Decoder) error { _, err := d.F32(); return err }},
		{"f64", "fb7e37e43c8800759c", func(d *cbor.Decoder) error { _, err := d.F64(); return err }},
		{"bool", "f5", func(d *cbor.Decoder) error { _, err := d.Bool(); return err }},
		{"null", "f6", func(d *cbor.Decoder) error { return d.Null() }},
		{"bytes", "43010203", func(d *cbor.Decoder) error { _, err := d.Bytes(); return err }},
		{"bytes_chunked", "5f42010243030405ff", func(d *cbor.Decoder) error { _, err := d.Bytes(); return err }},
		{"text", "62c3bc", func(d *cbor.Decoder) error { _, err := d.Text(); return err }},
		{"text_long_header", "780161", func(d *cbor.Decoder) error { _, err := d.Text(); return err }},
		{"text_chunked", "7f657374726561646d696e67ff", func(d *cbor.Decoder) error { _, err := d.Text(); return err }},
		{"array", "990100", func(d *cbor.Decoder) error { _, err := d.Array(); return err }},
		{"object", "b90100", func(d *cbor.Decoder) error { _, err := d.Object(); return err }},
		{"tag", "da00010000", func(d *cbor.Decoder) error { _, err := d.Tag(); return err }},
		{"break", "ff", func(d *cbor.Decoder) error { _, err := d.Break(); return err }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			full := mustHex(t, tc.hex)
			d := cbor.NewDecoder(full)
			if err := tc.read(d); err != nil || !d.Done() {
				t.Fatalf("full item: err=%v offset=%d", err, d.Offset())
			}
			for i := 0; i < len(full); i++ {
				d := cbor.NewDecoder(full[:i])
				err := tc.read(d)
				if !errors.Is(err, cbor.ErrUnexpectedEOF) {
					t.Fatalf("[:%d]: expected EOF, got %v", i, err)
				}
				if d.Offset() != 0 {
					t.Fatalf("[:%d]: cursor moved to %d", i, d.Offset())
				}
			}
		})
	}
}
