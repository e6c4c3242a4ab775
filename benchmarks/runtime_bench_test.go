package benchmarks

import (
	"testing"

	msgp "github.com/tinylib/msgp/msgp"

	cbor "github.com/m-2k/wire-webapp-cbor/runtime"
)

// Primitive microbenchmarks comparing the schedule-driven Encoder and
// Decoder against tinylib/msgp's append/read functions for the same values.

func BenchmarkCBOR_EncodeI64(b *testing.B) {
	e := cbor.NewEncoder()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Reset()
		e.I64(int64(i & 0xffffff))
	}
}

func BenchmarkMsgp_AppendInt64(b *testing.B) {
	var out []byte
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out = msgp.AppendInt64(out[:0], int64(i&0xffffff))
	}
	_ = out
}

func BenchmarkCBOR_EncodeText(b *testing.B) {
	e := cbor.NewEncoder()
	s := "hello world"
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Reset()
		e.Text(s)
	}
}

func BenchmarkMsgp_AppendString(b *testing.B) {
	var out []byte
	s := "hello world"
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out = msgp.AppendString(out[:0], s)
	}
	_ = out
}

func BenchmarkCBOR_EncodeBytes(b *testing.B) {
	e := cbor.NewEncoder()
	data := []byte("payload bytes")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Reset()
		e.Bytes(data)
	}
}

func BenchmarkMsgp_AppendBytes(b *testing.B) {
	var out []byte
	data := []byte("payload bytes")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out = msgp.AppendBytes(out[:0], data)
	}
	_ = out
}

func BenchmarkCBOR_DecodeI64(b *testing.B) {
	enc := cbor.NewEncoder().I64(-23764523654).Buffer()
	d := cbor.NewDecoder(enc)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Reset(enc)
		if _, err := d.I64(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMsgp_ReadInt64(b *testing.B) {
	enc := msgp.AppendInt64(nil, -23764523654)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := msgp.ReadInt64Bytes(enc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCBOR_DecodeText(b *testing.B) {
	enc := cbor.NewEncoder().Text("hello world").Buffer()
	d := cbor.NewDecoder(enc)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Reset(enc)
		if _, err := d.Text(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMsgp_ReadString(b *testing.B) {
	enc := msgp.AppendString(nil, "hello world")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := msgp.ReadStringBytes(enc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCBOR_Skip(b *testing.B) {
	enc := cbor.NewEncoder().
		Object(3).
		Text("a").U8(1).
		Text("b").Array(3).U8(2).U8(3).Text("x").
		Text("c").Object(1).Text("d").F64(1.5).
		Buffer()
	d := cbor.NewDecoder(enc)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Reset(enc)
		if err := d.Skip(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMsgp_Skip(b *testing.B) {
	enc := msgp.AppendMapHeader(nil, 3)
	enc = msgp.AppendString(enc, "a")
	enc = msgp.AppendInt64(enc, 1)
	enc = msgp.AppendString(enc, "b")
	enc = msgp.AppendArrayHeader(enc, 3)
	enc = msgp.AppendInt64(enc, 2)
	enc = msgp.AppendInt64(enc, 3)
	enc = msgp.AppendString(enc, "x")
	enc = msgp.AppendString(enc, "c")
	enc = msgp.AppendMapHeader(enc, 1)
	enc = msgp.AppendString(enc, "d")
	enc = msgp.AppendFloat64(enc, 1.5)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := msgp.Skip(enc); err != nil {
			b.Fatal(err)
		}
	}
}
