package cbor_test

import (
	"errors"
	"testing"

	fxcbor "github.com/fxamacker/cbor/v2"

	cbor "github.com/m-2k/wire-webapp-cbor/runtime"
)

type diagExample struct {
	name string
	diag string
	hex  string
}

var diagExamples = []diagExample{
	{"zero", "0", "00"},
	{"minus-one", "-1", "20"},
	{"u64", "1000000000000", "1b000000e8d4a51000"},
	{"neg-i64", "-23764523654", "3b000000058879da85"},
	{"text-a", "\"a\"", "6161"},
	{"bytes-010203", "h'010203'", "43010203"},
	{"array-1-2-3", "[1, 2, 3]", "83010203"},
	{"array-empty", "[]", "80"},
	{"map-a1-b2", "{\"a\": 1, \"b\": 2}", "a2616101616202"},
	{"map-empty", "{}", "a0"},
	{"indef-array-1-2", "[_ 1, 2]", "9f0102ff"},
	{"indef-map", "{_ \"a\": 1}", "bf616101ff"},
	{"tag-epoch-datetime", "1(1363896240)", "c11a514b67b0"},
	{"chunked-bytes", "(_ h'0102', h'030405')", "5f42010243030405ff"},
	{"chunked-text", "(_ \"strea\", \"ming\")", "7f657374726561646d696e67ff"},
	{"simple-values", "[false, true, null, undefined]", "84f4f5f6f7"},
	{"nested", "{\"a\": 1, \"b\": [2, 3]}", "a26161016162820203"},
	{"f16-1.5", "1.5", "f93e00"},
	{"f16-65504", "65504.0", "f97bff"},
	{"f16-neg-zero", "-0.0", "f98000"},
	{"f16-inf", "Infinity", "f97c00"},
	{"f16-ninf", "-Infinity", "f9fc00"},
	{"f16-nan", "NaN", "f97e00"},
	{"f32-100000", "100000.0", "fa47c35000"},
	{"f64-neg-4.1", "-4.1", "fbc010666666666666"},
	{"f64-1e300", "1.0e+300", "fb7e37e43c8800759c"},
	{"f16-1.0009765625", "1.0009765625", "f93c01"},
	{"f32-1.0000001", "1.0000001192092896", "fa3f800001"},
}

func TestDiagExamples(t *testing.T) {
	for _, ex := range diagExamples {
		t.Run(ex.name, func(t *testing.T) {
			msg := mustHex(t, ex.hex)
			got, rest, err := cbor.DiagBytes(msg)
			if err != nil {
				t.Fatalf("DiagBytes error: %v", err)
			}
			if len(rest) != 0 {
				t.Fatalf("DiagBytes leftover: %d", len(rest))
			}
			if got != ex.diag {
				t.Fatalf("diag mismatch: got %q want %q (hex %s)", got, ex.diag, ex.hex)
			}
			want, _, err := fxcbor.DiagnoseFirst(msg)
			if err != nil {
				t.Fatalf("fxamacker DiagnoseFirst: %v", err)
			}
			if got != want {
				t.Fatalf("fxamacker renders %q, we render %q", want, got)
			}
		})
	}
}

func TestDiagSequence(t *testing.T) {
	in := mustHex(t, "0161614083010203")
	var got []string
	for len(in) > 0 {
		s, rest, err := cbor.DiagBytes(in)
		if err != nil {
			t.Fatalf("DiagBytes: %v", err)
		}
		got = append(got, s)
		in = rest
	}
	want := []string{"1", "\"a\"", "h''", "[1, 2, 3]"}
	if len(got) != len(want) {
		t.Fatalf("got %d items: %q", len(got), got)
	}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("item %d: got %q want %q", i, got[i], w)
		}
	}
}

func TestDiagErrorsLeaveInput(t *testing.T) {
	in := mustHex(t, "8201")
	_, rest, err := cbor.DiagBytes(in)
	if !errors.Is(err, cbor.ErrUnexpectedEOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
	if len(rest) != len(in) {
		t.Fatalf("input consumed on error")
	}

	d := cbor.NewDecoderConfig(nestedArrays(5), cbor.Config{MaxNesting: 3})
	if _, err := d.Diag(); !errors.Is(err, cbor.ErrTooNested) {
		t.Fatalf("expected too nested, got %v", err)
	}
	if d.Offset() != 0 {
		t.Fatalf("cursor moved on error")
	}
}
