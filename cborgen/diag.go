package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	fxcbor "github.com/fxamacker/cbor/v2"

	cbor "github.com/m-2k/wire-webapp-cbor/runtime"
)

// DiagCmd prints every item of a CBOR sequence in diagnostic notation.
type DiagCmd struct {
	Hex        string `short:"x" help:"Hex-encoded input instead of a file"`
	File       string `arg:"" optional:"" help:"CBOR file to read; stdin when omitted and no --hex is given"`
	Check      bool   `help:"Cross-check every item against github.com/fxamacker/cbor"`
	MaxNesting int    `help:"Maximum nesting depth" default:"16" env:"CBORGEN_MAX_NESTING"`
}

// Run implements the diag command.
func (c *DiagCmd) Run(logger *slog.Logger) error {
	in, err := c.input()
	if err != nil {
		return err
	}
	return diagnose(os.Stdout, in, cbor.Config{MaxNesting: c.MaxNesting}, c.Check, logger)
}

func (c *DiagCmd) input() ([]byte, error) {
	switch {
	case c.Hex != "":
		b, err := hex.DecodeString(strings.Join(strings.Fields(c.Hex), ""))
		if err != nil {
			return nil, fmt.Errorf("decode --hex: %w", err)
		}
		return b, nil
	case c.File != "" && c.File != "-":
		return os.ReadFile(c.File)
	default:
		return io.ReadAll(os.Stdin)
	}
}

// errMismatch is returned when --check finds items rendered differently
// by fxamacker/cbor.
var errMismatch = errors.New("diagnostic notation differs from fxamacker/cbor")

// diagnose writes one line per item in b. With check, each item is also
// rendered by fxamacker's DiagnoseFirst and differences are logged.
func diagnose(w io.Writer, b []byte, cfg cbor.Config, check bool, logger *slog.Logger) error {
	d := cbor.NewDecoderConfig(b, cfg)
	mismatches := 0
	for !d.Done() {
		start := d.Offset()
		s, err := d.Diag()
		if err != nil {
			return fmt.Errorf("item at offset %d: %w", start, err)
		}
		logger.Debug("item", "offset", start, "size", d.Offset()-start)
		if _, err := fmt.Fprintln(w, s); err != nil {
			return err
		}
		if !check {
			continue
		}
		want, _, err := fxcbor.DiagnoseFirst(b[start:d.Offset()])
		if err != nil {
			logger.Warn("fxamacker rejected item", "offset", start, "err", err)
			mismatches++
			continue
		}
		if want != s {
			logger.Warn("rendering differs", "offset", start, "ours", s, "fxamacker", want)
			mismatches++
		}
	}
	if mismatches > 0 {
		return fmt.Errorf("%w: %d items", errMismatch, mismatches)
	}
	return nil
}
