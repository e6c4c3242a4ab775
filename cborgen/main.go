package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/m-2k/wire-webapp-cbor/cborgen/core"
)

// CLI defines the cborgen command-line interface.
//
// gen is the default command, so "cborgen -i file.go" keeps working.
type CLI struct {
	Verbose bool `short:"v" help:"Enable verbose diagnostics" env:"CBORGEN_VERBOSE"`

	Gen  GenCmd  `cmd:"" default:"withargs" help:"Generate EncodeCBOR/DecodeCBOR methods for Go structs."`
	Diag DiagCmd `cmd:"" help:"Print CBOR items in diagnostic notation."`
}

// GenCmd generates companion "*_cbor.go" files.
//
// In directory mode, each source file gets its own
// "*_cbor.go" companion file (recursive) and the --output flag is rejected.
type GenCmd struct {
	Input   string   `short:"i" help:"Input Go file or directory (recursive)" default:"."`
	Output  string   `short:"o" help:"Output file (file input only; defaults to {input}_cbor.go)"`
	Structs []string `short:"s" help:"Only generate for these struct types (may be repeated)"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("cborgen"),
		kong.Description("Generate schedule-driven CBOR encoders/decoders and inspect CBOR data."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(newLogger(cli.Verbose)))
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Run implements the gen command.
func (c *GenCmd) Run(logger *slog.Logger) error {
	input := strings.TrimSpace(c.Input)
	if input == "" {
		input = "."
	}

	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	opts := core.Options{Structs: c.Structs, Logger: logger}

	if info.IsDir() {
		if c.Output != "" {
			return errors.New("--output is not allowed when input is a directory")
		}
		return runForDir(input, opts)
	}

	// Single-file mode.
	out := c.Output
	if strings.TrimSpace(out) == "" {
		out = defaultOutputPath(input)
	}
	return core.Run(input, out, opts)
}

// runForDir walks a directory tree and generates a companion
// "*_cbor.go" file for each eligible Go source file.
func runForDir(dir string, opts core.Options) error {
	return filepath.WalkDir(dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %q: %w", path, err)
		}
		if entry.IsDir() {
			return nil
		}

		name := entry.Name()
		if !strings.HasSuffix(name, ".go") {
			return nil
		}
		if strings.HasSuffix(name, "_test.go") || strings.HasSuffix(name, "_cbor.go") {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			// If we can't stat a file, treat it as fatal
			// to avoid silently skipping sources.
			return fmt.Errorf("stat %q: %w", path, err)
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		return core.Run(path, defaultOutputPath(path), opts)
	})
}

// defaultOutputPath derives the "*_cbor.go" filename for
// a given input Go file path.
func defaultOutputPath(inputPath string) string {
	dir := filepath.Dir(inputPath)
	base := filepath.Base(inputPath)
	if !strings.HasSuffix(base, ".go") {
		return filepath.Join(dir, base+"_cbor.go")
	}
	name := strings.TrimSuffix(base, ".go") + "_cbor.go"
	return filepath.Join(dir, name)
}
