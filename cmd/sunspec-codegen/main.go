// Command sunspec-codegen compiles SunSpec model definitions into read-only
// accessor code.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/prikmeter/sunspec-go/pkg/compiler"
	"github.com/prikmeter/sunspec-go/pkg/emit"
	"github.com/prikmeter/sunspec-go/pkg/modeldef"
)

const (
	defaultModelsDir = "models/json"
	defaultOutFile   = "src/SunSpecModels.h"
)

type options struct {
	modelsDir string
	outFile   string
	verbose   int
}

func (o *options) flags(flags *pflag.FlagSet) {
	flags.StringVar(&o.modelsDir, "models-dir", defaultModelsDir, "Directory holding the model_*.json (or .yaml) definitions")
	flags.StringVar(&o.outFile, "out-file", defaultOutFile, "File to write; the extension selects C++ (.h, .hpp), Go (.go), Markdown (.md) or a register map (.cbor)")
	flags.CountVarP(&o.verbose, "verbose", "v", "Increase verbosity (repeatable)")
}

func main() {
	if err := newRootCmd(os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "sunspec-codegen [--models-dir DIR] [--out-file FILE] [-v...]",
		Short:         "Generates read-only accessors from SunSpec model definitions",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(opts, stderr)
		},
	}
	opts.flags(cmd.Flags())
	return cmd
}

// levelFor maps the -v count to a log level: errors only by default, then
// warnings, info and debug.
func levelFor(verbose int) slog.Level {
	switch {
	case verbose <= 0:
		return slog.LevelError
	case verbose == 1:
		return slog.LevelWarn
	case verbose == 2:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

func run(opts *options, stderr io.Writer) error {
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: levelFor(opts.verbose)}))

	if _, err := emit.FormatForPath(opts.outFile); err != nil {
		return err
	}

	paths, err := modeldef.Discover(opts.modelsDir)
	if err != nil {
		return fmt.Errorf("discovering model definitions: %w", err)
	}
	if len(paths) == 0 {
		logger.Warn("no model definitions found", "dir", opts.modelsDir)
	}

	res := compiler.New(logger).CompileFiles(paths)

	// Whatever compiled is written even if some definitions failed.
	if err := emit.Write(opts.outFile, res); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	logger.Info("wrote output",
		"path", opts.outFile,
		"records", len(res.Records),
		"digest", res.DigestHex(),
	)

	return res.Err()
}
