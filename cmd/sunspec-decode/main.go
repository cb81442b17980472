// Command sunspec-decode decodes a register dump of one SunSpec model with
// a register map written by sunspec-codegen.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/prikmeter/sunspec-go/pkg/regmap"
)

type options struct {
	mapFile string
	model   int
	verbose int
}

func (o *options) flags(flags *pflag.FlagSet) {
	flags.StringVar(&o.mapFile, "map", "regmap.cbor", "Register map written by sunspec-codegen")
	flags.IntVar(&o.model, "model", 0, "Model ID; by default the first register of the dump")
	flags.CountVarP(&o.verbose, "verbose", "v", "Increase verbosity (repeatable)")
}

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "sunspec-decode [--map FILE] [--model ID] [DUMP|-]",
		Short:         "Decodes a SunSpec model from a register dump",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(_ *cobra.Command, args []string) error {
			in := stdin
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return run(opts, in, stdout, stderr)
		},
	}
	opts.flags(cmd.Flags())
	return cmd
}

func run(opts *options, in io.Reader, stdout, stderr io.Writer) error {
	level := slog.LevelWarn
	if opts.verbose > 0 {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	m, err := regmap.Load(opts.mapFile)
	if err != nil {
		return err
	}
	logger.Debug("loaded register map", "path", opts.mapFile, "records", len(m.Records))

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading dump: %w", err)
	}
	regs, err := ParseRegisters(string(data))
	if err != nil {
		return err
	}
	if len(regs) == 0 {
		return errors.New("dump holds no registers")
	}

	id := opts.model
	if id == 0 {
		id = int(regs[0])
	} else if int(regs[0]) != id {
		logger.Warn("first register does not hold the model ID", "want", id, "got", regs[0])
	}

	rec, ok := m.Record(id)
	if !ok {
		return fmt.Errorf("model %d not in register map %s", id, opts.mapFile)
	}
	values, err := rec.Decode(regs)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "# %s (model %d)\n", rec.Name, rec.ID)
	for _, v := range values {
		fmt.Fprintln(stdout, formatValue(v))
	}
	return nil
}

// ParseRegisters reads register values separated by whitespace or commas.
// Values are decimal or 0x-prefixed hex.
func ParseRegisters(s string) ([]uint16, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	regs := make([]uint16, 0, len(fields))
	for i, f := range fields {
		var (
			v   uint64
			err error
		)
		if hex, ok := strings.CutPrefix(strings.ToLower(f), "0x"); ok {
			v, err = strconv.ParseUint(hex, 16, 16)
		} else {
			v, err = strconv.ParseUint(f, 10, 16)
		}
		if err != nil {
			return nil, fmt.Errorf("register %d: invalid value %q", i, f)
		}
		regs = append(regs, uint16(v))
	}
	return regs, nil
}

func formatValue(v regmap.Value) string {
	var s string
	switch x := v.Value.(type) {
	case string:
		s = strconv.Quote(x)
	case float32:
		s = strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		s = strconv.FormatFloat(x, 'g', -1, 64)
	default:
		s = fmt.Sprint(x)
	}
	if v.Field.Units != "" {
		s += " " + v.Field.Units
	}
	return fmt.Sprintf("%s = %s", v.Field.Name, s)
}
