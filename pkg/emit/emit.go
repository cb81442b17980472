// Package emit serializes compiled SunSpec records into source code,
// documentation or a register map.
package emit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/prikmeter/sunspec-go/pkg/compiler"
	"github.com/prikmeter/sunspec-go/pkg/regmap"
)

// Format is an output format.
type Format uint8

const (
	FormatCPP Format = iota
	FormatGo
	FormatMarkdown
	FormatRegmap
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatCPP:
		return "c++"
	case FormatGo:
		return "go"
	case FormatMarkdown:
		return "markdown"
	case FormatRegmap:
		return "regmap"
	default:
		return "unknown"
	}
}

// FormatForPath picks the output format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".h", ".hpp":
		return FormatCPP, nil
	case ".go":
		return FormatGo, nil
	case ".md":
		return FormatMarkdown, nil
	case ".cbor":
		return FormatRegmap, nil
	default:
		return 0, fmt.Errorf("no output format for %q (want .h, .hpp, .go, .md or .cbor)", filepath.Base(path))
	}
}

// Render produces the output for path in format f. For Go output the
// package is named after the directory of path and the result is left
// unformatted.
func Render(f Format, res *compiler.Result, path string) ([]byte, error) {
	switch f {
	case FormatCPP:
		return []byte(GenerateCPP(res)), nil
	case FormatGo:
		return []byte(GenerateGo(res, PackageName(path))), nil
	case FormatMarkdown:
		return []byte(GenerateMarkdown(res)), nil
	case FormatRegmap:
		return regmap.Marshal(regmap.FromResult(res))
	default:
		return nil, fmt.Errorf("unsupported output format %s", f)
	}
}

// Write renders res in the format matching the extension of path and
// overwrites path with it. Missing parent directories are created.
func Write(path string, res *compiler.Result) error {
	f, err := FormatForPath(path)
	if err != nil {
		return err
	}
	out, err := Render(f, res, path)
	if err != nil {
		return fmt.Errorf("rendering %s output: %w", f, err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	if f == FormatGo {
		return writeFormatted(path, out)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// writeFormatted formats Go source code with goimports and writes it to a file.
func writeFormatted(path string, code []byte) error {
	formatted, err := formatGo(path, code)
	if err != nil {
		// Write unformatted so you can debug the generator output
		_ = os.WriteFile(path+".broken", code, 0o644)
		return fmt.Errorf("goimports %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, formatted, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// formatGo runs goimports in format-only mode. The generated file lists
// its imports, so no package resolution is needed.
func formatGo(path string, code []byte) ([]byte, error) {
	return imports.Process(path, code, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
}

// bannerLines are the generated-code notice shared by the textual outputs.
func bannerLines(res *compiler.Result) []string {
	return []string{
		fmt.Sprintf("Code generated by sunspec-codegen from %d model definitions. DO NOT EDIT.", res.Sources),
		fmt.Sprintf("Source digest (BLAKE2b-256): %s", res.DigestHex()),
	}
}
