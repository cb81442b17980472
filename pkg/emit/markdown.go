package emit

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/prikmeter/sunspec-go/pkg/compiler"
)

// GenerateMarkdown produces a register reference with one section per
// record.
func GenerateMarkdown(res *compiler.Result) string {
	var b strings.Builder

	for _, line := range bannerLines(res) {
		fmt.Fprintf(&b, "<!-- %s -->\n", line)
	}
	b.WriteString("\n# SunSpec Models\n\n")

	writeModelIndex(&b, res)
	for _, r := range res.Records {
		writeRecordSection(&b, r)
	}
	writeLeftOut(&b, res)

	return b.String()
}

func writeModelIndex(b *strings.Builder, res *compiler.Result) {
	if len(res.Records) == 0 {
		b.WriteString("No models compiled.\n\n")
		return
	}

	b.WriteString("| ID | Name | Size | Accessors |\n")
	b.WriteString("|---:|------|-----:|----------:|\n")
	for _, r := range res.Records {
		fmt.Fprintf(b, "| %d | [%s](#%s) | %d | %d |\n",
			r.ID, r.Name, anchor(r.Name), r.Size, len(r.Accessors))
	}
	b.WriteString("\n")
}

func writeRecordSection(b *strings.Builder, r *compiler.Record) {
	fmt.Fprintf(b, "## %s\n\n", r.Name)

	if doc := strings.TrimSpace(r.Doc); doc != "" {
		fmt.Fprintf(b, "> %s\n\n", cell(doc))
	}

	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(b, "| **ID** | %d |\n", r.ID)
	fmt.Fprintf(b, "| **Size** | %d |\n", r.Size)
	if r.Source != "" {
		fmt.Fprintf(b, "| **Source** | `%s` |\n", filepath.Base(r.Source))
	}
	b.WriteString("\n")

	writeAccessors(b, r)
	writeSkippedPoints(b, r)
	writeSymbols(b, r)
}

func writeAccessors(b *strings.Builder, r *compiler.Record) {
	if len(r.Accessors) == 0 {
		return
	}

	b.WriteString("### Accessors\n\n")
	b.WriteString("| Offset | Size | Point | Accessor | Type | Scale factor | Units | Description |\n")
	b.WriteString("|-------:|-----:|-------|----------|------|--------------|-------|-------------|\n")
	for _, a := range r.Accessors {
		fmt.Fprintf(b, "| %d | %d | `%s` | `%s()` | `%s` | %s | %s | %s |\n",
			a.Offset,
			a.Size,
			a.Point,
			a.Name,
			a.Type,
			scaleFactorCell(a),
			cell(a.Units),
			cell(a.Doc),
		)
	}
	b.WriteString("\n")
}

func writeSkippedPoints(b *strings.Builder, r *compiler.Record) {
	if len(r.Skipped) == 0 {
		return
	}

	b.WriteString("### Skipped points\n\n")
	b.WriteString("| Offset | Size | Point | Type | Reason |\n")
	b.WriteString("|-------:|-----:|-------|------|--------|\n")
	for _, s := range r.Skipped {
		fmt.Fprintf(b, "| %d | %d | `%s` | `%s` | %s |\n",
			s.Offset, s.Size, s.Point, s.Type, cell(s.Reason))
	}
	b.WriteString("\n")
}

func writeSymbols(b *strings.Builder, r *compiler.Record) {
	for _, a := range r.Accessors {
		if len(a.Symbols) == 0 {
			continue
		}
		fmt.Fprintf(b, "### `%s` symbols\n\n", a.Name)
		b.WriteString("| Value | Name | Description |\n")
		b.WriteString("|------:|------|-------------|\n")
		for _, s := range a.Symbols {
			desc := s.Desc
			if desc == "" {
				desc = s.Label
			}
			fmt.Fprintf(b, "| %d | `%s` | %s |\n", s.Value, s.Name, cell(desc))
		}
		b.WriteString("\n")
	}
}

// writeLeftOut lists the models that produced no section.
func writeLeftOut(b *strings.Builder, res *compiler.Result) {
	if len(res.Skipped) > 0 {
		b.WriteString("## Skipped models\n\n")
		for _, s := range res.Skipped {
			fmt.Fprintf(b, "- %s: %s\n", s.Subject, cell(s.Reason))
		}
		b.WriteString("\n")
	}
	if len(res.Failures) > 0 {
		b.WriteString("## Failed model definitions\n\n")
		for _, f := range res.Failures {
			fmt.Fprintf(b, "- `%s`: %s\n", filepath.Base(f.Path), cell(f.Err.Error()))
		}
		b.WriteString("\n")
	}
}

func scaleFactorCell(a *compiler.Accessor) string {
	if a.Exponent != nil {
		return fmt.Sprintf("10^%d", *a.Exponent)
	}
	if off, ok := a.ScaleFactorOffset(); ok {
		return fmt.Sprintf("`%s` (offset %d)", a.ScaleFactor, off)
	}
	return ""
}

// cell makes text safe for a single table cell.
func cell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(s, "|", "\\|")
}

// anchor converts a heading to its Markdown anchor ("Meter_201" -> "meter_201").
func anchor(heading string) string {
	return strings.ToLower(heading)
}
