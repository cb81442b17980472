package emit

import (
	"fmt"
	"strings"
	"text/template"
)

// funcMap provides helper functions available to all templates.
var funcMap = template.FuncMap{
	"decodeCall": goDecodeCall,
	"goType":     goType,
	"quote":      func(s string) string { return fmt.Sprintf("%q", s) },
}

// templates holds all parsed code generation templates.
var templates = template.Must(template.New("").Funcs(funcMap).Parse(
	fileTmpl +
		recordTmpl +
		methodTmpl,
))

// renderTemplate executes a named template into the builder.
func renderTemplate(b *strings.Builder, name string, data any) {
	if err := templates.ExecuteTemplate(b, name, data); err != nil {
		panic(fmt.Sprintf("template %s: %v", name, err))
	}
}

// --- Template definitions ---

const fileTmpl = `{{define "file" -}}
{{range .Banner}}// {{.}}
{{end}}
// Package {{.Package}} decodes SunSpec models from register blocks.
package {{.Package}}
{{if .Records}}
import (
	"fmt"

	"github.com/prikmeter/sunspec-go/pkg/decode"
)
{{end}}
{{- range .Records}}{{template "record" .}}{{end}}
{{- end}}`

const recordTmpl = `{{define "record"}}
const (
	// {{.Name}}ID is the SunSpec model ID of {{.Name}}.
	{{.Name}}ID = {{.ID}}

	// {{.Name}}Size is the number of registers of {{.Name}}, including the ID and L header.
	{{.Name}}Size = {{.Size}}
)
{{range .Doc}}
{{.}}
{{- end}}
type {{.Name}} struct {
	regs []uint16
}

// New{{.Name}} wraps a register block that starts at the ID register of
// model {{.ID}}.
func New{{.Name}}(regs []uint16) (*{{.Name}}, error) {
	if err := decode.CheckLength(regs, {{.Name}}Size); err != nil {
		return nil, fmt.Errorf("model %d (%s): %w", {{.Name}}ID, {{quote .Name}}, err)
	}
	return &{{.Name}}{regs: regs}, nil
}

// Registers returns the wrapped register block.
func (m *{{.Name}}) Registers() []uint16 { return m.regs }
{{range .Methods}}{{template "method" .}}{{end}}
{{- end}}`

const methodTmpl = `{{define "method"}}
{{- range .Doc}}
{{.}}
{{- end}}
func (m *{{.Record}}) {{.Name}}() {{goType .Accessor}} { return {{decodeCall .Accessor}} }
{{end}}`
