package emit

import (
	"fmt"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/prikmeter/sunspec-go/pkg/compiler"
)

// DefaultPackage names generated Go packages whose directory name is not a
// usable package name.
const DefaultPackage = "sunspec"

// reservedMethods are taken by the generated wrapper itself.
var reservedMethods = map[string]bool{
	"Registers": true,
}

// --- Template data types ---

type goFileData struct {
	Banner  []string
	Package string
	Records []goRecordData
}

type goRecordData struct {
	Name    string
	ID      int
	Size    int
	Doc     []string
	Methods []goMethodData
}

type goMethodData struct {
	Record   string
	Name     string
	Doc      []string
	Accessor *compiler.Accessor
}

// GenerateGo produces an unformatted Go source file declaring one wrapper
// type per record, with one method per accessor calling pkg/decode.
func GenerateGo(res *compiler.Result, pkg string) string {
	data := goFileData{
		Banner:  bannerLines(res),
		Package: pkg,
	}
	names := goRecordNames(res.Records)
	for i, r := range res.Records {
		data.Records = append(data.Records, goRecord(r, names[i]))
	}

	var b strings.Builder
	renderTemplate(&b, "file", data)
	return b.String()
}

func goRecord(r *compiler.Record, name string) goRecordData {
	rd := goRecordData{
		Name: name,
		ID:   r.ID,
		Size: r.Size,
		Doc:  commentLines(fmt.Sprintf("%s decodes SunSpec model %d.", name, r.ID), r.Doc),
	}
	names := goMethodNames(r.Accessors)
	for i, a := range r.Accessors {
		head := fmt.Sprintf("%s reads point %s at offset %d.", names[i], a.Point, a.Offset)
		rd.Methods = append(rd.Methods, goMethodData{
			Record:   name,
			Name:     names[i],
			Doc:      commentLines(head, a.Doc),
			Accessor: a,
		})
	}
	return rd
}

// goRecordNames picks the Go type name of every record. A name that is not
// a usable identifier becomes Model_<id>. Each record also declares New<name>,
// <name>ID and <name>Size, so records whose declarations clash get the model
// ID appended until every package-level identifier is unique.
func goRecordNames(records []*compiler.Record) []string {
	names := make([]string, len(records))
	for i, r := range records {
		n := exportName(r.Name)
		if !token.IsIdentifier(n) || token.IsKeyword(n) || !token.IsExported(n) {
			n = fmt.Sprintf("Model_%d", r.ID)
		}
		names[i] = n
	}

	for n := len(records) + 1; n > 0; n-- {
		owners := make(map[string]map[int]bool)
		for i, n := range names {
			for _, ident := range goRecordIdents(n) {
				if owners[ident] == nil {
					owners[ident] = make(map[int]bool)
				}
				owners[ident][i] = true
			}
		}
		clash := make(map[int]bool)
		for _, set := range owners {
			if len(set) < 2 {
				continue
			}
			for i := range set {
				clash[i] = true
			}
		}
		if len(clash) == 0 {
			break
		}
		for i := range clash {
			names[i] = fmt.Sprintf("%s_%d", names[i], records[i].ID)
		}
	}
	return names
}

// goRecordIdents lists the package-level identifiers declared for a record.
func goRecordIdents(name string) []string {
	return []string{name, "New" + name, name + "ID", name + "Size"}
}

// goMethodNames exports the accessor names. Names that collide once
// exported get the offset appended, like the compiler does for accessors.
func goMethodNames(accessors []*compiler.Accessor) []string {
	names := make([]string, len(accessors))
	counts := make(map[string]int, len(accessors))
	for i, a := range accessors {
		n := exportName(a.Name)
		if reservedMethods[n] {
			n += "_"
		}
		names[i] = n
		counts[n]++
	}
	for i, a := range accessors {
		if counts[names[i]] > 1 {
			names[i] = fmt.Sprintf("%s_%d", names[i], a.Offset)
		}
	}
	return names
}

func exportName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func goType(a *compiler.Accessor) string {
	return a.Target.GoType
}

// goDecodeCall renders the pkg/decode call of an accessor on receiver m.
func goDecodeCall(a *compiler.Accessor) string {
	fn := a.Decode()
	if a.Exponent != nil {
		return fmt.Sprintf("decode.%sExp(m.regs, %d, %d)", fn, a.Offset, *a.Exponent)
	}
	if sfOff, ok := a.ScaleFactorOffset(); ok {
		return fmt.Sprintf("decode.%sSF(m.regs, %d, %d)", fn, a.Offset, sfOff)
	}
	args := []string{"m.regs"}
	for _, v := range a.Args {
		args = append(args, strconv.Itoa(v))
	}
	return fmt.Sprintf("decode.%s(%s)", fn, strings.Join(args, ", "))
}

// commentLines renders a Go comment: the head line, then the description
// as a separate paragraph.
func commentLines(head, doc string) []string {
	lines := []string{"// " + head}
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return lines
	}
	lines = append(lines, "//")
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			lines = append(lines, "//")
			continue
		}
		lines = append(lines, "// "+line)
	}
	return lines
}

// PackageName derives the Go package name from the directory of the output
// file, falling back to DefaultPackage.
func PackageName(path string) string {
	dir := filepath.Base(filepath.Dir(path))
	var b strings.Builder
	for _, r := range strings.ToLower(dir) {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if !token.IsIdentifier(name) || token.IsKeyword(name) || name == "_" {
		return DefaultPackage
	}
	return name
}
