package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/prikmeter/sunspec-go/pkg/compiler"
)

const cppIndent = "    "

// cppKeywords are reserved in C++ and cannot name a generated method.
var cppKeywords = map[string]bool{
	"alignas": true, "alignof": true, "and": true, "and_eq": true, "asm": true,
	"auto": true, "bitand": true, "bitor": true, "bool": true, "break": true,
	"case": true, "catch": true, "char": true, "char8_t": true, "char16_t": true,
	"char32_t": true, "class": true, "co_await": true, "co_return": true,
	"co_yield": true, "compl": true, "concept": true, "const": true,
	"consteval": true, "constexpr": true, "constinit": true, "const_cast": true,
	"continue": true, "decltype": true, "default": true, "delete": true,
	"do": true, "double": true, "dynamic_cast": true, "else": true, "enum": true,
	"explicit": true, "export": true, "extern": true, "false": true,
	"float": true, "for": true, "friend": true, "goto": true, "if": true,
	"inline": true, "int": true, "long": true, "mutable": true,
	"namespace": true, "new": true, "noexcept": true, "not": true,
	"not_eq": true, "nullptr": true, "operator": true, "or": true,
	"or_eq": true, "private": true, "protected": true, "public": true,
	"register": true, "reinterpret_cast": true, "requires": true,
	"return": true, "short": true, "signed": true, "sizeof": true,
	"static": true, "static_assert": true, "static_cast": true, "struct": true,
	"switch": true, "template": true, "this": true, "thread_local": true,
	"throw": true, "true": true, "try": true, "typedef": true, "typeid": true,
	"typename": true, "union": true, "unsigned": true, "using": true,
	"virtual": true, "void": true, "volatile": true, "wchar_t": true,
	"while": true, "xor": true, "xor_eq": true,
}

// GenerateCPP produces a C++ header with one SunSpecModel class per record,
// all inside the SunSpecModels namespace.
func GenerateCPP(res *compiler.Result) string {
	var b strings.Builder

	for _, line := range bannerLines(res) {
		fmt.Fprintf(&b, "// %s\n", line)
	}
	b.WriteString("\n")
	b.WriteString("#pragma once\n\n")
	b.WriteString("#include \"SunSpecModel.h\"\n\n")
	b.WriteString("namespace SunSpecModels {\n\n")

	for i, r := range res.Records {
		if i > 0 {
			b.WriteString("\n")
		}
		writeCPPClass(&b, r)
	}

	b.WriteString("\n}\n")
	return b.String()
}

func writeCPPClass(b *strings.Builder, r *compiler.Record) {
	writeCPPDoc(b, "", r.Doc)
	fmt.Fprintf(b, "class %s : public SunSpecModel<%d, %d> {\n", r.Name, r.ID, r.Size)
	b.WriteString("  public:\n")

	names := cppMethodNames(r.Accessors)
	for i, a := range r.Accessors {
		if i > 0 {
			b.WriteString("\n")
		}
		writeCPPDoc(b, cppIndent, a.Doc)
		fmt.Fprintf(b, "%sinline %s %s() const { return %s; }\n", cppIndent, a.Target.CType, names[i], cppCall(a))
	}

	b.WriteString("\n};\n")
}

// cppMethodNames escapes accessor names that are C++ keywords with a
// trailing underscore. A name that then collides with another accessor gets
// the offset appended.
func cppMethodNames(accessors []*compiler.Accessor) []string {
	names := make([]string, len(accessors))
	counts := make(map[string]int, len(accessors))
	for i, a := range accessors {
		n := a.Name
		if cppKeywords[n] {
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

// cppCall renders the decode primitive call of an accessor. A literal
// exponent is a template argument of the primitive.
func cppCall(a *compiler.Accessor) string {
	args := make([]string, len(a.Args))
	for i, v := range a.Args {
		args[i] = strconv.Itoa(v)
	}
	fn := "parse_" + a.Type
	if a.Exponent != nil {
		fn += fmt.Sprintf("<%d>", *a.Exponent)
	}
	return fmt.Sprintf("%s(%s)", fn, strings.Join(args, ", "))
}

func writeCPPDoc(b *strings.Builder, indent, doc string) {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return
	}
	doc = strings.ReplaceAll(doc, "*/", "* /")
	fmt.Fprintf(b, "%s/**\n", indent)
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			fmt.Fprintf(b, "%s *\n", indent)
			continue
		}
		fmt.Fprintf(b, "%s * %s\n", indent, line)
	}
	fmt.Fprintf(b, "%s */\n", indent)
}
