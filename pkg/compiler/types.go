package compiler

import "strings"

// ScaledSuffix marks a synthetic wire type whose value is paired with a
// power-of-ten exponent.
const ScaledSuffix = "_sunssf"

// ScaleFactorType is the wire type of exponent points.
const ScaleFactorType = "sunssf"

// Kind is the category of a decoded scalar.
type Kind uint8

const (
	KindInt Kind = iota
	KindUint
	KindFloat
	KindString
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Target is the scalar type an accessor decodes to.
type Target struct {
	Kind   Kind
	Bits   int
	CType  string
	GoType string
}

// String returns the Go spelling, which is also the canonical name.
func (t Target) String() string {
	return t.GoType
}

var (
	targetInt16   = &Target{KindInt, 16, "int16_t", "int16"}
	targetInt32   = &Target{KindInt, 32, "int32_t", "int32"}
	targetInt64   = &Target{KindInt, 64, "int64_t", "int64"}
	targetUint16  = &Target{KindUint, 16, "uint16_t", "uint16"}
	targetUint32  = &Target{KindUint, 32, "uint32_t", "uint32"}
	targetUint64  = &Target{KindUint, 64, "uint64_t", "uint64"}
	targetFloat32 = &Target{KindFloat, 32, "float", "float32"}
	targetFloat64 = &Target{KindFloat, 64, "double", "float64"}
	targetString  = &Target{KindString, 0, "String", "string"}
)

// wireType is one entry of the type table. A nil target marks a type that
// is known but deliberately unrepresentable.
type wireType struct {
	target *Target
	decode string
}

// typeTable maps wire type names to decoded targets and to the name of the
// decode primitive reading the raw value. Synthetic scaled types only cover
// the combinations that occur in published models.
var typeTable = map[string]wireType{
	"int16":      {targetInt16, "Int16"},
	"int32":      {targetInt32, "Int32"},
	"int64":      {targetInt64, "Int64"},
	"raw16":      {targetUint16, "Uint16"},
	"uint16":     {targetUint16, "Uint16"},
	"uint32":     {targetUint32, "Uint32"},
	"uint64":     {targetUint64, "Uint64"},
	"acc16":      {targetUint16, "Uint16"},
	"acc32":      {targetUint32, "Uint32"},
	"acc64":      {targetUint64, "Uint64"},
	"bitfield16": {targetUint16, "Uint16"},
	"bitfield32": {targetUint32, "Uint32"},
	"bitfield64": {targetUint64, "Uint64"},
	"enum16":     {targetUint16, "Uint16"},
	"enum32":     {targetUint32, "Uint32"},
	"float32":    {targetFloat32, "Float32"},
	"float64":    {targetFloat64, "Float64"},
	"string":     {targetString, "String"},
	"ipaddr":     {targetUint32, "IPAddr"},
	"eui48":      {targetUint64, "EUI48"},
	"ipv6addr":   {},
	"pad":        {},
	"sunssf":     {},

	"int16_sunssf":  {targetFloat32, "Int16"},
	"uint16_sunssf": {targetFloat32, "Uint16"},
	"uint32_sunssf": {targetFloat64, "Uint32"},
	"uint64_sunssf": {targetFloat64, "Uint64"},
	"acc32_sunssf":  {targetFloat64, "Uint32"},
}

// Resolve returns the decoded target of a wire type. It reports false for
// unrepresentable types, including types missing from the table.
func Resolve(wire string) (Target, bool) {
	wt, ok := typeTable[wire]
	if !ok || wt.target == nil {
		return Target{}, false
	}
	return *wt.target, true
}

// Known reports whether the wire type is listed in the type table at all.
func Known(wire string) bool {
	_, ok := typeTable[wire]
	return ok
}

// DecodeFunc returns the name of the decode primitive reading the raw value
// of a representable wire type. For scaled types this is the primitive of
// the unscaled base.
func DecodeFunc(wire string) string {
	return typeTable[wire].decode
}

// ScaledType returns the synthetic scaled type for a base wire type.
func ScaledType(base string) string {
	return base + ScaledSuffix
}

// IsScaled reports whether wire is a synthetic scaled type.
func IsScaled(wire string) bool {
	return strings.HasSuffix(wire, ScaledSuffix)
}
