package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/prikmeter/sunspec-go/pkg/modeldef"
)

// Accessor is one read-only accessor of a compiled record.
type Accessor struct {
	// Name is the synthesized accessor name, possibly suffixed with the
	// offset to disambiguate.
	Name string

	// Point is the name of the point the accessor was compiled from.
	Point string

	// Type is the wire type handed to the decode primitive. It carries the
	// scaled suffix for points with a scale factor.
	Type string

	// Target is the decoded scalar type.
	Target Target

	// Offset is the register offset from the start of the record, where the
	// ID register sits at offset 0.
	Offset int

	// Size is the number of registers the point occupies.
	Size int

	// Args are the decode primitive arguments: the offset, the size for
	// strings and the offset of the exponent point for referenced scale
	// factors.
	Args []int

	// Exponent is set for literal scale factors. The exponent is part of
	// the decode operation rather than of Args.
	Exponent *int

	// ScaleFactor names the exponent point of a referenced scale factor.
	ScaleFactor string

	Units   string
	Doc     string
	Symbols []modeldef.Symbol
}

// IsScaled reports whether the accessor applies a power-of-ten exponent.
func (a *Accessor) IsScaled() bool {
	return IsScaled(a.Type)
}

// Decode returns the name of the decode primitive of the unscaled value.
func (a *Accessor) Decode() string {
	return DecodeFunc(a.Type)
}

// ScaleFactorOffset returns the resolved offset of the exponent point of a
// referenced scale factor.
func (a *Accessor) ScaleFactorOffset() (int, bool) {
	if a.ScaleFactor == "" || len(a.Args) < 2 {
		return 0, false
	}
	return a.Args[len(a.Args)-1], true
}

func (a *Accessor) appendOffsetToName() {
	a.Name = fmt.Sprintf("%s_%d", a.Name, a.Offset)
}

// CompileField compiles the point stored at offset into an accessor. It
// returns a *SkipError for points that have no accessor representation.
// A referenced scale factor is recorded in ScaleFactor; appending its
// offset to Args is up to the caller once all points are known.
func CompileField(p modeldef.Point, offset int) (*Accessor, error) {
	subject := fmt.Sprintf("point %s", p.Name)
	if _, ok := Resolve(p.Type); !ok {
		if !Known(p.Type) {
			return nil, skipf(subject, "unknown type %q", p.Type)
		}
		return nil, skipf(subject, "type %q has no accessor representation", p.Type)
	}

	label := p.Label
	if label == "" {
		label = p.Name
	}
	name, err := Identifier(label, false)
	if err != nil {
		if errors.Is(err, ErrEmptyIdentifier) {
			return nil, skipf(subject, "%v", err)
		}
		return nil, err
	}

	a := &Accessor{
		Name:    name,
		Point:   p.Name,
		Type:    p.Type,
		Offset:  offset,
		Size:    p.Size,
		Args:    []int{offset},
		Units:   p.Units,
		Doc:     pointDoc(p),
		Symbols: p.Symbols,
	}
	if p.Type == "string" {
		a.Args = append(a.Args, p.Size)
	}

	if p.SF != nil {
		a.Type = ScaledType(p.Type)
		if p.SF.IsRef() {
			a.ScaleFactor = p.SF.Ref
		} else {
			exp := p.SF.Exp
			a.Exponent = &exp
		}
	}

	target, ok := Resolve(a.Type)
	if !ok {
		return nil, skipf(subject, "scaled type %q has no accessor representation", a.Type)
	}
	a.Target = target
	return a, nil
}

func pointDoc(p modeldef.Point) string {
	doc := p.Desc
	if p.Units != "" {
		doc += fmt.Sprintf(" [%s]", p.Units)
	}
	return strings.TrimSpace(doc)
}
