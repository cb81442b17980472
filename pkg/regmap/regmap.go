// Package regmap provides a machine-readable register map of compiled
// SunSpec models and decodes register blocks with it, without generated
// code.
package regmap

import (
	"fmt"

	"github.com/prikmeter/sunspec-go/pkg/compiler"
	"github.com/prikmeter/sunspec-go/pkg/decode"
)

// FormatVersion is the current version of the register map format.
const FormatVersion = 1

// Map is the register map of a set of compiled models.
type Map struct {
	Version int      `cbor:"1,keyasint"`
	Sources int      `cbor:"2,keyasint"`
	Digest  []byte   `cbor:"3,keyasint,omitempty"`
	Records []Record `cbor:"4,keyasint"`
}

// Record is the register layout of one model.
type Record struct {
	ID     int     `cbor:"1,keyasint"`
	Name   string  `cbor:"2,keyasint"`
	Size   int     `cbor:"3,keyasint"`
	Doc    string  `cbor:"4,keyasint,omitempty"`
	Fields []Field `cbor:"5,keyasint"`
}

// Field is one decodable point of a model.
type Field struct {
	Name   string `cbor:"1,keyasint"`
	Point  string `cbor:"2,keyasint"`
	Type   string `cbor:"3,keyasint"`
	Decode string `cbor:"4,keyasint"`
	Offset int    `cbor:"5,keyasint"`
	Size   int    `cbor:"6,keyasint"`

	// SFOffset is the offset of the exponent point of a referenced scale
	// factor.
	SFOffset *int `cbor:"7,keyasint,omitempty"`

	// Exponent is a literal scale factor.
	Exponent *int `cbor:"8,keyasint,omitempty"`

	Units string `cbor:"9,keyasint,omitempty"`
	Doc   string `cbor:"10,keyasint,omitempty"`
}

// Scaled reports whether the field applies a power-of-ten exponent.
func (f *Field) Scaled() bool {
	return f.SFOffset != nil || f.Exponent != nil
}

// Value is a decoded field.
type Value struct {
	Field *Field
	Value any
}

// FromResult builds the register map of a compile result.
func FromResult(res *compiler.Result) *Map {
	m := &Map{
		Version: FormatVersion,
		Sources: res.Sources,
		Digest:  append([]byte(nil), res.Digest[:]...),
		Records: make([]Record, 0, len(res.Records)),
	}
	for _, r := range res.Records {
		m.Records = append(m.Records, FromRecord(r))
	}
	return m
}

// FromRecord builds the register layout of one compiled record.
func FromRecord(r *compiler.Record) Record {
	rec := Record{
		ID:     r.ID,
		Name:   r.Name,
		Size:   r.Size,
		Doc:    r.Doc,
		Fields: make([]Field, 0, len(r.Accessors)),
	}
	for _, a := range r.Accessors {
		f := Field{
			Name:     a.Name,
			Point:    a.Point,
			Type:     a.Type,
			Decode:   a.Decode(),
			Offset:   a.Offset,
			Size:     a.Size,
			Exponent: a.Exponent,
			Units:    a.Units,
			Doc:      a.Doc,
		}
		if off, ok := a.ScaleFactorOffset(); ok {
			f.SFOffset = &off
		}
		rec.Fields = append(rec.Fields, f)
	}
	return rec
}

// Record returns the layout of the model with the given ID.
func (m *Map) Record(id int) (*Record, bool) {
	for i := range m.Records {
		if m.Records[i].ID == id {
			return &m.Records[i], true
		}
	}
	return nil, false
}

// Field returns the field compiled from the named point.
func (r *Record) Field(point string) (*Field, bool) {
	for i := range r.Fields {
		if r.Fields[i].Point == point {
			return &r.Fields[i], true
		}
	}
	return nil, false
}

// Decode decodes every field of the model from a register block starting
// at the model's ID register.
func (r *Record) Decode(regs []uint16) ([]Value, error) {
	if err := decode.CheckLength(regs, r.Size); err != nil {
		return nil, fmt.Errorf("model %d: %w", r.ID, err)
	}
	values := make([]Value, 0, len(r.Fields))
	for i := range r.Fields {
		f := &r.Fields[i]
		v, err := f.decode(regs)
		if err != nil {
			return nil, fmt.Errorf("model %d: %w", r.ID, err)
		}
		values = append(values, Value{Field: f, Value: v})
	}
	return values, nil
}

func (f *Field) decode(regs []uint16) (any, error) {
	if f.Scaled() {
		var exp int
		if f.Exponent != nil {
			exp = *f.Exponent
		} else {
			exp = decode.Exponent(regs, *f.SFOffset)
		}
		switch f.Decode {
		case "Int16":
			return decode.Int16Exp(regs, f.Offset, exp), nil
		case "Uint16":
			return decode.Uint16Exp(regs, f.Offset, exp), nil
		case "Uint32":
			return decode.Uint32Exp(regs, f.Offset, exp), nil
		case "Uint64":
			return decode.Uint64Exp(regs, f.Offset, exp), nil
		}
		return nil, fmt.Errorf("field %s: no scaled decoder for %s", f.Name, f.Decode)
	}

	switch f.Decode {
	case "Int16":
		return decode.Int16(regs, f.Offset), nil
	case "Int32":
		return decode.Int32(regs, f.Offset), nil
	case "Int64":
		return decode.Int64(regs, f.Offset), nil
	case "Uint16":
		return decode.Uint16(regs, f.Offset), nil
	case "Uint32":
		return decode.Uint32(regs, f.Offset), nil
	case "Uint64":
		return decode.Uint64(regs, f.Offset), nil
	case "Float32":
		return decode.Float32(regs, f.Offset), nil
	case "Float64":
		return decode.Float64(regs, f.Offset), nil
	case "String":
		return decode.String(regs, f.Offset, f.Size), nil
	case "IPAddr":
		return decode.IPAddr(regs, f.Offset), nil
	case "EUI48":
		return decode.EUI48(regs, f.Offset), nil
	}
	return nil, fmt.Errorf("field %s: no decoder for %s", f.Name, f.Decode)
}
