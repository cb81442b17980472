package modeldef

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ScaleFactor is the "sf" member of a point: either a literal power-of-ten
// exponent or the name of a sunssf point in the same model that holds the
// exponent at runtime.
type ScaleFactor struct {
	// Ref names the sunssf point. Empty for literal scale factors.
	Ref string

	// Exp is the literal exponent. Only meaningful when Ref is empty.
	Exp int
}

// SFRef returns a scale factor referring to the named point.
func SFRef(name string) *ScaleFactor {
	return &ScaleFactor{Ref: name}
}

// SFExp returns a literal scale factor.
func SFExp(exp int) *ScaleFactor {
	return &ScaleFactor{Exp: exp}
}

// IsRef reports whether the scale factor refers to another point.
func (sf *ScaleFactor) IsRef() bool {
	return sf.Ref != ""
}

// String returns the reference name or the literal exponent.
func (sf *ScaleFactor) String() string {
	if sf.IsRef() {
		return sf.Ref
	}
	return strconv.Itoa(sf.Exp)
}

// UnmarshalJSON accepts a string reference or an integer literal.
func (sf *ScaleFactor) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var ref string
		if err := json.Unmarshal(data, &ref); err != nil {
			return err
		}
		return sf.setRef(ref)
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("sf: expected point name or integer, got %s", data)
	}
	exp, err := strconv.Atoi(n.String())
	if err != nil {
		return fmt.Errorf("sf: literal %s is not an integer", n)
	}
	*sf = ScaleFactor{Exp: exp}
	return nil
}

// MarshalJSON writes the reference as a string and literals as numbers.
func (sf ScaleFactor) MarshalJSON() ([]byte, error) {
	if sf.Ref != "" {
		return json.Marshal(sf.Ref)
	}
	return json.Marshal(sf.Exp)
}

// UnmarshalYAML accepts a string reference or an integer literal.
func (sf *ScaleFactor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("sf: line %d: expected scalar", value.Line)
	}
	switch value.ShortTag() {
	case "!!int":
		var exp int
		if err := value.Decode(&exp); err != nil {
			return fmt.Errorf("sf: line %d: %w", value.Line, err)
		}
		*sf = ScaleFactor{Exp: exp}
		return nil
	case "!!str":
		return sf.setRef(value.Value)
	default:
		return fmt.Errorf("sf: line %d: expected point name or integer, got %s", value.Line, value.ShortTag())
	}
}

func (sf *ScaleFactor) setRef(ref string) error {
	if ref == "" {
		return fmt.Errorf("sf: empty point reference")
	}
	*sf = ScaleFactor{Ref: ref}
	return nil
}
