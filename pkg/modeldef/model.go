// Package modeldef provides the parsing types and functions for SunSpec
// model description files. Models are published as JSON; YAML renditions
// of the same shape are accepted as well.
package modeldef

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a model description file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatForPath returns the format implied by a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("unsupported model file extension %q", filepath.Ext(path))
	}
}

// Model represents one SunSpec model description.
type Model struct {
	ID    int   `json:"id" yaml:"id"`
	Group Group `json:"group" yaml:"group"`
}

// Group represents the top-level point group of a model. Nested groups
// describe repeating blocks.
type Group struct {
	Name   string  `json:"name" yaml:"name"`
	Label  string  `json:"label,omitempty" yaml:"label,omitempty"`
	Desc   string  `json:"desc,omitempty" yaml:"desc,omitempty"`
	Type   string  `json:"type,omitempty" yaml:"type,omitempty"`
	Count  any     `json:"count,omitempty" yaml:"count,omitempty"`
	Points []Point `json:"points" yaml:"points"`
	Groups []Group `json:"groups,omitempty" yaml:"groups,omitempty"`

	// groupsKey is set when the parsed document has a groups key, even a
	// null one.
	groupsKey bool
}

// HasGroups reports whether the group declares nested groups at all, even
// an empty or null list.
func (g *Group) HasGroups() bool {
	return g.groupsKey || g.Groups != nil
}

type rawGroup Group

// UnmarshalJSON decodes a group and notes whether it has a groups key.
func (g *Group) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, (*rawGroup)(g)); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, g.groupsKey = keys["groups"]
	return nil
}

// UnmarshalYAML decodes a group and notes whether it has a groups key.
func (g *Group) UnmarshalYAML(value *yaml.Node) error {
	if err := value.Decode((*rawGroup)(g)); err != nil {
		return err
	}
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			if value.Content[i].Value == "groups" {
				g.groupsKey = true
			}
		}
	}
	return nil
}

// Point represents a single field of a model.
type Point struct {
	Name      string       `json:"name" yaml:"name"`
	Label     string       `json:"label,omitempty" yaml:"label,omitempty"`
	Desc      string       `json:"desc,omitempty" yaml:"desc,omitempty"`
	Units     string       `json:"units,omitempty" yaml:"units,omitempty"`
	Type      string       `json:"type" yaml:"type"`
	Size      int          `json:"size" yaml:"size"`
	SF        *ScaleFactor `json:"sf,omitempty" yaml:"sf,omitempty"`
	Value     any          `json:"value,omitempty" yaml:"value,omitempty"`
	Access    string       `json:"access,omitempty" yaml:"access,omitempty"`       // "R", "RW"
	Mandatory string       `json:"mandatory,omitempty" yaml:"mandatory,omitempty"` // "M", "O"
	Static    string       `json:"static,omitempty" yaml:"static,omitempty"`       // "S", "D"
	Symbols   []Symbol     `json:"symbols,omitempty" yaml:"symbols,omitempty"`
}

// IntValue returns the point's fixed value if it has an integral one.
func (p *Point) IntValue() (int, bool) {
	switch v := p.Value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n), true
		}
	}
	return 0, false
}

// Symbol represents a named value of an enumerated or bitfield point.
type Symbol struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Desc  string `json:"desc,omitempty" yaml:"desc,omitempty"`
}

// Parse parses a model description in the given format.
func Parse(data []byte, format Format) (*Model, error) {
	var m Model
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("parsing model json: %w", err)
		}
		if _, err := dec.Token(); err != io.EOF {
			return nil, fmt.Errorf("parsing model json: trailing data after model object")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parsing model yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown model format %d", format)
	}
	if m.Group.Name == "" && len(m.Group.Points) == 0 {
		return nil, fmt.Errorf("model definition missing group")
	}
	return &m, nil
}

// Load loads and parses a model description from a file, choosing the
// format from the file extension. The file contents are returned whenever
// the file could be read, even if it does not parse.
func Load(path string) (*Model, []byte, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	m, err := Parse(data, format)
	if err != nil {
		return nil, data, err
	}
	return m, data, nil
}
