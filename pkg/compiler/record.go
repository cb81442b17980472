package compiler

import (
	"errors"
	"fmt"

	"github.com/prikmeter/sunspec-go/pkg/modeldef"
)

// headerSize is the number of registers taken by the ID and L points that
// start every model.
const headerSize = 2

// Record is the compiled form of one model description.
type Record struct {
	// Name is synthesized from the group label, possibly suffixed with the
	// model ID to disambiguate.
	Name string
	ID   int

	// Size is the number of registers of the model including the ID and L
	// header and every skipped point.
	Size int

	Accessors []*Accessor
	Skipped   []SkippedPoint
	Doc       string

	// Source is the path of the description file, if any.
	Source string
}

// SkippedPoint is a point that takes up registers but has no accessor.
type SkippedPoint struct {
	Point  string
	Type   string
	Offset int
	Size   int
	Reason string
}

// Accessor returns the accessor compiled from the named point.
func (r *Record) Accessor(point string) (*Accessor, bool) {
	for _, a := range r.Accessors {
		if a.Point == point {
			return a, true
		}
	}
	return nil, false
}

func (r *Record) appendIDToName() {
	r.Name = fmt.Sprintf("%s_%d", r.Name, r.ID)
}

// CompileModel compiles one model description. Models with repeating
// groups yield a *SkipError; descriptions that are malformed beyond
// skipping yield an *InconsistencyError.
func CompileModel(m *modeldef.Model) (*Record, error) {
	group := &m.Group
	label := group.Label
	if label == "" {
		label = group.Name
	}
	name, nameErr := Identifier(label, true)

	if group.HasGroups() {
		subject := fmt.Sprintf("model %d", m.ID)
		if nameErr == nil {
			subject = fmt.Sprintf("model %d (%s)", m.ID, name)
		}
		return nil, skipf(subject, "repeating groups are not supported")
	}
	if nameErr != nil {
		return nil, inconsistentf(m.ID, "group label: %v", nameErr)
	}

	points := group.Points
	if err := checkHeader(m); err != nil {
		return nil, err
	}

	r := &Record{
		Name: name,
		ID:   m.ID,
		Doc:  group.Desc,
	}

	// First pass: lay out offsets, compile accessors and note where the
	// exponent points live.
	scaleFactorOffsets := make(map[string]int)
	offset := headerSize
	for _, p := range points[headerSize:] {
		if p.Size < 1 {
			return nil, inconsistentf(m.ID, "point %s has size %d", p.Name, p.Size)
		}
		curr := offset
		offset += p.Size

		a, err := CompileField(p, curr)
		if err != nil {
			var skip *SkipError
			if !errors.As(err, &skip) {
				return nil, inconsistentf(m.ID, "point %s: %v", p.Name, err)
			}
			if p.Type == ScaleFactorType {
				scaleFactorOffsets[p.Name] = curr
			}
			r.Skipped = append(r.Skipped, SkippedPoint{
				Point:  p.Name,
				Type:   p.Type,
				Offset: curr,
				Size:   p.Size,
				Reason: skip.Reason,
			})
			continue
		}
		r.Accessors = append(r.Accessors, a)
	}
	r.Size = offset

	if v, ok := points[1].IntValue(); ok && v != r.Size-headerSize {
		return nil, inconsistentf(m.ID, "length point declares %d registers, points add up to %d", v, r.Size-headerSize)
	}

	uniquifyAccessorNames(r.Accessors)

	// Second pass: exponent points may follow the points they scale.
	for _, a := range r.Accessors {
		if a.ScaleFactor == "" {
			continue
		}
		sfOffset, ok := scaleFactorOffsets[a.ScaleFactor]
		if !ok {
			return nil, inconsistentf(m.ID, "point %s refers to scale factor %q, which is not a sunssf point of this model", a.Point, a.ScaleFactor)
		}
		a.Args = append(a.Args, sfOffset)
	}

	return r, nil
}

func checkHeader(m *modeldef.Model) error {
	points := m.Group.Points
	if len(points) < headerSize {
		return inconsistentf(m.ID, "expected ID and L points, got %d points", len(points))
	}
	for i, want := range []string{"ID", "L"} {
		p := points[i]
		if p.Name != want {
			return inconsistentf(m.ID, "point %d is %q, want %q", i, p.Name, want)
		}
		if p.Size != 1 {
			return inconsistentf(m.ID, "point %s has size %d, want 1", p.Name, p.Size)
		}
	}
	if v, ok := points[0].IntValue(); ok && v != m.ID {
		return inconsistentf(m.ID, "ID point declares model %d", v)
	}
	return nil
}

// uniquifyAccessorNames appends the offset to every accessor whose name is
// shared with another accessor of the same record. Renaming repeats while a
// suffixed name collides with a name that already carried the suffix.
func uniquifyAccessorNames(accessors []*Accessor) {
	for range accessors {
		counts := make(map[string]int, len(accessors))
		for _, a := range accessors {
			counts[a.Name]++
		}
		renamed := false
		for _, a := range accessors {
			if counts[a.Name] > 1 {
				a.appendOffsetToName()
				renamed = true
			}
		}
		if !renamed {
			return
		}
	}
}
