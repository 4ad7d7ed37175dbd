package props

import (
	"fmt"
	"sort"

	"github.com/openseis/javaseis/endian"
	"github.com/openseis/javaseis/errs"
)

// Schema is the ordered set of trace properties partitioning the header
// record, bound to the endian engine of the owning dataset.
//
// Invariants, validated on Load and guaranteed by Build:
//   - byte ranges of distinct properties are disjoint
//   - their union is the contiguous range [0, Length())
type Schema struct {
	engine endian.EndianEngine
	props  []Property
	index  map[string]int
	length int
}

// Build constructs a schema from groups of definitions in order, assigning
// each property the running byte offset. Duplicate labels (by exact match)
// are kept once, first occurrence wins; this is how the stock set, user
// properties and per-axis properties merge without collisions.
func Build(engine endian.EndianEngine, groups ...[]Def) *Schema {
	s := &Schema{
		engine: engine,
		index:  make(map[string]int),
	}

	for _, group := range groups {
		for _, def := range group {
			if _, dup := s.index[def.Label]; dup {
				continue
			}

			s.index[def.Label] = len(s.props)
			s.props = append(s.props, Property{Def: def, ByteOffset: s.length})
			s.length += def.SizeBytes()
		}
	}

	return s
}

// Load constructs a schema from properties with explicit byte offsets, as
// declared in FileProperties.xml, and validates the partition invariants.
func Load(engine endian.EndianEngine, properties []Property) (*Schema, error) {
	s := &Schema{
		engine: engine,
		props:  make([]Property, len(properties)),
		index:  make(map[string]int),
	}
	copy(s.props, properties)

	sort.SliceStable(s.props, func(i, j int) bool {
		return s.props[i].ByteOffset < s.props[j].ByteOffset
	})

	offset := 0
	for i, p := range s.props {
		if _, dup := s.index[p.Label]; dup {
			return nil, errs.Malformedf("duplicate trace property %q", p.Label)
		}
		if p.ByteOffset != offset {
			return nil, errs.Malformedf("trace property %q at offset %d, want %d", p.Label, p.ByteOffset, offset)
		}
		if p.Count < 1 || p.Format.Size() == 0 {
			return nil, errs.Malformedf("trace property %q has invalid format or element count", p.Label)
		}

		s.index[p.Label] = i
		offset += p.SizeBytes()
	}
	s.length = offset

	return s, nil
}

// Engine returns the endian engine header fields are coded with.
func (s *Schema) Engine() endian.EndianEngine {
	return s.engine
}

// Length returns the header record length in bytes.
func (s *Schema) Length() int {
	return s.length
}

// Properties returns the properties in byte-offset order.
func (s *Schema) Properties() []Property {
	out := make([]Property, len(s.props))
	copy(out, s.props)

	return out
}

// Defs returns the property definitions in byte-offset order, for rebuilding
// an edited schema.
func (s *Schema) Defs() []Def {
	out := make([]Def, len(s.props))
	for i, p := range s.props {
		out[i] = p.Def
	}

	return out
}

// Lookup returns the property with the given label.
func (s *Schema) Lookup(label string) (Property, error) {
	i, ok := s.index[label]
	if !ok {
		return Property{}, fmt.Errorf("%w: %q", errs.ErrPropertyNotFound, label)
	}

	return s.props[i], nil
}

// Has reports whether a property with the given label exists.
func (s *Schema) Has(label string) bool {
	_, ok := s.index[label]
	return ok
}

// HeaderSlice returns the byte range of trace i (1-based) within a frame's
// header block.
func (s *Schema) HeaderSlice(block []byte, i int) []byte {
	return block[(i-1)*s.length : i*s.length]
}

// RemoveDefs returns defs minus every definition whose label appears in rm.
// Removal is an exact set difference: labels in rm without a match are
// ignored.
func RemoveDefs(defs []Def, rm []string) []Def {
	drop := make(map[string]struct{}, len(rm))
	for _, label := range rm {
		drop[label] = struct{}{}
	}

	out := make([]Def, 0, len(defs))
	for _, d := range defs {
		if _, gone := drop[d.Label]; gone {
			continue
		}
		out = append(out, d)
	}

	return out
}
