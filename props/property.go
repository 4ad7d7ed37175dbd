// Package props models JavaSeis trace properties: the typed header fields
// stored at fixed byte offsets in every trace's header record.
//
// A Def describes a property (label, scalar format, element count); a
// Property binds a Def to its byte offset inside the header record; a Schema
// is the ordered, non-overlapping set of properties covering the whole
// record, together with typed accessors that read and write fields in a raw
// header byte buffer through the dataset's endian engine.
package props

import (
	"github.com/openseis/javaseis/errs"
)

// Format is the scalar type of a trace property.
type Format uint8

const (
	FormatInt16      Format = 0x1 // FormatInt16 represents "SHORT" (2 bytes).
	FormatInt32      Format = 0x2 // FormatInt32 represents "INTEGER" (4 bytes).
	FormatInt64      Format = 0x3 // FormatInt64 represents "LONG" (8 bytes).
	FormatFloat32    Format = 0x4 // FormatFloat32 represents "FLOAT" (4 bytes).
	FormatFloat64    Format = 0x5 // FormatFloat64 represents "DOUBLE" (8 bytes).
	FormatByteString Format = 0x6 // FormatByteString represents "BYTESTRING" (1 byte per element).
)

// Size returns the size in bytes of one scalar element.
func (f Format) Size() int {
	switch f {
	case FormatInt16:
		return 2
	case FormatInt32, FormatFloat32:
		return 4
	case FormatInt64, FormatFloat64:
		return 8
	case FormatByteString:
		return 1
	default:
		return 0
	}
}

func (f Format) String() string {
	switch f {
	case FormatInt16:
		return "SHORT"
	case FormatInt32:
		return "INTEGER"
	case FormatInt64:
		return "LONG"
	case FormatFloat32:
		return "FLOAT"
	case FormatFloat64:
		return "DOUBLE"
	case FormatByteString:
		return "BYTESTRING"
	default:
		return "Unknown"
	}
}

// IsInteger reports whether the format is a signed integer type, the
// requirement for axis-backing properties.
func (f Format) IsInteger() bool {
	return f == FormatInt16 || f == FormatInt32 || f == FormatInt64
}

// ParseFormat maps an on-disk property format name to its enum value.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "SHORT":
		return FormatInt16, nil
	case "INTEGER":
		return FormatInt32, nil
	case "LONG":
		return FormatInt64, nil
	case "FLOAT":
		return FormatFloat32, nil
	case "DOUBLE":
		return FormatFloat64, nil
	case "BYTESTRING":
		return FormatByteString, nil
	default:
		return 0, errs.Malformedf("unknown property format %q", name)
	}
}

// Def describes a trace property independent of its position in the header.
type Def struct {
	Label       string
	Description string
	Format      Format
	Count       int
}

// SizeBytes returns the total byte footprint of the property.
func (d Def) SizeBytes() int {
	return d.Format.Size() * d.Count
}

// Property is a Def placed at a byte offset inside the header record.
// Two properties are equal iff their labels are equal.
type Property struct {
	Def
	ByteOffset int
}
