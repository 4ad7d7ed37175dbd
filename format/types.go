// Package format defines the enumerated on-disk format identifiers of a
// JavaSeis dataset: the trace sample format, the declared byte order, the
// dataset data type, and the trace type codes carried in the TRC_TYPE header.
package format

import "github.com/openseis/javaseis/errs"

type (
	TraceFormat uint8
	ByteOrder   uint8
	TraceType   int32
)

const (
	FormatFloat32 TraceFormat = 0x1 // FormatFloat32 represents uncompressed float32 traces ("FLOAT").
	FormatFloat64 TraceFormat = 0x2 // FormatFloat64 represents float64 traces ("DOUBLE"), metadata-only.
	FormatInt16   TraceFormat = 0x3 // FormatInt16 represents fixed-point int16 traces ("COMPRESSED_INT16").
	FormatInt32   TraceFormat = 0x4 // FormatInt32 represents fixed-point int32 traces ("COMPRESSED_INT32"), metadata-only.

	LittleEndian ByteOrder = 0x1 // LittleEndian represents "LITTLE_ENDIAN" numeric fields.
	BigEndian    ByteOrder = 0x2 // BigEndian represents "BIG_ENDIAN" numeric fields.

	TraceLive TraceType = 1 // TraceLive marks a trace carrying valid samples.
	TraceDead TraceType = 2 // TraceDead marks an empty trace slot.
	TraceAux  TraceType = 3 // TraceAux marks an auxiliary (non-seismic) trace.
)

// Stock data type identifiers accepted in the DataType metadata field.
const (
	DataTypeCMP       = "CMP"
	DataTypeShots     = "SHOTS"
	DataTypeStack     = "STACK"
	DataTypeOffsetBin = "OFFSET_BIN"
	DataTypeReceiver  = "RECEIVER"
	DataTypeCustom    = "CUSTOM"
	DataTypeUnknown   = "UNKNOWN"
)

// Unknown is the placeholder emitted for unspecified axis units and domains.
const Unknown = "unknown"

func (f TraceFormat) String() string {
	switch f {
	case FormatFloat32:
		return "FLOAT"
	case FormatFloat64:
		return "DOUBLE"
	case FormatInt16:
		return "COMPRESSED_INT16"
	case FormatInt32:
		return "COMPRESSED_INT32"
	default:
		return "Unknown"
	}
}

// ParseTraceFormat maps an on-disk TraceFormat string to its enum value.
//
// Returns:
//   - TraceFormat: Parsed format.
//   - error: ErrMalformedMetadata if the name is not a known format string.
func ParseTraceFormat(name string) (TraceFormat, error) {
	switch name {
	case "FLOAT":
		return FormatFloat32, nil
	case "DOUBLE":
		return FormatFloat64, nil
	case "COMPRESSED_INT16":
		return FormatInt16, nil
	case "COMPRESSED_INT32":
		return FormatInt32, nil
	default:
		return 0, errs.Malformedf("unknown trace format %q", name)
	}
}

// Writable reports whether the codec supports this format end-to-end.
// DOUBLE and COMPRESSED_INT32 are parseable for metadata inspection only.
func (f TraceFormat) Writable() bool {
	return f == FormatFloat32 || f == FormatInt16
}

func (o ByteOrder) String() string {
	switch o {
	case LittleEndian:
		return "LITTLE_ENDIAN"
	case BigEndian:
		return "BIG_ENDIAN"
	default:
		return "Unknown"
	}
}

// ParseByteOrder maps an on-disk ByteOrder string to its enum value.
func ParseByteOrder(name string) (ByteOrder, error) {
	switch name {
	case "LITTLE_ENDIAN":
		return LittleEndian, nil
	case "BIG_ENDIAN":
		return BigEndian, nil
	default:
		return 0, errs.Malformedf("unknown byte order %q", name)
	}
}

func (t TraceType) String() string {
	switch t {
	case TraceLive:
		return "Live"
	case TraceDead:
		return "Dead"
	case TraceAux:
		return "Aux"
	default:
		return "Unknown"
	}
}
