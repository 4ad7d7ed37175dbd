// Package compress implements the on-disk trace sample codecs.
//
// Two formats are supported end-to-end: FLOAT (verbatim little-endian
// float32 samples) and COMPRESSED_INT16 (per-trace fixed-point quantization
// to int16 with an 8-byte scale prefix). The codec owns the translation
// between a frame's float32 samples and its on-disk trace records; record
// sizing feeds the extent layout and the frame codec's offset arithmetic.
package compress

import (
	"fmt"

	"github.com/openseis/javaseis/errs"
	"github.com/openseis/javaseis/format"
)

// Codec encodes and decodes one trace between its in-memory float32 samples
// and its fixed-size on-disk record.
//
// Implementations are stateless and safe for concurrent use; all scratch
// state lives in the caller's buffers.
type Codec interface {
	// Format identifies the on-disk trace format this codec produces.
	Format() format.TraceFormat

	// TraceLength returns the on-disk record size in bytes for a trace of
	// ns samples.
	TraceLength(ns int) int

	// EncodeTrace writes the on-disk record for samples into dst.
	// dst must be at least TraceLength(len(samples)) bytes.
	EncodeTrace(samples []float32, dst []byte)

	// DecodeTrace reads an on-disk record from src into dst samples.
	// src must hold at least TraceLength(len(dst)) bytes.
	DecodeTrace(src []byte, dst []float32)
}

// CreateCodec is a factory returning the codec for the given trace format.
//
// Returns:
//   - Codec: Codec instance for FLOAT or COMPRESSED_INT16.
//   - error: ErrUnknownTraceFormat for formats without end-to-end support.
func CreateCodec(f format.TraceFormat) (Codec, error) {
	switch f {
	case format.FormatFloat32:
		return FloatCodec{}, nil
	case format.FormatInt16:
		return Int16Codec{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnknownTraceFormat, f)
	}
}

// FrameLength returns the byte size of a buffer holding fold on-disk trace
// records of ns samples each, the sizing contract behind frame allocation.
func FrameLength(c Codec, ns, fold int) int {
	return c.TraceLength(ns) * fold
}
