package compress

import (
	"encoding/binary"
	"math"

	"github.com/openseis/javaseis/format"
)

// FloatCodec stores trace samples verbatim as little-endian float32.
// Bulk trace bytes are always little-endian regardless of the dataset's
// declared header byte order.
type FloatCodec struct{}

// Format returns format.FormatFloat32.
func (FloatCodec) Format() format.TraceFormat {
	return format.FormatFloat32
}

// TraceLength returns 4*ns: one float32 per sample, no prefix.
func (FloatCodec) TraceLength(ns int) int {
	return 4 * ns
}

// EncodeTrace writes each sample as little-endian float32 bits.
func (FloatCodec) EncodeTrace(samples []float32, dst []byte) {
	for i, v := range samples {
		binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(v))
	}
}

// DecodeTrace reads little-endian float32 bits into dst.
func (FloatCodec) DecodeTrace(src []byte, dst []float32) {
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[4*i:]))
	}
}
