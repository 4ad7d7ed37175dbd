package compress

import (
	"encoding/binary"
	"math"

	"github.com/openseis/javaseis/format"
)

// Int16Codec stores traces in fixed-point int16 with a per-trace scale.
//
// Each on-disk record is an 8-byte prefix {int32 scale exponent, int32
// reserved} followed by ns little-endian int16 samples. Encoding scans the
// trace for its peak absolute amplitude and picks the base-2 exponent e that
// maps the peak into the top half of the int16 range; quantized values are
// clamped to the int16 bounds, so the error of any sample stays within
// peak/32767. Decoding multiplies each sample by 2^-e.
type Int16Codec struct{}

const (
	int16PrefixLen = 8
	int16FullScale = 32766

	// Exponent clamp bounds applied on decode. A scaler outside this range
	// cannot come from the encoder and is treated as corrupt.
	minScaleExp = -126
	maxScaleExp = 127
)

// Format returns format.FormatInt16.
func (Int16Codec) Format() format.TraceFormat {
	return format.FormatInt16
}

// TraceLength returns 8 + 2*ns: scale prefix plus one int16 per sample.
func (Int16Codec) TraceLength(ns int) int {
	return int16PrefixLen + 2*ns
}

// EncodeTrace quantizes samples to int16 and writes the prefixed record.
func (Int16Codec) EncodeTrace(samples []float32, dst []byte) {
	peak := float64(0)
	for _, v := range samples {
		a := math.Abs(float64(v))
		if a > peak && !math.IsInf(a, 1) {
			peak = a
		}
	}

	e := 0
	if peak > 0 && !math.IsNaN(peak) {
		// peak = f * 2^exp with f in [0.5, 1); e = 15-exp puts peak*2^e in
		// [16384, 32768), the top half of the int16 range.
		_, exp := math.Frexp(peak)
		e = 15 - exp
		if e < minScaleExp {
			e = minScaleExp
		} else if e > maxScaleExp {
			e = maxScaleExp
		}
	}

	binary.LittleEndian.PutUint32(dst[0:4], uint32(int32(e)))
	binary.LittleEndian.PutUint32(dst[4:8], 0)

	scale := math.Ldexp(1, e)
	for i, v := range samples {
		q := math.Round(float64(v) * scale)
		if math.IsNaN(q) {
			q = 0
		} else if q > math.MaxInt16 {
			q = math.MaxInt16
		} else if q < math.MinInt16 {
			q = math.MinInt16
		}
		binary.LittleEndian.PutUint16(dst[int16PrefixLen+2*i:], uint16(int16(q)))
	}
}

// DecodeTrace reads a prefixed record and rescales samples to float32.
// An out-of-range scale exponent is clamped before use.
func (Int16Codec) DecodeTrace(src []byte, dst []float32) {
	e := int(int32(binary.LittleEndian.Uint32(src[0:4])))
	if e < minScaleExp {
		e = minScaleExp
	} else if e > maxScaleExp {
		e = maxScaleExp
	}

	scale := math.Ldexp(1, -e)
	for i := range dst {
		q := int16(binary.LittleEndian.Uint16(src[int16PrefixLen+2*i:]))
		dst[i] = float32(float64(q) * scale)
	}
}
