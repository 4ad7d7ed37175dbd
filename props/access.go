package props

import (
	"bytes"
	"math"

	"github.com/openseis/javaseis/errs"
)

// Typed field accessors over a raw header record.
//
// The scalar Get/Set pairs convert between the caller's value and the
// property's declared on-disk format; GetValue/SetValue handle vectors and
// byte strings. hdr must be a single header record of at least Length()
// bytes, typically obtained with HeaderSlice.

// GetInt returns a scalar property's value as int64, whatever its declared
// integer or float format.
func (s *Schema) GetInt(hdr []byte, label string) (int64, error) {
	p, err := s.Lookup(label)
	if err != nil {
		return 0, err
	}

	switch p.Format {
	case FormatInt16:
		return int64(int16(s.engine.Uint16(hdr[p.ByteOffset:]))), nil
	case FormatInt32:
		return int64(int32(s.engine.Uint32(hdr[p.ByteOffset:]))), nil
	case FormatInt64:
		return int64(s.engine.Uint64(hdr[p.ByteOffset:])), nil
	case FormatFloat32:
		return int64(math.Float32frombits(s.engine.Uint32(hdr[p.ByteOffset:]))), nil
	case FormatFloat64:
		return int64(math.Float64frombits(s.engine.Uint64(hdr[p.ByteOffset:]))), nil
	default:
		return 0, errs.Preconditionf("property %q is not numeric", label)
	}
}

// SetInt stores an int64 into a scalar property, converting to its declared
// format.
func (s *Schema) SetInt(hdr []byte, label string, v int64) error {
	p, err := s.Lookup(label)
	if err != nil {
		return err
	}

	switch p.Format {
	case FormatInt16:
		s.engine.PutUint16(hdr[p.ByteOffset:], uint16(int16(v)))
	case FormatInt32:
		s.engine.PutUint32(hdr[p.ByteOffset:], uint32(int32(v)))
	case FormatInt64:
		s.engine.PutUint64(hdr[p.ByteOffset:], uint64(v))
	case FormatFloat32:
		s.engine.PutUint32(hdr[p.ByteOffset:], math.Float32bits(float32(v)))
	case FormatFloat64:
		s.engine.PutUint64(hdr[p.ByteOffset:], math.Float64bits(float64(v)))
	default:
		return errs.Preconditionf("property %q is not numeric", label)
	}

	return nil
}

// GetFloat returns a scalar property's value as float64.
func (s *Schema) GetFloat(hdr []byte, label string) (float64, error) {
	p, err := s.Lookup(label)
	if err != nil {
		return 0, err
	}

	switch p.Format {
	case FormatInt16:
		return float64(int16(s.engine.Uint16(hdr[p.ByteOffset:]))), nil
	case FormatInt32:
		return float64(int32(s.engine.Uint32(hdr[p.ByteOffset:]))), nil
	case FormatInt64:
		return float64(int64(s.engine.Uint64(hdr[p.ByteOffset:]))), nil
	case FormatFloat32:
		return float64(math.Float32frombits(s.engine.Uint32(hdr[p.ByteOffset:]))), nil
	case FormatFloat64:
		return math.Float64frombits(s.engine.Uint64(hdr[p.ByteOffset:])), nil
	default:
		return 0, errs.Preconditionf("property %q is not numeric", label)
	}
}

// SetFloat stores a float64 into a scalar property, converting to its
// declared format.
func (s *Schema) SetFloat(hdr []byte, label string, v float64) error {
	p, err := s.Lookup(label)
	if err != nil {
		return err
	}

	switch p.Format {
	case FormatInt16:
		s.engine.PutUint16(hdr[p.ByteOffset:], uint16(int16(v)))
	case FormatInt32:
		s.engine.PutUint32(hdr[p.ByteOffset:], uint32(int32(v)))
	case FormatInt64:
		s.engine.PutUint64(hdr[p.ByteOffset:], uint64(int64(v)))
	case FormatFloat32:
		s.engine.PutUint32(hdr[p.ByteOffset:], math.Float32bits(float32(v)))
	case FormatFloat64:
		s.engine.PutUint64(hdr[p.ByteOffset:], math.Float64bits(v))
	default:
		return errs.Preconditionf("property %q is not numeric", label)
	}

	return nil
}

// GetString returns a byte-string property trimmed of trailing NULs.
func (s *Schema) GetString(hdr []byte, label string) (string, error) {
	p, err := s.Lookup(label)
	if err != nil {
		return "", err
	}
	if p.Format != FormatByteString {
		return "", errs.Preconditionf("property %q is not a byte string", label)
	}

	raw := hdr[p.ByteOffset : p.ByteOffset+p.Count]

	return string(bytes.TrimRight(raw, "\x00")), nil
}

// SetString stores a string into a byte-string property, NUL-padded to the
// element count. The string must be shorter than the element count.
func (s *Schema) SetString(hdr []byte, label string, v string) error {
	p, err := s.Lookup(label)
	if err != nil {
		return err
	}
	if p.Format != FormatByteString {
		return errs.Preconditionf("property %q is not a byte string", label)
	}
	if len(v) >= p.Count {
		return errs.ErrStringTooLong
	}

	dst := hdr[p.ByteOffset : p.ByteOffset+p.Count]
	n := copy(dst, v)
	clear(dst[n:])

	return nil
}

// GetValue returns a property's value in its declared shape: a scalar for
// element count 1, a typed slice for vectors, a trimmed string for byte
// strings.
func (s *Schema) GetValue(hdr []byte, label string) (any, error) {
	p, err := s.Lookup(label)
	if err != nil {
		return nil, err
	}

	if p.Format == FormatByteString {
		return s.GetString(hdr, label)
	}

	if p.Count == 1 {
		return s.scalarAt(p, hdr)
	}

	return s.vectorAt(p, hdr), nil
}

// SetValue stores a value of the property's declared shape. Vectors must
// match the declared element count exactly.
func (s *Schema) SetValue(hdr []byte, label string, v any) error {
	p, err := s.Lookup(label)
	if err != nil {
		return err
	}

	switch tv := v.(type) {
	case string:
		return s.SetString(hdr, label, tv)
	case int:
		return s.SetInt(hdr, label, int64(tv))
	case int16:
		return s.SetInt(hdr, label, int64(tv))
	case int32:
		return s.SetInt(hdr, label, int64(tv))
	case int64:
		return s.SetInt(hdr, label, tv)
	case float32:
		return s.SetFloat(hdr, label, float64(tv))
	case float64:
		return s.SetFloat(hdr, label, tv)
	case []int16:
		return putVector(s, p, hdr, tv, func(off int, e int16) {
			s.engine.PutUint16(hdr[off:], uint16(e))
		})
	case []int32:
		return putVector(s, p, hdr, tv, func(off int, e int32) {
			s.engine.PutUint32(hdr[off:], uint32(e))
		})
	case []int64:
		return putVector(s, p, hdr, tv, func(off int, e int64) {
			s.engine.PutUint64(hdr[off:], uint64(e))
		})
	case []float32:
		return putVector(s, p, hdr, tv, func(off int, e float32) {
			s.engine.PutUint32(hdr[off:], math.Float32bits(e))
		})
	case []float64:
		return putVector(s, p, hdr, tv, func(off int, e float64) {
			s.engine.PutUint64(hdr[off:], math.Float64bits(e))
		})
	default:
		return errs.Preconditionf("unsupported value type %T for property %q", v, label)
	}
}

func putVector[E any](s *Schema, p Property, hdr []byte, v []E, put func(off int, e E)) error {
	if len(v) != p.Count {
		return errs.ErrElementCount
	}

	size := p.Format.Size()
	for i, e := range v {
		put(p.ByteOffset+i*size, e)
	}

	return nil
}

func (s *Schema) scalarAt(p Property, hdr []byte) (any, error) {
	switch p.Format {
	case FormatInt16:
		return int16(s.engine.Uint16(hdr[p.ByteOffset:])), nil
	case FormatInt32:
		return int32(s.engine.Uint32(hdr[p.ByteOffset:])), nil
	case FormatInt64:
		return int64(s.engine.Uint64(hdr[p.ByteOffset:])), nil
	case FormatFloat32:
		return math.Float32frombits(s.engine.Uint32(hdr[p.ByteOffset:])), nil
	case FormatFloat64:
		return math.Float64frombits(s.engine.Uint64(hdr[p.ByteOffset:])), nil
	default:
		return nil, errs.Preconditionf("property %q has unknown format", p.Label)
	}
}

func (s *Schema) vectorAt(p Property, hdr []byte) any {
	size := p.Format.Size()
	switch p.Format {
	case FormatInt16:
		out := make([]int16, p.Count)
		for i := range out {
			out[i] = int16(s.engine.Uint16(hdr[p.ByteOffset+i*size:]))
		}
		return out
	case FormatInt32:
		out := make([]int32, p.Count)
		for i := range out {
			out[i] = int32(s.engine.Uint32(hdr[p.ByteOffset+i*size:]))
		}
		return out
	case FormatInt64:
		out := make([]int64, p.Count)
		for i := range out {
			out[i] = int64(s.engine.Uint64(hdr[p.ByteOffset+i*size:]))
		}
		return out
	case FormatFloat32:
		out := make([]float32, p.Count)
		for i := range out {
			out[i] = math.Float32frombits(s.engine.Uint32(hdr[p.ByteOffset+i*size:]))
		}
		return out
	case FormatFloat64:
		out := make([]float64, p.Count)
		for i := range out {
			out[i] = math.Float64frombits(s.engine.Uint64(hdr[p.ByteOffset+i*size:]))
		}
		return out
	default:
		return nil
	}
}

// CopyHeader copies every property of src present on dst, by label, between
// two header records. Properties missing on dst are skipped.
func CopyHeader(dst *Schema, dstHdr []byte, src *Schema, srcHdr []byte) error {
	for _, p := range src.props {
		if !dst.Has(p.Label) {
			continue
		}

		v, err := src.GetValue(srcHdr, p.Label)
		if err != nil {
			return err
		}
		if err := dst.SetValue(dstHdr, p.Label, v); err != nil {
			return err
		}
	}

	return nil
}
