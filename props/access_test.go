package props

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openseis/javaseis/endian"
	"github.com/openseis/javaseis/errs"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()

	return Build(endian.GetLittleEndianEngine(), StockDefs(), []Def{
		{Label: "CDP_X", Format: FormatFloat64, Count: 1},
		{Label: "MUTE", Format: FormatInt16, Count: 2},
		{Label: "SRC_NAME", Format: FormatByteString, Count: 8},
	})
}

func TestScalarAccessors(t *testing.T) {
	s := testSchema(t)
	hdr := make([]byte, s.Length())

	t.Run("Int into int32", func(t *testing.T) {
		require.NoError(t, s.SetInt(hdr, LabelTraceNo, 4711))
		v, err := s.GetInt(hdr, LabelTraceNo)
		require.NoError(t, err)
		require.Equal(t, int64(4711), v)
	})

	t.Run("Int into float32 converts", func(t *testing.T) {
		require.NoError(t, s.SetInt(hdr, LabelTrFold, 24))
		v, err := s.GetFloat(hdr, LabelTrFold)
		require.NoError(t, err)
		require.Equal(t, 24.0, v)
	})

	t.Run("Float into float64", func(t *testing.T) {
		require.NoError(t, s.SetFloat(hdr, "CDP_X", 532614.25))
		v, err := s.GetFloat(hdr, "CDP_X")
		require.NoError(t, err)
		require.Equal(t, 532614.25, v)
	})

	t.Run("Negative values", func(t *testing.T) {
		require.NoError(t, s.SetInt(hdr, LabelLineNo, -42))
		v, err := s.GetInt(hdr, LabelLineNo)
		require.NoError(t, err)
		require.Equal(t, int64(-42), v)
	})

	t.Run("Unknown label", func(t *testing.T) {
		err := s.SetInt(hdr, "NO_SUCH", 1)
		require.ErrorIs(t, err, errs.ErrPropertyNotFound)
	})
}

func TestVectorAccessors(t *testing.T) {
	s := testSchema(t)
	hdr := make([]byte, s.Length())

	require.NoError(t, s.SetValue(hdr, "MUTE", []int16{120, -340}))

	v, err := s.GetValue(hdr, "MUTE")
	require.NoError(t, err)
	require.Equal(t, []int16{120, -340}, v)

	t.Run("Wrong element count", func(t *testing.T) {
		err := s.SetValue(hdr, "MUTE", []int16{1})
		require.ErrorIs(t, err, errs.ErrElementCount)
	})
}

func TestStringAccessors(t *testing.T) {
	s := testSchema(t)
	hdr := make([]byte, s.Length())

	require.NoError(t, s.SetString(hdr, "SRC_NAME", "AIRGUN"))

	v, err := s.GetString(hdr, "SRC_NAME")
	require.NoError(t, err)
	require.Equal(t, "AIRGUN", v)

	t.Run("NUL padding", func(t *testing.T) {
		p, err := s.Lookup("SRC_NAME")
		require.NoError(t, err)
		raw := hdr[p.ByteOffset : p.ByteOffset+p.Count]
		require.Equal(t, []byte("AIRGUN\x00\x00"), raw)
	})

	t.Run("Too long", func(t *testing.T) {
		err := s.SetString(hdr, "SRC_NAME", "WATERGUN") // 8 chars, needs < count
		require.ErrorIs(t, err, errs.ErrStringTooLong)
	})

	t.Run("Not a string property", func(t *testing.T) {
		_, err := s.GetString(hdr, LabelTraceNo)
		require.ErrorIs(t, err, errs.ErrPrecondition)
	})
}

func TestHeaderSlice(t *testing.T) {
	s := testSchema(t)
	block := make([]byte, s.Length()*4)

	require.NoError(t, s.SetInt(s.HeaderSlice(block, 3), LabelTraceNo, 33))

	v, err := s.GetInt(block[2*s.Length():3*s.Length()], LabelTraceNo)
	require.NoError(t, err)
	require.Equal(t, int64(33), v)
}

func TestCopyHeader(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	src := Build(engine, StockDefs(), []Def{
		{Label: "CDP", Format: FormatInt32, Count: 1},
	})
	dst := Build(engine, StockDefs()) // no CDP on the target

	srcHdr := make([]byte, src.Length())
	dstHdr := make([]byte, dst.Length())
	require.NoError(t, src.SetInt(srcHdr, LabelTraceNo, 7))
	require.NoError(t, src.SetInt(srcHdr, "CDP", 1200))
	require.NoError(t, src.SetFloat(srcHdr, LabelTrFold, 12))

	require.NoError(t, CopyHeader(dst, dstHdr, src, srcHdr))

	v, err := dst.GetInt(dstHdr, LabelTraceNo)
	require.NoError(t, err)
	require.Equal(t, int64(7), v)

	f, err := dst.GetFloat(dstHdr, LabelTrFold)
	require.NoError(t, err)
	require.Equal(t, 12.0, f)

	// CDP silently skipped: the target schema has no such label.
	require.False(t, dst.Has("CDP"))
}

func TestLabelDict(t *testing.T) {
	dict := DefaultLabelDict()

	require.Equal(t, "ILINE_NO", dict.PropertyLabel("INLINE"))
	require.Equal(t, "INLINE", dict.AxisLabel("ILINE_NO"))

	// Identity fallback for labels outside the table.
	require.Equal(t, "FRAME", dict.PropertyLabel("FRAME"))
	require.Equal(t, "FRAME", dict.AxisLabel("FRAME"))
}
