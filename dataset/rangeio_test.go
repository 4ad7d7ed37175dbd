package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openseis/javaseis/errs"
)

// createRangeDS builds a small 3-D dataset (16 samples, 8 traces, 4 frames)
// with frames 1 and 2 written full and frame 3 sparse (traces 2 and 7).
func createRangeDS(t *testing.T) *Dataset {
	t.Helper()

	ds, err := Create(filepath.Join(t.TempDir(), "range.js"),
		WithAxisLengths(16, 8, 4))
	require.NoError(t, err)

	ns := int(ds.SamplesPerTrace())
	for frame := int64(1); frame <= 2; frame++ {
		traces, headers := ds.AllocFrame()
		for i := 1; i <= 8; i++ {
			for s := 0; s < ns; s++ {
				traces[(i-1)*ns+s] = sampleValue(frame, int64(i), s)
			}
			setLive(t, ds, headers, i, int64(i), frame)
		}
		require.NoError(t, ds.WriteFrameAt(traces, headers, 8, frame))
	}

	traces, headers := ds.AllocFrame()
	for j, c := range []int64{2, 7} {
		for s := 0; s < ns; s++ {
			traces[j*ns+s] = sampleValue(3, c, s)
		}
		setLive(t, ds, headers, j+1, c, 3)
	}
	require.NoError(t, ds.WriteFrameAt(traces, headers, 2, 3))

	return ds
}

// sampleValue is the synthetic sample fill: distinct per frame, trace, sample.
func sampleValue(frame, trace int64, s int) float32 {
	return float32(10000*frame + 100*trace + int64(s))
}

func TestReadRangeFull(t *testing.T) {
	ds := createRangeDS(t)

	size, err := ds.RangeSize(All(), All(), At(1))
	require.NoError(t, err)
	require.Equal(t, 16*8, size)

	dst := make([]float32, size)
	require.NoError(t, ds.ReadRange(dst, All(), All(), At(1)))

	for i := int64(1); i <= 8; i++ {
		for s := 0; s < 16; s++ {
			require.Equal(t, sampleValue(1, i, s), dst[(i-1)*16+int64(s)])
		}
	}
}

func TestReadRangeSubset(t *testing.T) {
	ds := createRangeDS(t)

	// Samples 5..8, traces 3..4, frames 1..2.
	dst := make([]float32, 4*2*2)
	require.NoError(t, ds.ReadRange(dst, Span(5, 8), Span(3, 4), Span(1, 2)))

	n := 0
	for frame := int64(1); frame <= 2; frame++ {
		for trc := int64(3); trc <= 4; trc++ {
			for s := 4; s < 8; s++ { // logical 5..8 on a unit grid is 0-based 4..7
				require.Equal(t, sampleValue(frame, trc, s), dst[n])
				n++
			}
		}
	}
}

func TestReadRangeSparseFrameRegularizes(t *testing.T) {
	ds := createRangeDS(t)

	dst := make([]float32, 16*8)
	require.NoError(t, ds.ReadRange(dst, All(), All(), At(3)))

	for i := int64(1); i <= 8; i++ {
		for s := 0; s < 16; s++ {
			want := float32(0)
			if i == 2 || i == 7 {
				want = sampleValue(3, i, s)
			}
			require.Equal(t, want, dst[(i-1)*16+int64(s)], "trace %d sample %d", i, s)
		}
	}
}

func TestReadRangeEmptyFrameIsZeros(t *testing.T) {
	ds := createRangeDS(t)

	dst := make([]float32, 16*8)
	for i := range dst {
		dst[i] = -1
	}
	require.NoError(t, ds.ReadRange(dst, All(), All(), At(4)))

	for _, v := range dst {
		require.Equal(t, float32(0), v)
	}
}

func TestReadRangeStride(t *testing.T) {
	ds := createRangeDS(t)

	// Every second trace of frame 1.
	dst := make([]float32, 16*4)
	require.NoError(t, ds.ReadRange(dst, All(), SpanStep(1, 8, 2), At(1)))

	for j, trc := range []int64{1, 3, 5, 7} {
		for s := 0; s < 16; s++ {
			require.Equal(t, sampleValue(1, trc, s), dst[j*16+s])
		}
	}
}

func TestWriteRangeFullFrame(t *testing.T) {
	ds := createRangeDS(t)

	src := make([]float32, 16*8)
	for i := range src {
		src[i] = float32(i)
	}
	require.NoError(t, ds.WriteRange(src, All(), All(), At(4)))

	fold, err := ds.Fold(4)
	require.NoError(t, err)
	require.Equal(t, int32(8), fold)

	dst := make([]float32, 16*8)
	require.NoError(t, ds.ReadRange(dst, All(), All(), At(4)))
	require.Equal(t, src, dst)
}

func TestWriteRangePartialReadModifyWrite(t *testing.T) {
	ds := createRangeDS(t)

	// Overwrite samples 1..4 of trace 5 in the full frame 1.
	src := []float32{-1, -2, -3, -4}
	require.NoError(t, ds.WriteRange(src, Span(1, 4), At(5), At(1)))

	fold, err := ds.Fold(1)
	require.NoError(t, err)
	require.Equal(t, int32(8), fold)

	dst := make([]float32, 16*8)
	require.NoError(t, ds.ReadRange(dst, All(), All(), At(1)))

	for i := int64(1); i <= 8; i++ {
		for s := 0; s < 16; s++ {
			want := sampleValue(1, i, s)
			if i == 5 && s < 4 {
				want = src[s]
			}
			require.Equal(t, want, dst[(i-1)*16+int64(s)], "trace %d sample %d", i, s)
		}
	}
}

func TestWriteRangePartialIntoSparseFrame(t *testing.T) {
	ds := createRangeDS(t)

	// Add trace 4 to the sparse frame 3; traces 2 and 7 must survive.
	src := make([]float32, 16)
	for s := range src {
		src[s] = float32(900 + s)
	}
	require.NoError(t, ds.WriteRange(src, All(), At(4), At(3)))

	fold, err := ds.Fold(3)
	require.NoError(t, err)
	require.Equal(t, int32(3), fold)

	dst := make([]float32, 16*8)
	require.NoError(t, ds.ReadRange(dst, All(), All(), At(3)))

	for s := 0; s < 16; s++ {
		require.Equal(t, sampleValue(3, 2, s), dst[1*16+s])
		require.Equal(t, src[s], dst[3*16+s])
		require.Equal(t, sampleValue(3, 7, s), dst[6*16+s])
	}
}

func TestRangeSelectorErrors(t *testing.T) {
	ds := createRangeDS(t)
	dst := make([]float32, 16*8)

	t.Run("Wrong selector count", func(t *testing.T) {
		err := ds.ReadRange(dst, All(), All())
		require.ErrorIs(t, err, errs.ErrPrecondition)
	})

	t.Run("Buffer too small", func(t *testing.T) {
		err := ds.ReadRange(dst[:4], All(), All(), At(1))
		require.ErrorIs(t, err, errs.ErrPrecondition)
	})

	t.Run("Out-of-range index", func(t *testing.T) {
		err := ds.ReadRange(dst, All(), All(), At(9))
		require.ErrorIs(t, err, errs.ErrFrameOutOfRange)
	})
}
