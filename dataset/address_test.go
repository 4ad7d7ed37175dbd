package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openseis/javaseis/errs"
)

func TestFrameIndex3D(t *testing.T) {
	ds := create3D(t)

	frame, err := ds.FrameIndex(1)
	require.NoError(t, err)
	require.Equal(t, int64(1), frame)

	frame, err = ds.FrameIndex(10)
	require.NoError(t, err)
	require.Equal(t, int64(10), frame)

	t.Run("Out of range", func(t *testing.T) {
		_, err := ds.FrameIndex(11)
		require.ErrorIs(t, err, errs.ErrFrameOutOfRange)

		_, err = ds.FrameIndex(0)
		require.ErrorIs(t, err, errs.ErrFrameOutOfRange)
	})

	t.Run("Wrong arity", func(t *testing.T) {
		_, err := ds.FrameIndex(1, 1)
		require.ErrorIs(t, err, errs.ErrPrecondition)
	})
}

func TestFrameIndexNonUnitGrid(t *testing.T) {
	ds, err := Create(filepath.Join(t.TempDir(), "grid.js"),
		WithAxes(
			DefaultAxis("SAMPLE", "SAMPLE", 16),
			DefaultAxis("TRACE", "TRACE", 8),
			Axis{
				Label: "FRAME", PropertyLabel: "FRAME",
				Units: "unknown", Domain: "unknown",
				Length: 10, LogicalOrigin: 100, LogicalDelta: 5,
				PhysicalDelta: 1.0,
			},
		))
	require.NoError(t, err)

	frame, err := ds.FrameIndex(100)
	require.NoError(t, err)
	require.Equal(t, int64(1), frame)

	frame, err = ds.FrameIndex(145)
	require.NoError(t, err)
	require.Equal(t, int64(10), frame)

	t.Run("Off grid", func(t *testing.T) {
		_, err := ds.FrameIndex(102)
		require.ErrorIs(t, err, errs.ErrOffGridAddress)
	})

	t.Run("Below origin", func(t *testing.T) {
		_, err := ds.FrameIndex(95)
		require.ErrorIs(t, err, errs.ErrFrameOutOfRange)
	})
}

func TestLinearizationRoundTrip(t *testing.T) {
	ds, err := Create(filepath.Join(t.TempDir(), "rt.js"),
		WithAxisLengths(8, 4, 3, 4, 2))
	require.NoError(t, err)
	require.Equal(t, int64(24), ds.TotalFrames())

	// Column-major: the frame axis varies fastest.
	seen := make(map[int64]bool)
	for h := int64(1); h <= 2; h++ {
		for v := int64(1); v <= 4; v++ {
			for f := int64(1); f <= 3; f++ {
				frame, err := ds.FrameIndex(f, v, h)
				require.NoError(t, err)
				require.False(t, seen[frame], "frame %d mapped twice", frame)
				seen[frame] = true

				addr, err := ds.FrameAddress(frame)
				require.NoError(t, err)
				require.Equal(t, []int64{f, v, h}, addr)
			}
		}
	}
	require.Len(t, seen, 24)

	t.Run("First and last", func(t *testing.T) {
		frame, err := ds.FrameIndex(1, 1, 1)
		require.NoError(t, err)
		require.Equal(t, int64(1), frame)

		frame, err = ds.FrameIndex(3, 4, 2)
		require.NoError(t, err)
		require.Equal(t, int64(24), frame)
	})
}
