package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCopyDataset(t *testing.T) {
	src := create3D(t)

	traces, headers := src.AllocFrame()
	fillFullFrame(t, src, traces, headers, 1)
	require.NoError(t, src.WriteFrameAt(traces, headers, 64, 1))

	sparse, sparseHdrs := src.AllocFrame()
	ns := int(src.SamplesPerTrace())
	for j, c := range []int64{5, 9} {
		for s := 0; s < ns; s++ {
			sparse[j*ns+s] = float32(7000*int(c) + s)
		}
		setLive(t, src, sparseHdrs, j+1, c, 4)
	}
	require.NoError(t, src.WriteFrameAt(sparse, sparseHdrs, 2, 4))
	require.NoError(t, src.Close())

	dstPath := filepath.Join(t.TempDir(), "copy.js")
	require.NoError(t, Copy(src.Path(), dstPath))

	dst, err := Open(dstPath)
	require.NoError(t, err)
	defer dst.Close()

	require.Equal(t, src.Axes(), dst.Axes())
	require.Equal(t, src.HeaderLength(), dst.HeaderLength())
	require.True(t, dst.HasTraces())

	for frame := int64(1); frame <= 10; frame++ {
		wantFold, err := src.Fold(frame)
		require.NoError(t, err)
		gotFold, err := dst.Fold(frame)
		require.NoError(t, err)
		require.Equal(t, wantFold, gotFold, "frame %d", frame)
	}

	gotTraces, gotHeaders := dst.AllocFrame()
	fold, err := dst.ReadFrame(4, gotTraces, gotHeaders)
	require.NoError(t, err)
	require.Equal(t, 2, fold)
	require.Equal(t, sparse[:2*ns], gotTraces[:2*ns])
	require.Equal(t, sparseHdrs[:2*dst.HeaderLength()], gotHeaders[:2*dst.HeaderLength()])
}

func TestMoveDataset(t *testing.T) {
	src := create3D(t)
	traces, headers := src.AllocFrame()
	fillFullFrame(t, src, traces, headers, 1)
	require.NoError(t, src.WriteFrameAt(traces, headers, 64, 1))
	require.NoError(t, src.Close())

	dstPath := filepath.Join(t.TempDir(), "moved.js")
	require.NoError(t, Move(src.Path(), dstPath))

	_, err := os.Stat(src.Path())
	require.True(t, os.IsNotExist(err))

	dst, err := Open(dstPath)
	require.NoError(t, err)
	fold, err := dst.Fold(1)
	require.NoError(t, err)
	require.Equal(t, int32(64), fold)
}

func TestEmptyDataset(t *testing.T) {
	ds := create3D(t)

	traces, headers := ds.AllocFrame()
	fillFullFrame(t, ds, traces, headers, 1)
	require.NoError(t, ds.WriteFrameAt(traces, headers, 64, 1))
	require.True(t, ds.HasTraces())

	require.NoError(t, ds.Empty())
	require.False(t, ds.HasTraces())

	t.Run("All folds zero", func(t *testing.T) {
		for frame := int64(1); frame <= 10; frame++ {
			fold, err := ds.Fold(frame)
			require.NoError(t, err)
			require.Equal(t, int32(0), fold)
		}
	})

	t.Run("Data files gone, sidecars kept", func(t *testing.T) {
		_, err := os.Stat(filepath.Join(ds.Path(), "TraceFile0"))
		require.True(t, os.IsNotExist(err))

		_, err = os.Stat(filepath.Join(ds.Path(), "TraceFile.xml"))
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(ds.Path(), "FileProperties.xml"))
		require.NoError(t, err)
	})

	t.Run("Reopens empty", func(t *testing.T) {
		back, err := Open(ds.Path())
		require.NoError(t, err)
		require.False(t, back.HasTraces())
	})
}

func TestRemoveDataset(t *testing.T) {
	ds := create3D(t)
	require.NoError(t, ds.Close())

	require.NoError(t, Remove(ds.Path()))

	_, err := os.Stat(ds.Path())
	require.True(t, os.IsNotExist(err))
}

func TestSecondaryStorage(t *testing.T) {
	home := t.TempDir()
	ssd1 := t.TempDir()
	ssd2 := t.TempDir()
	t.Setenv("JAVASEIS_DATA_HOME", home+string(filepath.Separator))
	t.Setenv("PROMAX_DATA_HOME", "")

	path := filepath.Join(home, "multi.js")
	ds, err := Create(path,
		WithAxisLengths(16, 8, 4),
		WithSecondaries(ssd1, ssd2),
		WithNExtents(4))
	require.NoError(t, err)

	t.Run("Extent dirs mirror the dataset path under each secondary", func(t *testing.T) {
		for _, dir := range []string{
			filepath.Join(ssd1, "multi.js"),
			filepath.Join(ssd2, "multi.js"),
		} {
			info, err := os.Stat(dir)
			require.NoError(t, err)
			require.True(t, info.IsDir())
		}
	})

	traces, headers := ds.AllocFrame()
	for i := 1; i <= 8; i++ {
		for s := 0; s < 16; s++ {
			traces[(i-1)*16+s] = float32(i)
		}
		setLive(t, ds, headers, i, int64(i), 1)
	}
	for frame := int64(1); frame <= 4; frame++ {
		require.NoError(t, ds.WriteFrameAt(traces, headers, 8, frame))
	}
	require.NoError(t, ds.Close())

	t.Run("Extents land round-robin", func(t *testing.T) {
		_, err := os.Stat(filepath.Join(ssd1, "multi.js", "TraceFile0"))
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(ssd2, "multi.js", "TraceFile1"))
		require.NoError(t, err)
	})

	t.Run("Reopen resolves secondaries from VirtualFolders", func(t *testing.T) {
		back, err := Open(path)
		require.NoError(t, err)

		got, gotHdrs := back.AllocFrame()
		fold, err := back.ReadFrame(3, got, gotHdrs)
		require.NoError(t, err)
		require.Equal(t, 8, fold)
		require.Equal(t, traces, got)
	})

	t.Run("Remove deletes secondaries", func(t *testing.T) {
		require.NoError(t, Remove(path))

		_, err := os.Stat(filepath.Join(ssd1, "multi.js"))
		require.True(t, os.IsNotExist(err))
		_, err = os.Stat(filepath.Join(ssd2, "multi.js"))
		require.True(t, os.IsNotExist(err))
		_, err = os.Stat(path)
		require.True(t, os.IsNotExist(err))
	})
}
