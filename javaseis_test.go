package javaseis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openseis/javaseis/dataset"
	"github.com/openseis/javaseis/format"
	"github.com/openseis/javaseis/props"
)

func TestEndToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "line1.js")

	ds, err := Create(path,
		dataset.WithAxisLengths(128, 64, 10),
		dataset.WithDescriptiveName("line 1 raw shots"))
	require.NoError(t, err)

	ns := int(ds.SamplesPerTrace())
	traces, headers := ds.AllocFrame()
	schema := ds.Schema()
	for i := 1; i <= 64; i++ {
		for s := 0; s < ns; s++ {
			traces[(i-1)*ns+s] = float32(100*i + s)
		}
		hdr := schema.HeaderSlice(headers, i)
		require.NoError(t, schema.SetInt(hdr, props.LabelTrcType, int64(format.TraceLive)))
		require.NoError(t, schema.SetInt(hdr, props.AxisTrace, int64(i)))
		require.NoError(t, schema.SetInt(hdr, props.AxisFrame, 1))
	}
	require.NoError(t, ds.WriteFrameAt(traces, headers, 64, 1))
	require.NoError(t, ds.Close())

	t.Run("Reopen and read", func(t *testing.T) {
		back, err := Open(path)
		require.NoError(t, err)
		defer back.Close()

		require.Equal(t, "line 1 raw shots", back.Name())

		got, gotHdrs := back.AllocFrame()
		fold, err := back.ReadFrame(1, got, gotHdrs)
		require.NoError(t, err)
		require.Equal(t, 64, fold)
		require.Equal(t, traces, got)
	})

	t.Run("Copy and empty", func(t *testing.T) {
		copyPath := filepath.Join(t.TempDir(), "line1copy.js")
		require.NoError(t, Copy(path, copyPath))

		cp, err := Open(copyPath)
		require.NoError(t, err)
		fold, err := cp.Fold(1)
		require.NoError(t, err)
		require.Equal(t, int32(64), fold)
		require.NoError(t, cp.Close())

		require.NoError(t, Empty(copyPath))

		cp, err = Open(copyPath)
		require.NoError(t, err)
		require.False(t, cp.HasTraces())
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, Remove(path))
		_, err := os.Stat(path)
		require.True(t, os.IsNotExist(err))
	})
}
