package dataset

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openseis/javaseis/errs"
	"github.com/openseis/javaseis/format"
	"github.com/openseis/javaseis/props"
)

// scatterFrame builds a frame with live traces at the given columns, dead
// traces elsewhere, each live trace tagged with its column coordinate.
func scatterFrame(t *testing.T, ds *Dataset) ([]float32, []byte, []int64) {
	t.Helper()

	cols := []int64{3, 17, 33, 64}
	ns := int(ds.SamplesPerTrace())

	traces, headers := ds.AllocFrame()
	for c := 1; c <= int(ds.TracesPerFrame()); c++ {
		hdr := ds.schema.HeaderSlice(headers, c)
		require.NoError(t, ds.schema.SetInt(hdr, props.LabelTrcType, int64(format.TraceDead)))
		require.NoError(t, ds.schema.SetInt(hdr, ds.axes[1].PropertyLabel, int64(c)))
	}
	for _, c := range cols {
		for s := 0; s < ns; s++ {
			traces[(int(c)-1)*ns+s] = float32(1000*int(c) + s)
		}
		setLive(t, ds, headers, int(c), c, 1)
	}

	return traces, headers, cols
}

func TestLeftJustify(t *testing.T) {
	ds := create3D(t)
	traces, headers, cols := scatterFrame(t, ds)

	fold, err := ds.LeftJustify(traces, headers)
	require.NoError(t, err)
	require.Equal(t, len(cols), fold)

	ns := int(ds.SamplesPerTrace())
	t.Run("Relative order preserved", func(t *testing.T) {
		for j, c := range cols {
			hdr := ds.schema.HeaderSlice(headers, j+1)

			tt, err := ds.schema.GetInt(hdr, props.LabelTrcType)
			require.NoError(t, err)
			require.Equal(t, int64(format.TraceLive), tt)

			coord, err := ds.schema.GetInt(hdr, ds.axes[1].PropertyLabel)
			require.NoError(t, err)
			require.Equal(t, c, coord)

			require.Equal(t, float32(1000*int(c)), traces[j*ns])
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		snapshot := make([]float32, len(traces))
		copy(snapshot, traces)

		again, err := ds.LeftJustify(traces, headers)
		require.NoError(t, err)
		require.Equal(t, fold, again)
		require.Equal(t, snapshot, traces)
	})

	t.Run("Full frame untouched", func(t *testing.T) {
		full, fullHdrs := ds.AllocFrame()
		fillFullFrame(t, ds, full, fullHdrs, 1)

		snapshot := make([]float32, len(full))
		copy(snapshot, full)

		fold, err := ds.LeftJustify(full, fullHdrs)
		require.NoError(t, err)
		require.Equal(t, 64, fold)
		require.Equal(t, snapshot, full)
	})
}

func TestRegularize(t *testing.T) {
	ds := create3D(t)
	traces, headers, cols := scatterFrame(t, ds)
	ns := int(ds.SamplesPerTrace())

	// Collapse then scatter back: regularize(left-justified) restores the
	// declared columns.
	fold, err := ds.LeftJustify(traces, headers)
	require.NoError(t, err)
	require.Equal(t, len(cols), fold)

	require.NoError(t, ds.Regularize(traces, headers))

	assertRegularized := func(t *testing.T) {
		t.Helper()
		for _, c := range cols {
			require.Equal(t, float32(1000*int(c)), traces[(int(c)-1)*ns])

			hdr := ds.schema.HeaderSlice(headers, int(c))
			tt, err := ds.schema.GetInt(hdr, props.LabelTrcType)
			require.NoError(t, err)
			require.Equal(t, int64(format.TraceLive), tt)
		}

		live := make(map[int64]bool, len(cols))
		for _, c := range cols {
			live[c] = true
		}
		for c := 1; c <= 64; c++ {
			if live[int64(c)] {
				continue
			}

			hdr := ds.schema.HeaderSlice(headers, c)
			tt, err := ds.schema.GetInt(hdr, props.LabelTrcType)
			require.NoError(t, err)
			require.Equal(t, int64(format.TraceDead), tt)

			coord, err := ds.schema.GetInt(hdr, ds.axes[1].PropertyLabel)
			require.NoError(t, err)
			require.Equal(t, int64(c), coord)

			for s := 0; s < ns; s++ {
				require.Equal(t, float32(0), traces[(c-1)*ns+s])
			}
		}
	}

	assertRegularized(t)

	t.Run("Idempotent", func(t *testing.T) {
		require.NoError(t, ds.Regularize(traces, headers))
		assertRegularized(t)
	})
}

func TestRegularizeByUnknownProperty(t *testing.T) {
	ds := create3D(t)
	traces, headers := ds.AllocFrame()

	err := ds.RegularizeBy(traces, headers, "NO_SUCH")
	require.ErrorIs(t, err, errs.ErrPropertyNotFound)
}
