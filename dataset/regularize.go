package dataset

import (
	"fmt"

	"github.com/openseis/javaseis/errs"
	"github.com/openseis/javaseis/format"
	"github.com/openseis/javaseis/props"
)

// LeftJustify moves every live trace of a frame leftward, preserving their
// relative order, and pushes dead traces to the right end; header rows move
// with their trace bodies. TRC_TYPE is the discriminator.
//
// Returns the fold. A frame whose fold equals traces-per-frame is untouched.
func (d *Dataset) LeftJustify(traces []float32, headers []byte) (int, error) {
	ns := int(d.SamplesPerTrace())
	tpf := int(d.TracesPerFrame())
	hlen := d.schema.Length()

	trcTmp := make([]float32, ns)
	hdrTmp := make([]byte, hlen)

	fold := 0
	for i := 1; i <= tpf; i++ {
		tt, err := d.schema.GetInt(d.schema.HeaderSlice(headers, i), props.LabelTrcType)
		if err != nil {
			return 0, err
		}
		if format.TraceType(tt) != format.TraceLive {
			continue
		}

		fold++
		if i == fold {
			continue
		}

		// Swap trace i into the next live slot; the displaced trace is dead.
		src := traces[(i-1)*ns : i*ns]
		dst := traces[(fold-1)*ns : fold*ns]
		copy(trcTmp, dst)
		copy(dst, src)
		copy(src, trcTmp)

		srcHdr := d.schema.HeaderSlice(headers, i)
		dstHdr := d.schema.HeaderSlice(headers, fold)
		copy(hdrTmp, dstHdr)
		copy(dstHdr, srcHdr)
		copy(srcHdr, hdrTmp)
	}

	return fold, nil
}

// Regularize places a frame's live traces at the columns declared by the
// trace-axis property and fills every other column with a dead trace whose
// axis property names its column. Dead trace bodies are zeroed.
//
// The operation is idempotent: a regularized frame regularizes to itself.
func (d *Dataset) Regularize(traces []float32, headers []byte) error {
	if d.axes[1].PropertyLabel == "" {
		return errs.Preconditionf("trace axis has no backing property to regularize by")
	}

	return d.RegularizeBy(traces, headers, d.axes[1].PropertyLabel)
}

// RegularizeBy regularizes against an explicit indexing property. The
// property's value on each live trace, mapped through the trace axis's
// logical grid, selects the destination column.
func (d *Dataset) RegularizeBy(traces []float32, headers []byte, label string) error {
	if !d.schema.Has(label) {
		return fmt.Errorf("%w: %w: %q", errs.ErrPrecondition, errs.ErrPropertyNotFound, label)
	}

	// Collapse to left-justified form first so a second pass over an
	// already-regularized frame finds the same live set.
	fold, err := d.LeftJustify(traces, headers)
	if err != nil {
		return err
	}

	ns := int(d.SamplesPerTrace())
	tpf := int(d.TracesPerFrame())
	ax := d.axes[1]

	// Scatter in reverse order: a destination column still holding a
	// not-yet-moved live trace is vacated before it is overwritten.
	mask := make([]bool, tpf)
	for i := fold; i >= 1; i-- {
		hdr := d.schema.HeaderSlice(headers, i)
		v, err := d.schema.GetInt(hdr, label)
		if err != nil {
			return err
		}

		c, err := logicalToGrid(ax, v)
		if err != nil {
			return err
		}

		if int(c) != i {
			copy(traces[(c-1)*int64(ns):c*int64(ns)], traces[(i-1)*ns:i*ns])
			copy(d.schema.HeaderSlice(headers, int(c)), hdr)
		}
		mask[c-1] = true
	}

	for c := 1; c <= tpf; c++ {
		if mask[c-1] {
			continue
		}

		hdr := d.schema.HeaderSlice(headers, c)
		clear(hdr)
		if err := d.schema.SetInt(hdr, label, gridToLogical(ax, int64(c))); err != nil {
			return err
		}
		if err := d.schema.SetInt(hdr, props.LabelTrcType, int64(format.TraceDead)); err != nil {
			return err
		}
		clear(traces[(c-1)*ns : c*ns])
	}

	return nil
}
