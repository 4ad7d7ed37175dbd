package dataset

import (
	"github.com/openseis/javaseis/errs"
	"github.com/openseis/javaseis/format"
	"github.com/openseis/javaseis/props"
)

// Range I/O: bulk reads and writes over rectangular subsets of the logical
// grid, built on the frame codec. Selectors are expressed in logical
// coordinates; the engine converts them to grid positions per axis.

type selKind uint8

const (
	selAll selKind = iota
	selSingle
	selSpan
)

// Sel selects positions along one axis: everything, a single logical index,
// or an arithmetic progression of logical indices.
type Sel struct {
	kind selKind
	lo   int64
	hi   int64
	step int64 // 0 means the axis's own logical increment
}

// All selects every position along an axis.
func All() Sel {
	return Sel{kind: selAll}
}

// At selects a single logical index.
func At(i int64) Sel {
	return Sel{kind: selSingle, lo: i, hi: i}
}

// Span selects the inclusive logical range [lo, hi] at the axis increment.
func Span(lo, hi int64) Sel {
	return Sel{kind: selSpan, lo: lo, hi: hi}
}

// SpanStep selects the arithmetic progression lo, lo+step, ..., <= hi.
// step must be a multiple of the axis's logical increment.
func SpanStep(lo, hi, step int64) Sel {
	return Sel{kind: selSpan, lo: lo, hi: hi, step: step}
}

// resolve expands a selector into 1-based grid positions along an axis.
func (s Sel) resolve(ax Axis) ([]int64, error) {
	switch s.kind {
	case selAll:
		out := make([]int64, ax.Length)
		for i := range out {
			out[i] = int64(i) + 1
		}
		return out, nil

	case selSingle:
		g, err := logicalToGrid(ax, s.lo)
		if err != nil {
			return nil, err
		}
		return []int64{g}, nil

	case selSpan:
		step := s.step
		if step == 0 {
			step = ax.LogicalDelta
		}
		if step%ax.LogicalDelta != 0 || step == 0 {
			return nil, errs.Preconditionf("range step %d is not a multiple of axis %q increment %d",
				step, ax.Label, ax.LogicalDelta)
		}

		var out []int64
		for v := s.lo; (step > 0 && v <= s.hi) || (step < 0 && v >= s.hi); v += step {
			g, err := logicalToGrid(ax, v)
			if err != nil {
				return nil, err
			}
			out = append(out, g)
		}
		if len(out) == 0 {
			return nil, errs.Preconditionf("empty range %d..%d on axis %q", s.lo, s.hi, ax.Label)
		}
		return out, nil

	default:
		return nil, errs.Preconditionf("invalid selector")
	}
}

// rangePlan is the resolved geometry of one range operation.
type rangePlan struct {
	samples []int64   // grid positions on the sample axis
	trcs    []int64   // grid positions on the trace axis
	outer   [][]int64 // grid positions per frame and slower axis
	frames  int       // product of outer counts
}

func (d *Dataset) planRange(sels []Sel) (*rangePlan, error) {
	if len(sels) != d.NDim() {
		return nil, errs.Preconditionf("range has %d selectors for a %dD dataset", len(sels), d.NDim())
	}

	p := &rangePlan{frames: 1}
	var err error
	if p.samples, err = sels[0].resolve(d.axes[0]); err != nil {
		return nil, err
	}
	if p.trcs, err = sels[1].resolve(d.axes[1]); err != nil {
		return nil, err
	}

	p.outer = make([][]int64, d.NDim()-2)
	for k := range p.outer {
		if p.outer[k], err = sels[k+2].resolve(d.axes[k+2]); err != nil {
			return nil, err
		}
		p.frames *= len(p.outer[k])
	}

	return p, nil
}

// frameAt returns the linear frame index of the n-th frame in the plan's
// column-major enumeration.
func (p *rangePlan) frameAt(d *Dataset, n int) (int64, error) {
	addr := make([]int64, len(p.outer))
	for k, grids := range p.outer {
		addr[k] = gridToLogical(d.axes[k+2], grids[n%len(grids)])
		n /= len(grids)
	}

	return d.FrameIndex(addr...)
}

// Size returns the number of float32 samples a range transfer covers.
func (p *rangePlan) Size() int {
	return len(p.samples) * len(p.trcs) * p.frames
}

// RangeSize returns the required buffer length for a range described by
// sels, in samples.
func (d *Dataset) RangeSize(sels ...Sel) (int, error) {
	p, err := d.planRange(sels)
	if err != nil {
		return 0, err
	}

	return p.Size(), nil
}

// ReadRange reads a rectangular subset of the dataset into dst, column-major
// with samples fastest. Empty frames read as zeros.
//
// Full frames take a bulk trace read; sparse frames are regularized so every
// trace lands at its declared column before projection.
func (d *Dataset) ReadRange(dst []float32, sels ...Sel) error {
	if err := d.checkTraceIO(false); err != nil {
		return err
	}

	p, err := d.planRange(sels)
	if err != nil {
		return err
	}
	if len(dst) < p.Size() {
		return errs.Preconditionf("range needs %d samples, buffer holds %d", p.Size(), len(dst))
	}

	ns := int(d.SamplesPerTrace())
	tpf := int(d.TracesPerFrame())
	traces, headers := d.AllocFrame()

	block := len(p.samples) * len(p.trcs)
	for n := 0; n < p.frames; n++ {
		frame, err := p.frameAt(d, n)
		if err != nil {
			return err
		}

		fold, err := d.foldForIO(frame)
		if err != nil {
			return err
		}

		out := dst[n*block : (n+1)*block]
		if fold == 0 {
			clear(out)
			continue
		}

		if fold == tpf {
			if _, err := d.ReadFrameTrcs(frame, traces); err != nil {
				return err
			}
		} else {
			// The scratch buffers are reused across frames; stale header
			// rows beyond this frame's fold must not survive into
			// regularization.
			clear(headers)
			if _, err := d.ReadFrame(frame, traces, headers); err != nil {
				return err
			}
			if err := d.Regularize(traces, headers); err != nil {
				return err
			}
		}

		for tj, t := range p.trcs {
			for sj, s := range p.samples {
				out[tj*len(p.samples)+sj] = traces[(t-1)*int64(ns)+(s-1)]
			}
		}
	}

	return nil
}

// WriteRange writes a rectangular subset of the dataset from src, laid out
// as ReadRange produces it.
//
// A write partial in samples or traces performs a read-modify-write on each
// touched frame; every touched trace column becomes live. The frame is
// left-justified before it reaches the frame codec.
func (d *Dataset) WriteRange(src []float32, sels ...Sel) error {
	if err := d.checkTraceIO(true); err != nil {
		return err
	}

	p, err := d.planRange(sels)
	if err != nil {
		return err
	}
	if len(src) < p.Size() {
		return errs.Preconditionf("range covers %d samples, buffer holds %d", p.Size(), len(src))
	}

	ns := int(d.SamplesPerTrace())
	tpf := int(d.TracesPerFrame())
	partial := len(p.samples) < ns || len(p.trcs) < tpf
	traces, headers := d.AllocFrame()

	block := len(p.samples) * len(p.trcs)
	for n := 0; n < p.frames; n++ {
		frame, err := p.frameAt(d, n)
		if err != nil {
			return err
		}

		if partial {
			if err := d.loadRegularized(frame, traces, headers); err != nil {
				return err
			}
		} else {
			clear(traces)
			d.initHeaders(headers, frame)
		}

		in := src[n*block : (n+1)*block]
		for tj, t := range p.trcs {
			for sj, s := range p.samples {
				traces[(t-1)*int64(ns)+(s-1)] = in[tj*len(p.samples)+sj]
			}
			if err := d.markLive(headers, int(t), frame); err != nil {
				return err
			}
		}

		fold, err := d.LeftJustify(traces, headers)
		if err != nil {
			return err
		}
		if err := d.WriteFrameAt(traces, headers, fold, frame); err != nil {
			return err
		}
	}

	return nil
}

// loadRegularized fills the scratch frame with the regularized content of an
// existing frame, or with an all-dead frame when it is empty.
func (d *Dataset) loadRegularized(frame int64, traces []float32, headers []byte) error {
	clear(headers)
	fold, err := d.ReadFrame(frame, traces, headers)
	if err != nil {
		return err
	}

	if fold == 0 {
		clear(traces)
		d.initHeaders(headers, frame)
		return nil
	}

	return d.Regularize(traces, headers)
}

// initHeaders resets a frame's header block to all-dead traces with their
// axis properties named, ready for selective overwrites.
func (d *Dataset) initHeaders(headers []byte, frame int64) {
	tpf := int(d.TracesPerFrame())
	for c := 1; c <= tpf; c++ {
		hdr := d.schema.HeaderSlice(headers, c)
		clear(hdr)
		if d.axes[1].PropertyLabel != "" {
			_ = d.schema.SetInt(hdr, d.axes[1].PropertyLabel, gridToLogical(d.axes[1], int64(c)))
		}
		_ = d.schema.SetInt(hdr, props.LabelTrcType, int64(format.TraceDead))
	}

	d.stampFrameAddress(headers, frame)
}

// markLive flags one trace column live and stamps its axis properties.
func (d *Dataset) markLive(headers []byte, c int, frame int64) error {
	hdr := d.schema.HeaderSlice(headers, c)
	if d.axes[1].PropertyLabel != "" {
		if err := d.schema.SetInt(hdr, d.axes[1].PropertyLabel, gridToLogical(d.axes[1], int64(c))); err != nil {
			return err
		}
	}

	addr, err := d.FrameAddress(frame)
	if err != nil {
		return err
	}
	for k, ax := range d.axes[2:] {
		if ax.PropertyLabel == "" {
			continue
		}
		if err := d.schema.SetInt(hdr, ax.PropertyLabel, addr[k]); err != nil {
			return err
		}
	}

	return d.schema.SetInt(hdr, props.LabelTrcType, int64(format.TraceLive))
}

// stampFrameAddress writes the frame and slower axis coordinates into every
// header column of a frame block.
func (d *Dataset) stampFrameAddress(headers []byte, frame int64) {
	addr, err := d.FrameAddress(frame)
	if err != nil {
		return
	}

	tpf := int(d.TracesPerFrame())
	for c := 1; c <= tpf; c++ {
		hdr := d.schema.HeaderSlice(headers, c)
		for k, ax := range d.axes[2:] {
			_ = d.schema.SetInt(hdr, ax.PropertyLabel, addr[k])
		}
	}
}
