package dataset

import (
	"fmt"
	"os"

	"github.com/openseis/javaseis/errs"
	"github.com/openseis/javaseis/extent"
	"github.com/openseis/javaseis/internal/pool"
)

// Frame I/O.
//
// A frame's traces live in one trace extent and its headers in one header
// extent; the uniform extent sizing guarantees a frame never straddles two
// files. Only the first fold records of a frame exist on disk; the sparse
// fold model relies on the trace map, not zero padding. Write ordering is
// frame body, then headers, then the trace-map entry, then the status flip,
// so a reader racing a writer sees the partial frame as empty.

// TraceRecordLength returns the on-disk bytes of one trace record.
func (d *Dataset) TraceRecordLength() int {
	return d.codec.TraceLength(int(d.SamplesPerTrace()))
}

// AllocFrame allocates a full frame: ns×tpf samples column-major (trace i
// occupies samples [(i-1)·ns, i·ns)) and the matching header block.
func (d *Dataset) AllocFrame() ([]float32, []byte) {
	ns := int(d.SamplesPerTrace())
	tpf := int(d.TracesPerFrame())

	return make([]float32, ns*tpf), make([]byte, d.schema.Length()*tpf)
}

// AllocFrameBuf allocates a byte buffer sized for fold on-disk trace
// records of the active format.
func (d *Dataset) AllocFrameBuf(fold int) []byte {
	return make([]byte, d.TraceRecordLength()*fold)
}

// checkTraceIO validates that trace data can move through this handle.
func (d *Dataset) checkTraceIO(write bool) error {
	if d.codec == nil {
		return fmt.Errorf("%w: %s", errs.ErrUnknownTraceFormat, d.traceFormat)
	}
	if write && d.readOnly {
		return errs.ErrReadOnly
	}

	return nil
}

// ReadFrame reads the traces and headers of a linear frame index.
//
// Returns the frame's fold. A fold of zero is an empty frame, a first-class
// result: the buffers are left untouched. Otherwise the first fold columns
// of both buffers hold the live traces in left-justified order; the
// remaining columns are undefined until the caller regularizes.
func (d *Dataset) ReadFrame(frame int64, traces []float32, headers []byte) (int, error) {
	fold, err := d.readFrameTraces(frame, traces)
	if err != nil || fold == 0 {
		return fold, err
	}

	if err := d.readFrameHeaders(frame, headers, fold); err != nil {
		return 0, err
	}

	return fold, nil
}

// ReadFrameTrcs reads only the trace samples of a frame.
func (d *Dataset) ReadFrameTrcs(frame int64, traces []float32) (int, error) {
	return d.readFrameTraces(frame, traces)
}

// ReadFrameHdrs reads only the headers of a frame.
func (d *Dataset) ReadFrameHdrs(frame int64, headers []byte) (int, error) {
	if err := d.checkTraceIO(false); err != nil {
		return 0, err
	}

	fold, err := d.foldForIO(frame)
	if err != nil || fold == 0 {
		return 0, err
	}

	if err := d.readFrameHeaders(frame, headers, fold); err != nil {
		return 0, err
	}

	return fold, nil
}

func (d *Dataset) foldForIO(frame int64) (int, error) {
	fold, err := d.traceMap.Fold(frame)
	if err != nil {
		return 0, err
	}
	if int64(fold) > d.TracesPerFrame() || fold < 0 {
		return 0, errs.Malformedf("frame %d has fold %d of %d traces", frame, fold, d.TracesPerFrame())
	}

	return int(fold), nil
}

func (d *Dataset) readFrameTraces(frame int64, traces []float32) (int, error) {
	if err := d.checkTraceIO(false); err != nil {
		return 0, err
	}

	fold, err := d.foldForIO(frame)
	if err != nil || fold == 0 {
		return 0, err
	}

	ns := int(d.SamplesPerTrace())
	recLen := d.TraceRecordLength()
	offset := (frame - 1) * d.TracesPerFrame() * int64(recLen)

	buf := pool.GetFrameBuffer()
	defer pool.PutFrameBuffer(buf)
	buf.Resize(recLen * fold)

	if err := readExtentAt(d.traceLayout, offset, buf.Bytes()); err != nil {
		return 0, err
	}

	for i := 0; i < fold; i++ {
		d.codec.DecodeTrace(buf.Bytes()[i*recLen:], traces[i*ns:(i+1)*ns])
	}

	return fold, nil
}

func (d *Dataset) readFrameHeaders(frame int64, headers []byte, fold int) error {
	hlen := d.schema.Length()
	offset := (frame - 1) * d.TracesPerFrame() * int64(hlen)

	return readExtentAt(d.headerLayout, offset, headers[:fold*hlen])
}

// WriteFrame writes a left-justified frame, deriving the target frame index
// from the axis properties of the first live trace's header.
//
// Returns the linear frame index written.
func (d *Dataset) WriteFrame(traces []float32, headers []byte, fold int) (int64, error) {
	if err := d.checkTraceIO(true); err != nil {
		return 0, err
	}
	if fold < 1 {
		return 0, errs.NotFoundf("cannot derive a frame index from an empty frame")
	}

	hdr := d.schema.HeaderSlice(headers, 1)
	addr := make([]int64, d.NDim()-2)
	for k, ax := range d.axes[2:] {
		v, err := d.schema.GetInt(hdr, ax.PropertyLabel)
		if err != nil {
			return 0, err
		}
		addr[k] = v
	}

	frame, err := d.FrameIndex(addr...)
	if err != nil {
		return 0, err
	}

	return frame, d.WriteFrameAt(traces, headers, fold, frame)
}

// WriteFrameAt writes a left-justified frame at an explicit linear frame
// index. Only the first fold trace and header records are written; the
// trace map is updated last so readers never observe a partial frame.
func (d *Dataset) WriteFrameAt(traces []float32, headers []byte, fold int, frame int64) error {
	if err := d.checkTraceIO(true); err != nil {
		return err
	}
	if fold < 0 || int64(fold) > d.TracesPerFrame() {
		return errs.ErrFoldOutOfRange
	}
	if frame < 1 || frame > d.TotalFrames() {
		return fmt.Errorf("%w: frame %d of %d", errs.ErrFrameOutOfRange, frame, d.TotalFrames())
	}

	ns := int(d.SamplesPerTrace())
	recLen := d.TraceRecordLength()
	hlen := d.schema.Length()

	if fold > 0 {
		buf := pool.GetFrameBuffer()
		buf.Resize(recLen * fold)
		for i := 0; i < fold; i++ {
			d.codec.EncodeTrace(traces[i*ns:(i+1)*ns], buf.Bytes()[i*recLen:])
		}

		offset := (frame - 1) * d.TracesPerFrame() * int64(recLen)
		err := writeExtentAt(d.traceLayout, offset, buf.Bytes())
		pool.PutFrameBuffer(buf)
		if err != nil {
			return err
		}

		hdrOffset := (frame - 1) * d.TracesPerFrame() * int64(hlen)
		if err := writeExtentAt(d.headerLayout, hdrOffset, headers[:fold*hlen]); err != nil {
			return err
		}
	}

	if err := d.traceMap.SetFold(frame, int32(fold)); err != nil {
		return err
	}

	if !d.hasTraces && fold > 0 {
		d.hasTraces = true
		return d.writeStatus()
	}

	return nil
}

// readExtentAt reads len(buf) bytes at a stream offset, opening and closing
// the covering extent file around the call.
func readExtentAt(l *extent.Layout, offset int64, buf []byte) error {
	ext, err := l.At(offset)
	if err != nil {
		return err
	}

	f, err := os.Open(ext.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.ReadAt(buf, offset-ext.Start)

	return err
}

// writeExtentAt writes buf at a stream offset, creating the extent file on
// first touch.
func writeExtentAt(l *extent.Layout, offset int64, buf []byte) error {
	ext, err := l.At(offset)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(ext.Path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteAt(buf, offset-ext.Start)

	return err
}
