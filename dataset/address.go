package dataset

import (
	"fmt"

	"github.com/openseis/javaseis/errs"
)

// FrameIndex converts a logical N-D address over the frame and slower axes
// into the 1-based linear frame index.
//
// addr holds one logical coordinate per axis from the frame axis outward,
// so a 4-D dataset takes (frame, volume). Coordinates honor each axis's
// logical origin and increment; off-grid or out-of-range coordinates fail
// with a precondition error.
func (d *Dataset) FrameIndex(addr ...int64) (int64, error) {
	if len(addr) != d.NDim()-2 {
		return 0, errs.Preconditionf("address has %d coordinates, want %d", len(addr), d.NDim()-2)
	}

	frame := int64(1)
	stride := int64(1)
	for k, ax := range d.axes[2:] {
		i := addr[k]
		grid := (i - ax.LogicalOrigin) / ax.LogicalDelta
		if grid*ax.LogicalDelta != i-ax.LogicalOrigin {
			return 0, fmt.Errorf("%w: %d on axis %q (origin %d, delta %d)",
				errs.ErrOffGridAddress, i, ax.Label, ax.LogicalOrigin, ax.LogicalDelta)
		}
		if grid < 0 || grid >= ax.Length {
			return 0, fmt.Errorf("%w: %d on axis %q", errs.ErrFrameOutOfRange, i, ax.Label)
		}

		frame += grid * stride
		stride *= ax.Length
	}

	return frame, nil
}

// FrameAddress is the column-major inverse of FrameIndex: it maps a linear
// frame index back to the logical coordinates of the frame and slower axes.
func (d *Dataset) FrameAddress(frame int64) ([]int64, error) {
	if frame < 1 || frame > d.TotalFrames() {
		return nil, fmt.Errorf("%w: frame %d of %d", errs.ErrFrameOutOfRange, frame, d.TotalFrames())
	}

	rem := frame - 1
	addr := make([]int64, d.NDim()-2)
	for k, ax := range d.axes[2:] {
		grid := rem % ax.Length
		rem /= ax.Length
		addr[k] = ax.LogicalOrigin + grid*ax.LogicalDelta
	}

	return addr, nil
}

// logicalToGrid converts a logical coordinate on an axis to its 1-based grid
// position.
func logicalToGrid(ax Axis, v int64) (int64, error) {
	grid := (v - ax.LogicalOrigin) / ax.LogicalDelta
	if grid*ax.LogicalDelta != v-ax.LogicalOrigin {
		return 0, fmt.Errorf("%w: %d on axis %q (origin %d, delta %d)",
			errs.ErrOffGridAddress, v, ax.Label, ax.LogicalOrigin, ax.LogicalDelta)
	}
	if grid < 0 || grid >= ax.Length {
		return 0, fmt.Errorf("%w: %d on axis %q", errs.ErrFrameOutOfRange, v, ax.Label)
	}

	return grid + 1, nil
}

// gridToLogical converts a 1-based grid position to its logical coordinate.
func gridToLogical(ax Axis, grid int64) int64 {
	return ax.LogicalOrigin + (grid-1)*ax.LogicalDelta
}
