// Package pool provides reusable frame-sized byte buffers.
//
// Frame trace and header blocks are allocated and dropped on every frame
// operation; the pool keeps recently released buffers around so the common
// read-frame/write-frame loop does not allocate per frame. Buffers above the
// retention threshold are discarded on Put to keep a burst of very large
// frames from pinning memory.
package pool

import "sync"

const (
	// FrameBufferDefaultSize is the initial capacity of pooled buffers.
	// A modest starting size; Resize grows a buffer to the frame's record
	// size when a frame needs more.
	FrameBufferDefaultSize = 1024 * 64 // 64KiB

	// FrameBufferMaxThreshold is the largest buffer the pool retains.
	FrameBufferMaxThreshold = 1024 * 1024 * 16 // 16MiB
)

// FrameBuffer is a length-adjustable byte slice handed out by the pool.
type FrameBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewFrameBuffer creates a FrameBuffer with the given initial capacity.
func NewFrameBuffer(defaultSize int) *FrameBuffer {
	return &FrameBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (fb *FrameBuffer) Bytes() []byte {
	return fb.B
}

// Len returns the current length of the buffer.
func (fb *FrameBuffer) Len() int {
	return len(fb.B)
}

// Reset empties the buffer while retaining its allocation.
func (fb *FrameBuffer) Reset() {
	fb.B = fb.B[:0]
}

// Resize sets the buffer length to n bytes, reallocating if the capacity is
// insufficient. The content of the first min(len, n) bytes is preserved.
func (fb *FrameBuffer) Resize(n int) {
	if n <= cap(fb.B) {
		fb.B = fb.B[:n]
		return
	}

	grown := make([]byte, n)
	copy(grown, fb.B)
	fb.B = grown
}

// Zero fills the buffer with zero bytes.
func (fb *FrameBuffer) Zero() {
	clear(fb.B)
}

// FrameBufferPool is a sync.Pool of FrameBuffers with a retention cap.
type FrameBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewFrameBufferPool creates a pool handing out buffers of defaultSize
// capacity and discarding returned buffers larger than maxThreshold.
func NewFrameBufferPool(defaultSize int, maxThreshold int) *FrameBufferPool {
	return &FrameBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewFrameBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a FrameBuffer from the pool.
func (p *FrameBufferPool) Get() *FrameBuffer {
	fb, _ := p.pool.Get().(*FrameBuffer)
	return fb
}

// Put returns a FrameBuffer to the pool for reuse.
func (p *FrameBufferPool) Put(fb *FrameBuffer) {
	if fb == nil {
		return
	}

	if p.maxThreshold > 0 && cap(fb.B) > p.maxThreshold {
		return
	}

	fb.Reset()
	p.pool.Put(fb)
}

var defaultPool = NewFrameBufferPool(FrameBufferDefaultSize, FrameBufferMaxThreshold)

// GetFrameBuffer retrieves a FrameBuffer from the default pool.
func GetFrameBuffer() *FrameBuffer {
	return defaultPool.Get()
}

// PutFrameBuffer returns a FrameBuffer to the default pool.
func PutFrameBuffer(fb *FrameBuffer) {
	defaultPool.Put(fb)
}
