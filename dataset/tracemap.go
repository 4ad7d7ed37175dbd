package dataset

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/openseis/javaseis/errs"
)

// traceMapFile is the fold map's file name under the primary directory.
const traceMapFile = "TraceMap"

// TraceMap tracks the live-trace count of every frame of a mapped dataset.
//
// The disk image is a raw little-endian int32 array of length totalFrames.
// In memory a single volume's worth of entries is cached; touching a frame
// in another volume evicts the cache and pages that volume in. For unmapped
// datasets every frame reports the full traces-per-frame fold and SetFold is
// a no-op.
//
// Frames and volumes are 1-based; byte offsets inside the file are 0-based.
type TraceMap struct {
	path            string
	mapped          bool
	readOnly        bool
	framesPerVolume int64
	totalFrames     int64
	tracesPerFrame  int64

	cache        []int32
	cachedVolume int64 // 1-based; 0 means nothing cached
	loads        int   // volume page-ins, for cache behavior tests
}

func newTraceMap(path string, mapped, readOnly bool, framesPerVolume, totalFrames, tracesPerFrame int64) *TraceMap {
	m := &TraceMap{
		path:            path,
		mapped:          mapped,
		readOnly:        readOnly,
		framesPerVolume: framesPerVolume,
		totalFrames:     totalFrames,
		tracesPerFrame:  tracesPerFrame,
	}
	if mapped {
		m.cache = make([]int32, framesPerVolume)
	}

	return m
}

// volume returns the 1-based volume index owning a 1-based frame index.
func (m *TraceMap) volume(frame int64) int64 {
	return (frame-1)/m.framesPerVolume + 1
}

// checkFrame validates a 1-based linear frame index.
func (m *TraceMap) checkFrame(frame int64) error {
	if frame < 1 || frame > m.totalFrames {
		return fmt.Errorf("%w: frame %d of %d", errs.ErrFrameOutOfRange, frame, m.totalFrames)
	}

	return nil
}

// Fold returns the live-trace count of a frame, paging in its volume when it
// is not the cached one. Unmapped datasets report every frame full.
func (m *TraceMap) Fold(frame int64) (int32, error) {
	if err := m.checkFrame(frame); err != nil {
		return 0, err
	}
	if !m.mapped {
		return int32(m.tracesPerFrame), nil
	}

	vol := m.volume(frame)
	if vol != m.cachedVolume {
		if err := m.load(vol); err != nil {
			return 0, err
		}
	}

	pos := frame - (vol-1)*m.framesPerVolume // 1-based within the volume

	return m.cache[pos-1], nil
}

// SetFold records a frame's fold in the map file and in the cache when the
// frame's volume is resident. Unmapped datasets ignore the call.
func (m *TraceMap) SetFold(frame int64, fold int32) error {
	if err := m.checkFrame(frame); err != nil {
		return err
	}
	if !m.mapped {
		return nil
	}
	if m.readOnly {
		return errs.ErrReadOnly
	}

	f, err := os.OpenFile(m.path, os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(fold))
	if _, err := f.WriteAt(buf[:], (frame-1)*4); err != nil {
		return err
	}

	if vol := m.volume(frame); vol == m.cachedVolume {
		m.cache[frame-(vol-1)*m.framesPerVolume-1] = fold
	}

	return nil
}

// load pages one volume of fold entries into the cache, evicting whatever
// was resident.
func (m *TraceMap) load(vol int64) error {
	f, err := os.Open(m.path)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := make([]byte, m.framesPerVolume*4)
	if _, err := f.ReadAt(buf, (vol-1)*m.framesPerVolume*4); err != nil {
		return err
	}

	for i := range m.cache {
		m.cache[i] = int32(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	m.cachedVolume = vol
	m.loads++

	return nil
}

// Zero rewrites the map file as all-zero fold entries and drops the cache.
func (m *TraceMap) Zero() error {
	if !m.mapped {
		return nil
	}
	if m.readOnly {
		return errs.ErrReadOnly
	}

	if err := os.WriteFile(m.path, make([]byte, m.totalFrames*4), 0o644); err != nil {
		return err
	}
	m.cachedVolume = 0

	return nil
}
