// Package extent computes and resolves the extent files backing a dataset's
// trace and header byte streams.
//
// A stream (all trace records, or all header records) is split across
// fixed-size extent files named <stream>0, <stream>1, ... Every extent but
// the last has the same capacity, so locating the extent for a byte offset
// is a single division. Extents are distributed round-robin over the
// dataset's secondary storage roots; the secondary "." stands for the
// primary directory itself.
package extent

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/openseis/javaseis/errs"
)

// Stream names of the two extent sets of a dataset.
const (
	TraceStream  = "TraceFile"
	HeaderStream = "TraceHeaders"
)

const (
	targetExtentBytes = 2 << 30 // 2GiB heuristic divisor
	maxExtentCount    = 256
)

// Environment variables consulted when mapping a dataset path onto a
// secondary storage root.
var dataHomeVars = []string{"JAVASEIS_DATA_HOME", "PROMAX_DATA_HOME"}

// Extent is one contiguous file carrying a slice of a dataset byte stream.
type Extent struct {
	Name  string // file name, e.g. "TraceFile3"
	Path  string // absolute path of the extent file
	Index int
	Start int64 // byte offset of the extent's first byte in the stream
	Size  int64 // byte capacity
}

// Layout is the full extent set of one stream plus the uniform-size lookup.
type Layout struct {
	name    string
	extents []Extent
	extSize int64 // capacity of every extent but possibly the last
	total   int64 // total stream bytes
}

// DefaultCount returns the extent count heuristic:
// clamp(10 + ceil(totalBytes/2GiB), 1, 256), capped at totalFrames.
func DefaultCount(totalBytes, totalFrames int64) int {
	n := int64(10) + (totalBytes+targetExtentBytes-1)/targetExtentBytes
	if n < 1 {
		n = 1
	}
	if n > maxExtentCount {
		n = maxExtentCount
	}
	if n > totalFrames {
		n = totalFrames
	}

	return int(n)
}

// ClampCount bounds a caller-chosen extent count the same way the heuristic
// is bounded.
func ClampCount(n int, totalFrames int64) int {
	if n < 1 {
		n = 1
	}
	if n > maxExtentCount {
		n = maxExtentCount
	}
	if int64(n) > totalFrames {
		n = int(totalFrames)
	}

	return n
}

// ResolveDir maps a dataset path onto a secondary storage root.
//
// For the secondary ".", the extent directory is the dataset directory
// itself. Otherwise, when a data-home environment variable is set, it must
// be a prefix of the absolute dataset path and is replaced by the secondary
// root; a set-but-mismatched home is a configuration error. Without a data
// home, the dataset path is appended under the secondary root.
func ResolveDir(secondary, datasetPath string) (string, error) {
	abs := datasetPath
	if !filepath.IsAbs(abs) {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		abs = filepath.Join(wd, abs)
	}

	if secondary == "." {
		return abs, nil
	}

	for _, v := range dataHomeVars {
		home := os.Getenv(v)
		if home == "" {
			continue
		}

		// Prefix matching is path-boundary aware: /data must not claim
		// /data2/line.js.
		cleanHome := filepath.Clean(home)
		if abs != cleanHome && !strings.HasPrefix(abs, cleanHome+string(filepath.Separator)) {
			return "", errs.Environmentf("%s=%q is not a prefix of dataset path %q", v, home, abs)
		}

		return filepath.Join(secondary, strings.TrimPrefix(abs, cleanHome)), nil
	}

	return filepath.Join(secondary, strings.TrimPrefix(abs, string(filepath.Separator))), nil
}

// ResolveDirs maps every secondary root onto its extent directory for the
// given dataset path.
func ResolveDirs(secondaries []string, datasetPath string) ([]string, error) {
	if len(secondaries) == 0 {
		secondaries = []string{"."}
	}

	dirs := make([]string, len(secondaries))
	for i, s := range secondaries {
		dir, err := ResolveDir(s, datasetPath)
		if err != nil {
			return nil, err
		}
		dirs[i] = dir
	}

	return dirs, nil
}

// NewLayout computes the extent set for a stream being created.
//
// The extent capacity is ceil(totalFrames/nextents) whole frames, so a frame
// never straddles an extent; the actual file count may come out below
// nextents when the per-extent frame count rounds up.
//
// Parameters:
//   - name: Stream name, TraceStream or HeaderStream.
//   - dirs: Resolved extent directories; extents round-robin across them.
//   - totalFrames, tracesPerFrame: Framework geometry.
//   - recordBytes: On-disk bytes of one trace record in this stream.
//   - nextents: Extent count, already clamped by the caller.
func NewLayout(name string, dirs []string, totalFrames, tracesPerFrame, recordBytes int64, nextents int) (*Layout, error) {
	framesPerExtent := (totalFrames + int64(nextents) - 1) / int64(nextents)
	extSize := framesPerExtent * tracesPerFrame * recordBytes
	total := totalFrames * tracesPerFrame * recordBytes

	return buildLayout(name, dirs, extSize, total)
}

// LoadLayout rebuilds the extent set of an existing stream from its
// ExtentManager metadata (VFIO_EXTSIZE and VFIO_MAXPOS).
func LoadLayout(name string, dirs []string, extSize, maxPos int64) (*Layout, error) {
	if extSize <= 0 || maxPos < 0 {
		return nil, fmt.Errorf("%w: %s extsize=%d maxpos=%d", errs.ErrInconsistentExtents, name, extSize, maxPos)
	}

	return buildLayout(name, dirs, extSize, maxPos+1)
}

func buildLayout(name string, dirs []string, extSize, total int64) (*Layout, error) {
	if extSize <= 0 || total <= 0 {
		return nil, fmt.Errorf("%w: %s extsize=%d total=%d", errs.ErrInconsistentExtents, name, extSize, total)
	}
	if len(dirs) == 0 {
		return nil, fmt.Errorf("%w: %s has no extent directories", errs.ErrInconsistentExtents, name)
	}

	n := int((total + extSize - 1) / extSize)
	l := &Layout{
		name:    name,
		extents: make([]Extent, n),
		extSize: extSize,
		total:   total,
	}

	for i := range l.extents {
		dir := dirs[i%len(dirs)]

		size := extSize
		start := int64(i) * extSize
		if start+size > total {
			size = total - start
		}

		extName := name + strconv.Itoa(i)
		l.extents[i] = Extent{
			Name:  extName,
			Path:  filepath.Join(dir, extName),
			Index: i,
			Start: start,
			Size:  size,
		}
	}

	return l, nil
}

// At returns the extent covering the given stream byte offset.
func (l *Layout) At(offset int64) (*Extent, error) {
	idx := int(offset / l.extSize)
	if offset < 0 || idx >= len(l.extents) {
		return nil, errs.Preconditionf("offset %d outside %s stream of %d bytes", offset, l.name, l.total)
	}

	return &l.extents[idx], nil
}

// Name returns the stream name.
func (l *Layout) Name() string {
	return l.name
}

// Count returns the number of extent files.
func (l *Layout) Count() int {
	return len(l.extents)
}

// Extents returns the extent set in index order.
func (l *Layout) Extents() []Extent {
	out := make([]Extent, len(l.extents))
	copy(out, l.extents)

	return out
}

// ExtentSize returns the uniform extent capacity.
func (l *Layout) ExtentSize() int64 {
	return l.extSize
}

// TotalBytes returns the total stream size in bytes.
func (l *Layout) TotalBytes() int64 {
	return l.total
}

// Directories returns the distinct directories holding this layout's
// extents, in first-use order.
func (l *Layout) Directories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range l.extents {
		dir := filepath.Dir(e.Path)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		out = append(out, dir)
	}

	return out
}
