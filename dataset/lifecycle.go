package dataset

import (
	"os"
	"path/filepath"
	"strings"
)

// Copy duplicates a dataset: metadata through a similar-to clone, then every
// non-empty frame through the frame codec. Extra create options layer on top
// of the clone.
func Copy(srcPath, dstPath string, opts ...CreateOption) error {
	src, err := Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := Create(dstPath, append([]CreateOption{WithSimilarTo(srcPath)}, opts...)...)
	if err != nil {
		return err
	}
	defer dst.Close()

	traces, headers := src.AllocFrame()
	for frame := int64(1); frame <= src.TotalFrames(); frame++ {
		fold, err := src.ReadFrame(frame, traces, headers)
		if err != nil {
			return err
		}
		if fold == 0 {
			continue
		}

		if err := dst.WriteFrameAt(traces, headers, fold, frame); err != nil {
			return err
		}
	}

	log.Infof("copied dataset %s to %s", srcPath, dstPath)

	return nil
}

// Move is a copy followed by removal of the source.
func Move(srcPath, dstPath string, opts ...CreateOption) error {
	if err := Copy(srcPath, dstPath, opts...); err != nil {
		return err
	}

	return Remove(srcPath)
}

// Remove deletes a dataset: every secondary extent directory first, then the
// primary directory.
func Remove(path string) error {
	d, err := Open(path)
	if err != nil {
		return err
	}

	for _, dir := range d.extentDirs {
		if dir == d.path || filepath.Clean(dir) == filepath.Clean(d.path) {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
	}

	if err := os.RemoveAll(d.path); err != nil {
		return err
	}

	log.Infof("removed dataset %s", path)

	return nil
}

// Empty deletes the dataset's bulk data while keeping its metadata: every
// file whose name begins with TraceFile or TraceHeaders is removed except
// the .xml sidecars, the trace map is zeroed, and the has-traces status is
// cleared.
func (d *Dataset) Empty() error {
	if err := d.checkTraceIO(true); err != nil {
		return err
	}

	for _, dir := range d.extentDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			name := e.Name()
			// The XML sidecars TraceFile.xml and TraceHeaders.xml stay.
			if strings.HasSuffix(name, ".xml") {
				continue
			}
			if strings.HasPrefix(name, "TraceFile") || strings.HasPrefix(name, "TraceHeaders") {
				if err := os.Remove(filepath.Join(dir, name)); err != nil {
					return err
				}
			}
		}
	}

	if err := d.traceMap.Zero(); err != nil {
		return err
	}

	d.hasTraces = false
	if err := d.writeStatus(); err != nil {
		return err
	}

	log.Infof("emptied dataset %s", d.path)

	return nil
}
