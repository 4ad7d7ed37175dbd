// Package javaseis reads and writes JavaSeis seismic datasets: frame-oriented,
// sparsely populated, multidimensional trace containers spread across
// fixed-size extent files.
//
// # Core Features
//
//   - 3- to 5-dimensional frameworks (sample, trace, frame, volume, hypercube)
//   - Sparse fold tracking through an on-disk trace map with volume paging
//   - FLOAT and COMPRESSED_INT16 trace formats with per-trace scaling
//   - Fixed-offset typed trace headers with schema editing on clone
//   - Extent files distributed across secondary storage roots
//   - Left-justification and regularization of sparse frames
//   - Rectangular range reads and writes over the logical grid
//
// # Basic Usage
//
// Creating a 3-D dataset and writing a frame:
//
//	import (
//	    "github.com/openseis/javaseis"
//	    "github.com/openseis/javaseis/dataset"
//	)
//
//	ds, _ := javaseis.Create("/data/line42.js",
//	    dataset.WithAxisLengths(1251, 120, 400),
//	)
//	traces, headers := ds.AllocFrame()
//	// ... fill samples, set TRC_TYPE and TRACE on each header ...
//	ds.WriteFrameAt(traces, headers, 120, 1)
//
// Reading it back:
//
//	ds, _ := javaseis.Open("/data/line42.js")
//	traces, headers := ds.AllocFrame()
//	fold, _ := ds.ReadFrame(1, traces, headers)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the dataset
// package. For fine-grained control (create options, selectors, header
// schema access), use the dataset package directly.
package javaseis

import (
	"github.com/openseis/javaseis/dataset"
)

// Dataset is an open dataset handle; see the dataset package for the full
// API surface.
type Dataset = dataset.Dataset

// Axis describes one framework dimension.
type Axis = dataset.Axis

// Geometry is the optional three-point orientation record.
type Geometry = dataset.Geometry

// Open opens an existing dataset read-only.
func Open(path string) (*Dataset, error) {
	return dataset.Open(path)
}

// OpenForWrite opens an existing dataset for reading and writing.
func OpenForWrite(path string) (*Dataset, error) {
	return dataset.OpenForWrite(path)
}

// Create creates a new dataset, replacing any existing one at the path.
//
// Example:
//
//	ds, err := javaseis.Create("/data/stack.js",
//	    dataset.WithAxisLengths(1001, 240, 800),
//	    dataset.WithTraceFormat(format.FormatInt16),
//	    dataset.WithSecondaries("/ssd1", "/ssd2"),
//	)
func Create(path string, opts ...dataset.CreateOption) (*Dataset, error) {
	return dataset.Create(path, opts...)
}

// Copy duplicates a dataset, frame by frame.
func Copy(srcPath, dstPath string, opts ...dataset.CreateOption) error {
	return dataset.Copy(srcPath, dstPath, opts...)
}

// Move copies a dataset and removes the source.
func Move(srcPath, dstPath string, opts ...dataset.CreateOption) error {
	return dataset.Move(srcPath, dstPath, opts...)
}

// Remove deletes a dataset, secondary extent directories included.
func Remove(path string) error {
	return dataset.Remove(path)
}

// Empty deletes a dataset's bulk data while keeping its metadata.
func Empty(path string) error {
	ds, err := dataset.OpenForWrite(path)
	if err != nil {
		return err
	}
	defer ds.Close()

	return ds.Empty()
}
