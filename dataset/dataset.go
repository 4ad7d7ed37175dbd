// Package dataset implements the JavaSeis storage engine: dataset lifecycle,
// frame and range I/O, sparse fold tracking, and header regularization.
//
// A dataset is a directory of XML and properties sidecars plus extent files
// carrying the trace and header byte streams. Handles are single-threaded:
// operations on one handle are serialized by program order and extent files
// are opened and closed per operation, so distinct processes may read the
// same dataset concurrently. Concurrent writers are undefined behavior.
package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	logging "github.com/op/go-logging"

	"github.com/openseis/javaseis/compress"
	"github.com/openseis/javaseis/endian"
	"github.com/openseis/javaseis/errs"
	"github.com/openseis/javaseis/extent"
	"github.com/openseis/javaseis/format"
	"github.com/openseis/javaseis/internal/options"
	"github.com/openseis/javaseis/parset"
	"github.com/openseis/javaseis/props"
)

var log = logging.MustGetLogger("javaseis")

// Dataset is an open JavaSeis dataset handle.
//
// A handle carries no long-lived file descriptors; every frame or map access
// opens, positions and closes the backing extent file. The only mutable
// state is the trace-map volume cache and the has-traces flag, so a handle
// must not be shared between goroutines without external synchronization.
type Dataset struct {
	path     string
	readOnly bool

	name        string
	comments    string
	version     string
	dataType    string
	traceFormat format.TraceFormat
	byteOrder   format.ByteOrder
	engine      endian.EndianEngine
	mapped      bool
	hasTraces   bool

	axes      []Axis
	schema    *props.Schema
	dataProps *parset.ParSet
	geometry  *Geometry
	dict      props.LabelDict

	codec        compress.Codec // nil when the trace format is metadata-only
	extentDirs   []string
	traceLayout  *extent.Layout
	headerLayout *extent.Layout
	traceMap     *TraceMap
}

// Open opens an existing dataset read-only.
func Open(path string) (*Dataset, error) {
	return open(path, true, props.DefaultLabelDict())
}

// OpenForWrite opens an existing dataset for reading and writing.
func OpenForWrite(path string) (*Dataset, error) {
	return open(path, false, props.DefaultLabelDict())
}

// OpenMode opens or creates a dataset by mode string: "r" opens read-only,
// "r+" opens read-write, "w" creates (create options apply only to "w").
func OpenMode(path, mode string, opts ...CreateOption) (*Dataset, error) {
	switch mode {
	case "r":
		return Open(path)
	case "r+":
		return OpenForWrite(path)
	case "w":
		return Create(path, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", errs.ErrBadMode, mode)
	}
}

// OpenWithDict opens a dataset read-only with an injected axis-label
// dictionary.
func OpenWithDict(path string, dict props.LabelDict) (*Dataset, error) {
	return open(path, true, dict)
}

func open(path string, readOnly bool, dict props.LabelDict) (*Dataset, error) {
	d := &Dataset{
		path:     path,
		readOnly: readOnly,
		dict:     dict,
	}

	if err := d.readMetadata(); err != nil {
		return nil, err
	}

	if d.traceFormat.Writable() {
		codec, err := compress.CreateCodec(d.traceFormat)
		if err != nil {
			return nil, err
		}
		d.codec = codec
	} else {
		// DOUBLE and COMPRESSED_INT32 datasets stay inspectable, but any
		// trace I/O fails with ErrUnknownTraceFormat.
		log.Warningf("dataset %s: trace format %s is metadata-only", path, d.traceFormat)
	}

	d.traceMap = newTraceMap(filepath.Join(path, traceMapFile), d.mapped, readOnly,
		d.FramesPerVolume(), d.TotalFrames(), d.TracesPerFrame())

	return d, nil
}

// Create creates a new dataset directory at path and returns a writable
// handle to it. An existing dataset at the path is replaced.
func Create(path string, opts ...CreateOption) (*Dataset, error) {
	cfg := &CreateConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if len(cfg.properties) > 0 && (len(cfg.propertiesAdd) > 0 || len(cfg.propertiesRm) > 0) {
		return nil, errs.ErrPropertyConflict
	}
	if cfg.dataProps != nil && (len(cfg.dataPropsAdd) > 0 || len(cfg.dataPropsRm) > 0) {
		return nil, errs.ErrPropertyConflict
	}
	if cfg.dict == nil {
		cfg.dict = props.DefaultLabelDict()
	}

	d := &Dataset{
		path:     path,
		readOnly: false,
		version:  javaSeisVersion,
		dict:     cfg.dict,
	}

	var err error
	if cfg.similarTo != "" {
		err = d.applySimilarTo(cfg)
	} else {
		err = d.applyFresh(cfg)
	}
	if err != nil {
		return nil, err
	}

	if !d.traceFormat.Writable() {
		return nil, errs.Preconditionf("trace format %s cannot be written", d.traceFormat)
	}

	codec, err := compress.CreateCodec(d.traceFormat)
	if err != nil {
		return nil, err
	}
	d.codec = codec
	d.engine = endian.ForByteOrder(d.byteOrder)

	if err := d.buildSchema(cfg); err != nil {
		return nil, err
	}
	if err := validateAxes(d.axes, d.schema); err != nil {
		return nil, err
	}
	if err := d.buildLayouts(cfg); err != nil {
		return nil, err
	}
	if err := d.materialize(); err != nil {
		return nil, err
	}

	d.traceMap = newTraceMap(filepath.Join(path, traceMapFile), d.mapped, false,
		d.FramesPerVolume(), d.TotalFrames(), d.TracesPerFrame())
	if err := d.traceMap.Zero(); err != nil {
		return nil, err
	}

	log.Infof("created dataset %s: %dD %s, %d frames, %d+%d extents",
		path, d.NDim(), d.traceFormat, d.TotalFrames(), d.traceLayout.Count(), d.headerLayout.Count())

	return d, nil
}

// applyFresh fills the dataset fields for a from-scratch creation.
func (d *Dataset) applyFresh(cfg *CreateConfig) error {
	if len(cfg.propertiesAdd) > 0 || len(cfg.propertiesRm) > 0 ||
		len(cfg.dataPropsAdd) > 0 || len(cfg.dataPropsRm) > 0 {
		return errs.Preconditionf("property add/rm edits require a similar-to reference")
	}

	d.name = cfg.descriptiveName
	d.comments = cfg.comments
	d.dataType = orDefault(cfg.dataType, format.DataTypeCustom)
	d.traceFormat = orDefault(cfg.traceFormat, format.FormatFloat32)
	d.byteOrder = orDefault(cfg.byteOrder, format.LittleEndian)
	d.mapped = orDefault(cfg.mapped, true)
	d.geometry = cfg.geometry
	d.dataProps = cfg.dataProps

	switch {
	case len(cfg.axes) > 0:
		d.axes = cfg.axes
	case len(cfg.axisLengths) > 0:
		if len(cfg.axisLengths) < 3 || len(cfg.axisLengths) > 5 {
			return errs.ErrBadDimensions
		}
		d.axes = defaultAxes(cfg.axisLengths, d.dict)
	default:
		return errs.ErrMissingAxisLengths
	}

	return nil
}

// applySimilarTo clones metadata from the reference dataset, then lays the
// caller's overrides on top.
func (d *Dataset) applySimilarTo(cfg *CreateConfig) error {
	ref, err := OpenWithDict(cfg.similarTo, d.dict)
	if err != nil {
		return err
	}

	d.name = cfg.descriptiveName
	d.comments = cfg.comments
	d.dataType = orDefault(cfg.dataType, ref.dataType)
	d.traceFormat = orDefault(cfg.traceFormat, ref.traceFormat)
	d.byteOrder = orDefault(cfg.byteOrder, ref.byteOrder)
	d.mapped = orDefault(cfg.mapped, ref.mapped)

	if cfg.geometrySet {
		d.geometry = cfg.geometry
	} else {
		d.geometry = ref.geometry
	}

	switch {
	case len(cfg.axes) > 0:
		d.axes = cfg.axes
	default:
		d.axes = ref.Axes()
		if len(cfg.axisLengths) > 0 {
			if len(cfg.axisLengths) != len(d.axes) {
				return errs.Preconditionf("axis length override has %d entries for a %dD reference",
					len(cfg.axisLengths), len(d.axes))
			}
			for i := range d.axes {
				d.axes[i].Length = cfg.axisLengths[i]
			}
		}
	}

	// Inherit the full property list unless an explicit one was given; the
	// add/rm edits are resolved against the inherited list in buildSchema.
	if len(cfg.properties) == 0 {
		cfg.inheritedDefs = ref.schema.Defs()
	}

	if cfg.dataProps != nil {
		d.dataProps = cfg.dataProps
	} else {
		d.dataProps = cloneDataProps(ref.dataProps)
		for _, name := range cfg.dataPropsRm {
			removePar(d.dataProps, name)
		}
		for _, p := range cfg.dataPropsAdd {
			if d.dataProps == nil {
				d.dataProps = parset.New(customParset)
			}
			d.dataProps.Pars = append(d.dataProps.Pars, p)
		}
	}

	return nil
}

// buildSchema assembles the header schema. A fresh dataset gets the
// [stock, user, axis] order; a similar-to clone keeps the reference's
// property order with the add/rm edits applied, so unrelated byte offsets
// survive the clone.
func (d *Dataset) buildSchema(cfg *CreateConfig) error {
	var axisDefs []props.Def
	for _, ax := range d.axes {
		if ax.PropertyLabel == "" {
			continue
		}
		def, ok := props.KnownDef(ax.PropertyLabel)
		if !ok {
			def = props.Def{
				Label:       ax.PropertyLabel,
				Description: ax.Label + " axis index",
				Format:      props.FormatInt32,
				Count:       1,
			}
		}
		axisDefs = append(axisDefs, def)
	}

	if cfg.inheritedDefs != nil {
		kept := props.RemoveDefs(cfg.inheritedDefs, cfg.propertiesRm)
		d.schema = props.Build(d.engine, kept, cfg.propertiesAdd, axisDefs)
	} else {
		d.schema = props.Build(d.engine, props.StockDefs(), cfg.properties, axisDefs)
	}

	return nil
}

// buildLayouts computes the trace and header extent sets.
func (d *Dataset) buildLayouts(cfg *CreateConfig) error {
	secondaries := cfg.secondaries
	if len(secondaries) == 0 {
		secondaries = []string{"."}
	}

	dirs, err := extent.ResolveDirs(secondaries, d.path)
	if err != nil {
		return err
	}
	d.extentDirs = dirs

	totalFrames := d.TotalFrames()
	tpf := d.TracesPerFrame()
	traceBytes := totalFrames * tpf * int64(d.codec.TraceLength(int(d.SamplesPerTrace())))

	n := cfg.nextents
	if n == 0 {
		n = extent.DefaultCount(traceBytes, totalFrames)
	} else {
		n = extent.ClampCount(n, totalFrames)
	}

	d.traceLayout, err = extent.NewLayout(extent.TraceStream, dirs, totalFrames, tpf,
		int64(d.codec.TraceLength(int(d.SamplesPerTrace()))), n)
	if err != nil {
		return err
	}

	d.headerLayout, err = extent.NewLayout(extent.HeaderStream, dirs, totalFrames, tpf,
		int64(d.schema.Length()), n)
	if err != nil {
		return err
	}

	return nil
}

// materialize creates the directories and writes every sidecar of a fresh
// dataset.
func (d *Dataset) materialize() error {
	if err := os.RemoveAll(d.path); err != nil {
		return err
	}
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return err
	}
	for _, dir := range append(d.traceLayout.Directories(), d.headerLayout.Directories()...) {
		if filepath.Clean(dir) != filepath.Clean(d.path) {
			if err := os.RemoveAll(dir); err != nil {
				return err
			}
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	if err := d.writeFileProperties(); err != nil {
		return err
	}
	if err := d.writeExtentManager(extent.TraceStream, d.traceLayout); err != nil {
		return err
	}
	if err := d.writeExtentManager(extent.HeaderStream, d.headerLayout); err != nil {
		return err
	}
	if err := d.writeVirtualFolders(); err != nil {
		return err
	}
	if err := d.writeNameProperties(); err != nil {
		return err
	}

	return d.writeStatus()
}

// defaultAxes builds the conventional axes for the given lengths: SAMPLE,
// TRACE, FRAME, VOLUME, HYPRCUBE with identity logical grids.
func defaultAxes(lengths []int64, dict props.LabelDict) []Axis {
	labels := props.DefaultAxisLabels(len(lengths))
	axes := make([]Axis, len(lengths))
	for i, n := range lengths {
		axes[i] = DefaultAxis(labels[i], dict.PropertyLabel(labels[i]), n)
	}

	return axes
}

func orDefault[T any](p *T, def T) T {
	if p != nil {
		return *p
	}

	return def
}

// Path returns the primary directory of the dataset.
func (d *Dataset) Path() string {
	return d.path
}

// Name returns the descriptive name.
func (d *Dataset) Name() string {
	return d.name
}

// Comments returns the Comments metadata field.
func (d *Dataset) Comments() string {
	return d.comments
}

// DataType returns the DataType metadata field.
func (d *Dataset) DataType() string {
	return d.dataType
}

// TraceFormat returns the on-disk trace sample format.
func (d *Dataset) TraceFormat() format.TraceFormat {
	return d.traceFormat
}

// ByteOrder returns the declared header byte order.
func (d *Dataset) ByteOrder() format.ByteOrder {
	return d.byteOrder
}

// Mapped reports whether sparse folds are tracked through the trace map.
func (d *Dataset) Mapped() bool {
	return d.mapped
}

// HasTraces reports whether any frame has been written with a nonzero fold.
func (d *Dataset) HasTraces() bool {
	return d.hasTraces
}

// ReadOnly reports whether the handle was opened read-only.
func (d *Dataset) ReadOnly() bool {
	return d.readOnly
}

// NDim returns the dataset dimensionality (3 to 5).
func (d *Dataset) NDim() int {
	return len(d.axes)
}

// Axes returns a copy of the axis descriptions, sample axis first.
func (d *Dataset) Axes() []Axis {
	out := make([]Axis, len(d.axes))
	copy(out, d.axes)

	return out
}

// Axis returns the k-th axis, 1-based.
func (d *Dataset) Axis(k int) Axis {
	return d.axes[k-1]
}

// SamplesPerTrace returns the length of the sample axis.
func (d *Dataset) SamplesPerTrace() int64 {
	return d.axes[0].Length
}

// TracesPerFrame returns the length of the trace axis.
func (d *Dataset) TracesPerFrame() int64 {
	return d.axes[1].Length
}

// FramesPerVolume returns the length of the frame axis.
func (d *Dataset) FramesPerVolume() int64 {
	return d.axes[2].Length
}

// TotalFrames returns the product of the frame and slower axis lengths.
func (d *Dataset) TotalFrames() int64 {
	total := int64(1)
	for _, ax := range d.axes[2:] {
		total *= ax.Length
	}

	return total
}

// Schema returns the header schema.
func (d *Dataset) Schema() *props.Schema {
	return d.schema
}

// HeaderLength returns the per-trace header record length in bytes.
func (d *Dataset) HeaderLength() int {
	return d.schema.Length()
}

// DataProperties returns the CustomProperties parset, or nil when absent.
func (d *Dataset) DataProperties() *parset.ParSet {
	return d.dataProps
}

// DataProperty returns one CustomProperties entry by name.
func (d *Dataset) DataProperty(name string) (*parset.Par, error) {
	if d.dataProps != nil {
		if p, err := d.dataProps.Par(name); err == nil {
			return p, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", errs.ErrDataPropertyNotFound, name)
}

// Geometry returns the three-point orientation record, or nil when absent.
func (d *Dataset) Geometry() *Geometry {
	return d.geometry
}

// Fold returns the live-trace count of a linear frame index.
func (d *Dataset) Fold(frame int64) (int32, error) {
	return d.traceMap.Fold(frame)
}

// Close releases the handle. The engine keeps no file descriptors open
// between operations, so Close only drops the trace-map cache.
func (d *Dataset) Close() error {
	d.traceMap.cachedVolume = 0

	return nil
}
