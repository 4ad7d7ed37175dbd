package dataset

import (
	"github.com/openseis/javaseis/format"
	"github.com/openseis/javaseis/internal/options"
	"github.com/openseis/javaseis/parset"
	"github.com/openseis/javaseis/props"
)

// CreateConfig collects the parameters of dataset creation. Zero values mean
// "use the default, or inherit from the similar-to reference when one is
// given"; pointer fields distinguish unset from explicitly set.
type CreateConfig struct {
	similarTo       string
	descriptiveName string
	comments        string

	dataType    *string
	traceFormat *format.TraceFormat
	byteOrder   *format.ByteOrder
	mapped      *bool

	axisLengths []int64
	axes        []Axis

	secondaries []string
	nextents    int // 0 selects the heuristic

	properties    []props.Def
	propertiesAdd []props.Def
	propertiesRm  []string

	dataProps    *parset.ParSet
	dataPropsAdd []*parset.Par
	dataPropsRm  []string

	geometry    *Geometry
	geometrySet bool

	dict props.LabelDict

	// inheritedDefs carries the similar-to reference's full property list
	// into schema assembly; nil when creating from scratch or when an
	// explicit property list replaces it.
	inheritedDefs []props.Def
}

// CreateOption configures dataset creation.
type CreateOption = options.Option[*CreateConfig]

// WithSimilarTo clones metadata from an existing dataset before applying the
// remaining options.
func WithSimilarTo(path string) CreateOption {
	return options.NoError(func(c *CreateConfig) {
		c.similarTo = path
	})
}

// WithDescriptiveName sets the DescriptiveName emitted to Name.properties.
func WithDescriptiveName(name string) CreateOption {
	return options.NoError(func(c *CreateConfig) {
		c.descriptiveName = name
	})
}

// WithComments sets the Comments metadata field.
func WithComments(comments string) CreateOption {
	return options.NoError(func(c *CreateConfig) {
		c.comments = comments
	})
}

// WithDataType sets the DataType metadata field (default CUSTOM).
func WithDataType(dataType string) CreateOption {
	return options.NoError(func(c *CreateConfig) {
		c.dataType = &dataType
	})
}

// WithTraceFormat selects the on-disk trace sample format (default FLOAT).
func WithTraceFormat(f format.TraceFormat) CreateOption {
	return options.NoError(func(c *CreateConfig) {
		c.traceFormat = &f
	})
}

// WithByteOrder selects the header byte order (default LITTLE_ENDIAN).
func WithByteOrder(o format.ByteOrder) CreateOption {
	return options.NoError(func(c *CreateConfig) {
		c.byteOrder = &o
	})
}

// WithMapped selects whether the dataset tracks sparse folds through an
// on-disk trace map (default true).
func WithMapped(mapped bool) CreateOption {
	return options.NoError(func(c *CreateConfig) {
		c.mapped = &mapped
	})
}

// WithAxisLengths sets the bin count of every axis, implying the
// dimensionality. Required unless axes or a similar-to reference supply it.
func WithAxisLengths(lengths ...int64) CreateOption {
	return options.NoError(func(c *CreateConfig) {
		c.axisLengths = lengths
	})
}

// WithAxes supplies the full axis descriptions, overriding the conventional
// defaults.
func WithAxes(axes ...Axis) CreateOption {
	return options.NoError(func(c *CreateConfig) {
		c.axes = axes
	})
}

// WithSecondaries sets the secondary storage roots extents are spread over.
// The root "." stands for the primary directory (the default).
func WithSecondaries(secondaries ...string) CreateOption {
	return options.NoError(func(c *CreateConfig) {
		c.secondaries = secondaries
	})
}

// WithNExtents overrides the extent-count heuristic. The value is clamped to
// [1, 256] and to the total frame count.
func WithNExtents(n int) CreateOption {
	return options.NoError(func(c *CreateConfig) {
		c.nextents = n
	})
}

// WithProperties supplies the full user-defined property list. Mutually
// exclusive with WithPropertiesAdd and WithPropertiesRm.
func WithProperties(defs ...props.Def) CreateOption {
	return options.NoError(func(c *CreateConfig) {
		c.properties = defs
	})
}

// WithPropertiesAdd appends user-defined properties to the inherited set.
func WithPropertiesAdd(defs ...props.Def) CreateOption {
	return options.NoError(func(c *CreateConfig) {
		c.propertiesAdd = defs
	})
}

// WithPropertiesRm removes inherited properties by label; labels with no
// match are ignored.
func WithPropertiesRm(labels ...string) CreateOption {
	return options.NoError(func(c *CreateConfig) {
		c.propertiesRm = labels
	})
}

// WithDataProperties supplies the full CustomProperties parset. Mutually
// exclusive with WithDataPropertiesAdd and WithDataPropertiesRm.
func WithDataProperties(ps *parset.ParSet) CreateOption {
	return options.NoError(func(c *CreateConfig) {
		c.dataProps = ps
	})
}

// WithDataPropertiesAdd appends entries to the inherited CustomProperties.
func WithDataPropertiesAdd(pars ...*parset.Par) CreateOption {
	return options.NoError(func(c *CreateConfig) {
		c.dataPropsAdd = pars
	})
}

// WithDataPropertiesRm removes inherited CustomProperties entries by name;
// names with no match are ignored.
func WithDataPropertiesRm(names ...string) CreateOption {
	return options.NoError(func(c *CreateConfig) {
		c.dataPropsRm = names
	})
}

// WithGeometry attaches the three-point orientation record. Passing nil
// explicitly clears an inherited geometry.
func WithGeometry(g *Geometry) CreateOption {
	return options.NoError(func(c *CreateConfig) {
		c.geometry = g
		c.geometrySet = true
	})
}

// WithLabelDict injects the axis-label dictionary of the parent processing
// system. The SeisSpace defaults apply when unset.
func WithLabelDict(dict props.LabelDict) CreateOption {
	return options.NoError(func(c *CreateConfig) {
		c.dict = dict
	})
}
