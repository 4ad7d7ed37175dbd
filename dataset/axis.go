package dataset

import (
	"fmt"

	"github.com/openseis/javaseis/errs"
	"github.com/openseis/javaseis/format"
	"github.com/openseis/javaseis/props"
)

// Axis describes one framework dimension: its bin count, the header property
// that indexes it, unit and domain labels, and the logical (integer) and
// physical (float) coordinate systems along it.
type Axis struct {
	Label          string
	PropertyLabel  string // backing trace property; may be empty for the sample and trace axes
	Units          string
	Domain         string
	Length         int64
	LogicalOrigin  int64
	LogicalDelta   int64
	PhysicalOrigin float64
	PhysicalDelta  float64
}

// DefaultAxis returns an axis with the creation defaults of the format:
// logical grid 1,1 and physical grid 0.0,1.0, unknown units and domain.
func DefaultAxis(label, propertyLabel string, length int64) Axis {
	return Axis{
		Label:          label,
		PropertyLabel:  propertyLabel,
		Units:          format.Unknown,
		Domain:         format.Unknown,
		Length:         length,
		LogicalOrigin:  1,
		LogicalDelta:   1,
		PhysicalOrigin: 0.0,
		PhysicalDelta:  1.0,
	}
}

// validateAxes checks the framework invariants: 3 to 5 dimensions, lengths
// >= 1, nonzero logical increments, and for axes past the trace axis a
// schema-backed integer property.
func validateAxes(axes []Axis, schema *props.Schema) error {
	if len(axes) < 3 || len(axes) > 5 {
		return errs.ErrBadDimensions
	}

	for k, ax := range axes {
		if ax.Length < 1 {
			return errs.Preconditionf("axis %q has length %d", ax.Label, ax.Length)
		}
		if ax.LogicalDelta == 0 {
			return errs.Preconditionf("axis %q has zero logical increment", ax.Label)
		}

		if k < 2 {
			continue // sample and trace axes may omit a backing property
		}

		p, err := schema.Lookup(ax.PropertyLabel)
		if err != nil {
			return fmt.Errorf("%w: axis %q wants %q", errs.ErrAxisProperty, ax.Label, ax.PropertyLabel)
		}
		if !p.Format.IsInteger() || p.Format == props.FormatInt16 {
			return errs.Malformedf("axis %q: property %q must be a 32- or 64-bit integer", ax.Label, ax.PropertyLabel)
		}
	}

	return nil
}
