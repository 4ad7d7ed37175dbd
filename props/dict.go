package props

// LabelDict translates between the framework axis labels of the parent
// processing system and the trace property labels that back them. It is
// consulted on read (to resolve a declared axis label to its header
// property) and on write (to emit the canonical axis label). The dictionary
// is injected into the dataset rather than held globally so dialect
// variations stay per-handle.
type LabelDict map[string]string

// DefaultLabelDict returns the SeisSpace axis/property pairs. Labels absent
// from the table translate to themselves.
func DefaultLabelDict() LabelDict {
	return LabelDict{
		"INLINE":     "ILINE_NO",
		"CROSSLINE":  "XLINE_NO",
		"CMP":        "CDP",
		"SAIL_LINE":  "S_LINE",
		"CHANNEL":    "CHAN",
		"RECEIVER":   "REC_SLOC",
		"OFFSET_BIN": "OFB_NO",
		"GUN":        "SOURCE",
	}
}

// PropertyLabel resolves an axis label to its backing property label.
func (d LabelDict) PropertyLabel(axisLabel string) string {
	if p, ok := d[axisLabel]; ok {
		return p
	}

	return axisLabel
}

// AxisLabel resolves a property label back to its canonical axis label.
func (d LabelDict) AxisLabel(propLabel string) string {
	for axis, prop := range d {
		if prop == propLabel {
			return axis
		}
	}

	return propLabel
}
