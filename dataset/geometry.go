package dataset

import "github.com/openseis/javaseis/parset"

// Geometry is the optional three-point orientation record stored under
// CustomProperties. It is pure metadata; nothing in the engine interprets it.
type Geometry struct {
	MinILine     int64
	MaxILine     int64
	MinXLine     int64
	MaxXLine     int64
	XILine1Start float64
	YILine1Start float64
	XILine1End   float64
	YILine1End   float64
	XXLine1End   float64
	YXLine1End   float64
}

const geometryParset = "Geometry"

// readGeometry decodes the Geometry child of a CustomProperties parset.
// Absence of the child is not an error; the dataset simply has no geometry.
func readGeometry(custom *parset.ParSet) (*Geometry, error) {
	if custom == nil || !custom.HasChild(geometryParset) {
		return nil, nil
	}

	g := &Geometry{}
	child, err := custom.Child(geometryParset)
	if err != nil {
		return nil, err
	}

	ints := []struct {
		name string
		dst  *int64
	}{
		{"minILine", &g.MinILine},
		{"maxILine", &g.MaxILine},
		{"minXLine", &g.MinXLine},
		{"maxXLine", &g.MaxXLine},
	}
	for _, f := range ints {
		if *f.dst, err = child.Int64(f.name); err != nil {
			return nil, err
		}
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"xILine1Start", &g.XILine1Start},
		{"yILine1Start", &g.YILine1Start},
		{"xILine1End", &g.XILine1End},
		{"yILine1End", &g.YILine1End},
		{"xXLine1End", &g.XXLine1End},
		{"yXLine1End", &g.YXLine1End},
	}
	for _, f := range floats {
		if *f.dst, err = child.Float64(f.name); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// writeGeometry appends the Geometry child to a CustomProperties parset.
func writeGeometry(custom *parset.ParSet, g *Geometry) {
	if g == nil {
		return
	}

	child := custom.AddChild(geometryParset)
	child.SetInt64("minILine", g.MinILine)
	child.SetInt64("maxILine", g.MaxILine)
	child.SetInt64("minXLine", g.MinXLine)
	child.SetInt64("maxXLine", g.MaxXLine)
	child.SetFloat64("xILine1Start", g.XILine1Start)
	child.SetFloat64("yILine1Start", g.YILine1Start)
	child.SetFloat64("xILine1End", g.XILine1End)
	child.SetFloat64("yILine1End", g.YILine1End)
	child.SetFloat64("xXLine1End", g.XXLine1End)
	child.SetFloat64("yXLine1End", g.YXLine1End)
}
