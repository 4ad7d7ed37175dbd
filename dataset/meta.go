package dataset

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/viert/properties"

	"github.com/openseis/javaseis/endian"
	"github.com/openseis/javaseis/errs"
	"github.com/openseis/javaseis/extent"
	"github.com/openseis/javaseis/format"
	"github.com/openseis/javaseis/parset"
	"github.com/openseis/javaseis/props"
)

// Sidecar file names and parset element names of the on-disk layout.
const (
	javaSeisVersion = "2006.3"
	vfioVersion     = "2006.2"
	vfioHeader      = "VFIO org.javaseis.io.VirtualFolder 2006.2"

	filePropertiesFile = "FileProperties.xml"
	virtualFoldersFile = "VirtualFolders.xml"
	namePropertiesFile = "Name.properties"
	statusFile         = "Status.properties"

	rootParset           = "JavaSeis Metadata"
	filePropertiesParset = "FileProperties"
	tracePropsParset     = "TraceProperties"
	customParset         = "CustomProperties"
	extentManagerParset  = "ExtentManager"
	virtualFoldersParset = "VirtualFolders"
)

// readMetadata parses every sidecar of an existing dataset and populates the
// handle. Status.properties may be absent in legacy datasets; every other
// sidecar is required.
func (d *Dataset) readMetadata() error {
	root, err := parset.ReadFile(filepath.Join(d.path, filePropertiesFile))
	if err != nil {
		return err
	}
	if err := d.readFileProperties(root); err != nil {
		return err
	}

	d.extentDirs, err = d.readVirtualFolders()
	if err != nil {
		return err
	}

	recordBytes := int64(trcRecordLength(d.traceFormat, int(d.SamplesPerTrace())))
	d.traceLayout, err = d.readExtentManager(extent.TraceStream, recordBytes)
	if err != nil {
		return err
	}
	d.headerLayout, err = d.readExtentManager(extent.HeaderStream, int64(d.schema.Length()))
	if err != nil {
		return err
	}

	if d.name, err = d.readNameProperties(); err != nil {
		return err
	}

	d.hasTraces, err = d.readStatus()

	return err
}

// readFileProperties decodes FileProperties.xml: the scalar metadata, the
// axis framework, the trace property schema and the custom properties.
func (d *Dataset) readFileProperties(root *parset.ParSet) error {
	fp, err := root.Child(filePropertiesParset)
	if err != nil {
		return err
	}

	if fp.HasPar("Comments") {
		if d.comments, err = fp.String("Comments"); err != nil {
			return err
		}
	}
	if d.version, err = fp.String("JavaSeisVersion"); err != nil {
		return err
	}
	if d.dataType, err = fp.String("DataType"); err != nil {
		return err
	}

	formatName, err := fp.String("TraceFormat")
	if err != nil {
		return err
	}
	if d.traceFormat, err = format.ParseTraceFormat(formatName); err != nil {
		return err
	}

	orderName, err := fp.String("ByteOrder")
	if err != nil {
		return err
	}
	if d.byteOrder, err = format.ParseByteOrder(orderName); err != nil {
		return err
	}
	d.engine = endian.ForByteOrder(d.byteOrder)

	if d.mapped, err = fp.Bool("Mapped"); err != nil {
		return err
	}

	ndim, err := fp.Int("DataDimensions")
	if err != nil {
		return err
	}

	labels, err := fp.Strings("AxisLabels")
	if err != nil {
		return err
	}
	units, err := fp.Strings("AxisUnits")
	if err != nil {
		return err
	}
	domains, err := fp.Strings("AxisDomains")
	if err != nil {
		return err
	}
	lengths, err := fp.Int64s("AxisLengths")
	if err != nil {
		return err
	}
	lorigins, err := fp.Int64s("LogicalOrigins")
	if err != nil {
		return err
	}
	ldeltas, err := fp.Int64s("LogicalDeltas")
	if err != nil {
		return err
	}
	porigins, err := fp.Float64s("PhysicalOrigins")
	if err != nil {
		return err
	}
	pdeltas, err := fp.Float64s("PhysicalDeltas")
	if err != nil {
		return err
	}

	if ndim < 3 || ndim > 5 {
		return errs.Malformedf("DataDimensions %d outside 3..5", ndim)
	}
	for name, n := range map[string]int{
		"AxisLabels": len(labels), "AxisUnits": len(units), "AxisDomains": len(domains),
		"AxisLengths": len(lengths), "LogicalOrigins": len(lorigins), "LogicalDeltas": len(ldeltas),
		"PhysicalOrigins": len(porigins), "PhysicalDeltas": len(pdeltas),
	} {
		if n != ndim {
			return errs.Malformedf("%s has %d entries for %d dimensions", name, n, ndim)
		}
	}

	headerLength, err := fp.Int("HeaderLengthBytes")
	if err != nil {
		return err
	}

	if err := d.readTraceProperties(root, headerLength); err != nil {
		return err
	}

	d.axes = make([]Axis, ndim)
	for k := range d.axes {
		propLabel := d.dict.PropertyLabel(labels[k])
		if k < 2 && !d.schema.Has(propLabel) {
			propLabel = ""
		}
		d.axes[k] = Axis{
			Label:          labels[k],
			PropertyLabel:  propLabel,
			Units:          units[k],
			Domain:         domains[k],
			Length:         lengths[k],
			LogicalOrigin:  lorigins[k],
			LogicalDelta:   ldeltas[k],
			PhysicalOrigin: porigins[k],
			PhysicalDelta:  pdeltas[k],
		}
	}
	if err := validateAxes(d.axes, d.schema); err != nil {
		return err
	}

	if root.HasChild(customParset) {
		custom, err := root.Child(customParset)
		if err != nil {
			return err
		}
		if d.geometry, err = readGeometry(custom); err != nil {
			return err
		}
		d.dataProps = cloneDataProps(custom)
	}

	return nil
}

// readTraceProperties loads the entry_N property records and builds the
// header schema.
func (d *Dataset) readTraceProperties(root *parset.ParSet, headerLength int) error {
	tp, err := root.Child(tracePropsParset)
	if err != nil {
		return err
	}

	list := make([]props.Property, 0, len(tp.Children))
	for _, entry := range tp.Children {
		label, err := entry.String("label")
		if err != nil {
			return err
		}
		description, err := entry.String("description")
		if err != nil {
			return err
		}
		formatName, err := entry.String("format")
		if err != nil {
			return err
		}
		pf, err := props.ParseFormat(formatName)
		if err != nil {
			return err
		}
		count, err := entry.Int("elementCount")
		if err != nil {
			return err
		}
		offset, err := entry.Int("byteOffset")
		if err != nil {
			return err
		}

		list = append(list, props.Property{
			Def: props.Def{
				Label:       label,
				Description: description,
				Format:      pf,
				Count:       count,
			},
			ByteOffset: offset,
		})
	}

	if d.schema, err = props.Load(d.engine, list); err != nil {
		return err
	}
	if d.schema.Length() != headerLength {
		return errs.Malformedf("HeaderLengthBytes %d but properties cover %d bytes",
			headerLength, d.schema.Length())
	}

	return nil
}

// writeFileProperties emits FileProperties.xml.
func (d *Dataset) writeFileProperties() error {
	root := parset.New(rootParset)

	fp := root.AddChild(filePropertiesParset)
	fp.SetString("Comments", d.comments)
	fp.SetString("JavaSeisVersion", d.version)
	fp.SetString("DataType", d.dataType)
	fp.SetString("TraceFormat", d.traceFormat.String())
	fp.SetString("ByteOrder", d.byteOrder.String())
	fp.SetBool("Mapped", d.mapped)
	fp.SetInt("DataDimensions", d.NDim())

	labels := make([]string, d.NDim())
	units := make([]string, d.NDim())
	domains := make([]string, d.NDim())
	lengths := make([]int64, d.NDim())
	lorigins := make([]int64, d.NDim())
	ldeltas := make([]int64, d.NDim())
	porigins := make([]float64, d.NDim())
	pdeltas := make([]float64, d.NDim())
	for k, ax := range d.axes {
		labels[k] = ax.Label
		units[k] = ax.Units
		domains[k] = ax.Domain
		lengths[k] = ax.Length
		lorigins[k] = ax.LogicalOrigin
		ldeltas[k] = ax.LogicalDelta
		porigins[k] = ax.PhysicalOrigin
		pdeltas[k] = ax.PhysicalDelta
	}
	fp.SetStrings("AxisLabels", labels)
	fp.SetStrings("AxisUnits", units)
	fp.SetStrings("AxisDomains", domains)
	fp.SetInt64s("AxisLengths", lengths)
	fp.SetInt64s("LogicalOrigins", lorigins)
	fp.SetInt64s("LogicalDeltas", ldeltas)
	fp.SetFloat64s("PhysicalOrigins", porigins)
	fp.SetFloat64s("PhysicalDeltas", pdeltas)
	fp.SetInt("HeaderLengthBytes", d.schema.Length())

	tp := root.AddChild(tracePropsParset)
	for i, p := range d.schema.Properties() {
		entry := tp.AddChild("entry_" + strconv.Itoa(i+1))
		entry.SetString("label", p.Label)
		entry.SetString("description", p.Description)
		entry.SetString("format", p.Format.String())
		entry.SetInt("elementCount", p.Count)
		entry.SetInt("byteOffset", p.ByteOffset)
	}

	custom := root.AddChild(customParset)
	if d.dataProps != nil {
		custom.Pars = append(custom.Pars, d.dataProps.Pars...)
		custom.Children = append(custom.Children, d.dataProps.Children...)
	}
	writeGeometry(custom, d.geometry)

	return parset.WriteFile(filepath.Join(d.path, filePropertiesFile), root)
}

// readExtentManager rebuilds one stream's extent layout from its sidecar.
func (d *Dataset) readExtentManager(stream string, recordBytes int64) (*extent.Layout, error) {
	ps, err := parset.ReadFile(filepath.Join(d.path, stream+".xml"))
	if err != nil {
		return nil, err
	}

	name, err := ps.String("VFIO_EXTNAME")
	if err != nil {
		return nil, err
	}
	if name != stream {
		return nil, errs.Malformedf("%s.xml declares extent name %q", stream, name)
	}

	extSize, err := ps.Int64("VFIO_EXTSIZE")
	if err != nil {
		return nil, err
	}
	maxPos, err := ps.Int64("VFIO_MAXPOS")
	if err != nil {
		return nil, err
	}

	// The stream must cover exactly total-traces × record-size bytes.
	want := d.TotalFrames() * d.TracesPerFrame() * recordBytes
	if maxPos+1 != want {
		return nil, errs.Malformedf("%s stream covers %d bytes, framework needs %d", stream, maxPos+1, want)
	}

	return extent.LoadLayout(stream, d.extentDirs, extSize, maxPos)
}

// writeExtentManager emits TraceFile.xml or TraceHeaders.xml.
func (d *Dataset) writeExtentManager(stream string, l *extent.Layout) error {
	ps := parset.New(extentManagerParset)
	ps.SetString("VFIO_VERSION", vfioVersion)
	ps.SetInt64("VFIO_EXTSIZE", l.ExtentSize())
	ps.SetInt("VFIO_MAXFILE", l.Count())
	ps.SetInt64("VFIO_MAXPOS", l.TotalBytes()-1)
	ps.SetString("VFIO_EXTNAME", stream)
	ps.SetString("VFIO_POLICY", "RANDOM")

	return parset.WriteFile(filepath.Join(d.path, stream+".xml"), ps)
}

// readVirtualFolders returns the extent directories listed in
// VirtualFolders.xml, in declaration order.
func (d *Dataset) readVirtualFolders() ([]string, error) {
	ps, err := parset.ReadFile(filepath.Join(d.path, virtualFoldersFile))
	if err != nil {
		return nil, err
	}

	ndir, err := ps.Int("NDIR")
	if err != nil {
		return nil, err
	}

	dirs := make([]string, ndir)
	for k := range dirs {
		entry, err := ps.String("FILESYSTEM-" + strconv.Itoa(k))
		if err != nil {
			return nil, err
		}
		// Entries read "path,READ_WRITE"; only the path matters here.
		dirs[k], _, _ = strings.Cut(entry, ",")
	}

	return dirs, nil
}

// writeVirtualFolders emits VirtualFolders.xml.
func (d *Dataset) writeVirtualFolders() error {
	ps := parset.New(virtualFoldersParset)
	ps.SetInt("NDIR", len(d.extentDirs))
	for k, dir := range d.extentDirs {
		ps.SetString("FILESYSTEM-"+strconv.Itoa(k), dir+",READ_WRITE")
	}
	ps.SetString("Version", vfioVersion)
	ps.SetString("Header", vfioHeader)
	ps.SetString("Type", "SS")
	ps.SetString("POLICY_ID", "RANDOM")
	ps.SetInt64("GLOBAL_REQUIRED_FREE_SPACE", d.traceLayout.ExtentSize())

	return parset.WriteFile(filepath.Join(d.path, virtualFoldersFile), ps)
}

// readNameProperties returns the DescriptiveName from Name.properties.
func (d *Dataset) readNameProperties() (string, error) {
	f, err := os.Open(filepath.Join(d.path, namePropertiesFile))
	if err != nil {
		return "", err
	}
	defer f.Close()

	p, err := properties.Read(f)
	if err != nil {
		return "", errs.Malformedf("%s: %v", namePropertiesFile, err)
	}

	name, err := p.GetString("DescriptiveName")
	if err != nil {
		return "", errs.Malformedf("%s: %v", namePropertiesFile, err)
	}

	return name, nil
}

// writeNameProperties emits Name.properties. An empty descriptive name
// defaults to the directory base name.
func (d *Dataset) writeNameProperties() error {
	if d.name == "" {
		d.name = filepath.Base(d.path)
	}

	text := "#JavaSeis Dataset Name Properties\n" +
		"DescriptiveName=" + d.name + "\n"

	return os.WriteFile(filepath.Join(d.path, namePropertiesFile), []byte(text), 0o644)
}

// readStatus returns the HasTraces flag. A missing Status.properties is
// legacy-compatible and yields false.
func (d *Dataset) readStatus() (bool, error) {
	f, err := os.Open(filepath.Join(d.path, statusFile))
	if os.IsNotExist(err) {
		log.Warningf("dataset %s has no %s, assuming no traces", d.path, statusFile)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer f.Close()

	p, err := properties.Read(f)
	if err != nil {
		return false, errs.Malformedf("%s: %v", statusFile, err)
	}

	hasTraces, err := p.GetBool("HasTraces")
	if err != nil {
		return false, errs.Malformedf("%s: %v", statusFile, err)
	}

	return hasTraces, nil
}

// writeStatus emits Status.properties with the current has-traces flag.
func (d *Dataset) writeStatus() error {
	text := "#JavaSeis Dataset Status Properties\n" +
		"HasTraces=" + strconv.FormatBool(d.hasTraces) + "\n"

	return os.WriteFile(filepath.Join(d.path, statusFile), []byte(text), 0o644)
}

// trcRecordLength returns the on-disk trace record size for a format,
// including the metadata-only formats so their layouts still load.
func trcRecordLength(f format.TraceFormat, ns int) int {
	switch f {
	case format.FormatFloat32:
		return 4 * ns
	case format.FormatFloat64:
		return 8 * ns
	case format.FormatInt16:
		return 8 + 2*ns
	case format.FormatInt32:
		return 8 + 4*ns
	default:
		return 0
	}
}

// cloneDataProps deep-copies a CustomProperties parset, dropping the
// Geometry child (geometry is carried separately on the handle).
func cloneDataProps(src *parset.ParSet) *parset.ParSet {
	if src == nil {
		return nil
	}

	dst := parset.New(customParset)
	for _, p := range src.Pars {
		cp := *p
		dst.Pars = append(dst.Pars, &cp)
	}
	for _, c := range src.Children {
		if c.Name == geometryParset {
			continue
		}
		dst.Children = append(dst.Children, cloneParset(c))
	}

	return dst
}

func cloneParset(src *parset.ParSet) *parset.ParSet {
	dst := parset.New(src.Name)
	for _, p := range src.Pars {
		cp := *p
		dst.Pars = append(dst.Pars, &cp)
	}
	for _, c := range src.Children {
		dst.Children = append(dst.Children, cloneParset(c))
	}

	return dst
}

// removePar deletes a par entry by name; a missing name is a no-op.
func removePar(ps *parset.ParSet, name string) {
	if ps == nil {
		return
	}
	for i, p := range ps.Pars {
		if p.Name == name {
			ps.Pars = append(ps.Pars[:i], ps.Pars[i+1:]...)
			return
		}
	}
}
