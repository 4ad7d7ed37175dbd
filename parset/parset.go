// Package parset reads and writes the XML metadata dialect used by JavaSeis
// sidecar files (FileProperties.xml, TraceFile.xml, TraceHeaders.xml,
// VirtualFolders.xml).
//
// A document is a tree of <parset name="..."> elements; each parset carries
// <par name="..." type="..."> leaves whose text content holds one or more
// whitespace-separated values. Strings are double-quoted on disk; numeric
// vectors are space-separated. The documents carry no <?xml?> declaration.
package parset

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/openseis/javaseis/errs"
)

// Par value type names as they appear in the type attribute.
const (
	TypeInt    = "int"
	TypeLong   = "long"
	TypeFloat  = "float"
	TypeDouble = "double"
	TypeString = "string"
	TypeBool   = "boolean"
)

// Par is a single typed leaf entry of a parset.
type Par struct {
	XMLName xml.Name `xml:"par"`
	Name    string   `xml:"name,attr"`
	Type    string   `xml:"type,attr"`
	Value   string   `xml:",chardata"`
}

// parEscaper escapes XML markup in a par value but leaves double quotes as is.
var parEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// MarshalXML writes the par with its value as character data whose double
// quotes stay literal, where encoding/xml would write them as &#34;.
func (p *Par) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	return e.EncodeElement(struct {
		Name  string `xml:"name,attr"`
		Type  string `xml:"type,attr"`
		Value string `xml:",innerxml"`
	}{p.Name, p.Type, parEscaper.Replace(p.Value)}, start)
}

// ParSet is a named group of par entries and nested parsets.
type ParSet struct {
	XMLName  xml.Name  `xml:"parset"`
	Name     string    `xml:"name,attr"`
	Pars     []*Par    `xml:"par"`
	Children []*ParSet `xml:"parset"`
}

// New creates an empty parset with the given name.
func New(name string) *ParSet {
	return &ParSet{Name: name}
}

// Child returns the nested parset with the given name.
//
// Returns:
//   - *ParSet: The matching child.
//   - error: ErrMissingParset if no child has that name.
func (ps *ParSet) Child(name string) (*ParSet, error) {
	for _, c := range ps.Children {
		if c.Name == name {
			return c, nil
		}
	}

	return nil, fmt.Errorf("%w: parset %q has no child %q", errs.ErrMissingParset, ps.Name, name)
}

// HasChild reports whether a nested parset with the given name exists.
func (ps *ParSet) HasChild(name string) bool {
	_, err := ps.Child(name)
	return err == nil
}

// AddChild appends a nested parset and returns it.
func (ps *ParSet) AddChild(name string) *ParSet {
	c := New(name)
	ps.Children = append(ps.Children, c)

	return c
}

// Par returns the par entry with the given name.
func (ps *ParSet) Par(name string) (*Par, error) {
	for _, p := range ps.Pars {
		if p.Name == name {
			return p, nil
		}
	}

	return nil, fmt.Errorf("%w: parset %q has no par %q", errs.ErrMissingParset, ps.Name, name)
}

// HasPar reports whether a par entry with the given name exists.
func (ps *ParSet) HasPar(name string) bool {
	_, err := ps.Par(name)
	return err == nil
}

// fields splits a par's text content into whitespace-separated tokens.
func (p *Par) fields() []string {
	return strings.Fields(p.Value)
}

// unquote strips the double quotes JavaSeis puts around string values.
func unquote(tok string) string {
	if len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"' {
		return tok[1 : len(tok)-1]
	}

	return tok
}

// String returns the par's value as a single string, unquoted and trimmed.
//
// A string par may legitimately be empty, so unlike the numeric accessors an
// empty body is returned as "".
func (ps *ParSet) String(name string) (string, error) {
	p, err := ps.Par(name)
	if err != nil {
		return "", err
	}

	trimmed := strings.TrimSpace(p.Value)

	return unquote(trimmed), nil
}

// Strings returns the par's value as a vector of unquoted strings.
func (ps *ParSet) Strings(name string) ([]string, error) {
	p, err := ps.Par(name)
	if err != nil {
		return nil, err
	}

	toks := p.fields()
	out := make([]string, len(toks))
	for i, tok := range toks {
		out[i] = unquote(tok)
	}

	return out, nil
}

// Int returns the par's value as a single int.
func (ps *ParSet) Int(name string) (int, error) {
	v, err := ps.Int64(name)
	return int(v), err
}

// Int64 returns the par's value as a single int64.
func (ps *ParSet) Int64(name string) (int64, error) {
	p, err := ps.Par(name)
	if err != nil {
		return 0, err
	}

	toks := p.fields()
	if len(toks) != 1 {
		return 0, errs.Malformedf("par %q: want one integer, have %d tokens", name, len(toks))
	}

	v, err := strconv.ParseInt(toks[0], 10, 64)
	if err != nil {
		return 0, errs.Malformedf("par %q: %v", name, err)
	}

	return v, nil
}

// Int64s returns the par's value as a vector of int64.
func (ps *ParSet) Int64s(name string) ([]int64, error) {
	p, err := ps.Par(name)
	if err != nil {
		return nil, err
	}

	toks := p.fields()
	out := make([]int64, len(toks))
	for i, tok := range toks {
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, errs.Malformedf("par %q token %d: %v", name, i, err)
		}
		out[i] = v
	}

	return out, nil
}

// Float64 returns the par's value as a single float64.
func (ps *ParSet) Float64(name string) (float64, error) {
	p, err := ps.Par(name)
	if err != nil {
		return 0, err
	}

	toks := p.fields()
	if len(toks) != 1 {
		return 0, errs.Malformedf("par %q: want one float, have %d tokens", name, len(toks))
	}

	v, err := strconv.ParseFloat(toks[0], 64)
	if err != nil {
		return 0, errs.Malformedf("par %q: %v", name, err)
	}

	return v, nil
}

// Float64s returns the par's value as a vector of float64.
func (ps *ParSet) Float64s(name string) ([]float64, error) {
	p, err := ps.Par(name)
	if err != nil {
		return nil, err
	}

	toks := p.fields()
	out := make([]float64, len(toks))
	for i, tok := range toks {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, errs.Malformedf("par %q token %d: %v", name, i, err)
		}
		out[i] = v
	}

	return out, nil
}

// Bool returns the par's value as a bool.
func (ps *ParSet) Bool(name string) (bool, error) {
	s, err := ps.String(name)
	if err != nil {
		return false, err
	}

	switch strings.ToLower(s) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, errs.Malformedf("par %q: not a boolean: %q", name, s)
	}
}

// setPar replaces or appends a par entry, keeping declaration order stable.
func (ps *ParSet) setPar(name, typ, value string) {
	for _, p := range ps.Pars {
		if p.Name == name {
			p.Type = typ
			p.Value = value

			return
		}
	}

	ps.Pars = append(ps.Pars, &Par{Name: name, Type: typ, Value: value})
}

// pad wraps a formatted value in single spaces, matching the whitespace
// padding conventional in JavaSeis sidecars.
func pad(v string) string {
	return " " + v + " "
}

// SetString sets a quoted string par.
func (ps *ParSet) SetString(name, value string) {
	ps.setPar(name, TypeString, pad(`"`+value+`"`))
}

// SetStrings sets a vector-of-strings par, each element quoted.
func (ps *ParSet) SetStrings(name string, values []string) {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + v + `"`
	}
	ps.setPar(name, TypeString, pad(strings.Join(quoted, " ")))
}

// SetInt sets an int par.
func (ps *ParSet) SetInt(name string, value int) {
	ps.setPar(name, TypeInt, pad(strconv.Itoa(value)))
}

// SetInt64 sets a long par.
func (ps *ParSet) SetInt64(name string, value int64) {
	ps.setPar(name, TypeLong, pad(strconv.FormatInt(value, 10)))
}

// SetInt64s sets a vector-of-longs par.
func (ps *ParSet) SetInt64s(name string, values []int64) {
	toks := make([]string, len(values))
	for i, v := range values {
		toks[i] = strconv.FormatInt(v, 10)
	}
	ps.setPar(name, TypeLong, pad(strings.Join(toks, " ")))
}

// SetFloat64 sets a double par.
func (ps *ParSet) SetFloat64(name string, value float64) {
	ps.setPar(name, TypeDouble, pad(strconv.FormatFloat(value, 'g', -1, 64)))
}

// SetFloat64s sets a vector-of-doubles par.
func (ps *ParSet) SetFloat64s(name string, values []float64) {
	toks := make([]string, len(values))
	for i, v := range values {
		toks[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	ps.setPar(name, TypeDouble, pad(strings.Join(toks, " ")))
}

// SetBool sets a boolean par.
func (ps *ParSet) SetBool(name string, value bool) {
	ps.setPar(name, TypeBool, pad(strconv.FormatBool(value)))
}

// Marshal serializes the parset tree to indented XML without an XML
// declaration, matching the sidecar convention.
func (ps *ParSet) Marshal() ([]byte, error) {
	data, err := xml.MarshalIndent(ps, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(data, '\n'), nil
}

// Parse deserializes a parset tree from XML bytes.
func Parse(data []byte) (*ParSet, error) {
	ps := &ParSet{}
	if err := xml.Unmarshal(data, ps); err != nil {
		return nil, errs.Malformedf("parset: %v", err)
	}

	return ps, nil
}

// ReadFile parses the parset document stored at path.
func ReadFile(path string) (*ParSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// WriteFile serializes the parset tree to path.
func WriteFile(path string, ps *ParSet) error {
	data, err := ps.Marshal()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
