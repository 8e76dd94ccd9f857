package lfsr

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"
)

// modelFile is the YAML layout of a model catalog:
//
//	models:
//	  - name: CRC-32/ISO-HDLC
//	    width: 32
//	    poly: 0x04c11db7
//	    init: 0xffffffff
//	    refin: true
//	    refout: true
//	    xorout: 0xffffffff
//	    check: 0xcbf43926
//
// "poly" may also be written algebraically, e.g. "x^16+x^12+x^5+1".
type modelFile struct {
	Models []modelEntry `yaml:"models"`
}

type modelEntry struct {
	Name   string      `yaml:"name"`
	Width  uint        `yaml:"width"`
	Poly   scalarField `yaml:"poly"`
	Init   scalarField `yaml:"init"`
	RefIn  bool        `yaml:"refin"`
	RefOut bool        `yaml:"refout"`
	XorOut scalarField `yaml:"xorout"`
	Check  scalarField `yaml:"check"`
}

// scalarField keeps the source text of a scalar, so that 0x1f is read as
// hexadecimal rather than resolved to the integer 31.
type scalarField string

// UnmarshalYAML fulfills yaml.BytesUnmarshaler.
func (field *scalarField) UnmarshalYAML(raw []byte) error {
	str := strings.TrimSpace(string(raw))
	if len(str) >= 2 && (str[0] == '"' || str[0] == '\'') && str[len(str)-1] == str[0] {
		str = str[1 : len(str)-1]
	}
	*field = scalarField(str)
	return nil
}

var _ yaml.BytesUnmarshaler = (*scalarField)(nil)

// ParseModels parses a YAML model catalog.  Every entry is validated; all
// problems found are returned together as a *multierror.Error.
func ParseModels(raw []byte) ([]Model, error) {
	var doc modelFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	var errs *multierror.Error
	out := make([]Model, 0, len(doc.Models))
	for index, entry := range doc.Models {
		m, err := entry.model(index)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		out = append(out, m)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadModels reads and parses a YAML model catalog from the named file.
func LoadModels(path string) ([]Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	list, err := ParseModels(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}

// FindModel looks name up in list first, then in the built-in catalog.
func FindModel(list []Model, name string) (Model, bool) {
	for _, m := range list {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return LookupModel(name)
}

func (entry modelEntry) model(index int) (Model, error) {
	name := entry.Name
	if name == "" {
		name = fmt.Sprintf("models[%d]", index)
	}

	m := Model{
		Name:       name,
		Width:      entry.Width,
		ReflectIn:  entry.RefIn,
		ReflectOut: entry.RefOut,
	}

	var errlist []error
	hexField := func(field string, value scalarField, dst *uint64) {
		str := string(value)
		if str == "" {
			return
		}
		u64, err := parseHex(str)
		if err != nil {
			errlist = append(errlist, ConfigurationError{Field: name + "." + field, Problem: fmt.Sprintf("failed to parse %q as hexadecimal: %v", str, err)})
			return
		}
		*dst = u64
	}

	switch {
	case entry.Poly == "":
		errlist = append(errlist, ConfigurationError{Field: name + ".poly", Problem: "missing"})

	case strings.Contains(string(entry.Poly), "+"):
		poly, err := ParsePolynomial(string(entry.Poly))
		if err != nil {
			errlist = append(errlist, err)
			break
		}
		if m.Width == 0 {
			m.Width = poly.Width()
		}
		if poly.Width() > 64 {
			errlist = append(errlist, ConfigurationError{Field: name + ".poly", Problem: fmt.Sprintf("degree %d is not in range 1..64", poly.Width())})
			break
		}
		if poly.Width() != m.Width {
			errlist = append(errlist, ConfigurationError{Field: name + ".poly", Problem: fmt.Sprintf("polynomial has degree %d, width is %d", poly.Width(), m.Width)})
			break
		}
		m.Poly = poly.Uint64()

	default:
		hexField("poly", entry.Poly, &m.Poly)
	}

	hexField("init", entry.Init, &m.Init)
	hexField("xorout", entry.XorOut, &m.XorOut)
	var check uint64
	hexField("check", entry.Check, &check)
	m.Check = Checksum(check)

	if len(errlist) == 0 {
		if err := m.Validate(); err != nil {
			return Model{}, err
		}
		return m, nil
	}
	if len(errlist) == 1 {
		return Model{}, errlist[0]
	}
	return Model{}, &multierror.Error{Errors: errlist}
}
