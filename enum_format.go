package lfsr

import (
	"fmt"

	"github.com/chronos-tachyon/enumhelper"
)

// Format indicates how a Matrix or an EquationSet is rendered.
type Format byte

const (
	// TextFormat is a human-readable line-oriented rendering.
	TextFormat Format = iota

	// JSONFormat is a JSON document.
	JSONFormat

	// BinaryFormat is the flat bit array with its 16-byte header.  Only a
	// Matrix can be rendered in BinaryFormat.
	BinaryFormat

	// DefaultFormat requests the default Format, which is TextFormat.
	DefaultFormat = TextFormat
)

var formatData = []enumhelper.EnumData{
	{GoName: "TextFormat", Name: "text"},
	{GoName: "JSONFormat", Name: "json"},
	{GoName: "BinaryFormat", Name: "binary"},
}

// IsValid returns true if f is a valid Format constant.
func (f Format) IsValid() bool {
	return f >= TextFormat && f <= BinaryFormat
}

// GoString returns the Go string representation of this Format constant.
func (f Format) GoString() string {
	return enumhelper.DereferenceEnumData("Format", formatData, uint(f)).GoName
}

// String returns the string representation of this Format constant.
func (f Format) String() string {
	return enumhelper.DereferenceEnumData("Format", formatData, uint(f)).Name
}

// MarshalJSON returns the JSON representation of this Format constant.
func (f Format) MarshalJSON() ([]byte, error) {
	return enumhelper.MarshalEnumToJSON("Format", formatData, uint(f))
}

// Parse parses a string representation of a Format constant.
func (f *Format) Parse(str string) error {
	value, err := enumhelper.ParseEnum("Format", formatData, str)
	*f = Format(value)
	return err
}

var _ fmt.GoStringer = Format(0)
var _ fmt.Stringer = Format(0)
