package lfsr

import (
	"fmt"

	"github.com/chronos-tachyon/enumhelper"
)

// TermKind indicates which input a Term of an Equation refers to.
type TermKind byte

const (
	// StateTerm refers to a bit of the current state.
	StateTerm TermKind = iota

	// BlockTerm refers to a bit of the input block.
	BlockTerm
)

var termKindData = []enumhelper.EnumData{
	{GoName: "StateTerm", Name: "state"},
	{GoName: "BlockTerm", Name: "block"},
}

// IsValid returns true if k is a valid TermKind constant.
func (k TermKind) IsValid() bool {
	return k == StateTerm || k == BlockTerm
}

// GoString returns the Go string representation of this TermKind constant.
func (k TermKind) GoString() string {
	return enumhelper.DereferenceEnumData("TermKind", termKindData, uint(k)).GoName
}

// String returns the string representation of this TermKind constant.
func (k TermKind) String() string {
	return enumhelper.DereferenceEnumData("TermKind", termKindData, uint(k)).Name
}

// MarshalJSON returns the JSON representation of this TermKind constant.
func (k TermKind) MarshalJSON() ([]byte, error) {
	return enumhelper.MarshalEnumToJSON("TermKind", termKindData, uint(k))
}

// Parse parses a string representation of a TermKind constant.
func (k *TermKind) Parse(str string) error {
	value, err := enumhelper.ParseEnum("TermKind", termKindData, str)
	*k = TermKind(value)
	return err
}

var _ fmt.GoStringer = TermKind(0)
var _ fmt.Stringer = TermKind(0)
