package lfsr

import (
	"fmt"

	"github.com/chronos-tachyon/enumhelper"
)

// Strategy indicates how an Engine applies its Matrix to each block.  All
// strategies produce identical results.
type Strategy byte

const (
	// DefaultStrategy requests that the Engine pick a Strategy.  This is
	// TableStrategy when the block width is a multiple of 8, and
	// RowStrategy otherwise.
	DefaultStrategy Strategy = iota

	// RowStrategy XORs together the Matrix rows selected by the set bits
	// of the state and of the block.
	RowStrategy

	// TableStrategy splits the state and the block into 8-bit lanes and
	// looks each lane up in a 256-entry table of pre-combined rows.  It
	// requires a block width that is a multiple of 8.
	TableStrategy
)

var strategyData = []enumhelper.EnumData{
	{GoName: "DefaultStrategy", Name: strDefault},
	{GoName: "RowStrategy", Name: "rows"},
	{GoName: "TableStrategy", Name: "tables"},
}

// IsValid returns true if s is a valid Strategy constant.
func (s Strategy) IsValid() bool {
	return s >= DefaultStrategy && s <= TableStrategy
}

// GoString returns the Go string representation of this Strategy constant.
func (s Strategy) GoString() string {
	return enumhelper.DereferenceEnumData("Strategy", strategyData, uint(s)).GoName
}

// String returns the string representation of this Strategy constant.
func (s Strategy) String() string {
	return enumhelper.DereferenceEnumData("Strategy", strategyData, uint(s)).Name
}

// MarshalJSON returns the JSON representation of this Strategy constant.
func (s Strategy) MarshalJSON() ([]byte, error) {
	return enumhelper.MarshalEnumToJSON("Strategy", strategyData, uint(s))
}

// Parse parses a string representation of a Strategy constant.
func (s *Strategy) Parse(str string) error {
	value, err := enumhelper.ParseEnum("Strategy", strategyData, str)
	*s = Strategy(value)
	return err
}

var _ fmt.GoStringer = Strategy(0)
var _ fmt.Stringer = Strategy(0)
