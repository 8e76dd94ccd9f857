package lfsr

import (
	"fmt"

	"github.com/chronos-tachyon/enumhelper"
)

// PaddingPolicy indicates how an Engine treats input whose length is not a
// multiple of the block width.
type PaddingPolicy byte

const (
	// RejectPartialPolicy fails with LengthError before touching the
	// state.  Callers are expected to pre-pad their messages.
	RejectPartialPolicy PaddingPolicy = iota

	// ReducedWidthPolicy processes the final short block of r bits with a
	// Matrix built for block width r.  The result is identical to the
	// bit-serial update over the unpadded message.
	ReducedWidthPolicy

	// DefaultPaddingPolicy requests the default PaddingPolicy, which is
	// RejectPartialPolicy.
	DefaultPaddingPolicy = RejectPartialPolicy
)

var paddingPolicyData = []enumhelper.EnumData{
	{GoName: "RejectPartialPolicy", Name: "reject"},
	{GoName: "ReducedWidthPolicy", Name: "reduced-width"},
}

// IsValid returns true if p is a valid PaddingPolicy constant.
func (p PaddingPolicy) IsValid() bool {
	return p >= RejectPartialPolicy && p <= ReducedWidthPolicy
}

// GoString returns the Go string representation of this PaddingPolicy constant.
func (p PaddingPolicy) GoString() string {
	return enumhelper.DereferenceEnumData("PaddingPolicy", paddingPolicyData, uint(p)).GoName
}

// String returns the string representation of this PaddingPolicy constant.
func (p PaddingPolicy) String() string {
	return enumhelper.DereferenceEnumData("PaddingPolicy", paddingPolicyData, uint(p)).Name
}

// MarshalJSON returns the JSON representation of this PaddingPolicy constant.
func (p PaddingPolicy) MarshalJSON() ([]byte, error) {
	return enumhelper.MarshalEnumToJSON("PaddingPolicy", paddingPolicyData, uint(p))
}

// Parse parses a string representation of a PaddingPolicy constant.
func (p *PaddingPolicy) Parse(str string) error {
	value, err := enumhelper.ParseEnum("PaddingPolicy", paddingPolicyData, str)
	*p = PaddingPolicy(value)
	return err
}

var _ fmt.GoStringer = PaddingPolicy(0)
var _ fmt.Stringer = PaddingPolicy(0)
