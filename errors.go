package lfsr

import (
	"fmt"
)

// ConfigurationError is returned when a Polynomial, block width, or Model is
// malformed.  No partially constructed value is ever returned alongside it.
type ConfigurationError struct {
	Field   string
	Problem string
}

// Error fulfills the error interface.
func (err ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", err.Field, err.Problem)
}

// LengthError is returned when the input to an Engine is not a whole number
// of blocks and RejectPartialPolicy is in effect.  It is detected before any
// state is updated.
type LengthError struct {
	NumBits    uint64
	BlockWidth uint
}

// Error fulfills the error interface.
func (err LengthError) Error() string {
	return fmt.Sprintf("input length %d bits is not a multiple of the %d-bit block width (%d trailing bits)", err.NumBits, err.BlockWidth, err.NumBits%uint64(err.BlockWidth))
}

// SerializationError is returned when a persisted Matrix has the wrong
// header, the wrong size, or dimensions that differ from those claimed by the
// caller.
type SerializationError struct {
	Problem          string
	ExpectWidth      uint
	ExpectBlockWidth uint
	ExpectBytes      uint
	ActualWidth      uint
	ActualBlockWidth uint
	ActualBytes      uint
}

// Error fulfills the error interface.
func (err SerializationError) Error() string {
	return fmt.Sprintf(
		"malformed matrix: %s: expected N=%d W=%d (%d bytes), got N=%d W=%d (%d bytes)",
		err.Problem,
		err.ExpectWidth, err.ExpectBlockWidth, err.ExpectBytes,
		err.ActualWidth, err.ActualBlockWidth, err.ActualBytes)
}

var _ error = ConfigurationError{}
var _ error = LengthError{}
var _ error = SerializationError{}
