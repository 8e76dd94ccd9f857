package lfsr

import (
	"fmt"

	"github.com/chronos-tachyon/enumhelper"
)

// EventType indicates the type of an Event.
type EventType byte

const (
	// MatrixBuildEvent indicates that a Matrix was built from its
	// Polynomial.
	MatrixBuildEvent EventType = iota

	// CacheHitEvent indicates that a Cache returned a previously built
	// Matrix.
	CacheHitEvent

	// UpdateEvent indicates that an Engine consumed a span of input.
	UpdateEvent

	// CombineEvent indicates that independently computed partition states
	// were stitched together.
	CombineEvent

	// FinalizeEvent indicates that the output reflection and final XOR
	// were applied to a state.
	FinalizeEvent

	// DegenerateColumnEvent indicates that an output column of a Matrix is
	// always zero.  This never happens for a Matrix produced by Build.
	DegenerateColumnEvent
)

var eventTypeData = []enumhelper.EnumData{
	{GoName: "MatrixBuildEvent", Name: "matrix-build"},
	{GoName: "CacheHitEvent", Name: "cache-hit"},
	{GoName: "UpdateEvent", Name: "update"},
	{GoName: "CombineEvent", Name: "combine"},
	{GoName: "FinalizeEvent", Name: "finalize"},
	{GoName: "DegenerateColumnEvent", Name: "degenerate-column"},
}

// GoString returns the Go string representation of this EventType constant.
func (e EventType) GoString() string {
	return enumhelper.DereferenceEnumData("EventType", eventTypeData, uint(e)).GoName
}

// String returns the string representation of this EventType constant.
func (e EventType) String() string {
	return enumhelper.DereferenceEnumData("EventType", eventTypeData, uint(e)).Name
}

// MarshalJSON returns the JSON representation of this EventType constant.
func (e EventType) MarshalJSON() ([]byte, error) {
	return enumhelper.MarshalEnumToJSON("EventType", eventTypeData, uint(e))
}

var _ fmt.GoStringer = EventType(0)
var _ fmt.Stringer = EventType(0)
