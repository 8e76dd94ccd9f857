package lfsr

import (
	"time"

	"github.com/rs/zerolog"
)

// Tracer is an interface which callers can implement in order to receive
// Events.  Events provide feedback on matrix construction and on the
// progress of checksum computations.
type Tracer interface {
	OnEvent(Event)
}

// Event is a collection of fields that provide feedback on an operation in
// progress.  Fields which do not apply to the Type are left zero.
type Event struct {
	Type        EventType
	Width       uint
	BlockWidth  uint
	Polynomial  string        `json:",omitempty"`
	NumBits     uint64        `json:",omitempty"`
	NumBlocks   uint64        `json:",omitempty"`
	PartialBits uint          `json:",omitempty"`
	Partitions  uint          `json:",omitempty"`
	Column      uint          `json:",omitempty"`
	Elapsed     time.Duration `json:",omitempty"`
}

func sendEvent(tracers []Tracer, event Event) {
	for _, tr := range tracers {
		tr.OnEvent(event)
	}
}

// type NoOpTracer {{{

// NoOpTracer is an implementation of Tracer that does nothing.
type NoOpTracer struct{}

// OnEvent fulfills Tracer.
func (NoOpTracer) OnEvent(event Event) {}

var _ Tracer = NoOpTracer{}

// }}}

// type TracerFunc {{{

// TracerFunc is an implementation of Tracer that calls a function.
type TracerFunc func(Event)

// OnEvent fulfills Tracer.
func (tr TracerFunc) OnEvent(event Event) {
	tr(event)
}

var _ Tracer = TracerFunc(nil)

// }}}

// type logTracer {{{

// Log returns a Tracer implementation which will log each Event at Trace
// priority, except for DegenerateColumnEvent which is logged at Warn
// priority.
func Log(logger zerolog.Logger) Tracer {
	return logTracer{logger: logger}
}

type logTracer struct {
	logger zerolog.Logger
}

// OnEvent fulfills Tracer.
func (tr logTracer) OnEvent(event Event) {
	if event.Type == DegenerateColumnEvent {
		tr.logger.Warn().
			Uint("column", event.Column).
			Uint("width", event.Width).
			Uint("blockWidth", event.BlockWidth).
			Msg("output column is always zero")
		return
	}
	tr.logger.Trace().
		Interface("event", event).
		Msg("OnEvent")
}

var _ Tracer = logTracer{}

// }}}
