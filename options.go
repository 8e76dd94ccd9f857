package lfsr

import (
	"github.com/chronos-tachyon/assert"
)

// Option represents a configuration option for Build, NewEngine, Emit, or
// NewCache.  Options which do not apply to a given constructor are ignored.
type Option func(*options)

type options struct {
	strategy   Strategy
	padding    PaddingPolicy
	reflectIn  bool
	reflectOut bool
	init       *Vector
	finalXor   *Vector
	tracers    []Tracer
	cache      *Cache
}

func (o *options) reset() {
	*o = options{
		strategy:   DefaultStrategy,
		padding:    DefaultPaddingPolicy,
		reflectIn:  false,
		reflectOut: false,
		init:       nil,
		finalXor:   nil,
		tracers:    nil,
		cache:      nil,
	}
}

func (o *options) apply(opts []Option) {
	for _, opt := range opts {
		opt(o)
	}
}

func (o *options) populateEngineDefaults(m *Matrix) {
	if o.strategy == DefaultStrategy {
		o.strategy = RowStrategy
		if m.BlockWidth()%bitsPerByte == 0 {
			o.strategy = TableStrategy
		}
	}
	if o.init == nil {
		zero := NewVector(m.Width())
		o.init = &zero
	}
	if o.finalXor == nil {
		zero := NewVector(m.Width())
		o.finalXor = &zero
	}
	if o.cache == nil {
		o.cache = SharedCache()
	}
}

// WithStrategy specifies the Strategy to use (NewEngine).
func WithStrategy(strategy Strategy) Option {
	assert.Assertf(strategy.IsValid(), "invalid Strategy %d", uint(strategy))
	return func(o *options) { o.strategy = strategy }
}

// WithPaddingPolicy specifies how input that is not a whole number of
// blocks is treated (NewEngine).
func WithPaddingPolicy(padding PaddingPolicy) Option {
	assert.Assertf(padding.IsValid(), "invalid PaddingPolicy %d", uint(padding))
	return func(o *options) { o.padding = padding }
}

// WithReflectInput specifies whether each input byte is consumed least
// significant bit first (NewEngine).
func WithReflectInput(value bool) Option {
	return func(o *options) { o.reflectIn = value }
}

// WithReflectOutput specifies whether the state is bit-reversed before the
// final XOR is applied (NewEngine).
func WithReflectOutput(value bool) Option {
	return func(o *options) { o.reflectOut = value }
}

// WithInit specifies the initial state used by Engine.Checksum and Hash
// (NewEngine).  Its width must match the Matrix.
func WithInit(state Vector) Option {
	return func(o *options) { o.init = &state }
}

// WithFinalXor specifies the mask XORed into the state by Engine.Finalize
// (NewEngine).  Its width must match the Matrix.
func WithFinalXor(mask Vector) Option {
	return func(o *options) { o.finalXor = &mask }
}

// WithTracers specifies the list of Tracer instances which will receive
// Events.  Completely replaces any previous list.
func WithTracers(tracers ...Tracer) Option {
	for _, tr := range tracers {
		assert.NotNil(&tr)
	}
	if len(tracers) == 0 {
		tracers = nil
	} else {
		tmp := make([]Tracer, len(tracers))
		copy(tmp, tracers)
		tracers = tmp
	}
	return func(o *options) { o.tracers = tracers }
}

// WithCache specifies the Cache which an Engine uses to obtain reduced-width
// matrices (NewEngine).  The default is SharedCache().
func WithCache(cache *Cache) Option {
	assert.NotNil(&cache)
	return func(o *options) { o.cache = cache }
}
