package lfsr

import (
	"github.com/chronos-tachyon/assert"
)

// SerialModel is the bit-at-a-time Galois LFSR update rule for a Polynomial.
// It is the reference against which every Matrix is built and tested.
type SerialModel struct {
	poly Polynomial
}

// NewSerialModel returns the SerialModel for the given Polynomial.
func NewSerialModel(poly Polynomial) SerialModel {
	assert.Assert(poly.IsValid(), "invalid Polynomial")
	return SerialModel{poly: poly}
}

// Polynomial returns the Polynomial of this SerialModel.
func (sm SerialModel) Polynomial() Polynomial {
	return sm.poly
}

// Step shifts one input bit into state and returns the resulting state.
//
// With upper = state[N-1], fb = upper XOR bit:
//
//	next[i] = state[i-1] XOR (taps[i] AND fb)   for i = N-1 .. 1
//	next[0] = fb
func (sm SerialModel) Step(state Vector, bit bool) Vector {
	n := sm.poly.Width()
	assert.Assertf(state.Width() == n, "state width %d != polynomial width %d", state.Width(), n)

	fb := state.Bit(n-1) != bit
	next := NewVector(n)
	for i := n - 1; i >= 1; i-- {
		b := state.Bit(i - 1)
		if fb && sm.poly.Tap(i) {
			b = !b
		}
		if b {
			next.set.Set(i)
		}
	}
	if fb {
		next.set.Set(0)
	}
	return next
}

// Advance shifts a whole block into state, block[W-1] first and block[0]
// last, and returns the resulting state.
func (sm SerialModel) Advance(state Vector, block Vector) Vector {
	for k := block.Width(); k > 0; k-- {
		state = sm.Step(state, block.Bit(k-1))
	}
	return state
}
