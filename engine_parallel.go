package lfsr

import (
	"time"

	"github.com/chronos-tachyon/assert"
	"golang.org/x/sync/errgroup"
)

// Combine returns the state reached by processing a message A followed by a
// message B of numBits bits, given s1 = Update(initial, A) and s2 =
// Update(zero, B).  It relies on the linearity of the update:
//
//	Update(s1, B) = Shift(s1, numBits) XOR Update(zero, B)
//
// where Shift advances a state over numBits zero bits in O(N² log numBits)
// time.
func (e *Engine) Combine(s1 Vector, s2 Vector, numBits uint64) (Vector, error) {
	if err := e.checkLength(numBits); err != nil {
		return s1, err
	}
	e.checkState(s1)
	e.checkState(s2)
	out := e.shift(s1, numBits).Xor(s2)
	sendEvent(e.tracers, Event{
		Type:       CombineEvent,
		Width:      e.matrix.Width(),
		BlockWidth: e.matrix.BlockWidth(),
		NumBits:    numBits,
		Partitions: 2,
	})
	return out, nil
}

// UpdateParallel is equivalent to Update, but splits data into up to
// partitions spans which are processed concurrently and then stitched
// together with Combine.
func (e *Engine) UpdateParallel(state Vector, data []byte, partitions uint) (Vector, error) {
	numBits := uint64(len(data)) * bitsPerByte
	if err := e.checkLength(numBits); err != nil {
		return state, err
	}
	e.checkState(state)

	// Partition boundaries fall on both byte and block boundaries.
	w := e.matrix.BlockWidth()
	unitBytes := uint64(w / gcd(w, bitsPerByte))
	numUnits := uint64(len(data)) / unitBytes
	if partitions > 1 && uint64(partitions) > numUnits {
		partitions = uint(numUnits)
	}
	if partitions <= 1 {
		return e.Update(state, data)
	}

	start := time.Now()

	spans := make([][]byte, partitions)
	unitsPer := numUnits / uint64(partitions)
	extra := numUnits % uint64(partitions)
	var offset uint64
	for i := uint(0); i < partitions; i++ {
		units := unitsPer
		if uint64(i) < extra {
			units++
		}
		end := offset + units*unitBytes
		if i == partitions-1 {
			end = uint64(len(data))
		}
		spans[i] = data[offset:end]
		offset = end
	}

	zero := NewVector(e.matrix.Width())
	partials := make([]Vector, partitions)
	var g errgroup.Group
	for i := range spans {
		i := i
		g.Go(func() error {
			span := spans[i]
			partials[i] = e.update(zero, span, uint64(len(span))*bitsPerByte, e.reflectIn)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return state, err
	}

	for i, span := range spans {
		state = e.shift(state, uint64(len(span))*bitsPerByte).Xor(partials[i])
	}

	sendEvent(e.tracers, Event{
		Type:       CombineEvent,
		Width:      e.matrix.Width(),
		BlockWidth: e.matrix.BlockWidth(),
		NumBits:    numBits,
		NumBlocks:  numBits / uint64(w),
		Partitions: partitions,
		Elapsed:    time.Since(start),
	})
	return state, nil
}

// shift advances state over numBits zero input bits.
func (e *Engine) shift(state Vector, numBits uint64) Vector {
	w := uint64(e.matrix.BlockWidth())
	numBlocks := numBits / w
	tailBits := uint(numBits % w)

	state = powerApply(e.matrix.stateRows(), state, numBlocks)
	if tailBits != 0 {
		state = e.tailMatrix(tailBits).ApplyState(state)
	}
	return state
}

// powerApply returns state multiplied by the k-th power of the square
// operator whose rows are given.
func powerApply(rows []Vector, state Vector, k uint64) Vector {
	assert.Assertf(uint(len(rows)) == state.Width(), "%d rows for a %d-bit state", len(rows), state.Width())
	base := rows
	for k != 0 {
		if (k & 1) != 0 {
			acc := NewVector(state.Width())
			acc.accumulate(base, state)
			state = acc
		}
		k >>= 1
		if k != 0 {
			base = composeOperators(base, base)
		}
	}
	return state
}

// composeOperators returns the operator which applies a, then b.
func composeOperators(a []Vector, b []Vector) []Vector {
	out := make([]Vector, len(a))
	for i, row := range a {
		acc := NewVector(row.Width())
		acc.accumulate(b, row)
		out[i] = acc
	}
	return out
}
