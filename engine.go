package lfsr

import (
	"math/bits"

	"github.com/chronos-tachyon/assert"
)

// Engine applies a Matrix to byte or bit streams, W bits per step.
//
// An Engine holds no mutable state: every method takes the current state as
// an argument and returns the new one.  It is safe for concurrent use.
type Engine struct {
	matrix     *Matrix
	cache      *Cache
	strategy   Strategy
	padding    PaddingPolicy
	reflectIn  bool
	reflectOut bool
	init       Vector
	finalXor   Vector
	tracers    []Tracer

	stateTables [][]Vector
	dataTables  [][]Vector
}

// NewEngine constructs and returns a new Engine for the given Matrix and
// options.
func NewEngine(m *Matrix, opts ...Option) *Engine {
	assert.NotNil(&m)

	var o options
	o.reset()
	o.apply(opts)
	o.populateEngineDefaults(m)

	assert.Assertf(o.strategy != TableStrategy || m.BlockWidth()%bitsPerByte == 0, "TableStrategy requires a block width that is a multiple of 8, got %d", m.BlockWidth())
	assert.Assertf(o.init.Width() == m.Width(), "initial state width %d != matrix width %d", o.init.Width(), m.Width())
	assert.Assertf(o.finalXor.Width() == m.Width(), "final XOR mask width %d != matrix width %d", o.finalXor.Width(), m.Width())

	e := &Engine{
		matrix:     m,
		cache:      o.cache,
		strategy:   o.strategy,
		padding:    o.padding,
		reflectIn:  o.reflectIn,
		reflectOut: o.reflectOut,
		init:       *o.init,
		finalXor:   *o.finalXor,
		tracers:    o.tracers,
	}

	if e.strategy == TableStrategy {
		e.buildTables()
	}

	return e
}

// ComputeChecksum processes data with a fresh Engine for m and returns the
// finalized state.  WithFinalXor supplies the optional final XOR mask.
func ComputeChecksum(m *Matrix, initial Vector, data []byte, opts ...Option) (Vector, error) {
	return NewEngine(m, opts...).Compute(initial, data)
}

// Matrix returns the Matrix which this Engine applies.
func (e *Engine) Matrix() *Matrix {
	return e.matrix
}

// Strategy returns the Strategy which this Engine uses.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// PaddingPolicy returns the PaddingPolicy which this Engine uses.
func (e *Engine) PaddingPolicy() PaddingPolicy {
	return e.padding
}

// Init returns the initial state used by Checksum and Hash.
func (e *Engine) Init() Vector {
	return e.init
}

// Update consumes data, most significant bit of data[0] first (least
// significant first if WithReflectInput), and returns the new state.  No
// finalization is applied.
//
// If len(data)*8 is not a multiple of the block width and the PaddingPolicy
// is RejectPartialPolicy, Update returns state unchanged and a LengthError.
func (e *Engine) Update(state Vector, data []byte) (Vector, error) {
	numBits := uint64(len(data)) * bitsPerByte
	if err := e.checkLength(numBits); err != nil {
		return state, err
	}
	e.checkState(state)
	next := e.update(state, data, numBits, e.reflectIn)
	e.sendUpdateEvent(numBits)
	return next, nil
}

// UpdateBits consumes the first numBits bits of data, most significant bit
// of data[0] first, and returns the new state.  Input reflection is never
// applied to a raw bit string.
func (e *Engine) UpdateBits(state Vector, data []byte, numBits uint64) (Vector, error) {
	assert.Assertf(numBits <= uint64(len(data))*bitsPerByte, "numBits %d > %d bits of data", numBits, uint64(len(data))*bitsPerByte)
	if err := e.checkLength(numBits); err != nil {
		return state, err
	}
	e.checkState(state)
	next := e.update(state, data, numBits, false)
	e.sendUpdateEvent(numBits)
	return next, nil
}

// Finalize reflects the state if WithReflectOutput was given, then applies
// the final XOR mask.
func (e *Engine) Finalize(state Vector) Vector {
	e.checkState(state)
	if e.reflectOut {
		state = state.Reverse()
	}
	state = state.Xor(e.finalXor)
	sendEvent(e.tracers, Event{
		Type:       FinalizeEvent,
		Width:      e.matrix.Width(),
		BlockWidth: e.matrix.BlockWidth(),
	})
	return state
}

// Compute is Update followed by Finalize.
func (e *Engine) Compute(initial Vector, data []byte) (Vector, error) {
	state, err := e.Update(initial, data)
	if err != nil {
		return initial, err
	}
	return e.Finalize(state), nil
}

// Checksum is Compute starting from the Engine's initial state.
func (e *Engine) Checksum(data []byte) (Vector, error) {
	return e.Compute(e.init, data)
}

func (e *Engine) checkState(state Vector) {
	assert.Assertf(state.Width() == e.matrix.Width(), "state width %d != matrix width %d", state.Width(), e.matrix.Width())
}

func (e *Engine) checkLength(numBits uint64) error {
	w := uint64(e.matrix.BlockWidth())
	if e.padding == RejectPartialPolicy && numBits%w != 0 {
		return LengthError{NumBits: numBits, BlockWidth: e.matrix.BlockWidth()}
	}
	return nil
}

func (e *Engine) sendUpdateEvent(numBits uint64) {
	if len(e.tracers) == 0 {
		return
	}
	w := uint64(e.matrix.BlockWidth())
	sendEvent(e.tracers, Event{
		Type:        UpdateEvent,
		Width:       e.matrix.Width(),
		BlockWidth:  e.matrix.BlockWidth(),
		NumBits:     numBits,
		NumBlocks:   numBits / w,
		PartialBits: uint(numBits % w),
	})
}

// update consumes numBits bits of p.  A final partial block is always
// processed with a reduced-width Matrix; callers enforce the PaddingPolicy.
func (e *Engine) update(state Vector, p []byte, numBits uint64, reflect bool) Vector {
	w := uint64(e.matrix.BlockWidth())
	numBlocks := numBits / w
	tailBits := uint(numBits % w)

	if w%bitsPerByte == 0 && numBits%bitsPerByte == 0 {
		blockBytes := w / bitsPerByte
		for b := uint64(0); b < numBlocks; b++ {
			offset := b * blockBytes
			state = e.stepBytes(state, p[offset:offset+blockBytes], reflect)
		}
	} else {
		for b := uint64(0); b < numBlocks; b++ {
			blk := blockFromBits(p, b*w, uint(w), reflect)
			state = e.matrix.Apply(state, blk)
		}
	}

	if tailBits != 0 {
		tm := e.tailMatrix(tailBits)
		blk := blockFromBits(p, numBlocks*w, tailBits, reflect)
		state = tm.Apply(state, blk)
	}
	return state
}

func (e *Engine) tailMatrix(tailBits uint) *Matrix {
	tm, err := e.cache.Get(e.matrix.Polynomial(), tailBits)
	assert.Assertf(err == nil, "failed to build %d-bit reduced-width matrix: %v", tailBits, err)
	return tm
}

// stepBytes advances state by one block given as W/8 bytes.
func (e *Engine) stepBytes(state Vector, blk []byte, reflect bool) Vector {
	if e.strategy == TableStrategy {
		return e.stepTables(state, blk, reflect)
	}
	return e.stepRows(state, blk, reflect)
}

func (e *Engine) stepRows(state Vector, blk []byte, reflect bool) Vector {
	w := e.matrix.BlockWidth()
	dataRows := e.matrix.dataRows()

	acc := NewVector(e.matrix.Width())
	acc.accumulate(e.matrix.stateRows(), state)
	for j, ch := range blk {
		if reflect {
			ch = bits.Reverse8(ch)
		}
		base := w - bitsPerByte - uint(j)*bitsPerByte
		for ch != 0 {
			acc.xorInPlace(dataRows[base+uint(bits.TrailingZeros8(ch))])
			ch &= ch - 1
		}
	}
	return acc
}

func (e *Engine) stepTables(state Vector, blk []byte, reflect bool) Vector {
	acc := NewVector(e.matrix.Width())
	for lane, table := range e.stateTables {
		if v := laneValue(state, uint(lane)); v != 0 {
			acc.xorInPlace(table[v])
		}
	}
	for j, ch := range blk {
		if reflect {
			ch = bits.Reverse8(ch)
		}
		if ch != 0 {
			acc.xorInPlace(e.dataTables[j][ch])
		}
	}
	return acc
}

func laneValue(state Vector, lane uint) byte {
	var v byte
	base := lane * bitsPerByte
	for m := uint(0); m < bitsPerByte; m++ {
		i := base + m
		if i >= state.Width() {
			break
		}
		if state.set.Test(i) {
			v |= 1 << m
		}
	}
	return v
}

// buildTables precomputes, for every 8-bit lane of the state and of the
// block, the XOR of the rows selected by each of the 256 lane values.
func (e *Engine) buildTables() {
	n := e.matrix.Width()
	w := e.matrix.BlockWidth()
	stateRows := e.matrix.stateRows()
	dataRows := e.matrix.dataRows()

	numLanes := bytesForBits(n)
	e.stateTables = make([][]Vector, numLanes)
	for lane := uint(0); lane < numLanes; lane++ {
		lo := lane * bitsPerByte
		hi := lo + bitsPerByte
		if hi > n {
			hi = n
		}
		e.stateTables[lane] = buildLaneTable(n, stateRows[lo:hi])
	}

	numBytes := w / bitsPerByte
	e.dataTables = make([][]Vector, numBytes)
	for j := uint(0); j < numBytes; j++ {
		base := w - bitsPerByte - j*bitsPerByte
		e.dataTables[j] = buildLaneTable(n, dataRows[base:base+bitsPerByte])
	}
}

func buildLaneTable(width uint, rows []Vector) []Vector {
	table := make([]Vector, 256)
	table[0] = NewVector(width)
	for v := 1; v < 256; v++ {
		low := uint(bits.TrailingZeros8(uint8(v)))
		prev := table[v&(v-1)]
		if low < uint(len(rows)) {
			table[v] = prev.Xor(rows[low])
		} else {
			table[v] = prev
		}
	}
	return table
}
