package lfsr

import (
	"hash"
	"math/bits"

	"github.com/chronos-tachyon/assert"
	buffer "github.com/chronos-tachyon/buffer/v3"
)

const minPendingNumBits = 8

// Hash is a streaming hash.Hash over an Engine whose block width is a
// multiple of 8.  Bytes are staged until a whole block is available; at Sum
// time any staged tail is processed with a reduced-width Matrix, whatever
// the Engine's PaddingPolicy.
type Hash struct {
	engine     *Engine
	state      Vector
	pending    buffer.Buffer
	numPending uint
	blockBytes uint
	tmp        []byte
}

// NewHash returns a new Hash which starts from the Engine's initial state.
func (e *Engine) NewHash() *Hash {
	w := e.matrix.BlockWidth()
	assert.Assertf(w%bitsPerByte == 0, "Hash requires a block width that is a multiple of 8, got %d", w)

	blockBytes := w / bitsPerByte
	numBits := uint(bits.Len(blockBytes)) + 1
	if numBits < minPendingNumBits {
		numBits = minPendingNumBits
	}

	h := &Hash{
		engine:     e,
		state:      e.init,
		blockBytes: blockBytes,
		tmp:        make([]byte, blockBytes),
	}
	h.pending.Init(numBits)
	return h
}

// Size returns the number of bytes Sum will append: ceil(N/8).
func (h *Hash) Size() int {
	return int(bytesForBits(h.engine.matrix.Width()))
}

// BlockSize returns the block width in bytes.
func (h *Hash) BlockSize() int {
	return int(h.blockBytes)
}

// Reset returns the Hash to the Engine's initial state.
func (h *Hash) Reset() {
	h.state = h.engine.init
	h.pending.Clear()
	h.numPending = 0
}

// Write consumes p.  It never returns an error.
func (h *Hash) Write(p []byte) (int, error) {
	length := uint(len(p))
	var i uint
	for i < length {
		nn, _ := h.pending.Write(p[i:])
		i += uint(nn)
		h.numPending += uint(nn)
		for h.numPending >= h.blockBytes {
			h.readPending(h.tmp)
			h.state = h.engine.stepBytes(h.state, h.tmp, h.engine.reflectIn)
		}
	}
	return int(length), nil
}

func (h *Hash) readPending(p []byte) {
	want := uint(len(p))
	var got uint
	for got < want {
		nn, _ := h.pending.Read(p[got:])
		assert.Assertf(nn > 0, "pending buffer returned no data with %d bytes outstanding", want-got)
		got += uint(nn)
	}
	h.numPending -= want
}

// State returns the unfinalized state, including any staged tail.
func (h *Hash) State() Vector {
	if h.numPending == 0 {
		return h.state
	}
	tail := make([]byte, h.numPending)
	h.readPending(tail)
	_, _ = h.pending.Write(tail)
	h.numPending = uint(len(tail))
	return h.engine.update(h.state, tail, uint64(len(tail))*bitsPerByte, h.engine.reflectIn)
}

// Checksum returns the finalized state.
func (h *Hash) Checksum() Vector {
	return h.engine.Finalize(h.State())
}

// Sum appends the big-endian finalized state to slice.
func (h *Hash) Sum(slice []byte) []byte {
	return append(slice, h.Checksum().Bytes()...)
}

// Sum32 returns the finalized state as an integer.  N must not exceed 32.
func (h *Hash) Sum32() uint32 {
	assert.Assertf(h.engine.matrix.Width() <= 32, "Sum32 on a %d-bit checksum", h.engine.matrix.Width())
	return uint32(h.Checksum().Uint64())
}

// Sum64 returns the finalized state as an integer.  N must not exceed 64.
func (h *Hash) Sum64() uint64 {
	return h.Checksum().Uint64()
}

var _ hash.Hash = (*Hash)(nil)
var _ hash.Hash32 = (*Hash)(nil)
var _ hash.Hash64 = (*Hash)(nil)
