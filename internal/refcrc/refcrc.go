// Package refcrc is a classic byte-at-a-time, table-driven CRC for any width
// from 1 to 64 bits.  It shares no code with the matrix engine and serves as
// an independent reference for it.
package refcrc

import (
	"math/bits"

	"github.com/chronos-tachyon/assert"
)

// Params describes a CRC in the usual parameterized form.  Poly is in normal
// notation (bit i is the coefficient of x^i, x^Width implicit).
type Params struct {
	Width      uint
	Poly       uint64
	Init       uint64
	ReflectIn  bool
	ReflectOut bool
	XorOut     uint64
}

// Table is the 256-entry lookup table for one Params.
type Table struct {
	params Params
	table  [256]uint64
}

// MakeTable builds the lookup table for p.
//
// If p.ReflectIn, the register is kept bit-reversed in the low bits;
// otherwise it is kept left-aligned in the high bits of a uint64 so that the
// same byte-wise recurrence works for every width.
func MakeTable(p Params) *Table {
	assert.Assertf(p.Width >= 1 && p.Width <= 64, "width %d is not in range 1..64", p.Width)
	t := &Table{params: p}
	if p.ReflectIn {
		rpoly := reverse(p.Poly, p.Width)
		for i := uint64(0); i < 256; i++ {
			sum := i
			for j := 0; j < 8; j++ {
				if (sum & 1) == 1 {
					sum = (sum >> 1) ^ rpoly
				} else {
					sum >>= 1
				}
			}
			t.table[i] = sum
		}
	} else {
		apoly := p.Poly << (64 - p.Width)
		for i := uint64(0); i < 256; i++ {
			sum := i << 56
			for j := 0; j < 8; j++ {
				if (sum >> 63) == 1 {
					sum = (sum << 1) ^ apoly
				} else {
					sum <<= 1
				}
			}
			t.table[i] = sum
		}
	}
	return t
}

// Params returns the parameters of this Table.
func (t *Table) Params() Params {
	return t.params
}

// Start returns the register value before any input.
func (t *Table) Start() uint64 {
	if t.params.ReflectIn {
		return reverse(t.params.Init, t.params.Width)
	}
	return t.params.Init << (64 - t.params.Width)
}

// Update feeds p into the register and returns the new register value.
func (t *Table) Update(reg uint64, p []byte) uint64 {
	if t.params.ReflectIn {
		for _, ch := range p {
			reg = t.table[byte(reg)^ch] ^ (reg >> 8)
		}
		return reg
	}
	for _, ch := range p {
		reg = t.table[byte(reg>>56)^ch] ^ (reg << 8)
	}
	return reg
}

// Finish converts a register value into the finalized checksum.
func (t *Table) Finish(reg uint64) uint64 {
	w := t.params.Width
	var normal uint64
	if t.params.ReflectIn {
		normal = reverse(reg, w)
	} else {
		normal = reg >> (64 - w)
	}
	if t.params.ReflectOut {
		normal = reverse(normal, w)
	}
	return normal ^ t.params.XorOut
}

// Checksum returns the finalized checksum of p.
func (t *Table) Checksum(p []byte) uint64 {
	return t.Finish(t.Update(t.Start(), p))
}

// Checksum is a convenience wrapper for MakeTable(params).Checksum(p).
func Checksum(params Params, p []byte) uint64 {
	return MakeTable(params).Checksum(p)
}

func reverse(x uint64, width uint) uint64 {
	return bits.Reverse64(x) >> (64 - width)
}
