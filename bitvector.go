package lfsr

import (
	"fmt"
	"math/bits"

	"github.com/chronos-tachyon/assert"
	"github.com/willf/bitset"
)

// Vector is a fixed-width vector over GF(2).  It is used for checksum
// register states, input blocks, and the rows of a Matrix.
//
// Vector values are immutable: every operation which produces a different
// vector returns a fresh one.  The zero Vector has width 0.
type Vector struct {
	width uint
	set   *bitset.BitSet
}

// NewVector returns the all-zero Vector of the given width.
func NewVector(width uint) Vector {
	return Vector{width: width, set: bitset.New(width)}
}

// BasisVector returns the standard basis vector of the given width which has
// only bit i set.
func BasisVector(width uint, i uint) Vector {
	assert.Assertf(i < width, "bit index %d >= width %d", i, width)
	v := NewVector(width)
	v.set.Set(i)
	return v
}

// VectorFromUint64 returns a Vector of the given width whose bit i is bit i
// of x.  The width must not exceed 64, and x must have no bits set at or
// above the width.
func VectorFromUint64(width uint, x uint64) Vector {
	assert.Assertf(width <= 64, "width %d > 64", width)
	assert.Assertf(width == 64 || (x>>width) == 0, "value %#x does not fit in %d bits", x, width)
	v := NewVector(width)
	for x != 0 {
		i := uint(bits.TrailingZeros64(x))
		v.set.Set(i)
		x &= x - 1
	}
	return v
}

// VectorFromBits returns a Vector whose bit i is list[i].
func VectorFromBits(list []bool) Vector {
	v := NewVector(uint(len(list)))
	for i, bit := range list {
		if bit {
			v.set.Set(uint(i))
		}
	}
	return v
}

// VectorFromBytes decodes the big-endian representation produced by Bytes.
func VectorFromBytes(width uint, p []byte) Vector {
	length := uint(len(p))
	assert.Assertf(length == bytesForBits(width), "got %d bytes, want %d bytes for width %d", length, bytesForBits(width), width)
	v := NewVector(width)
	for index, ch := range p {
		base := (length - 1 - uint(index)) * bitsPerByte
		for ch != 0 {
			i := base + uint(bits.TrailingZeros8(ch))
			assert.Assertf(i < width, "bit %d set beyond width %d", i, width)
			v.set.Set(i)
			ch &= ch - 1
		}
	}
	return v
}

// Width returns the number of bits in this Vector.
func (v Vector) Width() uint {
	return v.width
}

// Bit returns bit i of this Vector.
func (v Vector) Bit(i uint) bool {
	assert.Assertf(i < v.width, "bit index %d >= width %d", i, v.width)
	return v.set.Test(i)
}

// WithBit returns a copy of this Vector with bit i set to the given value.
func (v Vector) WithBit(i uint, bit bool) Vector {
	assert.Assertf(i < v.width, "bit index %d >= width %d", i, v.width)
	out := v.Clone()
	out.set.SetTo(i, bit)
	return out
}

// Clone returns a deep copy of this Vector.
func (v Vector) Clone() Vector {
	if v.set == nil {
		return NewVector(v.width)
	}
	return Vector{width: v.width, set: v.set.Clone()}
}

// Xor returns the GF(2) sum of this Vector and u.
func (v Vector) Xor(u Vector) Vector {
	out := v.Clone()
	out.xorInPlace(u)
	return out
}

func (v *Vector) xorInPlace(u Vector) {
	assert.Assertf(v.width == u.width, "width mismatch: %d vs %d", v.width, u.width)
	if u.set == nil {
		return
	}
	v.set.InPlaceSymmetricDifference(u.set)
}

// accumulate XORs rows[i] into v for every bit i set in sel.
func (v *Vector) accumulate(rows []Vector, sel Vector) {
	assert.Assertf(uint(len(rows)) == sel.width, "%d rows for a %d-bit selector", len(rows), sel.width)
	if sel.set == nil {
		return
	}
	for i, ok := sel.set.NextSet(0); ok; i, ok = sel.set.NextSet(i + 1) {
		v.xorInPlace(rows[i])
	}
}

// Equal returns true iff this Vector and u have the same width and bits.
func (v Vector) Equal(u Vector) bool {
	if v.width != u.width {
		return false
	}
	if v.IsZero() || u.IsZero() {
		return v.IsZero() && u.IsZero()
	}
	return v.set.Equal(u.set)
}

// IsZero returns true iff no bits are set.
func (v Vector) IsZero() bool {
	return v.set == nil || v.set.None()
}

// Count returns the number of bits set.
func (v Vector) Count() uint {
	if v.set == nil {
		return 0
	}
	return v.set.Count()
}

// Ones returns the indices of the set bits, in ascending order.
func (v Vector) Ones() []uint {
	out := make([]uint, 0, v.Count())
	if v.set == nil {
		return out
	}
	for i, ok := v.set.NextSet(0); ok; i, ok = v.set.NextSet(i + 1) {
		out = append(out, i)
	}
	return out
}

// Reverse returns this Vector with bit i moved to bit Width()-1-i.
func (v Vector) Reverse() Vector {
	out := NewVector(v.width)
	for _, i := range v.Ones() {
		out.set.Set(v.width - 1 - i)
	}
	return out
}

// Uint64 returns this Vector packed into an integer, bit i into bit i.  The
// width must not exceed 64.
func (v Vector) Uint64() uint64 {
	assert.Assertf(v.width <= 64, "width %d > 64", v.width)
	var x uint64
	for _, i := range v.Ones() {
		x |= uint64(1) << i
	}
	return x
}

// Bytes returns the big-endian representation of this Vector: bit i lives
// in byte len-1-i/8, bit position i%8.
func (v Vector) Bytes() []byte {
	length := bytesForBits(v.width)
	out := make([]byte, length)
	for _, i := range v.Ones() {
		out[length-1-i/bitsPerByte] |= byte(1) << (i % bitsPerByte)
	}
	return out
}

// GoString returns the Go string representation of this Vector.
func (v Vector) GoString() string {
	return fmt.Sprintf("Vector(%d, %s)", v.width, v.String())
}

// String returns the hexadecimal representation of this Vector, most
// significant nibble first.
func (v Vector) String() string {
	const hexDigits = "0123456789abcdef"

	sb := takeStringsBuilder()
	defer giveStringsBuilder(sb)

	sb.WriteString("0x")
	numNibbles := (v.width + 3) / 4
	if numNibbles == 0 {
		sb.WriteByte('0')
	}
	for n := numNibbles; n > 0; n-- {
		var nibble byte
		for m := uint(0); m < 4; m++ {
			i := (n-1)*4 + m
			if i < v.width && v.set.Test(i) {
				nibble |= 1 << m
			}
		}
		sb.WriteByte(hexDigits[nibble])
	}
	return sb.String()
}

var _ fmt.GoStringer = Vector{}
var _ fmt.Stringer = Vector{}
