package lfsr

import (
	"math/bits"
)

const strDefault = "default"

const bitsPerByte = 8

func bytesForBits(numBits uint) uint {
	return (numBits + bitsPerByte - 1) / bitsPerByte
}

func makeMask(width uint) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << width) - 1
}

func reverseUint64(x uint64, width uint) uint64 {
	if width == 0 {
		return 0
	}
	return bits.Reverse64(x) >> (64 - width)
}

func gcd(a, b uint) uint {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// bitAt returns bit index of p, counting from the most significant bit of
// p[0].  If reflect is true, each byte is bit-reversed first.
func bitAt(p []byte, index uint64, reflect bool) bool {
	ch := p[index/bitsPerByte]
	if reflect {
		ch = bits.Reverse8(ch)
	}
	return (ch>>(7-index%bitsPerByte))&1 != 0
}

// blockFromBits gathers numBits bits of p starting at bit offset start into
// a block Vector.  The first bit gathered becomes block[numBits-1].
func blockFromBits(p []byte, start uint64, numBits uint, reflect bool) Vector {
	blk := NewVector(numBits)
	for j := uint(0); j < numBits; j++ {
		if bitAt(p, start+uint64(j), reflect) {
			blk.set.Set(numBits - 1 - j)
		}
	}
	return blk
}
