package lfsr

import (
	"encoding/hex"
	"fmt"
	"strings"

	fuzz "github.com/google/gofuzz"
)

func mustDecodeHex(str string) []byte {
	raw, err := hex.DecodeString(str)
	if err != nil {
		panic(err)
	}
	return raw
}

func mustPolynomial(width uint, coeffs uint64) Polynomial {
	poly, err := PolynomialFromUint64(width, coeffs)
	if err != nil {
		panic(err)
	}
	return poly
}

func mustBuild(poly Polynomial, blockWidth uint) *Matrix {
	m, err := Build(poly, blockWidth)
	if err != nil {
		panic(err)
	}
	return m
}

// newFuzzer returns a deterministic fuzzer, so that failures reproduce.
func newFuzzer(seed int64) *fuzz.Fuzzer {
	return fuzz.NewWithSeed(seed).NilChance(0)
}

func fuzzBytes(fz *fuzz.Fuzzer, length int) []byte {
	p := make([]byte, length)
	for i := range p {
		fz.Fuzz(&p[i])
	}
	return p
}

func fuzzVector(fz *fuzz.Fuzzer, width uint) Vector {
	v := NewVector(width)
	for i := uint(0); i < width; i++ {
		var bit bool
		fz.Fuzz(&bit)
		if bit {
			v.set.Set(i)
		}
	}
	return v
}

// serialUpdate feeds numBits bits of p through the bit-serial model, one
// bit at a time, in the same order as Engine.update.
func serialUpdate(poly Polynomial, state Vector, p []byte, numBits uint64, reflect bool) Vector {
	sm := NewSerialModel(poly)
	for i := uint64(0); i < numBits; i++ {
		state = sm.Step(state, bitAt(p, i, reflect))
	}
	return state
}

func hexDump(p []byte) []string {
	length := uint(len(p))
	lines := make([]string, 0, (length+15)>>4)
	var offset uint
	var buf strings.Builder
	for (offset + 16) <= length {
		buf.Reset()
		fmt.Fprintf(&buf, "%08x|", offset)
		for i := uint(0); i < 16; i++ {
			index := offset + i
			ch := p[index]
			fmt.Fprintf(&buf, " %02x", ch)
			if i == 7 {
				buf.WriteByte(' ')
			}
		}
		lines = append(lines, buf.String())
		offset += 16
	}
	if offset < length || offset == 0 {
		buf.Reset()
		fmt.Fprintf(&buf, "%08x|", offset)
		for i := uint(0); i < 16; i++ {
			index := offset + i
			if index < length {
				ch := p[index]
				fmt.Fprintf(&buf, " %02x", ch)
			} else {
				buf.WriteString(" --")
			}
			if i == 7 {
				buf.WriteByte(' ')
			}
		}
		lines = append(lines, buf.String())
	}
	return lines
}

func hexDiff(a, b []byte) []string {
	aLines := hexDump(a)
	bLines := hexDump(b)

	aLen := uint(len(aLines))
	bLen := uint(len(bLines))
	minLen := aLen
	if minLen > bLen {
		minLen = bLen
	}

	diffLines := make([]string, 0, aLen+bLen)
	for i := uint(0); i < minLen; i++ {
		aLine := aLines[i]
		bLine := bLines[i]
		if aLine == bLine {
			continue
		}
		diffLines = append(diffLines, "-"+aLine)
		diffLines = append(diffLines, "+"+bLine)
	}
	for i := minLen; i < aLen; i++ {
		aLine := aLines[i]
		diffLines = append(diffLines, "-"+aLine)
	}
	for i := minLen; i < bLen; i++ {
		bLine := bLines[i]
		diffLines = append(diffLines, "+"+bLine)
	}
	return diffLines
}

func tabify(lines []string) string {
	var buf strings.Builder
	for _, line := range lines {
		buf.WriteByte('\n')
		buf.WriteByte('\t')
		buf.WriteString(line)
	}
	return buf.String()
}
