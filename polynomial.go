package lfsr

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/chronos-tachyon/assert"
)

// Polynomial describes the feedback taps of an N-bit LFSR.  Tap i is the
// coefficient of x^i; the leading coefficient of x^N is implicit and is not
// stored.  The zero Polynomial is invalid.
type Polynomial struct {
	taps Vector
}

// NewPolynomial returns the Polynomial of the given width with the given
// taps.  It fails with ConfigurationError if width is 0 or if len(taps) is
// not width.
func NewPolynomial(width uint, taps []bool) (Polynomial, error) {
	if width == 0 {
		return Polynomial{}, ConfigurationError{Field: "width", Problem: "must be at least 1"}
	}
	if uint(len(taps)) != width {
		return Polynomial{}, ConfigurationError{
			Field:   "taps",
			Problem: fmt.Sprintf("got %d taps for a width-%d polynomial", len(taps), width),
		}
	}
	return Polynomial{taps: VectorFromBits(taps)}, nil
}

// PolynomialFromUint64 returns the Polynomial of the given width whose taps
// are the bits of coeffs, in the usual "normal" CRC notation: bit i is the
// coefficient of x^i.  For instance, CRC-32 is PolynomialFromUint64(32,
// 0x04c11db7).
func PolynomialFromUint64(width uint, coeffs uint64) (Polynomial, error) {
	if width == 0 || width > 64 {
		return Polynomial{}, ConfigurationError{Field: "width", Problem: fmt.Sprintf("%d is not in range 1..64", width)}
	}
	if (coeffs &^ makeMask(width)) != 0 {
		return Polynomial{}, ConfigurationError{
			Field:   "poly",
			Problem: fmt.Sprintf("%#x has coefficients at or above x^%d", coeffs, width),
		}
	}
	return Polynomial{taps: VectorFromUint64(width, coeffs)}, nil
}

// ParsePolynomial parses an algebraic polynomial such as
// "x^32+x^26+x^23+x^22+x^16+x^12+x^11+x^10+x^8+x^7+x^5+x^4+x^2+x+1".  The
// highest exponent present becomes the width.
func ParsePolynomial(str string) (Polynomial, error) {
	fail := func(problem string, args ...interface{}) (Polynomial, error) {
		return Polynomial{}, ConfigurationError{Field: "poly", Problem: fmt.Sprintf(problem, args...)}
	}

	seen := make(map[uint]struct{})
	var exponents []uint
	for _, term := range strings.Split(str, "+") {
		term = strings.ToLower(strings.TrimSpace(term))
		var exp uint
		switch {
		case term == "":
			return fail("empty term in %q", str)
		case term == "1":
			exp = 0
		case term == "x":
			exp = 1
		case strings.HasPrefix(term, "x^"):
			u64, err := strconv.ParseUint(strings.TrimSpace(term[2:]), 10, 32)
			if err != nil {
				return fail("bad exponent in term %q: %v", term, err)
			}
			exp = uint(u64)
		default:
			return fail("unrecognized term %q", term)
		}
		if _, found := seen[exp]; found {
			return fail("duplicate term x^%d", exp)
		}
		seen[exp] = struct{}{}
		exponents = append(exponents, exp)
	}

	sort.Slice(exponents, func(i, j int) bool { return exponents[i] > exponents[j] })
	width := exponents[0]
	if width == 0 {
		return fail("degree must be at least 1")
	}

	taps := NewVector(width)
	for _, exp := range exponents[1:] {
		taps.set.Set(exp)
	}
	return Polynomial{taps: taps}, nil
}

// IsValid returns true if p has a nonzero width.
func (p Polynomial) IsValid() bool {
	return p.taps.Width() != 0
}

// Width returns N, the degree of the polynomial and the checksum width.
func (p Polynomial) Width() uint {
	return p.taps.Width()
}

// Tap returns the coefficient of x^i, for i < N.
func (p Polynomial) Tap(i uint) bool {
	return p.taps.Bit(i)
}

// Taps returns a copy of the coefficients of x^0 .. x^(N-1).
func (p Polynomial) Taps() []bool {
	out := make([]bool, p.Width())
	for _, i := range p.taps.Ones() {
		out[i] = true
	}
	return out
}

// TapVector returns the taps as a Vector.
func (p Polynomial) TapVector() Vector {
	return p.taps
}

// Uint64 returns the taps in normal CRC notation.  N must not exceed 64.
func (p Polynomial) Uint64() uint64 {
	assert.Assertf(p.Width() <= 64, "polynomial width %d > 64", p.Width())
	return p.taps.Uint64()
}

// Equal returns true iff p and q have the same width and taps.
func (p Polynomial) Equal(q Polynomial) bool {
	return p.taps.Equal(q.taps)
}

func (p Polynomial) key() string {
	return fmt.Sprintf("%d:%s", p.Width(), p.taps.String())
}

// GoString returns the Go string representation of this Polynomial.
func (p Polynomial) GoString() string {
	return fmt.Sprintf("Polynomial(%q)", p.String())
}

// String returns the algebraic form of this Polynomial, highest term first.
func (p Polynomial) String() string {
	if !p.IsValid() {
		return "invalid"
	}

	sb := takeStringsBuilder()
	defer giveStringsBuilder(sb)

	writeTerm := func(exp uint) {
		switch exp {
		case 0:
			sb.WriteByte('1')
		case 1:
			sb.WriteByte('x')
		default:
			sb.WriteString("x^")
			sb.WriteString(strconv.FormatUint(uint64(exp), 10))
		}
	}

	writeTerm(p.Width())
	ones := p.taps.Ones()
	for index := len(ones) - 1; index >= 0; index-- {
		sb.WriteByte('+')
		writeTerm(ones[index])
	}
	return sb.String()
}

var _ fmt.GoStringer = Polynomial{}
var _ fmt.Stringer = Polynomial{}
