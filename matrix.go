package lfsr

import (
	"fmt"
	"time"

	"github.com/chronos-tachyon/assert"
	"github.com/hashicorp/go-multierror"
)

// Matrix is the transition matrix which advances an N-bit LFSR by W input
// bits in a single step.  It has N+W rows of N columns:
//
//	rows 0 .. N-1      the StateSubmatrix: row i is the state reached after
//	                   W zero input bits, starting from the state with only
//	                   bit i set.
//	rows N .. N+W-1    the DataSubmatrix: row N+k is the state reached from
//	                   the zero state after the block with only bit k set.
//
// By superposition, next = ApplyState(state) XOR ApplyData(block).
//
// A Matrix is immutable once built and is safe for concurrent use.
type Matrix struct {
	poly       Polynomial
	width      uint
	blockWidth uint
	rows       []Vector
}

// BuildMatrix validates a caller-declared width against the taps and builds
// the Matrix for the given block width.  Every problem found is reported;
// more than one is returned as a *multierror.Error.
func BuildMatrix(width uint, taps []bool, blockWidth uint, opts ...Option) (*Matrix, error) {
	var errlist []error
	if width == 0 {
		errlist = append(errlist, ConfigurationError{Field: "width", Problem: "must be at least 1"})
	}
	if uint(len(taps)) != width {
		errlist = append(errlist, ConfigurationError{
			Field:   "taps",
			Problem: fmt.Sprintf("got %d taps for a width-%d polynomial", len(taps), width),
		})
	}
	if blockWidth == 0 {
		errlist = append(errlist, ConfigurationError{Field: "blockWidth", Problem: "must be at least 1"})
	}

	switch len(errlist) {
	case 0:
		// pass
	case 1:
		return nil, errlist[0]
	default:
		return nil, &multierror.Error{Errors: errlist}
	}

	poly, err := NewPolynomial(width, taps)
	if err != nil {
		return nil, err
	}
	return Build(poly, blockWidth, opts...)
}

// Build constructs the Matrix for the given Polynomial and block width by
// probing the SerialModel with basis vectors.
func Build(poly Polynomial, blockWidth uint, opts ...Option) (*Matrix, error) {
	var errlist []error
	if !poly.IsValid() {
		errlist = append(errlist, ConfigurationError{Field: "poly", Problem: "zero-width polynomial"})
	}
	if blockWidth == 0 {
		errlist = append(errlist, ConfigurationError{Field: "blockWidth", Problem: "must be at least 1"})
	}
	switch len(errlist) {
	case 0:
		// pass
	case 1:
		return nil, errlist[0]
	default:
		return nil, &multierror.Error{Errors: errlist}
	}

	var o options
	o.reset()
	o.apply(opts)

	start := time.Now()

	n := poly.Width()
	sm := NewSerialModel(poly)
	zeroState := NewVector(n)
	zeroBlock := NewVector(blockWidth)

	rows := make([]Vector, n+blockWidth)
	for i := uint(0); i < n; i++ {
		rows[i] = sm.Advance(BasisVector(n, i), zeroBlock)
	}
	for k := uint(0); k < blockWidth; k++ {
		rows[n+k] = sm.Advance(zeroState, BasisVector(blockWidth, k))
	}

	m := &Matrix{
		poly:       poly,
		width:      n,
		blockWidth: blockWidth,
		rows:       rows,
	}

	sendEvent(o.tracers, Event{
		Type:       MatrixBuildEvent,
		Width:      n,
		BlockWidth: blockWidth,
		Polynomial: poly.String(),
		Elapsed:    time.Since(start),
	})

	return m, nil
}

// Polynomial returns the Polynomial this Matrix was built from.  A Matrix
// decoded from its flat bit array recovers the taps from DataSubmatrix row
// 0, which always reports tap 0 as set.
func (m *Matrix) Polynomial() Polynomial {
	return m.poly
}

// Width returns N, the checksum width and the number of columns.
func (m *Matrix) Width() uint {
	return m.width
}

// BlockWidth returns W, the number of input bits consumed per step.
func (m *Matrix) BlockWidth() uint {
	return m.blockWidth
}

// NumRows returns N+W.
func (m *Matrix) NumRows() uint {
	return m.width + m.blockWidth
}

// Row returns row r of the full (N+W)×N matrix.
func (m *Matrix) Row(r uint) Vector {
	assert.Assertf(r < m.NumRows(), "row %d >= %d rows", r, m.NumRows())
	return m.rows[r]
}

// StateRow returns row i of the StateSubmatrix.
func (m *Matrix) StateRow(i uint) Vector {
	assert.Assertf(i < m.width, "state row %d >= width %d", i, m.width)
	return m.rows[i]
}

// DataRow returns row k of the DataSubmatrix.
func (m *Matrix) DataRow(k uint) Vector {
	assert.Assertf(k < m.blockWidth, "data row %d >= block width %d", k, m.blockWidth)
	return m.rows[m.width+k]
}

// Entry returns the entry at row r, column j of the full matrix.
func (m *Matrix) Entry(r uint, j uint) bool {
	return m.Row(r).Bit(j)
}

func (m *Matrix) stateRows() []Vector {
	return m.rows[:m.width]
}

func (m *Matrix) dataRows() []Vector {
	return m.rows[m.width:]
}

// ApplyState returns the StateSubmatrix applied to state: the state reached
// after W zero input bits.
func (m *Matrix) ApplyState(state Vector) Vector {
	assert.Assertf(state.Width() == m.width, "state width %d != matrix width %d", state.Width(), m.width)
	acc := NewVector(m.width)
	acc.accumulate(m.stateRows(), state)
	return acc
}

// ApplyData returns the DataSubmatrix applied to block: the state reached
// from zero after the block.
func (m *Matrix) ApplyData(block Vector) Vector {
	assert.Assertf(block.Width() == m.blockWidth, "block width %d != matrix block width %d", block.Width(), m.blockWidth)
	acc := NewVector(m.width)
	acc.accumulate(m.dataRows(), block)
	return acc
}

// Apply returns the state reached from state after block.  The result is
// bit-identical to SerialModel.Advance(state, block).
func (m *Matrix) Apply(state Vector, block Vector) Vector {
	assert.Assertf(state.Width() == m.width, "state width %d != matrix width %d", state.Width(), m.width)
	assert.Assertf(block.Width() == m.blockWidth, "block width %d != matrix block width %d", block.Width(), m.blockWidth)
	acc := NewVector(m.width)
	acc.accumulate(m.stateRows(), state)
	acc.accumulate(m.dataRows(), block)
	return acc
}

// Equal returns true iff both matrices have the same dimensions and entries.
func (m *Matrix) Equal(other *Matrix) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.width != other.width || m.blockWidth != other.blockWidth {
		return false
	}
	for r := range m.rows {
		if !m.rows[r].Equal(other.rows[r]) {
			return false
		}
	}
	return true
}

// GoString returns the Go string representation of this Matrix.
func (m *Matrix) GoString() string {
	return fmt.Sprintf("Matrix(N=%d, W=%d, %q)", m.width, m.blockWidth, m.poly.String())
}

var _ fmt.GoStringer = (*Matrix)(nil)
