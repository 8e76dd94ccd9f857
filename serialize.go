package lfsr

import (
	"bytes"
	"encoding"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/bits"

	"github.com/chronos-tachyon/assert"
)

// Binary layout of a persisted Matrix:
//
//	offset  size  field
//	     0     4  magic "LFSR"
//	     4     1  version (1)
//	     5     3  reserved, zero
//	     8     4  N, big-endian
//	    12     4  W, big-endian
//	    16     *  (N+W)*N bits, row-major, StateSubmatrix rows 0..N-1 then
//	              DataSubmatrix rows 0..W-1, column 0 first within a row;
//	              packed most significant bit first and zero-padded to a
//	              whole byte.
const (
	matrixMagic      = "LFSR"
	matrixVersion    = 1
	matrixHeaderSize = 16

	// Largest (N+W)*N accepted from a header.
	maxMatrixBits = math.MaxInt32
)

// checkedBodySize returns the body size in bytes for the given dimensions,
// or false if (N+W)*N overflows or exceeds maxMatrixBits.
func checkedBodySize(width, blockWidth uint) (uint, bool) {
	numRows := uint64(width) + uint64(blockWidth)
	hi, numBits := bits.Mul64(numRows, uint64(width))
	if hi != 0 || numBits > maxMatrixBits {
		return 0, false
	}
	return uint((numBits + bitsPerByte - 1) / bitsPerByte), true
}

// matrixBodySize is checkedBodySize for dimensions already known to be
// sane.  It returns 0 for oversized dimensions.
func matrixBodySize(width, blockWidth uint) uint {
	size, _ := checkedBodySize(width, blockWidth)
	return size
}

// Bits returns the flat (N+W)*N bit array of this Matrix, row-major.
func (m *Matrix) Bits() []bool {
	n := m.width
	out := make([]bool, uint(len(m.rows))*n)
	for r, row := range m.rows {
		for _, j := range row.Ones() {
			out[uint(r)*n+j] = true
		}
	}
	return out
}

// MatrixFromBits is the inverse of Matrix.Bits.  The Polynomial of the
// result is recovered from DataSubmatrix row 0.
func MatrixFromBits(width uint, blockWidth uint, list []bool) (*Matrix, error) {
	_, ok := checkedBodySize(width, blockWidth)
	expectLen := (width + blockWidth) * width
	if width == 0 || blockWidth == 0 || !ok || uint(len(list)) != expectLen {
		return nil, SerializationError{
			Problem:          fmt.Sprintf("got %d bits, expected %d", len(list), expectLen),
			ExpectWidth:      width,
			ExpectBlockWidth: blockWidth,
			ExpectBytes:      matrixBodySize(width, blockWidth),
			ActualWidth:      width,
			ActualBlockWidth: blockWidth,
			ActualBytes:      bytesForBits(uint(len(list))),
		}
	}

	rows := make([]Vector, width+blockWidth)
	for r := range rows {
		base := uint(r) * width
		rows[r] = VectorFromBits(list[base : base+width])
	}
	return newDecodedMatrix(width, blockWidth, rows), nil
}

func newDecodedMatrix(width, blockWidth uint, rows []Vector) *Matrix {
	// DataSubmatrix row 0 is the state after a single 1 bit from zero:
	// fb = 1, so it holds taps[1..N-1] plus bit 0.
	return &Matrix{
		poly:       Polynomial{taps: rows[width]},
		width:      width,
		blockWidth: blockWidth,
		rows:       rows,
	}
}

// MarshalBinary returns the binary representation of this Matrix.
func (m *Matrix) MarshalBinary() ([]byte, error) {
	out := make([]byte, matrixHeaderSize+matrixBodySize(m.width, m.blockWidth))
	copy(out[0:4], matrixMagic)
	out[4] = matrixVersion
	binary.BigEndian.PutUint32(out[8:12], uint32(m.width))
	binary.BigEndian.PutUint32(out[12:16], uint32(m.blockWidth))

	body := out[matrixHeaderSize:]
	n := m.width
	for r, row := range m.rows {
		for _, j := range row.Ones() {
			k := uint(r)*n + j
			body[k/bitsPerByte] |= 0x80 >> (k % bitsPerByte)
		}
	}
	return out, nil
}

// UnmarshalBinary replaces this Matrix with the decoded binary
// representation.
func (m *Matrix) UnmarshalBinary(raw []byte) error {
	assert.NotNil(&m)
	decoded, err := decodeMatrix(raw, 0, 0)
	if err != nil {
		return err
	}
	*m = *decoded
	return nil
}

// UnmarshalMatrix decodes the binary representation of a Matrix.
func UnmarshalMatrix(raw []byte) (*Matrix, error) {
	return decodeMatrix(raw, 0, 0)
}

// UnmarshalMatrixFor decodes the binary representation of a Matrix which the
// caller expects to have the given dimensions.
func UnmarshalMatrixFor(raw []byte, width uint, blockWidth uint) (*Matrix, error) {
	assert.Assert(width != 0, "width must be at least 1")
	assert.Assert(blockWidth != 0, "blockWidth must be at least 1")
	return decodeMatrix(raw, width, blockWidth)
}

func decodeMatrix(raw []byte, expectWidth uint, expectBlockWidth uint) (*Matrix, error) {
	length := uint(len(raw))
	fail := func(problem string, actualWidth, actualBlockWidth uint) (*Matrix, error) {
		return nil, SerializationError{
			Problem:          problem,
			ExpectWidth:      expectWidth,
			ExpectBlockWidth: expectBlockWidth,
			ExpectBytes:      matrixHeaderSize + matrixBodySize(expectWidth, expectBlockWidth),
			ActualWidth:      actualWidth,
			ActualBlockWidth: actualBlockWidth,
			ActualBytes:      length,
		}
	}

	if length < matrixHeaderSize {
		return fail("truncated header", 0, 0)
	}
	if string(raw[0:4]) != matrixMagic {
		return fail(fmt.Sprintf("bad magic %q", raw[0:4]), 0, 0)
	}
	if raw[4] != matrixVersion {
		return fail(fmt.Sprintf("unsupported version %d", raw[4]), 0, 0)
	}
	if raw[5] != 0 || raw[6] != 0 || raw[7] != 0 {
		return fail("nonzero reserved header bytes", 0, 0)
	}

	width := uint(binary.BigEndian.Uint32(raw[8:12]))
	blockWidth := uint(binary.BigEndian.Uint32(raw[12:16]))
	if expectWidth == 0 {
		expectWidth = width
	}
	if expectBlockWidth == 0 {
		expectBlockWidth = blockWidth
	}

	if width == 0 || blockWidth == 0 {
		return fail("zero dimension in header", width, blockWidth)
	}
	bodySize, ok := checkedBodySize(width, blockWidth)
	if !ok {
		return fail("dimensions too large", width, blockWidth)
	}
	if width != expectWidth || blockWidth != expectBlockWidth {
		return fail("dimension mismatch", width, blockWidth)
	}
	if length != matrixHeaderSize+bodySize {
		return fail("wrong length for dimensions", width, blockWidth)
	}

	body := raw[matrixHeaderSize:]
	numBits := (width + blockWidth) * width
	if rem := numBits % bitsPerByte; rem != 0 {
		if pad := body[len(body)-1] & (0xff >> rem); pad != 0 {
			return fail("nonzero padding bits", width, blockWidth)
		}
	}

	rows := make([]Vector, width+blockWidth)
	for r := range rows {
		row := NewVector(width)
		base := uint(r) * width
		for j := uint(0); j < width; j++ {
			k := base + j
			if body[k/bitsPerByte]&(0x80>>(k%bitsPerByte)) != 0 {
				row.set.Set(j)
			}
		}
		rows[r] = row
	}
	return newDecodedMatrix(width, blockWidth, rows), nil
}

// WriteTo writes the binary representation of this Matrix to w.
func (m *Matrix) WriteTo(w io.Writer) (int64, error) {
	raw, err := m.MarshalBinary()
	if err != nil {
		return 0, err
	}
	nn, err := w.Write(raw)
	return int64(nn), err
}

// ReadMatrix reads one binary Matrix from r.  It returns io.EOF if r is
// already at end of file.
func ReadMatrix(r io.Reader) (*Matrix, error) {
	var header [matrixHeaderSize]byte
	nn, err := io.ReadFull(r, header[:])
	if err == io.ErrUnexpectedEOF {
		return decodeMatrix(header[:nn], 0, 0)
	}
	if err != nil {
		return nil, err
	}

	width := uint(binary.BigEndian.Uint32(header[8:12]))
	blockWidth := uint(binary.BigEndian.Uint32(header[12:16]))
	bodySize, ok := checkedBodySize(width, blockWidth)
	if string(header[0:4]) != matrixMagic || width == 0 || blockWidth == 0 || !ok {
		return decodeMatrix(header[:], 0, 0)
	}

	// Grow the body only as data arrives.
	body, err := io.ReadAll(io.LimitReader(r, int64(bodySize)))
	if err != nil {
		return nil, err
	}
	raw := make([]byte, 0, matrixHeaderSize+len(body))
	raw = append(raw, header[:]...)
	raw = append(raw, body...)
	return decodeMatrix(raw, 0, 0)
}

type matrixJSON struct {
	Width      uint   `json:"width"`
	BlockWidth uint   `json:"blockWidth"`
	Polynomial string `json:"polynomial"`
	Bits       string `json:"bits"`
}

// MarshalJSON returns the JSON representation of this Matrix.  The "bits"
// field holds the hex-encoded packed bit array of the binary form.
func (m *Matrix) MarshalJSON() ([]byte, error) {
	raw, err := m.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return json.Marshal(matrixJSON{
		Width:      m.width,
		BlockWidth: m.blockWidth,
		Polynomial: m.poly.String(),
		Bits:       hex.EncodeToString(raw[matrixHeaderSize:]),
	})
}

// UnmarshalJSON parses the JSON representation of a Matrix.
func (m *Matrix) UnmarshalJSON(raw []byte) error {
	assert.NotNil(&m)

	var doc matrixJSON
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	body, err := hex.DecodeString(doc.Bits)
	if err != nil {
		return err
	}

	buf := make([]byte, matrixHeaderSize, matrixHeaderSize+len(body))
	copy(buf[0:4], matrixMagic)
	buf[4] = matrixVersion
	binary.BigEndian.PutUint32(buf[8:12], uint32(doc.Width))
	binary.BigEndian.PutUint32(buf[12:16], uint32(doc.BlockWidth))
	buf = append(buf, body...)

	decoded, err := decodeMatrix(buf, 0, 0)
	if err != nil {
		return err
	}
	*m = *decoded
	return nil
}

// WriteMatrix renders m to w in the given Format.  TextFormat writes a
// comment line followed by one line per row, column 0 first.
func WriteMatrix(w io.Writer, m *Matrix, format Format) error {
	assert.Assertf(format.IsValid(), "invalid Format %d", uint(format))

	switch format {
	case BinaryFormat:
		_, err := m.WriteTo(w)
		return err

	case JSONFormat:
		raw, err := m.MarshalJSON()
		if err != nil {
			return err
		}
		raw = append(raw, '\n')
		_, err = w.Write(raw)
		return err

	default:
		bb := takeBytesBuffer()
		defer giveBytesBuffer(bb)
		writeMatrixText(bb, m)
		_, err := bb.WriteTo(w)
		return err
	}
}

func writeMatrixText(bb *bytes.Buffer, m *Matrix) {
	fmt.Fprintf(bb, "# N=%d W=%d poly=%s\n", m.width, m.blockWidth, m.poly.String())
	for r, row := range m.rows {
		if uint(r) < m.width {
			fmt.Fprintf(bb, "state[%d]\t", r)
		} else {
			fmt.Fprintf(bb, "block[%d]\t", uint(r)-m.width)
		}
		for j := uint(0); j < m.width; j++ {
			if row.Bit(j) {
				bb.WriteByte('1')
			} else {
				bb.WriteByte('0')
			}
		}
		bb.WriteByte('\n')
	}
}

var _ encoding.BinaryMarshaler = (*Matrix)(nil)
var _ encoding.BinaryUnmarshaler = (*Matrix)(nil)
var _ json.Marshaler = (*Matrix)(nil)
var _ json.Unmarshaler = (*Matrix)(nil)
var _ io.WriterTo = (*Matrix)(nil)
