package lfsr

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/chronos-tachyon/lfsr/internal/refcrc"
)

// CheckInput is the message over which Model.Check is defined.
const CheckInput = "123456789"

// Model is a complete checksum definition in the usual parameterized form:
// polynomial, initial register, input and output reflection, and final XOR.
// Poly is in normal notation, bit i being the coefficient of x^i.
type Model struct {
	Name       string
	Width      uint
	Poly       uint64
	Init       uint64
	ReflectIn  bool
	ReflectOut bool
	XorOut     uint64
	Check      Checksum
}

var (
	// CRC8SMBus is CRC-8/SMBUS.
	CRC8SMBus = Model{Name: "CRC-8/SMBUS", Width: 8, Poly: 0x07, Check: 0xf4}

	// CRC16ARC is CRC-16/ARC.
	CRC16ARC = Model{Name: "CRC-16/ARC", Width: 16, Poly: 0x8005, ReflectIn: true, ReflectOut: true, Check: 0xbb3d}

	// CRC16CCITTFalse is CRC-16/CCITT-FALSE.
	CRC16CCITTFalse = Model{Name: "CRC-16/CCITT-FALSE", Width: 16, Poly: 0x1021, Init: 0xffff, Check: 0x29b1}

	// CRC16XModem is CRC-16/XMODEM.
	CRC16XModem = Model{Name: "CRC-16/XMODEM", Width: 16, Poly: 0x1021, Check: 0x31c3}

	// CRC32IEEE is CRC-32/ISO-HDLC, the CRC-32 of zlib, gzip, and PNG.
	CRC32IEEE = Model{Name: "CRC-32/ISO-HDLC", Width: 32, Poly: 0x04c11db7, Init: 0xffffffff, ReflectIn: true, ReflectOut: true, XorOut: 0xffffffff, Check: 0xcbf43926}

	// CRC32BZIP2 is CRC-32/BZIP2.
	CRC32BZIP2 = Model{Name: "CRC-32/BZIP2", Width: 32, Poly: 0x04c11db7, Init: 0xffffffff, XorOut: 0xffffffff, Check: 0xfc891918}

	// CRC32MPEG2 is CRC-32/MPEG-2.
	CRC32MPEG2 = Model{Name: "CRC-32/MPEG-2", Width: 32, Poly: 0x04c11db7, Init: 0xffffffff, Check: 0x0376e6e7}

	// CRC32Castagnoli is CRC-32/ISCSI, also known as CRC-32C.
	CRC32Castagnoli = Model{Name: "CRC-32/ISCSI", Width: 32, Poly: 0x1edc6f41, Init: 0xffffffff, ReflectIn: true, ReflectOut: true, XorOut: 0xffffffff, Check: 0xe3069283}

	// CRC64XZ is CRC-64/XZ, the CRC-64 of Go's hash/crc64 with the ECMA table.
	CRC64XZ = Model{Name: "CRC-64/XZ", Width: 64, Poly: 0x42f0e1eba9ea3693, Init: 0xffffffffffffffff, ReflectIn: true, ReflectOut: true, XorOut: 0xffffffffffffffff, Check: 0x995dc9bbdf1939fa}

	// CRC64ECMA182 is CRC-64/ECMA-182.
	CRC64ECMA182 = Model{Name: "CRC-64/ECMA-182", Width: 64, Poly: 0x42f0e1eba9ea3693, Check: 0x6c40df5f0b497347}
)

var builtinModels = []Model{
	CRC8SMBus,
	CRC16ARC,
	CRC16CCITTFalse,
	CRC16XModem,
	CRC32IEEE,
	CRC32BZIP2,
	CRC32MPEG2,
	CRC32Castagnoli,
	CRC64XZ,
	CRC64ECMA182,
}

var modelAliases = map[string]string{
	"crc-32":    "CRC-32/ISO-HDLC",
	"crc32":     "CRC-32/ISO-HDLC",
	"crc-32c":   "CRC-32/ISCSI",
	"crc32c":    "CRC-32/ISCSI",
	"crc-64":    "CRC-64/XZ",
	"crc-8":     "CRC-8/SMBUS",
	"crc-16":    "CRC-16/ARC",
	"crc16":     "CRC-16/ARC",
	"crc-ccitt": "CRC-16/CCITT-FALSE",
}

// Models returns the built-in Model catalog.
func Models() []Model {
	out := make([]Model, len(builtinModels))
	copy(out, builtinModels)
	return out
}

// LookupModel finds a built-in Model by name or common alias,
// case-insensitively.
func LookupModel(name string) (Model, bool) {
	return lookupModel(builtinModels, name)
}

func lookupModel(list []Model, name string) (Model, bool) {
	if canonical, found := modelAliases[strings.ToLower(name)]; found {
		name = canonical
	}
	for _, m := range list {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return Model{}, false
}

// Validate reports every problem with this Model.  More than one problem is
// returned as a *multierror.Error.
func (m Model) Validate() error {
	var errlist []error
	if m.Width == 0 || m.Width > 64 {
		errlist = append(errlist, ConfigurationError{Field: m.field("width"), Problem: fmt.Sprintf("%d is not in range 1..64", m.Width)})
	} else {
		mask := makeMask(m.Width)
		if (m.Poly &^ mask) != 0 {
			errlist = append(errlist, ConfigurationError{Field: m.field("poly"), Problem: fmt.Sprintf("%#x is wider than %d bits", m.Poly, m.Width)})
		}
		if (m.Init &^ mask) != 0 {
			errlist = append(errlist, ConfigurationError{Field: m.field("init"), Problem: fmt.Sprintf("%#x is wider than %d bits", m.Init, m.Width)})
		}
		if (m.XorOut &^ mask) != 0 {
			errlist = append(errlist, ConfigurationError{Field: m.field("xorout"), Problem: fmt.Sprintf("%#x is wider than %d bits", m.XorOut, m.Width)})
		}
		if (uint64(m.Check) &^ mask) != 0 {
			errlist = append(errlist, ConfigurationError{Field: m.field("check"), Problem: fmt.Sprintf("%#x is wider than %d bits", uint64(m.Check), m.Width)})
		}
	}

	switch len(errlist) {
	case 0:
		return nil
	case 1:
		return errlist[0]
	default:
		return &multierror.Error{Errors: errlist}
	}
}

func (m Model) field(name string) string {
	if m.Name == "" {
		return name
	}
	return m.Name + "." + name
}

// Polynomial returns the Polynomial of this Model.
func (m Model) Polynomial() (Polynomial, error) {
	if err := m.Validate(); err != nil {
		return Polynomial{}, err
	}
	return PolynomialFromUint64(m.Width, m.Poly)
}

// Engine returns an Engine which computes this Model with the given block
// width.  The Matrix comes from the Cache given by WithCache, or from
// SharedCache().  Further options are applied after the Model's own.
func (m Model) Engine(blockWidth uint, opts ...Option) (*Engine, error) {
	poly, err := m.Polynomial()
	if err != nil {
		return nil, err
	}

	var o options
	o.reset()
	o.apply(opts)
	cache := o.cache
	if cache == nil {
		cache = SharedCache()
	}

	matrix, err := cache.Get(poly, blockWidth)
	if err != nil {
		return nil, err
	}

	all := make([]Option, 0, 5+len(opts))
	all = append(all,
		WithInit(VectorFromUint64(m.Width, m.Init)),
		WithFinalXor(VectorFromUint64(m.Width, m.XorOut)),
		WithReflectInput(m.ReflectIn),
		WithReflectOutput(m.ReflectOut),
		WithCache(cache))
	all = append(all, opts...)
	return NewEngine(matrix, all...), nil
}

// Checksum computes this Model over p with the given block width.  A final
// partial block is always processed with a reduced-width Matrix.
func (m Model) Checksum(blockWidth uint, p []byte, opts ...Option) (Checksum, error) {
	all := make([]Option, 0, 1+len(opts))
	all = append(all, WithPaddingPolicy(ReducedWidthPolicy))
	all = append(all, opts...)

	e, err := m.Engine(blockWidth, all...)
	if err != nil {
		return 0, err
	}
	v, err := e.Checksum(p)
	if err != nil {
		return 0, err
	}
	return Checksum(v.Uint64()), nil
}

// Verify computes CheckInput with the matrix engine at the given block width
// and with the table-driven reference, and compares both with m.Check.
func (m Model) Verify(blockWidth uint) error {
	actual, err := m.Checksum(blockWidth, []byte(CheckInput))
	if err != nil {
		return err
	}

	reference := Checksum(refcrc.Checksum(m.refcrcParams(), []byte(CheckInput)))

	var errlist []error
	if actual != m.Check {
		errlist = append(errlist, fmt.Errorf("%s: matrix engine (W=%d) computed %v, expected check value %v", m.Name, blockWidth, actual, m.Check))
	}
	if reference != m.Check {
		errlist = append(errlist, fmt.Errorf("%s: reference table computed %v, expected check value %v", m.Name, reference, m.Check))
	}
	switch len(errlist) {
	case 0:
		return nil
	case 1:
		return errlist[0]
	default:
		return &multierror.Error{Errors: errlist}
	}
}

func (m Model) refcrcParams() refcrc.Params {
	return refcrc.Params{
		Width:      m.Width,
		Poly:       m.Poly,
		Init:       m.Init,
		ReflectIn:  m.ReflectIn,
		ReflectOut: m.ReflectOut,
		XorOut:     m.XorOut,
	}
}

// String returns the name of this Model.
func (m Model) String() string {
	return m.Name
}

var _ fmt.Stringer = Model{}
