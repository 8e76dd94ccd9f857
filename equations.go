package lfsr

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chronos-tachyon/assert"
)

// Term is one input of an Equation: either state[Index] or block[Index].
type Term struct {
	Kind  TermKind `json:"kind"`
	Index uint     `json:"index"`
}

// String returns the string representation of this Term, e.g. "state[3]".
func (t Term) String() string {
	return t.Kind.String() + "[" + strconv.FormatUint(uint64(t.Index), 10) + "]"
}

// Equation expresses output bit next[Output] as the XOR of its Terms.
type Equation struct {
	Output uint   `json:"output"`
	Terms  []Term `json:"terms"`
}

// String returns the string representation of this Equation, e.g.
// "next[0] = state[31] ^ block[7]".  An Equation with no Terms renders as
// "next[j] = 0".
func (eq Equation) String() string {
	sb := takeStringsBuilder()
	defer giveStringsBuilder(sb)
	eq.writeTo(sb)
	return sb.String()
}

func (eq Equation) writeTo(sb *strings.Builder) {
	sb.WriteString("next[")
	sb.WriteString(strconv.FormatUint(uint64(eq.Output), 10))
	sb.WriteString("] =")
	if len(eq.Terms) == 0 {
		sb.WriteString(" 0")
		return
	}
	for index, t := range eq.Terms {
		if index != 0 {
			sb.WriteString(" ^")
		}
		sb.WriteByte(' ')
		sb.WriteString(t.String())
	}
}

// EquationSet holds one Equation per output bit of a Matrix, in output
// order.  It is derived from the Matrix and is never authoritative.
type EquationSet struct {
	Width      uint       `json:"width"`
	BlockWidth uint       `json:"blockWidth"`
	Equations  []Equation `json:"equations"`
	Warnings   []string   `json:"warnings,omitempty"`
}

// Emit renders m as an EquationSet.  Within each Equation, state terms come
// before block terms, each in descending index order, so that the output is
// reproducible byte for byte.  An always-zero output column produces an
// Equation with no Terms, a warning, and a DegenerateColumnEvent.
func Emit(m *Matrix, opts ...Option) EquationSet {
	assert.NotNil(&m)

	var o options
	o.reset()
	o.apply(opts)

	n := m.Width()
	w := m.BlockWidth()

	set := EquationSet{
		Width:      n,
		BlockWidth: w,
		Equations:  make([]Equation, n),
	}
	for j := uint(0); j < n; j++ {
		set.Equations[j].Output = j
	}

	// Walk rows from the highest index down, state rows first, so each
	// column's terms come out in order without sorting.
	for i := n; i > 0; i-- {
		for _, j := range m.StateRow(i - 1).Ones() {
			set.Equations[j].Terms = append(set.Equations[j].Terms, Term{Kind: StateTerm, Index: i - 1})
		}
	}
	for k := w; k > 0; k-- {
		for _, j := range m.DataRow(k - 1).Ones() {
			set.Equations[j].Terms = append(set.Equations[j].Terms, Term{Kind: BlockTerm, Index: k - 1})
		}
	}
	for j := range set.Equations {
		if len(set.Equations[j].Terms) == 0 {
			set.Warnings = append(set.Warnings, fmt.Sprintf("next[%d] is always zero; the polynomial is degenerate", j))
			sendEvent(o.tracers, Event{
				Type:       DegenerateColumnEvent,
				Width:      n,
				BlockWidth: w,
				Column:     uint(j),
			})
		}
	}
	return set
}

// String returns the text rendering of this EquationSet, one Equation per
// line.
func (set EquationSet) String() string {
	sb := takeStringsBuilder()
	defer giveStringsBuilder(sb)
	set.writeText(sb)
	return sb.String()
}

func (set EquationSet) writeText(sb *strings.Builder) {
	for _, warning := range set.Warnings {
		sb.WriteString("# warning: ")
		sb.WriteString(warning)
		sb.WriteByte('\n')
	}
	for _, eq := range set.Equations {
		eq.writeTo(sb)
		sb.WriteByte('\n')
	}
}

// WriteTo writes the text rendering of this EquationSet to w.
func (set EquationSet) WriteTo(w io.Writer) (int64, error) {
	nn, err := io.WriteString(w, set.String())
	return int64(nn), err
}

// WriteEquations renders set to w in the given Format.  BinaryFormat is not
// supported for equations.
func WriteEquations(w io.Writer, set EquationSet, format Format) error {
	assert.Assertf(format.IsValid(), "invalid Format %d", uint(format))

	switch format {
	case TextFormat:
		_, err := set.WriteTo(w)
		return err

	case JSONFormat:
		raw, err := json.Marshal(set)
		if err != nil {
			return err
		}
		raw = append(raw, '\n')
		_, err = w.Write(raw)
		return err

	default:
		return fmt.Errorf("format %q is not supported for equations", format.String())
	}
}

var _ fmt.Stringer = Term{}
var _ fmt.Stringer = Equation{}
var _ fmt.Stringer = EquationSet{}
var _ io.WriterTo = EquationSet{}
