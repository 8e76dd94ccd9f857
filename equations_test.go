package lfsr

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-test/deep"
)

func TestEmit_Toy(t *testing.T) {
	m, err := BuildMatrix(4, []bool{true, true, false, false}, 1)
	if err != nil {
		t.Fatalf("BuildMatrix failed: %v", err)
	}
	set := Emit(m)

	expect := EquationSet{
		Width:      4,
		BlockWidth: 1,
		Equations: []Equation{
			{Output: 0, Terms: []Term{{StateTerm, 3}, {BlockTerm, 0}}},
			{Output: 1, Terms: []Term{{StateTerm, 3}, {StateTerm, 0}, {BlockTerm, 0}}},
			{Output: 2, Terms: []Term{{StateTerm, 1}}},
			{Output: 3, Terms: []Term{{StateTerm, 2}}},
		},
	}
	if diff := deep.Equal(set, expect); diff != nil {
		t.Errorf("Emit returned wrong EquationSet: %v", diff)
	}

	lines := []string{
		"next[0] = state[3] ^ block[0]",
		"next[1] = state[3] ^ state[0] ^ block[0]",
		"next[2] = state[1]",
		"next[3] = state[2]",
	}
	for i, line := range lines {
		if actual := set.Equations[i].String(); actual != line {
			t.Errorf("equation %d: expect %q, actual %q", i, line, actual)
		}
	}
	if actual, expect := set.String(), strings.Join(lines, "\n")+"\n"; actual != expect {
		t.Errorf("String: expect %q, actual %q", expect, actual)
	}
}

func TestEmit_Deterministic(t *testing.T) {
	poly := mustPolynomial(32, 0x04c11db7)
	a := Emit(mustBuild(poly, 64))
	b := Emit(mustBuild(poly, 64))
	if a.String() != b.String() {
		t.Error("Emit is not deterministic")
	}
	if diff := deep.Equal(a, b); diff != nil {
		t.Errorf("Emit is not deterministic: %v", diff)
	}
	if len(a.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", a.Warnings)
	}

	// Every term must be a 1 entry of the matrix.
	m := mustBuild(poly, 64)
	for _, eq := range a.Equations {
		for _, term := range eq.Terms {
			r := term.Index
			if term.Kind == BlockTerm {
				r += m.Width()
			}
			if !m.Entry(r, eq.Output) {
				t.Errorf("term %v of next[%d] is a 0 entry", term, eq.Output)
			}
		}
	}
}

func TestEmit_Degenerate(t *testing.T) {
	m, err := MatrixFromBits(3, 2, make([]bool, 15))
	if err != nil {
		t.Fatalf("MatrixFromBits failed: %v", err)
	}

	var events []Event
	tr := TracerFunc(func(event Event) { events = append(events, event) })
	set := Emit(m, WithTracers(tr))

	if len(set.Warnings) != 3 {
		t.Fatalf("expect 3 warnings, actual %v", set.Warnings)
	}
	if len(events) != 3 || events[2].Type != DegenerateColumnEvent || events[2].Column != 2 {
		t.Errorf("unexpected events %+v", events)
	}
	if actual := set.Equations[1].String(); actual != "next[1] = 0" {
		t.Errorf("expect %q, actual %q", "next[1] = 0", actual)
	}
	if !strings.HasPrefix(set.String(), "# warning: next[0] is always zero") {
		t.Errorf("text rendering does not start with the warnings: %q", set.String())
	}
}

func TestWriteEquations(t *testing.T) {
	m := mustBuild(mustPolynomial(4, 0x3), 1)
	set := Emit(m)

	var buf bytes.Buffer
	if err := WriteEquations(&buf, set, TextFormat); err != nil {
		t.Fatalf("WriteEquations(text) failed: %v", err)
	}
	if buf.String() != set.String() {
		t.Errorf("text: expect %q, actual %q", set.String(), buf.String())
	}

	buf.Reset()
	if err := WriteEquations(&buf, set, JSONFormat); err != nil {
		t.Fatalf("WriteEquations(json) failed: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "}\n") {
		t.Errorf("json: missing trailing newline: %q", buf.String())
	}

	type termJSON struct {
		Index uint `json:"index"`
	}
	type equationJSON struct {
		Output uint       `json:"output"`
		Terms  []termJSON `json:"terms"`
	}
	var decoded struct {
		Width      uint           `json:"width"`
		BlockWidth uint           `json:"blockWidth"`
		Equations  []equationJSON `json:"equations"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}
	expectDecoded := []equationJSON{
		{0, []termJSON{{3}, {0}}},
		{1, []termJSON{{3}, {0}, {0}}},
		{2, []termJSON{{1}}},
		{3, []termJSON{{2}}},
	}
	if decoded.Width != 4 || decoded.BlockWidth != 1 {
		t.Errorf("json: expect 4x1, actual %dx%d", decoded.Width, decoded.BlockWidth)
	}
	if diff := deep.Equal(decoded.Equations, expectDecoded); diff != nil {
		t.Errorf("json: %v", diff)
	}

	buf.Reset()
	if err := WriteEquations(&buf, set, BinaryFormat); err == nil {
		t.Error("WriteEquations(binary) did not fail")
	}
}
