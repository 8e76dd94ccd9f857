package lfsr

import (
	"errors"
	"testing"

	"github.com/hashicorp/go-multierror"
)

func TestBuild_Toy(t *testing.T) {
	m, err := BuildMatrix(4, []bool{true, true, false, false}, 1)
	if err != nil {
		t.Fatalf("BuildMatrix failed: %v", err)
	}
	if m.NumRows() != 5 {
		t.Fatalf("NumRows: expect 5, actual %d", m.NumRows())
	}

	expect := []uint64{0x2, 0x4, 0x8, 0x3, 0x3}
	for r, x := range expect {
		if actual := m.Row(uint(r)).Uint64(); actual != x {
			t.Errorf("row %d: expect %#x, actual %#x", r, x, actual)
		}
	}
	if !m.Entry(3, 0) || !m.Entry(3, 1) || m.Entry(3, 2) {
		t.Error("Entry disagrees with Row")
	}
	if m.Polynomial().String() != "x^4+x+1" {
		t.Errorf("Polynomial: expect %q, actual %q", "x^4+x+1", m.Polynomial().String())
	}
}

func TestBuild_ExhaustiveSmall(t *testing.T) {
	const n = 4
	for coeffs := uint64(0); coeffs < 1<<n; coeffs++ {
		poly := mustPolynomial(n, coeffs)
		sm := NewSerialModel(poly)
		for w := uint(1); w <= 4; w++ {
			m := mustBuild(poly, w)
			for s := uint64(0); s < 1<<n; s++ {
				state := VectorFromUint64(n, s)
				for b := uint64(0); b < 1<<w; b++ {
					block := VectorFromUint64(w, b)
					expect := sm.Advance(state, block)
					actual := m.Apply(state, block)
					if !actual.Equal(expect) {
						t.Errorf("taps=%#x W=%d state=%#x block=%#x: expect %v, actual %v", coeffs, w, s, b, expect, actual)
					}
				}
			}
		}
	}
}

func TestBuild_MatchesSerialRandom(t *testing.T) {
	type testRow struct {
		name  string
		poly  Polynomial
		width uint
	}

	var testData = [...]testRow{
		{"crc32-w128", mustPolynomial(32, 0x04c11db7), 128},
		{"crc32c-w13", mustPolynomial(32, 0x1edc6f41), 13},
		{"crc64-w64", mustPolynomial(64, 0x42f0e1eba9ea3693), 64},
		{"crc16-w5", mustPolynomial(16, 0x1021), 5},
		{"crc8-w1", mustPolynomial(8, 0x07), 1},
	}

	fz := newFuzzer(2)
	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			n := row.poly.Width()
			m := mustBuild(row.poly, row.width)
			sm := NewSerialModel(row.poly)
			for i := 0; i < 20; i++ {
				state := fuzzVector(fz, n)
				block := fuzzVector(fz, row.width)
				expect := sm.Advance(state, block)
				actual := m.Apply(state, block)
				if !actual.Equal(expect) {
					t.Errorf("state=%v block=%v: expect %v, actual %v", state, block, expect, actual)
				}
			}
		})
	}
}

func TestMatrix_Linearity(t *testing.T) {
	m := mustBuild(mustPolynomial(32, 0x04c11db7), 24)
	fz := newFuzzer(3)
	for i := 0; i < 50; i++ {
		s1, s2 := fuzzVector(fz, 32), fuzzVector(fz, 32)
		b1, b2 := fuzzVector(fz, 24), fuzzVector(fz, 24)

		lhs := m.Apply(s1.Xor(s2), b1.Xor(b2))
		rhs := m.Apply(s1, b1).Xor(m.Apply(s2, b2))
		if !lhs.Equal(rhs) {
			t.Errorf("Apply is not linear: %v != %v", lhs, rhs)
		}

		split := m.ApplyState(s1).Xor(m.ApplyData(b1))
		if !split.Equal(m.Apply(s1, b1)) {
			t.Errorf("ApplyState ^ ApplyData = %v, Apply = %v", split, m.Apply(s1, b1))
		}
	}
	if !m.Apply(NewVector(32), NewVector(24)).IsZero() {
		t.Error("Apply(0, 0) is not zero")
	}
}

func TestMatrix_Equal(t *testing.T) {
	a := mustBuild(mustPolynomial(16, 0x1021), 8)
	b := mustBuild(mustPolynomial(16, 0x1021), 8)
	c := mustBuild(mustPolynomial(16, 0x8005), 8)
	d := mustBuild(mustPolynomial(16, 0x1021), 16)
	if !a.Equal(b) {
		t.Error("identical builds compare unequal")
	}
	if a.Equal(c) || a.Equal(d) {
		t.Error("different matrices compare equal")
	}
	var nilMatrix *Matrix
	if a.Equal(nilMatrix) {
		t.Error("matrix compares equal to nil")
	}
}

func TestBuildMatrix_Errors(t *testing.T) {
	_, err := BuildMatrix(5, []bool{true, true, false, false}, 8)
	var ce ConfigurationError
	if !errors.As(err, &ce) || ce.Field != "taps" {
		t.Errorf("width mismatch: expect taps ConfigurationError, actual %v", err)
	}

	_, err = BuildMatrix(4, []bool{true, true, false, false}, 0)
	if !errors.As(err, &ce) || ce.Field != "blockWidth" {
		t.Errorf("W=0: expect blockWidth ConfigurationError, actual %v", err)
	}

	_, err = BuildMatrix(0, []bool{true}, 0)
	var me *multierror.Error
	if !errors.As(err, &me) {
		t.Fatalf("several problems: expect *multierror.Error, actual %v", err)
	}
	if len(me.Errors) != 3 {
		t.Errorf("several problems: expect 3 errors, actual %d: %v", len(me.Errors), me.Errors)
	}

	_, err = Build(Polynomial{}, 8)
	if !errors.As(err, &ce) || ce.Field != "poly" {
		t.Errorf("zero Polynomial: expect poly ConfigurationError, actual %v", err)
	}
}

func TestBuild_Tracer(t *testing.T) {
	var events []Event
	tr := TracerFunc(func(event Event) { events = append(events, event) })
	_ = mustBuildWith(t, mustPolynomial(8, 0x07), 8, WithTracers(tr))
	if len(events) != 1 {
		t.Fatalf("expect 1 event, actual %d", len(events))
	}
	if events[0].Type != MatrixBuildEvent || events[0].Width != 8 || events[0].BlockWidth != 8 {
		t.Errorf("unexpected event %+v", events[0])
	}
	if events[0].Polynomial != "x^8+x^2+x+1" {
		t.Errorf("Polynomial: expect %q, actual %q", "x^8+x^2+x+1", events[0].Polynomial)
	}
}

func mustBuildWith(t *testing.T, poly Polynomial, blockWidth uint, opts ...Option) *Matrix {
	t.Helper()
	m, err := Build(poly, blockWidth, opts...)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return m
}
