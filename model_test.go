package lfsr

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-test/deep"
	"github.com/hashicorp/go-multierror"
)

func TestModels_Verify(t *testing.T) {
	for _, m := range Models() {
		for _, w := range []uint{1, 3, 8, 16, 24, 64} {
			if err := m.Verify(w); err != nil {
				t.Errorf("%s W=%d: %v", m.Name, w, err)
			}
		}
	}
}

func TestModels_Catalog(t *testing.T) {
	list := Models()
	if len(list) != 10 {
		t.Errorf("expect 10 models, actual %d", len(list))
	}
	list[0].Name = "mutated"
	if Models()[0].Name == "mutated" {
		t.Error("Models returned the catalog itself")
	}
	for _, m := range Models() {
		if err := m.Validate(); err != nil {
			t.Errorf("%s: %v", m.Name, err)
		}
	}
}

func TestLookupModel(t *testing.T) {
	type testRow struct {
		input  string
		expect string
	}

	var testData = [...]testRow{
		{"CRC-32/ISO-HDLC", "CRC-32/ISO-HDLC"},
		{"crc-32", "CRC-32/ISO-HDLC"},
		{"CRC32C", "CRC-32/ISCSI"},
		{"crc-64/xz", "CRC-64/XZ"},
		{"CRC-16/XMODEM", "CRC-16/XMODEM"},
	}

	for _, row := range testData {
		m, found := LookupModel(row.input)
		if !found {
			t.Errorf("%q: not found", row.input)
			continue
		}
		if m.Name != row.expect {
			t.Errorf("%q: expect %q, actual %q", row.input, row.expect, m.Name)
		}
	}
	if _, found := LookupModel("CRC-99"); found {
		t.Error("found a model that does not exist")
	}
}

func TestModel_Checksum(t *testing.T) {
	csum, err := CRC16ARC.Checksum(16, []byte(CheckInput))
	if err != nil {
		t.Fatalf("Checksum failed: %v", err)
	}
	if csum != 0xbb3d {
		t.Errorf("expect 0xbb3d, actual %v", csum)
	}
	if csum.String() != "0xbb3d" {
		t.Errorf("String: expect %q, actual %q", "0xbb3d", csum.String())
	}
}

func TestModel_Validate(t *testing.T) {
	bad := Model{Name: "bad", Width: 8, Poly: 0x107, Init: 0x100, XorOut: 0xff}
	err := bad.Validate()
	var me *multierror.Error
	if !errors.As(err, &me) {
		t.Fatalf("expect *multierror.Error, actual %v", err)
	}
	if len(me.Errors) != 2 {
		t.Errorf("expect 2 errors, actual %v", me.Errors)
	}

	var ce ConfigurationError
	if err := (Model{Width: 65}).Validate(); !errors.As(err, &ce) || ce.Field != "width" {
		t.Errorf("width 65: expect width ConfigurationError, actual %v", err)
	}

	if _, err := (Model{Width: 0}).Engine(8); err == nil {
		t.Error("Engine of an invalid Model did not fail")
	}
}

func TestModel_VerifyMismatch(t *testing.T) {
	m := CRC32IEEE
	m.Check = 0x12345678
	err := m.Verify(8)
	var me *multierror.Error
	if !errors.As(err, &me) || len(me.Errors) != 2 {
		t.Errorf("expect two mismatches, actual %v", err)
	}
}

const testModelsYAML = `
models:
  - name: CRC-5/USB
    width: 5
    poly: 0x05
    init: 0x1f
    refin: true
    refout: true
    xorout: 0x1f
    check: 0x19
  - name: CRC-12/3GPP
    poly: x^12+x^11+x^3+x^2+x+1
    refout: true
    check: 0xdaf
  - name: CRC-7/MMC
    width: 7
    poly: "09"
    check: "75"
`

func TestParseModels(t *testing.T) {
	list, err := ParseModels([]byte(testModelsYAML))
	if err != nil {
		t.Fatalf("ParseModels failed: %v", err)
	}

	expect := []Model{
		{Name: "CRC-5/USB", Width: 5, Poly: 0x05, Init: 0x1f, ReflectIn: true, ReflectOut: true, XorOut: 0x1f, Check: 0x19},
		{Name: "CRC-12/3GPP", Width: 12, Poly: 0x80f, ReflectOut: true, Check: 0xdaf},
		{Name: "CRC-7/MMC", Width: 7, Poly: 0x09, Check: 0x75},
	}
	if diff := deep.Equal(list, expect); diff != nil {
		t.Errorf("ParseModels: %v", diff)
	}

	for _, m := range list {
		for _, w := range []uint{1, 8, 13} {
			if err := m.Verify(w); err != nil {
				t.Errorf("%s W=%d: %v", m.Name, w, err)
			}
		}
	}

	m, found := FindModel(list, "crc-12/3gpp")
	if !found || m.Width != 12 {
		t.Errorf("FindModel: expect CRC-12/3GPP, actual %v (%t)", m, found)
	}
	if m, found := FindModel(list, "CRC-32"); !found || m.Name != "CRC-32/ISO-HDLC" {
		t.Errorf("FindModel fallback: expect CRC-32/ISO-HDLC, actual %v (%t)", m, found)
	}
}

func TestParseModels_Errors(t *testing.T) {
	const input = `
models:
  - name: no-poly
    width: 8
  - name: bad-hex
    width: 8
    poly: 0xzz
    init: nope
  - name: too-wide
    width: 4
    poly: 0x1f
  - name: degree-mismatch
    width: 8
    poly: x^4+x+1
`
	_, err := ParseModels([]byte(input))
	var me *multierror.Error
	if !errors.As(err, &me) {
		t.Fatalf("expect *multierror.Error, actual %v", err)
	}
	// bad-hex contributes two problems.
	if len(me.Errors) != 5 {
		t.Errorf("expect 5 errors, actual %d: %v", len(me.Errors), me.Errors)
	}
	for _, name := range []string{"no-poly", "bad-hex", "too-wide", "degree-mismatch"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error does not mention %q: %v", name, err)
		}
	}

	if _, err := ParseModels([]byte("models: [")); err == nil {
		t.Error("malformed YAML did not fail")
	}
}

func TestLoadModels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	if err := os.WriteFile(path, []byte(testModelsYAML), 0666); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	list, err := LoadModels(path)
	if err != nil {
		t.Fatalf("LoadModels failed: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("expect 3 models, actual %d", len(list))
	}

	if _, err := LoadModels(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: expect os.ErrNotExist, actual %v", err)
	}
}
