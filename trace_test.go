package lfsr

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLog(t *testing.T) {
	saved := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	defer zerolog.SetGlobalLevel(saved)

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.TraceLevel)

	m, err := MatrixFromBits(2, 1, make([]bool, 6))
	if err != nil {
		t.Fatalf("MatrixFromBits failed: %v", err)
	}
	_ = Emit(m, WithTracers(Log(logger)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expect 2 log lines, actual %d: %q", len(lines), buf.String())
	}
	var entry struct {
		Level  string `json:"level"`
		Column uint   `json:"column"`
		Width  uint   `json:"width"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}
	if entry.Level != "warn" || entry.Column != 1 || entry.Width != 2 {
		t.Errorf("unexpected log entry %s", lines[1])
	}

	buf.Reset()
	_ = mustBuildWith(t, mustPolynomial(4, 0x3), 2, WithTracers(Log(logger)))
	if !strings.Contains(buf.String(), `"level":"trace"`) {
		t.Errorf("build event was not logged at trace level: %s", buf.String())
	}

	buf.Reset()
	_ = mustBuildWith(t, mustPolynomial(4, 0x3), 2, WithTracers(Log(logger.Level(zerolog.InfoLevel)), NoOpTracer{}))
	if buf.Len() != 0 {
		t.Errorf("trace event was logged at info level: %s", buf.String())
	}
}

func TestEnums(t *testing.T) {
	var s Strategy
	if err := s.Parse("tables"); err != nil || s != TableStrategy {
		t.Errorf("Strategy.Parse(tables): %v %v", s, err)
	}
	if s.String() != "tables" || s.GoString() != "TableStrategy" {
		t.Errorf("Strategy strings: %q %q", s.String(), s.GoString())
	}

	var p PaddingPolicy
	if err := p.Parse("reduced-width"); err != nil || p != ReducedWidthPolicy {
		t.Errorf("PaddingPolicy.Parse(reduced-width): %v %v", p, err)
	}

	var f Format
	if err := f.Parse("json"); err != nil || f != JSONFormat {
		t.Errorf("Format.Parse(json): %v %v", f, err)
	}
	if err := f.Parse("yaml"); err == nil {
		t.Error("Format.Parse(yaml) did not fail")
	}

	if DegenerateColumnEvent.String() != "degenerate-column" {
		t.Errorf("EventType string: %q", DegenerateColumnEvent.String())
	}
	if StateTerm.String() != "state" || BlockTerm.String() != "block" {
		t.Errorf("TermKind strings: %q %q", StateTerm.String(), BlockTerm.String())
	}
}

func TestChecksum_JSON(t *testing.T) {
	raw, err := json.Marshal(Checksum(0xcbf43926))
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	if string(raw) != `"0xcbf43926"` {
		t.Errorf("expect %q, actual %q", `"0xcbf43926"`, raw)
	}
	var csum Checksum
	if err := json.Unmarshal([]byte(`"CBF43926"`), &csum); err != nil || csum != 0xcbf43926 {
		t.Errorf("json.Unmarshal: expect 0xcbf43926, actual %v (%v)", csum, err)
	}
	if csum.GoString() != "Checksum(0xcbf43926)" {
		t.Errorf("GoString: %q", csum.GoString())
	}
}
