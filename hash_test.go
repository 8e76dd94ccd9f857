package lfsr

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"hash/crc64"
	"testing"
)

func TestHash_Chunked(t *testing.T) {
	ecma := crc64.MakeTable(crc64.ECMA)
	fz := newFuzzer(13)
	data := fuzzBytes(fz, 1237)
	expect32 := crc32.ChecksumIEEE(data)
	expect64 := crc64.Checksum(data, ecma)

	for _, w := range []uint{8, 16, 32, 72, 256} {
		for _, chunk := range []int{1, 3, 8, 100, 2000} {
			name := fmt.Sprintf("W%d-chunk%d", w, chunk)
			t.Run(name, func(t *testing.T) {
				e32, err := CRC32IEEE.Engine(w)
				if err != nil {
					t.Fatalf("Engine failed: %v", err)
				}
				e64, err := CRC64XZ.Engine(w)
				if err != nil {
					t.Fatalf("Engine failed: %v", err)
				}
				h32 := e32.NewHash()
				h64 := e64.NewHash()
				for i := 0; i < len(data); i += chunk {
					end := i + chunk
					if end > len(data) {
						end = len(data)
					}
					nn, err := h32.Write(data[i:end])
					if err != nil || nn != end-i {
						t.Fatalf("Write returned (%d, %v), expected (%d, nil)", nn, err, end-i)
					}
					_, _ = h64.Write(data[i:end])
				}
				if actual := h32.Sum32(); actual != expect32 {
					t.Errorf("Sum32: expect %#x, actual %#x", expect32, actual)
				}
				if actual := h64.Sum64(); actual != expect64 {
					t.Errorf("Sum64: expect %#x, actual %#x", expect64, actual)
				}

				// Sum does not disturb the running state.
				_, _ = h32.Write(data[:10])
				expect := crc32.ChecksumIEEE(append(append([]byte(nil), data...), data[:10]...))
				if actual := h32.Sum32(); actual != expect {
					t.Errorf("Sum32 after more writes: expect %#x, actual %#x", expect, actual)
				}
			})
		}
	}
}

func TestHash_Sum(t *testing.T) {
	e, err := CRC32IEEE.Engine(8)
	if err != nil {
		t.Fatalf("Engine failed: %v", err)
	}
	h := e.NewHash()
	if h.Size() != 4 {
		t.Errorf("Size: expect 4, actual %d", h.Size())
	}
	if h.BlockSize() != 1 {
		t.Errorf("BlockSize: expect 1, actual %d", h.BlockSize())
	}
	_, _ = h.Write([]byte(CheckInput))

	expect := []byte{0xaa, 0xcb, 0xf4, 0x39, 0x26}
	actual := h.Sum([]byte{0xaa})
	if !bytes.Equal(actual, expect) {
		t.Error("Sum returned wrong contents" + tabify(hexDiff(expect, actual)))
	}

	h.Reset()
	if actual := h.Sum32(); actual != 0 {
		t.Errorf("Sum32 after Reset: expect 0, actual %#x", actual)
	}
	if !h.State().Equal(e.Init()) {
		t.Errorf("State after Reset: expect %v, actual %v", e.Init(), h.State())
	}
}

func TestHash_OddWidth(t *testing.T) {
	e, err := CRC16CCITTFalse.Engine(24)
	if err != nil {
		t.Fatalf("Engine failed: %v", err)
	}
	h := e.NewHash()
	_, _ = h.Write([]byte(CheckInput))
	if actual := h.Sum64(); actual != 0x29b1 {
		t.Errorf("expect 0x29b1, actual %#x", actual)
	}
	if h.Size() != 2 {
		t.Errorf("Size: expect 2, actual %d", h.Size())
	}
}
