package lfsr

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Checksum is a lightweight wrapper around uint64 that is used for finalized
// checksums of up to 64 bits, such as CRC-32 or CRC-64.  It stringifies to
// hexadecimal format.
type Checksum uint64

// GoString returns the Go string representation of this Checksum value.
func (csum Checksum) GoString() string {
	return fmt.Sprintf("Checksum(%#x)", uint64(csum))
}

// String returns the string representation of this Checksum value.
func (csum Checksum) String() string {
	return fmt.Sprintf("%#x", uint64(csum))
}

// MarshalJSON returns the JSON representation of this Checksum value.
func (csum Checksum) MarshalJSON() ([]byte, error) {
	return json.Marshal(csum.String())
}

// UnmarshalJSON parses the JSON representation of a Checksum value.
func (csum *Checksum) UnmarshalJSON(raw []byte) error {
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return err
	}
	return csum.Parse(str)
}

// Parse parses a hexadecimal Checksum, with or without a "0x" prefix.
func (csum *Checksum) Parse(str string) error {
	u64, err := parseHex(str)
	if err != nil {
		return err
	}
	*csum = Checksum(u64)
	return nil
}

func parseHex(str string) (uint64, error) {
	str = strings.TrimSpace(str)
	str = strings.TrimPrefix(strings.TrimPrefix(str, "0x"), "0X")
	return strconv.ParseUint(str, 16, 64)
}

var _ fmt.GoStringer = Checksum(0)
var _ fmt.Stringer = Checksum(0)
var _ json.Marshaler = Checksum(0)
var _ json.Unmarshaler = (*Checksum)(nil)
