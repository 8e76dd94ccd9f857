package main

import (
	"strconv"
	"strings"

	getopt "github.com/pborman/getopt/v2"

	"github.com/chronos-tachyon/lfsr"
)

// type FormatFlag {{{

// FormatFlag implements getopt.Value for lfsr.Format.
type FormatFlag struct {
	Value lfsr.Format
}

// Set fulfills getopt.Value.
func (flag *FormatFlag) Set(str string, opt getopt.Option) error {
	return flag.Value.Parse(str)
}

// String fulfills getopt.Value.
func (flag FormatFlag) String() string {
	return flag.Value.String()
}

var _ getopt.Value = (*FormatFlag)(nil)

// }}}

// type StrategyFlag {{{

// StrategyFlag implements getopt.Value for lfsr.Strategy.
type StrategyFlag struct {
	Value lfsr.Strategy
}

// Set fulfills getopt.Value.
func (flag *StrategyFlag) Set(str string, opt getopt.Option) error {
	return flag.Value.Parse(str)
}

// String fulfills getopt.Value.
func (flag StrategyFlag) String() string {
	return flag.Value.String()
}

var _ getopt.Value = (*StrategyFlag)(nil)

// }}}

// type PaddingPolicyFlag {{{

// PaddingPolicyFlag implements getopt.Value for lfsr.PaddingPolicy.
type PaddingPolicyFlag struct {
	Value lfsr.PaddingPolicy
}

// Set fulfills getopt.Value.
func (flag *PaddingPolicyFlag) Set(str string, opt getopt.Option) error {
	return flag.Value.Parse(str)
}

// String fulfills getopt.Value.
func (flag PaddingPolicyFlag) String() string {
	return flag.Value.String()
}

var _ getopt.Value = (*PaddingPolicyFlag)(nil)

// }}}

// type HexFlag {{{

// HexFlag implements getopt.Value for a hexadecimal uint64.  IsSet reports
// whether the flag appeared on the command line.
type HexFlag struct {
	Value uint64
	IsSet bool
}

// Set fulfills getopt.Value.
func (flag *HexFlag) Set(str string, opt getopt.Option) error {
	str = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(str), "0x"), "0X")
	u64, err := strconv.ParseUint(str, 16, 64)
	if err != nil {
		return err
	}
	flag.Value = u64
	flag.IsSet = true
	return nil
}

// String fulfills getopt.Value.
func (flag HexFlag) String() string {
	return "0x" + strconv.FormatUint(flag.Value, 16)
}

var _ getopt.Value = (*HexFlag)(nil)

// }}}

// type UintFlag {{{

// UintFlag implements getopt.Value for a positive decimal integer.
type UintFlag struct {
	Value uint
}

// Set fulfills getopt.Value.
func (flag *UintFlag) Set(str string, opt getopt.Option) error {
	u64, err := strconv.ParseUint(strings.TrimSpace(str), 10, 32)
	if err != nil {
		return err
	}
	if u64 == 0 {
		return strconv.ErrRange
	}
	flag.Value = uint(u64)
	return nil
}

// String fulfills getopt.Value.
func (flag UintFlag) String() string {
	return strconv.FormatUint(uint64(flag.Value), 10)
}

var _ getopt.Value = (*UintFlag)(nil)

// }}}
