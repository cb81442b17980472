// Package decode provides the primitives generated model accessors use to
// read values out of SunSpec register blocks.
//
// Registers hold 16-bit words. Multi-register values are big-endian, most
// significant register first. Offsets count registers from the start of the
// model block, where the ID register sits at offset 0.
//
// The primitives do not interpret "not implemented" sentinel values; a
// caller that cares compares the raw value itself.
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"math"
)

// ErrShortBlock is returned for register blocks shorter than their model.
var ErrShortBlock = errors.New("register block shorter than model")

// CheckLength verifies that regs holds at least size registers.
func CheckLength(regs []uint16, size int) error {
	if len(regs) < size {
		return fmt.Errorf("%w: have %d registers, need %d", ErrShortBlock, len(regs), size)
	}
	return nil
}

// Uint16 reads one register.
func Uint16(regs []uint16, off int) uint16 {
	return regs[off]
}

// Int16 reads one register as a two's complement value.
func Int16(regs []uint16, off int) int16 {
	return int16(regs[off])
}

// Uint32 reads two registers.
func Uint32(regs []uint16, off int) uint32 {
	return uint32(regs[off])<<16 | uint32(regs[off+1])
}

// Int32 reads two registers as a two's complement value.
func Int32(regs []uint16, off int) int32 {
	return int32(Uint32(regs, off))
}

// Uint64 reads four registers.
func Uint64(regs []uint16, off int) uint64 {
	return uint64(Uint32(regs, off))<<32 | uint64(Uint32(regs, off+2))
}

// Int64 reads four registers as a two's complement value.
func Int64(regs []uint16, off int) int64 {
	return int64(Uint64(regs, off))
}

// Float32 reads two registers as an IEEE 754 single.
func Float32(regs []uint16, off int) float32 {
	return math.Float32frombits(Uint32(regs, off))
}

// Float64 reads four registers as an IEEE 754 double.
func Float64(regs []uint16, off int) float64 {
	return math.Float64frombits(Uint64(regs, off))
}

// String reads size registers as text, two bytes per register, high byte
// first. The text ends at the first NUL byte.
func String(regs []uint16, off, size int) string {
	b := make([]byte, 0, 2*size)
	for _, r := range regs[off : off+size] {
		b = append(b, byte(r>>8), byte(r))
	}
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// IPAddr reads an IPv4 address stored in two registers.
func IPAddr(regs []uint16, off int) uint32 {
	return Uint32(regs, off)
}

// EUI48 reads a MAC address stored in four registers, the first of which
// is padding.
func EUI48(regs []uint16, off int) uint64 {
	return Uint64(regs, off) & 0xFFFF_FFFF_FFFF
}
