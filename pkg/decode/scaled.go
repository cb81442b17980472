package decode

import "math"

// Scale multiplies v by ten to the power of exp.
func Scale(v float64, exp int) float64 {
	return v * math.Pow10(exp)
}

// Exponent reads a sunssf register.
func Exponent(regs []uint16, off int) int {
	return int(Int16(regs, off))
}

// Int16Exp reads an int16 scaled by a literal exponent.
func Int16Exp(regs []uint16, off, exp int) float32 {
	return float32(Scale(float64(Int16(regs, off)), exp))
}

// Int16SF reads an int16 scaled by the exponent stored at sfOff.
func Int16SF(regs []uint16, off, sfOff int) float32 {
	return Int16Exp(regs, off, Exponent(regs, sfOff))
}

// Uint16Exp reads a uint16 scaled by a literal exponent.
func Uint16Exp(regs []uint16, off, exp int) float32 {
	return float32(Scale(float64(Uint16(regs, off)), exp))
}

// Uint16SF reads a uint16 scaled by the exponent stored at sfOff.
func Uint16SF(regs []uint16, off, sfOff int) float32 {
	return Uint16Exp(regs, off, Exponent(regs, sfOff))
}

// Uint32Exp reads a uint32 scaled by a literal exponent.
func Uint32Exp(regs []uint16, off, exp int) float64 {
	return Scale(float64(Uint32(regs, off)), exp)
}

// Uint32SF reads a uint32 scaled by the exponent stored at sfOff.
func Uint32SF(regs []uint16, off, sfOff int) float64 {
	return Uint32Exp(regs, off, Exponent(regs, sfOff))
}

// Uint64Exp reads a uint64 scaled by a literal exponent.
func Uint64Exp(regs []uint16, off, exp int) float64 {
	return Scale(float64(Uint64(regs, off)), exp)
}

// Uint64SF reads a uint64 scaled by the exponent stored at sfOff.
func Uint64SF(regs []uint16, off, sfOff int) float64 {
	return Uint64Exp(regs, off, Exponent(regs, sfOff))
}
