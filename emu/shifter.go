package emu

import "github.com/armsim/armsim/insts"

// Shift applies the given shift type and amount to value, returning the
// shifted result and the carry-out bit that would feed CPSR.C when the
// instruction sets flags. carryIn is the current CPSR.C, used verbatim for
// amount == 0: a zero shift amount is a no-op for every shift type,
// including ROR, leaving the carry flag unchanged. This departs from the
// full ARM architecture (where LSR/ASR #0 on the immediate-shift encoding
// actually mean #32) in favor of a simpler, internally consistent rule.
func Shift(value uint32, typ insts.ShiftType, amount uint8, carryIn bool) (uint32, bool) {
	if amount == 0 {
		return value, carryIn
	}

	switch typ {
	case insts.ShiftLSL:
		return shiftLSL(value, amount)
	case insts.ShiftLSR:
		return shiftLSR(value, amount)
	case insts.ShiftASR:
		return shiftASR(value, amount)
	case insts.ShiftROR:
		return shiftROR(value, amount)
	default:
		return value, carryIn
	}
}

func shiftLSL(value uint32, amount uint8) (uint32, bool) {
	if amount > 31 {
		return 0, false
	}
	carryOut := (value>>(32-amount))&0x1 == 1
	return value << amount, carryOut
}

func shiftLSR(value uint32, amount uint8) (uint32, bool) {
	if amount >= 32 {
		if amount == 32 {
			return 0, (value>>31)&0x1 == 1
		}
		return 0, false
	}
	carryOut := (value>>(amount-1))&0x1 == 1
	return value >> amount, carryOut
}

func shiftASR(value uint32, amount uint8) (uint32, bool) {
	signed := int32(value)
	if amount >= 32 {
		if signed < 0 {
			return 0xFFFFFFFF, true
		}
		return 0, false
	}
	carryOut := (value>>(amount-1))&0x1 == 1
	return uint32(signed >> amount), carryOut
}

func shiftROR(value uint32, amount uint8) (uint32, bool) {
	n := amount % 32
	if n == 0 {
		// ROR by a multiple of 32 (amount != 0): value unchanged, carry
		// out is the value's top bit.
		return value, (value>>31)&0x1 == 1
	}
	result := (value >> n) | (value << (32 - n))
	carryOut := (result>>31)&0x1 == 1
	return result, carryOut
}
