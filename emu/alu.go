// Package emu provides functional ARM32 emulation.
package emu

// ALU implements the ARM32 data-processing operations this core decodes.
// It is stateless aside from the CPSR it updates; operand resolution
// (register reads, shifter application) happens in the caller so the ALU
// only ever sees the two 32-bit values an instruction actually operates on.
type ALU struct{}

// NewALU creates a new ALU.
func NewALU() *ALU {
	return &ALU{}
}

// Add computes op1 + op2, optionally updating cpsr's N, Z, C, V flags.
// V is true when the operands share a sign and the result's sign differs
// from theirs; C is true when the result is less than either operand
// (unsigned addition wrapped).
func (a *ALU) Add(cpsr *CPSR, op1, op2 uint32, setFlags bool) uint32 {
	result := op1 + op2
	if setFlags {
		cpsr.C = result < op1
		cpsr.V = (^(op1^op2)&(op1^result))&0x80000000 != 0
		setNZ(cpsr, result)
	}
	return result
}

// Sub computes op1 - op2, optionally updating cpsr's N, Z, C, V flags.
// C is true when no borrow occurred (op1 >= op2, unsigned); V is true when
// the operands have different signs and the result's sign matches the
// subtrahend's.
func (a *ALU) Sub(cpsr *CPSR, op1, op2 uint32, setFlags bool) uint32 {
	result := op1 - op2
	if setFlags {
		cpsr.C = op1 >= op2
		cpsr.V = ((op1^op2)&(op1^result))&0x80000000 != 0
		setNZ(cpsr, result)
	}
	return result
}

// Cmp computes op1 - op2 purely for flag effect; the result is discarded.
func (a *ALU) Cmp(cpsr *CPSR, op1, op2 uint32) {
	a.Sub(cpsr, op1, op2, true)
}

// And computes op1 & op2. setFlags updates N and Z only; logical operations
// never affect V, and C is not touched here (the executor does not update
// C from the shifter for AND/ORR/EOR either).
func (a *ALU) And(cpsr *CPSR, op1, op2 uint32, setFlags bool) uint32 {
	result := op1 & op2
	if setFlags {
		setNZ(cpsr, result)
	}
	return result
}

// Orr computes op1 | op2, with the same flag behavior as And.
func (a *ALU) Orr(cpsr *CPSR, op1, op2 uint32, setFlags bool) uint32 {
	result := op1 | op2
	if setFlags {
		setNZ(cpsr, result)
	}
	return result
}

// Eor computes op1 ^ op2, with the same flag behavior as And.
func (a *ALU) Eor(cpsr *CPSR, op1, op2 uint32, setFlags bool) uint32 {
	result := op1 ^ op2
	if setFlags {
		setNZ(cpsr, result)
	}
	return result
}

// Mov passes operand2 through to the destination, with the same flag
// behavior as And. The caller decides C: only the register-shifted form
// updates it from the shifter's carry-out, while the immediate form leaves
// it untouched even when setFlags is true.
func (a *ALU) Mov(cpsr *CPSR, op2 uint32, setFlags bool) uint32 {
	if setFlags {
		setNZ(cpsr, op2)
	}
	return op2
}

// Mul computes rm * rs, truncated to 32 bits. setFlags updates N and Z;
// the real ARM leaves C as unpredictable after MULS and never touches V,
// so this core leaves C and V untouched.
func (a *ALU) Mul(cpsr *CPSR, rm, rs uint32, setFlags bool) uint32 {
	result := rm * rs
	if setFlags {
		setNZ(cpsr, result)
	}
	return result
}

// Mla computes rm*rs + rn, truncated to 32 bits, with the same flag
// behavior as Mul.
func (a *ALU) Mla(cpsr *CPSR, rm, rs, rn uint32, setFlags bool) uint32 {
	result := rm*rs + rn
	if setFlags {
		setNZ(cpsr, result)
	}
	return result
}

func setNZ(cpsr *CPSR, result uint32) {
	cpsr.N = result&0x80000000 != 0
	cpsr.Z = result == 0
}
