package emu

import "github.com/armsim/armsim/insts"

// BranchUnit implements the condition check and the B/BL offset
// computation.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a new BranchUnit connected to the given register
// file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

// CheckCondition evaluates cond against the current CPSR flags, following
// the standard ARM condition-code table.
func CheckCondition(cpsr CPSR, cond insts.Cond) bool {
	switch cond {
	case insts.CondEQ:
		return cpsr.Z
	case insts.CondNE:
		return !cpsr.Z
	case insts.CondCS:
		return cpsr.C
	case insts.CondCC:
		return !cpsr.C
	case insts.CondMI:
		return cpsr.N
	case insts.CondPL:
		return !cpsr.N
	case insts.CondVS:
		return cpsr.V
	case insts.CondVC:
		return !cpsr.V
	case insts.CondHI:
		return cpsr.C && !cpsr.Z
	case insts.CondLS:
		return !cpsr.C || cpsr.Z
	case insts.CondGE:
		return cpsr.N == cpsr.V
	case insts.CondLT:
		return cpsr.N != cpsr.V
	case insts.CondGT:
		return !cpsr.Z && cpsr.N == cpsr.V
	case insts.CondLE:
		return cpsr.Z || cpsr.N != cpsr.V
	case insts.CondAL, insts.CondNV:
		return true
	default:
		return true
	}
}

// BranchTarget computes the absolute target address of a B/BL instruction:
// the 24-bit offset field is sign-extended, shifted left 2 (ARM instructions
// are word-aligned), and added to pc + 8, where pc is the branch
// instruction's own address (the pipeline-ahead offset real ARM hardware
// exposes as R15's value during execution of the instruction at pc).
func BranchTarget(pc uint32, offset24 uint32) uint32 {
	signExtended := int32(offset24<<8) >> 8
	return uint32(int32(pc) + 8 + (signExtended << 2))
}

// B branches unconditionally (conditionally, via the caller's
// CheckCondition gate) to the target computed from the branch instruction's
// own address, pc.
func (b *BranchUnit) B(pc uint32, offset24 uint32) {
	b.regFile.SetPC(BranchTarget(pc, offset24))
}

// BL branches and links: LR is set to returnAddress (the instruction after
// the branch) before PC is updated to the computed target.
func (b *BranchUnit) BL(pc uint32, offset24 uint32, returnAddress uint32) {
	b.regFile.WriteReg(LR, returnAddress)
	b.regFile.SetPC(BranchTarget(pc, offset24))
}
