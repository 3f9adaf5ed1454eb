// Package emu provides functional ARM32 emulation.
package emu

import (
	"io"
	"os"

	"github.com/armsim/armsim/insts"
)

// StepResult reports what happened when a single instruction executed.
// Execution never panics on program errors; fatal conditions (fetch past
// the end of loaded code, an instruction limit reached) are reported here
// instead.
type StepResult struct {
	Halted   bool
	ExitCode int
	Err      error
}

// Emulator executes decoded ARM32 instructions against a register file and
// memory. It fetches from memory itself (a loaded program lives at address
// 0 in the same address space data accesses use), so Step both advances PC
// and performs the instruction's effect.
type Emulator struct {
	regFile *RegFile
	memory  *Memory
	decoder *insts.Decoder

	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit

	stdout io.Writer
	stderr io.Writer

	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit

	programWords uint32 // length, in words, of the loaded program
	fetchPC      uint32 // next fetch address; advances independently of R15
}

// EmulatorOption configures an Emulator at construction time.
type EmulatorOption func(*Emulator)

// WithStdout sets a custom stdout writer. The emulator stores it; Step and
// Run do not write to it.
func WithStdout(w io.Writer) EmulatorOption {
	return func(e *Emulator) { e.stdout = w }
}

// WithStderr sets a custom stderr writer.
func WithStderr(w io.Writer) EmulatorOption {
	return func(e *Emulator) { e.stderr = w }
}

// WithStackPointer sets the initial value of R13 (SP).
func WithStackPointer(sp uint32) EmulatorOption {
	return func(e *Emulator) { e.regFile.WriteReg(SP, sp) }
}

// WithMaxInstructions caps the number of instructions Run will execute
// before stopping with StepResult.Halted = true. Zero means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) { e.maxInstructions = max }
}

// NewEmulator creates a new ARM32 emulator over a fresh register file and
// memory.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	regFile := &RegFile{}
	memory := NewMemory()

	e := &Emulator{
		regFile:    regFile,
		memory:     memory,
		decoder:    insts.NewDecoder(),
		alu:        NewALU(),
		lsu:        NewLoadStoreUnit(regFile, memory),
		branchUnit: NewBranchUnit(regFile),
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// InstructionCount returns the number of instructions executed so far.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// LoadProgram writes a stream of decoded words into memory starting at
// address 0 and resets PC to 0.
func (e *Emulator) LoadProgram(words []uint32) {
	e.memory.LoadWords(words)
	e.programWords = uint32(len(words))
	e.regFile.SetPC(0)
	e.fetchPC = 0
}

// Reset clears registers, flags, instruction count, and the fetch cursor,
// leaving memory contents (and the loaded program) untouched.
func (e *Emulator) Reset() {
	e.regFile.R = [16]uint32{}
	e.regFile.CPSR = CPSR{}
	e.instructionCount = 0
	e.fetchPC = 0
}

// Step fetches, decodes, and executes one instruction. It reports Halted
// when the fetch cursor has run past the end of the loaded program or the
// instruction limit has been reached; it never returns a non-nil Err for
// program content, since every decoded kind — including UNKNOWN* — has
// defined (no-op) behavior.
//
// Fetching is tracked by its own cursor (fetchPC) rather than by reading
// R15 back: a failed condition check must leave every register, including
// R15, bit-identical to its pre-state, so the loop's forward progress
// cannot be recovered from R15 afterward. Only once a condition passes is
// R15 advanced to pc+4, after which execute may overwrite it again (a
// taken branch).
func (e *Emulator) Step() StepResult {
	if e.maxInstructions != 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{Halted: true}
	}

	pc := e.fetchPC
	if pc/4 >= e.programWords {
		return StepResult{Halted: true}
	}

	word := e.memory.Read32(pc)
	inst := e.decoder.Decode(word)
	e.instructionCount++
	e.fetchPC = pc + 4

	if !CheckCondition(e.regFile.CPSR, inst.Condition) {
		return StepResult{}
	}

	e.regFile.SetPC(pc + 4)
	e.execute(inst, pc)
	e.fetchPC = e.regFile.PC()

	return StepResult{}
}

// Run steps the emulator until it halts, returning the terminal
// StepResult.
func (e *Emulator) Run() StepResult {
	for {
		result := e.Step()
		if result.Halted || result.Err != nil {
			return result
		}
	}
}

func (e *Emulator) execute(inst *insts.Instruction, pc uint32) {
	switch inst.Format {
	case insts.FormatMultiply:
		e.executeMultiply(inst)
	case insts.FormatDPImm, insts.FormatDPReg:
		e.executeDP(inst)
	case insts.FormatShift:
		e.executeStandaloneShift(inst)
	case insts.FormatLoadStore:
		e.executeLoadStore(inst)
	case insts.FormatBranch:
		e.executeBranch(inst, pc)
	}
}

func (e *Emulator) executeMultiply(inst *insts.Instruction) {
	rm := e.regFile.ReadReg(inst.Rm)
	rs := e.regFile.ReadReg(inst.Rs)

	var result uint32
	if inst.Kind == insts.MLA {
		rn := e.regFile.ReadReg(inst.Rn)
		result = e.alu.Mla(&e.regFile.CPSR, rm, rs, rn, inst.SetFlags)
	} else {
		result = e.alu.Mul(&e.regFile.CPSR, rm, rs, inst.SetFlags)
	}
	e.regFile.WriteReg(inst.Rd, result)
}

// resolveOperand2 returns operand2's value and the carry-out that a
// register-shifted form would produce. For the immediate form carryOut
// equals the current C flag: the shifter is bypassed entirely at decode
// time, so MOV's immediate form never disturbs C.
func (e *Emulator) resolveOperand2(op2 insts.Operand2) (uint32, bool) {
	if op2.IsImmediate {
		return op2.Value, e.regFile.CPSR.C
	}

	rmValue := e.regFile.ReadReg(op2.Rm)
	amount := op2.ShiftAmount
	if op2.UseRs {
		amount = uint8(e.regFile.ReadReg(op2.Rs))
	}
	return Shift(rmValue, op2.ShiftType, amount, e.regFile.CPSR.C)
}

func (e *Emulator) executeDP(inst *insts.Instruction) {
	op1 := e.regFile.ReadReg(inst.Rn)
	op2, carryOut := e.resolveOperand2(inst.Operand2)

	var result uint32
	switch inst.Kind {
	case insts.ADD:
		result = e.alu.Add(&e.regFile.CPSR, op1, op2, inst.SetFlags)
	case insts.SUB:
		result = e.alu.Sub(&e.regFile.CPSR, op1, op2, inst.SetFlags)
	case insts.CMP:
		e.alu.Cmp(&e.regFile.CPSR, op1, op2)
		return
	case insts.AND:
		result = e.alu.And(&e.regFile.CPSR, op1, op2, inst.SetFlags)
	case insts.ORR:
		result = e.alu.Orr(&e.regFile.CPSR, op1, op2, inst.SetFlags)
	case insts.EOR:
		result = e.alu.Eor(&e.regFile.CPSR, op1, op2, inst.SetFlags)
	case insts.MOV:
		result = e.alu.Mov(&e.regFile.CPSR, op2, inst.SetFlags)
		// Only the register-shifted form updates C from the shifter;
		// the immediate form leaves it exactly as resolveOperand2
		// already returned it (the current C flag, unchanged).
		if inst.SetFlags && !inst.Operand2.IsImmediate {
			e.regFile.CPSR.C = carryOut
		}
	default:
		return
	}
	e.regFile.WriteReg(inst.Rd, result)
}

func (e *Emulator) executeStandaloneShift(inst *insts.Instruction) {
	rmValue := e.regFile.ReadReg(inst.Rm)
	amount := inst.ShiftAmount
	if inst.UseRs {
		amount = uint8(e.regFile.ReadReg(inst.Rs))
	}

	result, carryOut := Shift(rmValue, inst.ShiftType, amount, e.regFile.CPSR.C)
	e.regFile.WriteReg(inst.Rd, result)
	if inst.SetFlags {
		e.regFile.CPSR.C = carryOut
		e.regFile.CPSR.N = result&0x80000000 != 0
		e.regFile.CPSR.Z = result == 0
	}
}

// executeLoadStore computes the effective address and performs the access.
// The register-offset form's ShiftType/ShiftAmount are decode-time fields
// only; execution treats Rm's value as a plain unshifted offset.
func (e *Emulator) executeLoadStore(inst *insts.Instruction) {
	var address uint32
	if inst.UseRmIndex {
		rmValue := e.regFile.ReadReg(inst.Rm)
		address = e.lsu.AddressIndexed(inst.Rn, rmValue)
	} else {
		address = e.lsu.Address(inst.Rn, inst.Offset)
	}

	if inst.Kind == insts.LDR {
		e.lsu.LDR(inst.Rd, address)
	} else {
		e.lsu.STR(inst.Rd, address)
	}
}

// executeBranch computes the target from the instruction's own (pre-fetch)
// address pc, per BranchTarget's pc+8+offset formula; the return address
// linked into LR is the already-advanced R15 (pc+4).
func (e *Emulator) executeBranch(inst *insts.Instruction, pc uint32) {
	if inst.Kind == insts.BL {
		e.branchUnit.BL(pc, inst.Offset, e.regFile.PC())
	} else {
		e.branchUnit.B(pc, inst.Offset)
	}
}
