package insts

// Decode decodes a 32-bit ARM word into an Instruction. It never fails:
// encodings that do not match a known family decode to UNKNOWN, and
// recognised families with an opcode this core does not implement decode to
// UNKNOWN_DP_IMM / UNKNOWN_DP_REG. Dispatch order checks the multiply
// family first, then data processing, then load/store, then branch.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{Raw: word, Condition: Cond((word >> 28) & 0xF)}

	switch {
	case isMultiply(word):
		decodeMultiply(word, inst)
	case (word>>26)&0b11 == 0b00:
		decodeDataProcessing(word, inst)
	case (word>>26)&0b11 == 0b01:
		decodeLoadStore(word, inst)
	case (word>>25)&0b111 == 0b101:
		decodeBranch(word, inst)
	default:
		inst.Kind = UNKNOWN
		inst.Format = FormatUnknown
	}

	return inst
}

// isMultiply recognises the MUL/MLA encoding: W[27:22] == 000000 and
// W[7:4] == 1001.
func isMultiply(word uint32) bool {
	return (word>>22)&0x3F == 0 && (word>>4)&0xF == 0b1001
}

func decodeMultiply(word uint32, inst *Instruction) {
	inst.Format = FormatMultiply

	aBit := (word >> 21) & 0x1
	inst.SetFlags = (word>>20)&0x1 == 1
	inst.Rd = uint8((word >> 16) & 0xF)
	inst.Rs = uint8((word >> 8) & 0xF)
	inst.Rm = uint8(word & 0xF)

	if aBit == 1 {
		inst.Kind = MLA
		inst.Rn = uint8((word >> 12) & 0xF)
	} else {
		inst.Kind = MUL
	}
}

// dpOpcodeKind maps the 4-bit data-processing opcode to a Kind, or reports
// false when the opcode is not one of the seven this core implements.
func dpOpcodeKind(opcode uint32) (Kind, bool) {
	switch opcode {
	case 0b0100:
		return ADD, true
	case 0b0010:
		return SUB, true
	case 0b1101:
		return MOV, true
	case 0b1010:
		return CMP, true
	case 0b0000:
		return AND, true
	case 0b1100:
		return ORR, true
	case 0b0001:
		return EOR, true
	default:
		return UNKNOWN, false
	}
}

func decodeDataProcessing(word uint32, inst *Instruction) {
	inst.SetFlags = (word>>20)&0x1 == 1
	opcode := (word >> 21) & 0xF
	inst.Rn = uint8((word >> 16) & 0xF)
	inst.Rd = uint8((word >> 12) & 0xF)

	if (word>>25)&0x1 == 1 {
		decodeDPImmediate(word, opcode, inst)
		return
	}
	decodeDPRegister(word, opcode, inst)
}

func decodeDPImmediate(word uint32, opcode uint32, inst *Instruction) {
	inst.Format = FormatDPImm

	rotateImm := (word >> 8) & 0xF
	imm8 := word & 0xFF

	inst.RotateImm = uint8(rotateImm)
	inst.Imm8 = uint8(imm8)
	inst.Operand2 = Operand2{IsImmediate: true, Value: ror32(imm8, 2*rotateImm)}

	kind, ok := dpOpcodeKind(opcode)
	if !ok {
		inst.Kind = UNKNOWN_DP_IMM
		return
	}
	inst.Kind = kind
	if kind == CMP {
		inst.SetFlags = true
	}
}

func decodeDPRegister(word uint32, opcode uint32, inst *Instruction) {
	rm := uint8(word & 0xF)
	shiftType := ShiftType((word >> 5) & 0b11)
	useRs := (word>>4)&0x1 == 1

	// MOV with Rn==0 and a register-form operand2 is reinterpreted as a
	// standalone shift instruction, keyed by shift type.
	if inst.Rn == 0 && opcode == 0b1101 {
		inst.Format = FormatShift
		inst.Rm = rm
		inst.UseRs = useRs
		inst.ShiftType = shiftType
		switch shiftType {
		case ShiftLSL:
			inst.Kind = LSL
		case ShiftLSR:
			inst.Kind = LSR
		case ShiftASR:
			inst.Kind = ASR
		case ShiftROR:
			inst.Kind = ROR
		}
		if useRs {
			inst.Rs = uint8((word >> 8) & 0xF)
		} else {
			inst.ShiftAmount = uint8((word >> 7) & 0b11111)
		}
		return
	}

	inst.Format = FormatDPReg
	inst.Rm = rm
	op2 := Operand2{Rm: rm, ShiftType: shiftType, UseRs: useRs}
	if useRs {
		op2.Rs = uint8((word >> 8) & 0xF)
		inst.Rs = op2.Rs
	} else {
		op2.ShiftAmount = uint8((word >> 7) & 0b11111)
		inst.ShiftAmount = op2.ShiftAmount
	}
	inst.ShiftType = shiftType
	inst.UseRs = useRs
	inst.Operand2 = op2

	kind, ok := dpOpcodeKind(opcode)
	if !ok {
		inst.Kind = UNKNOWN_DP_REG
		return
	}
	inst.Kind = kind
	if kind == CMP {
		inst.SetFlags = true
	}
}

func decodeLoadStore(word uint32, inst *Instruction) {
	inst.Format = FormatLoadStore

	lBit := (word>>20)&0x1 == 1
	inst.LBit = lBit
	inst.Rn = uint8((word >> 16) & 0xF)
	inst.Rd = uint8((word >> 12) & 0xF)

	if (word>>25)&0x1 == 0 {
		inst.Offset = word & 0xFFF
	} else {
		inst.UseRmIndex = true
		inst.Rm = uint8(word & 0xF)
		inst.ShiftType = ShiftType((word >> 5) & 0b11)
		inst.ShiftAmount = uint8((word >> 7) & 0b11111)
	}

	if lBit {
		inst.Kind = LDR
	} else {
		inst.Kind = STR
	}
}

func decodeBranch(word uint32, inst *Instruction) {
	inst.Format = FormatBranch

	lBit := (word>>24)&0x1 == 1
	inst.LBit = lBit
	inst.Offset = word & 0xFFFFFF

	if lBit {
		inst.Kind = BL
	} else {
		inst.Kind = B
	}
}
