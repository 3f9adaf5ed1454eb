package emu

// LoadStoreUnit implements the single-register LDR/STR operations this
// core decodes. Address computation (immediate offset vs. register offset)
// happens in the caller; the unit itself only resolves an already
// computed address against memory.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		memory:  memory,
	}
}

// LDR loads the word at address into rd. An out-of-range address leaves rd
// unchanged, matching the original reference's silent bounds check rather
// than trapping.
func (lsu *LoadStoreUnit) LDR(rd uint8, address uint32) {
	if !lsu.memory.InRange(address) {
		return
	}
	lsu.regFile.WriteReg(rd, lsu.memory.Read32(address))
}

// STR stores rd's value to address. An out-of-range address is a silent
// no-op.
func (lsu *LoadStoreUnit) STR(rd uint8, address uint32) {
	if !lsu.memory.InRange(address) {
		return
	}
	lsu.memory.Write32(address, lsu.regFile.ReadReg(rd))
}

// Address computes the effective address for an immediate-offset load or
// store: Rn + offset.
func (lsu *LoadStoreUnit) Address(rn uint8, offset uint32) uint32 {
	return lsu.regFile.ReadReg(rn) + offset
}

// AddressIndexed computes the effective address for a register-offset load
// or store: Rn + Rm. The executor passes Rm's value unshifted; the decoded
// ShiftType/ShiftAmount of this form are not applied.
func (lsu *LoadStoreUnit) AddressIndexed(rn uint8, rmValue uint32) uint32 {
	return lsu.regFile.ReadReg(rn) + rmValue
}
