package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/armsim/armsim/emu"
)

var _ = Describe("LoadStoreUnit", func() {
	var (
		regs   *emu.RegFile
		memory *emu.Memory
		lsu    *emu.LoadStoreUnit
	)

	BeforeEach(func() {
		regs = &emu.RegFile{}
		memory = emu.NewMemory()
		lsu = emu.NewLoadStoreUnit(regs, memory)
	})

	Describe("LDR", func() {
		It("loads a word from memory into the destination register", func() {
			memory.Write32(8, 1234)
			lsu.LDR(0, 8)
			Expect(regs.ReadReg(0)).To(Equal(uint32(1234)))
		})

		It("leaves the destination register unchanged for an out-of-range address", func() {
			regs.WriteReg(0, 0xAAAAAAAA)
			lsu.LDR(0, emu.MemorySize)
			Expect(regs.ReadReg(0)).To(Equal(uint32(0xAAAAAAAA)))
		})
	})

	Describe("STR", func() {
		It("stores a register's value to memory", func() {
			regs.WriteReg(1, 0xDEADBEEF)
			lsu.STR(1, 16)
			Expect(memory.Read32(16)).To(Equal(uint32(0xDEADBEEF)))
		})

		It("silently ignores an out-of-range address", func() {
			regs.WriteReg(1, 0xDEADBEEF)
			lsu.STR(1, emu.MemorySize)
			Expect(memory.Read32(emu.MemorySize - 4)).To(Equal(uint32(0)))
		})
	})

	Describe("Address", func() {
		It("adds the offset to the base register", func() {
			regs.WriteReg(2, 100)
			Expect(lsu.Address(2, 20)).To(Equal(uint32(120)))
		})
	})

	Describe("AddressIndexed", func() {
		It("adds the resolved register value to the base register", func() {
			regs.WriteReg(2, 100)
			Expect(lsu.AddressIndexed(2, 20)).To(Equal(uint32(120)))
		})
	})
})
