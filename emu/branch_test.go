package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/armsim/armsim/emu"
	"github.com/armsim/armsim/insts"
)

var _ = Describe("CheckCondition", func() {
	DescribeTable("evaluates each condition against CPSR flags",
		func(cond insts.Cond, cpsr emu.CPSR, expected bool) {
			Expect(emu.CheckCondition(cpsr, cond)).To(Equal(expected))
		},
		Entry("EQ true on Z", insts.CondEQ, emu.CPSR{Z: true}, true),
		Entry("EQ false without Z", insts.CondEQ, emu.CPSR{Z: false}, false),
		Entry("NE true without Z", insts.CondNE, emu.CPSR{Z: false}, true),
		Entry("CS true on C", insts.CondCS, emu.CPSR{C: true}, true),
		Entry("CC true without C", insts.CondCC, emu.CPSR{C: false}, true),
		Entry("MI true on N", insts.CondMI, emu.CPSR{N: true}, true),
		Entry("PL true without N", insts.CondPL, emu.CPSR{N: false}, true),
		Entry("VS true on V", insts.CondVS, emu.CPSR{V: true}, true),
		Entry("VC true without V", insts.CondVC, emu.CPSR{V: false}, true),
		Entry("HI true when C set and Z clear", insts.CondHI, emu.CPSR{C: true, Z: false}, true),
		Entry("HI false when Z set", insts.CondHI, emu.CPSR{C: true, Z: true}, false),
		Entry("LS true when C clear", insts.CondLS, emu.CPSR{C: false, Z: false}, true),
		Entry("GE true when N equals V", insts.CondGE, emu.CPSR{N: true, V: true}, true),
		Entry("LT true when N differs from V", insts.CondLT, emu.CPSR{N: true, V: false}, true),
		Entry("GT true when Z clear and N equals V", insts.CondGT, emu.CPSR{Z: false, N: false, V: false}, true),
		Entry("GT false when Z set", insts.CondGT, emu.CPSR{Z: true, N: false, V: false}, false),
		Entry("LE true when Z set", insts.CondLE, emu.CPSR{Z: true}, true),
		Entry("AL always true", insts.CondAL, emu.CPSR{}, true),
		Entry("NV always true", insts.CondNV, emu.CPSR{}, true),
	)
})

var _ = Describe("BranchUnit", func() {
	var (
		regs   *emu.RegFile
		branch *emu.BranchUnit
	)

	BeforeEach(func() {
		regs = &emu.RegFile{}
		branch = emu.NewBranchUnit(regs)
	})

	It("branches forward by a positive offset, target = pc + 8 + offset*4", func() {
		branch.B(0x100, 0xA) // pc=0x100, offset 0xA words = 0x28 bytes
		Expect(regs.PC()).To(Equal(uint32(0x130)))
	})

	It("branches backward with a sign-extended negative offset", func() {
		branch.B(0x100, 0xFFFFFF) // -1 word = -4 bytes
		Expect(regs.PC()).To(Equal(uint32(0x104))) // 0x100 + 8 - 4
	})

	It("links the return address into LR before branching", func() {
		branch.BL(0x100, 1, 0x104)
		Expect(regs.ReadReg(emu.LR)).To(Equal(uint32(0x104)))
		Expect(regs.PC()).To(Equal(uint32(0x10C))) // 0x100 + 8 + 4
	})
})
