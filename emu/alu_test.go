package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/armsim/armsim/emu"
)

var _ = Describe("ALU", func() {
	var (
		alu  *emu.ALU
		cpsr emu.CPSR
	)

	BeforeEach(func() {
		alu = emu.NewALU()
		cpsr = emu.CPSR{}
	})

	Describe("Add", func() {
		It("sets the carry flag on unsigned overflow", func() {
			result := alu.Add(&cpsr, 0xFFFFFFFF, 0x2, true)
			Expect(result).To(Equal(uint32(0x1)))
			Expect(cpsr.C).To(BeTrue())
		})

		It("sets the overflow flag when two positives overflow into a negative", func() {
			result := alu.Add(&cpsr, 0x7FFFFFFF, 0x1, true)
			Expect(result).To(Equal(uint32(0x80000000)))
			Expect(cpsr.V).To(BeTrue())
			Expect(cpsr.N).To(BeTrue())
		})

		It("does not set overflow when operands have different signs", func() {
			alu.Add(&cpsr, 0x7FFFFFFF, 0x80000000, true)
			Expect(cpsr.V).To(BeFalse())
		})

		It("leaves flags untouched when setFlags is false", func() {
			cpsr.C = true
			alu.Add(&cpsr, 0x1, 0x1, false)
			Expect(cpsr.C).To(BeTrue())
		})
	})

	Describe("Sub", func() {
		It("sets carry when no borrow occurs", func() {
			alu.Sub(&cpsr, 5, 3, true)
			Expect(cpsr.C).To(BeTrue())
		})

		It("clears carry when a borrow occurs", func() {
			alu.Sub(&cpsr, 3, 5, true)
			Expect(cpsr.C).To(BeFalse())
		})

		It("sets overflow subtracting a negative from a positive into a negative result", func() {
			alu.Sub(&cpsr, 0x7FFFFFFF, 0x80000000, true)
			Expect(cpsr.V).To(BeTrue())
		})

		It("sets the zero flag when the operands are equal", func() {
			alu.Sub(&cpsr, 7, 7, true)
			Expect(cpsr.Z).To(BeTrue())
		})
	})

	Describe("Cmp", func() {
		It("updates flags without needing a destination", func() {
			alu.Cmp(&cpsr, 1, 1)
			Expect(cpsr.Z).To(BeTrue())
		})
	})

	Describe("logical operations", func() {
		It("computes AND and sets N/Z only", func() {
			cpsr.V = true
			result := alu.And(&cpsr, 0xF0, 0x0F, true)
			Expect(result).To(Equal(uint32(0)))
			Expect(cpsr.Z).To(BeTrue())
			Expect(cpsr.V).To(BeTrue()) // untouched by logical ops
		})

		It("computes ORR", func() {
			result := alu.Orr(&cpsr, 0xF0, 0x0F, false)
			Expect(result).To(Equal(uint32(0xFF)))
		})

		It("computes EOR", func() {
			result := alu.Eor(&cpsr, 0xFF, 0x0F, false)
			Expect(result).To(Equal(uint32(0xF0)))
		})
	})

	Describe("Mov", func() {
		It("passes the operand through", func() {
			result := alu.Mov(&cpsr, 0x42, true)
			Expect(result).To(Equal(uint32(0x42)))
		})

		It("sets N for a negative operand", func() {
			alu.Mov(&cpsr, 0x80000000, true)
			Expect(cpsr.N).To(BeTrue())
		})
	})

	Describe("Mul and Mla", func() {
		It("multiplies two registers", func() {
			result := alu.Mul(&cpsr, 6, 7, false)
			Expect(result).To(Equal(uint32(42)))
		})

		It("accumulates in Mla", func() {
			result := alu.Mla(&cpsr, 6, 7, 1, false)
			Expect(result).To(Equal(uint32(43)))
		})

		It("truncates multiplication overflow to 32 bits", func() {
			result := alu.Mul(&cpsr, 0x10000, 0x10000, false)
			Expect(result).To(Equal(uint32(0)))
		})
	})
})
