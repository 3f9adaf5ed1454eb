package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/armsim/armsim/emu"
	"github.com/armsim/armsim/insts"
)

var _ = Describe("Shift", func() {
	Describe("amount zero", func() {
		It("leaves the value and carry unchanged for every shift type", func() {
			for _, typ := range []insts.ShiftType{insts.ShiftLSL, insts.ShiftLSR, insts.ShiftASR, insts.ShiftROR} {
				result, carryOut := emu.Shift(0x12345678, typ, 0, true)
				Expect(result).To(Equal(uint32(0x12345678)))
				Expect(carryOut).To(BeTrue())
			}
		})
	})

	Describe("LSL", func() {
		It("shifts left and reports the last bit shifted out as carry", func() {
			result, carryOut := emu.Shift(0x80000001, insts.ShiftLSL, 1, false)
			Expect(result).To(Equal(uint32(0x00000002)))
			Expect(carryOut).To(BeTrue())
		})

		It("produces zero with carry false at amount 32, with no carve-out at exactly 32", func() {
			result, carryOut := emu.Shift(0x1, insts.ShiftLSL, 32, true)
			Expect(result).To(Equal(uint32(0)))
			Expect(carryOut).To(BeFalse())
		})

		It("produces zero with carry false beyond 32", func() {
			result, carryOut := emu.Shift(0xFFFFFFFF, insts.ShiftLSL, 33, true)
			Expect(result).To(Equal(uint32(0)))
			Expect(carryOut).To(BeFalse())
		})
	})

	Describe("LSR", func() {
		It("shifts right logically and reports the last bit shifted out", func() {
			result, carryOut := emu.Shift(0x80000001, insts.ShiftLSR, 1, false)
			Expect(result).To(Equal(uint32(0x40000000)))
			Expect(carryOut).To(BeTrue())
		})

		It("produces zero with carry from bit 31 at amount 32", func() {
			result, carryOut := emu.Shift(0x80000000, insts.ShiftLSR, 32, false)
			Expect(result).To(Equal(uint32(0)))
			Expect(carryOut).To(BeTrue())
		})
	})

	Describe("ASR", func() {
		It("sign-extends on a negative value", func() {
			result, carryOut := emu.Shift(0x80000000, insts.ShiftASR, 4, false)
			Expect(result).To(Equal(uint32(0xF8000000)))
			Expect(carryOut).To(BeFalse())
		})

		It("saturates to all-ones with carry set when amount >= 32 and the value is negative", func() {
			result, carryOut := emu.Shift(0x80000000, insts.ShiftASR, 32, false)
			Expect(result).To(Equal(uint32(0xFFFFFFFF)))
			Expect(carryOut).To(BeTrue())
		})

		It("saturates to zero with carry clear when amount >= 32 and the value is non-negative", func() {
			result, carryOut := emu.Shift(0x7FFFFFFF, insts.ShiftASR, 32, true)
			Expect(result).To(Equal(uint32(0)))
			Expect(carryOut).To(BeFalse())
		})
	})

	Describe("ROR", func() {
		It("rotates right and reports the new top bit as carry", func() {
			result, carryOut := emu.Shift(0x1, insts.ShiftROR, 1, false)
			Expect(result).To(Equal(uint32(0x80000000)))
			Expect(carryOut).To(BeTrue())
		})

		It("leaves the value unchanged at a multiple of 32, with carry set to bit 31", func() {
			result, carryOut := emu.Shift(0x80000000, insts.ShiftROR, 32, false)
			Expect(result).To(Equal(uint32(0x80000000)))
			Expect(carryOut).To(BeTrue())
		})
	})
})
