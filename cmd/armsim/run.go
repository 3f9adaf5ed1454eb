package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/armsim/armsim/emu"
	"github.com/armsim/armsim/insts"
	"github.com/armsim/armsim/loader"
)

func newRunCmd() *cobra.Command {
	var verbose bool
	var maxInstructions uint64

	cmd := &cobra.Command{
		Use:   "run <program>",
		Short: "Execute a flat big-endian ARM32 binary image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading program: %w", err)
			}

			words := loader.DecodeWords(data)

			opts := []emu.EmulatorOption{}
			if maxInstructions > 0 {
				opts = append(opts, emu.WithMaxInstructions(maxInstructions))
			}
			e := emu.NewEmulator(opts...)
			e.LoadProgram(words)

			decoder := insts.NewDecoder()
			programEnd := uint32(len(words)) * 4
			for {
				pc := e.RegFile().PC()
				if verbose && pc < programEnd {
					word := e.Memory().Read32(pc)
					inst := decoder.Decode(word)
					fmt.Fprintf(cmd.OutOrStdout(), "PC=%#04x  word=%#08x  kind=%v\n", pc, word, inst.Kind)
				}

				result := e.Step()
				if verbose {
					printRegisters(cmd, e.RegFile())
				}
				if result.Halted || result.Err != nil {
					if result.Err != nil {
						return result.Err
					}
					break
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\nexecuted %d instructions\n", e.InstructionCount())
			printRegisters(cmd, e.RegFile())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print a per-step trace")
	cmd.Flags().Uint64Var(&maxInstructions, "max-instructions", 0, "stop after this many instructions (0 = no limit)")

	return cmd
}

func printRegisters(cmd *cobra.Command, regs *emu.RegFile) {
	out := cmd.OutOrStdout()
	for i := 0; i < 16; i++ {
		fmt.Fprintf(out, "R%-2d=%#08x  ", i, regs.ReadReg(uint8(i)))
		if i%4 == 3 {
			fmt.Fprintln(out)
		}
	}
	fmt.Fprintf(out, "N=%v Z=%v C=%v V=%v\n", regs.CPSR.N, regs.CPSR.Z, regs.CPSR.C, regs.CPSR.V)
}
