package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/armsim/armsim/emu"
	"github.com/armsim/armsim/timing"
	"github.com/armsim/armsim/timing/cache"
)

// topologyConfig is the TOML-facing shape of timing.MemSimulatorConfig;
// cache.Topology is a string type but we keep a distinct struct here so
// the file format can stay flat ([l1]/[l2] tables) independent of how the
// hierarchy happens to be modeled internally.
type topologyConfig struct {
	L1 struct {
		BlockSize int    `toml:"block_size"`
		Topology  string `toml:"topology"`
	} `toml:"l1"`
	L2 struct {
		BlockSize int    `toml:"block_size"`
		Topology  string `toml:"topology"`
	} `toml:"l2"`
}

func loadMemSimulatorConfig(path string) (timing.MemSimulatorConfig, error) {
	if path == "" {
		return timing.DefaultMemSimulatorConfig(), nil
	}

	var tc topologyConfig
	if _, err := toml.DecodeFile(path, &tc); err != nil {
		return timing.MemSimulatorConfig{}, fmt.Errorf("reading cache config: %w", err)
	}

	return timing.MemSimulatorConfig{
		L1BlockSize: tc.L1.BlockSize,
		L1Topology:  cache.Topology(tc.L1.Topology),
		L2BlockSize: tc.L2.BlockSize,
		L2Topology:  cache.Topology(tc.L2.Topology),
	}, nil
}

func newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache <trace.csv>",
		Short: "Replay an address trace through the two-level cache hierarchy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadMemSimulatorConfig(configPath)
			if err != nil {
				return err
			}

			memory := emu.NewMemory()
			sim, err := timing.NewMemSimulator(config, memory)
			if err != nil {
				return fmt.Errorf("building cache hierarchy: %w", err)
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening trace: %w", err)
			}
			defer f.Close()

			if err := replayTrace(f, sim); err != nil {
				return err
			}

			printCacheStats(cmd, sim)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML cache topology config")
	return cmd
}

// replayTrace reads one "address,class" entry per line, where class is one
// of "instruction", "read", or "write", and feeds each through sim.
func replayTrace(f *os.File, sim *timing.MemSimulator) error {
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) != 2 {
			return fmt.Errorf("trace line %d: expected \"address,class\", got %q", lineNum, line)
		}

		address, err := strconv.ParseUint(strings.TrimSpace(fields[0]), 0, 32)
		if err != nil {
			return fmt.Errorf("trace line %d: bad address: %w", lineNum, err)
		}

		class, err := parseAccessClass(strings.TrimSpace(fields[1]))
		if err != nil {
			return fmt.Errorf("trace line %d: %w", lineNum, err)
		}

		sim.AccessMemory(uint32(address), class)
	}
	return scanner.Err()
}

func parseAccessClass(s string) (timing.AccessClass, error) {
	switch s {
	case "instruction":
		return timing.AccessInstruction, nil
	case "read":
		return timing.AccessDataRead, nil
	case "write":
		return timing.AccessDataWrite, nil
	default:
		return 0, fmt.Errorf("unknown access class %q", s)
	}
}

func printCacheStats(cmd *cobra.Command, sim *timing.MemSimulator) {
	out := cmd.OutOrStdout()
	printLevel := func(name string, stats cache.Statistics) {
		fmt.Fprintf(out, "%-6s accesses=%-6d hits=%-6d misses=%-6d writebacks=%-6d hit_rate=%.2f%%\n",
			name, stats.Accesses, stats.Hits, stats.Misses, stats.Writebacks, stats.HitRate()*100)
	}
	printLevel("L1-I", sim.L1IStats())
	printLevel("L1-D", sim.L1DStats())
	printLevel("L2", sim.L2Stats())
	fmt.Fprintf(out, "cost=%.2f\n", sim.Cost())
}
