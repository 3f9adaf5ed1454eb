// Package timing assembles the per-level caches into the two-level
// instruction/data hierarchy the original memory simulator modeled, and
// reports its aggregate cost.
package timing

import (
	"fmt"

	"github.com/armsim/armsim/emu"
	"github.com/armsim/armsim/timing/cache"
)

// AccessClass identifies which path through the hierarchy an address
// travels: instruction fetches and data reads/writes are tracked
// separately because L1-I and L1-D are independent caches.
type AccessClass uint8

// Access classes.
const (
	AccessInstruction AccessClass = iota
	AccessDataRead
	AccessDataWrite
)

// Default L1/L2 sizes and block-size bounds, matching the reference
// simulator's hardcoded topology.
const (
	DefaultL1Size = 1024
	DefaultL2Size = 16384
)

// ValidL1BlockSizes and ValidL2BlockSizes are the block sizes the reference
// simulator accepts for each level; anything else is rejected by
// NewMemSimulator.
var (
	ValidL1BlockSizes = []int{4, 8, 16, 32}
	ValidL2BlockSizes = []int{16, 32, 64}
)

// MemSimulatorConfig configures a MemSimulator's two levels.
type MemSimulatorConfig struct {
	L1BlockSize int
	L1Topology  cache.Topology
	L2BlockSize int
	L2Topology  cache.Topology
}

// DefaultMemSimulatorConfig returns the reference simulator's defaults: a
// 16-byte direct-mapped L1 and a 16-byte direct-mapped L2.
func DefaultMemSimulatorConfig() MemSimulatorConfig {
	return MemSimulatorConfig{
		L1BlockSize: 16,
		L1Topology:  cache.TopologyDirect,
		L2BlockSize: 16,
		L2Topology:  cache.TopologyDirect,
	}
}

// MemSimulator is a two-level cache hierarchy: separate L1 instruction and
// data caches, both backed by a unified L2, both ultimately backed by main
// memory. Cost charges 0.5 per L1 miss, L2 miss, or writeback.
type MemSimulator struct {
	l1I *cache.Cache
	l1D *cache.Cache
	l2  *cache.Cache

	memory *emu.Memory
}

// NewMemSimulator validates config against the reference simulator's block
// size constraints and assembles the three caches: L1-I, L1-D, and a
// unified L2, chained L1 -> L2 -> memory.
func NewMemSimulator(config MemSimulatorConfig, memory *emu.Memory) (*MemSimulator, error) {
	if err := validateBlockSize(config.L1BlockSize, ValidL1BlockSizes); err != nil {
		return nil, err
	}
	if err := validateBlockSize(config.L2BlockSize, ValidL2BlockSizes); err != nil {
		return nil, err
	}

	l1IConfig, err := cache.NewConfig(DefaultL1Size, config.L1BlockSize, config.L1Topology)
	if err != nil {
		return nil, err
	}
	l1DConfig, err := cache.NewConfig(DefaultL1Size, config.L1BlockSize, config.L1Topology)
	if err != nil {
		return nil, err
	}
	l2Config, err := cache.NewConfig(DefaultL2Size, config.L2BlockSize, config.L2Topology)
	if err != nil {
		return nil, err
	}

	backing := cache.NewMemoryBacking(memory)
	l2 := cache.New(l2Config, backing)
	l1Backing := &cacheBackingAdapter{l2}

	return &MemSimulator{
		l1I:    cache.New(l1IConfig, l1Backing),
		l1D:    cache.New(l1DConfig, l1Backing),
		l2:     l2,
		memory: memory,
	}, nil
}

func validateBlockSize(size int, valid []int) error {
	for _, v := range valid {
		if size == v {
			return nil
		}
	}
	return fmt.Errorf("timing: block size %d not in %v", size, valid)
}

// AccessMemory routes address through the appropriate L1 cache for class,
// falling through to L2 on an L1 miss. It returns whether the access hit
// in L1.
func (m *MemSimulator) AccessMemory(address uint32, class AccessClass) bool {
	switch class {
	case AccessInstruction:
		return m.l1I.Read(address, 4).Hit
	case AccessDataWrite:
		return m.l1D.Write(address, 4, 0).Hit
	default:
		return m.l1D.Read(address, 4).Hit
	}
}

// L1IStats, L1DStats, and L2Stats expose each level's counters.
func (m *MemSimulator) L1IStats() cache.Statistics { return m.l1I.Stats() }
func (m *MemSimulator) L1DStats() cache.Statistics { return m.l1D.Stats() }
func (m *MemSimulator) L2Stats() cache.Statistics  { return m.l2.Stats() }

// L2Config exposes the unified L2's resolved configuration, chiefly so
// callers (and tests) can confirm it was built at the reference simulator's
// fixed 16 KiB size.
func (m *MemSimulator) L2Config() cache.Config { return m.l2.Config() }

// Cost computes the reference simulator's cost metric: 0.5 per combined L1
// miss (instruction + data), per L2 miss, and per writeback across all
// three levels.
func (m *MemSimulator) Cost() float64 {
	l1Misses := m.l1I.Stats().Misses + m.l1D.Stats().Misses
	l2Misses := m.l2.Stats().Misses
	writebacks := m.l1I.Stats().Writebacks + m.l1D.Stats().Writebacks + m.l2.Stats().Writebacks
	return 0.5 * float64(l1Misses+l2Misses+writebacks)
}

// cacheBackingAdapter lets one cache.Cache serve as the BackingStore for
// another, chaining L1 -> L2 the way L2 -> memory already works via
// cache.MemoryBacking.
type cacheBackingAdapter struct {
	next *cache.Cache
}

func (a *cacheBackingAdapter) Read(addr uint32, size int) []byte {
	result := a.next.Read(addr, size)
	data := make([]byte, size)
	for i := 0; i < size; i++ {
		data[i] = byte(result.Data >> (i * 8))
	}
	return data
}

func (a *cacheBackingAdapter) Write(addr uint32, data []byte) {
	var value uint32
	for i, b := range data {
		value |= uint32(b) << (i * 8)
	}
	a.next.Write(addr, len(data), value)
}
