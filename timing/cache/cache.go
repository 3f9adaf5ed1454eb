// Package cache provides set-associative cache modeling using Akita cache
// components, wired into a configurable two-level hierarchy by the timing
// package.
package cache

import (
	"errors"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// Topology names the replacement-set shape a Config describes.
type Topology string

const (
	// TopologyDirect is a direct-mapped cache: one way per set.
	TopologyDirect Topology = "direct"
	// TopologyAssociative is a fully-associative cache: one set holding
	// every block.
	TopologyAssociative Topology = "associative"
)

// Config holds cache configuration parameters. Size and BlockSize are in
// bytes; Associativity is the number of ways per set. A direct-mapped
// cache has Associativity == 1; a fully-associative cache has
// Associativity == Size/BlockSize (one set).
type Config struct {
	Size          int
	Associativity int
	BlockSize     int
}

// NumSets returns the number of sets this configuration implies.
func (c Config) NumSets() int {
	return c.Size / (c.Associativity * c.BlockSize)
}

// NewConfig builds a Config for the given topology, validating it against
// the same constraints the original reference enforces: size and block
// size must divide evenly, and a fully-associative cache collapses to a
// single set.
func NewConfig(size, blockSize int, topology Topology) (Config, error) {
	if size <= 0 || blockSize <= 0 {
		return Config{}, errors.New("cache: size and block size must be positive")
	}
	if size%blockSize != 0 {
		return Config{}, errors.New("cache: size must be a multiple of block size")
	}

	switch topology {
	case TopologyDirect:
		return Config{Size: size, Associativity: 1, BlockSize: blockSize}, nil
	case TopologyAssociative:
		return Config{Size: size, Associativity: size / blockSize, BlockSize: blockSize}, nil
	default:
		return Config{}, errors.New(`cache: topology must be "direct" or "associative"`)
	}
}

// AccessResult reports the outcome of a single cache access.
type AccessResult struct {
	Hit         bool
	Data        uint32
	Evicted     bool
	EvictedAddr uint32
}

// Cache is a single set-associative cache level, backed by the akita
// cache/v4 directory for tag and LRU-state bookkeeping.
type Cache struct {
	config Config

	directory *akitacache.DirectoryImpl
	dataStore [][]byte

	stats Statistics

	backing BackingStore
}

// Statistics holds cache performance counters.
type Statistics struct {
	Accesses   uint64
	Hits       uint64
	Misses     uint64
	Writebacks uint64
}

// HitRate returns Hits/Accesses, or 0 when there have been no accesses.
func (s Statistics) HitRate() float64 {
	if s.Accesses == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Accesses)
}

// MissRate returns Misses/Accesses, or 0 when there have been no accesses.
func (s Statistics) MissRate() float64 {
	if s.Accesses == 0 {
		return 0
	}
	return float64(s.Misses) / float64(s.Accesses)
}

// BackingStore is the next level in the memory hierarchy (another Cache,
// or main memory).
type BackingStore interface {
	Read(addr uint32, size int) []byte
	Write(addr uint32, data []byte)
}

// New creates a new Cache with the given configuration and backing store.
func New(config Config, backing BackingStore) *Cache {
	numSets := config.NumSets()
	totalBlocks := numSets * config.Associativity

	dataStore := make([][]byte, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]byte, config.BlockSize)
	}

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		dataStore: dataStore,
		backing:   backing,
	}
}

// Config returns the cache's configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns the cache's accumulated statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// ResetStats clears the cache's statistics without touching its contents.
func (c *Cache) ResetStats() {
	c.stats = Statistics{}
}

func (c *Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

func (c *Cache) blockAddr(addr uint32) uint32 {
	return (addr / uint32(c.config.BlockSize)) * uint32(c.config.BlockSize)
}

// Read performs a cache read of a size-byte value at addr.
func (c *Cache) Read(addr uint32, size int) AccessResult {
	c.stats.Accesses++

	blockAddr := c.blockAddr(addr)
	block := c.directory.Lookup(0, uint64(blockAddr))

	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)

		offset := addr - blockAddr
		data := extractData(c.dataStore[c.blockIndex(block)], int(offset), size)
		return AccessResult{Hit: true, Data: data}
	}

	c.stats.Misses++
	return c.handleMiss(addr, size, false, 0)
}

// Write performs a write-allocate cache write of a size-byte value at addr.
func (c *Cache) Write(addr uint32, size int, data uint32) AccessResult {
	c.stats.Accesses++

	blockAddr := c.blockAddr(addr)
	block := c.directory.Lookup(0, uint64(blockAddr))

	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)

		offset := addr - blockAddr
		storeData(c.dataStore[c.blockIndex(block)], int(offset), size, data)
		block.IsDirty = true
		return AccessResult{Hit: true}
	}

	c.stats.Misses++
	return c.handleMiss(addr, size, true, data)
}

func (c *Cache) handleMiss(addr uint32, size int, isWrite bool, writeData uint32) AccessResult {
	result := AccessResult{Hit: false}

	blockAddr := c.blockAddr(addr)
	victim := c.directory.FindVictim(uint64(blockAddr))
	if victim == nil {
		return result
	}

	victimData := c.dataStore[c.blockIndex(victim)]

	if victim.IsValid {
		result.Evicted = true
		result.EvictedAddr = uint32(victim.Tag)

		if victim.IsDirty && c.backing != nil {
			c.stats.Writebacks++
			c.backing.Write(uint32(victim.Tag), victimData)
		}
	}

	if c.backing != nil {
		copy(victimData, c.backing.Read(blockAddr, c.config.BlockSize))
	} else {
		for i := range victimData {
			victimData[i] = 0
		}
	}

	victim.Tag = uint64(blockAddr)
	victim.IsValid = true
	victim.IsDirty = false

	offset := int(addr - blockAddr)
	if isWrite {
		storeData(victimData, offset, size, writeData)
		victim.IsDirty = true
	} else {
		result.Data = extractData(victimData, offset, size)
	}

	c.directory.Visit(victim)
	return result
}

// Invalidate drops a block from the cache without writeback.
func (c *Cache) Invalidate(addr uint32) {
	blockAddr := c.blockAddr(addr)
	block := c.directory.Lookup(0, uint64(blockAddr))
	if block != nil && block.IsValid {
		block.IsValid = false
		block.IsDirty = false
	}
}

// Flush writes back every dirty block and invalidates the cache.
func (c *Cache) Flush() {
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid && block.IsDirty && c.backing != nil {
				c.backing.Write(uint32(block.Tag), c.dataStore[c.blockIndex(block)])
				c.stats.Writebacks++
			}
			block.IsValid = false
			block.IsDirty = false
		}
	}
}

// Reset invalidates the cache and clears its statistics without writeback.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.stats = Statistics{}
}

func extractData(data []byte, offset, size int) uint32 {
	if data == nil || offset+size > len(data) {
		return 0
	}
	var result uint32
	for i := 0; i < size; i++ {
		result |= uint32(data[offset+i]) << (i * 8)
	}
	return result
}

func storeData(data []byte, offset, size int, value uint32) {
	if data == nil || offset+size > len(data) {
		return
	}
	for i := 0; i < size; i++ {
		data[offset+i] = byte(value >> (i * 8))
	}
}
