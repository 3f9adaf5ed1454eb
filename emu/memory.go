package emu

// MemorySize is the fixed size, in bytes, of the simulated address space.
const MemorySize = 1024

// Memory is a flat, little-endian-addressed byte array backing both the
// functional load/store unit and the cache hierarchy's backing store.
type Memory struct {
	bytes [MemorySize]byte
}

// NewMemory returns a zeroed Memory.
func NewMemory() *Memory {
	return &Memory{}
}

// InRange reports whether a 4-byte access starting at address stays within
// bounds. Matches the original reference bounds check (0 <= address <
// len(memory) - 3), so a starting address of len-4 is the last valid word.
func (m *Memory) InRange(address uint32) bool {
	return address < MemorySize-3
}

// Read8 reads a single byte. Out-of-range addresses return 0.
func (m *Memory) Read8(address uint32) byte {
	if address >= MemorySize {
		return 0
	}
	return m.bytes[address]
}

// Write8 writes a single byte. Out-of-range addresses are silently ignored.
func (m *Memory) Write8(address uint32, value byte) {
	if address >= MemorySize {
		return
	}
	m.bytes[address] = value
}

// Read32 reads a little-endian 32-bit word at address. Out-of-range reads
// (address outside InRange) return 0 without error, matching the decoded
// executor's silent-no-op treatment of bad addresses.
func (m *Memory) Read32(address uint32) uint32 {
	if !m.InRange(address) {
		return 0
	}
	return uint32(m.bytes[address]) |
		uint32(m.bytes[address+1])<<8 |
		uint32(m.bytes[address+2])<<16 |
		uint32(m.bytes[address+3])<<24
}

// Write32 writes value as a little-endian 32-bit word at address.
// Out-of-range writes (address outside InRange) are silently ignored.
func (m *Memory) Write32(address uint32, value uint32) {
	if !m.InRange(address) {
		return
	}
	m.bytes[address] = byte(value)
	m.bytes[address+1] = byte(value >> 8)
	m.bytes[address+2] = byte(value >> 16)
	m.bytes[address+3] = byte(value >> 24)
}

// LoadWords copies a stream of already-decoded 32-bit words into memory
// starting at address 0, one word per 4 bytes, little-endian. Used to seed
// memory with a program image ahead of execution.
func (m *Memory) LoadWords(words []uint32) {
	for i, w := range words {
		m.Write32(uint32(i*4), w)
	}
}
