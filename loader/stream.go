// Package loader reads a program image into the decoded word stream the
// emulator executes.
package loader

import "encoding/binary"

// DecodeWords splits a raw binary image into big-endian 32-bit words, one
// per 4 bytes, in order. A trailing run of fewer than 4 bytes is dropped
// silently rather than zero-padded, matching the reference loader's
// "if len(word_bytes) == 4" behavior.
func DecodeWords(data []byte) []uint32 {
	count := len(data) / 4
	words := make([]uint32, 0, count)
	for i := 0; i < count; i++ {
		words = append(words, binary.BigEndian.Uint32(data[i*4:i*4+4]))
	}
	return words
}
