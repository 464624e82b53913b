// Package bitio provides the lowest layer of the packet pipeline: a bit-level
// writer and reader over a caller-owned 32-bit word buffer.
//
// Writer and Reader never allocate or grow their backing buffer; the caller
// supplies a []uint32 view and bounds all writes/reads to its capacity. This
// mirrors the rest of the pipeline's arena discipline — every transient
// allocation is scoped by the caller, not retained inside bitio.
//
// Bits are packed least-significant-bit first into a 64-bit scratch register
// and committed to the word buffer 32 bits at a time. Words are logically
// little-endian: WordsToBytes/BytesToWords fix that contract at the point
// words cross into or out of a []byte representation (e.g. a UDP datagram),
// independent of host byte order.
package bitio

import "encoding/binary"

// WordsToBytes converts a word buffer to its little-endian wire
// representation. The returned slice is always len(words)*4 bytes.
func WordsToBytes(words []uint32) []byte {
	out := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[i*4:i*4+4], w)
	}
	return out
}

// BytesToWords converts a little-endian byte slice into a word buffer. b's
// length must be a multiple of 4; any trailing partial word is ignored.
func BytesToWords(b []byte) []uint32 {
	n := len(b) / 4
	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		out[i] = binary.LittleEndian.Uint32(b[i*4 : i*4+4])
	}
	return out
}
