// Package seqnum implements modular 16-bit sequence arithmetic and the
// CRC-32 helper used by the packet header codec.
package seqnum

import (
	"encoding/binary"
	"hash/crc32"
)

// SeqGreaterThan reports whether sequence a is ahead of b under the
// standard half-range wraparound rule. The boundary at exactly 32768 is
// broken asymmetrically so that SeqGreaterThan(a,b) and SeqGreaterThan(b,a)
// are never both true.
func SeqGreaterThan(a, b uint16) bool {
	return (a > b && a-b <= 32768) || (a < b && b-a > 32768)
}

// SeqLessThan reports whether sequence a is behind b.
func SeqLessThan(a, b uint16) bool {
	return SeqGreaterThan(b, a)
}

// SeqDiff returns the signed distance from b to a, reduced modulo 65536
// into (-32768, 32768].
func SeqDiff(a, b uint16) int32 {
	diff := int32(a) - int32(b)
	switch {
	case diff > 32768:
		diff -= 65536
	case diff <= -32768:
		diff += 65536
	}
	return diff
}

// ComputeCRC32 computes the IEEE CRC-32 over protocolID (little-endian)
// concatenated with headerAndPayload. Callers must zero the header's own
// crc32 field in headerAndPayload before calling this, since the field
// cannot cover itself.
func ComputeCRC32(protocolID uint32, headerAndPayload []byte) uint32 {
	var salt [4]byte
	binary.LittleEndian.PutUint32(salt[:], protocolID)
	c := crc32.NewIEEE()
	c.Write(salt[:])
	c.Write(headerAndPayload)
	return c.Sum32()
}

// VerifyCRC32 recomputes the CRC over headerAndPayload (with its crc32
// field already zeroed by the caller) and compares it against want.
func VerifyCRC32(protocolID uint32, headerAndPayload []byte, want uint32) bool {
	return ComputeCRC32(protocolID, headerAndPayload) == want
}
