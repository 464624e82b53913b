// Package wire implements the typed serializers layered on bitio: bounded
// integers, floats, range-compressed floats and vectors, bools, byte
// slices, and length-prefixed strings. Every serializer is a thin wrapper
// around bitio.Writer/Reader; only the byte-slice and string deserializers
// allocate, for the values they return.
package wire

import (
	"fmt"

	"github.com/goreliable/packetstream/bitio"
)

// BitsRequired returns ceil(log2(max-min+1)), the number of bits needed to
// represent every integer in [min, max]. min must be strictly less than
// max.
func BitsRequired(min, max int32) int {
	if min >= max {
		return 0
	}
	values := uint64(max) - uint64(min) + 1
	bits := 0
	for (uint64(1) << uint(bits)) < values {
		bits++
	}
	return bits
}

// SerializeInteger writes v, bounded to [min, max], using exactly
// BitsRequired(min, max) bits. Returns ErrRangeViolation if v is out of
// bounds or min >= max.
func SerializeInteger(w *bitio.Writer, v, min, max int32) error {
	if min >= max {
		return fmt.Errorf("%w: min %d >= max %d", ErrRangeViolation, min, max)
	}
	if v < min || v > max {
		return fmt.Errorf("%w: value %d outside [%d, %d]", ErrRangeViolation, v, min, max)
	}
	bits := BitsRequired(min, max)
	return w.WriteBits(uint32(v-min), bits)
}

// DeserializeInteger reads back a value written by SerializeInteger with
// the same min, max.
func DeserializeInteger(r *bitio.Reader, min, max int32) (int32, error) {
	if min >= max {
		return 0, fmt.Errorf("%w: min %d >= max %d", ErrRangeViolation, min, max)
	}
	bits := BitsRequired(min, max)
	raw, err := r.ReadBits(bits)
	if err != nil {
		return 0, err
	}
	return min + int32(raw), nil
}

// SerializeBool writes v as a single bit.
func SerializeBool(w *bitio.Writer, v bool) error {
	var bit uint32
	if v {
		bit = 1
	}
	return w.WriteBits(bit, 1)
}

// DeserializeBool reads a single bit written by SerializeBool.
func DeserializeBool(r *bitio.Reader) (bool, error) {
	bit, err := r.ReadBits(1)
	if err != nil {
		return false, err
	}
	return bit != 0, nil
}
