package wire

import (
	"fmt"
	"math"

	"github.com/goreliable/packetstream/bitio"
)

// SerializeFloat writes v as its raw IEEE-754 bit pattern (32 bits).
func SerializeFloat(w *bitio.Writer, v float32) error {
	return w.WriteBits(math.Float32bits(v), 32)
}

// DeserializeFloat reads back a value written by SerializeFloat.
func DeserializeFloat(r *bitio.Reader) (float32, error) {
	bits, err := r.ReadBits(32)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// compressedFloatBits returns the bit width used by SerializeCompressedFloat
// for the given range and resolution, and the corresponding max-step count M.
func compressedFloatBits(min, max, resolution float32) (bits int, m int32) {
	values := float64((max - min) / resolution)
	mf := math.Ceil(values)
	m = int32(mf)
	bits = BitsRequired(0, m)
	return bits, m
}

// SerializeCompressedFloat writes v, quantized into BitsRequired(0, M) bits
// where M = ceil((max-min)/resolution). Decode recovers v within
// ±resolution. min must be < max and resolution must be positive.
func SerializeCompressedFloat(w *bitio.Writer, v, min, max, resolution float32) error {
	if min >= max || resolution <= 0 {
		return fmt.Errorf("%w: invalid range [%v,%v] resolution %v", ErrRangeViolation, min, max, resolution)
	}
	bits, m := compressedFloatBits(min, max, resolution)
	normalized := (v - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}
	i := int32(normalized*float32(m) + 0.5)
	return w.WriteBits(uint32(i), bits)
}

// DeserializeCompressedFloat reads back a value written by
// SerializeCompressedFloat with the same min, max, resolution.
func DeserializeCompressedFloat(r *bitio.Reader, min, max, resolution float32) (float32, error) {
	if min >= max || resolution <= 0 {
		return 0, fmt.Errorf("%w: invalid range [%v,%v] resolution %v", ErrRangeViolation, min, max, resolution)
	}
	bits, m := compressedFloatBits(min, max, resolution)
	raw, err := r.ReadBits(bits)
	if err != nil {
		return 0, err
	}
	return (float32(raw)/float32(m))*(max-min) + min, nil
}
