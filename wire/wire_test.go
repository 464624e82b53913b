package wire

import (
	"errors"
	"math"
	"testing"

	"github.com/goreliable/packetstream/bitio"
)

func TestBitsRequired(t *testing.T) {
	tests := []struct {
		min, max int32
		want     int
	}{
		{0, 1, 1},
		{0, 1000, 10}, // ceil(log2(1001)) = 10, matches S5 in SPEC_FULL.md §8
		{-5, 5, 4},
		{0, 255, 8},
		{0, 256, 9},
	}
	for _, tc := range tests {
		if got := BitsRequired(tc.min, tc.max); got != tc.want {
			t.Errorf("BitsRequired(%d,%d) = %d, want %d", tc.min, tc.max, got, tc.want)
		}
	}
}

func TestSerializeIntegerRoundTrip(t *testing.T) {
	min, max := int32(-100), int32(1000)
	bits := BitsRequired(min, max)
	for _, v := range []int32{-100, -1, 0, 1, 500, 999, 1000} {
		buf := make([]uint32, 4)
		w := bitio.NewWriter(buf)
		if err := SerializeInteger(w, v, min, max); err != nil {
			t.Fatalf("v=%d: SerializeInteger() error = %v", v, err)
		}
		if got := w.BitsWritten(); got != bits {
			t.Errorf("v=%d: BitsWritten() = %d, want %d", v, got, bits)
		}
		if err := w.Flush(); err != nil {
			t.Fatalf("Flush() error = %v", err)
		}

		r := bitio.NewReader(buf)
		got, err := DeserializeInteger(r, min, max)
		if err != nil {
			t.Fatalf("v=%d: DeserializeInteger() error = %v", v, err)
		}
		if got != v {
			t.Errorf("v=%d: DeserializeInteger() = %d, want %d", v, got, v)
		}
	}
}

func TestSerializeIntegerRangeViolation(t *testing.T) {
	w := bitio.NewWriter(make([]uint32, 2))
	if err := SerializeInteger(w, 50, 0, 10); !errors.Is(err, ErrRangeViolation) {
		t.Fatalf("SerializeInteger() error = %v, want ErrRangeViolation", err)
	}
}

func TestSerializeBoolRoundTrip(t *testing.T) {
	for _, v := range []bool{true, false} {
		buf := make([]uint32, 1)
		w := bitio.NewWriter(buf)
		if err := SerializeBool(w, v); err != nil {
			t.Fatalf("SerializeBool() error = %v", err)
		}
		if err := w.Flush(); err != nil {
			t.Fatalf("Flush() error = %v", err)
		}
		r := bitio.NewReader(buf)
		got, err := DeserializeBool(r)
		if err != nil {
			t.Fatalf("DeserializeBool() error = %v", err)
		}
		if got != v {
			t.Errorf("DeserializeBool() = %v, want %v", got, v)
		}
	}
}

func TestSerializeFloatRoundTrip(t *testing.T) {
	values := []float32{0, 1, -1, 3.14159, float32(math.Pi), -1234.5678}
	buf := make([]uint32, len(values))
	w := bitio.NewWriter(buf)
	for _, v := range values {
		if err := SerializeFloat(w, v); err != nil {
			t.Fatalf("SerializeFloat() error = %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	r := bitio.NewReader(buf)
	for _, v := range values {
		got, err := DeserializeFloat(r)
		if err != nil {
			t.Fatalf("DeserializeFloat() error = %v", err)
		}
		if got != v {
			t.Errorf("DeserializeFloat() = %v, want %v", got, v)
		}
	}
}

func TestSerializeCompressedFloatTolerance(t *testing.T) {
	const min, max, resolution = float32(0), float32(10), float32(0.01)
	for _, v := range []float32{0, 3.14159, 5, 9.999, 10} {
		buf := make([]uint32, 2)
		w := bitio.NewWriter(buf)
		if err := SerializeCompressedFloat(w, v, min, max, resolution); err != nil {
			t.Fatalf("v=%v: SerializeCompressedFloat() error = %v", v, err)
		}
		wantBits, _ := compressedFloatBits(min, max, resolution)
		if got := w.BitsWritten(); got != wantBits {
			t.Errorf("v=%v: BitsWritten() = %d, want %d", v, got, wantBits)
		}
		if err := w.Flush(); err != nil {
			t.Fatalf("Flush() error = %v", err)
		}

		r := bitio.NewReader(buf)
		got, err := DeserializeCompressedFloat(r, min, max, resolution)
		if err != nil {
			t.Fatalf("v=%v: DeserializeCompressedFloat() error = %v", v, err)
		}
		diff := got - v
		if diff < 0 {
			diff = -diff
		}
		if diff > resolution {
			t.Errorf("v=%v: decoded %v, diff %v exceeds resolution %v", v, got, diff, resolution)
		}
	}
}

func TestCompressedFloatBitWidthS5(t *testing.T) {
	// S5 in SPEC_FULL.md §8: min=0, max=10, resolution=0.01 -> 10 bits.
	bits, m := compressedFloatBits(0, 10, 0.01)
	if bits != 10 {
		t.Errorf("bits = %d, want 10", bits)
	}
	if m != 1000 {
		t.Errorf("m = %d, want 1000", m)
	}
}

func TestCompressedVectorRoundTrip(t *testing.T) {
	const min, max, resolution = float32(-100), float32(100), float32(0.05)
	v3 := Vector3{X: 1.5, Y: -42.25, Z: 99.9}
	buf := make([]uint32, 4)
	w := bitio.NewWriter(buf)
	if err := SerializeCompressedVector3(w, v3, min, max, resolution); err != nil {
		t.Fatalf("SerializeCompressedVector3() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	r := bitio.NewReader(buf)
	got, err := DeserializeCompressedVector3(r, min, max, resolution)
	if err != nil {
		t.Fatalf("DeserializeCompressedVector3() error = %v", err)
	}
	for _, pair := range [][2]float32{{got.X, v3.X}, {got.Y, v3.Y}, {got.Z, v3.Z}} {
		diff := pair[0] - pair[1]
		if diff < 0 {
			diff = -diff
		}
		if diff > resolution {
			t.Errorf("component = %v, want within %v of %v", pair[0], resolution, pair[1])
		}
	}
}

func TestQuaternionRoundTrip(t *testing.T) {
	q := Quaternion{X: 0.1, Y: 0.2, Z: 0.3, W: 0.92736}
	buf := make([]uint32, 4)
	w := bitio.NewWriter(buf)
	if err := SerializeQuaternion(w, q); err != nil {
		t.Fatalf("SerializeQuaternion() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	r := bitio.NewReader(buf)
	got, err := DeserializeQuaternion(r)
	if err != nil {
		t.Fatalf("DeserializeQuaternion() error = %v", err)
	}
	if got != q {
		t.Errorf("DeserializeQuaternion() = %+v, want %+v", got, q)
	}
}

func TestSerializeStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "Hello World", "SA-MP Freeroam"} {
		buf := make([]uint32, 16)
		w := bitio.NewWriter(buf)
		if err := SerializeString(w, s); err != nil {
			t.Fatalf("s=%q: SerializeString() error = %v", s, err)
		}
		if err := w.Flush(); err != nil {
			t.Fatalf("Flush() error = %v", err)
		}
		r := bitio.NewReader(buf)
		got, err := DeserializeString(r)
		if err != nil {
			t.Fatalf("s=%q: DeserializeString() error = %v", s, err)
		}
		if got != s {
			t.Errorf("DeserializeString() = %q, want %q", got, s)
		}
	}
}

func TestSerializeBytesRoundTrip(t *testing.T) {
	data := []byte("arbitrary payload bytes \x00\x01\xff")
	buf := make([]uint32, 8)
	w := bitio.NewWriter(buf)
	if err := w.WriteBits(0x1, 1); err != nil { // unaligned prefix
		t.Fatalf("WriteBits() error = %v", err)
	}
	if err := SerializeBytes(w, data); err != nil {
		t.Fatalf("SerializeBytes() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	r := bitio.NewReader(buf)
	if _, err := r.ReadBits(1); err != nil {
		t.Fatalf("ReadBits() error = %v", err)
	}
	got, err := DeserializeBytes(r, len(data))
	if err != nil {
		t.Fatalf("DeserializeBytes() error = %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("DeserializeBytes() = %v, want %v", got, data)
	}
}
