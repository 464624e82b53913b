package wire

import "github.com/goreliable/packetstream/bitio"

// Vector2 is a componentwise-compressed 2D vector.
type Vector2 struct{ X, Y float32 }

// Vector3 is a componentwise-compressed 3D vector.
type Vector3 struct{ X, Y, Z float32 }

// SerializeCompressedVector2 writes v's components, each compressed with
// the shared (min, max, resolution) triple.
func SerializeCompressedVector2(w *bitio.Writer, v Vector2, min, max, resolution float32) error {
	if err := SerializeCompressedFloat(w, v.X, min, max, resolution); err != nil {
		return err
	}
	return SerializeCompressedFloat(w, v.Y, min, max, resolution)
}

// DeserializeCompressedVector2 reads back a value written by
// SerializeCompressedVector2.
func DeserializeCompressedVector2(r *bitio.Reader, min, max, resolution float32) (Vector2, error) {
	x, err := DeserializeCompressedFloat(r, min, max, resolution)
	if err != nil {
		return Vector2{}, err
	}
	y, err := DeserializeCompressedFloat(r, min, max, resolution)
	if err != nil {
		return Vector2{}, err
	}
	return Vector2{X: x, Y: y}, nil
}

// SerializeCompressedVector3 writes v's components, each compressed with
// the shared (min, max, resolution) triple.
func SerializeCompressedVector3(w *bitio.Writer, v Vector3, min, max, resolution float32) error {
	if err := SerializeCompressedFloat(w, v.X, min, max, resolution); err != nil {
		return err
	}
	if err := SerializeCompressedFloat(w, v.Y, min, max, resolution); err != nil {
		return err
	}
	return SerializeCompressedFloat(w, v.Z, min, max, resolution)
}

// DeserializeCompressedVector3 reads back a value written by
// SerializeCompressedVector3.
func DeserializeCompressedVector3(r *bitio.Reader, min, max, resolution float32) (Vector3, error) {
	x, err := DeserializeCompressedFloat(r, min, max, resolution)
	if err != nil {
		return Vector3{}, err
	}
	y, err := DeserializeCompressedFloat(r, min, max, resolution)
	if err != nil {
		return Vector3{}, err
	}
	z, err := DeserializeCompressedFloat(r, min, max, resolution)
	if err != nil {
		return Vector3{}, err
	}
	return Vector3{X: x, Y: y, Z: z}, nil
}
