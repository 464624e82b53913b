package wire

import "github.com/goreliable/packetstream/bitio"

// Quaternion is serialized as four raw floats. A smallest-three compressed
// encoding is an open item (see SPEC_FULL.md §4.B) and is not implemented.
type Quaternion struct{ X, Y, Z, W float32 }

// SerializeQuaternion writes q as four raw IEEE-754 floats.
func SerializeQuaternion(w *bitio.Writer, q Quaternion) error {
	if err := SerializeFloat(w, q.X); err != nil {
		return err
	}
	if err := SerializeFloat(w, q.Y); err != nil {
		return err
	}
	if err := SerializeFloat(w, q.Z); err != nil {
		return err
	}
	return SerializeFloat(w, q.W)
}

// DeserializeQuaternion reads back a value written by SerializeQuaternion.
func DeserializeQuaternion(r *bitio.Reader) (Quaternion, error) {
	x, err := DeserializeFloat(r)
	if err != nil {
		return Quaternion{}, err
	}
	y, err := DeserializeFloat(r)
	if err != nil {
		return Quaternion{}, err
	}
	z, err := DeserializeFloat(r)
	if err != nil {
		return Quaternion{}, err
	}
	w2, err := DeserializeFloat(r)
	if err != nil {
		return Quaternion{}, err
	}
	return Quaternion{X: x, Y: y, Z: z, W: w2}, nil
}
