package wire

import "github.com/goreliable/packetstream/bitio"

// MaxStringBytes bounds the length prefix written by SerializeString. It is
// a package-wide ceiling, not a per-call option, so both ends of a
// connection agree on it without negotiation.
const MaxStringBytes = 65536

// SerializeBytes byte-aligns the stream and writes data verbatim. The
// caller is responsible for conveying data's length out of band (e.g. via
// a packet header's data_length field); use SerializeString for a
// self-describing length prefix.
func SerializeBytes(w *bitio.Writer, data []byte) error {
	if err := w.WriteAlign(); err != nil {
		return err
	}
	return w.WriteBytes(data)
}

// DeserializeBytes byte-aligns the stream and reads exactly n bytes.
func DeserializeBytes(r *bitio.Reader, n int) ([]byte, error) {
	if err := r.ReadAlign(); err != nil {
		return nil, err
	}
	return r.ReadBytes(n)
}

// SerializeString writes a length-prefixed string: a bounded integer in
// [0, MaxStringBytes-1] followed by the raw bytes.
func SerializeString(w *bitio.Writer, s string) error {
	n := len(s)
	if err := SerializeInteger(w, int32(n), 0, MaxStringBytes-1); err != nil {
		return err
	}
	return SerializeBytes(w, []byte(s))
}

// DeserializeString reads back a value written by SerializeString,
// allocating the returned string's backing bytes fresh.
func DeserializeString(r *bitio.Reader) (string, error) {
	n, err := DeserializeInteger(r, 0, MaxStringBytes-1)
	if err != nil {
		return "", err
	}
	b, err := DeserializeBytes(r, int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
