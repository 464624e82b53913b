package netpacket

import (
	"fmt"

	"github.com/goreliable/packetstream/bitio"
)

// FragmentHeader prefixes the payload of a packet whose PacketHeader sets
// IsFragment. It is carried inside that packet's payload bytes, not as a
// separate datagram field.
//
// NumFragments ranges over [1,256], one more value than an 8-bit field can
// hold directly; the wire encoding carries NumFragments-1 in 8 bits and
// EncodeFragment/DecodeFragment convert at the boundary.
type FragmentHeader struct {
	FragmentSize uint32
	FragmentID   uint8
	NumFragments uint16
}

// Fragment pairs a FragmentHeader with its data slice, as produced by
// SplitPayload.
type Fragment struct {
	Header FragmentHeader
	Data   []byte
}

// SplitPayload divides payload into fragments of at most MaxFragmentSize
// bytes (all but possibly the last are exactly MaxFragmentSize). Returns
// ErrPacketTooLarge if payload is empty or exceeds MaxPacketSize.
func SplitPayload(payload []byte) ([]Fragment, error) {
	l := len(payload)
	if l == 0 || l > MaxPacketSize {
		return nil, fmt.Errorf("%w: length %d", ErrPacketTooLarge, l)
	}
	numFragments := (l + MaxFragmentSize - 1) / MaxFragmentSize
	if numFragments > MaxFragmentsPerPacket {
		return nil, fmt.Errorf("%w: would require %d fragments", ErrPacketTooLarge, numFragments)
	}

	frags := make([]Fragment, numFragments)
	for i := 0; i < numFragments; i++ {
		start := i * MaxFragmentSize
		end := start + MaxFragmentSize
		if end > l {
			end = l
		}
		frags[i] = Fragment{
			Header: FragmentHeader{
				FragmentSize: uint32(end - start),
				FragmentID:   uint8(i),
				NumFragments: uint16(numFragments),
			},
			Data: payload[start:end],
		}
	}
	return frags, nil
}

// EncodeFragment serializes a fragment header followed by its data, byte
// aligned, as the payload to be handed to EncodeHeader for a
// PacketHeader.IsFragment packet.
func EncodeFragment(f Fragment) ([]byte, error) {
	totalBytes := FragmentHeaderOverhead + len(f.Data)
	buf := make([]uint32, (totalBytes+3)/4)
	w := bitio.NewWriter(buf)

	if err := w.WriteBits(f.Header.FragmentSize, 32); err != nil {
		return nil, err
	}
	if err := w.WriteBits(uint32(f.Header.FragmentID), 8); err != nil {
		return nil, err
	}
	if err := w.WriteBits(uint32(f.Header.NumFragments-1), 8); err != nil {
		return nil, err
	}
	if err := w.WriteAlign(); err != nil {
		return nil, err
	}
	if err := w.WriteBytes(f.Data); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return bitio.WordsToBytes(w.Buffer())[:totalBytes], nil
}

// DecodeFragment parses a fragment header and data slice out of the payload
// bytes of a PacketHeader.IsFragment packet. Validates FragmentSize and
// NumFragments bounds, returning ErrHeaderInvalid on violation.
func DecodeFragment(payload []byte) (Fragment, error) {
	if len(payload) < FragmentHeaderOverhead {
		return Fragment{}, fmt.Errorf("%w: fragment payload shorter than header (%d < %d)", ErrHeaderInvalid, len(payload), FragmentHeaderOverhead)
	}
	words := bitio.BytesToWords(padToWordMultiple(payload))
	r := bitio.NewReader(words)

	size, err := r.ReadBits(32)
	if err != nil {
		return Fragment{}, err
	}
	id, err := r.ReadBits(8)
	if err != nil {
		return Fragment{}, err
	}
	numRaw, err := r.ReadBits(8)
	if err != nil {
		return Fragment{}, err
	}
	num := numRaw + 1 // wire carries NumFragments-1
	if err := r.ReadAlign(); err != nil {
		return Fragment{}, err
	}

	if size < 1 || size > MaxFragmentSize {
		return Fragment{}, fmt.Errorf("%w: fragment size %d out of [1,%d]", ErrHeaderInvalid, size, MaxFragmentSize)
	}
	if id >= uint32(num) {
		return Fragment{}, fmt.Errorf("%w: fragment id %d >= num fragments %d", ErrHeaderInvalid, id, num)
	}
	if uint32(len(payload)-FragmentHeaderOverhead) < size {
		return Fragment{}, fmt.Errorf("%w: fragment payload too short for declared size", ErrHeaderInvalid)
	}

	data := payload[FragmentHeaderOverhead : FragmentHeaderOverhead+int(size)]
	return Fragment{
		Header: FragmentHeader{
			FragmentSize: size,
			FragmentID:   uint8(id),
			NumFragments: uint16(num),
		},
		Data: data,
	}, nil
}
