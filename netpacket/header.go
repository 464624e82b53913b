package netpacket

import (
	"fmt"

	"github.com/goreliable/packetstream/bitio"
	"github.com/goreliable/packetstream/seqnum"
	"github.com/goreliable/packetstream/wire"
)

// PacketHeader is the fixed framing header prefixing every datagram, whole
// packet or fragment alike.
type PacketHeader struct {
	CRC32      uint32
	QoS        QoS
	PacketType uint32
	DataLength uint32
	Sequence   uint16
	IsFragment bool
}

// qosBits is the bit width of the qos field: BitsRequired(0, qosCount-1).
var qosBits = wire.BitsRequired(0, qosCount-1)

// EncodeHeader frames payload with hdr and returns the complete datagram
// bytes (header, byte-aligned, followed immediately by payload). hdr.CRC32
// is ignored on input and recomputed over protocolID and the
// crc-zeroed header concatenated with payload.
func EncodeHeader(hdr PacketHeader, payload []byte, protocolID uint32) ([]byte, error) {
	totalBytes := HeaderOverhead + len(payload)
	buf := make([]uint32, (totalBytes+3)/4)
	w := bitio.NewWriter(buf)

	if err := w.WriteBits(0, 32); err != nil { // crc32 placeholder
		return nil, err
	}
	if err := wire.SerializeInteger(w, int32(hdr.QoS), 0, int32(qosCount-1)); err != nil {
		return nil, err
	}
	if err := w.WriteBits(hdr.PacketType, 32); err != nil {
		return nil, err
	}
	if err := w.WriteBits(hdr.DataLength, 32); err != nil {
		return nil, err
	}
	if err := w.WriteBits(uint32(hdr.Sequence), 16); err != nil {
		return nil, err
	}
	if err := wire.SerializeBool(w, hdr.IsFragment); err != nil {
		return nil, err
	}
	if err := w.WriteAlign(); err != nil {
		return nil, err
	}
	if err := w.WriteBytes(payload); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}

	out := bitio.WordsToBytes(w.Buffer())[:totalBytes]
	crc := seqnum.ComputeCRC32(protocolID, out)
	out[0] = byte(crc)
	out[1] = byte(crc >> 8)
	out[2] = byte(crc >> 16)
	out[3] = byte(crc >> 24)
	return out, nil
}

// DecodeHeader parses datagram, verifies its CRC-32 against protocolID, and
// returns the header plus a slice of the payload bytes that follow it (no
// copy). Returns ErrHeaderInvalid if dataLength would exceed the datagram's
// MTU budget, and ErrCrcMismatch on a CRC failure.
func DecodeHeader(datagram []byte, protocolID uint32) (PacketHeader, []byte, error) {
	if len(datagram) < HeaderOverhead {
		return PacketHeader{}, nil, fmt.Errorf("%w: datagram shorter than header (%d < %d)", ErrHeaderInvalid, len(datagram), HeaderOverhead)
	}

	storedCRC := uint32(datagram[0]) | uint32(datagram[1])<<8 | uint32(datagram[2])<<16 | uint32(datagram[3])<<24

	zeroed := make([]byte, len(datagram))
	copy(zeroed, datagram)
	zeroed[0], zeroed[1], zeroed[2], zeroed[3] = 0, 0, 0, 0

	words := bitio.BytesToWords(padToWordMultiple(zeroed))
	r := bitio.NewReader(words)

	if _, err := r.ReadBits(32); err != nil { // crc32 field, taken from datagram above
		return PacketHeader{}, nil, err
	}

	qosRaw, err := wire.DeserializeInteger(r, 0, int32(qosCount-1))
	if err != nil {
		return PacketHeader{}, nil, err
	}
	packetType, err := r.ReadBits(32)
	if err != nil {
		return PacketHeader{}, nil, err
	}
	dataLength, err := r.ReadBits(32)
	if err != nil {
		return PacketHeader{}, nil, err
	}
	sequence, err := r.ReadBits(16)
	if err != nil {
		return PacketHeader{}, nil, err
	}
	isFragment, err := wire.DeserializeBool(r)
	if err != nil {
		return PacketHeader{}, nil, err
	}
	if err := r.ReadAlign(); err != nil {
		return PacketHeader{}, nil, err
	}

	if dataLength > uint32(MTU-HeaderOverhead) {
		return PacketHeader{}, nil, fmt.Errorf("%w: data length %d exceeds MTU budget", ErrHeaderInvalid, dataLength)
	}
	if uint32(len(datagram)-HeaderOverhead) < dataLength {
		return PacketHeader{}, nil, fmt.Errorf("%w: datagram too short for declared data length", ErrHeaderInvalid)
	}

	if !seqnum.VerifyCRC32(protocolID, zeroed, uint32(storedCRC)) {
		return PacketHeader{}, nil, ErrCrcMismatch
	}

	hdr := PacketHeader{
		CRC32:      uint32(storedCRC),
		QoS:        QoS(qosRaw),
		PacketType: packetType,
		DataLength: dataLength,
		Sequence:   uint16(sequence),
		IsFragment: isFragment,
	}
	payload := datagram[HeaderOverhead : HeaderOverhead+int(dataLength)]
	return hdr, payload, nil
}

// padToWordMultiple returns b, zero-padded at the end so its length is a
// multiple of 4. bitio.BytesToWords requires whole words.
func padToWordMultiple(b []byte) []byte {
	if len(b)%4 == 0 {
		return b
	}
	out := make([]byte, (len(b)+3)/4*4)
	copy(out, b)
	return out
}
