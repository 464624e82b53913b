package netpacket

import "errors"

// Sentinel errors returned across the packet framing, fragmentation, and
// reassembly surfaces. Wire-originated errors are recovered locally by the
// caller (the offending datagram is discarded); ErrPacketTooLarge and
// ErrQueueFull are returned to the send-side caller instead.
var (
	// ErrHeaderInvalid marks a packet or fragment header field out of its
	// valid range: data length vs MTU, fragment size, fragment id, or
	// fragment count.
	ErrHeaderInvalid = errors.New("netpacket: header invalid")

	// ErrCrcMismatch marks a packet whose recomputed CRC-32 does not match
	// the header's crc32 field.
	ErrCrcMismatch = errors.New("netpacket: crc mismatch")

	// ErrSlotCollisionOlder marks a reassembly slot occupied by a sequence
	// newer than the one being inserted.
	ErrSlotCollisionOlder = errors.New("netpacket: slot collision with newer sequence")

	// ErrDuplicateFragment marks a (sequence, fragment id) pair already
	// recorded in its slot.
	ErrDuplicateFragment = errors.New("netpacket: duplicate fragment")

	// ErrPacketTooLarge marks a message exceeding MaxPacketSize.
	ErrPacketTooLarge = errors.New("netpacket: packet too large")

	// ErrQueueFull marks a send queue at MaxOutgoingDatagrams capacity.
	ErrQueueFull = errors.New("netpacket: send queue full")

	// ErrTransport wraps an error returned by the underlying Transport.
	ErrTransport = errors.New("netpacket: transport error")
)
