// Package netpacket implements the packet framing, fragmentation, and
// sequence-indexed reassembly layers of the transport: header codec,
// fragment splitter, the reassembly ring buffer, and the send/recv streams
// that drive a Transport.
package netpacket

// QoS selects delivery semantics for an enqueued message. Reliable is
// accepted by SendStream.Enqueue but behaves identically to BestEffort at
// this layer: no retry, no ACK piggybacking (see SPEC_FULL.md §4.G).
type QoS uint8

const (
	BestEffort QoS = iota
	Reliable
)

// qosCount is the number of declared QoS values; the header codec encodes
// qos in BitsRequired(0, qosCount-1) bits.
const qosCount = 2

const (
	// MaxFragmentSize is the maximum payload size of a single fragment.
	MaxFragmentSize = 1024

	// MaxFragmentsPerPacket bounds the number of fragments a single message
	// may be split into.
	MaxFragmentsPerPacket = 256

	// MaxPacketSize is the largest message SplitPayload/Enqueue will accept.
	MaxPacketSize = MaxFragmentsPerPacket * MaxFragmentSize // 262144

	// MaxEntries is the fixed size of the reassembly ring buffer.
	MaxEntries = 256

	// MTU is the transport budget for a single framed datagram.
	MTU = 1200

	// headerOverheadBits is the fixed bit width of a PacketHeader before
	// byte-alignment padding: crc32(32) + qos(1) + packetType(32) +
	// dataLength(32) + sequence(16) + isFragment(1).
	headerOverheadBits = 32 + 1 + 32 + 32 + 16 + 1

	// HeaderOverhead is headerOverheadBits rounded up to whole bytes.
	HeaderOverhead = (headerOverheadBits + 7) / 8

	// fragmentHeaderBits is the fixed bit width of a FragmentHeader before
	// byte-alignment padding: fragmentSize(32) + fragmentID(8) +
	// numFragments(8).
	fragmentHeaderBits = 32 + 8 + 8

	// FragmentHeaderOverhead is fragmentHeaderBits rounded up to whole
	// bytes.
	FragmentHeaderOverhead = (fragmentHeaderBits + 7) / 8

	// DefaultProtocolID salts the CRC when a caller does not override it.
	DefaultProtocolID = 0x504B5354 // "PKST"

	// DefaultMaxOutgoingDatagrams is the send queue's default capacity.
	DefaultMaxOutgoingDatagrams = 8

	// seqHalfRange is the sequence wraparound half-range.
	seqHalfRange = 32768

	// maxSequenceSkew bounds how far a fragment's sequence may lie from the
	// reassembler's current sequence before it is rejected as wildly
	// out-of-range.
	maxSequenceSkew = 1024
)
