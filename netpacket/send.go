package netpacket

import (
	"fmt"
	"sync"

	"github.com/goreliable/packetstream/netlog"
)

// SendStream accepts application messages, fragments and frames them, and
// drains the framed datagrams to a Transport. It is owned by exactly one
// caller; no internal goroutines or locks.
type SendStream struct {
	cfg      Config
	queue    *sendQueue
	sequence uint16
	scratch  sync.Pool
}

// NewSendStream returns a SendStream configured by cfg (zero fields take
// their documented defaults via Config.WithDefaults).
func NewSendStream(cfg Config) *SendStream {
	cfg = cfg.WithDefaults()
	return &SendStream{
		cfg:   cfg,
		queue: newSendQueue(cfg.MaxOutgoingDatagrams),
		scratch: sync.Pool{
			New: func() any { return make([]byte, 0, MTU) },
		},
	}
}

// Enqueue frames message under qos and packetType, splitting it into
// fragments if it exceeds a single datagram's payload budget, and appends
// each framed datagram to the send queue. It never blocks. Returns
// ErrPacketTooLarge if message exceeds MaxPacketSize, or ErrQueueFull if the
// queue is already at capacity (the caller should Drain and retry).
func (s *SendStream) Enqueue(qos QoS, packetType uint32, message []byte) error {
	if len(message) > MaxPacketSize {
		return fmt.Errorf("%w: length %d", ErrPacketTooLarge, len(message))
	}

	seq := s.sequence
	s.sequence++ // wraps at 65536, per SPEC_FULL.md §8 S6

	singleBudget := MTU - HeaderOverhead
	if len(message) <= singleBudget {
		datagram, err := EncodeHeader(PacketHeader{
			QoS:        qos,
			PacketType: packetType,
			DataLength: uint32(len(message)),
			Sequence:   seq,
			IsFragment: false,
		}, message, s.cfg.ProtocolID)
		if err != nil {
			return err
		}
		return s.queue.push(datagram)
	}

	frags, err := SplitPayload(message)
	if err != nil {
		return err
	}
	framed := make([][]byte, 0, len(frags))
	for _, f := range frags {
		fragPayload, err := EncodeFragment(f)
		if err != nil {
			return err
		}
		datagram, err := EncodeHeader(PacketHeader{
			QoS:        qos,
			PacketType: packetType,
			DataLength: uint32(len(fragPayload)),
			Sequence:   seq,
			IsFragment: true,
		}, fragPayload, s.cfg.ProtocolID)
		if err != nil {
			return err
		}
		framed = append(framed, datagram)
	}
	for _, datagram := range framed {
		if err := s.queue.push(datagram); err != nil {
			return err
		}
	}
	return nil
}

// Drain pops every queued datagram and hands it to t.Send for peer. A
// transport failure on one datagram drops that datagram (best-effort QoS;
// reliable retry is unimplemented, see SPEC_FULL.md §4.G) and continues
// draining the rest; the first such failure, wrapped in ErrTransport, is
// returned once draining completes.
func (s *SendStream) Drain(t Transport, peer Endpoint) (sent int, err error) {
	arena := s.scratch.Get().([]byte)
	defer func() {
		s.scratch.Put(arena[:0])
	}()

	var firstErr error
	for {
		datagram, ok := s.queue.pop()
		if !ok {
			break
		}
		if cap(arena) < len(datagram) {
			arena = make([]byte, len(datagram))
		}
		arena = arena[:len(datagram)]
		copy(arena, datagram)

		if _, sendErr := t.Send(arena, peer); sendErr != nil {
			netlog.Error("netpacket: send: %v", sendErr)
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: %v", ErrTransport, sendErr)
			}
			continue
		}
		sent++
	}
	return sent, firstErr
}

// Pending returns the number of datagrams currently queued for Drain.
func (s *SendStream) Pending() int { return s.queue.len() }
