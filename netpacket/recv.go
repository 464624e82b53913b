package netpacket

import (
	"errors"
	"fmt"
	"time"

	"code.hybscloud.com/iox"

	"github.com/goreliable/packetstream/netlog"
)

// RecvStream receives datagrams from a Transport, parses and routes them,
// and exposes completed messages (whole or reassembled) to the caller. It
// is owned by exactly one caller; no internal goroutines or locks.
type RecvStream struct {
	cfg         Config
	reassembler *Reassembler
	buf         []byte
	wholeReady  map[uint16][]wholePacket
}

type wholePacket struct {
	packetType uint32
	data       []byte
}

// NewRecvStream returns a RecvStream configured by cfg.
func NewRecvStream(cfg Config) *RecvStream {
	cfg = cfg.WithDefaults()
	return &RecvStream{
		cfg:         cfg,
		reassembler: NewReassembler(),
		buf:         make([]byte, MTU),
		wholeReady:  make(map[uint16][]wholePacket),
	}
}

// Poll performs one non-blocking receive. It returns (true, nil) if a
// datagram arrived and more may be immediately available; (false, nil) if
// the transport currently has nothing to read (t.Recv wrapped
// iox.ErrWouldBlock); or a non-nil err wrapping ErrTransport for any other
// transport failure. Malformed datagrams (bad CRC, invalid header fields,
// stale slot collisions, duplicate fragments) are discarded silently —
// Poll still returns (true, nil) for them, since the transport itself made
// progress.
func (s *RecvStream) Poll(t Transport) (more bool, err error) {
	n, _, err := t.Recv(s.buf)
	if err != nil {
		if errors.Is(err, iox.ErrWouldBlock) {
			return false, nil
		}
		netlog.Error("netpacket: recv: %v", err)
		return false, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	datagram := s.buf[:n]

	hdr, payload, decodeErr := DecodeHeader(datagram, s.cfg.ProtocolID)
	if decodeErr != nil {
		if errors.Is(decodeErr, ErrCrcMismatch) {
			netlog.Warn("netpacket: discarding datagram: %v", decodeErr)
		} else {
			netlog.Warn("netpacket: discarding datagram with invalid header: %v", decodeErr)
		}
		return true, nil
	}

	if !hdr.IsFragment {
		s.wholeReady[hdr.Sequence] = append(s.wholeReady[hdr.Sequence], wholePacket{
			packetType: hdr.PacketType,
			data:       append([]byte(nil), payload...),
		})
		return true, nil
	}

	frag, fragErr := DecodeFragment(payload)
	if fragErr != nil {
		netlog.Warn("netpacket: discarding fragment with invalid header: %v", fragErr)
		return true, nil
	}
	if err := s.reassembler.ProcessFragment(hdr.Sequence, hdr.PacketType, frag.Header, frag.Data); err != nil {
		switch {
		case errors.Is(err, ErrDuplicateFragment), errors.Is(err, ErrSlotCollisionOlder):
			netlog.Debug("netpacket: discarding fragment for sequence %d: %v", hdr.Sequence, err)
		default:
			netlog.Warn("netpacket: discarding fragment for sequence %d: %v", hdr.Sequence, err)
		}
	}
	return true, nil
}

// TakeCompleted looks up sequence seq and, if a complete message is
// available there (a fully-received fragmented message, or a whole
// single-datagram packet received under that sequence), returns it and
// marks it consumed. ok is false if nothing complete is waiting at seq.
func (s *RecvStream) TakeCompleted(seq uint16) (packetType uint32, data []byte, ok bool) {
	if whole := s.wholeReady[seq]; len(whole) > 0 {
		w := whole[0]
		if len(whole) == 1 {
			delete(s.wholeReady, seq)
		} else {
			s.wholeReady[seq] = whole[1:]
		}
		return w.packetType, w.data, true
	}
	data, packetType, ok = s.reassembler.Consume(seq)
	return packetType, data, ok
}

// Expire evicts reassembly slots untouched since before now.Add(-SlotTTL).
// A zero Config.SlotTTL is replaced by the 2s default when the stream is
// constructed; a negative SlotTTL disables time-based eviction. Callers that want
// periodic cleanup invoke this from their own ticker loop, mirroring the
// teacher's sessionCleanupLoop pattern generalized from session state to
// reassembly slots.
func (s *RecvStream) Expire(now time.Time) {
	s.reassembler.Expire(now, s.cfg.SlotTTL)
}
