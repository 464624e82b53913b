package netpacket

import (
	"fmt"
	"net"
	"time"

	"code.hybscloud.com/iox"
)

// Endpoint names a datagram's peer. A net.UDPAddr satisfies this via its
// String method, but implementations are free to use a lighter-weight
// identifier (e.g. a table index) in tests.
type Endpoint interface {
	String() string
}

// Transport is the abstract non-blocking byte-datagram collaborator every
// SendStream/RecvStream drives. Recv wraps iox.ErrWouldBlock (from
// code.hybscloud.com/iox, already a dependency elsewhere in this corpus) to
// signal "nothing to read" the same way the rest of the corpus's
// non-blocking I/O does, rather than invent a bespoke EAGAIN-flavored
// error. Send must never block.
type Transport interface {
	Send(data []byte, to Endpoint) (int, error)
	Recv(buf []byte) (int, Endpoint, error)
}

// Config configures a SendStream/RecvStream pair, including the RecvStream's
// Reassembler.
type Config struct {
	LocalAddr            *net.UDPAddr
	PeerAddr             *net.UDPAddr
	MaxOutgoingDatagrams  int
	ProtocolID            uint32
	DefaultQoS            QoS
	ImpairmentDropProb    float32
	SlotTTL               time.Duration
}

// WithDefaults returns a copy of c with zero-valued fields replaced by their
// documented defaults (MaxOutgoingDatagrams=8, ProtocolID=DefaultProtocolID,
// SlotTTL=2s). A negative SlotTTL is kept and disables time-based eviction.
func (c Config) WithDefaults() Config {
	if c.MaxOutgoingDatagrams <= 0 {
		c.MaxOutgoingDatagrams = DefaultMaxOutgoingDatagrams
	}
	if c.ProtocolID == 0 {
		c.ProtocolID = DefaultProtocolID
	}
	if c.SlotTTL == 0 {
		c.SlotTTL = 2 * time.Second
	}
	return c
}

// udpEndpoint adapts *net.UDPAddr to Endpoint.
type udpEndpoint struct{ addr *net.UDPAddr }

func (e udpEndpoint) String() string { return e.addr.String() }

// UDPTransport is a net.UDPConn-backed Transport. It is demo wiring, not a
// spec'd component: no test in this repository exercises it.
type UDPTransport struct {
	conn *net.UDPConn
}

// NewUDPTransport wraps an already-bound *net.UDPConn.
func NewUDPTransport(conn *net.UDPConn) *UDPTransport {
	return &UDPTransport{conn: conn}
}

// Send writes data to the UDP address behind to. to must be an Endpoint
// produced by this transport (i.e. wrapping a *net.UDPAddr).
func (t *UDPTransport) Send(data []byte, to Endpoint) (int, error) {
	ep, ok := to.(udpEndpoint)
	if !ok {
		return 0, fmt.Errorf("netpacket: UDPTransport.Send: endpoint %v is not a UDP endpoint", to)
	}
	return t.conn.WriteToUDP(data, ep.addr)
}

// Recv reads one datagram into buf without blocking. When no datagram is
// currently available it returns iox.ErrWouldBlock (via errors.Is).
func (t *UDPTransport) Recv(buf []byte) (int, Endpoint, error) {
	if err := t.conn.SetReadDeadline(time.Now()); err != nil {
		return 0, nil, err
	}
	n, addr, err := t.conn.ReadFromUDP(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return 0, nil, iox.ErrWouldBlock
		}
		return 0, nil, err
	}
	return n, udpEndpoint{addr: addr}, nil
}

// Endpoint wraps addr as an Endpoint this transport's Send accepts.
func (t *UDPTransport) Endpoint(addr *net.UDPAddr) Endpoint {
	return udpEndpoint{addr: addr}
}
