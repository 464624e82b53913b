// Package impairment provides a network-impairment transport decorator for
// exercising netpacket's reassembly and retry-free best-effort behavior
// under loss. Only drop is implemented; lag, corruption, and duplication are
// declared but rejected at construction time (see Config.Validate).
package impairment

import (
	"errors"
	"fmt"
	"math/rand"

	"code.hybscloud.com/iox"

	"github.com/goreliable/packetstream/netlog"
	"github.com/goreliable/packetstream/netpacket"
)

// ErrNotImplemented is returned by Config.Validate when a non-zero
// probability is configured for an impairment this package does not
// implement (lag, corruption, duplication). This is deliberately a loud,
// upfront construction-time failure rather than a knob that is silently
// ignored at runtime.
var ErrNotImplemented = errors.New("impairment: not implemented")

// Config configures a DropTransport. All probabilities are in [0,1].
type Config struct {
	DropProbability      float32
	LagProbability       float32 // must be 0; see ErrNotImplemented
	CorruptProbability   float32 // must be 0; see ErrNotImplemented
	DuplicateProbability float32 // must be 0; see ErrNotImplemented
}

// Validate rejects a Config that asks for an unimplemented impairment, and
// any probability outside [0,1].
func (c Config) Validate() error {
	for name, p := range map[string]float32{
		"DropProbability":      c.DropProbability,
		"LagProbability":       c.LagProbability,
		"CorruptProbability":   c.CorruptProbability,
		"DuplicateProbability": c.DuplicateProbability,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("impairment: %s out of [0,1]: %v", name, p)
		}
	}
	if c.LagProbability != 0 {
		return fmt.Errorf("%w: lag", ErrNotImplemented)
	}
	if c.CorruptProbability != 0 {
		return fmt.Errorf("%w: corrupt", ErrNotImplemented)
	}
	if c.DuplicateProbability != 0 {
		return fmt.Errorf("%w: duplicate", ErrNotImplemented)
	}
	return nil
}

// DropTransport decorates a netpacket.Transport, dropping outgoing and
// incoming datagrams independently at Config.DropProbability.
type DropTransport struct {
	inner   netpacket.Transport
	cfg     Config
	rng     *rand.Rand
	Dropped int
}

// New wraps inner with the impairment described by cfg. Returns an error if
// cfg.Validate fails.
func New(inner netpacket.Transport, cfg Config, rng *rand.Rand) (*DropTransport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &DropTransport{inner: inner, cfg: cfg, rng: rng}, nil
}

// Send forwards data to to unless the drop roll fires, in which case it is
// silently discarded and Dropped is incremented.
func (d *DropTransport) Send(data []byte, to netpacket.Endpoint) (int, error) {
	if d.shouldDrop() {
		d.Dropped++
		netlog.Debug("impairment: dropped outgoing datagram (%d bytes) to %s", len(data), to.String())
		return len(data), nil
	}
	return d.inner.Send(data, to)
}

// Recv reads from inner and, if the drop roll fires on an arrived datagram,
// discards it and reports no datagram available this call (the caller's
// next Poll will try again).
func (d *DropTransport) Recv(buf []byte) (int, netpacket.Endpoint, error) {
	n, from, err := d.inner.Recv(buf)
	if err != nil {
		return n, from, err
	}
	if d.shouldDrop() {
		d.Dropped++
		netlog.Debug("impairment: dropped incoming datagram (%d bytes) from %s", n, from.String())
		return 0, nil, iox.ErrWouldBlock
	}
	return n, from, err
}

func (d *DropTransport) shouldDrop() bool {
	return d.cfg.DropProbability > 0 && d.rng.Float32() < d.cfg.DropProbability
}
