package netpacket

import (
	"fmt"
	"time"

	"github.com/goreliable/packetstream/seqnum"
)

// entry is one slot of the reassembly ring buffer, indexed by sequence mod
// MaxEntries. occupied replaces the distilled spec's 0xFFFFFFFF sentinel
// tag with an explicit boolean.
type entry struct {
	occupied          bool
	sequence          uint16
	packetType        uint32
	numFragments      uint16
	receivedFragments uint16
	received          [MaxFragmentsPerPacket]bool
	fragments         [MaxFragmentsPerPacket][]byte
	consumed          bool
	lastTouched       time.Time
}

func (e *entry) reset() {
	e.occupied = false
	e.sequence = 0
	e.packetType = 0
	e.numFragments = 0
	e.receivedFragments = 0
	e.consumed = false
	for i := range e.received {
		e.received[i] = false
		e.fragments[i] = nil
	}
}

// Reassembler is the fixed-capacity, sequence-indexed reassembly table: a
// 256-slot ring keyed by sequence mod 256, tracking in-flight fragmented
// messages until every fragment has arrived.
type Reassembler struct {
	entries         [MaxEntries]entry
	currentSequence uint16
	haveCurrent     bool
}

// NewReassembler returns an empty Reassembler.
func NewReassembler() *Reassembler {
	return &Reassembler{}
}

// ProcessFragment validates and stores one fragment of message seq. See
// SPEC_FULL.md §4.F for the full validation and slot-eviction rule set.
func (r *Reassembler) ProcessFragment(seq uint16, packetType uint32, frag FragmentHeader, data []byte) error {
	if frag.FragmentSize < 1 || frag.FragmentSize > MaxFragmentSize {
		return fmt.Errorf("%w: fragment size %d out of [1,%d]", ErrHeaderInvalid, frag.FragmentSize, MaxFragmentSize)
	}
	if frag.NumFragments < 1 || frag.NumFragments > MaxFragmentsPerPacket {
		return fmt.Errorf("%w: num fragments %d out of [1,%d]", ErrHeaderInvalid, frag.NumFragments, MaxFragmentsPerPacket)
	}
	if uint16(frag.FragmentID) >= frag.NumFragments {
		return fmt.Errorf("%w: fragment id %d >= num fragments %d", ErrHeaderInvalid, frag.FragmentID, frag.NumFragments)
	}
	if uint16(frag.FragmentID) < frag.NumFragments-1 && frag.FragmentSize != MaxFragmentSize {
		return fmt.Errorf("%w: non-final fragment %d has size %d, want %d", ErrHeaderInvalid, frag.FragmentID, frag.FragmentSize, MaxFragmentSize)
	}
	if r.haveCurrent {
		diff := seqnum.SeqDiff(seq, r.currentSequence)
		if diff < 0 {
			diff = -diff
		}
		if diff > maxSequenceSkew {
			return fmt.Errorf("%w: sequence %d too far from current %d", ErrHeaderInvalid, seq, r.currentSequence)
		}
	}

	index := seq % MaxEntries
	e := &r.entries[index]

	if e.occupied && e.sequence != seq {
		if seqnum.SeqGreaterThan(seq, e.sequence) {
			e.reset()
		} else {
			return ErrSlotCollisionOlder
		}
	}

	if !e.occupied {
		e.occupied = true
		e.sequence = seq
		e.packetType = packetType
		e.numFragments = frag.NumFragments
		e.receivedFragments = 0
	} else if e.numFragments != frag.NumFragments {
		return fmt.Errorf("%w: num fragments changed from %d to %d for sequence %d", ErrHeaderInvalid, e.numFragments, frag.NumFragments, seq)
	}

	if e.received[frag.FragmentID] {
		return ErrDuplicateFragment
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	e.fragments[frag.FragmentID] = buf
	e.received[frag.FragmentID] = true
	e.receivedFragments++
	e.lastTouched = time.Now()

	if !r.haveCurrent || seqnum.SeqGreaterThan(seq, r.currentSequence) {
		r.currentSequence = seq
		r.haveCurrent = true
	}
	return nil
}

// Complete reports whether every fragment of the message at seq has
// arrived.
func (r *Reassembler) Complete(seq uint16) bool {
	e := &r.entries[seq%MaxEntries]
	return e.occupied && e.sequence == seq && e.receivedFragments == e.numFragments
}

// Reassemble concatenates the fragments of a complete message at seq, in
// order, and returns the payload and its packetType. ok is false if the
// slot is empty, holds a different sequence, or is not yet complete.
func (r *Reassembler) Reassemble(seq uint16) (data []byte, packetType uint32, ok bool) {
	e := &r.entries[seq%MaxEntries]
	if !e.occupied || e.sequence != seq || e.receivedFragments != e.numFragments {
		return nil, 0, false
	}
	total := 0
	for i := uint16(0); i < e.numFragments; i++ {
		total += len(e.fragments[i])
	}
	out := make([]byte, 0, total)
	for i := uint16(0); i < e.numFragments; i++ {
		out = append(out, e.fragments[i]...)
	}
	return out, e.packetType, true
}

// Consume reassembles the complete message at seq (as Reassemble does),
// then frees its fragment storage and marks the slot Consumed so a second
// Consume call for the same sequence returns ok=false. The slot remains
// occupied, still blocking reuse by an older colliding sequence, until
// eviction reclaims it.
func (r *Reassembler) Consume(seq uint16) (data []byte, packetType uint32, ok bool) {
	e := &r.entries[seq%MaxEntries]
	if !e.occupied || e.sequence != seq || e.consumed || e.receivedFragments != e.numFragments {
		return nil, 0, false
	}
	data, packetType, ok = r.Reassemble(seq)
	if !ok {
		return nil, 0, false
	}
	for i := range e.fragments {
		e.fragments[i] = nil
	}
	e.consumed = true
	return data, packetType, true
}

// Advance evicts every occupied slot whose sequence is older than
// referenceSeq by more than MaxEntries-1, wrap-aware. Callers normally rely
// on collision-triggered eviction (step 2 of ProcessFragment); Advance lets
// a caller reclaim slots proactively, e.g. after a long gap with no
// fragments for a stale sequence.
func (r *Reassembler) Advance(referenceSeq uint16) {
	for i := range r.entries {
		e := &r.entries[i]
		if !e.occupied {
			continue
		}
		if seqnum.SeqDiff(referenceSeq, e.sequence) > MaxEntries-1 {
			e.reset()
		}
	}
}

// Expire evicts every occupied slot whose lastTouched predates
// now.Add(-ttl). A ttl of zero disables time-based eviction (eviction then
// relies solely on sequence-based collision and Advance).
func (r *Reassembler) Expire(now time.Time, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	cutoff := now.Add(-ttl)
	for i := range r.entries {
		e := &r.entries[i]
		if e.occupied && e.lastTouched.Before(cutoff) {
			e.reset()
		}
	}
}
