// Package stream implements the Stream Store (C4) and per-Stream metrics
// (C5): routing captured packets to the Stream believed to belong to the
// same physical device, and the derived gap/count metrics consumed by the
// tracker.
package stream

import (
	"errors"
	"time"

	"github.com/cornelk/hashmap"
	"github.com/srg/bentool/internal/packet"
)

// ErrStoreFull is returned by Admit when the Store is at MaxStreams
// capacity and no existing Stream matched and no free slot exists.
var ErrStoreFull = errors.New("stream: store at capacity")

const nilIdx = -1

// arenaNode is one Packet plus its neighbour links, held in the Store's
// shared arena rather than addressed by raw pointer (see the design note
// on doubly-linked packet chains).
type arenaNode struct {
	pkt   packet.Packet
	older int
	newer int
}

// Stream is a chronological chain of Packets believed to originate from
// one physical device across possibly several rotating addresses. Head
// and Latest are arena indices, not pointers.
type Stream struct {
	Head          int
	Latest        int
	Pkts          int
	PktGapUsumUs  int64
	RPALastChange time.Time
	RPAIntervalUs int64
}

// IsFree reports whether this slot holds no packets and may be reused by
// Admit before a new Stream is appended.
func (s *Stream) IsFree() bool {
	return s.Pkts == 0 && s.Latest == nilIdx
}

func (s *Stream) reset() {
	s.Head = nilIdx
	s.Latest = nilIdx
	s.Pkts = 0
	s.PktGapUsumUs = 0
	s.RPALastChange = time.Time{}
	s.RPAIntervalUs = 0
}

type rpiAemKey struct {
	rpi [16]byte
	aem [4]byte
}

// Store is the ordered collection of Streams plus the packet arena they
// share. Stream positions are stable: a freed Stream's slot is reused in
// place, never removed from the slice, so the Reporter can address Streams
// by a stable positional index.
type Store struct {
	arena      []arenaNode
	streams    []*Stream
	maxStreams int

	bdaIndex    *hashmap.Map[[6]byte, int]
	rpiAemIndex *hashmap.Map[rpiAemKey, int]
}

// NewStore returns an empty Store bounded at maxStreams Streams. A
// maxStreams of 0 means unbounded.
func NewStore(maxStreams int) *Store {
	return &Store{
		maxStreams:  maxStreams,
		bdaIndex:    hashmap.New[[6]byte, int](),
		rpiAemIndex: hashmap.New[rpiAemKey, int](),
	}
}

// Len returns the number of Stream slots, free or occupied.
func (st *Store) Len() int { return len(st.streams) }

// Stream returns the Stream at a positional index.
func (st *Store) Stream(idx int) *Stream { return st.streams[idx] }

// Packet returns the Packet at an arena index.
func (st *Store) Packet(arenaIdx int) packet.Packet { return st.arena[arenaIdx].pkt }

// Older returns the arena index of the packet received just before
// arenaIdx within its Stream, or nilIdx.
func (st *Store) Older(arenaIdx int) int { return st.arena[arenaIdx].older }

// Newer returns the arena index of the packet received just after
// arenaIdx within its Stream, or nilIdx.
func (st *Store) Newer(arenaIdx int) int { return st.arena[arenaIdx].newer }

// Clear discards every Stream and Packet, resetting the Store to empty.
// Used before a fresh capture and by Load.
func (st *Store) Clear() {
	st.arena = st.arena[:0]
	st.streams = st.streams[:0]
	st.bdaIndex = hashmap.New[[6]byte, int]()
	st.rpiAemIndex = hashmap.New[rpiAemKey, int]()
}

// Admit routes p to an existing Stream or a new/reused one, per C4:
//
//  1. An occupied Stream whose latest packet's BDA equals p.BDA matches.
//  2. Otherwise, for EN_GA packets, an occupied Stream whose latest packet
//     is EN_GA with the same RPI and AEM matches — an RPA rotation is
//     recorded on that Stream.
//  3. Otherwise the first free slot is reused, or a new Stream appended.
//
// The bda/rpi+aem indices are kept exactly in sync with every admission
// and every merge-driven free, so a hit is authoritative: because a BDA or
// (rpi,aem) pair can be the "latest" identity of at most one Stream at a
// time (data-model invariant 3), there is no need to fall back to a
// linear re-scan to break ties.
func (st *Store) Admit(p packet.Packet) (int, error) {
	idx, found := st.bdaIndex.Get(p.BDA)
	if !found && p.Kind == packet.KindEnGa {
		if hit, ok := st.rpiAemIndex.Get(rpiAemKey{p.EnGa.RPI, p.EnGa.AEM}); ok {
			idx, found = hit, true
			st.streams[idx].RPALastChange = p.RecvTime
		}
	}

	if !found {
		free := nilIdx
		for i, s := range st.streams {
			if s.IsFree() {
				free = i
				break
			}
		}
		switch {
		case free != nilIdx:
			idx = free
		case st.maxStreams > 0 && len(st.streams) >= st.maxStreams:
			return 0, ErrStoreFull
		default:
			st.streams = append(st.streams, &Stream{Head: nilIdx, Latest: nilIdx})
			idx = len(st.streams) - 1
		}
	} else {
		// Identity carried over to a new BDA: drop the stale bda index
		// entry for whichever address this Stream held before, so a
		// later, unrelated packet with that old address is not
		// misrouted here.
		s := st.streams[idx]
		if s.Latest != nilIdx {
			old := st.arena[s.Latest].pkt
			oldBDA := old.BDA
			if oldBDA != p.BDA {
				if cur, ok := st.bdaIndex.Get(oldBDA); ok && cur == idx {
					st.bdaIndex.Del(oldBDA)
				}
			}
			// Likewise drop the old (rpi,aem) entry once it stops being
			// this Stream's latest EN_GA identity.
			if old.Kind == packet.KindEnGa {
				oldKey := rpiAemKey{old.EnGa.RPI, old.EnGa.AEM}
				if p.Kind != packet.KindEnGa || oldKey != (rpiAemKey{p.EnGa.RPI, p.EnGa.AEM}) {
					if cur, ok := st.rpiAemIndex.Get(oldKey); ok && cur == idx {
						st.rpiAemIndex.Del(oldKey)
					}
				}
			}
		}
	}

	st.link(idx, p)
	st.bdaIndex.Set(p.BDA, idx)
	if p.Kind == packet.KindEnGa {
		st.rpiAemIndex.Set(rpiAemKey{p.EnGa.RPI, p.EnGa.AEM}, idx)
	}
	return idx, nil
}

func (st *Store) link(idx int, p packet.Packet) {
	s := st.streams[idx]
	st.arena = append(st.arena, arenaNode{pkt: p, older: s.Latest, newer: nilIdx})
	newIdx := len(st.arena) - 1

	if s.Latest != nilIdx {
		st.arena[s.Latest].newer = newIdx
	}
	s.Latest = newIdx
	if s.Head == nilIdx {
		s.Head = newIdx
	}
	s.Pkts++ // provisional; RecomputeMetrics recomputes this from gaps
}

// RecomputeMetrics implements C5: walks a Stream from Latest backward via
// older, accumulating inter-arrival gaps in microseconds. Gaps exceeding
// 10.24s (the BLE maximum advertising interval) are excluded from both the
// sum and the packet count.
func (st *Store) RecomputeMetrics(idx int) {
	const maxGapUs = 10_240_000

	s := st.streams[idx]
	s.Pkts = 0
	s.PktGapUsumUs = 0

	for i := s.Latest; i != nilIdx && st.arena[i].older != nilIdx; i = st.arena[i].older {
		cur := st.arena[i].pkt.RecvTime
		prev := st.arena[st.arena[i].older].pkt.RecvTime
		gap := cur.Sub(prev).Microseconds()
		if gap > maxGapUs {
			continue
		}
		s.PktGapUsumUs += gap
		s.Pkts++
	}
}

// RecomputeAllMetrics runs RecomputeMetrics over every Stream.
func (st *Store) RecomputeAllMetrics() {
	for i := range st.streams {
		st.RecomputeMetrics(i)
	}
}

// LastEnGa returns the most recent EN_GA packet in Stream idx — walking
// from Latest backward, skipping trailing OTHER_ADV packets — and its
// arena index. ok is false if the Stream has no EN_GA packet.
func (st *Store) LastEnGa(idx int) (p packet.Packet, arenaIdx int, ok bool) {
	for i := st.streams[idx].Latest; i != nilIdx; i = st.arena[i].older {
		if st.arena[i].pkt.Kind == packet.KindEnGa {
			return st.arena[i].pkt, i, true
		}
	}
	return packet.Packet{}, nilIdx, false
}

// FirstEnGa returns the earliest EN_GA packet in Stream idx: walking the
// full chain from Latest back to Head, remembering the last EN_GA record
// seen along the way.
func (st *Store) FirstEnGa(idx int) (p packet.Packet, arenaIdx int, ok bool) {
	for i := st.streams[idx].Latest; i != nilIdx; i = st.arena[i].older {
		if st.arena[i].pkt.Kind == packet.KindEnGa {
			p, arenaIdx, ok = st.arena[i].pkt, i, true
		}
	}
	return p, arenaIdx, ok
}

// Merge splices older's packet chain in front of newer's, per C6's merge
// action, and frees older's slot for reuse. rpaIntervalUs, when non-zero,
// becomes newer's new RPAIntervalUs estimate.
func (st *Store) Merge(olderIdx, newerIdx int, rpaIntervalUs int64) {
	o := st.streams[olderIdx]
	n := st.streams[newerIdx]

	if o.Head != nilIdx {
		st.arena[n.Head].older = o.Latest
		if o.Latest != nilIdx {
			st.arena[o.Latest].newer = n.Head
		}
		n.Head = o.Head
	}

	n.Pkts += o.Pkts
	n.PktGapUsumUs += o.PktGapUsumUs
	if rpaIntervalUs != 0 {
		n.RPAIntervalUs = rpaIntervalUs
	}
	if !o.RPALastChange.IsZero() {
		n.RPALastChange = o.RPALastChange
	}

	st.freeSlot(olderIdx)
}

// freeSlot zeroes a Stream and scrubs any index entries that still point
// at it, making the slot eligible for reuse by Admit.
func (st *Store) freeSlot(idx int) {
	s := st.streams[idx]
	if s.Latest != nilIdx {
		last := st.arena[s.Latest].pkt
		if cur, ok := st.bdaIndex.Get(last.BDA); ok && cur == idx {
			st.bdaIndex.Del(last.BDA)
		}
		if last.Kind == packet.KindEnGa {
			key := rpiAemKey{last.EnGa.RPI, last.EnGa.AEM}
			if cur, ok := st.rpiAemIndex.Get(key); ok && cur == idx {
				st.rpiAemIndex.Del(key)
			}
		}
	}
	s.reset()
}

// Walk calls fn with every Packet in Stream idx in chronological order
// (Head to Latest).
func (st *Store) Walk(idx int, fn func(p packet.Packet)) {
	for i := st.streams[idx].Head; i != nilIdx; i = st.arena[i].newer {
		fn(st.arena[i].pkt)
	}
}

// WalkBackward calls fn with every Packet in Stream idx from Latest to
// Head.
func (st *Store) WalkBackward(idx int, fn func(p packet.Packet)) {
	for i := st.streams[idx].Latest; i != nilIdx; i = st.arena[i].older {
		fn(st.arena[i].pkt)
	}
}
