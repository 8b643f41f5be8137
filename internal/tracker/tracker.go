// Package tracker implements the merge engine (C6): the iterative
// fixpoint pass that joins older Streams into newer ones, defeating BLE
// address randomisation to reconstruct per-device histories.
package tracker

import (
	"math"

	"github.com/srg/bentool/internal/bonding"
	"github.com/srg/bentool/internal/packet"
	"github.com/srg/bentool/internal/stream"
)

const (
	maxHandoffSeconds    = 11
	maxCadenceDeltaSec   = 0.050
	maxRSSIDeltaDB       = 20
	rotationWindowLowUs  = 890_000_000
	rotationWindowHighUs = 910_000_000
)

// Options configures a merge run.
type Options struct {
	// ReplicateReferenceRotationBug reproduces the reference tool's
	// rotation-window check verbatim: `delta > 910e6 && delta < 890e6`,
	// an empty set, so the check never rejects a pair on rotation
	// grounds. Defaults to false (the corrected `delta in [890s, 910s]`
	// semantics).
	ReplicateReferenceRotationBug bool
}

// Run recomputes metrics once, then repeatedly invokes MergePass until it
// returns zero, returning the total number of merges performed.
func Run(st *stream.Store, reg *bonding.Registry, opts Options) int {
	st.RecomputeAllMetrics()

	total := 0
	for {
		n := MergePass(st, reg, opts)
		total += n
		if n == 0 {
			return total
		}
	}
}

// MergePass iterates every ordered pair of distinct, occupied Streams
// (older, newer) and merges the first pair for which the join predicate
// holds, once per older Stream, breaking its inner loop on a merge (as
// the reference does) so a freshly-grown newer Stream is not immediately
// re-examined against a stale older candidate within the same pass.
func MergePass(st *stream.Store, reg *bonding.Registry, opts Options) int {
	merges := 0

	for olderIdx := 0; olderIdx < st.Len(); olderIdx++ {
		if st.Stream(olderIdx).IsFree() {
			continue
		}
		lastPkt, _, ok := st.LastEnGa(olderIdx)
		if !ok {
			continue
		}

		for newerIdx := 0; newerIdx < st.Len(); newerIdx++ {
			if newerIdx == olderIdx || st.Stream(newerIdx).IsFree() {
				continue
			}
			nextPkt, _, ok := st.FirstEnGa(newerIdx)
			if !ok {
				continue
			}

			bonded := reg.ResolvesBoth(lastPkt.BDA, nextPkt.BDA)

			var deltaUs int64
			if !bonded {
				if !heuristicJoin(st, olderIdx, newerIdx, lastPkt, nextPkt, opts, &deltaUs) {
					continue
				}
			}

			st.Merge(olderIdx, newerIdx, deltaUs)
			merges++
			break
		}
	}

	return merges
}

// heuristicJoin applies the no-bonding predicate of C6. On success it
// writes the computed RPA-rotation delta (0 if not applicable) to
// *deltaUs and returns true.
func heuristicJoin(st *stream.Store, olderIdx, newerIdx int, lastPkt, nextPkt packet.Packet, opts Options, deltaUs *int64) bool {
	if nextPkt.RecvTime.Unix() < lastPkt.RecvTime.Unix() {
		return false
	}
	if nextPkt.RecvTime.Unix()-lastPkt.RecvTime.Unix() > maxHandoffSeconds {
		return false
	}

	older := st.Stream(olderIdx)
	newer := st.Stream(newerIdx)

	// Division by a zero packet count yields NaN (0/0) exactly as the
	// reference's double arithmetic does; a NaN comparison below is
	// always false, so a Stream with no counted gaps passes the cadence
	// check rather than rejecting it — reproducing the reference bug
	// rather than guarding against it, since nothing in the spec singles
	// this case out as a decided Open Question.
	olderAvgGapSec := float64(older.PktGapUsumUs) / float64(older.Pkts) / 1_000_000.0
	newerAvgGapSec := float64(newer.PktGapUsumUs) / float64(newer.Pkts) / 1_000_000.0
	if math.Abs(newerAvgGapSec-olderAvgGapSec) > maxCadenceDeltaSec {
		return false
	}

	if !older.RPALastChange.IsZero() && !newer.RPALastChange.IsZero() {
		delta := newer.RPALastChange.Sub(older.RPALastChange).Microseconds()
		if delta < 0 {
			delta = -delta
		}

		if opts.ReplicateReferenceRotationBug {
			if delta > rotationWindowHighUs && delta < rotationWindowLowUs {
				return false
			}
		} else if delta < rotationWindowLowUs || delta > rotationWindowHighUs {
			return false
		}

		*deltaUs = delta
	}

	rssiDelta := int(nextPkt.RSSI) - int(lastPkt.RSSI)
	if rssiDelta < 0 {
		rssiDelta = -rssiDelta
	}
	if rssiDelta > maxRSSIDeltaDB {
		return false
	}

	return true
}
