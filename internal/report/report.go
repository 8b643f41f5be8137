// Package report implements the Reporter (C7): the ordered walk that
// surfaces each Stream's EN_GA record transitions.
package report

import (
	"fmt"
	"io"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/srg/bentool/internal/packet"
	"github.com/srg/bentool/internal/stream"
)

// Transition is one emitted record: a Stream's EN_GA payload changed
// (RPI, AEM, or BDA differs from the last packet emitted for that
// Stream).
type Transition struct {
	StreamIndex int
	Packet      packet.Packet
}

// Walk produces, for every occupied Stream (by positional index, Latest
// to Head), one Transition whenever RPI, AEM, or BDA differs from the
// previously emitted EN_GA packet in that Stream.
//
// Results are accumulated in an insertion-ordered map keyed by Stream
// index, then flattened in that order into the returned slice; the map
// itself is not returned, so callers see only the flat slice.
func Walk(st *stream.Store) []Transition {
	byStream := orderedmap.New[int, []Transition]()

	for idx := 0; idx < st.Len(); idx++ {
		if st.Stream(idx).IsFree() {
			continue
		}

		var last *packet.Packet
		var transitions []Transition
		st.WalkBackward(idx, func(p packet.Packet) {
			if p.Kind != packet.KindEnGa {
				return
			}
			if last != nil && p.EnGa.RPI == last.EnGa.RPI && p.EnGa.AEM == last.EnGa.AEM && p.BDA == last.BDA {
				return
			}
			cp := p
			last = &cp
			transitions = append(transitions, Transition{StreamIndex: idx, Packet: p})
		})

		if len(transitions) > 0 {
			byStream.Set(idx, transitions)
		}
	}

	var out []Transition
	for pair := byStream.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value...)
	}
	return out
}

// Print renders transitions one line each, every line prefixed with its
// Stream's positional index; there is no separate per-Stream header.
func Print(w io.Writer, transitions []Transition) {
	for _, t := range transitions {
		p := t.Packet
		fmt.Fprintf(w, "[%d] %s  bda=%02X:%02X:%02X:%02X:%02X:%02X rssi=%d rpi=%x aem=%x\n",
			t.StreamIndex, p.RecvTime.Format("2006-01-02 15:04:05.000000"),
			p.BDA[0], p.BDA[1], p.BDA[2], p.BDA[3], p.BDA[4], p.BDA[5],
			p.RSSI, p.EnGa.RPI, p.EnGa.AEM)
	}
}
