// Package hciradio implements the HCI collaborators (H1 Scanner, H2
// Beacon Transmitter, H3 Random Address Setter): the only pieces of the
// system that talk to a real Bluetooth controller. None of their
// internal behaviour is part of the core's tested invariants (§8/§9 of
// the core design) — they exist to drive packets into, and advertising
// data out of, an engine.Engine.
package hciradio

import (
	"context"
	"errors"

	"github.com/hedzr/go-ringbuf/v2/mpmc"

	"github.com/srg/bentool/internal/packet"
)

// reportQueueSize bounds the number of in-flight raw reports between the
// scanner's advertisement callback and the core's drain loop. Advertising
// reports arrive far faster than the core can admit them during a dense
// capture; a bounded ring buffer makes that backpressure explicit instead
// of growing unboundedly (the reference had no such queue at all — H1 is
// new).
const reportQueueSize = 4096

// ReportQueue is the bounded queue between the scanner's own goroutine
// and the core's single-threaded admission loop. It is genuinely the one
// concurrent-capable piece of state in the system, though in practice it
// is used single-producer/single-consumer: one scan goroutine enqueues,
// one drain loop dequeues.
type ReportQueue struct {
	buf mpmc.RichOverlappedRingBuffer[packet.RawReport]
}

// NewReportQueue returns an empty ReportQueue.
func NewReportQueue() *ReportQueue {
	return &ReportQueue{buf: mpmc.NewOverlappedRingBuffer[packet.RawReport](reportQueueSize)}
}

// Push enqueues a report, overwriting the oldest entry if the queue is
// full. Returns the number of overwritten entries, for callers that want
// to log capture loss.
func (q *ReportQueue) Push(r packet.RawReport) (overwritten uint32, err error) {
	return q.buf.EnqueueM(r)
}

// Drain calls fn with every currently queued report, oldest first,
// stopping early if fn returns false or ctx is done.
func (q *ReportQueue) Drain(ctx context.Context, fn func(packet.RawReport) bool) {
	for !q.buf.IsEmpty() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		r, err := q.buf.Dequeue()
		if err != nil {
			return
		}
		if !fn(r) {
			return
		}
	}
}

// ErrCancelled names the operator-interrupt outcome, carried here as a
// context instead of the reference's global abort_signal byte. Nothing in
// this package returns it: Scanner.Run and Beacon.Run return nil when
// their context is cancelled.
var ErrCancelled = errors.New("hciradio: cancelled")
