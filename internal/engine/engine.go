// Package engine wires the Stream Store, Bonding Registry, Config, and
// Logger into one explicit value (G1), replacing the reference's
// ble_stream/ble_bonding globals (§9 design note).
package engine

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/srg/bentool/internal/bonding"
	"github.com/srg/bentool/internal/bonderr"
	"github.com/srg/bentool/internal/config"
	"github.com/srg/bentool/internal/packet"
	"github.com/srg/bentool/internal/persist"
	"github.com/srg/bentool/internal/report"
	"github.com/srg/bentool/internal/rpa"
	"github.com/srg/bentool/internal/stream"
	"github.com/srg/bentool/internal/tracker"
)

// Engine is the value every CLI command operates through. It is never
// global: a process may hold more than one (tests do), each with its own
// Store and Registry.
type Engine struct {
	Config   *config.Config
	Log      *logrus.Logger
	store    *stream.Store
	bondings *bonding.Registry
}

// New builds an Engine from cfg, creating a fresh Store bounded at
// cfg.MaxStreams and an empty Bonding Registry.
func New(cfg *config.Config) *Engine {
	return &Engine{
		Config:   cfg,
		Log:      cfg.NewLogger(),
		store:    stream.NewStore(cfg.MaxStreams),
		bondings: bonding.NewRegistry(),
	}
}

// Admit routes a decoded Packet into the Store, per C4. Returns
// bonderr.ErrStoreExhausted when the Store rejects the packet (at capacity) —
// the Resource-Exhaustion case is recoverable here rather than fatal,
// per the §9 design note.
func (e *Engine) Admit(p packet.Packet) (int, error) {
	idx, err := e.store.Admit(p)
	if err != nil {
		e.Log.WithError(err).Warn("stream store rejected packet")
		return 0, bonderr.ErrStoreExhausted
	}
	return idx, nil
}

// ResolveRPA reports whether bda resolves against irk (C2), logging the
// outcome at debug level.
func (e *Engine) ResolveRPA(irk rpa.IRK, bda [6]byte) bool {
	ok := rpa.Resolve(irk, bda)
	e.Log.WithFields(logrus.Fields{"bda": bda, "resolved": ok}).Debug("rpa resolve")
	return ok
}

// Bonding returns the Engine's Bonding Registry.
func (e *Engine) Bonding() *bonding.Registry { return e.bondings }

// Store returns the Engine's Stream Store, for callers (the Reporter,
// the CLI's scan loop) that need direct access.
func (e *Engine) Store() *stream.Store { return e.store }

// Track runs the merge engine (C6) to a fixpoint and returns the total
// number of merges performed.
func (e *Engine) Track(opts tracker.Options) int {
	merges := tracker.Run(e.store, e.bondings, opts)
	e.Log.WithField("merges", merges).Info("track complete")
	return merges
}

// Report writes the Reporter's (C7) transitions to w.
func (e *Engine) Report(w io.Writer) {
	report.Print(w, report.Walk(e.store))
}

// Dump writes every Stream's Packets to w as CSV (C8).
func (e *Engine) Dump(w io.Writer) error {
	return persist.Dump(w, e.store)
}

// Load clears the Store and re-admits every CSV line read from r,
// returning the number of Packets admitted.
func (e *Engine) Load(r io.Reader) (int, error) {
	n, err := persist.Load(r, e.store)
	if err != nil {
		return n, &bonderr.DataError{Detail: "load", Err: err}
	}
	return n, nil
}

// Clear discards every Stream and Packet.
func (e *Engine) Clear() {
	e.store.Clear()
}
