// Package bonding holds the operator-supplied table of known identities
// used to resolve rotating addresses with ground truth instead of
// heuristics.
package bonding

import "github.com/srg/bentool/internal/rpa"

// Bonding is one known identity: an optional public address and/or IRK,
// keyed by an operator-chosen name.
type Bonding struct {
	Name      string
	BDAPublic [6]byte
	IRK       rpa.IRK
}

func (b Bonding) hasBDA() bool {
	return b.BDAPublic != [6]byte{}
}

// Registry is an insertion-ordered, upsert-by-prefix table of Bondings.
type Registry struct {
	entries []*Bonding
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Upsert adds or merges a Bonding. An existing entry is matched when the
// new name agrees with it on the existing name's first len-1 characters
// (so "home_1" upserted after "home_0" updates that entry, which keeps
// its name, as both share the "home_" prefix). On a match only non-zero fields of the incoming
// Bonding overwrite the existing one; an all-zero Bonding is a no-op
// against any match. A name that matches nothing is prepended as a new
// entry.
func (r *Registry) Upsert(b Bonding) {
	for _, existing := range r.entries {
		if prefixMatches(existing.Name, b.Name) {
			if b.hasBDA() {
				existing.BDAPublic = b.BDAPublic
			}
			if b.IRK.IsSet() {
				existing.IRK = b.IRK
			}
			return
		}
	}

	cp := b
	r.entries = append([]*Bonding{&cp}, r.entries...)
}

// prefixMatches mirrors the reference's strncmp(new, existing, len(existing)-1):
// the candidate name matches an existing entry if they agree on the
// existing name's first len-1 characters. An existing name of length 0
// matches nothing.
func prefixMatches(existingName, candidateName string) bool {
	if len(existingName) == 0 {
		return false
	}
	n := len(existingName) - 1
	if len(candidateName) < n || len(existingName) < n {
		return false
	}
	return candidateName[:n] == existingName[:n]
}

// List returns the Bondings in registry order (most recently inserted
// first, matching the reference's prepend-on-insert behaviour).
func (r *Registry) List() []Bonding {
	out := make([]Bonding, len(r.entries))
	for i, b := range r.entries {
		out[i] = *b
	}
	return out
}

// ResolvesBoth reports whether some Bonding with a set IRK resolves both
// addresses — the tracker's ground-truth join test.
func (r *Registry) ResolvesBoth(a, b [6]byte) bool {
	for _, bk := range r.entries {
		if !bk.IRK.IsSet() {
			continue
		}
		if rpa.Resolve(bk.IRK, a) && rpa.Resolve(bk.IRK, b) {
			return true
		}
	}
	return false
}
