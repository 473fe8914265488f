// Package index builds and serves the token-level transition table the
// Index Builder (C3) precomputes from a DFA × Vocabulary pair: for every
// reachable DFA state, which vocabulary tokens are legal and which state
// each leads to. Two implementations share the Index interface — Standard
// (eager, fully precomputed) and Compressed (lazy, computed on first visit
// and cached) — so a Guide can hold either behind one capability set.
package index

import (
	"sort"

	"github.com/tokenfsm/tokenfsm/vocab"
)

// State identifies a position in an Index. It is the underlying DFA's
// StateID, reused directly rather than renumbered. The one state the DFA
// does not have is the terminal sink, numbered d.NumStates().
type State uint32

// Row is one state's precomputed (token_id -> next_state) transitions,
// exposed for inspection and serialization.
type Row map[vocab.TokenID]State

// Index is the read-only, side-effect-free capability set shared by the
// Standard and Compressed variants. Every method is safe for concurrent use
// by many Guides across many goroutines.
type Index interface {
	// InitialState returns the state a fresh Guide starts from.
	InitialState() State
	// IsFinal reports whether s is an accepting DFA state (EOS is legal
	// there, regardless of what other tokens are also legal) or the
	// terminal sink.
	IsFinal(s State) bool
	// AllowedTokens returns the token ids legal at s, in a stable but
	// unspecified order. Includes EOS iff s is an accepting DFA state; at
	// the terminal sink, which is final, the result is empty.
	AllowedTokens(s State) []vocab.TokenID
	// NextState returns the state reached by token t from s, or
	// (0, false) if t is not legal at s.
	NextState(s State, t vocab.TokenID) (State, bool)
	// FinalStates returns the accepting states, including the terminal
	// sink. The Standard variant returns every reachable one; the
	// Compressed variant returns only those whose rows it has computed so
	// far.
	FinalStates() []State
	// SinkState returns the single terminal state entered after EOS from
	// any final state.
	SinkState() State
	// VocabLen returns the vocabulary size the Index was built over.
	VocabLen() int
	// EOSTokenID returns the vocabulary's end-of-sequence id.
	EOSTokenID() vocab.TokenID
	// Equal reports structural equality: same states, same rows, same
	// EOS/sink.
	Equal(other Index) bool
}

// allowedFromRow returns row's keys in ascending order, which is what both
// Standard and Compressed use for "stable but unspecified order" —
// ascending numeric order is simplest to make reproducible across builds.
func allowedFromRow(row Row) []vocab.TokenID {
	out := make([]vocab.TokenID, 0, len(row))
	for id := range row {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
