// Package guide implements the per-request cursor (C5) a decoding loop
// drives one token at a time: it walks a shared, immutable Index and
// exposes the legal next-token set as either an id list or a packed
// bitmask. A Guide is cheap to create and to clone — one state integer
// plus a shared Index reference — because many concurrent requests share
// one Index.
package guide

import (
	"github.com/tokenfsm/tokenfsm/index"
	"github.com/tokenfsm/tokenfsm/mask"
	"github.com/tokenfsm/tokenfsm/vocab"
)

// State is a Guide's position, mirroring index.State.
type State = index.State

// Guide is a stateful cursor over an index.Index. It has two logical
// states — Active(s) and Finished — tracked here as a current State plus a
// finished flag, since "Finished" is reached by landing on the Index's
// terminal sink rather than by a separate enum value.
//
// A single Guide must never be advanced concurrently from two goroutines;
// two Guides sharing one Index never interfere (§5).
type Guide struct {
	idx      index.Index
	current  State
	finished bool
}

// New creates a Guide positioned at idx's initial state.
func New(idx index.Index) *Guide {
	return &Guide{idx: idx, current: idx.InitialState()}
}

// StartTokens returns the tokens legal at the Index's initial state,
// regardless of this Guide's current position.
func (g *Guide) StartTokens() []vocab.TokenID {
	return g.idx.AllowedTokens(g.idx.InitialState())
}

// CurrentTokens returns the tokens legal at the current state, or just EOS
// if the Guide has finished.
func (g *Guide) CurrentTokens() []vocab.TokenID {
	if g.finished {
		return []vocab.TokenID{g.idx.EOSTokenID()}
	}
	return g.idx.AllowedTokens(g.current)
}

// IsFinished reports whether the Guide has reached the terminal sink.
func (g *Guide) IsFinished() bool { return g.finished }

// CurrentState returns the Guide's current position (for inspection,
// logging, and Equal).
func (g *Guide) CurrentState() State { return g.current }

// Advance consumes token t: if it is not legal at the current state, the
// Guide is left unchanged and ErrNoNextState is returned. Otherwise the
// Guide moves to the resulting state; landing on the Index's terminal sink
// transitions it to Finished and the returned token set is just EOS.
func (g *Guide) Advance(t vocab.TokenID) ([]vocab.TokenID, error) {
	if g.finished {
		return nil, &AdvanceError{State: g.current, Token: int(t), Err: ErrNoNextState}
	}
	next, ok := g.idx.NextState(g.current, t)
	if !ok {
		return nil, &AdvanceError{State: g.current, Token: int(t), Err: ErrNoNextState}
	}
	g.current = next
	if next == g.idx.SinkState() {
		g.finished = true
		return []vocab.TokenID{g.idx.EOSTokenID()}, nil
	}
	return g.idx.AllowedTokens(g.current), nil
}

// FillMask writes a canonical 32-bit LSB-first bitmask of CurrentTokens
// into dst.
func (g *Guide) FillMask(dst []uint32) error {
	allowed := tokenIDsToInts(g.CurrentTokens())
	if err := mask.FillTokenBitmask(dst, g.idx.VocabLen(), allowed); err != nil {
		return ErrMaskTooSmall
	}
	return nil
}

// WriteMaskInto is the raw-buffer counterpart of FillMask, mirroring the
// reference kernel's write_mask_into(ptr, element_count, element_size)
// boundary for callers that own a byte buffer rather than a []uint32.
func (g *Guide) WriteMaskInto(dst []byte, elementCount, elementSizeBytes int) error {
	allowed := tokenIDsToInts(g.CurrentTokens())
	if err := mask.WriteMaskInto(dst, elementCount, elementSizeBytes, g.idx.VocabLen(), allowed); err != nil {
		return err
	}
	return nil
}

// AdvanceWithMask fuses Advance and FillMask: it advances on t, and on
// success fills dst with the resulting CurrentTokens without a second
// AllowedTokens lookup round-trip through the caller.
func (g *Guide) AdvanceWithMask(t vocab.TokenID, dst []uint32) error {
	if _, err := g.Advance(t); err != nil {
		return err
	}
	return g.FillMask(dst)
}

// Clone returns an independent Guide sharing the same Index but free to
// advance separately. Cloning is cheap: one state integer, one flag, and a
// reference copy.
func (g *Guide) Clone() *Guide {
	return &Guide{idx: g.idx, current: g.current, finished: g.finished}
}

// Equal reports whether g and other share a structurally equal Index and
// the same current position.
func (g *Guide) Equal(other *Guide) bool {
	if other == nil || g.finished != other.finished || g.current != other.current {
		return false
	}
	return g.idx.Equal(other.idx)
}

func tokenIDsToInts(ids []vocab.TokenID) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}
