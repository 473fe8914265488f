// Package nfa implements a Thompson construction over a byte alphabet.
//
// The NFA compiled here is deliberately narrower than a general-purpose
// regex engine's: patterns always match the entire input (no anchors, no
// lookaround, no capture groups), because the only consumer is the dfa
// package's subset construction. Keeping captures and look-around out of the
// state machine keeps epsilon-closure a pure reachability problem.
package nfa

import "fmt"

// StateID uniquely identifies an NFA state.
type StateID uint32

// InvalidState marks an uninitialized or absent transition target.
const InvalidState StateID = 0xFFFFFFFF

// StateKind identifies the type of NFA state and determines which transition
// fields are valid for it.
type StateKind uint8

const (
	// StateMatch is an accepting state with no outgoing transitions.
	StateMatch StateKind = iota
	// StateByteRange transitions to Next on any byte in [Lo, Hi].
	StateByteRange
	// StateSparse transitions to a per-range Next on any byte covered by one
	// of its Transitions; used for character classes with multiple ranges.
	StateSparse
	// StateSplit has two epsilon transitions (alternation, quantifiers).
	StateSplit
	// StateEpsilon has a single epsilon transition.
	StateEpsilon
	// StateFail never matches. The Compiler does not emit it: empty
	// character classes compile to an epsilon fragment whose start never
	// reaches its end.
	StateFail
)

func (k StateKind) String() string {
	switch k {
	case StateMatch:
		return "Match"
	case StateByteRange:
		return "ByteRange"
	case StateSparse:
		return "Sparse"
	case StateSplit:
		return "Split"
	case StateEpsilon:
		return "Epsilon"
	case StateFail:
		return "Fail"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Transition is a byte range and its target state, used by Sparse states.
type Transition struct {
	Lo, Hi byte
	Next   StateID
}

// State is a single NFA state. Which fields are meaningful depends on Kind.
type State struct {
	kind StateKind

	lo, hi byte
	next   StateID

	transitions []Transition

	left, right StateID
}

func (s *State) Kind() StateKind { return s.kind }

func (s *State) ByteRange() (lo, hi byte, next StateID) {
	if s.kind == StateByteRange {
		return s.lo, s.hi, s.next
	}
	return 0, 0, InvalidState
}

func (s *State) Split() (left, right StateID) {
	if s.kind == StateSplit {
		return s.left, s.right
	}
	return InvalidState, InvalidState
}

func (s *State) Epsilon() StateID {
	if s.kind == StateEpsilon {
		return s.next
	}
	return InvalidState
}

func (s *State) Transitions() []Transition {
	if s.kind == StateSparse {
		return s.transitions
	}
	return nil
}

// NFA is a compiled Thompson construction over regexp/syntax output.
type NFA struct {
	states      []State
	start       StateID
	byteClasses ByteClasses
}

func (n *NFA) Start() StateID { return n.start }

func (n *NFA) State(id StateID) *State {
	if id == InvalidState || int(id) >= len(n.states) {
		return nil
	}
	return &n.states[id]
}

func (n *NFA) IsMatch(id StateID) bool {
	if s := n.State(id); s != nil {
		return s.kind == StateMatch
	}
	return false
}

func (n *NFA) States() int { return len(n.states) }

func (n *NFA) ByteClasses() *ByteClasses { return &n.byteClasses }

func (n *NFA) String() string {
	return fmt.Sprintf("NFA{states: %d, start: %d}", len(n.states), n.start)
}
