// Package dfa determinizes and minimizes the byte-level Thompson NFAs built
// by package nfa into dense deterministic automata. A DFA here is always a
// full-match recognizer: simulating it over bytes b0..bn-1 and checking
// IsMatch at the final state answers "does the whole string match", and
// Next never needs to consider alternative branches the way NFA simulation
// does.
package dfa

import (
	"fmt"

	"github.com/tokenfsm/tokenfsm/nfa"
)

// StateID identifies a DFA state. DeadState is the distinguished
// non-accepting sink every dead transition lands on.
type StateID uint32

// DeadState is state 0 in every DFA built by this package: every
// transition out of it loops back to itself, and it is never a match
// state. The Index Builder relies on this invariant to detect "no legal
// continuation" without a special sentinel.
const DeadState StateID = 0

// DFA is a dense deterministic automaton over a byte-class alphabet.
// Transitions are stored as a flat states*alphabetLen table; state s's
// transition on class c is at transitions[s*alphabetLen+c].
type DFA struct {
	transitions []StateID
	alphabetLen int
	numStates   int
	start       StateID
	finals      []bool
	byteClasses nfa.ByteClasses
}

// Start returns the DFA's start state.
func (d *DFA) Start() StateID { return d.start }

// NumStates returns the number of states, including DeadState.
func (d *DFA) NumStates() int { return d.numStates }

// AlphabetLen returns the number of byte equivalence classes.
func (d *DFA) AlphabetLen() int { return d.alphabetLen }

// ByteClasses returns the byte-to-class mapping shared with the source NFA.
func (d *DFA) ByteClasses() *nfa.ByteClasses { return &d.byteClasses }

// IsMatch reports whether id is an accepting state.
func (d *DFA) IsMatch(id StateID) bool {
	return int(id) < len(d.finals) && d.finals[id]
}

// Next returns the state reached from id on byte b, or DeadState if no
// transition consumes b from id.
func (d *DFA) Next(id StateID, b byte) StateID {
	class := d.byteClasses.Get(b)
	return d.NextClass(id, class)
}

// NextClass returns the state reached from id on byte class c directly,
// skipping the byte-to-class lookup when the caller already has it (the
// Index Builder iterates classes, not raw bytes, during construction).
func (d *DFA) NextClass(id StateID, class byte) StateID {
	idx := int(id)*d.alphabetLen + int(class)
	if idx < 0 || idx >= len(d.transitions) {
		return DeadState
	}
	return d.transitions[idx]
}

// Accepts reports whether s matches the DFA in its entirety.
func (d *DFA) Accepts(s []byte) bool {
	state := d.start
	for _, b := range s {
		state = d.Next(state, b)
		if state == DeadState {
			return false
		}
	}
	return d.IsMatch(state)
}

func (d *DFA) String() string {
	return fmt.Sprintf("DFA{states: %d, alphabet: %d, start: %d}", d.numStates, d.alphabetLen, d.start)
}
