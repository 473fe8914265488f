package dfa

import (
	"sort"

	"github.com/tokenfsm/tokenfsm/nfa"
)

// Determinize runs subset construction over n, producing a dense DFA. The
// byte alphabet is n's equivalence classes, so determinization only ever
// has to branch on class representatives rather than all 256 byte values.
func Determinize(n *nfa.NFA, config Config) (*DFA, error) {
	if config.MaxStates == 0 {
		config.MaxStates = DefaultConfig().MaxStates
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	classes := n.ByteClasses()
	alphabetLen := classes.AlphabetLen()
	reps := classes.Representatives()

	seen := map[string]StateID{"": DeadState}
	var subsets [][]nfa.StateID
	var finals []bool
	subsets = append(subsets, nil) // DeadState has no underlying NFA states
	finals = append(finals, false)

	getOrAdd := func(closure []nfa.StateID) StateID {
		key := subsetKey(closure)
		if id, ok := seen[key]; ok {
			return id
		}
		id := StateID(len(subsets))
		seen[key] = id
		subsets = append(subsets, closure)
		finals = append(finals, isAnyMatch(n, closure))
		return id
	}

	startSet := epsilonClosure(n, []nfa.StateID{n.Start()})
	startID := getOrAdd(startSet)

	var transitions []StateID

	for i := 0; i < len(subsets); i++ {
		if i >= config.MaxStates {
			return nil, &DeterminizeError{Err: ErrTooManyStates}
		}
		cur := subsets[i]
		row := make([]StateID, alphabetLen)
		for _, rep := range reps {
			class := classes.Get(rep)
			moved := move(n, cur, rep)
			closure := epsilonClosure(n, moved)
			row[class] = getOrAdd(closure)
		}
		transitions = append(transitions, row...)
	}

	d := &DFA{
		transitions: transitions,
		alphabetLen: alphabetLen,
		numStates:   len(subsets),
		start:       startID,
		finals:      finals,
		byteClasses: *classes,
	}

	anyFinal := false
	for _, f := range finals {
		if f {
			anyFinal = true
			break
		}
	}
	if !anyFinal {
		return nil, &DeterminizeError{Err: ErrEmptyLanguage}
	}

	if config.Minimize {
		return minimize(d), nil
	}
	return d, nil
}

// epsilonClosure follows Split and Epsilon transitions (and Sparse/ByteRange
// states are left as frontier, not traversed) to compute the full set of
// NFA states reachable from ids without consuming a byte.
func epsilonClosure(n *nfa.NFA, ids []nfa.StateID) []nfa.StateID {
	visited := make(map[nfa.StateID]bool)
	var stack []nfa.StateID
	stack = append(stack, ids...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == nfa.InvalidState || visited[id] {
			continue
		}
		visited[id] = true
		s := n.State(id)
		if s == nil {
			continue
		}
		switch s.Kind() {
		case nfa.StateSplit:
			l, r := s.Split()
			stack = append(stack, l, r)
		case nfa.StateEpsilon:
			stack = append(stack, s.Epsilon())
		}
	}
	out := make([]nfa.StateID, 0, len(visited))
	for id := range visited {
		out = append(out, id)
	}
	return out
}

// move returns the set of NFA states directly reachable from ids by
// consuming byte b, without taking the epsilon closure of the result.
func move(n *nfa.NFA, ids []nfa.StateID, b byte) []nfa.StateID {
	var out []nfa.StateID
	for _, id := range ids {
		s := n.State(id)
		if s == nil {
			continue
		}
		switch s.Kind() {
		case nfa.StateByteRange:
			lo, hi, next := s.ByteRange()
			if b >= lo && b <= hi {
				out = append(out, next)
			}
		case nfa.StateSparse:
			for _, t := range s.Transitions() {
				if b >= t.Lo && b <= t.Hi {
					out = append(out, t.Next)
				}
			}
		}
	}
	return out
}

func isAnyMatch(n *nfa.NFA, ids []nfa.StateID) bool {
	for _, id := range ids {
		if n.IsMatch(id) {
			return true
		}
	}
	return false
}

// subsetKey builds a canonical map key for a set of NFA state IDs,
// independent of discovery order. The empty set (no live states) always
// maps to DeadState.
func subsetKey(ids []nfa.StateID) string {
	if len(ids) == 0 {
		return ""
	}
	sorted := make([]nfa.StateID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	buf := make([]byte, 0, len(sorted)*5)
	for _, id := range sorted {
		buf = append(buf, byte(id), byte(id>>8), byte(id>>16), byte(id>>24), ',')
	}
	return string(buf)
}
