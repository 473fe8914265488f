package nfa

import "fmt"

// Builder constructs an NFA incrementally. Compiler drives it; each
// compileX method adds a fragment and returns its (start, end) pair, where
// end is a state still awaiting a Patch to whatever follows it.
type Builder struct {
	states       []State
	start        StateID
	byteClassSet *byteClassSet
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		states:       make([]State, 0, 16),
		start:        InvalidState,
		byteClassSet: newByteClassSet(),
	}
}

func (b *Builder) AddMatch() StateID {
	id := StateID(len(b.states))
	b.states = append(b.states, State{kind: StateMatch})
	return id
}

// AddByteRange adds a state transitioning to next on any byte in [lo, hi].
func (b *Builder) AddByteRange(lo, hi byte, next StateID) StateID {
	b.byteClassSet.setRange(lo, hi)
	id := StateID(len(b.states))
	b.states = append(b.states, State{kind: StateByteRange, lo: lo, hi: hi, next: next})
	return id
}

// AddSparse adds a state with multiple byte-range transitions.
func (b *Builder) AddSparse(transitions []Transition) StateID {
	for _, t := range transitions {
		b.byteClassSet.setRange(t.Lo, t.Hi)
	}
	trans := make([]Transition, len(transitions))
	copy(trans, transitions)
	id := StateID(len(b.states))
	b.states = append(b.states, State{kind: StateSparse, transitions: trans})
	return id
}

// AddSplit adds an epsilon-branch state (alternation, quantifiers).
func (b *Builder) AddSplit(left, right StateID) StateID {
	id := StateID(len(b.states))
	b.states = append(b.states, State{kind: StateSplit, left: left, right: right})
	return id
}

// AddEpsilon adds a single epsilon-transition state.
func (b *Builder) AddEpsilon(next StateID) StateID {
	id := StateID(len(b.states))
	b.states = append(b.states, State{kind: StateEpsilon, next: next})
	return id
}

// AddFail adds a dead state that can never reach a match.
func (b *Builder) AddFail() StateID {
	id := StateID(len(b.states))
	b.states = append(b.states, State{kind: StateFail})
	return id
}

// Patch rewrites the target of a ByteRange or Epsilon state. Used to stitch
// fragments together once both ends of a concatenation are known.
func (b *Builder) Patch(stateID, target StateID) error {
	if int(stateID) >= len(b.states) {
		return &BuildError{Message: "state ID out of bounds", StateID: stateID}
	}
	s := &b.states[stateID]
	switch s.kind {
	case StateByteRange, StateEpsilon:
		s.next = target
		return nil
	default:
		return &BuildError{Message: fmt.Sprintf("cannot patch state of kind %s", s.kind), StateID: stateID}
	}
}

// SetStart records the NFA's single start state.
func (b *Builder) SetStart(start StateID) { b.start = start }

func (b *Builder) States() int { return len(b.states) }

// Validate checks every recorded transition target is in range.
func (b *Builder) Validate() error {
	if b.start == InvalidState || int(b.start) >= len(b.states) {
		return &BuildError{Message: "invalid start state", StateID: b.start}
	}
	for i, s := range b.states {
		id := StateID(i)
		switch s.kind {
		case StateByteRange, StateEpsilon:
			if s.next != InvalidState && int(s.next) >= len(b.states) {
				return &BuildError{Message: fmt.Sprintf("invalid next state %d", s.next), StateID: id}
			}
		case StateSplit:
			if s.left != InvalidState && int(s.left) >= len(b.states) {
				return &BuildError{Message: fmt.Sprintf("invalid left state %d", s.left), StateID: id}
			}
			if s.right != InvalidState && int(s.right) >= len(b.states) {
				return &BuildError{Message: fmt.Sprintf("invalid right state %d", s.right), StateID: id}
			}
		case StateSparse:
			for j, t := range s.transitions {
				if t.Next != InvalidState && int(t.Next) >= len(b.states) {
					return &BuildError{Message: fmt.Sprintf("invalid transition %d target %d", j, t.Next), StateID: id}
				}
			}
		}
	}
	return nil
}

// Build finalizes the NFA. The byte-class table is derived from every
// range recorded via AddByteRange/AddSparse.
func (b *Builder) Build() (*NFA, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &NFA{
		states:      b.states,
		start:       b.start,
		byteClasses: b.byteClassSet.byteClasses(),
	}, nil
}
