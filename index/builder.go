package index

import (
	"log/slog"
	"sync"

	"github.com/tokenfsm/tokenfsm/dfa"
	"github.com/tokenfsm/tokenfsm/vocab"
)

// StandardIndex is the eager Index variant: every reachable state's row is
// precomputed at construction time and held in memory for the Index's
// lifetime.
type StandardIndex struct {
	rows     map[State]Row
	initial  State
	finals   map[State]bool
	sink     State
	vocabLen int
	eos      vocab.TokenID
}

func (s *StandardIndex) InitialState() State { return s.initial }
func (s *StandardIndex) IsFinal(st State) bool { return s.finals[st] }

func (s *StandardIndex) AllowedTokens(st State) []vocab.TokenID {
	return allowedFromRow(s.rows[st])
}

func (s *StandardIndex) NextState(st State, t vocab.TokenID) (State, bool) {
	row, ok := s.rows[st]
	if !ok {
		return 0, false
	}
	ns, ok := row[t]
	return ns, ok
}

func (s *StandardIndex) FinalStates() []State {
	out := make([]State, 0, len(s.finals))
	for st := range s.finals {
		out = append(out, st)
	}
	return out
}

func (s *StandardIndex) SinkState() State      { return s.sink }
func (s *StandardIndex) VocabLen() int         { return s.vocabLen }
func (s *StandardIndex) EOSTokenID() vocab.TokenID { return s.eos }

// Rows exposes the full precomputed transition map, for inspection and
// serialization (spec's `transitions()`).
func (s *StandardIndex) Rows() map[State]Row { return s.rows }

func (s *StandardIndex) Equal(other Index) bool {
	o, ok := other.(*StandardIndex)
	if !ok {
		return genericIndexEqual(s, other)
	}
	if s.initial != o.initial || s.sink != o.sink || s.vocabLen != o.vocabLen || s.eos != o.eos {
		return false
	}
	if len(s.rows) != len(o.rows) || len(s.finals) != len(o.finals) {
		return false
	}
	for st, row := range s.rows {
		orow, ok := o.rows[st]
		if !ok || len(row) != len(orow) {
			return false
		}
		for tok, ns := range row {
			ons, ok := orow[tok]
			if !ok || ns != ons {
				return false
			}
		}
	}
	for st := range s.finals {
		if !o.finals[st] {
			return false
		}
	}
	return true
}

// genericIndexEqual compares two arbitrary Index implementations (e.g. a
// Standard and a Compressed index, per testable property #5/#7) by walking
// every reachable state and diffing AllowedTokens/NextState.
func genericIndexEqual(a, b Index) bool {
	if a.InitialState() != b.InitialState() || a.EOSTokenID() != b.EOSTokenID() || a.VocabLen() != b.VocabLen() {
		return false
	}
	visited := map[State]bool{}
	var walk func(State) bool
	walk = func(st State) bool {
		if visited[st] {
			return true
		}
		visited[st] = true
		if a.IsFinal(st) != b.IsFinal(st) {
			return false
		}
		at, bt := a.AllowedTokens(st), b.AllowedTokens(st)
		if len(at) != len(bt) {
			return false
		}
		seen := map[vocab.TokenID]State{}
		for _, t := range at {
			ns, ok := a.NextState(st, t)
			if !ok {
				return false
			}
			seen[t] = ns
		}
		for _, t := range bt {
			ns, ok := b.NextState(st, t)
			if !ok || seen[t] != ns {
				return false
			}
			if !walk(ns) {
				return false
			}
		}
		return true
	}
	return walk(a.InitialState())
}

// BuildStandard runs the eager Index Builder algorithm (§4.3): seed the
// work set with the DFA's start state, pop-simulate-record until drained,
// inserting EOS at every final state and discarding tokens that drive the
// DFA dead. The work set is partitioned across config.Workers goroutines;
// deduplication is a mutex-guarded insert-once visited set, matching the
// teacher's cache shape generalized from NFA-state-sets to bare DFA state
// ids (post-determinization, states are already concrete integers).
func BuildStandard(d *dfa.DFA, v *vocab.Vocabulary, config BuilderConfig) (*StandardIndex, error) {
	if config.Workers == 0 {
		config.Workers = DefaultBuilderConfig().Workers
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("index build starting",
		"dfa_states", d.NumStates(), "vocab_len", v.Len(), "workers", config.Workers)

	sink := State(d.NumStates())
	initial := State(d.Start())

	var mu sync.Mutex
	rows := make(map[State]Row)
	finals := map[State]bool{}

	visited := map[State]bool{initial: true}
	queue := make(chan State, 4096)

	var pending sync.WaitGroup
	pending.Add(1)
	queue <- initial

	var anyLegal bool
	var anyLegalMu sync.Mutex

	var workers sync.WaitGroup
	for i := 0; i < config.Workers; i++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			for s := range queue {
				row, stateIsFinal := computeRow(d, v, s, sink)

				mu.Lock()
				rows[s] = row
				if stateIsFinal {
					finals[s] = true
				}
				mu.Unlock()

				if len(row) > 0 {
					anyLegalMu.Lock()
					anyLegal = true
					anyLegalMu.Unlock()
				}

				for _, next := range row {
					if next == sink {
						continue
					}
					mu.Lock()
					isNew := !visited[next]
					if isNew {
						visited[next] = true
					}
					mu.Unlock()
					if isNew {
						pending.Add(1)
						queue <- next
					}
				}
				pending.Done()
			}
		}()
	}

	go func() {
		pending.Wait()
		close(queue)
	}()
	workers.Wait()

	if !anyLegal {
		return nil, &BuildError{Err: ErrNoLegalContinuation}
	}

	finals[sink] = true
	rows[sink] = Row{}

	slog.Debug("index build complete",
		"reachable_states", len(rows), "final_states", len(finals))

	return &StandardIndex{
		rows:     rows,
		initial:  initial,
		finals:   finals,
		sink:     sink,
		vocabLen: v.Len(),
		eos:      v.EOSTokenID(),
	}, nil
}

// computeRow simulates every vocabulary entry across d from state s,
// recording (token_id -> next_state) for every entry whose full byte
// string stays on a live DFA path, plus EOS -> sink if s is itself final.
func computeRow(d *dfa.DFA, v *vocab.Vocabulary, s State, sink State) (Row, bool) {
	row := make(Row)
	dfaState := dfa.StateID(s)
	for _, entry := range v.Entries() {
		cur := dfaState
		dead := false
		for _, b := range entry.Bytes {
			cur = d.Next(cur, b)
			if cur == dfa.DeadState {
				dead = true
				break
			}
		}
		if dead {
			continue
		}
		for _, id := range entry.IDs {
			row[id] = State(cur)
		}
	}
	isFinal := d.IsMatch(dfaState)
	if isFinal {
		row[v.EOSTokenID()] = sink
	}
	return row, isFinal
}
