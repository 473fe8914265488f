package index

import (
	"github.com/tokenfsm/tokenfsm/dfa"
	"github.com/tokenfsm/tokenfsm/vocab"
)

// CompressedIndex is the lazy Index variant: rows are computed the first
// time a state is visited at runtime and cached thereafter. The underlying
// DFA and Vocabulary are immutable and shared; only the cache is mutable,
// and it is safe for concurrent use by many Guides (§5).
type CompressedIndex struct {
	d        *dfa.DFA
	v        *vocab.Vocabulary
	cache    *cache
	initial  State
	sink     State
	vocabLen int
	eos      vocab.TokenID
}

// NewCompressed wraps d and v in a lazily-populated Index. Unlike
// BuildStandard it never walks the whole reachable state space up front,
// so it cannot detect ErrNoLegalContinuation at construction time, and no
// error is raised later either: at a state with zero legal tokens,
// AllowedTokens simply returns an empty list.
func NewCompressed(d *dfa.DFA, v *vocab.Vocabulary, config CompressedConfig) *CompressedIndex {
	return &CompressedIndex{
		d:        d,
		v:        v,
		cache:    newCache(config.InitialCapacity),
		initial:  State(d.Start()),
		sink:     State(d.NumStates()),
		vocabLen: v.Len(),
		eos:      v.EOSTokenID(),
	}
}

func (c *CompressedIndex) InitialState() State { return c.initial }

func (c *CompressedIndex) row(s State) Row {
	if s == c.sink {
		return Row{}
	}
	if row, ok := c.cache.get(s); ok {
		return row
	}
	row, _ := computeRow(c.d, c.v, s, c.sink)
	return c.cache.insertOnce(s, row)
}

func (c *CompressedIndex) IsFinal(s State) bool {
	if s == c.sink {
		return true
	}
	return c.d.IsMatch(dfa.StateID(s))
}

func (c *CompressedIndex) AllowedTokens(s State) []vocab.TokenID {
	return allowedFromRow(c.row(s))
}

func (c *CompressedIndex) NextState(s State, t vocab.TokenID) (State, bool) {
	ns, ok := c.row(s)[t]
	return ns, ok
}

func (c *CompressedIndex) FinalStates() []State {
	// Unlike StandardIndex, a Compressed index cannot enumerate every
	// final state without an eager walk (it would defeat the point of
	// laziness); it reports only those discovered through use so far,
	// plus the sink, which is always final.
	out := []State{c.sink}
	for _, s := range c.cache.keys() {
		if c.IsFinal(s) {
			out = append(out, s)
		}
	}
	return out
}

func (c *CompressedIndex) SinkState() State          { return c.sink }
func (c *CompressedIndex) VocabLen() int             { return c.vocabLen }
func (c *CompressedIndex) EOSTokenID() vocab.TokenID { return c.eos }

// Stats reports the lazy cache's cumulative hit/miss counts.
func (c *CompressedIndex) Stats() Stats { return c.cache.stats() }

func (c *CompressedIndex) Equal(other Index) bool {
	return genericIndexEqual(c, other)
}
