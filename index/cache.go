package index

import (
	"sync"
	"sync/atomic"
)

// cache is a concurrent insert-once map from State to its computed Row,
// ported from the teacher's lazy-DFA cache shape: a fast RLock read path
// for the common case (row already computed by another goroutine or a
// previous step), and a Lock write path that re-checks before inserting so
// two racing computations of the same row never both win.
type cache struct {
	mu   sync.RWMutex
	rows map[State]Row

	hits   atomic.Uint64
	misses atomic.Uint64
}

func newCache(initialCapacity int) *cache {
	return &cache{rows: make(map[State]Row, initialCapacity)}
}

// get returns the cached row for s, if present, recording a hit or miss.
func (c *cache) get(s State) (Row, bool) {
	c.mu.RLock()
	row, ok := c.rows[s]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return row, ok
}

// insertOnce stores row for s unless another goroutine already did, and
// returns whichever row ends up cached (the caller's or the winner's).
func (c *cache) insertOnce(s State, row Row) Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.rows[s]; ok {
		return existing
	}
	c.rows[s] = row
	return row
}

// keys returns a snapshot of every state currently cached.
func (c *cache) keys() []State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]State, 0, len(c.rows))
	for s := range c.rows {
		out = append(out, s)
	}
	return out
}

// Stats reports cumulative cache hit/miss counts, for CLI/logging use.
type Stats struct {
	Hits, Misses uint64
}

func (c *cache) stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}
