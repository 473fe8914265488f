// Package vocab implements the immutable token byte-string ↔ token-id
// mapping the Index Builder walks the DFA against.
package vocab

// TokenID is a vocabulary token id. Ids are non-negative and densely packed
// up to Len()-1; EOSTokenID() is a specific id outside the regular bytes→ids
// mapping.
type TokenID int32

// Entry pairs a token's byte string with the one or more ids that share it
// (byte-fallback tokenizers can map identical bytes to multiple ids).
type Entry struct {
	Bytes []byte
	IDs   []TokenID
}

// Vocabulary is an immutable mapping from token byte-strings to token ids,
// plus a distinguished end-of-sequence id. Token bytes may be arbitrary —
// not necessarily valid UTF-8 — since byte-fallback tokenizers emit raw
// bytes for tokens like "<0x0A>".
//
// Iteration order (Entries) is insertion order, fixed at construction: the
// Index Builder's output is only deterministic if vocabulary iteration is.
type Vocabulary struct {
	eos     TokenID
	entries []Entry
	index   map[string]int // byte-string key -> position in entries
	maxID   TokenID
}

// New constructs a Vocabulary from an ordered list of entries. It rejects:
// an empty entries list, any entry with empty bytes, any id equal to eos,
// any negative id, and any id appearing under more than one byte string.
func New(eos TokenID, entries []Entry) (*Vocabulary, error) {
	if len(entries) == 0 {
		return nil, &VocabularyError{Op: "New", Err: ErrInvalidVocabulary}
	}
	v := &Vocabulary{
		eos:     eos,
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	seenIDs := make(map[TokenID]bool)
	for _, e := range entries {
		if len(e.Bytes) == 0 {
			return nil, &VocabularyError{Op: "New", Err: ErrEmptyToken}
		}
		key := string(e.Bytes)
		if _, exists := v.index[key]; exists {
			return nil, &VocabularyError{Op: "New", Err: ErrInvalidVocabulary}
		}
		ids := make([]TokenID, len(e.IDs))
		copy(ids, e.IDs)
		for _, id := range ids {
			if id < 0 {
				return nil, &VocabularyError{Op: "New", Err: ErrInvalidVocabulary}
			}
			if id == eos {
				return nil, &VocabularyError{Op: "New", Err: ErrInvalidVocabulary}
			}
			if seenIDs[id] {
				return nil, &VocabularyError{Op: "New", Err: ErrDuplicateID}
			}
			seenIDs[id] = true
			if id > v.maxID {
				v.maxID = id
			}
		}
		v.index[key] = len(v.entries)
		v.entries = append(v.entries, Entry{Bytes: append([]byte(nil), e.Bytes...), IDs: ids})
	}
	if eos > v.maxID {
		v.maxID = eos
	}
	return v, nil
}

// Insert appends id to the list under bytes, creating the entry if absent.
// It rejects a duplicate id already assigned elsewhere and the empty byte
// string.
func (v *Vocabulary) Insert(tokenBytes []byte, id TokenID) error {
	if len(tokenBytes) == 0 {
		return &VocabularyError{Op: "Insert", Err: ErrEmptyToken}
	}
	if id == v.eos || id < 0 {
		return &VocabularyError{Op: "Insert", Err: ErrInvalidVocabulary}
	}
	for _, e := range v.entries {
		for _, existing := range e.IDs {
			if existing == id {
				return &VocabularyError{Op: "Insert", Err: ErrDuplicateID}
			}
		}
	}
	key := string(tokenBytes)
	if pos, ok := v.index[key]; ok {
		v.entries[pos].IDs = append(v.entries[pos].IDs, id)
	} else {
		v.index[key] = len(v.entries)
		v.entries = append(v.entries, Entry{Bytes: append([]byte(nil), tokenBytes...), IDs: []TokenID{id}})
	}
	if id > v.maxID {
		v.maxID = id
	}
	return nil
}

// Remove deletes the entry under bytes, if any.
func (v *Vocabulary) Remove(tokenBytes []byte) {
	key := string(tokenBytes)
	pos, ok := v.index[key]
	if !ok {
		return
	}
	v.entries = append(v.entries[:pos], v.entries[pos+1:]...)
	delete(v.index, key)
	for k, p := range v.index {
		if p > pos {
			v.index[k] = p - 1
		}
	}
	v.maxID = v.eos
	for _, e := range v.entries {
		for _, id := range e.IDs {
			if id > v.maxID {
				v.maxID = id
			}
		}
	}
}

// Get returns the ids registered under bytes, or nil if absent.
func (v *Vocabulary) Get(tokenBytes []byte) []TokenID {
	pos, ok := v.index[string(tokenBytes)]
	if !ok {
		return nil
	}
	return v.entries[pos].IDs
}

// Len returns the highest id referenced (including EOS) plus one.
func (v *Vocabulary) Len() int { return int(v.maxID) + 1 }

// EOSTokenID returns the distinguished end-of-sequence id.
func (v *Vocabulary) EOSTokenID() TokenID { return v.eos }

// Entries returns the vocabulary's entries in fixed insertion order. The
// returned slice must not be mutated.
func (v *Vocabulary) Entries() []Entry { return v.entries }

// Equal reports whether v and other have the same EOS id and the same
// bytes→ids mapping, independent of insertion order.
func (v *Vocabulary) Equal(other *Vocabulary) bool {
	if other == nil || v.eos != other.eos || len(v.entries) != len(other.entries) {
		return false
	}
	for key, pos := range v.index {
		otherPos, ok := other.index[key]
		if !ok {
			return false
		}
		a, b := v.entries[pos].IDs, other.entries[otherPos].IDs
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
	}
	return true
}
