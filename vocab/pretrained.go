package vocab

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/coregx/ahocorasick"
	"github.com/tokenfsm/tokenfsm/internal/simd"
)

// TokenizerSource is the injectable collaborator FromPretrained reads from.
// Implementations fetch and cache tokenizer artifacts by whatever means fit
// the caller's environment (HTTP, local cache, embedded data); this package
// performs no I/O of its own.
type TokenizerSource interface {
	// FetchTokenizerJSON returns the raw bytes of a tokenizer.json-style
	// artifact for modelRef at the given revision ("" means default).
	FetchTokenizerJSON(modelRef, revision string) ([]byte, error)
}

// tokenizerFile is the subset of a tokenizer.json document this package
// understands: the vocabulary table and its declared special/added tokens.
type tokenizerFile struct {
	Model struct {
		Vocab map[string]int32 `json:"vocab"`
	} `json:"model"`
	AddedTokens []struct {
		ID      int32  `json:"id"`
		Content string `json:"content"`
		Special bool   `json:"special"`
	} `json:"added_tokens"`
}

// FromPretrained fetches modelRef's tokenizer artifact via src, normalizes
// it into a Vocabulary, and strips every special token except eosContent.
// The normalization policy matches spec: special tokens other than EOS are
// dropped from the bytes mapping; the tokenizer's own EOS id is preserved.
func FromPretrained(src TokenizerSource, modelRef, revision, eosContent string) (*Vocabulary, error) {
	raw, err := src.FetchTokenizerJSON(modelRef, revision)
	if err != nil {
		return nil, &VocabularyError{Op: "FromPretrained", Err: fmt.Errorf("fetch %q: %w", modelRef, err)}
	}

	var tf tokenizerFile
	if err := json.Unmarshal(raw, &tf); err != nil {
		return nil, &VocabularyError{Op: "FromPretrained", Err: fmt.Errorf("decode tokenizer.json: %w", err)}
	}

	specialMarkers := make([][]byte, 0, len(tf.AddedTokens))
	eosID := TokenID(-1)
	for _, at := range tf.AddedTokens {
		if at.Content == eosContent {
			eosID = TokenID(at.ID)
			continue
		}
		if at.Special {
			specialMarkers = append(specialMarkers, []byte(at.Content))
		}
	}
	if eosID == -1 {
		return nil, &VocabularyError{Op: "FromPretrained", Err: fmt.Errorf("eos content %q not found among added_tokens", eosContent)}
	}

	matcher, err := newSpecialTokenMatcher(specialMarkers)
	if err != nil {
		return nil, &VocabularyError{Op: "FromPretrained", Err: err}
	}

	entries := make([]Entry, 0, len(tf.Model.Vocab))
	dropped, asciiCount := 0, 0
	for text, id := range tf.Model.Vocab {
		tokenID := TokenID(id)
		if tokenID == eosID {
			continue
		}
		b := []byte(text)
		if matcher.matchesWholeInput(b) {
			dropped++
			continue // dropped: a special token other than EOS
		}
		if simd.IsASCII(b) {
			asciiCount++
		}
		entries = append(entries, Entry{Bytes: b, IDs: []TokenID{tokenID}})
	}

	slog.Debug("vocabulary normalized from pretrained tokenizer",
		"model_ref", modelRef,
		"kept_tokens", len(entries),
		"dropped_special_tokens", dropped,
		"ascii_tokens", asciiCount,
	)

	return New(eosID, entries)
}

// specialTokenMatcher wraps the Aho-Corasick automaton used to recognize a
// tokenizer's declared special-token surface forms in one scan, instead of
// a linear string-equality loop against every marker.
type specialTokenMatcher struct {
	m *ahocorasick.Automaton
}

// newSpecialTokenMatcher compiles markers into a multi-literal automaton.
// A matcher with no markers always reports no match.
func newSpecialTokenMatcher(markers [][]byte) (*specialTokenMatcher, error) {
	if len(markers) == 0 {
		return &specialTokenMatcher{}, nil
	}
	builder := ahocorasick.NewBuilder()
	for _, marker := range markers {
		builder.AddPattern(marker)
	}
	m, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build special-token matcher: %w", err)
	}
	return &specialTokenMatcher{m: m}, nil
}

// matchesWholeInput reports whether some special-token marker matches all
// of b, meaning b is exactly that special token rather than merely
// containing it as a substring.
func (stm *specialTokenMatcher) matchesWholeInput(b []byte) bool {
	if stm.m == nil {
		return false
	}
	match := stm.m.Find(b, 0)
	return match != nil && match.Start == 0 && match.End == len(b)
}
