package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/tokenfsm/tokenfsm/vocab"
)

// toyVocabFile is the CLI's minimal on-disk vocabulary format, used for
// development — not a tokenizer.json artifact (that path goes through
// vocab.FromPretrained, which the CLI does not call).
type toyVocabFile struct {
	EOS    vocab.TokenID            `json:"eos"`
	Tokens map[string]vocab.TokenID `json:"tokens"`
}

func loadToyVocab(path string) (*vocab.Vocabulary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocab file %q: %w", path, err)
	}
	var tf toyVocabFile
	if err := json.Unmarshal(raw, &tf); err != nil {
		return nil, fmt.Errorf("decode vocab file %q: %w", path, err)
	}

	texts := make([]string, 0, len(tf.Tokens))
	for text := range tf.Tokens {
		texts = append(texts, text)
	}
	sort.Strings(texts)

	entries := make([]vocab.Entry, 0, len(texts))
	for _, text := range texts {
		entries = append(entries, vocab.Entry{Bytes: []byte(text), IDs: []vocab.TokenID{tf.Tokens[text]}})
	}
	return vocab.New(tf.EOS, entries)
}
