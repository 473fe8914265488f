// Package tokenfsm ties together the compiler, index builder, and guide
// into the single call a caller actually wants: turn a regex (or a JSON
// Schema) and a vocabulary into a Guide that can walk a decoding loop.
package tokenfsm

import (
	"github.com/tokenfsm/tokenfsm/dfa"
	"github.com/tokenfsm/tokenfsm/guide"
	"github.com/tokenfsm/tokenfsm/index"
	"github.com/tokenfsm/tokenfsm/jsonschema"
	"github.com/tokenfsm/tokenfsm/nfa"
	"github.com/tokenfsm/tokenfsm/vocab"
)

// CompileRegex parses pattern and returns its minimized byte-alphabet DFA.
func CompileRegex(pattern string) (*dfa.DFA, error) {
	return CompileRegexWithConfig(pattern, nfa.DefaultCompilerConfig(), dfa.DefaultConfig())
}

// CompileRegexWithConfig is CompileRegex with explicit compiler/determinize
// configuration, for callers tuning recursion depth or state budgets.
func CompileRegexWithConfig(pattern string, cc nfa.CompilerConfig, dc dfa.Config) (*dfa.DFA, error) {
	n, err := nfa.NewCompiler(cc).Compile(pattern)
	if err != nil {
		return nil, err
	}
	return dfa.Determinize(n, dc)
}

// CompileSchema translates a JSON Schema document into a regex and compiles
// it, in one call.
func CompileSchema(schemaJSON []byte) (*dfa.DFA, error) {
	s, err := jsonschema.Parse(schemaJSON)
	if err != nil {
		return nil, err
	}
	pattern, err := jsonschema.ToRegex(s)
	if err != nil {
		return nil, err
	}
	return CompileRegex(pattern)
}

// BuildIndex constructs the eager (Standard) Index over d and v, using
// DefaultBuilderConfig's worker pool sizing.
func BuildIndex(d *dfa.DFA, v *vocab.Vocabulary) (*index.StandardIndex, error) {
	return index.BuildStandard(d, v, index.DefaultBuilderConfig())
}

// BuildCompressedIndex wraps d and v in the lazy (Compressed) Index
// variant, computing rows on first visit instead of up front.
func BuildCompressedIndex(d *dfa.DFA, v *vocab.Vocabulary) *index.CompressedIndex {
	return index.NewCompressed(d, v, index.DefaultCompressedConfig())
}

// NewGuide creates a Guide over idx, positioned at its initial state.
func NewGuide(idx index.Index) *guide.Guide {
	return guide.New(idx)
}

// Guided is the common-case one-shot: compile pattern, build an eager
// Index over v, and return a ready Guide.
func Guided(pattern string, v *vocab.Vocabulary) (*guide.Guide, error) {
	d, err := CompileRegex(pattern)
	if err != nil {
		return nil, err
	}
	idx, err := BuildIndex(d, v)
	if err != nil {
		return nil, err
	}
	return NewGuide(idx), nil
}
