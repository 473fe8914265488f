package dfa_test

import (
	"testing"

	"github.com/tokenfsm/tokenfsm/dfa"
	"github.com/tokenfsm/tokenfsm/nfa"
)

func compileDFA(t *testing.T, pattern string) *dfa.DFA {
	t.Helper()
	n, err := nfa.NewCompiler(nfa.DefaultCompilerConfig()).Compile(pattern)
	if err != nil {
		t.Fatalf("nfa compile(%q): %v", pattern, err)
	}
	d, err := dfa.Determinize(n, dfa.DefaultConfig())
	if err != nil {
		t.Fatalf("determinize(%q): %v", pattern, err)
	}
	return d
}

func TestDeterminizeDigit(t *testing.T) {
	d := compileDFA(t, "[0-9]")
	for _, b := range []byte("0123456789") {
		if !d.Accepts([]byte{b}) {
			t.Errorf("expected accept on digit %q", b)
		}
	}
	if d.Accepts([]byte("a")) {
		t.Error("unexpected accept on 'a'")
	}
	if d.Accepts([]byte("12")) {
		t.Error("unexpected accept on multi-digit string (full-match only)")
	}
}

func TestDeterminizeAlternation(t *testing.T) {
	d := compileDFA(t, "z[ab]z")
	for _, s := range []string{"zaz", "zbz"} {
		if !d.Accepts([]byte(s)) {
			t.Errorf("expected accept on %q", s)
		}
	}
	if d.Accepts([]byte("zcz")) {
		t.Error("unexpected accept on \"zcz\"")
	}
}

func TestDeterminizeEmptyLanguageRejected(t *testing.T) {
	n, err := nfa.NewCompiler(nfa.DefaultCompilerConfig()).Compile("[^\\x00-\\x{10FFFF}]")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, err := dfa.Determinize(n, dfa.DefaultConfig()); err == nil {
		t.Fatal("expected ErrEmptyLanguage")
	}
}

func TestMinimizeProducesFewerOrEqualStates(t *testing.T) {
	n, err := nfa.NewCompiler(nfa.DefaultCompilerConfig()).Compile("(a|a)(b|b)*")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	unminimized, err := dfa.Determinize(n, dfa.Config{MaxStates: 1 << 10, Minimize: false})
	if err != nil {
		t.Fatalf("determinize unminimized: %v", err)
	}
	minimized, err := dfa.Determinize(n, dfa.Config{MaxStates: 1 << 10, Minimize: true})
	if err != nil {
		t.Fatalf("determinize minimized: %v", err)
	}
	if minimized.NumStates() > unminimized.NumStates() {
		t.Errorf("minimized state count %d exceeds unminimized %d", minimized.NumStates(), unminimized.NumStates())
	}
}
