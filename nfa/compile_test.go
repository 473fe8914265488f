package nfa

import "testing"

func compileOrFatal(t *testing.T, pattern string) *NFA {
	t.Helper()
	n, err := NewCompiler(DefaultCompilerConfig()).Compile(pattern)
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	return n
}

// run simulates n over s via a naive NFA walk (epsilon closure + move),
// independent of the dfa package, to sanity-check compile.go fragments in
// isolation.
func run(n *NFA, s []byte) bool {
	cur := map[StateID]bool{n.Start(): true}
	closure(n, cur)
	for _, b := range s {
		next := map[StateID]bool{}
		for id := range cur {
			st := n.State(id)
			if st == nil {
				continue
			}
			switch st.Kind() {
			case StateByteRange:
				lo, hi, nx := st.ByteRange()
				if b >= lo && b <= hi {
					next[nx] = true
				}
			case StateSparse:
				for _, tr := range st.Transitions() {
					if b >= tr.Lo && b <= tr.Hi {
						next[tr.Next] = true
					}
				}
			}
		}
		closure(n, next)
		cur = next
	}
	for id := range cur {
		if n.IsMatch(id) {
			return true
		}
	}
	return false
}

func closure(n *NFA, set map[StateID]bool) {
	var stack []StateID
	for id := range set {
		stack = append(stack, id)
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		st := n.State(id)
		if st == nil {
			continue
		}
		switch st.Kind() {
		case StateSplit:
			l, r := st.Split()
			for _, x := range []StateID{l, r} {
				if x != InvalidState && !set[x] {
					set[x] = true
					stack = append(stack, x)
				}
			}
		case StateEpsilon:
			x := st.Epsilon()
			if x != InvalidState && !set[x] {
				set[x] = true
				stack = append(stack, x)
			}
		}
	}
}

func TestCompileLiteral(t *testing.T) {
	n := compileOrFatal(t, "abc")
	if !run(n, []byte("abc")) {
		t.Error("expected match on \"abc\"")
	}
	if run(n, []byte("abd")) {
		t.Error("unexpected match on \"abd\"")
	}
}

func TestCompileCharClass(t *testing.T) {
	n := compileOrFatal(t, "[0-9]")
	for _, b := range []byte("0123456789") {
		if !run(n, []byte{b}) {
			t.Errorf("expected match on digit %q", b)
		}
	}
	if run(n, []byte("a")) {
		t.Error("unexpected match on \"a\"")
	}
}

func TestCompileAlternateAndStar(t *testing.T) {
	n := compileOrFatal(t, "(ab|cd)*")
	for _, s := range []string{"", "ab", "cd", "abcd", "cdab", "ababcdcd"} {
		if !run(n, []byte(s)) {
			t.Errorf("expected match on %q", s)
		}
	}
	if run(n, []byte("abc")) {
		t.Error("unexpected match on \"abc\"")
	}
}

func TestCompileRepeatRange(t *testing.T) {
	n := compileOrFatal(t, "a{2,4}")
	for s, want := range map[string]bool{
		"a": false, "aa": true, "aaa": true, "aaaa": true, "aaaaa": false,
	} {
		if got := run(n, []byte(s)); got != want {
			t.Errorf("run(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestCompileRejectsAnchors(t *testing.T) {
	for _, pattern := range []string{"^abc", "abc$", `\babc\b`} {
		if _, err := NewCompiler(DefaultCompilerConfig()).Compile(pattern); err == nil {
			t.Errorf("Compile(%q): expected ErrUnsupported, got nil", pattern)
		}
	}
}

func TestCompileUnicodeRange(t *testing.T) {
	n := compileOrFatal(t, "[é-ÿ]")
	if !run(n, []byte("é")) {
		t.Error("expected match on U+00E9")
	}
	if run(n, []byte("a")) {
		t.Error("unexpected match on ascii 'a'")
	}
}
