package guide_test

import (
	"testing"

	"github.com/tokenfsm/tokenfsm/dfa"
	"github.com/tokenfsm/tokenfsm/guide"
	"github.com/tokenfsm/tokenfsm/index"
	"github.com/tokenfsm/tokenfsm/mask"
	"github.com/tokenfsm/tokenfsm/nfa"
	"github.com/tokenfsm/tokenfsm/vocab"
)

func buildGuide(t *testing.T, pattern string, eos vocab.TokenID, entries []vocab.Entry) *guide.Guide {
	t.Helper()
	n, err := nfa.NewCompiler(nfa.DefaultCompilerConfig()).Compile(pattern)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	d, err := dfa.Determinize(n, dfa.DefaultConfig())
	if err != nil {
		t.Fatalf("determinize: %v", err)
	}
	v, err := vocab.New(eos, entries)
	if err != nil {
		t.Fatalf("vocab.New: %v", err)
	}
	idx, err := index.BuildStandard(d, v, index.DefaultBuilderConfig())
	if err != nil {
		t.Fatalf("BuildStandard: %v", err)
	}
	return guide.New(idx)
}

func TestGuideAdvanceAndFinish(t *testing.T) {
	g := buildGuide(t, "z[ab]z", 4, []vocab.Entry{
		{Bytes: []byte("a"), IDs: []vocab.TokenID{1}},
		{Bytes: []byte("b"), IDs: []vocab.TokenID{2}},
		{Bytes: []byte("z"), IDs: []vocab.TokenID{3}},
	})

	if g.IsFinished() {
		t.Fatal("fresh guide should not be finished")
	}
	if _, err := g.Advance(3); err != nil { // z
		t.Fatalf("advance(z): %v", err)
	}
	if _, err := g.Advance(1); err != nil { // a
		t.Fatalf("advance(a): %v", err)
	}
	allowed, err := g.Advance(3) // z
	if err != nil {
		t.Fatalf("advance(z): %v", err)
	}
	if len(allowed) != 1 || allowed[0] != 4 {
		t.Errorf("allowed after final z = %v, want [4]", allowed)
	}
	if _, err := g.Advance(4); err != nil { // EOS
		t.Fatalf("advance(EOS): %v", err)
	}
	if !g.IsFinished() {
		t.Error("expected guide to be finished after EOS")
	}
}

func TestGuideAdvanceRejectsIllegalToken(t *testing.T) {
	g := buildGuide(t, "z[ab]z", 4, []vocab.Entry{
		{Bytes: []byte("a"), IDs: []vocab.TokenID{1}},
		{Bytes: []byte("b"), IDs: []vocab.TokenID{2}},
		{Bytes: []byte("z"), IDs: []vocab.TokenID{3}},
	})
	if _, err := g.Advance(1); err == nil {
		t.Fatal("expected NoNextState advancing on 'a' before any 'z'")
	}
}

func TestGuideCloneIndependence(t *testing.T) {
	g := buildGuide(t, "[0-9]", 2, []vocab.Entry{
		{Bytes: []byte("0"), IDs: []vocab.TokenID{0}},
		{Bytes: []byte("1"), IDs: []vocab.TokenID{1}},
	})
	clone := g.Clone()
	if !g.Equal(clone) {
		t.Fatal("fresh clone should be equal to original")
	}
	if _, err := g.Advance(0); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if g.Equal(clone) {
		t.Error("advancing the original should not affect the clone")
	}
}

// TestFillMaskRoundTrip checks testable property #4/mask round-trip.
func TestFillMaskRoundTrip(t *testing.T) {
	g := buildGuide(t, "[0-9]", 2, []vocab.Entry{
		{Bytes: []byte("0"), IDs: []vocab.TokenID{0}},
		{Bytes: []byte("1"), IDs: []vocab.TokenID{1}},
	})
	words := make([]uint32, 1)
	if err := g.FillMask(words); err != nil {
		t.Fatalf("FillMask: %v", err)
	}
	decoded := mask.Decode(words, 3)
	want := map[int]bool{0: true, 1: true}
	if len(decoded) != len(want) {
		t.Fatalf("decoded = %v, want keys of %v", decoded, want)
	}
	for _, id := range decoded {
		if !want[id] {
			t.Errorf("unexpected bit set for token %d", id)
		}
	}
}

func TestAdvanceWithMask(t *testing.T) {
	g := buildGuide(t, "[0-9][0-9]", 2, []vocab.Entry{
		{Bytes: []byte("0"), IDs: []vocab.TokenID{0}},
		{Bytes: []byte("1"), IDs: []vocab.TokenID{1}},
	})
	words := make([]uint32, 1)
	if err := g.AdvanceWithMask(0, words); err != nil {
		t.Fatalf("AdvanceWithMask: %v", err)
	}
	if !mask.IsSet(words, 0) || !mask.IsSet(words, 1) {
		t.Errorf("expected both digit tokens allowed after first digit, words=%v", words)
	}
	if mask.IsSet(words, 2) {
		t.Error("EOS should not be allowed before the second digit")
	}
}

func TestFillMaskTooSmall(t *testing.T) {
	g := buildGuide(t, "[0-9]", 2, []vocab.Entry{
		{Bytes: []byte("0"), IDs: []vocab.TokenID{0}},
		{Bytes: []byte("1"), IDs: []vocab.TokenID{1}},
	})
	var tiny []uint32
	if err := g.FillMask(tiny); err == nil {
		t.Fatal("expected MaskTooSmall for a zero-length buffer")
	}
}
