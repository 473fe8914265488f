package vocab_test

import (
	"testing"

	"github.com/tokenfsm/tokenfsm/vocab"
)

func TestNewRejectsEmptyMapping(t *testing.T) {
	if _, err := vocab.New(0, nil); err == nil {
		t.Fatal("expected error constructing from an empty mapping")
	}
}

func TestNewRejectsEOSCollision(t *testing.T) {
	_, err := vocab.New(5, []vocab.Entry{{Bytes: []byte("a"), IDs: []vocab.TokenID{5}}})
	if err == nil {
		t.Fatal("expected error when a token id equals eos")
	}
}

func TestNewRejectsEmptyToken(t *testing.T) {
	_, err := vocab.New(5, []vocab.Entry{{Bytes: nil, IDs: []vocab.TokenID{0}}})
	if err == nil {
		t.Fatal("expected error constructing with an empty token")
	}
}

func TestNewRejectsDuplicateID(t *testing.T) {
	_, err := vocab.New(5, []vocab.Entry{
		{Bytes: []byte("a"), IDs: []vocab.TokenID{0}},
		{Bytes: []byte("b"), IDs: []vocab.TokenID{0}},
	})
	if err == nil {
		t.Fatal("expected error for a duplicate id across entries")
	}
}

func TestInsertAndGet(t *testing.T) {
	v, err := vocab.New(5, []vocab.Entry{{Bytes: []byte("a"), IDs: []vocab.TokenID{0}}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := v.Insert([]byte("b"), 1); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if got := v.Get([]byte("b")); len(got) != 1 || got[0] != 1 {
		t.Errorf("Get(b) = %v, want [1]", got)
	}
	if got := v.Get([]byte("missing")); got != nil {
		t.Errorf("Get(missing) = %v, want nil", got)
	}
}

func TestRemove(t *testing.T) {
	v, err := vocab.New(5, []vocab.Entry{
		{Bytes: []byte("a"), IDs: []vocab.TokenID{0}},
		{Bytes: []byte("b"), IDs: []vocab.TokenID{1}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	v.Remove([]byte("a"))
	if got := v.Get([]byte("a")); got != nil {
		t.Errorf("Get(a) after Remove = %v, want nil", got)
	}
	if got := v.Get([]byte("b")); len(got) != 1 || got[0] != 1 {
		t.Errorf("Get(b) after removing a = %v, want [1]", got)
	}
}

func TestLenIncludesEOS(t *testing.T) {
	v, err := vocab.New(5, []vocab.Entry{{Bytes: []byte("a"), IDs: []vocab.TokenID{0}}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := v.Len(); got != 6 {
		t.Errorf("Len() = %d, want 6", got)
	}
}

func TestEqualIsStructuralAndOrderIndependent(t *testing.T) {
	a, err := vocab.New(5, []vocab.Entry{
		{Bytes: []byte("a"), IDs: []vocab.TokenID{0}},
		{Bytes: []byte("b"), IDs: []vocab.TokenID{1}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := vocab.New(5, []vocab.Entry{
		{Bytes: []byte("b"), IDs: []vocab.TokenID{1}},
		{Bytes: []byte("a"), IDs: []vocab.TokenID{0}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !a.Equal(b) {
		t.Error("expected a and b to be equal regardless of insertion order")
	}
	if err := b.Insert([]byte("c"), 2); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if a.Equal(b) {
		t.Error("expected a and b to differ after b gained an extra entry")
	}
}
