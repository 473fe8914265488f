package mask_test

import (
	"testing"

	"github.com/tokenfsm/tokenfsm/mask"
)

func TestFillTokenBitmaskLayout(t *testing.T) {
	words := make([]uint32, mask.WordsFor32(40))
	if err := mask.FillTokenBitmask(words, 40, []int{0, 1, 31, 32, 39}); err != nil {
		t.Fatalf("FillTokenBitmask: %v", err)
	}
	for _, id := range []int{0, 1, 31, 32, 39} {
		if !mask.IsSet(words, id) {
			t.Errorf("expected bit %d set", id)
		}
	}
	for _, id := range []int{2, 30, 33, 38} {
		if mask.IsSet(words, id) {
			t.Errorf("unexpected bit %d set", id)
		}
	}
}

func TestFillTokenBitmaskTooSmall(t *testing.T) {
	words := make([]uint32, 1)
	if err := mask.FillTokenBitmask(words, 64, nil); err == nil {
		t.Fatal("expected ErrMaskTooSmall")
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	allowed := []int{3, 7, 9, 100}
	words := make([]uint32, mask.WordsFor32(128))
	if err := mask.FillTokenBitmask(words, 128, allowed); err != nil {
		t.Fatalf("FillTokenBitmask: %v", err)
	}
	got := mask.Decode(words, 128)
	if len(got) != len(allowed) {
		t.Fatalf("Decode = %v, want %v", got, allowed)
	}
	want := map[int]bool{}
	for _, id := range allowed {
		want[id] = true
	}
	for _, id := range got {
		if !want[id] {
			t.Errorf("unexpected id %d in decode", id)
		}
	}
}

func TestWriteMaskIntoRejectsUnsupportedElementSize(t *testing.T) {
	dst := make([]byte, 16)
	if err := mask.WriteMaskInto(dst, 4, 8, 100, nil); err == nil {
		t.Fatal("expected ErrUnalignedMask for 8-byte elements")
	}
}

func TestApplyTokenBitmaskMasksLogits(t *testing.T) {
	logits := []float32{1, 2, 3, 4}
	words := make([]uint32, mask.WordsFor32(4))
	if err := mask.FillTokenBitmask(words, 4, []int{1, 3}); err != nil {
		t.Fatalf("FillTokenBitmask: %v", err)
	}
	mask.ApplyTokenBitmask(logits, words)
	if logits[1] != 2 || logits[3] != 4 {
		t.Errorf("expected allowed logits untouched, got %v", logits)
	}
	if logits[0] == 1 || logits[2] == 3 {
		t.Errorf("expected disallowed logits masked, got %v", logits)
	}
}

func TestFirstAllowedTokenIDByteMSBFirst(t *testing.T) {
	// byte 0 = 0b00000100 -> MSB-first bit index 5 set -> token id 5
	buf := []byte{0b00000100}
	if got := mask.FirstAllowedTokenID(buf); got != 5 {
		t.Errorf("FirstAllowedTokenID = %d, want 5", got)
	}
	if got := mask.FirstAllowedTokenID([]byte{0}); got != -1 {
		t.Errorf("FirstAllowedTokenID(empty) = %d, want -1", got)
	}
}
