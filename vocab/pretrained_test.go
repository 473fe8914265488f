package vocab_test

import (
	"testing"

	"github.com/tokenfsm/tokenfsm/vocab"
)

type fakeTokenizerSource struct {
	body []byte
}

func (f fakeTokenizerSource) FetchTokenizerJSON(modelRef, revision string) ([]byte, error) {
	return f.body, nil
}

func TestFromPretrainedStripsSpecialTokensKeepsEOS(t *testing.T) {
	body := []byte(`{
		"model": {"vocab": {"hello": 0, "world": 1, "<pad>": 2, "</s>": 3}},
		"added_tokens": [
			{"id": 2, "content": "<pad>", "special": true},
			{"id": 3, "content": "</s>", "special": true}
		]
	}`)
	v, err := vocab.FromPretrained(fakeTokenizerSource{body: body}, "dummy/model", "", "</s>")
	if err != nil {
		t.Fatalf("FromPretrained: %v", err)
	}
	if v.EOSTokenID() != 3 {
		t.Errorf("EOSTokenID() = %d, want 3", v.EOSTokenID())
	}
	if got := v.Get([]byte("<pad>")); got != nil {
		t.Errorf("expected <pad> stripped, got %v", got)
	}
	if got := v.Get([]byte("hello")); len(got) != 1 || got[0] != 0 {
		t.Errorf("Get(hello) = %v, want [0]", got)
	}
}

func TestFromPretrainedMissingEOSErrors(t *testing.T) {
	body := []byte(`{"model": {"vocab": {"hello": 0}}, "added_tokens": []}`)
	if _, err := vocab.FromPretrained(fakeTokenizerSource{body: body}, "dummy/model", "", "</s>"); err == nil {
		t.Fatal("expected error when declared eos content is absent")
	}
}
