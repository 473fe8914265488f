package guide

import (
	"errors"
	"fmt"
)

// ErrNoNextState indicates advance was called with a token not among
// current_tokens, or on a Guide that has already reached Finished.
var ErrNoNextState = errors.New("no next state for token")

// ErrMaskTooSmall indicates fill_mask's destination cannot hold a bit for
// every token id in the Guide's vocabulary.
var ErrMaskTooSmall = errors.New("mask buffer too small")

// AdvanceError wraps a failed advance, carrying the state and token that
// caused it.
type AdvanceError struct {
	State State
	Token int
	Err   error
}

func (e *AdvanceError) Error() string {
	return fmt.Sprintf("guide: advance(state=%d, token=%d): %v", e.State, e.Token, e.Err)
}

func (e *AdvanceError) Unwrap() error { return e.Err }
