package mask

import "errors"

// ErrMaskTooSmall indicates the destination buffer cannot hold a bit for
// every token id up to the vocabulary's maximum.
var ErrMaskTooSmall = errors.New("mask buffer too small")

// ErrUnalignedMask indicates a raw-pointer write target is not sized to a
// whole number of words for the chosen word size.
var ErrUnalignedMask = errors.New("mask buffer not aligned to word size")
