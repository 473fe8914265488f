// Package conv holds small checked integer conversions shared across
// packages that move between Go's native int and the fixed-width ids
// (uint32/int32) this module's wire formats and state tables use.
package conv

import (
	"errors"
	"fmt"
)

// ErrOverflow indicates a value did not fit the target width.
var ErrOverflow = errors.New("conv: value overflows target type")

// ToUint32 converts a non-negative int to uint32, erroring on overflow or a
// negative input.
func ToUint32(v int) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrOverflow, v)
	}
	if uint64(v) > uint64(^uint32(0)) {
		return 0, fmt.Errorf("%w: %d exceeds uint32", ErrOverflow, v)
	}
	return uint32(v), nil
}

// ToInt32 converts an int to int32, erroring on overflow.
func ToInt32(v int) (int32, error) {
	if v < -(1<<31) || v > (1<<31)-1 {
		return 0, fmt.Errorf("%w: %d exceeds int32 range", ErrOverflow, v)
	}
	return int32(v), nil
}

// MustUint32 is ToUint32 for values the caller already knows fit: it
// panics where ToUint32 would return an error.
func MustUint32(v int) uint32 {
	u, err := ToUint32(v)
	if err != nil {
		panic(err)
	}
	return u
}
