// Package simd provides a word-parallel ASCII-classification fast path.
// Its one caller is vocab.FromPretrained, which counts all-ASCII tokens
// for the normalization summary it logs; the Index Builder does not use it.
// golang.org/x/sys/cpu is used only to decide whether the wider word path
// is worth it on the current architecture; the classification itself is
// portable Go, not hand-written assembly.
package simd

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

// wordParallelWorthwhile reports whether the host's cache/ALU
// characteristics favor the 8-byte-at-a-time path over a plain byte loop.
// On the architectures x/sys/cpu describes, a basic integer ALU already
// makes the word path a win, so this only opts *out* on exotic small cores
// that advertise neither.
var wordParallelWorthwhile = detectWordParallel()

func detectWordParallel() bool {
	// Any of these indicates a mainstream 64-bit ALU generation; absence
	// of all of them means a detection we don't recognize, so fall back
	// to the safe byte-at-a-time path.
	return cpu.X86.HasSSE2 || cpu.ARM64.HasASIMD || cpu.ARM.HasNEON
}

// highBitsMask8 has the MSB of every byte set; ANDing a little-endian word
// with it and testing non-zero is the standard branchless "does any byte
// in this word have its high bit set" trick.
const highBitsMask8 = 0x8080808080808080

// IsASCII reports whether every byte in b is < 0x80.
func IsASCII(b []byte) bool {
	if !wordParallelWorthwhile || len(b) < 8 {
		return isASCIIScalar(b)
	}
	i := 0
	for ; i+8 <= len(b); i += 8 {
		word := binary.LittleEndian.Uint64(b[i : i+8])
		if word&highBitsMask8 != 0 {
			return false
		}
	}
	return isASCIIScalar(b[i:])
}

func isASCIIScalar(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}
