package nfa

// ByteClasses maps each of the 256 byte values to an equivalence class.
//
// Two bytes belong to the same class iff the regex never distinguishes them:
// every DFA state treats them identically. Collapsing 256 possible byte
// values down to the handful of classes a pattern actually cares about is
// what keeps DFA state tables small; a state transitions on classes, not
// raw bytes, and Representatives() gives one byte per class for simulating
// the DFA during determinization.
type ByteClasses struct {
	classes [256]byte
}

// Get returns the equivalence class for byte b.
func (bc *ByteClasses) Get(b byte) byte { return bc.classes[b] }

// AlphabetLen returns the number of distinct equivalence classes.
func (bc *ByteClasses) AlphabetLen() int {
	max := byte(0)
	for _, c := range bc.classes {
		if c > max {
			max = c
		}
	}
	return int(max) + 1
}

// Representatives returns one byte per equivalence class, in class order.
func (bc *ByteClasses) Representatives() []byte {
	seen := make([]bool, 256)
	reps := make([]byte, 0, bc.AlphabetLen())
	for b := 0; b < 256; b++ {
		class := bc.classes[b]
		if !seen[class] {
			seen[class] = true
			reps = append(reps, byte(b))
		}
	}
	return reps
}

// byteClassSet accumulates class-boundary bytes while an NFA is built, then
// finalizes them into a ByteClasses lookup table.
type byteClassSet struct {
	bits [4]uint64
}

func newByteClassSet() *byteClassSet { return &byteClassSet{} }

// setRange marks byte range [start, end] as a boundary: the byte just below
// start and the byte at end each start a new equivalence class.
func (bcs *byteClassSet) setRange(start, end byte) {
	if start > 0 {
		bcs.setBit(start - 1)
	}
	bcs.setBit(end)
}

func (bcs *byteClassSet) setBit(b byte) {
	bcs.bits[b/64] |= 1 << (b % 64)
}

func (bcs *byteClassSet) getBit(b byte) bool {
	return bcs.bits[b/64]&(1<<(b%64)) != 0
}

// byteClasses finalizes the boundary set into a dense per-byte class table.
func (bcs *byteClassSet) byteClasses() ByteClasses {
	var bc ByteClasses
	class := byte(0)
	for b := 0; b < 256; b++ {
		bc.classes[b] = class
		if bcs.getBit(byte(b)) {
			class++
		}
	}
	return bc
}
