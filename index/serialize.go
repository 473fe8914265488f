package index

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"

	"github.com/tokenfsm/tokenfsm/internal/conv"
	"github.com/tokenfsm/tokenfsm/vocab"
)

// Format constants for the self-describing serialized Index layout: a
// fixed little-endian header, followed by the list of final states,
// followed by one row per state. Unknown versions are rejected before any
// row is read.
const (
	magic         uint32 = 0x544b4653 // "TKFS"
	formatVersion uint32 = 1
)

// Serialize encodes idx into the versioned binary format:
//
//	magic       uint32
//	version     uint32
//	vocabLen    uint32
//	eos         uint32
//	initial     uint32
//	sink        uint32
//	numStates   uint32
//	numFinals   uint32
//	finals      [numFinals]uint32
//	numStates × { state uint32, rowLen uint32, row [rowLen]{token uint32, next uint32} }
func Serialize(idx *StandardIndex) ([]byte, error) {
	var buf bytes.Buffer
	w := func(v uint32) { binary.Write(&buf, binary.LittleEndian, v) }

	vocabLen, err := conv.ToUint32(idx.vocabLen)
	if err != nil {
		return nil, &SerializeError{Op: "Serialize", Err: err}
	}
	eos, err := conv.ToUint32(int(idx.eos))
	if err != nil {
		return nil, &SerializeError{Op: "Serialize", Err: err}
	}
	numStates, err := conv.ToUint32(len(idx.rows))
	if err != nil {
		return nil, &SerializeError{Op: "Serialize", Err: err}
	}

	w(magic)
	w(formatVersion)
	w(vocabLen)
	w(eos)
	w(uint32(idx.initial))
	w(uint32(idx.sink))
	w(numStates)

	finals := idx.FinalStates()
	sortStates(finals)
	numFinals, err := conv.ToUint32(len(finals))
	if err != nil {
		return nil, &SerializeError{Op: "Serialize", Err: err}
	}
	w(numFinals)
	for _, f := range finals {
		w(uint32(f))
	}

	// Sort states for a deterministic byte-identical round-trip (map
	// iteration order is randomized in Go).
	states := make([]State, 0, len(idx.rows))
	for s := range idx.rows {
		states = append(states, s)
	}
	sortStates(states)

	for _, s := range states {
		row := idx.rows[s]
		rowLen, err := conv.ToUint32(len(row))
		if err != nil {
			return nil, &SerializeError{Op: "Serialize", Err: err}
		}
		w(uint32(s))
		w(rowLen)
		tokens := make([]vocab.TokenID, 0, len(row))
		for t := range row {
			tokens = append(tokens, t)
		}
		sortTokens(tokens)
		for _, t := range tokens {
			tok, err := conv.ToUint32(int(t))
			if err != nil {
				return nil, &SerializeError{Op: "Serialize", Err: err}
			}
			w(tok)
			w(uint32(row[t]))
		}
	}

	return buf.Bytes(), nil
}

// Deserialize decodes data produced by Serialize back into a StandardIndex
// structurally equal to the original.
func Deserialize(data []byte) (*StandardIndex, error) {
	r := bytes.NewReader(data)
	read := func() (uint32, error) {
		var v uint32
		err := binary.Read(r, binary.LittleEndian, &v)
		return v, err
	}

	gotMagic, err := read()
	if err != nil || gotMagic != magic {
		return nil, &SerializeError{Op: "Deserialize", Err: ErrCorrupt}
	}
	version, err := read()
	if err != nil {
		return nil, &SerializeError{Op: "Deserialize", Err: ErrCorrupt}
	}
	if version != formatVersion {
		return nil, &SerializeError{Op: "Deserialize", Err: ErrUnknownVersion}
	}

	vocabLen, err1 := read()
	eos, err2 := read()
	initial, err3 := read()
	sink, err4 := read()
	numStates, err5 := read()
	numFinals, err6 := read()
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil || err6 != nil {
		return nil, &SerializeError{Op: "Deserialize", Err: ErrCorrupt}
	}

	finals := make(map[State]bool, numFinals)
	for i := uint32(0); i < numFinals; i++ {
		f, err := read()
		if err != nil {
			return nil, &SerializeError{Op: "Deserialize", Err: ErrCorrupt}
		}
		finals[State(f)] = true
	}

	rows := make(map[State]Row, numStates)
	for i := uint32(0); i < numStates; i++ {
		s, err := read()
		if err != nil {
			return nil, &SerializeError{Op: "Deserialize", Err: ErrCorrupt}
		}
		rowLen, err := read()
		if err != nil {
			return nil, &SerializeError{Op: "Deserialize", Err: ErrCorrupt}
		}
		row := make(Row, rowLen)
		for j := uint32(0); j < rowLen; j++ {
			tok, err := read()
			if err != nil {
				return nil, &SerializeError{Op: "Deserialize", Err: ErrCorrupt}
			}
			next, err := read()
			if err != nil {
				return nil, &SerializeError{Op: "Deserialize", Err: ErrCorrupt}
			}
			row[vocab.TokenID(tok)] = State(next)
		}
		rows[State(s)] = row
	}

	if _, err := r.Read(make([]byte, 1)); err != io.EOF {
		return nil, &SerializeError{Op: "Deserialize", Err: ErrCorrupt}
	}

	return &StandardIndex{
		rows:     rows,
		initial:  State(initial),
		finals:   finals,
		sink:     State(sink),
		vocabLen: int(vocabLen),
		eos:      vocab.TokenID(eos),
	}, nil
}

func sortStates(s []State) {
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
}

func sortTokens(t []vocab.TokenID) {
	sort.Slice(t, func(i, j int) bool { return t[i] < t[j] })
}
