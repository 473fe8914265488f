package nfa

import (
	"fmt"
	"regexp/syntax"
)

// CompilerConfig configures NFA compilation.
type CompilerConfig struct {
	// MaxRecursionDepth bounds recursion during compilation to prevent stack
	// overflow on deeply nested patterns. Default: 100.
	MaxRecursionDepth int
}

// DefaultCompilerConfig returns sane defaults.
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{MaxRecursionDepth: 100}
}

// Compiler compiles a regexp/syntax.Regexp into a Thompson NFA.
//
// The accepted flavor matches §4.2: character classes, alternation,
// grouping, Kleene star/plus, bounded repetition, and escapes. Anchors
// (^, $, \A, \z), word boundaries (\b, \B), and any other zero-width
// assertion are rejected with ErrUnsupported — matching always applies to
// the whole input, so an explicit anchor is redundant at best and
// unsupported look-around at worst. Capture groups parse but carry no
// capture semantics: "(...)" is transparent grouping only.
type Compiler struct {
	config CompilerConfig
	b      *Builder
	depth  int
}

// NewCompiler creates a Compiler with the given configuration.
func NewCompiler(config CompilerConfig) *Compiler {
	if config.MaxRecursionDepth == 0 {
		config.MaxRecursionDepth = 100
	}
	return &Compiler{config: config}
}

// Compile parses pattern with regexp/syntax.Perl and compiles it to an NFA
// that matches the entire input string.
func (c *Compiler) Compile(pattern string) (*NFA, error) {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	re = re.Simplify()

	c.b = NewBuilder()
	c.depth = 0

	start, end, err := c.compile(re)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	match := c.b.AddMatch()
	if err := c.b.Patch(end, match); err != nil {
		eps := c.b.AddEpsilon(match)
		if err := c.b.Patch(end, eps); err != nil {
			return nil, &CompileError{Pattern: pattern, Err: fmt.Errorf("connect match state: %w", err)}
		}
	}

	c.b.SetStart(start)
	nfa, err := c.b.Build()
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	return nfa, nil
}

// compile recursively compiles a syntax.Regexp node into an NFA fragment,
// returning (start, end) where end still needs patching to whatever follows.
func (c *Compiler) compile(re *syntax.Regexp) (start, end StateID, err error) {
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > c.config.MaxRecursionDepth {
		return InvalidState, InvalidState, ErrTooComplex
	}

	switch re.Op {
	case syntax.OpLiteral:
		return c.compileLiteral(re)
	case syntax.OpCharClass:
		return c.compileCharClass(re.Rune)
	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		return c.compileAnyChar(re.Op == syntax.OpAnyChar)
	case syntax.OpConcat:
		return c.compileConcat(re.Sub)
	case syntax.OpAlternate:
		return c.compileAlternate(re.Sub)
	case syntax.OpStar:
		return c.compileStar(re.Sub[0])
	case syntax.OpPlus:
		return c.compilePlus(re.Sub[0])
	case syntax.OpQuest:
		return c.compileQuest(re.Sub[0])
	case syntax.OpRepeat:
		return c.compileRepeat(re.Sub[0], re.Min, re.Max)
	case syntax.OpCapture:
		// Transparent grouping: no capture bookkeeping, just the inner fragment.
		return c.compile(re.Sub[0])
	case syntax.OpEmptyMatch:
		id := c.b.AddEpsilon(InvalidState)
		return id, id, nil
	case syntax.OpNoMatch:
		return c.compileNoMatch()
	case syntax.OpBeginText, syntax.OpEndText, syntax.OpBeginLine, syntax.OpEndLine,
		syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		return InvalidState, InvalidState,
			fmt.Errorf("%w: anchors and word boundaries are redundant under full-match semantics (%v)", ErrUnsupported, re.Op)
	default:
		return InvalidState, InvalidState, fmt.Errorf("%w: %v", ErrUnsupported, re.Op)
	}
}

func (c *Compiler) compileLiteral(re *syntax.Regexp) (start, end StateID, err error) {
	if len(re.Rune) == 0 {
		id := c.b.AddEpsilon(InvalidState)
		return id, id, nil
	}
	foldCase := re.Flags&syntax.FoldCase != 0
	first, prev := InvalidState, InvalidState
	for _, r := range re.Rune {
		var s, e StateID
		if foldCase && isASCIILetter(r) {
			s, e, err = c.compileFoldedRune(r)
		} else {
			s, e, err = c.compileSingleRune(r)
		}
		if err != nil {
			return InvalidState, InvalidState, err
		}
		if first == InvalidState {
			first = s
		} else if err := c.b.Patch(prev, s); err != nil {
			return InvalidState, InvalidState, err
		}
		prev = e
	}
	return first, prev, nil
}

func (c *Compiler) compileFoldedRune(r rune) (start, end StateID, err error) {
	upperStart, upperEnd, err := c.compileSingleRune(toUpperASCII(r))
	if err != nil {
		return InvalidState, InvalidState, err
	}
	lowerStart, lowerEnd, err := c.compileSingleRune(toLowerASCII(r))
	if err != nil {
		return InvalidState, InvalidState, err
	}
	join := c.b.AddEpsilon(InvalidState)
	if err := c.b.Patch(upperEnd, join); err != nil {
		return InvalidState, InvalidState, err
	}
	if err := c.b.Patch(lowerEnd, join); err != nil {
		return InvalidState, InvalidState, err
	}
	split := c.b.AddSplit(upperStart, lowerStart)
	return split, join, nil
}

func (c *Compiler) compileSingleRune(r rune) (start, end StateID, err error) {
	var buf [4]byte
	n := encodeRune(buf[:], r)
	first, prev := InvalidState, InvalidState
	for i := 0; i < n; i++ {
		id := c.b.AddByteRange(buf[i], buf[i], InvalidState)
		if first == InvalidState {
			first = id
		} else if err := c.b.Patch(prev, id); err != nil {
			return InvalidState, InvalidState, err
		}
		prev = id
	}
	return first, prev, nil
}

func isASCIILetter(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }

func toUpperASCII(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}

func toLowerASCII(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r - 'A' + 'a'
	}
	return r
}

// compileCharClass compiles a character class [lo1-hi1, lo2-hi2, ...].
// ASCII-only ranges compile directly to a Sparse/ByteRange state; ranges
// reaching into Unicode expand to their UTF-8 byte-range automaton.
func (c *Compiler) compileCharClass(ranges []rune) (start, end StateID, err error) {
	if len(ranges) == 0 {
		return c.compileNoMatch()
	}

	allASCII := true
	for _, r := range ranges {
		if r > 127 {
			allASCII = false
			break
		}
	}
	if allASCII {
		trans := make([]Transition, 0, len(ranges)/2)
		for i := 0; i < len(ranges); i += 2 {
			trans = append(trans, Transition{Lo: byte(ranges[i]), Hi: byte(ranges[i+1]), Next: InvalidState})
		}
		if len(trans) == 1 {
			id := c.b.AddByteRange(trans[0].Lo, trans[0].Hi, InvalidState)
			return id, id, nil
		}
		target := c.b.AddEpsilon(InvalidState)
		for i := range trans {
			trans[i].Next = target
		}
		return c.b.AddSparse(trans), target, nil
	}

	return c.compileUnicodeClass(ranges)
}

// compileUnicodeClass builds byte-level UTF-8 automata for a class whose
// ranges may extend beyond ASCII.
func (c *Compiler) compileUnicodeClass(ranges []rune) (start, end StateID, err error) {
	target := c.b.AddEpsilon(InvalidState)
	var alts []StateID
	for i := 0; i < len(ranges); i += 2 {
		lo, hi := ranges[i], ranges[i+1]
		if hi < 0x80 {
			id := c.b.AddByteRange(byte(lo), byte(hi), target)
			alts = append(alts, id)
			continue
		}
		alts = append(alts, c.compileUTF8Range(lo, hi, target)...)
	}
	if len(alts) == 0 {
		return c.compileNoMatch()
	}
	if len(alts) == 1 {
		return alts[0], target, nil
	}
	return c.buildSplitChain(alts), target, nil
}

// compileUTF8Range emits the byte-range automaton for Unicode codepoints in
// [lo, hi], splitting by UTF-8 sequence length. Each returned start state
// transitions (after consuming the encoded codepoint's bytes) to endState.
func (c *Compiler) compileUTF8Range(lo, hi rune, endState StateID) []StateID {
	var starts []StateID
	if lo <= 0x7F {
		asciiHi := hi
		if asciiHi > 0x7F {
			asciiHi = 0x7F
		}
		starts = append(starts, c.b.AddByteRange(byte(lo), byte(asciiHi), endState))
		lo = 0x80
	}
	if lo > hi {
		return starts
	}
	if lo <= 0x7FF {
		twoHi := hi
		if twoHi > 0x7FF {
			twoHi = 0x7FF
		}
		starts = append(starts, c.compileUTF82Byte(lo, twoHi, endState)...)
		lo = 0x800
	}
	if lo > hi {
		return starts
	}
	if lo <= 0xFFFF {
		threeHi := hi
		if threeHi > 0xFFFF {
			threeHi = 0xFFFF
		}
		starts = append(starts, c.compileUTF83Byte(lo, threeHi, endState)...)
		lo = 0x10000
	}
	if lo > hi {
		return starts
	}
	starts = append(starts, c.compileUTF84Byte(lo, hi, endState)...)
	return starts
}

func (c *Compiler) compileUTF82Byte(lo, hi rune, endState StateID) []StateID {
	loLead, loCont := byte(0xC0|(lo>>6)), byte(0x80|(lo&0x3F))
	hiLead, hiCont := byte(0xC0|(hi>>6)), byte(0x80|(hi&0x3F))
	if loLead == hiLead {
		cont := c.b.AddByteRange(loCont, hiCont, endState)
		return []StateID{c.b.AddByteRange(loLead, loLead, cont)}
	}
	var starts []StateID
	cont1 := c.b.AddByteRange(loCont, 0xBF, endState)
	starts = append(starts, c.b.AddByteRange(loLead, loLead, cont1))
	if hiLead > loLead+1 {
		contM := c.b.AddByteRange(0x80, 0xBF, endState)
		starts = append(starts, c.b.AddByteRange(loLead+1, hiLead-1, contM))
	}
	cont2 := c.b.AddByteRange(0x80, hiCont, endState)
	starts = append(starts, c.b.AddByteRange(hiLead, hiLead, cont2))
	return starts
}

// compileUTF83Byte builds a 3-byte UTF-8 range automaton, excluding the
// surrogate gap U+D800-U+DFFF which is never valid UTF-8.
func (c *Compiler) compileUTF83Byte(lo, hi rune, endState StateID) []StateID {
	var starts []StateID
	if lo <= 0xD7FF && hi >= 0xE000 {
		starts = append(starts, c.compileUTF83ByteSimple(lo, 0xD7FF, endState)...)
		starts = append(starts, c.compileUTF83ByteSimple(0xE000, hi, endState)...)
		return starts
	}
	if lo >= 0xD800 && hi <= 0xDFFF {
		return starts
	}
	if lo >= 0xD800 && lo <= 0xDFFF {
		lo = 0xE000
	}
	if hi >= 0xD800 && hi <= 0xDFFF {
		hi = 0xD7FF
	}
	if lo > hi {
		return starts
	}
	return c.compileUTF83ByteSimple(lo, hi, endState)
}

func (c *Compiler) compileUTF83ByteSimple(lo, hi rune, endState StateID) []StateID {
	loLead, loCont1, loCont2 := byte(0xE0|(lo>>12)), byte(0x80|((lo>>6)&0x3F)), byte(0x80|(lo&0x3F))
	hiLead, hiCont1, hiCont2 := byte(0xE0|(hi>>12)), byte(0x80|((hi>>6)&0x3F)), byte(0x80|(hi&0x3F))

	var starts []StateID
	switch {
	case loLead == hiLead && loCont1 == hiCont1:
		cont2 := c.b.AddByteRange(loCont2, hiCont2, endState)
		cont1 := c.b.AddByteRange(loCont1, loCont1, cont2)
		starts = append(starts, c.b.AddByteRange(loLead, loLead, cont1))
	case loLead == hiLead:
		for cont1Val := loCont1; cont1Val <= hiCont1; cont1Val++ {
			c2Lo, c2Hi := byte(0x80), byte(0xBF)
			if cont1Val == loCont1 {
				c2Lo = loCont2
			}
			if cont1Val == hiCont1 {
				c2Hi = hiCont2
			}
			cont2 := c.b.AddByteRange(c2Lo, c2Hi, endState)
			cont1 := c.b.AddByteRange(cont1Val, cont1Val, cont2)
			starts = append(starts, c.b.AddByteRange(loLead, loLead, cont1))
		}
	default:
		for leadVal := loLead; leadVal <= hiLead; leadVal++ {
			c1Lo, c1Hi := byte(0x80), byte(0xBF)
			switch {
			case leadVal == loLead:
				c1Lo = loCont1
			case leadVal == 0xE0:
				c1Lo = 0xA0
			}
			switch {
			case leadVal == hiLead:
				c1Hi = hiCont1
			case leadVal == 0xED:
				c1Hi = 0x9F
			}
			for cont1Val := c1Lo; cont1Val <= c1Hi; cont1Val++ {
				c2Lo, c2Hi := byte(0x80), byte(0xBF)
				if leadVal == loLead && cont1Val == loCont1 {
					c2Lo = loCont2
				}
				if leadVal == hiLead && cont1Val == hiCont1 {
					c2Hi = hiCont2
				}
				cont2 := c.b.AddByteRange(c2Lo, c2Hi, endState)
				cont1 := c.b.AddByteRange(cont1Val, cont1Val, cont2)
				starts = append(starts, c.b.AddByteRange(leadVal, leadVal, cont1))
			}
		}
	}
	return starts
}

func (c *Compiler) compileUTF84Byte(lo, hi rune, endState StateID) []StateID {
	if hi > 0x10FFFF {
		hi = 0x10FFFF
	}
	if lo < 0x10000 {
		lo = 0x10000
	}
	if lo > hi {
		return nil
	}
	loLead, hiLead := byte(0xF0|(lo>>18)), byte(0xF0|(hi>>18))
	var starts []StateID
	for leadVal := loLead; leadVal <= hiLead; leadVal++ {
		c1Lo, c1Hi := byte(0x80), byte(0xBF)
		if leadVal == 0xF0 {
			c1Lo = 0x90
		}
		if leadVal == 0xF4 {
			c1Hi = 0x8F
		}
		cont3 := c.b.AddByteRange(0x80, 0xBF, endState)
		cont2 := c.b.AddByteRange(0x80, 0xBF, cont3)
		cont1 := c.b.AddByteRange(c1Lo, c1Hi, cont2)
		starts = append(starts, c.b.AddByteRange(leadVal, leadVal, cont1))
	}
	return starts
}

func (c *Compiler) compileAnyChar(includeNL bool) (start, end StateID, err error) {
	target := c.b.AddEpsilon(InvalidState)
	var alts []StateID
	if includeNL {
		alts = append(alts, c.b.AddByteRange(0x00, 0x7F, target))
	} else {
		alts = append(alts, c.b.AddSparse([]Transition{
			{Lo: 0x00, Hi: 0x09, Next: target},
			{Lo: 0x0B, Hi: 0x7F, Next: target},
		}))
	}
	alts = append(alts, c.compileUTF8Range(0x80, 0x10FFFF, target)...)
	return c.buildSplitChain(alts), target, nil
}

func (c *Compiler) compileConcat(subs []*syntax.Regexp) (start, end StateID, err error) {
	if len(subs) == 0 {
		id := c.b.AddEpsilon(InvalidState)
		return id, id, nil
	}
	start, end, err = c.compile(subs[0])
	if err != nil {
		return InvalidState, InvalidState, err
	}
	for _, sub := range subs[1:] {
		nextStart, nextEnd, err := c.compile(sub)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		if err := c.b.Patch(end, nextStart); err != nil {
			return InvalidState, InvalidState, err
		}
		end = nextEnd
	}
	return start, end, nil
}

func (c *Compiler) compileAlternate(subs []*syntax.Regexp) (start, end StateID, err error) {
	starts := make([]StateID, 0, len(subs))
	ends := make([]StateID, 0, len(subs))
	for _, sub := range subs {
		s, e, err := c.compile(sub)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		starts = append(starts, s)
		ends = append(ends, e)
	}
	join := c.b.AddEpsilon(InvalidState)
	for _, e := range ends {
		if err := c.b.Patch(e, join); err != nil {
			return InvalidState, InvalidState, err
		}
	}
	return c.buildSplitChain(starts), join, nil
}

func (c *Compiler) buildSplitChain(targets []StateID) StateID {
	if len(targets) == 1 {
		return targets[0]
	}
	return c.b.AddSplit(targets[0], c.buildSplitChain(targets[1:]))
}

func (c *Compiler) compileStar(sub *syntax.Regexp) (start, end StateID, err error) {
	subStart, subEnd, err := c.compile(sub)
	if err != nil {
		return InvalidState, InvalidState, err
	}
	end = c.b.AddEpsilon(InvalidState)
	split := c.b.AddSplit(subStart, end)
	if err := c.b.Patch(subEnd, split); err != nil {
		return InvalidState, InvalidState, err
	}
	return split, end, nil
}

func (c *Compiler) compilePlus(sub *syntax.Regexp) (start, end StateID, err error) {
	subStart, subEnd, err := c.compile(sub)
	if err != nil {
		return InvalidState, InvalidState, err
	}
	end = c.b.AddEpsilon(InvalidState)
	split := c.b.AddSplit(subStart, end)
	if err := c.b.Patch(subEnd, split); err != nil {
		return InvalidState, InvalidState, err
	}
	return subStart, end, nil
}

func (c *Compiler) compileQuest(sub *syntax.Regexp) (start, end StateID, err error) {
	subStart, subEnd, err := c.compile(sub)
	if err != nil {
		return InvalidState, InvalidState, err
	}
	end = c.b.AddEpsilon(InvalidState)
	if err := c.b.Patch(subEnd, end); err != nil {
		return InvalidState, InvalidState, err
	}
	return c.b.AddSplit(subStart, end), end, nil
}

func (c *Compiler) compileRepeat(sub *syntax.Regexp, min, max int) (start, end StateID, err error) {
	if max == -1 {
		return c.compileRepeatMin(sub, min)
	}
	if min == max {
		return c.compileRepeatExact(sub, min)
	}
	return c.compileRepeatRange(sub, min, max)
}

func (c *Compiler) compileRepeatExact(sub *syntax.Regexp, n int) (start, end StateID, err error) {
	if n == 0 {
		id := c.b.AddEpsilon(InvalidState)
		return id, id, nil
	}
	subs := make([]*syntax.Regexp, n)
	for i := range subs {
		subs[i] = sub
	}
	return c.compileConcat(subs)
}

func (c *Compiler) compileRepeatMin(sub *syntax.Regexp, min int) (start, end StateID, err error) {
	if min == 0 {
		return c.compileStar(sub)
	}
	subs := make([]*syntax.Regexp, min)
	for i := range subs {
		subs[i] = sub
	}
	subs = append(subs, &syntax.Regexp{Op: syntax.OpStar, Sub: []*syntax.Regexp{sub}})
	return c.compileConcat(subs)
}

func (c *Compiler) compileRepeatRange(sub *syntax.Regexp, min, max int) (start, end StateID, err error) {
	if min > max {
		return InvalidState, InvalidState, fmt.Errorf("%w: invalid repeat range {%d,%d}", ErrUnsupported, min, max)
	}
	subs := make([]*syntax.Regexp, min)
	for i := range subs {
		subs[i] = sub
	}
	for i := 0; i < max-min; i++ {
		subs = append(subs, &syntax.Regexp{Op: syntax.OpQuest, Sub: []*syntax.Regexp{sub}})
	}
	return c.compileConcat(subs)
}

func (c *Compiler) compileNoMatch() (start, end StateID, err error) {
	start = c.b.AddEpsilon(InvalidState)
	end = c.b.AddEpsilon(InvalidState)
	return start, end, nil
}

// encodeRune writes r's UTF-8 encoding into buf (len>=4) and returns the
// number of bytes written.
func encodeRune(buf []byte, r rune) int {
	switch {
	case r < 0x80:
		buf[0] = byte(r)
		return 1
	case r < 0x800:
		buf[0] = byte(0xC0 | (r >> 6))
		buf[1] = byte(0x80 | (r & 0x3F))
		return 2
	case r < 0x10000:
		buf[0] = byte(0xE0 | (r >> 12))
		buf[1] = byte(0x80 | ((r >> 6) & 0x3F))
		buf[2] = byte(0x80 | (r & 0x3F))
		return 3
	default:
		buf[0] = byte(0xF0 | (r >> 18))
		buf[1] = byte(0x80 | ((r >> 12) & 0x3F))
		buf[2] = byte(0x80 | ((r >> 6) & 0x3F))
		buf[3] = byte(0x80 | (r & 0x3F))
		return 4
	}
}
