package vm

import (
	"github.com/telephil9/vim/compiler"
	"github.com/telephil9/vim/prefilter"
)

// programStart is the offset of the first real node: byte 0 is reserved
// for opcode.REGMAGIC (compiler.Compile writes it there directly, never
// through the emitter), so every compiled program's body begins at 1.
const programStart = 1

// Exec searches input for the leftmost match of prog starting at or after
// at, applying spec.md §3's RegAnch/RegStart/RegMust prefilter hints (and
// the Aho-Corasick AltLiterals hint of SPEC_FULL.md's DOMAIN STACK) to
// skip offsets the byte-code could never match at before paying for a
// full backtracking attempt. Returns (nil, nil) on no match.
func Exec(prog *compiler.Program, input []byte, at int, opts Options) (*Match, error) {
	fold := prog.IgnoreCase && !prog.NoIgnoreCase

	var lits *prefilter.Literals
	if len(prog.AltLiterals) > 0 && !fold {
		lits = prefilter.BuildLiterals(prog.AltLiterals)
	}

	pos := at
	if pos < 0 {
		pos = 0
	}
	for pos <= len(input) {
		if prog.RegAnch && !(pos == 0 || input[pos-1] == '\n') {
			next := nextLineStart(input, pos)
			if next < 0 {
				return nil, nil
			}
			pos = next
			continue
		}
		if lits != nil {
			hit := lits.Next(input, pos)
			if hit < 0 {
				return nil, nil
			}
			pos = hit
		} else if len(prog.RegMust) > 0 {
			hit := prefilter.RequiredByte(input, pos, prog.RegMust[0], fold)
			if hit < 0 {
				return nil, nil
			}
			pos = hit
		}

		m := newMatcher(prog.Code, input, opts)
		m.fold = fold
		m.caps[0] = Span{pos, -1}
		if m.match(programStart, pos) {
			// \zs/\ze reposition caps[0] via bare MOPEN0/MCLOSE0 nodes;
			// absent those, the whole match spans [pos, lastEnd).
			if m.caps[0].End < 0 {
				m.caps[0].End = m.lastEnd
			}
			return buildMatch(m), nil
		}
		if m.stepLimit {
			return nil, ErrMaxMemPat{}
		}
		pos++
	}
	return nil, nil
}

// IsMatch reports whether prog matches anywhere in input at or after at,
// without building capture details.
func IsMatch(prog *compiler.Program, input []byte, at int, opts Options) (bool, error) {
	res, err := Exec(prog, input, at, opts)
	return res != nil, err
}

func buildMatch(m *matcher) *Match {
	res := &Match{Span: m.caps[0]}
	copy(res.Groups[:], m.caps[:])
	copy(res.ZGroups[:], m.zcaps[:])
	return res
}

// nextLineStart returns the offset of the byte right after the next '\n'
// at or after pos, or -1 if there is none (used to skip a BOL-anchored
// program straight to the next candidate line).
func nextLineStart(input []byte, pos int) int {
	for i := pos; i < len(input); i++ {
		if input[i] == '\n' {
			return i + 1
		}
	}
	return -1
}
