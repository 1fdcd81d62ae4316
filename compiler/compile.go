package compiler

import (
	"github.com/telephil9/vim/opcode"
)

// Compile runs the two-pass compiler of spec.md §4.2 over pattern: a
// counting pass sizes the program, then a writing pass emits into an
// exactly-sized buffer. Both passes drive grammar.go's identical
// recursive-descent parse, so their byte counts always agree.
func Compile(pattern []byte, cfg Config) (*Program, error) {
	countSt := newState(pattern, cfg, newEmitter(newCountingSink()))
	countSt.top()
	if countSt.err != nil {
		return nil, countSt.err
	}
	size := countSt.em.sk.len()

	writeSt := newState(pattern, cfg, newEmitter(newWritingSink(size)))
	writeSt.top()
	if writeSt.err != nil {
		return nil, writeSt.err
	}

	code := writeSt.em.sk.bytes()
	code[0] = opcode.REGMAGIC

	prog := &Program{
		Code:                code,
		NSub:                writeSt.npar,
		IgnoreCase:          writeSt.lex.IgnoreCase,
		NoIgnoreCase:        writeSt.lex.NoIgnoreCase,
		CombineIgnore:       writeSt.lex.CombineIgnore,
		HasLookbehind:       writeSt.hasLookbh,
		HasExternalCaptures: writeSt.hasExternal,
	}
	analyzeStart(prog)
	return prog, nil
}

// analyzeStart walks the compiled program's top-level chain looking for a
// required first byte / line anchor (RegAnch/RegStart) and, when the
// program is just a top-level alternation of plain literals, collects
// those literals for the ahocorasick-backed prefilter of SPEC_FULL.md's
// DOMAIN STACK (three or more literal arms make the automaton worth
// building; fewer are cheaper to test directly).
func analyzeStart(prog *Program) {
	code := prog.Code
	if len(code) <= 1 {
		return
	}
	scan := 1
	// A single top-level alternative is a BRANCH whose next is END; the
	// hints come from that alternative's own first nodes.
	if opcode.Code(code[scan]) == opcode.BRANCH && opcode.Code(code[opcode.NextOf(code, scan)]) == opcode.END {
		scan = opcode.OperandStart(scan)
	}

	// BOL anchors the whole match to column 1 (spec.md RegAnch).
	if op := opcode.Code(code[scan]); op == opcode.BOL {
		prog.RegAnch = true
		scan = opcode.NextOf(code, scan)
	}

	if scan != 0 {
		if op := opcode.Code(code[scan]); op == opcode.EXACTLY {
			s, _ := opcode.ReadString(code, opcode.OperandStart(scan))
			if len(s) > 0 {
				prog.RegStart = s[0]
				prog.RegMust = s
			}
		}
	}

	collectAltLiterals(prog)
}

// collectAltLiterals walks a top-level BRANCH chain (the result of a
// pattern whose whole body is `alt1\|alt2\|alt3...`) and, if every branch
// is exactly one EXACTLY node with no further alternatives inside it,
// records the literals so the caller can build an Aho-Corasick prefilter.
func collectAltLiterals(prog *Program) {
	code := prog.Code
	if len(code) <= 1 || opcode.Code(code[1]) != opcode.BRANCH {
		return
	}
	var lits [][]byte
	p := 1
	for p != 0 && opcode.Code(code[p]) == opcode.BRANCH {
		body := opcode.OperandStart(p)
		if body >= len(code) || opcode.Code(code[body]) != opcode.EXACTLY {
			return
		}
		s, _ := opcode.ReadString(code, opcode.OperandStart(body))
		// The branch's sole content must be this one EXACTLY node: its
		// own next must lead straight to the shared closer, i.e. nothing
		// else was emitted between it and the end of the branch body.
		if nx := opcode.NextOf(code, body); nx == 0 || opcode.Code(code[nx]) != opcode.END {
			return
		}
		lits = append(lits, s)
		p = opcode.NextOf(code, p)
	}
	if len(lits) >= 3 {
		prog.AltLiterals = lits
	}
}
