package vm

import (
	"unicode/utf8"

	"github.com/telephil9/vim/chartab"
	"github.com/telephil9/vim/host"
	"github.com/telephil9/vim/opcode"
)

// matcher holds the mutable state of one matching attempt: the program
// and input being compared, the capture slots every MOPEN/MCLOSE/ZOPEN/
// ZCLOSE node reads and writes, and the small amount of extra bookkeeping
// the SIMPLE-operand quantifiers and lookbehind need that doesn't fit the
// plain recursive pc/sp threading.
type matcher struct {
	code  []byte
	input []byte
	fold  bool

	buf      host.BufferState
	basePos  host.Pos

	caps  [10]Span
	zcaps [9]Span

	// braceMin/braceMax/braceCount/braceLazy back the non-SIMPLE \{m,n\}
	// families (BRACECOMPLEX0..9): at most one instance of a given slot k
	// is ever "live" on a path at a time (each \{...\} gets a unique
	// compile-time slot), so a flat array keyed by slot suffices without
	// threading counts through the recursive match() signature.
	braceMin, braceMax [10]uint32
	braceCount         [10]int
	braceLazy          [10]bool

	// backpos records, per BACK node address, the input position last seen
	// entering that node. A BACK node is the loop-back edge of a
	// STAR/PLUS/BRACESIMPLE-as-BRANCH or BRACECOMPLEX repetition; reaching
	// it again at the exact same position means the body matched without
	// consuming anything, so looping again would recurse forever. Matches
	// the source's backpos table, keeping the repetition to the one
	// iteration it already committed instead of spinning or blowing the
	// stack.
	backpos map[int]int

	// behindTarget is the position a \@<= / \@<! operand must land on
	// exactly (checked by the BHPOS node the compiler inserts at the end
	// of the operand), the byte-stepping technique of spec.md §4.3.
	behindTarget int

	// lastEnd records the position reached the moment match() hits a
	// successful terminal (an END node, or pc == 0), read back by SUBPAT to know where
	// the atomic group actually stopped.
	lastEnd int

	steps, maxSteps int
	stepLimit       bool
}

func newMatcher(code, input []byte, opts Options) *matcher {
	m := &matcher{
		code:    code,
		input:   input,
		buf:     opts.Buffer,
		basePos: opts.Pos,
		backpos: make(map[int]int),
	}
	for i := range m.caps {
		m.caps[i] = unsetSpan
	}
	for i := range m.zcaps {
		m.zcaps[i] = unsetSpan
	}
	m.maxSteps = opts.MaxSteps
	if m.maxSteps <= 0 {
		m.maxSteps = defaultMaxSteps
	}
	return m
}

// match reports whether the node chain starting at pc matches some prefix
// of input starting at sp, with every choice point (BRANCH, the repeat
// families, lookaround) trying its alternatives in order before giving
// up. Returning true means "pc..end matches from sp somehow"; since that
// question is answered exhaustively before returning false, the caller
// never needs to retry a subtree after we return — the classic
// backtracking-regex correctness argument.
func (m *matcher) match(pc, sp int) bool {
	for {
		if pc == 0 {
			m.lastEnd = sp
			return true
		}
		m.steps++
		if m.steps > m.maxSteps {
			m.stepLimit = true
			return false
		}

		op := opcode.Code(m.code[pc])
		switch {
		case op == opcode.BRANCH:
			return m.matchBranch(pc, sp)

		case op == opcode.NOTHING, op == opcode.NOPEN, op == opcode.NCLOSE:
			pc = opcode.NextOf(m.code, pc)
			continue

		case op == opcode.BACK:
			last, seen := m.backpos[pc]
			if seen && last == sp {
				return false
			}
			m.backpos[pc] = sp
			pc = opcode.NextOf(m.code, pc)
			continue

		case op == opcode.STAR:
			return m.matchRepeatSimple(pc, sp, 0, -1, false)
		case op == opcode.PLUS:
			return m.matchRepeatSimple(pc, sp, 1, -1, false)

		case op == opcode.BRACELIMITS:
			min, max, lazy := opcode.ReadBraceLimits(m.code, opcode.OperandStart(pc))
			next := opcode.NextOf(m.code, pc)
			nextOp := opcode.Code(m.code[next])
			if nextOp == opcode.BRACESIMPLE {
				mx := -1
				if max != opcode.NoLimit {
					mx = int(max)
				}
				return m.matchRepeatSimple(next, sp, int(min), mx, lazy)
			}
			k := int(nextOp - opcode.BRACECOMPLEX0)
			m.braceMin[k], m.braceMax[k], m.braceCount[k], m.braceLazy[k] = min, max, 0, lazy
			pc = next
			continue

		case op >= opcode.BRACECOMPLEX0 && op < opcode.BRACECOMPLEX0+10:
			k := int(op - opcode.BRACECOMPLEX0)
			return m.enterBraceComplex(pc, k, sp)

		case op >= opcode.MOPEN0 && op < opcode.MOPEN0+10:
			n := int(op - opcode.MOPEN0)
			saved := m.caps[n]
			m.caps[n] = Span{sp, -1}
			if m.match(opcode.NextOf(m.code, pc), sp) {
				return true
			}
			m.caps[n] = saved
			return false

		case op >= opcode.MCLOSE0 && op < opcode.MCLOSE0+10:
			n := int(op - opcode.MCLOSE0)
			saved := m.caps[n]
			m.caps[n] = Span{saved.Start, sp}
			if m.match(opcode.NextOf(m.code, pc), sp) {
				return true
			}
			m.caps[n] = saved
			return false

		case op >= opcode.ZOPEN1 && op < opcode.ZOPEN1+9:
			n := int(op - opcode.ZOPEN1)
			saved := m.zcaps[n]
			m.zcaps[n] = Span{sp, -1}
			if m.match(opcode.NextOf(m.code, pc), sp) {
				return true
			}
			m.zcaps[n] = saved
			return false

		case op >= opcode.ZCLOSE1 && op < opcode.ZCLOSE1+9:
			n := int(op - opcode.ZCLOSE1)
			saved := m.zcaps[n]
			m.zcaps[n] = Span{saved.Start, sp}
			if m.match(opcode.NextOf(m.code, pc), sp) {
				return true
			}
			m.zcaps[n] = saved
			return false

		case op >= opcode.BACKREF1 && op < opcode.BACKREF1+9:
			n := int(op-opcode.BACKREF1) + 1
			next, ok := m.matchBackref(m.caps[n], sp)
			if !ok {
				return false
			}
			sp = next
			pc = opcode.NextOf(m.code, pc)
			continue

		case op >= opcode.ZREF1 && op < opcode.ZREF1+9:
			n := int(op - opcode.ZREF1)
			next, ok := m.matchBackref(m.zcaps[n], sp)
			if !ok {
				return false
			}
			sp = next
			pc = opcode.NextOf(m.code, pc)
			continue

		case op == opcode.MATCH:
			savedCaps, savedZ := m.caps, m.zcaps
			if !m.match(opcode.OperandStart(pc), sp) {
				m.caps, m.zcaps = savedCaps, savedZ
				return false
			}
			pc = opcode.NextOf(m.code, pc)
			continue

		case op == opcode.NOMATCH:
			savedCaps, savedZ := m.caps, m.zcaps
			sub := m.match(opcode.OperandStart(pc), sp)
			m.caps, m.zcaps = savedCaps, savedZ
			if sub {
				return false
			}
			pc = opcode.NextOf(m.code, pc)
			continue

		case op == opcode.SUBPAT:
			if !m.match(opcode.OperandStart(pc), sp) {
				return false
			}
			sp = m.lastEnd
			pc = opcode.NextOf(m.code, pc)
			continue

		case op == opcode.BEHIND:
			if !m.matchBehind(pc, sp) {
				return false
			}
			pc = opcode.NextOf(m.code, pc)
			continue

		case op == opcode.NOBEHIND:
			if m.matchBehind(pc, sp) {
				return false
			}
			pc = opcode.NextOf(m.code, pc)
			continue

		case op == opcode.BHPOS:
			if sp != m.behindTarget {
				return false
			}
			pc = opcode.NextOf(m.code, pc)
			continue

		case op == opcode.NEWL:
			if sp >= len(m.input) || m.input[sp] != '\n' {
				return false
			}
			sp++
			pc = opcode.NextOf(m.code, pc)
			continue

		case isAnchor(op):
			if !m.matchAnchor(op, pc, sp) {
				return false
			}
			pc = opcode.NextOf(m.code, pc)
			continue

		case op == opcode.END:
			m.lastEnd = sp
			return true

		default:
			// Literal/class family: ANY(+NL), ANYOF(+NL), ANYBUT(+NL),
			// EXACTLY, MULTIBYTECODE, the thirteen named classes.
			next, ok := m.matchSimpleAtom(op, pc, sp)
			if !ok {
				return false
			}
			sp = next
			pc = opcode.NextOf(m.code, pc)
			continue
		}
	}
}

// matchBranch tries each alternative of a `x\|y\|z` chain in order; each
// arm's own body already leads (via regtail, at compile time) straight
// into whatever follows the whole alternation, so a successful arm
// propagates all the way out without this function needing to know what
// comes after.
func (m *matcher) matchBranch(pc, sp int) bool {
	for {
		savedCaps, savedZ := m.caps, m.zcaps
		if m.match(opcode.OperandStart(pc), sp) {
			return true
		}
		m.caps, m.zcaps = savedCaps, savedZ
		next := opcode.NextOf(m.code, pc)
		if next == 0 || opcode.Code(m.code[next]) != opcode.BRANCH {
			return false
		}
		pc = next
	}
}

// enterBraceComplex is the non-SIMPLE \{m,n\} loop: a BRANCH/BACK shaped
// choice ("take the operand once more, or stop here") gated by a count
// instead of being unconditional, so it shares the BACK node's jump-back
// address with the BRACECOMPLEX node itself and relies on m.braceCount[k]
// (set up by the BRACELIMITS dispatch) to know how many reps have already
// run along this path. m.braceLazy[k] flips which choice is tried first:
// greedy tries another rep before stopping, \{-m,n} tries stopping first.
func (m *matcher) enterBraceComplex(pc, k, sp int) bool {
	count := m.braceCount[k]
	min, max := m.braceMin[k], m.braceMax[k]

	tryMore := func() bool {
		if max != opcode.NoLimit && uint32(count) >= max {
			return false
		}
		m.braceCount[k] = count + 1
		if m.match(opcode.OperandStart(pc), sp) {
			return true
		}
		m.braceCount[k] = count
		return false
	}
	tryStop := func() bool {
		if uint32(count) < min {
			return false
		}
		return m.match(opcode.NextOf(m.code, pc), sp)
	}

	if m.braceLazy[k] {
		if tryStop() {
			return true
		}
		return tryMore()
	}
	if tryMore() {
		return true
	}
	return tryStop()
}

// matchRepeatSimple backs STAR, PLUS, and BRACESIMPLE: the operand is
// guaranteed single-node (opcode.IsSimpleClass), so repetition can be
// counted directly instead of recursing through a BRANCH/BACK loop.
// When lazy is false (STAR, PLUS, plain \{m,n}) it matches greedily up to
// max reps (max < 0 meaning unbounded), then backs off one rep at a time
// until the remainder of the pattern succeeds. When lazy is true
// (\{-m,n}) it tries the fewest reps first, growing by one only when the
// remainder fails, per spec.md §4.3's shortest-match quantifier.
func (m *matcher) matchRepeatSimple(pc, sp, min, max int, lazy bool) bool {
	atomPC := opcode.OperandStart(pc)
	atomOp := opcode.Code(m.code[atomPC])
	tail := opcode.NextOf(m.code, pc)

	if lazy {
		cur := sp
		count := 0
		for {
			if count >= min && m.match(tail, cur) {
				return true
			}
			if max >= 0 && count >= max {
				return false
			}
			next, ok := m.matchSimpleAtom(atomOp, atomPC, cur)
			if !ok || next == cur {
				return false
			}
			cur = next
			count++
			m.steps++
			if m.steps > m.maxSteps {
				m.stepLimit = true
				return false
			}
		}
	}

	positions := []int{sp}
	cur := sp
	for max < 0 || len(positions)-1 < max {
		next, ok := m.matchSimpleAtom(atomOp, atomPC, cur)
		if !ok || next == cur {
			break
		}
		cur = next
		positions = append(positions, cur)
		m.steps++
		if m.steps > m.maxSteps {
			m.stepLimit = true
			break
		}
	}
	if len(positions)-1 < min {
		return false
	}
	for i := len(positions) - 1; i >= min; i-- {
		if m.match(tail, positions[i]) {
			return true
		}
	}
	return false
}

// matchBehind implements \@<= / \@<! by literally stepping the candidate
// start position backward from sp, the byte-stepping technique spec.md
// §4.3 calls for in place of computing a fixed-width lookbehind.
func (m *matcher) matchBehind(pc, sp int) bool {
	opnd := opcode.OperandStart(pc)
	savedTarget := m.behindTarget
	m.behindTarget = sp
	defer func() { m.behindTarget = savedTarget }()

	for start := sp; start >= 0; start-- {
		savedCaps, savedZ := m.caps, m.zcaps
		if m.match(opnd, start) {
			return true
		}
		m.caps, m.zcaps = savedCaps, savedZ
	}
	return false
}

// matchBackref compares the bytes captured by span against input at sp.
// A span that never matched on this attempt fails the reference outright
// rather than treating it as empty (a deliberate, simpler choice than
// Vim's "unset group reference" leniency).
func (m *matcher) matchBackref(span Span, sp int) (int, bool) {
	if !span.set() {
		return sp, false
	}
	n, ok := m.matchLiteralBytes(m.input[span.Start:span.End], sp)
	return n, ok
}

// matchSimpleAtom tests the single SIMPLE-operand node at pc (opcode op)
// against input at sp, used both for ordinary sequential dispatch in
// match() and for the repeated-operand loops above.
func (m *matcher) matchSimpleAtom(op opcode.Code, pc, sp int) (int, bool) {
	operand := opcode.OperandStart(pc)
	switch {
	case op == opcode.ANY:
		if sp < len(m.input) && m.input[sp] != '\n' {
			return sp + 1, true
		}
		return sp, false
	case op == opcode.ANYNL:
		if sp < len(m.input) {
			return sp + 1, true
		}
		return sp, false
	case op == opcode.ANYOF || op == opcode.ANYOFNL:
		set, _ := opcode.ReadString(m.code, operand)
		if sp < len(m.input) {
			c := m.input[sp]
			if isMemberOf(set, c) || (op == opcode.ANYOFNL && c == '\n') {
				return sp + 1, true
			}
		}
		return sp, false
	case op == opcode.ANYBUT || op == opcode.ANYBUTNL:
		set, _ := opcode.ReadString(m.code, operand)
		if sp < len(m.input) {
			c := m.input[sp]
			if op == opcode.ANYBUTNL && c == '\n' {
				return sp, false
			}
			if !isMemberOf(set, c) {
				return sp + 1, true
			}
		}
		return sp, false
	case op == opcode.EXACTLY:
		s, _ := opcode.ReadString(m.code, operand)
		return m.matchLiteralBytes(s, sp)
	case op == opcode.MULTIBYTECODE:
		s, _ := opcode.ReadString(m.code, operand)
		return m.matchMultibyteRune(s, sp)
	case op >= opcode.IDENT && op <= opcode.NUPPER+opcode.Code(opNLOffset()):
		if sp < len(m.input) && classMember(op, m.input[sp]) {
			return sp + 1, true
		}
		return sp, false
	}
	return sp, false
}

func (m *matcher) matchLiteralBytes(s []byte, sp int) (int, bool) {
	if sp+len(s) > len(m.input) {
		return sp, false
	}
	for i, b := range s {
		if m.fold {
			if !chartab.FoldEqual(m.input[sp+i], b) {
				return sp, false
			}
		} else if m.input[sp+i] != b {
			return sp, false
		}
	}
	return sp + len(s), true
}

func (m *matcher) matchMultibyteRune(s []byte, sp int) (int, bool) {
	if sp >= len(m.input) {
		return sp, false
	}
	want, _ := utf8.DecodeRune(s)
	got, n := utf8.DecodeRune(m.input[sp:])
	if got == utf8.RuneError && n <= 1 {
		return sp, false
	}
	if m.fold {
		if !chartab.RuneFoldEqual(want, got) {
			return sp, false
		}
	} else if want != got {
		return sp, false
	}
	return sp + n, true
}
