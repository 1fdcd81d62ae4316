package vm

import (
	"unicode/utf8"

	"github.com/telephil9/vim/chartab"
	"github.com/telephil9/vim/host"
	"github.com/telephil9/vim/opcode"
)

// isAnchor reports whether op is one of the zero-width position tests
// dispatched through matchAnchor (every opcode in spec.md's "Anchors"
// group except BHPOS, which BEHIND/NOBEHIND's byte-stepping loop checks
// directly).
func isAnchor(op opcode.Code) bool {
	switch op {
	case opcode.BOL, opcode.EOL, opcode.BOF, opcode.EOF,
		opcode.BOW, opcode.EOW, opcode.CURSOR, opcode.MARK,
		opcode.VISUAL, opcode.LNUM, opcode.COL, opcode.VCOL, opcode.NEWL:
		return true
	}
	return false
}

// matchAnchor tests a zero-width position assertion at sp. Anchors that
// need host state (CURSOR, MARK, VISUAL, LNUM, COL, VCOL) fail locally
// when opts.Buffer is nil, per host.go's "degrade to NOMATCH" contract.
func (m *matcher) matchAnchor(op opcode.Code, pc, sp int) bool {
	switch op {
	case opcode.BOL:
		return sp == 0 || m.input[sp-1] == '\n'
	case opcode.EOL:
		return sp == len(m.input) || m.input[sp] == '\n'
	case opcode.BOF:
		return sp == 0
	case opcode.EOF:
		return sp == len(m.input)
	case opcode.NEWL:
		return sp < len(m.input) && m.input[sp] == '\n'
	case opcode.BOW:
		return (sp == 0 || !m.isWordByteAt(sp-1)) && m.isWordByteAt(sp)
	case opcode.EOW:
		return sp > 0 && m.isWordByteAt(sp-1) && !m.isWordByteAt(sp)
	case opcode.CURSOR:
		if m.buf == nil {
			return false
		}
		return cmpPos(m.translatePos(sp), m.buf.Cursor()) == 0
	case opcode.MARK:
		if m.buf == nil {
			return false
		}
		mark, cmp := opcode.ReadMarkOperand(m.code, opcode.OperandStart(pc))
		p, ok := m.buf.Mark(mark)
		if !ok {
			return false
		}
		return checkCmp(cmp, cmpPos(m.translatePos(sp), p))
	case opcode.VISUAL:
		if m.buf == nil {
			return false
		}
		return m.buf.InVisual(m.translatePos(sp))
	case opcode.LNUM:
		if m.buf == nil {
			return false
		}
		v, cmp := opcode.ReadPosOperand(m.code, opcode.OperandStart(pc))
		return checkCmp(cmp, sign(m.translatePos(sp).Line-int(v)))
	case opcode.COL:
		if m.buf == nil {
			return false
		}
		v, cmp := opcode.ReadPosOperand(m.code, opcode.OperandStart(pc))
		return checkCmp(cmp, sign(m.translatePos(sp).Col+1-int(v)))
	case opcode.VCOL:
		// Virtual column without tab/double-width expansion: an accepted
		// approximation absent a host screen-geometry callback.
		if m.buf == nil {
			return false
		}
		v, cmp := opcode.ReadPosOperand(m.code, opcode.OperandStart(pc))
		return checkCmp(cmp, sign(m.translatePos(sp).Col+1-int(v)))
	}
	return false
}

// isWordByteAt classifies the byte (or, past 0x7f, the rune) at i,
// deferring to the host's 'iskeyword' table when one is attached.
func (m *matcher) isWordByteAt(i int) bool {
	if i < 0 || i >= len(m.input) {
		return false
	}
	c := m.input[i]
	if c < 0x80 {
		if m.buf != nil {
			return m.buf.IsKeyword(rune(c))
		}
		return chartab.IsWord(c)
	}
	r, _ := utf8.DecodeRune(m.input[i:])
	if m.buf != nil {
		return m.buf.IsKeyword(r)
	}
	return true
}

// translatePos walks from basePos to byte offset sp counting embedded
// newlines, the only way to recover (line, col) buffer coordinates from a
// flat StringMode offset.
func (m *matcher) translatePos(sp int) host.Pos {
	line, col := m.basePos.Line, m.basePos.Col
	if sp > len(m.input) {
		sp = len(m.input)
	}
	for i := 0; i < sp; i++ {
		if m.input[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return host.Pos{Line: line, Col: col}
}

func cmpPos(a, b host.Pos) int {
	if a.Line != b.Line {
		return sign(a.Line - b.Line)
	}
	return sign(a.Col - b.Col)
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}

func checkCmp(op opcode.CompareOp, c int) bool {
	switch op {
	case opcode.CmpEqual:
		return c == 0
	case opcode.CmpGreater:
		return c > 0
	case opcode.CmpLess:
		return c < 0
	}
	return false
}
