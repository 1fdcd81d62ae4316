package vm

import (
	"github.com/telephil9/vim/chartab"
	"github.com/telephil9/vim/opcode"
)

// isWordInit excludes digits from a word-class test, the distinction
// between e.g. \i (IDENT, digits included) and \I (SIDENT, digits
// excluded): spec.md's thirteen named classes pair up as true negations
// (DIGIT/NDIGIT, WORD/NWORD, ...) except for the four identifier-flavored
// ones (IDENT/SIDENT, KWORD/SKWORD, FNAME/SFNAME, PRINT/SPRINT), where the
// "upper-case" member is "same set, minus digits" rather than "not in the
// set".
func isWordInit(c byte) bool { return chartab.IsWord(c) && !chartab.IsDigit(c) }

// isFnameChar accepts word characters plus the fixed set of punctuation bytes Vim's default
// 'isfname' adds on top of word characters (no host option lookup here:
// StringMode compiles carry no buffer-local 'isfname', so this reproduces
// the default table).
func isFnameChar(c byte) bool {
	if chartab.IsWord(c) {
		return true
	}
	switch c {
	case '.', '-', '_', '+', ',', '#', '$', '%', '~', '=', '/', '\\', ':', '@', '[', ']':
		return true
	}
	return false
}

// classMember tests byte c against the named-class opcode op (one of the
// thirteen IDENT..NUPPER families, plain or +NEWLINE). The +NEWLINE
// variant additionally accepts '\n' regardless of what the base test says
// (spec.md: "\_x also matches end-of-line").
func classMember(op opcode.Code, c byte) bool {
	base := op
	nl := false
	if op >= opcode.IDENT+opcode.Code(opNLOffset()) {
		base = op - opcode.Code(opNLOffset())
		nl = true
	}
	if nl && c == '\n' {
		return true
	}
	switch base {
	case opcode.IDENT:
		return chartab.IsWord(c)
	case opcode.SIDENT:
		return isWordInit(c)
	case opcode.KWORD:
		return chartab.IsWord(c)
	case opcode.SKWORD:
		return isWordInit(c)
	case opcode.FNAME:
		return isFnameChar(c)
	case opcode.SFNAME:
		return isFnameChar(c) && !chartab.IsDigit(c)
	case opcode.PRINT:
		return chartab.IsPrint(c)
	case opcode.SPRINT:
		return chartab.IsPrint(c) && !chartab.IsDigit(c)
	case opcode.WHITE:
		return chartab.IsWhite(c)
	case opcode.NWHITE:
		return !chartab.IsWhite(c)
	case opcode.DIGIT:
		return chartab.IsDigit(c)
	case opcode.NDIGIT:
		return !chartab.IsDigit(c)
	case opcode.HEX:
		return chartab.IsHex(c)
	case opcode.NHEX:
		return !chartab.IsHex(c)
	case opcode.OCTAL:
		return chartab.IsOctal(c)
	case opcode.NOCTAL:
		return !chartab.IsOctal(c)
	case opcode.WORD:
		return chartab.IsWord(c)
	case opcode.NWORD:
		return !chartab.IsWord(c)
	case opcode.HEAD:
		return chartab.IsHead(c)
	case opcode.NHEAD:
		return !chartab.IsHead(c)
	case opcode.ALPHA:
		return chartab.IsAlpha(c)
	case opcode.NALPHA:
		return !chartab.IsAlpha(c)
	case opcode.LOWER:
		return chartab.IsLower(c)
	case opcode.NLOWER:
		return !chartab.IsLower(c)
	case opcode.UPPER:
		return chartab.IsUpper(c)
	case opcode.NUPPER:
		return !chartab.IsUpper(c)
	}
	return false
}

// opNLOffset mirrors opcode.classNLOffset (unexported in that package);
// WithNewline is the only supported way to construct the +NEWLINE variant
// there, so recover the same offset from it here rather than duplicating
// the offset arithmetic and risking it drifting out of sync.
func opNLOffset() int {
	return int(opcode.WithNewline(opcode.IDENT) - opcode.IDENT)
}

// isMemberOf tests byte c against an ANYOF/ANYBUT-style membership
// string (the classic Spencer bracket-expression encoding: the operand is
// literally the NUL-terminated set of member bytes).
func isMemberOf(set []byte, c byte) bool {
	for _, m := range set {
		if m == c {
			return true
		}
	}
	return false
}
