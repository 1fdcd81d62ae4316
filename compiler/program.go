// Package compiler implements the two-pass regex compiler of spec.md
// §4.2: pass one runs the grammar against a byte-counting sink, pass two
// allocates an exactly-sized buffer and emits into it. Both passes share
// the identical recursive-descent grammar so the sizes always match.
package compiler

import (
	"fmt"

	"github.com/telephil9/vim/lexer"
)

// Program is a compiled pattern: the opcode byte-code plus the
// optimization hints spec.md §3 associates with it.
type Program struct {
	Code []byte

	RegStart byte // first required byte, or 0
	RegAnch  bool // match only at line start
	RegMust  []byte
	NSub     int // highest capture group number used, +1

	IgnoreCase     bool
	NoIgnoreCase   bool
	HasNewlineMatch bool
	CombineIgnore  bool
	HasLookbehind  bool
	HasExternalCaptures bool

	// AltLiterals holds the literal alternatives of a top-level BRANCH
	// chain whose every arm is a plain required literal, when there are
	// enough of them to be worth an Aho-Corasick prefilter (see
	// SPEC_FULL.md "DOMAIN STACK"). Nil when not applicable.
	AltLiterals [][]byte
}

// Error is returned for any fatal compile-time problem (spec.md §4.2/§6).
// Every error carries the Vim-compatible E-code so callers/tests can match
// on it the way a test suite greps for "E51:" etc.
type Error struct {
	Code string
	Pos  int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func errAt(l *lexer.Lexer, code, msg string) error {
	return &Error{Code: code, Pos: l.Pos(), Msg: msg}
}

// headerSize is a node's 3-byte header: opcode + 16-bit next displacement.
const headerSize = 3
