// Package vm implements the backtracking matcher that walks a
// compiler.Program's byte-code against an input string (spec.md §4.3): a
// plain recursive interpreter over the BRANCH/BACK node graph, with
// explicit repeat-counting for the SIMPLE-operand fast-path quantifiers
// (STAR/PLUS/BRACESIMPLE) that bypass BRANCH/BACK entirely, and for
// BRACECOMPLEX, whose BACK loop is gated by a per-context count.
//
// This is a deliberate simplification of the source's explicit iterative
// state machine (an explicit regstack/backpos arena, built to dodge C
// stack-depth limits): Go's dynamically growing goroutine stacks remove
// that constraint, so a recursive match(pc, sp) reproduces the same
// semantics without a hand-rolled backtrack stack.
package vm

import "github.com/telephil9/vim/host"

// Span is a half-open [Start, End) byte range within the input, or
// {-1, -1} when the capture never matched on this attempt.
type Span struct {
	Start, End int
}

func (s Span) set() bool { return s.Start >= 0 }

var unsetSpan = Span{-1, -1}

// Match is the result of a successful Exec: the whole-match span plus
// every capture group and external (\z) group touched by the attempt.
type Match struct {
	Span    Span
	Groups  [10]Span // Groups[0] is the whole match
	ZGroups [9]Span  // ZGroups[i] is \z(i+1)
}

// Options configures one matching attempt (spec.md §6/§7).
type Options struct {
	// Buffer supplies cursor/mark/visual/keyword state to CURSOR, MARK,
	// VISUAL, LNUM, COL, VCOL and the word-boundary anchors. A nil
	// Buffer makes those opcodes fail locally rather than panic (the
	// "degrade to NOMATCH" contract of host.go's package doc).
	Buffer host.BufferState

	// Pos is the (line, col) of the very first byte of the input being
	// searched, needed to translate CURSOR/MARK/VISUAL/LNUM/COL/VCOL anchors
	// back into buffer coordinates when Buffer is set.
	Pos host.Pos

	// MaxSteps caps the number of atom-match attempts before Exec aborts
	// with ErrMaxMemPat, guarding against catastrophic backtracking on
	// pathological patterns. Zero selects a generous default. This is
	// this engine's stand-in for max_pattern_memory/regstack (spec.md
	// §4.3.2): the recursive match(pc, sp) keeps no explicit regstack
	// to measure in KiB, so step count proxies the same "attempt is
	// consuming unbounded resources" signal.
	MaxSteps int
}

const defaultMaxSteps = 2_000_000

// ErrMaxMemPat is returned by Exec when MaxSteps is exceeded before a
// match (or exhaustive failure) is reached — this engine's e_maxmempat
// (spec.md §4.3.2/§7).
type ErrMaxMemPat struct{}

func (ErrMaxMemPat) Error() string { return "e_maxmempat: pattern match ran out of step budget" }
