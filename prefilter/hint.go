// Package prefilter builds cheap "can this possibly match here" hints for
// the matcher loop, so it doesn't have to try the full backtracking engine
// at every byte offset (spec.md's RegStart/RegMust optimization, extended
// per SPEC_FULL.md's DOMAIN STACK with an Aho-Corasick literal-alternation
// hint and a CPU-feature-gated fold-aware byte scan).
package prefilter

import (
	"bytes"

	"github.com/coregx/ahocorasick"

	"github.com/telephil9/vim/chartab"
)

// Literals wraps an Aho-Corasick automaton over a top-level alternation's
// literal arms (compiler.Program.AltLiterals): when every branch of
// `a\|b\|c` is a plain literal, this finds the next byte offset where any
// one of them could start in a single linear pass, instead of retrying
// each alternative node one at a time.
type Literals struct {
	auto *ahocorasick.Automaton
}

// BuildLiterals constructs a Literals hint from a set of literal
// alternatives, or returns nil if building fails (callers fall back to the
// plain byte scan below).
func BuildLiterals(lits [][]byte) *Literals {
	if len(lits) == 0 {
		return nil
	}
	b := ahocorasick.NewBuilder()
	for _, l := range lits {
		b.AddPattern(l)
	}
	auto, err := b.Build()
	if err != nil {
		return nil
	}
	return &Literals{auto: auto}
}

// Next returns the start offset of the next place any literal could
// begin at or after at, or -1 if none remain.
func (l *Literals) Next(haystack []byte, at int) int {
	if l == nil || at >= len(haystack) {
		return -1
	}
	m := l.auto.Find(haystack, at)
	if m == nil {
		return -1
	}
	return m.Start
}

// RequiredByte scans haystack from at for the next occurrence of must
// (case-folded if ignoreCase), returning its offset or -1. This backs
// Program.RegStart / Program.RegMust (spec.md §3): before trying the full
// backtracking engine at every offset, skip straight to the next place the
// match's first required byte could occur. requiredByteScan is the
// platform-specific entry point (scan_amd64.go's AVX2-gated word-at-a-time
// scan, or scan_generic.go's plain loop elsewhere).
func RequiredByte(haystack []byte, at int, must byte, ignoreCase bool) int {
	return requiredByteScan(haystack, at, must, ignoreCase)
}

// scalarByteScan is the byte-at-a-time fallback shared by every platform:
// bytes.IndexByte for the exact-match case (a single optimized libc-style
// memchr call), a manual fold-aware loop when ignoreCase is set since
// there is no ASCII-fold-aware IndexByte in the standard library.
func scalarByteScan(haystack []byte, at int, must byte, ignoreCase bool) int {
	if at >= len(haystack) {
		return -1
	}
	if !ignoreCase {
		idx := bytes.IndexByte(haystack[at:], must)
		if idx < 0 {
			return -1
		}
		return at + idx
	}
	lower := chartab.ToLower(must)
	for i := at; i < len(haystack); i++ {
		if chartab.ToLower(haystack[i]) == lower {
			return i
		}
	}
	return -1
}
