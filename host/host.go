// Package host declares the collaborator interfaces the regex core needs
// from its embedder (spec.md §1): a line provider for multi-line buffer
// search, position-sensitive host state for the \%^, \%#, \%V, \%'m family
// of anchors, and an expression evaluator for \= substitutions.
//
// None of these are implemented here. A host embeds the regex core by
// implementing the interfaces it needs; any that are nil degrade the
// corresponding opcode to local NOMATCH (spec.md §7).
package host

// LineProvider supplies buffer lines to the matcher for multi-line search.
// GetLine must return nil past the last line. The returned slice must
// remain valid until the next GetLine call (the matcher copies what it
// needs to keep across lines; see spec.md §4.3 BACKREF and §5 "scratch
// line copy").
type LineProvider interface {
	GetLine(lnum int) []byte
	MaxLineCount() int
}

// Pos is a zero-based (line, column) buffer position.
type Pos struct {
	Line, Col int
}

// BufferState exposes position-sensitive host state consulted by the
// CURSOR, MARK, VISUAL, LNUM, COL, VCOL anchors.
type BufferState interface {
	// Cursor returns the current cursor position.
	Cursor() Pos

	// Mark returns the position of mark m and whether it is set.
	Mark(m byte) (Pos, bool)

	// VisualActive reports whether a visual selection is active, and if
	// so its inclusive start/end positions.
	VisualActive() (start, end Pos, active bool)

	// InVisual reports whether p falls within the active visual
	// selection (used by \%V).
	InVisual(p Pos) bool

	// IsKeyword classifies a byte according to the host's 'iskeyword'
	// option, used for multibyte-aware word-boundary (\<, \>, BOW/EOW)
	// decisions when the fast ASCII chartab classification is
	// insufficient.
	IsKeyword(c rune) bool
}

// Evaluator evaluates a `\=` substitution expression and returns its
// result as a byte string. Only invoked for templates beginning with `\=`.
type Evaluator interface {
	Eval(expr string) ([]byte, error)
}
