package compiler

import "github.com/telephil9/vim/lexer"

// Config is the compile-time option bag of spec.md §6.
type Config struct {
	// Magic is the default magicness level (spec.md: MAGIC flag selects
	// lexer.MagicOn; patterns may still switch levels inline with \v \m
	// \M \V).
	Magic lexer.Magic

	// StringMode selects matching against a single string rather than a
	// line-provider buffer (spec.md §6 STRING flag). The compiler does not
	// read it: matching always runs over one flat input, and BOF/EOF test
	// the start and end of that input whether or not it is set.
	StringMode bool

	// Strict is the spec.md §6 STRICT flag. The compiler does not read it:
	// an unterminated `[` bracket expression is rejected with E769 whether
	// or not it is set.
	Strict bool

	// ExternalCaptures permits \z(...) / \z1-\z9, restricted per spec.md
	// §4.2 to "syntax-highlighting compile mode".
	ExternalCaptures bool
}

// DefaultConfig returns compile defaults: magic on, buffer mode, lenient,
// no external captures.
func DefaultConfig() Config {
	return Config{Magic: lexer.MagicOn}
}
