// Package chartab implements the byte classification, case fold, and
// composing-character decomposition tables spec.md §9 calls for: a
// 256-entry byte→flags table, fold/case maps, and equivalence-class data
// used by bracket expressions and named character classes.
package chartab

// Flags for a single byte's classification, matching spec.md's
// RI_DIGIT=1, RI_HEX=2, RI_OCTAL=4, RI_WORD=8, RI_HEAD=16, RI_ALPHA=32,
// RI_LOWER=64, RI_UPPER=128, RI_WHITE=256 bit layout.
type Flags uint16

const (
	Digit Flags = 1 << iota
	Hex
	Octal
	Word
	Head
	Alpha
	Lower
	Upper
	White
)

// classTab is the 256-entry byte→flags table, built once at init the way
// the source's init_class_tab() builds it lazily on first use.
var classTab [256]Flags

func init() {
	for i := 0; i < 256; i++ {
		switch {
		case i >= '0' && i <= '7':
			classTab[i] = Digit | Hex | Octal | Word
		case i >= '8' && i <= '9':
			classTab[i] = Digit | Hex | Word
		case i >= 'a' && i <= 'f':
			classTab[i] = Hex | Word | Head | Alpha | Lower
		case i >= 'g' && i <= 'z':
			classTab[i] = Word | Head | Alpha | Lower
		case i >= 'A' && i <= 'F':
			classTab[i] = Hex | Word | Head | Alpha | Upper
		case i >= 'G' && i <= 'Z':
			classTab[i] = Word | Head | Alpha | Upper
		case i == '_':
			classTab[i] = Word | Head
		default:
			classTab[i] = 0
		}
	}
	classTab[' '] |= White
	classTab['\t'] |= White
}

// Class returns the classification flags for byte c. Bytes are classified
// as pure ASCII; code points at or above 0x100 (i.e. multibyte runes) fail
// every test here and must be classified through the host's iskeyword /
// mb_get_class instead (spec.md §9 "Character classification").
func Class(c byte) Flags { return classTab[c] }

func Is(c byte, f Flags) bool { return classTab[c]&f != 0 }

func IsDigit(c byte) bool { return Is(c, Digit) }
func IsHex(c byte) bool   { return Is(c, Hex) }
func IsOctal(c byte) bool { return Is(c, Octal) }
func IsWord(c byte) bool  { return Is(c, Word) }
func IsHead(c byte) bool  { return Is(c, Head) }
func IsAlpha(c byte) bool { return Is(c, Alpha) }
func IsLower(c byte) bool { return Is(c, Lower) }
func IsUpper(c byte) bool { return Is(c, Upper) }
func IsWhite(c byte) bool { return Is(c, White) }

// IsPrint reports whether c is printable: alphanumeric, punctuation, or
// space, but not a control character.
func IsPrint(c byte) bool {
	return c >= 0x20 && c != 0x7f
}

// ToLower and ToUpper fold a single ASCII byte; non-letters pass through
// unchanged. Multibyte case folding is the caller's responsibility (the
// matcher dispatches through the host's wide-char fold tables).
func ToLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func ToUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// FoldEqual reports whether a and b are equal ignoring ASCII case.
func FoldEqual(a, b byte) bool {
	return ToLower(a) == ToLower(b)
}
