package chartab

// decompose maps a Hebrew presentation-forms code point (U+FB1D..U+FB4F) to
// its 1-3 base code points, per spec.md §9 "Composing-character handling".
// cstrncmp, under ignore-combine, decomposes through this table and
// compares base forms only.
var decompose = map[rune][]rune{
	0xfb1d: {0x05d9, 0x05b4},
	0xfb1f: {0x05f2, 0x05b7},
	0xfb20: {0x05e2},
	0xfb21: {0x05d0},
	0xfb22: {0x05d3},
	0xfb23: {0x05d4},
	0xfb24: {0x05db},
	0xfb25: {0x05dc},
	0xfb26: {0x05dd},
	0xfb27: {0x05e8},
	0xfb28: {0x05ea},
	0xfb2a: {0x05e9, 0x05c1},
	0xfb2b: {0x05e9, 0x05c2},
	0xfb2c: {0x05e9, 0x05bc, 0x05c1},
	0xfb2d: {0x05e9, 0x05bc, 0x05c2},
	0xfb2e: {0x05d0, 0x05b7},
	0xfb2f: {0x05d0, 0x05b8},
	0xfb30: {0x05d0, 0x05bc},
	0xfb31: {0x05d1, 0x05bc},
	0xfb32: {0x05d2, 0x05bc},
	0xfb33: {0x05d3, 0x05bc},
	0xfb34: {0x05d4, 0x05bc},
	0xfb35: {0x05d5, 0x05bc},
	0xfb36: {0x05d6, 0x05bc},
	0xfb38: {0x05d8, 0x05bc},
	0xfb39: {0x05d9, 0x05bc},
	0xfb3a: {0x05da, 0x05bc},
	0xfb3b: {0x05db, 0x05bc},
	0xfb3c: {0x05dc, 0x05bc},
	0xfb3e: {0x05de, 0x05bc},
	0xfb40: {0x05e0, 0x05bc},
	0xfb41: {0x05e1, 0x05bc},
	0xfb43: {0x05e3, 0x05bc},
	0xfb44: {0x05e4, 0x05bc},
	0xfb46: {0x05e6, 0x05bc},
	0xfb47: {0x05e7, 0x05bc},
	0xfb48: {0x05e8, 0x05bc},
	0xfb49: {0x05e9, 0x05bc},
	0xfb4a: {0x05ea, 0x05bc},
	0xfb4b: {0x05d5, 0x05b9},
	0xfb4c: {0x05d1, 0x05bf},
	0xfb4d: {0x05db, 0x05bf},
	0xfb4e: {0x05e4, 0x05bf},
}

// IsComposing reports whether r is a combining mark (one this module will
// strip when ignore-combine mode decomposes a base+combining pair). This
// models the general Unicode combining-mark ranges the matcher's EXACTLY
// node checks: a literal match followed by a composing character fails
// unless icombine is set.
func IsComposing(r rune) bool {
	switch {
	case r >= 0x0300 && r <= 0x036f: // combining diacritical marks
		return true
	case r >= 0x05b0 && r <= 0x05bd: // Hebrew points
		return true
	case r == 0x05bf || r == 0x05c1 || r == 0x05c2:
		return true
	case r >= 0x064b && r <= 0x0652: // Arabic combining marks
		return true
	default:
		return false
	}
}

// Decompose returns the base code points for a Hebrew presentation-forms
// rune r, or (nil, false) if r has no decomposition.
func Decompose(r rune) ([]rune, bool) {
	d, ok := decompose[r]
	return d, ok
}
