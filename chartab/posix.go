package chartab

// PosixClass tests one of the `[:name:]` bracket-expression classes
// (spec.md §4.2 "implements ... POSIX classes via enumerated byte tables").
func PosixClass(name string, c byte) (bool, bool) {
	fn, ok := posixClasses[name]
	if !ok {
		return false, false
	}
	return fn(c), true
}

var posixClasses = map[string]func(byte) bool{
	"alnum":  func(c byte) bool { return IsAlpha(c) || IsDigit(c) },
	"alpha":  IsAlpha,
	"blank":  func(c byte) bool { return c == ' ' || c == '\t' },
	"cntrl":  func(c byte) bool { return c < 0x20 || c == 0x7f },
	"digit":  IsDigit,
	"graph":  func(c byte) bool { return IsPrint(c) && c != ' ' },
	"lower":  IsLower,
	"print":  IsPrint,
	"punct":  func(c byte) bool { return IsPrint(c) && c != ' ' && !IsAlpha(c) && !IsDigit(c) },
	"space":  func(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f' },
	"upper":  IsUpper,
	"xdigit": IsHex,
	"escape": func(c byte) bool { return c == 0x1b },
	"tab":    func(c byte) bool { return c == '\t' },
	"return": func(c byte) bool { return c == '\r' },
	"backspace": func(c byte) bool {
		return c == 0x08
	},
}

// equivClasses maps an accented Latin-1/UTF-8 base form to the set of code
// points it is equivalent to for `[=c=]` bracket expressions (spec.md §4.2
// "equivalence classes (a hard-coded folding table for Latin-1/UTF-8 with
// accents mapped to their base letters)"). Keyed by base ASCII letter.
var equivClasses = map[byte][]rune{
	'a': {'a', 'à', 'á', 'â', 'ã', 'ä', 'å'},
	'e': {'e', 'è', 'é', 'ê', 'ë'},
	'i': {'i', 'ì', 'í', 'î', 'ï'},
	'o': {'o', 'ò', 'ó', 'ô', 'õ', 'ö'},
	'u': {'u', 'ù', 'ú', 'û', 'ü'},
	'n': {'n', 'ñ'},
	'c': {'c', 'ç'},
	'y': {'y', 'ý', 'ÿ'},
}

// EquivClass returns the set of code points equivalent to base (which must
// already be an ASCII base letter), or nil if base has no registered class.
func EquivClass(base byte) []rune {
	return equivClasses[base]
}

// BaseLetter folds an accented rune back to its ASCII base letter, or
// returns r unchanged (with ok=false) if it is not in the table. Used both
// to build `[=c=]` membership tests and to interpret the table in reverse.
func BaseLetter(r rune) (byte, bool) {
	for base, members := range equivClasses {
		for _, m := range members {
			if m == r {
				return base, true
			}
		}
	}
	return 0, false
}
