package lexer

import "testing"

func TestLiteralRunThrough(t *testing.T) {
	l := New([]byte("abc"), MagicOn)
	for _, want := range []byte("abc") {
		tok := l.Get()
		if tok.Kind != KLiteral || tok.Ch != want {
			t.Fatalf("got %+v, want literal %q", tok, want)
		}
	}
	if l.Get().Kind != KEOF {
		t.Fatalf("expected EOF")
	}
}

func TestStarMagicAtStart(t *testing.T) {
	l := New([]byte("*a"), MagicOn)
	tok := l.Get()
	if tok.Kind != KPunct || tok.Ch != '*' || tok.Magic {
		t.Fatalf("leading * should be literal, got %+v", tok)
	}
}

func TestStarMagicAfterAtom(t *testing.T) {
	l := New([]byte("a*"), MagicOn)
	l.Get() // consume 'a'
	tok := l.Get()
	if tok.Kind != KPunct || tok.Ch != '*' || !tok.Magic {
		t.Fatalf("* after atom should be magic, got %+v", tok)
	}
}

func TestDotMagicLevels(t *testing.T) {
	l := New([]byte("."), MagicOff)
	tok := l.Get()
	if tok.Magic {
		t.Fatalf(". should not be magic under MagicOff")
	}
	l2 := New([]byte("."), MagicOn)
	tok2 := l2.Get()
	if !tok2.Magic {
		t.Fatalf(". should be magic under MagicOn")
	}
}

func TestBackrefToken(t *testing.T) {
	l := New([]byte(`\1`), MagicOn)
	tok := l.Get()
	if tok.Kind != KBackref || tok.N != 1 {
		t.Fatalf("expected backref 1, got %+v", tok)
	}
}

func TestClassShorthandVsNumChar(t *testing.T) {
	l := New([]byte(`\d`), MagicOn)
	tok := l.Get()
	if tok.Kind != KClass || tok.Ch != 'd' {
		t.Fatalf("bare \\d should be class token, got %+v", tok)
	}

	l2 := New([]byte(`\d65`), MagicOn)
	tok2 := l2.Get()
	if tok2.Kind != KNumChar || tok2.R != 65 {
		t.Fatalf("\\d65 should be numchar 65, got %+v", tok2)
	}
}

func TestOctalNumCharCapsAtThreeDigits(t *testing.T) {
	l := New([]byte(`\o101a`), MagicOn)
	tok := l.Get()
	if tok.Kind != KNumChar || tok.R != 0101 {
		t.Fatalf("expected octal 0101, got %+v", tok)
	}
}

func TestOctalNumCharTruncatesAt040(t *testing.T) {
	// getoctchrs() stops accumulating once the running value would reach
	// 040: the third digit '1' is left in the pattern, not folded in.
	l := New([]byte(`\o401`), MagicOn)
	tok := l.Get()
	if tok.Kind != KNumChar || tok.R != 040 {
		t.Fatalf("expected truncation at 040, got %+v", tok)
	}
	rest := l.Get()
	if rest.Kind != KLiteral || rest.Ch != '1' {
		t.Fatalf("expected leftover literal '1', got %+v", rest)
	}
}

func TestHexEscapes(t *testing.T) {
	l := New([]byte(`\x41`), MagicOn)
	tok := l.Get()
	if tok.Kind != KNumChar || tok.R != 'A' {
		t.Fatalf("expected \\x41 == 'A', got %+v", tok)
	}
}

func TestPushBack(t *testing.T) {
	l := New([]byte("ab"), MagicOn)
	tok := l.Get()
	l.PushBack(tok)
	again := l.Get()
	if again != tok {
		t.Fatalf("push back did not replay token: %+v vs %+v", again, tok)
	}
	if l.Get().Ch != 'b' {
		t.Fatalf("lexer should continue after replay")
	}
}

func TestContextEscapeMutatesMagicInline(t *testing.T) {
	l := New([]byte(`\v.`), MagicOn)
	tok := l.Get()
	if l.Magic() != MagicAll {
		t.Fatalf("\\v should switch to MagicAll")
	}
	if !tok.Magic {
		t.Fatalf(". after \\v should be magic")
	}
}

func TestSkipOverCharacterClass(t *testing.T) {
	pat := []byte(`[a-z]rest`)
	end := SkipOverCharacterClass(pat, 1)
	if pat[end] != ']' {
		t.Fatalf("expected to land on ], landed on %q", pat[end])
	}
}

func TestSkipOverCharacterClassPosix(t *testing.T) {
	pat := []byte(`[[:alpha:]]rest`)
	end := SkipOverCharacterClass(pat, 1)
	if pat[end] != ']' || end != len(`[[:alpha:]`) {
		t.Fatalf("expected closing ] at %d, got %d (%q)", len(`[[:alpha:]`), end, pat[end])
	}
}
