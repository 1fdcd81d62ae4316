package compiler

import (
	"testing"

	"github.com/telephil9/vim/lexer"
)

func mustCompile(t *testing.T, pattern string, cfg Config) *Program {
	t.Helper()
	prog, err := Compile([]byte(pattern), cfg)
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	return prog
}

func TestCompileLiteral(t *testing.T) {
	prog := mustCompile(t, "abc", DefaultConfig())
	if len(prog.Code) == 0 {
		t.Fatalf("expected non-empty code")
	}
	if prog.Code[0] != 0o234 {
		t.Fatalf("missing REGMAGIC header byte, got %o", prog.Code[0])
	}
}

func TestCompileGroupCountsSubexp(t *testing.T) {
	prog := mustCompile(t, `\(a\)\(b\)`, DefaultConfig())
	if prog.NSub != 3 {
		t.Fatalf("NSub = %d, want 3 (whole match + 2 groups)", prog.NSub)
	}
}

func TestCompileTwoPassSizesAgree(t *testing.T) {
	// The writing sink grows by append, so a mismatch between the counting
	// and writing passes would not fail here by itself; compiling a variety
	// of constructs once each is a smoke test that both passes succeed.
	patterns := []string{
		`a*b+c\{1,3}`,
		`\(foo\|bar\)\+`,
		`[a-z0-9_]\{2,}`,
		`\%(ab\)\@<=cd`,
		`\zsfoo\ze`,
		`^start.*end$`,
	}
	for _, p := range patterns {
		if _, err := Compile([]byte(p), DefaultConfig()); err != nil {
			t.Fatalf("Compile(%q): %v", p, err)
		}
	}
}

func TestCompileUnmatchedParenError(t *testing.T) {
	_, err := Compile([]byte(`\(abc`), DefaultConfig())
	if err == nil {
		t.Fatalf("expected error for unmatched \\(")
	}
	cerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if cerr.Code != E54 {
		t.Fatalf("got code %s, want %s", cerr.Code, E54)
	}
}

func TestCompileUnmatchedCloseParenError(t *testing.T) {
	_, err := Compile([]byte(`abc\)`), DefaultConfig())
	if err == nil {
		t.Fatalf("expected error for unmatched \\)")
	}
	cerr, ok := err.(*Error)
	if !ok || cerr.Code != E55 {
		t.Fatalf("got %v, want E55", err)
	}
}

func TestCompileExternalCapturesGatedByConfig(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := Compile([]byte(`\z(abc\)`), cfg); err == nil {
		t.Fatalf("expected \\z( to be rejected without ExternalCaptures")
	}
	cfg.ExternalCaptures = true
	if _, err := Compile([]byte(`\z(abc\)`), cfg); err != nil {
		t.Fatalf("\\z( with ExternalCaptures enabled: %v", err)
	}
}

func TestCompileZsZeEmitCaptureZero(t *testing.T) {
	// \zs/\ze reuse capture slot 0 (MOPEN0/MCLOSE0); compiling should not
	// bump NSub, since slot 0 is the whole-match span, not a numbered group.
	prog := mustCompile(t, `foo\zsbar\zebaz`, DefaultConfig())
	if prog.NSub != 1 {
		t.Fatalf("NSub = %d, want 1 (no numbered groups introduced by \\zs/\\ze)", prog.NSub)
	}
}

func TestAnalyzeStartFindsRequiredLiteral(t *testing.T) {
	prog := mustCompile(t, "hello world", DefaultConfig())
	if len(prog.RegMust) == 0 && prog.RegStart == 0 {
		t.Fatalf("expected a RegStart or RegMust hint for a literal-only pattern")
	}
}

func TestAnalyzeStartAltLiterals(t *testing.T) {
	prog := mustCompile(t, `foo\|bar\|baz\|qux`, DefaultConfig())
	if len(prog.AltLiterals) < 3 {
		t.Fatalf("expected AltLiterals to collect the literal alternation arms, got %v", prog.AltLiterals)
	}
}

func TestCompileMagicLevelSwitches(t *testing.T) {
	// Under \V (very nomagic), '.' is a literal dot, not "any char".
	p1 := mustCompile(t, `\V.`, Config{Magic: lexer.MagicOn})
	p2 := mustCompile(t, `.`, Config{Magic: lexer.MagicOn})
	if len(p1.Code) == 0 || len(p2.Code) == 0 {
		t.Fatalf("expected both to compile")
	}
}

func TestCompileStrictRejectsUnterminatedBracket(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strict = true
	if _, err := Compile([]byte(`[abc`), cfg); err == nil {
		t.Fatalf("expected Strict mode to reject an unterminated bracket expression")
	}
}
