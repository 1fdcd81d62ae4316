package compiler

import "testing"

func compileErr(t *testing.T, pattern string) *Error {
	t.Helper()
	_, err := Compile([]byte(pattern), DefaultConfig())
	if err == nil {
		t.Fatalf("Compile(%q): expected error, got none", pattern)
	}
	cerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("Compile(%q): expected *Error, got %T (%v)", pattern, err, err)
	}
	return cerr
}

func TestGrammarErrorCodes(t *testing.T) {
	tests := []struct {
		pattern string
		code    string
	}{
		{`\(a`, E54},
		{`a\)`, E55},
		{`a\@`, E59},
		{`a\{1,2,3}`, E554},
		{`a**`, E61},
		{`a*\+`, E62},
		{`\1`, E65},
		{`\z9`, E67},
		{`\z!`, E68},
		{`\%[a`, E69},
		{`\%[]`, E70},
		{`[abc`, E769},
	}
	for _, tc := range tests {
		cerr := compileErr(t, tc.pattern)
		if cerr.Code != tc.code {
			t.Errorf("Compile(%q): code = %s, want %s (%s)", tc.pattern, cerr.Code, tc.code, cerr.Msg)
		}
	}
}

func TestGrammarTooManyComplexBraces(t *testing.T) {
	pattern := ""
	for i := 0; i < 11; i++ {
		pattern += `\%(a\)\{2,3\}`
	}
	cerr := compileErr(t, pattern)
	if cerr.Code != E60 {
		t.Fatalf("code = %s, want %s", cerr.Code, E60)
	}
}

func TestGrammarLookaroundVariants(t *testing.T) {
	patterns := []string{
		`foo\(bar\)\@=`,
		`foo\(bar\)\@!`,
		`foo\(bar\)\@>`,
		`\(foo\)\@<=bar`,
		`\(foo\)\@<!bar`,
	}
	for _, p := range patterns {
		if _, err := Compile([]byte(p), DefaultConfig()); err != nil {
			t.Errorf("Compile(%q): %v", p, err)
		}
	}
}

func TestGrammarOptionalSequence(t *testing.T) {
	prog, err := Compile([]byte(`r\%[ead]`), DefaultConfig())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(prog.Code) == 0 {
		t.Fatalf("expected non-empty program")
	}
}

func TestGrammarBracketRangeError(t *testing.T) {
	cerr := compileErr(t, `[z-a]`)
	if cerr.Code != E54 {
		t.Fatalf("code = %s, want %s (inverted range)", cerr.Code, E54)
	}
}

func TestGrammarNamedClassNewlineVariant(t *testing.T) {
	if _, err := Compile([]byte(`\_d\+`), DefaultConfig()); err != nil {
		t.Fatalf("Compile(\\_d\\+): %v", err)
	}
}

func TestGrammarBackreferenceToEarlierGroup(t *testing.T) {
	if _, err := Compile([]byte(`\(a\)\1`), DefaultConfig()); err != nil {
		t.Fatalf("Compile: %v", err)
	}
}
