package vm

import (
	"testing"

	"github.com/telephil9/vim/compiler"
)

func compileOrFatal(t *testing.T, pattern string) *compiler.Program {
	t.Helper()
	prog, err := compiler.Compile([]byte(pattern), compiler.DefaultConfig())
	if err != nil {
		t.Fatalf("compile(%q): %v", pattern, err)
	}
	return prog
}

func mustMatch(t *testing.T, pattern, input string) *Match {
	t.Helper()
	prog := compileOrFatal(t, pattern)
	m, err := Exec(prog, []byte(input), 0, Options{})
	if err != nil {
		t.Fatalf("Exec(%q, %q): %v", pattern, input, err)
	}
	if m == nil {
		t.Fatalf("Exec(%q, %q): expected a match, got none", pattern, input)
	}
	return m
}

func assertNoMatch(t *testing.T, pattern, input string) {
	t.Helper()
	prog := compileOrFatal(t, pattern)
	m, err := Exec(prog, []byte(input), 0, Options{})
	if err != nil {
		t.Fatalf("Exec(%q, %q): %v", pattern, input, err)
	}
	if m != nil {
		t.Fatalf("Exec(%q, %q): expected no match, got %+v", pattern, input, m)
	}
}

func TestExecLiteral(t *testing.T) {
	m := mustMatch(t, "abc", "xxabcyy")
	if m.Span.Start != 2 || m.Span.End != 5 {
		t.Fatalf("span = %+v, want [2,5)", m.Span)
	}
}

func TestExecStarGreedyThenBacktrack(t *testing.T) {
	m := mustMatch(t, `a*ab`, "aaab")
	if m.Span.Start != 0 || m.Span.End != 4 {
		t.Fatalf("span = %+v, want [0,4) (greedy a* backs off to let 'ab' match)", m.Span)
	}
}

func TestExecAlternation(t *testing.T) {
	m := mustMatch(t, `foo\|bar`, "xxbarxx")
	if m.Span.Start != 2 || m.Span.End != 5 {
		t.Fatalf("span = %+v, want [2,5)", m.Span)
	}
}

func TestExecCaptureGroups(t *testing.T) {
	m := mustMatch(t, `\(foo\)\(bar\)`, "foobar")
	if m.Groups[1] != (Span{0, 3}) {
		t.Fatalf("group 1 = %+v, want [0,3)", m.Groups[1])
	}
	if m.Groups[2] != (Span{3, 6}) {
		t.Fatalf("group 2 = %+v, want [3,6)", m.Groups[2])
	}
}

func TestExecBackreference(t *testing.T) {
	m := mustMatch(t, `\(ab\)\1`, "abab")
	if m.Span != (Span{0, 4}) {
		t.Fatalf("span = %+v, want [0,4)", m.Span)
	}
	assertNoMatch(t, `\(ab\)\1`, "abcd")
}

func TestExecBackreferenceUnmatchedGroupFails(t *testing.T) {
	// \1 referring to a group inside an untaken alternative is a hard
	// failure, not an empty match (vm/match.go's matchBackref).
	assertNoMatch(t, `\(x\)\@!\(a\)\|\1b`, "b")
}

func TestExecZsZeRepositionSpan(t *testing.T) {
	m := mustMatch(t, `foo\zsbar\zebaz`, "foobarbaz")
	if m.Span != (Span{3, 6}) {
		t.Fatalf("span = %+v, want [3,6) (\\zs/\\ze narrow the reported match)", m.Span)
	}
}

func TestExecBraceSimpleCounting(t *testing.T) {
	m := mustMatch(t, `a\{2,4\}`, "aaaaa")
	if m.Span.End-m.Span.Start != 4 {
		t.Fatalf("matched length = %d, want 4 (greedy \\{2,4\\})", m.Span.End-m.Span.Start)
	}
	assertNoMatch(t, `^a\{2,4\}$`, "a")
}

func TestExecLookaheadPositive(t *testing.T) {
	m := mustMatch(t, `foo\(bar\)\@=`, "foobar")
	if m.Span != (Span{0, 3}) {
		t.Fatalf("span = %+v, want [0,3) (lookahead consumes no input)", m.Span)
	}
}

func TestExecLookaheadNegative(t *testing.T) {
	assertNoMatch(t, `foo\(bar\)\@!`, "foobar")
	m := mustMatch(t, `foo\(bar\)\@!`, "foobaz")
	if m.Span != (Span{0, 3}) {
		t.Fatalf("span = %+v, want [0,3)", m.Span)
	}
}

func TestExecLookbehind(t *testing.T) {
	m := mustMatch(t, `\(foo\)\@<=bar`, "foobar")
	if m.Span != (Span{3, 6}) {
		t.Fatalf("span = %+v, want [3,6)", m.Span)
	}
	assertNoMatch(t, `\(foo\)\@<=bar`, "xxxbar")
}

func TestExecNegativeLookbehind(t *testing.T) {
	assertNoMatch(t, `\(foo\)\@<!bar`, "foobar")
	m := mustMatch(t, `\(foo\)\@<!bar`, "xxxbar")
	if m.Span != (Span{3, 6}) {
		t.Fatalf("span = %+v, want [3,6)", m.Span)
	}
}

func TestExecAtomicGroupNoBacktrackIntoOperand(t *testing.T) {
	// \(a*\)\@>a requires the atomic group to commit to its greedy match
	// and never give a byte back, so this must fail to match "aaa".
	assertNoMatch(t, `^\(a*\)\@>a$`, "aaa")
	m := mustMatch(t, `^\(a*\)\@>$`, "aaa")
	if m.Span != (Span{0, 3}) {
		t.Fatalf("span = %+v, want [0,3)", m.Span)
	}
}

func TestExecAnchorsBOLEOL(t *testing.T) {
	m := mustMatch(t, `^bar$`, "foo\nbar\nbaz")
	if m.Span != (Span{4, 7}) {
		t.Fatalf("span = %+v, want [4,7)", m.Span)
	}
}

func TestExecWordBoundary(t *testing.T) {
	m := mustMatch(t, `\<foo\>`, "xfoo foo foox")
	if m.Span != (Span{5, 8}) {
		t.Fatalf("span = %+v, want [5,8) (skip the non-word-bounded 'foo's)", m.Span)
	}
}

func TestExecNamedClassDigitVsWord(t *testing.T) {
	m := mustMatch(t, `\d\+`, "ab123cd")
	if m.Span != (Span{2, 5}) {
		t.Fatalf("span = %+v, want [2,5)", m.Span)
	}
}

func TestExecIdentExcludesDigitsButNotWord(t *testing.T) {
	// \I is "word char, excluding digits" - not a negation of \i.
	m := mustMatch(t, `\I\+`, "9ab9")
	if m.Span != (Span{1, 3}) {
		t.Fatalf("span = %+v, want [1,3) (digits excluded from \\I even though \\i allows them)", m.Span)
	}
}

func TestExecCaseFoldIgnoreCase(t *testing.T) {
	m := mustMatch(t, `\cABC`, "xxabcxx")
	if m.Span != (Span{2, 5}) {
		t.Fatalf("span = %+v, want [2,5)", m.Span)
	}
}

func TestExecAnchorsDegradeWithoutBuffer(t *testing.T) {
	prog := compileOrFatal(t, `\%#`)
	m, err := Exec(prog, []byte("abc"), 0, Options{})
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if m != nil {
		t.Fatalf("expected \\%%# to fail locally without a Buffer, got %+v", m)
	}
}

func TestExecBracketExpression(t *testing.T) {
	m := mustMatch(t, `[a-c]\+`, "xxabccbaxx")
	if m.Span != (Span{2, 8}) {
		t.Fatalf("span = %+v, want [2,8)", m.Span)
	}
	assertNoMatch(t, `^[^a-c]\+$`, "abc")
}

func TestIsMatch(t *testing.T) {
	prog := compileOrFatal(t, `foo`)
	ok, err := IsMatch(prog, []byte("xxfooxx"), 0, Options{})
	if err != nil || !ok {
		t.Fatalf("IsMatch = %v, %v; want true, nil", ok, err)
	}
	ok, err = IsMatch(prog, []byte("xxxxx"), 0, Options{})
	if err != nil || ok {
		t.Fatalf("IsMatch = %v, %v; want false, nil", ok, err)
	}
}
