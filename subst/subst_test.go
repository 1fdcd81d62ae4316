package subst

import (
	"testing"

	"github.com/telephil9/vim/vm"
)

func matchOf(spans ...vm.Span) *vm.Match {
	var m vm.Match
	for i, s := range spans {
		if i >= len(m.Groups) {
			break
		}
		m.Groups[i] = s
	}
	for i := len(spans); i < len(m.Groups); i++ {
		m.Groups[i] = vm.Span{Start: -1, End: -1}
	}
	return &m
}

func TestExpandWholeMatchAmpersand(t *testing.T) {
	s := &State{}
	input := []byte("hello world")
	m := matchOf(vm.Span{Start: 0, End: 5})
	out, err := s.Expand([]byte("[&]"), input, m, Options{Magic: true})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if string(out) != "[hello]" {
		t.Fatalf("got %q, want %q", out, "[hello]")
	}
}

func TestExpandBackreferenceDigit(t *testing.T) {
	s := &State{}
	input := []byte("foo=bar")
	m := matchOf(vm.Span{0, 7}, vm.Span{0, 3}, vm.Span{4, 7})
	out, err := s.Expand([]byte(`\2:\1`), input, m, Options{Magic: true})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if string(out) != "bar:foo" {
		t.Fatalf("got %q, want %q", out, "bar:foo")
	}
}

func TestExpandUnmatchedGroupInsertsNothing(t *testing.T) {
	s := &State{}
	input := []byte("foo")
	m := matchOf(vm.Span{0, 3})
	out, err := s.Expand([]byte(`a\1b`), input, m, Options{Magic: true})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if string(out) != "ab" {
		t.Fatalf("got %q, want %q", out, "ab")
	}
}

func TestExpandCaseFoldOnceVsSticky(t *testing.T) {
	s := &State{}
	input := []byte("hello")
	m := matchOf(vm.Span{0, 5})
	out, err := s.Expand([]byte(`\u&`), input, m, Options{Magic: true})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if string(out) != "Hello" {
		t.Fatalf("\\u one-shot: got %q, want %q", out, "Hello")
	}

	out2, err := s.Expand([]byte(`\U&\E!`), input, m, Options{Magic: true})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if string(out2) != "HELLO!" {
		t.Fatalf("\\U sticky then \\E: got %q, want %q", out2, "HELLO!")
	}
}

func TestTildeRecallsPreviousTemplate(t *testing.T) {
	s := &State{}
	first := s.Tilde([]byte("foo"), true)
	if string(first) != "foo" {
		t.Fatalf("first Tilde = %q, want %q", first, "foo")
	}
	second := s.Tilde([]byte("bar~baz"), true)
	if string(second) != "barfoobaz" {
		t.Fatalf("second Tilde = %q, want %q", second, "barfoobaz")
	}
	third := s.Tilde([]byte("~"), true)
	if string(third) != "barfoobaz" {
		t.Fatalf("third Tilde = %q, want %q", third, "barfoobaz")
	}
}

func TestTildeNotMagicNeedsBackslash(t *testing.T) {
	s := &State{}
	s.Tilde([]byte("prev"), true)
	out := s.Tilde([]byte(`\~lit`), false)
	if string(out) != "prevlit" {
		t.Fatalf("got %q, want %q", out, "prevlit")
	}
	out2 := s.Tilde([]byte("~literal"), false)
	if string(out2) != "~literal" {
		t.Fatalf("bare ~ under !magic should be literal, got %q", out2)
	}
}

func TestExpandEvaluatorHook(t *testing.T) {
	s := &State{}
	m := matchOf(vm.Span{0, 3})
	_, err := s.Expand([]byte(`\=1+1`), []byte("foo"), m, Options{Magic: true})
	if err != ErrNoEvaluator {
		t.Fatalf("err = %v, want ErrNoEvaluator", err)
	}
}

type constEval struct{ out string }

func (c constEval) Eval(expr string) ([]byte, error) { return []byte(c.out), nil }

func TestExpandEvaluatorHookWithEval(t *testing.T) {
	s := &State{}
	m := matchOf(vm.Span{0, 3})
	out, err := s.Expand([]byte(`\=1+1`), []byte("foo"), m, Options{Magic: true, Eval: constEval{"2"}})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if string(out) != "2" {
		t.Fatalf("got %q, want %q", out, "2")
	}
}

func TestExpandBackslashDoubling(t *testing.T) {
	s := &State{}
	m := matchOf(vm.Span{0, 3})
	out, err := s.Expand([]byte(`a\\b`), []byte("foo"), m, Options{Magic: true, Backslash: true})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if string(out) != `a\\b` {
		t.Fatalf("got %q, want %q", out, `a\\b`)
	}
}
