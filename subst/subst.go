// Package subst expands a substitution template against a vm.Match
// (spec.md §4.4): the `&`/`\<digit>` back-reference shorthand, the
// `\u \U \l \L \e \E` case-fold mode switches, the `~` previous-template
// recall, and an optional `\=<expr>` external Evaluator hook.
package subst

import (
	"errors"
	"unicode/utf8"

	"github.com/telephil9/vim/chartab"
	"github.com/telephil9/vim/host"
	"github.com/telephil9/vim/vm"
)

// ErrNoEvaluator is returned when a `\=` template is expanded without a
// host.Evaluator configured.
var ErrNoEvaluator = errors.New("subst: \\= template needs an Evaluator")

// Options configures one Expand call.
type Options struct {
	// Magic selects whether `&` (true) or `\&` (false) inserts the whole
	// match, mirroring the pattern side's magic level (spec.md §4.1).
	Magic bool

	// Backslash doubles literal backslashes and backslash-prefixes a
	// literal CR in the output, so a later pass can reduce them back
	// (spec.md §4.4, the register-storage convention).
	Backslash bool

	// Eval runs a `\=<expr>` template. Nil makes such templates an error.
	Eval host.Evaluator
}

// State carries regtilde's "previous substitution template" across calls
// (spec.md: reg_prev_sub is process-global; callers wanting isolation
// snapshot/restore it — here that's just copying a State value).
type State struct {
	prevSub []byte
}

// Tilde replaces a bare `~` (magic) or `\~` (!magic) with the previously
// resolved template and remembers the result as the new previous
// template. Backslashed characters other than `\~` pass through
// unexamined (spec.md: "back-slashed characters are skipped unless they
// precede ~").
func (s *State) Tilde(template []byte, magic bool) []byte {
	out := make([]byte, 0, len(template))
	for i := 0; i < len(template); {
		c := template[i]
		if c == '\\' && i+1 < len(template) {
			n := template[i+1]
			if !magic && n == '~' {
				out = append(out, s.prevSub...)
				i += 2
				continue
			}
			out = append(out, c, n)
			i += 2
			continue
		}
		if magic && c == '~' {
			out = append(out, s.prevSub...)
			i++
			continue
		}
		out = append(out, c)
		i++
	}
	s.prevSub = append([]byte(nil), out...)
	return out
}

// Expand resolves template (via Tilde) and expands it against match m,
// whose capture spans index into input.
func (s *State) Expand(template, input []byte, m *vm.Match, opts Options) ([]byte, error) {
	tmpl := s.Tilde(template, opts.Magic)
	if len(tmpl) >= 2 && tmpl[0] == '\\' && tmpl[1] == '=' {
		if opts.Eval == nil {
			return nil, ErrNoEvaluator
		}
		return opts.Eval.Eval(string(tmpl[2:]))
	}

	var out []byte
	fold := chartab.FoldNone
	i := 0
	for i < len(tmpl) {
		c := tmpl[i]
		if c == '\\' && i+1 < len(tmpl) {
			n := tmpl[i+1]
			switch {
			case n >= '0' && n <= '9':
				out = appendGroup(out, input, m, int(n-'0'), &fold)
				i += 2
			case n == '&' && !opts.Magic:
				out = appendGroup(out, input, m, 0, &fold)
				i += 2
			case n == 'u':
				fold = chartab.FoldUpperOnce
				i += 2
			case n == 'U':
				fold = chartab.FoldUpperAll
				i += 2
			case n == 'l':
				fold = chartab.FoldLowerOnce
				i += 2
			case n == 'L':
				fold = chartab.FoldLowerAll
				i += 2
			case n == 'e', n == 'E':
				fold = chartab.FoldNone
				i += 2
			case n == 'r':
				out = appendCR(out, &fold, opts.Backslash)
				i += 2
			case n == 'n':
				out = appendFolded(out, '\n', &fold)
				i += 2
			case n == 't':
				out = appendFolded(out, '\t', &fold)
				i += 2
			case n == 'b':
				out = appendFolded(out, 0x08, &fold)
				i += 2
			case n == '\\':
				if opts.Backslash {
					out = append(out, '\\', '\\')
				} else {
					out = append(out, '\\')
				}
				i += 2
			default:
				out = appendFolded(out, rune(n), &fold)
				i += 2
			}
			continue
		}
		if c == '&' && opts.Magic {
			out = appendGroup(out, input, m, 0, &fold)
			i++
			continue
		}
		if c == '\r' {
			out = appendCR(out, &fold, opts.Backslash)
			i++
			continue
		}
		r, n := utf8.DecodeRune(tmpl[i:])
		out = appendFolded(out, r, &fold)
		i += n
	}
	return out, nil
}

func appendCR(out []byte, fold *chartab.CaseFold, backslash bool) []byte {
	if backslash {
		out = append(out, '\\')
	}
	return appendFolded(out, '\r', fold)
}

// appendFolded runs r through the active case-fold mode (one-shot modes
// revert to FoldNone after firing, sticky modes persist) and appends it.
func appendFolded(out []byte, r rune, fold *chartab.CaseFold) []byte {
	rr, next := chartab.Apply(*fold, r)
	*fold = next
	return utf8.AppendRune(out, rr)
}

// appendGroup inserts capture group n's text (whole match for n == 0),
// code point by code point so the active case-fold mode applies
// uniformly whether the source is a template literal or a back-reference
// (spec.md: "Case-fold mode is implemented as a function pointer that
// maps each code point"). An unmatched group inserts nothing.
func appendGroup(out, input []byte, m *vm.Match, n int, fold *chartab.CaseFold) []byte {
	if m == nil || n < 0 || n >= len(m.Groups) {
		return out
	}
	span := m.Groups[n]
	if span.Start < 0 || span.End < 0 {
		return out
	}
	b := input[span.Start:span.End]
	for len(b) > 0 {
		r, n := utf8.DecodeRune(b)
		out = appendFolded(out, r, fold)
		b = b[n:]
	}
	return out
}
