// Package vim implements the Vim regex dialect (Henry Spencer's original
// engine as extended by the Vim editor): magic levels, the `\<n>` and
// `\z1-9` capture families, `\%(...)`/`\z(...)` grouping, position
// anchors tied to a host buffer, and `substitute()`-style template
// expansion.
//
// Basic usage:
//
//	re, err := vim.Compile(`\v(\w+)\@(\w+)\.(\w+)`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if re.MatchString("user@example.com") {
//	    fmt.Println(re.FindString("user@example.com"))
//	}
package vim

import (
	"github.com/telephil9/vim/compiler"
	"github.com/telephil9/vim/subst"
	"github.com/telephil9/vim/vm"
)

// Regex is a compiled pattern, safe for concurrent read-only use (Match,
// Find, ...); Substitute methods that thread a subst.State are not, since
// regtilde's previous-template memory is mutated in place.
type Regex struct {
	prog    *compiler.Program
	pattern string
}

// Compile compiles pattern with the default Config (magic on, buffer
// mode, lenient, no external captures).
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, compiler.DefaultConfig())
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("vim: Compile(" + pattern + "): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles pattern with an explicit Config (for
// StringMode, Strict, or ExternalCaptures syntax-highlighting mode).
func CompileWithConfig(pattern string, cfg compiler.Config) (*Regex, error) {
	prog, err := compiler.Compile([]byte(pattern), cfg)
	if err != nil {
		return nil, err
	}
	return &Regex{prog: prog, pattern: pattern}, nil
}

// DefaultConfig returns the compiler's default options.
func DefaultConfig() compiler.Config { return compiler.DefaultConfig() }

// Options carries the per-attempt host context (cursor/marks/visual
// selection) that the `\%#`, `\%'m`, `\%V`, `\%23l` family of anchors
// read. The zero value degrades those anchors to local failure.
type Options = vm.Options

// Match reports whether b contains a match anywhere at or after offset 0.
func (r *Regex) Match(b []byte) bool {
	ok, _ := vm.IsMatch(r.prog, b, 0, Options{})
	return ok
}

// MatchString is Match for a string.
func (r *Regex) MatchString(s string) bool {
	return r.Match([]byte(s))
}

// MatchWithOptions is Match with host context supplied.
func (r *Regex) MatchWithOptions(b []byte, opts Options) bool {
	ok, _ := vm.IsMatch(r.prog, b, 0, opts)
	return ok
}

// Find returns the leftmost match in b, or nil if there is none.
func (r *Regex) Find(b []byte) []byte {
	m := r.findOne(b, 0, Options{})
	if m == nil {
		return nil
	}
	return b[m.Span.Start:m.Span.End]
}

// FindString is Find for a string.
func (r *Regex) FindString(s string) string {
	b := []byte(s)
	m := r.findOne(b, 0, Options{})
	if m == nil {
		return ""
	}
	return string(b[m.Span.Start:m.Span.End])
}

// FindIndex returns the [start, end) byte offsets of the leftmost match,
// or nil if there is none.
func (r *Regex) FindIndex(b []byte) []int {
	m := r.findOne(b, 0, Options{})
	if m == nil {
		return nil
	}
	return []int{m.Span.Start, m.Span.End}
}

// FindStringIndex is FindIndex for a string.
func (r *Regex) FindStringIndex(s string) []int {
	return r.FindIndex([]byte(s))
}

// FindSubmatch returns the leftmost match plus every capture group's
// text; unmatched groups are nil. Index 0 is the whole match.
func (r *Regex) FindSubmatch(b []byte) [][]byte {
	m := r.findOne(b, 0, Options{})
	if m == nil {
		return nil
	}
	return groupBytes(b, m)[:r.prog.NSub]
}

// FindStringSubmatch is FindSubmatch for a string.
func (r *Regex) FindStringSubmatch(s string) []string {
	groups := r.FindSubmatch([]byte(s))
	if groups == nil {
		return nil
	}
	out := make([]string, len(groups))
	for i, g := range groups {
		if g != nil {
			out[i] = string(g)
		}
	}
	return out
}

// FindSubmatchIndex returns index pairs for the whole match and every
// capture group; unmatched groups report [-1, -1].
func (r *Regex) FindSubmatchIndex(b []byte) []int {
	m := r.findOne(b, 0, Options{})
	if m == nil {
		return nil
	}
	out := make([]int, 0, 2*r.prog.NSub)
	for _, g := range m.Groups[:r.prog.NSub] {
		out = append(out, g.Start, g.End)
	}
	return out
}

// FindStringSubmatchIndex is FindSubmatchIndex for a string.
func (r *Regex) FindStringSubmatchIndex(s string) []int {
	return r.FindSubmatchIndex([]byte(s))
}

// FindAll returns every non-overlapping match in b, left to right. n < 0
// means unlimited; n == 0 returns nil.
func (r *Regex) FindAll(b []byte, n int) [][]byte {
	if n == 0 {
		return nil
	}
	var out [][]byte
	pos := 0
	for pos <= len(b) {
		m, err := vm.Exec(r.prog, b, pos, Options{})
		if err != nil || m == nil {
			break
		}
		out = append(out, b[m.Span.Start:m.Span.End])
		pos = advance(m.Span, pos)
		if n > 0 && len(out) >= n {
			break
		}
	}
	return out
}

// FindAllString is FindAll for a string.
func (r *Regex) FindAllString(s string, n int) []string {
	matches := r.FindAll([]byte(s), n)
	if matches == nil {
		return nil
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = string(m)
	}
	return out
}

// NumSubexp returns the number of capture groups (not counting the whole
// match).
func (r *Regex) NumSubexp() int {
	if r.prog.NSub == 0 {
		return 0
	}
	return r.prog.NSub - 1
}

// String returns the source pattern text.
func (r *Regex) String() string { return r.pattern }

// Substitute expands template against the leftmost match in b (spec.md
// §4.4) and returns b with that match replaced. A nil match leaves b
// unchanged. state carries the `~` previous-template memory across
// calls; pass a fresh *subst.State for an isolated substitution session.
func (r *Regex) Substitute(b, template []byte, state *subst.State, opts subst.Options) ([]byte, error) {
	m := r.findOne(b, 0, Options{})
	if m == nil {
		return b, nil
	}
	rep, err := state.Expand(template, b, m, opts)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(b)-(m.Span.End-m.Span.Start)+len(rep))
	out = append(out, b[:m.Span.Start]...)
	out = append(out, rep...)
	out = append(out, b[m.Span.End:]...)
	return out, nil
}

// SubstituteAll expands template against every non-overlapping match in
// b, left to right.
func (r *Regex) SubstituteAll(b, template []byte, state *subst.State, opts subst.Options) ([]byte, error) {
	var out []byte
	pos := 0
	for pos <= len(b) {
		m, err := vm.Exec(r.prog, b, pos, Options{})
		if err != nil {
			return nil, err
		}
		if m == nil {
			out = append(out, b[pos:]...)
			break
		}
		out = append(out, b[pos:m.Span.Start]...)
		rep, err := state.Expand(template, b, m, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, rep...)
		next := advance(m.Span, pos)
		if next > m.Span.End && m.Span.End < len(b) {
			out = append(out, b[m.Span.End:next]...)
		}
		pos = next
	}
	return out, nil
}

func (r *Regex) findOne(b []byte, at int, opts Options) *vm.Match {
	m, err := vm.Exec(r.prog, b, at, opts)
	if err != nil {
		return nil
	}
	return m
}

func groupBytes(b []byte, m *vm.Match) [][]byte {
	out := make([][]byte, len(m.Groups))
	for i, g := range m.Groups {
		if g.Start < 0 || g.End < 0 {
			continue
		}
		out[i] = b[g.Start:g.End]
	}
	return out
}

// advance returns the next scan position after a match, stepping one
// byte past an empty match to guarantee FindAll/SubstituteAll progress.
func advance(span vm.Span, pos int) int {
	if span.End > pos {
		return span.End
	}
	return pos + 1
}
