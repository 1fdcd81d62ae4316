package compiler

import (
	"unicode/utf8"

	"github.com/telephil9/vim/chartab"
	"github.com/telephil9/vim/lexer"
	"github.com/telephil9/vim/opcode"
)

// parenKind selects what reg() wraps its branches in, mirroring the
// source's REG_NOPAREN/REG_PAREN/REG_NPAREN/REG_ZPAREN.
type parenKind int

const (
	parenNone parenKind = iota // top level / \%( non-capturing is handled separately
	parenCapture
	parenNonCapture
	parenExternal
)

// state carries one compile pass's mutable grammar state: the lexer, the
// emitter it feeds, and the counters the source keeps as globals
// (regnpar, regnzpar, num_complex_braces).
type state struct {
	lex   *lexer.Lexer
	em    *emitter
	cfg   Config
	npar  int // next capture slot to hand out (slot 0 is the whole match)
	nzpar int // next external capture slot (1-based)
	nCplx int // complex-brace contexts used so far

	hasNL         bool
	hasLookbh     bool
	hasExternal   bool
	err           error
}

func newState(pattern []byte, cfg Config, em *emitter) *state {
	return &state{
		lex:  lexer.New(pattern, cfg.Magic),
		em:   em,
		cfg:  cfg,
		npar: 1,
		nzpar: 1,
	}
}

func (s *state) fail(code, msg string) {
	if s.err == nil {
		s.err = errAt(s.lex, code, msg)
	}
}

func (s *state) failed() bool { return s.err != nil }

// top compiles the whole pattern (REG_NOPAREN): no wrapping node, just the
// alternation, terminated by END, with a trailing-garbage check.
func (s *state) top() int {
	ret := s.reg(parenNone)
	if s.failed() {
		return 0
	}
	if s.lex.Peek().Kind != lexer.KEOF {
		// peekchr() != NUL at REG_NOPAREN: either a stray ) or junk.
		if t := s.lex.Peek(); t.Kind == lexer.KPunct && t.Ch == ')' && t.Magic {
			s.fail(E55, "unmatched )")
		} else {
			s.fail(E55, "trailing characters in pattern")
		}
		return 0
	}
	return ret
}

// reg compiles one parenthesized thing (or the top level): the opening
// wrapper node (if any), one or more alternatives chained on magic `|`,
// and the closing node, exactly mirroring the source's reg().
func (s *state) reg(paren parenKind) int {
	var wrapper int
	var parno int
	switch paren {
	case parenExternal:
		if s.nzpar >= opcode.NSUB {
			s.fail(E50, "too many \\z(")
			return 0
		}
		parno = s.nzpar
		s.nzpar++
		s.hasExternal = true
		wrapper = s.em.node(opcode.ZOpen(parno))
	case parenCapture:
		if s.npar >= opcode.NSUB {
			s.fail(E51, "too many (")
			return 0
		}
		parno = s.npar
		s.npar++
		wrapper = s.em.node(opcode.MOpen(parno))
	case parenNonCapture:
		wrapper = s.em.node(opcode.NOPEN)
	}
	if paren != parenNone {
		s.lex.SetAtStart(true)
	}

	br := s.branch()
	if s.failed() {
		return 0
	}
	ret := wrapper
	if ret == 0 {
		ret = br
	} else {
		s.em.regtail(wrapper, br)
	}

	for s.lex.Peek().Kind == lexer.KPunct && s.lex.Peek().Ch == '|' && s.lex.Peek().Magic {
		s.lex.Get()
		s.lex.SetAtStart(true)
		br = s.branch()
		if s.failed() {
			return 0
		}
		s.em.regtail(ret, br)
	}

	var ender int
	switch paren {
	case parenExternal:
		ender = s.em.node(opcode.ZClose(parno))
	case parenCapture:
		ender = s.em.node(opcode.MClose(parno))
	case parenNonCapture:
		ender = s.em.node(opcode.NCLOSE)
	default:
		ender = s.em.node(opcode.END)
	}
	s.em.regtail(ret, ender)
	for b := ret; b != 0; b = s.em.regnext(b) {
		s.em.regoptail(b, ender)
	}

	if paren != parenNone {
		t := s.lex.Peek()
		if !(t.Kind == lexer.KPunct && t.Ch == ')' && t.Magic) {
			switch paren {
			case parenExternal:
				s.fail(E52, "unmatched \\z(")
			case parenNonCapture:
				s.fail(E53, "unmatched \\%(")
			default:
				s.fail(E54, "unmatched (")
			}
			return 0
		}
		s.lex.Get()
	}
	return ret
}

// branch compiles one alternative: a BRANCH node wrapping one concat. The
// source's `\&` concat-and-verify operator has no home in the dialect this
// compiler targets and is deliberately not implemented (see DESIGN.md).
func (s *state) branch() int {
	ret := s.em.node(opcode.BRANCH)
	s.concat()
	if s.failed() {
		return 0
	}
	return ret
}

// concat compiles a run of pieces up to `|`, `)`, `\z` context escapes
// having already been absorbed by the lexer, or end of pattern. An empty
// concat still needs a node (NOTHING) so the branch has a valid operand.
func (s *state) concat() int {
	var first, chain int
	for {
		t := s.lex.Peek()
		if t.Kind == lexer.KEOF {
			break
		}
		if t.Kind == lexer.KPunct && t.Magic && (t.Ch == '|' || t.Ch == ')') {
			break
		}
		latest := s.piece()
		if s.failed() {
			return 0
		}
		if chain != 0 {
			s.em.regtail(chain, latest)
		}
		chain = latest
		if first == 0 {
			first = latest
		}
	}
	if first == 0 {
		first = s.em.node(opcode.NOTHING)
	}
	return first
}

// piece compiles one atom plus an optional trailing quantifier
// (*, +, ?, =, \{m,n\}, \@=, \@!, \@>, \@<=, \@<!), per spec.md §4.2.
func (s *state) piece() int {
	simpleHint := atomLooksSimple(s.lex.Peek())
	ret := s.atom()
	if s.failed() {
		return 0
	}

	t := s.lex.Peek()
	if !(t.Kind == lexer.KPunct && t.Magic) {
		return ret
	}

	switch t.Ch {
	case '*':
		s.lex.Get()
		if simpleHint {
			s.em.reginsert(opcode.STAR, ret)
		} else {
			// Emit x* as (x&|), where & means "self".
			ret = s.em.reginsert(opcode.BRANCH, ret)
			s.em.regoptail(ret, s.em.node(opcode.BACK))
			s.em.regoptail(ret, ret)
			s.em.regtail(ret, s.em.node(opcode.BRANCH))
			s.em.regtail(ret, s.em.node(opcode.NOTHING))
		}
	case '+':
		s.lex.Get()
		if simpleHint {
			s.em.reginsert(opcode.PLUS, ret)
		} else {
			next := s.em.node(opcode.BRANCH)
			s.em.regtail(ret, next)
			s.em.regtail(s.em.node(opcode.BACK), ret)
			s.em.regtail(next, s.em.node(opcode.BRANCH))
			s.em.regtail(ret, s.em.node(opcode.NOTHING))
		}
	case '?', '=':
		s.lex.Get()
		ret = s.em.reginsert(opcode.BRANCH, ret)
		s.em.regtail(ret, s.em.node(opcode.BRANCH))
		next := s.em.node(opcode.NOTHING)
		s.em.regtail(ret, next)
		s.em.regoptail(ret, next)
	case '@':
		s.lex.Get()
		lop, ok := s.lookaroundOp()
		if !ok {
			s.fail(E59, "invalid character after @")
			return 0
		}
		if lop == opcode.BEHIND || lop == opcode.NOBEHIND {
			s.em.regtail(ret, s.em.node(opcode.BHPOS))
			s.hasLookbh = true
		}
		s.em.regtail(ret, s.em.node(opcode.END))
		ret = s.em.reginsert(lop, ret)
	case '{':
		s.lex.Get()
		min, max, lazy, ok := s.readBraceLimits()
		if !ok {
			return 0
		}
		if simpleHint {
			ret = s.em.reginsert(opcode.BRACESIMPLE, ret)
			ret = s.em.reginsertLimits(min, max, lazy, ret)
		} else {
			if s.nCplx >= 10 {
				s.fail(E60, "too many complex {...}s")
				return 0
			}
			wrap := opcode.BraceComplex(s.nCplx)
			s.nCplx++
			ret = s.em.reginsert(wrap, ret)
			s.em.regoptail(ret, s.em.node(opcode.BACK))
			s.em.regoptail(ret, ret)
			ret = s.em.reginsertLimits(min, max, lazy, ret)
		}
	default:
		return ret
	}

	if n := s.lex.Peek(); n.Kind == lexer.KPunct && n.Magic {
		switch n.Ch {
		case '*':
			s.fail(E61, "nested *")
		case '+', '?', '=', '{', '@':
			s.fail(E62, "nested quantifier")
		}
	}
	return ret
}

// lookaroundOp reads the disambiguating character(s) after \@ : = ! > <= <!
func (s *state) lookaroundOp() (opcode.Code, bool) {
	c := s.lex.Get()
	switch {
	case c.Kind == lexer.KPunct && c.Ch == '=':
		return opcode.MATCH, true
	case c.Kind == lexer.KPunct && c.Ch == '!':
		return opcode.NOMATCH, true
	case c.Kind == lexer.KPunct && c.Ch == '>':
		return opcode.SUBPAT, true
	case c.Kind == lexer.KPunct && c.Ch == '<':
		c2 := s.lex.Get()
		if c2.Kind == lexer.KPunct && c2.Ch == '=' {
			return opcode.BEHIND, true
		}
		if c2.Kind == lexer.KPunct && c2.Ch == '!' {
			return opcode.NOBEHIND, true
		}
	}
	return 0, false
}

// readBraceLimits parses the body of \{m,n\} / \{-m,n\}: a leading `-`
// selects the shortest-match quantifier (spec.md §4.3/§6 BRACE_SIMPLE and
// BRACE_COMPLEX inverted-range semantics), tried fewest-reps-first by
// vm/match.go's matchRepeatSimple/enterBraceComplex instead of the default
// greedy most-reps-first.
func (s *state) readBraceLimits() (min, max uint32, lazy bool, ok bool) {
	pat := s.lex.Pattern()
	p := s.lex.Pos()
	n := len(pat)
	for p < n && pat[p] == ' ' {
		p++
	}
	if p < n && pat[p] == '-' {
		lazy = true
		p++
	}
	readNum := func() (uint32, bool) {
		start := p
		for p < n && pat[p] >= '0' && pat[p] <= '9' {
			p++
		}
		if p == start {
			return 0, false
		}
		v := uint32(0)
		for _, c := range pat[start:p] {
			v = v*10 + uint32(c-'0')
		}
		return v, true
	}
	min = 0
	max = opcode.NoLimit
	if v, got := readNum(); got {
		min = v
		max = v
	}
	if p < n && pat[p] == ',' {
		p++
		if v, got := readNum(); got {
			max = v
		} else {
			max = opcode.NoLimit
		}
	}
	// closing \} (magic) or } (MagicAll)
	if p+1 < n && pat[p] == '\\' && pat[p+1] == '}' {
		p += 2
	} else if p < n && pat[p] == '}' {
		p++
	} else {
		s.fail(E554, "syntax error in {...}")
		return 0, 0, false, false
	}
	s.lex.SetPos(p)
	return min, max, lazy, true
}

// atomLooksSimple is a conservative, lookahead-only estimate of the
// source's SIMPLE flag: true only for atom kinds known to always compile
// to exactly one node (so piece() can decide, before compiling the atom,
// whether to wrap it with reginsert or build the general branch/loop
// form). Never returns true for a kind that might turn out multi-node.
func atomLooksSimple(t lexer.Token) bool {
	switch t.Kind {
	case lexer.KLiteral, lexer.KClass, lexer.KNumChar:
		return true
	case lexer.KPunct:
		switch t.Ch {
		case '.', '[':
			return true
		}
	}
	return false
}

// atom compiles the smallest unit of the grammar: a literal run, a dot, a
// named class, a bracket expression, a group, a backreference, or one of
// the \%... position/mark/optional-sequence forms.
func (s *state) atom() int {
	t := s.lex.Get()

	switch t.Kind {
	case lexer.KEOF:
		s.fail(E54, "unexpected end of pattern")
		return 0

	case lexer.KBackref:
		if t.N >= s.npar {
			s.fail(E65, "illegal back-reference")
			return 0
		}
		return s.em.node(opcode.Backref(t.N))

	case lexer.KNumChar:
		return s.emitLiteralRune(t.R)

	case lexer.KClass:
		return s.emitClass(t)

	case lexer.KLiteral:
		return s.emitLiteralRun(t.Ch)
	}

	// t.Kind == KPunct from here on. Punctuation the lexer left non-magic
	// is an ordinary literal character.
	if !t.Magic {
		return s.emitLiteralRun(t.Ch)
	}
	switch t.Ch {
	case '.':
		if t.WithNewline {
			return s.em.node(opcode.ANYNL)
		}
		return s.em.node(opcode.ANY)

	case '[':
		return s.compileBracket(t.WithNewline)

	case '^', '$':
		// Only reachable here when the lexer decided it was magic but
		// context made it an anchor rather than a literal; BOL/EOL.
		if t.Ch == '^' {
			return s.em.node(opcode.BOL)
		}
		return s.em.node(opcode.EOL)

	case '~':
		// Previous substitute string: compiled as an opaque literal run
		// of the remembered text is out of scope without a live
		// substitution session; treated as a literal tilde.
		return s.emitLiteralRun('~')

	case '(':
		ret := s.reg(parenCapture)
		return ret

	case '%':
		return s.atomPercent()

	case '<':
		return s.em.node(opcode.BOW)
	case '>':
		return s.em.node(opcode.EOW)

	case 'z':
		return s.atomZ()

	default:
		return s.emitLiteralRun(t.Ch)
	}
}

// atomPercent handles everything introduced by \% : groups, the optional
// sequence, position anchors/comparisons, the cursor mark, and the
// \%d \%o \%x \%u \%U numeric escapes (spec.md E678).
func (s *state) atomPercent() int {
	pat := s.lex.Pattern()
	p := s.lex.Pos()
	if p >= len(pat) {
		s.fail(E71, "invalid character after %")
		return 0
	}
	c := pat[p]

	switch c {
	case '(':
		s.lex.SetPos(p + 1)
		return s.reg(parenNonCapture)
	case '[':
		s.lex.SetPos(p + 1)
		return s.compileOptSeq()
	case '^':
		s.lex.SetPos(p + 1)
		return s.em.node(opcode.BOF)
	case '$':
		s.lex.SetPos(p + 1)
		return s.em.node(opcode.EOF)
	case 'V':
		s.lex.SetPos(p + 1)
		return s.em.node(opcode.VISUAL)
	case '#':
		s.lex.SetPos(p + 1)
		return s.em.node(opcode.CURSOR)
	case 'd', 'o', 'x', 'u', 'U':
		if node, ok := s.atomPercentNumChar(c, p+1); ok {
			return node
		}
		s.fail(E678, "invalid character after \\%[dxouU]")
		return 0
	}

	// \%23l \%23c \%23v \%<23l \%>5c \%'m
	cmp := opcode.CmpEqual
	q := p
	if c == '<' {
		cmp = opcode.CmpLess
		q++
	} else if c == '>' {
		cmp = opcode.CmpGreater
		q++
	}
	start := q
	for q < len(pat) && pat[q] >= '0' && pat[q] <= '9' {
		q++
	}
	if q > start {
		n := uint32(0)
		for _, ch := range pat[start:q] {
			n = n*10 + uint32(ch-'0')
		}
		if q < len(pat) {
			switch pat[q] {
			case 'l':
				return s.emitPos(opcode.LNUM, n, cmp, q+1)
			case 'c':
				return s.emitPos(opcode.COL, n, cmp, q+1)
			case 'v':
				return s.emitPos(opcode.VCOL, n, cmp, q+1)
			}
		}
	} else if q == start && q < len(pat) && pat[q] == '\'' && cmp == opcode.CmpEqual {
		if q+1 < len(pat) {
			mark := pat[q+1]
			node := s.em.node(opcode.MARK)
			s.em.sk.emitByte(mark)
			s.em.sk.emitByte(byte(opcode.CmpEqual))
			s.lex.SetPos(q + 2)
			return node
		}
	}
	s.fail(E71, "invalid character after %")
	return 0
}

func (s *state) emitPos(op opcode.Code, n uint32, cmp opcode.CompareOp, next int) int {
	node := s.em.node(op)
	s.em.sk.emitUint32(n)
	s.em.sk.emitByte(byte(cmp))
	s.lex.SetPos(next)
	return node
}

// atomPercentNumChar mirrors tryNumChar but for the \%d \%o \%x \%u \%U
// spelling of numeric character escapes (distinct from the \d \o \x \u \U
// class-shorthand-overloaded spelling the lexer already handles).
func (s *state) atomPercentNumChar(kind byte, p int) (int, bool) {
	pat := s.lex.Pattern()
	switch kind {
	case 'd':
		start := p
		q := p
		for q < len(pat) && q-start < 20 && pat[q] >= '0' && pat[q] <= '9' {
			q++
		}
		if q == start {
			return 0, false
		}
		v := rune(0)
		for _, c := range pat[start:q] {
			v = v*10 + rune(c-'0')
		}
		s.lex.SetPos(q)
		return s.emitLiteralRune(v), true
	case 'o':
		v := rune(0)
		q := p
		for i := 0; i < 3 && q < len(pat) && pat[q] >= '0' && pat[q] <= '7' && v < 040; i++ {
			v = v*8 + rune(pat[q]-'0')
			q++
		}
		if q == p {
			return 0, false
		}
		s.lex.SetPos(q)
		return s.emitLiteralRune(v), true
	case 'x', 'u', 'U':
		max := 2
		if kind == 'u' {
			max = 4
		} else if kind == 'U' {
			max = 8
		}
		start := p
		q := p
		for q < len(pat) && q-start < max && isHex(pat[q]) {
			q++
		}
		if q == start {
			return 0, false
		}
		v := rune(0)
		for _, c := range pat[start:q] {
			v = v*16 + rune(hexDigit(c))
		}
		s.lex.SetPos(q)
		return s.emitLiteralRune(v), true
	}
	return 0, false
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexDigit(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}

// atomZ handles \zs/\ze (reposition the reported match start/end, emitted
// as bare MOPEN0/MCLOSE0 markers so the VM's existing capture-slot-0
// save/restore does the work), and \z( (external group) / \z1-\z9
// (external back-reference), the latter two restricted to
// ExternalCaptures compile mode (spec.md §4.2).
func (s *state) atomZ() int {
	pat := s.lex.Pattern()
	p := s.lex.Pos()
	if p >= len(pat) {
		s.fail(E68, "invalid character after \\z")
		return 0
	}
	c := pat[p]
	if c == 's' {
		s.lex.SetPos(p + 1)
		return s.em.node(opcode.MOpen(0))
	}
	if c == 'e' {
		s.lex.SetPos(p + 1)
		return s.em.node(opcode.MClose(0))
	}
	if c == '(' {
		if !s.cfg.ExternalCaptures {
			s.fail(E66, "\\z( not allowed here")
			return 0
		}
		s.lex.SetPos(p + 1)
		return s.reg(parenExternal)
	}
	if c >= '1' && c <= '9' {
		if !s.cfg.ExternalCaptures {
			s.fail(E67, "\\z1-\\z9 not allowed here")
			return 0
		}
		s.lex.SetPos(p + 1)
		return s.em.node(opcode.ZRef(int(c - '0')))
	}
	s.fail(E68, "invalid character after \\z")
	return 0
}

// compileOptSeq compiles \%[...]: each element optional, matched in order
// as nested (x(y(z)?)?)? groups built right-to-left, per spec.md §4.2.
func (s *state) compileOptSeq() int {
	var atoms []int
	for {
		t := s.lex.Peek()
		if t.Kind == lexer.KLiteral && t.Ch == ']' {
			s.lex.Get()
			break
		}
		if t.Kind == lexer.KEOF {
			s.fail(E69, "missing ] after \\%[")
			return 0
		}
		if t.Kind == lexer.KLiteral {
			// One optional element per literal character, not one per run.
			s.lex.Get()
			atoms = append(atoms, s.emitExactly([]byte{t.Ch}))
			continue
		}
		atoms = append(atoms, s.atom())
		if s.failed() {
			return 0
		}
	}
	if len(atoms) == 0 {
		s.fail(E70, "empty \\%[]")
		return 0
	}
	// Build from the last atom backward: each wraps in (x TAIL)?
	tail := 0
	for i := len(atoms) - 1; i >= 0; i-- {
		a := atoms[i]
		if tail != 0 {
			s.em.regtail(a, tail)
		}
		wrapped := s.em.reginsert(opcode.BRANCH, a)
		s.em.regtail(wrapped, s.em.node(opcode.BRANCH))
		next := s.em.node(opcode.NOTHING)
		s.em.regtail(wrapped, next)
		s.em.regoptail(wrapped, next)
		tail = wrapped
	}
	return tail
}

// emitLiteralRune emits a single decoded code point: EXACTLY for bytes
// that round-trip through a single UTF-8 byte, MULTIBYTECODE otherwise.
func (s *state) emitLiteralRune(r rune) int {
	if r < 0x80 {
		return s.emitExactly([]byte{byte(r)})
	}
	return s.emitMultibyte(r)
}

func (s *state) emitExactly(b []byte) int {
	n := s.em.node(opcode.EXACTLY)
	s.em.sk.emitBytes(b)
	s.em.sk.emitByte(0)
	return n
}

func (s *state) emitMultibyte(r rune) int {
	buf := make([]byte, utf8.UTFMax)
	ln := utf8.EncodeRune(buf, r)
	n := s.em.node(opcode.MULTIBYTECODE)
	s.em.sk.emitBytes(buf[:ln])
	s.em.sk.emitByte(0)
	return n
}

// emitLiteralRun consumes first (already read) plus every further plain
// literal byte the lexer hands back with no intervening metacharacter,
// folding them into one EXACTLY node. This only runs when the next token
// isn't about to be quantified by the caller still holding the single-char
// lookahead in piece() — matching the source's well-known "abc* means
// ab(c*)" behavior, since regconcat/regpiece only ever see one atom at a
// time and it's regatom that greedily swallows a literal run.
func (s *state) emitLiteralRun(first byte) int {
	buf := []byte{first}
	for {
		t := s.lex.Peek()
		if t.Kind != lexer.KLiteral {
			break
		}
		// Don't swallow a literal that a following quantifier would
		// need to apply to alone.
		nt := s.peekAfter()
		if isQuantifierStart(nt) {
			break
		}
		s.lex.Get()
		buf = append(buf, t.Ch)
	}
	return s.emitExactly(buf)
}

// peekAfter looks one token past the current push-back slot. The lexer
// only supports a single slot, so this consumes-and-restores via its own
// position bookkeeping.
func (s *state) peekAfter() lexer.Token {
	cur := s.lex.Peek()
	savedPos := s.lex.Pos()
	s.lex.Get()
	n := s.lex.Peek()
	s.lex.SetPos(savedPos)
	s.lex.PushBack(cur)
	return n
}

func isQuantifierStart(t lexer.Token) bool {
	if t.Kind != lexer.KPunct || !t.Magic {
		return false
	}
	switch t.Ch {
	case '*', '+', '?', '=', '{', '@':
		return true
	}
	return false
}

// emitClass dispatches a KClass token (\d \D \i \I ... and their \_ variants)
// to the matching named-class opcode.
func (s *state) emitClass(t lexer.Token) int {
	op, ok := classOpcode(t.Ch)
	if !ok {
		s.fail(E63, "invalid use of \\_")
		return 0
	}
	if t.WithNewline {
		op = opcode.WithNewline(op)
	}
	return s.em.node(op)
}

var classOps = map[byte]opcode.Code{
	'i': opcode.IDENT, 'I': opcode.SIDENT,
	'k': opcode.KWORD, 'K': opcode.SKWORD,
	'f': opcode.FNAME, 'F': opcode.SFNAME,
	'p': opcode.PRINT, 'P': opcode.SPRINT,
	's': opcode.WHITE, 'S': opcode.NWHITE,
	'd': opcode.DIGIT, 'D': opcode.NDIGIT,
	'x': opcode.HEX, 'X': opcode.NHEX,
	'o': opcode.OCTAL, 'O': opcode.NOCTAL,
	'w': opcode.WORD, 'W': opcode.NWORD,
	'h': opcode.HEAD, 'H': opcode.NHEAD,
	'a': opcode.ALPHA, 'A': opcode.NALPHA,
	'l': opcode.LOWER, 'L': opcode.NLOWER,
	'u': opcode.UPPER, 'U': opcode.NUPPER,
}

func classOpcode(letter byte) (opcode.Code, bool) {
	op, ok := classOps[letter]
	return op, ok
}

// compileBracket compiles a `[...]` bracket expression into ANYOF/ANYBUT
// (or their +NEWLINE variants), expanding ranges, POSIX classes and
// equivalence classes into an explicit membership byte string — the
// classic Spencer ANYOF encoding (operand is literally the set of member
// bytes, matched with a membership test rather than a bitmap).
func (s *state) compileBracket(withNL bool) int {
	pat := s.lex.Pattern()
	p := s.lex.Pos()
	end := lexer.SkipOverCharacterClass(pat, p)
	if end >= len(pat) {
		s.fail(E769, "missing ] after [")
		return 0
	}

	negate := false
	q := p
	if q < end && pat[q] == '^' {
		negate = true
		q++
	}

	var member [256]bool
	first := true
	for q < end {
		switch {
		case pat[q] == ']' && first:
			member[']'] = true
			q++
		case pat[q] == '\\' && q+1 < end && pat[q+1] == 'n':
			member['\n'] = true
			q += 2
		case pat[q] == '[' && q+1 < end && (pat[q+1] == ':' || pat[q+1] == '=' || pat[q+1] == '.'):
			nq, ok := s.compilePosixSub(pat, q, end, &member)
			if !ok {
				q++
				break
			}
			q = nq
		case q+2 < end && pat[q+1] == '-' && pat[q+2] != ']':
			lo, hi := pat[q], pat[q+2]
			if lo > hi {
				s.fail(E54, "invalid range in [...]")
				return 0
			}
			for c := int(lo); c <= int(hi); c++ {
				member[c] = true
			}
			q += 3
		default:
			member[pat[q]] = true
			q++
		}
		first = false
	}

	s.lex.SetPos(end + 1) // consume the closing ]

	var buf []byte
	for c := 0; c < 256; c++ {
		if member[c] {
			buf = append(buf, byte(c))
		}
	}

	op := opcode.ANYOF
	if negate {
		op = opcode.ANYBUT
	}
	if withNL {
		op = opcode.ANYOFNL
		if negate {
			op = opcode.ANYBUTNL
		}
	}
	node := s.em.node(op)
	s.em.sk.emitBytes(buf)
	s.em.sk.emitByte(0)
	return node
}

// compilePosixSub expands one `[:name:]`, `[=c=]`, or `[.c.]` sub-expression
// starting at pat[q]=='[' into member, returning the index just past it.
func (s *state) compilePosixSub(pat []byte, q, end int, member *[256]bool) (int, bool) {
	if q+1 >= end {
		return q, false
	}
	kind := pat[q+1]
	r := q + 2
	start := r
	for r+1 < end && !(pat[r] == kind && pat[r+1] == ']') {
		r++
	}
	if r+1 >= end {
		return q, false
	}
	name := string(pat[start:r])
	switch kind {
	case ':':
		for c := 0; c < 256; c++ {
			if ok, known := chartab.PosixClass(name, byte(c)); known && ok {
				member[c] = true
			}
		}
	case '=':
		if len(name) == 1 {
			for _, r := range chartab.EquivClass(name[0]) {
				if r < 256 {
					member[r] = true
				}
			}
		}
	case '.':
		for i := 0; i < len(name); i++ {
			member[name[i]] = true
		}
	}
	return r + 2, true
}
