package compiler

import "github.com/telephil9/vim/opcode"

// emitInfo is what the grammar needs to know about one emitted node,
// independent of which pass (counting or writing) produced it: its opcode
// (so regoptail can tell BRANCH/BRACECOMPLEX apart from everything else)
// and its own "next" link, followed purely at the Go level so regtail never
// has to read bytes back out of a sink that might not hold any.
type emitInfo struct {
	op   opcode.Code
	next int // 0 == unset
}

// emitter drives one compiler pass: it wraps a sink and keeps the node
// graph navigable (offset -> emitInfo) so regtail/regoptail/reginsert can
// be expressed exactly as in the source, without needing to re-read
// already-emitted bytes.
type emitter struct {
	sk   sink
	info map[int]*emitInfo
}

func newEmitter(sk sink) *emitter {
	return &emitter{sk: sk, info: make(map[int]*emitInfo)}
}

// node emits a bare node (no operand) and returns its offset.
func (e *emitter) node(op opcode.Code) int {
	p := e.sk.emitNode(op)
	e.info[p] = &emitInfo{op: op}
	return p
}

func (e *emitter) regnext(p int) int {
	if p == 0 {
		return 0
	}
	return e.info[p].next
}

// regtail walks p's own next-chain to its end and patches it to val,
// exactly as the source's regtail(p, val).
func (e *emitter) regtail(p, val int) {
	if p == 0 || val == 0 {
		return
	}
	scan := p
	for {
		t := e.regnext(scan)
		if t == 0 {
			break
		}
		scan = t
	}
	e.info[scan].next = val
	e.sk.patchNext(scan, val)
}

// regoptail is regtail but aimed at p's operand sub-chain, only meaningful
// for BRANCH and BRACECOMPLEX0-9 nodes (every other opcode is
// "operandless" from the chain-patching point of view: its own next field
// already is the thing regtail patches).
func (e *emitter) regoptail(p, val int) {
	if p == 0 {
		return
	}
	op := e.info[p].op
	if op != opcode.BRANCH && !isBraceComplex(op) {
		return
	}
	e.regtail(p+headerSize, val)
}

func isBraceComplex(op opcode.Code) bool {
	return op >= opcode.BRACECOMPLEX0 && op < opcode.BRACECOMPLEX0+opcode.Code(10)
}

// reginsert splices a new wrapper node of op immediately before p (which
// must be the start of an already-emitted node), so that the wrapper's
// operand is exactly the node that used to start at p. Returns the
// wrapper's own offset (== the old p).
func (e *emitter) reginsert(op opcode.Code, p int) int {
	return e.insertAt(p, op, headerSize, nil)
}

// reginsertLimits splices a BRACELIMITS node (header + min/max/lazy operand)
// immediately before p, and ties its own next straight to what follows it
// (the BRACESIMPLE/BRACECOMPLEX node that used to start at p).
func (e *emitter) reginsertLimits(min, max uint32, lazy bool, p int) int {
	start := e.insertAt(p, opcode.BRACELIMITS, headerSize+opcode.BraceLimitsSize, func(buf []byte) {
		opcode.PutBraceLimits(buf, headerSize, min, max, lazy)
	})
	e.regtail(start, start+headerSize+opcode.BraceLimitsSize)
	return start
}

// insertAt is the shared splice primitive: grow the sink by n bytes
// (running fill, if given, over a scratch header+operand buffer when
// writing for real) immediately before p, and shift every recorded offset
// and next-link from p onward up by n.
func (e *emitter) insertAt(p int, op opcode.Code, n int, fill func(buf []byte)) int {
	data := make([]byte, n)
	data[0] = byte(op)
	if fill != nil {
		fill(data)
	}
	e.sk.insertBytes(p, data)

	shifted := make(map[int]*emitInfo, len(e.info)+1)
	for k, v := range e.info {
		nk := k
		if k >= p {
			nk = k + n
		}
		if v.next >= p && v.next != 0 {
			v.next += n
		}
		shifted[nk] = v
	}
	e.info = shifted
	e.info[p] = &emitInfo{op: op}
	return p
}

func (e *emitter) opAt(p int) opcode.Code { return e.info[p].op }
