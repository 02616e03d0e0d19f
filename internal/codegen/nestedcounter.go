package codegen

import "github.com/ryota2357/lico-sub000/internal/diag"

// nestedCounter is a stack of running totals, one per currently-open
// section (a block or a loop body). Incrementing/decrementing only
// ever touches the innermost open section; ending a section pops its
// final count off the stack for the caller to act on (codegen uses
// this to know how many locals a block or loop declared, so it can
// emit the matching DropLocal count when the scope closes).
type nestedCounter struct {
	stack []int
}

func newNestedCounter() *nestedCounter { return &nestedCounter{} }

func (n *nestedCounter) startSection() { n.stack = append(n.stack, 0) }

func (n *nestedCounter) endSection() int {
	l := len(n.stack)
	if l == 0 {
		diag.Bug("codegen: endSection called without a matching startSection")
	}
	v := n.stack[l-1]
	n.stack = n.stack[:l-1]
	return v
}

func (n *nestedCounter) increment(count int) {
	if l := len(n.stack); l > 0 {
		n.stack[l-1] += count
	}
}

func (n *nestedCounter) decrement(count int) {
	if l := len(n.stack); l > 0 {
		n.stack[l-1] -= count
	}
}

func (n *nestedCounter) currentCount() (int, bool) {
	if l := len(n.stack); l > 0 {
		return n.stack[l-1], true
	}
	return 0, false
}
