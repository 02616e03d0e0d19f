package object

import (
	"strings"
)

// Array is a growable, mixed-type sequence, ported from object::Array.
// Elements are appended/indexed by int, with negative indices resolved
// relative to the end by the VM before reaching Array itself (see
// internal/vm's ensureArrayIndex, grounded on exec_icode.rs's
// ensure_array_index).
type Array struct {
	gcHeader
	elems []Object
}

func NewArray(elems []Object) *Array {
	return &Array{elems: elems}
}

func (*Array) isObject()        {}
func (*Array) TypeName() string { return "array" }

func (a *Array) String() string {
	parts := make([]string, len(a.elems))
	for i, e := range a.elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (a *Array) Len() int { return len(a.elems) }

func (a *Array) Get(i int) (Object, bool) {
	if i < 0 || i >= len(a.elems) {
		return nil, false
	}
	return a.elems[i], true
}

func (a *Array) Set(i int, v Object) { a.elems[i] = v }

func (a *Array) Push(v Object) { a.elems = append(a.elems, v) }

func (a *Array) Pop() (Object, bool) {
	if len(a.elems) == 0 {
		return nil, false
	}
	v := a.elems[len(a.elems)-1]
	a.elems = a.elems[:len(a.elems)-1]
	return v, true
}

func (a *Array) Slice() []Object { return a.elems }

func (a *Array) Children() []Traceable {
	var out []Traceable
	for _, e := range a.elems {
		if t, ok := e.(Traceable); ok {
			out = append(out, t)
		}
	}
	return out
}

func (a *Array) clearChildren() { a.elems = nil }
