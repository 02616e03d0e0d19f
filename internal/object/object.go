// Package object defines the runtime value representation internal/vm
// operates on: the scalar Object variants plus the heap types (Array,
// Table, Function, NativeFunction) that participate in reference
// counting and cycle collection (see gc.go).
package object

import "fmt"

// Object is implemented by every runtime value the VM's stack, locals,
// and containers hold.
type Object interface {
	isObject()
	// TypeName names the type the way runtime exception messages do
	// ("int", "table", ...), grounded on Object::type_name in the
	// original source.
	TypeName() string
	String() string
}

type Int int64
type Float float64
type Bool bool
type Nil struct{}

func (Int) isObject()   {}
func (Float) isObject() {}
func (Bool) isObject()  {}
func (Nil) isObject()   {}

func (Int) TypeName() string   { return "int" }
func (Float) TypeName() string { return "float" }
func (Bool) TypeName() string  { return "bool" }
func (Nil) TypeName() string   { return "nil" }

func (v Int) String() string   { return fmt.Sprintf("%d", int64(v)) }
func (v Float) String() string { return fmt.Sprintf("%g", float64(v)) }
func (v Bool) String() string  { return fmt.Sprintf("%t", bool(v)) }
func (Nil) String() string     { return "nil" }

// IsTruthy/IsFalsey mirror the original's definition that only Nil and
// Bool(false) are falsey; every other value, including Int(0) and an
// empty String, is truthy.
func IsTruthy(o Object) bool  { return !IsFalsey(o) }
func IsFalsey(o Object) bool {
	switch v := o.(type) {
	case Nil:
		return true
	case Bool:
		return !bool(v)
	default:
		return false
	}
}

// Equal implements the value-equality `Eq`/`NotEq` fall back to when no
// `__eq` dunder method applies: structural equality for scalars and
// Strings, identity for Array/Table/Function/NativeFunction (mirroring
// Rust's derived PartialEq on an Rc-keyed type, which compares the
// pointee only when both sides are the same concrete heap kind —
// reference identity is the closest Go analogue since we don't carry
// the original's Rc pointer-sharing).
func Equal(a, b Object) bool {
	switch av := a.(type) {
	case Int:
		switch bv := b.(type) {
		case Int:
			return av == bv
		case Float:
			return float64(av) == float64(bv)
		}
		return false
	case Float:
		switch bv := b.(type) {
		case Int:
			return float64(av) == float64(bv)
		case Float:
			return av == bv
		}
		return false
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Nil:
		_, ok := b.(Nil)
		return ok
	case *String:
		bv, ok := b.(*String)
		return ok && av.Value.Equal(bv.Value)
	case *Array:
		bv, ok := b.(*Array)
		return ok && av == bv
	case *Table:
		bv, ok := b.(*Table)
		return ok && av == bv
	case *Function:
		bv, ok := b.(*Function)
		return ok && av == bv
	case *NativeFunction:
		bv, ok := b.(*NativeFunction)
		return ok && av == bv
	default:
		return false
	}
}
