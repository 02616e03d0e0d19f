package object

import "github.com/ryota2357/lico-sub000/internal/icode"

// Executable is the linearized instruction stream produced by
// internal/codegen, shared by every Function closure constructed while
// running it. Two Functions belong to the "same executable" (and so can
// resume the calling runtime's own pc rather than spinning up a nested
// Runtime) exactly when their *Executable pointers are equal, mirroring
// exe.ptr_eq in lib.rs's exec_function_with_core.
type Executable struct {
	Code []icode.ICode
}

func NewExecutable(code []icode.ICode) *Executable {
	return &Executable{Code: code}
}

// Cell is a shared, mutable reference cell: closures capture locals by
// reference (GetRef in the original), not by value, so mutating a
// captured variable through one closure is visible through every other
// closure sharing the same Cell.
type Cell struct {
	Value Object
}

// Function is a closure: the executable it resumes into, where its
// body starts, how many parameters it takes, and the cells it captured
// from its enclosing scope at construction time (in FuncAddCapture
// order, matching the order codegen resolves capture.Captures.Names).
type Function struct {
	gcHeader
	Exe         *Executable
	StartIndex  int
	ParamCount  uint8
	Environment []*Cell
}

func NewFunction(exe *Executable, start int, paramCount uint8, env []*Cell) *Function {
	return &Function{Exe: exe, StartIndex: start, ParamCount: paramCount, Environment: env}
}

func (*Function) isObject()        {}
func (*Function) TypeName() string { return "function" }
func (*Function) String() string   { return "<function>" }

func (f *Function) Children() []Traceable {
	var out []Traceable
	for _, c := range f.Environment {
		if t, ok := c.Value.(Traceable); ok {
			out = append(out, t)
		}
	}
	return out
}

func (f *Function) clearChildren() { f.Environment = nil }

// NativeFunction wraps a Go-implemented callable exposed to interpreted
// code (a host-registered default rfunc, or a method table entry such
// as the range-iterator table int.go's downto/upto build).
type NativeFunction struct {
	gcHeader
	ParamCount uint8
	Call       func(args []Object) (Object, error)
}

func NewNativeFunction(paramCount uint8, call func(args []Object) (Object, error)) *NativeFunction {
	return &NativeFunction{ParamCount: paramCount, Call: call}
}

func (*NativeFunction) isObject()          {}
func (*NativeFunction) TypeName() string   { return "native_function" }
func (*NativeFunction) String() string     { return "<native_function>" }
func (*NativeFunction) Children() []Traceable { return nil }
func (*NativeFunction) clearChildren()        {}
