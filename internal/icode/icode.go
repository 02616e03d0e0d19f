// Package icode defines ICode, the flat bytecode instruction set the
// stack VM executes.
package icode

import "github.com/ryota2357/lico-sub000/internal/ir"

// ICode is implemented by every bytecode instruction. Every opcode that
// can raise a runtime exception carries its source Range directly
// (Go's interface-boxed variants have no enum-wide size penalty for
// this, unlike the original's tagged union, so there's no need for the
// original's separate source-range sidecar keyed by instruction index;
// see DESIGN.md).
type ICode interface {
	isICode()
	// String renders the instruction in the original's fixed-width
	// Display format, used by `cmd/lico disasm`.
	String() string
}

// Const is a compile-time-constant value, used only by the constant
// collection folding opcodes (LoadArrayObject/LoadTableObject, §3.3).
// It is a template the VM instantiates into a real heap object each
// time the instruction executes; it is never itself a heap object, so
// this package has no dependency on internal/object.
type Const interface{ isConst() }

type ConstNil struct{}
type ConstBool struct{ Val bool }
type ConstInt struct{ Val int64 }
type ConstFloat struct{ Val float64 }
type ConstString struct{ Val string }
type ConstArray struct{ Elements []Const }
type ConstTableField struct {
	Key   Const // ConstString for a name key, or any Const for a computed constant key
	Value Const
}
type ConstTable struct{ Fields []ConstTableField }

func (ConstNil) isConst()    {}
func (ConstBool) isConst()   {}
func (ConstInt) isConst()    {}
func (ConstFloat) isConst()  {}
func (ConstString) isConst() {}
func (ConstArray) isConst()  {}
func (ConstTable) isConst()  {}

// --- stack/local/literal opcodes ---

type LoadNilObject struct{}
type LoadBoolObject struct{ Val bool }
type LoadIntObject struct{ Val int64 }
type LoadFloatObject struct{ Val float64 }
type LoadStringObject struct{ Val string }
type LoadArrayObject struct{ Val ConstArray }
type LoadTableObject struct{ Val ConstTable }

// MakeArray pops exactly N values (pushed left-to-right by the element
// expressions) and builds an array preserving push order: element 0 is
// the first value pushed, not the last one popped.
type MakeArray struct{ N int }

// MakeTable pops 2*N values (key, value pairs, in field order) and
// builds a table. KeyRanges[i] is set only when field i's key was a
// computed (non-identifier) expression — the source of the
// non-string-key sub-index reporting boundary behavior (§8.4).
type MakeTable struct {
	N         int
	KeyRanges []ir.Range
	HasRange  []bool
}

type LoadLocal struct{ ID int }
type StoreLocal struct{ ID int }
type StoreNewLocal struct{}
type DropLocal struct{ N int }

// GetItem/SetItem implement indexing (`v[k]`/`v.f` sugar) with a single
// source range for the index/field expression.
type GetItem struct{ Range ir.Range }
type SetItem struct{ Range ir.Range }

// SetMethod installs the function left on the stack beneath the table
// on top of it as a dunder/instance method on that table, rather than
// as a plain field.
type SetMethod struct {
	Name  string
	Range ir.Range
}

type GetIter struct{}
type IterMoveNext struct{}
type IterCurrent struct{}

// --- control flow ---

// Jump/JumpIfTrue/JumpIfFalse carry a signed offset added directly to
// the program counter (pc = pc + Offset); there is no implicit
// increment past the jump instruction itself.
type Jump struct{ Offset int }
type JumpIfTrue struct{ Offset int }
type JumpIfFalse struct{ Offset int }

// --- operators ---

type Unp struct{ Range ir.Range }
type Unm struct{ Range ir.Range }
type Not struct{ Range ir.Range }
type BitNot struct{ Range ir.Range }

type Add struct{ Range ir.Range }
type Sub struct{ Range ir.Range }
type Mul struct{ Range ir.Range }
type Div struct{ Range ir.Range }
type Mod struct{ Range ir.Range }
type ShiftL struct{ Range ir.Range }
type ShiftR struct{ Range ir.Range }
type Concat struct{ Range ir.Range }
type Eq struct{ Range ir.Range }
type NotEq struct{ Range ir.Range }
type Less struct{ Range ir.Range }
type LessEq struct{ Range ir.Range }
type Greater struct{ Range ir.Range }
type GreaterEq struct{ Range ir.Range }
type BitAnd struct{ Range ir.Range }
type BitOr struct{ Range ir.Range }
type BitXor struct{ Range ir.Range }

// --- calls and function construction ---

// Call invokes the value left on the stack below its N arguments.
// CalleeRange is only recorded in value position (the result is used,
// so a failed call needs to be attributed to the callee expression
// too); in effect position HasCalleeRange is false and only argument
// ranges are available.
type Call struct {
	Argc           uint8
	HasCalleeRange bool
	CalleeRange    ir.Range
	ArgRanges      []ir.Range
}

// CallMethod invokes Name as a method on the receiver left on the stack
// below its N arguments. In value position Ranges holds
// [receiver, name, arg0, arg1, ...]; in effect position (discarded
// result) only [arg0, arg1, ...] is recorded.
type CallMethod struct {
	Argc          uint8
	Name          string
	Ranges        []ir.Range
	HasReceiverAt bool // true when Ranges[0] is the receiver's range, Ranges[1] the name's
}

type Unload struct{}
type Leave struct{}

// Placeholder stands in for a forward/backward jump's not-yet-known
// offset while a Fragment is under construction. Fragment.Finish
// guarantees none survive into a finished instruction stream.
type Placeholder struct{}

// BeginFuncSection opens a function-object construction sequence:
// exactly one FuncSetProperty followed by zero or more FuncAddCapture,
// closed by EndFuncSection. The VM builds the closure from these three
// and pushes it once EndFuncSection is reached; nesting is not allowed.
type BeginFuncSection struct{}

// FuncSetProperty gives the function's parameter count and its body's
// start offset in the final linearized stream. FuncID is a funcList
// index while codegen is assembling a single function body and is
// rewritten to that absolute offset by Context.Finish.
type FuncSetProperty struct {
	ParamCount uint8
	FuncID     int
}
type FuncAddCapture struct{ LocalID int }
type EndFuncSection struct{}

func (LoadNilObject) isICode()     {}
func (LoadBoolObject) isICode()    {}
func (LoadIntObject) isICode()     {}
func (LoadFloatObject) isICode()   {}
func (LoadStringObject) isICode()  {}
func (LoadArrayObject) isICode()   {}
func (LoadTableObject) isICode()   {}
func (MakeArray) isICode()         {}
func (MakeTable) isICode()         {}
func (LoadLocal) isICode()         {}
func (StoreLocal) isICode()        {}
func (StoreNewLocal) isICode()     {}
func (DropLocal) isICode()         {}
func (GetItem) isICode()           {}
func (SetItem) isICode()           {}
func (SetMethod) isICode()         {}
func (GetIter) isICode()           {}
func (IterMoveNext) isICode()      {}
func (IterCurrent) isICode()       {}
func (Jump) isICode()              {}
func (JumpIfTrue) isICode()        {}
func (JumpIfFalse) isICode()       {}
func (Unp) isICode()               {}
func (Unm) isICode()               {}
func (Not) isICode()               {}
func (BitNot) isICode()            {}
func (Add) isICode()               {}
func (Sub) isICode()               {}
func (Mul) isICode()               {}
func (Div) isICode()               {}
func (Mod) isICode()               {}
func (ShiftL) isICode()            {}
func (ShiftR) isICode()            {}
func (Concat) isICode()            {}
func (Eq) isICode()                {}
func (NotEq) isICode()             {}
func (Less) isICode()              {}
func (LessEq) isICode()            {}
func (Greater) isICode()           {}
func (GreaterEq) isICode()         {}
func (BitAnd) isICode()            {}
func (BitOr) isICode()             {}
func (BitXor) isICode()            {}
func (Call) isICode()              {}
func (CallMethod) isICode()        {}
func (Unload) isICode()            {}
func (Leave) isICode()             {}
func (Placeholder) isICode()       {}
func (BeginFuncSection) isICode()  {}
func (FuncSetProperty) isICode()   {}
func (FuncAddCapture) isICode()    {}
func (EndFuncSection) isICode()    {}
