package ir

// Symbol names a local-variable reference together with the lexical
// scope index it was read in, used by capture analysis to disambiguate
// shadowed names.
type Symbol struct {
	Name  string
	Scope uint32
}

// BinaryOpKind enumerates the Language's binary operators.
type BinaryOpKind uint8

const (
	BinaryMissing BinaryOpKind = iota
	BinaryAdd
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryMod
	BinaryShl
	BinaryShr
	BinaryConcat
	BinaryEq
	BinaryNe
	BinaryLt
	BinaryLe
	BinaryGt
	BinaryGe
	BinaryAnd
	BinaryOr
	BinaryBitAnd
	BinaryBitOr
	BinaryBitXor
)

// BinaryOp carries both the operator kind and the source range of the
// operator token, needed to attribute a runtime type error to the
// operator rather than to one of its operands.
type BinaryOp struct {
	Kind  BinaryOpKind
	Range Range
}

// PrefixOpKind enumerates the Language's prefix operators.
type PrefixOpKind uint8

const (
	PrefixMissing PrefixOpKind = iota
	PrefixPlus
	PrefixMinus
	PrefixNot
	PrefixBitNot
)

type PrefixOp struct {
	Kind  PrefixOpKind
	Range Range
}

// Value is implemented by every expression-position IR node.
type Value interface{ isValue() }

type ValueNil struct{}
type ValueBool struct{ Val bool }
type ValueInt struct{ Val int64 }
type ValueFloat struct{ Val float64 }
type ValueString struct{ Val string }

// ValueLocal reads a local variable by name, resolved later by codegen
// to a local slot id.
type ValueLocal struct{ Name SymbolKey }

// ValueBranch is an if-expression, already folded so that elif chains
// are nested Branch values (spec §4.2's elif-folding rule, identical in
// effect- and value-position).
type ValueBranch struct {
	Condition ValueKey
	Then      EffectsKey
	ThenTail  ValueKey
	Else      EffectsKey
	ElseTail  ValueKey
}

// ValueBlock is a `do .. end` expression.
type ValueBlock struct {
	Effects EffectsKey
	Tail    ValueKey
}

type ValueCall struct {
	Value ValueKey
	Args  ValueSliceKey
}

type ValueBinary struct {
	LHS, RHS ValueKey
	Op       BinaryOp
}

type ValuePrefix struct {
	Value ValueKey
	Op    PrefixOp
}

type ValueIndex struct {
	Value ValueKey
	Index ValueKey
}

type ValueField struct {
	Value ValueKey
	Name  StringKey
}

type ValueMethodCall struct {
	Value ValueKey
	Name  StringKey
	Args  ValueSliceKey
}

type ValueArray struct {
	Elements ValueSliceKey
}

// TableKeyName is either a computed key (an arbitrary Value, evaluated
// at construction time) or a constant string key (a bare identifier or
// a literal `"..."`key in a table constructor).
type TableKeyName interface{ isTableKeyName() }

type TableKeyNameValue struct{ Key ValueKey }
type TableKeyNameString struct{ Key StringKey }

func (TableKeyNameValue) isTableKeyName()  {}
func (TableKeyNameString) isTableKeyName() {}

type TableField struct {
	Key   TableKeyName
	Value ValueKey
}

type ValueTable struct {
	Fields []TableField
}

type ValueFunction struct {
	Func FunctionKey
}

func (ValueNil) isValue()         {}
func (ValueBool) isValue()        {}
func (ValueInt) isValue()         {}
func (ValueFloat) isValue()       {}
func (ValueString) isValue()      {}
func (ValueLocal) isValue()       {}
func (ValueBranch) isValue()      {}
func (ValueBlock) isValue()       {}
func (ValueCall) isValue()        {}
func (ValueBinary) isValue()      {}
func (ValuePrefix) isValue()      {}
func (ValueIndex) isValue()       {}
func (ValueField) isValue()       {}
func (ValueMethodCall) isValue()  {}
func (ValueArray) isValue()       {}
func (ValueTable) isValue()       {}
func (ValueFunction) isValue()    {}
