// Package ast is the minimal syntax-tree shape internal/lower consumes.
// Lexing and parsing are out of scope for this module (SPEC_FULL.md §1);
// this package is a literal mirror of the node accessor methods the
// original lowering source reads (ast::Expression::*, ast::Statement::*
// and their .condition()/.body()/.elif_branches()/... accessors), not an
// invented grammar, so any real parser producing this shape can be
// lowered without modification to internal/lower.
package ast

import "github.com/ryota2357/lico-sub000/internal/ir"

// Range is a half-open byte-offset span, identical in shape to ir.Range
// so lowering can copy a node's range directly onto the IR entry it
// produces.
type Range = ir.Range

// Param is a function parameter name.
type Param struct {
	Name  string
	Range Range
}

// PathSeg is one segment of a dotted `t.f.g` declaration path.
type PathSeg struct {
	Name  string
	Range Range
}

// Block is a sequence of statements optionally followed by a tail
// expression, the Language's `do .. end`-flavored body shape shared by
// if/elif/else arms, loop bodies, and function bodies.
type Block struct {
	Stmts []Statement
	Tail  Expression // nil when the block has no tail expression
	Range Range
}

// Statement is implemented by every statement-position AST node.
type Statement interface {
	isStmt()
	Span() Range
}

// Expression is implemented by every expression-position AST node.
type Expression interface {
	isExpr()
	Span() Range
}

// --- statements ---

type LocalDecl struct {
	Name      string
	NameRange Range
	Value     Expression // nil for `local x` with no initializer
	Range     Range
}

// FuncDeclKind distinguishes the three shapes a function declaration's
// name path can take, matching the dispatch lower_ast/effect.rs performs
// on the declared path's shape.
type FuncDeclKind uint8

const (
	FuncDeclPlain FuncDeclKind = iota
	FuncDeclField
	FuncDeclMethod
)

type FuncDecl struct {
	Kind         FuncDeclKind
	Name         string // FuncDeclPlain: the bound name
	NameRange    Range
	Table        string // FuncDeclField/FuncDeclMethod: the root local table's name
	TableRange   Range
	Path         []PathSeg // FuncDeclField/FuncDeclMethod: intermediate dotted segments
	MethodName   string    // FuncDeclMethod only: the arrow-bound method name
	MethodRange  Range
	Params       []Param
	Body         Block
	Range        Range
}

type Assign struct {
	Target Expression
	Value  Expression
	Range  Range
}

type ElifBranch struct {
	Condition Expression
	Body      Block
	Range     Range
}

type If struct {
	Condition Expression
	Body      Block
	Elif      []ElifBranch
	Else      *Block
	Range     Range
}

type LoopFor struct {
	Variable      string
	VariableRange Range
	Iterable      Expression
	Body          Block
	Range         Range
}

type LoopWhile struct {
	Condition Expression
	Body      Block
	Range     Range
}

type Return struct {
	Value Expression // nil for a bare `return`
	Range Range
}

type Break struct{ Range Range }
type Continue struct{ Range Range }

type ExprStmt struct {
	Value Expression
	Range Range
}

type DoStmt struct {
	Body  Block
	Range Range
}

func (LocalDecl) isStmt() {}
func (FuncDecl) isStmt()  {}
func (Assign) isStmt()    {}
func (If) isStmt()        {}
func (LoopFor) isStmt()   {}
func (LoopWhile) isStmt() {}
func (Return) isStmt()    {}
func (Break) isStmt()     {}
func (Continue) isStmt()  {}
func (ExprStmt) isStmt()  {}
func (DoStmt) isStmt()    {}

func (s LocalDecl) Span() Range { return s.Range }
func (s FuncDecl) Span() Range  { return s.Range }
func (s Assign) Span() Range    { return s.Range }
func (s If) Span() Range        { return s.Range }
func (s LoopFor) Span() Range   { return s.Range }
func (s LoopWhile) Span() Range { return s.Range }
func (s Return) Span() Range    { return s.Range }
func (s Break) Span() Range     { return s.Range }
func (s Continue) Span() Range  { return s.Range }
func (s ExprStmt) Span() Range  { return s.Range }
func (s DoStmt) Span() Range    { return s.Range }

// --- expressions ---

type IfExpr struct {
	Condition Expression
	Body      Block
	Elif      []ElifBranch
	Else      *Block
	Range     Range
}

type DoExpr struct {
	Body  Block
	Range Range
}

type CallExpr struct {
	Callee Expression
	Args   []Expression
	Range  Range
}

type BinaryExpr struct {
	LHS, RHS Expression
	Op       ir.BinaryOp
	Range    Range
}

type PrefixExpr struct {
	Operand Expression
	Op      ir.PrefixOp
	Range   Range
}

type IndexExpr struct {
	Target Expression
	Index  Expression
	Range  Range
}

type FieldExpr struct {
	Target    Expression
	Name      string
	NameRange Range
	Range     Range
}

type MethodCallExpr struct {
	Target    Expression
	Name      string
	NameRange Range
	Args      []Expression
	Range     Range
}

// ParenExpr is `(expr)`; Inner is nil for the `()` parser-recovery
// fallback, which lowers to nil (§4.2).
type ParenExpr struct {
	Inner Expression
	Range Range
}

type LocalVarExpr struct {
	Name  string
	Range Range
}

// IntLit/FloatLit carry the raw source text (with any `0x`/`0b`/`0o`
// prefix and `_` separators still present) so lowering can apply the
// exact base-detection and underscore-removal rules (§4.2).
type IntLit struct {
	Text  string
	Range Range
}

type FloatLit struct {
	Text  string
	Range Range
}

// StringLit carries the raw token text including its surrounding quote
// characters, so lowering applies the exact quote-stripping rule (§4.2).
type StringLit struct {
	Text  string
	Range Range
}

type BoolLit struct {
	Val   bool
	Range Range
}

type NilLit struct{ Range Range }

type ArrayExpr struct {
	Elements []Expression
	Range    Range
}

// TableFieldNode is one `{ key = value }`/`{ [expr] = value }`/`{ name }`
// field. Exactly one of KeyIdent/KeyExpr is non-nil/set; Initializer is
// nil for a field with no explicit value.
type TableFieldNode struct {
	KeyIdent    string
	HasKeyIdent bool
	KeyIdentRng Range
	KeyExpr     Expression
	Initializer Expression
	Range       Range
}

type TableExpr struct {
	Fields []TableFieldNode
	Range  Range
}

type FuncExpr struct {
	Params []Param
	Body   Block
	Range  Range
}

func (IfExpr) isExpr()         {}
func (DoExpr) isExpr()         {}
func (CallExpr) isExpr()       {}
func (BinaryExpr) isExpr()     {}
func (PrefixExpr) isExpr()     {}
func (IndexExpr) isExpr()      {}
func (FieldExpr) isExpr()      {}
func (MethodCallExpr) isExpr() {}
func (ParenExpr) isExpr()      {}
func (LocalVarExpr) isExpr()   {}
func (IntLit) isExpr()         {}
func (FloatLit) isExpr()       {}
func (StringLit) isExpr()      {}
func (BoolLit) isExpr()        {}
func (NilLit) isExpr()         {}
func (ArrayExpr) isExpr()      {}
func (TableExpr) isExpr()      {}
func (FuncExpr) isExpr()       {}

func (e IfExpr) Span() Range         { return e.Range }
func (e DoExpr) Span() Range         { return e.Range }
func (e CallExpr) Span() Range       { return e.Range }
func (e BinaryExpr) Span() Range     { return e.Range }
func (e PrefixExpr) Span() Range     { return e.Range }
func (e IndexExpr) Span() Range      { return e.Range }
func (e FieldExpr) Span() Range      { return e.Range }
func (e MethodCallExpr) Span() Range { return e.Range }
func (e ParenExpr) Span() Range      { return e.Range }
func (e LocalVarExpr) Span() Range   { return e.Range }
func (e IntLit) Span() Range         { return e.Range }
func (e FloatLit) Span() Range       { return e.Range }
func (e StringLit) Span() Range      { return e.Range }
func (e BoolLit) Span() Range        { return e.Range }
func (e NilLit) Span() Range         { return e.Range }
func (e ArrayExpr) Span() Range      { return e.Range }
func (e TableExpr) Span() Range      { return e.Range }
func (e FuncExpr) Span() Range       { return e.Range }
