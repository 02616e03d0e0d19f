// Package lower lowers an internal/ast syntax tree into an internal/ir
// Module: Strage-backed Effect/Value trees, one per spec.md §4.2's
// per-statement and per-expression lowering tables.
package lower

import (
	"github.com/ryota2357/lico-sub000/internal/ast"
	"github.com/ryota2357/lico-sub000/internal/diag"
	"github.com/ryota2357/lico-sub000/internal/ir"
)

type scopeKind uint8

const (
	scopeNest scopeKind = iota // Branch/LoopFor/LoopWhile/Scope/Block: names don't leak out
	scopeFunc                  // MakeFunc/SetFieldFunc/SetMethod/Function: a new enclosing frame
)

type scopeMarker struct{ id uint32 }

// Context carries the in-progress Strage builder, the diagnostic
// collector lowering accumulates into (never aborting on the first
// error, §7), and the scope-index counter used to disambiguate shadowed
// local names for capture analysis.
type Context struct {
	builder      *ir.StrageBuilder
	diags        *diag.Collector
	scopeStack   []uint32
	scopeCounter uint32
	loopDepth    int
}

func newContext() *Context {
	return &Context{builder: ir.NewStrageBuilder(), diags: &diag.Collector{}}
}

// StartScope opens a new lexical scope; callers must pair it with a
// matching FinishScope, in LIFO order, before returning.
func (ctx *Context) StartScope(kind scopeKind) scopeMarker {
	_ = kind // kind only distinguishes intent at call sites; scoping itself is uniform here
	ctx.scopeCounter++
	id := ctx.scopeCounter
	ctx.scopeStack = append(ctx.scopeStack, id)
	return scopeMarker{id: id}
}

func (ctx *Context) FinishScope(m scopeMarker) {
	n := len(ctx.scopeStack)
	if n == 0 || ctx.scopeStack[n-1] != m.id {
		diag.Bug("lower: scope finished out of LIFO order")
	}
	ctx.scopeStack = ctx.scopeStack[:n-1]
}

func (ctx *Context) ScopeIndex() uint32 {
	if len(ctx.scopeStack) == 0 {
		return 0
	}
	return ctx.scopeStack[len(ctx.scopeStack)-1]
}

// Lower lowers a top-level block (a whole compilation unit's body) into
// a Module and the diagnostics collected along the way. Lowering never
// aborts on the first diagnostic; a non-empty diagnostic slice may still
// come paired with a usable (if partially-recovered) Module.
func Lower(block ast.Block) (*ir.Module, []diag.Diagnostic) {
	ctx := newContext()
	effects, tail := lowerBlockBody(ctx, block)
	if tail.has {
		valKey := ctx.builder.AddValue(tail.rng, tail.value, true)
		effects = append(effects, ir.EffectEntry{Range: tail.rng, Effect: ir.EffectNoEffectValue{Value: valKey}})
	}
	effKey := ctx.builder.AddEffects(effects)
	strage := ctx.builder.Finish()
	return ir.NewModule(effKey, strage), ctx.diags.Diagnostics()
}

// loweredTail is the lowered form of a Block's optional tail expression.
type loweredTail struct {
	rng   ir.Range
	value ir.Value
	has   bool
}

func lowerBlockBody(ctx *Context, b ast.Block) ([]ir.EffectEntry, loweredTail) {
	effects := make([]ir.EffectEntry, 0, len(b.Stmts))
	for _, s := range b.Stmts {
		rng, eff := lowerStatement(ctx, s)
		effects = append(effects, ir.EffectEntry{Range: rng, Effect: eff})
	}
	var tail loweredTail
	if b.Tail != nil {
		tail = loweredTail{rng: b.Tail.Span(), value: lowerExpr(ctx, b.Tail), has: true}
	}
	return effects, tail
}

// lowerValueKey lowers an optional expression directly into a ValueKey,
// returning the "missing" zero key for a nil expression.
func (ctx *Context) lowerValueKey(e ast.Expression) ir.ValueKey {
	if e == nil {
		return ir.ValueKey{}
	}
	return ctx.builder.AddValue(e.Span(), lowerExpr(ctx, e), true)
}

// lowerEffectsKey lowers a block used purely for effect (a loop body, an
// if-statement arm, a `do` statement): any tail expression the block
// happens to carry is folded into a NoEffectValue effect rather than
// discarded, since statement-position blocks in this grammar carry no
// separate "tail value" slot of their own.
func (ctx *Context) lowerEffectsKey(b ast.Block) ir.EffectsKey {
	effects, tail := lowerBlockBody(ctx, b)
	if tail.has {
		valKey := ctx.builder.AddValue(tail.rng, tail.value, true)
		effects = append(effects, ir.EffectEntry{Range: tail.rng, Effect: ir.EffectNoEffectValue{Value: valKey}})
	}
	return ctx.builder.AddEffects(effects)
}

// lowerBlockAsValueParts lowers a block used in value position (an if
// arm, a `do` expression): its tail expression, if any, becomes the
// returned ValueKey rather than a NoEffectValue effect.
func (ctx *Context) lowerBlockAsValueParts(b ast.Block) (ir.EffectsKey, ir.ValueKey) {
	effects, tail := lowerBlockBody(ctx, b)
	effKey := ctx.builder.AddEffects(effects)
	var tailKey ir.ValueKey
	if tail.has {
		tailKey = ctx.builder.AddValue(tail.rng, tail.value, true)
	}
	return effKey, tailKey
}

func (ctx *Context) lowerOptionalBlockAsValueParts(b *ast.Block) (ir.EffectsKey, ir.ValueKey) {
	if b == nil {
		return ctx.builder.AddEffects(nil), ir.ValueKey{}
	}
	return ctx.lowerBlockAsValueParts(*b)
}

func lowerValueEntries(ctx *Context, exprs []ast.Expression) []ir.ValueEntry {
	out := make([]ir.ValueEntry, len(exprs))
	for i, e := range exprs {
		out[i] = ir.ValueEntry{Range: e.Span(), Value: lowerExpr(ctx, e)}
	}
	return out
}

// lowerFunction lowers a function's parameter list and body into a
// FunctionKey, opening a fresh function scope for the duration. A tail
// expression becomes a trailing Return effect; a function whose body
// has no tail expression ends without one; internal/codegen's
// compileFunction appends the LoadNilObject/Leave that makes falling off
// the end an implicit `return nil`.
func lowerFunction(ctx *Context, params []ast.Param, body ast.Block) ir.FunctionKey {
	marker := ctx.StartScope(scopeFunc)
	defer ctx.FinishScope(marker)

	paramEntries := make([]ir.SymbolEntry, len(params))
	for i, p := range params {
		paramEntries[i] = ir.SymbolEntry{
			Range:  p.Range,
			Symbol: ir.Symbol{Name: p.Name, Scope: ctx.ScopeIndex()},
		}
	}

	effects, tail := lowerBlockBody(ctx, body)
	if tail.has {
		valKey := ctx.builder.AddValue(tail.rng, tail.value, true)
		effects = append(effects, ir.EffectEntry{Range: tail.rng, Effect: ir.EffectReturn{Value: valKey}})
	}
	return ctx.builder.AddFunction(paramEntries, effects)
}
