package lower

import (
	"github.com/ryota2357/lico-sub000/internal/ast"
	"github.com/ryota2357/lico-sub000/internal/diag"
	"github.com/ryota2357/lico-sub000/internal/ir"
)

// lowerStatement lowers a single statement to its (range, Effect) pair.
func lowerStatement(ctx *Context, s ast.Statement) (ir.Range, ir.Effect) {
	switch n := s.(type) {
	case ast.LocalDecl:
		return lowerLocalDecl(ctx, n)
	case ast.FuncDecl:
		return lowerFuncDecl(ctx, n)
	case ast.Assign:
		return lowerAssign(ctx, n)
	case ast.If:
		return lowerIfStmt(ctx, n)
	case ast.LoopFor:
		return lowerLoopFor(ctx, n)
	case ast.LoopWhile:
		return lowerLoopWhile(ctx, n)
	case ast.Return:
		return lowerReturn(ctx, n)
	case ast.Break:
		return lowerBreak(ctx, n)
	case ast.Continue:
		return lowerContinue(ctx, n)
	case ast.ExprStmt:
		return lowerExprStmt(ctx, n)
	case ast.DoStmt:
		return lowerDoStmt(ctx, n)
	default:
		diag.Bug("lower: unhandled statement type %T", s)
		panic("unreachable")
	}
}

func lowerLocalDecl(ctx *Context, n ast.LocalDecl) (ir.Range, ir.Effect) {
	valKey := ctx.lowerValueKey(n.Value)
	if n.Value == nil {
		// `local x` with no initializer binds nil, same as an explicit
		// `local x = nil`.
		valKey = ctx.builder.AddValue(n.NameRange, ir.ValueNil{}, true)
	}
	sym := ir.Symbol{Name: n.Name, Scope: ctx.ScopeIndex()}
	nameKey := ctx.builder.AddSymbol(n.NameRange, sym, true)
	return n.Range, ir.EffectMakeLocal{Name: nameKey, Value: valKey}
}

func lowerFuncDecl(ctx *Context, n ast.FuncDecl) (ir.Range, ir.Effect) {
	switch n.Kind {
	case ast.FuncDeclField, ast.FuncDeclMethod:
		funcKey := lowerFunction(ctx, n.Params, n.Body)
		tableSym := ir.Symbol{Name: n.Table, Scope: ctx.ScopeIndex()}
		tableKey := ctx.builder.AddSymbol(n.TableRange, tableSym, true)
		pathEntries := make([]ir.StringEntry, len(n.Path))
		for i, seg := range n.Path {
			pathEntries[i] = ir.StringEntry{Range: seg.Range, Text: seg.Name}
		}
		pathKey := ctx.builder.AddStringMany(pathEntries)
		if n.Kind == ast.FuncDeclField {
			return n.Range, ir.EffectSetFieldFunc{Table: tableKey, Path: pathKey, Func: funcKey}
		}
		nameKey := ctx.builder.AddString(n.MethodRange, n.MethodName, true)
		return n.Range, ir.EffectSetMethod{Table: tableKey, Path: pathKey, Name: nameKey, Func: funcKey}
	default: // ast.FuncDeclPlain
		funcKey := lowerFunction(ctx, n.Params, n.Body)
		sym := ir.Symbol{Name: n.Name, Scope: ctx.ScopeIndex()}
		nameKey := ctx.builder.AddSymbol(n.NameRange, sym, true)
		return n.Range, ir.EffectMakeFunc{Name: nameKey, Func: funcKey}
	}
}

func lowerAssign(ctx *Context, n ast.Assign) (ir.Range, ir.Effect) {
	switch t := n.Target.(type) {
	case ast.IndexExpr:
		return n.Range, ir.EffectSetIndex{
			Target: ctx.lowerValueKey(t.Target),
			Index:  ctx.lowerValueKey(t.Index),
			Value:  ctx.lowerValueKey(n.Value),
		}
	case ast.FieldExpr:
		return n.Range, ir.EffectSetField{
			Target: ctx.lowerValueKey(t.Target),
			Field:  ctx.builder.AddString(t.NameRange, t.Name, true),
			Value:  ctx.lowerValueKey(n.Value),
		}
	case ast.LocalVarExpr:
		sym := ir.Symbol{Name: t.Name, Scope: ctx.ScopeIndex()}
		return n.Range, ir.EffectSetLocal{
			Local: ctx.builder.AddSymbol(t.Range, sym, true),
			Value: ctx.lowerValueKey(n.Value),
		}
	default:
		ctx.diags.Push("invalid assignment target", n.Range)
		valKey := ctx.lowerValueKey(n.Value)
		return n.Range, ir.EffectNoEffectValue{Value: valKey}
	}
}

func lowerIfStmt(ctx *Context, n ast.If) (ir.Range, ir.Effect) {
	condKey := ctx.lowerValueKey(n.Condition)
	thenKey := ctx.lowerEffectsKey(n.Body)
	elseKey := ctx.foldElseChain(n.Elif, n.Else)
	return n.Range, ir.EffectBranch{Condition: condKey, Then: thenKey, Else: elseKey}
}

// foldElseChain lowers the elif/else tail of an if-statement into a
// single EffectsKey, folding the elif chain into nested Branch effects
// from the innermost (last) elif outward — the same right-to-left fold
// used for if-as-expression (§4.2), adapted to effects instead of
// values since a statement-position if carries no tail value.
func (ctx *Context) foldElseChain(elifs []ast.ElifBranch, els *ast.Block) ir.EffectsKey {
	if len(elifs) == 0 {
		return ctx.elseOrEmpty(els)
	}
	last := elifs[len(elifs)-1]
	branch := ir.Effect(ir.EffectBranch{
		Condition: ctx.lowerValueKey(last.Condition),
		Then:      ctx.lowerEffectsKey(last.Body),
		Else:      ctx.elseOrEmpty(els),
	})
	branchRange := last.Range
	for i := len(elifs) - 2; i >= 0; i-- {
		e := elifs[i]
		wrapped := ctx.builder.AddEffects([]ir.EffectEntry{{Range: branchRange, Effect: branch}})
		branch = ir.EffectBranch{
			Condition: ctx.lowerValueKey(e.Condition),
			Then:      ctx.lowerEffectsKey(e.Body),
			Else:      wrapped,
		}
		branchRange = e.Range
	}
	return ctx.builder.AddEffects([]ir.EffectEntry{{Range: branchRange, Effect: branch}})
}

func (ctx *Context) elseOrEmpty(els *ast.Block) ir.EffectsKey {
	if els == nil {
		return ctx.builder.AddEffects(nil)
	}
	return ctx.lowerEffectsKey(*els)
}

func lowerLoopFor(ctx *Context, n ast.LoopFor) (ir.Range, ir.Effect) {
	iterKey := ctx.lowerValueKey(n.Iterable)
	marker := ctx.StartScope(scopeNest)
	ctx.loopDepth++
	varSym := ir.Symbol{Name: n.Variable, Scope: ctx.ScopeIndex()}
	varKey := ctx.builder.AddSymbol(n.VariableRange, varSym, true)
	bodyKey := ctx.lowerEffectsKey(n.Body)
	ctx.loopDepth--
	ctx.FinishScope(marker)
	return n.Range, ir.EffectLoopFor{Variable: varKey, Iterable: iterKey, Effects: bodyKey}
}

func lowerLoopWhile(ctx *Context, n ast.LoopWhile) (ir.Range, ir.Effect) {
	condKey := ctx.lowerValueKey(n.Condition)
	marker := ctx.StartScope(scopeNest)
	ctx.loopDepth++
	bodyKey := ctx.lowerEffectsKey(n.Body)
	ctx.loopDepth--
	ctx.FinishScope(marker)
	return n.Range, ir.EffectLoopWhile{Condition: condKey, Effects: bodyKey}
}

func lowerReturn(ctx *Context, n ast.Return) (ir.Range, ir.Effect) {
	return n.Range, ir.EffectReturn{Value: ctx.lowerValueKey(n.Value)}
}

func lowerBreak(ctx *Context, n ast.Break) (ir.Range, ir.Effect) {
	if ctx.loopDepth == 0 {
		ctx.diags.Push("'break' used outside of a loop", n.Range)
	}
	return n.Range, ir.EffectBreakLoop{}
}

func lowerContinue(ctx *Context, n ast.Continue) (ir.Range, ir.Effect) {
	if ctx.loopDepth == 0 {
		ctx.diags.Push("'continue' used outside of a loop", n.Range)
	}
	return n.Range, ir.EffectContinueLoop{}
}

// lowerExprStmt lowers an expression used for its effect alone. Calls,
// method calls and `do` blocks lower straight to their own Effect
// variant; anything else lowers to NoEffectValue, flagged as pointless
// unless it's one of the call-shaped forms above.
func lowerExprStmt(ctx *Context, n ast.ExprStmt) (ir.Range, ir.Effect) {
	switch e := n.Value.(type) {
	case ast.CallExpr:
		valKey := ctx.lowerValueKey(e.Callee)
		args := ctx.builder.AddValueMany(lowerValueEntries(ctx, e.Args))
		return n.Range, ir.EffectCall{Value: valKey, Args: args}
	case ast.MethodCallExpr:
		tableKey := ctx.lowerValueKey(e.Target)
		nameKey := ctx.builder.AddString(e.NameRange, e.Name, true)
		args := ctx.builder.AddValueMany(lowerValueEntries(ctx, e.Args))
		return n.Range, ir.EffectMethodCall{Table: tableKey, Name: nameKey, Args: args}
	case ast.DoExpr:
		marker := ctx.StartScope(scopeNest)
		bodyKey := ctx.lowerEffectsKey(e.Body)
		ctx.FinishScope(marker)
		return n.Range, ir.EffectScope{Body: bodyKey}
	default:
		ctx.diags.Push("expression statement has no effect", n.Range)
		valKey := ctx.lowerValueKey(e)
		return n.Range, ir.EffectNoEffectValue{Value: valKey}
	}
}

func lowerDoStmt(ctx *Context, n ast.DoStmt) (ir.Range, ir.Effect) {
	marker := ctx.StartScope(scopeNest)
	bodyKey := ctx.lowerEffectsKey(n.Body)
	ctx.FinishScope(marker)
	return n.Range, ir.EffectScope{Body: bodyKey}
}
