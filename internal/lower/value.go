package lower

import (
	"errors"
	"strconv"
	"strings"

	"github.com/ryota2357/lico-sub000/internal/ast"
	"github.com/ryota2357/lico-sub000/internal/diag"
	"github.com/ryota2357/lico-sub000/internal/ir"
)

// lowerExpr lowers a single expression to its ir.Value.
func lowerExpr(ctx *Context, e ast.Expression) ir.Value {
	switch n := e.(type) {
	case ast.IfExpr:
		return lowerIfExpr(ctx, n)
	case ast.DoExpr:
		return lowerDoExpr(ctx, n)
	case ast.CallExpr:
		return lowerCallExpr(ctx, n)
	case ast.BinaryExpr:
		return lowerBinaryExpr(ctx, n)
	case ast.PrefixExpr:
		return lowerPrefixExpr(ctx, n)
	case ast.IndexExpr:
		return lowerIndexExpr(ctx, n)
	case ast.FieldExpr:
		return lowerFieldExpr(ctx, n)
	case ast.MethodCallExpr:
		return lowerMethodCallExpr(ctx, n)
	case ast.ParenExpr:
		if n.Inner == nil {
			return ir.ValueNil{}
		}
		return lowerExpr(ctx, n.Inner)
	case ast.LocalVarExpr:
		sym := ir.Symbol{Name: n.Name, Scope: ctx.ScopeIndex()}
		return ir.ValueLocal{Name: ctx.builder.AddSymbol(n.Range, sym, true)}
	case ast.IntLit:
		return lowerIntLit(ctx, n)
	case ast.FloatLit:
		return lowerFloatLit(ctx, n)
	case ast.StringLit:
		return lowerStringLit(n)
	case ast.BoolLit:
		return ir.ValueBool{Val: n.Val}
	case ast.NilLit:
		return ir.ValueNil{}
	case ast.ArrayExpr:
		return lowerArrayExpr(ctx, n)
	case ast.TableExpr:
		return lowerTableExpr(ctx, n)
	case ast.FuncExpr:
		return ir.ValueFunction{Func: lowerFunction(ctx, n.Params, n.Body)}
	default:
		diag.Bug("lower: unhandled expression type %T", e)
		panic("unreachable")
	}
}

// lowerIfExpr lowers an if-expression, folding its elif chain into
// nested ValueBranch nodes from the innermost (last) elif outward. An
// if-expression requires an else branch (its value is used); a missing
// one is flagged but lowering still degrades to an empty else arm so
// the rest of the pass can continue.
func lowerIfExpr(ctx *Context, n ast.IfExpr) ir.Value {
	condKey := ctx.lowerValueKey(n.Condition)
	thenKey, thenTailKey := ctx.lowerBlockAsValueParts(n.Body)

	if len(n.Elif) == 0 {
		if n.Else == nil {
			ctx.diags.Push("'if' expression requires an 'else' branch", n.Range)
		}
		elseKey, elseTailKey := ctx.lowerOptionalBlockAsValueParts(n.Else)
		return ir.ValueBranch{
			Condition: condKey, Then: thenKey, ThenTail: thenTailKey,
			Else: elseKey, ElseTail: elseTailKey,
		}
	}

	elifs := n.Elif
	last := elifs[len(elifs)-1]
	if n.Else == nil {
		ctx.diags.Push("'if' expression requires an 'else' branch", last.Range)
	}
	lastThenKey, lastThenTailKey := ctx.lowerBlockAsValueParts(last.Body)
	lastElseKey, lastElseTailKey := ctx.lowerOptionalBlockAsValueParts(n.Else)
	branch := ir.Value(ir.ValueBranch{
		Condition: ctx.lowerValueKey(last.Condition),
		Then:      lastThenKey, ThenTail: lastThenTailKey,
		Else: lastElseKey, ElseTail: lastElseTailKey,
	})
	branchRange := last.Range

	for i := len(elifs) - 2; i >= 0; i-- {
		e := elifs[i]
		wrappedTail := ctx.builder.AddValue(branchRange, branch, true)
		thenKeyI, thenTailKeyI := ctx.lowerBlockAsValueParts(e.Body)
		branch = ir.ValueBranch{
			Condition: ctx.lowerValueKey(e.Condition),
			Then:      thenKeyI, ThenTail: thenTailKeyI,
			Else: ctx.builder.AddEffects(nil), ElseTail: wrappedTail,
		}
		branchRange = e.Range
	}

	return ir.ValueBranch{
		Condition: condKey, Then: thenKey, ThenTail: thenTailKey,
		Else: ctx.builder.AddEffects(nil), ElseTail: ctx.builder.AddValue(branchRange, branch, true),
	}
}

func lowerDoExpr(ctx *Context, n ast.DoExpr) ir.Value {
	marker := ctx.StartScope(scopeNest)
	defer ctx.FinishScope(marker)
	effKey, tailKey := ctx.lowerBlockAsValueParts(n.Body)
	return ir.ValueBlock{Effects: effKey, Tail: tailKey}
}

func lowerCallExpr(ctx *Context, n ast.CallExpr) ir.Value {
	valKey := ctx.lowerValueKey(n.Callee)
	args := ctx.builder.AddValueMany(lowerValueEntries(ctx, n.Args))
	return ir.ValueCall{Value: valKey, Args: args}
}

func lowerBinaryExpr(ctx *Context, n ast.BinaryExpr) ir.Value {
	return ir.ValueBinary{
		LHS: ctx.lowerValueKey(n.LHS),
		RHS: ctx.lowerValueKey(n.RHS),
		Op:  n.Op,
	}
}

func lowerPrefixExpr(ctx *Context, n ast.PrefixExpr) ir.Value {
	return ir.ValuePrefix{Value: ctx.lowerValueKey(n.Operand), Op: n.Op}
}

func lowerIndexExpr(ctx *Context, n ast.IndexExpr) ir.Value {
	return ir.ValueIndex{Value: ctx.lowerValueKey(n.Target), Index: ctx.lowerValueKey(n.Index)}
}

func lowerFieldExpr(ctx *Context, n ast.FieldExpr) ir.Value {
	nameKey := ctx.builder.AddString(n.NameRange, n.Name, true)
	return ir.ValueField{Value: ctx.lowerValueKey(n.Target), Name: nameKey}
}

func lowerMethodCallExpr(ctx *Context, n ast.MethodCallExpr) ir.Value {
	valKey := ctx.lowerValueKey(n.Target)
	nameKey := ctx.builder.AddString(n.NameRange, n.Name, true)
	args := ctx.builder.AddValueMany(lowerValueEntries(ctx, n.Args))
	return ir.ValueMethodCall{Value: valKey, Name: nameKey, Args: args}
}

// lowerIntLit applies the base-prefix (0x/0b/0o) and underscore-removal
// rules to the literal's raw text before parsing it.
func lowerIntLit(ctx *Context, n ast.IntLit) ir.Value {
	text := n.Text
	base := 10
	switch {
	case strings.HasPrefix(text, "0x"), strings.HasPrefix(text, "0X"):
		text, base = text[2:], 16
	case strings.HasPrefix(text, "0b"), strings.HasPrefix(text, "0B"):
		text, base = text[2:], 2
	case strings.HasPrefix(text, "0o"), strings.HasPrefix(text, "0O"):
		text, base = text[2:], 8
	}
	text = strings.ReplaceAll(text, "_", "")

	v, err := strconv.ParseInt(text, base, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			ctx.diags.Push("integer literal overflows 64 bits", n.Range)
		} else {
			ctx.diags.Push("invalid integer literal", n.Range)
		}
		return ir.ValueInt{Val: 0}
	}
	return ir.ValueInt{Val: v}
}

func lowerFloatLit(ctx *Context, n ast.FloatLit) ir.Value {
	text := strings.ReplaceAll(n.Text, "_", "")
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		ctx.diags.Push("invalid float literal", n.Range)
		return ir.ValueFloat{Val: 0}
	}
	return ir.ValueFloat{Val: v}
}

// lowerStringLit strips the token's surrounding quote characters.
func lowerStringLit(n ast.StringLit) ir.Value {
	text := n.Text
	if len(text) >= 2 {
		if c := text[0]; c == '"' || c == '\'' {
			if text[len(text)-1] == c {
				text = text[1 : len(text)-1]
			} else {
				text = text[1:]
			}
		}
	}
	return ir.ValueString{Val: text}
}

func lowerArrayExpr(ctx *Context, n ast.ArrayExpr) ir.Value {
	entries := lowerValueEntries(ctx, n.Elements)
	return ir.ValueArray{Elements: ctx.builder.AddValueMany(entries)}
}

func lowerTableExpr(ctx *Context, n ast.TableExpr) ir.Value {
	fields := make([]ir.TableField, len(n.Fields))
	for i, f := range n.Fields {
		var keyName ir.TableKeyName
		switch {
		case f.HasKeyIdent:
			keyName = ir.TableKeyNameString{Key: ctx.builder.AddString(f.KeyIdentRng, f.KeyIdent, true)}
		case f.KeyExpr != nil:
			keyName = ir.TableKeyNameValue{Key: ctx.lowerValueKey(f.KeyExpr)}
		default:
			diag.Bug("lower: table field has neither a key identifier nor a key expression")
		}
		fields[i] = ir.TableField{Key: keyName, Value: ctx.lowerValueKey(f.Initializer)}
	}
	return ir.ValueTable{Fields: fields}
}
