package codegen

import (
	"github.com/ryota2357/lico-sub000/internal/diag"
	"github.com/ryota2357/lico-sub000/internal/icode"
	"github.com/ryota2357/lico-sub000/internal/ir"
)

// compileValue resolves key and compiles the value it addresses. A
// missing key reaching here is a lowering bug: every ValueKey read by
// codegen comes from a position the spec requires to be present (an
// if's condition, a call's callee, ...); optional positions (an
// if-expression's tail, a table field's initializer) are read via
// Get's ok flag by the caller instead.
func compileValue(ctx *Context, fr *Fragment, key ir.ValueKey) {
	_, v, ok := key.Get(ctx.Strage)
	if !ok {
		diag.Bug("codegen: missing value must be resolved at caller side")
	}
	compileValueNode(ctx, fr, v)
}

func compileValueNode(ctx *Context, fr *Fragment, value ir.Value) {
	switch v := value.(type) {

	// 0: eval           [condition]
	// 1: jump_if_false  4
	// 2: eval           [then]
	// 3: jump           5
	// 4: eval           [else]
	// 5: ...
	case ir.ValueBranch:
		compileValue(ctx, fr, v.Condition)
		thenFrag, thenLen := compileValueBlockScope(ctx, v.Then, v.ThenTail)
		elseFrag, elseLen := compileValueBlockScope(ctx, v.Else, v.ElseTail)
		fr.Append(icode.JumpIfFalse{Offset: thenLen + 2})
		fr.AppendFragment(thenFrag)
		fr.Append(icode.Jump{Offset: elseLen + 1})
		fr.AppendFragment(elseFrag)

	case ir.ValuePrefix:
		compileValue(ctx, fr, v.Value)
		fr.Append(prefixOpcode(v.Op))

	case ir.ValueBinary:
		compileBinary(ctx, fr, v)

	case ir.ValueCall:
		calleeRange, callee, ok := v.Value.Get(ctx.Strage)
		if !ok {
			diag.Bug("codegen: ValueCall.Value must be resolved at caller side")
		}
		compileValueNode(ctx, fr, callee)
		ranges := argRanges(ctx, v.Args)
		for _, a := range v.Args.Get(ctx.Strage) {
			compileValueNode(ctx, fr, a.Value)
		}
		fr.Append(icode.Call{
			Argc:           uint8(v.Args.Len()),
			HasCalleeRange: true,
			CalleeRange:    calleeRange,
			ArgRanges:      ranges,
		})

	case ir.ValueIndex:
		indexRange, indexValue, ok := v.Index.Get(ctx.Strage)
		if !ok {
			diag.Bug("codegen: ValueIndex.Index must be resolved at caller side")
		}
		compileValue(ctx, fr, v.Value)
		compileValueNode(ctx, fr, indexValue)
		fr.Append(icode.GetItem{Range: indexRange})

	case ir.ValueField:
		nameEntry, ok := v.Name.Get(ctx.Strage)
		if !ok {
			diag.Bug("codegen: ValueField.Name must be resolved at caller side")
		}
		compileValue(ctx, fr, v.Value)
		fr.AppendMany([]icode.ICode{
			icode.LoadStringObject{Val: nameEntry.Text},
			icode.GetItem{Range: nameEntry.Range},
		})

	case ir.ValueMethodCall:
		receiverRange, receiver, ok := v.Value.Get(ctx.Strage)
		if !ok {
			diag.Bug("codegen: ValueMethodCall.Value must be resolved at caller side")
		}
		nameEntry, ok := v.Name.Get(ctx.Strage)
		if !ok {
			diag.Bug("codegen: ValueMethodCall.Name must be resolved at caller side")
		}
		compileValueNode(ctx, fr, receiver)
		ranges := make([]ir.Range, 0, v.Args.Len()+2)
		ranges = append(ranges, receiverRange, nameEntry.Range)
		for _, a := range v.Args.Get(ctx.Strage) {
			compileValueNode(ctx, fr, a.Value)
			ranges = append(ranges, a.Range)
		}
		fr.Append(icode.CallMethod{
			Argc:          uint8(v.Args.Len()),
			Name:          nameEntry.Text,
			Ranges:        ranges,
			HasReceiverAt: true,
		})

	case ir.ValueBlock:
		m := ctx.StartBlock()
		compileEffects(ctx, fr, v.Effects)
		if _, tail, ok := v.Tail.Get(ctx.Strage); ok {
			compileValueNode(ctx, fr, tail)
		} else {
			fr.Append(icode.LoadNilObject{})
		}
		fr.Append(icode.DropLocal{N: ctx.GetBlockLocalCount()})
		ctx.FinishBlock(m)

	case ir.ValueLocal:
		name := symbolName(ctx, v.Name)
		fr.Append(icode.LoadLocal{ID: int(ctx.ResolveLocal(name))})

	case ir.ValueInt:
		fr.Append(icode.LoadIntObject{Val: v.Val})

	case ir.ValueFloat:
		fr.Append(icode.LoadFloatObject{Val: v.Val})

	case ir.ValueString:
		fr.Append(icode.LoadStringObject{Val: v.Val})

	case ir.ValueBool:
		fr.Append(icode.LoadBoolObject{Val: v.Val})

	case ir.ValueNil:
		fr.Append(icode.LoadNilObject{})

	case ir.ValueFunction:
		compileFunction(ctx, fr, v.Func, "")

	case ir.ValueArray:
		compileArray(ctx, fr, v)

	case ir.ValueTable:
		compileTable(ctx, fr, v)

	default:
		diag.Bug("codegen: unhandled Value variant %T", value)
	}
}

// compileValueBlockScope is compileBlockScope's value-position sibling:
// the scope's tail value (or a literal nil if absent) is left on the
// stack instead of being dropped.
func compileValueBlockScope(ctx *Context, body ir.EffectsKey, tail ir.ValueKey) (*Fragment, int) {
	m := ctx.StartBlock()
	fr := NewFragment()
	compileEffects(ctx, fr, body)
	if _, v, ok := tail.Get(ctx.Strage); ok {
		compileValueNode(ctx, fr, v)
	} else {
		fr.Append(icode.LoadNilObject{})
	}
	fr.Append(icode.DropLocal{N: ctx.GetBlockLocalCount()})
	ctx.FinishBlock(m)
	return fr, fr.Len()
}

func prefixOpcode(op ir.PrefixOp) icode.ICode {
	switch op.Kind {
	case ir.PrefixPlus:
		return icode.Unp{Range: op.Range}
	case ir.PrefixMinus:
		return icode.Unm{Range: op.Range}
	case ir.PrefixNot:
		return icode.Not{Range: op.Range}
	case ir.PrefixBitNot:
		return icode.BitNot{Range: op.Range}
	default:
		diag.Bug("codegen: missing prefix operator, this must be resolved upstream")
		panic("unreachable")
	}
}

//   0: eval lhs
//   1: jump_if_false 4
//   2: eval rhs
//   3: jump 5
//   4: push false
//   5: ...
//
//   (Or is the same shape with jump_if_true/push true.)
func compileBinary(ctx *Context, fr *Fragment, v ir.ValueBinary) {
	switch v.Op.Kind {
	case ir.BinaryAnd:
		lhs := NewFragment()
		compileValue(ctx, lhs, v.LHS)
		rhs := NewFragment()
		compileValue(ctx, rhs, v.RHS)
		rhsLen := rhs.Len()
		fr.AppendFragment(lhs)
		fr.Append(icode.JumpIfFalse{Offset: rhsLen + 2})
		fr.AppendFragment(rhs)
		fr.AppendMany([]icode.ICode{icode.Jump{Offset: 2}, icode.LoadBoolObject{Val: false}})
		return

	case ir.BinaryOr:
		lhs := NewFragment()
		compileValue(ctx, lhs, v.LHS)
		rhs := NewFragment()
		compileValue(ctx, rhs, v.RHS)
		rhsLen := rhs.Len()
		fr.AppendFragment(lhs)
		fr.Append(icode.JumpIfTrue{Offset: rhsLen + 2})
		fr.AppendFragment(rhs)
		fr.AppendMany([]icode.ICode{icode.Jump{Offset: 2}, icode.LoadBoolObject{Val: true}})
		return
	}

	compileValue(ctx, fr, v.LHS)
	compileValue(ctx, fr, v.RHS)
	r := v.Op.Range
	switch v.Op.Kind {
	case ir.BinaryAdd:
		fr.Append(icode.Add{Range: r})
	case ir.BinarySub:
		fr.Append(icode.Sub{Range: r})
	case ir.BinaryMul:
		fr.Append(icode.Mul{Range: r})
	case ir.BinaryDiv:
		fr.Append(icode.Div{Range: r})
	case ir.BinaryMod:
		fr.Append(icode.Mod{Range: r})
	case ir.BinaryShl:
		fr.Append(icode.ShiftL{Range: r})
	case ir.BinaryShr:
		fr.Append(icode.ShiftR{Range: r})
	case ir.BinaryConcat:
		fr.Append(icode.Concat{Range: r})
	case ir.BinaryEq:
		fr.Append(icode.Eq{Range: r})
	case ir.BinaryNe:
		fr.Append(icode.NotEq{Range: r})
	case ir.BinaryLt:
		fr.Append(icode.Less{Range: r})
	case ir.BinaryLe:
		fr.Append(icode.LessEq{Range: r})
	case ir.BinaryGt:
		fr.Append(icode.Greater{Range: r})
	case ir.BinaryGe:
		fr.Append(icode.GreaterEq{Range: r})
	case ir.BinaryBitAnd:
		fr.Append(icode.BitAnd{Range: r})
	case ir.BinaryBitOr:
		fr.Append(icode.BitOr{Range: r})
	case ir.BinaryBitXor:
		fr.Append(icode.BitXor{Range: r})
	default:
		diag.Bug("codegen: missing or invalid binary operator, this must be resolved upstream")
	}
}

func compileArray(ctx *Context, fr *Fragment, v ir.ValueArray) {
	elements := v.Elements.Get(ctx.Strage)
	if c, ok := constArray(ctx.Strage, elements); ok {
		fr.Append(icode.LoadArrayObject{Val: c})
		return
	}
	for _, e := range elements {
		compileValueNode(ctx, fr, e.Value)
	}
	fr.Append(icode.MakeArray{N: v.Elements.Len()})
}

func compileTable(ctx *Context, fr *Fragment, v ir.ValueTable) {
	if c, ok := constTable(ctx.Strage, v.Fields); ok {
		fr.Append(icode.LoadTableObject{Val: c})
		return
	}
	n := len(v.Fields)
	keyRanges := make([]ir.Range, n)
	hasRange := make([]bool, n)
	for i, field := range v.Fields {
		switch key := field.Key.(type) {
		case ir.TableKeyNameValue:
			keyRange, keyValue, ok := key.Key.Get(ctx.Strage)
			if !ok {
				diag.Bug("codegen: missing table key, this must be resolved upstream")
			}
			compileValueNode(ctx, fr, keyValue)
			keyRanges[i] = keyRange
			hasRange[i] = true
		case ir.TableKeyNameString:
			entry, ok := key.Key.Get(ctx.Strage)
			if !ok {
				diag.Bug("codegen: missing table key, this must be resolved upstream")
			}
			fr.Append(icode.LoadStringObject{Val: entry.Text})
			hasRange[i] = false
		default:
			diag.Bug("codegen: unhandled TableKeyName variant %T", field.Key)
		}
		compileValue(ctx, fr, field.Value)
	}
	fr.Append(icode.MakeTable{N: n, KeyRanges: keyRanges, HasRange: hasRange})
}
