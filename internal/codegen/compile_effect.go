package codegen

import (
	"github.com/ryota2357/lico-sub000/internal/diag"
	"github.com/ryota2357/lico-sub000/internal/icode"
	"github.com/ryota2357/lico-sub000/internal/ir"
)

// compileEffects appends the compiled form of every effect in key, in
// order, onto fr.
func compileEffects(ctx *Context, fr *Fragment, key ir.EffectsKey) {
	for _, entry := range key.Get(ctx.Strage) {
		compileEffect(ctx, fr, entry.Effect)
	}
}

// compileBlockScope compiles body in a fresh block section, appending
// the DropLocal that undoes whatever locals the block declared, and
// returns the finished fragment together with its instruction count
// (used by callers that must compute a jump offset over it before it's
// spliced into place).
func compileBlockScope(ctx *Context, body ir.EffectsKey) (*Fragment, int) {
	m := ctx.StartBlock()
	fr := NewFragment()
	compileEffects(ctx, fr, body)
	fr.Append(icode.DropLocal{N: ctx.GetBlockLocalCount()})
	ctx.FinishBlock(m)
	return fr, fr.Len()
}

func argRanges(ctx *Context, args ir.ValueSliceKey) (ranges []ir.Range) {
	if args.Len() > 255 {
		diag.Bug("codegen: more than 255 arguments is not supported")
	}
	ranges = make([]ir.Range, 0, args.Len())
	for _, a := range args.Get(ctx.Strage) {
		ranges = append(ranges, a.Range)
	}
	return ranges
}

func compileEffect(ctx *Context, fr *Fragment, effect ir.Effect) {
	switch e := effect.(type) {

	case ir.EffectMakeLocal:
		compileValue(ctx, fr, e.Value)
		fr.Append(icode.StoreNewLocal{})
		ctx.AddLocal(symbolName(ctx, e.Name))

	case ir.EffectMakeFunc:
		name := symbolName(ctx, e.Name)
		compileFunction(ctx, fr, e.Func, name)
		fr.Append(icode.StoreNewLocal{})
		ctx.AddLocal(name)

	case ir.EffectSetLocal:
		compileValue(ctx, fr, e.Value)
		id := ctx.ResolveLocal(symbolName(ctx, e.Local))
		fr.Append(icode.StoreLocal{ID: int(id)})

	case ir.EffectSetIndex:
		indexRange, indexValue, ok := e.Index.Get(ctx.Strage)
		if !ok {
			diag.Bug("codegen: EffectSetIndex.Index must be resolved at caller side")
		}
		compileValue(ctx, fr, e.Value)
		compileValue(ctx, fr, e.Target)
		compileValueNode(ctx, fr, indexValue)
		fr.Append(icode.SetItem{Range: indexRange})

	case ir.EffectSetField:
		fieldEntry, ok := e.Field.Get(ctx.Strage)
		if !ok {
			diag.Bug("codegen: EffectSetField.Field must be resolved at caller side")
		}
		compileValue(ctx, fr, e.Value)
		compileValue(ctx, fr, e.Target)
		fr.AppendMany([]icode.ICode{
			icode.LoadStringObject{Val: fieldEntry.Text},
			icode.SetItem{Range: fieldEntry.Range},
		})

	case ir.EffectSetFieldFunc:
		tableEntry, ok := e.Table.Get(ctx.Strage)
		if !ok {
			diag.Bug("codegen: EffectSetFieldFunc.Table must be resolved at caller side")
		}
		path := e.Path.Get(ctx.Strage)
		compileFunction(ctx, fr, e.Func, "")
		fr.Append(icode.LoadLocal{ID: int(ctx.ResolveLocal(tableEntry.Symbol.Name))})
		for i, p := range path {
			fr.Append(icode.LoadStringObject{Val: p.Text})
			if i == len(path)-1 {
				fr.Append(icode.SetItem{Range: p.Range})
			} else {
				fr.Append(icode.GetItem{Range: p.Range})
			}
		}

	case ir.EffectSetMethod:
		tableEntry, ok := e.Table.Get(ctx.Strage)
		if !ok {
			diag.Bug("codegen: EffectSetMethod.Table must be resolved at caller side")
		}
		path := e.Path.Get(ctx.Strage)
		nameEntry, ok := e.Name.Get(ctx.Strage)
		if !ok {
			diag.Bug("codegen: EffectSetMethod.Name must be resolved at caller side")
		}
		compileFunction(ctx, fr, e.Func, "")
		fr.Append(icode.LoadLocal{ID: int(ctx.ResolveLocal(tableEntry.Symbol.Name))})
		for _, p := range path {
			fr.AppendMany([]icode.ICode{
				icode.LoadStringObject{Val: p.Text},
				icode.GetItem{Range: p.Range},
			})
		}
		fr.Append(icode.SetMethod{Name: nameEntry.Text, Range: nameEntry.Range})

	// 0: eval           [condition]
	// 1: jump_if_false  4
	// 2: eval           [then]
	// 3: jump           5
	// 4: eval           [else]
	// 5: ...
	case ir.EffectBranch:
		compileValue(ctx, fr, e.Condition)
		thenFrag, thenLen := compileBlockScope(ctx, e.Then)
		elseFrag, elseLen := compileBlockScope(ctx, e.Else)
		fr.Append(icode.JumpIfFalse{Offset: thenLen + 2})
		fr.AppendFragment(thenFrag)
		fr.Append(icode.Jump{Offset: elseLen + 1})
		fr.AppendFragment(elseFrag)

	case ir.EffectLoopFor:
		compileValue(ctx, fr, e.Iterable)
		fr.AppendFragment(compileLoopForBody(ctx, e))

	case ir.EffectLoopWhile:
		fr.AppendFragment(compileLoopWhileBody(ctx, e))

	case ir.EffectScope:
		m := ctx.StartBlock()
		compileEffects(ctx, fr, e.Body)
		fr.Append(icode.DropLocal{N: ctx.GetBlockLocalCount()})
		ctx.FinishBlock(m)

	case ir.EffectCall:
		compileValue(ctx, fr, e.Value)
		ranges := argRanges(ctx, e.Args)
		for _, a := range e.Args.Get(ctx.Strage) {
			compileValueNode(ctx, fr, a.Value)
		}
		fr.Append(icode.Call{Argc: uint8(e.Args.Len()), HasCalleeRange: false, ArgRanges: ranges})
		fr.Append(icode.Unload{})

	case ir.EffectMethodCall:
		compileValue(ctx, fr, e.Table)
		nameEntry, ok := e.Name.Get(ctx.Strage)
		if !ok {
			diag.Bug("codegen: EffectMethodCall.Name must be resolved at caller side")
		}
		ranges := argRanges(ctx, e.Args)
		for _, a := range e.Args.Get(ctx.Strage) {
			compileValueNode(ctx, fr, a.Value)
		}
		fr.Append(icode.CallMethod{Argc: uint8(e.Args.Len()), Name: nameEntry.Text, Ranges: ranges, HasReceiverAt: false})
		fr.Append(icode.Unload{})

	case ir.EffectReturn:
		if _, v, ok := e.Value.Get(ctx.Strage); ok {
			compileValueNode(ctx, fr, v)
		} else {
			fr.Append(icode.LoadNilObject{})
		}
		fr.Append(icode.Leave{})

	case ir.EffectBreakLoop:
		fr.Append(icode.DropLocal{N: ctx.GetLoopLocalCount()})
		fr.AppendForwardJump()

	case ir.EffectContinueLoop:
		fr.Append(icode.DropLocal{N: ctx.GetLoopLocalCount()})
		fr.AppendBackwardJump()

	case ir.EffectNoEffectValue:
		compileValue(ctx, fr, e.Value)
		fr.Append(icode.Unload{})

	default:
		diag.Bug("codegen: unhandled Effect variant %T", effect)
	}
}

//            0: make_local    <>iter = [iterable]->__get_iter()
//            1: make_local    [variable] = nil
// (continue) 2: eval          <>iter->__move_next()
//            3: jump_if_false 7
//            4: set_local     [variable] = <>iter->__current()
//            5: eval          [effects]
//            6: jump          2
//    (break) 7: delete        <>iter, [variable]
//            8: ...
func compileLoopForBody(ctx *Context, e ir.EffectLoopFor) *Fragment {
	iterID := ctx.AddLocal("<>iter")
	variableID := ctx.AddLocal(symbolName(ctx, e.Variable))

	loopMarker := ctx.StartLoop()
	effectsFrag, effectsLen := compileBlockScope(ctx, e.Effects)

	fr := NewFragment()
	fr.AppendMany([]icode.ICode{
		icode.GetIter{},
		icode.StoreNewLocal{},
		icode.LoadNilObject{},
		icode.StoreNewLocal{},
		icode.LoadLocal{ID: int(iterID)},
		icode.IterMoveNext{},
		icode.JumpIfFalse{Offset: effectsLen + 5},
		icode.LoadLocal{ID: int(iterID)},
		icode.IterCurrent{},
		icode.StoreLocal{ID: int(variableID)},
	})
	fr.AppendFragment(effectsFrag)
	fr.AppendMany([]icode.ICode{
		icode.Jump{Offset: -effectsLen - 6},
		icode.DropLocal{N: 2},
	})
	fr.PatchBackwardJump(4)
	fr.PatchForwardJump(0)

	ctx.FinishLoop(loopMarker)
	ctx.DropLocal(2)
	return fr
}

func compileLoopWhileBody(ctx *Context, e ir.EffectLoopWhile) *Fragment {
	condFrag := NewFragment()
	compileValue(ctx, condFrag, e.Condition)
	condLen := condFrag.Len()

	loopMarker := ctx.StartLoop()
	effectsFrag := NewFragment()
	compileEffects(ctx, effectsFrag, e.Effects)
	effectsLen := effectsFrag.Len()
	ctx.FinishLoop(loopMarker)

	fr := NewFragment()
	fr.AppendFragment(condFrag)
	fr.Append(icode.JumpIfFalse{Offset: effectsLen + 2})
	fr.AppendFragment(effectsFrag)
	fr.Append(icode.Jump{Offset: -(effectsLen + 1 + condLen)})
	fr.PatchForwardJump(1)
	fr.PatchBackwardJump(0)
	return fr
}
