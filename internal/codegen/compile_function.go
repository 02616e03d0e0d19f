package codegen

import (
	"github.com/ryota2357/lico-sub000/internal/capture"
	"github.com/ryota2357/lico-sub000/internal/icode"
	"github.com/ryota2357/lico-sub000/internal/ir"
)

// compileFunction compiles fk's body in a fresh nested Context, registers
// the result with the enclosing Context's shared function list, and
// emits the BeginFuncSection/FuncSetProperty/FuncAddCapture*/
// EndFuncSection sequence into fr that builds the closure at the point
// this literal is evaluated. Captured names are resolved against ctx
// (the enclosing frame that holds the values being captured) for the
// FuncAddCapture operands; the nested Context binds those same names
// first, ahead of its own parameters, so the body it compiles resolves
// them to locals — the VM pushes a function's captured cells onto the
// new frame before its arguments (see internal/vm), and codegen's local
// numbering must match that layout exactly.
//
// ownName is the name a `func foo() ... end` declaration binds foo to,
// non-empty only at EffectMakeFunc's call site; every other caller
// (SetFieldFunc/SetMethod/anonymous Value::Function) passes "". When
// set, it's reserved as a local in ctx for the duration of this call so
// a recursive reference to ownName inside the body resolves to the
// slot EffectMakeFunc's own ctx.AddLocal(name) binds it to right after
// this call returns — the reservation is released before returning so
// that later AddLocal call assigns the identical, now-real, ID. At run
// time that slot does not exist yet while the closure is being built,
// so internal/vm's dispatchFuncSection gives such a capture a cell of
// its own that holds the new function.
func compileFunction(ctx *Context, fr *Fragment, fk ir.FunctionKey, ownName string) {
	if ownName != "" {
		ctx.AddLocal(ownName)
		defer ctx.DropLocal(1)
	}

	inner := NewContextWith(ctx)
	captureNames := ctx.Captures.Names(capture.FuncKey(fk))
	for _, name := range captureNames {
		inner.AddLocal(name)
	}
	for _, p := range fk.Params(ctx.Strage) {
		inner.AddLocal(p.Symbol.Name)
	}

	body := NewFragment()
	for _, entry := range fk.Effects(ctx.Strage) {
		compileEffect(inner, body, entry.Effect)
	}
	// A body with no tail expression lowers to no trailing Return effect
	// (internal/lower's lowerFunction leaves it implicit); append the
	// fallback `return nil` here so the section always ends on a Leave
	// rather than falling through into whatever function follows it in
	// the flat instruction stream. Unreachable when the body already
	// ends in Return.
	body.Append(icode.LoadNilObject{})
	body.Append(icode.Leave{})

	funcID := ctx.AddFunction(body)

	fr.Append(icode.BeginFuncSection{})
	fr.Append(icode.FuncSetProperty{
		ParamCount: uint8(len(fk.Params(ctx.Strage))),
		FuncID:     funcID,
	})
	for _, name := range captureNames {
		fr.Append(icode.FuncAddCapture{LocalID: int(ctx.ResolveLocal(name))})
	}
	fr.Append(icode.EndFuncSection{})
}
