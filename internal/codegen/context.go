package codegen

import (
	"github.com/ryota2357/lico-sub000/internal/capture"
	"github.com/ryota2357/lico-sub000/internal/diag"
	"github.com/ryota2357/lico-sub000/internal/icode"
	"github.com/ryota2357/lico-sub000/internal/ir"
)

// funcList is the shared, growing list of compiled-but-not-yet-placed
// function fragments a whole compile pass collects, regardless of how
// many nested Contexts (one per function body being compiled) add to
// it. NewContextWith shares the same funcList pointer across nested
// Contexts so a FuncID assigned deep in a nested function body still
// indexes into the single list Finish linearizes against.
type funcList struct {
	items []*Fragment
}

// Context carries per-function-body compile state: nested
// block/loop-local counters (so a scope knows how many locals to drop
// when it closes), a name→slot resolver, and the shared list that
// accumulates every nested function literal's compiled Fragment until
// the outermost Context's Finish linearizes them all into one stream.
type Context struct {
	blockVarsCount *nestedCounter
	loopVarsCount  *nestedCounter
	idGen          *localIDGenerator
	funcs          *funcList
	Strage         *ir.Strage
	Captures       *capture.Captures
}

// NewContext creates the outermost Context for a compile pass over a
// whole module.
func NewContext(strage *ir.Strage, captures *capture.Captures) *Context {
	return &Context{
		blockVarsCount: newNestedCounter(),
		loopVarsCount:  newNestedCounter(),
		idGen:          newLocalIDGenerator(),
		funcs:          &funcList{},
		Strage:         strage,
		Captures:       captures,
	}
}

// NewContextWith creates a fresh Context for a nested function body,
// sharing ctx's function list so FuncIDs it assigns still resolve
// against the outermost Finish call.
func NewContextWith(ctx *Context) *Context {
	return &Context{
		blockVarsCount: newNestedCounter(),
		loopVarsCount:  newNestedCounter(),
		idGen:          newLocalIDGenerator(),
		funcs:          ctx.funcs,
		Strage:         ctx.Strage,
		Captures:       ctx.Captures,
	}
}

// BlockMarker/LoopMarker mark a scope opened by StartBlock/StartLoop.
// Every marker returned is passed to the matching FinishBlock/
// FinishLoop by the same caller, which calls it directly once the
// scope's code is compiled. The markers are empty tokens: nothing
// checks that a marker is finished, finished only once, or finished in
// LIFO order.
type BlockMarker struct{}
type LoopMarker struct{}

func (ctx *Context) StartBlock() BlockMarker {
	ctx.blockVarsCount.startSection()
	return BlockMarker{}
}

func (ctx *Context) FinishBlock(BlockMarker) {
	cnt := ctx.blockVarsCount.endSection()
	ctx.idGen.dropLocal(cnt)
	ctx.loopVarsCount.decrement(cnt)
}

func (ctx *Context) StartLoop() LoopMarker {
	ctx.loopVarsCount.startSection()
	return LoopMarker{}
}

func (ctx *Context) FinishLoop(LoopMarker) {
	ctx.loopVarsCount.endSection()
}

func (ctx *Context) GetLoopLocalCount() int {
	n, ok := ctx.loopVarsCount.currentCount()
	if !ok {
		diag.Bug("codegen: GetLoopLocalCount called outside of StartLoop")
	}
	return n
}

func (ctx *Context) GetBlockLocalCount() int {
	n, ok := ctx.blockVarsCount.currentCount()
	if !ok {
		diag.Bug("codegen: GetBlockLocalCount called outside of StartBlock")
	}
	return n
}

func (ctx *Context) AddLocal(name string) LocalID {
	ctx.blockVarsCount.increment(1)
	ctx.loopVarsCount.increment(1)
	return ctx.idGen.addLocal(name)
}

func (ctx *Context) DropLocal(count int) {
	ctx.idGen.dropLocal(count)
	ctx.blockVarsCount.decrement(count)
	ctx.loopVarsCount.decrement(count)
}

// ResolveLocal resolves a name already validated by capture analysis —
// reaching codegen with a name that isn't bound indicates a compiler
// bug, not a user-facing error.
func (ctx *Context) ResolveLocal(name string) LocalID {
	id, ok := ctx.idGen.resolveLocal(name)
	if !ok {
		diag.Bug("codegen: undefined local %q reached codegen", name)
	}
	return id
}

// AddFunction registers a compiled function literal's Fragment and
// returns the provisional FuncID codegen embeds in a FuncSetProperty
// instruction; Finish rewrites every such ID to the function's final
// absolute offset in the linearized stream.
func (ctx *Context) AddFunction(fr *Fragment) int {
	ctx.funcs.items = append(ctx.funcs.items, fr)
	return len(ctx.funcs.items) - 1
}

// Finish concatenates the top-level fragment with every registered
// function fragment (in registration order) into one instruction
// stream, then rewrites each FuncSetProperty's FuncID from a funcList
// index to that function's absolute starting offset in the result.
// It must only be called on the outermost Context.
func (ctx *Context) Finish(main *Fragment) []icode.ICode {
	all := append([]icode.ICode{}, main.Finish()...)

	funcOffsets := make([]int, len(ctx.funcs.items))
	for i, fr := range ctx.funcs.items {
		funcOffsets[i] = len(all)
		all = append(all, fr.Finish()...)
	}

	for i, c := range all {
		if fsp, ok := c.(icode.FuncSetProperty); ok {
			all[i] = icode.FuncSetProperty{
				ParamCount: fsp.ParamCount,
				FuncID:     funcOffsets[fsp.FuncID],
			}
		}
	}
	return all
}
