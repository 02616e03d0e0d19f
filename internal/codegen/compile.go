package codegen

import (
	"github.com/ryota2357/lico-sub000/internal/capture"
	"github.com/ryota2357/lico-sub000/internal/icode"
	"github.com/ryota2357/lico-sub000/internal/ir"
)

// Compile lowers a whole module into one linear icode.ICode stream: the
// module's top-level effects followed by every function literal it (or
// one of its nested functions) declared, with every FuncSetProperty
// rewritten from a provisional registration index to that function's
// absolute starting offset in the result.
func Compile(mod *ir.Module, captures *capture.Captures) []icode.ICode {
	ctx := NewContext(mod.Strage, captures)
	main := NewFragment()
	compileEffects(ctx, main, mod.Effects)
	// A module with no explicit top-level `return` (the common case)
	// otherwise runs off the end of the instruction stream; terminate it
	// on an explicit Leave so internal/vm's dispatch loop never indexes
	// past the last instruction.
	main.Append(icode.LoadNilObject{})
	main.Append(icode.Leave{})
	return ctx.Finish(main)
}
