package codegen

import (
	"github.com/ryota2357/lico-sub000/internal/diag"
	"github.com/ryota2357/lico-sub000/internal/ir"
)

// symbolName resolves a SymbolKey to the plain name codegen's local
// tables are keyed by; missing symbols indicate a lowering bug, not a
// user-facing error, since lowering is the only producer of these keys.
func symbolName(ctx *Context, sk ir.SymbolKey) string {
	entry, ok := sk.Get(ctx.Strage)
	if !ok {
		diag.Bug("codegen: symbol key must be resolved at caller side")
	}
	return entry.Symbol.Name
}
