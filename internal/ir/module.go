package ir

// Module is the output of lowering: the top-level effects of a
// compilation unit, the functions it declared, and the Strage arena
// every key in both refers into.
type Module struct {
	Effects   EffectsKey
	Functions []FunctionKey
	Strage    *Strage
}

// NewModule bundles a finished top-level effects list with the arena it
// was built from. Top-level functions are reached transitively through
// Value/Effect variants that embed a FunctionKey (MakeFunc, SetFieldFunc,
// SetMethod, Value::Function); Functions here is left empty. Neither
// lowering nor codegen fills it: the codegen Context keeps its own list
// as it discovers each function and assigns it a stable index (§4.4.5).
func NewModule(effects EffectsKey, strage *Strage) *Module {
	return &Module{Effects: effects, Strage: strage}
}
