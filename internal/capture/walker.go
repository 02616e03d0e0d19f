package capture

import (
	"fmt"

	"github.com/ryota2357/lico-sub000/internal/diag"
	"github.com/ryota2357/lico-sub000/internal/ir"
)

// frame is one enclosing function's definition set, pushed onto the
// walker's call stack while a nested function body is being walked.
type frame struct {
	key  Key
	defs map[string]int
}

// Walker is a one-shot, scope-tracking pre-order visitor over a
// module's Effect/Value tree. defs counts, per currently-visible name,
// how many nested scopes still consider it defined (a ref count, so a
// shadowing inner definition and its outer namesake don't fight over a
// single boolean); defsRev records insertion order so goBranch can
// precisely undo the definitions a single branch contributed when it
// closes.
type Walker struct {
	strage   *ir.Strage
	db       map[Key]map[string]struct{}
	master   []frame
	defs     map[string]int
	current  Key
	defsRev  []string
	defaults map[string]struct{}
	diags    *diag.Collector
}

// goBranch runs f in a scope that closes when f returns: any local
// def()'d while f ran (a loop variable, a branch-local name) stops
// being visible once the branch ends, without disturbing defs the
// branch merely read from further out.
func (w *Walker) goBranch(f func()) {
	start := len(w.defsRev)
	f()
	for _, name := range w.defsRev[start:] {
		w.defs[name]--
		if w.defs[name] == 0 {
			delete(w.defs, name)
		}
	}
	w.defsRev = w.defsRev[:start]
}

// goFunction walks a function body in a fresh scope stacked on top of
// the current one, so that names the function doesn't define resolve
// against its enclosing scopes (and get marked as captures) rather than
// leaking the function's own locals back out.
func (w *Walker) goFunction(fk ir.FunctionKey, f func(*Walker)) {
	saveDefsRev := w.defsRev
	w.defsRev = nil

	master := append(w.master, frame{key: w.current, defs: w.defs})
	nested := &Walker{
		strage:   w.strage,
		db:       w.db,
		master:   master,
		defs:     make(map[string]int),
		current:  FuncKey(fk),
		defsRev:  nil,
		defaults: w.defaults,
		diags:    w.diags,
	}
	f(nested)

	popped := nested.master[len(nested.master)-1]
	w.current = popped.key
	w.defs = popped.defs
	w.master = nested.master[:len(nested.master)-1]
	w.defsRev = saveDefsRev
}

func (w *Walker) insertDefName(name string) {
	w.defs[name]++
	w.defsRev = append(w.defsRev, name)
}

func (w *Walker) insertDefKey(sk ir.SymbolKey) {
	entry, ok := sk.Get(w.strage)
	if !ok {
		return
	}
	w.insertDefName(entry.Symbol.Name)
}

// useLocal resolves a name read, marking it as a capture on every
// scope strictly between where it's defined and where it's read. A
// name resolved against neither an enclosing scope nor the default set
// is reported as undefined.
func (w *Walker) useLocal(sk ir.SymbolKey) {
	entry, ok := sk.Get(w.strage)
	if !ok {
		return
	}
	name := entry.Symbol.Name
	if _, ok := w.defs[name]; ok {
		return
	}

	foundIndex := -1
	for i := len(w.master) - 1; i >= 0; i-- {
		if _, ok := w.master[i].defs[name]; ok {
			foundIndex = i
			break
		}
	}
	if foundIndex == -1 {
		if _, isDefault := w.defaults[name]; !isDefault {
			w.diags.Push(fmt.Sprintf("undefined variable %q", name), entry.Range)
			return
		}
	}

	for i := foundIndex + 1; i < len(w.master); i++ {
		w.master[i].defs[name] = 1
		w.addCapture(w.master[i].key, name)
	}
	w.defs[name] = 1
	w.addCapture(w.current, name)
}

func (w *Walker) addCapture(key Key, name string) {
	set, ok := w.db[key]
	if !ok {
		set = make(map[string]struct{})
		w.db[key] = set
	}
	set[name] = struct{}{}
}

func (w *Walker) walkFunctionBody(fk ir.FunctionKey) {
	for _, p := range fk.Params(w.strage) {
		w.insertDefName(p.Symbol.Name)
	}
	for _, eff := range fk.Effects(w.strage) {
		w.goEffect(eff.Effect)
	}
}

func (w *Walker) goEffects(ek ir.EffectsKey) {
	for _, e := range ek.Get(w.strage) {
		w.goEffect(e.Effect)
	}
}

func (w *Walker) goValue(vk ir.ValueKey) {
	_, v, ok := vk.Get(w.strage)
	if !ok {
		return
	}
	w.goValueNode(v)
}

func (w *Walker) goValueSlice(vsk ir.ValueSliceKey) {
	for _, e := range vsk.Get(w.strage) {
		w.goValueNode(e.Value)
	}
}

func (w *Walker) goEffect(e ir.Effect) {
	switch n := e.(type) {
	case ir.EffectMakeLocal:
		w.goValue(n.Value)
		w.insertDefKey(n.Name)
	case ir.EffectMakeFunc:
		w.insertDefKey(n.Name)
		w.goFunction(n.Func, func(nested *Walker) { nested.walkFunctionBody(n.Func) })
	case ir.EffectSetLocal:
		w.useLocal(n.Local)
		w.goValue(n.Value)
	case ir.EffectSetIndex:
		w.goValue(n.Value)
		w.goValue(n.Index)
		w.goValue(n.Target)
	case ir.EffectSetField:
		w.goValue(n.Value)
		w.goValue(n.Target)
	case ir.EffectSetFieldFunc:
		w.goFunction(n.Func, func(nested *Walker) { nested.walkFunctionBody(n.Func) })
		w.useLocal(n.Table)
	case ir.EffectSetMethod:
		w.goFunction(n.Func, func(nested *Walker) { nested.walkFunctionBody(n.Func) })
		w.useLocal(n.Table)
	case ir.EffectBranch:
		w.goValue(n.Condition)
		w.goBranch(func() { w.goEffects(n.Then) })
		w.goBranch(func() { w.goEffects(n.Else) })
	case ir.EffectLoopFor:
		w.goValue(n.Iterable)
		w.goBranch(func() {
			w.insertDefKey(n.Variable)
			w.goEffects(n.Effects)
		})
	case ir.EffectLoopWhile:
		w.goValue(n.Condition)
		w.goBranch(func() { w.goEffects(n.Effects) })
	case ir.EffectScope:
		w.goBranch(func() { w.goEffects(n.Body) })
	case ir.EffectCall:
		w.goValue(n.Value)
		w.goValueSlice(n.Args)
	case ir.EffectMethodCall:
		w.goValue(n.Table)
		w.goValueSlice(n.Args)
	case ir.EffectReturn:
		w.goValue(n.Value)
	case ir.EffectBreakLoop:
	case ir.EffectContinueLoop:
	case ir.EffectNoEffectValue:
		w.goValue(n.Value)
	default:
		diag.Bug("capture: unhandled effect type %T", e)
	}
}

func (w *Walker) goValueNode(v ir.Value) {
	switch n := v.(type) {
	case ir.ValueBranch:
		w.goValue(n.Condition)
		w.goBranch(func() {
			w.goEffects(n.Then)
			w.goValue(n.ThenTail)
		})
		w.goBranch(func() {
			w.goEffects(n.Else)
			w.goValue(n.ElseTail)
		})
	case ir.ValuePrefix:
		w.goValue(n.Value)
	case ir.ValueBinary:
		w.goValue(n.LHS)
		w.goValue(n.RHS)
	case ir.ValueCall:
		w.goValue(n.Value)
		w.goValueSlice(n.Args)
	case ir.ValueIndex:
		w.goValue(n.Value)
		w.goValue(n.Index)
	case ir.ValueField:
		w.goValue(n.Value)
	case ir.ValueMethodCall:
		w.goValue(n.Value)
		w.goValueSlice(n.Args)
	case ir.ValueBlock:
		w.goBranch(func() {
			w.goEffects(n.Effects)
			w.goValue(n.Tail)
		})
	case ir.ValueLocal:
		w.useLocal(n.Name)
	case ir.ValueInt, ir.ValueFloat, ir.ValueString, ir.ValueBool, ir.ValueNil:
		// leaves; nothing to walk
	case ir.ValueFunction:
		w.goFunction(n.Func, func(nested *Walker) { nested.walkFunctionBody(n.Func) })
	case ir.ValueArray:
		w.goValueSlice(n.Elements)
	case ir.ValueTable:
		for _, f := range n.Fields {
			if keyVal, ok := f.Key.(ir.TableKeyNameValue); ok {
				w.goValue(keyVal.Key)
			}
			w.goValue(f.Value)
		}
	default:
		diag.Bug("capture: unhandled value type %T", v)
	}
}
