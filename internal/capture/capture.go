// Package capture computes, for the module and for every function, the
// set of enclosing-scope local names that function body reads without
// having defined itself — the free-variable set codegen turns into
// FuncAddCapture instructions and the VM turns into a closure's
// captured-upvalue list (SPEC_FULL.md §4.3).
package capture

import (
	"sort"

	"github.com/ryota2357/lico-sub000/internal/diag"
	"github.com/ryota2357/lico-sub000/internal/ir"
)

// Key identifies one scope a capture set was recorded for: either the
// module's top level, or a specific function.
type Key struct {
	isModule bool
	fn       ir.FunctionKey
}

// ModuleKey is the capture-set key for a module's top-level effects.
func ModuleKey() Key { return Key{isModule: true} }

// FuncKey is the capture-set key for a specific lowered function.
func FuncKey(fk ir.FunctionKey) Key { return Key{fn: fk} }

// Captures is the result of a capture analysis pass: for each scope
// that reads at least one name it didn't define itself, the set of
// those names.
type Captures struct {
	sets map[Key]map[string]struct{}
}

// Contains reports whether scope key captures name.
func (c *Captures) Contains(key Key, name string) bool {
	set, ok := c.sets[key]
	if !ok {
		return false
	}
	_, ok = set[name]
	return ok
}

// Names returns a scope's captured names in sorted order, nil if it
// captures nothing.
func (c *Captures) Names(key Key) []string {
	set, ok := c.sets[key]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Analyze walks a module's effects, recording which enclosing-scope
// names each function (and the module's own top level) reads without
// defining. defaultNames names the builtins/globals that resolve
// without being a capture of anything (e.g. a language's small set of
// always-available functions) — reading one of these still marks it as
// captured through every enclosing function down to where it's used,
// exactly as reading a truly-enclosing local would.
func Analyze(mod *ir.Module, defaultNames []string) (*Captures, []diag.Diagnostic) {
	defaults := make(map[string]struct{}, len(defaultNames))
	for _, n := range defaultNames {
		defaults[n] = struct{}{}
	}
	diags := &diag.Collector{}
	w := &Walker{
		strage:   mod.Strage,
		db:       make(map[Key]map[string]struct{}),
		defs:     make(map[string]int),
		current:  ModuleKey(),
		defaults: defaults,
		diags:    diags,
	}
	w.goEffects(mod.Effects)
	if len(w.master) != 0 {
		diag.Bug("capture: walker finished with a non-empty call stack")
	}
	return &Captures{sets: w.db}, diags.Diagnostics()
}
