package codegen

// LocalID is a compiled function's slot index for one local variable,
// assigned in declaration order and reused once the declaring scope's
// locals are dropped.
type LocalID int

type localEntry struct {
	name      string
	restoreID LocalID
}

// localIDGenerator maps in-scope local names to their current slot,
// keeping enough history to restore a shadowed outer binding once the
// shadowing inner one goes out of scope.
type localIDGenerator struct {
	ids  map[string]LocalID
	hist []localEntry
}

func newLocalIDGenerator() *localIDGenerator {
	return &localIDGenerator{ids: make(map[string]LocalID)}
}

// addLocal binds name to a fresh slot, recording whatever binding it
// shadows (or itself, if it shadows nothing) so dropLocal can restore
// the previous state in LIFO order.
func (g *localIDGenerator) addLocal(name string) LocalID {
	id := LocalID(len(g.hist))
	oldID, hadOld := g.ids[name]
	g.ids[name] = id
	restoreID := id
	if hadOld {
		restoreID = oldID
	}
	g.hist = append(g.hist, localEntry{name: name, restoreID: restoreID})
	return id
}

func (g *localIDGenerator) resolveLocal(name string) (LocalID, bool) {
	id, ok := g.ids[name]
	return id, ok
}

// dropLocal undoes the last count addLocal calls, in LIFO order,
// restoring any binding each one shadowed.
func (g *localIDGenerator) dropLocal(count int) {
	for i := 0; i < count; i++ {
		n := len(g.hist)
		e := g.hist[n-1]
		g.hist = g.hist[:n-1]
		if g.ids[e.name] != e.restoreID {
			g.ids[e.name] = e.restoreID
		} else {
			delete(g.ids, e.name)
		}
	}
}
