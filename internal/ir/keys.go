package ir

// ValueKey addresses a single, possibly-absent Value in a Strage.
type ValueKey struct{ k key }

// Get resolves the key against strage, returning the value's source
// range and the value itself. ok is false when the key is the "missing"
// zero value (e.g. an if-expression with no else, a table field with no
// initializer).
func (vk ValueKey) Get(s *Strage) (Range, Value, bool) {
	i, ok := vk.k.index()
	if !ok {
		return Range{}, nil, false
	}
	d := s.data[i]
	return d.rng, d.value, true
}

// ValueSliceKey addresses a contiguous run of Values in a Strage.
type ValueSliceKey struct {
	start, count int
}

func (vk ValueSliceKey) Len() int { return vk.count }

// Entry is one (range, payload) pair yielded by a slice key's Get.
type ValueEntry struct {
	Range Range
	Value Value
}

func (vk ValueSliceKey) Get(s *Strage) []ValueEntry {
	out := make([]ValueEntry, vk.count)
	for i := 0; i < vk.count; i++ {
		d := s.data[vk.start+i]
		out[i] = ValueEntry{Range: d.rng, Value: d.value}
	}
	return out
}

// EffectsKey addresses a contiguous run of Effects in a Strage.
type EffectsKey struct {
	start, count int
}

func (ek EffectsKey) Len() int      { return ek.count }
func (ek EffectsKey) IsEmpty() bool { return ek.count == 0 }

type EffectEntry struct {
	Range  Range
	Effect Effect
}

func (ek EffectsKey) Get(s *Strage) []EffectEntry {
	out := make([]EffectEntry, ek.count)
	for i := 0; i < ek.count; i++ {
		d := s.data[ek.start+i]
		out[i] = EffectEntry{Range: d.rng, Effect: d.effect}
	}
	return out
}

// StringKey addresses a single, possibly-absent interned string.
type StringKey struct{ k key }

type StringEntry struct {
	Range Range
	Text  string
}

func (sk StringKey) Get(s *Strage) (StringEntry, bool) {
	i, ok := sk.k.index()
	if !ok {
		return StringEntry{}, false
	}
	d := s.data[i]
	return StringEntry{Range: d.rng, Text: d.str}, true
}

// StringSliceKey addresses a contiguous run of interned strings,
// typically a dotted field-access path.
type StringSliceKey struct {
	start, count int
}

func (sk StringSliceKey) Len() int      { return sk.count }
func (sk StringSliceKey) IsEmpty() bool { return sk.count == 0 }

func (sk StringSliceKey) Get(s *Strage) []StringEntry {
	out := make([]StringEntry, sk.count)
	for i := 0; i < sk.count; i++ {
		d := s.data[sk.start+i]
		out[i] = StringEntry{Range: d.rng, Text: d.str}
	}
	return out
}

// SymbolKey addresses a single, possibly-absent Symbol (a name together
// with the lexical scope it was resolved in).
type SymbolKey struct{ k key }

type SymbolEntry struct {
	Range  Range
	Symbol Symbol
}

func (sk SymbolKey) Get(s *Strage) (SymbolEntry, bool) {
	i, ok := sk.k.index()
	if !ok {
		return SymbolEntry{}, false
	}
	d := s.data[i]
	return SymbolEntry{Range: d.rng, Symbol: d.symbol}, true
}

// FunctionKey addresses the contiguous [params..., body effects...]
// slice a single lowered function occupies in the arena, mirroring
// StrageBuilder.AddFunction's chained allocation.
type FunctionKey struct {
	start, paramCount, effectCount int
}

func (fk FunctionKey) Params(s *Strage) []SymbolEntry {
	out := make([]SymbolEntry, fk.paramCount)
	for i := 0; i < fk.paramCount; i++ {
		d := s.data[fk.start+i]
		out[i] = SymbolEntry{Range: d.rng, Symbol: d.symbol}
	}
	return out
}

func (fk FunctionKey) Effects(s *Strage) []EffectEntry {
	base := fk.start + fk.paramCount
	out := make([]EffectEntry, fk.effectCount)
	for i := 0; i < fk.effectCount; i++ {
		d := s.data[base+i]
		out[i] = EffectEntry{Range: d.rng, Effect: d.effect}
	}
	return out
}
