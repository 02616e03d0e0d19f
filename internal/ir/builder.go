package ir

// AddValue allocates an optional Value. A zero Range with ok=false
// records the "missing" slot (e.g. an absent else-tail).
func (b *StrageBuilder) AddValue(rng Range, v Value, ok bool) ValueKey {
	if !ok {
		return ValueKey{}
	}
	i := b.alloc(rawData{kind: rawValue, rng: rng, value: v})
	return ValueKey{k: newKey(i)}
}

// AddValueMany allocates a contiguous run of Values, e.g. a call's
// argument list or an array literal's elements.
func (b *StrageBuilder) AddValueMany(entries []ValueEntry) ValueSliceKey {
	start := len(b.data)
	for _, e := range entries {
		b.alloc(rawData{kind: rawValue, rng: e.Range, value: e.Value})
	}
	return ValueSliceKey{start: start, count: len(entries)}
}

// AddEffects allocates a contiguous run of Effects, e.g. a block body.
func (b *StrageBuilder) AddEffects(entries []EffectEntry) EffectsKey {
	start := len(b.data)
	for _, e := range entries {
		b.alloc(rawData{kind: rawEffect, rng: e.Range, effect: e.Effect})
	}
	return EffectsKey{start: start, count: len(entries)}
}

// AddString allocates an optional interned string.
func (b *StrageBuilder) AddString(rng Range, text string, ok bool) StringKey {
	if !ok {
		return StringKey{}
	}
	i := b.alloc(rawData{kind: rawString, rng: rng, str: text})
	return StringKey{k: newKey(i)}
}

// AddStringMany allocates a contiguous run of interned strings, e.g. a
// dotted field-access path.
func (b *StrageBuilder) AddStringMany(entries []StringEntry) StringSliceKey {
	start := len(b.data)
	for _, e := range entries {
		b.alloc(rawData{kind: rawString, rng: e.Range, str: e.Text})
	}
	return StringSliceKey{start: start, count: len(entries)}
}

// AddSymbol allocates an optional Symbol.
func (b *StrageBuilder) AddSymbol(rng Range, sym Symbol, ok bool) SymbolKey {
	if !ok {
		return SymbolKey{}
	}
	i := b.alloc(rawData{kind: rawSymbol, rng: rng, symbol: sym})
	return SymbolKey{k: newKey(i)}
}

// AddFunction allocates a function's parameter symbols immediately
// followed by its body effects in one contiguous arena slice, mirroring
// the original's chained symbols-then-effects allocation so a
// FunctionKey can recover both halves by position alone.
func (b *StrageBuilder) AddFunction(params []SymbolEntry, body []EffectEntry) FunctionKey {
	start := len(b.data)
	for _, p := range params {
		b.alloc(rawData{kind: rawSymbol, rng: p.Range, symbol: p.Symbol})
	}
	for _, e := range body {
		b.alloc(rawData{kind: rawEffect, rng: e.Range, effect: e.Effect})
	}
	return FunctionKey{start: start, paramCount: len(params), effectCount: len(body)}
}
