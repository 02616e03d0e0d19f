package object

import "strings"

// UString ports ustring.rs's dual ASCII/non-ASCII representation:
// indexing is always in runes, never bytes, and a string starts in the
// cheap ASCII form (byte length doubles as rune length, no index
// table) and is promoted to the indexed form the first time a non-ASCII
// byte is appended. Unlike the original, UString does not share a
// backing Rc — Go's GC already lets equal-content strings alias their
// backing array, so the sharing optimization has no Go analogue worth
// reproducing (see DESIGN.md).
type UString struct {
	bytes    string
	ascii    bool
	// runeIdx[i] is the byte offset of rune i; len(runeIdx) is the rune
	// count. Populated only once ascii is false.
	runeIdx []int
}

func NewUString(s string) UString {
	if isASCII(s) {
		return UString{bytes: s, ascii: true}
	}
	return UString{bytes: s, ascii: false, runeIdx: buildRuneIndex(s)}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func buildRuneIndex(s string) []int {
	idx := make([]int, 0, len(s))
	for i := range s {
		idx = append(idx, i)
	}
	return idx
}

func (u UString) Len() int {
	if u.ascii {
		return len(u.bytes)
	}
	return len(u.runeIdx)
}

func (u UString) IsEmpty() bool { return len(u.bytes) == 0 }

func (u UString) IsASCII() bool { return u.ascii }

func (u UString) AsString() string { return u.bytes }

// At returns the rune at character index i, and false if i is out of
// range.
func (u UString) At(i int) (rune, bool) {
	if u.ascii {
		if i < 0 || i >= len(u.bytes) {
			return 0, false
		}
		return rune(u.bytes[i]), true
	}
	if i < 0 || i >= len(u.runeIdx) {
		return 0, false
	}
	start := u.runeIdx[i]
	for _, r := range u.bytes[start:] {
		return r, true
	}
	return 0, false
}

// SubString returns the substring spanning character indices
// [start,end), and false if the range is invalid.
func (u UString) SubString(start, end int) (UString, bool) {
	n := u.Len()
	if start < 0 || end > n || start > end {
		return UString{}, false
	}
	if u.ascii {
		return NewUString(u.bytes[start:end]), true
	}
	byteStart := u.runeIdx[start]
	var byteEnd int
	if end == n {
		byteEnd = len(u.bytes)
	} else {
		byteEnd = u.runeIdx[end]
	}
	return NewUString(u.bytes[byteStart:byteEnd]), true
}

// PushString appends other, promoting to the non-ASCII representation
// if either side already requires it.
func (u UString) PushString(other UString) UString {
	return NewUString(u.bytes + other.bytes)
}

func (u UString) Equal(other UString) bool { return u.bytes == other.bytes }
func (u UString) Less(other UString) bool  { return u.bytes < other.bytes }

func (u UString) Upper() UString { return NewUString(strings.ToUpper(u.bytes)) }
func (u UString) Lower() UString { return NewUString(strings.ToLower(u.bytes)) }
func (u UString) Trim() UString  { return NewUString(strings.TrimSpace(u.bytes)) }

func (u UString) Split(sep string) []UString {
	parts := strings.Split(u.bytes, sep)
	out := make([]UString, len(parts))
	for i, p := range parts {
		out[i] = NewUString(p)
	}
	return out
}

// Bytes returns the raw UTF-8 byte values, used by the `bytes()`
// built-in method.
func (u UString) Bytes() []byte { return []byte(u.bytes) }

// Chars returns every rune in the string, used by the `chars()`
// built-in method and by anything that must walk the non-ASCII index.
func (u UString) Chars() []rune { return []rune(u.bytes) }

// String is the heap-boxed wrapper that makes a UString an Object.
// Unlike Array/Table/Function, strings are immutable once built and so
// carry no gcHeader: they can never participate in a reference cycle.
type String struct {
	Value UString
}

func NewString(s string) *String { return &String{Value: NewUString(s)} }

func (*String) isObject()      {}
func (*String) TypeName() string { return "string" }
func (s *String) String() string { return s.Value.AsString() }
