// Package codegen turns a lowered internal/ir.Module into a flat
// internal/icode instruction stream: a Fragment-based builder with
// forward/backward jump patch lists (§4.4.1), a Context tracking
// block/loop-local nesting and capture-aware name resolution (§4.4.2),
// and one compile function per Effect/Value variant (§4.4.3/§4.4.4).
package codegen

import (
	"github.com/ryota2357/lico-sub000/internal/diag"
	"github.com/ryota2357/lico-sub000/internal/icode"
)

// Fragment is an append-only instruction sequence under construction,
// together with the positions of its not-yet-patched forward and
// backward jumps. Splicing one Fragment into another via AppendFragment
// carries over both patch-site lists unchanged in role, just shifted
// by the splice point, so a caller that appends a loop body fragment
// (whose own forward/backward lists record that body's break/continue
// placeholders) inherits exactly those two lists and can still patch
// them once the enclosing loop's exit and condition-recheck offsets
// are known.
type Fragment struct {
	code            []icode.ICode
	forwardJumpPos  []int
	backwardJumpPos []int
}

func NewFragment() *Fragment {
	return &Fragment{}
}

func FragmentWithCode(code []icode.ICode) *Fragment {
	return &Fragment{code: code}
}

// PatchForwardJump sets every pending forward jump's offset relative to
// the end of the fragment as it stands right now, plus offset.
func (f *Fragment) PatchForwardJump(offset int) {
	length := len(f.code)
	for _, pos := range f.forwardJumpPos {
		if _, ok := f.code[pos].(icode.Placeholder); !ok {
			diag.Bug("codegen: forward jump patch site %d is not a placeholder", pos)
		}
		f.code[pos] = icode.Jump{Offset: (length - pos - 1) + offset}
	}
	f.forwardJumpPos = nil
}

// PatchBackwardJump sets every pending backward jump's offset relative
// to the beginning of the fragment, plus offset.
func (f *Fragment) PatchBackwardJump(offset int) {
	for _, pos := range f.backwardJumpPos {
		if _, ok := f.code[pos].(icode.Placeholder); !ok {
			diag.Bug("codegen: backward jump patch site %d is not a placeholder", pos)
		}
		f.code[pos] = icode.Jump{Offset: -pos + offset}
	}
	f.backwardJumpPos = nil
}

func (f *Fragment) Len() int { return len(f.code) }

func (f *Fragment) Append(c icode.ICode) *Fragment {
	f.code = append(f.code, c)
	return f
}

func (f *Fragment) AppendMany(cs []icode.ICode) *Fragment {
	f.code = append(f.code, cs...)
	return f
}

func (f *Fragment) AppendForwardJump() {
	f.code = append(f.code, icode.Placeholder{})
	f.forwardJumpPos = append(f.forwardJumpPos, len(f.code)-1)
}

func (f *Fragment) AppendBackwardJump() {
	f.code = append(f.code, icode.Placeholder{})
	f.backwardJumpPos = append(f.backwardJumpPos, len(f.code)-1)
}

// AppendFragment splices other onto the end of f, shifting its
// patch-site lists by other's new starting offset. Each list keeps its
// own role: other's still-pending forward jumps are still forward
// jumps of the combined fragment, and likewise for backward jumps.
func (f *Fragment) AppendFragment(other *Fragment) *Fragment {
	length := len(f.code)
	f.code = append(f.code, other.code...)
	for _, pos := range other.forwardJumpPos {
		f.forwardJumpPos = append(f.forwardJumpPos, pos+length)
	}
	for _, pos := range other.backwardJumpPos {
		f.backwardJumpPos = append(f.backwardJumpPos, pos+length)
	}
	return f
}

func (f *Fragment) AppendFragmentMany(others []*Fragment) *Fragment {
	for _, o := range others {
		f.AppendFragment(o)
	}
	return f
}

// Finish validates that every jump in the fragment has been patched
// and returns its instruction stream. It is an error to call Finish
// while any forward or backward jump is still pending.
func (f *Fragment) Finish() []icode.ICode {
	for _, c := range f.code {
		if _, ok := c.(icode.Placeholder); ok {
			diag.Bug("codegen: unpatched jump placeholder reached Fragment.Finish")
		}
	}
	return f.code
}
