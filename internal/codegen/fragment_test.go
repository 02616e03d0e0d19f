package codegen

import (
	"reflect"
	"testing"

	"github.com/ryota2357/lico-sub000/internal/icode"
)

func newFragmentWith(code []icode.ICode, forward, backward []int) *Fragment {
	return &Fragment{code: code, forwardJumpPos: forward, backwardJumpPos: backward}
}

func TestFragmentPatchForwardJump(t *testing.T) {
	fragment1 := newFragmentWith(
		[]icode.ICode{icode.Placeholder{}, icode.Placeholder{}, icode.Placeholder{}},
		[]int{0, 1, 2},
		nil,
	)
	fragment2 := newFragmentWith(
		append([]icode.ICode{}, fragment1.code...),
		append([]int{}, fragment1.forwardJumpPos...),
		nil,
	)

	fragment1.PatchForwardJump(3)
	fragment2.PatchForwardJump(-2)

	want1 := []icode.ICode{icode.Jump{Offset: 5}, icode.Jump{Offset: 4}, icode.Jump{Offset: 3}}
	want2 := []icode.ICode{icode.Jump{Offset: 0}, icode.Jump{Offset: -1}, icode.Jump{Offset: -2}}
	if !reflect.DeepEqual(fragment1.code, want1) {
		t.Errorf("fragment1.code = %v, want %v", fragment1.code, want1)
	}
	if !reflect.DeepEqual(fragment2.code, want2) {
		t.Errorf("fragment2.code = %v, want %v", fragment2.code, want2)
	}
	if len(fragment1.forwardJumpPos) != 0 || len(fragment2.forwardJumpPos) != 0 {
		t.Errorf("forwardJumpPos should be cleared after patching")
	}
}

func TestFragmentPatchBackwardJump(t *testing.T) {
	fragment1 := newFragmentWith(
		[]icode.ICode{icode.Placeholder{}, icode.Placeholder{}, icode.Placeholder{}},
		nil,
		[]int{0, 1, 2},
	)
	fragment2 := newFragmentWith(
		append([]icode.ICode{}, fragment1.code...),
		nil,
		append([]int{}, fragment1.backwardJumpPos...),
	)

	fragment1.PatchBackwardJump(-3)
	fragment2.PatchBackwardJump(2)

	want1 := []icode.ICode{icode.Jump{Offset: -3}, icode.Jump{Offset: -4}, icode.Jump{Offset: -5}}
	want2 := []icode.ICode{icode.Jump{Offset: 2}, icode.Jump{Offset: 1}, icode.Jump{Offset: 0}}
	if !reflect.DeepEqual(fragment1.code, want1) {
		t.Errorf("fragment1.code = %v, want %v", fragment1.code, want1)
	}
	if !reflect.DeepEqual(fragment2.code, want2) {
		t.Errorf("fragment2.code = %v, want %v", fragment2.code, want2)
	}
	if len(fragment1.backwardJumpPos) != 0 || len(fragment2.backwardJumpPos) != 0 {
		t.Errorf("backwardJumpPos should be cleared after patching")
	}
}

func TestFragmentAppendFragment(t *testing.T) {
	fragment := newFragmentWith(
		[]icode.ICode{icode.Placeholder{}, icode.LoadNilObject{}, icode.Placeholder{}},
		[]int{0},
		[]int{2},
	)
	fragment.AppendFragment(newFragmentWith(
		[]icode.ICode{icode.Placeholder{}, icode.Unload{}, icode.Placeholder{}},
		[]int{2},
		[]int{0},
	))

	want := []icode.ICode{
		icode.Placeholder{}, // 0: forward jump
		icode.LoadNilObject{},
		icode.Placeholder{}, // 2: backward jump
		icode.Placeholder{}, // 3: backward jump
		icode.Unload{},
		icode.Placeholder{}, // 5: forward jump
	}
	if !reflect.DeepEqual(fragment.code, want) {
		t.Errorf("fragment.code = %v, want %v", fragment.code, want)
	}
	if !reflect.DeepEqual(fragment.backwardJumpPos, []int{2, 3}) {
		t.Errorf("backwardJumpPos = %v, want [2 3]", fragment.backwardJumpPos)
	}
	if !reflect.DeepEqual(fragment.forwardJumpPos, []int{0, 5}) {
		t.Errorf("forwardJumpPos = %v, want [0 5]", fragment.forwardJumpPos)
	}
}
