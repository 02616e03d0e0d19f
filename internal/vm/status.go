package vm

import "github.com/ryota2357/lico-sub000/internal/object"

// status is what a per-opcode execution helper reports back to the
// dispatch loop, mirroring the original's CONTINUE/EXCEPTION sentinels
// (and, for Leave with an empty hook stack, a third case that ends the
// loop successfully).
type status int

const (
	statusContinue status = iota
	statusException
	statusDone
)

// execCtx bundles the mutable state every per-opcode helper needs,
// standing in for the original's `(&mut pc, &exe, &mut runtime)` tuple.
type execCtx struct {
	pc  *int
	exe *object.Executable
	rt  *Runtime
}
