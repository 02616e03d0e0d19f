package vm

import (
	"go.uber.org/zap"

	"github.com/ryota2357/lico-sub000/internal/object"
)

// Stack is the VM's operand stack: every value an instruction consumes
// or produces passes through it.
type Stack struct {
	values []object.Object
}

func (s *Stack) Push(v object.Object) { s.values = append(s.values, v) }

func (s *Stack) Pop() object.Object {
	n := len(s.values)
	v := s.values[n-1]
	s.values = s.values[:n-1]
	return v
}

// Pop2/Pop3 mirror the original's fixed-size pop helpers the
// argc-specialized Call/CallMethod fast paths use, returning arguments
// in call (left-to-right) order rather than pop (reverse) order.
func (s *Stack) Pop2() (a, b object.Object) {
	b = s.Pop()
	a = s.Pop()
	return
}

func (s *Stack) Pop3() (a, b, c object.Object) {
	c = s.Pop()
	b = s.Pop()
	a = s.Pop()
	return
}

func (s *Stack) Len() int { return len(s.values) }

// LocalTable is a stack of call frames; each frame is itself a stack of
// Cells, one per local, indexed by the LocalID internal/codegen
// assigned at compile time. Locals are Cells rather than bare Objects
// so that a closure's captured variables (pushed by reference via
// PushCaptured) alias the same storage the capturing scope reads and
// writes, exactly like the original's Rc<RefCell<Object>> environment
// entries.
type LocalTable struct {
	frames [][]*object.Cell
}

func (t *LocalTable) PushScope() {
	t.frames = append(t.frames, nil)
}

func (t *LocalTable) PopScope() {
	t.frames = t.frames[:len(t.frames)-1]
}

// Add creates a fresh Cell holding v and appends it to the current
// frame, returning its LocalID.
func (t *LocalTable) Add(v object.Object) int {
	cur := len(t.frames) - 1
	t.frames[cur] = append(t.frames[cur], &object.Cell{Value: v})
	return len(t.frames[cur]) - 1
}

// PushCaptured appends an existing, possibly shared Cell to the
// current frame — used when entering a closure's body to install its
// captured environment ahead of its own parameters.
func (t *LocalTable) PushCaptured(c *object.Cell) int {
	cur := len(t.frames) - 1
	t.frames[cur] = append(t.frames[cur], c)
	return len(t.frames[cur]) - 1
}

func (t *LocalTable) Get(id int) object.Object {
	cur := len(t.frames) - 1
	return t.frames[cur][id].Value
}

func (t *LocalTable) Set(id int, v object.Object) {
	cur := len(t.frames) - 1
	t.frames[cur][id].Value = v
}

// GetRef returns the Cell itself, used to build a closure's captured
// environment by reference rather than by value.
func (t *LocalTable) GetRef(id int) *object.Cell {
	cur := len(t.frames) - 1
	return t.frames[cur][id]
}

// Drop removes the last count locals from the current frame, mirroring
// DropLocal's block/loop-scope-exit semantics.
func (t *LocalTable) Drop(count int) {
	cur := len(t.frames) - 1
	n := len(t.frames[cur])
	t.frames[cur] = t.frames[cur][:n-count]
}

// leaveHook is recorded at a Call/CallMethod site that resumes the same
// instruction stream on return: ra is the instruction to resume at,
// and postExec (set only for operator-dunder-method dispatch, e.g.
// NotEq falling back to a negated __eq) transforms the callee's return
// value before it's pushed back for the caller.
type leaveHook struct {
	ra       int
	postExec func(object.Object) (object.Object, error)
}

// Runtime is the mutable state one top-level Execute call (or one
// nested cross-executable call, see call.go's execFunction) threads
// through the dispatch loop: the operand stack, the local-variable
// frames, the pending leave hooks, the exception log, and the heap that
// tracks reference-counted objects for cycle collection.
type Runtime struct {
	Stack      Stack
	Locals     LocalTable
	leaveHooks []leaveHook
	Exceptions ExceptionLog
	Heap       *object.Heap
	Log        *zap.Logger
}

func NewRuntime(heap *object.Heap) *Runtime {
	r := &Runtime{Heap: heap, Log: zap.NewNop()}
	r.Locals.PushScope()
	return r
}

// WithLogger returns r with its trace logger replaced, used by Execute
// to thread a caller-supplied *zap.Logger (via interp.Options) down
// into every nested Runtime a cross-executable call spins up.
func (r *Runtime) WithLogger(l *zap.Logger) *Runtime {
	r.Log = l
	return r
}

func (r *Runtime) pushLeaveHook(ra int, postExec func(object.Object) (object.Object, error)) {
	r.leaveHooks = append(r.leaveHooks, leaveHook{ra: ra, postExec: postExec})
}

func (r *Runtime) popLeaveHook() (leaveHook, bool) {
	n := len(r.leaveHooks)
	if n == 0 {
		return leaveHook{}, false
	}
	h := r.leaveHooks[n-1]
	r.leaveHooks = r.leaveHooks[:n-1]
	return h, true
}
