// Package vm implements the stack-based bytecode interpreter: the main
// dispatch loop (this file), operator-overloading and call dispatch
// (ops.go, call.go), container indexing (item.go), the for-loop
// iterator protocol (iter.go), and the runtime value/frame plumbing
// (runtime.go, exception.go) they share — grounded throughout on
// original_source/core/vm/src/lib.rs (execute/loop_) and exec_icode.rs
// (the per-opcode helpers the main loop delegates to).
package vm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ryota2357/lico-sub000/internal/icode"
	"github.com/ryota2357/lico-sub000/internal/object"
)

// ExecutionError is a single raised-but-unhandled runtime exception,
// the host-facing shape exceptionEntry is translated into. It carries
// the raw pc and sub-index only; nothing resolves them to a source
// Range (the Range fields on the ICode at that pc are not consulted).
type ExecutionError struct {
	Message  string
	PC       int
	SubIndex int
}

func (e ExecutionError) Error() string {
	return fmt.Sprintf("%s (pc=%d)", e.Message, e.PC)
}

// Execute runs a whole compiled module from its first instruction,
// mirroring lib.rs's execute(): rfuncs are host-provided default
// functions registered as the module's leading locals (so source code
// can reference them by name, resolved at compile time to the matching
// LocalID) before the module's own top-level effects run. On success it
// returns the final top-of-stack value (or object.Nil{} if the module
// never pushed one); on a raised exception it returns the drained
// ExecutionErrors instead. log receives per-call/per-exception trace
// events (pass zap.NewNop() for silent execution, as interp.Options
// does by default) and is threaded into every nested Runtime a
// cross-executable call spins up. collectGC runs CollectCycles once
// execution finishes; interp.Options.DisableGC threads false through
// here to benchmark the dispatch loop without collector overhead.
func Execute(exe *object.Executable, rfuncs []object.Object, log *zap.Logger, collectGC bool) (object.Object, []ExecutionError) {
	if log == nil {
		log = zap.NewNop()
	}

	heap := object.NewHeap()
	rt := NewRuntime(heap).WithLogger(log)
	for _, f := range rfuncs {
		rt.Locals.Add(f)
	}

	result, excs := loop(exe, rt)

	if collectGC {
		before := heap.LiveRoots()
		heap.CollectCycles()
		log.Debug("cycle collection pass complete",
			zap.Int("roots_before", before), zap.Int("roots_after", heap.LiveRoots()))
	}

	if len(excs) > 0 {
		out := make([]ExecutionError, len(excs))
		for i, e := range excs {
			log.Debug("runtime exception raised",
				zap.String("message", e.Message), zap.Int("pc", e.PC), zap.Int("sub_index", e.SubIndex))
			out[i] = ExecutionError{Message: e.Message, PC: e.PC, SubIndex: e.SubIndex}
		}
		return nil, out
	}
	return result, nil
}

// loop runs rt's dispatch loop over exe's instruction stream until
// either a Leave is reached with an empty leave-hook stack (successful
// top-level return — the top-of-stack value is popped and returned) or
// an instruction raises an exception (the loop aborts and the drained
// log is returned instead).
func loop(exe *object.Executable, rt *Runtime) (object.Object, []exceptionEntry) {
	pc := 0
	c := execCtx{pc: &pc, exe: exe, rt: rt}
	code := exe.Code

	for {
		st := dispatch(c, code[pc])
		switch st {
		case statusContinue:
			continue
		case statusException:
			return nil, rt.Exceptions.Drain()
		case statusDone:
			return rt.Stack.Pop(), nil
		}
	}
}

func dispatch(c execCtx, inst icode.ICode) status {
	rt := c.rt
	pc := c.pc

	switch op := inst.(type) {

	case icode.LoadNilObject:
		rt.Stack.Push(object.Nil{})
		*pc++
		return statusContinue
	case icode.LoadBoolObject:
		rt.Stack.Push(object.Bool(op.Val))
		*pc++
		return statusContinue
	case icode.LoadIntObject:
		rt.Stack.Push(object.Int(op.Val))
		*pc++
		return statusContinue
	case icode.LoadFloatObject:
		rt.Stack.Push(object.Float(op.Val))
		*pc++
		return statusContinue
	case icode.LoadStringObject:
		rt.Stack.Push(object.NewString(op.Val))
		*pc++
		return statusContinue
	case icode.LoadArrayObject:
		rt.Stack.Push(instantiateConst(op.Val))
		*pc++
		return statusContinue
	case icode.LoadTableObject:
		rt.Stack.Push(instantiateConst(op.Val))
		*pc++
		return statusContinue

	case icode.MakeArray:
		elems := make([]object.Object, op.N)
		for i := op.N - 1; i >= 0; i-- {
			elems[i] = rt.Stack.Pop()
		}
		rt.Stack.Push(object.NewArray(elems))
		*pc++
		return statusContinue

	case icode.MakeTable:
		tbl := object.NewTable()
		type kv struct{ key, value object.Object }
		pairs := make([]kv, op.N)
		for i := op.N - 1; i >= 0; i-- {
			v := rt.Stack.Pop()
			k := rt.Stack.Pop()
			pairs[i] = kv{key: k, value: v}
		}
		for i, p := range pairs {
			key, ok := p.key.(*object.String)
			if !ok {
				rt.Exceptions.pushf(*pc, i,
					"The key of type '%s' is not valid for the container of type 'table'.", p.key.TypeName())
				return statusException
			}
			tbl.Insert(key.Value.AsString(), p.value)
		}
		rt.Stack.Push(tbl)
		*pc++
		return statusContinue

	case icode.LoadLocal:
		rt.Stack.Push(rt.Locals.Get(op.ID))
		*pc++
		return statusContinue
	case icode.StoreLocal:
		rt.Locals.Set(op.ID, rt.Stack.Pop())
		*pc++
		return statusContinue
	case icode.StoreNewLocal:
		rt.Locals.Add(rt.Stack.Pop())
		*pc++
		return statusContinue
	case icode.DropLocal:
		rt.Locals.Drop(op.N)
		*pc++
		return statusContinue

	case icode.GetItem:
		key := rt.Stack.Pop()
		container := rt.Stack.Pop()
		return c.GetItem(container, key)
	case icode.SetItem:
		key := rt.Stack.Pop()
		container := rt.Stack.Pop()
		value := rt.Stack.Pop()
		return c.SetItem(container, key, value)
	case icode.SetMethod:
		receiver := rt.Stack.Pop()
		value := rt.Stack.Pop()
		return c.SetMethod(receiver, op.Name, value)

	case icode.GetIter:
		return c.GetIter(rt.Stack.Pop())
	case icode.IterMoveNext:
		return c.IterMoveNext(rt.Stack.Pop())
	case icode.IterCurrent:
		return c.IterCurrent(rt.Stack.Pop())

	case icode.Jump:
		*pc += op.Offset
		return statusContinue
	case icode.JumpIfTrue:
		cond := rt.Stack.Pop()
		if object.IsTruthy(cond) {
			*pc += op.Offset
		} else {
			*pc++
		}
		return statusContinue
	case icode.JumpIfFalse:
		cond := rt.Stack.Pop()
		if object.IsFalsey(cond) {
			*pc += op.Offset
		} else {
			*pc++
		}
		return statusContinue

	case icode.Unp:
		return c.Unp(rt.Stack.Pop())
	case icode.Unm:
		return c.Unm(rt.Stack.Pop())
	case icode.Not:
		return c.Not(rt.Stack.Pop())
	case icode.BitNot:
		return c.BitNot(rt.Stack.Pop())

	case icode.Add:
		rhs, lhs := rt.Stack.Pop(), rt.Stack.Pop()
		return c.Add(lhs, rhs)
	case icode.Sub:
		rhs, lhs := rt.Stack.Pop(), rt.Stack.Pop()
		return c.Sub(lhs, rhs)
	case icode.Mul:
		rhs, lhs := rt.Stack.Pop(), rt.Stack.Pop()
		return c.Mul(lhs, rhs)
	case icode.Div:
		rhs, lhs := rt.Stack.Pop(), rt.Stack.Pop()
		return c.Div(lhs, rhs)
	case icode.Mod:
		rhs, lhs := rt.Stack.Pop(), rt.Stack.Pop()
		return c.Mod(lhs, rhs)
	case icode.ShiftL:
		rhs, lhs := rt.Stack.Pop(), rt.Stack.Pop()
		return c.ShiftL(lhs, rhs)
	case icode.ShiftR:
		rhs, lhs := rt.Stack.Pop(), rt.Stack.Pop()
		return c.ShiftR(lhs, rhs)
	case icode.Concat:
		rhs, lhs := rt.Stack.Pop(), rt.Stack.Pop()
		return c.Concat(lhs, rhs)
	case icode.Eq:
		rhs, lhs := rt.Stack.Pop(), rt.Stack.Pop()
		return c.Eq(lhs, rhs)
	case icode.NotEq:
		rhs, lhs := rt.Stack.Pop(), rt.Stack.Pop()
		return c.NotEq(lhs, rhs)
	case icode.Less:
		rhs, lhs := rt.Stack.Pop(), rt.Stack.Pop()
		return c.Less(lhs, rhs)
	case icode.LessEq:
		rhs, lhs := rt.Stack.Pop(), rt.Stack.Pop()
		return c.LessEq(lhs, rhs)
	case icode.Greater:
		rhs, lhs := rt.Stack.Pop(), rt.Stack.Pop()
		return c.Greater(lhs, rhs)
	case icode.GreaterEq:
		rhs, lhs := rt.Stack.Pop(), rt.Stack.Pop()
		return c.GreaterEq(lhs, rhs)
	case icode.BitAnd:
		rhs, lhs := rt.Stack.Pop(), rt.Stack.Pop()
		return c.BitAnd(lhs, rhs)
	case icode.BitOr:
		rhs, lhs := rt.Stack.Pop(), rt.Stack.Pop()
		return c.BitOr(lhs, rhs)
	case icode.BitXor:
		rhs, lhs := rt.Stack.Pop(), rt.Stack.Pop()
		return c.BitXor(lhs, rhs)

	case icode.Call:
		args := collectArgs(rt, int(op.Argc))
		callee := rt.Stack.Pop()
		rt.Log.Debug("call",
			zap.Int("pc", *pc), zap.String("callee_type", callee.TypeName()), zap.Int("argc", len(args)))
		return c.call(callee, args)
	case icode.CallMethod:
		args := collectArgs(rt, int(op.Argc))
		receiver := rt.Stack.Pop()
		rt.Log.Debug("call method",
			zap.Int("pc", *pc), zap.String("name", op.Name), zap.String("receiver_type", receiver.TypeName()), zap.Int("argc", len(args)))
		return c.callMethod(receiver, op.Name, args)

	case icode.Unload:
		rt.Stack.Pop()
		*pc++
		return statusContinue

	case icode.Leave:
		hook, ok := rt.popLeaveHook()
		if !ok {
			return statusDone
		}
		rt.Locals.PopScope()
		result := rt.Stack.Pop()
		if hook.postExec != nil {
			v, err := hook.postExec(result)
			if err != nil {
				return statusException
			}
			result = v
		}
		rt.Stack.Push(result)
		*pc = hook.ra
		return statusContinue

	case icode.BeginFuncSection:
		return dispatchFuncSection(c)

	case icode.FuncSetProperty, icode.FuncAddCapture, icode.EndFuncSection, icode.Placeholder:
		panic(fmt.Sprintf("vm: %T reached outside its BeginFuncSection bracket", inst))

	default:
		panic(fmt.Sprintf("vm: unhandled icode.ICode variant %T", inst))
	}
}

// dispatchFuncSection consumes the BeginFuncSection/FuncSetProperty/
// FuncAddCapture*/EndFuncSection read-ahead sequence codegen emits for
// every function literal, building the closure and pushing it, exactly
// as lib.rs's BeginFuncSection arm does.
func dispatchFuncSection(c execCtx) status {
	rt := c.rt
	pc := c.pc
	code := c.exe.Code

	*pc++
	prop, ok := code[*pc].(icode.FuncSetProperty)
	if !ok {
		panic("vm: BeginFuncSection not immediately followed by FuncSetProperty")
	}
	*pc++

	var env []*object.Cell
	var self *object.Cell
	for {
		if cap, ok := code[*pc].(icode.FuncAddCapture); ok {
			frame := rt.Locals.frames[len(rt.Locals.frames)-1]
			if cap.LocalID == len(frame) {
				// A `func name()` declaration capturing its own name: that
				// slot is only created by the StoreNewLocal following this
				// section, so the closure gets a cell of its own that holds
				// the finished function.
				self = &object.Cell{}
				env = append(env, self)
			} else {
				env = append(env, rt.Locals.GetRef(cap.LocalID))
			}
			*pc++
			continue
		}
		break
	}
	if _, ok := code[*pc].(icode.EndFuncSection); !ok {
		panic("vm: FuncAddCapture* not terminated by EndFuncSection")
	}
	*pc++

	fn := object.NewFunction(c.exe, prop.FuncID, prop.ParamCount, env)
	if self != nil {
		self.Value = fn
	}
	rt.Stack.Push(fn)
	return statusContinue
}
