package vm

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ryota2357/lico-sub000/internal/object"
	"github.com/ryota2357/lico-sub000/internal/vm/builtin"
)

// errExceptionLogged is returned by a postExec callback that has already
// pushed its own entry onto the exception log (e.g. partialCmp's
// __cmp-result-type check) — call.go's generic postExec plumbing treats
// it as "abort with statusException", distinct from a postExec error
// that still needs a message logged for it.
var errExceptionLogged = errors.New("exception logged")

// call invokes callee with args, mirroring exec_icode.rs's call(): a
// Function/NativeFunction call directly, a Table with a __call method
// dispatches to it, anything else raises a not-callable exception.
func (c execCtx) call(callee object.Object, args []object.Object) status {
	switch fn := callee.(type) {
	case *object.Function:
		return c.execFunction(fn, args, nil)
	case *object.NativeFunction:
		return c.execNativeFunction(fn, args, nil)
	case *object.Table:
		if method, ok := fn.GetMethod("__call"); ok {
			return c.execMethod(method, args, nil)
		}
		c.rt.Exceptions.pushf(*c.pc, 0, "The object of type 'table' is not callable.")
		return statusException
	default:
		c.rt.Exceptions.pushf(*c.pc, 0, "The object of type '%s' is not callable.", callee.TypeName())
		return statusException
	}
}

// callMethod invokes name as a method on receiver, mirroring
// exec_icode.rs's call_method(): scalar receivers dispatch through
// internal/vm/builtin; a Table receiver checks its own method table
// first (so user-defined methods shadow the built-in table methods: the
// original has no built-in Table methods, so this never actually
// competes, but the precedence mirrors the source exactly) then falls
// back to... there are no built-in Table methods, so NotFound there
// means "no such method".
func (c execCtx) callMethod(receiver object.Object, name string, args []object.Object) status {
	var result builtin.Result
	switch r := receiver.(type) {
	case object.Int:
		result = builtin.RunInt(name, r, args)
	case object.Float:
		result = builtin.RunFloat(name, r, args)
	case object.Bool:
		result = builtin.RunBool(name, r, args)
	case object.Nil:
		result = builtin.RunNil(name, args)
	case *object.String:
		result = builtin.RunString(name, r, args)
	case *object.Array:
		result = builtin.RunArray(name, r, args)
	case *object.Table:
		if method, ok := r.GetMethod(name); ok {
			full := append([]object.Object{receiver}, args...)
			return c.execMethod(method, full, nil)
		}
		result = builtin.NotFound{ReceiverType: "table"}
	default:
		result = builtin.NotFound{ReceiverType: receiver.TypeName()}
	}

	switch res := result.(type) {
	case builtin.Ok:
		return c.push(res.Value)
	case builtin.NotFound:
		c.rt.Exceptions.pushf(*c.pc, 0,
			"The method '%s' is not found in the object of type '%s'.", name, res.ReceiverType)
		return statusException
	case builtin.InvalidArgCount:
		c.rt.Exceptions.pushf(*c.pc, 1,
			"Method call failed: expected %d arguments, got %d.", res.Expected, res.Got)
		return statusException
	case builtin.InvalidArgType:
		c.rt.Exceptions.pushf(*c.pc, res.Index+2,
			"Method call failed: expected argument of type '%s', got '%s'.", res.Expected, res.Got)
		return statusException
	default:
		panic(fmt.Sprintf("vm: unhandled builtin.Result %T", result))
	}
}

// execMethod dispatches a resolved Table method (Custom or Native),
// mirroring exec_icode.rs's util::exec_table_method.
func (c execCtx) execMethod(method object.Method, args []object.Object, postExec postExecFn) status {
	switch m := method.(type) {
	case object.CustomMethod:
		return c.execFunction(m.Func, args, postExec)
	case object.NativeMethod:
		return c.execNativeFunction(m.Func, args, postExec)
	default:
		panic(fmt.Sprintf("vm: unhandled object.Method %T", method))
	}
}

type postExecFn func(object.Object) (object.Object, error)

// execFunction calls a Language-level closure, mirroring
// exec_icode.rs's util::exec_function_with_core: if the closure shares
// the currently-executing Executable, it resumes inline by pushing a
// leave hook and jumping pc to the callee's start; otherwise (a closure
// captured from a different compiled unit) it runs to completion in a
// freshly nested Runtime before returning control to the caller's pc.
func (c execCtx) execFunction(fn *object.Function, args []object.Object, postExec postExecFn) status {
	if int(fn.ParamCount) != len(args) {
		c.rt.Exceptions.pushf(*c.pc, 0,
			"Function call failed: expected %d arguments, got %d.", fn.ParamCount, len(args))
		return statusException
	}

	if fn.Exe == c.exe {
		c.rt.pushLeaveHook(*c.pc+1, postExec)
		c.rt.Locals.PushScope()
		for _, cell := range fn.Environment {
			c.rt.Locals.PushCaptured(cell)
		}
		for _, a := range args {
			c.rt.Locals.Add(a)
		}
		*c.pc = fn.StartIndex
		return statusContinue
	}

	c.rt.Log.Debug("entering cross-executable call",
		zap.Int("param_count", int(fn.ParamCount)), zap.Int("start_index", fn.StartIndex))

	nested := NewRuntime(c.rt.Heap).WithLogger(c.rt.Log)
	for _, cell := range fn.Environment {
		nested.Locals.PushCaptured(cell)
	}
	for _, a := range args {
		nested.Locals.Add(a)
	}
	result, excs := loop(fn.Exe, nested)
	if len(excs) > 0 {
		c.rt.Log.Debug("cross-executable call raised", zap.Int("count", len(excs)))
		c.rt.Exceptions.pushf(*c.pc, 0, "Error occurred while calling function.")
		return statusException
	}
	if postExec != nil {
		v, err := postExec(result)
		if err != nil {
			if !errors.Is(err, errExceptionLogged) {
				c.rt.Exceptions.pushf(*c.pc, 0, "%s", err.Error())
			}
			return statusException
		}
		result = v
	}
	c.rt.Stack.Push(result)
	*c.pc++
	return statusContinue
}

// execNativeFunction calls a Go-implemented callable, mirroring
// exec_icode.rs's util::exec_rust_function_core.
func (c execCtx) execNativeFunction(fn *object.NativeFunction, args []object.Object, postExec postExecFn) status {
	if int(fn.ParamCount) != len(args) {
		c.rt.Exceptions.pushf(*c.pc, 0,
			"Function call failed: expected %d arguments, got %d.", fn.ParamCount, len(args))
		return statusException
	}
	result, err := fn.Call(args)
	if err != nil {
		c.rt.Exceptions.pushf(*c.pc, 0, "Native function call failed:\n%s", err.Error())
		return statusException
	}
	if postExec != nil {
		v, err := postExec(result)
		if err != nil {
			if !errors.Is(err, errExceptionLogged) {
				c.rt.Exceptions.pushf(*c.pc, 0, "%s", err.Error())
			}
			return statusException
		}
		result = v
	}
	c.rt.Stack.Push(result)
	*c.pc++
	return statusContinue
}

// collectArgs gathers argc arguments off the stack in call (left-to-
// right) order. It uses the stack's Pop/Pop2/Pop3 specializations for
// 0-3 arguments and a generic loop for 4+; all paths must agree, which
// is exercised by interp's TestBoundaryCallArityZeroThroughFour.
func collectArgs(rt *Runtime, argc int) []object.Object {
	switch argc {
	case 0:
		return nil
	case 1:
		return []object.Object{rt.Stack.Pop()}
	case 2:
		a, b := rt.Stack.Pop2()
		return []object.Object{a, b}
	case 3:
		a, b, c := rt.Stack.Pop3()
		return []object.Object{a, b, c}
	default:
		args := make([]object.Object, argc)
		for i := argc - 1; i >= 0; i-- {
			args[i] = rt.Stack.Pop()
		}
		return args
	}
}
