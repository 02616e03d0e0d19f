package vm

import "github.com/ryota2357/lico-sub000/internal/object"

// GetIter/IterMoveNext/IterCurrent implement the for-loop iterator
// protocol: a value's __get_iter method produces an iterator table
// (often itself, as the int/array range iterators do), and
// __move_next/__current drive the loop, exactly as compileLoopForBody
// (internal/codegen) emits them. exec_icode.rs leaves this path as an
// unfinished todo!() in the retrieved source (it probes "__iter" while
// every concrete iterator in the same source, e.g. builtin/int.rs's
// create_range_iter_table, installs "__get_iter") — this port settles
// on the name every working iterator in the source actually uses.
func (c execCtx) GetIter(v object.Object) status {
	if method, ok := findUnaryMethod("__get_iter", v); ok {
		return c.execMethod(method, []object.Object{v}, nil)
	}
	c.rt.Exceptions.pushf(*c.pc, 0, "The object of type '%s' is not iterable.", v.TypeName())
	return statusException
}

func (c execCtx) IterMoveNext(iter object.Object) status {
	if method, ok := findUnaryMethod("__move_next", iter); ok {
		return c.execMethod(method, []object.Object{iter}, nil)
	}
	c.rt.Exceptions.pushf(*c.pc, 0,
		"The object of type '%s' does not implement the iterator protocol.", iter.TypeName())
	return statusException
}

func (c execCtx) IterCurrent(iter object.Object) status {
	if method, ok := findUnaryMethod("__current", iter); ok {
		return c.execMethod(method, []object.Object{iter}, nil)
	}
	c.rt.Exceptions.pushf(*c.pc, 0,
		"The object of type '%s' does not implement the iterator protocol.", iter.TypeName())
	return statusException
}
