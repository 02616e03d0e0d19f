package vm

import "github.com/ryota2357/lico-sub000/internal/object"

// ensureArrayIndex resolves a possibly-negative index against array's
// length, raising an out-of-range exception and returning ok=false if
// it doesn't land inside [0, len), mirroring exec_icode.rs's
// util::ensure_array_index.
func (c execCtx) ensureArrayIndex(a *object.Array, index int64) (int, bool) {
	fixed := index
	if fixed < 0 {
		fixed += int64(a.Len())
	}
	if fixed < 0 || int(fixed) >= a.Len() {
		c.rt.Exceptions.pushf(*c.pc, 0, "Index out of range %d..%d, got %d.", -a.Len(), a.Len(), index)
		return 0, false
	}
	return int(fixed), true
}

func (c execCtx) setNotIndexableException(typeName string) {
	c.rt.Exceptions.pushf(*c.pc, 0, "The object of type '%s' is not indexable.", typeName)
}

func (c execCtx) setContainerKeyTypeException(containerType, keyType string) {
	c.rt.Exceptions.pushf(*c.pc, 0,
		"The key of type '%s' is not valid for the container of type '%s'.", keyType, containerType)
}

// SetItem implements `container[key] = value`, mirroring
// exec_icode.rs's set_item.
func (c execCtx) SetItem(container, key, value object.Object) status {
	switch cont := container.(type) {
	case *object.Table:
		k, ok := key.(*object.String)
		if !ok {
			c.setContainerKeyTypeException("table", key.TypeName())
			return statusException
		}
		cont.Insert(k.Value.AsString(), value)
		*c.pc++
		return statusContinue
	case *object.Array:
		idx, ok := key.(object.Int)
		if !ok {
			c.setContainerKeyTypeException("array", key.TypeName())
			return statusException
		}
		i, ok := c.ensureArrayIndex(cont, int64(idx))
		if !ok {
			return statusException
		}
		cont.Set(i, value)
		*c.pc++
		return statusContinue
	default:
		c.setNotIndexableException(container.TypeName())
		return statusException
	}
}

// GetItem implements `container[key]`, mirroring exec_icode.rs's
// get_item.
func (c execCtx) GetItem(container, key object.Object) status {
	switch cont := container.(type) {
	case *object.Table:
		k, ok := key.(*object.String)
		if !ok {
			c.setContainerKeyTypeException("table", key.TypeName())
			return statusException
		}
		v, ok := cont.Get(k.Value.AsString())
		if !ok {
			v = object.Nil{}
		}
		return c.push(v)
	case *object.Array:
		idx, ok := key.(object.Int)
		if !ok {
			c.setContainerKeyTypeException("array", key.TypeName())
			return statusException
		}
		i, ok := c.ensureArrayIndex(cont, int64(idx))
		if !ok {
			return statusException
		}
		v, ok := cont.Get(i)
		if !ok {
			v = object.Nil{}
		}
		return c.push(v)
	default:
		c.setNotIndexableException(container.TypeName())
		return statusException
	}
}

// SetMethod installs value (the function beneath the receiver on the
// stack) as a named method on the receiver table, mirroring lib.rs's
// SetMethod handling. A receiver that is not a table raises the usual
// not-indexable exception; a value that is not callable is a VM bug
// (panic), since codegen only ever emits SetMethod right after
// compiling a function literal.
func (c execCtx) SetMethod(receiver object.Object, name string, value object.Object) status {
	tbl, ok := receiver.(*object.Table)
	if !ok {
		c.setNotIndexableException(receiver.TypeName())
		return statusException
	}
	switch fn := value.(type) {
	case *object.Function:
		tbl.SetMethod(name, object.CustomMethod{Func: fn})
	case *object.NativeFunction:
		tbl.SetMethod(name, object.NativeMethod{Func: fn})
	default:
		panic("vm: SetMethod target is not a callable")
	}
	*c.pc++
	return statusContinue
}
