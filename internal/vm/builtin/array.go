package builtin

import (
	"sort"

	"github.com/ryota2357/lico-sub000/internal/object"
)

// RunArray dispatches a CallMethod whose receiver is an Array,
// authored by analogy to RunInt's dispatch shape; `iter` builds a
// __move_next/__current iterator table rather than relying on
// __iter, per §3.4.
func RunArray(name string, this *object.Array, args []object.Object) Result {
	switch name {
	case "len":
		return intArity0(name, args, func() Result { return Ok{object.Int(this.Len())} })
	case "push":
		check, errRes := checkArity(1, args)
		if errRes != nil {
			return errRes
		}
		this.Push(check.args[0])
		return Ok{object.Nil{}}
	case "pop":
		return intArity0(name, args, func() Result {
			v, ok := this.Pop()
			if !ok {
				return Ok{object.Nil{}}
			}
			return Ok{v}
		})
	case "sort":
		return intArity0(name, args, func() Result { return arraySort(this) })
	case "iter":
		return intArity0(name, args, func() Result { return arrayIter(this) })
	default:
		return NotFound{ReceiverType: "array"}
	}
}

func arraySort(a *object.Array) Result {
	elems := a.Slice()
	var cmpErr Result
	less := func(i, j int) bool {
		ok, lt := lessObject(elems[i], elems[j])
		if !ok {
			cmpErr = InvalidArgType{Index: j, Expected: "int|float|string", Got: elems[j].TypeName()}
		}
		return lt
	}
	sort.SliceStable(elems, less)
	if cmpErr != nil {
		return cmpErr
	}
	return Ok{object.Nil{}}
}

func lessObject(a, b object.Object) (ok bool, lt bool) {
	switch av := a.(type) {
	case object.Int:
		switch bv := b.(type) {
		case object.Int:
			return true, av < bv
		case object.Float:
			return true, float64(av) < float64(bv)
		}
	case object.Float:
		switch bv := b.(type) {
		case object.Int:
			return true, float64(av) < float64(bv)
		case object.Float:
			return true, av < bv
		}
	case *object.String:
		if bv, ok := b.(*object.String); ok {
			return true, av.Value.Less(bv.Value)
		}
	}
	return false, false
}

// arrayIter builds a __get_iter/__move_next/__current table walking
// the array's elements in order.
func arrayIter(a *object.Array) Result {
	tbl := object.NewTable()
	tbl.Insert("index", object.Int(-1))

	tbl.SetMethod("__get_iter", object.NativeMethod{Func: object.NewNativeFunction(1,
		func(args []object.Object) (object.Object, error) { return args[0], nil })})

	tbl.SetMethod("__move_next", object.NativeMethod{Func: object.NewNativeFunction(1,
		func(args []object.Object) (object.Object, error) {
			this := args[0].(*object.Table)
			idx, _ := this.Get("index")
			i := int64(idx.(object.Int))
			if int(i+1) < a.Len() {
				this.Insert("index", object.Int(i+1))
				return object.Bool(true), nil
			}
			return object.Bool(false), nil
		})})

	tbl.SetMethod("__current", object.NativeMethod{Func: object.NewNativeFunction(1,
		func(args []object.Object) (object.Object, error) {
			this := args[0].(*object.Table)
			idx, _ := this.Get("index")
			i := int64(idx.(object.Int))
			v, ok := a.Get(int(i))
			if !ok {
				return object.Nil{}, nil
			}
			return v, nil
		})})

	return Ok{tbl}
}
