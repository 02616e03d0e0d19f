package builtin

import "github.com/ryota2357/lico-sub000/internal/object"

// RunBool dispatches a CallMethod whose receiver is a Bool. Bool has
// only the common to_string method; anything else falls through to
// NotFound the same as every other scalar.
func RunBool(name string, this object.Bool, args []object.Object) Result {
	switch name {
	case "to_string":
		return intArity0(name, args, func() Result { return Ok{object.NewString(this.String())} })
	default:
		return NotFound{ReceiverType: "bool"}
	}
}

// RunNil dispatches a CallMethod whose receiver is Nil.
func RunNil(name string, args []object.Object) Result {
	switch name {
	case "to_string":
		return intArity0(name, args, func() Result { return Ok{object.NewString("nil")} })
	default:
		return NotFound{ReceiverType: "nil"}
	}
}
