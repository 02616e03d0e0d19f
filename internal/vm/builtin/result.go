// Package builtin implements the built-in method library every scalar
// and Array value exposes through CallMethod, grounded on
// original_source/core/vm/src/builtin/int.rs's run_method/method! shape
// (Int) and authored by analogy to that same dispatch pattern for
// Float, Bool, Nil, String and Array (SUPPLEMENTED FEATURES #2).
package builtin

import "github.com/ryota2357/lico-sub000/internal/object"

// Result is the outcome of a built-in method dispatch, mirroring
// RunMethodResult's four cases.
type Result interface{ isResult() }

type Ok struct{ Value object.Object }
type NotFound struct{ ReceiverType string }
type InvalidArgCount struct{ Expected, Got int }
type InvalidArgType struct {
	Index           int
	Expected, Got string
}

func (Ok) isResult()              {}
func (NotFound) isResult()        {}
func (InvalidArgCount) isResult() {}
func (InvalidArgType) isResult()  {}

// argCheck is the argument slice of a builtin method call after
// checkArity has confirmed it holds exactly want arguments; checkArity
// returns an InvalidArgCount result instead when the count differs.
type argCheck struct {
	want int
	args []object.Object
}

func checkArity(want int, args []object.Object) (argCheck, Result) {
	if len(args) != want {
		return argCheck{}, InvalidArgCount{Expected: want, Got: len(args)}
	}
	return argCheck{want: want, args: args}, nil
}

func asFloat(i int, args []object.Object) (float64, Result) {
	switch v := args[i].(type) {
	case object.Int:
		return float64(v), nil
	case object.Float:
		return float64(v), nil
	default:
		return 0, InvalidArgType{Index: i, Expected: "int|float", Got: v.TypeName()}
	}
}
