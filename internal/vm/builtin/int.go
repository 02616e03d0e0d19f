package builtin

import (
	"math"

	"github.com/ryota2357/lico-sub000/internal/object"
)

// RunInt dispatches a CallMethod whose receiver is an Int, grounded
// directly on builtin/int.rs's run_method match arm.
func RunInt(name string, this object.Int, args []object.Object) Result {
	switch name {
	case "to_string":
		return intArity0(name, args, func() Result { return Ok{object.NewString(this.String())} })
	case "abs":
		return intArity0(name, args, func() Result {
			v := int64(this)
			if v < 0 {
				v = -v
			}
			return Ok{object.Int(v)}
		})
	case "floor", "round", "trunc":
		return intArity0(name, args, func() Result { return Ok{this} })
	case "fract":
		return intArity0(name, args, func() Result { return Ok{object.Float(0)} })
	case "ceil":
		return intArity0(name, args, func() Result { return Ok{object.Float(float64(this))} })
	case "acos", "acosh", "asin", "asinh", "atan", "atanh",
		"cbrt", "cos", "cosh", "exp", "exp2", "ln", "log10", "log2",
		"sin", "sinh", "sqrt", "tan", "tanh":
		return intArity0(name, args, func() Result { return Ok{object.Float(applyUnaryMath(name, float64(this)))} })
	case "atan2", "log":
		check, errRes := checkArity(1, args)
		if errRes != nil {
			return errRes
		}
		other, errRes := asFloat(0, check.args)
		if errRes != nil {
			return errRes
		}
		return Ok{object.Float(applyBinaryMath(name, float64(this), other))}
	case "clamp":
		return intClamp(this, args)
	case "max":
		return intMinMax(this, args, true)
	case "min":
		return intMinMax(this, args, false)
	case "pow":
		check, errRes := checkArity(1, args)
		if errRes != nil {
			return errRes
		}
		exp, errRes := asFloat(0, check.args)
		if errRes != nil {
			return errRes
		}
		return Ok{object.Float(math.Pow(float64(this), exp))}
	case "downto":
		return intRangeIter(this, args, true)
	case "upto":
		return intRangeIter(this, args, false)
	default:
		return NotFound{ReceiverType: "int"}
	}
}

func intArity0(name string, args []object.Object, f func() Result) Result {
	if _, errRes := checkArity(0, args); errRes != nil {
		return errRes
	}
	return f()
}

func applyUnaryMath(name string, x float64) float64 {
	switch name {
	case "acos":
		return math.Acos(x)
	case "acosh":
		return math.Acosh(x)
	case "asin":
		return math.Asin(x)
	case "asinh":
		return math.Asinh(x)
	case "atan":
		return math.Atan(x)
	case "atanh":
		return math.Atanh(x)
	case "cbrt":
		return math.Cbrt(x)
	case "cos":
		return math.Cos(x)
	case "cosh":
		return math.Cosh(x)
	case "exp":
		return math.Exp(x)
	case "exp2":
		return math.Exp2(x)
	case "ln":
		return math.Log(x)
	case "log10":
		return math.Log10(x)
	case "log2":
		return math.Log2(x)
	case "sin":
		return math.Sin(x)
	case "sinh":
		return math.Sinh(x)
	case "sqrt":
		return math.Sqrt(x)
	case "tan":
		return math.Tan(x)
	case "tanh":
		return math.Tanh(x)
	}
	panic("builtin: unreachable math method " + name)
}

func applyBinaryMath(name string, x, y float64) float64 {
	switch name {
	case "atan2":
		return math.Atan2(x, y)
	case "log":
		return math.Log(x) / math.Log(y)
	}
	panic("builtin: unreachable math method " + name)
}

func intClamp(this object.Int, args []object.Object) Result {
	check, errRes := checkArity(2, args)
	if errRes != nil {
		return errRes
	}
	min, max := check.args[0], check.args[1]
	switch minV := min.(type) {
	case object.Int:
		switch maxV := max.(type) {
		case object.Int:
			v := int64(this)
			if v < int64(minV) {
				v = int64(minV)
			}
			if v > int64(maxV) {
				v = int64(maxV)
			}
			return Ok{object.Int(v)}
		case object.Float:
			if float64(this) <= float64(minV) {
				return Ok{object.Int(minV)}
			} else if float64(this) >= float64(maxV) {
				return Ok{object.Float(maxV)}
			}
			return Ok{this}
		default:
			return InvalidArgType{Index: 1, Expected: "int|float", Got: maxV.TypeName()}
		}
	case object.Float:
		switch maxV := max.(type) {
		case object.Int:
			if float64(this) <= float64(minV) {
				return Ok{object.Float(minV)}
			} else if this >= maxV {
				return Ok{object.Int(maxV)}
			}
			return Ok{object.Float(float64(this))}
		case object.Float:
			if float64(this) <= float64(minV) {
				return Ok{object.Float(minV)}
			} else if float64(this) >= float64(maxV) {
				return Ok{object.Float(maxV)}
			}
			return Ok{this}
		default:
			return InvalidArgType{Index: 1, Expected: "int|float", Got: maxV.TypeName()}
		}
	default:
		return InvalidArgType{Index: 0, Expected: "int|float", Got: minV.TypeName()}
	}
}

func intMinMax(this object.Int, args []object.Object, wantMax bool) Result {
	check, errRes := checkArity(1, args)
	if errRes != nil {
		return errRes
	}
	switch other := check.args[0].(type) {
	case object.Int:
		if wantMax {
			if int64(this) >= int64(other) {
				return Ok{this}
			}
			return Ok{other}
		}
		if int64(this) <= int64(other) {
			return Ok{this}
		}
		return Ok{other}
	case object.Float:
		if wantMax {
			if float64(this) >= float64(other) {
				return Ok{this}
			}
			return Ok{other}
		}
		if float64(this) <= float64(other) {
			return Ok{this}
		}
		return Ok{other}
	default:
		return InvalidArgType{Index: 0, Expected: "int", Got: other.TypeName()}
	}
}

// intRangeIter builds the __get_iter/__move_next/__current iterator
// table downto/upto return, grounded directly on
// builtin/int.rs's create_range_iter_table.
func intRangeIter(start object.Int, args []object.Object, reverse bool) Result {
	check, errRes := checkArity(1, args)
	if errRes != nil {
		return errRes
	}
	limit := check.args[0]
	switch limit.(type) {
	case object.Int, object.Float:
	default:
		return InvalidArgType{Index: 0, Expected: "int|float", Got: limit.TypeName()}
	}

	tbl := object.NewTable()
	tbl.Insert("start", start)
	tbl.Insert("end", limit)
	tbl.Insert("__current", object.Nil{})

	tbl.SetMethod("__get_iter", object.NativeMethod{Func: object.NewNativeFunction(1,
		func(args []object.Object) (object.Object, error) { return args[0], nil })})

	moveNext := func(args []object.Object) (object.Object, error) {
		this, ok := args[0].(*object.Table)
		if !ok {
			panic("builtin: unexpected receiver type in range iterator")
		}
		current, ok := this.Get("__current")
		if !ok {
			return object.Bool(false), nil
		}
		curInt, ok := current.(object.Int)
		if !ok {
			return object.Bool(false), nil
		}
		end, _ := this.Get("end")
		endInt, ok := end.(object.Int)
		if !ok {
			if endF, ok := end.(object.Float); ok {
				endInt = object.Int(endF)
			}
		}
		if reverse {
			if int64(curInt) > int64(endInt) {
				this.Insert("__current", object.Int(int64(curInt)-1))
				return object.Bool(true), nil
			}
		} else {
			if int64(curInt) < int64(endInt) {
				this.Insert("__current", object.Int(int64(curInt)+1))
				return object.Bool(true), nil
			}
		}
		return object.Bool(false), nil
	}
	tbl.SetMethod("__move_next", object.NativeMethod{Func: object.NewNativeFunction(1, moveNext)})

	tbl.SetMethod("__current", object.NativeMethod{Func: object.NewNativeFunction(1,
		func(args []object.Object) (object.Object, error) {
			this, ok := args[0].(*object.Table)
			if !ok {
				panic("builtin: unexpected receiver type in range iterator")
			}
			cur, ok := this.Get("__current")
			if !ok {
				return object.Nil{}, nil
			}
			return cur, nil
		})})

	// First __current is one step before start, consistent with
	// __move_next advancing it to start on the first call.
	if reverse {
		tbl.Insert("__current", object.Int(int64(start)+1))
	} else {
		tbl.Insert("__current", object.Int(int64(start)-1))
	}

	return Ok{tbl}
}
