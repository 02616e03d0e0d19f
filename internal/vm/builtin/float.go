package builtin

import (
	"math"

	"github.com/ryota2357/lico-sub000/internal/object"
)

// RunFloat dispatches a CallMethod whose receiver is a Float, authored
// by analogy to RunInt's numeric-method table (§3.4) since no
// builtin/float.rs file was retrieved — every method here mirrors the
// Int-and-Float-common subset of builtin/int.rs's run_method.
func RunFloat(name string, this object.Float, args []object.Object) Result {
	switch name {
	case "to_string":
		return intArity0(name, args, func() Result { return Ok{object.NewString(this.String())} })
	case "abs":
		return intArity0(name, args, func() Result { return Ok{object.Float(math.Abs(float64(this)))} })
	case "ceil":
		return intArity0(name, args, func() Result { return Ok{object.Float(math.Ceil(float64(this)))} })
	case "floor":
		return intArity0(name, args, func() Result { return Ok{object.Float(math.Floor(float64(this)))} })
	case "round":
		return intArity0(name, args, func() Result { return Ok{object.Float(math.Round(float64(this)))} })
	case "trunc":
		return intArity0(name, args, func() Result { return Ok{object.Float(math.Trunc(float64(this)))} })
	case "fract":
		return intArity0(name, args, func() Result {
			_, frac := math.Modf(float64(this))
			return Ok{object.Float(frac)}
		})
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
	case "min", "max":
		check, errRes := checkArity(1, args)
		if errRes != nil {
			return errRes
		}
		other, errRes := asFloat(0, check.args)
		if errRes != nil {
			return errRes
		}
		if name == "max" {
			return Ok{object.Float(math.Max(float64(this), other))}
		}
		return Ok{object.Float(math.Min(float64(this), other))}
	case "clamp":
		check, errRes := checkArity(2, args)
		if errRes != nil {
			return errRes
		}
		min, errRes := asFloat(0, check.args)
		if errRes != nil {
			return errRes
		}
		max, errRes := asFloat(1, check.args)
		if errRes != nil {
			return errRes
		}
		v := float64(this)
		if v < min {
			v = min
		}
		if v > max {
			v = max
		}
		return Ok{object.Float(v)}
	default:
		return NotFound{ReceiverType: "float"}
	}
}
