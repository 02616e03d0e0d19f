package vm

import (
	"github.com/ryota2357/lico-sub000/internal/object"
)

// findBinaryMethod/findUnaryMethod probe a Table operand's own method
// table for a dunder name, left operand first then right, exactly as
// exec_icode.rs's util::find_binary_method/find_unary_method do.
func findBinaryMethod(name string, lhs, rhs object.Object) (object.Method, bool) {
	if t, ok := lhs.(*object.Table); ok {
		if m, ok := t.GetMethod(name); ok {
			return m, true
		}
	}
	if t, ok := rhs.(*object.Table); ok {
		if m, ok := t.GetMethod(name); ok {
			return m, true
		}
	}
	return nil, false
}

func findUnaryMethod(name string, v object.Object) (object.Method, bool) {
	if t, ok := v.(*object.Table); ok {
		if m, ok := t.GetMethod(name); ok {
			return m, true
		}
	}
	return nil, false
}

func (c execCtx) setBinaryTypeException(op string, lhs, rhs object.Object) {
	c.rt.Exceptions.pushf(*c.pc, 0,
		"Operator '%s' cannot be applied to operands type of '%s' and '%s'.",
		op, lhs.TypeName(), rhs.TypeName())
}

func (c execCtx) setUnaryTypeException(op string, v object.Object) {
	c.rt.Exceptions.pushf(*c.pc, 0,
		"Operator '%s' cannot be applied to operand type of '%s'.", op, v.TypeName())
}

// push advances pc by one and pushes result, the common tail every
// fast-path arithmetic/bitwise/comparison case shares.
func (c execCtx) push(result object.Object) status {
	c.rt.Stack.Push(result)
	*c.pc++
	return statusContinue
}

type numOp struct {
	op       string
	dunder   string
	intOp    func(a, b int64) (int64, bool) // ok=false means division-by-zero
	floatOp  func(a, b float64) float64
}

func (c execCtx) arith(o numOp, lhs, rhs object.Object) status {
	switch l := lhs.(type) {
	case object.Int:
		switch r := rhs.(type) {
		case object.Int:
			v, ok := o.intOp(int64(l), int64(r))
			if !ok {
				c.rt.Exceptions.push("Division by zero.", *c.pc, 0)
				return statusException
			}
			return c.push(object.Int(v))
		case object.Float:
			return c.push(object.Float(o.floatOp(float64(l), float64(r))))
		}
	case object.Float:
		switch r := rhs.(type) {
		case object.Int:
			return c.push(object.Float(o.floatOp(float64(l), float64(r))))
		case object.Float:
			return c.push(object.Float(o.floatOp(float64(l), float64(r))))
		}
	}
	if method, ok := findBinaryMethod(o.dunder, lhs, rhs); ok {
		return c.execMethod(method, []object.Object{lhs, rhs}, nil)
	}
	c.setBinaryTypeException(o.op, lhs, rhs)
	return statusException
}

func (c execCtx) Add(lhs, rhs object.Object) status {
	return c.arith(numOp{"+", "__add",
		func(a, b int64) (int64, bool) { return a + b, true },
		func(a, b float64) float64 { return a + b },
	}, lhs, rhs)
}

func (c execCtx) Sub(lhs, rhs object.Object) status {
	return c.arith(numOp{"-", "__sub",
		func(a, b int64) (int64, bool) { return a - b, true },
		func(a, b float64) float64 { return a - b },
	}, lhs, rhs)
}

func (c execCtx) Mul(lhs, rhs object.Object) status {
	return c.arith(numOp{"*", "__mul",
		func(a, b int64) (int64, bool) { return a * b, true },
		func(a, b float64) float64 { return a * b },
	}, lhs, rhs)
}

func (c execCtx) Div(lhs, rhs object.Object) status {
	return c.arith(numOp{"/", "__div",
		func(a, b int64) (int64, bool) {
			if b == 0 {
				return 0, false
			}
			return a / b, true
		},
		func(a, b float64) float64 { return a / b },
	}, lhs, rhs)
}

func (c execCtx) Mod(lhs, rhs object.Object) status {
	return c.arith(numOp{"%", "__mod",
		func(a, b int64) (int64, bool) {
			if b == 0 {
				return 0, false
			}
			return a % b, true
		},
		func(a, b float64) float64 {
			r := a - b*float64(int64(a/b))
			return r
		},
	}, lhs, rhs)
}

func (c execCtx) Unm(v object.Object) status {
	switch x := v.(type) {
	case object.Int:
		return c.push(object.Int(-x))
	case object.Float:
		return c.push(object.Float(-x))
	}
	if method, ok := findUnaryMethod("__unm", v); ok {
		return c.execMethod(method, []object.Object{v}, nil)
	}
	c.setUnaryTypeException("-", v)
	return statusException
}

func (c execCtx) Unp(v object.Object) status {
	switch x := v.(type) {
	case object.Int:
		return c.push(x)
	case object.Float:
		return c.push(x)
	}
	if method, ok := findUnaryMethod("__unp", v); ok {
		return c.execMethod(method, []object.Object{v}, nil)
	}
	c.setUnaryTypeException("+", v)
	return statusException
}

func (c execCtx) Not(v object.Object) status {
	if method, ok := findUnaryMethod("__not", v); ok {
		return c.execMethod(method, []object.Object{v}, nil)
	}
	return c.push(object.Bool(object.IsFalsey(v)))
}

func (c execCtx) Eq(lhs, rhs object.Object) status {
	if method, ok := findBinaryMethod("__eq", lhs, rhs); ok {
		return c.execMethod(method, []object.Object{lhs, rhs}, nil)
	}
	return c.push(object.Bool(object.Equal(lhs, rhs)))
}

func (c execCtx) NotEq(lhs, rhs object.Object) status {
	if method, ok := findBinaryMethod("__ne", lhs, rhs); ok {
		return c.execMethod(method, []object.Object{lhs, rhs}, nil)
	}
	if method, ok := findBinaryMethod("__eq", lhs, rhs); ok {
		return c.execMethod(method, []object.Object{lhs, rhs}, func(o object.Object) (object.Object, error) {
			return object.Bool(object.IsFalsey(o)), nil
		})
	}
	return c.push(object.Bool(!object.Equal(lhs, rhs)))
}

// ordering is -1/0/1/none, matching Rust's Option<Ordering>.
type ordering int

const (
	ordLess ordering = iota
	ordEqual
	ordGreater
	ordNone
)

func numOrdering(lhs, rhs object.Object) (ordering, bool) {
	toF := func(o object.Object) (float64, bool) {
		switch v := o.(type) {
		case object.Int:
			return float64(v), true
		case object.Float:
			return float64(v), true
		}
		return 0, false
	}
	a, ok1 := toF(lhs)
	b, ok2 := toF(rhs)
	if !ok1 || !ok2 {
		return ordNone, false
	}
	switch {
	case a < b:
		return ordLess, true
	case a > b:
		return ordGreater, true
	default:
		return ordEqual, true
	}
}

func (c execCtx) partialCmp(op, dunder string, lhs, rhs object.Object, accept func(ordering) bool) status {
	if o, ok := numOrdering(lhs, rhs); ok {
		return c.push(object.Bool(accept(o)))
	}
	if method, ok := findBinaryMethod("__cmp", lhs, rhs); ok {
		pc := *c.pc
		return c.execMethod(method, []object.Object{lhs, rhs}, func(o object.Object) (object.Object, error) {
			var ord ordering
			switch v := o.(type) {
			case object.Int:
				switch {
				case v < 0:
					ord = ordLess
				case v > 0:
					ord = ordGreater
				default:
					ord = ordEqual
				}
			case object.Float:
				switch {
				case v < 0:
					ord = ordLess
				case v > 0:
					ord = ordGreater
				default:
					ord = ordEqual
				}
			case object.Nil:
				ord = ordNone
			default:
				c.rt.Exceptions.pushf(pc, 0,
					"The type of result of __cmp method must be int, float or nil, but got '%s'.", v.TypeName())
				return nil, errExceptionLogged
			}
			return object.Bool(accept(ord)), nil
		})
	}
	c.setBinaryTypeException(op, lhs, rhs)
	return statusException
}

func (c execCtx) Less(lhs, rhs object.Object) status {
	return c.partialCmp("<", "__cmp", lhs, rhs, func(o ordering) bool { return o == ordLess })
}

func (c execCtx) LessEq(lhs, rhs object.Object) status {
	return c.partialCmp("<=", "__cmp", lhs, rhs, func(o ordering) bool { return o == ordLess || o == ordEqual })
}

func (c execCtx) Greater(lhs, rhs object.Object) status {
	return c.partialCmp(">", "__cmp", lhs, rhs, func(o ordering) bool { return o == ordGreater })
}

func (c execCtx) GreaterEq(lhs, rhs object.Object) status {
	return c.partialCmp(">=", "__cmp", lhs, rhs, func(o ordering) bool { return o == ordGreater || o == ordEqual })
}

func (c execCtx) Concat(lhs, rhs object.Object) status {
	ls, lIsStr := lhs.(*object.String)
	rs, rIsStr := rhs.(*object.String)
	switch {
	case lIsStr && rIsStr:
		return c.push(&object.String{Value: ls.Value.PushString(rs.Value)})
	case lIsStr:
		return c.push(&object.String{Value: ls.Value.PushString(object.NewUString(rhs.String()))})
	case rIsStr:
		return c.push(&object.String{Value: object.NewUString(lhs.String()).PushString(rs.Value)})
	}
	if method, ok := findBinaryMethod("__concat", lhs, rhs); ok {
		return c.execMethod(method, []object.Object{lhs, rhs}, nil)
	}
	return c.push(&object.String{Value: object.NewUString(lhs.String()).PushString(object.NewUString(rhs.String()))})
}

type bitOp struct {
	op     string
	dunder string
	f      func(a, b int64) int64
}

func (c execCtx) bitwise(o bitOp, lhs, rhs object.Object) status {
	if l, ok := lhs.(object.Int); ok {
		if r, ok := rhs.(object.Int); ok {
			return c.push(object.Int(o.f(int64(l), int64(r))))
		}
	}
	if method, ok := findBinaryMethod(o.dunder, lhs, rhs); ok {
		return c.execMethod(method, []object.Object{lhs, rhs}, nil)
	}
	c.setBinaryTypeException(o.op, lhs, rhs)
	return statusException
}

func (c execCtx) BitAnd(lhs, rhs object.Object) status {
	return c.bitwise(bitOp{"&", "__band", func(a, b int64) int64 { return a & b }}, lhs, rhs)
}

func (c execCtx) BitOr(lhs, rhs object.Object) status {
	return c.bitwise(bitOp{"|", "__bor", func(a, b int64) int64 { return a | b }}, lhs, rhs)
}

func (c execCtx) BitXor(lhs, rhs object.Object) status {
	return c.bitwise(bitOp{"^", "__bxor", func(a, b int64) int64 { return a ^ b }}, lhs, rhs)
}

func (c execCtx) BitNot(v object.Object) status {
	if x, ok := v.(object.Int); ok {
		return c.push(object.Int(^x))
	}
	if method, ok := findUnaryMethod("__bnot", v); ok {
		return c.execMethod(method, []object.Object{v}, nil)
	}
	c.setUnaryTypeException("~", v)
	return statusException
}

func (c execCtx) shift(op, dunder string, f func(a int64, b int64) int64, lhs, rhs object.Object) status {
	if l, ok := lhs.(object.Int); ok {
		switch r := rhs.(type) {
		case object.Int:
			return c.push(object.Int(f(int64(l), int64(r))))
		case object.Float:
			return c.push(object.Int(f(int64(l), int64(r))))
		}
	}
	if method, ok := findBinaryMethod(dunder, lhs, rhs); ok {
		return c.execMethod(method, []object.Object{lhs, rhs}, nil)
	}
	c.setBinaryTypeException(op, lhs, rhs)
	return statusException
}

func (c execCtx) ShiftL(lhs, rhs object.Object) status {
	return c.shift("<<", "__shl", func(a, b int64) int64 { return a << uint(b) }, lhs, rhs)
}

func (c execCtx) ShiftR(lhs, rhs object.Object) status {
	return c.shift(">>", "__shr", func(a, b int64) int64 { return a >> uint(b) }, lhs, rhs)
}
