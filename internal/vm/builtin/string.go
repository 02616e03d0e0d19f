package builtin

import "github.com/ryota2357/lico-sub000/internal/object"

// RunString dispatches a CallMethod whose receiver is a String,
// authored by analogy to RunInt's dispatch shape; `bytes`/`chars`
// exercise UString's ASCII/non-ASCII duality per §3.4.
func RunString(name string, this *object.String, args []object.Object) Result {
	switch name {
	case "to_string":
		return intArity0(name, args, func() Result { return Ok{this} })
	case "len":
		return intArity0(name, args, func() Result { return Ok{object.Int(this.Value.Len())} })
	case "upper":
		return intArity0(name, args, func() Result {
			return Ok{&object.String{Value: this.Value.Upper()}}
		})
	case "lower":
		return intArity0(name, args, func() Result {
			return Ok{&object.String{Value: this.Value.Lower()}}
		})
	case "trim":
		return intArity0(name, args, func() Result {
			return Ok{&object.String{Value: this.Value.Trim()}}
		})
	case "bytes":
		return intArity0(name, args, func() Result {
			raw := this.Value.Bytes()
			elems := make([]object.Object, len(raw))
			for i, b := range raw {
				elems[i] = object.Int(b)
			}
			return Ok{object.NewArray(elems)}
		})
	case "chars":
		return intArity0(name, args, func() Result {
			runes := this.Value.Chars()
			elems := make([]object.Object, len(runes))
			for i, r := range runes {
				elems[i] = object.NewString(string(r))
			}
			return Ok{object.NewArray(elems)}
		})
	case "split":
		check, errRes := checkArity(1, args)
		if errRes != nil {
			return errRes
		}
		sep, ok := check.args[0].(*object.String)
		if !ok {
			return InvalidArgType{Index: 0, Expected: "string", Got: check.args[0].TypeName()}
		}
		parts := this.Value.Split(sep.Value.AsString())
		elems := make([]object.Object, len(parts))
		for i, p := range parts {
			elems[i] = &object.String{Value: p}
		}
		return Ok{object.NewArray(elems)}
	default:
		return NotFound{ReceiverType: "string"}
	}
}
