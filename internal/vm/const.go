package vm

import (
	"github.com/ryota2357/lico-sub000/internal/icode"
	"github.com/ryota2357/lico-sub000/internal/object"
)

// instantiateConst builds a fresh heap object from a compile-time
// Const template, used by LoadArrayObject/LoadTableObject. A fresh
// object is built on every execution (never shared/cached) so that
// mutating one evaluation's literal never affects another's, matching
// plain MakeArray/MakeTable's per-evaluation semantics.
func instantiateConst(c icode.Const) object.Object {
	switch v := c.(type) {
	case icode.ConstNil:
		return object.Nil{}
	case icode.ConstBool:
		return object.Bool(v.Val)
	case icode.ConstInt:
		return object.Int(v.Val)
	case icode.ConstFloat:
		return object.Float(v.Val)
	case icode.ConstString:
		return object.NewString(v.Val)
	case icode.ConstArray:
		elems := make([]object.Object, len(v.Elements))
		for i, e := range v.Elements {
			elems[i] = instantiateConst(e)
		}
		return object.NewArray(elems)
	case icode.ConstTable:
		tbl := object.NewTable()
		for _, f := range v.Fields {
			key, ok := f.Key.(icode.ConstString)
			if !ok {
				panic("vm: non-string constant table key reached instantiateConst")
			}
			tbl.Insert(key.Val, instantiateConst(f.Value))
		}
		return tbl
	default:
		panic("vm: unhandled icode.Const variant")
	}
}
