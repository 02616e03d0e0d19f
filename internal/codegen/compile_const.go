package codegen

import (
	"github.com/ryota2357/lico-sub000/internal/diag"
	"github.com/ryota2357/lico-sub000/internal/icode"
	"github.com/ryota2357/lico-sub000/internal/ir"
)

// isConstant reports whether v can be folded into an icode.Const
// template instead of a sequence of push/Make* instructions: true for
// every literal, and for an Array/Table literal whose elements/fields
// are themselves all foldable, false the moment anything reads a
// local, calls a function, or otherwise has to run to produce a value.
func isConstant(s *ir.Strage, v ir.Value) bool {
	switch v := v.(type) {
	case ir.ValueNil, ir.ValueBool, ir.ValueInt, ir.ValueFloat, ir.ValueString:
		return true
	case ir.ValueArray:
		for _, e := range v.Elements.Get(s) {
			if !isConstant(s, e.Value) {
				return false
			}
		}
		return true
	case ir.ValueTable:
		for _, field := range v.Fields {
			if key, ok := field.Key.(ir.TableKeyNameValue); ok {
				_, keyValue, ok := key.Key.Get(s)
				if !ok || !isConstant(s, keyValue) {
					return false
				}
				// A folded table can only ever be built with string
				// keys (object.Table is string-keyed); a computed key
				// that isn't itself a string must fall back to plain
				// MakeTable so the VM raises its usual non-string-key
				// runtime exception instead of internal/vm's
				// instantiateConst panicking on it.
				if _, ok := keyValue.(ir.ValueString); !ok {
					return false
				}
			}
			_, fieldValue, ok := field.Value.Get(s)
			if !ok || !isConstant(s, fieldValue) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func toConst(s *ir.Strage, v ir.Value) icode.Const {
	switch v := v.(type) {
	case ir.ValueNil:
		return icode.ConstNil{}
	case ir.ValueBool:
		return icode.ConstBool{Val: v.Val}
	case ir.ValueInt:
		return icode.ConstInt{Val: v.Val}
	case ir.ValueFloat:
		return icode.ConstFloat{Val: v.Val}
	case ir.ValueString:
		return icode.ConstString{Val: v.Val}
	case ir.ValueArray:
		entries := v.Elements.Get(s)
		elements := make([]icode.Const, len(entries))
		for i, e := range entries {
			elements[i] = toConst(s, e.Value)
		}
		return icode.ConstArray{Elements: elements}
	case ir.ValueTable:
		fields := make([]icode.ConstTableField, len(v.Fields))
		for i, field := range v.Fields {
			var key icode.Const
			switch k := field.Key.(type) {
			case ir.TableKeyNameString:
				entry, ok := k.Key.Get(s)
				if !ok {
					diag.Bug("codegen: missing table key, this must be resolved upstream")
				}
				key = icode.ConstString{Val: entry.Text}
			case ir.TableKeyNameValue:
				_, keyValue, ok := k.Key.Get(s)
				if !ok {
					diag.Bug("codegen: missing table key, this must be resolved upstream")
				}
				key = toConst(s, keyValue)
			default:
				diag.Bug("codegen: unhandled TableKeyName variant %T", field.Key)
			}
			_, fieldValue, ok := field.Value.Get(s)
			if !ok {
				diag.Bug("codegen: missing table field value, this must be resolved upstream")
			}
			fields[i] = icode.ConstTableField{Key: key, Value: toConst(s, fieldValue)}
		}
		return icode.ConstTable{Fields: fields}
	default:
		diag.Bug("codegen: toConst called on non-constant Value %T", v)
		panic("unreachable")
	}
}

func constArray(s *ir.Strage, elements []ir.ValueEntry) (icode.ConstArray, bool) {
	for _, e := range elements {
		if !isConstant(s, e.Value) {
			return icode.ConstArray{}, false
		}
	}
	out := make([]icode.Const, len(elements))
	for i, e := range elements {
		out[i] = toConst(s, e.Value)
	}
	return icode.ConstArray{Elements: out}, true
}

func constTable(s *ir.Strage, fields []ir.TableField) (icode.ConstTable, bool) {
	for _, field := range fields {
		if key, ok := field.Key.(ir.TableKeyNameValue); ok {
			_, keyValue, ok := key.Key.Get(s)
			if !ok || !isConstant(s, keyValue) {
				return icode.ConstTable{}, false
			}
			if _, ok := keyValue.(ir.ValueString); !ok {
				return icode.ConstTable{}, false
			}
		}
		_, fieldValue, ok := field.Value.Get(s)
		if !ok || !isConstant(s, fieldValue) {
			return icode.ConstTable{}, false
		}
	}
	out := make([]icode.ConstTableField, len(fields))
	for i, field := range fields {
		var key icode.Const
		switch k := field.Key.(type) {
		case ir.TableKeyNameString:
			entry, _ := k.Key.Get(s)
			key = icode.ConstString{Val: entry.Text}
		case ir.TableKeyNameValue:
			_, keyValue, _ := k.Key.Get(s)
			key = toConst(s, keyValue)
		}
		_, fieldValue, _ := field.Value.Get(s)
		out[i] = icode.ConstTableField{Key: key, Value: toConst(s, fieldValue)}
	}
	return icode.ConstTable{Fields: out}, true
}
