package icode

import "fmt"

func (i LoadNilObject) String() string    { return "load_nil" }
func (i LoadBoolObject) String() string   { return fmt.Sprintf("load_bool       %v", i.Val) }
func (i LoadIntObject) String() string    { return fmt.Sprintf("load_int        %d", i.Val) }
func (i LoadFloatObject) String() string  { return fmt.Sprintf("load_float      %g", i.Val) }
func (i LoadStringObject) String() string { return fmt.Sprintf("load_string     %q", i.Val) }
func (i LoadArrayObject) String() string  { return "load_array_const" }
func (i LoadTableObject) String() string  { return "load_table_const" }
func (i MakeArray) String() string        { return fmt.Sprintf("make_array      %d", i.N) }
func (i MakeTable) String() string        { return fmt.Sprintf("make_table      %d", i.N) }
func (i LoadLocal) String() string        { return fmt.Sprintf("load_local      %d", i.ID) }
func (i StoreLocal) String() string       { return fmt.Sprintf("store_local     %d", i.ID) }
func (i StoreNewLocal) String() string    { return "store_new_local" }
func (i DropLocal) String() string        { return fmt.Sprintf("drop_local      %d", i.N) }
func (i GetItem) String() string          { return "get_item" }
func (i SetItem) String() string          { return "set_item" }
func (i SetMethod) String() string        { return fmt.Sprintf("set_method      %s", i.Name) }
func (i GetIter) String() string          { return "get_iter" }
func (i IterMoveNext) String() string     { return "iter_move_next" }
func (i IterCurrent) String() string      { return "iter_current" }
func (i Jump) String() string             { return fmt.Sprintf("jump            %+d", i.Offset) }
func (i JumpIfTrue) String() string       { return fmt.Sprintf("jump_if_true    %+d", i.Offset) }
func (i JumpIfFalse) String() string      { return fmt.Sprintf("jump_if_false   %+d", i.Offset) }
func (i Unp) String() string              { return "unp" }
func (i Unm) String() string              { return "unm" }
func (i Not) String() string              { return "not" }
func (i BitNot) String() string           { return "bit_not" }
func (i Add) String() string              { return "add" }
func (i Sub) String() string              { return "sub" }
func (i Mul) String() string              { return "mul" }
func (i Div) String() string              { return "div" }
func (i Mod) String() string              { return "mod" }
func (i ShiftL) String() string           { return "shl" }
func (i ShiftR) String() string           { return "shr" }
func (i Concat) String() string           { return "concat" }
func (i Eq) String() string               { return "eq" }
func (i NotEq) String() string            { return "ne" }
func (i Less) String() string             { return "lt" }
func (i LessEq) String() string           { return "le" }
func (i Greater) String() string          { return "gt" }
func (i GreaterEq) String() string        { return "ge" }
func (i BitAnd) String() string           { return "bit_and" }
func (i BitOr) String() string            { return "bit_or" }
func (i BitXor) String() string           { return "bit_xor" }
func (i Call) String() string             { return fmt.Sprintf("call            %d", i.Argc) }
func (i CallMethod) String() string {
	return fmt.Sprintf("call_method     %s/%d", i.Name, i.Argc)
}
func (i Unload) String() string           { return "unload" }
func (i Leave) String() string            { return "leave" }
func (i Placeholder) String() string      { return "<placeholder>" }
func (i BeginFuncSection) String() string { return "begin_func" }
func (i FuncSetProperty) String() string {
	return fmt.Sprintf("func_set_prop   params=%d start=%d", i.ParamCount, i.FuncID)
}
func (i FuncAddCapture) String() string   { return fmt.Sprintf("func_add_cap    %d", i.LocalID) }
func (i EndFuncSection) String() string   { return "end_func" }
