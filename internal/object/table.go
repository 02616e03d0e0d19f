package object

import "strings"

// Method is a callable installed via SetMethod — either a closure
// compiled from the Language's own source (Custom) or one implemented
// in Go (Native), mirroring TableMethod::Native/Custom.
type Method interface {
	isMethod()
}

type CustomMethod struct{ Func *Function }
type NativeMethod struct{ Func *NativeFunction }

func (CustomMethod) isMethod() {}
func (NativeMethod) isMethod() {}

// Table is the Language's single compound/record type: a string-keyed
// field map plus a separate method namespace SetMethod installs into,
// kept apart from fields because dunder methods ("__add", "__call", ...)
// must never collide with a same-named field and must never appear in
// a plain GetItem/SetItem on the table.
type Table struct {
	gcHeader
	fields  map[string]Object
	methods map[string]Method
}

func NewTable() *Table {
	return &Table{fields: make(map[string]Object)}
}

func (*Table) isObject()        {}
func (*Table) TypeName() string { return "table" }

func (t *Table) String() string {
	parts := make([]string, 0, len(t.fields))
	for k, v := range t.fields {
		parts = append(parts, k+" = "+v.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (t *Table) Get(key string) (Object, bool) {
	v, ok := t.fields[key]
	return v, ok
}

func (t *Table) Insert(key string, v Object) {
	t.fields[key] = v
}

func (t *Table) GetMethod(name string) (Method, bool) {
	m, ok := t.methods[name]
	return m, ok
}

func (t *Table) SetMethod(name string, m Method) {
	if t.methods == nil {
		t.methods = make(map[string]Method)
	}
	t.methods[name] = m
}

func (t *Table) Children() []Traceable {
	var out []Traceable
	for _, v := range t.fields {
		if tr, ok := v.(Traceable); ok {
			out = append(out, tr)
		}
	}
	for _, m := range t.methods {
		if cm, ok := m.(CustomMethod); ok {
			out = append(out, cm.Func)
		}
	}
	return out
}

func (t *Table) clearChildren() {
	t.fields = nil
	t.methods = nil
}
