package value

import "strings"

// Annotation is a type annotation (spec §4.7): Any, a simple name, a
// parameterized name ("list[int]"), or an Optional wrapper produced by the
// `X | None` parse form.
type Annotation interface {
	Matches(v Value) bool
	TypeName() string
}

// Any matches every value.
type Any struct{}

func (Any) Matches(Value) bool { return true }
func (Any) TypeName() string   { return "any" }

// Simple matches a built-in shape by name, or a struct instance whose
// struct type name equals Name for anything else.
type Simple struct{ Name string }

func (s Simple) Matches(v Value) bool {
	switch s.Name {
	case "int":
		return v.Kind() == KindInt
	case "float":
		return v.Kind() == KindFloat || v.Kind() == KindInt
	case "str":
		return v.Kind() == KindString
	case "bool":
		return v.Kind() == KindBool
	case "list":
		return v.Kind() == KindList
	case "dict":
		return v.Kind() == KindDict
	case "tuple":
		return v.Kind() == KindTuple
	case "None", "NoneType":
		return v.Kind() == KindNone
	default:
		inst, ok := v.(*StructInstance)
		return ok && inst.Type.Name == s.Name
	}
}

func (s Simple) TypeName() string { return s.Name }

// Parameterized matches only on the outer shape; type parameters are
// advisory and not enforced at runtime (spec §4.7).
type Parameterized struct {
	Name   string
	Params []Annotation
}

func (p Parameterized) Matches(v Value) bool {
	switch p.Name {
	case "list":
		return v.Kind() == KindList
	case "dict":
		return v.Kind() == KindDict
	default:
		return false
	}
}

func (p Parameterized) TypeName() string {
	names := make([]string, len(p.Params))
	for i, pp := range p.Params {
		names[i] = pp.TypeName()
	}
	return p.Name + "[" + strings.Join(names, ", ") + "]"
}

// Optional matches None or its Inner annotation (the `X | None` form).
type Optional struct{ Inner Annotation }

func (o Optional) Matches(v Value) bool {
	return v.Kind() == KindNone || o.Inner.Matches(v)
}

func (o Optional) TypeName() string { return o.Inner.TypeName() + "?" }
