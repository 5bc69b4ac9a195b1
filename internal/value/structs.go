package value

import (
	"fmt"
	"strings"

	berrors "github.com/cwbudde/blueprint/internal/errors"
)

// StructField is one declared field of a struct type: name, type
// annotation, and optional default expression result.
type StructField struct {
	Name    string
	Type    Annotation
	Default Value // nil if required
}

// StructType is a nominal record schema produced by evaluating a
// `struct Name(fields…)` declaration (spec §3.4).
type StructType struct {
	Name   string
	Fields []StructField
}

func (t *StructType) Kind() Kind      { return KindStructType }
func (t *StructType) Display() string { return fmt.Sprintf("<type %s>", t.Name) }
func (t *StructType) Repr() string    { return t.Display() }

// Instantiate binds positional args followed by keyword args onto the
// declared field order, falling back to defaults, and type-checks each
// provided value (spec §3.4).
func (t *StructType) Instantiate(args []Value, kwargs map[string]Value) (*StructInstance, error) {
	fields := NewDict()
	posIdx := 0

	for _, f := range t.Fields {
		var v Value
		if kv, ok := kwargs[f.Name]; ok {
			v = kv
		} else if posIdx < len(args) {
			v = args[posIdx]
			posIdx++
		} else if f.Default != nil {
			v = f.Default
		} else {
			return nil, berrors.NewArgumentError("%s() missing required argument: '%s'", t.Name, f.Name)
		}

		if f.Type != nil && !f.Type.Matches(v) {
			return nil, berrors.NewTypeError(
				fmt.Sprintf("%s for field '%s' in %s()", f.Type.TypeName(), f.Name, t.Name),
				TypeName(v),
			)
		}

		fields.Set(f.Name, v)
	}

	if posIdx < len(args) {
		return nil, berrors.NewArgumentError(
			"%s() takes %d positional arguments but %d were given", t.Name, len(t.Fields), len(args))
	}

	for key := range kwargs {
		found := false
		for _, f := range t.Fields {
			if f.Name == key {
				found = true
				break
			}
		}
		if !found {
			return nil, berrors.NewArgumentError("%s() got unexpected keyword argument '%s'", t.Name, key)
		}
	}

	return &StructInstance{Type: t, Fields: fields}, nil
}

// StructInstance is a StructType plus field values; immutable after
// construction (spec §3.4 — attribute assignment is rejected statically
// by the checker, not enforced here).
type StructInstance struct {
	Type   *StructType
	Fields *Dict
}

func (s *StructInstance) Kind() Kind { return KindStructInstance }

func (s *StructInstance) Display() string {
	parts := make([]string, 0, len(s.Type.Fields))
	for _, f := range s.Type.Fields {
		v, _ := s.Fields.Get(f.Name)
		val := "?"
		if v != nil {
			val = v.Repr()
		}
		parts = append(parts, fmt.Sprintf("%s=%s", f.Name, val))
	}
	return fmt.Sprintf("%s(%s)", s.Type.Name, strings.Join(parts, ", "))
}

func (s *StructInstance) Repr() string { return s.Display() }

// GetField reads a declared field by name.
func (s *StructInstance) GetField(name string) (Value, bool) {
	return s.Fields.Get(name)
}

// GetAttr is an alias for GetField so struct instances satisfy the same
// attribute-resolution interface as the opaque record values (HTTPResponse,
// ProcessResult, Iterator).
func (s *StructInstance) GetAttr(name string) (Value, bool) {
	return s.GetField(name)
}
