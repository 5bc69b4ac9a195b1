package eval

import (
	"context"

	"github.com/cwbudde/blueprint/internal/ast"
	"github.com/cwbudde/blueprint/internal/scope"
	"github.com/cwbudde/blueprint/internal/value"
)

// evalStructDecl registers a `struct Name(fields...)` declaration as a
// callable value.StructType bound in sc (spec §3.4).
func (e *Evaluator) evalStructDecl(ctx context.Context, s *ast.StructDecl, sc *scope.Scope) error {
	fields := make([]value.StructField, len(s.Fields))
	for i, f := range s.Fields {
		var def value.Value
		if f.Default != nil {
			v, err := e.EvalExpr(ctx, f.Default, sc)
			if err != nil {
				return err
			}
			def = v
		}
		fields[i] = value.StructField{
			Name:    f.Name,
			Type:    convertTypeExpr(f.Type),
			Default: def,
		}
	}

	sc.Define(s.Name, &value.StructType{Name: s.Name, Fields: fields})
	return nil
}

// convertTypeExpr lowers a parsed type annotation into the runtime
// value.Annotation the struct instantiator checks against.
func convertTypeExpr(t ast.TypeExpr) value.Annotation {
	switch te := t.(type) {
	case nil:
		return value.Any{}
	case ast.TypeAny:
		return value.Any{}
	case ast.TypeSimple:
		return value.Simple{Name: te.Name}
	case ast.TypeParameterized:
		params := make([]value.Annotation, len(te.Params))
		for i, p := range te.Params {
			params[i] = convertTypeExpr(p)
		}
		return value.Parameterized{Name: te.Name, Params: params}
	case ast.TypeOptional:
		return value.Optional{Inner: convertTypeExpr(te.Inner)}
	default:
		return value.Any{}
	}
}
