package eval

import (
	"context"

	"github.com/cwbudde/blueprint/internal/ast"
	berrors "github.com/cwbudde/blueprint/internal/errors"
	"github.com/cwbudde/blueprint/internal/scope"
	"github.com/cwbudde/blueprint/internal/value"
)

func (e *Evaluator) evalMatch(ctx context.Context, m *ast.Match, sc *scope.Scope) (value.Value, error) {
	subject, err := e.EvalExpr(ctx, m.Subject, sc)
	if err != nil {
		return nil, err
	}

	for _, c := range m.Cases {
		patternScope := scope.NewChild(sc, scope.Block)

		matched, err := e.matchPattern(ctx, c.Pattern, subject, patternScope)
		if err != nil {
			return nil, err
		}
		if !matched {
			continue
		}

		if c.Guard != nil {
			guardVal, err := e.EvalExpr(ctx, c.Guard, patternScope)
			if err != nil {
				return nil, err
			}
			if !value.Truthy(guardVal) {
				continue
			}
		}

		for name, v := range patternScope.Exports() {
			sc.Define(name, v)
		}

		return e.EvalStmt(ctx, c.Body, sc)
	}

	return value.None, nil
}

// matchPattern reports whether pattern structurally matches subject,
// binding any identifier sub-patterns into scope as it recurses (spec
// §4.8's destructuring match statement, ported from the reference
// evaluator's match_pattern).
func (e *Evaluator) matchPattern(ctx context.Context, pattern ast.Expression, subject value.Value, sc *scope.Scope) (bool, error) {
	switch p := pattern.(type) {
	case *ast.Identifier:
		switch p.Name {
		case "_":
			return true, nil
		case "None":
			return subject.Kind() == value.KindNone, nil
		case "True":
			b, ok := subject.(value.Bool)
			return ok && bool(b), nil
		case "False":
			b, ok := subject.(value.Bool)
			return ok && !bool(b), nil
		default:
			sc.Define(p.Name, subject)
			return true, nil
		}

	case *ast.Literal:
		return value.Equal(literalValue(p.Val), subject), nil

	case *ast.Minus:
		lit, ok := p.Expr.(*ast.Literal)
		if !ok {
			return false, berrors.NewValueError("invalid negated literal pattern")
		}
		neg, err := evalUnaryMinus(literalValue(lit.Val))
		if err != nil {
			return false, err
		}
		return value.Equal(neg, subject), nil

	case *ast.ListExpr:
		l, ok := subject.(*value.List)
		if !ok {
			return false, nil
		}
		items := l.Snapshot()
		if len(items) != len(p.Items) {
			return false, nil
		}
		for i, sub := range p.Items {
			ok, err := e.matchPattern(ctx, sub, items[i], sc)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil

	case *ast.TupleExpr:
		t, ok := subject.(*value.Tuple)
		if !ok {
			return false, nil
		}
		items := t.Items()
		if len(items) != len(p.Items) {
			return false, nil
		}
		for i, sub := range p.Items {
			ok, err := e.matchPattern(ctx, sub, items[i], sc)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil

	case *ast.DictExpr:
		d, ok := subject.(*value.Dict)
		if !ok {
			return false, nil
		}
		for _, entry := range p.Entries {
			keyVal, err := e.EvalExpr(ctx, entry.Key, sc)
			if err != nil {
				return false, err
			}
			key, err := valueToDictKey(keyVal)
			if err != nil {
				return false, err
			}
			v, found := d.Get(key)
			if !found {
				return false, nil
			}
			ok, err := e.matchPattern(ctx, entry.Value, v, sc)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil

	case *ast.Op:
		if p.Operator == "|" {
			ok, err := e.matchPattern(ctx, p.Left, subject, sc)
			if err != nil || ok {
				return ok, err
			}
			return e.matchPattern(ctx, p.Right, subject, sc)
		}
		return false, berrors.NewValueError("unsupported pattern operator %q", p.Operator)

	case *ast.Call:
		return e.matchCallPattern(ctx, p, subject, sc)

	default:
		return false, berrors.NewValueError("unsupported pattern type")
	}
}

var typeConstraintPatterns = map[string]value.Kind{
	"str": value.KindString, "int": value.KindInt, "float": value.KindFloat,
	"bool": value.KindBool, "list": value.KindList, "tuple": value.KindTuple,
	"dict": value.KindDict, "set": value.KindSet,
}

func (e *Evaluator) matchCallPattern(ctx context.Context, call *ast.Call, subject value.Value, sc *scope.Scope) (bool, error) {
	ident, ok := call.Fn.(*ast.Identifier)
	if !ok {
		return false, berrors.NewValueError("pattern must use a simple name")
	}
	name := ident.Name

	if wantKind, isTypeConstraint := typeConstraintPatterns[name]; isTypeConstraint {
		if subject.Kind() != wantKind {
			return false, nil
		}
		if len(call.Args) == 0 {
			return true, nil
		}
		if len(call.Args) != 1 || call.Args[0].Name != "" {
			return false, berrors.NewValueError("type constraint pattern %s expects 0 or 1 positional argument", name)
		}
		return e.matchPattern(ctx, call.Args[0].Value, subject, sc)
	}

	inst, ok := subject.(*value.StructInstance)
	if !ok || inst.Type.Name != name {
		return false, nil
	}

	posIdx := 0
	for _, arg := range call.Args {
		var fieldName string
		if arg.Name != "" {
			fieldName = arg.Name
		} else {
			if posIdx >= len(inst.Type.Fields) {
				return false, berrors.NewValueError("too many positional patterns in struct match")
			}
			fieldName = inst.Type.Fields[posIdx].Name
			posIdx++
		}
		fieldVal, found := inst.GetField(fieldName)
		if !found {
			return false, nil
		}
		ok, err := e.matchPattern(ctx, arg.Value, fieldVal, sc)
		if err != nil || !ok {
			return false, err
		}
	}

	return true, nil
}
