package eval

import (
	"context"
	"strings"

	"github.com/cwbudde/blueprint/internal/ast"
	berrors "github.com/cwbudde/blueprint/internal/errors"
	"github.com/cwbudde/blueprint/internal/scope"
	"github.com/cwbudde/blueprint/internal/value"
)

// EvalExpr evaluates expr against sc and returns its Value.
func (e *Evaluator) EvalExpr(ctx context.Context, expr ast.Expression, sc *scope.Scope) (value.Value, error) {
	switch ex := expr.(type) {
	case *ast.Literal:
		return literalValue(ex.Val), nil

	case *ast.Identifier:
		switch ex.Name {
		case "True":
			return value.Bool(true), nil
		case "False":
			return value.Bool(false), nil
		case "None":
			return value.None, nil
		}
		if v, ok := sc.Get(ex.Name); ok {
			return v, nil
		}
		if fn, ok := e.Builtins[ex.Name]; ok {
			return fn, nil
		}
		if mod, ok := e.CustomModules[ex.Name]; ok {
			return mod, nil
		}
		return nil, berrors.NewNameError(ex.Name)

	case *ast.TupleExpr:
		items, err := e.evalExprList(ctx, ex.Items, sc)
		if err != nil {
			return nil, err
		}
		return value.NewTuple(items), nil

	case *ast.ListExpr:
		items, err := e.evalExprList(ctx, ex.Items, sc)
		if err != nil {
			return nil, err
		}
		return value.NewList(items), nil

	case *ast.DictExpr:
		d := value.NewDict()
		for _, entry := range ex.Entries {
			k, err := e.EvalExpr(ctx, entry.Key, sc)
			if err != nil {
				return nil, err
			}
			v, err := e.EvalExpr(ctx, entry.Value, sc)
			if err != nil {
				return nil, err
			}
			key, err := valueToDictKey(k)
			if err != nil {
				return nil, err
			}
			d.Set(key, v)
		}
		return d, nil

	case *ast.SetExpr:
		s := value.NewSet()
		for _, it := range ex.Items {
			v, err := e.EvalExpr(ctx, it, sc)
			if err != nil {
				return nil, err
			}
			s.Add(v)
		}
		return s, nil

	case *ast.Call:
		fn, err := e.EvalExpr(ctx, ex.Fn, sc)
		if err != nil {
			return nil, err
		}
		args, kwargs, err := e.evalCallArgs(ctx, ex.Args, sc)
		if err != nil {
			return nil, err
		}
		return e.CallFunction(ctx, fn, args, kwargs, sc)

	case *ast.Index:
		target, err := e.EvalExpr(ctx, ex.Target, sc)
		if err != nil {
			return nil, err
		}
		idx, err := e.EvalExpr(ctx, ex.Index, sc)
		if err != nil {
			return nil, err
		}
		return evalIndex(target, idx)

	case *ast.Index2:
		target, err := e.EvalExpr(ctx, ex.Target, sc)
		if err != nil {
			return nil, err
		}
		start, err := e.EvalExpr(ctx, ex.Start, sc)
		if err != nil {
			return nil, err
		}
		end, err := e.EvalExpr(ctx, ex.End, sc)
		if err != nil {
			return nil, err
		}
		return evalSlice(target, start, end)

	case *ast.Slice:
		target, err := e.EvalExpr(ctx, ex.Target, sc)
		if err != nil {
			return nil, err
		}
		var low, high, step value.Value
		if ex.Low != nil {
			if low, err = e.EvalExpr(ctx, ex.Low, sc); err != nil {
				return nil, err
			}
		}
		if ex.High != nil {
			if high, err = e.EvalExpr(ctx, ex.High, sc); err != nil {
				return nil, err
			}
		}
		if ex.Step != nil {
			if step, err = e.EvalExpr(ctx, ex.Step, sc); err != nil {
				return nil, err
			}
		}
		return evalSliceWithStep(target, low, high, step)

	case *ast.Dot:
		target, err := e.EvalExpr(ctx, ex.Target, sc)
		if err != nil {
			return nil, err
		}
		if d, ok := target.(*value.Dict); ok {
			if v, ok := d.Get(ex.Attr); ok {
				return v, nil
			}
		}
		if v, ok := getAttr(target, ex.Attr); ok {
			return v, nil
		}
		return nil, berrors.NewAttributeError(value.TypeName(target), ex.Attr)

	case *ast.Not:
		v, err := e.EvalExpr(ctx, ex.Expr, sc)
		if err != nil {
			return nil, err
		}
		return value.Bool(!value.Truthy(v)), nil

	case *ast.Minus:
		v, err := e.EvalExpr(ctx, ex.Expr, sc)
		if err != nil {
			return nil, err
		}
		return evalUnaryMinus(v)

	case *ast.Plus:
		v, err := e.EvalExpr(ctx, ex.Expr, sc)
		if err != nil {
			return nil, err
		}
		switch v.(type) {
		case value.Int, value.Float:
			return v, nil
		default:
			return nil, berrors.NewTypeError("number", value.TypeName(v))
		}

	case *ast.Op:
		return e.evalOpExpr(ctx, ex, sc)

	case *ast.If:
		cond, err := e.EvalExpr(ctx, ex.Cond, sc)
		if err != nil {
			return nil, err
		}
		if value.Truthy(cond) {
			return e.EvalExpr(ctx, ex.Then, sc)
		}
		return e.EvalExpr(ctx, ex.Else, sc)

	case *ast.Lambda:
		return e.createLambda(ctx, ex, sc)

	case *ast.ListComprehension:
		return e.evalListComprehension(ctx, ex, sc)

	case *ast.SetComprehension:
		return e.evalSetComprehension(ctx, ex, sc)

	case *ast.DictComprehension:
		return e.evalDictComprehension(ctx, ex, sc)

	case *ast.FString:
		return e.evalFString(ctx, ex, sc)

	default:
		return nil, internalErrf("unhandled expression type %T", expr)
	}
}

func (e *Evaluator) evalOpExpr(ctx context.Context, ex *ast.Op, sc *scope.Scope) (value.Value, error) {
	left, err := e.EvalExpr(ctx, ex.Left, sc)
	if err != nil {
		return nil, err
	}

	switch ex.Operator {
	case "and":
		if !value.Truthy(left) {
			return left, nil
		}
		return e.EvalExpr(ctx, ex.Right, sc)
	case "or":
		if value.Truthy(left) {
			return left, nil
		}
		return e.EvalExpr(ctx, ex.Right, sc)
	case "in":
		right, err := e.EvalExpr(ctx, ex.Right, sc)
		if err != nil {
			return nil, err
		}
		return evalIn(left, right)
	case "not in":
		right, err := e.EvalExpr(ctx, ex.Right, sc)
		if err != nil {
			return nil, err
		}
		v, err := evalIn(left, right)
		if err != nil {
			return nil, err
		}
		return value.Bool(!bool(v.(value.Bool))), nil
	}

	right, err := e.EvalExpr(ctx, ex.Right, sc)
	if err != nil {
		return nil, err
	}
	return evalBinaryOp(ex.Operator, left, right)
}

func (e *Evaluator) evalExprList(ctx context.Context, exprs []ast.Expression, sc *scope.Scope) ([]value.Value, error) {
	out := make([]value.Value, len(exprs))
	for i, x := range exprs {
		v, err := e.EvalExpr(ctx, x, sc)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *Evaluator) evalCallArgs(ctx context.Context, args []ast.Arg, sc *scope.Scope) ([]value.Value, map[string]value.Value, error) {
	positional := make([]value.Value, 0, len(args))
	kwargs := make(map[string]value.Value)

	for _, a := range args {
		v, err := e.EvalExpr(ctx, a.Value, sc)
		if err != nil {
			return nil, nil, err
		}
		switch {
		case a.Spread && a.Name == "":
			items, err := GetIterable(v)
			if err != nil {
				return nil, nil, err
			}
			positional = append(positional, items...)
		case a.Spread:
			d, ok := v.(*value.Dict)
			if !ok {
				return nil, nil, berrors.NewTypeError("dict", value.TypeName(v))
			}
			for _, entry := range d.Items() {
				kwargs[entry.Key] = entry.Value
			}
		case a.Name != "":
			kwargs[a.Name] = v
		default:
			positional = append(positional, v)
		}
	}

	return positional, kwargs, nil
}

func literalValue(v any) value.Value {
	switch vv := v.(type) {
	case nil:
		return value.None
	case bool:
		return value.Bool(vv)
	case int64:
		return value.Int(vv)
	case int:
		return value.Int(vv)
	case float64:
		return value.Float(vv)
	case string:
		return value.NewString(vv)
	default:
		return value.None
	}
}

func (e *Evaluator) evalFString(ctx context.Context, fs *ast.FString, sc *scope.Scope) (value.Value, error) {
	var sb strings.Builder
	for _, part := range fs.Parts {
		if part.Expr == nil {
			sb.WriteString(part.Text)
			continue
		}
		v, err := e.EvalExpr(ctx, part.Expr, sc)
		if err != nil {
			return nil, err
		}
		sb.WriteString(v.Display())
	}
	return value.NewString(sb.String()), nil
}

// getAttr resolves an attribute off any value kind that exposes one:
// record-like handles, struct instances, and the bound methods of
// String/List/Dict/Set. EvalExpr's Dot case tries a Dict's own keys first.
func getAttr(v value.Value, name string) (value.Value, bool) {
	type attrGetter interface {
		GetAttr(string) (value.Value, bool)
	}
	if ag, ok := v.(attrGetter); ok {
		return ag.GetAttr(name)
	}
	return nil, false
}
