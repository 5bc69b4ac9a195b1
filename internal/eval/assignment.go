package eval

import (
	"context"

	"github.com/cwbudde/blueprint/internal/ast"
	berrors "github.com/cwbudde/blueprint/internal/errors"
	"github.com/cwbudde/blueprint/internal/scope"
	"github.com/cwbudde/blueprint/internal/value"
)

// AssignTarget binds v onto target: a plain identifier, a tuple-unpacking
// pattern, or an indexed (list/dict) slot. Attribute assignment is not
// supported, matching the reference evaluator's restriction.
func (e *Evaluator) AssignTarget(ctx context.Context, target ast.Expression, v value.Value, sc *scope.Scope) error {
	switch t := target.(type) {
	case *ast.Identifier:
		sc.Set(t.Name, v)
		return nil

	case *ast.TupleExpr:
		return e.assignTuple(ctx, t.Items, v, sc)

	case *ast.ListExpr:
		return e.assignTuple(ctx, t.Items, v, sc)

	case *ast.Index:
		targetVal, err := e.EvalExpr(ctx, t.Target, sc)
		if err != nil {
			return err
		}
		idxVal, err := e.EvalExpr(ctx, t.Index, sc)
		if err != nil {
			return err
		}
		return assignIndex(targetVal, idxVal, v)

	case *ast.Dot:
		return berrors.NewUnsupported("attribute assignment to .%s is not supported", t.Attr)

	default:
		return berrors.NewUnsupported("unsupported assignment target")
	}
}

func (e *Evaluator) assignTuple(ctx context.Context, targets []ast.Expression, v value.Value, sc *scope.Scope) error {
	values, err := GetIterable(v)
	if err != nil {
		return err
	}
	if len(values) != len(targets) {
		return berrors.NewValueError("cannot unpack %d values into %d targets", len(values), len(targets))
	}
	for i, t := range targets {
		if err := e.AssignTarget(ctx, t, values[i], sc); err != nil {
			return err
		}
	}
	return nil
}

func assignIndex(target, index, v value.Value) error {
	switch t := target.(type) {
	case *value.List:
		idx, err := value.AsInt(index)
		if err != nil {
			return err
		}
		length := int64(t.Len())
		actual := normalizeIdx(idx, length)
		if actual < 0 || actual >= length {
			return berrors.NewIndexError("list index %d out of range", idx)
		}
		t.SetAt(int(actual), v)
		return nil
	case *value.Dict:
		key, err := valueToDictKey(index)
		if err != nil {
			return err
		}
		t.Set(key, v)
		return nil
	default:
		return berrors.NewTypeError("list or dict", value.TypeName(target))
	}
}

// EvalAssignTargetValue reads the current value of an assignment target,
// used by compound assignment (`x += 1`) before applying the operator.
func (e *Evaluator) EvalAssignTargetValue(ctx context.Context, target ast.Expression, sc *scope.Scope) (value.Value, error) {
	switch t := target.(type) {
	case *ast.Identifier:
		v, ok := sc.Get(t.Name)
		if !ok {
			return nil, berrors.NewNameError(t.Name)
		}
		return v, nil

	case *ast.Index:
		targetVal, err := e.EvalExpr(ctx, t.Target, sc)
		if err != nil {
			return nil, err
		}
		idxVal, err := e.EvalExpr(ctx, t.Index, sc)
		if err != nil {
			return nil, err
		}
		return evalIndex(targetVal, idxVal)

	case *ast.Dot:
		targetVal, err := e.EvalExpr(ctx, t.Target, sc)
		if err != nil {
			return nil, err
		}
		if v, ok := getAttr(targetVal, t.Attr); ok {
			return v, nil
		}
		return nil, berrors.NewAttributeError(value.TypeName(targetVal), t.Attr)

	default:
		return nil, berrors.NewUnsupported("unsupported augmented-assignment target")
	}
}

// GetIterable materializes any iterable Value into a plain slice. Used by
// for-loops over non-streaming containers, tuple unpacking, and the
// spread (*args) call-argument form.
func GetIterable(v value.Value) ([]value.Value, error) {
	switch vv := v.(type) {
	case *value.List:
		return vv.Snapshot(), nil
	case *value.Tuple:
		return append([]value.Value{}, vv.Items()...), nil
	case *value.String:
		runes := []rune(vv.Go())
		out := make([]value.Value, len(runes))
		for i, r := range runes {
			out[i] = value.NewString(string(r))
		}
		return out, nil
	case *value.Dict:
		keys := vv.Keys()
		out := make([]value.Value, len(keys))
		for i, k := range keys {
			out[i] = value.NewString(k)
		}
		return out, nil
	case *value.Set:
		return vv.Snapshot(), nil
	default:
		return nil, berrors.NewTypeError("iterable", value.TypeName(v))
	}
}
