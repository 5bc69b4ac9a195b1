package eval

import (
	"context"

	"github.com/cwbudde/blueprint/internal/ast"
	berrors "github.com/cwbudde/blueprint/internal/errors"
	"github.com/cwbudde/blueprint/internal/scope"
	"github.com/cwbudde/blueprint/internal/value"
)

// EvalStmt executes one statement node, returning the value of the last
// expression it produced (only meaningful for ExpressionStatement; every
// other statement kind yields None on success).
func (e *Evaluator) EvalStmt(ctx context.Context, stmt ast.Statement, sc *scope.Scope) (value.Value, error) {
	switch s := stmt.(type) {
	case *ast.Statements:
		var result value.Value = value.None
		for _, inner := range s.Body {
			v, err := e.EvalStmt(ctx, inner, sc)
			if err != nil {
				return nil, err
			}
			result = v
		}
		return result, nil

	case *ast.ExpressionStatement:
		return e.EvalExpr(ctx, s.Expr, sc)

	case *ast.Assign:
		v, err := e.EvalExpr(ctx, s.RHS, sc)
		if err != nil {
			return nil, err
		}
		if err := e.AssignTarget(ctx, s.LHS, v, sc); err != nil {
			return nil, err
		}
		return value.None, nil

	case *ast.AssignModify:
		current, err := e.EvalAssignTargetValue(ctx, s.LHS, sc)
		if err != nil {
			return nil, err
		}
		rhs, err := e.EvalExpr(ctx, s.RHS, sc)
		if err != nil {
			return nil, err
		}
		newVal, err := applyAssignOp(s.Op, current, rhs)
		if err != nil {
			return nil, err
		}
		if err := e.AssignTarget(ctx, s.LHS, newVal, sc); err != nil {
			return nil, err
		}
		return value.None, nil

	case *ast.If:
		cond, err := e.EvalExpr(ctx, s.Cond, sc)
		if err != nil {
			return nil, err
		}
		if value.Truthy(cond) {
			blockScope := scope.NewChild(sc, scope.Block)
			if _, err := e.EvalStmt(ctx, s.Then, blockScope); err != nil {
				return nil, err
			}
		}
		return value.None, nil

	case *ast.IfElse:
		cond, err := e.EvalExpr(ctx, s.Cond, sc)
		if err != nil {
			return nil, err
		}
		blockScope := scope.NewChild(sc, scope.Block)
		if value.Truthy(cond) {
			if _, err := e.EvalStmt(ctx, s.Then, blockScope); err != nil {
				return nil, err
			}
		} else if s.Else != nil {
			if _, err := e.EvalStmt(ctx, s.Else, blockScope); err != nil {
				return nil, err
			}
		}
		return value.None, nil

	case *ast.For:
		return value.None, e.evalFor(ctx, s, sc)

	case *ast.Break:
		return nil, berrors.NewBreak()

	case *ast.Continue:
		return nil, berrors.NewContinue()

	case *ast.Return:
		var v value.Value = value.None
		if s.Expr != nil {
			var err error
			v, err = e.EvalExpr(ctx, s.Expr, sc)
			if err != nil {
				return nil, err
			}
		}
		return nil, berrors.NewReturn(v)

	case *ast.Yield:
		return e.HandleYield(ctx, s.Expr, sc)

	case *ast.Pass:
		return value.None, nil

	case *ast.Def:
		fn, err := e.createUserFunction(ctx, s, sc)
		if err != nil {
			return nil, err
		}
		sc.Define(s.Name, fn)
		return value.None, nil

	case *ast.Load:
		return value.None, e.evalLoad(ctx, s, sc)

	case *ast.StructDecl:
		return value.None, e.evalStructDecl(ctx, s, sc)

	case *ast.Match:
		return e.evalMatch(ctx, s, sc)

	default:
		return nil, internalErrf("unhandled statement type %T", stmt)
	}
}

func (e *Evaluator) evalFor(ctx context.Context, s *ast.For, sc *scope.Scope) error {
	iterable, err := e.EvalExpr(ctx, s.Over, sc)
	if err != nil {
		return err
	}

	runBody := func(item value.Value) (stop bool, err error) {
		loopScope := scope.NewChild(sc, scope.Loop)
		loopScope.Define(s.Var, item)
		_, err = e.EvalStmt(ctx, s.Body, loopScope)
		if err == nil {
			return false, nil
		}
		if _, ok := berrors.AsSignal(err, "break"); ok {
			return true, nil
		}
		if _, ok := berrors.AsSignal(err, "continue"); ok {
			return false, nil
		}
		return false, err
	}

	switch it := iterable.(type) {
	case *value.Generator:
		for {
			v, ok := it.Next()
			if !ok {
				return nil
			}
			stop, err := runBody(v)
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
		}
	case *value.Iterator:
		for {
			v, ok := it.Next()
			if !ok {
				return nil
			}
			stop, err := runBody(v)
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
		}
	default:
		items, err := GetIterable(iterable)
		if err != nil {
			return err
		}
		for _, item := range items {
			stop, err := runBody(item)
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
		}
		return nil
	}
}
