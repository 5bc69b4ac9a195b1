package eval

import (
	"context"

	"github.com/cwbudde/blueprint/internal/ast"
	"github.com/cwbudde/blueprint/internal/scope"
	"github.com/cwbudde/blueprint/internal/value"
)

func (e *Evaluator) evalListComprehension(ctx context.Context, c *ast.ListComprehension, sc *scope.Scope) (value.Value, error) {
	var results []value.Value
	if err := e.runCompClauses(ctx, c.Clauses, sc, func(iterScope *scope.Scope) error {
		v, err := e.EvalExpr(ctx, c.Elt, iterScope)
		if err != nil {
			return err
		}
		results = append(results, v)
		return nil
	}); err != nil {
		return nil, err
	}
	return value.NewList(results), nil
}

func (e *Evaluator) evalSetComprehension(ctx context.Context, c *ast.SetComprehension, sc *scope.Scope) (value.Value, error) {
	s := value.NewSet()
	if err := e.runCompClauses(ctx, c.Clauses, sc, func(iterScope *scope.Scope) error {
		v, err := e.EvalExpr(ctx, c.Elt, iterScope)
		if err != nil {
			return err
		}
		s.Add(v)
		return nil
	}); err != nil {
		return nil, err
	}
	return s, nil
}

func (e *Evaluator) evalDictComprehension(ctx context.Context, c *ast.DictComprehension, sc *scope.Scope) (value.Value, error) {
	d := value.NewDict()
	if err := e.runCompClauses(ctx, c.Clauses, sc, func(iterScope *scope.Scope) error {
		k, err := e.EvalExpr(ctx, c.Key, iterScope)
		if err != nil {
			return err
		}
		v, err := e.EvalExpr(ctx, c.Value, iterScope)
		if err != nil {
			return err
		}
		key, err := valueToDictKey(k)
		if err != nil {
			return err
		}
		d.Set(key, v)
		return nil
	}); err != nil {
		return nil, err
	}
	return d, nil
}

// runCompClauses recursively walks a comprehension's `for ... if ...`
// clause chain, invoking body once per surviving combination of bound
// variables (spec §4.1's comprehension scoping: each clause introduces a
// fresh Block scope nested in the previous one).
func (e *Evaluator) runCompClauses(ctx context.Context, clauses []ast.CompClause, sc *scope.Scope, body func(*scope.Scope) error) error {
	if len(clauses) == 0 {
		return body(sc)
	}

	clause := clauses[0]
	iterable, err := e.EvalExpr(ctx, clause.Over, sc)
	if err != nil {
		return err
	}
	items, err := GetIterable(iterable)
	if err != nil {
		return err
	}

	for _, item := range items {
		iterScope := scope.NewChild(sc, scope.Block)
		iterScope.Define(clause.Var, item)

		ok := true
		for _, ifExpr := range clause.Ifs {
			cond, err := e.EvalExpr(ctx, ifExpr, iterScope)
			if err != nil {
				return err
			}
			if !value.Truthy(cond) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		if err := e.runCompClauses(ctx, clauses[1:], iterScope, body); err != nil {
			return err
		}
	}

	return nil
}
