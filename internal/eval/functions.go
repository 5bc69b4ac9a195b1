package eval

import (
	"context"

	"github.com/cwbudde/blueprint/internal/ast"
	berrors "github.com/cwbudde/blueprint/internal/errors"
	"github.com/cwbudde/blueprint/internal/obslog"
	"github.com/cwbudde/blueprint/internal/scope"
	"github.com/cwbudde/blueprint/internal/value"
)

// funcBody bundles a user function's statement body with the Def/Lambda
// node it came from, stored opaquely in value.UserFunction.Body /
// value.Lambda.Body to avoid value importing ast.
type funcBody struct {
	stmt ast.Statement   // Def
	expr ast.Expression  // Lambda
}

func (e *Evaluator) createUserFunction(ctx context.Context, def *ast.Def, sc *scope.Scope) (*value.UserFunction, error) {
	params, err := e.convertParams(ctx, def.Params, sc)
	if err != nil {
		return nil, err
	}
	return &value.UserFunction{
		Name:    def.Name,
		Params:  params,
		Body:    funcBody{stmt: def.Body},
		Closure: sc,
	}, nil
}

func (e *Evaluator) createLambda(ctx context.Context, l *ast.Lambda, sc *scope.Scope) (*value.Lambda, error) {
	params, err := e.convertParams(ctx, l.Params, sc)
	if err != nil {
		return nil, err
	}
	return &value.Lambda{
		Params:  params,
		Body:    funcBody{expr: l.Body},
		Closure: sc,
	}, nil
}

// convertParams evaluates each parameter's default expression eagerly
// against the definition-site scope, matching Python/Starlark's
// define-time default binding.
func (e *Evaluator) convertParams(ctx context.Context, params []ast.Param, sc *scope.Scope) ([]value.Parameter, error) {
	out := make([]value.Parameter, len(params))
	for i, p := range params {
		var kind value.ParameterKind
		switch p.Kind {
		case ast.ParamArgs:
			kind = value.ParamArgs
		case ast.ParamKwargs:
			kind = value.ParamKwargs
		default:
			kind = value.ParamPositional
		}

		var def value.Value
		if p.Default != nil {
			v, err := e.EvalExpr(ctx, p.Default, sc)
			if err != nil {
				return nil, err
			}
			def = v
		}

		out[i] = value.Parameter{Name: p.Name, Kind: kind, Default: def}
	}
	return out, nil
}

// HandleYield implements `yield expr` inside a generator body (spec §4.4):
// send the value on the nearest enclosing generator scope's channel and
// block until the consumer signals Resume.
func (e *Evaluator) HandleYield(ctx context.Context, expr ast.Expression, sc *scope.Scope) (value.Value, error) {
	yieldTx := sc.YieldChannel()
	if yieldTx == nil {
		return nil, berrors.NewArgumentError("yield used outside of a generator function")
	}

	var v value.Value = value.None
	if expr != nil {
		var err error
		v, err = e.EvalExpr(ctx, expr, sc)
		if err != nil {
			return nil, err
		}
	}

	resume := make(chan struct{})
	select {
	case yieldTx <- value.GeneratorMessage{Value: v, Resume: resume}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case <-resume:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return value.None, nil
}

// CallFunction dispatches a call to whichever Value kind fn holds.
func (e *Evaluator) CallFunction(ctx context.Context, fn value.Value, args []value.Value, kwargs map[string]value.Value, sc *scope.Scope) (value.Value, error) {
	switch f := fn.(type) {
	case *value.NativeFunction:
		return f.Call(ctx, args, kwargs)
	case *value.UserFunction:
		return e.callUserFunction(ctx, f, args, kwargs)
	case *value.Lambda:
		return e.callLambda(ctx, f, args, kwargs)
	case *value.StructType:
		return f.Instantiate(args, kwargs)
	default:
		return nil, berrors.NewNotCallable(value.TypeName(fn))
	}
}

func closureScope(c value.ClosureScope) *scope.Scope {
	if sc, ok := c.(*scope.Scope); ok {
		return sc
	}
	return scope.NewGlobal()
}

func (e *Evaluator) callUserFunction(ctx context.Context, fn *value.UserFunction, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	body, ok := fn.Body.(funcBody)
	if !ok || body.stmt == nil {
		return nil, berrors.NewInternalError("invalid function body for %s", fn.Name)
	}

	if containsYield(body.stmt) {
		return e.createGenerator(ctx, fn, body.stmt, args, kwargs)
	}

	callScope := scope.NewChild(closureScope(fn.Closure), scope.Function)
	if err := e.bindParameters(fn.Params, args, kwargs, callScope); err != nil {
		return nil, err
	}

	result, err := e.EvalStmt(ctx, body.stmt, callScope)
	if err == nil {
		return result, nil
	}
	if sig, ok := berrors.AsSignal(err, "return"); ok {
		return sig.Payload.(value.Value), nil
	}

	if berr, ok := err.(*berrors.Error); ok {
		pos := body.stmt.Position()
		return nil, berr.WithFrame(berrors.Frame{
			Function: fn.Name,
			File:     e.CurrentFile,
			Line:     pos.Line,
			Column:   pos.Column,
		})
	}
	return nil, err
}

func (e *Evaluator) createGenerator(ctx context.Context, fn *value.UserFunction, body ast.Statement, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	ch := make(chan value.GeneratorMessage, 1)

	genScope := scope.NewGenerator(closureScope(fn.Closure), ch)
	if err := e.bindParameters(fn.Params, args, kwargs, genScope); err != nil {
		return nil, err
	}

	go func() {
		defer close(ch)
		if _, err := e.EvalStmt(ctx, body, genScope); err != nil {
			if _, isSignal := berrors.AsSignal(err, "return"); !isSignal {
				obslog.Debug().Str("generator", fn.Name).Err(err).Msg("generator body ended with an error")
			}
		}
		select {
		case ch <- value.GeneratorMessage{Done: true}:
		case <-ctx.Done():
		}
	}()

	return value.NewGenerator(ch, fn.Name), nil
}

func (e *Evaluator) callLambda(ctx context.Context, fn *value.Lambda, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	body, ok := fn.Body.(funcBody)
	if !ok || body.expr == nil {
		return nil, berrors.NewInternalError("invalid lambda body")
	}

	callScope := scope.NewChild(closureScope(fn.Closure), scope.Function)
	if err := e.bindParameters(fn.Params, args, kwargs, callScope); err != nil {
		return nil, err
	}

	result, err := e.EvalExpr(ctx, body.expr, callScope)
	if err == nil {
		return result, nil
	}
	if berr, ok := err.(*berrors.Error); ok {
		pos := body.expr.Position()
		return nil, berr.WithFrame(berrors.Frame{
			Function: "<lambda>",
			File:     e.CurrentFile,
			Line:     pos.Line,
			Column:   pos.Column,
		})
	}
	return nil, err
}

func (e *Evaluator) bindParameters(params []value.Parameter, args []value.Value, kwargs map[string]value.Value, sc *scope.Scope) error {
	kwargs = cloneKwargs(kwargs)
	argIdx := 0

	for _, p := range params {
		switch p.Kind {
		case value.ParamPositional:
			var v value.Value
			switch {
			case argIdx < len(args):
				v = args[argIdx]
				argIdx++
			case kwargs[p.Name] != nil:
				v = kwargs[p.Name]
				delete(kwargs, p.Name)
			case p.Default != nil:
				v = p.Default
			default:
				return berrors.NewArgumentError("missing required argument: %s", p.Name)
			}
			sc.Define(p.Name, v)

		case value.ParamArgs:
			remaining := append([]value.Value{}, args[min(argIdx, len(args)):]...)
			sc.Define(p.Name, value.NewList(remaining))
			argIdx = len(args)

		case value.ParamKwargs:
			d := value.NewDict()
			for k, v := range kwargs {
				d.Set(k, v)
			}
			for k := range kwargs {
				delete(kwargs, k)
			}
			sc.Define(p.Name, d)
		}
	}

	if argIdx < len(args) {
		return berrors.NewArgumentError("too many positional arguments: expected %d, got %d", argIdx, len(args))
	}
	if len(kwargs) > 0 {
		for k := range kwargs {
			return berrors.NewArgumentError("unexpected keyword argument: %s", k)
		}
	}
	return nil
}

func cloneKwargs(m map[string]value.Value) map[string]value.Value {
	out := make(map[string]value.Value, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
