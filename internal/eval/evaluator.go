// Package eval implements the tree-walking evaluator (spec §4.2-4.3):
// statement and expression dispatch, call binding, comprehensions, pattern
// matching, and the generator/function call boundary, grounded on the
// reference engine's eval/ module (expr.rs, stmt.rs, functions.rs,
// assignment.rs, comprehension.rs, pattern.rs, ops.rs).
package eval

import (
	"context"

	"github.com/cwbudde/blueprint/internal/ast"
	berrors "github.com/cwbudde/blueprint/internal/errors"
	"github.com/cwbudde/blueprint/internal/scope"
	"github.com/cwbudde/blueprint/internal/value"
)

// Evaluator holds the native registries shared across a run. It carries no
// per-call state; everything call-specific lives in the Scope chain.
type Evaluator struct {
	Builtins      map[string]*value.NativeFunction
	CustomModules map[string]*value.Dict
	CurrentFile   string
}

// New constructs an Evaluator with empty registries; callers wire in
// internal/native's builtin and module tables before running a program.
func New() *Evaluator {
	return &Evaluator{
		Builtins:      make(map[string]*value.NativeFunction),
		CustomModules: make(map[string]*value.Dict),
	}
}

// RegisterBuiltin makes fn resolvable as a bare identifier in any scope.
func (e *Evaluator) RegisterBuiltin(fn *value.NativeFunction) {
	e.Builtins[fn.Name] = fn
}

// RegisterModule makes fns resolvable as attributes of the identifier name
// (e.g. `math.sqrt`), matching spec §4.6 and §9's native module surface.
func (e *Evaluator) RegisterModule(name string, fns map[string]*value.NativeFunction) {
	d := value.NewDict()
	for fname, fn := range fns {
		d.Set(fname, fn)
	}
	e.CustomModules[name] = d
}

// Run evaluates a full program's top-level statements against scope,
// returning the last statement's value the way a REPL would.
func (e *Evaluator) Run(ctx context.Context, prog *ast.Program, sc *scope.Scope) (value.Value, error) {
	var result value.Value = value.None
	for _, stmt := range prog.Statements {
		v, err := e.EvalStmt(ctx, stmt, sc)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// containsYield reports whether body contains a Yield statement not
// nested inside a further Def (a nested function's yield belongs to that
// function, not this one), deciding whether a call creates a generator
// (spec §4.4).
func containsYield(stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case *ast.Yield:
		return true
	case *ast.Statements:
		for _, inner := range s.Body {
			if containsYield(inner) {
				return true
			}
		}
		return false
	case *ast.If:
		return containsYield(s.Then)
	case *ast.IfElse:
		return containsYield(s.Then) || containsYield(s.Else)
	case *ast.For:
		return containsYield(s.Body)
	case *ast.Match:
		for _, c := range s.Cases {
			if containsYield(c.Body) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func internalErrf(format string, args ...any) error {
	return berrors.NewInternalError(format, args...)
}
