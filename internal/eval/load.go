package eval

import (
	"context"

	"github.com/cwbudde/blueprint/internal/ast"
	berrors "github.com/cwbudde/blueprint/internal/errors"
	"github.com/cwbudde/blueprint/internal/scope"
)

// evalLoad implements `load(module, local=their, ...)`: bind selected
// members of a registered native module into the current scope under
// (possibly renamed) local names (spec §4.1, §4.6).
func (e *Evaluator) evalLoad(ctx context.Context, l *ast.Load, sc *scope.Scope) error {
	mod, ok := e.CustomModules[l.Module]
	if !ok {
		return berrors.NewNameError(l.Module)
	}

	for _, a := range l.Args {
		v, ok := mod.Get(a.Their)
		if !ok {
			return berrors.NewAttributeError(l.Module, a.Their)
		}
		sc.Define(a.Local, v)
	}
	return nil
}
