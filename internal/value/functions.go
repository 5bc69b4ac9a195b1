package value

import (
	"context"
	"fmt"
)

// ParameterKind distinguishes positional, variadic-positional, and
// variadic-keyword parameters (spec §3.3). At most one Args and one
// Kwargs parameter is permitted per function, in that order.
type ParameterKind int

const (
	ParamPositional ParameterKind = iota
	ParamArgs
	ParamKwargs
)

// Parameter is one entry of a function's parameter list.
type Parameter struct {
	Name    string
	Default Value // nil if no default
	Kind    ParameterKind
}

// Body is the evaluator-owned AST payload of a function value. It is kept
// opaque here (internal/value does not depend on internal/ast) so the
// value model has no import-cycle with the evaluator; the eval package
// type-asserts it back to its own ast node types.
type Body any

// ClosureScope is likewise opaque: it is the evaluator's *scope.Scope, but
// value can't import scope without creating a cycle (scope stores Values).
type ClosureScope any

// UserFunction is a named function value: its AST body, ordered parameter
// list, and the lexical scope it closed over at definition time (spec
// §3.3).
type UserFunction struct {
	Name    string
	Params  []Parameter
	Body    Body
	Closure ClosureScope // nil if defined at global scope
}

func (f *UserFunction) Kind() Kind      { return KindUserFunction }
func (f *UserFunction) Display() string { return fmt.Sprintf("<function %s>", f.Name) }
func (f *UserFunction) Repr() string    { return f.Display() }

// Lambda is an anonymous function value; its body is a single expression
// rather than a statement block.
type Lambda struct {
	Params  []Parameter
	Body    Body
	Closure ClosureScope
}

func (l *Lambda) Kind() Kind      { return KindLambda }
func (l *Lambda) Display() string { return "<lambda>" }
func (l *Lambda) Repr() string    { return l.Display() }

// NativeFn is the native-function ABI (spec §6.2): positional values,
// keyword values by name, and a context for cancellation — the native may
// itself call permission checks that read the ambient task-local context
// carried on ctx.
type NativeFn func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error)

// NativeFunction wraps a host-supplied callable under a stable name.
type NativeFunction struct {
	Name string
	Fn   NativeFn
}

// NewNativeFunction constructs a NativeFunction value.
func NewNativeFunction(name string, fn NativeFn) *NativeFunction {
	return &NativeFunction{Name: name, Fn: fn}
}

func (n *NativeFunction) Kind() Kind      { return KindNativeFunction }
func (n *NativeFunction) Display() string { return fmt.Sprintf("<built-in function %s>", n.Name) }
func (n *NativeFunction) Repr() string    { return n.Display() }

// Call invokes the wrapped native function.
func (n *NativeFunction) Call(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
	return n.Fn(ctx, args, kwargs)
}
