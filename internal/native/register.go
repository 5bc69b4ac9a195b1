// Package native implements the global builtins and the native module
// surface (spec §4.6, §9): math, json, random, regex, crypto, process,
// env, http, text, file, task, and trigger registration, grounded
// file-by-file on the reference engine's natives/ and modules/ trees.
package native

import (
	"context"

	"github.com/cwbudde/blueprint/internal/eval"
	"github.com/cwbudde/blueprint/internal/scope"
	"github.com/cwbudde/blueprint/internal/trigger"
	"github.com/cwbudde/blueprint/internal/value"
)

// caller adapts an Evaluator into the closure form used both by the
// higher-order builtins below (map, filter, sorted's key=) and by
// internal/trigger's Caller, so this package is the one place that
// depends on both eval and trigger.
func caller(e *eval.Evaluator) func(ctx context.Context, fn value.Value, args []value.Value) (value.Value, error) {
	root := scope.NewGlobal()
	return func(ctx context.Context, fn value.Value, args []value.Value) (value.Value, error) {
		return e.CallFunction(ctx, fn, args, nil, root)
	}
}

// Register wires every builtin function and native module into e, and
// every trigger-registering native (serve, cron, interval, stop, ...)
// into registry. Call once per Evaluator before running a program.
func Register(e *eval.Evaluator, registry *trigger.Registry) {
	call := caller(e)

	registerBuiltins(e, call)
	registerConsole(e)
	e.RegisterBuiltin(registerParallel(call))
	e.RegisterModule("math", mathModule())
	e.RegisterModule("json", jsonModule())
	e.RegisterModule("random", randomModule())
	e.RegisterModule("regex", regexModule())
	e.RegisterModule("crypto", cryptoModule())
	e.RegisterModule("process", processModule())
	e.RegisterModule("env", envModule())
	e.RegisterModule("http", httpModule())
	e.RegisterModule("text", textModule())
	e.RegisterModule("file", fileModule())
	e.RegisterModule("task", taskModule(call))
	registerTriggerNatives(e, registry, call)
}
