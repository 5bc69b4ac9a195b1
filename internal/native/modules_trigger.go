package native

import (
	"context"

	"github.com/cwbudde/blueprint/internal/eval"
	berrors "github.com/cwbudde/blueprint/internal/errors"
	"github.com/cwbudde/blueprint/internal/trigger"
	"github.com/cwbudde/blueprint/internal/value"
)

// registerTriggerNatives wires the background-task surface of spec
// §4.6/§4.8 (serve/cron/interval registration, stop/stop_all/running, and
// the triggers() introspection SPEC_FULL.md §C.4 adds) as builtins over
// registry, using call to invoke Blueprint handler values without this
// package depending on internal/eval for the trigger package itself.
func registerTriggerNatives(e *eval.Evaluator, registry *trigger.Registry, call callFn) {
	e.RegisterBuiltin(nf("serve", triggerServe(registry, call)))
	e.RegisterBuiltin(nf("cron", triggerCron(registry, call)))
	e.RegisterBuiltin(nf("interval", triggerInterval(registry, call)))
	e.RegisterBuiltin(nf("stop", triggerStop(registry)))
	e.RegisterBuiltin(nf("stop_all", triggerStopAll(registry)))
	e.RegisterBuiltin(nf("running", triggerRunning(registry)))
	e.RegisterBuiltin(nf("triggers", triggerList(registry)))
}

func triggerServe(registry *trigger.Registry, call callFn) value.NativeFn {
	return func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		if len(args) < 2 {
			return nil, berrors.NewArgumentError("serve() takes at least 2 arguments (%d given)", len(args))
		}
		addr, err := value.AsString(args[0])
		if err != nil {
			return nil, err
		}
		routesDict, ok := args[1].(*value.Dict)
		if !ok {
			return nil, berrors.NewTypeError("dict of \"METHOD /path\" to handler", value.TypeName(args[1]))
		}

		routes := make(map[string]value.Value, routesDict.Len())
		for _, entry := range routesDict.Items() {
			routes[entry.Key] = entry.Value
		}

		h, err := registry.RegisterHTTP(addr, routes, trigger.Caller(call))
		if err != nil {
			return nil, err
		}
		return h.ToDict(), nil
	}
}

func triggerCron(registry *trigger.Registry, call callFn) value.NativeFn {
	return func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, berrors.NewArgumentError("cron() takes exactly 2 arguments (%d given)", len(args))
		}
		schedule, err := value.AsString(args[0])
		if err != nil {
			return nil, err
		}
		h, err := registry.RegisterCron(schedule, args[1], trigger.Caller(call))
		if err != nil {
			return nil, err
		}
		return h.ToDict(), nil
	}
}

func triggerInterval(registry *trigger.Registry, call callFn) value.NativeFn {
	return func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, berrors.NewArgumentError("interval() takes exactly 2 arguments (%d given)", len(args))
		}
		seconds, err := value.AsFloat(args[0])
		if err != nil {
			return nil, err
		}
		h, err := registry.RegisterInterval(seconds, args[1], trigger.Caller(call))
		if err != nil {
			return nil, err
		}
		return h.ToDict(), nil
	}
}

func triggerStop(registry *trigger.Registry) value.NativeFn {
	return func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, berrors.NewArgumentError("stop() takes exactly 1 argument (%d given)", len(args))
		}
		id, err := handleID(args[0])
		if err != nil {
			return nil, err
		}
		registry.Stop(id)
		return value.None, nil
	}
}

func triggerStopAll(registry *trigger.Registry) value.NativeFn {
	return func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		registry.StopAll()
		return value.None, nil
	}
}

func triggerRunning(registry *trigger.Registry) value.NativeFn {
	return func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, berrors.NewArgumentError("running() takes exactly 1 argument (%d given)", len(args))
		}
		id, err := handleID(args[0])
		if err != nil {
			return nil, err
		}
		return value.Bool(registry.Running(id)), nil
	}
}

func triggerList(registry *trigger.Registry) value.NativeFn {
	return func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		handles := registry.List()
		out := make([]value.Value, len(handles))
		for i, h := range handles {
			out[i] = h.ToDict()
		}
		return value.NewList(out), nil
	}
}

// handleID accepts either a handle dict (as returned by serve/cron/
// interval) or a bare id string, per SPEC_FULL.md §C.4.
func handleID(v value.Value) (string, error) {
	switch vv := v.(type) {
	case *value.String:
		return vv.Go(), nil
	case *value.Dict:
		id, ok := vv.Get("id")
		if !ok {
			return "", berrors.NewValueError("trigger handle is missing an \"id\" field")
		}
		return value.AsString(id)
	default:
		return "", berrors.NewTypeError("trigger handle or id string", value.TypeName(v))
	}
}
