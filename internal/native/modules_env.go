package native

import (
	"context"
	"os"

	berrors "github.com/cwbudde/blueprint/internal/errors"
	"github.com/cwbudde/blueprint/internal/permission"
	"github.com/cwbudde/blueprint/internal/value"
)

// envModule is a thin standalone surface over the same env.read/env.write
// permission-gated operations process.env/process.set_env expose, kept
// separate so scripts that only need environment
// access don't have to import the whole process module.
func envModule() map[string]*value.NativeFunction {
	return map[string]*value.NativeFunction{
		"get": nf("get", processEnv),
		"set": nf("set", processSetEnv),
	}
}

func processEnv(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, berrors.NewArgumentError("env.get() takes 1 or 2 arguments (%d given)", len(args))
	}
	name, err := value.AsString(args[0])
	if err != nil {
		return nil, err
	}
	if err := permission.CheckEnvRead(ctx, name); err != nil {
		return nil, err
	}

	v, found := os.LookupEnv(name)
	if !found {
		if len(args) == 2 {
			return value.NewString(args[1].Display()), nil
		}
		return value.NewString(""), nil
	}
	return value.NewString(v), nil
}

func processSetEnv(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, berrors.NewArgumentError("env.set() takes exactly 2 arguments (%d given)", len(args))
	}
	name, err := value.AsString(args[0])
	if err != nil {
		return nil, err
	}
	val, err := value.AsString(args[1])
	if err != nil {
		return nil, err
	}
	if err := permission.CheckEnvWrite(ctx); err != nil {
		return nil, err
	}
	if err := os.Setenv(name, val); err != nil {
		return nil, berrors.NewInternalError("env.set(): %s", err.Error())
	}
	return value.None, nil
}
