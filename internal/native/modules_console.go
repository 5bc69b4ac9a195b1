package native

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	berrors "github.com/cwbudde/blueprint/internal/errors"
	"github.com/cwbudde/blueprint/internal/value"
)

// registerConsole wires print/eprint/input as bare builtins rather than a
// module (original_source's natives/console.rs registers them as globals,
// unlike math/json/process which it already modularized), matching this
// package's convention of preserving the reference's own grouping choices.
func registerConsole(e interface {
	RegisterBuiltin(fn *value.NativeFunction)
}) {
	e.RegisterBuiltin(nf("print", consolePrint(os.Stdout)))
	e.RegisterBuiltin(nf("eprint", consolePrint(os.Stderr)))
	e.RegisterBuiltin(nf("input", consoleInput))
}

func consolePrint(w *os.File) value.NativeFn {
	return func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		sep := " "
		if v, ok := kwargs["sep"]; ok {
			sep = v.Display()
		}
		end := "\n"
		if v, ok := kwargs["end"]; ok {
			end = v.Display()
		}

		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.Display()
		}
		fmt.Fprint(w, strings.Join(parts, sep), end)
		return value.None, nil
	}
}

func consoleInput(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) > 1 {
		return nil, berrors.NewArgumentError("input() takes at most 1 argument (%d given)", len(args))
	}
	if len(args) == 1 {
		fmt.Fprint(os.Stdout, args[0].Display())
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return nil, berrors.NewIoError("stdin", err.Error())
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return value.NewString(line), nil
}
