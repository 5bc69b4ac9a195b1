package native

import (
	"context"
	"math"

	berrors "github.com/cwbudde/blueprint/internal/errors"
	"github.com/cwbudde/blueprint/internal/value"
)

// mathModule mirrors the reference engine's math.rs module surface:
// a handful of stdlib math.* wrappers plus constants, grounded on
// spec §9's listed numeric helpers.
func mathModule() map[string]*value.NativeFunction {
	return map[string]*value.NativeFunction{
		"sqrt":  nf("sqrt", mathUnary(math.Sqrt)),
		"floor": nf("floor", mathUnary(math.Floor)),
		"ceil":  nf("ceil", mathUnary(math.Ceil)),
		"round": nf("round", mathRound),
		"pow":   nf("pow", mathPow),
		"log":   nf("log", mathLog),
		"log2":  nf("log2", mathUnary(math.Log2)),
		"log10": nf("log10", mathUnary(math.Log10)),
		"sin":   nf("sin", mathUnary(math.Sin)),
		"cos":   nf("cos", mathUnary(math.Cos)),
		"tan":   nf("tan", mathUnary(math.Tan)),
		"pi":    nf("pi", mathConstant(math.Pi)),
		"e":     nf("e", mathConstant(math.E)),
	}
}

func mathUnary(fn func(float64) float64) value.NativeFn {
	return func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, berrors.NewArgumentError("math function takes exactly 1 argument (%d given)", len(args))
		}
		f, err := value.AsFloat(args[0])
		if err != nil {
			return nil, err
		}
		return value.Float(fn(f)), nil
	}
}

func mathConstant(c float64) value.NativeFn {
	return func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		return value.Float(c), nil
	}
}

func mathRound(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) == 0 || len(args) > 2 {
		return nil, berrors.NewArgumentError("round() takes 1 or 2 arguments (%d given)", len(args))
	}
	f, err := value.AsFloat(args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return value.Int(int64(math.Round(f))), nil
	}
	ndigits, err := value.AsInt(args[1])
	if err != nil {
		return nil, err
	}
	mult := math.Pow(10, float64(ndigits))
	return value.Float(math.Round(f*mult) / mult), nil
}

func mathPow(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, berrors.NewArgumentError("pow() takes exactly 2 arguments (%d given)", len(args))
	}
	base, err := value.AsFloat(args[0])
	if err != nil {
		return nil, err
	}
	exp, err := value.AsFloat(args[1])
	if err != nil {
		return nil, err
	}
	result := math.Pow(base, exp)
	if _, ok := args[0].(value.Int); ok {
		if _, ok := args[1].(value.Int); ok && exp == math.Trunc(exp) && exp >= 0 {
			return value.Int(int64(result)), nil
		}
	}
	return value.Float(result), nil
}

func mathLog(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) == 0 || len(args) > 2 {
		return nil, berrors.NewArgumentError("log() takes 1 or 2 arguments (%d given)", len(args))
	}
	f, err := value.AsFloat(args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return value.Float(math.Log(f)), nil
	}
	base, err := value.AsFloat(args[1])
	if err != nil {
		return nil, err
	}
	return value.Float(math.Log(f) / math.Log(base)), nil
}
