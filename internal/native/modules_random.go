package native

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	mrand "math/rand"

	berrors "github.com/cwbudde/blueprint/internal/errors"
	"github.com/cwbudde/blueprint/internal/value"
)

const maxRandomBytes = 1024 * 1024

// randomModule ports the reference engine's random.rs: random_bytes stays
// string-packed (one byte per char by default, hex with kwarg) per the Open Question
// resolution recorded in DESIGN.md, random_int/random_float mirror its
// range semantics.
//
// There is no pack library for CSPRNG byte generation or ranged integer
// sampling; stdlib crypto/rand (bytes) and math/rand (int/float ranges,
// matching the reference's non-cryptographic rand::thread_rng() use for
// those two) are used directly.
func randomModule() map[string]*value.NativeFunction {
	return map[string]*value.NativeFunction{
		"random_bytes": nf("random_bytes", randomBytes),
		"random_int":   nf("random_int", randomInt),
		"random_float": nf("random_float", randomFloat),
	}
}

func randomBytes(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, berrors.NewArgumentError("random_bytes() takes exactly 1 argument (%d given)", len(args))
	}
	n, err := value.AsInt(args[0])
	if err != nil {
		return nil, err
	}
	if n < 0 || n > maxRandomBytes {
		return nil, berrors.NewArgumentError("random_bytes() cannot generate more than 1MB at once")
	}

	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, berrors.NewInternalError("random_bytes(): %s", err.Error())
	}

	if hexOut, ok := kwargs["hex"]; ok && value.TruthyAsync(hexOut) {
		return value.NewString(hex.EncodeToString(buf)), nil
	}
	packed := make([]rune, len(buf))
	for i, b := range buf {
		packed[i] = rune(b)
	}
	return value.NewString(string(packed)), nil
}

func randomInt(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	switch len(args) {
	case 0:
		return value.Int(mrand.Int63()), nil
	case 1:
		max, err := value.AsInt(args[0])
		if err != nil {
			return nil, err
		}
		if max <= 0 {
			return nil, berrors.NewArgumentError("random_int() max must be positive")
		}
		return value.Int(mrand.Int63n(max)), nil
	case 2:
		lo, err := value.AsInt(args[0])
		if err != nil {
			return nil, err
		}
		hi, err := value.AsInt(args[1])
		if err != nil {
			return nil, err
		}
		if lo >= hi {
			return nil, berrors.NewArgumentError("random_int() min must be less than max")
		}
		return value.Int(lo + mrand.Int63n(hi-lo)), nil
	default:
		return nil, berrors.NewArgumentError("random_int() takes 0-2 arguments (%d given)", len(args))
	}
}

func randomFloat(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) != 0 {
		return nil, berrors.NewArgumentError("random_float() takes no arguments (%d given)", len(args))
	}
	return value.Float(mrand.Float64()), nil
}
