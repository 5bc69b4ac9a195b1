package native

import (
	"context"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	berrors "github.com/cwbudde/blueprint/internal/errors"
	"github.com/cwbudde/blueprint/internal/value"
)

// textModule is the home for golang.org/x/text wiring per DESIGN.md's
// deviation note: Unicode-correct title-casing and case folding, which
// strings.ToUpper/ToLower don't get right for every script (e.g. Turkish
// dotless i), supplementing the ASCII-oriented string bound methods in
// internal/value/methods.go.
func textModule() map[string]*value.NativeFunction {
	titleCaser := cases.Title(language.Und)
	foldCaser := cases.Fold()
	return map[string]*value.NativeFunction{
		"title": nf("title", textUnary(titleCaser.String)),
		"fold":  nf("fold", textUnary(foldCaser.String)),
	}
}

func textUnary(fn func(string) string) value.NativeFn {
	return func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, berrors.NewArgumentError("text function takes exactly 1 argument (%d given)", len(args))
		}
		s, err := value.AsString(args[0])
		if err != nil {
			return nil, err
		}
		return value.NewString(fn(s)), nil
	}
}
