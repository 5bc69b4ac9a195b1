package native

import (
	"context"
	"regexp"

	berrors "github.com/cwbudde/blueprint/internal/errors"
	"github.com/cwbudde/blueprint/internal/value"
)

// regexModule ports the reference engine's regex.rs four functions
// (match/find_all/replace/split) as module members instead of bare
// globals, matching this package's module-grouping convention; no pack
// library wraps RE2-flavored regex the way the reference's `regex` crate
// does, so this is stdlib regexp, noted here per the grounding ledger.
func regexModule() map[string]*value.NativeFunction {
	return map[string]*value.NativeFunction{
		"match":    nf("match", regexMatch),
		"find_all": nf("find_all", regexFindAll),
		"replace":  nf("replace", regexReplace),
		"split":    nf("split", regexSplit),
	}
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, berrors.NewValueError("invalid regex pattern: %s", err.Error())
	}
	return re, nil
}

func regexMatch(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, berrors.NewArgumentError("regex_match() takes exactly 2 arguments (%d given)", len(args))
	}
	pattern, err := value.AsString(args[0])
	if err != nil {
		return nil, err
	}
	text, err := value.AsString(args[1])
	if err != nil {
		return nil, err
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return value.None, nil
	}
	out := make([]value.Value, len(loc)/2)
	for i := range out {
		start, end := loc[i*2], loc[i*2+1]
		if start == -1 {
			out[i] = value.None
			continue
		}
		out[i] = value.NewString(text[start:end])
	}
	return value.NewList(out), nil
}

func regexFindAll(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, berrors.NewArgumentError("regex_find_all() takes exactly 2 arguments (%d given)", len(args))
	}
	pattern, err := value.AsString(args[0])
	if err != nil {
		return nil, err
	}
	text, err := value.AsString(args[1])
	if err != nil {
		return nil, err
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}
	matches := re.FindAllString(text, -1)
	out := make([]value.Value, len(matches))
	for i, m := range matches {
		out[i] = value.NewString(m)
	}
	return value.NewList(out), nil
}

func regexReplace(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) != 3 {
		return nil, berrors.NewArgumentError("regex_replace() takes exactly 3 arguments (%d given)", len(args))
	}
	pattern, err := value.AsString(args[0])
	if err != nil {
		return nil, err
	}
	text, err := value.AsString(args[1])
	if err != nil {
		return nil, err
	}
	replacement, err := value.AsString(args[2])
	if err != nil {
		return nil, err
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}

	replaceAll := true
	if v, ok := kwargs["all"]; ok {
		replaceAll = value.TruthyAsync(v)
	}
	if replaceAll {
		return value.NewString(re.ReplaceAllString(text, replacement)), nil
	}

	loc := re.FindStringIndex(text)
	if loc == nil {
		return value.NewString(text), nil
	}
	return value.NewString(text[:loc[0]] + re.ReplaceAllString(text[loc[0]:loc[1]], replacement) + text[loc[1]:]), nil
}

func regexSplit(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, berrors.NewArgumentError("regex_split() takes exactly 2 arguments (%d given)", len(args))
	}
	pattern, err := value.AsString(args[0])
	if err != nil {
		return nil, err
	}
	text, err := value.AsString(args[1])
	if err != nil {
		return nil, err
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}

	limit := -1
	if v, ok := kwargs["limit"]; ok {
		n, err := value.AsInt(v)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			limit = int(n)
		}
	}

	parts := re.Split(text, limit)
	out := make([]value.Value, len(parts))
	for i, p := range parts {
		out[i] = value.NewString(p)
	}
	return value.NewList(out), nil
}
