package native

import (
	"context"
	"sort"
	"strconv"
	"strings"

	berrors "github.com/cwbudde/blueprint/internal/errors"
	"github.com/cwbudde/blueprint/internal/value"
)

type callFn func(ctx context.Context, fn value.Value, args []value.Value) (value.Value, error)

func nf(name string, fn value.NativeFn) *value.NativeFunction {
	return value.NewNativeFunction(name, fn)
}

// registerBuiltins wires the free-function surface of spec §4.6, grounded
// on the reference engine's natives/builtins/mod.rs register() list.
func registerBuiltins(e interface {
	RegisterBuiltin(fn *value.NativeFunction)
}, call callFn) {
	e.RegisterBuiltin(nf("len", builtinLen))
	e.RegisterBuiltin(nf("str", builtinStr))
	e.RegisterBuiltin(nf("int", builtinInt))
	e.RegisterBuiltin(nf("float", builtinFloat))
	e.RegisterBuiltin(nf("bool", builtinBool))
	e.RegisterBuiltin(nf("list", builtinList))
	e.RegisterBuiltin(nf("dict", builtinDict))
	e.RegisterBuiltin(nf("tuple", builtinTuple))
	e.RegisterBuiltin(nf("set", builtinSet))
	e.RegisterBuiltin(nf("iter", builtinIter))
	e.RegisterBuiltin(nf("range", builtinRange))
	e.RegisterBuiltin(nf("map", builtinMap(call)))
	e.RegisterBuiltin(nf("filter", builtinFilter(call)))
	e.RegisterBuiltin(nf("enumerate", builtinEnumerate))
	e.RegisterBuiltin(nf("zip", builtinZip))
	e.RegisterBuiltin(nf("sorted", builtinSorted(call)))
	e.RegisterBuiltin(nf("reversed", builtinReversed))
	e.RegisterBuiltin(nf("min", builtinMin))
	e.RegisterBuiltin(nf("max", builtinMax))
	e.RegisterBuiltin(nf("sum", builtinSum))
	e.RegisterBuiltin(nf("abs", builtinAbs))
	e.RegisterBuiltin(nf("all", builtinAll))
	e.RegisterBuiltin(nf("any", builtinAny))
	e.RegisterBuiltin(nf("type", builtinType))
	e.RegisterBuiltin(nf("hasattr", builtinHasattr))
	e.RegisterBuiltin(nf("getattr", builtinGetattr))
	e.RegisterBuiltin(nf("repr", builtinRepr))
	e.RegisterBuiltin(nf("fail", builtinFail))
	e.RegisterBuiltin(nf("exit", builtinExit))
	e.RegisterBuiltin(nf("assert", builtinAssert))
}

func argAt(args []value.Value, i int) (value.Value, bool) {
	if i < 0 || i >= len(args) {
		return nil, false
	}
	return args[i], true
}

func iterableToSlice(v value.Value) ([]value.Value, error) {
	switch vv := v.(type) {
	case *value.List:
		return vv.Snapshot(), nil
	case *value.Tuple:
		return vv.Items(), nil
	case *value.Set:
		return vv.Snapshot(), nil
	case *value.String:
		runes := []rune(vv.Go())
		out := make([]value.Value, len(runes))
		for i, r := range runes {
			out[i] = value.NewString(string(r))
		}
		return out, nil
	case *value.Dict:
		keys := vv.Keys()
		out := make([]value.Value, len(keys))
		for i, k := range keys {
			out[i] = value.NewString(k)
		}
		return out, nil
	case *value.Generator:
		var out []value.Value
		for {
			item, ok := vv.Next()
			if !ok {
				break
			}
			out = append(out, item)
		}
		return out, nil
	default:
		return nil, berrors.NewTypeError("iterable", value.TypeName(v))
	}
}

// builtinLen is len() (introspection.rs::len).
func builtinLen(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	v, ok := argAt(args, 0)
	if !ok {
		return nil, berrors.NewArgumentError("len() takes exactly 1 argument (0 given)")
	}
	switch vv := v.(type) {
	case *value.String:
		return value.Int(len([]rune(vv.Go()))), nil
	case *value.List:
		return value.Int(vv.Len()), nil
	case *value.Tuple:
		return value.Int(vv.Len()), nil
	case *value.Dict:
		return value.Int(vv.Len()), nil
	case *value.Set:
		return value.Int(vv.Len()), nil
	default:
		return nil, berrors.NewTypeError("object with a length", value.TypeName(v))
	}
}

func builtinStr(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	v, ok := argAt(args, 0)
	if !ok {
		return value.NewString(""), nil
	}
	return value.NewString(v.Display()), nil
}

func builtinInt(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	v, ok := argAt(args, 0)
	if !ok {
		return value.Int(0), nil
	}
	switch vv := v.(type) {
	case value.Int:
		return vv, nil
	case value.Float:
		return value.Int(int64(vv)), nil
	case value.Bool:
		if vv {
			return value.Int(1), nil
		}
		return value.Int(0), nil
	case *value.String:
		return parseIntString(vv.Go())
	default:
		return nil, berrors.NewTypeError("int-convertible value", value.TypeName(v))
	}
}

func parseIntString(s string) (value.Value, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, berrors.NewValueError("invalid literal for int(): %q", s)
	}
	return value.Int(n), nil
}

func builtinFloat(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	v, ok := argAt(args, 0)
	if !ok {
		return value.Float(0), nil
	}
	switch vv := v.(type) {
	case value.Float:
		return vv, nil
	case value.Int:
		return value.Float(float64(vv)), nil
	case *value.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(vv.Go()), 64)
		if err != nil {
			return nil, berrors.NewValueError("invalid literal for float(): %q", vv.Go())
		}
		return value.Float(f), nil
	default:
		return nil, berrors.NewTypeError("float-convertible value", value.TypeName(v))
	}
}

func builtinBool(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	v, ok := argAt(args, 0)
	if !ok {
		return value.Bool(false), nil
	}
	return value.Bool(value.TruthyAsync(v)), nil
}

func builtinList(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	v, ok := argAt(args, 0)
	if !ok {
		return value.NewList(nil), nil
	}
	items, err := iterableToSlice(v)
	if err != nil {
		return nil, err
	}
	return value.NewList(items), nil
}

func builtinTuple(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	v, ok := argAt(args, 0)
	if !ok {
		return value.NewTuple(nil), nil
	}
	items, err := iterableToSlice(v)
	if err != nil {
		return nil, err
	}
	return value.NewTuple(items), nil
}

func builtinSet(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	s := value.NewSet()
	v, ok := argAt(args, 0)
	if !ok {
		return s, nil
	}
	items, err := iterableToSlice(v)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		s.Add(it)
	}
	return s, nil
}

func builtinDict(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	d := value.NewDict()
	v, ok := argAt(args, 0)
	if ok {
		switch vv := v.(type) {
		case *value.Dict:
			for _, entry := range vv.Items() {
				d.Set(entry.Key, entry.Value)
			}
		default:
			pairs, err := iterableToSlice(v)
			if err != nil {
				return nil, err
			}
			for _, p := range pairs {
				items, ok := itemsOfPair(p)
				if !ok || len(items) != 2 {
					return nil, berrors.NewValueError("dict() update sequence element is not a 2-item pair")
				}
				key, err := value.AsString(items[0])
				if err != nil {
					return nil, berrors.NewTypeError("str key", value.TypeName(items[0]))
				}
				d.Set(key, items[1])
			}
		}
	}
	for k, kv := range kwargs {
		d.Set(k, kv)
	}
	return d, nil
}

func itemsOfPair(v value.Value) ([]value.Value, bool) {
	switch vv := v.(type) {
	case *value.Tuple:
		return vv.Items(), true
	case *value.List:
		return vv.Snapshot(), true
	default:
		return nil, false
	}
}

func builtinIter(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	v, ok := argAt(args, 0)
	if !ok {
		return nil, berrors.NewArgumentError("iter() takes exactly 1 argument (0 given)")
	}
	if _, ok := v.(*value.Generator); ok {
		return v, nil
	}
	items, err := iterableToSlice(v)
	if err != nil {
		return nil, err
	}
	return value.NewList(items), nil
}

func builtinRange(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	var start, stop, step int64 = 0, 0, 1
	switch len(args) {
	case 1:
		n, err := value.AsInt(args[0])
		if err != nil {
			return nil, err
		}
		stop = n
	case 2:
		a, err := value.AsInt(args[0])
		if err != nil {
			return nil, err
		}
		b, err := value.AsInt(args[1])
		if err != nil {
			return nil, err
		}
		start, stop = a, b
	case 3:
		a, err := value.AsInt(args[0])
		if err != nil {
			return nil, err
		}
		b, err := value.AsInt(args[1])
		if err != nil {
			return nil, err
		}
		c, err := value.AsInt(args[2])
		if err != nil {
			return nil, err
		}
		start, stop, step = a, b, c
	default:
		return nil, berrors.NewArgumentError("range() takes 1 to 3 arguments (%d given)", len(args))
	}
	if step == 0 {
		return nil, berrors.NewValueError("range() step argument must not be zero")
	}

	var out []value.Value
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, value.Int(i))
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, value.Int(i))
		}
	}
	return value.NewList(out), nil
}

func builtinMap(call callFn) value.NativeFn {
	return func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		if len(args) < 2 {
			return nil, berrors.NewArgumentError("map() takes at least 2 arguments (%d given)", len(args))
		}
		items, err := iterableToSlice(args[1])
		if err != nil {
			return nil, err
		}
		out := make([]value.Value, len(items))
		for i, it := range items {
			r, err := call(ctx, args[0], []value.Value{it})
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return value.NewList(out), nil
	}
}

func builtinFilter(call callFn) value.NativeFn {
	return func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		if len(args) < 2 {
			return nil, berrors.NewArgumentError("filter() takes exactly 2 arguments (%d given)", len(args))
		}
		items, err := iterableToSlice(args[1])
		if err != nil {
			return nil, err
		}
		var out []value.Value
		for _, it := range items {
			r, err := call(ctx, args[0], []value.Value{it})
			if err != nil {
				return nil, err
			}
			if value.TruthyAsync(r) {
				out = append(out, it)
			}
		}
		return value.NewList(out), nil
	}
}

func builtinEnumerate(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	v, ok := argAt(args, 0)
	if !ok {
		return nil, berrors.NewArgumentError("enumerate() takes at least 1 argument (0 given)")
	}
	start := int64(0)
	if len(args) > 1 {
		n, err := value.AsInt(args[1])
		if err != nil {
			return nil, err
		}
		start = n
	}
	items, err := iterableToSlice(v)
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, len(items))
	for i, it := range items {
		out[i] = value.NewTuple([]value.Value{value.Int(start + int64(i)), it})
	}
	return value.NewList(out), nil
}

func builtinZip(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.NewList(nil), nil
	}
	seqs := make([][]value.Value, len(args))
	minLen := -1
	for i, a := range args {
		items, err := iterableToSlice(a)
		if err != nil {
			return nil, err
		}
		seqs[i] = items
		if minLen == -1 || len(items) < minLen {
			minLen = len(items)
		}
	}
	out := make([]value.Value, minLen)
	for i := 0; i < minLen; i++ {
		tup := make([]value.Value, len(seqs))
		for j := range seqs {
			tup[j] = seqs[j][i]
		}
		out[i] = value.NewTuple(tup)
	}
	return value.NewList(out), nil
}

func builtinSorted(call callFn) value.NativeFn {
	return func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		v, ok := argAt(args, 0)
		if !ok {
			return nil, berrors.NewArgumentError("sorted() takes at least 1 argument (0 given)")
		}
		items, err := iterableToSlice(v)
		if err != nil {
			return nil, err
		}
		items = append([]value.Value{}, items...)

		keyFn, hasKey := kwargs["key"]
		reverse := false
		if r, ok := kwargs["reverse"]; ok {
			reverse = value.TruthyAsync(r)
		}

		var sortErr error
		keys := items
		if hasKey {
			keys = make([]value.Value, len(items))
			for i, it := range items {
				k, err := call(ctx, keyFn, []value.Value{it})
				if err != nil {
					return nil, err
				}
				keys[i] = k
			}
		}

		idx := make([]int, len(items))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool {
			if sortErr != nil {
				return false
			}
			less, err := lessThan(keys[idx[a]], keys[idx[b]])
			if err != nil {
				sortErr = err
				return false
			}
			return less
		})
		if sortErr != nil {
			return nil, sortErr
		}

		out := make([]value.Value, len(items))
		for i, j := range idx {
			pos := i
			if reverse {
				pos = len(items) - 1 - i
			}
			out[pos] = items[j]
		}
		return value.NewList(out), nil
	}
}

func lessThan(a, b value.Value) (bool, error) {
	switch av := a.(type) {
	case value.Int:
		f, err := value.AsFloat(b)
		if err != nil {
			return false, err
		}
		return float64(av) < f, nil
	case value.Float:
		f, err := value.AsFloat(b)
		if err != nil {
			return false, err
		}
		return float64(av) < f, nil
	case *value.String:
		bs, err := value.AsString(b)
		if err != nil {
			return false, err
		}
		return av.Go() < bs, nil
	default:
		return false, berrors.NewTypeError("orderable value", value.TypeName(a))
	}
}

func builtinReversed(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	v, ok := argAt(args, 0)
	if !ok {
		return nil, berrors.NewArgumentError("reversed() takes exactly 1 argument (0 given)")
	}
	items, err := iterableToSlice(v)
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, len(items))
	for i, it := range items {
		out[len(items)-1-i] = it
	}
	return value.NewList(out), nil
}

func builtinMin(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	return extremum(args, kwargs, false)
}

func builtinMax(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	return extremum(args, kwargs, true)
}

func extremum(args []value.Value, kwargs map[string]value.Value, wantMax bool) (value.Value, error) {
	items := args
	if len(args) == 1 {
		seq, err := iterableToSlice(args[0])
		if err != nil {
			return nil, err
		}
		items = seq
	}
	if len(items) == 0 {
		if d, ok := kwargs["default"]; ok {
			return d, nil
		}
		return nil, berrors.NewValueError("min()/max() arg is an empty sequence")
	}
	best := items[0]
	for _, it := range items[1:] {
		a, b := it, best
		if wantMax {
			a, b = best, it
		}
		better, err := lessThan(a, b)
		if err != nil {
			return nil, err
		}
		if better {
			best = it
		}
	}
	return best, nil
}

func builtinSum(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	v, ok := argAt(args, 0)
	if !ok {
		return nil, berrors.NewArgumentError("sum() takes at least 1 argument (0 given)")
	}
	items, err := iterableToSlice(v)
	if err != nil {
		return nil, err
	}
	var start value.Value = value.Int(0)
	if len(args) > 1 {
		start = args[1]
	}

	allInt := true
	var fsum float64
	var isum int64
	switch sv := start.(type) {
	case value.Int:
		isum = int64(sv)
	case value.Float:
		allInt = false
		fsum = float64(sv)
	}

	for _, it := range items {
		switch n := it.(type) {
		case value.Int:
			if allInt {
				isum += int64(n)
			} else {
				fsum += float64(n)
			}
		case value.Float:
			if allInt {
				fsum = float64(isum) + float64(n)
				allInt = false
			} else {
				fsum += float64(n)
			}
		default:
			return nil, berrors.NewTypeError("number", value.TypeName(it))
		}
	}
	if allInt {
		return value.Int(isum), nil
	}
	return value.Float(fsum), nil
}

func builtinAbs(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	v, ok := argAt(args, 0)
	if !ok {
		return nil, berrors.NewArgumentError("abs() takes exactly 1 argument (0 given)")
	}
	switch n := v.(type) {
	case value.Int:
		if n < 0 {
			return -n, nil
		}
		return n, nil
	case value.Float:
		if n < 0 {
			return -n, nil
		}
		return n, nil
	default:
		return nil, berrors.NewTypeError("number", value.TypeName(v))
	}
}

func builtinAll(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	v, ok := argAt(args, 0)
	if !ok {
		return nil, berrors.NewArgumentError("all() takes exactly 1 argument (0 given)")
	}
	items, err := iterableToSlice(v)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if !value.TruthyAsync(it) {
			return value.Bool(false), nil
		}
	}
	return value.Bool(true), nil
}

func builtinAny(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	v, ok := argAt(args, 0)
	if !ok {
		return nil, berrors.NewArgumentError("any() takes exactly 1 argument (0 given)")
	}
	items, err := iterableToSlice(v)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if value.TruthyAsync(it) {
			return value.Bool(true), nil
		}
	}
	return value.Bool(false), nil
}

func builtinType(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	v, ok := argAt(args, 0)
	if !ok {
		return nil, berrors.NewArgumentError("type() takes exactly 1 argument (0 given)")
	}
	return value.NewString(value.TypeName(v)), nil
}

type attrGetter interface {
	GetAttr(string) (value.Value, bool)
}

func builtinHasattr(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) < 2 {
		return nil, berrors.NewArgumentError("hasattr() takes exactly 2 arguments (%d given)", len(args))
	}
	name, err := value.AsString(args[1])
	if err != nil {
		return nil, err
	}
	ag, ok := args[0].(attrGetter)
	if !ok {
		return value.Bool(false), nil
	}
	_, found := ag.GetAttr(name)
	return value.Bool(found), nil
}

func builtinGetattr(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) < 2 {
		return nil, berrors.NewArgumentError("getattr() takes 2 or 3 arguments (%d given)", len(args))
	}
	name, err := value.AsString(args[1])
	if err != nil {
		return nil, err
	}
	if ag, ok := args[0].(attrGetter); ok {
		if v, found := ag.GetAttr(name); found {
			return v, nil
		}
	}
	if len(args) > 2 {
		return args[2], nil
	}
	return nil, berrors.NewAttributeError(value.TypeName(args[0]), name)
}

func builtinRepr(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	v, ok := argAt(args, 0)
	if !ok {
		return value.NewString(""), nil
	}
	return value.NewString(v.Repr()), nil
}

func builtinFail(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	msg := "failed"
	if v, ok := argAt(args, 0); ok {
		msg = v.Display()
	}
	return nil, berrors.NewUserError(msg)
}

func builtinExit(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	code := int64(0)
	if v, ok := argAt(args, 0); ok {
		n, err := value.AsInt(v)
		if err != nil {
			return nil, err
		}
		code = n
	}
	return nil, berrors.NewExit(int(code))
}

func builtinAssert(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	v, ok := argAt(args, 0)
	if !ok {
		return nil, berrors.NewArgumentError("assert() takes at least 1 argument (0 given)")
	}
	if value.TruthyAsync(v) {
		return value.None, nil
	}
	msg := "assertion failed"
	if m, ok := argAt(args, 1); ok {
		msg = m.Display()
	}
	return nil, berrors.NewAssertionError("%s", msg)
}
