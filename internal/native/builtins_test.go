package native

import (
	"context"
	"testing"

	"github.com/cwbudde/blueprint/internal/value"
)

func identityCall(ctx context.Context, fn value.Value, args []value.Value) (value.Value, error) {
	nf, ok := fn.(*value.NativeFunction)
	if !ok {
		return nil, nil
	}
	return nf.Call(ctx, args, nil)
}

func TestBuiltinLen(t *testing.T) {
	v, err := builtinLen(context.Background(), []value.Value{value.NewString("hello")}, nil)
	if err != nil {
		t.Fatalf("builtinLen: %v", err)
	}
	if v != value.Int(5) {
		t.Errorf("len(\"hello\") = %v, want 5", v)
	}
}

func TestBuiltinRange(t *testing.T) {
	v, err := builtinRange(context.Background(), []value.Value{value.Int(3)}, nil)
	if err != nil {
		t.Fatalf("builtinRange: %v", err)
	}
	l, ok := v.(*value.List)
	if !ok || l.Len() != 3 {
		t.Fatalf("range(3) = %v, want a 3-element list", v)
	}
	items := l.Snapshot()
	for i, it := range items {
		if it != value.Int(int64(i)) {
			t.Errorf("range(3)[%d] = %v, want %d", i, it, i)
		}
	}
}

func TestBuiltinRangeRejectsZeroStep(t *testing.T) {
	if _, err := builtinRange(context.Background(), []value.Value{value.Int(0), value.Int(10), value.Int(0)}, nil); err == nil {
		t.Error("expected an error for a zero step")
	}
}

func TestBuiltinSumMixedIntFloat(t *testing.T) {
	items := value.NewList([]value.Value{value.Int(1), value.Float(2.5), value.Int(3)})
	v, err := builtinSum(context.Background(), []value.Value{items}, nil)
	if err != nil {
		t.Fatalf("builtinSum: %v", err)
	}
	if v != value.Float(6.5) {
		t.Errorf("sum = %v, want 6.5", v)
	}
}

func TestBuiltinSortedWithKey(t *testing.T) {
	upperFn := value.NewNativeFunction("neg", func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		n, _ := value.AsInt(args[0])
		return value.Int(-n), nil
	})
	items := value.NewList([]value.Value{value.Int(1), value.Int(3), value.Int(2)})
	sorted := builtinSorted(identityCall)
	v, err := sorted(context.Background(), []value.Value{items}, map[string]value.Value{"key": upperFn})
	if err != nil {
		t.Fatalf("sorted: %v", err)
	}
	got := v.(*value.List).Snapshot()
	want := []int64{3, 2, 1}
	for i, w := range want {
		if got[i] != value.Int(w) {
			t.Errorf("sorted()[%d] = %v, want %d", i, got[i], w)
		}
	}
}

func TestBuiltinMapAppliesFunction(t *testing.T) {
	double := value.NewNativeFunction("double", func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		n, _ := value.AsInt(args[0])
		return value.Int(n * 2), nil
	})
	items := value.NewList([]value.Value{value.Int(1), value.Int(2), value.Int(3)})
	mapFn := builtinMap(identityCall)
	v, err := mapFn(context.Background(), []value.Value{double, items}, nil)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	got := v.(*value.List).Snapshot()
	for i, want := range []int64{2, 4, 6} {
		if got[i] != value.Int(want) {
			t.Errorf("map()[%d] = %v, want %d", i, got[i], want)
		}
	}
}

func TestBuiltinFilterKeepsTruthy(t *testing.T) {
	isEven := value.NewNativeFunction("is_even", func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		n, _ := value.AsInt(args[0])
		return value.Bool(n%2 == 0), nil
	})
	items := value.NewList([]value.Value{value.Int(1), value.Int(2), value.Int(3), value.Int(4)})
	filterFn := builtinFilter(identityCall)
	v, err := filterFn(context.Background(), []value.Value{isEven, items}, nil)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	got := v.(*value.List).Snapshot()
	if len(got) != 2 || got[0] != value.Int(2) || got[1] != value.Int(4) {
		t.Errorf("filter() = %v, want [2, 4]", got)
	}
}

func TestBuiltinEnumerate(t *testing.T) {
	items := value.NewList([]value.Value{value.NewString("a"), value.NewString("b")})
	v, err := builtinEnumerate(context.Background(), []value.Value{items}, nil)
	if err != nil {
		t.Fatalf("enumerate: %v", err)
	}
	got := v.(*value.List).Snapshot()
	first := got[0].(*value.Tuple).Items()
	if first[0] != value.Int(0) {
		t.Errorf("enumerate()[0][0] = %v, want 0", first[0])
	}
}

func TestBuiltinGetattrWithDefault(t *testing.T) {
	d := value.NewDict()
	v, err := builtinGetattr(context.Background(), []value.Value{d, value.NewString("missing"), value.NewString("fallback")}, nil)
	if err != nil {
		t.Fatalf("getattr: %v", err)
	}
	if s, ok := v.(*value.String); !ok || s.Go() != "fallback" {
		t.Errorf("getattr() = %v, want fallback", v)
	}
}

func TestBuiltinAssertFailsWithMessage(t *testing.T) {
	_, err := builtinAssert(context.Background(), []value.Value{value.Bool(false), value.NewString("boom")}, nil)
	if err == nil {
		t.Fatal("expected assert(False, ...) to fail")
	}
}

func TestBuiltinExitCarriesSignal(t *testing.T) {
	_, err := builtinExit(context.Background(), []value.Value{value.Int(2)}, nil)
	if err == nil {
		t.Fatal("expected exit() to return a signal")
	}
}
