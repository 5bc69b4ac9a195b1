package native

import (
	"context"
	"testing"

	"github.com/cwbudde/blueprint/internal/value"
)

func TestRandomBytesHexLength(t *testing.T) {
	mod := randomModule()
	v, err := mod["random_bytes"].Call(context.Background(), []value.Value{value.Int(8)}, map[string]value.Value{"hex": value.Bool(true)})
	if err != nil {
		t.Fatalf("random_bytes: %v", err)
	}
	s, ok := v.(*value.String)
	if !ok {
		t.Fatalf("random_bytes() = %T, want *value.String", v)
	}
	if len(s.Go()) != 16 {
		t.Errorf("random_bytes(8, hex=true) length = %d, want 16", len(s.Go()))
	}
}

func TestRandomBytesRejectsOversizedRequest(t *testing.T) {
	mod := randomModule()
	if _, err := mod["random_bytes"].Call(context.Background(), []value.Value{value.Int(maxRandomBytes + 1)}, nil); err == nil {
		t.Error("expected an error for an oversized random_bytes request")
	}
}

func TestRandomIntRange(t *testing.T) {
	mod := randomModule()
	for i := 0; i < 50; i++ {
		v, err := mod["random_int"].Call(context.Background(), []value.Value{value.Int(5), value.Int(10)}, nil)
		if err != nil {
			t.Fatalf("random_int: %v", err)
		}
		n, _ := value.AsInt(v)
		if n < 5 || n >= 10 {
			t.Fatalf("random_int(5, 10) = %d, want in [5, 10)", n)
		}
	}
}

func TestRandomIntRejectsEmptyRange(t *testing.T) {
	mod := randomModule()
	if _, err := mod["random_int"].Call(context.Background(), []value.Value{value.Int(10), value.Int(5)}, nil); err == nil {
		t.Error("expected an error when min >= max")
	}
}

func TestRandomFloatInUnitInterval(t *testing.T) {
	mod := randomModule()
	v, err := mod["random_float"].Call(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("random_float: %v", err)
	}
	f, _ := value.AsFloat(v)
	if f < 0 || f >= 1 {
		t.Errorf("random_float() = %v, want in [0, 1)", f)
	}
}
