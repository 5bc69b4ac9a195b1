package native

import (
	"context"
	"testing"

	"github.com/cwbudde/blueprint/internal/value"
)

func TestJSONEncodeDecodeRoundTrip(t *testing.T) {
	mod := jsonModule()
	d := value.NewDict()
	d.Set("name", value.NewString("ada"))
	d.Set("age", value.Int(36))

	encoded, err := mod["encode"].Call(context.Background(), []value.Value{d}, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := mod["decode"].Call(context.Background(), []value.Value{encoded}, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, ok := decoded.(*value.Dict)
	if !ok {
		t.Fatalf("decode() = %T, want *value.Dict", decoded)
	}
	name, _ := got.Get("name")
	if s, ok := name.(*value.String); !ok || s.Go() != "ada" {
		t.Errorf("decoded name = %v, want ada", name)
	}
}

func TestJSONGetByPath(t *testing.T) {
	mod := jsonModule()
	text := value.NewString(`{"user": {"name": "grace", "roles": ["admin", "dev"]}}`)
	v, err := mod["get"].Call(context.Background(), []value.Value{text, value.NewString("user.roles.0")}, nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if s, ok := v.(*value.String); !ok || s.Go() != "admin" {
		t.Errorf("get(user.roles.0) = %v, want admin", v)
	}
}

func TestJSONSetByPath(t *testing.T) {
	mod := jsonModule()
	text := value.NewString(`{"count": 1}`)
	v, err := mod["set"].Call(context.Background(), []value.Value{text, value.NewString("count"), value.Int(2)}, nil)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	out, err := mod["get"].Call(context.Background(), []value.Value{v, value.NewString("count")}, nil)
	if err != nil {
		t.Fatalf("get after set: %v", err)
	}
	if out != value.Int(2) {
		t.Errorf("count after set = %v, want 2", out)
	}
}

func TestJSONEncodeRejectsNonFiniteFloat(t *testing.T) {
	mod := jsonModule()
	if _, err := mod["encode"].Call(context.Background(), []value.Value{value.Float(1) / value.Float(0)}, nil); err == nil {
		t.Error("expected an error encoding a non-finite float")
	}
}
