package scope

import (
	"testing"

	"github.com/cwbudde/blueprint/internal/value"
)

func TestGlobalScope(t *testing.T) {
	g := NewGlobal()
	g.Set("x", value.Int(42))
	v, ok := g.Get("x")
	if !ok || v.(value.Int) != 42 {
		t.Fatalf("expected x=42, got %v ok=%v", v, ok)
	}
}

func TestChildScope(t *testing.T) {
	g := NewGlobal()
	g.Set("x", value.Int(1))

	child := NewChild(g, Function)
	child.Set("y", value.Int(2))

	if v, ok := child.Get("x"); !ok || v.(value.Int) != 1 {
		t.Errorf("child should see parent's x, got %v ok=%v", v, ok)
	}
	if v, ok := child.Get("y"); !ok || v.(value.Int) != 2 {
		t.Errorf("child should see its own y, got %v ok=%v", v, ok)
	}
	if _, ok := g.Get("y"); ok {
		t.Error("global must not see child's y")
	}
}

func TestLoopScopeUpdatesParent(t *testing.T) {
	fn := NewChild(NewGlobal(), Function)
	fn.Define("i", value.Int(0))

	loop := NewChild(fn, Loop)
	loop.Set("i", value.Int(1))

	v, ok := fn.Get("i")
	if !ok || v.(value.Int) != 1 {
		t.Errorf("loop scope must rebind parent's i in place, got %v ok=%v", v, ok)
	}
}

func TestLoopScopeDefinesFreshWhenNoOuterBinding(t *testing.T) {
	fn := NewChild(NewGlobal(), Function)
	loop := NewChild(fn, Loop)
	loop.Set("fresh", value.Int(9))

	if _, ok := fn.Get("fresh"); ok {
		t.Error("a loop-local name with no outer binding must not leak to the parent")
	}
	if v, ok := loop.Get("fresh"); !ok || v.(value.Int) != 9 {
		t.Errorf("loop scope should still see its own fresh binding, got %v ok=%v", v, ok)
	}
}

func TestYieldChannelWalksToNearestGenerator(t *testing.T) {
	ch := make(chan value.GeneratorMessage, 1)
	gen := NewGenerator(NewGlobal(), ch)
	nested := NewChild(NewChild(gen, Block), Loop)

	if nested.YieldChannel() == nil {
		t.Error("nested scope should find the enclosing generator's yield channel")
	}
	if NewGlobal().YieldChannel() != nil {
		t.Error("a scope outside any generator must have no yield channel")
	}
}

func TestDefineBypassesChainWalk(t *testing.T) {
	fn := NewChild(NewGlobal(), Function)
	fn.Define("i", value.Int(0))

	loop := NewChild(fn, Loop)
	loop.Define("i", value.Int(99))

	if v, _ := loop.Get("i"); v.(value.Int) != 99 {
		t.Errorf("loop's own Define should shadow locally, got %v", v)
	}
	if v, _ := fn.Get("i"); v.(value.Int) != 0 {
		t.Errorf("Define must not leak into the parent, got %v", v)
	}
}
