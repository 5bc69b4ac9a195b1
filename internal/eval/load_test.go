package eval

import (
	"context"
	"testing"

	"github.com/cwbudde/blueprint/internal/ast"
	. "github.com/cwbudde/blueprint/internal/astbuild"
	berrors "github.com/cwbudde/blueprint/internal/errors"
	"github.com/cwbudde/blueprint/internal/scope"
	"github.com/cwbudde/blueprint/internal/value"
)

func TestLoadBindsRenamedModuleMember(t *testing.T) {
	e := New()
	e.RegisterModule("mathx", map[string]*value.NativeFunction{
		"square": value.NewNativeFunction("square", func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
			n, err := value.AsInt(args[0])
			if err != nil {
				return nil, err
			}
			return value.Int(n * n), nil
		}),
	})
	sc := scope.NewGlobal()

	load := &ast.Load{Module: "mathx", Args: []ast.LoadArg{{Local: "sq", Their: "square"}}}
	prog := Program(load, ExprStmt(Call(Ident("sq"), Lit(int64(6)))))

	got := run(t, e, prog, sc)
	if !value.Equal(got, value.Int(36)) {
		t.Errorf("got %s, want 36", got.Repr())
	}
}

func TestLoadUnknownModuleIsNameError(t *testing.T) {
	e := New()
	sc := scope.NewGlobal()

	load := &ast.Load{Module: "nope", Args: []ast.LoadArg{{Local: "x", Their: "y"}}}
	prog := Program(load)

	_, err := e.Run(context.Background(), prog, sc)
	if err == nil {
		t.Fatal("expected error loading unknown module")
	}
	if _, ok := err.(*berrors.Error); !ok {
		t.Fatalf("expected *berrors.Error, got %T", err)
	}
}
