package eval

import (
	"context"
	"testing"

	"github.com/cwbudde/blueprint/internal/ast"
	. "github.com/cwbudde/blueprint/internal/astbuild"
	"github.com/cwbudde/blueprint/internal/scope"
	"github.com/cwbudde/blueprint/internal/value"
)

func TestStructDeclInstantiateAndAccess(t *testing.T) {
	e := New()
	sc := scope.NewGlobal()

	decl := &ast.StructDecl{
		Name: "Point",
		Fields: []ast.StructFieldDecl{
			{Name: "x", Type: ast.TypeSimple{Name: "int"}},
			{Name: "y", Type: ast.TypeSimple{Name: "int"}, Default: Lit(int64(0))},
		},
	}

	prog := Program(
		decl,
		Assign(Ident("p"), Call(Ident("Point"), Lit(int64(3)))),
		ExprStmt(Dot(Ident("p"), "y")),
	)
	got := run(t, e, prog, sc)
	if !value.Equal(got, value.Int(0)) {
		t.Errorf("p.y: got %s, want default 0", got.Repr())
	}
}

func TestStructFieldTypeMismatchErrors(t *testing.T) {
	e := New()
	sc := scope.NewGlobal()

	decl := &ast.StructDecl{
		Name: "Point",
		Fields: []ast.StructFieldDecl{
			{Name: "x", Type: ast.TypeSimple{Name: "int"}},
		},
	}

	prog := Program(
		decl,
		ExprStmt(Call(Ident("Point"), Lit("not an int"))),
	)
	if _, err := e.Run(context.Background(), prog, sc); err == nil {
		t.Fatal("expected a type error for wrong field type")
	}
}
