package eval

import (
	"testing"

	"github.com/cwbudde/blueprint/internal/ast"
	. "github.com/cwbudde/blueprint/internal/astbuild"
	"github.com/cwbudde/blueprint/internal/scope"
	"github.com/cwbudde/blueprint/internal/value"
)

func TestListComprehensionWithFilter(t *testing.T) {
	e := New()
	sc := scope.NewGlobal()

	comp := &ast.ListComprehension{
		Elt: BinOp("*", Ident("n"), Lit(int64(2))),
		Clauses: []ast.CompClause{
			{
				Var:  "n",
				Over: List(Lit(int64(1)), Lit(int64(2)), Lit(int64(3)), Lit(int64(4))),
				Ifs:  []ast.Expression{BinOp("==", BinOp("%", Ident("n"), Lit(int64(2))), Lit(int64(0)))},
			},
		},
	}

	prog := Program(ExprStmt(comp))
	got := run(t, e, prog, sc)
	want := value.NewList([]value.Value{value.Int(4), value.Int(8)})
	if !value.Equal(got, want) {
		t.Errorf("got %s, want %s", got.Repr(), want.Repr())
	}
}

func TestDictComprehensionNestedClauses(t *testing.T) {
	e := New()
	sc := scope.NewGlobal()

	comp := &ast.DictComprehension{
		Key:   Ident("a"),
		Value: Ident("b"),
		Clauses: []ast.CompClause{
			{Var: "a", Over: List(Lit(int64(1)), Lit(int64(2)))},
			{Var: "b", Over: List(Lit(int64(10)), Lit(int64(20)))},
		},
	}

	prog := Program(ExprStmt(comp))
	got := run(t, e, prog, sc)
	d, ok := got.(*value.Dict)
	if !ok {
		t.Fatalf("expected *value.Dict, got %T", got)
	}
	if len(d.Items()) != 2 {
		t.Fatalf("expected 2 entries (later b overwrites earlier), got %d", len(d.Items()))
	}
}
