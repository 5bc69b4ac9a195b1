package eval

import (
	"context"
	"testing"

	"github.com/cwbudde/blueprint/internal/ast"
	. "github.com/cwbudde/blueprint/internal/astbuild"
	"github.com/cwbudde/blueprint/internal/scope"
	"github.com/cwbudde/blueprint/internal/value"
)

func TestFunctionCallWithDefaultParam(t *testing.T) {
	e := New()
	sc := scope.NewGlobal()

	addDef := Def("add", []ast.Param{Param("a"), ParamDefault("b", Lit(int64(10)))},
		Block(Return(BinOp("+", Ident("a"), Ident("b")))))

	prog := Program(
		addDef,
		ExprStmt(Call(Ident("add"), Lit(int64(5)))),
	)
	got := run(t, e, prog, sc)
	if !value.Equal(got, value.Int(15)) {
		t.Errorf("got %s, want 15", got.Repr())
	}
}

func TestClosureCapturesDefinitionScope(t *testing.T) {
	e := New()
	sc := scope.NewGlobal()

	makeAdder := Def("make_adder", []ast.Param{Param("n")},
		Block(Return(&ast.Lambda{
			Params: []ast.Param{Param("x")},
			Body:   BinOp("+", Ident("x"), Ident("n")),
		})))

	prog := Program(
		makeAdder,
		Assign(Ident("add5"), Call(Ident("make_adder"), Lit(int64(5)))),
		ExprStmt(Call(Ident("add5"), Lit(int64(100)))),
	)
	got := run(t, e, prog, sc)
	if !value.Equal(got, value.Int(105)) {
		t.Errorf("got %s, want 105", got.Repr())
	}
}

func TestGeneratorYieldsThenDone(t *testing.T) {
	e := New()
	sc := scope.NewGlobal()

	gen := Def("counter", []ast.Param{Param("n")},
		Block(
			Assign(Ident("i"), Lit(int64(0))),
			For("_", List(Lit(int64(0)), Lit(int64(0)), Lit(int64(0))),
				Block(
					&ast.Yield{Expr: Ident("i")},
					AssignModify(Ident("i"), "+=", Lit(int64(1))),
				),
			),
		))

	prog := Program(
		gen,
		Assign(Ident("g"), Call(Ident("counter"), Lit(int64(3)))),
	)
	if _, err := e.Run(context.Background(), prog, sc); err != nil {
		t.Fatalf("Run: %v", err)
	}

	genVal, ok := sc.Get("g")
	if !ok {
		t.Fatal("expected g to be bound")
	}
	g, ok := genVal.(*value.Generator)
	if !ok {
		t.Fatalf("expected *value.Generator, got %T", genVal)
	}

	var got []int64
	for {
		v, ok := g.Next()
		if !ok {
			break
		}
		n, err := value.AsInt(v)
		if err != nil {
			t.Fatalf("AsInt: %v", err)
		}
		got = append(got, n)
	}

	if len(got) != 3 || got[0] != 0 || got[1] != 1 || got[2] != 2 {
		t.Errorf("got %v, want [0 1 2]", got)
	}
}

func TestMissingRequiredArgumentIsArgumentError(t *testing.T) {
	e := New()
	sc := scope.NewGlobal()

	def := Def("f", []ast.Param{Param("a")}, Block(Return(Ident("a"))))
	prog := Program(def, ExprStmt(Call(Ident("f"))))

	_, err := e.Run(context.Background(), prog, sc)
	if err == nil {
		t.Fatal("expected an error for missing argument")
	}
}
