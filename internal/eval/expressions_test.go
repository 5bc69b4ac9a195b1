package eval

import (
	"context"
	"testing"

	"github.com/cwbudde/blueprint/internal/ast"
	. "github.com/cwbudde/blueprint/internal/astbuild"
	"github.com/cwbudde/blueprint/internal/scope"
	"github.com/cwbudde/blueprint/internal/value"
)

func run(t *testing.T, e *Evaluator, prog *ast.Program, sc *scope.Scope) value.Value {
	t.Helper()
	v, err := e.Run(context.Background(), prog, sc)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return v
}

func TestArithmeticExpressions(t *testing.T) {
	e := New()
	sc := scope.NewGlobal()

	prog := Program(ExprStmt(BinOp("+", Lit(int64(2)), BinOp("*", Lit(int64(3)), Lit(int64(4))))))
	got := run(t, e, prog, sc)

	want := value.Int(14)
	if !value.Equal(got, want) {
		t.Errorf("got %v, want %v", got.Repr(), want.Repr())
	}
}

func TestStringConcatAndRepeat(t *testing.T) {
	e := New()
	sc := scope.NewGlobal()

	prog := Program(ExprStmt(BinOp("+", Lit("ab"), Lit("cd"))))
	got := run(t, e, prog, sc)
	if got.Display() != "abcd" {
		t.Errorf("concat: got %s", got.Display())
	}

	prog2 := Program(ExprStmt(BinOp("*", Lit("ab"), Lit(int64(3)))))
	got2 := run(t, e, prog2, sc)
	if s, ok := got2.(*value.String); !ok || s.Display() != "ababab" {
		t.Errorf("repeat: got %v", got2.Display())
	}
}

func TestListIndexAndSlice(t *testing.T) {
	e := New()
	sc := scope.NewGlobal()

	lst := List(Lit(int64(0)), Lit(int64(1)), Lit(int64(2)), Lit(int64(3)), Lit(int64(4)))
	prog := Program(Assign(Ident("xs"), lst), ExprStmt(Index(Ident("xs"), Lit(int64(-1)))))
	got := run(t, e, prog, sc)
	if got.Repr() != "4" {
		t.Errorf("xs[-1]: got %s", got.Repr())
	}

	prog2 := Program(
		Assign(Ident("xs"), lst),
		ExprStmt(&ast.Index2{Target: Ident("xs"), Start: Lit(int64(1)), End: Lit(int64(3))}),
	)
	got2 := run(t, e, prog2, sc)
	want := value.NewList([]value.Value{value.Int(1), value.Int(2)})
	if !value.Equal(got2, want) {
		t.Errorf("xs[1:3]: got %s", got2.Repr())
	}
}

func TestAndOrShortCircuit(t *testing.T) {
	e := New()
	sc := scope.NewGlobal()

	prog := Program(ExprStmt(BinOp("or", Lit(int64(0)), Lit(int64(5)))))
	got := run(t, e, prog, sc)
	if !value.Equal(got, value.Int(5)) {
		t.Errorf("0 or 5: got %s", got.Repr())
	}

	prog2 := Program(ExprStmt(BinOp("and", Lit(int64(0)), Lit(int64(5)))))
	got2 := run(t, e, prog2, sc)
	if !value.Equal(got2, value.Int(0)) {
		t.Errorf("0 and 5: got %s", got2.Repr())
	}
}

func TestDictAndInOperator(t *testing.T) {
	e := New()
	sc := scope.NewGlobal()

	d := &ast.DictExpr{Entries: []ast.DictEntryExpr{
		{Key: Lit("a"), Value: Lit(int64(1))},
	}}
	prog := Program(
		Assign(Ident("d"), d),
		ExprStmt(BinOp("in", Lit("a"), Ident("d"))),
	)
	got := run(t, e, prog, sc)
	if got != value.Bool(true) {
		t.Errorf("'a' in d: got %v", got)
	}
}

func TestFString(t *testing.T) {
	e := New()
	sc := scope.NewGlobal()
	sc.Define("name", value.NewString("world"))

	fs := &ast.FString{Parts: []ast.FStringPart{
		{Text: "hello "},
		{Expr: Ident("name")},
	}}
	prog := Program(ExprStmt(fs))
	got := run(t, e, prog, sc)
	if got.Display() != "hello world" {
		t.Errorf("fstring: got %q", got.Display())
	}
}
