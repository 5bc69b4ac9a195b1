package ast

import "testing"

func TestProgramPosition(t *testing.T) {
	p := &Program{Pos: Pos{Line: 1, Column: 1}}
	if p.Position().Line != 1 {
		t.Errorf("expected line 1, got %d", p.Position().Line)
	}
}

func TestStatementNodesImplementInterface(t *testing.T) {
	var stmts []Statement = []Statement{
		&Statements{},
		&ExpressionStatement{Expr: &Identifier{Name: "x"}},
		&Assign{LHS: &Identifier{Name: "x"}, RHS: &Literal{Val: int64(1)}},
		&AssignModify{LHS: &Identifier{Name: "x"}, Op: "+=", RHS: &Literal{Val: int64(1)}},
		&If{Cond: &Identifier{Name: "x"}, Then: &Pass{}},
		&IfElse{Cond: &Identifier{Name: "x"}, Then: &Pass{}, Else: &Pass{}},
		&For{Var: "i", Over: &Identifier{Name: "xs"}, Body: &Pass{}},
		&Break{},
		&Continue{},
		&Return{},
		&Yield{},
		&Pass{},
		&Def{Name: "f"},
		&Load{Module: "math"},
		&StructDecl{Name: "Point"},
		&Match{Subject: &Identifier{Name: "x"}},
	}
	for _, s := range stmts {
		if s.String() == "" {
			t.Errorf("%T.String() returned empty", s)
		}
	}
}

func TestExpressionNodesImplementInterface(t *testing.T) {
	var exprs []Expression = []Expression{
		&Literal{Val: int64(1)},
		&Identifier{Name: "x"},
		&TupleExpr{},
		&ListExpr{},
		&DictExpr{},
		&SetExpr{},
		&Call{Fn: &Identifier{Name: "f"}},
		&Index{Target: &Identifier{Name: "x"}, Index: &Literal{Val: int64(0)}},
		&Index2{Target: &Identifier{Name: "x"}, Start: &Literal{Val: int64(0)}, End: &Literal{Val: int64(1)}},
		&Slice{Target: &Identifier{Name: "x"}},
		&Dot{Target: &Identifier{Name: "x"}, Attr: "y"},
		&Not{Expr: &Identifier{Name: "x"}},
		&Minus{Expr: &Identifier{Name: "x"}},
		&Plus{Expr: &Identifier{Name: "x"}},
		&Op{Operator: "+", Left: &Identifier{Name: "x"}, Right: &Identifier{Name: "y"}},
		&If{Cond: &Identifier{Name: "c"}, Then: &Identifier{Name: "t"}, Else: &Identifier{Name: "e"}},
		&Lambda{},
		&ListComprehension{},
		&SetComprehension{},
		&DictComprehension{},
		&FString{},
	}
	for _, e := range exprs {
		if e.String() == "" {
			t.Errorf("%T.String() returned empty", e)
		}
	}
}

func TestTypeExprVariants(t *testing.T) {
	var types []TypeExpr = []TypeExpr{
		TypeAny{},
		TypeSimple{Name: "int"},
		TypeParameterized{Name: "list", Params: []TypeExpr{TypeSimple{Name: "int"}}},
		TypeOptional{Inner: TypeSimple{Name: "int"}},
	}
	for _, ty := range types {
		if ty.String() == "" {
			t.Errorf("%T.String() returned empty", ty)
		}
	}
}
