// Package astbuild offers small helper constructors for building
// internal/ast trees programmatically, since this engine accepts a
// serialized AST rather than parsing source text (spec §1 non-goals).
// It is used by tests.
package astbuild

import "github.com/cwbudde/blueprint/internal/ast"

func Lit(v any) *ast.Literal { return &ast.Literal{Val: v} }

func Ident(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

func Block(stmts ...ast.Statement) *ast.Statements {
	return &ast.Statements{Body: stmts}
}

func ExprStmt(e ast.Expression) *ast.ExpressionStatement {
	return &ast.ExpressionStatement{Expr: e}
}

func Assign(lhs, rhs ast.Expression) *ast.Assign {
	return &ast.Assign{LHS: lhs, RHS: rhs}
}

func AssignModify(lhs ast.Expression, op string, rhs ast.Expression) *ast.AssignModify {
	return &ast.AssignModify{LHS: lhs, Op: op, RHS: rhs}
}

func If(cond ast.Expression, then ast.Statement) *ast.If {
	return &ast.If{Cond: cond, Then: then}
}

func IfElse(cond ast.Expression, then, els ast.Statement) *ast.IfElse {
	return &ast.IfElse{Cond: cond, Then: then, Else: els}
}

func For(v string, over ast.Expression, body ast.Statement) *ast.For {
	return &ast.For{Var: v, Over: over, Body: body}
}

func Return(e ast.Expression) *ast.Return { return &ast.Return{Expr: e} }

func Yield(e ast.Expression) *ast.Yield { return &ast.Yield{Expr: e} }

func Def(name string, params []ast.Param, body ast.Statement) *ast.Def {
	return &ast.Def{Name: name, Params: params, Body: body}
}

func Param(name string) ast.Param { return ast.Param{Name: name, Kind: ast.ParamPositional} }

func ParamDefault(name string, def ast.Expression) ast.Param {
	return ast.Param{Name: name, Default: def, Kind: ast.ParamPositional}
}

func Call(fn ast.Expression, args ...ast.Expression) *ast.Call {
	callArgs := make([]ast.Arg, len(args))
	for i, a := range args {
		callArgs[i] = ast.Arg{Value: a}
	}
	return &ast.Call{Fn: fn, Args: callArgs}
}

func CallKw(fn ast.Expression, name string, value ast.Expression) ast.Arg {
	return ast.Arg{Name: name, Value: value}
}

func BinOp(op string, l, r ast.Expression) *ast.Op { return &ast.Op{Operator: op, Left: l, Right: r} }

func Dot(target ast.Expression, attr string) *ast.Dot { return &ast.Dot{Target: target, Attr: attr} }

func Index(target, idx ast.Expression) *ast.Index { return &ast.Index{Target: target, Index: idx} }

func List(items ...ast.Expression) *ast.ListExpr { return &ast.ListExpr{Items: items} }

func Tuple(items ...ast.Expression) *ast.TupleExpr { return &ast.TupleExpr{Items: items} }

func Program(stmts ...ast.Statement) *ast.Program { return &ast.Program{Statements: stmts} }
