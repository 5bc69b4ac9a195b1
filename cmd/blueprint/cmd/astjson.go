package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cwbudde/blueprint/internal/ast"
)

// decodeProgram parses the JSON-serialized AST this binary accepts in
// place of source text (ast.Program's doc comment: parsing is an explicit
// non-goal, the tree is produced by an external front-end). Every node is
// a JSON object carrying a "type" discriminant plus that node's own
// fields, mirroring internal/ast's Go shapes one-to-one. Node position
// info isn't carried through: ast's per-node Pos lives in an unexported
// embedded field only internal/ast itself can set, the same way
// internal/astbuild's constructors leave it zero.
func decodeProgram(data []byte) (*ast.Program, error) {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("invalid AST document: %w", err)
	}
	stmts, err := decodeStatementList(env["statements"])
	if err != nil {
		return nil, err
	}
	return &ast.Program{Statements: stmts}, nil
}

func decodeNode(raw json.RawMessage) (map[string]json.RawMessage, string, error) {
	if isNull(raw) {
		return nil, "", nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, "", err
	}
	typ := fieldString(m, "type")
	return m, typ, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func fieldString(m map[string]json.RawMessage, key string) string {
	raw, ok := m[key]
	if !ok {
		return ""
	}
	var s string
	_ = json.Unmarshal(raw, &s)
	return s
}

func fieldBool(m map[string]json.RawMessage, key string) bool {
	raw, ok := m[key]
	if !ok {
		return false
	}
	var b bool
	_ = json.Unmarshal(raw, &b)
	return b
}

func rawArray(raw json.RawMessage) ([]json.RawMessage, error) {
	if isNull(raw) {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ---- statements ----

func decodeStatementList(raw json.RawMessage) ([]ast.Statement, error) {
	items, err := rawArray(raw)
	if err != nil {
		return nil, err
	}
	out := make([]ast.Statement, len(items))
	for i, it := range items {
		s, err := decodeStatement(it)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func decodeOptStatement(m map[string]json.RawMessage, key string) (ast.Statement, error) {
	raw, ok := m[key]
	if !ok || isNull(raw) {
		return nil, nil
	}
	return decodeStatement(raw)
}

func decodeReqStatement(m map[string]json.RawMessage, key string) (ast.Statement, error) {
	s, err := decodeOptStatement(m, key)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("missing required statement field %q", key)
	}
	return s, nil
}

func decodeStatement(raw json.RawMessage) (ast.Statement, error) {
	m, typ, err := decodeNode(raw)
	if err != nil {
		return nil, fmt.Errorf("statement: %w", err)
	}
	if m == nil {
		return nil, nil
	}

	switch typ {
	case "Statements":
		body, err := decodeStatementList(m["body"])
		if err != nil {
			return nil, err
		}
		return &ast.Statements{Body: body}, nil

	case "ExpressionStatement":
		expr, err := decodeReqExpression(m, "expr")
		if err != nil {
			return nil, err
		}
		return &ast.ExpressionStatement{Expr: expr}, nil

	case "Assign":
		lhs, err := decodeReqExpression(m, "lhs")
		if err != nil {
			return nil, err
		}
		rhs, err := decodeReqExpression(m, "rhs")
		if err != nil {
			return nil, err
		}
		return &ast.Assign{LHS: lhs, RHS: rhs}, nil

	case "AssignModify":
		lhs, err := decodeReqExpression(m, "lhs")
		if err != nil {
			return nil, err
		}
		rhs, err := decodeReqExpression(m, "rhs")
		if err != nil {
			return nil, err
		}
		return &ast.AssignModify{LHS: lhs, Op: fieldString(m, "op"), RHS: rhs}, nil

	case "If":
		cond, err := decodeReqExpression(m, "cond")
		if err != nil {
			return nil, err
		}
		then, err := decodeReqStatement(m, "then")
		if err != nil {
			return nil, err
		}
		return &ast.If{Cond: cond, Then: then}, nil

	case "IfElse":
		cond, err := decodeReqExpression(m, "cond")
		if err != nil {
			return nil, err
		}
		then, err := decodeReqStatement(m, "then")
		if err != nil {
			return nil, err
		}
		els, err := decodeReqStatement(m, "else")
		if err != nil {
			return nil, err
		}
		return &ast.IfElse{Cond: cond, Then: then, Else: els}, nil

	case "For":
		over, err := decodeReqExpression(m, "over")
		if err != nil {
			return nil, err
		}
		body, err := decodeReqStatement(m, "body")
		if err != nil {
			return nil, err
		}
		return &ast.For{Var: fieldString(m, "var"), Over: over, Body: body}, nil

	case "Break":
		return &ast.Break{}, nil

	case "Continue":
		return &ast.Continue{}, nil

	case "Pass":
		return &ast.Pass{}, nil

	case "Return":
		expr, err := decodeOptExpression(m, "expr")
		if err != nil {
			return nil, err
		}
		return &ast.Return{Expr: expr}, nil

	case "Yield":
		expr, err := decodeOptExpression(m, "expr")
		if err != nil {
			return nil, err
		}
		return &ast.Yield{Expr: expr}, nil

	case "Def":
		params, err := decodeParams(m["params"])
		if err != nil {
			return nil, err
		}
		body, err := decodeReqStatement(m, "body")
		if err != nil {
			return nil, err
		}
		return &ast.Def{Name: fieldString(m, "name"), Params: params, Body: body}, nil

	case "Load":
		args, err := decodeLoadArgs(m["args"])
		if err != nil {
			return nil, err
		}
		return &ast.Load{Module: fieldString(m, "module"), Args: args}, nil

	case "StructDecl":
		fields, err := decodeStructFields(m["fields"])
		if err != nil {
			return nil, err
		}
		return &ast.StructDecl{Name: fieldString(m, "name"), Fields: fields}, nil

	case "Match":
		subject, err := decodeReqExpression(m, "subject")
		if err != nil {
			return nil, err
		}
		cases, err := decodeMatchCases(m["cases"])
		if err != nil {
			return nil, err
		}
		return &ast.Match{Subject: subject, Cases: cases}, nil

	default:
		return nil, fmt.Errorf("unknown statement type %q", typ)
	}
}

// ---- expressions ----

func decodeReqExpression(m map[string]json.RawMessage, key string) (ast.Expression, error) {
	e, err := decodeOptExpression(m, key)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("missing required expression field %q", key)
	}
	return e, nil
}

func decodeOptExpression(m map[string]json.RawMessage, key string) (ast.Expression, error) {
	raw, ok := m[key]
	if !ok {
		return nil, nil
	}
	return decodeExpression(raw)
}

func decodeExpressionList(raw json.RawMessage) ([]ast.Expression, error) {
	items, err := rawArray(raw)
	if err != nil {
		return nil, err
	}
	out := make([]ast.Expression, len(items))
	for i, it := range items {
		e, err := decodeExpression(it)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func decodeExpression(raw json.RawMessage) (ast.Expression, error) {
	m, typ, err := decodeNode(raw)
	if err != nil {
		return nil, fmt.Errorf("expression: %w", err)
	}
	if m == nil {
		return nil, nil
	}

	switch typ {
	case "Literal":
		val, err := decodeLiteralValue(m["value"])
		if err != nil {
			return nil, err
		}
		return &ast.Literal{Val: val}, nil

	case "Identifier":
		return &ast.Identifier{Name: fieldString(m, "name")}, nil

	case "TupleExpr":
		items, err := decodeExpressionList(m["items"])
		if err != nil {
			return nil, err
		}
		return &ast.TupleExpr{Items: items}, nil

	case "ListExpr":
		items, err := decodeExpressionList(m["items"])
		if err != nil {
			return nil, err
		}
		return &ast.ListExpr{Items: items}, nil

	case "SetExpr":
		items, err := decodeExpressionList(m["items"])
		if err != nil {
			return nil, err
		}
		return &ast.SetExpr{Items: items}, nil

	case "DictExpr":
		entries, err := decodeDictEntries(m["entries"])
		if err != nil {
			return nil, err
		}
		return &ast.DictExpr{Entries: entries}, nil

	case "Call":
		fn, err := decodeReqExpression(m, "fn")
		if err != nil {
			return nil, err
		}
		args, err := decodeArgs(m["args"])
		if err != nil {
			return nil, err
		}
		return &ast.Call{Fn: fn, Args: args}, nil

	case "Index":
		target, err := decodeReqExpression(m, "target")
		if err != nil {
			return nil, err
		}
		idx, err := decodeReqExpression(m, "index")
		if err != nil {
			return nil, err
		}
		return &ast.Index{Target: target, Index: idx}, nil

	case "Index2":
		target, err := decodeReqExpression(m, "target")
		if err != nil {
			return nil, err
		}
		start, err := decodeReqExpression(m, "start")
		if err != nil {
			return nil, err
		}
		end, err := decodeReqExpression(m, "end")
		if err != nil {
			return nil, err
		}
		return &ast.Index2{Target: target, Start: start, End: end}, nil

	case "Slice":
		target, err := decodeReqExpression(m, "target")
		if err != nil {
			return nil, err
		}
		low, err := decodeOptExpression(m, "low")
		if err != nil {
			return nil, err
		}
		high, err := decodeOptExpression(m, "high")
		if err != nil {
			return nil, err
		}
		step, err := decodeOptExpression(m, "step")
		if err != nil {
			return nil, err
		}
		return &ast.Slice{Target: target, Low: low, High: high, Step: step}, nil

	case "Dot":
		target, err := decodeReqExpression(m, "target")
		if err != nil {
			return nil, err
		}
		return &ast.Dot{Target: target, Attr: fieldString(m, "attr")}, nil

	case "Not":
		expr, err := decodeReqExpression(m, "expr")
		if err != nil {
			return nil, err
		}
		return &ast.Not{Expr: expr}, nil

	case "Minus":
		expr, err := decodeReqExpression(m, "expr")
		if err != nil {
			return nil, err
		}
		return &ast.Minus{Expr: expr}, nil

	case "Plus":
		expr, err := decodeReqExpression(m, "expr")
		if err != nil {
			return nil, err
		}
		return &ast.Plus{Expr: expr}, nil

	case "Op":
		left, err := decodeReqExpression(m, "left")
		if err != nil {
			return nil, err
		}
		right, err := decodeReqExpression(m, "right")
		if err != nil {
			return nil, err
		}
		return &ast.Op{Operator: fieldString(m, "operator"), Left: left, Right: right}, nil

	case "If":
		cond, err := decodeReqExpression(m, "cond")
		if err != nil {
			return nil, err
		}
		then, err := decodeReqExpression(m, "then")
		if err != nil {
			return nil, err
		}
		els, err := decodeReqExpression(m, "else")
		if err != nil {
			return nil, err
		}
		return &ast.If{Cond: cond, Then: then, Else: els}, nil

	case "Lambda":
		params, err := decodeParams(m["params"])
		if err != nil {
			return nil, err
		}
		body, err := decodeReqExpression(m, "body")
		if err != nil {
			return nil, err
		}
		return &ast.Lambda{Params: params, Body: body}, nil

	case "ListComprehension":
		elt, err := decodeReqExpression(m, "elt")
		if err != nil {
			return nil, err
		}
		clauses, err := decodeCompClauses(m["clauses"])
		if err != nil {
			return nil, err
		}
		return &ast.ListComprehension{Elt: elt, Clauses: clauses}, nil

	case "SetComprehension":
		elt, err := decodeReqExpression(m, "elt")
		if err != nil {
			return nil, err
		}
		clauses, err := decodeCompClauses(m["clauses"])
		if err != nil {
			return nil, err
		}
		return &ast.SetComprehension{Elt: elt, Clauses: clauses}, nil

	case "DictComprehension":
		key, err := decodeReqExpression(m, "key")
		if err != nil {
			return nil, err
		}
		value, err := decodeReqExpression(m, "value")
		if err != nil {
			return nil, err
		}
		clauses, err := decodeCompClauses(m["clauses"])
		if err != nil {
			return nil, err
		}
		return &ast.DictComprehension{Key: key, Value: value, Clauses: clauses}, nil

	case "FString":
		parts, err := decodeFStringParts(m["parts"])
		if err != nil {
			return nil, err
		}
		return &ast.FString{Parts: parts}, nil

	default:
		return nil, fmt.Errorf("unknown expression type %q", typ)
	}
}

// decodeLiteralValue maps JSON value shapes onto ast.Literal.Val: null,
// bool, string pass through directly; numbers decode to int64 when they
// carry no fractional/exponent part, float64 otherwise, matching the
// value package's own int/float split.
func decodeLiteralValue(raw json.RawMessage) (any, error) {
	if isNull(raw) {
		return nil, nil
	}
	var v any
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if n, ok := v.(json.Number); ok {
		s := n.String()
		if !strings.ContainsAny(s, ".eE") {
			if i, err := n.Int64(); err == nil {
				return i, nil
			}
		}
		f, err := n.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	return v, nil
}

// ---- supporting structures ----

func decodeParams(raw json.RawMessage) ([]ast.Param, error) {
	items, err := rawArray(raw)
	if err != nil {
		return nil, err
	}
	out := make([]ast.Param, len(items))
	for i, it := range items {
		var m map[string]json.RawMessage
		if err := json.Unmarshal(it, &m); err != nil {
			return nil, fmt.Errorf("param %d: %w", i, err)
		}
		def, err := decodeOptExpression(m, "default")
		if err != nil {
			return nil, err
		}
		out[i] = ast.Param{Name: fieldString(m, "name"), Default: def, Kind: decodeParamKind(fieldString(m, "kind"))}
	}
	return out, nil
}

func decodeParamKind(kind string) ast.ParamKind {
	switch kind {
	case "args":
		return ast.ParamArgs
	case "kwargs":
		return ast.ParamKwargs
	default:
		return ast.ParamPositional
	}
}

func decodeArgs(raw json.RawMessage) ([]ast.Arg, error) {
	items, err := rawArray(raw)
	if err != nil {
		return nil, err
	}
	out := make([]ast.Arg, len(items))
	for i, it := range items {
		var m map[string]json.RawMessage
		if err := json.Unmarshal(it, &m); err != nil {
			return nil, fmt.Errorf("arg %d: %w", i, err)
		}
		val, err := decodeReqExpression(m, "value")
		if err != nil {
			return nil, err
		}
		out[i] = ast.Arg{Name: fieldString(m, "name"), Value: val, Spread: fieldBool(m, "spread")}
	}
	return out, nil
}

func decodeDictEntries(raw json.RawMessage) ([]ast.DictEntryExpr, error) {
	items, err := rawArray(raw)
	if err != nil {
		return nil, err
	}
	out := make([]ast.DictEntryExpr, len(items))
	for i, it := range items {
		var m map[string]json.RawMessage
		if err := json.Unmarshal(it, &m); err != nil {
			return nil, fmt.Errorf("dict entry %d: %w", i, err)
		}
		key, err := decodeReqExpression(m, "key")
		if err != nil {
			return nil, err
		}
		val, err := decodeReqExpression(m, "value")
		if err != nil {
			return nil, err
		}
		out[i] = ast.DictEntryExpr{Key: key, Value: val}
	}
	return out, nil
}

func decodeLoadArgs(raw json.RawMessage) ([]ast.LoadArg, error) {
	items, err := rawArray(raw)
	if err != nil {
		return nil, err
	}
	out := make([]ast.LoadArg, len(items))
	for i, it := range items {
		var a struct {
			Local string `json:"local"`
			Their string `json:"their"`
		}
		if err := json.Unmarshal(it, &a); err != nil {
			return nil, fmt.Errorf("load arg %d: %w", i, err)
		}
		out[i] = ast.LoadArg{Local: a.Local, Their: a.Their}
	}
	return out, nil
}

func decodeStructFields(raw json.RawMessage) ([]ast.StructFieldDecl, error) {
	items, err := rawArray(raw)
	if err != nil {
		return nil, err
	}
	out := make([]ast.StructFieldDecl, len(items))
	for i, it := range items {
		var m map[string]json.RawMessage
		if err := json.Unmarshal(it, &m); err != nil {
			return nil, fmt.Errorf("struct field %d: %w", i, err)
		}
		typ, err := decodeTypeExpr(m["ftype"])
		if err != nil {
			return nil, err
		}
		def, err := decodeOptExpression(m, "default")
		if err != nil {
			return nil, err
		}
		out[i] = ast.StructFieldDecl{Name: fieldString(m, "name"), Type: typ, Default: def}
	}
	return out, nil
}

func decodeTypeExpr(raw json.RawMessage) (ast.TypeExpr, error) {
	m, typ, err := decodeNode(raw)
	if err != nil {
		return nil, fmt.Errorf("type expr: %w", err)
	}
	if m == nil {
		return ast.TypeAny{}, nil
	}
	switch typ {
	case "Simple":
		return ast.TypeSimple{Name: fieldString(m, "name")}, nil
	case "Parameterized":
		items, err := rawArray(m["params"])
		if err != nil {
			return nil, err
		}
		params := make([]ast.TypeExpr, len(items))
		for i, it := range items {
			p, err := decodeTypeExpr(it)
			if err != nil {
				return nil, err
			}
			params[i] = p
		}
		return ast.TypeParameterized{Name: fieldString(m, "name"), Params: params}, nil
	case "Optional":
		inner, err := decodeTypeExpr(m["inner"])
		if err != nil {
			return nil, err
		}
		return ast.TypeOptional{Inner: inner}, nil
	case "Any", "":
		return ast.TypeAny{}, nil
	default:
		return nil, fmt.Errorf("unknown type expr kind %q", typ)
	}
}

func decodeMatchCases(raw json.RawMessage) ([]ast.MatchCase, error) {
	items, err := rawArray(raw)
	if err != nil {
		return nil, err
	}
	out := make([]ast.MatchCase, len(items))
	for i, it := range items {
		var m map[string]json.RawMessage
		if err := json.Unmarshal(it, &m); err != nil {
			return nil, fmt.Errorf("match case %d: %w", i, err)
		}
		pattern, err := decodeReqExpression(m, "pattern")
		if err != nil {
			return nil, err
		}
		guard, err := decodeOptExpression(m, "guard")
		if err != nil {
			return nil, err
		}
		body, err := decodeReqStatement(m, "body")
		if err != nil {
			return nil, err
		}
		out[i] = ast.MatchCase{Pattern: pattern, Guard: guard, Body: body}
	}
	return out, nil
}

func decodeCompClauses(raw json.RawMessage) ([]ast.CompClause, error) {
	items, err := rawArray(raw)
	if err != nil {
		return nil, err
	}
	out := make([]ast.CompClause, len(items))
	for i, it := range items {
		var m map[string]json.RawMessage
		if err := json.Unmarshal(it, &m); err != nil {
			return nil, fmt.Errorf("comprehension clause %d: %w", i, err)
		}
		over, err := decodeReqExpression(m, "over")
		if err != nil {
			return nil, err
		}
		ifs, err := decodeExpressionList(m["ifs"])
		if err != nil {
			return nil, err
		}
		out[i] = ast.CompClause{Var: fieldString(m, "var"), Over: over, Ifs: ifs}
	}
	return out, nil
}

func decodeFStringParts(raw json.RawMessage) ([]ast.FStringPart, error) {
	items, err := rawArray(raw)
	if err != nil {
		return nil, err
	}
	out := make([]ast.FStringPart, len(items))
	for i, it := range items {
		var m map[string]json.RawMessage
		if err := json.Unmarshal(it, &m); err != nil {
			return nil, fmt.Errorf("fstring part %d: %w", i, err)
		}
		expr, err := decodeOptExpression(m, "expr")
		if err != nil {
			return nil, err
		}
		out[i] = ast.FStringPart{Text: fieldString(m, "text"), Expr: expr, Spec: fieldString(m, "spec")}
	}
	return out, nil
}
