package ast

// ---- Expressions (spec §6.1) ----

// Literal holds a parsed scalar constant. Val is one of nil (None), bool,
// int64, float64, or string; containers are never literals themselves (they
// have their own node kinds below).
type Literal struct {
	base
	Val any
}

func (*Literal) expressionNode() {}
func (l *Literal) String() string { return "<literal>" }

type Identifier struct {
	base
	Name string
}

func (*Identifier) expressionNode() {}
func (i *Identifier) String() string { return i.Name }

type TupleExpr struct {
	base
	Items []Expression
}

func (*TupleExpr) expressionNode() {}
func (*TupleExpr) String() string  { return "(...)" }

type ListExpr struct {
	base
	Items []Expression
}

func (*ListExpr) expressionNode() {}
func (*ListExpr) String() string  { return "[...]" }

type DictEntryExpr struct {
	Key   Expression
	Value Expression
}

type DictExpr struct {
	base
	Entries []DictEntryExpr
}

func (*DictExpr) expressionNode() {}
func (*DictExpr) String() string  { return "{...}" }

type SetExpr struct {
	base
	Items []Expression
}

func (*SetExpr) expressionNode() {}
func (*SetExpr) String() string  { return "{...}" }

type Arg struct {
	Name  string // empty for positional args
	Value Expression
	Spread bool // *args / **kwargs forwarding
}

type Call struct {
	base
	Fn   Expression
	Args []Arg
}

func (*Call) expressionNode() {}
func (c *Call) String() string { return c.Fn.String() + "(...)" }

// Index is single-subscript access: expr[index].
type Index struct {
	base
	Target Expression
	Index  Expression
}

func (*Index) expressionNode() {}
func (i *Index) String() string { return i.Target.String() + "[...]" }

// Index2 is the two-required-bound slice form `target[start:end]`, with
// neither bound omittable (both Expressions are non-nil).
type Index2 struct {
	base
	Target Expression
	Start  Expression
	End    Expression
}

func (*Index2) expressionNode() {}
func (i *Index2) String() string { return i.Target.String() + "[.:.]" }

// Slice is the full `target[low:high:step]` form, where any bound may be
// omitted (nil) and a step is optional.
type Slice struct {
	base
	Target Expression
	Low    Expression // nil if omitted
	High   Expression // nil if omitted
	Step   Expression // nil if omitted
}

func (*Slice) expressionNode() {}
func (s *Slice) String() string { return s.Target.String() + "[.:.:.]" }

type Dot struct {
	base
	Target Expression
	Attr   string
}

func (*Dot) expressionNode() {}
func (d *Dot) String() string { return d.Target.String() + "." + d.Attr }

type Not struct {
	base
	Expr Expression
}

func (*Not) expressionNode() {}
func (n *Not) String() string { return "not " + n.Expr.String() }

type Minus struct {
	base
	Expr Expression
}

func (*Minus) expressionNode() {}
func (m *Minus) String() string { return "-" + m.Expr.String() }

type Plus struct {
	base
	Expr Expression
}

func (*Plus) expressionNode() {}
func (p *Plus) String() string { return "+" + p.Expr.String() }

// Op is a binary operator application: arithmetic, comparison, boolean,
// and membership ("in"/"not in") operators share this single node kind,
// distinguished by Operator.
type Op struct {
	base
	Operator string
	Left     Expression
	Right    Expression
}

func (*Op) expressionNode() {}
func (o *Op) String() string { return o.Left.String() + " " + o.Operator + " " + o.Right.String() }

// If is the ternary conditional expression: `Then if Cond else Else`.
type If struct {
	base
	Cond Expression
	Then Expression
	Else Expression
}

func (*If) expressionNode() {}
func (i *If) String() string { return i.Then.String() + " if " + i.Cond.String() + " else " + i.Else.String() }

type Lambda struct {
	base
	Params []Param
	Body   Expression
}

func (*Lambda) expressionNode() {}
func (*Lambda) String() string  { return "lambda ..." }

// Comprehension clauses are shared by list/set/dict comprehensions: a
// `for Var in Over` clause optionally followed by `if` filters.
type CompClause struct {
	Var    string
	Over   Expression
	Ifs    []Expression
}

type ListComprehension struct {
	base
	Elt     Expression
	Clauses []CompClause
}

func (*ListComprehension) expressionNode() {}
func (*ListComprehension) String() string  { return "[... for ...]" }

type SetComprehension struct {
	base
	Elt     Expression
	Clauses []CompClause
}

func (*SetComprehension) expressionNode() {}
func (*SetComprehension) String() string  { return "{... for ...}" }

type DictComprehension struct {
	base
	Key     Expression
	Value   Expression
	Clauses []CompClause
}

func (*DictComprehension) expressionNode() {}
func (*DictComprehension) String() string  { return "{...: ... for ...}" }

// FStringPart is either a literal text run (Expr nil) or an interpolated
// expression with an optional format spec.
type FStringPart struct {
	Text string
	Expr Expression
	Spec string
}

type FString struct {
	base
	Parts []FStringPart
}

func (*FString) expressionNode() {}
func (*FString) String() string  { return "f\"...\"" }
