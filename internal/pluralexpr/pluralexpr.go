// Package pluralexpr parses and evaluates the C expressions
// of gettext Plural-Forms headers, e.g.
//
//	nplurals=3; plural=n%10==1 && n%100!=11 ? 0 : n != 0 ? 1 : 2;
package pluralexpr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	ErrDivisionByZero  = errors.New("division by zero")
	ErrSlotOutOfRange  = errors.New("plural slot out of range")
	ErrInvalidNPlurals = errors.New("nplurals must be a positive integer")
)

var (
	lex = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Int", Pattern: `\d+`},
		{Name: "Ident", Pattern: `[a-zA-Z_]\w*`},
		{Name: "Op", Pattern: `\|\||&&|==|!=|<=|>=|[-+*/%<>!?:();=]`},
		{Name: "whitespace", Pattern: `\s+`},
	})
	exprParser   = participle.MustBuild[ternary](participle.Lexer(lex))
	headerParser = participle.MustBuild[header](participle.Lexer(lex))
)

// Expr is a parsed plural expression over the variable n.
type Expr struct {
	root *ternary
	src  string
}

// Parse parses a plural expression like "n != 1".
func Parse(src string) (*Expr, error) {
	root, err := exprParser.ParseString("plural", src)
	if err != nil {
		return nil, fmt.Errorf("parsing plural expression: %w", err)
	}
	return &Expr{root: root, src: root.source(src)}, nil
}

// String returns the expression source.
func (e *Expr) String() string { return e.src }

// Eval evaluates the expression for n with C semantics:
// comparisons and logical operators yield 1 or 0.
func (e *Expr) Eval(n int64) (int64, error) { return e.root.eval(n) }

// PluralForms is a parsed Plural-Forms header value.
type PluralForms struct {
	NPlurals int
	Plural   *Expr
}

// ParsePluralForms parses a header value like "nplurals=2; plural=n != 1;".
func ParsePluralForms(s string) (PluralForms, error) {
	h, err := headerParser.ParseString("Plural-Forms", s)
	if err != nil {
		return PluralForms{}, fmt.Errorf("parsing Plural-Forms: %w", err)
	}
	if h.NPlurals < 1 {
		return PluralForms{}, ErrInvalidNPlurals
	}
	return PluralForms{
		NPlurals: h.NPlurals,
		Plural:   &Expr{root: h.Plural, src: h.Plural.source(s)},
	}, nil
}

func (p PluralForms) String() string {
	return fmt.Sprintf("nplurals=%d; plural=%s;", p.NPlurals, p.Plural.String())
}

// Slot returns the plural slot index selected for n.
func (p PluralForms) Slot(n int64) (int, error) {
	v, err := p.Plural.Eval(n)
	if err != nil {
		return 0, err
	}
	if v < 0 || v >= int64(p.NPlurals) {
		return 0, fmt.Errorf("%w: %d for n=%d (nplurals=%d)",
			ErrSlotOutOfRange, v, n, p.NPlurals)
	}
	return int(v), nil
}

type header struct {
	NPlurals int      `parser:"'nplurals' '=' @Int ';'"`
	Plural   *ternary `parser:"'plural' '=' @@ ';'?"`
}

type ternary struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Cond *or      `parser:"@@"`
	Then *ternary `parser:"( '?' @@"`
	Else *ternary `parser:"  ':' @@ )?"`
}

// source returns the part of src t was parsed from.
func (t *ternary) source(src string) string {
	return strings.TrimSpace(src[t.Pos.Offset:t.EndPos.Offset])
}

type or struct {
	Left  *and   `parser:"@@"`
	Right []*and `parser:"( '||' @@ )*"`
}

type and struct {
	Left  *equality   `parser:"@@"`
	Right []*equality `parser:"( '&&' @@ )*"`
}

type equality struct {
	Left *relational   `parser:"@@"`
	Ops  []*equalityOp `parser:"@@*"`
}

type equalityOp struct {
	Op    string      `parser:"@( '==' | '!=' )"`
	Right *relational `parser:"@@"`
}

type relational struct {
	Left *additive       `parser:"@@"`
	Ops  []*relationalOp `parser:"@@*"`
}

type relationalOp struct {
	Op    string    `parser:"@( '<=' | '>=' | '<' | '>' )"`
	Right *additive `parser:"@@"`
}

type additive struct {
	Left *multiplicative `parser:"@@"`
	Ops  []*additiveOp   `parser:"@@*"`
}

type additiveOp struct {
	Op    string          `parser:"@( '+' | '-' )"`
	Right *multiplicative `parser:"@@"`
}

type multiplicative struct {
	Left *unary              `parser:"@@"`
	Ops  []*multiplicativeOp `parser:"@@*"`
}

type multiplicativeOp struct {
	Op    string `parser:"@( '*' | '/' | '%' )"`
	Right *unary `parser:"@@"`
}

type unary struct {
	Not     *unary   `parser:"  '!' @@"`
	Primary *primary `parser:"| @@"`
}

type primary struct {
	Int *int64   `parser:"  @Int"`
	N   bool     `parser:"| @'n'"`
	Sub *ternary `parser:"| '(' @@ ')'"`
}

func (t *ternary) eval(n int64) (int64, error) {
	c, err := t.Cond.eval(n)
	if err != nil || t.Then == nil {
		return c, err
	}
	if c != 0 {
		return t.Then.eval(n)
	}
	return t.Else.eval(n)
}

func (o *or) eval(n int64) (int64, error) {
	v, err := o.Left.eval(n)
	if err != nil {
		return 0, err
	}
	for _, r := range o.Right {
		if v != 0 {
			return 1, nil
		}
		if v, err = r.eval(n); err != nil {
			return 0, err
		}
	}
	if len(o.Right) > 0 {
		return boolInt(v != 0), nil
	}
	return v, nil
}

func (a *and) eval(n int64) (int64, error) {
	v, err := a.Left.eval(n)
	if err != nil {
		return 0, err
	}
	for _, r := range a.Right {
		if v == 0 {
			return 0, nil
		}
		if v, err = r.eval(n); err != nil {
			return 0, err
		}
	}
	if len(a.Right) > 0 {
		return boolInt(v != 0), nil
	}
	return v, nil
}

func (e *equality) eval(n int64) (int64, error) {
	v, err := e.Left.eval(n)
	if err != nil {
		return 0, err
	}
	for _, op := range e.Ops {
		r, err := op.Right.eval(n)
		if err != nil {
			return 0, err
		}
		if op.Op == "==" {
			v = boolInt(v == r)
		} else {
			v = boolInt(v != r)
		}
	}
	return v, nil
}

func (e *relational) eval(n int64) (int64, error) {
	v, err := e.Left.eval(n)
	if err != nil {
		return 0, err
	}
	for _, op := range e.Ops {
		r, err := op.Right.eval(n)
		if err != nil {
			return 0, err
		}
		switch op.Op {
		case "<":
			v = boolInt(v < r)
		case ">":
			v = boolInt(v > r)
		case "<=":
			v = boolInt(v <= r)
		case ">=":
			v = boolInt(v >= r)
		}
	}
	return v, nil
}

func (e *additive) eval(n int64) (int64, error) {
	v, err := e.Left.eval(n)
	if err != nil {
		return 0, err
	}
	for _, op := range e.Ops {
		r, err := op.Right.eval(n)
		if err != nil {
			return 0, err
		}
		if op.Op == "+" {
			v += r
		} else {
			v -= r
		}
	}
	return v, nil
}

func (e *multiplicative) eval(n int64) (int64, error) {
	v, err := e.Left.eval(n)
	if err != nil {
		return 0, err
	}
	for _, op := range e.Ops {
		r, err := op.Right.eval(n)
		if err != nil {
			return 0, err
		}
		if op.Op != "*" && r == 0 {
			return 0, ErrDivisionByZero
		}
		switch op.Op {
		case "*":
			v *= r
		case "/":
			v /= r
		case "%":
			v %= r
		}
	}
	return v, nil
}

func (u *unary) eval(n int64) (int64, error) {
	if u.Not != nil {
		v, err := u.Not.eval(n)
		return boolInt(v == 0), err
	}
	return u.Primary.eval(n)
}

func (p *primary) eval(n int64) (int64, error) {
	switch {
	case p.Int != nil:
		return *p.Int, nil
	case p.N:
		return n, nil
	}
	return p.Sub.eval(n)
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
