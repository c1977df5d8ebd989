// Package compile lowers ICU MessageFormat messages into instructions
// consumed by runtime formatters.
package compile

import (
	"cmp"
	"slices"
	"strings"

	"github.com/lingui/catalog/icu"
)

// Instruction is either a Literal or a Sequence.
type Instruction interface{ instruction() }

// Node is either a Literal or a Call.
type Node interface{ node() }

// Literal is plain text. A message without any placeholder compiles to
// a single Literal. Inside a plural, the Literal "#" stands for the number.
type Literal string

// Sequence is a list of nodes to be formatted and concatenated.
type Sequence []Node

// Call formats the argument Arg.
type Call struct {
	Arg string

	// Kind is empty for a plain argument, "plural", "select", "selectordinal"
	// for choices, or the name of a custom format like "number" or "date".
	Kind string

	Style  string // Custom format style, optional.
	Offset int    // Plural offset.
	Cases  []Case // Evaluation order.
}

// Case is a choice case.
type Case struct {
	Label string
	Body  []Node
}

func (Literal) instruction()  {}
func (Sequence) instruction() {}
func (Literal) node()         {}
func (Call) node()            {}

// Compile lowers tokens into an instruction.
func Compile(tokens []icu.Token) Instruction {
	if !icu.HasPlaceholders(tokens) {
		var b strings.Builder
		for _, t := range tokens {
			if t, ok := t.(icu.Text); ok {
				b.WriteString(t.Value)
			}
		}
		return Literal(b.String())
	}
	return Sequence(lower(tokens))
}

// CompileString parses and compiles message.
func CompileString(message string) (Instruction, error) {
	tokens, err := icu.Parse(message)
	if err != nil {
		return nil, err
	}
	return Compile(tokens), nil
}

func lower(tokens []icu.Token) []Node {
	nodes := make([]Node, 0, len(tokens))
	for _, t := range tokens {
		switch t := t.(type) {
		case icu.Text:
			nodes = append(nodes, Literal(t.Value))
		case icu.Octothorpe:
			nodes = append(nodes, Literal("#"))
		case icu.Argument:
			nodes = append(nodes, Call{Arg: t.Name, Kind: t.Format, Style: t.Style})
		case icu.Choice:
			ordered := orderCases(t.Kind, t.Cases)
			cases := make([]Case, len(ordered))
			for i, c := range ordered {
				cases[i] = Case{Label: c.Label, Body: lower(c.Body)}
			}
			nodes = append(nodes, Call{
				Arg:    t.Name,
				Kind:   t.Kind.String(),
				Offset: t.Offset,
				Cases:  cases,
			})
		}
	}
	return nodes
}

// orderCases puts exact value cases first in numeric order followed by
// CLDR categories in canonical order. Other cases keep their order.
// "other" always goes last.
func orderCases(kind icu.Kind, cases []icu.Case) []icu.Case {
	rank := func(c icu.Case) (group, n int) {
		if c.Label == "other" {
			return 3, 0
		}
		if kind == icu.KindSelect {
			return 1, 0
		}
		if v, ok := icu.ExactValue(c.Label); ok {
			return 0, v
		}
		if i := icu.CLDRIndex(c.Label); i != -1 {
			return 1, i
		}
		return 2, 0
	}
	ordered := slices.Clone(cases)
	slices.SortStableFunc(ordered, func(a, b icu.Case) int {
		ga, na := rank(a)
		gb, nb := rank(b)
		return cmp.Or(cmp.Compare(ga, gb), cmp.Compare(na, nb))
	})
	return ordered
}
