// Package icu provides the ICU MessageFormat token model
// together with a parser and a printer for it.
package icu

import (
	"strconv"
	"strings"
)

// Kind is the kind of a Choice.
type Kind int8

const (
	_ Kind = iota
	KindPlural
	KindSelect
	KindSelectOrdinal
)

func (k Kind) String() string {
	switch k {
	case KindPlural:
		return "plural"
	case KindSelect:
		return "select"
	case KindSelectOrdinal:
		return "selectordinal"
	}
	return ""
}

// ParseKind parses the argument type keyword of a Choice.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "plural":
		return KindPlural, true
	case "select":
		return KindSelect, true
	case "selectordinal":
		return KindSelectOrdinal, true
	}
	return 0, false
}

// Token is one of Text, Octothorpe, Argument or Choice.
type Token interface{ token() }

type (
	// Text is literal text.
	Text struct{ Value string }

	// Octothorpe stands for the number of the nearest enclosing plural.
	Octothorpe struct{}

	// Argument is a placeholder like {name} or {n, number, percent}.
	Argument struct {
		Name   string
		Format string // Optional.
		Style  string // Optional, requires Format.
	}

	// Choice is a plural, select or selectordinal clause.
	Choice struct {
		Name   string
		Kind   Kind
		Offset int
		Cases  []Case // In parser order.
	}

	Case struct {
		Label string
		Body  []Token
	}
)

func (Text) token()       {}
func (Octothorpe) token() {}
func (Argument) token()   {}
func (Choice) token()     {}

// Case returns the case labeled label.
func (c Choice) Case(label string) (Case, bool) {
	for _, cs := range c.Cases {
		if cs.Label == label {
			return cs, true
		}
	}
	return Case{}, false
}

// CLDR plural categories in their canonical order.
var CLDRLabels = [...]string{"zero", "one", "two", "few", "many", "other"}

// CLDRIndex returns the index of label in CLDRLabels or -1.
func CLDRIndex(label string) int {
	for i, l := range CLDRLabels {
		if l == label {
			return i
		}
	}
	return -1
}

// ExactValue reports the integer of an exact-value label like "=2".
func ExactValue(label string) (int, bool) {
	if !strings.HasPrefix(label, "=") {
		return 0, false
	}
	n, err := strconv.Atoi(label[1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

// HasPlaceholders reports whether tokens contain anything but Text.
func HasPlaceholders(tokens []Token) bool {
	for _, t := range tokens {
		switch t.(type) {
		case Text:
		case Octothorpe, Argument, Choice:
			return true
		}
	}
	return false
}

// RenameArgument returns a deep copy of tokens with every Argument and Choice
// named from renamed to to.
func RenameArgument(tokens []Token, from, to string) []Token {
	if tokens == nil {
		return nil
	}
	out := make([]Token, len(tokens))
	for i, t := range tokens {
		switch t := t.(type) {
		case Text, Octothorpe:
			out[i] = t
		case Argument:
			if t.Name == from {
				t.Name = to
			}
			out[i] = t
		case Choice:
			if t.Name == from {
				t.Name = to
			}
			cases := make([]Case, len(t.Cases))
			for j, c := range t.Cases {
				cases[j] = Case{Label: c.Label, Body: RenameArgument(c.Body, from, to)}
			}
			t.Cases = cases
			out[i] = t
		}
	}
	return out
}

// Print renders tokens back into MessageFormat syntax.
// Parse(Print(t)) yields t for any t produced by Parse.
func Print(tokens []Token) string {
	var b strings.Builder
	printTokens(&b, tokens, false)
	return b.String()
}

// PrintCase renders the body of a plural case where '#' is the number.
func PrintCase(body []Token) string {
	var b strings.Builder
	printTokens(&b, body, true)
	return b.String()
}

func printTokens(b *strings.Builder, tokens []Token, inPlural bool) {
	for _, t := range tokens {
		switch t := t.(type) {
		case Text:
			writeText(b, t.Value, inPlural)
		case Octothorpe:
			b.WriteByte('#')
		case Argument:
			b.WriteByte('{')
			b.WriteString(t.Name)
			if t.Format != "" {
				b.WriteString(", ")
				b.WriteString(t.Format)
				if t.Style != "" {
					b.WriteString(", ")
					b.WriteString(t.Style)
				}
			}
			b.WriteByte('}')
		case Choice:
			b.WriteByte('{')
			b.WriteString(t.Name)
			b.WriteString(", ")
			b.WriteString(t.Kind.String())
			b.WriteByte(',')
			if t.Offset != 0 {
				b.WriteString(" offset:")
				b.WriteString(strconv.Itoa(t.Offset))
			}
			nested := inPlural || t.Kind != KindSelect
			for _, c := range t.Cases {
				b.WriteByte(' ')
				b.WriteString(c.Label)
				b.WriteString(" {")
				printTokens(b, c.Body, nested)
				b.WriteByte('}')
			}
			b.WriteByte('}')
		}
	}
}

func writeText(b *strings.Builder, s string, inPlural bool) {
	quoted := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'':
			b.WriteString("''")
		case isSpecial(c, inPlural):
			if !quoted {
				b.WriteByte('\'')
				quoted = true
			}
			b.WriteByte(c)
		default:
			if quoted {
				b.WriteByte('\'')
				quoted = false
			}
			b.WriteByte(c)
		}
	}
	if quoted {
		b.WriteByte('\'')
	}
}

func isSpecial(c byte, inPlural bool) bool {
	return c == '{' || c == '}' || (inPlural && c == '#')
}
