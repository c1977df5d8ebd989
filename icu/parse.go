package icu

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnexpectedToken = errors.New("found unexpected token")
	ErrUnexpectedEOF   = errors.New("unexpected end of message")
	ErrMissingOther    = errors.New("missing other case")
	ErrDuplicateCase   = errors.New("duplicate case")
	ErrInvalidLabel    = errors.New("invalid case label")
	ErrInvalidOffset   = errors.New("invalid offset")
)

// SyntaxError is returned by Parse.
type SyntaxError struct {
	Offset   int // Byte offset into the message.
	Expected string
	Err      error
}

func (e *SyntaxError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("%d: %s", e.Offset, e.Err.Error())
	}
	return fmt.Sprintf("%d: expected %s; %s", e.Offset, e.Expected, e.Err.Error())
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Parse parses a MessageFormat message.
// Adjacent text including escaped characters is merged into a single Text.
func Parse(message string) ([]Token, error) {
	p := parser{src: message}
	tokens, err := p.message(false)
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.src) {
		return nil, p.errorf(ErrUnexpectedToken, "end of message")
	}
	return tokens, nil
}

// ParseCase parses the body of a plural case where '#' is the number.
func ParseCase(body string) ([]Token, error) {
	p := parser{src: body}
	tokens, err := p.message(true)
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.src) {
		return nil, p.errorf(ErrUnexpectedToken, "end of message")
	}
	return tokens, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(err error, expected string) *SyntaxError {
	return &SyntaxError{Offset: p.pos, Expected: expected, Err: err}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

// word reads until whitespace or any of stop.
func (p *parser) word(stop string) string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' ||
			strings.IndexByte(stop, c) != -1 {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

// message parses until EOF or an unmatched '}' which is left unconsumed.
func (p *parser) message(inPlural bool) ([]Token, error) {
	var tokens []Token
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			tokens = append(tokens, Text{Value: text.String()})
			text.Reset()
		}
	}
	for p.pos < len(p.src) {
		switch c := p.src[p.pos]; {
		case c == '}':
			flush()
			return tokens, nil
		case c == '{':
			flush()
			t, err := p.placeholder(inPlural)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, t)
		case c == '#' && inPlural:
			flush()
			tokens = append(tokens, Octothorpe{})
			p.pos++
		case c == '\'':
			p.apostrophe(&text, inPlural)
		default:
			text.WriteByte(c)
			p.pos++
		}
	}
	flush()
	return tokens, nil
}

// apostrophe handles '' and quoted literals like '{'.
// An unterminated quoted literal extends to the end of the message.
func (p *parser) apostrophe(b *strings.Builder, inPlural bool) {
	p.pos++
	if p.pos < len(p.src) && p.src[p.pos] == '\'' {
		b.WriteByte('\'')
		p.pos++
		return
	}
	if p.pos >= len(p.src) || !isSpecial(p.src[p.pos], inPlural) {
		b.WriteByte('\'')
		return
	}
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '\'' {
			if p.pos+1 < len(p.src) && p.src[p.pos+1] == '\'' {
				b.WriteByte('\'')
				p.pos += 2
				continue
			}
			p.pos++
			return
		}
		b.WriteByte(c)
		p.pos++
	}
}

func (p *parser) placeholder(inPlural bool) (Token, error) {
	p.pos++ // '{'
	p.skipSpace()
	name := p.word("{},#'")
	if name == "" {
		if p.pos >= len(p.src) {
			return nil, p.errorf(ErrUnexpectedEOF, "argument name")
		}
		return nil, p.errorf(ErrUnexpectedToken, "argument name")
	}
	p.skipSpace()
	switch p.peek() {
	case '}':
		p.pos++
		return Argument{Name: name}, nil
	case ',':
		p.pos++
	case 0:
		return nil, p.errorf(ErrUnexpectedEOF, "',' or '}'")
	default:
		return nil, p.errorf(ErrUnexpectedToken, "',' or '}'")
	}
	p.skipSpace()
	format := p.word("{},#'")
	if format == "" {
		return nil, p.errorf(ErrUnexpectedToken, "argument type")
	}
	p.skipSpace()
	if kind, ok := ParseKind(format); ok {
		if p.peek() != ',' {
			return nil, p.errorf(ErrUnexpectedToken, "','")
		}
		p.pos++
		return p.choice(name, kind, inPlural)
	}
	switch p.peek() {
	case '}':
		p.pos++
		return Argument{Name: name, Format: format}, nil
	case ',':
		p.pos++
	case 0:
		return nil, p.errorf(ErrUnexpectedEOF, "',' or '}'")
	default:
		return nil, p.errorf(ErrUnexpectedToken, "',' or '}'")
	}
	style, err := p.style()
	if err != nil {
		return nil, err
	}
	return Argument{Name: name, Format: format, Style: style}, nil
}

// style reads the raw argument style up to the closing brace.
func (p *parser) style() (string, error) {
	start, depth := p.pos, 0
	for ; p.pos < len(p.src); p.pos++ {
		switch p.src[p.pos] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				s := strings.TrimSpace(p.src[start:p.pos])
				if s == "" {
					return "", p.errorf(ErrUnexpectedToken, "argument style")
				}
				p.pos++
				return s, nil
			}
			depth--
		}
	}
	return "", p.errorf(ErrUnexpectedEOF, "'}'")
}

func (p *parser) choice(name string, kind Kind, inPlural bool) (Token, error) {
	start := p.pos
	c := Choice{Name: name, Kind: kind}
	p.skipSpace()
	if kind != KindSelect && strings.HasPrefix(p.src[p.pos:], "offset:") {
		p.pos += len("offset:")
		p.skipSpace()
		at := p.pos
		n, err := strconv.Atoi(p.word("{}"))
		if err != nil || n < 0 {
			return nil, &SyntaxError{
				Offset: at, Expected: "non-negative integer", Err: ErrInvalidOffset,
			}
		}
		c.Offset = n
	}
	nested := inPlural || kind != KindSelect
	for {
		p.skipSpace()
		switch p.peek() {
		case 0:
			return nil, p.errorf(ErrUnexpectedEOF, "case label or '}'")
		case '}':
			p.pos++
			if _, ok := c.Case("other"); !ok {
				return nil, &SyntaxError{Offset: start, Err: ErrMissingOther}
			}
			return c, nil
		}
		labelPos := p.pos
		label := p.word("{}")
		if label == "" {
			return nil, p.errorf(ErrUnexpectedToken, "case label")
		}
		if !validLabel(kind, label) {
			return nil, &SyntaxError{
				Offset: labelPos, Err: fmt.Errorf("%w: %q", ErrInvalidLabel, label),
			}
		}
		if _, ok := c.Case(label); ok {
			return nil, &SyntaxError{
				Offset: labelPos, Err: fmt.Errorf("%w: %q", ErrDuplicateCase, label),
			}
		}
		p.skipSpace()
		if p.peek() != '{' {
			return nil, p.errorf(ErrUnexpectedToken, "'{'")
		}
		p.pos++
		body, err := p.message(nested)
		if err != nil {
			return nil, err
		}
		if p.peek() != '}' {
			return nil, p.errorf(ErrUnexpectedEOF, "'}'")
		}
		p.pos++
		c.Cases = append(c.Cases, Case{Label: label, Body: body})
	}
}

func validLabel(kind Kind, label string) bool {
	if kind == KindSelect {
		return true
	}
	if _, ok := ExactValue(label); ok {
		return true
	}
	return CLDRIndex(label) != -1
}
