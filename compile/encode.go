package compile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MarshalJSON encodes a call as [arg], [arg, kind], [arg, kind, style]
// or [arg, kind, {"#offset": n, label: body, ...}] for choices.
// Case labels never start with '#'.
func (c Call) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('[')
	writeJSONString(&b, c.Arg)
	switch {
	case c.Cases != nil:
		b.WriteByte(',')
		writeJSONString(&b, c.Kind)
		b.WriteString(",{")
		if c.Offset != 0 {
			b.WriteString(`"#offset":`)
			b.WriteString(strconv.Itoa(c.Offset))
			if len(c.Cases) > 0 {
				b.WriteByte(',')
			}
		}
		for i, cs := range c.Cases {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSONString(&b, cs.Label)
			b.WriteByte(':')
			body, err := marshalNodes(cs.Body)
			if err != nil {
				return nil, err
			}
			b.Write(body)
		}
		b.WriteByte('}')
	case c.Kind != "":
		b.WriteByte(',')
		writeJSONString(&b, c.Kind)
		if c.Style != "" {
			b.WriteByte(',')
			writeJSONString(&b, c.Style)
		}
	}
	b.WriteByte(']')
	return b.Bytes(), nil
}

func (s Sequence) MarshalJSON() ([]byte, error) { return marshalNodes(s) }

func marshalNodes(nodes []Node) ([]byte, error) {
	if nodes == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Node(nodes))
}

func writeJSONString(b *bytes.Buffer, s string) {
	e, _ := json.Marshal(s) // Never fails on strings.
	b.Write(e)
}

// MarshalCatalog writes the compiled messages of r as a JSON object
// keyed by message ID in the order of r.IDs.
func MarshalCatalog(w io.Writer, r Result) error {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, id := range r.IDs {
		if i > 0 {
			b.WriteByte(',')
		}
		writeJSONString(&b, id)
		b.WriteByte(':')
		v, err := json.Marshal(r.Instructions[id])
		if err != nil {
			return fmt.Errorf("encoding message %q: %w", id, err)
		}
		b.Write(v)
	}
	b.WriteByte('}')
	_, err := w.Write(b.Bytes())
	return err
}

// GoString returns the Go expression constructing l.
func (l Literal) GoString() string { return "compile.Literal(" + strconv.Quote(string(l)) + ")" }

// GoString returns the Go expression constructing s.
func (s Sequence) GoString() string { return "compile.Sequence" + goNodes(s) }

// GoString returns the Go expression constructing c.
// Zero fields are omitted.
func (c Call) GoString() string {
	var b strings.Builder
	b.WriteString("compile.Call{Arg: ")
	b.WriteString(strconv.Quote(c.Arg))
	if c.Kind != "" {
		b.WriteString(", Kind: ")
		b.WriteString(strconv.Quote(c.Kind))
	}
	if c.Style != "" {
		b.WriteString(", Style: ")
		b.WriteString(strconv.Quote(c.Style))
	}
	if c.Offset != 0 {
		b.WriteString(", Offset: ")
		b.WriteString(strconv.Itoa(c.Offset))
	}
	if c.Cases != nil {
		b.WriteString(", Cases: []compile.Case{")
		for i, cs := range c.Cases {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("{Label: ")
			b.WriteString(strconv.Quote(cs.Label))
			b.WriteString(", Body: []compile.Node")
			b.WriteString(goNodes(cs.Body))
			b.WriteByte('}')
		}
		b.WriteByte('}')
	}
	b.WriteByte('}')
	return b.String()
}

func goNodes(nodes []Node) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, n := range nodes {
		if i > 0 {
			b.WriteString(", ")
		}
		switch n := n.(type) {
		case Literal:
			b.WriteString(n.GoString())
		case Call:
			b.WriteString(n.GoString())
		}
	}
	b.WriteByte('}')
	return b.String()
}
