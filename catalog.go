// Package catalog provides the translation catalog model and the merge engine
// reconciling freshly extracted messages with existing per-locale catalogs.
package catalog

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
	"strconv"
)

var (
	ErrDuplicateID = errors.New("duplicate message id")
	ErrNilCatalog  = errors.New("nil catalog")
	ErrConflict    = errors.New("conflicting message text")
)

// Origin is a source location a message was extracted from.
type Origin struct {
	File string
	Line int // Zero when unknown.
}

func (o Origin) String() string {
	if o.Line == 0 {
		return o.File
	}
	return o.File + ":" + strconv.Itoa(o.Line)
}

// Message is a single catalog entry.
type Message struct {
	// Translation is the localized text, empty when missing.
	Translation string

	// Message is the source text, empty when absent.
	Message string

	Origins  []Origin
	Comments []string
	Context  string
	Flags    []string
	Obsolete bool
}

// Source returns the source text of the message or id if it has none.
func (m *Message) Source(id string) string {
	if m.Message != "" {
		return m.Message
	}
	return id
}

// HasFlag reports whether flag is set on m.
func (m *Message) HasFlag(flag string) bool { return slices.Contains(m.Flags, flag) }

// Clone returns a deep copy of m.
func (m *Message) Clone() *Message {
	cp := *m
	cp.Origins = slices.Clone(m.Origins)
	cp.Comments = slices.Clone(m.Comments)
	cp.Flags = slices.Clone(m.Flags)
	return &cp
}

// Catalog is an insertion-ordered set of messages with unique IDs.
// A nil *Catalog is a valid empty catalog for reading.
type Catalog struct {
	ids  []string
	msgs map[string]*Message
}

// New creates an empty catalog.
func New() *Catalog { return &Catalog{msgs: make(map[string]*Message)} }

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.ids)
}

func (c *Catalog) Get(id string) (*Message, bool) {
	if c == nil {
		return nil, false
	}
	m, ok := c.msgs[id]
	return m, ok
}

// Add appends a new message and fails with ErrDuplicateID if id is taken.
func (c *Catalog) Add(id string, m *Message) error {
	if _, ok := c.msgs[id]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}
	c.Set(id, m)
	return nil
}

// Set replaces the message at id keeping its position,
// or appends it if id is new.
func (c *Catalog) Set(id string, m *Message) {
	if c.msgs == nil {
		c.msgs = make(map[string]*Message)
	}
	if _, ok := c.msgs[id]; !ok {
		c.ids = append(c.ids, id)
	}
	c.msgs[id] = m
}

// Delete removes the message at id if any.
func (c *Catalog) Delete(id string) {
	if _, ok := c.msgs[id]; !ok {
		return
	}
	delete(c.msgs, id)
	c.ids = slices.DeleteFunc(c.ids, func(s string) bool { return s == id })
}

// IDs returns all message IDs in order.
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.ids)
}

// All returns an iterator over all messages in order.
func (c *Catalog) All() iter.Seq2[string, *Message] {
	return func(yield func(string, *Message) bool) {
		if c == nil {
			return
		}
		for _, id := range c.ids {
			if !yield(id, c.msgs[id]) {
				break
			}
		}
	}
}

// Clone returns a deep copy of c.
func (c *Catalog) Clone() *Catalog {
	if c == nil {
		return New()
	}
	cp := &Catalog{
		ids:  slices.Clone(c.ids),
		msgs: make(map[string]*Message, len(c.ids)),
	}
	for id, m := range c.msgs {
		cp.msgs[id] = m.Clone()
	}
	return cp
}

// Catalogs maps locales to catalogs.
// A nil catalog stands for a locale without a prior catalog.
type Catalogs map[string]*Catalog

// Locales returns all locales in lexical order.
func (c Catalogs) Locales() []string { return slices.Sorted(maps.Keys(c)) }
