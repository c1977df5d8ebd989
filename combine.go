package catalog

import (
	"fmt"
	"hash"
	"strconv"
	"sync"
	"unsafe"

	"github.com/cespare/xxhash"
)

// ConflictError is returned when two source occurrences of one message ID
// claim different message text.
type ConflictError struct {
	ID                    string
	Message, Other        string
	Origins, OtherOrigins []Origin
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s for id %q: %q (%s) and %q (%s)",
		ErrConflict.Error(), e.ID,
		e.Message, originList(e.Origins), e.Other, originList(e.OtherOrigins))
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

func originList(o []Origin) string {
	if len(o) == 0 {
		return "unknown origin"
	}
	s := o[0].String()
	for _, x := range o[1:] {
		s += ", " + x.String()
	}
	return s
}

// Extracted is a single message occurrence found in source code.
type Extracted struct {
	ID       string // Generated from Message and Context when empty.
	Message  string
	Context  string
	Comments []string
	Origin   Origin
}

// Collect builds an extraction result from single occurrences.
// Occurrences sharing an ID are combined as by Combine.
func Collect(occurrences []Extracted) (*Catalog, error) {
	c := New()
	for _, o := range occurrences {
		id := o.ID
		if id == "" {
			id = GenerateID(o.Message, o.Context)
		}
		m := &Message{
			Message:  o.Message,
			Context:  o.Context,
			Comments: o.Comments,
		}
		if o.Origin != (Origin{}) {
			m.Origins = []Origin{o.Origin}
		}
		if err := combineInto(c, id, m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Combine folds the results of multiple extraction passes into one
// extraction result. Messages sharing an ID get their origins, comments and
// flags concatenated in pass order. Two passes claiming different message
// text for one ID fail with a *ConflictError.
func Combine(passes ...*Catalog) (*Catalog, error) {
	c := New()
	for _, pass := range passes {
		for id, m := range pass.All() {
			if err := combineInto(c, id, m); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

func combineInto(c *Catalog, id string, m *Message) error {
	existing, ok := c.Get(id)
	if !ok {
		c.Set(id, m.Clone())
		return nil
	}
	if existing.Message != "" && m.Message != "" && existing.Message != m.Message {
		return &ConflictError{
			ID:           id,
			Message:      existing.Message,
			Origins:      existing.Origins,
			Other:        m.Message,
			OtherOrigins: m.Origins,
		}
	}
	if existing.Message == "" {
		existing.Message = m.Message
	}
	if existing.Context == "" {
		existing.Context = m.Context
	}
	existing.Origins = appendOrigins(existing.Origins, m.Origins...)
	existing.Comments = appendUnique(existing.Comments, m.Comments...)
	existing.Flags = appendUnique(existing.Flags, m.Flags...)
	return nil
}

var hasherPool = sync.Pool{
	New: func() any { return xxhash.New() },
}

// GenerateID derives a message ID from its source text and context.
func GenerateID(message, context string) string {
	h := hasherPool.Get().(hash.Hash64)
	defer hasherPool.Put(h)

	h.Reset()
	_, _ = h.Write(unsafeS2B(message))
	_, _ = h.Write([]byte{0x1f}) // Unit separator.
	_, _ = h.Write(unsafeS2B(context))
	return strconv.FormatUint(h.Sum64(), 16)
}

// unsafeS2B converts s to []byte without copying.
// The returned slice must never be written to.
func unsafeS2B(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
