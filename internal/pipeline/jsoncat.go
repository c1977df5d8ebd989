package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lingui/catalog"
)

var ErrNoID = errors.New("entry has neither id nor message")

// entry is a message of the JSON catalog format.
// The ID is omitted when it's generated from message and context.
type entry struct {
	ID          string   `json:"id,omitempty"`
	Message     string   `json:"message,omitempty"`
	Translation string   `json:"translation,omitempty"`
	Context     string   `json:"context,omitempty"`
	Comments    []string `json:"comments,omitempty"`
	Flags       []string `json:"flags,omitempty"`
	Origins     []origin `json:"origins,omitempty"`
	Obsolete    bool     `json:"obsolete,omitempty"`
}

type origin struct {
	File string `json:"file"`
	Line int    `json:"line,omitempty"`
}

// ReadCatalog decodes a JSON catalog, a list of entries.
// Entries sharing an ID are combined like extraction passes.
func ReadCatalog(r io.Reader) (*catalog.Catalog, error) {
	var entries []entry
	d := json.NewDecoder(r)
	d.DisallowUnknownFields()
	if err := d.Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding JSON catalog: %w", err)
	}
	passes := make([]*catalog.Catalog, len(entries))
	for i, e := range entries {
		id := e.ID
		if id == "" {
			if e.Message == "" {
				return nil, fmt.Errorf("%w at index %d", ErrNoID, i)
			}
			id = catalog.GenerateID(e.Message, e.Context)
		}
		m := &catalog.Message{
			Message:     e.Message,
			Translation: e.Translation,
			Context:     e.Context,
			Comments:    e.Comments,
			Flags:       e.Flags,
			Obsolete:    e.Obsolete,
		}
		for _, o := range e.Origins {
			m.Origins = append(m.Origins, catalog.Origin{File: o.File, Line: o.Line})
		}
		passes[i] = catalog.New()
		passes[i].Set(id, m)
	}
	return catalog.Combine(passes...)
}

// WriteCatalog encodes c as a JSON catalog.
func WriteCatalog(w io.Writer, c *catalog.Catalog) error {
	entries := make([]entry, 0, c.Len())
	for id, m := range c.All() {
		e := entry{
			Message:     m.Message,
			Translation: m.Translation,
			Context:     m.Context,
			Comments:    m.Comments,
			Flags:       m.Flags,
			Obsolete:    m.Obsolete,
		}
		if m.Message == "" || catalog.GenerateID(m.Message, m.Context) != id {
			e.ID = id
		}
		for _, o := range m.Origins {
			e.Origins = append(e.Origins, origin{File: o.File, Line: o.Line})
		}
		entries = append(entries, e)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(entries)
}

func readCatalogFile(name string) (*catalog.Catalog, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening JSON catalog: %w", err)
	}
	defer f.Close()
	c, err := ReadCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return c, nil
}
