package compile

import (
	"fmt"
	"runtime"

	"github.com/lingui/catalog"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	// SourceLocale messages never count as missing.
	SourceLocale string

	// Fallbacks are consulted in order for messages missing a translation.
	Fallbacks []*catalog.Catalog

	// Strict compiles missing translations to empty literals
	// instead of falling back to the source message.
	Strict bool

	// Concurrency limits the number of messages compiled in parallel.
	// Defaults to GOMAXPROCS.
	Concurrency int
}

// Error is a message that failed to compile.
type Error struct {
	ID     string
	Source string
	Err    error
}

func (e Error) Error() string {
	return fmt.Sprintf("message %q: compiling %q: %v", e.ID, e.Source, e.Err)
}

func (e Error) Unwrap() error { return e.Err }

type Result struct {
	// IDs lists compiled message IDs in catalog order.
	IDs          []string
	Instructions map[string]Instruction

	// Errors is in catalog order.
	Errors []Error

	// Missing lists IDs with neither a translation nor a fallback translation.
	Missing []string
}

// Catalog compiles every non-obsolete message of c for locale.
// A message failing to compile is reported in Result.Errors
// and doesn't prevent the others from compiling.
func Catalog(c *catalog.Catalog, locale string, opts Options) Result {
	type job struct {
		id      string
		source  string
		missing bool
		instr   Instruction
		err     error
	}
	jobs := make([]job, 0, c.Len())
	for id, m := range c.All() {
		if m.Obsolete {
			continue
		}
		src, missing := translation(id, m, locale, opts)
		jobs = append(jobs, job{id: id, source: src, missing: missing})
	}

	limit := opts.Concurrency
	if limit < 1 {
		limit = runtime.GOMAXPROCS(0)
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for i := range jobs {
		g.Go(func() error {
			jobs[i].instr, jobs[i].err = CompileString(jobs[i].source)
			return nil
		})
	}
	_ = g.Wait()

	r := Result{
		IDs:          make([]string, 0, len(jobs)),
		Instructions: make(map[string]Instruction, len(jobs)),
	}
	for _, j := range jobs {
		if j.missing {
			r.Missing = append(r.Missing, j.id)
		}
		if j.err != nil {
			r.Errors = append(r.Errors, Error{ID: j.id, Source: j.source, Err: j.err})
			continue
		}
		r.IDs = append(r.IDs, j.id)
		r.Instructions[j.id] = j.instr
	}
	return r
}

func translation(
	id string, m *catalog.Message, locale string, opts Options,
) (source string, missing bool) {
	if m.Translation != "" {
		return m.Translation, false
	}
	for _, fb := range opts.Fallbacks {
		if f, ok := fb.Get(id); ok && f.Translation != "" {
			return f.Translation, false
		}
	}
	missing = locale != opts.SourceLocale
	if opts.Strict && missing {
		return "", true
	}
	return m.Source(id), missing
}
