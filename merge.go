package catalog

import "slices"

type MergeOptions struct {
	// SourceLocale is the locale the source messages are written in.
	SourceLocale string

	// Overwrite replaces edited source locale translations
	// with the extracted message text.
	Overwrite bool
}

// Merge reconciles the extraction result next with every catalog in prev.
//
// Messages of next missing in a previous catalog are added, seeded with
// their source text in the source locale and left untranslated elsewhere.
// Messages present in both keep their translation unless they belong to the
// source locale and were never edited (or Overwrite is set), take all other
// fields from next and accumulate origins. Messages no longer extracted are
// kept and marked obsolete. Entries of next come first in next's order,
// followed by obsolete entries in their previous order.
//
// Merge is idempotent and never modifies its inputs.
func Merge(prev Catalogs, next *Catalog, opts MergeOptions) (Catalogs, error) {
	if next == nil {
		return nil, ErrNilCatalog
	}
	merged := make(Catalogs, len(prev))
	for locale, p := range prev {
		merged[locale] = mergeLocale(p, next, locale == opts.SourceLocale, opts.Overwrite)
	}
	return merged, nil
}

func mergeLocale(prev, next *Catalog, isSource, overwrite bool) *Catalog {
	res := &Catalog{
		ids:  make([]string, 0, next.Len()+prev.Len()),
		msgs: make(map[string]*Message, next.Len()+prev.Len()),
	}
	for id, n := range next.All() {
		m := n.Clone()
		m.Obsolete = false
		p, common := prev.Get(id)
		switch {
		case !common:
			m.Translation = ""
			if isSource {
				m.Translation = n.Source(id)
			}
		case isSource && (overwrite || p.Translation == p.Source(id)):
			m.Translation = n.Source(id)
			m.Origins = appendOrigins(slices.Clone(p.Origins), n.Origins...)
		default:
			m.Translation = p.Translation
			m.Origins = appendOrigins(slices.Clone(p.Origins), n.Origins...)
		}
		res.Set(id, m)
	}
	for id, p := range prev.All() {
		if _, ok := next.Get(id); ok {
			continue
		}
		m := p.Clone()
		m.Obsolete = true
		res.Set(id, m)
	}
	return res
}

// appendOrigins appends every origin of add not yet contained in to.
func appendOrigins(to []Origin, add ...Origin) []Origin {
	for _, o := range add {
		if !slices.Contains(to, o) {
			to = append(to, o)
		}
	}
	return to
}

// appendUnique appends every string of add not yet contained in to.
func appendUnique(to []string, add ...string) []string {
	for _, s := range add {
		if !slices.Contains(to, s) {
			to = append(to, s)
		}
	}
	return to
}
