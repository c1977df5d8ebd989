package catalog_test

import (
	"testing"

	"github.com/lingui/catalog"

	"github.com/stretchr/testify/require"
)

type entry struct {
	ID string
	*catalog.Message
}

func newCatalog(t *testing.T, entries ...entry) *catalog.Catalog {
	t.Helper()
	c := catalog.New()
	for _, e := range entries {
		require.NoError(t, c.Add(e.ID, e.Message))
	}
	return c
}

func entries(c *catalog.Catalog) (s []entry) {
	for id, m := range c.All() {
		s = append(s, entry{ID: id, Message: m})
	}
	return s
}

func TestCatalogAddDuplicate(t *testing.T) {
	t.Parallel()

	c := catalog.New()
	require.NoError(t, c.Add("a", &catalog.Message{Message: "A"}))
	require.ErrorIs(t, c.Add("a", &catalog.Message{Message: "B"}), catalog.ErrDuplicateID)

	c.Set("a", &catalog.Message{Message: "C"})
	c.Set("b", &catalog.Message{Message: "D"})
	require.Equal(t, []string{"a", "b"}, c.IDs())
	m, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, "C", m.Message)

	c.Delete("a")
	require.Equal(t, []string{"b"}, c.IDs())
	require.Equal(t, 1, c.Len())
}

func TestCatalogNil(t *testing.T) {
	t.Parallel()

	var c *catalog.Catalog
	require.Zero(t, c.Len())
	_, ok := c.Get("x")
	require.False(t, ok)
	require.Nil(t, entries(c))
	require.Zero(t, c.Clone().Len())
}

func TestMerge(t *testing.T) {
	t.Parallel()

	next := newCatalog(t,
		entry{"new", &catalog.Message{
			Message: "New", Origins: []catalog.Origin{{File: "b.go", Line: 2}},
		}},
		entry{"common", &catalog.Message{
			Message:  "Common",
			Origins:  []catalog.Origin{{File: "b.go", Line: 1}},
			Comments: []string{"updated"},
		}},
		entry{"edited", &catalog.Message{Message: "Edited"}},
	)
	prev := catalog.Catalogs{
		"en": newCatalog(t,
			entry{"common", &catalog.Message{
				Message:     "Common old",
				Translation: "Common old",
				Origins:     []catalog.Origin{{File: "a.go", Line: 1}},
				Comments:    []string{"stale"},
			}},
			entry{"edited", &catalog.Message{
				Message: "Edited", Translation: "Hand edited",
			}},
			entry{"gone", &catalog.Message{Message: "Gone", Translation: "Gone"}},
		),
		"cs": newCatalog(t,
			entry{"common", &catalog.Message{
				Message: "Common old", Translation: "Společné",
			}},
		),
		"de": nil,
	}

	merged, err := catalog.Merge(prev, next, catalog.MergeOptions{SourceLocale: "en"})
	require.NoError(t, err)
	require.Equal(t, []string{"cs", "de", "en"}, merged.Locales())

	require.Equal(t, []entry{
		{"new", &catalog.Message{
			Message:     "New",
			Translation: "New",
			Origins:     []catalog.Origin{{File: "b.go", Line: 2}},
		}},
		{"common", &catalog.Message{
			Message:     "Common",
			Translation: "Common",
			Origins: []catalog.Origin{
				{File: "a.go", Line: 1}, {File: "b.go", Line: 1},
			},
			Comments: []string{"updated"},
		}},
		{"edited", &catalog.Message{Message: "Edited", Translation: "Hand edited"}},
		{"gone", &catalog.Message{
			Message: "Gone", Translation: "Gone", Obsolete: true,
		}},
	}, entries(merged["en"]))

	require.Equal(t, []entry{
		{"new", &catalog.Message{
			Message: "New",
			Origins: []catalog.Origin{{File: "b.go", Line: 2}},
		}},
		{"common", &catalog.Message{
			Message:     "Common",
			Translation: "Společné",
			Origins:     []catalog.Origin{{File: "b.go", Line: 1}},
			Comments:    []string{"updated"},
		}},
		{"edited", &catalog.Message{Message: "Edited"}},
	}, entries(merged["cs"]))

	require.Equal(t, []string{"new", "common", "edited"}, merged["de"].IDs())
	for _, m := range merged["de"].All() {
		require.Empty(t, m.Translation)
	}

	// Inputs stay untouched.
	m, _ := prev["en"].Get("common")
	require.Equal(t, "Common old", m.Translation)
	require.Len(t, m.Origins, 1)
}

func TestMergeOverwrite(t *testing.T) {
	t.Parallel()

	next := newCatalog(t, entry{"x", &catalog.Message{Message: "New text"}})
	prev := catalog.Catalogs{
		"en": newCatalog(t, entry{"x", &catalog.Message{
			Message: "Old text", Translation: "Edited",
		}}),
		"fr": newCatalog(t, entry{"x", &catalog.Message{
			Message: "Old text", Translation: "Traduit",
		}}),
	}
	merged, err := catalog.Merge(prev, next, catalog.MergeOptions{
		SourceLocale: "en", Overwrite: true,
	})
	require.NoError(t, err)
	m, _ := merged["en"].Get("x")
	require.Equal(t, "New text", m.Translation)
	m, _ = merged["fr"].Get("x")
	require.Equal(t, "Traduit", m.Translation)
}

func TestMergeIdempotent(t *testing.T) {
	t.Parallel()

	next := newCatalog(t,
		entry{"a", &catalog.Message{
			Message: "A", Origins: []catalog.Origin{{File: "a.go", Line: 3}},
		}},
		entry{"b", &catalog.Message{Message: "B", Flags: []string{"c-format"}}},
	)
	prev := catalog.Catalogs{
		"en": newCatalog(t,
			entry{"a", &catalog.Message{
				Message: "A", Translation: "A",
				Origins: []catalog.Origin{{File: "old.go", Line: 1}},
			}},
			entry{"z", &catalog.Message{Message: "Z", Translation: "Z"}},
		),
		"pl": nil,
	}
	opts := catalog.MergeOptions{SourceLocale: "en"}

	once, err := catalog.Merge(prev, next, opts)
	require.NoError(t, err)
	twice, err := catalog.Merge(once, next, opts)
	require.NoError(t, err)
	require.Equal(t, len(once), len(twice))
	for locale, c := range once {
		require.Equal(t, entries(c), entries(twice[locale]), locale)
	}
}

func TestMergeNilNext(t *testing.T) {
	t.Parallel()

	_, err := catalog.Merge(catalog.Catalogs{"en": nil}, nil, catalog.MergeOptions{})
	require.ErrorIs(t, err, catalog.ErrNilCatalog)
}

func TestMergeReappearing(t *testing.T) {
	t.Parallel()

	prev := catalog.Catalogs{"de": newCatalog(t, entry{"x", &catalog.Message{
		Message: "X", Translation: "Iks", Obsolete: true,
	}})}
	next := newCatalog(t, entry{"x", &catalog.Message{Message: "X"}})
	merged, err := catalog.Merge(prev, next, catalog.MergeOptions{SourceLocale: "en"})
	require.NoError(t, err)
	m, _ := merged["de"].Get("x")
	require.False(t, m.Obsolete)
	require.Equal(t, "Iks", m.Translation)
}

func TestCombine(t *testing.T) {
	t.Parallel()

	a := catalog.Origin{File: "a.go", Line: 1}
	b := catalog.Origin{File: "b.go", Line: 7}
	first := newCatalog(t, entry{"k", &catalog.Message{
		Message: "Text", Origins: []catalog.Origin{a}, Comments: []string{"one"},
	}})
	second := newCatalog(t,
		entry{"k", &catalog.Message{
			Message: "Text", Origins: []catalog.Origin{b}, Comments: []string{"two"},
		}},
		entry{"other", &catalog.Message{Message: "Other"}},
	)

	combined, err := catalog.Combine(first, second)
	require.NoError(t, err)
	require.Equal(t, []entry{
		{"k", &catalog.Message{
			Message:  "Text",
			Origins:  []catalog.Origin{a, b},
			Comments: []string{"one", "two"},
		}},
		{"other", &catalog.Message{Message: "Other"}},
	}, entries(combined))

	// Merging the combined passes into an empty catalog keeps both origins.
	merged, err := catalog.Merge(catalog.Catalogs{"en": nil}, combined,
		catalog.MergeOptions{SourceLocale: "en"})
	require.NoError(t, err)
	m, _ := merged["en"].Get("k")
	require.Equal(t, []catalog.Origin{a, b}, m.Origins)
}

func TestCombineConflict(t *testing.T) {
	t.Parallel()

	first := newCatalog(t, entry{"k", &catalog.Message{
		Message: "Text", Origins: []catalog.Origin{{File: "a.go", Line: 1}},
	}})
	second := newCatalog(t, entry{"k", &catalog.Message{
		Message: "Different", Origins: []catalog.Origin{{File: "b.go"}},
	}})
	_, err := catalog.Combine(first, second)
	require.ErrorIs(t, err, catalog.ErrConflict)
	var conflict *catalog.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, "k", conflict.ID)
	require.Equal(t, "Text", conflict.Message)
	require.Equal(t, "Different", conflict.Other)
	require.Equal(t,
		`conflicting message text for id "k": "Text" (a.go:1) and "Different" (b.go)`,
		err.Error())
}

func TestCollect(t *testing.T) {
	t.Parallel()

	c, err := catalog.Collect([]catalog.Extracted{
		{Message: "Hello", Origin: catalog.Origin{File: "a.go", Line: 1}},
		{ID: "explicit", Message: "Explicit"},
		{Message: "Hello", Origin: catalog.Origin{File: "b.go", Line: 2}},
		{Message: "Hello", Context: "greeting"},
	})
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())

	id := catalog.GenerateID("Hello", "")
	m, ok := c.Get(id)
	require.True(t, ok)
	require.Equal(t, []catalog.Origin{
		{File: "a.go", Line: 1}, {File: "b.go", Line: 2},
	}, m.Origins)

	m, ok = c.Get(catalog.GenerateID("Hello", "greeting"))
	require.True(t, ok)
	require.Equal(t, "greeting", m.Context)
	require.Nil(t, m.Origins)
}

func TestGenerateID(t *testing.T) {
	t.Parallel()

	require.Equal(t, catalog.GenerateID("a", "b"), catalog.GenerateID("a", "b"))
	require.NotEqual(t, catalog.GenerateID("ab", ""), catalog.GenerateID("a", "b"))
	require.NotEqual(t, catalog.GenerateID("a", ""), catalog.GenerateID("a", "ctx"))
}

func TestSort(t *testing.T) {
	t.Parallel()

	build := func(t *testing.T) *catalog.Catalog {
		return newCatalog(t,
			entry{"item10", &catalog.Message{
				Message: "b", Origins: []catalog.Origin{{File: "a.go", Line: 20}},
			}},
			entry{"item2", &catalog.Message{Message: "c"}},
			entry{"item1", &catalog.Message{
				Message: "a", Origins: []catalog.Origin{{File: "a.go", Line: 3}},
			}},
		)
	}

	f := func(t *testing.T, expect []string, by catalog.OrderBy) {
		t.Helper()
		c := build(t)
		c.Sort(by)
		require.Equal(t, expect, c.IDs())
	}

	f(t, []string{"item1", "item2", "item10"}, catalog.OrderByMessageID)
	f(t, []string{"item1", "item10", "item2"}, catalog.OrderByMessage)
	f(t, []string{"item1", "item10", "item2"}, catalog.OrderByOrigin)

	_, err := catalog.ParseOrderBy("nope")
	require.Error(t, err)
	by, err := catalog.ParseOrderBy("")
	require.NoError(t, err)
	require.Equal(t, catalog.OrderByMessageID, by)
}
