// Package cldr provides CLDR plural categories and gettext plural formulas
// per language, and maps gettext plural slots to CLDR categories.
package cldr

import (
	"fmt"
	"slices"

	"github.com/go-playground/locales"
	"github.com/lingui/catalog/internal/pluralexpr"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

// Category is a CLDR plural category.
type Category int8

const (
	_ Category = iota
	CategoryZero
	CategoryOne
	CategoryTwo
	CategoryFew
	CategoryMany
	CategoryOther
)

// String returns the category label as used in ICU messages.
func (c Category) String() string {
	switch c {
	case CategoryZero:
		return "zero"
	case CategoryOne:
		return "one"
	case CategoryTwo:
		return "two"
	case CategoryFew:
		return "few"
	case CategoryMany:
		return "many"
	case CategoryOther:
		return "other"
	}
	return ""
}

// Rules are the plural rules of a language.
type Rules struct {
	// Cardinal lists all cardinal categories of the language in canonical order.
	Cardinal []Category

	// PluralForms is the gettext Plural-Forms header value.
	PluralForms pluralexpr.PluralForms

	// Slots maps every gettext plural slot to the category it stands for.
	Slots []Category
}

// Labels returns the slot to label table.
func (r Rules) Labels() []string {
	l := make([]string, len(r.Slots))
	for i, c := range r.Slots {
		l[i] = c.String()
	}
	return l
}

// ByTag returns the built-in rules for a language tag without region
// or script, e.g. "en" but not "en-US".
func ByTag(tag language.Tag) (Rules, bool) {
	base, _ := tag.Base()
	if tag.String() != base.String() {
		return Rules{}, false
	}
	return ByBase(base)
}

// ByBase returns the built-in rules of a base language.
func ByBase(base language.Base) (Rules, bool) {
	d, ok := builtin[base.String()]
	if !ok {
		return Rules{}, false
	}
	forms, err := pluralexpr.ParsePluralForms(
		fmt.Sprintf("nplurals=%d; plural=%s;", d.nplurals, d.formula))
	if err != nil {
		panic(fmt.Errorf("built-in plural formula of %q: %w", base, err))
	}
	tag := language.Make(base.String())
	r, err := derive(tag, forms, d.translator)
	if err != nil {
		panic(fmt.Errorf("built-in plural formula of %q: %w", base, err))
	}
	return r, true
}

// ByTagOrBase tries ByTag and falls back to ByBase.
func ByTagOrBase(tag language.Tag) (Rules, bool) {
	if r, ok := ByTag(tag); ok {
		return r, true
	}
	base, _ := tag.Base()
	return ByBase(base)
}

// FromPluralForms derives the rules of tag from a Plural-Forms header value
// by evaluating its formula against sample numbers.
func FromPluralForms(tag language.Tag, header string) (Rules, error) {
	forms, err := pluralexpr.ParsePluralForms(header)
	if err != nil {
		return Rules{}, err
	}
	var newTranslator func() locales.Translator
	base, _ := tag.Base()
	if d, ok := builtin[base.String()]; ok {
		newTranslator = d.translator
	}
	return derive(tag, forms, newTranslator)
}

// samples are evaluated in order, the first sample hitting a slot
// determines its category.
var samples = func() []int64 {
	s := make([]int64, 0, 1004)
	for i := int64(0); i <= 1000; i++ {
		s = append(s, i)
	}
	return append(s, 10_000, 100_000, 1_000_000)
}()

func derive(
	tag language.Tag, forms pluralexpr.PluralForms, newTranslator func() locales.Translator,
) (Rules, error) {
	classify := func(n int64) Category {
		return fromXText(plural.Cardinal.MatchPlural(tag, int(n), 0, 0, 0, 0))
	}
	var cardinal []Category
	if newTranslator != nil {
		tr := newTranslator()
		classify = func(n int64) Category {
			return fromRule(tr.CardinalPluralRule(float64(n), 0))
		}
		for _, r := range tr.PluralsCardinal() {
			if c := fromRule(r); c != 0 {
				cardinal = append(cardinal, c)
			}
		}
	} else {
		for _, n := range samples {
			if c := classify(n); !slices.Contains(cardinal, c) {
				cardinal = append(cardinal, c)
			}
		}
	}
	if !slices.Contains(cardinal, CategoryOther) {
		cardinal = append(cardinal, CategoryOther)
	}
	slices.Sort(cardinal)

	slots := make([]Category, forms.NPlurals)
	for _, n := range samples {
		i, err := forms.Slot(n)
		if err != nil {
			return Rules{}, err
		}
		if slots[i] == 0 {
			slots[i] = classify(n)
		}
	}
	for i := range slots {
		if slots[i] == 0 {
			// Never selected by any sample.
			slots[i] = CategoryOther
		}
	}
	return Rules{Cardinal: cardinal, PluralForms: forms, Slots: slots}, nil
}

func fromRule(r locales.PluralRule) Category {
	switch r {
	case locales.PluralRuleZero:
		return CategoryZero
	case locales.PluralRuleOne:
		return CategoryOne
	case locales.PluralRuleTwo:
		return CategoryTwo
	case locales.PluralRuleFew:
		return CategoryFew
	case locales.PluralRuleMany:
		return CategoryMany
	case locales.PluralRuleOther:
		return CategoryOther
	}
	return 0
}

func fromXText(f plural.Form) Category {
	switch f {
	case plural.Zero:
		return CategoryZero
	case plural.One:
		return CategoryOne
	case plural.Two:
		return CategoryTwo
	case plural.Few:
		return CategoryFew
	case plural.Many:
		return CategoryMany
	}
	return CategoryOther
}
