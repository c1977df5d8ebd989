// Package pluralbridge converts plural messages between ICU MessageFormat
// and the gettext numbered plural convention (msgid, msgid_plural, msgstr[N]).
package pluralbridge

import (
	"errors"
	"fmt"
	"slices"

	"github.com/lingui/catalog"
	"github.com/lingui/catalog/icu"
)

var (
	ErrNoPluralTable    = errors.New("no plural table for the language")
	ErrNoPluralVariable = errors.New("no pluralized variable")
)

type WarningKind int8

const (
	_ WarningKind = iota

	// WarningNotPlural is a select, selectordinal or a plural that isn't
	// the sole token of the message. Kept as a single slot.
	WarningNotPlural

	// WarningNestedChoice is a choice nested in a plural case.
	// Converted, but won't translate correctly downstream.
	WarningNestedChoice

	// WarningSlotCount is a translation whose cases don't fit the slots
	// of the language.
	WarningSlotCount

	// WarningSlotsDiffer is raised when merging carriers with different slots.
	WarningSlotsDiffer
)

func (k WarningKind) String() string {
	switch k {
	case WarningNotPlural:
		return "not plural"
	case WarningNestedChoice:
		return "nested choice"
	case WarningSlotCount:
		return "slot count"
	case WarningSlotsDiffer:
		return "slots differ"
	}
	return ""
}

// Warning is a non-fatal conversion diagnostic.
type Warning struct {
	Kind    WarningKind
	ID      string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: message %q: %s", w.Kind, w.ID, w.Message)
}

// Numbered is a plural message in the numbered form.
type Numbered struct {
	Primary    string   // msgid
	PluralForm string   // msgid_plural
	Slots      []string // msgstr[N]
	Context    Context
}

// ToNumbered converts the plural message source and its translation to the
// numbered form. Returns false if source is not a sole plural choice.
//
// If generated is set, id is a content derived ID and the first and last case
// of source become Primary and PluralForm while the full message is kept
// in Context.OriginalText. Otherwise Primary is id and PluralForm is id+"_plural".
//
// Slots take the case bodies of translation. If labels is nil, in parser order.
// Otherwise slot i takes the case labeled labels[i] falling back to "other".
// Translation cases with a label not in labels are dropped with a warning.
func ToNumbered(
	id string, source, translation []icu.Token, generated bool, labels []string,
) (n Numbered, warnings []Warning, ok bool) {
	choice, ok := solePlural(source)
	if !ok {
		if hasChoice(source) {
			warnings = append(warnings, Warning{
				Kind: WarningNotPlural, ID: id,
				Message: "only a message consisting of a single plural " +
					"can be represented by numbered plural forms",
			})
		}
		return Numbered{}, warnings, false
	}
	if nestedChoice(choice) {
		warnings = append(warnings, Warning{
			Kind: WarningNestedChoice, ID: id,
			Message: "nested choices can't be represented by numbered plural forms",
		})
	}

	n.Context.PluralizeOn = []string{choice.Name}
	if generated {
		n.Primary = icu.PrintCase(choice.Cases[0].Body)
		n.PluralForm = icu.PrintCase(choice.Cases[len(choice.Cases)-1].Body)
		n.Context.OriginalText = icu.Print(source)
	} else {
		n.Primary = id
		n.PluralForm = id + "_plural"
	}

	if len(translation) == 0 {
		return n, warnings, true
	}
	tc, ok := solePlural(translation)
	if !ok {
		warnings = append(warnings, Warning{
			Kind: WarningNotPlural, ID: id,
			Message: "translation is not a plural, kept as a single slot",
		})
		n.Slots = []string{icu.Print(translation)}
		return n, warnings, true
	}
	if nestedChoice(tc) && !nestedChoice(choice) {
		warnings = append(warnings, Warning{
			Kind: WarningNestedChoice, ID: id,
			Message: "nested choices can't be represented by numbered plural forms",
		})
	}
	if labels == nil {
		n.Slots = make([]string, len(tc.Cases))
		for i, c := range tc.Cases {
			n.Slots[i] = icu.PrintCase(c.Body)
		}
		return n, warnings, true
	}

	n.Slots = make([]string, len(labels))
	other, hasOther := tc.Case("other")
	for i, l := range labels {
		c, found := tc.Case(l)
		if !found && hasOther {
			c, found = other, true
		}
		if !found {
			// Left empty.
			warnings = append(warnings, Warning{
				Kind: WarningSlotCount, ID: id,
				Message: fmt.Sprintf("translation lacks case %q for slot %d", l, i),
			})
			continue
		}
		n.Slots[i] = icu.PrintCase(c.Body)
	}
	for _, c := range tc.Cases {
		if c.Label != "other" && !slices.Contains(labels, c.Label) {
			warnings = append(warnings, Warning{
				Kind: WarningSlotCount, ID: id,
				Message: fmt.Sprintf("case %q has no slot and is dropped", c.Label),
			})
		}
	}
	return n, warnings, true
}

// Restored is a plural message restored from the numbered form.
type Restored struct {
	// Var is the pluralized argument name.
	Var string

	// Message is the parsed original text, nil if there was none.
	Message []icu.Token

	// Translation is the plural rebuilt from the slots,
	// nil if all slots are empty.
	Translation []icu.Token
}

// Tokens returns the restored message: the original text if present,
// otherwise the plural rebuilt from the slots.
func (r Restored) Tokens() []icu.Token {
	if r.Message != nil {
		return r.Message
	}
	return r.Translation
}

// FromNumbered restores the plural message of n. labels maps slot indexes
// to CLDR plural categories. A merged carrier with multiple pluralized
// variables restores to one message per variable in PluralizeOn order.
//
// If labels lacks "other", the last slot is reused for it.
func FromNumbered(n Numbered, labels []string) ([]Restored, []Warning, error) {
	translated := slices.ContainsFunc(n.Slots, func(s string) bool { return s != "" })
	if translated && len(labels) == 0 {
		return nil, nil, fmt.Errorf("%w: %d slots for %q", ErrNoPluralTable, len(n.Slots), n.Primary)
	}

	var message []icu.Token
	if n.Context.OriginalText != "" {
		var err error
		if message, err = icu.Parse(n.Context.OriginalText); err != nil {
			return nil, nil, fmt.Errorf("parsing original text of %q: %w", n.Primary, err)
		}
	}

	vars := n.Context.PluralizeOn
	if len(vars) == 0 {
		c, ok := solePlural(message)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q", ErrNoPluralVariable, n.Primary)
		}
		vars = []string{c.Name}
	}

	var warnings []Warning
	var cases []icu.Case
	if translated {
		if len(n.Slots) > len(labels) {
			warnings = append(warnings, Warning{
				Kind: WarningSlotCount, ID: n.Primary,
				Message: fmt.Sprintf("%d slots for %d plural forms, extra slots dropped",
					len(n.Slots), len(labels)),
			})
		}
		for i, s := range n.Slots {
			if i >= len(labels) {
				break
			}
			body, err := icu.ParseCase(s)
			if err != nil {
				return nil, nil, fmt.Errorf("parsing slot %d of %q: %w", i, n.Primary, err)
			}
			cases = append(cases, icu.Case{Label: labels[i], Body: body})
		}
		if !slices.ContainsFunc(cases, func(c icu.Case) bool { return c.Label == "other" }) {
			cases = append(cases, icu.Case{Label: "other", Body: cases[len(cases)-1].Body})
		}
	}

	restored := make([]Restored, len(vars))
	for i, v := range vars {
		r := Restored{Var: v}
		if message != nil {
			r.Message = icu.RenameArgument(message, vars[0], v)
		}
		if cases != nil {
			tr := []icu.Token{icu.Choice{Name: vars[0], Kind: icu.KindPlural, Cases: cases}}
			r.Translation = icu.RenameArgument(tr, vars[0], v)
		}
		restored[i] = r
	}
	return restored, warnings, nil
}

// Carrier is a numbered plural entry of a catalog.
type Carrier struct {
	ID      string
	Msgctxt string
	Numbered
	Origins []catalog.Origin
}

// MergeCarriers merges carriers sharing msgctxt, Primary and PluralForm.
// The first occurrence survives, accumulating the pluralized variables and
// origins of the others in order. Carriers with different slots still merge
// keeping the first slots.
func MergeCarriers(carriers []Carrier) ([]Carrier, []Warning) {
	type key struct{ msgctxt, primary, pluralForm string }
	index := make(map[key]int, len(carriers))
	merged := make([]Carrier, 0, len(carriers))
	var warnings []Warning
	for _, c := range carriers {
		k := key{c.Msgctxt, c.Primary, c.PluralForm}
		i, ok := index[k]
		if !ok {
			c.Context.PluralizeOn = slices.Clone(c.Context.PluralizeOn)
			c.Origins = slices.Clone(c.Origins)
			index[k] = len(merged)
			merged = append(merged, c)
			continue
		}
		m := &merged[i]
		if !slices.Equal(m.Slots, c.Slots) {
			warnings = append(warnings, Warning{
				Kind: WarningSlotsDiffer, ID: c.ID,
				Message: fmt.Sprintf("merged into %q with different translations, "+
					"keeping those of %q", m.ID, m.ID),
			})
		}
		for _, v := range c.Context.PluralizeOn {
			if !slices.Contains(m.Context.PluralizeOn, v) {
				m.Context.PluralizeOn = append(m.Context.PluralizeOn, v)
			}
		}
		m.Origins = append(m.Origins, c.Origins...)
	}
	return merged, warnings
}

func solePlural(tokens []icu.Token) (icu.Choice, bool) {
	if len(tokens) != 1 {
		return icu.Choice{}, false
	}
	c, ok := tokens[0].(icu.Choice)
	if !ok || c.Kind != icu.KindPlural {
		return icu.Choice{}, false
	}
	return c, true
}

func hasChoice(tokens []icu.Token) bool {
	for _, t := range tokens {
		switch t.(type) {
		case icu.Choice:
			return true
		case icu.Text, icu.Octothorpe, icu.Argument:
		}
	}
	return false
}

func nestedChoice(c icu.Choice) bool {
	for _, cs := range c.Cases {
		if hasChoice(cs.Body) {
			return true
		}
	}
	return false
}
