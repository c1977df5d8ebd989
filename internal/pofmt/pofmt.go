// Package pofmt converts between catalogs and gettext files.
// Plural messages go through the plural bridge to become numbered plural
// entries and are restored on import.
package pofmt

import (
	"fmt"
	"slices"

	"golang.org/x/text/language"

	"github.com/lingui/catalog"
	"github.com/lingui/catalog/gettext"
	"github.com/lingui/catalog/icu"
	"github.com/lingui/catalog/internal/cformat"
	"github.com/lingui/catalog/internal/cldr"
	"github.com/lingui/catalog/pluralbridge"
)

// ExplicitIDComment is the extracted comment marking a msgid
// that is an explicit message ID rather than the source text.
const ExplicitIDComment = "lingui-explicit-id"

// DefaultPluralVariable is assumed for numbered plural entries
// without a bridge context, such as those of foreign files.
const DefaultPluralVariable = "count"

type Options struct {
	// Locale of the file.
	Locale string

	// PluralLocale resolves the plural table instead of Locale if not empty.
	// Used for private locales pluralizing like another one.
	PluralLocale string

	// PluralForms overrides the Plural-Forms of Locale if not empty.
	PluralForms string

	// MergePlurals merges numbered plural entries sharing msgctxt,
	// msgid and msgid_plural on export.
	MergePlurals bool
}

func (o Options) pluralLocale(locale string) string {
	if o.PluralLocale != "" {
		return o.PluralLocale
	}
	return locale
}

// PluralTable returns the slot labels of locale and the Plural-Forms header
// value they were derived from. pluralForms is preferred over the built-in
// rules of locale when not empty.
// Returns nil labels for unknown languages.
func PluralTable(locale, pluralForms string) (labels []string, header string, err error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, pluralForms, nil
	}
	if pluralForms != "" {
		r, err := cldr.FromPluralForms(tag, pluralForms)
		if err != nil {
			return nil, "", fmt.Errorf("plural table of %q: %w", locale, err)
		}
		return r.Labels(), pluralForms, nil
	}
	r, ok := cldr.ByTagOrBase(tag)
	if !ok {
		return nil, "", nil
	}
	return r.Labels(), r.PluralForms.String(), nil
}

type exported struct {
	msg     gettext.Message
	carrier int // Index into carriers, -1 for plain messages.
}

// Export converts c into a gettext file with header h.
// Language and Plural-Forms are set from opts. Language is left out for
// private locales that aren't BCP 47 tags.
func Export(
	c *catalog.Catalog, h gettext.Header, opts Options,
) (*gettext.File, []pluralbridge.Warning, error) {
	labels, pluralForms, err := PluralTable(opts.pluralLocale(opts.Locale), opts.PluralForms)
	if err != nil {
		return nil, nil, err
	}
	h = h.Clone()
	h.Language = ""
	if _, err := language.Parse(opts.Locale); err == nil {
		h.Language = opts.Locale
	}
	h.PluralForms = pluralForms
	if h.MIMEVersion == "" {
		h.MIMEVersion = "1.0"
	}
	if h.ContentType == "" {
		h.ContentType = "text/plain; charset=UTF-8"
	}
	if h.ContentTransferEncoding == "" {
		h.ContentTransferEncoding = "8bit"
	}

	var warnings []pluralbridge.Warning
	var carriers []pluralbridge.Carrier
	entries := make([]exported, 0, c.Len())
	for id, m := range c.All() {
		e := exported{msg: gettext.Message{
			Obsolete:          m.Obsolete,
			ExtractedComments: slices.Clone(m.Comments),
			Flags:             slices.Clone(m.Flags),
			Msgctxt:           m.Context,
		}, carrier: -1}
		for _, o := range m.Origins {
			e.msg.References = append(e.msg.References, gettext.FmtCodeRef(o.File, o.Line))
		}
		generated := m.Message != "" && catalog.GenerateID(m.Message, m.Context) == id
		if !generated {
			e.msg.ExtractedComments = append(e.msg.ExtractedComments, ExplicitIDComment)
		}

		n, w, ok := numbered(id, m, generated, labels)
		warnings = append(warnings, w...)
		if !ok {
			e.msg.Msgid = id
			if generated {
				e.msg.Msgid = m.Message
			} else if m.Message != "" {
				// The msgid is taken by the explicit ID.
				e.msg.ExtractedComments = append(e.msg.ExtractedComments,
					pluralbridge.Context{OriginalText: m.Message}.Encode())
			}
			e.msg.Msgstr = []string{m.Translation}
			entries = append(entries, e)
			continue
		}
		if !generated && m.Message != "" {
			n.Context.OriginalText = m.Message
		}
		e.carrier = len(carriers)
		carriers = append(carriers, pluralbridge.Carrier{
			ID:       id,
			Msgctxt:  m.Context,
			Numbered: n,
			Origins:  m.Origins,
		})
		entries = append(entries, e)
	}

	byID := make(map[string]pluralbridge.Carrier, len(carriers))
	if opts.MergePlurals {
		var live []pluralbridge.Carrier
		for _, e := range entries {
			if e.carrier != -1 && !e.msg.Obsolete {
				live = append(live, carriers[e.carrier])
			}
		}
		merged, w := pluralbridge.MergeCarriers(live)
		warnings = append(warnings, w...)
		for _, mc := range merged {
			byID[mc.ID] = mc
		}
	}

	f := &gettext.File{Header: h, Messages: make([]gettext.Message, 0, len(entries))}
	for _, e := range entries {
		if e.carrier == -1 {
			f.Messages = append(f.Messages, e.msg)
			continue
		}
		cr := carriers[e.carrier]
		if opts.MergePlurals && !e.msg.Obsolete {
			var ok bool
			if cr, ok = byID[cr.ID]; !ok {
				continue // Merged into an earlier carrier.
			}
			e.msg.References = e.msg.References[:0]
			for _, o := range cr.Origins {
				e.msg.References = append(e.msg.References, gettext.FmtCodeRef(o.File, o.Line))
			}
		}
		e.msg.ExtractedComments = append(e.msg.ExtractedComments, cr.Context.Encode())
		e.msg.Msgid = cr.Primary
		e.msg.MsgidPlural = cr.PluralForm
		e.msg.Msgstr = cr.Slots
		if len(e.msg.Msgstr) == 0 {
			e.msg.Msgstr = make([]string, max(len(labels), 2))
		}
		f.Messages = append(f.Messages, e.msg)
	}
	return f, warnings, nil
}

// numbered converts plural messages to the numbered form.
// Messages that fail to parse are exported as they are.
func numbered(
	id string, m *catalog.Message, generated bool, labels []string,
) (pluralbridge.Numbered, []pluralbridge.Warning, bool) {
	source, err := icu.Parse(m.Source(id))
	if err != nil {
		return pluralbridge.Numbered{}, nil, false
	}
	var translation []icu.Token
	if m.Translation != "" {
		if translation, err = icu.Parse(m.Translation); err != nil {
			return pluralbridge.Numbered{}, nil, false
		}
	}
	return pluralbridge.ToNumbered(id, source, translation, generated, labels)
}

// Import converts f into a catalog. Numbered plural entries are restored,
// a merged entry expanding to one message per pluralized variable.
func Import(f *gettext.File, opts Options) (*catalog.Catalog, []pluralbridge.Warning, error) {
	locale := opts.Locale
	if locale == "" {
		locale = f.Header.Language
	}
	pluralForms := opts.PluralForms
	if pluralForms == "" {
		pluralForms = f.Header.PluralForms
	}
	labels, _, err := PluralTable(opts.pluralLocale(locale), pluralForms)
	if err != nil {
		return nil, nil, err
	}

	c := catalog.New()
	var warnings []pluralbridge.Warning
	for _, pm := range f.Messages {
		m := &catalog.Message{
			Context:  pm.Msgctxt,
			Flags:    slices.Clone(pm.Flags),
			Obsolete: pm.Obsolete,
		}
		explicit := false
		ctx, hasCtx := pluralbridge.Context{}, false
		for _, comment := range pm.ExtractedComments {
			if comment == ExplicitIDComment {
				explicit = true
				continue
			}
			if cx, ok := pluralbridge.DecodeContext(comment); ok {
				ctx, hasCtx = cx, true
				continue
			}
			m.Comments = append(m.Comments, comment)
		}
		for _, ref := range pm.References {
			file, line := gettext.ParseCodeRef(ref)
			m.Origins = append(m.Origins, catalog.Origin{File: file, Line: line})
		}

		if !pm.IsPlural() {
			id := pm.Msgid
			switch {
			case !explicit:
				m.Message = pm.Msgid
				id = catalog.GenerateID(pm.Msgid, pm.Msgctxt)
			case hasCtx:
				m.Message = ctx.OriginalText
			}
			if len(pm.Msgstr) > 0 {
				m.Translation = pm.Msgstr[0]
			}
			if err := c.Add(id, m); err != nil {
				return nil, nil, fmt.Errorf("%s: %w", pm.Pos, err)
			}
			continue
		}

		primary, plural, slots := pm.Msgid, pm.MsgidPlural, pm.Msgstr
		if !hasCtx || (len(ctx.PluralizeOn) == 0 && ctx.OriginalText == "") {
			ctx.PluralizeOn = []string{DefaultPluralVariable}
			if !pm.HasFlag("no-c-format") {
				// The count of foreign entries is an integer directive.
				primary = cformat.ReplaceInteger(primary, "#")
				plural = cformat.ReplaceInteger(plural, "#")
				slots = make([]string, len(pm.Msgstr))
				for i, str := range pm.Msgstr {
					slots[i] = cformat.ReplaceInteger(str, "#")
				}
			}
		}
		restored, w, err := pluralbridge.FromNumbered(pluralbridge.Numbered{
			Primary:    primary,
			PluralForm: plural,
			Slots:      slots,
			Context:    ctx,
		}, labels)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", pm.Pos, err)
		}
		warnings = append(warnings, w...)
		for _, r := range restored {
			rm := m.Clone()
			id := pm.Msgid
			if r.Message != nil {
				rm.Message = icu.Print(r.Message)
			}
			if !explicit {
				if r.Message == nil {
					rm.Message = twoCasePlural(r.Var, primary, plural)
				}
				id = catalog.GenerateID(rm.Message, pm.Msgctxt)
			}
			if r.Translation != nil {
				rm.Translation = icu.Print(r.Translation)
				if r.Message != nil && sameSlots(id, r.Message, slots, labels) {
					// Untouched source text, keep the cases without a slot.
					rm.Translation = rm.Message
				}
			}
			if err := c.Add(id, rm); err != nil {
				return nil, nil, fmt.Errorf("%s: %w", pm.Pos, err)
			}
		}
	}
	return c, warnings, nil
}

// sameSlots reports whether message exported as its own translation
// fills exactly slots.
func sameSlots(id string, message []icu.Token, slots, labels []string) bool {
	n, _, ok := pluralbridge.ToNumbered(id, message, message, true, labels)
	return ok && slices.Equal(n.Slots, slots)
}

// twoCasePlural builds the plural message of a carrier
// that didn't store its original text.
func twoCasePlural(variable, one, other string) string {
	parse := func(s string) []icu.Token {
		t, err := icu.ParseCase(s)
		if err != nil {
			return []icu.Token{icu.Text{Value: s}}
		}
		return t
	}
	return icu.Print([]icu.Token{icu.Choice{
		Name: variable,
		Kind: icu.KindPlural,
		Cases: []icu.Case{
			{Label: "one", Body: parse(one)},
			{Label: "other", Body: parse(other)},
		},
	}})
}
