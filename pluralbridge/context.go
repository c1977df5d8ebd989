package pluralbridge

import (
	"net/url"
	"slices"
	"strings"
)

// ContextPrefix marks an encoded Context.
const ContextPrefix = "lingui:"

// Context is the side channel attached to a numbered plural entry.
// Entries with an explicit ID also use it to carry their source text.
type Context struct {
	// OriginalText is the full original message.
	OriginalText string

	// PluralizeOn lists the pluralized argument names.
	// Merged carriers have more than one.
	PluralizeOn []string
}

func (c Context) Equal(other Context) bool {
	return c.OriginalText == other.OriginalText &&
		slices.Equal(c.PluralizeOn, other.PluralizeOn)
}

// Encode encodes c into a single line of text like
// "lingui:icu=%7Bcount%2C+plural...&pluralize_on=count".
func (c Context) Encode() string {
	v := url.Values{}
	if c.OriginalText != "" {
		v.Set("icu", c.OriginalText)
	}
	if len(c.PluralizeOn) > 0 {
		v.Set("pluralize_on", strings.Join(c.PluralizeOn, ","))
	}
	return ContextPrefix + v.Encode()
}

// DecodeContext decodes a Context encoded by Encode.
// Returns false for any other text.
func DecodeContext(s string) (Context, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), ContextPrefix)
	if !ok {
		return Context{}, false
	}
	v, err := url.ParseQuery(rest)
	if err != nil {
		return Context{}, false
	}
	c := Context{OriginalText: v.Get("icu")}
	if p := v.Get("pluralize_on"); p != "" {
		c.PluralizeOn = strings.Split(p, ",")
	}
	return c, true
}
