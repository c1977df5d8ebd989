package icu_test

import (
	"testing"

	"github.com/lingui/catalog/icu"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	f := func(t *testing.T, expect []icu.Token, input string) {
		t.Helper()
		actual, err := icu.Parse(input)
		require.NoError(t, err)
		require.Equal(t, expect, actual)
	}

	f(t, nil, "")
	f(t, []icu.Token{icu.Text{Value: "Hello world"}}, "Hello world")
	f(t, []icu.Token{
		icu.Text{Value: "Hello "},
		icu.Argument{Name: "name"},
		icu.Text{Value: "!"},
	}, "Hello { name }!")
	f(t, []icu.Token{
		icu.Argument{Name: "n", Format: "number"},
		icu.Text{Value: " "},
		icu.Argument{Name: "d", Format: "date", Style: "short"},
	}, "{n, number} {d, date, short}")
	f(t, []icu.Token{icu.Text{Value: "it's {literal} # here"}},
		"it''s '{literal}' # here")
	f(t, []icu.Token{icu.Choice{
		Name: "count",
		Kind: icu.KindPlural,
		Cases: []icu.Case{
			{Label: "one", Body: []icu.Token{icu.Text{Value: "one book"}}},
			{Label: "other", Body: []icu.Token{
				icu.Octothorpe{}, icu.Text{Value: " books"},
			}},
		},
	}}, "{count, plural, one {one book} other {# books}}")
	f(t, []icu.Token{icu.Choice{
		Name:   "guests",
		Kind:   icu.KindPlural,
		Offset: 1,
		Cases: []icu.Case{
			{Label: "=0", Body: []icu.Token{icu.Text{Value: "nobody"}}},
			{Label: "other", Body: []icu.Token{
				icu.Argument{Name: "host"}, icu.Text{Value: " and "},
				icu.Octothorpe{}, icu.Text{Value: " others"},
			}},
		},
	}}, "{guests, plural, offset:1 =0{nobody} other{{host} and # others}}")
	f(t, []icu.Token{icu.Choice{
		Name: "gender",
		Kind: icu.KindSelect,
		Cases: []icu.Case{
			{Label: "female", Body: []icu.Token{icu.Text{Value: "she #"}}},
			{Label: "other", Body: []icu.Token{icu.Text{Value: "they"}}},
		},
	}}, "{gender, select, female {she #} other {they}}")
	f(t, []icu.Token{icu.Choice{
		Name: "n",
		Kind: icu.KindSelectOrdinal,
		Cases: []icu.Case{
			{Label: "one", Body: []icu.Token{icu.Octothorpe{}, icu.Text{Value: "st"}}},
			{Label: "other", Body: []icu.Token{
				icu.Text{Value: "'#'"}, icu.Octothorpe{}, icu.Text{Value: "th"},
			}},
		},
	}}, "{n, selectordinal, one {#st} other {'''#'''#th}}")
}

func TestParseErr(t *testing.T) {
	t.Parallel()

	f := func(t *testing.T, expectErr error, expectOffset int, input string) {
		t.Helper()
		_, err := icu.Parse(input)
		require.ErrorIs(t, err, expectErr)
		var syntaxErr *icu.SyntaxError
		require.ErrorAs(t, err, &syntaxErr)
		require.Equal(t, expectOffset, syntaxErr.Offset)
	}

	f(t, icu.ErrUnexpectedToken, 5, "text }")
	f(t, icu.ErrUnexpectedEOF, 5, "{name")
	f(t, icu.ErrUnexpectedToken, 1, "{}")
	f(t, icu.ErrMissingOther, 11, "{n, plural, one {x}}")
	f(t, icu.ErrInvalidLabel, 12, "{n, plural, male {x} other {y}}")
	f(t, icu.ErrDuplicateCase, 18, "{n, select, a {x} a {y} other {z}}")
	f(t, icu.ErrInvalidOffset, 19, "{n, plural, offset:x other {y}}")
	f(t, icu.ErrUnexpectedEOF, 21, "{n, plural, other {y}")
}

func TestPrintRoundTrip(t *testing.T) {
	t.Parallel()

	f := func(t *testing.T, expect, input string) {
		t.Helper()
		tokens, err := icu.Parse(input)
		require.NoError(t, err)
		printed := icu.Print(tokens)
		require.Equal(t, expect, printed)
		reparsed, err := icu.Parse(printed)
		require.NoError(t, err)
		require.Equal(t, tokens, reparsed)
	}

	f(t, "", "")
	f(t, "Hello {name}", "Hello {  name }")
	f(t, "it''s '{'quoted'}'", "it's '{'quoted'}'")
	f(t, "'{''{'", "'{''{'")
	f(t, "{count, plural, one {one book} other {# books}}",
		"{count,plural,one{one book}other{# books}}")
	f(t, "{n, plural, offset:2 =0 {none} other {# '#'}}",
		"{n, plural, offset:2 =0 {none} other {# '#'}}")
	f(t, "{g, select, female {{n, plural, one {her #} other {her # items}}} other {x}}",
		"{g,select,female{{n,plural,one{her #}other{her # items}}}other{x}}")
	f(t, "{v, number, ::currency/EUR}", "{v,number,::currency/EUR}")
}

func TestRenameArgument(t *testing.T) {
	t.Parallel()

	in, err := icu.Parse("{count, plural, one {{count} book} other {# books of {name}}}")
	require.NoError(t, err)
	out := icu.RenameArgument(in, "count", "n")
	require.Equal(t,
		"{n, plural, one {{n} book} other {# books of {name}}}", icu.Print(out))
	// Input must stay untouched.
	require.Equal(t,
		"{count, plural, one {{count} book} other {# books of {name}}}", icu.Print(in))
}

func TestHasPlaceholders(t *testing.T) {
	t.Parallel()

	f := func(t *testing.T, expect bool, input string) {
		t.Helper()
		tokens, err := icu.Parse(input)
		require.NoError(t, err)
		require.Equal(t, expect, icu.HasPlaceholders(tokens))
	}

	f(t, false, "")
	f(t, false, "plain # text")
	f(t, true, "{name}")
	f(t, true, "{n, select, other {x}}")
}

func TestKind(t *testing.T) {
	t.Parallel()

	for _, k := range []icu.Kind{
		icu.KindPlural, icu.KindSelect, icu.KindSelectOrdinal,
	} {
		parsed, ok := icu.ParseKind(k.String())
		require.True(t, ok)
		require.Equal(t, k, parsed)
	}
	_, ok := icu.ParseKind("number")
	require.False(t, ok)
}

func TestCaseRoundTrip(t *testing.T) {
	t.Parallel()

	f := func(t *testing.T, expect []icu.Token, input string) {
		t.Helper()
		actual, err := icu.ParseCase(input)
		require.NoError(t, err)
		require.Equal(t, expect, actual)
		require.Equal(t, input, icu.PrintCase(actual))
	}

	f(t, nil, "")
	f(t, []icu.Token{icu.Octothorpe{}, icu.Text{Value: " books"}}, "# books")
	f(t, []icu.Token{
		icu.Text{Value: "# of "}, icu.Argument{Name: "name"}, icu.Text{Value: "'s"},
	}, "'#' of {name}''s")

	_, err := icu.ParseCase("{broken")
	require.Error(t, err)
}
