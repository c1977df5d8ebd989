package gettext_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lingui/catalog/gettext"

	"github.com/stretchr/testify/require"
)

const poCS = `# Czech translations.
#
msgid ""
msgstr ""
"Project-Id-Version: shop\n"
"Language: cs\n"
"MIME-Version: 1.0\n"
"Content-Type: text/plain; charset=UTF-8\n"
"Plural-Forms: nplurals=3; plural=(n==1) ? 0 : (n>=2 && n<=4) ? 1 : 2;\n"
"X-Generator: lingui\n"

#. js-lingui-explicit-id
#: src/App.js:4
#: src/Nav.js:12
msgid "nav.home"
msgstr "Domů"

# Keep it short.
#, fuzzy, c-format
msgctxt "menu"
msgid "Open"
msgstr "Otevřít"

msgid "one book"
msgid_plural "# books"
msgstr[0] "# kniha"
msgstr[1] "# knihy"
msgstr[2] "# knih"

msgid "Say \"hi\"\tplease"
msgstr ""
"Řekni \"ahoj\"\n"
"prosím"

#~ msgid "Removed"
#~ msgstr "Odstraněno"
`

func decode(t *testing.T, s string) *gettext.File {
	t.Helper()
	f, err := gettext.NewDecoder().Decode("test.po", strings.NewReader(s))
	require.NoError(t, err)
	return f
}

func TestDecode(t *testing.T) {
	t.Parallel()

	f := decode(t, poCS)
	require.Equal(t, []string{"Czech translations.", ""}, f.HeadComments)
	require.Equal(t, gettext.Header{
		ProjectIDVersion: "shop",
		Language:         "cs",
		MIMEVersion:      "1.0",
		ContentType:      "text/plain; charset=UTF-8",
		PluralForms:      "nplurals=3; plural=(n==1) ? 0 : (n>=2 && n<=4) ? 1 : 2;",
		NonStandard:      []gettext.XHeader{{Name: "X-Generator", Value: "lingui"}},
	}, f.Header)
	require.Equal(t, "lingui", f.Header.Get("x-generator"))
	require.Equal(t, "cs", f.Header.Get("Language"))

	require.Len(t, f.Messages, 5)
	require.Equal(t, gettext.Message{
		Pos:               gettext.Position{Filename: "test.po", Line: 12},
		ExtractedComments: []string{"js-lingui-explicit-id"},
		References:        []string{"src/App.js:4", "src/Nav.js:12"},
		Msgid:             "nav.home",
		Msgstr:            []string{"Domů"},
	}, f.Messages[0])
	require.Equal(t, gettext.Message{
		Pos:                gettext.Position{Filename: "test.po", Line: 18},
		TranslatorComments: []string{"Keep it short."},
		Flags:              []string{"fuzzy", "c-format"},
		Msgctxt:            "menu",
		Msgid:              "Open",
		Msgstr:             []string{"Otevřít"},
	}, f.Messages[1])
	require.True(t, f.Messages[1].HasFlag("fuzzy"))

	require.True(t, f.Messages[2].IsPlural())
	require.Equal(t, "# books", f.Messages[2].MsgidPlural)
	require.Equal(t, []string{"# kniha", "# knihy", "# knih"}, f.Messages[2].Msgstr)

	require.Equal(t, "Say \"hi\"\tplease", f.Messages[3].Msgid)
	require.Equal(t, []string{"Řekni \"ahoj\"\nprosím"}, f.Messages[3].Msgstr)

	require.True(t, f.Messages[4].Obsolete)
	require.Equal(t, "Removed", f.Messages[4].Msgid)
	require.Equal(t, []string{"Odstraněno"}, f.Messages[4].Msgstr)
}

func TestEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	f := decode(t, poCS)
	var buf bytes.Buffer
	require.NoError(t, gettext.Encoder{}.Encode(&buf, f))
	require.Equal(t, poCS, buf.String())
}

func TestDecodeWithoutBlankLines(t *testing.T) {
	t.Parallel()

	f := decode(t, "msgid \"a\"\nmsgstr \"A\"\n#: x.js:1\nmsgid \"b\"\nmsgstr \"B\"\nmsgid \"c\"\nmsgstr \"\"")
	require.Len(t, f.Messages, 3)
	require.Equal(t, []string{"x.js:1"}, f.Messages[1].References)
	require.Equal(t, "c", f.Messages[2].Msgid)
	require.Equal(t, []string{""}, f.Messages[2].Msgstr)
	require.Equal(t, gettext.Header{}, f.Header)
}

func TestTemplate(t *testing.T) {
	t.Parallel()

	f := decode(t, poCS)
	tmpl := f.Template()
	require.Empty(t, tmpl.Header.Language)
	require.Equal(t, "shop", tmpl.Header.ProjectIDVersion)
	require.Len(t, tmpl.Messages, 4)
	require.Equal(t, []string{"", "", ""}, tmpl.Messages[2].Msgstr)

	// The original is untouched.
	require.Equal(t, "cs", f.Header.Language)
	require.Equal(t, []string{"# kniha", "# knihy", "# knih"}, f.Messages[2].Msgstr)
}

func TestDecodeErr(t *testing.T) {
	t.Parallel()

	f := func(t *testing.T, expect error, expectMsg, input string) {
		t.Helper()
		_, err := gettext.NewDecoder().Decode("x.po", strings.NewReader(input))
		require.ErrorIs(t, err, expect)
		require.Equal(t, expectMsg, err.Error())
	}

	f(t, gettext.ErrUnexpectedToken,
		"x.po:1: expected msgstr; found unexpected token",
		"msgid \"a\"\n")
	f(t, gettext.ErrMalformedString,
		"x.po:1: expected string literal; malformed string literal",
		"msgid \"a\n")
	f(t, gettext.ErrMalformedString,
		"x.po:1: expected escape sequence; malformed string literal",
		`msgid "\x"`)
	f(t, gettext.ErrUnexpectedToken,
		"x.po:1: expected keyword; found unexpected token",
		`"orphan"`)
	f(t, gettext.ErrUnexpectedToken,
		"x.po:1: expected keyword; found unexpected token",
		`msgfoo "x"`)
	f(t, gettext.ErrWrongPluralForm,
		"x.po:3: expected msgstr[0]; msgstr[N] out of order",
		"msgid \"a\"\nmsgid_plural \"b\"\nmsgstr[1] \"x\"\n")
	f(t, gettext.ErrUnexpectedToken,
		"x.po:2: expected msgstr; found unexpected token",
		"msgid \"a\"\nmsgstr[0] \"x\"\n")
	f(t, gettext.ErrDuplicateKeyword,
		"x.po:3: expected msgstr[N]; duplicate keyword",
		"msgid \"a\"\nmsgid_plural \"b\"\nmsgstr \"x\"\n")
	f(t, gettext.ErrMalformedHeaderLanguage,
		"x.po:1: malformed Language header, must be BCP 47",
		"msgid \"\"\nmsgstr \"Language: not a language!\\n\"\n")
	f(t, gettext.ErrDuplicateHeader,
		"x.po:1: duplicate header: \"language\"",
		"msgid \"\"\nmsgstr \"Language: cs\\nlanguage: cs\\n\"\n")
	f(t, gettext.ErrUnsupportedContentType,
		"x.po:1: unsupported Content-Type, use \"text/plain; charset=UTF-8\"",
		"msgid \"\"\nmsgstr \"Content-Type: text/plain; charset=latin1\\n\"\n")
	f(t, gettext.ErrMalformedHeaderPluralForms,
		"x.po:1: malformed Plural-Forms header: nplurals must be a positive integer",
		"msgid \"\"\nmsgstr \"Plural-Forms: nplurals=0; plural=0;\\n\"\n")
}

func TestCodeRef(t *testing.T) {
	t.Parallel()

	f := func(t *testing.T, expectFile string, expectLine int, ref string) {
		t.Helper()
		file, line := gettext.ParseCodeRef(ref)
		require.Equal(t, expectFile, file)
		require.Equal(t, expectLine, line)
		require.Equal(t, ref, gettext.FmtCodeRef(file, line))
	}

	f(t, "src/App.js", 4, "src/App.js:4")
	f(t, "src/App.js", 0, "src/App.js")
	f(t, "C:/src/App.js", 12, "C:/src/App.js:12")
}
