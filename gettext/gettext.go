// Package gettext provides a GNU gettext `.po` and `.pot` file decoder and encoder.
//
// WARNING: This implementation is optimized to handle the needs of the catalog
// tooling only and doesn't support previous-message (#|) comments which are
// dropped when decoding.
package gettext

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

type Position struct {
	Filename string
	Line     int
}

func (p Position) String() string { return p.Filename + ":" + strconv.Itoa(p.Line) }

// File is a `.po` translation or `.pot` template file.
type File struct {
	// HeadComments are the translator comments above the header entry.
	HeadComments []string
	Header       Header
	Messages     []Message
}

// Template returns a `.pot` template made of f.
// Translations and obsolete messages are removed.
func (f *File) Template() *File {
	t := &File{
		HeadComments: slices.Clone(f.HeadComments),
		Header:       f.Header.Clone(),
		Messages:     make([]Message, 0, len(f.Messages)),
	}
	t.Header.Language = ""
	t.Header.LastTranslator = ""
	t.Header.LanguageTeam = ""
	t.Header.PORevisionDate = ""
	for _, m := range f.Messages {
		if m.Obsolete {
			continue
		}
		m = m.Clone()
		for i := range m.Msgstr {
			m.Msgstr[i] = ""
		}
		t.Messages = append(t.Messages, m)
	}
	return t
}

type Header struct {
	ProjectIDVersion        string
	ReportMsgidBugsTo       string
	POTCreationDate         string
	PORevisionDate          string
	LastTranslator          string
	LanguageTeam            string
	Language                string // BCP 47.
	MIMEVersion             string
	ContentType             string
	ContentTransferEncoding string
	PluralForms             string
	NonStandard             []XHeader
}

type XHeader struct{ Name, Value string }

// Clone returns a deep copy of h.
func (h Header) Clone() Header {
	cp := h
	cp.NonStandard = slices.Clone(h.NonStandard)
	return cp
}

// Get returns the value of the header field name.
func (h Header) Get(name string) string {
	if p := h.field(name); p != nil {
		return *p
	}
	for _, x := range h.NonStandard {
		if strings.EqualFold(x.Name, name) {
			return x.Value
		}
	}
	return ""
}

func (h *Header) field(name string) *string {
	switch strings.ToLower(name) {
	case "project-id-version":
		return &h.ProjectIDVersion
	case "report-msgid-bugs-to":
		return &h.ReportMsgidBugsTo
	case "pot-creation-date":
		return &h.POTCreationDate
	case "po-revision-date":
		return &h.PORevisionDate
	case "last-translator":
		return &h.LastTranslator
	case "language-team":
		return &h.LanguageTeam
	case "language":
		return &h.Language
	case "mime-version":
		return &h.MIMEVersion
	case "content-type":
		return &h.ContentType
	case "content-transfer-encoding":
		return &h.ContentTransferEncoding
	case "plural-forms":
		return &h.PluralForms
	}
	return nil
}

// fields returns the non-empty header fields in canonical order.
func (h Header) fields() []XHeader {
	l := make([]XHeader, 0, 11+len(h.NonStandard))
	add := func(name, value string) {
		if value != "" {
			l = append(l, XHeader{Name: name, Value: value})
		}
	}
	add("Project-Id-Version", h.ProjectIDVersion)
	add("Report-Msgid-Bugs-To", h.ReportMsgidBugsTo)
	add("POT-Creation-Date", h.POTCreationDate)
	add("PO-Revision-Date", h.PORevisionDate)
	add("Last-Translator", h.LastTranslator)
	add("Language-Team", h.LanguageTeam)
	add("Language", h.Language)
	add("MIME-Version", h.MIMEVersion)
	add("Content-Type", h.ContentType)
	add("Content-Transfer-Encoding", h.ContentTransferEncoding)
	add("Plural-Forms", h.PluralForms)
	return append(l, h.NonStandard...)
}

type Message struct {
	Pos      Position // Of the first line.
	Obsolete bool     // #~

	TranslatorComments []string // #
	ExtractedComments  []string // #.
	References         []string // #:
	Flags              []string // #,

	Msgctxt     string
	Msgid       string
	MsgidPlural string

	// Msgstr holds msgstr for singular messages
	// and msgstr[N] at index N for plural ones.
	Msgstr []string
}

// IsPlural reports whether m has a msgid_plural.
func (m Message) IsPlural() bool { return m.MsgidPlural != "" }

// HasFlag reports whether m is flagged with flag (for example "fuzzy").
func (m Message) HasFlag(flag string) bool { return slices.Contains(m.Flags, flag) }

// Clone returns a deep copy of m.
func (m Message) Clone() Message {
	cp := m
	cp.TranslatorComments = slices.Clone(m.TranslatorComments)
	cp.ExtractedComments = slices.Clone(m.ExtractedComments)
	cp.References = slices.Clone(m.References)
	cp.Flags = slices.Clone(m.Flags)
	cp.Msgstr = slices.Clone(m.Msgstr)
	return cp
}

type Error struct {
	Pos      Position
	Expected string
	Err      error
}

func (e Error) Error() string {
	err := e.Err
	if err == nil {
		err = ErrUnexpectedToken
	}
	if e.Expected == "" {
		return fmt.Sprintf("%s: %s", e.Pos, err.Error())
	}
	return fmt.Sprintf("%s: expected %s; %s", e.Pos, e.Expected, err.Error())
}

func (e Error) Unwrap() error { return e.Err }

var (
	ErrUnexpectedToken            = errors.New("found unexpected token")
	ErrMalformedString            = errors.New("malformed string literal")
	ErrMalformedHeader            = errors.New("malformed header")
	ErrDuplicateHeader            = errors.New("duplicate header")
	ErrDuplicateKeyword           = errors.New("duplicate keyword")
	ErrMalformedHeaderPluralForms = errors.New("malformed Plural-Forms header")
	ErrMalformedHeaderLanguage    = errors.New(
		"malformed Language header, must be BCP 47")
	ErrUnsupportedContentType = errors.New(
		"unsupported Content-Type, use \"text/plain; charset=UTF-8\"")
	ErrWrongPluralForm = errors.New(
		"msgstr[N] out of order")
)

// FmtCodeRef formats a code reference comment.
func FmtCodeRef(file string, line int) string {
	if line < 1 {
		return file
	}
	return fmt.Sprintf("%s:%d", file, line)
}

// ParseCodeRef parses a code reference comment formatted by FmtCodeRef.
func ParseCodeRef(ref string) (file string, line int) {
	i := strings.LastIndexByte(ref, ':')
	if i == -1 {
		return ref, 0
	}
	n, err := strconv.Atoi(ref[i+1:])
	if err != nil || n < 1 {
		return ref, 0
	}
	return ref[:i], n
}
