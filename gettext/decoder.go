package gettext

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"mime"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/lingui/catalog/internal/pluralexpr"
)

type Decoder struct {
	reader *bufio.Reader
	pos    Position

	f    *File
	msg  Message
	body bool // msgid was read for msg.
	strs bool // msgstr was read for msg.

	// continuation target of the last keyword
	last *string
}

func NewDecoder() *Decoder {
	return &Decoder{reader: bufio.NewReader(nil)}
}

// Decode decodes a `.po` or `.pot` file from r.
// fileName is used for error positions only.
func (d *Decoder) Decode(fileName string, r io.Reader) (*File, error) {
	d.reader.Reset(r)
	d.pos = Position{Filename: fileName}
	d.f = &File{}
	d.reset()

	for {
		line, err := d.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if line != "" {
			d.pos.Line++
			if err := d.line(strings.TrimRight(line, "\r\n")); err != nil {
				return nil, err
			}
		}
		if err != nil {
			break
		}
	}
	if err := d.flush(); err != nil {
		return nil, err
	}
	f := d.f
	d.f = nil
	return f, nil
}

func (d *Decoder) errSyntax(expected string, err error) Error {
	return Error{Pos: d.pos, Expected: expected, Err: err}
}

func (d *Decoder) reset() {
	d.msg, d.body, d.strs, d.last = Message{}, false, false, nil
}

func (d *Decoder) line(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return d.flush()
	}
	obsolete := false
	if rest, ok := strings.CutPrefix(s, "#~"); ok {
		obsolete = true
		if s = strings.TrimSpace(rest); s == "" {
			return nil
		}
	}
	switch {
	case s[0] == '#':
		if d.strs {
			// Comments after msgstr belong to the next message.
			if err := d.flush(); err != nil {
				return err
			}
		}
		d.comment(s)
		return nil
	case s[0] == '"':
		if d.last == nil {
			return d.errSyntax("keyword", ErrUnexpectedToken)
		}
		v, err := d.unquote(s)
		if err != nil {
			return err
		}
		*d.last += v
		return nil
	}
	return d.keyword(s, obsolete)
}

func (d *Decoder) comment(s string) {
	d.begin()
	switch {
	case strings.HasPrefix(s, "#."):
		d.msg.ExtractedComments = append(d.msg.ExtractedComments,
			strings.TrimSpace(s[2:]))
	case strings.HasPrefix(s, "#:"):
		d.msg.References = append(d.msg.References, strings.Fields(s[2:])...)
	case strings.HasPrefix(s, "#,"):
		for _, f := range strings.Split(s[2:], ",") {
			if f = strings.TrimSpace(f); f != "" {
				d.msg.Flags = append(d.msg.Flags, f)
			}
		}
	case strings.HasPrefix(s, "#|"):
		// Previous messages are dropped.
	default:
		s = strings.TrimPrefix(s[1:], " ")
		d.msg.TranslatorComments = append(d.msg.TranslatorComments, s)
	}
}

func (d *Decoder) begin() {
	if d.msg.Pos.Line == 0 {
		d.msg.Pos = d.pos
	}
}

func (d *Decoder) keyword(s string, obsolete bool) error {
	kw, rest, ok := strings.Cut(s, " ")
	if !ok {
		return d.errSyntax("string literal", ErrUnexpectedToken)
	}
	rest = strings.TrimSpace(rest)
	if d.strs && (kw == "msgctxt" || kw == "msgid") {
		// Next message without a separating blank line.
		if err := d.flush(); err != nil {
			return err
		}
	}
	d.begin()
	if obsolete {
		d.msg.Obsolete = true
	}
	v, err := d.unquote(rest)
	if err != nil {
		return err
	}

	switch {
	case kw == "msgctxt":
		if d.body {
			return d.errSyntax("msgstr", ErrUnexpectedToken)
		}
		d.msg.Msgctxt = v
		d.last = &d.msg.Msgctxt
	case kw == "msgid":
		if d.body {
			return d.errSyntax("msgstr", ErrDuplicateKeyword)
		}
		d.body = true
		d.msg.Msgid = v
		d.last = &d.msg.Msgid
	case kw == "msgid_plural":
		if !d.body || d.strs {
			return d.errSyntax("msgid", ErrUnexpectedToken)
		}
		if d.msg.MsgidPlural != "" {
			return d.errSyntax("msgstr[0]", ErrDuplicateKeyword)
		}
		d.msg.MsgidPlural = v
		d.last = &d.msg.MsgidPlural
	case kw == "msgstr":
		if !d.body {
			return d.errSyntax("msgid", ErrUnexpectedToken)
		}
		if d.strs || d.msg.IsPlural() {
			return d.errSyntax("msgstr[N]", ErrDuplicateKeyword)
		}
		d.strs = true
		d.msg.Msgstr = []string{v}
		d.last = &d.msg.Msgstr[0]
	case strings.HasPrefix(kw, "msgstr[") && strings.HasSuffix(kw, "]"):
		if !d.msg.IsPlural() {
			return d.errSyntax("msgstr", ErrUnexpectedToken)
		}
		n, err := strconv.Atoi(kw[len("msgstr[") : len(kw)-1])
		if err != nil || n != len(d.msg.Msgstr) {
			return d.errSyntax("msgstr["+strconv.Itoa(len(d.msg.Msgstr))+"]",
				ErrWrongPluralForm)
		}
		d.strs = true
		d.msg.Msgstr = append(d.msg.Msgstr, v)
		d.last = &d.msg.Msgstr[n]
	default:
		return d.errSyntax("keyword", ErrUnexpectedToken)
	}
	return nil
}

// unquote decodes a C-style string literal.
func (d *Decoder) unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", d.errSyntax("string literal", ErrMalformedString)
	}
	s = s[1 : len(s)-1]
	if strings.IndexByte(s, '\\') == -1 {
		if strings.IndexByte(s, '"') != -1 {
			return "", d.errSyntax("escaped quote", ErrMalformedString)
		}
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			return "", d.errSyntax("escaped quote", ErrMalformedString)
		case '\\':
			i++
			if i >= len(s) {
				return "", d.errSyntax("escape sequence", ErrMalformedString)
			}
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'a':
				b.WriteByte('\a')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'v':
				b.WriteByte('\v')
			case '\\', '"', '\'', '?':
				b.WriteByte(s[i])
			default:
				return "", d.errSyntax("escape sequence", ErrMalformedString)
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func (d *Decoder) flush() error {
	defer d.reset()
	if !d.body {
		if d.msg.Pos.Line != 0 && len(d.f.Messages) == 0 && isZeroHeader(d.f.Header) {
			// Comments above a missing header.
			d.f.HeadComments = append(d.f.HeadComments, d.msg.TranslatorComments...)
		}
		return nil
	}
	if !d.strs {
		return Error{Pos: d.pos, Expected: "msgstr", Err: ErrUnexpectedToken}
	}
	if d.msg.Msgid == "" && d.msg.Msgctxt == "" && !d.msg.Obsolete &&
		len(d.f.Messages) == 0 && isZeroHeader(d.f.Header) {
		d.f.HeadComments = append(d.f.HeadComments, d.msg.TranslatorComments...)
		h, err := parseHeader(d.msg.Msgstr[0])
		if err != nil {
			return Error{Pos: d.msg.Pos, Err: err}
		}
		d.f.Header = h
		return nil
	}
	d.f.Messages = append(d.f.Messages, d.msg)
	return nil
}

func isZeroHeader(h Header) bool {
	return len(h.fields()) == 0
}

func parseHeader(s string) (Header, error) {
	var h Header
	seen := make(map[string]struct{})
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) == "" {
			continue
		}
		name, value, ok := strings.Cut(l, ":")
		if !ok {
			return Header{}, ErrMalformedHeader
		}
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			return Header{}, fmt.Errorf("%w: %q", ErrDuplicateHeader, name)
		}
		seen[key] = struct{}{}
		if p := h.field(name); p != nil {
			*p = value
			continue
		}
		h.NonStandard = append(h.NonStandard, XHeader{Name: name, Value: value})
	}

	if h.Language != "" {
		if _, err := language.Parse(h.Language); err != nil {
			return Header{}, ErrMalformedHeaderLanguage
		}
	}
	if h.PluralForms != "" {
		if _, err := pluralexpr.ParsePluralForms(h.PluralForms); err != nil {
			return Header{}, fmt.Errorf("%w: %w", ErrMalformedHeaderPluralForms, err)
		}
	}
	if h.ContentType != "" {
		mt, params, err := mime.ParseMediaType(h.ContentType)
		if err != nil || mt != "text/plain" ||
			(params["charset"] != "" && !strings.EqualFold(params["charset"], "UTF-8")) {
			return Header{}, ErrUnsupportedContentType
		}
	}
	return h, nil
}
