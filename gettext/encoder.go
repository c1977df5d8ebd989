package gettext

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

type Encoder struct{}

// Encode encodes f to w.
func (e Encoder) Encode(w io.Writer, f *File) error {
	p := printer{w: bufio.NewWriter(w)}

	for _, c := range f.HeadComments {
		p.comment("#", c)
	}
	p.print("msgid \"\"\nmsgstr \"\"\n")
	for _, h := range f.Header.fields() {
		p.print(`"`, escape(h.Name+": "+h.Value+"\n"), "\"\n")
	}

	for _, m := range f.Messages {
		p.print("\n")
		for _, c := range m.TranslatorComments {
			p.comment("#", c)
		}
		for _, c := range m.ExtractedComments {
			p.comment("#.", c)
		}
		for _, r := range m.References {
			p.print("#: ", r, "\n")
		}
		if len(m.Flags) > 0 {
			p.print("#, ", strings.Join(m.Flags, ", "), "\n")
		}

		prefix := ""
		if m.Obsolete {
			prefix = "#~ "
		}
		if m.Msgctxt != "" {
			p.directive(prefix, "msgctxt", m.Msgctxt)
		}
		p.directive(prefix, "msgid", m.Msgid)
		if !m.IsPlural() {
			msgstr := ""
			if len(m.Msgstr) > 0 {
				msgstr = m.Msgstr[0]
			}
			p.directive(prefix, "msgstr", msgstr)
			continue
		}
		p.directive(prefix, "msgid_plural", m.MsgidPlural)
		if len(m.Msgstr) == 0 {
			// A template still needs the first slot.
			p.directive(prefix, "msgstr[0]", "")
		}
		for i, s := range m.Msgstr {
			p.directive(prefix, "msgstr["+strconv.Itoa(i)+"]", s)
		}
	}

	if p.err != nil {
		return p.err
	}
	return p.w.Flush()
}

// printer keeps the first write error.
type printer struct {
	w   *bufio.Writer
	err error
}

func (p *printer) print(s ...string) {
	for _, s := range s {
		if p.err != nil {
			return
		}
		_, p.err = p.w.WriteString(s)
	}
}

func (p *printer) comment(prefix, text string) {
	for _, l := range strings.Split(text, "\n") {
		if l == "" {
			p.print(prefix, "\n")
			continue
		}
		p.print(prefix, " ", l, "\n")
	}
}

// directive writes a keyword with its string. Strings with inner line breaks
// are split into one literal per line.
func (p *printer) directive(prefix, keyword, s string) {
	i := strings.IndexByte(s, '\n')
	if i == -1 || i == len(s)-1 {
		p.print(prefix, keyword, ` "`, escape(s), "\"\n")
		return
	}
	p.print(prefix, keyword, " \"\"\n")
	for s != "" {
		line := s
		if i := strings.IndexByte(s, '\n'); i != -1 {
			line = s[:i+1]
		}
		s = s[len(line):]
		p.print(prefix, `"`, escape(line), "\"\n")
	}
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
	"\a", `\a`,
	"\b", `\b`,
	"\f", `\f`,
	"\v", `\v`,
)

func escape(s string) string { return escaper.Replace(s) }
