package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lingui/catalog/gettext"
	"github.com/lingui/catalog/internal/pofmt"
)

// Convert converts a .po file to a JSON catalog or a JSON catalog
// to a .po or .pot file, chosen by the extensions of in and out.
func (p *Pipeline) Convert(in, out, locale string) error {
	inExt := strings.ToLower(filepath.Ext(in))
	outExt := strings.ToLower(filepath.Ext(out))
	in, out = p.path(in), p.path(out)

	switch {
	case (inExt == ".po" || inExt == ".pot") && outExt == ".json":
		f, err := os.Open(in)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		po, err := gettext.NewDecoder().Decode(in, f)
		if err != nil {
			return fmt.Errorf("decoding .po file: %w", err)
		}
		p.Stats.FilesRead.Add(1)
		if locale == "" {
			locale = po.Header.Language
		}
		opts := p.pofmtOptions(locale)
		c, warnings, err := pofmt.Import(po, opts)
		if err != nil {
			return fmt.Errorf("importing %q: %w", in, err)
		}
		p.logWarnings(locale, warnings)
		p.Stats.Messages.Add(int64(c.Len()))

		var buf bytes.Buffer
		if err := WriteCatalog(&buf, c); err != nil {
			return fmt.Errorf("encoding JSON catalog: %w", err)
		}
		return p.writeFile(out, buf.Bytes())

	case inExt == ".json" && (outExt == ".po" || outExt == ".pot"):
		c, err := readCatalogFile(in)
		if err != nil {
			return err
		}
		p.Stats.FilesRead.Add(1)
		p.Stats.Messages.Add(int64(c.Len()))
		return p.writePO(out, locale, c, gettext.Header{}, outExt == ".pot")
	}
	return fmt.Errorf("%w: %s to %s", ErrConvertKind, inExt, outExt)
}
