// Package pipeline drives catalog files through the merge engine,
// the plural bridge and the message compiler.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/lingui/catalog"
	"github.com/lingui/catalog/gettext"
	"github.com/lingui/catalog/internal/config"
	"github.com/lingui/catalog/internal/pofmt"
	"github.com/lingui/catalog/pluralbridge"
)

var (
	ErrCompile     = errors.New("messages failed to compile")
	ErrConvertKind = errors.New("unsupported conversion")
)

// TimeFormat is the format of PO header dates.
const TimeFormat = "2006-01-02 15:04-0700"

type Statistics struct {
	FilesRead     atomic.Int64
	FilesWritten  atomic.Int64
	Messages      atomic.Int64
	Obsolete      atomic.Int64
	Missing       atomic.Int64
	CompileErrors atomic.Int64
	Warnings      atomic.Int64
}

// Pipeline runs the operations of a project.
type Pipeline struct {
	Config *config.Config

	// Dir is the directory relative paths are resolved against.
	Dir string

	Log logrus.FieldLogger
	Now func() time.Time

	Stats Statistics
}

func New(conf *config.Config, dir string, log logrus.FieldLogger) *Pipeline {
	return &Pipeline{Config: conf, Dir: dir, Log: log, Now: time.Now}
}

func (p *Pipeline) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.Dir, filepath.FromSlash(name))
}

func (p *Pipeline) pofmtOptions(locale string) pofmt.Options {
	o := pofmt.Options{Locale: locale}
	if p.Config != nil {
		o.PluralLocale = p.Config.PluralLocale(locale)
		o.MergePlurals = p.Config.MergePlurals
	}
	return o
}

func (p *Pipeline) logWarnings(locale string, warnings []pluralbridge.Warning) {
	for _, w := range warnings {
		p.Stats.Warnings.Add(1)
		p.Log.WithFields(logrus.Fields{
			"locale": locale,
			"id":     w.ID,
			"kind":   w.Kind.String(),
		}).Warn(w.Message)
	}
}

// Load reads the catalogs of every configured locale,
// combining the files of all catalog paths.
func (p *Pipeline) Load(ctx context.Context) (catalog.Catalogs, error) {
	perLocale := make(map[string][]*catalog.Catalog, len(p.Config.Locales))
	for _, cp := range p.Config.Catalogs {
		loaded, _, err := p.loadPath(ctx, cp)
		if err != nil {
			return nil, err
		}
		for l, c := range loaded {
			perLocale[l] = append(perLocale[l], c)
		}
	}
	cs := make(catalog.Catalogs, len(perLocale))
	for l, passes := range perLocale {
		c, err := catalog.Combine(passes...)
		if err != nil {
			return nil, fmt.Errorf("combining catalogs of %q: %w", l, err)
		}
		cs[l] = c
	}
	return cs, nil
}

// loadPath reads the catalog files of cp. Locales without a file
// map to a nil catalog.
func (p *Pipeline) loadPath(
	ctx context.Context, cp config.CatalogPath,
) (catalog.Catalogs, map[string]gettext.Header, error) {
	err := discover(p.Dir, cp, func(locale, file string) error {
		if !slices.Contains(p.Config.Locales, locale) {
			p.Log.WithField("file", file).Warnf("ignoring catalog of unconfigured locale %q", locale)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("discovering catalogs: %w", err)
	}

	locales := p.Config.Locales
	catalogs := make([]*catalog.Catalog, len(locales))
	headers := make([]gettext.Header, len(locales))
	g, ctx := errgroup.WithContext(ctx)
	for i, l := range locales {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var err error
			catalogs[i], headers[i], err = p.readPO(p.path(cp.File(l)), l)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	cs := make(catalog.Catalogs, len(locales))
	hs := make(map[string]gettext.Header, len(locales))
	for i, l := range locales {
		cs[l], hs[l] = catalogs[i], headers[i]
	}
	return cs, hs, nil
}

// readPO returns a nil catalog if file doesn't exist.
func (p *Pipeline) readPO(file, locale string) (*catalog.Catalog, gettext.Header, error) {
	f, err := os.Open(file)
	if errors.Is(err, fs.ErrNotExist) {
		p.Log.WithFields(logrus.Fields{"locale": locale, "file": file}).
			Debug("no previous catalog")
		return nil, gettext.Header{}, nil
	}
	if err != nil {
		return nil, gettext.Header{}, fmt.Errorf("opening .po file: %w", err)
	}
	defer f.Close()

	po, err := gettext.NewDecoder().Decode(file, f)
	if err != nil {
		return nil, gettext.Header{}, fmt.Errorf("decoding .po file: %w", err)
	}
	c, warnings, err := pofmt.Import(po, p.pofmtOptions(locale))
	if err != nil {
		return nil, gettext.Header{}, fmt.Errorf("importing %q: %w", file, err)
	}
	p.logWarnings(locale, warnings)
	p.Stats.FilesRead.Add(1)
	return c, po.Header, nil
}

// writePO writes c as a .po file, or as a .pot template if template is set.
func (p *Pipeline) writePO(
	file, locale string, c *catalog.Catalog, h gettext.Header, template bool,
) error {
	if h.POTCreationDate == "" {
		h.POTCreationDate = p.Now().Format(TimeFormat)
	}
	f, warnings, err := pofmt.Export(c, h, p.pofmtOptions(locale))
	if err != nil {
		return fmt.Errorf("exporting %q: %w", file, err)
	}
	p.logWarnings(locale, warnings)
	if template {
		f = f.Template()
	}
	var buf bytes.Buffer
	if err := (gettext.Encoder{}).Encode(&buf, f); err != nil {
		return fmt.Errorf("encoding %q: %w", file, err)
	}
	return p.writeFile(file, buf.Bytes())
}

func (p *Pipeline) writeFile(name string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	p.Stats.FilesWritten.Add(1)
	p.Log.WithField("file", name).Debug("written")
	return nil
}

// discover walks the directory of cp under root and calls fn for every
// catalog file found with the locale it belongs to.
func discover(root string, cp config.CatalogPath, fn func(locale, file string) error) error {
	pattern := path.Clean(filepath.ToSlash(cp.Path))
	i := strings.Index(pattern, config.LocalePlaceholder)
	if i < 0 {
		return nil
	}
	base := path.Dir(pattern[:i] + "_")
	re := regexp.MustCompile("^" + strings.ReplaceAll(
		regexp.QuoteMeta(pattern),
		regexp.QuoteMeta(config.LocalePlaceholder),
		"([^/]+)",
	) + "$")

	dir := filepath.Join(root, filepath.FromSlash(base))
	if filepath.IsAbs(cp.Path) {
		root, dir = "", filepath.FromSlash(base)
	}
	err := filepath.WalkDir(dir, func(file string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel := file
		if root != "" {
			if rel, err = filepath.Rel(root, file); err != nil {
				return err
			}
		}
		m := re.FindStringSubmatch(filepath.ToSlash(rel))
		if m == nil {
			return nil
		}
		if _, err := language.Parse(m[1]); err != nil {
			return nil
		}
		return fn(m[1], file)
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
