package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/lingui/catalog"
	"github.com/lingui/catalog/compile"
	"github.com/lingui/catalog/internal/config"
	"github.com/lingui/catalog/internal/gengo"
)

// Compile compiles the catalogs of every locale and writes them
// to the output directory. Messages failing to compile are logged and
// left out. In strict mode they fail the compilation with ErrCompile.
func (p *Pipeline) Compile(ctx context.Context) error {
	start := time.Now()
	catalogs, err := p.Load(ctx)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, l := range p.Config.Locales {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return p.compileLocale(l, catalogs)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if n := p.Stats.CompileErrors.Load(); n > 0 && p.Config.Compile.Strict {
		return fmt.Errorf("%w: %d", ErrCompile, n)
	}
	p.Log.WithField("took", time.Since(start)).Info("compiled")
	return nil
}

// Fallbacks returns the catalogs consulted for messages of locale
// missing a translation: the configured fallback locales followed by
// the source locale.
func (p *Pipeline) Fallbacks(locale string, catalogs catalog.Catalogs) []*catalog.Catalog {
	locales := slices.Clone(p.Config.FallbackLocales[locale])
	if locale != p.Config.SourceLocale && !slices.Contains(locales, p.Config.SourceLocale) {
		locales = append(locales, p.Config.SourceLocale)
	}
	fallbacks := make([]*catalog.Catalog, 0, len(locales))
	for _, l := range locales {
		if c, ok := catalogs[l]; ok && l != locale {
			fallbacks = append(fallbacks, c)
		}
	}
	return fallbacks
}

func (p *Pipeline) compileLocale(locale string, catalogs catalog.Catalogs) error {
	log := p.Log.WithField("locale", locale)
	conf := p.Config.Compile

	r := compile.Catalog(catalogs[locale], locale, compile.Options{
		SourceLocale: p.Config.SourceLocale,
		Fallbacks:    p.Fallbacks(locale, catalogs),
		Strict:       conf.Strict,
	})
	for _, e := range r.Errors {
		log.WithField("id", e.ID).WithError(e.Err).Errorf("compiling %q", e.Source)
	}
	for _, id := range r.Missing {
		log.WithField("id", id).Debug("missing translation")
	}
	p.Stats.CompileErrors.Add(int64(len(r.Errors)))
	p.Stats.Missing.Add(int64(len(r.Missing)))
	log.WithFields(logrus.Fields{
		"messages": len(r.IDs),
		"missing":  len(r.Missing),
		"errors":   len(r.Errors),
	}).Info("catalog compiled")

	var buf bytes.Buffer
	var name string
	switch conf.Format {
	case config.FormatGo:
		name = strcase.ToSnake(locale) + ".go"
		err := gengo.Write(&buf, r, gengo.Options{
			Package:     conf.GoPackage,
			Locale:      locale,
			HeadComment: []string{"Source locale: " + p.Config.SourceLocale},
		})
		if err != nil {
			return fmt.Errorf("generating Go catalog of %q: %w", locale, err)
		}
	default:
		name = locale + ".json"
		if err := compile.MarshalCatalog(&buf, r); err != nil {
			return fmt.Errorf("encoding catalog of %q: %w", locale, err)
		}
	}
	return p.writeFile(filepath.Join(p.path(conf.OutDir), name), buf.Bytes())
}
