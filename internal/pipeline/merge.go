package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lingui/catalog"
	"github.com/lingui/catalog/gettext"
	"github.com/lingui/catalog/internal/config"
)

// LoadNext reads and combines the JSON next catalogs in files.
func (p *Pipeline) LoadNext(ctx context.Context, files ...string) (*catalog.Catalog, error) {
	passes := make([]*catalog.Catalog, 0, len(files))
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, err := readCatalogFile(p.path(name))
		if err != nil {
			return nil, err
		}
		p.Stats.FilesRead.Add(1)
		passes = append(passes, c)
	}
	next, err := catalog.Combine(passes...)
	if err != nil {
		return nil, fmt.Errorf("combining next catalogs: %w", err)
	}
	return next, nil
}

// Merge merges next into the catalogs of every catalog path and writes them.
func (p *Pipeline) Merge(ctx context.Context, next *catalog.Catalog) error {
	start := time.Now()
	for _, cp := range p.Config.Catalogs {
		if err := p.mergePath(ctx, cp, next); err != nil {
			return err
		}
	}
	p.Log.WithField("took", time.Since(start)).Info("merged")
	return nil
}

func (p *Pipeline) mergePath(ctx context.Context, cp config.CatalogPath, next *catalog.Catalog) error {
	included := catalog.New()
	for id, m := range next.All() {
		if cp.Includes(m) {
			included.Set(id, m)
		}
	}

	prev, headers, err := p.loadPath(ctx, cp)
	if err != nil {
		return err
	}
	merged, err := catalog.Merge(prev, included, catalog.MergeOptions{
		SourceLocale: p.Config.SourceLocale,
		Overwrite:    p.Config.Overwrite,
	})
	if err != nil {
		return fmt.Errorf("merging %q: %w", cp.Path, err)
	}

	for _, l := range p.Config.Locales {
		if err := ctx.Err(); err != nil {
			return err
		}
		c := merged[l]
		c.Sort(p.Config.OrderBy)

		var total, obsolete, missing int
		for _, m := range c.All() {
			total++
			switch {
			case m.Obsolete:
				obsolete++
			case m.Translation == "":
				missing++
			}
		}
		p.Stats.Messages.Add(int64(total))
		p.Stats.Obsolete.Add(int64(obsolete))
		p.Stats.Missing.Add(int64(missing))
		p.Log.WithFields(logrus.Fields{
			"locale":   l,
			"messages": total,
			"obsolete": obsolete,
			"missing":  missing,
		}).Info("catalog merged")

		if err := p.writePO(p.path(cp.File(l)), l, c, headers[l], false); err != nil {
			return err
		}
	}

	if cp.Template != "" {
		src := p.Config.SourceLocale
		err := p.writePO(p.path(cp.Template), src, merged[src], gettext.Header{}, true)
		if err != nil {
			return err
		}
	}
	return nil
}
