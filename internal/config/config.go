// Package config loads the project configuration.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/lingui/catalog"
)

// LocalePlaceholder is replaced by the locale in catalog paths.
const LocalePlaceholder = "{locale}"

const (
	FormatJSON = "json"
	FormatGo   = "go"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported config file format")
	ErrNoSourceLocale    = errors.New("sourceLocale is required")
	ErrInvalidLocale     = errors.New("invalid locale, must be BCP 47")
	ErrSourceNotListed   = errors.New("sourceLocale must be listed in locales")
	ErrNoCatalogs        = errors.New("at least one catalog is required")
	ErrNoPlaceholder     = errors.New("catalog path must contain " + LocalePlaceholder)
	ErrCompileFormat     = errors.New("compile format must be json or go")
)

type Config struct {
	SourceLocale string   `toml:"sourceLocale" yaml:"sourceLocale" json:"sourceLocale"`
	Locales      []string `toml:"locales" yaml:"locales" json:"locales"`

	// PseudoLocale is exempt from BCP 47 validation and pluralizes
	// like the source locale.
	PseudoLocale string `toml:"pseudoLocale" yaml:"pseudoLocale" json:"pseudoLocale"`

	// FallbackLocales lists the locales to take missing translations from.
	FallbackLocales map[string][]string `toml:"fallbackLocales" yaml:"fallbackLocales" json:"fallbackLocales"`

	Catalogs []CatalogPath `toml:"catalogs" yaml:"catalogs" json:"catalogs"`

	OrderBy      catalog.OrderBy `toml:"orderBy" yaml:"orderBy" json:"orderBy"`
	Overwrite    bool            `toml:"overwrite" yaml:"overwrite" json:"overwrite"`
	MergePlurals bool            `toml:"mergePlurals" yaml:"mergePlurals" json:"mergePlurals"`

	Compile Compile `toml:"compile" yaml:"compile" json:"compile"`
}

type CatalogPath struct {
	// Path of the .po file with the LocalePlaceholder.
	Path string `toml:"path" yaml:"path" json:"path"`

	// Include limits the catalog to messages with an origin under any of
	// these paths. All messages are included if empty.
	Include []string `toml:"include" yaml:"include" json:"include"`

	// Template is the path of the .pot file written on merge, none if empty.
	Template string `toml:"template" yaml:"template" json:"template"`
}

// File returns the path of the catalog file of locale.
func (p CatalogPath) File(locale string) string {
	return strings.ReplaceAll(p.Path, LocalePlaceholder, locale)
}

// Includes reports whether m belongs to the catalog.
func (p CatalogPath) Includes(m *catalog.Message) bool {
	if len(p.Include) == 0 {
		return true
	}
	for _, o := range m.Origins {
		file := filepath.ToSlash(filepath.Clean(o.File))
		for _, inc := range p.Include {
			inc = filepath.ToSlash(filepath.Clean(inc))
			if file == inc || strings.HasPrefix(file, inc+"/") {
				return true
			}
		}
	}
	return false
}

type Compile struct {
	OutDir    string `toml:"outDir" yaml:"outDir" json:"outDir"`
	Format    string `toml:"format" yaml:"format" json:"format"`
	GoPackage string `toml:"goPackage" yaml:"goPackage" json:"goPackage"`
	Strict    bool   `toml:"strict" yaml:"strict" json:"strict"`
}

// Default returns the configuration defaults.
func Default() *Config {
	return &Config{
		OrderBy: catalog.OrderByMessageID,
		Compile: Compile{
			OutDir:    "compiled",
			Format:    FormatJSON,
			GoPackage: "messages",
		},
	}
}

// Load reads the configuration file at path over the defaults.
// The format is chosen by extension: .toml, .yaml, .yml or .json.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	c := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(b), c); err != nil {
			return nil, fmt.Errorf("decoding TOML config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("decoding YAML config: %w", err)
		}
	case ".json":
		d := json.NewDecoder(bytes.NewReader(b))
		d.DisallowUnknownFields()
		if err := d.Decode(c); err != nil {
			return nil, fmt.Errorf("decoding JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks c for consistency.
func (c *Config) Validate() error {
	if c.SourceLocale == "" {
		return ErrNoSourceLocale
	}
	check := func(l string) error {
		if l == c.PseudoLocale {
			return nil
		}
		if _, err := language.Parse(l); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidLocale, l)
		}
		return nil
	}
	if err := check(c.SourceLocale); err != nil {
		return err
	}
	for _, l := range c.Locales {
		if err := check(l); err != nil {
			return err
		}
	}
	if !slices.Contains(c.Locales, c.SourceLocale) {
		return fmt.Errorf("%w: %q", ErrSourceNotListed, c.SourceLocale)
	}
	for l, fallbacks := range c.FallbackLocales {
		for _, f := range append([]string{l}, fallbacks...) {
			if err := check(f); err != nil {
				return fmt.Errorf("fallbackLocales: %w", err)
			}
		}
	}
	if len(c.Catalogs) == 0 {
		return ErrNoCatalogs
	}
	for _, p := range c.Catalogs {
		if !strings.Contains(p.Path, LocalePlaceholder) {
			return fmt.Errorf("%w: %q", ErrNoPlaceholder, p.Path)
		}
	}
	if _, err := catalog.ParseOrderBy(string(c.OrderBy)); err != nil {
		return err
	}
	switch c.Compile.Format {
	case FormatJSON, FormatGo:
	default:
		return fmt.Errorf("%w: %q", ErrCompileFormat, c.Compile.Format)
	}
	return nil
}

// PluralLocale returns the locale whose plural rules apply to locale.
func (c *Config) PluralLocale(locale string) string {
	if c.PseudoLocale != "" && locale == c.PseudoLocale {
		return c.SourceLocale
	}
	return locale
}
