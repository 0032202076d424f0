// Package labels serves the microsite's own UI strings (panel titles, error
// messages) from YAML catalogs: the embedded defaults plus an optional
// override directory.
package labels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed catalogs/*.yaml
var embedded embed.FS

type Catalog struct {
	def string
	dir string

	mu     sync.RWMutex
	bundle *i18n.Bundle
}

// New loads the embedded catalogs, then any *.yaml in dir on top of them.
func New(defaultLocale, dir string) (*Catalog, error) {
	c := &Catalog{def: defaultLocale, dir: dir}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) Reload() error {
	tag, err := language.Parse(c.def)
	if err != nil {
		return fmt.Errorf("labels: default locale %q: %w", c.def, err)
	}
	b := i18n.NewBundle(tag)
	b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	entries, err := fs.ReadDir(embedded, "catalogs")
	if err != nil {
		return fmt.Errorf("labels: read embedded catalogs: %w", err)
	}
	for _, e := range entries {
		p := "catalogs/" + e.Name()
		raw, err := embedded.ReadFile(p)
		if err != nil {
			return err
		}
		if _, err := b.ParseMessageFileBytes(raw, p); err != nil {
			return fmt.Errorf("labels: parse %s: %w", p, err)
		}
	}

	if c.dir != "" {
		files, err := filepath.Glob(filepath.Join(c.dir, "*.yaml"))
		if err != nil {
			return err
		}
		for _, f := range files {
			raw, err := os.ReadFile(f)
			if err != nil {
				return fmt.Errorf("labels: read %s: %w", f, err)
			}
			if _, err := b.ParseMessageFileBytes(raw, f); err != nil {
				return fmt.Errorf("labels: parse %s: %w", f, err)
			}
		}
	}

	c.mu.Lock()
	c.bundle = b
	c.mu.Unlock()
	return nil
}

// Title returns key in locale, then in the default locale, then key itself.
func (c *Catalog) Title(locale, key string) string {
	c.mu.RLock()
	b := c.bundle
	c.mu.RUnlock()

	loc := i18n.NewLocalizer(b, locale, c.def)
	msg, err := loc.Localize(&i18n.LocalizeConfig{MessageID: key})
	if err != nil || strings.TrimSpace(msg) == "" {
		return key
	}
	return msg
}

// Locales lists the languages with at least one catalog.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tags := c.bundle.LanguageTags()
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.String())
	}
	return out
}
