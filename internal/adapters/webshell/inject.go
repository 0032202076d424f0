// Package webshell serves the built SPA index.html with the runtime config and
// page meta tags injected into <head>.
package webshell

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/PuerkitoBio/goquery"
)

// RuntimeConfig is what the browser app reads from window.__APP_CONFIG__.
// It never carries credentials.
type RuntimeConfig struct {
	APIBaseURL    string   `json:"apiBaseUrl"`
	PropertyID    int64    `json:"propertyId"`
	TenantCode    string   `json:"tenantCode"`
	DefaultLocale string   `json:"defaultLocale"`
	Locales       []string `json:"locales"`
	CDNBaseURL    string   `json:"cdnBaseUrl,omitempty"`
	LogoURL       string   `json:"logoUrl,omitempty"`
	BookingURL    string   `json:"bookingUrl,omitempty"`
}

type Alternate struct {
	Locale string
	Href   string
}

type Meta struct {
	Title       string
	Description string
	Lang        string
	Canonical   string
	Image       string
	Alternates  []Alternate
}

type Injector struct{ index []byte }

func New(index []byte) *Injector { return &Injector{index: index} }

func Load(path string) (*Injector, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("webshell: read %s: %w", path, err)
	}
	return New(b), nil
}

// Render returns index.html with cfg and meta applied. Tags it owns are
// replaced rather than duplicated.
func (i *Injector) Render(cfg RuntimeConfig, meta Meta) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(i.index))
	if err != nil {
		return nil, fmt.Errorf("webshell: parse index: %w", err)
	}
	head := doc.Find("head").First()

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	head.Find("script#app-config").Remove()
	// json.Marshal escapes <, > and & so the payload cannot close the script tag
	head.PrependHtml(`<script id="app-config">window.__APP_CONFIG__=` + string(cfgJSON) + `;</script>`)

	if meta.Lang != "" {
		doc.Find("html").SetAttr("lang", meta.Lang)
	}
	if meta.Title != "" {
		if t := head.Find("title"); t.Length() > 0 {
			t.SetText(meta.Title)
		} else {
			head.AppendHtml("<title></title>")
			head.Find("title").SetText(meta.Title)
		}
		setMeta(head, "property", "og:title", meta.Title)
	}
	if meta.Description != "" {
		setMeta(head, "name", "description", meta.Description)
		setMeta(head, "property", "og:description", meta.Description)
	}
	if meta.Image != "" {
		setMeta(head, "property", "og:image", meta.Image)
	}
	if meta.Canonical != "" {
		head.Find(`link[rel="canonical"]`).Remove()
		head.AppendHtml(`<link rel="canonical"/>`)
		head.Find(`link[rel="canonical"]`).SetAttr("href", meta.Canonical)
	}
	if len(meta.Alternates) > 0 {
		head.Find(`link[rel="alternate"][hreflang]`).Remove()
		for _, a := range meta.Alternates {
			head.AppendHtml(`<link rel="alternate" data-new=""/>`)
			l := head.Find(`link[data-new]`)
			l.SetAttr("hreflang", a.Locale)
			l.SetAttr("href", a.Href)
			l.RemoveAttr("data-new")
		}
	}

	out, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("webshell: render index: %w", err)
	}
	return []byte(out), nil
}

// setMeta upserts <meta attr=key content=value>; SetAttr escapes the value.
func setMeta(head *goquery.Selection, attr, key, value string) {
	sel := head.Find(fmt.Sprintf(`meta[%s=%q]`, attr, key))
	if sel.Length() == 0 {
		head.AppendHtml(fmt.Sprintf(`<meta %s=%q/>`, attr, key))
		sel = head.Find(fmt.Sprintf(`meta[%s=%q]`, attr, key))
	}
	sel.SetAttr("content", value)
}
