package app

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"hotellink/internal/domain"
)

// DefaultPrimaryColor is used when neither settings nor property set a theme color.
const DefaultPrimaryColor = "#8B6F47"

type Theme struct {
	PrimaryColor string `json:"primaryColor"`
	LogoURL      string `json:"logoUrl,omitempty"`
	FaviconURL   string `json:"faviconUrl,omitempty"`
}

// Site is the cross-cutting state every view needs: property, languages and theme.
type Site struct {
	Property      domain.Property   `json:"property"`
	Locales       []domain.Locale   `json:"locales"`
	DefaultLocale string            `json:"defaultLocale"`
	Locale        string            `json:"locale"`
	Theme         Theme             `json:"theme"`
	PageVR        map[string]string `json:"pageVr,omitempty"`
	BookingURL    string            `json:"bookingUrl,omitempty"`
	SEOTitle      string            `json:"seoTitle,omitempty"`
	SEODesc       string            `json:"seoDescription,omitempty"`
}

// LocaleCodes lists the site's locale codes, default first.
func (s Site) LocaleCodes() []string {
	out := make([]string, 0, len(s.Locales))
	for _, l := range s.Locales {
		if l.IsDefault {
			out = append([]string{l.Code}, out...)
			continue
		}
		out = append(out, l.Code)
	}
	return out
}

type SiteService struct {
	content      *ContentService
	logoOverride string
	bookingURL   string

	mu   sync.RWMutex
	prop *domain.Property
}

// NewSiteService: logoOverride and bookingURL win over API values when set.
func NewSiteService(c *ContentService, logoOverride, bookingURL string) *SiteService {
	return &SiteService{content: c, logoOverride: logoOverride, bookingURL: bookingURL}
}

// Property returns the process-wide property, fetching it on first use.
func (s *SiteService) Property(ctx context.Context) (domain.Property, error) {
	s.mu.RLock()
	p := s.prop
	s.mu.RUnlock()
	if p != nil {
		return *p, nil
	}
	return s.Refresh(ctx)
}

// Refresh refetches the property and replaces the held copy.
func (s *SiteService) Refresh(ctx context.Context) (domain.Property, error) {
	p, err := s.content.Property(ctx)
	if err != nil {
		return domain.Property{}, err
	}
	s.mu.Lock()
	s.prop = &p
	s.mu.Unlock()
	return p, nil
}

// Load assembles the site state for locale. Only the property is required;
// locales, settings and VR links degrade to defaults when they fail.
func (s *SiteService) Load(ctx context.Context, locale string) (Site, error) {
	var (
		prop     domain.Property
		locales  []domain.Locale
		settings domain.Settings
		pageVR   map[string]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		prop, err = s.Property(gctx)
		return err
	})
	g.Go(func() error {
		locales, _ = s.content.Locales(gctx)
		return nil
	})
	g.Go(func() error {
		settings, _ = s.content.Settings(gctx)
		return nil
	})
	g.Go(func() error {
		pageVR, _ = s.content.PageVRLinks(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Site{}, err
	}

	locales = normalizeLocales(locales, s.content.DefaultLocale())
	def := locales[0].Code
	for _, l := range locales {
		if l.IsDefault {
			def = l.Code
			break
		}
	}
	if locale == "" {
		locale = def
	}

	site := Site{
		Property:      prop,
		Locales:       locales,
		DefaultLocale: def,
		Locale:        locale,
		Theme: Theme{
			PrimaryColor: firstNonEmpty(settings.PrimaryColor, prop.PrimaryColor, DefaultPrimaryColor),
			LogoURL:      firstNonEmpty(s.logoOverride, settings.LogoURL, prop.LogoURL),
			FaviconURL:   settings.FaviconURL,
		},
		PageVR:     pageVR,
		BookingURL: firstNonEmpty(s.bookingURL, prop.BookingURL),
		SEOTitle:   firstNonEmpty(settings.SEOTitle, prop.Name),
		SEODesc:    settings.SEODescription,
	}
	return site, nil
}

// normalizeLocales guarantees a non-empty list with exactly one default.
func normalizeLocales(in []domain.Locale, def string) []domain.Locale {
	out := make([]domain.Locale, 0, len(in)+1)
	seen := false
	for _, l := range in {
		if strings.TrimSpace(l.Code) == "" {
			continue
		}
		if l.IsDefault && seen {
			l.IsDefault = false
		}
		seen = seen || l.IsDefault
		out = append(out, l)
	}
	if seen {
		return out
	}
	for i := range out {
		if strings.EqualFold(out[i].Code, def) {
			out[i].IsDefault = true
			return out
		}
	}
	return append([]domain.Locale{{Code: def, IsDefault: true}}, out...)
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
