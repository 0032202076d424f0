package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hotellink/internal/domain"
)

// ContentOptions configures a ContentService. Zero TTLs fall back to 5 minutes
// for content and 24 hours for settings.
type ContentOptions struct {
	PropertyID    int64
	MediaBaseURL  string
	DefaultLocale string
	CacheTTL      time.Duration
	SettingsTTL   time.Duration
	Misses        domain.MissLog
	Text          domain.TextRenderer
	Now           func() time.Time
}

// ContentService fetches content from the API and maps it into UI-ready views.
// Results are cached read-through; a nil cache disables caching.
type ContentService struct {
	api           domain.ContentAPI
	cache         domain.Cache
	misses        domain.MissLog
	text          domain.TextRenderer
	propertyID    int64
	mediaBase     string
	defaultLocale string
	ttl           time.Duration
	settingsTTL   time.Duration
	now           func() time.Time
}

func NewContentService(api domain.ContentAPI, c domain.Cache, o ContentOptions) *ContentService {
	s := &ContentService{
		api:           api,
		cache:         c,
		misses:        o.Misses,
		text:          o.Text,
		propertyID:    o.PropertyID,
		mediaBase:     strings.TrimRight(o.MediaBaseURL, "/"),
		defaultLocale: o.DefaultLocale,
		ttl:           o.CacheTTL,
		settingsTTL:   o.SettingsTTL,
		now:           o.Now,
	}
	if s.defaultLocale == "" {
		s.defaultLocale = domain.DefaultLocale
	}
	if s.ttl <= 0 {
		s.ttl = 5 * time.Minute
	}
	if s.settingsTTL <= 0 {
		s.settingsTTL = 24 * time.Hour
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *ContentService) PropertyID() int64     { return s.propertyID }
func (s *ContentService) DefaultLocale() string { return s.defaultLocale }

// Query selects an entity list.
type Query struct {
	Kind   domain.Kind
	Locale string
}

// stamped is the cached envelope; FetchedAt lets a reader reject entries older
// than its own TTL even when the backend kept them longer.
type stamped[T any] struct {
	Value     T         `json:"value"`
	FetchedAt time.Time `json:"fetchedAt"`
}

func cached[T any](ctx context.Context, s *ContentService, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	if s.cache != nil {
		var st stamped[T]
		if ok, _ := s.cache.Get(ctx, key, &st); ok && s.now().Sub(st.FetchedAt) < ttl {
			return st.Value, nil
		}
	}
	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, stamped[T]{Value: v, FetchedAt: s.now()}, int(ttl.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return v, nil
}

func (s *ContentService) key(what, locale string) string {
	if locale == "" {
		return fmt.Sprintf("site:%d:%s", s.propertyID, what)
	}
	return fmt.Sprintf("site:%d:%s:%s", s.propertyID, what, strings.ToLower(locale))
}

func (s *ContentService) fail(err error, what, locale string) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	log.Warn().Err(err).
		Str("kind", what).
		Int64("property", s.propertyID).
		Str("locale", locale).
		Msg("content fetch failed")
	return fmt.Errorf("load %s: %w", what, err)
}

func (s *ContentService) locale(l string) string {
	if l == "" {
		return s.defaultLocale
	}
	return l
}

/********** property-level **********/

func (s *ContentService) Property(ctx context.Context) (domain.Property, error) {
	p, err := cached(ctx, s, s.key("property", ""), s.settingsTTL, func(ctx context.Context) (domain.Property, error) {
		return s.api.Property(ctx, s.propertyID)
	})
	if err != nil {
		return p, s.fail(err, "property", "")
	}
	return p, nil
}

func (s *ContentService) Locales(ctx context.Context) ([]domain.Locale, error) {
	ls, err := cached(ctx, s, s.key("locales", ""), s.settingsTTL, func(ctx context.Context) ([]domain.Locale, error) {
		return s.api.Locales(ctx, s.propertyID)
	})
	if err != nil {
		return nil, s.fail(err, "locales", "")
	}
	return ls, nil
}

// Settings returns the presentation settings with LogoURL resolved from the
// logo media when only an id is configured.
func (s *ContentService) Settings(ctx context.Context) (domain.Settings, error) {
	st, err := cached(ctx, s, s.key("settings", ""), s.settingsTTL, func(ctx context.Context) (domain.Settings, error) {
		st, err := s.api.Settings(ctx, s.propertyID)
		if err != nil {
			return st, err
		}
		if st.LogoURL == "" && st.LogoMediaID != 0 {
			m, merr := s.api.Media(ctx, st.LogoMediaID)
			switch {
			case merr == nil && m.URL != "":
				st.LogoURL = m.URL
			default:
				if merr != nil {
					log.Warn().Err(merr).Int64("media", st.LogoMediaID).Msg("logo media lookup failed")
				}
				st.LogoURL = s.mediaURL(domain.MediaRef{MediaID: st.LogoMediaID})
			}
		}
		return st, nil
	})
	if err != nil {
		return st, s.fail(err, "settings", "")
	}
	return st, nil
}

// PageVRLinks maps page code to its active VR360 link.
func (s *ContentService) PageVRLinks(ctx context.Context) (map[string]string, error) {
	rows, err := cached(ctx, s, s.key("vr360", ""), s.settingsTTL, func(ctx context.Context) ([]domain.PageVR, error) {
		return s.api.VR360Settings(ctx, s.propertyID)
	})
	if err != nil {
		return nil, s.fail(err, "vr360_settings", "")
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		link := strings.TrimSpace(r.Link)
		if !r.Active() || link == "" || r.Page == "" {
			continue
		}
		out[strings.ToLower(r.Page)] = link
	}
	return out, nil
}

/********** entities **********/

func (s *ContentService) List(ctx context.Context, q Query) ([]domain.EntityView, error) {
	if !q.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrValidation, q.Kind)
	}
	locale := s.locale(q.Locale)
	out, err := cached(ctx, s, s.key(string(q.Kind), locale), s.ttl, func(ctx context.Context) ([]domain.EntityView, error) {
		raw, err := s.api.Entities(ctx, q.Kind, s.propertyID, locale)
		if err != nil {
			return nil, err
		}
		return s.mapEntities(q.Kind, raw, locale), nil
	})
	if err != nil {
		return nil, s.fail(err, string(q.Kind), locale)
	}
	return out, nil
}

// ByCode loads one entity by its URL code. Unknown codes are recorded in the
// miss log and reported as domain.ErrNotFound.
func (s *ContentService) ByCode(ctx context.Context, kind domain.Kind, code, locale string) (domain.EntityView, error) {
	if !kind.Valid() {
		return domain.EntityView{}, fmt.Errorf("%w: unknown kind %q", domain.ErrValidation, kind)
	}
	locale = s.locale(locale)
	// codes are keyed exactly as sent; the API decides whether case matters
	what := string(kind) + ":code:" + code
	v, err := cached(ctx, s, s.key(what, locale), s.ttl, func(ctx context.Context) (domain.EntityView, error) {
		e, err := s.api.EntityByCode(ctx, kind, s.propertyID, code, locale)
		if err != nil {
			return domain.EntityView{}, err
		}
		return s.mapEntity(kind, e, locale), nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logMiss(ctx, kind, code, locale)
		}
		return v, s.fail(err, string(kind), locale)
	}
	return v, nil
}

func (s *ContentService) ByID(ctx context.Context, kind domain.Kind, id int64, locale string) (domain.EntityView, error) {
	if !kind.Valid() {
		return domain.EntityView{}, fmt.Errorf("%w: unknown kind %q", domain.ErrValidation, kind)
	}
	locale = s.locale(locale)
	v, err := cached(ctx, s, s.key(fmt.Sprintf("%s:id:%d", kind, id), locale), s.ttl, func(ctx context.Context) (domain.EntityView, error) {
		e, err := s.api.EntityByID(ctx, kind, id, locale)
		if err != nil {
			return domain.EntityView{}, err
		}
		return s.mapEntity(kind, e, locale), nil
	})
	if err != nil {
		return v, s.fail(err, string(kind), locale)
	}
	return v, nil
}

func (s *ContentService) logMiss(ctx context.Context, kind domain.Kind, code, locale string) {
	if s.misses == nil {
		return
	}
	m := domain.Miss{PropertyID: s.propertyID, Kind: string(kind), Code: code, Locale: locale, SeenAt: s.now().UTC()}
	if err := s.misses.LogMiss(ctx, m); err != nil {
		log.Warn().Err(err).Str("kind", string(kind)).Str("code", code).Msg("miss log write failed")
	}
}

/********** pages, posts, contact, gallery **********/

func (s *ContentService) Page(ctx context.Context, kind domain.PageKind, locale string) (domain.PageView, error) {
	locale = s.locale(locale)
	v, err := cached(ctx, s, s.key(string(kind), locale), s.ttl, func(ctx context.Context) (domain.PageView, error) {
		p, err := s.api.Page(ctx, kind, s.propertyID, locale)
		if err != nil {
			return domain.PageView{}, err
		}
		return s.mapPage(kind, p, locale), nil
	})
	if err != nil {
		return v, s.fail(err, string(kind), locale)
	}
	return v, nil
}

func (s *ContentService) Policy(ctx context.Context, locale string) (domain.PageView, error) {
	return s.Page(ctx, domain.PagePolicy, locale)
}

func (s *ContentService) Regulation(ctx context.Context, locale string) (domain.PageView, error) {
	return s.Page(ctx, domain.PageRegulation, locale)
}

func (s *ContentService) Introduction(ctx context.Context, locale string) (domain.PageView, error) {
	return s.Page(ctx, domain.PageIntroduction, locale)
}

func (s *ContentService) Posts(ctx context.Context, locale string) ([]domain.PostView, error) {
	locale = s.locale(locale)
	out, err := cached(ctx, s, s.key("posts", locale), s.ttl, func(ctx context.Context) ([]domain.PostView, error) {
		raw, err := s.api.Posts(ctx, s.propertyID, locale)
		if err != nil {
			return nil, err
		}
		return s.mapPosts(raw, locale), nil
	})
	if err != nil {
		return nil, s.fail(err, "posts", locale)
	}
	return out, nil
}

func (s *ContentService) Contact(ctx context.Context, locale string) (domain.ContactView, error) {
	locale = s.locale(locale)
	v, err := cached(ctx, s, s.key("contact", locale), s.ttl, func(ctx context.Context) (domain.ContactView, error) {
		c, err := s.api.Contact(ctx, s.propertyID, locale)
		if err != nil {
			return domain.ContactView{}, err
		}
		// property only fills blanks; its failure leaves them blank
		p, perr := s.Property(ctx)
		if perr != nil && errors.Is(perr, context.Canceled) {
			return domain.ContactView{}, perr
		}
		return s.mapContact(c, p, locale), nil
	})
	if err != nil {
		return v, s.fail(err, "contact", locale)
	}
	return v, nil
}

func (s *ContentService) Gallery(ctx context.Context) ([]domain.MediaView, error) {
	out, err := cached(ctx, s, s.key("gallery", ""), s.ttl, func(ctx context.Context) ([]domain.MediaView, error) {
		raw, err := s.api.Gallery(ctx, s.propertyID)
		if err != nil {
			return nil, err
		}
		return s.mapGallery(raw), nil
	})
	if err != nil {
		return nil, s.fail(err, "gallery", "")
	}
	return out, nil
}

// Invalidate drops the cached property-level entries and the per-locale lists
// for locales. Detail entries expire on their own TTL.
func (s *ContentService) Invalidate(ctx context.Context, locales []string) {
	if s.cache == nil {
		return
	}
	keys := []string{
		s.key("property", ""), s.key("locales", ""), s.key("settings", ""),
		s.key("vr360", ""), s.key("gallery", ""),
	}
	for _, l := range locales {
		for _, k := range domain.Kinds {
			keys = append(keys, s.key(string(k), l))
		}
		for _, p := range []domain.PageKind{domain.PageIntroduction, domain.PagePolicy, domain.PageRegulation} {
			keys = append(keys, s.key(string(p), l))
		}
		keys = append(keys, s.key("posts", l), s.key("contact", l))
	}
	for _, k := range keys {
		if err := s.cache.Del(ctx, k); err != nil {
			log.Warn().Err(err).Str("key", k).Msg("cache del failed")
		}
	}
}
