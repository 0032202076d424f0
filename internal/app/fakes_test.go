package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"hotellink/internal/app"
	"hotellink/internal/domain"
)

// ---- fakes ----

type fakeAPI struct {
	mu       sync.Mutex
	prop     domain.Property
	locales  []domain.Locale
	settings domain.Settings
	vr       []domain.PageVR
	entities map[domain.Kind][]domain.Entity
	pages    map[domain.PageKind]domain.Page
	posts    []domain.Post
	contact  domain.Contact
	gallery  []domain.MediaItem
	media    map[int64]domain.MediaItem
	errs     map[string]error
	calls    map[string]int
}

func (f *fakeAPI) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
	return f.errs[name]
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) Property(ctx context.Context, id int64) (domain.Property, error) {
	return f.prop, f.hit("property")
}
func (f *fakeAPI) Locales(ctx context.Context, id int64) ([]domain.Locale, error) {
	return f.locales, f.hit("locales")
}
func (f *fakeAPI) Settings(ctx context.Context, id int64) (domain.Settings, error) {
	return f.settings, f.hit("settings")
}
func (f *fakeAPI) VR360Settings(ctx context.Context, id int64) ([]domain.PageVR, error) {
	return f.vr, f.hit("vr360")
}
func (f *fakeAPI) Entities(ctx context.Context, k domain.Kind, id int64, locale string) ([]domain.Entity, error) {
	if err := f.hit(string(k)); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Entity(nil), f.entities[k]...), nil
}
func (f *fakeAPI) EntityByCode(ctx context.Context, k domain.Kind, id int64, code, locale string) (domain.Entity, error) {
	if err := f.hit(string(k) + ":code"); err != nil {
		return domain.Entity{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entities[k] {
		if e.Code == code {
			return e, nil
		}
	}
	return domain.Entity{}, fmt.Errorf("%s %q: %w", k, code, domain.ErrNotFound)
}
func (f *fakeAPI) EntityByID(ctx context.Context, k domain.Kind, id int64, locale string) (domain.Entity, error) {
	if err := f.hit(string(k) + ":id"); err != nil {
		return domain.Entity{}, err
	}
	for _, e := range f.entities[k] {
		if e.ID == id {
			return e, nil
		}
	}
	return domain.Entity{}, domain.ErrNotFound
}
func (f *fakeAPI) Page(ctx context.Context, k domain.PageKind, id int64, locale string) (domain.Page, error) {
	if err := f.hit(string(k)); err != nil {
		return domain.Page{}, err
	}
	p, ok := f.pages[k]
	if !ok {
		return domain.Page{}, domain.ErrNotFound
	}
	return p, nil
}
func (f *fakeAPI) Posts(ctx context.Context, id int64, locale string) ([]domain.Post, error) {
	return f.posts, f.hit("posts")
}
func (f *fakeAPI) Contact(ctx context.Context, id int64, locale string) (domain.Contact, error) {
	return f.contact, f.hit("contact")
}
func (f *fakeAPI) Gallery(ctx context.Context, id int64) ([]domain.MediaItem, error) {
	return f.gallery, f.hit("gallery")
}
func (f *fakeAPI) Media(ctx context.Context, id int64) (domain.MediaItem, error) {
	if err := f.hit("media"); err != nil {
		return domain.MediaItem{}, err
	}
	m, ok := f.media[id]
	if !ok {
		return domain.MediaItem{}, domain.ErrNotFound
	}
	return m, nil
}

// fakeCache stores JSON like the redis adapter, so cached values never alias.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	c.store[key] = b
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

type fakeMisses struct {
	mu   sync.Mutex
	seen []domain.Miss
}

func (m *fakeMisses) LogMiss(ctx context.Context, miss domain.Miss) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen = append(m.seen, miss)
	return nil
}

type fakeLabels map[string]map[string]string

func (l fakeLabels) Title(locale, key string) string {
	if v, ok := l[locale][key]; ok {
		return v
	}
	if v, ok := l["vi"][key]; ok {
		return v
	}
	return key
}

var labelsFixture = fakeLabels{
	"vi": {"title_home": "Trang chủ", "title_rooms": "Phòng nghỉ", "title_booking": "Đặt phòng", "error_not_found": "Không tìm thấy nội dung.", "error_load": "Không thể tải dữ liệu."},
	"en": {"title_home": "Home", "title_rooms": "Rooms", "title_booking": "Book now", "error_not_found": "Content not found.", "error_load": "Unable to load data."},
}

func tr(pairs ...string) domain.Translations {
	out := domain.Translations{}
	for i := 0; i+2 < len(pairs); i += 3 {
		out[pairs[i]] = domain.Translation{Name: pairs[i+1], Description: pairs[i+2]}
	}
	return out
}

func newFixtureAPI() *fakeAPI {
	return &fakeAPI{
		prop: domain.Property{
			ID: 7, Name: "Sea Breeze Hotel", VR360URL: "https://kuula.co/share/lobby",
			BookingURL: "https://booking.example.com/sea-breeze", Phone: "+84 28 0000 0000",
		},
		locales: []domain.Locale{{Code: "vi", IsDefault: true}, {Code: "en"}},
		vr: []domain.PageVR{
			{Page: "rooms", Link: "https://kuula.co/share/rooms-floor"},
			{Page: "dining", Link: "https://kuula.co/share/old", IsActive: ptr(false)},
		},
		entities: map[domain.Kind][]domain.Entity{
			domain.KindRoom: {
				{
					ID: 1, Code: "deluxe-101", DisplayOrder: 2,
					Translations: tr("vi", "Phòng Deluxe", "Hướng biển", "en", "Deluxe Room", "Sea view"),
					Media: []domain.MediaRef{
						{MediaID: 11, SortOrder: 2},
						{MediaID: 10, IsPrimary: true},
						{MediaID: 12, SortOrder: 1},
					},
					VRLink:     "https://kuula.co/share/deluxe",
					Attributes: map[string]any{"base_price": "1200000", "max_guests": 3, "area": 32, "balcony": true},
				},
				{
					ID: 2, Code: "suite-201", DisplayOrder: 1,
					Translations: tr("vi", "Phòng Suite", "Rộng rãi"),
				},
			},
		},
		posts: []domain.Post{
			{ID: 5, DisplayOrder: 1, Translations: tr("vi", "Chào mừng đến Sea Breeze", "")},
		},
	}
}

func newServices(api *fakeAPI, cache domain.Cache, misses domain.MissLog) (*app.ContentService, *app.SiteService, *app.ShellService) {
	content := app.NewContentService(api, cache, app.ContentOptions{
		PropertyID:   7,
		MediaBaseURL: "https://cdn.example.com/",
		CacheTTL:     10 * time.Minute,
		Misses:       misses,
	})
	site := app.NewSiteService(content, "", "")
	return content, site, app.NewShellService(site, content, labelsFixture, nil)
}

func ptr[T any](v T) *T { return &v }
