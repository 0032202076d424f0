package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	server "hotellink/internal/adapters/http_server"
	"hotellink/internal/adapters/webshell"
	"hotellink/internal/app"
	"hotellink/internal/domain"
)

// stubAPI serves one property with two rooms.
type stubAPI struct{}

var rooms = []domain.Entity{
	{ID: 1, Code: "deluxe-101", DisplayOrder: 1, VRLink: "https://kuula.co/share/deluxe",
		Translations: domain.Translations{"vi": {Name: "Phòng Deluxe"}, "en": {Name: "Deluxe Room"}}},
	{ID: 2, Code: "suite-201", DisplayOrder: 2,
		Translations: domain.Translations{"vi": {Name: "Phòng Suite"}}},
}

func (stubAPI) Property(context.Context, int64) (domain.Property, error) {
	return domain.Property{ID: 7, Name: "Sea Breeze", BookingURL: "https://book.example.com/7", VR360URL: "https://kuula.co/share/lobby"}, nil
}
func (stubAPI) Locales(context.Context, int64) ([]domain.Locale, error) {
	return []domain.Locale{{Code: "vi", IsDefault: true}, {Code: "en"}}, nil
}
func (stubAPI) Settings(context.Context, int64) (domain.Settings, error) {
	return domain.Settings{SEODescription: "Beachfront hotel"}, nil
}
func (stubAPI) VR360Settings(context.Context, int64) ([]domain.PageVR, error) { return nil, nil }
func (stubAPI) Entities(_ context.Context, k domain.Kind, _ int64, _ string) ([]domain.Entity, error) {
	if k == domain.KindRoom {
		return rooms, nil
	}
	return nil, nil
}
func (stubAPI) EntityByCode(_ context.Context, k domain.Kind, _ int64, code, _ string) (domain.Entity, error) {
	if k == domain.KindRoom {
		for _, e := range rooms {
			if e.Code == code {
				return e, nil
			}
		}
	}
	return domain.Entity{}, domain.ErrNotFound
}
func (stubAPI) EntityByID(_ context.Context, k domain.Kind, id int64, _ string) (domain.Entity, error) {
	for _, e := range rooms {
		if k == domain.KindRoom && e.ID == id {
			return e, nil
		}
	}
	return domain.Entity{}, domain.ErrNotFound
}
func (stubAPI) Page(context.Context, domain.PageKind, int64, string) (domain.Page, error) {
	return domain.Page{Translations: domain.Translations{"vi": {Name: "Chính sách", Content: "<p>Nhận phòng 14:00</p>"}}}, nil
}
func (stubAPI) Posts(context.Context, int64, string) ([]domain.Post, error) { return nil, nil }
func (stubAPI) Contact(context.Context, int64, string) (domain.Contact, error) {
	return domain.Contact{Phone: "123"}, nil
}
func (stubAPI) Gallery(context.Context, int64) ([]domain.MediaItem, error) { return nil, nil }
func (stubAPI) Media(context.Context, int64) (domain.MediaItem, error) {
	return domain.MediaItem{}, domain.ErrNotFound
}

const index = `<!doctype html><html lang="vi"><head><title>x</title>
<script id="app-config">window.__APP_CONFIG__={};</script></head><body><div id="root"></div></body></html>`

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	content := app.NewContentService(stubAPI{}, nil, app.ContentOptions{PropertyID: 7, MediaBaseURL: "https://cdn.example.com"})
	site := app.NewSiteService(content, "", "")
	sh := app.NewShellService(site, content, nil, nil)

	srv := server.New()
	srv.MountHandlers(&server.Handlers{Shell: sh, Site: site, Content: content})
	srv.MountSPA(&server.SPA{
		Shell: sh,
		Index: webshell.New([]byte(index)),
		Static: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("console.log(1)"))
		}),
		Runtime:   webshell.RuntimeConfig{APIBaseURL: "https://api.example.com", PropertyID: 7, TenantCode: "demo"},
		PublicURL: "https://hotel.example.com",
	})
	return srv.Mux()
}

func get(h http.Handler, target string, hdr ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	rr := get(newTestServer(t), "/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestView_DeepLinkAndETag(t *testing.T) {
	h := newTestServer(t)
	rr := get(h, "/v1/view?path=/phong-nghi/deluxe-101")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "vi", rr.Header().Get("Content-Language"))

	var vs struct {
		Mode       string `json:"mode"`
		Code       string `json:"code"`
		Title      string `json:"title"`
		Background struct {
			Kind string `json:"kind"`
		} `json:"background"`
		BackgroundSource string `json:"backgroundSource"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &vs))
	assert.Equal(t, "rooms-detail", vs.Mode)
	assert.Equal(t, "deluxe-101", vs.Code)
	assert.Equal(t, "Phòng Deluxe", vs.Title)
	assert.Equal(t, "vr360", vs.Background.Kind)
	assert.Equal(t, "detail", vs.BackgroundSource)

	etag := rr.Header().Get("ETag")
	require.NotEmpty(t, etag)
	rr2 := get(h, "/v1/view?path=/phong-nghi/deluxe-101", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, rr2.Code)
}

func TestView_UnknownPath(t *testing.T) {
	rr := get(newTestServer(t), "/v1/view?path=/en/khong-co")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
}

func TestView_RelativePathRejected(t *testing.T) {
	rr := get(newTestServer(t), "/v1/view?path=phong-nghi")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEntities(t *testing.T) {
	h := newTestServer(t)

	rr := get(h, "/v1/rooms?lang=en")
	require.Equal(t, http.StatusOK, rr.Code)
	var list []domain.EntityView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Deluxe Room", list[0].Name)
	assert.Equal(t, "en", rr.Header().Get("Content-Language"))

	rr = get(h, "/v1/rooms", "Accept-Language", "en-GB,en;q=0.8")
	assert.Equal(t, "en", rr.Header().Get("Content-Language"))

	assert.Equal(t, http.StatusNotFound, get(h, "/v1/spa").Code)
	assert.Equal(t, http.StatusBadRequest, get(h, "/v1/rooms?lang=xx").Code)
	assert.Equal(t, http.StatusNotFound, get(h, "/v1/rooms/nope").Code)
	assert.Equal(t, http.StatusOK, get(h, "/v1/rooms/suite-201").Code)
	assert.Equal(t, http.StatusOK, get(h, "/v1/rooms/id/2").Code)
	assert.Equal(t, http.StatusBadRequest, get(h, "/v1/rooms/id/abc").Code)
}

func TestPagesAndContact(t *testing.T) {
	h := newTestServer(t)
	rr := get(h, "/v1/policy?lang=vi")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Nhận phòng 14:00")

	rr = get(h, "/v1/contact")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"name":"Sea Breeze"`)
}

func TestClassify(t *testing.T) {
	h := newTestServer(t)
	rr := get(h, "/v1/media/classify?url=https://youtu.be/abc123")
	require.Equal(t, http.StatusOK, rr.Code)
	var bg struct {
		Kind     string `json:"kind"`
		EmbedURL string `json:"embedUrl"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &bg))
	assert.Equal(t, "youtube", bg.Kind)
	assert.True(t, strings.HasPrefix(bg.EmbedURL, "https://www.youtube.com/embed/abc123"))

	assert.Equal(t, http.StatusBadRequest, get(h, "/v1/media/classify").Code)
}

func TestSPA_IndexWithMeta(t *testing.T) {
	rr := get(newTestServer(t), "/en/phong-nghi/deluxe-101")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `lang="en"`)
	assert.Contains(t, body, "Deluxe Room | Sea Breeze")
	assert.Contains(t, body, `"tenantCode":"demo"`)
	assert.Contains(t, body, `href="https://hotel.example.com/phong-nghi/deluxe-101"`)
	assert.Contains(t, body, "Beachfront hotel")
}

func TestSPA_BookingRedirects(t *testing.T) {
	rr := get(newTestServer(t), "/en/dat-phong")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "https://book.example.com/7", rr.Header().Get("Location"))
}

func TestSPA_UnknownRouteStillServesApp(t *testing.T) {
	rr := get(newTestServer(t), "/khong-ton-tai")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), `id="root"`)
}

func TestSPA_StaticAssets(t *testing.T) {
	rr := get(newTestServer(t), "/assets/app.js")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "console.log(1)", rr.Body.String())
}
