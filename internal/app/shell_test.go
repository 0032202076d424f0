package app_test

import (
	"context"
	"errors"
	"testing"

	"hotellink/internal/app"
	"hotellink/internal/domain"
	"hotellink/internal/media"
	"hotellink/internal/shell"
)

func TestResolve_RoomDetailDeepLink(t *testing.T) {
	_, _, sh := newServices(newFixtureAPI(), &fakeCache{}, nil)

	vs, err := sh.Resolve(context.Background(), "/phong-nghi/deluxe-101", "")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if vs.Mode != shell.RoomsDetail || vs.Code != "deluxe-101" || vs.Locale != "vi" {
		t.Fatalf("unexpected route: %s %s %s", vs.Mode, vs.Code, vs.Locale)
	}
	if vs.Title != "Phòng Deluxe" {
		t.Fatalf("title: %q", vs.Title)
	}
	if !vs.Panel.Visible || vs.Panel.Status != app.StatusReady {
		t.Fatalf("panel: %+v", vs.Panel)
	}
	ev, ok := vs.Panel.Data.(domain.EntityView)
	if !ok || ev.Code != "deluxe-101" {
		t.Fatalf("panel data: %#v", vs.Panel.Data)
	}
	if vs.Background == nil || vs.Background.Src != "https://kuula.co/share/deluxe" || vs.Background.Kind != media.VR360 {
		t.Fatalf("background: %+v", vs.Background)
	}
	if vs.BackgroundSource != shell.SourceDetail {
		t.Fatalf("source: %s", vs.BackgroundSource)
	}
	if vs.BackPath != "/phong-nghi" {
		t.Fatalf("back: %s", vs.BackPath)
	}
}

func TestResolve_SwitchToEnglish(t *testing.T) {
	_, _, sh := newServices(newFixtureAPI(), &fakeCache{}, nil)
	ctx := context.Background()

	vi, err := sh.Resolve(ctx, "/phong-nghi/deluxe-101", "")
	if err != nil {
		t.Fatal(err)
	}
	var enPath string
	for _, a := range vi.Alternates {
		if a.Locale == "en" {
			enPath = a.Path
		}
	}
	if enPath != "/en/phong-nghi/deluxe-101" {
		t.Fatalf("en alternate: %q (%+v)", enPath, vi.Alternates)
	}

	en, err := sh.Resolve(ctx, enPath, "")
	if err != nil {
		t.Fatal(err)
	}
	if en.Locale != "en" || en.Mode != shell.RoomsDetail || en.CleanPath != "/phong-nghi/deluxe-101" {
		t.Fatalf("unexpected: %+v", en)
	}
	if en.Title != "Deluxe Room" {
		t.Fatalf("title: %q", en.Title)
	}
	if en.BackPath != "/en/phong-nghi" {
		t.Fatalf("back: %q", en.BackPath)
	}
}

func TestResolve_VR360FallbackChain(t *testing.T) {
	api := newFixtureAPI()
	_, _, sh := newServices(api, nil, nil)
	ctx := context.Background()

	// no detail link: the rooms page link wins
	vs, err := sh.Resolve(ctx, "/phong-nghi/suite-201", "")
	if err != nil {
		t.Fatal(err)
	}
	if vs.BackgroundSource != shell.SourcePage || vs.Background.Src != "https://kuula.co/share/rooms-floor" {
		t.Fatalf("want page link, got %s %+v", vs.BackgroundSource, vs.Background)
	}

	// dining's page link is inactive: the property tour wins
	vs, err = sh.Resolve(ctx, "/am-thuc", "")
	if err != nil {
		t.Fatal(err)
	}
	if vs.BackgroundSource != shell.SourceProperty || vs.Background.Src != "https://kuula.co/share/lobby" {
		t.Fatalf("want property link, got %s %+v", vs.BackgroundSource, vs.Background)
	}
	if vs.Panel.Status != app.StatusEmpty {
		t.Fatalf("empty dining list should be status empty, got %s", vs.Panel.Status)
	}

	// nothing configured: no background at all
	api.prop.VR360URL = ""
	_, site, sh2 := newServices(api, nil, nil)
	if _, err := site.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	vs, err = sh2.Resolve(ctx, "/lien-he", "")
	if err != nil {
		t.Fatal(err)
	}
	if vs.Background != nil {
		t.Fatalf("expected no tour, got %+v", vs.Background)
	}
}

func TestResolve_HomeTitleFromFirstPost(t *testing.T) {
	_, _, sh := newServices(newFixtureAPI(), nil, nil)

	// en has no post translation; the vi title is used
	vs, err := sh.Resolve(context.Background(), "/en", "")
	if err != nil {
		t.Fatal(err)
	}
	if vs.Mode != shell.Home || vs.Locale != "en" {
		t.Fatalf("route: %+v", vs)
	}
	if vs.Title != "Chào mừng đến Sea Breeze" {
		t.Fatalf("title: %q", vs.Title)
	}
	if vs.Panel.Visible {
		t.Fatal("home has no panel")
	}
}

func TestResolve_HomeTitleFallsBackToLabel(t *testing.T) {
	api := newFixtureAPI()
	api.posts = nil
	_, _, sh := newServices(api, nil, nil)
	vs, err := sh.Resolve(context.Background(), "/en/", "")
	if err != nil {
		t.Fatal(err)
	}
	if vs.Title != "Home" {
		t.Fatalf("title: %q", vs.Title)
	}
}

func TestResolve_BookingIsAnAction(t *testing.T) {
	_, _, sh := newServices(newFixtureAPI(), nil, nil)
	vs, err := sh.Resolve(context.Background(), "/en/dat-phong", "")
	if err != nil {
		t.Fatal(err)
	}
	if vs.Panel.Visible {
		t.Fatal("booking must not open a panel")
	}
	if vs.Action == nil || vs.Action.Type != shell.ActionOpenExternal || vs.Action.URL != "https://booking.example.com/sea-breeze" {
		t.Fatalf("action: %+v", vs.Action)
	}
	if !vs.Action.PopHistory || !vs.Action.NewTab {
		t.Fatalf("action flags: %+v", vs.Action)
	}
}

func TestResolve_UnknownDetailCode(t *testing.T) {
	misses := &fakeMisses{}
	_, _, sh := newServices(newFixtureAPI(), nil, misses)
	vs, err := sh.Resolve(context.Background(), "/en/phong-nghi/nope", "")
	if err != nil {
		t.Fatal(err)
	}
	if vs.Panel.Status != app.StatusError || vs.Panel.Error != "Content not found." {
		t.Fatalf("panel: %+v", vs.Panel)
	}
	if vs.Title != "Rooms" {
		t.Fatalf("title should fall back to the section label: %q", vs.Title)
	}
	if len(misses.seen) != 1 {
		t.Fatalf("misses: %d", len(misses.seen))
	}
}

func TestResolve_LoadErrorKeepsShell(t *testing.T) {
	api := newFixtureAPI()
	api.errs = map[string]error{"rooms": errors.New("upstream down")}
	_, _, sh := newServices(api, nil, nil)
	vs, err := sh.Resolve(context.Background(), "/phong-nghi", "")
	if err != nil {
		t.Fatal(err)
	}
	if vs.Panel.Status != app.StatusError || vs.Panel.Error != "Không thể tải dữ liệu." {
		t.Fatalf("panel: %+v", vs.Panel)
	}
	if vs.Background == nil {
		t.Fatal("site data still renders the background")
	}
}

func TestResolve_UnknownRoute(t *testing.T) {
	_, _, sh := newServices(newFixtureAPI(), nil, nil)
	_, err := sh.Resolve(context.Background(), "/en/khong-ton-tai", "")
	if !errors.Is(err, app.ErrUnknownRoute) || !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want unknown route, got %v", err)
	}
}

func TestResolve_SuggestsBrowserLocale(t *testing.T) {
	_, _, sh := newServices(newFixtureAPI(), nil, nil)
	ctx := context.Background()

	vs, err := sh.Resolve(ctx, "/phong-nghi", "en-US,en;q=0.9")
	if err != nil {
		t.Fatal(err)
	}
	if vs.SuggestedLocale != "en" {
		t.Fatalf("suggested: %q", vs.SuggestedLocale)
	}
	// an explicit prefix is the user's choice
	vs, err = sh.Resolve(ctx, "/en/phong-nghi", "vi")
	if err != nil {
		t.Fatal(err)
	}
	if vs.SuggestedLocale != "" {
		t.Fatalf("suggested: %q", vs.SuggestedLocale)
	}
}

func TestResolve_ListPanelCarriesItemLinks(t *testing.T) {
	_, _, sh := newServices(newFixtureAPI(), &fakeCache{}, nil)

	vs, err := sh.Resolve(context.Background(), "/en/phong-nghi", "")
	if err != nil {
		t.Fatal(err)
	}
	if vs.Mode != shell.RoomsList || vs.Panel.Status != app.StatusReady {
		t.Fatalf("unexpected: %s %+v", vs.Mode, vs.Panel)
	}
	list, ok := vs.Panel.Data.([]domain.EntityView)
	if !ok || len(list) != 2 {
		t.Fatalf("panel data: %#v", vs.Panel.Data)
	}
	// sorted by display order: suite-201 first
	if list[0].Path != "/en/phong-nghi/suite-201" || list[1].Path != "/en/phong-nghi/deluxe-101" {
		t.Fatalf("paths: %q %q", list[0].Path, list[1].Path)
	}
}
