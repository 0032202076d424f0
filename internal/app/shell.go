package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hotellink/internal/adapters/observability"
	"hotellink/internal/domain"
	"hotellink/internal/media"
	"hotellink/internal/pathloc"
	"hotellink/internal/shell"
)

// ErrUnknownRoute is returned by Resolve for paths outside the route table.
var ErrUnknownRoute = fmt.Errorf("unknown route: %w", domain.ErrNotFound)

// Panel states. Loading is the client's concern; the server answers once data settled.
const (
	StatusReady = "ready"
	StatusEmpty = "empty"
	StatusError = "error"
)

type Panel struct {
	Visible bool   `json:"visible"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type Alternate struct {
	Locale string `json:"locale"`
	Path   string `json:"path"`
}

// ViewState is everything the app shell renders for one URL.
type ViewState struct {
	Path             string            `json:"path"`
	CleanPath        string            `json:"cleanPath"`
	Locale           string            `json:"locale"`
	Mode             shell.Mode        `json:"mode"`
	Code             string            `json:"code,omitempty"`
	Title            string            `json:"title"`
	Panel            Panel             `json:"panel"`
	Background       *media.Background `json:"background,omitempty"`
	BackgroundSource shell.Source      `json:"backgroundSource,omitempty"`
	Action           *shell.Action     `json:"action,omitempty"`
	BackPath         string            `json:"backPath,omitempty"`
	Alternates       []Alternate       `json:"alternates"`
	SuggestedLocale  string            `json:"suggestedLocale,omitempty"`
	Theme            Theme             `json:"theme"`
	PageVR           map[string]string `json:"-"`
	Site             *Site             `json:"-"`
}

type ShellService struct {
	site    *SiteService
	content *ContentService
	labels  domain.Labels
	loc     *pathloc.Localizer
	nav     shell.Navigator
}

func NewShellService(site *SiteService, content *ContentService, labels domain.Labels, loc *pathloc.Localizer) *ShellService {
	if loc == nil {
		loc = pathloc.Default()
	}
	return &ShellService{site: site, content: content, labels: labels, loc: loc, nav: shell.NewNavigator(loc)}
}

func (s *ShellService) Localizer() *pathloc.Localizer { return s.loc }

func (s *ShellService) label(locale, key string) string {
	if s.labels == nil {
		return key
	}
	return s.labels.Title(locale, key)
}

// Resolve turns a browser pathname into the shell's view state. Site data and
// panel content load concurrently; both are cancelled with ctx.
func (s *ShellService) Resolve(ctx context.Context, pathname, acceptLanguage string) (ViewState, error) {
	if pathname == "" {
		pathname = "/"
	}
	if i := strings.IndexAny(pathname, "?#"); i >= 0 {
		pathname = pathname[:i]
	}
	clean := s.loc.CleanPath(pathname)
	locale := s.loc.LanguageFromPath(pathname)
	route, ok := shell.Match(clean)
	if !ok {
		observability.ObserveView("unknown", StatusError)
		return ViewState{}, fmt.Errorf("%q: %w", pathname, ErrUnknownRoute)
	}

	vs := ViewState{
		Path:      pathname,
		CleanPath: clean,
		Locale:    locale,
		Mode:      route.Mode,
		Code:      route.Code,
		Title:     s.label(locale, route.Mode.TitleKey()),
		Panel:     Panel{Visible: true, Status: StatusReady},
	}
	if route.Mode.IsDetail() {
		vs.BackPath = s.nav.Back(route.Mode, locale)
	}

	var (
		site    Site
		siteErr error
		detail  string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		site, siteErr = s.site.Load(gctx, locale)
		if errors.Is(siteErr, context.Canceled) {
			return siteErr
		}
		return nil
	})
	g.Go(func() error {
		var err error
		detail, err = s.loadPanel(gctx, route, locale, &vs)
		return err
	})
	if err := g.Wait(); err != nil {
		return ViewState{}, err
	}

	if siteErr == nil {
		vs.Site = &site
		vs.Theme = site.Theme
		vs.PageVR = site.PageVR
		vs.Alternates = s.alternates(clean, site.LocaleCodes())
		if acceptLanguage != "" && !s.hasPrefix(pathname) {
			if best := pathloc.Negotiate(acceptLanguage, site.LocaleCodes()); best != locale {
				vs.SuggestedLocale = best
			}
		}
		if route.Mode == shell.Booking {
			s.booking(&vs, site.BookingURL)
		}
		s.background(&vs, detail, site.PageVR[route.Mode.PageCode()], site.Property.VR360URL)
	} else {
		vs.Theme = Theme{PrimaryColor: DefaultPrimaryColor}
		vs.Alternates = s.alternates(clean, []string{s.loc.DefaultCode()})
		if route.Mode == shell.Booking {
			s.booking(&vs, s.site.bookingURL)
		}
		s.background(&vs, detail, "", "")
	}
	observability.ObserveView(string(route.Mode), vs.Panel.Status)
	return vs, nil
}

func (s *ShellService) hasPrefix(pathname string) bool {
	return s.loc.CleanPath(pathname) != pathname
}

func (s *ShellService) alternates(clean string, codes []string) []Alternate {
	out := make([]Alternate, 0, len(codes))
	for _, c := range codes {
		out = append(out, Alternate{Locale: c, Path: s.nav.SwitchLocale(clean, c)})
	}
	return out
}

func (s *ShellService) booking(vs *ViewState, url string) {
	vs.Panel = Panel{Visible: false, Status: StatusReady}
	if url == "" {
		vs.Panel.Status = StatusError
		vs.Panel.Error = s.label(vs.Locale, "error_load")
		return
	}
	vs.Action = shell.BookingAction(url)
}

func (s *ShellService) background(vs *ViewState, detail, page, property string) {
	link, src, err := shell.ResolveVR360(detail, page, property)
	if err != nil {
		return
	}
	bg := media.Resolve(link)
	if bg.Defaulted {
		log.Debug().Str("url", link).Str("source", string(src)).Msg("background classified by default branch")
	}
	vs.Background = &bg
	vs.BackgroundSource = src
}

// loadPanel fills the panel for route and returns the detail VR link, if any.
// Content errors end up in the panel; only cancellation is returned.
func (s *ShellService) loadPanel(ctx context.Context, route shell.Route, locale string, vs *ViewState) (string, error) {
	var (
		data  any
		err   error
		empty bool
		vr    string
	)
	switch route.Mode {
	case shell.Home:
		vs.Panel.Visible = false
		posts, perr := s.content.Posts(ctx, locale)
		if perr == nil && len(posts) > 0 && posts[0].Title != "" {
			vs.Title = posts[0].Title
		}
		if errors.Is(perr, context.Canceled) {
			return "", perr
		}
		return "", nil
	case shell.Booking:
		return "", nil
	case shell.About:
		var p domain.PageView
		p, err = s.content.Introduction(ctx, locale)
		data, vr = p, p.VRLink
	case shell.Policy:
		var p domain.PageView
		p, err = s.content.Policy(ctx, locale)
		data, vr = p, p.VRLink
	case shell.Regulation:
		var p domain.PageView
		p, err = s.content.Regulation(ctx, locale)
		data, vr = p, p.VRLink
	case shell.Contact:
		data, err = s.content.Contact(ctx, locale)
	case shell.Gallery:
		var g []domain.MediaView
		g, err = s.content.Gallery(ctx)
		data, empty = g, len(g) == 0
	default:
		kind, ok := route.Mode.Kind()
		if !ok {
			return "", nil
		}
		if route.Mode.IsDetail() {
			var e domain.EntityView
			e, err = s.content.ByCode(ctx, kind, route.Code, locale)
			if err == nil {
				data, vr = e, e.VRLink
				if e.Name != "" {
					vs.Title = e.Name
				}
			}
		} else {
			var list []domain.EntityView
			list, err = s.content.List(ctx, Query{Kind: kind, Locale: locale})
			for i := range list {
				list[i].Path = s.nav.Select(kind, list[i].Code, locale)
			}
			data, empty = list, len(list) == 0
		}
	}

	switch {
	case errors.Is(err, context.Canceled):
		return "", err
	case errors.Is(err, domain.ErrNotFound):
		vs.Panel = Panel{Visible: true, Status: StatusError, Error: s.label(locale, "error_not_found")}
	case err != nil:
		vs.Panel = Panel{Visible: true, Status: StatusError, Error: s.label(locale, "error_load")}
	case empty:
		vs.Panel = Panel{Visible: true, Status: StatusEmpty, Data: data}
	default:
		vs.Panel.Data = data
	}
	return vr, nil
}
