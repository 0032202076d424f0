// Package shell holds the microsite's route table and the pure parts of the
// app-shell state machine: path classification, item-click navigation and the
// VR360 background fallback chain.
package shell

import (
	"strings"

	"hotellink/internal/domain"
	"hotellink/internal/pathloc"
)

type Mode string

const (
	Home           Mode = "home"
	About          Mode = "about"
	RoomsList      Mode = "rooms-list"
	RoomsDetail    Mode = "rooms-detail"
	DiningList     Mode = "dining-list"
	DiningDetail   Mode = "dining-detail"
	FacilityList   Mode = "facility-list"
	FacilityDetail Mode = "facility-detail"
	ServiceList    Mode = "service-list"
	ServiceDetail  Mode = "service-detail"
	OfferList      Mode = "offer-list"
	OfferDetail    Mode = "offer-detail"
	Policy         Mode = "policy"
	Contact        Mode = "contact"
	Gallery        Mode = "gallery"
	Regulation     Mode = "regulation"
	Booking        Mode = "booking"
)

type section struct {
	path   string
	list   Mode
	detail Mode // empty when the section has no detail pages
	kind   domain.Kind
	page   string // VR360 settings page code
	title  string // label catalog key
}

var table = []section{
	{path: "/", list: Home, page: "home", title: "title_home"},
	{path: "/gioi-thieu", list: About, page: "introduction", title: "title_about"},
	{path: "/phong-nghi", list: RoomsList, detail: RoomsDetail, kind: domain.KindRoom, page: "rooms", title: "title_rooms"},
	{path: "/am-thuc", list: DiningList, detail: DiningDetail, kind: domain.KindDining, page: "dining", title: "title_dining"},
	{path: "/tien-ich", list: FacilityList, detail: FacilityDetail, kind: domain.KindFacility, page: "facilities", title: "title_facilities"},
	{path: "/dich-vu", list: ServiceList, detail: ServiceDetail, kind: domain.KindService, page: "services", title: "title_services"},
	{path: "/uu-dai", list: OfferList, detail: OfferDetail, kind: domain.KindOffer, page: "offers", title: "title_offers"},
	{path: "/lien-he", list: Contact, page: "contact", title: "title_contact"},
	{path: "/chinh-sach", list: Policy, page: "policy", title: "title_policy"},
	{path: "/thu-vien-anh", list: Gallery, page: "gallery", title: "title_gallery"},
	{path: "/noi-quy-khach-san", list: Regulation, page: "regulation", title: "title_regulation"},
	{path: "/dat-phong", list: Booking, page: "booking", title: "title_booking"},
}

// Route is a classified clean path.
type Route struct {
	Mode Mode   `json:"mode"`
	Code string `json:"code,omitempty"`
}

// Match classifies a clean (un-prefixed) path. Trailing slashes are ignored.
func Match(cleanPath string) (Route, bool) {
	p := cleanPath
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		p = "/"
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	if p == "/" {
		return Route{Mode: Home}, true
	}
	for _, s := range table[1:] {
		if p == s.path {
			return Route{Mode: s.list}, true
		}
		if s.detail == "" || !strings.HasPrefix(p, s.path+"/") {
			continue
		}
		code := p[len(s.path)+1:]
		if code == "" || strings.Contains(code, "/") {
			return Route{}, false
		}
		return Route{Mode: s.detail, Code: code}, true
	}
	return Route{}, false
}

func lookup(m Mode) (section, bool) {
	for _, s := range table {
		if s.list == m || (s.detail != "" && s.detail == m) {
			return s, true
		}
	}
	return section{}, false
}

// Kind is the entity kind behind a list or detail mode.
func (m Mode) Kind() (domain.Kind, bool) {
	s, ok := lookup(m)
	if !ok || s.kind == "" {
		return "", false
	}
	return s.kind, true
}

func (m Mode) IsDetail() bool {
	s, ok := lookup(m)
	return ok && s.detail == m
}

// List maps a detail mode to its list mode; other modes map to themselves.
func (m Mode) List() Mode {
	if s, ok := lookup(m); ok {
		return s.list
	}
	return m
}

// PageCode is the key used for page-level VR360 links.
func (m Mode) PageCode() string {
	s, _ := lookup(m)
	return s.page
}

// TitleKey is the label catalog key for the section title.
func (m Mode) TitleKey() string {
	s, _ := lookup(m)
	return s.title
}

// Path returns the clean path for mode, with code appended for detail modes.
func Path(m Mode, code string) string {
	s, ok := lookup(m)
	if !ok {
		return "/"
	}
	if s.detail == m && code != "" {
		return s.path + "/" + code
	}
	return s.path
}

// ModeForKind returns the list and detail modes of an entity kind.
func ModeForKind(k domain.Kind) (list, detail Mode, ok bool) {
	for _, s := range table {
		if s.kind == k {
			return s.list, s.detail, true
		}
	}
	return "", "", false
}

// Navigator produces the URLs the shell pushes on item clicks and locale switches.
type Navigator struct{ loc *pathloc.Localizer }

func NewNavigator(loc *pathloc.Localizer) Navigator {
	if loc == nil {
		loc = pathloc.Default()
	}
	return Navigator{loc: loc}
}

// Select is the URL for clicking item code in the list of kind.
func (n Navigator) Select(k domain.Kind, code, locale string) string {
	_, detail, ok := ModeForKind(k)
	if !ok {
		return n.loc.LocalizedPath("/", locale)
	}
	return n.loc.LocalizedPath(Path(detail, code), locale)
}

// Back is the URL for closing a detail panel.
func (n Navigator) Back(m Mode, locale string) string {
	return n.loc.LocalizedPath(Path(m.List(), ""), locale)
}

func (n Navigator) SwitchLocale(pathname, locale string) string {
	return n.loc.SwitchLocale(pathname, locale)
}
