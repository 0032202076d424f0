package shell

import (
	"strings"

	"hotellink/internal/domain"
)

// Source says which link in the fallback chain won.
type Source string

const (
	SourceDetail   Source = "detail"
	SourcePage     Source = "page"
	SourceProperty Source = "property"
)

// ResolveVR360 applies detail > page > property. Blank links are skipped;
// when all three are blank it returns domain.ErrNoTour.
func ResolveVR360(detail, page, property string) (string, Source, error) {
	for _, c := range []struct {
		link string
		src  Source
	}{
		{detail, SourceDetail},
		{page, SourcePage},
		{property, SourceProperty},
	} {
		if l := strings.TrimSpace(c.link); l != "" {
			return l, c.src, nil
		}
	}
	return "", "", domain.ErrNoTour
}

// Action is a side effect the client performs instead of rendering a panel.
type Action struct {
	Type       string `json:"type"`
	URL        string `json:"url"`
	NewTab     bool   `json:"newTab"`
	PopHistory bool   `json:"popHistory"`
}

const ActionOpenExternal = "open_external"

// BookingAction opens the booking engine in a new tab and steps the history back.
func BookingAction(url string) *Action {
	return &Action{Type: ActionOpenExternal, URL: url, NewTab: true, PopHistory: true}
}
