package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Kind names a list/detail content entity; the value doubles as the API collection.
type Kind string

const (
	KindRoom     Kind = "rooms"
	KindDining   Kind = "dining"
	KindFacility Kind = "facilities"
	KindService  Kind = "services"
	KindOffer    Kind = "offers"
)

var Kinds = []Kind{KindRoom, KindDining, KindFacility, KindService, KindOffer}

func (k Kind) Valid() bool {
	for _, v := range Kinds {
		if v == k {
			return true
		}
	}
	return false
}

// PageKind names a single-document page fetched per property.
type PageKind string

const (
	PageIntroduction PageKind = "introduction"
	PagePolicy       PageKind = "policy"
	PageRegulation   PageKind = "regulation"
)

type Translation struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Content     string `json:"content,omitempty"`
	Format      string `json:"format,omitempty"` // html (default) or markdown
}

// Translations is keyed by locale code. The API sends either an object keyed by
// locale or an array of {locale, ...} rows; both decode here.
type Translations map[string]Translation

func (t *Translations) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = nil
		return nil
	}
	if b[0] == '[' {
		var rows []struct {
			Locale string `json:"locale"`
			Lang   string `json:"lang"`
			Translation
			Title string `json:"title"`
		}
		if err := json.Unmarshal(b, &rows); err != nil {
			return err
		}
		out := make(Translations, len(rows))
		for _, r := range rows {
			code := r.Locale
			if code == "" {
				code = r.Lang
			}
			if code == "" {
				continue
			}
			tr := r.Translation
			if tr.Name == "" {
				tr.Name = r.Title
			}
			out[strings.ToLower(code)] = tr
		}
		*t = out
		return nil
	}
	var m map[string]Translation
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	out := make(Translations, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	*t = out
	return nil
}

type MediaRef struct {
	MediaID   int64  `json:"media_id"`
	URL       string `json:"url,omitempty"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
}

// Entity is the raw API shape shared by rooms, dining, facilities, services and offers.
type Entity struct {
	ID           int64          `json:"id"`
	Code         string         `json:"code"`
	Translations Translations   `json:"translations"`
	Media        []MediaRef     `json:"media"`
	VRLink       string         `json:"vr_link"`
	DisplayOrder int            `json:"display_order"`
	Attributes   map[string]any `json:"attributes,omitempty"`
}

type Page struct {
	ID           int64        `json:"id"`
	Translations Translations `json:"translations"`
	Media        []MediaRef   `json:"media"`
	VRLink       string       `json:"vr_link"`
}

type Post struct {
	ID           int64        `json:"id"`
	Code         string       `json:"code"`
	Category     string       `json:"category"`
	Translations Translations `json:"translations"`
	Media        []MediaRef   `json:"media"`
	DisplayOrder int          `json:"display_order"`
}

type Contact struct {
	Phone        string       `json:"phone"`
	Email        string       `json:"email"`
	Website      string       `json:"website"`
	MapEmbedURL  string       `json:"map_embed_url"`
	Translations Translations `json:"translations"`
}

type MediaItem struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	Category  string `json:"category"`
	SortOrder int    `json:"sort_order"`
}

// ---- UI-ready views ----

type EntityView struct {
	ID           int64          `json:"id"`
	Kind         Kind           `json:"kind"`
	Code         string         `json:"code"`
	Locale       string         `json:"locale"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	PrimaryImage string         `json:"primaryImage,omitempty"`
	Gallery      []string       `json:"gallery"`
	VRLink       string         `json:"vrLink,omitempty"`
	DisplayOrder int            `json:"displayOrder"`
	Attributes   map[string]any `json:"attributes,omitempty"`
	Path         string         `json:"path,omitempty"` // localized detail URL, set in list panels
}

type PageView struct {
	Kind    PageKind `json:"kind"`
	Locale  string   `json:"locale"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Images  []string `json:"images"`
	VRLink  string   `json:"vrLink,omitempty"`
}

type PostView struct {
	ID           int64  `json:"id"`
	Code         string `json:"code"`
	Category     string `json:"category,omitempty"`
	Locale       string `json:"locale"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	Image        string `json:"image,omitempty"`
	DisplayOrder int    `json:"displayOrder"`
}

type ContactView struct {
	Locale      string `json:"locale"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Website     string `json:"website,omitempty"`
	MapEmbedURL string `json:"mapEmbedUrl,omitempty"`
}

type MediaView struct {
	ID       int64  `json:"id"`
	URL      string `json:"url"`
	Category string `json:"category,omitempty"`
}
