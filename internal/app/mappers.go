package app

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"hotellink/internal/domain"
)

/********** attribute alias registries (single source of truth) **********/

// The content API has changed attribute names between versions; views expose
// one stable key per concept.
var attributeAliases = map[domain.Kind]map[string][]string{
	domain.KindRoom: {
		"price":    {"price", "base_price", "rate.amount", "price_from"},
		"capacity": {"max_occupancy", "capacity", "max_guests", "occupancy.adults"},
		"size":     {"area", "size", "room_size", "size_sqm"},
		"bed":      {"bed_type", "beds", "bed"},
		"view":     {"view", "view_type"},
	},
	domain.KindDining: {
		"hours":    {"opening_hours", "hours", "open_time"},
		"cuisine":  {"cuisine", "cuisine_type"},
		"capacity": {"seats", "capacity"},
		"location": {"location", "floor"},
	},
	domain.KindFacility: {
		"hours":    {"opening_hours", "hours"},
		"location": {"location", "floor"},
	},
	domain.KindService: {
		"hours": {"opening_hours", "hours", "availability"},
		"price": {"price", "fee"},
	},
	domain.KindOffer: {
		"valid_from": {"valid_from", "start_date", "period.start"},
		"valid_to":   {"valid_to", "end_date", "period.end"},
		"discount":   {"discount", "discount_percent", "discount_value"},
		"price":      {"price", "offer_price"},
	},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// firstPresent returns the first non-empty value among paths, numbers normalised to float64.
func firstPresent(m map[string]any, paths []string) (any, bool) {
	for _, p := range paths {
		switch v := lookupAny(m, p).(type) {
		case nil:
			continue
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			// "1.200.000" and "8,5" style numbers stay strings; plain numerics become numbers
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f, true
			}
			return s, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		default:
			return v, true
		}
	}
	return nil, false
}

func normalizeAttributes(kind domain.Kind, raw map[string]any) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]any, len(raw))
	aliases := attributeAliases[kind]
	known := make(map[string]struct{}, 16)
	for key, paths := range aliases {
		if v, ok := firstPresent(raw, paths); ok {
			out[key] = v
		}
		for _, p := range paths {
			top := p
			if i := strings.IndexByte(top, '.'); i >= 0 {
				top = top[:i]
			}
			known[top] = struct{}{}
		}
	}
	// pass unknown attributes through untouched
	for k, v := range raw {
		if _, ok := known[k]; ok {
			continue
		}
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}

/********** media **********/

func (s *ContentService) mediaURL(m domain.MediaRef) string {
	if m.URL != "" {
		return m.URL
	}
	if m.MediaID == 0 {
		return ""
	}
	return fmt.Sprintf("%s/media/%d/view", s.mediaBase, m.MediaID)
}

// splitMedia returns the is_primary image and the remaining images by sort_order.
func (s *ContentService) splitMedia(refs []domain.MediaRef) (primary string, gallery []string) {
	rest := make([]domain.MediaRef, 0, len(refs))
	for _, m := range refs {
		if m.IsPrimary && primary == "" {
			primary = s.mediaURL(m)
			continue
		}
		rest = append(rest, m)
	}
	sort.SliceStable(rest, func(i, j int) bool { return rest[i].SortOrder < rest[j].SortOrder })
	gallery = make([]string, 0, len(rest))
	for _, m := range rest {
		if u := s.mediaURL(m); u != "" {
			gallery = append(gallery, u)
		}
	}
	return primary, gallery
}

/********** entity / page / post mappers **********/

func (s *ContentService) mapEntity(kind domain.Kind, e domain.Entity, locale string) domain.EntityView {
	tr, _, _ := Exact.Pick(e.Translations, locale, s.defaultLocale)
	primary, gallery := s.splitMedia(e.Media)
	return domain.EntityView{
		ID:           e.ID,
		Kind:         kind,
		Code:         e.Code,
		Locale:       locale,
		Name:         strings.TrimSpace(tr.Name),
		Description:  s.render(tr.Description, tr.Format),
		PrimaryImage: primary,
		Gallery:      gallery,
		VRLink:       strings.TrimSpace(e.VRLink),
		DisplayOrder: e.DisplayOrder,
		Attributes:   normalizeAttributes(kind, e.Attributes),
	}
}

func (s *ContentService) mapEntities(kind domain.Kind, in []domain.Entity, locale string) []domain.EntityView {
	out := make([]domain.EntityView, 0, len(in))
	for _, e := range in {
		out = append(out, s.mapEntity(kind, e, locale))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
}

func (s *ContentService) mapPage(kind domain.PageKind, p domain.Page, locale string) domain.PageView {
	tr, _, _ := Exact.Pick(p.Translations, locale, s.defaultLocale)
	body := tr.Content
	if body == "" {
		body = tr.Description
	}
	primary, gallery := s.splitMedia(p.Media)
	images := gallery
	if primary != "" {
		images = append([]string{primary}, gallery...)
	}
	return domain.PageView{
		Kind:    kind,
		Locale:  locale,
		Title:   strings.TrimSpace(tr.Name),
		Content: s.render(body, tr.Format),
		Images:  images,
		VRLink:  strings.TrimSpace(p.VRLink),
	}
}

func (s *ContentService) mapPosts(in []domain.Post, locale string) []domain.PostView {
	out := make([]domain.PostView, 0, len(in))
	for _, p := range in {
		tr, from, ok := ExactThenDefault.Pick(p.Translations, locale, s.defaultLocale)
		if !ok {
			continue
		}
		body := tr.Content
		if body == "" {
			body = tr.Description
		}
		primary, gallery := s.splitMedia(p.Media)
		if primary == "" && len(gallery) > 0 {
			primary = gallery[0]
		}
		out = append(out, domain.PostView{
			ID:           p.ID,
			Code:         p.Code,
			Category:     p.Category,
			Locale:       from,
			Title:        strings.TrimSpace(tr.Name),
			Content:      s.render(body, tr.Format),
			Image:        primary,
			DisplayOrder: p.DisplayOrder,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
}

func (s *ContentService) mapContact(c domain.Contact, p domain.Property, locale string) domain.ContactView {
	tr, _, _ := Exact.Pick(c.Translations, locale, s.defaultLocale)
	v := domain.ContactView{
		Locale:      locale,
		Name:        strings.TrimSpace(tr.Name),
		Address:     strings.TrimSpace(tr.Description),
		Phone:       c.Phone,
		Email:       c.Email,
		Website:     c.Website,
		MapEmbedURL: c.MapEmbedURL,
	}
	// contact rows often omit what the property already carries
	if v.Name == "" {
		v.Name = p.Name
	}
	if v.Address == "" {
		v.Address = p.Address
	}
	if v.Phone == "" {
		v.Phone = p.Phone
	}
	if v.Email == "" {
		v.Email = p.Email
	}
	if v.Website == "" {
		v.Website = p.Website
	}
	return v
}

func (s *ContentService) mapGallery(in []domain.MediaItem) []domain.MediaView {
	sorted := append([]domain.MediaItem(nil), in...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].SortOrder < sorted[j].SortOrder })
	out := make([]domain.MediaView, 0, len(sorted))
	for _, m := range sorted {
		u := m.URL
		if u == "" {
			u = s.mediaURL(domain.MediaRef{MediaID: m.ID})
		}
		if u == "" {
			continue
		}
		out = append(out, domain.MediaView{ID: m.ID, URL: u, Category: m.Category})
	}
	return out
}

func (s *ContentService) render(body, format string) string {
	if s.text == nil {
		return strings.TrimSpace(body)
	}
	return s.text.Render(body, format)
}
