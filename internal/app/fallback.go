package app

import (
	"sort"
	"strings"

	"hotellink/internal/domain"
)

// FallbackPolicy decides which translation is shown when the active locale has none.
type FallbackPolicy int

const (
	// Exact shows only the active locale; entity lists and details use this.
	Exact FallbackPolicy = iota
	// ExactThenDefault tries the active locale, then the site default, then English.
	// Property posts and the homepage title use this.
	ExactThenDefault
	// FirstAvailable is ExactThenDefault followed by any locale, in code order.
	FirstAvailable
)

func (p FallbackPolicy) String() string {
	switch p {
	case ExactThenDefault:
		return "exact-then-default"
	case FirstAvailable:
		return "first-available"
	default:
		return "exact"
	}
}

// Pick returns the chosen translation and the locale it came from.
func (p FallbackPolicy) Pick(tr domain.Translations, locale, defaultLocale string) (domain.Translation, string, bool) {
	chain := []string{locale}
	if p >= ExactThenDefault {
		chain = append(chain, defaultLocale, "en")
	}
	for _, code := range chain {
		if code == "" {
			continue
		}
		if t, ok := tr[strings.ToLower(code)]; ok && !blank(t) {
			return t, code, true
		}
	}
	if p == FirstAvailable {
		codes := make([]string, 0, len(tr))
		for k := range tr {
			codes = append(codes, k)
		}
		sort.Strings(codes)
		for _, k := range codes {
			if !blank(tr[k]) {
				return tr[k], k, true
			}
		}
	}
	return domain.Translation{}, "", false
}

func blank(t domain.Translation) bool {
	return strings.TrimSpace(t.Name) == "" && strings.TrimSpace(t.Description) == "" && strings.TrimSpace(t.Content) == ""
}
