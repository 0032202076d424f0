package pathloc

import (
	"strings"

	"golang.org/x/text/language"
)

// Negotiate picks the best of available for an Accept-Language header.
// available[0] is returned when nothing matches.
func Negotiate(acceptLanguage string, available []string) string {
	if len(available) == 0 {
		return ""
	}
	tags := make([]language.Tag, 0, len(available))
	for _, code := range available {
		t, err := language.Parse(code)
		if err != nil {
			t = language.Und
		}
		tags = append(tags, t)
	}
	acceptLanguage = strings.TrimSpace(acceptLanguage)
	if acceptLanguage == "" {
		return available[0]
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return available[0]
	}
	_, idx, conf := language.NewMatcher(tags).Match(prefs...)
	if conf == language.No || idx < 0 || idx >= len(available) {
		return available[0]
	}
	return available[idx]
}
