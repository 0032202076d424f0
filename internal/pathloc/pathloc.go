// Package pathloc maps between clean content paths ("/phong-nghi") and
// locale-prefixed paths ("/en/phong-nghi").
package pathloc

import (
	"strings"

	"hotellink/internal/domain"
)

// SupportedCodes is the allow-list of locale codes recognised as a path prefix.
var SupportedCodes = []string{"vi", "en", "zh", "ja", "ko", "fr", "de", "ru", "th", "es", "zh-CN", "zh-TW"}

// Localizer carries the default locale and the prefix allow-list.
type Localizer struct {
	def   string
	codes []string
	valid map[string]string // lower-case code -> canonical code
}

func New(defaultCode string, codes []string) *Localizer {
	if defaultCode == "" {
		defaultCode = domain.DefaultLocale
	}
	l := &Localizer{def: defaultCode, codes: []string{defaultCode}, valid: make(map[string]string, len(codes)+1)}
	l.valid[strings.ToLower(defaultCode)] = defaultCode
	for _, c := range codes {
		if _, dup := l.valid[strings.ToLower(c)]; dup {
			continue
		}
		l.valid[strings.ToLower(c)] = c
		l.codes = append(l.codes, c)
	}
	return l
}

var std = New(domain.DefaultLocale, SupportedCodes)

// Default returns the Localizer used by the package-level helpers.
func Default() *Localizer { return std }

func (l *Localizer) DefaultCode() string { return l.def }

func (l *Localizer) Valid(code string) bool {
	_, ok := l.valid[strings.ToLower(code)]
	return ok
}

// Canonical returns the allow-listed spelling of code ("zh-cn" -> "zh-CN").
func (l *Localizer) Canonical(code string) (string, bool) {
	c, ok := l.valid[strings.ToLower(code)]
	return c, ok
}

// Codes lists the allow-list, default first.
func (l *Localizer) Codes() []string { return append([]string(nil), l.codes...) }

// LocalizedPath prefixes path with "/"+code unless code is empty or the default.
// Allow-listed codes are written in their canonical spelling.
func (l *Localizer) LocalizedPath(path, code string) string {
	if code == "" || strings.EqualFold(code, l.def) {
		return path
	}
	if c, ok := l.Canonical(code); ok {
		code = c
	}
	return "/" + code + path
}

// CleanPath strips a leading locale segment. Paths without one come back unchanged.
func (l *Localizer) CleanPath(pathname string) string {
	_, rest, ok := l.split(pathname)
	if !ok {
		return pathname
	}
	if rest == "" {
		return "/"
	}
	return rest
}

// LanguageFromPath returns the locale prefix of pathname or the default code.
func (l *Localizer) LanguageFromPath(pathname string) string {
	code, _, ok := l.split(pathname)
	if !ok {
		return l.def
	}
	return code
}

// SwitchLocale rewrites pathname so that it points at the same content in code.
func (l *Localizer) SwitchLocale(pathname, code string) string {
	return l.LocalizedPath(l.CleanPath(pathname), code)
}

// split matches "/xx" or "/xx-XX" followed by "/" or end of string.
func (l *Localizer) split(pathname string) (code, rest string, ok bool) {
	if len(pathname) < 3 || pathname[0] != '/' {
		return "", "", false
	}
	seg := pathname[1:]
	rest = ""
	if i := strings.IndexByte(seg, '/'); i >= 0 {
		seg, rest = seg[:i], seg[i:]
	}
	if !localeShaped(seg) {
		return "", "", false
	}
	// prefixes match the allow-list literally; "/EN" and "/zh-cn" are content paths
	canon, found := l.valid[strings.ToLower(seg)]
	if !found || canon != seg {
		return "", "", false
	}
	return canon, rest, true
}

func localeShaped(seg string) bool {
	switch len(seg) {
	case 2:
		return isLetter(seg[0]) && isLetter(seg[1])
	case 5:
		return isLetter(seg[0]) && isLetter(seg[1]) && seg[2] == '-' && isLetter(seg[3]) && isLetter(seg[4])
	}
	return false
}

func isLetter(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }

func LocalizedPath(path, code string) string { return std.LocalizedPath(path, code) }
func CleanPath(pathname string) string        { return std.CleanPath(pathname) }
func LanguageFromPath(pathname string) string { return std.LanguageFromPath(pathname) }
