// Package media decides how a background URL is presented: as an image,
// a YouTube embed or a third-party VR360 iframe.
package media

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

type Kind string

const (
	Image   Kind = "image"
	YouTube Kind = "youtube"
	VR360   Kind = "vr360"
	Unknown Kind = "unknown"
)

// DefaultKind is what an unrecognised, non-empty URL is treated as: any
// iframe-embeddable tour is assumed to be a VR360 viewer.
const DefaultKind = VR360

var imageExts = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
	".svg": {}, ".bmp": {}, ".avif": {}, ".tif": {}, ".tiff": {},
}

var youtubeHosts = []string{"youtube.com", "youtu.be", "youtube-nocookie.com"}

var vr360Hosts = []string{
	"kuula.co", "matterport.com", "momento360.com", "roundme.com", "panoee.com",
	"3dvista.com", "cloudpano.com", "theasys.io", "vr360.com.vn", "vtour.vn",
	"pano2vr.com", "teliportme.com", "my.threesixty.tours",
}

// mediaViewRe matches the content API's own media endpoint, e.g. /api/v1/media/42/view.
var mediaViewRe = regexp.MustCompile(`/media/\d+/view/?$`)

// TypeOf classifies raw. Empty input is Unknown; anything else resolves to a
// concrete kind, falling back to DefaultKind.
func TypeOf(raw string) Kind {
	k, _ := Detect(raw)
	return k
}

// Detect is TypeOf plus whether the DefaultKind branch was taken, so callers
// can flag URLs that only look like tours because nothing else matched.
func Detect(raw string) (Kind, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Unknown, false
	}
	host, p, parsed := split(raw)
	if isImagePath(p) {
		return Image, false
	}
	if !parsed {
		// string matching on the raw value
		low := strings.ToLower(raw)
		for _, h := range youtubeHosts {
			if strings.Contains(low, h) {
				return YouTube, false
			}
		}
		for _, h := range vr360Hosts {
			if strings.Contains(low, h) {
				return VR360, false
			}
		}
		return DefaultKind, true
	}
	if hostMatches(host, youtubeHosts) {
		return YouTube, false
	}
	if hostMatches(host, vr360Hosts) {
		return VR360, false
	}
	return DefaultKind, true
}

func split(raw string) (host, p string, ok bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		// keep a usable path for the extension check
		p = raw
		if i := strings.IndexAny(p, "?#"); i >= 0 {
			p = p[:i]
		}
		return "", p, false
	}
	return strings.ToLower(u.Hostname()), u.Path, true
}

func isImagePath(p string) bool {
	if mediaViewRe.MatchString(p) {
		return true
	}
	_, ok := imageExts[strings.ToLower(path.Ext(p))]
	return ok
}

func hostMatches(host string, list []string) bool {
	for _, h := range list {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

var youtubeIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// YouTubeEmbedURL turns a watch, short-link or shorts URL into an autoplaying,
// muted, looping embed URL. Scheme-less links are accepted. Embed URLs and
// anything without a video id come back unchanged.
func YouTubeEmbedURL(raw string) string {
	id := youtubeID(raw)
	if id == "" {
		return raw
	}
	return "https://www.youtube.com/embed/" + id + "?autoplay=1&mute=1&loop=1&playlist=" + id
}

func youtubeID(raw string) string {
	if strings.Contains(raw, "/embed/") {
		return ""
	}
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err == nil && u.Host == "" && !strings.HasPrefix(raw, "/") {
		// "youtu.be/<id>", "www.youtube.com/watch?v=<id>"
		u, err = url.Parse("https://" + raw)
	}
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	var id string
	switch {
	case host == "youtu.be":
		id = strings.Trim(u.Path, "/")
		if i := strings.IndexByte(id, '/'); i >= 0 {
			id = id[:i]
		}
	case hostMatches(host, youtubeHosts):
		if strings.HasPrefix(u.Path, "/shorts/") {
			id = strings.Trim(strings.TrimPrefix(u.Path, "/shorts/"), "/")
		} else {
			id = u.Query().Get("v")
		}
	}
	if !youtubeIDRe.MatchString(id) {
		return ""
	}
	return id
}

// Background is a classified, render-ready background source.
type Background struct {
	Kind      Kind   `json:"kind"`
	Src       string `json:"src"`
	EmbedURL  string `json:"embedUrl,omitempty"`
	Defaulted bool   `json:"defaulted,omitempty"`
}

func Resolve(raw string) Background {
	k, def := Detect(raw)
	b := Background{Kind: k, Src: raw, Defaulted: def}
	switch k {
	case YouTube:
		b.EmbedURL = YouTubeEmbedURL(raw)
	case VR360:
		b.EmbedURL = raw
	}
	return b
}
