// Package richtext renders descriptions coming from the content API into HTML
// that is safe to drop into a panel.
package richtext

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

type Renderer struct {
	policy *bluemonday.Policy
	md     goldmark.Markdown
}

func New() *Renderer {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("p", "span", "div", "ul", "ol", "li", "table", "td", "th")
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return &Renderer{
		policy: p,
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table, extension.Linkify),
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
	}
}

// Render returns sanitized HTML. format "markdown" is converted first; plain
// text without any tags gets its line breaks kept.
func (r *Renderer) Render(body, format string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}
	switch strings.ToLower(format) {
	case "markdown", "md":
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(body), &buf); err == nil {
			body = buf.String()
		}
	default:
		if !strings.ContainsRune(body, '<') {
			body = "<p>" + strings.ReplaceAll(html.EscapeString(body), "\n", "<br>") + "</p>"
		}
	}
	return strings.TrimSpace(r.policy.Sanitize(body))
}
