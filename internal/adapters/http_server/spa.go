package httpserver

import (
	"errors"
	"net/http"
	"path"

	"github.com/rs/zerolog/log"

	"hotellink/internal/adapters/webshell"
	"hotellink/internal/app"
	"hotellink/internal/media"
	"hotellink/internal/shell"
)

// SPA serves the browser app: static assets as files, every route-table path
// as index.html with runtime config and meta tags filled in.
type SPA struct {
	Shell     *app.ShellService
	Index     *webshell.Injector
	Static    http.Handler // may be nil
	Runtime   webshell.RuntimeConfig
	PublicURL string // absolute origin for canonical and hreflang links
}

func (s *Server) MountSPA(h *SPA) {
	s.mux.NotFound(h.serve)
	s.mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, http.StatusMethodNotAllowed, "Method Not Allowed", r.Method)
	})
}

func (h *SPA) serve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeProblem(w, http.StatusMethodNotAllowed, "Method Not Allowed", r.Method)
		return
	}
	if path.Ext(r.URL.Path) != "" {
		if h.Static == nil {
			writeProblem(w, http.StatusNotFound, "Not Found", r.URL.Path)
			return
		}
		h.Static.ServeHTTP(w, r)
		return
	}
	if h.Index == nil {
		writeProblem(w, http.StatusNotFound, "Not Found", r.URL.Path)
		return
	}

	status := http.StatusOK
	vs, err := h.Shell.Resolve(r.Context(), r.URL.Path, r.Header.Get("Accept-Language"))
	switch {
	case errors.Is(err, app.ErrUnknownRoute):
		// the client app renders its own not-found state
		status = http.StatusNotFound
		vs = app.ViewState{Path: r.URL.Path, Locale: h.Shell.Localizer().LanguageFromPath(r.URL.Path)}
	case err != nil:
		writeError(w, err)
		return
	}

	if vs.Action != nil && vs.Action.Type == shell.ActionOpenExternal {
		http.Redirect(w, r, vs.Action.URL, http.StatusFound)
		return
	}

	out, err := h.Index.Render(h.runtime(vs), h.meta(vs))
	if err != nil {
		log.Error().Err(err).Msg("render index failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "render index")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if vs.Locale != "" {
		w.Header().Set("Content-Language", vs.Locale)
	}
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(out); err != nil {
		log.Error().Err(err).Msg("failed to write index body")
	}
}

func (h *SPA) runtime(vs app.ViewState) webshell.RuntimeConfig {
	cfg := h.Runtime
	if vs.Site != nil {
		cfg.Locales = vs.Site.LocaleCodes()
		cfg.DefaultLocale = vs.Site.DefaultLocale
		if vs.Site.Theme.LogoURL != "" {
			cfg.LogoURL = vs.Site.Theme.LogoURL
		}
		if vs.Site.BookingURL != "" {
			cfg.BookingURL = vs.Site.BookingURL
		}
	}
	return cfg
}

func (h *SPA) meta(vs app.ViewState) webshell.Meta {
	m := webshell.Meta{Title: vs.Title, Lang: vs.Locale}
	if vs.Site != nil {
		name := vs.Site.SEOTitle
		switch {
		case m.Title == "":
			m.Title = name
		case name != "" && name != m.Title:
			m.Title = m.Title + " | " + name
		}
		m.Description = vs.Site.SEODesc
	}
	if vs.Background != nil && vs.Background.Kind == media.Image {
		m.Image = vs.Background.Src
	}
	if h.PublicURL != "" && vs.Path != "" {
		m.Canonical = h.PublicURL + vs.Path
		for _, a := range vs.Alternates {
			m.Alternates = append(m.Alternates, webshell.Alternate{Locale: a.Locale, Href: h.PublicURL + a.Path})
		}
	}
	return m
}
