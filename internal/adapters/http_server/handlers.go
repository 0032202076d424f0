// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotellink/internal/app"
	"hotellink/internal/domain"
	"hotellink/internal/media"
	"hotellink/internal/pathloc"
)

type Handlers struct {
	Shell   *app.ShellService
	Site    *app.SiteService
	Content *app.ContentService
	Loc     *pathloc.Localizer
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	if h.Loc == nil {
		h.Loc = pathloc.Default()
	}
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/view", h.getView)
		r.Get("/site", h.getSite)
		r.Get("/media/classify", h.classifyMedia)
		r.Get("/posts", h.listPosts)
		r.Get("/contact", h.getContact)
		r.Get("/gallery", h.getGallery)
		r.Get("/introduction", h.getPage(domain.PageIntroduction))
		r.Get("/policy", h.getPage(domain.PagePolicy))
		r.Get("/regulation", h.getPage(domain.PageRegulation))
		r.Get("/{kind}", h.listEntities)
		r.Get("/{kind}/id/{id}", h.getEntityByID)
		r.Get("/{kind}/{code}", h.getEntity)
	})
}

// selectLang prefers ?lang=, then the Accept-Language header, then the default locale.
func (h *Handlers) selectLang(r *http.Request) (string, bool) {
	if q := r.URL.Query().Get("lang"); q != "" {
		return h.Loc.Canonical(q)
	}
	return pathloc.Negotiate(r.Header.Get("Accept-Language"), h.Loc.Codes()), true
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors onto problem responses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrValidation):
		writeProblem(w, http.StatusUnprocessableEntity, "Unprocessable Entity", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeProblem(w, http.StatusGatewayTimeout, "Gateway Timeout", "content API timed out")
	case errors.Is(err, context.Canceled):
		// client went away; nothing useful to send
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrForbidden):
		log.Error().Err(err).Msg("content API rejected credentials")
		writeProblem(w, http.StatusBadGateway, "Bad Gateway", "content API rejected the request")
	default:
		writeProblem(w, http.StatusBadGateway, "Bad Gateway", "content API unavailable")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any, lang string) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "encode response")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	if lang != "" {
		w.Header().Set("Content-Language", lang)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func (h *Handlers) getView(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Query().Get("path")
	if p == "" {
		p = "/"
	}
	if p[0] != '/' {
		writeProblem(w, http.StatusBadRequest, "Invalid path", "path must start with /")
		return
	}
	vs, err := h.Shell.Resolve(r.Context(), p, r.Header.Get("Accept-Language"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, vs, vs.Locale)
}

func (h *Handlers) getSite(w http.ResponseWriter, r *http.Request) {
	lang, ok := h.selectLang(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid lang", "unsupported locale")
		return
	}
	site, err := h.Site.Load(r.Context(), lang)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, site, lang)
}

func (h *Handlers) classifyMedia(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid url", "url is required")
		return
	}
	writeJSON(w, r, media.Resolve(raw), "")
}

func (h *Handlers) listEntities(w http.ResponseWriter, r *http.Request) {
	kind := domain.Kind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		writeProblem(w, http.StatusNotFound, "Not Found", "unknown section")
		return
	}
	lang, ok := h.selectLang(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid lang", "unsupported locale")
		return
	}
	out, err := h.Content.List(r.Context(), app.Query{Kind: kind, Locale: lang})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, out, lang)
}

func (h *Handlers) getEntity(w http.ResponseWriter, r *http.Request) {
	kind := domain.Kind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		writeProblem(w, http.StatusNotFound, "Not Found", "unknown section")
		return
	}
	lang, ok := h.selectLang(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid lang", "unsupported locale")
		return
	}
	out, err := h.Content.ByCode(r.Context(), kind, chi.URLParam(r, "code"), lang)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, out, lang)
}

func (h *Handlers) getEntityByID(w http.ResponseWriter, r *http.Request) {
	kind := domain.Kind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		writeProblem(w, http.StatusNotFound, "Not Found", "unknown section")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	lang, ok := h.selectLang(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid lang", "unsupported locale")
		return
	}
	out, err := h.Content.ByID(r.Context(), kind, id, lang)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, out, lang)
}

func (h *Handlers) getPage(kind domain.PageKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang, ok := h.selectLang(r)
		if !ok {
			writeProblem(w, http.StatusBadRequest, "Invalid lang", "unsupported locale")
			return
		}
		out, err := h.Content.Page(r.Context(), kind, lang)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, r, out, lang)
	}
}

func (h *Handlers) listPosts(w http.ResponseWriter, r *http.Request) {
	lang, ok := h.selectLang(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid lang", "unsupported locale")
		return
	}
	out, err := h.Content.Posts(r.Context(), lang)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, out, lang)
}

func (h *Handlers) getContact(w http.ResponseWriter, r *http.Request) {
	lang, ok := h.selectLang(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid lang", "unsupported locale")
		return
	}
	out, err := h.Content.Contact(r.Context(), lang)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, out, lang)
}

func (h *Handlers) getGallery(w http.ResponseWriter, r *http.Request) {
	out, err := h.Content.Gallery(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, out, "")
}
