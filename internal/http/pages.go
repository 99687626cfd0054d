package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/goliatone/go-sitecms/internal/pages"
	"github.com/goliatone/go-sitecms/internal/permissions"
	"github.com/goliatone/go-sitecms/internal/render"
	"github.com/goliatone/go-sitecms/internal/sections"
)

type pageUpdatePayload struct {
	Slug            *string             `json:"slug,omitempty"`
	Title           *i18n.Text          `json:"title,omitempty"`
	MetaDescription *i18n.Text          `json:"meta_description,omitempty"`
	Sections        *[]sections.Section `json:"sections,omitempty"`
	Published       *bool               `json:"published,omitempty"`
	Version         *int                `json:"version,omitempty"`
}

func (api *API) registerPageRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "pages")
	mux.HandleFunc("GET "+root, api.handlePageList)
	mux.HandleFunc("POST "+root, api.handlePageCreate)
	mux.HandleFunc("GET "+root+"/slug/{slug}", api.handlePageBySlug)
	mux.HandleFunc("GET "+root+"/slug/{slug}/render", api.handlePageRender)
	mux.HandleFunc("GET "+root+"/{id}", api.handlePageGet)
	mux.HandleFunc("PUT "+root+"/{id}", api.handlePageUpdate)
	mux.HandleFunc("DELETE "+root+"/{id}", api.handlePageDelete)
}

// canSee hides drafts from sessions without pages:read_drafts.
func canSee(r *http.Request, page *pages.Page) bool {
	return page.Published || permissions.Allowed(r.Context(), permissions.PagesReadDrafts)
}

func (api *API) handlePageList(w http.ResponseWriter, r *http.Request) {
	if api.pages == nil {
		unavailable(w)
		return
	}
	drafts := permissions.Allowed(r.Context(), permissions.PagesReadDrafts)
	publishedOnly := parseBoolQuery(r.URL.Query().Get("published_only"), !drafts)
	if !publishedOnly && !requirePermission(w, r, permissions.PagesReadDrafts) {
		return
	}
	records, err := api.pages.List(r.Context(), pages.ListOptions{PublishedOnly: publishedOnly})
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []*pages.Page{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (api *API) handlePageBySlug(w http.ResponseWriter, r *http.Request) {
	if api.pages == nil {
		unavailable(w)
		return
	}
	slug := r.PathValue("slug")
	record, err := api.pages.GetBySlug(r.Context(), slug)
	if err != nil {
		writeError(w, err)
		return
	}
	if !canSee(r, record) {
		writeError(w, &pages.NotFoundError{Key: slug})
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// handlePageRender never fails on a missing page: it answers with the
// fallback view instead.
func (api *API) handlePageRender(w http.ResponseWriter, r *http.Request) {
	if api.pages == nil {
		unavailable(w)
		return
	}
	slug := strings.TrimSpace(r.PathValue("slug"))
	lang := strings.TrimSpace(r.URL.Query().Get("lang"))
	if lang == "" {
		lang = api.defaultLang
	}
	opts := append([]render.Option{render.WithRegistry(api.registry)}, api.renderOpts...)

	record, err := api.pages.GetBySlug(r.Context(), slug)
	switch {
	case err != nil && !errors.Is(err, pages.ErrPageNotFound):
		api.logger.WithContext(r.Context()).Warn("http.pages.render.load_failed", "slug", slug, "error", err)
		writeJSON(w, http.StatusOK, render.Fallback(slug, i18n.NewText(api.defaultLang, slug), lang, api.catalog))
	case err != nil || !canSee(r, record):
		writeJSON(w, http.StatusOK, render.Fallback(slug, i18n.NewText(api.defaultLang, slug), lang, api.catalog))
	default:
		view := render.RenderPage(record, lang, opts...)
		if len(view.Sections) == 0 {
			view = render.Fallback(record.Slug, record.Title, lang, api.catalog)
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func (api *API) handlePageGet(w http.ResponseWriter, r *http.Request) {
	if api.pages == nil {
		unavailable(w)
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	record, err := api.pages.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !canSee(r, record) {
		writeError(w, &pages.NotFoundError{Key: id.String()})
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *API) handlePageCreate(w http.ResponseWriter, r *http.Request) {
	if api.pages == nil {
		unavailable(w)
		return
	}
	if !requirePermission(w, r, permissions.PagesCreate) {
		return
	}
	var payload pages.CreatePageRequest
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, err.Error())
		return
	}
	payload.Actor = actorID(r)
	record, err := api.pages.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (api *API) handlePageUpdate(w http.ResponseWriter, r *http.Request) {
	if api.pages == nil {
		unavailable(w)
		return
	}
	if !requirePermission(w, r, permissions.PagesUpdate) {
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	var payload pageUpdatePayload
	if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
		badRequest(w, err.Error())
		return
	}
	record, err := api.pages.Update(r.Context(), pages.UpdatePageRequest{
		ID:              id,
		Slug:            payload.Slug,
		Title:           payload.Title,
		MetaDescription: payload.MetaDescription,
		Sections:        payload.Sections,
		Published:       payload.Published,
		ExpectedVersion: payload.Version,
		Actor:           actorID(r),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *API) handlePageDelete(w http.ResponseWriter, r *http.Request) {
	if api.pages == nil {
		unavailable(w)
		return
	}
	if !requirePermission(w, r, permissions.PagesDelete) {
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	if err := api.pages.Delete(r.Context(), pages.DeletePageRequest{ID: id, Actor: actorID(r)}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
