package http

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-sitecms/internal/menus"
	"github.com/goliatone/go-sitecms/internal/permissions"
)

func (api *API) registerMenuRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "menus")
	mux.HandleFunc("GET "+root, api.handleMenuList)
	mux.HandleFunc("POST "+root, api.handleMenuCreate)
	mux.HandleFunc("GET "+root+"/{name}", api.handleMenuGet)
	mux.HandleFunc("PUT "+root+"/{name}", api.handleMenuReplace)
	mux.HandleFunc("DELETE "+root+"/{name}", api.handleMenuDelete)
	mux.HandleFunc("GET "+joinPath(base, "navigation")+"/{name}", api.handleNavigation)
}

func (api *API) handleMenuList(w http.ResponseWriter, r *http.Request) {
	if api.menus == nil {
		unavailable(w)
		return
	}
	records, err := api.menus.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []*menus.Menu{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (api *API) handleMenuGet(w http.ResponseWriter, r *http.Request) {
	if api.menus == nil {
		unavailable(w)
		return
	}
	record, err := api.menus.Get(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *API) handleMenuCreate(w http.ResponseWriter, r *http.Request) {
	if api.menus == nil {
		unavailable(w)
		return
	}
	if !requirePermission(w, r, permissions.MenusCreate) {
		return
	}
	var payload menus.CreateMenuRequest
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, err.Error())
		return
	}
	payload.Actor = actorID(r)
	record, err := api.menus.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (api *API) handleMenuReplace(w http.ResponseWriter, r *http.Request) {
	if api.menus == nil {
		unavailable(w)
		return
	}
	if !requirePermission(w, r, permissions.MenusUpdate) {
		return
	}
	var payload menus.ReplaceMenuRequest
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, err.Error())
		return
	}
	payload.Name = r.PathValue("name")
	payload.Actor = actorID(r)
	record, err := api.menus.Replace(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *API) handleMenuDelete(w http.ResponseWriter, r *http.Request) {
	if api.menus == nil {
		unavailable(w)
		return
	}
	if !requirePermission(w, r, permissions.MenusDelete) {
		return
	}
	if err := api.menus.Delete(r.Context(), r.PathValue("name"), actorID(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleNavigation always answers; missing or empty menus yield the fallback.
func (api *API) handleNavigation(w http.ResponseWriter, r *http.Request) {
	if api.menus == nil {
		unavailable(w)
		return
	}
	lang := strings.TrimSpace(r.URL.Query().Get("lang"))
	if lang == "" {
		lang = api.defaultLang
	}
	writeJSON(w, http.StatusOK, api.menus.Navigation(r.Context(), r.PathValue("name"), lang))
}
