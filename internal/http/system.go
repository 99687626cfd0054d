package http

import (
	"net/http"

	seedcmd "github.com/goliatone/go-sitecms/internal/commands/seed"
	"github.com/goliatone/go-sitecms/internal/openapi"
	"github.com/goliatone/go-sitecms/internal/permissions"
	"github.com/goliatone/go-sitecms/internal/sections"
)

const apiVersion = "1.0.0"

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type seedResponse struct {
	Message string `json:"message"`
	seedcmd.Result
}

func (api *API) registerSystemRoutes(mux *http.ServeMux, base string) {
	mux.HandleFunc("GET "+joinPath(base, "health"), api.handleHealth)
	mux.HandleFunc("GET "+joinPath(base, "section-types"), api.handleSectionTypes)
	mux.HandleFunc("GET "+joinPath(base, "section-types")+"/{type}/schema", api.handleSectionSchema)
	mux.HandleFunc("POST "+joinPath(base, "seed/pages-menus"), api.handleSeed)
	mux.HandleFunc("GET "+joinPath(base, "openapi.json"), api.handleOpenAPI)
}

// handleHealth reports degraded rather than failing so probes can tell a
// database outage from a dead process.
func (api *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "healthy", Database: "connected"}
	if api.health == nil {
		resp.Database = "memory"
	} else if err := api.health(r.Context()); err != nil {
		api.logger.WithContext(r.Context()).Warn("http.health.database_failed", "error", err)
		resp = healthResponse{Status: "degraded", Database: "unreachable"}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (api *API) handleSectionTypes(w http.ResponseWriter, r *http.Request) {
	descriptors := api.registry.Descriptors()
	if descriptors == nil {
		descriptors = []sections.Descriptor{}
	}
	writeJSON(w, http.StatusOK, descriptors)
}

func (api *API) handleSectionSchema(w http.ResponseWriter, r *http.Request) {
	schema, err := api.registry.JSONSchema(r.PathValue("type"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, schema)
}

func (api *API) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	doc, err := openapi.Build("Site CMS API", apiVersion, api.basePath, api.registry)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (api *API) handleSeed(w http.ResponseWriter, r *http.Request) {
	if api.seed == nil {
		unavailable(w)
		return
	}
	if !requirePermission(w, r, permissions.SeedRun) {
		return
	}
	var result seedcmd.Result
	if err := api.seed.Execute(r.Context(), seedcmd.SeedPagesMenusCommand{Actor: actorID(r), Result: &result}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, seedResponse{Message: "system pages and menus seeded", Result: result})
}
