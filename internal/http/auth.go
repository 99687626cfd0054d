package http

import (
	"net/http"

	"github.com/goliatone/go-sitecms/internal/permissions"
)

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Success bool `json:"success"`
	permissions.Session
}

func (api *API) registerAuthRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "auth")
	mux.HandleFunc("POST "+root+"/login", api.handleLogin)
	mux.HandleFunc("POST "+root+"/logout", api.handleLogout)
	mux.HandleFunc("GET "+root+"/session", api.handleSession)
}

func (api *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if api.auth == nil {
		unavailable(w)
		return
	}
	var payload loginPayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, err.Error())
		return
	}
	session, err := api.auth.Login(w, r, payload.Username, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Success: true, Session: session})
}

func (api *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if api.auth == nil {
		unavailable(w)
		return
	}
	if err := api.auth.Logout(w, r); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Success: true})
}

// handleSession reports the session the request carries.
func (api *API) handleSession(w http.ResponseWriter, r *http.Request) {
	session := permissions.SessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, sessionResponse{Success: session.Authenticated(), Session: session})
}
