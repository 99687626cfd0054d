package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/permissions"
)

// DefaultRequestTimeout bounds each request handled by NewRouter.
const DefaultRequestTimeout = 60 * time.Second

// RouterConfig configures NewRouter.
type RouterConfig struct {
	Timeout time.Duration
	// Quiet disables the request logger middleware.
	Quiet bool
}

// NewRouter mounts the API on a chi router carrying request ids, panic
// recovery, a timeout and the session loader.
func NewRouter(api *API, cfg RouterConfig) (http.Handler, error) {
	mux := http.NewServeMux()
	if err := api.Register(mux); err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID, chimw.RealIP)
	if !cfg.Quiet {
		router.Use(chimw.Logger)
	}
	router.Use(chimw.Recoverer, chimw.Timeout(timeout))
	if api.auth != nil {
		router.Use(api.auth.Middleware)
	}
	router.Use(requestLogFields)
	router.Mount("/", mux)
	return router, nil
}

// requestLogFields exposes the request id and session subject to loggers
// bound to the request context.
func requestLogFields(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = logging.WithRequest(ctx, logging.Request{
			ID:      chimw.GetReqID(ctx),
			Subject: permissions.SessionFromContext(ctx).Subject,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
