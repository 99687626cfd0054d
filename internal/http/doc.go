// Package http exposes the site CMS over REST.
//
// Routes mount under /api:
//   - Health and registry: /health, /openapi.json, /section-types
//   - Pages: /pages, /pages/{id}, /pages/slug/{slug}, /pages/slug/{slug}/render
//   - Menus: /menus, /menus/{name}, /navigation/{name}
//   - Media: /media/upload, /media/{name}
//   - Seed: /seed/pages-menus
//   - Session: /auth/login, /auth/logout, /auth/session
//
// API.Register attaches the routes to a ServeMux; NewRouter wraps that mux in
// a chi router with request middleware and the session loader.
package http
