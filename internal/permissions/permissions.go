// Package permissions names the "resource:action" tokens the CMS checks and
// the session that holds them.
package permissions

import (
	"errors"
	"strings"
)

const (
	PagesRead       = "pages:read"
	PagesReadDrafts = "pages:read_drafts"
	PagesCreate     = "pages:create"
	PagesUpdate     = "pages:update"
	PagesDelete     = "pages:delete"

	MenusRead   = "menus:read"
	MenusCreate = "menus:create"
	MenusUpdate = "menus:update"
	MenusDelete = "menus:delete"

	MediaRead   = "media:read"
	MediaCreate = "media:create"

	SeedRun = "seed:run"
)

// wildcard grants every token; "resource:*" grants one resource.
const wildcard = "*"

var ErrPermissionDenied = errors.New("permissions: denied")

// Error names the token a session was missing. It matches
// ErrPermissionDenied with errors.Is.
type Error struct {
	Permission string
}

func (e Error) Error() string {
	if e.Permission == "" {
		return "permission denied"
	}
	return "permission denied: " + e.Permission
}

func (e Error) Unwrap() error { return ErrPermissionDenied }

// EditorGrants is what a content editor holds: full control over pages and
// menus, draft reads and media uploads. Seeding stays admin-only.
func EditorGrants() []string {
	return []string{
		"pages:" + wildcard,
		"menus:" + wildcard,
		MediaRead,
		MediaCreate,
	}
}

func normalize(token string) string {
	return strings.ToLower(strings.TrimSpace(token))
}

// split breaks a token into resource and action; action is empty when the
// token has no colon.
func split(token string) (resource, action string) {
	resource, action, _ = strings.Cut(token, ":")
	return strings.TrimSpace(resource), strings.TrimSpace(action)
}

// granted reports whether grants cover token, honouring the wildcards.
func granted(grants []string, token string) bool {
	resource, _ := split(token)
	for _, grant := range grants {
		switch grant = normalize(grant); grant {
		case "":
			continue
		case wildcard, token, resource + ":" + wildcard:
			return true
		}
	}
	return false
}
