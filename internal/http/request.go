package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/identity"
	"github.com/goliatone/go-sitecms/internal/permissions"
)

var errMissingID = errors.New("id required")

// joinPath returns "/base/suffix" with duplicate slashes removed.
func joinPath(base, suffix string) string {
	parts := make([]string, 0, 2)
	for _, part := range []string{base, suffix} {
		if part = strings.Trim(strings.TrimSpace(part), "/"); part != "" {
			parts = append(parts, part)
		}
	}
	return "/" + strings.Join(parts, "/")
}

// decodeJSON reads the request body into target, keeping numbers as
// json.Number so field kinds can be checked later.
func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(target)
}

func parseUUID(value string) (uuid.UUID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return uuid.Nil, errMissingID
	}
	return uuid.Parse(value)
}

// parseBoolQuery falls back to def on blank or malformed input.
func parseBoolQuery(value string, def bool) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}

// actorID is the stable id of the session subject, or uuid.Nil for visitors.
func actorID(r *http.Request) uuid.UUID {
	session := permissions.SessionFromContext(r.Context())
	if !session.Authenticated() {
		return uuid.Nil
	}
	return identity.ActorUUID(session.Subject)
}

// requirePermission writes a 403 and returns false when the request session
// lacks permission.
func requirePermission(w http.ResponseWriter, r *http.Request, permission string) bool {
	if strings.TrimSpace(permission) == "" {
		return true
	}
	if err := permissions.Require(r.Context(), permission); err != nil {
		writeError(w, err)
		return false
	}
	return true
}
