package permissions

import (
	"context"
	"strings"
)

// Session is the capability a request acts with. It travels explicitly on
// the request context or in editor options; nothing global grants admin.
type Session struct {
	Subject string   `json:"subject,omitempty"`
	Admin   bool     `json:"admin"`
	Grants  []string `json:"grants,omitempty"`
}

// Anonymous is the visitor session: published reads only.
func Anonymous() Session {
	return Session{}
}

func AdminSession(subject string) Session {
	return Session{Subject: strings.TrimSpace(subject), Admin: true}
}

func (s Session) Authenticated() bool {
	return s.Subject != ""
}

// Can reports whether the session holds token. Any "<resource>:read" is
// public; grants only count for authenticated sessions.
func (s Session) Can(token string) bool {
	token = normalize(token)
	if token == "" || s.Admin {
		return true
	}
	if _, action := split(token); action == "read" {
		return true
	}
	return s.Authenticated() && granted(s.Grants, token)
}

type sessionKey struct{}

func WithSession(ctx context.Context, session Session) context.Context {
	if ctx == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext falls back to Anonymous.
func SessionFromContext(ctx context.Context) Session {
	if ctx != nil {
		if session, ok := ctx.Value(sessionKey{}).(Session); ok {
			return session
		}
	}
	return Anonymous()
}

func Allowed(ctx context.Context, token string) bool {
	return SessionFromContext(ctx).Can(token)
}

// Require returns an Error naming token when the context session lacks it.
func Require(ctx context.Context, token string) error {
	if Allowed(ctx, token) {
		return nil
	}
	return Error{Permission: normalize(token)}
}
