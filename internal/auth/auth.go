// Package auth checks the configured admin credentials and keeps the
// resulting permissions.Session in a signed cookie.
package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/permissions"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultCookieName = "sitecms_session"
	DefaultMaxAge     = 60 * 60 * 12

	keySubject = "subject"
	keyAdmin   = "admin"
	keyGrants  = "grants"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrSecretRequired     = errors.New("auth: session secret is required")
	ErrPasswordRequired   = errors.New("auth: password hash is required")
)

// Account is one login. PasswordHash is a bcrypt hash.
type Account struct {
	Username     string
	PasswordHash string
	Admin        bool
	Grants       []string
}

type Config struct {
	Secret     string
	CookieName string
	MaxAge     int
	Secure     bool
	Accounts   []Account
}

type Option func(*Manager)

func WithLogger(logger interfaces.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithStore replaces the cookie store.
func WithStore(store sessions.Store) Option {
	return func(m *Manager) {
		if store != nil {
			m.store = store
		}
	}
}

// Manager logs users in and out and resolves the session of a request.
type Manager struct {
	store    sessions.Store
	name     string
	accounts map[string]Account
	logger   interfaces.Logger
}

func NewManager(cfg Config, opts ...Option) (*Manager, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, ErrSecretRequired
	}
	accounts := make(map[string]Account, len(cfg.Accounts))
	for _, account := range cfg.Accounts {
		username := strings.TrimSpace(account.Username)
		if username == "" {
			continue
		}
		if account.PasswordHash == "" {
			return nil, ErrPasswordRequired
		}
		account.Username = username
		accounts[username] = account
	}

	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   cfg.Secure,
	}
	store.MaxAge(maxAge)

	m := &Manager{
		store:    store,
		name:     cfg.CookieName,
		accounts: accounts,
		logger:   logging.NoOp(),
	}
	if strings.TrimSpace(m.name) == "" {
		m.name = DefaultCookieName
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m, nil
}

// HashPassword returns the bcrypt hash stored in configuration.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Authenticate checks username and password without touching cookies.
func (m *Manager) Authenticate(username, password string) (permissions.Session, error) {
	account, ok := m.lookup(strings.TrimSpace(username))
	if !ok {
		return permissions.Anonymous(), ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return permissions.Anonymous(), ErrInvalidCredentials
	}
	return permissions.Session{
		Subject: account.Username,
		Admin:   account.Admin,
		Grants:  append([]string(nil), account.Grants...),
	}, nil
}

func (m *Manager) lookup(username string) (Account, bool) {
	for name, account := range m.accounts {
		if subtle.ConstantTimeCompare([]byte(name), []byte(username)) == 1 {
			return account, true
		}
	}
	return Account{}, false
}

// Login authenticates and writes the session cookie.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, username, password string) (permissions.Session, error) {
	session, err := m.Authenticate(username, password)
	if err != nil {
		m.logger.Warn("auth.login.rejected", "username", username)
		return session, err
	}
	cookie, err := m.store.Get(r, m.name)
	if err != nil && cookie == nil {
		return permissions.Anonymous(), err
	}
	cookie.Values[keySubject] = session.Subject
	cookie.Values[keyAdmin] = session.Admin
	cookie.Values[keyGrants] = strings.Join(session.Grants, ",")
	if err := cookie.Save(r, w); err != nil {
		return permissions.Anonymous(), err
	}
	m.logger.Info("auth.login.success", "subject", session.Subject)
	return session, nil
}

// Logout expires the session cookie.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	cookie, err := m.store.Get(r, m.name)
	if err != nil && cookie == nil {
		return err
	}
	cookie.Values = map[any]any{}
	cookie.Options.MaxAge = -1
	return cookie.Save(r, w)
}

// Session returns the session carried by the request cookie, or Anonymous.
func (m *Manager) Session(r *http.Request) permissions.Session {
	cookie, err := m.store.Get(r, m.name)
	if err != nil || cookie == nil {
		return permissions.Anonymous()
	}
	subject, _ := cookie.Values[keySubject].(string)
	if subject == "" {
		return permissions.Anonymous()
	}
	admin, _ := cookie.Values[keyAdmin].(bool)
	session := permissions.Session{Subject: subject, Admin: admin}
	if grants, _ := cookie.Values[keyGrants].(string); grants != "" {
		session.Grants = strings.Split(grants, ",")
	}
	return session
}

// Middleware stores the request session on the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := permissions.WithSession(r.Context(), m.Session(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
