// Package client talks to the site CMS REST API. It implements the editor
// backends so the page and menu editors can run against a remote server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-sitecms/internal/auth"
	"github.com/goliatone/go-sitecms/internal/editor"
	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/media"
	"github.com/goliatone/go-sitecms/internal/menus"
	"github.com/goliatone/go-sitecms/internal/pages"
	"github.com/goliatone/go-sitecms/internal/permissions"
	"github.com/goliatone/go-sitecms/internal/render"
	"github.com/goliatone/go-sitecms/internal/sections"
	"github.com/goliatone/go-sitecms/internal/validation"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

const defaultTimeout = 15 * time.Second

// ErrNetwork marks transport failures and server errors. Callers may retry.
var ErrNetwork = errors.New("client: network failure")

// ErrBaseURLRequired is returned by New without a server address.
var ErrBaseURLRequired = errors.New("client: base url is required")

// APIError is a non-2xx answer decoded from the error payload.
type APIError struct {
	Status         int                          `json:"-"`
	Code           string                       `json:"error"`
	Message        string                       `json:"message,omitempty"`
	Issues         []validation.ValidationIssue `json:"issues,omitempty"`
	CurrentVersion int                          `json:"current_version,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("client: status %d: %s", e.Status, e.Code)
	}
	return fmt.Sprintf("client: status %d: %s", e.Status, e.Message)
}

// Client issues CMS calls against the API base URL, e.g. "http://host/api".
type Client struct {
	baseURL string
	http    *http.Client
	logger  interfaces.Logger
}

var (
	_ editor.PageBackend = (*Client)(nil)
	_ editor.MenuBackend = (*Client)(nil)
	_ editor.Uploader    = (*Client)(nil)
)

type Option func(*Client)

// WithHTTPClient replaces the default client. Its cookie jar carries the
// session between calls.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, ErrBaseURLRequired
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http:    &http.Client{Timeout: defaultTimeout, Jar: jar},
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Login opens a session; later calls carry its cookie.
func (c *Client) Login(ctx context.Context, username, password string) (permissions.Session, error) {
	var resp struct {
		permissions.Session
		Success bool `json:"success"`
	}
	err := c.do(ctx, http.MethodPost, []string{"auth", "login"}, map[string]string{"username": username, "password": password}, &resp)
	if status(err) == http.StatusUnauthorized {
		return permissions.Anonymous(), auth.ErrInvalidCredentials
	}
	if err != nil {
		return permissions.Anonymous(), classify(err)
	}
	return resp.Session, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return classify(c.do(ctx, http.MethodPost, []string{"auth", "logout"}, nil, nil))
}

func (c *Client) SectionTypes(ctx context.Context) ([]sections.Descriptor, error) {
	var out []sections.Descriptor
	err := c.do(ctx, http.MethodGet, []string{"section-types"}, nil, &out)
	return out, classify(err)
}

func (c *Client) LoadPage(ctx context.Context, slug string) (*pages.Page, error) {
	var page pages.Page
	if err := c.do(ctx, http.MethodGet, []string{"pages", "slug", slug}, nil, &page); err != nil {
		return nil, pageError(err, slug, 0)
	}
	return &page, nil
}

type pageUpdate struct {
	Slug            *string             `json:"slug,omitempty"`
	Title           *i18n.Text          `json:"title,omitempty"`
	MetaDescription *i18n.Text          `json:"meta_description,omitempty"`
	Sections        *[]sections.Section `json:"sections,omitempty"`
	Published       *bool               `json:"published,omitempty"`
	Version         *int                `json:"version,omitempty"`
}

func (c *Client) SavePage(ctx context.Context, req pages.UpdatePageRequest) (*pages.Page, error) {
	body := pageUpdate{
		Slug:            req.Slug,
		Title:           req.Title,
		MetaDescription: req.MetaDescription,
		Sections:        req.Sections,
		Published:       req.Published,
		Version:         req.ExpectedVersion,
	}
	var page pages.Page
	if err := c.do(ctx, http.MethodPut, []string{"pages", req.ID.String()}, body, &page); err != nil {
		return nil, pageError(err, req.ID.String(), versionOf(req.ExpectedVersion))
	}
	return &page, nil
}

// RenderPage fetches the rendered views of slug. Section views arrive as
// decoded JSON maps.
func (c *Client) RenderPage(ctx context.Context, slug, lang string) (*render.PageView, error) {
	var view render.PageView
	err := c.doQuery(ctx, http.MethodGet, []string{"pages", "slug", slug, "render"}, url.Values{"lang": {lang}}, nil, &view)
	if err != nil {
		return nil, classify(err)
	}
	return &view, nil
}

// LoadMenu fetches the named menu, creating it when the server has none.
func (c *Client) LoadMenu(ctx context.Context, name string) (*menus.Menu, error) {
	var menu menus.Menu
	err := c.do(ctx, http.MethodGet, []string{"menus", name}, nil, &menu)
	if err == nil {
		return &menu, nil
	}
	if status(err) != http.StatusNotFound {
		return nil, menuError(err, name, 0)
	}
	err = c.do(ctx, http.MethodPost, []string{"menus"}, menus.CreateMenuRequest{Name: name, Items: []menus.MenuItem{}}, &menu)
	if err != nil && status(err) == http.StatusBadRequest {
		// lost a creation race
		err = c.do(ctx, http.MethodGet, []string{"menus", name}, nil, &menu)
	}
	if err != nil {
		return nil, menuError(err, name, 0)
	}
	return &menu, nil
}

func (c *Client) SaveMenu(ctx context.Context, req menus.ReplaceMenuRequest) (*menus.Menu, error) {
	var menu menus.Menu
	if err := c.do(ctx, http.MethodPut, []string{"menus", req.Name}, req, &menu); err != nil {
		return nil, menuError(err, req.Name, versionOf(req.ExpectedVersion))
	}
	return &menu, nil
}

func (c *Client) Navigation(ctx context.Context, name, lang string) (menus.Navigation, error) {
	var nav menus.Navigation
	err := c.doQuery(ctx, http.MethodGet, []string{"navigation", name}, url.Values{"lang": {lang}}, nil, &nav)
	return nav, classify(err)
}

// Upload posts input as the multipart "file" field.
func (c *Client) Upload(ctx context.Context, input media.UploadInput) (*media.Asset, error) {
	if input.Reader == nil {
		return nil, media.ErrEmptyUpload
	}
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, input.Filename))
	header.Set("Content-Type", input.ContentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, input.Reader); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, []string{"media", "upload"}, nil, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	var asset media.Asset
	if err := c.send(req, &asset); err != nil {
		return nil, classify(err)
	}
	return &asset, nil
}

func (c *Client) do(ctx context.Context, method string, segments []string, payload, target any) error {
	return c.doQuery(ctx, method, segments, nil, payload, target)
}

func (c *Client) doQuery(ctx context.Context, method string, segments []string, query url.Values, payload, target any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := c.newRequest(ctx, method, segments, query, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, target)
}

func (c *Client) newRequest(ctx context.Context, method string, segments []string, query url.Values, body io.Reader) (*http.Request, error) {
	escaped := make([]string, len(segments))
	for i, segment := range segments {
		escaped[i] = url.PathEscape(segment)
	}
	endpoint := c.baseURL + "/" + strings.Join(escaped, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) send(req *http.Request, target any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("client.request.failed", "method", req.Method, "url", req.URL.String(), "error", err)
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, apiErr) != nil || apiErr.Code == "" {
			apiErr.Code = http.StatusText(resp.StatusCode)
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}
	if target == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrNetwork, err)
	}
	return nil
}

func status(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// classify maps status codes onto the error kinds editors understand.
func classify(err error) error {
	var apiErr *APIError
	if err == nil || !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.Status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %w", ErrNetwork, apiErr)
	case apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden:
		return fmt.Errorf("%w: %w", permissions.ErrPermissionDenied, apiErr)
	case apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnprocessableEntity:
		return goerrors.Wrap(apiErr, goerrors.CategoryValidation, apiErr.Message).WithTextCode(strings.ToUpper(apiErr.Code))
	}
	return apiErr
}

func versionOf(version *int) int {
	if version == nil {
		return 0
	}
	return *version
}

func pageError(err error, key string, expected int) error {
	switch status(err) {
	case http.StatusNotFound:
		return &pages.NotFoundError{Key: key}
	case http.StatusConflict:
		var apiErr *APIError
		errors.As(err, &apiErr)
		return &pages.VersionConflictError{Expected: expected, Actual: apiErr.CurrentVersion}
	}
	return classify(err)
}

func menuError(err error, name string, expected int) error {
	switch status(err) {
	case http.StatusNotFound:
		return &menus.NotFoundError{Name: name}
	case http.StatusConflict:
		var apiErr *APIError
		errors.As(err, &apiErr)
		return &menus.VersionConflictError{Expected: expected, Actual: apiErr.CurrentVersion}
	}
	return classify(err)
}
