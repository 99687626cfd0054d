package menus

import (
	"context"
	"fmt"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"
)

// ResolveRequest carries what a resolver needs to build a page link.
type ResolveRequest struct {
	Menu     string
	PageSlug string
	Locale   string
}

// URLResolver builds URLs for items that point at a page by slug.
type URLResolver interface {
	Resolve(ctx context.Context, req ResolveRequest) (string, error)
}

// HomeSlug is the page slug served at the site root.
const HomeSlug = "home"

// PathResolver maps a slug to "/<slug>", with the home page at "/".
type PathResolver struct{}

func (PathResolver) Resolve(_ context.Context, req ResolveRequest) (string, error) {
	slug := strings.Trim(strings.TrimSpace(req.PageSlug), "/")
	if slug == "" || slug == HomeSlug {
		return "/", nil
	}
	return "/" + slug, nil
}

// URLKitResolverOptions configures the go-urlkit backed resolver.
type URLKitResolverOptions struct {
	Manager      *urlkit.RouteManager
	DefaultGroup string
	LocaleGroups map[string]string
	Route        string
	SlugParam    string
	LocaleParam  string
}

// URLKitResolver builds page links from a go-urlkit route manager, picking
// the route group by locale.
type URLKitResolver struct {
	manager      *urlkit.RouteManager
	defaultGroup string
	localeGroups map[string]string
	route        string
	slugParam    string
	localeParam  string

	mu     sync.RWMutex
	groups map[string]*urlkit.Group
}

func NewURLKitResolver(opts URLKitResolverOptions) *URLKitResolver {
	if opts.SlugParam == "" {
		opts.SlugParam = "slug"
	}
	if opts.Route == "" {
		opts.Route = "page"
	}
	groups := make(map[string]string, len(opts.LocaleGroups))
	for locale, path := range opts.LocaleGroups {
		groups[strings.ToLower(strings.TrimSpace(locale))] = strings.TrimSpace(path)
	}
	return &URLKitResolver{
		manager:      opts.Manager,
		defaultGroup: strings.TrimSpace(opts.DefaultGroup),
		localeGroups: groups,
		route:        strings.TrimSpace(opts.Route),
		slugParam:    opts.SlugParam,
		localeParam:  strings.TrimSpace(opts.LocaleParam),
		groups:       make(map[string]*urlkit.Group),
	}
}

func (r *URLKitResolver) Resolve(_ context.Context, req ResolveRequest) (string, error) {
	if r == nil || r.manager == nil || strings.TrimSpace(req.PageSlug) == "" {
		return "", nil
	}

	groupPath := r.defaultGroup
	if path, ok := r.localeGroups[strings.ToLower(strings.TrimSpace(req.Locale))]; ok && path != "" {
		groupPath = path
	}
	if groupPath == "" {
		return "", nil
	}

	group, err := r.groupForPath(groupPath)
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(group, r.route)
	if err != nil {
		return "", err
	}
	builder.WithParam(r.slugParam, strings.Trim(req.PageSlug, "/"))
	if r.localeParam != "" && req.Locale != "" {
		builder.WithParam(r.localeParam, req.Locale)
	}
	return builder.Build()
}

func (r *URLKitResolver) groupForPath(path string) (*urlkit.Group, error) {
	r.mu.RLock()
	group, ok := r.groups[path]
	r.mu.RUnlock()
	if ok {
		return group, nil
	}

	parts := strings.Split(path, ".")
	current, err := lookup(func() *urlkit.Group { return r.manager.Group(parts[0]) }, parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1:] {
		parent := current
		current, err = lookup(func() *urlkit.Group { return parent.Group(part) }, path)
		if err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.groups[path] = current
	r.mu.Unlock()
	return current, nil
}

// lookup turns go-urlkit's panics on unknown groups into errors.
func lookup(fn func() *urlkit.Group, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("menus: route group %q not found", name)
		}
	}()
	group = fn()
	if group == nil {
		return nil, fmt.Errorf("menus: route group %q not found", name)
	}
	return group, nil
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("menus: route %q: %v", route, rec)
		}
	}()
	return group.Builder(route), nil
}
