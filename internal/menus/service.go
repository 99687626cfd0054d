package menus

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/pkg/activity"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
	"github.com/google/uuid"
)

// Service manages the site's named menus.
type Service interface {
	List(ctx context.Context) ([]*Menu, error)
	Get(ctx context.Context, name string) (*Menu, error)
	GetOrCreate(ctx context.Context, name string, actor uuid.UUID) (*Menu, error)
	Create(ctx context.Context, req CreateMenuRequest) (*Menu, error)
	Replace(ctx context.Context, req ReplaceMenuRequest) (*Menu, error)
	Delete(ctx context.Context, name string, actor uuid.UUID) error
	Seed(ctx context.Context, actor uuid.UUID) (int, error)
	Navigation(ctx context.Context, name, lang string) Navigation
	Names() []string
}

type CreateMenuRequest struct {
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
	Actor uuid.UUID  `json:"-"`
}

// ReplaceMenuRequest swaps the whole item tree. ExpectedVersion enables
// optimistic concurrency; nil means last write wins.
type ReplaceMenuRequest struct {
	Name            string     `json:"-"`
	Items           []MenuItem `json:"items"`
	ExpectedVersion *int       `json:"version,omitempty"`
	Actor           uuid.UUID  `json:"-"`
}

type ServiceOption func(*service)

func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.newID = generator
		}
	}
}

// WithNames restricts the menus that may exist.
func WithNames(names ...string) ServiceOption {
	return func(s *service) {
		cleaned := make([]string, 0, len(names))
		for _, name := range names {
			if trimmed := nameKey(name); trimmed != "" && !slices.Contains(cleaned, trimmed) {
				cleaned = append(cleaned, trimmed)
			}
		}
		if len(cleaned) > 0 {
			s.names = cleaned
		}
	}
}

// WithURLResolver sets how page_slug items become URLs.
func WithURLResolver(resolver URLResolver) ServiceOption {
	return func(s *service) {
		if resolver != nil {
			s.resolver = resolver
		}
	}
}

// WithCatalog sets the string catalog used for fallback labels.
func WithCatalog(catalog *i18n.Catalog) ServiceOption {
	return func(s *service) {
		if catalog != nil {
			s.catalog = catalog
		}
	}
}

func WithActivityEmitter(emitter *activity.Emitter) ServiceOption {
	return func(s *service) {
		if emitter != nil {
			s.activity = emitter
		}
	}
}

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSeedMenus replaces the embedded default menus.
func WithSeedMenus(seeds []SeedMenu) ServiceOption {
	return func(s *service) {
		s.seeds = seeds
	}
}

type service struct {
	repo     MenuRepository
	names    []string
	resolver URLResolver
	catalog  *i18n.Catalog
	activity *activity.Emitter
	logger   interfaces.Logger
	now      func() time.Time
	newID    func() uuid.UUID
	seeds    []SeedMenu

	writes sync.Mutex
}

func NewService(repo MenuRepository, opts ...ServiceOption) (Service, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	s := &service{
		repo:     repo,
		names:    slices.Clone(DefaultNames),
		resolver: PathResolver{},
		activity: activity.NewEmitter(nil, activity.Config{}),
		logger:   logging.NoOp(),
		now:      time.Now,
		newID:    uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.catalog == nil {
		catalog, err := i18n.DefaultCatalog()
		if err != nil {
			return nil, err
		}
		s.catalog = catalog
	}
	return s, nil
}

func (s *service) Names() []string {
	return slices.Clone(s.names)
}

func (s *service) checkName(name string) (string, error) {
	key := nameKey(name)
	if key == "" {
		return "", ErrMenuNameRequired
	}
	if !slices.Contains(s.names, key) {
		return "", fmt.Errorf("%w: %q", ErrMenuNameUnknown, name)
	}
	return key, nil
}

func (s *service) List(ctx context.Context) ([]*Menu, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, name string) (*Menu, error) {
	key := nameKey(name)
	if key == "" {
		return nil, ErrMenuNameRequired
	}
	return s.repo.GetByName(ctx, key)
}

func (s *service) GetOrCreate(ctx context.Context, name string, actor uuid.UUID) (*Menu, error) {
	menu, err := s.Get(ctx, name)
	if err == nil {
		return menu, nil
	}
	if !errors.Is(err, ErrMenuNotFound) {
		return nil, err
	}
	menu, err = s.Create(ctx, CreateMenuRequest{Name: name, Actor: actor})
	if errors.Is(err, ErrMenuExists) {
		return s.Get(ctx, name)
	}
	return menu, err
}

func (s *service) Create(ctx context.Context, req CreateMenuRequest) (*Menu, error) {
	return s.create(ctx, s.newID(), req)
}

func (s *service) create(ctx context.Context, id uuid.UUID, req CreateMenuRequest) (*Menu, error) {
	key, err := s.checkName(req.Name)
	if err != nil {
		return nil, err
	}
	items, err := Normalize(req.Items)
	if err != nil {
		return nil, err
	}

	s.writes.Lock()
	defer s.writes.Unlock()

	if _, err := s.repo.GetByName(ctx, key); err == nil {
		return nil, ErrMenuExists
	} else if !errors.Is(err, ErrMenuNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &Menu{
		ID:        id,
		Name:      key,
		Items:     items,
		Version:   1,
		CreatedBy: req.Actor,
		UpdatedBy: req.Actor,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.logger.Error("menus.create.failed", "name", key, "error", err)
		return nil, err
	}
	s.logger.Info("menus.create.success", "name", key, "items", len(items))
	s.emit(ctx, req.Actor, activity.VerbCreate, created)
	return created, nil
}

func (s *service) Replace(ctx context.Context, req ReplaceMenuRequest) (*Menu, error) {
	key := nameKey(req.Name)
	if key == "" {
		return nil, ErrMenuNameRequired
	}
	items, err := Normalize(req.Items)
	if err != nil {
		return nil, err
	}

	s.writes.Lock()
	defer s.writes.Unlock()

	existing, err := s.repo.GetByName(ctx, key)
	if err != nil {
		return nil, err
	}
	if req.ExpectedVersion != nil && *req.ExpectedVersion != existing.Version {
		s.logger.Warn("menus.replace.conflict", "name", key, "expected", *req.ExpectedVersion, "actual", existing.Version)
		return nil, &VersionConflictError{Expected: *req.ExpectedVersion, Actual: existing.Version}
	}

	existing.Items = items
	existing.Version++
	existing.UpdatedBy = req.Actor
	existing.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		s.logger.Error("menus.replace.failed", "name", key, "error", err)
		return nil, err
	}
	s.logger.Info("menus.replace.success", "name", key, "version", updated.Version)
	s.emit(ctx, req.Actor, activity.VerbUpdate, updated)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, name string, actor uuid.UUID) error {
	s.writes.Lock()
	defer s.writes.Unlock()

	existing, err := s.Get(ctx, name)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, existing.ID); err != nil {
		return err
	}
	s.logger.Info("menus.delete.success", "name", existing.Name)
	s.emit(ctx, actor, activity.VerbDelete, existing)
	return nil
}

// Navigation assembles the named menu for lang. Missing menus and load
// errors fall back to the built-in navigation.
func (s *service) Navigation(ctx context.Context, name, lang string) Navigation {
	key := nameKey(name)
	fallback := FallbackFor(key, s.catalog, lang)
	menu, err := s.repo.GetByName(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMenuNotFound) {
			s.logger.Warn("menus.navigation.load_failed", "name", key, "error", err)
		}
		return fallback
	}
	return Assemble(ctx, menu, lang, fallback, s.resolver)
}

func (s *service) emit(ctx context.Context, actor uuid.UUID, verb string, menu *Menu) {
	if s.activity == nil || !s.activity.Enabled() || menu == nil {
		return
	}
	if err := s.activity.Emit(ctx, activity.Event{
		Verb:       verb,
		ActorID:    actor,
		ObjectType: activity.ObjectMenu,
		ObjectID:   menu.ID,
		Key:        menu.Name,
		Version:    menu.Version,
	}); err != nil {
		s.logger.Warn("menus.activity.failed", "verb", verb, "error", err)
	}
}
