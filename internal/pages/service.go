package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/sections"
	cmsvalidation "github.com/goliatone/go-sitecms/internal/validation"
	"github.com/goliatone/go-sitecms/pkg/activity"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

// Service manages page lifecycle and section persistence.
type Service interface {
	Create(ctx context.Context, req CreatePageRequest) (*Page, error)
	Get(ctx context.Context, id uuid.UUID) (*Page, error)
	GetBySlug(ctx context.Context, slug string) (*Page, error)
	List(ctx context.Context, opts ListOptions) ([]*Page, error)
	Update(ctx context.Context, req UpdatePageRequest) (*Page, error)
	Delete(ctx context.Context, req DeletePageRequest) error
	Seed(ctx context.Context, actor uuid.UUID) (int, error)
}

// CreatePageRequest captures a new page.
type CreatePageRequest struct {
	Slug            string             `json:"slug"`
	Title           i18n.Text          `json:"title"`
	MetaDescription i18n.Text          `json:"meta_description"`
	Sections        []sections.Section `json:"sections"`
	Published       bool               `json:"published"`
	IsSystemPage    bool               `json:"-"`
	Actor           uuid.UUID          `json:"-"`
}

func (r CreatePageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Slug, validation.Required.Error("slug is required"), validation.Length(1, 200)),
	)
}

// UpdatePageRequest is a partial update. Nil fields are left untouched.
// ExpectedVersion enables optimistic concurrency; nil means last write wins.
type UpdatePageRequest struct {
	ID              uuid.UUID
	Slug            *string
	Title           *i18n.Text
	MetaDescription *i18n.Text
	Sections        *[]sections.Section
	Published       *bool
	ExpectedVersion *int
	Actor           uuid.UUID
}

type DeletePageRequest struct {
	ID    uuid.UUID
	Actor uuid.UUID
}

// ListOptions filters page listings.
type ListOptions struct {
	PublishedOnly bool
}

// ServiceOption configures the page service.
type ServiceOption func(*service)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides page id generation.
func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.newID = generator
		}
	}
}

// WithRegistry sets the section type registry used for validation.
func WithRegistry(registry *sections.Registry) ServiceOption {
	return func(s *service) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithSanitizer sets the HTML sanitizer applied to localized_html fields.
func WithSanitizer(sanitizer sections.Sanitizer) ServiceOption {
	return func(s *service) {
		s.sanitizer = sanitizer
	}
}

// WithActivityEmitter wires audit events for page writes.
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

// WithSeedPages replaces the embedded system page fixture.
func WithSeedPages(seeds []SeedPage) ServiceOption {
	return func(s *service) {
		s.seeds = seeds
	}
}

type service struct {
	repo      PageRepository
	registry  *sections.Registry
	schemas   *cmsvalidation.Validator
	sanitizer sections.Sanitizer
	activity  *activity.Emitter
	logger    interfaces.Logger
	now       func() time.Time
	newID     func() uuid.UUID
	seeds     []SeedPage

	// writes serializes read-check-write sequences so version checks hold.
	writes sync.Mutex
}

// NewService constructs a page service.
func NewService(repo PageRepository, opts ...ServiceOption) (Service, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	s := &service{
		repo:      repo,
		registry:  sections.Default(),
		sanitizer: sections.NewHTMLSanitizer(),
		activity:  activity.NewEmitter(nil, activity.Config{}),
		logger:    logging.NoOp(),
		now:       time.Now,
		newID:     uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}

	schemas, err := cmsvalidation.NewSectionValidator(s.registry)
	if err != nil {
		return nil, err
	}
	s.schemas = schemas
	return s, nil
}

func (s *service) Create(ctx context.Context, req CreatePageRequest) (*Page, error) {
	return s.create(ctx, s.newID(), req)
}

func (s *service) create(ctx context.Context, id uuid.UUID, req CreatePageRequest) (*Page, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	normalized, err := normalizeSlug(req.Slug)
	if err != nil {
		return nil, err
	}

	prepared, err := s.prepareSections(req.Sections)
	if err != nil {
		return nil, err
	}

	s.writes.Lock()
	defer s.writes.Unlock()

	if _, err := s.repo.GetBySlug(ctx, normalized); err == nil {
		return nil, ErrSlugExists
	} else if !errors.Is(err, ErrPageNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	record := &Page{
		ID:              id,
		Slug:            normalized,
		Title:           textOrEmpty(req.Title),
		MetaDescription: textOrEmpty(req.MetaDescription),
		Sections:        prepared,
		Published:       req.Published,
		IsSystemPage:    req.IsSystemPage,
		Version:         1,
		CreatedBy:       req.Actor,
		UpdatedBy:       req.Actor,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		if errors.Is(err, ErrSlugExists) {
			return nil, ErrSlugExists
		}
		s.logger.Error("pages.create.failed", "slug", normalized, "error", err)
		return nil, err
	}
	s.logger.Info("pages.create.success", "page_id", created.ID, "slug", created.Slug)
	s.emit(ctx, req.Actor, activity.VerbCreate, created, nil)
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Page, error) {
	if id == uuid.Nil {
		return nil, ErrPageRequired
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, value string) (*Page, error) {
	normalized, err := normalizeSlug(value)
	if err != nil {
		return nil, &NotFoundError{Key: value}
	}
	return s.repo.GetBySlug(ctx, normalized)
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]*Page, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if !opts.PublishedOnly {
		return records, nil
	}
	out := make([]*Page, 0, len(records))
	for _, record := range records {
		if record.Published {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, req UpdatePageRequest) (*Page, error) {
	if req.ID == uuid.Nil {
		return nil, ErrPageRequired
	}

	var prepared []sections.Section
	if req.Sections != nil {
		var err error
		prepared, err = s.prepareSections(*req.Sections)
		if err != nil {
			return nil, err
		}
	}

	s.writes.Lock()
	defer s.writes.Unlock()

	existing, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if req.ExpectedVersion != nil && *req.ExpectedVersion != existing.Version {
		s.logger.Warn("pages.update.conflict", "page_id", existing.ID, "expected", *req.ExpectedVersion, "actual", existing.Version)
		return nil, &VersionConflictError{Expected: *req.ExpectedVersion, Actual: existing.Version}
	}
	if req.Slug != nil {
		normalized, err := normalizeSlug(*req.Slug)
		if err != nil {
			return nil, err
		}
		if normalized != existing.Slug {
			return nil, ErrSlugImmutable
		}
	}

	changed := []string{}
	if req.Title != nil {
		existing.Title = req.Title.Clone()
		changed = append(changed, "title")
	}
	if req.MetaDescription != nil {
		existing.MetaDescription = req.MetaDescription.Clone()
		changed = append(changed, "meta_description")
	}
	if req.Sections != nil {
		existing.Sections = prepared
		changed = append(changed, "sections")
	}
	if req.Published != nil {
		existing.Published = *req.Published
		changed = append(changed, "published")
	}

	existing.Version++
	existing.UpdatedBy = req.Actor
	existing.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		s.logger.Error("pages.update.failed", "page_id", existing.ID, "error", err)
		return nil, err
	}
	s.logger.Info("pages.update.success", "page_id", updated.ID, "version", updated.Version)
	s.emit(ctx, req.Actor, activity.VerbUpdate, updated, map[string]any{"fields": changed})
	return updated, nil
}

func (s *service) Delete(ctx context.Context, req DeletePageRequest) error {
	if req.ID == uuid.Nil {
		return ErrPageRequired
	}

	s.writes.Lock()
	defer s.writes.Unlock()

	existing, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}
	if existing.IsSystemPage {
		return ErrSystemPageDelete
	}
	if err := s.repo.Delete(ctx, req.ID); err != nil {
		s.logger.Error("pages.delete.failed", "page_id", req.ID, "error", err)
		return err
	}
	s.logger.Info("pages.delete.success", "page_id", req.ID, "slug", existing.Slug)
	s.emit(ctx, req.Actor, activity.VerbDelete, existing, nil)
	return nil
}

// prepareSections orders, identifies, validates and sanitizes sections.
// Content of unknown types is kept verbatim.
func (s *service) prepareSections(list []sections.Section) ([]sections.Section, error) {
	out := sections.Normalize(list)
	for idx := range out {
		section := &out[idx]
		section.Type = strings.ToLower(strings.TrimSpace(section.Type))
		if section.Type == "" {
			return nil, &SectionError{Index: idx, ID: section.ID, Err: errors.New("section_type is required")}
		}
		if !s.registry.Known(section.Type) {
			continue
		}
		desc := s.registry.Resolve(section.Type)
		for _, field := range desc.Fields {
			if field.Kind != sections.KindList {
				continue
			}
			if _, present := section.Content[field.Name]; present {
				section.Content[field.Name] = sections.RenumberItems(section.Content.Items(field.Name))
			}
		}
		if err := s.schemas.Validate(section.Type, section.Content); err != nil {
			return nil, &SectionError{Index: idx, ID: section.ID, Type: section.Type, Err: err}
		}
		section.Content = sections.SanitizeContent(desc, section.Content, s.sanitizer)
	}
	return out, nil
}

func (s *service) emit(ctx context.Context, actor uuid.UUID, verb string, page *Page, meta map[string]any) {
	if s.activity == nil || !s.activity.Enabled() || page == nil {
		return
	}
	if err := s.activity.Emit(ctx, activity.Event{
		Verb:       verb,
		ActorID:    actor,
		ObjectType: activity.ObjectPage,
		ObjectID:   page.ID,
		Key:        page.Slug,
		Version:    page.Version,
		Metadata:   meta,
	}); err != nil {
		s.logger.Warn("pages.activity.failed", "verb", verb, "error", err)
	}
}

func normalizeSlug(value string) (string, error) {
	trimmed := strings.Trim(strings.TrimSpace(value), "/")
	if trimmed == "" {
		return "", ErrSlugRequired
	}
	normalized, err := slug.Normalize(trimmed)
	if err != nil || normalized == "" {
		return "", fmt.Errorf("%w: %q", ErrSlugInvalid, value)
	}
	return normalized, nil
}

func textOrEmpty(text i18n.Text) i18n.Text {
	if text.Len() == 0 {
		return i18n.EmptyText()
	}
	return text.Clone()
}
