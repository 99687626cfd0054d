package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is where stored files are served from.
	DefaultBaseURL = "/api/media"
	// DefaultMaxSize caps a single upload.
	DefaultMaxSize int64 = 10 << 20
	// DefaultExtension is used when the upload carries none.
	DefaultExtension = ".png"
)

// Asset describes a stored upload.
type Asset = interfaces.MediaAsset

// UploadInput is one incoming file.
type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Service stores image uploads and serves them back by name.
type Service interface {
	Upload(ctx context.Context, input UploadInput) (*Asset, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

type ServiceOption func(*service)

// WithMaxSize sets the upload size limit in bytes.
func WithMaxSize(size int64) ServiceOption {
	return func(s *service) {
		if size > 0 {
			s.maxSize = size
		}
	}
}

// WithMaxWidth enables downscaling of wider raster images. Zero disables it.
func WithMaxWidth(width int) ServiceOption {
	return func(s *service) {
		if width >= 0 {
			s.maxWidth = width
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

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	store    interfaces.MediaStore
	maxSize  int64
	maxWidth int
	newID    func() uuid.UUID
	logger   interfaces.Logger
}

func NewService(store interfaces.MediaStore, opts ...ServiceOption) (Service, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	s := &service{
		store:   store,
		maxSize: DefaultMaxSize,
		newID:   uuid.New,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *service) Upload(ctx context.Context, input UploadInput) (*Asset, error) {
	contentType := strings.ToLower(strings.TrimSpace(input.ContentType))
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: %q", ErrNotImage, input.ContentType)
	}
	if input.Reader == nil {
		return nil, ErrEmptyUpload
	}
	if input.Size > s.maxSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, input.Size)
	}
	data, err := io.ReadAll(io.LimitReader(input.Reader, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("media: read upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, s.maxSize)
	}
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}

	processed := fit(data, s.maxWidth)
	if processed.err != nil {
		s.logger.Warn("media.upload.resize_skipped", "filename", input.Filename, "error", processed.err)
	}

	name := s.newName(input.Filename)
	url, err := s.store.Put(ctx, name, bytes.NewReader(processed.data))
	if err != nil {
		s.logger.Error("media.upload.failed", "name", name, "error", err)
		return nil, err
	}
	s.logger.Info("media.upload.success", "name", name, "bytes", len(processed.data), "resized", processed.resized)
	return &Asset{
		Name:        name,
		URL:         url,
		ContentType: contentType,
		Size:        int64(len(processed.data)),
		Width:       processed.width,
		Height:      processed.height,
	}, nil
}

func (s *service) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return s.store.Open(ctx, name)
}

// newName returns "<hex uuid><ext>", keeping the original extension.
func (s *service) newName(filename string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	if ext == "" || ext == "." || strings.ContainsAny(ext, `/\ `) {
		ext = DefaultExtension
	}
	return strings.ReplaceAll(s.newID().String(), "-", "") + ext
}
