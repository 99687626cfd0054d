package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// FSStore keeps uploads in a single directory on disk.
type FSStore struct {
	root    string
	baseURL string
	once    sync.Once
	initErr error
}

var _ interfaces.MediaStore = (*FSStore)(nil)

// NewFSStore stores files under root and reports them under baseURL.
func NewFSStore(root, baseURL string) *FSStore {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &FSStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *FSStore) ensure() error {
	s.once.Do(func() {
		s.initErr = os.MkdirAll(s.root, 0o755)
	})
	return s.initErr
}

func (s *FSStore) Put(ctx context.Context, name string, body io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := checkName(name); err != nil {
		return "", err
	}
	if err := s.ensure(); err != nil {
		return "", fmt.Errorf("media: create directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("media: create file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("media: write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("media: close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.root, name)); err != nil {
		return "", fmt.Errorf("media: store file: %w", err)
	}
	return s.baseURL + "/" + name, nil
}

func (s *FSStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkName(name); err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(s.root, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, name)
	}
	return file, err
}

// checkName only accepts flat file names.
func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
