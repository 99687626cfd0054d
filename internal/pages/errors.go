package pages

import (
	"errors"
	"fmt"
)

var (
	ErrPageNotFound       = errors.New("pages: page not found")
	ErrPageRequired       = errors.New("pages: page id required")
	ErrSlugRequired       = errors.New("pages: slug is required")
	ErrSlugInvalid        = errors.New("pages: slug contains invalid characters")
	ErrSlugExists         = errors.New("pages: slug already exists")
	ErrSlugImmutable      = errors.New("pages: slug cannot change after creation")
	ErrSystemPageDelete   = errors.New("pages: system pages cannot be deleted")
	ErrVersionConflict    = errors.New("pages: base version mismatch")
	ErrInvalidSection     = errors.New("pages: invalid section")
	ErrRepositoryRequired = errors.New("pages: repository is required")
)

// NotFoundError is returned when a lookup by id or slug misses.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	if e == nil || e.Key == "" {
		return ErrPageNotFound.Error()
	}
	return fmt.Sprintf("%s: %s", ErrPageNotFound.Error(), e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrPageNotFound
}

// VersionConflictError carries both versions of a rejected write.
type VersionConflictError struct {
	Expected int
	Actual   int
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("%s: expected %d, current %d", ErrVersionConflict.Error(), e.Expected, e.Actual)
}

func (e *VersionConflictError) Unwrap() error {
	return ErrVersionConflict
}

// SectionError points at the section that failed validation.
type SectionError struct {
	Index int
	ID    string
	Type  string
	Err   error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("%s: sections[%d] (%s): %v", ErrInvalidSection.Error(), e.Index, e.Type, e.Err)
}

func (e *SectionError) Unwrap() []error {
	return []error{ErrInvalidSection, e.Err}
}
