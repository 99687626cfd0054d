package menus

import (
	"errors"
	"fmt"
)

var (
	ErrMenuNotFound       = errors.New("menus: menu not found")
	ErrMenuExists         = errors.New("menus: menu already exists")
	ErrMenuNameRequired   = errors.New("menus: name is required")
	ErrMenuNameUnknown    = errors.New("menus: name is not a configured menu")
	ErrMenuDepthExceeded  = errors.New("menus: items may only nest one level")
	ErrInvalidItem        = errors.New("menus: invalid menu item")
	ErrVersionConflict    = errors.New("menus: base version mismatch")
	ErrRepositoryRequired = errors.New("menus: repository is required")
)

// NotFoundError is returned when a menu lookup misses.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	if e == nil || e.Name == "" {
		return ErrMenuNotFound.Error()
	}
	return fmt.Sprintf("%s: %s", ErrMenuNotFound.Error(), e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return ErrMenuNotFound
}

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

// ItemError points at the offending item by path, e.g. "items[2].children[0]".
type ItemError struct {
	Path string
	Err  error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrInvalidItem.Error(), e.Path, e.Err)
}

func (e *ItemError) Unwrap() []error {
	return []error{ErrInvalidItem, e.Err}
}
