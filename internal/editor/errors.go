package editor

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-sitecms/internal/menus"
	"github.com/goliatone/go-sitecms/internal/pages"
	"github.com/goliatone/go-sitecms/internal/sections"
)

var (
	ErrBackendRequired  = errors.New("editor: backend is required")
	ErrNotLoaded        = errors.New("editor: nothing loaded")
	ErrSaveInProgress   = errors.New("editor: save already in progress")
	ErrLoadFailed       = errors.New("editor: load failed")
	ErrSaveFailed       = errors.New("editor: save failed")
	ErrSectionNotFound  = errors.New("editor: section not found")
	ErrItemNotFound     = errors.New("editor: item not found")
	ErrNotLocalized     = errors.New("editor: field is not localized")
	ErrUploaderRequired = errors.New("editor: uploader is not configured")
	ErrUploadNotFound   = errors.New("editor: upload not pending")
	ErrUploadTargetGone = errors.New("editor: upload target no longer exists")
	ErrNoImageField     = errors.New("editor: target has no image field")
)

const validationCode = "EDITOR_VALIDATION_FAILED"

// NoticeKind classifies a user-facing notification.
type NoticeKind string

const (
	NoticeNotFound     NoticeKind = "not_found"
	NoticeValidation   NoticeKind = "validation"
	NoticeLoadFailed   NoticeKind = "load_failed"
	NoticeSaveFailed   NoticeKind = "save_failed"
	NoticeConflict     NoticeKind = "conflict"
	NoticeUploadFailed NoticeKind = "upload_failed"
)

// Notice is a dismissible message for the admin.
type Notice struct {
	ID      int        `json:"id"`
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

type noticeBoard struct {
	next    int
	notices []Notice
}

func (b *noticeBoard) add(kind NoticeKind, err error) {
	b.next++
	b.notices = append(b.notices, Notice{ID: b.next, Kind: kind, Message: err.Error()})
}

func (b *noticeBoard) list() []Notice {
	return append([]Notice(nil), b.notices...)
}

func (b *noticeBoard) dismiss(id int) bool {
	for i, notice := range b.notices {
		if notice.ID == id {
			b.notices = append(b.notices[:i], b.notices[i+1:]...)
			return true
		}
	}
	return false
}

// rejectField marks a rejected write as a validation failure.
func rejectField(err error, message string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, message).WithTextCode(validationCode)
}

// IsNotFound reports whether err means the entity does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, pages.ErrPageNotFound) ||
		errors.Is(err, menus.ErrMenuNotFound) ||
		errors.Is(err, ErrSectionNotFound) ||
		errors.Is(err, ErrItemNotFound)
}

// IsConflict reports whether err is a stale version rejection.
func IsConflict(err error) bool {
	return errors.Is(err, pages.ErrVersionConflict) ||
		errors.Is(err, menus.ErrVersionConflict)
}

// IsValidation reports whether err is a rejected value.
func IsValidation(err error) bool {
	var ozzo validation.Errors
	return errors.Is(err, sections.ErrInvalidField) ||
		errors.Is(err, sections.ErrUnknownField) ||
		errors.Is(err, sections.ErrUnknownSectionType) ||
		errors.Is(err, pages.ErrInvalidSection) ||
		errors.Is(err, pages.ErrSlugExists) ||
		errors.Is(err, pages.ErrSlugImmutable) ||
		errors.Is(err, menus.ErrInvalidItem) ||
		errors.Is(err, menus.ErrMenuDepthExceeded) ||
		errors.As(err, &ozzo) ||
		goerrors.IsCategory(err, goerrors.CategoryValidation)
}

func loadFailure(err error) (NoticeKind, error) {
	if IsNotFound(err) {
		return NoticeNotFound, err
	}
	return NoticeLoadFailed, fmt.Errorf("%w: %w", ErrLoadFailed, err)
}

func saveFailure(err error) (NoticeKind, error) {
	switch {
	case IsConflict(err):
		return NoticeConflict, err
	case IsValidation(err):
		return NoticeValidation, err
	case IsNotFound(err):
		return NoticeNotFound, err
	}
	return NoticeSaveFailed, fmt.Errorf("%w: %w", ErrSaveFailed, err)
}
