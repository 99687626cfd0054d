package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-sitecms/internal/auth"
	"github.com/goliatone/go-sitecms/internal/media"
	"github.com/goliatone/go-sitecms/internal/menus"
	"github.com/goliatone/go-sitecms/internal/pages"
	"github.com/goliatone/go-sitecms/internal/permissions"
	"github.com/goliatone/go-sitecms/internal/sections"
	"github.com/goliatone/go-sitecms/internal/validation"
)

type errorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message,omitempty"`
	Issues  []validation.ValidationIssue `json:"issues,omitempty"`
	// CurrentVersion is the stored version on a conflict.
	CurrentVersion int `json:"current_version,omitempty"`
}

// errorClass maps a family of sentinel errors to one status and code.
type errorClass struct {
	status  int
	code    string
	matches []error
}

var errorClasses = []errorClass{
	{http.StatusNotFound, "not_found", []error{
		pages.ErrPageNotFound,
		menus.ErrMenuNotFound,
		sections.ErrUnknownSectionType,
		media.ErrAssetNotFound,
	}},
	{http.StatusConflict, "conflict", []error{
		pages.ErrVersionConflict,
		menus.ErrVersionConflict,
	}},
	{http.StatusUnprocessableEntity, "validation_failed", []error{
		validation.ErrSchemaInvalid,
		validation.ErrSchemaValidation,
		sections.ErrInvalidField,
		sections.ErrUnknownField,
		pages.ErrInvalidSection,
		menus.ErrInvalidItem,
		menus.ErrMenuDepthExceeded,
	}},
	{http.StatusBadRequest, "bad_request", []error{
		pages.ErrSlugExists,
		pages.ErrSlugRequired,
		pages.ErrSlugInvalid,
		pages.ErrSlugImmutable,
		pages.ErrSystemPageDelete,
		pages.ErrPageRequired,
		menus.ErrMenuExists,
		menus.ErrMenuNameRequired,
		menus.ErrMenuNameUnknown,
		media.ErrNotImage,
		media.ErrTooLarge,
		media.ErrEmptyUpload,
		media.ErrInvalidName,
	}},
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, body := mapError(err)
	writeJSON(w, status, body)
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: message})
}

func unavailable(w http.ResponseWriter) {
	writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
}

func mapError(err error) (int, errorResponse) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "unauthorized", Message: "Invalid credentials"}
	case errors.Is(err, permissions.ErrPermissionDenied):
		return http.StatusForbidden, errorResponse{Error: "forbidden", Message: err.Error()}
	}

	body := errorResponse{Message: err.Error()}
	if version, ok := conflictVersion(err); ok {
		body.Error, body.CurrentVersion = "conflict", version
		return http.StatusConflict, body
	}
	for _, class := range errorClasses {
		if slices.ContainsFunc(class.matches, func(target error) bool { return errors.Is(err, target) }) {
			body.Error = class.code
			if class.status == http.StatusUnprocessableEntity {
				body.Issues = validation.Issues(err)
			}
			return class.status, body
		}
	}

	var fieldErrs ozzo.Errors
	if errors.As(err, &fieldErrs) {
		body.Error, body.Issues = "bad_request", fieldIssues(fieldErrs)
		return http.StatusBadRequest, body
	}
	if goerrors.IsCategory(err, goerrors.CategoryValidation) {
		body.Error = "bad_request"
		return http.StatusBadRequest, body
	}
	body.Error = "internal_error"
	return http.StatusInternalServerError, body
}

func conflictVersion(err error) (int, bool) {
	var page *pages.VersionConflictError
	if errors.As(err, &page) {
		return page.Actual, true
	}
	var menu *menus.VersionConflictError
	if errors.As(err, &menu) {
		return menu.Actual, true
	}
	return 0, false
}

// fieldIssues turns ozzo field errors into issues sorted by field name.
func fieldIssues(errs ozzo.Errors) []validation.ValidationIssue {
	out := make([]validation.ValidationIssue, 0, len(errs))
	for field, err := range errs {
		out = append(out, validation.ValidationIssue{Location: "/" + field, Message: err.Error()})
	}
	slices.SortFunc(out, func(a, b validation.ValidationIssue) int {
		switch {
		case a.Location < b.Location:
			return -1
		case a.Location > b.Location:
			return 1
		}
		return 0
	})
	return out
}
