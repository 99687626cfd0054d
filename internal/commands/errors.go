package commands

import (
	"context"
	"errors"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to command errors.
const (
	CodeInvalid  = "SITECMS_COMMAND_INVALID"
	CodeCanceled = "SITECMS_COMMAND_CANCELED"
	CodeTimeout  = "SITECMS_COMMAND_TIMEOUT"
	CodeFailed   = "SITECMS_COMMAND_FAILED"
)

// classify wraps err for callers of Execute. Already categorized errors pass
// through untouched; ozzo field errors returned by a handler body keep the
// validation category.
func classify(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	var fields ozzo.Errors
	var field ozzo.Error
	switch {
	case errors.As(err, &fields), errors.As(err, &field):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "command rejected").WithTextCode(CodeInvalid)
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command canceled").WithTextCode(CodeCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command timed out").WithTextCode(CodeTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command failed").WithTextCode(CodeFailed)
	}
}

func invalid(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command message invalid").WithTextCode(CodeInvalid)
}
