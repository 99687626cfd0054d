package sections

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownSectionType = errors.New("sections: unknown section type")
	ErrDuplicateType      = errors.New("sections: duplicate section type")
	ErrUnknownField       = errors.New("sections: unknown field")
	ErrInvalidField       = errors.New("sections: invalid field value")
)

// FieldError reports a rejected field write.
type FieldError struct {
	Type   string
	Field  string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("sections: %s.%s", e.Type, e.Field)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *FieldError) Unwrap() error {
	if e == nil || e.Err == nil {
		return ErrInvalidField
	}
	return e.Err
}

func invalid(sectionType, field, reason string) error {
	return &FieldError{Type: sectionType, Field: field, Reason: reason, Err: ErrInvalidField}
}
