package logging

import (
	"context"
	"maps"
	"strings"
)

type contextKey struct{}

const (
	fieldRequestID = "request_id"
	fieldSubject   = "subject"
)

// Request identifies the HTTP request and session behind a log entry.
type Request struct {
	ID      string
	Subject string
}

// WithRequest stores the non-blank request identifiers on ctx so loggers
// bound with WithContext report them.
func WithRequest(ctx context.Context, req Request) context.Context {
	fields := map[string]any{}
	if id := strings.TrimSpace(req.ID); id != "" {
		fields[fieldRequestID] = id
	}
	if subject := strings.TrimSpace(req.Subject); subject != "" {
		fields[fieldSubject] = subject
	}
	return ContextWithFields(ctx, fields)
}

// ContextWithFields merges fields into the ones already carried by ctx.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, contextKey{}, merged)
}

// ContextFields returns a copy of the fields stored on ctx, or nil.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(contextKey{}).(map[string]any)
	if len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}
