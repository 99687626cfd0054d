package interfaces

import (
	"context"
	"io"
)

// MediaStore persists uploaded images and returns the public URL under
// which they are served.
type MediaStore interface {
	Put(ctx context.Context, name string, body io.Reader) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// MediaAsset describes a stored upload.
type MediaAsset struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}
