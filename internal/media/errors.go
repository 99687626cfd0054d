package media

import "errors"

var (
	ErrNotImage      = errors.New("media: only image uploads are allowed")
	ErrTooLarge      = errors.New("media: upload exceeds size limit")
	ErrEmptyUpload   = errors.New("media: upload is empty")
	ErrAssetNotFound = errors.New("media: asset not found")
	ErrInvalidName   = errors.New("media: invalid asset name")
	ErrStoreRequired = errors.New("media: store is required")
)
