package domain

import (
	"context"
	"io"
)

// ImageStore persists an uploaded image blob and returns a stable URL for
// it. The rest of the application treats image fields as opaque strings.
type ImageStore interface {
	Upload(ctx context.Context, r io.Reader, size int64, contentType string) (url string, err error)
}
