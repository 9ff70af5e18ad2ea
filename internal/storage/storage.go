package storage

import (
	"context"
	"io"
)

// MediaStore is the object store profile images are uploaded to. Upload
// overwrites any existing object under the same key and returns the public
// URL of the stored object.
type MediaStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}
