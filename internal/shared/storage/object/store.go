package object

import (
	"context"
	"io"
)

// ObjectStore persists uploaded media (images, audio, video) outside the
// database. Save sniffs and returns the stored object's MIME type; the
// storage key it returns is what submissions carry in their file reference.
type ObjectStore interface {
	Save(ctx context.Context, userID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}
