package documents

import (
	"context"
	"io"
)

type StoreAPI interface {
	// Upsert stores the document row for (employee, type) and returns the
	// storage key of the row it replaced, if any.
	Upsert(ctx context.Context, doc Document) (Document, string, error)
	List(ctx context.Context, employeeID string) ([]Document, error)
	Get(ctx context.Context, employeeID, documentType string) (Document, error)
	StorageKeys(ctx context.Context, employeeIDs []string) ([]string, error)
}

// Blobs holds file contents by key.
type Blobs interface {
	Put(ctx context.Context, key string, r io.Reader) (int64, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Size(ctx context.Context, key string) (int64, error)
	Delete(ctx context.Context, key string) error
}
