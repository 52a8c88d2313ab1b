package ports

import "context"

// StoredObject locates an uploaded file.
type StoredObject struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// UploadStore is opaque byte storage for uploaded files. The pipeline
// re-fetches bytes by URL before parsing.
type UploadStore interface {
	Put(ctx context.Context, namespace, filename string, data []byte) (*StoredObject, error)
	Fetch(ctx context.Context, url string) ([]byte, error)
}
