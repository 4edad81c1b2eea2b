package gateway

import (
	"context"       // Request-scoped cancellation
	"os"            // File writes
	"path/filepath" // Path handling
)

// ObjectStore persists generated export files and returns a URL the client
// can fetch them from.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) (url string, err error)
}

// DiskStore writes objects under a local directory that the server exposes
// via a static route. An S3-compatible client can replace it behind the same
// interface without touching callers.
type DiskStore struct {
	Dir     string // Root directory for stored objects
	BaseURL string // Public prefix the directory is served under, e.g. http://host/exports
}

// Put writes the object to disk and returns its public URL
func (d *DiskStore) Put(_ context.Context, key, _ string, body []byte) (string, error) {
	path := filepath.Join(d.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", err
	}
	return d.BaseURL + "/" + key, nil
}
