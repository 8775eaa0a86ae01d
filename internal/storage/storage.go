// Package storage abstracts where uploaded media ends up. Production uses S3;
// profile images collected during registration and local development use the
// disk store.
package storage

import (
	"io"
)

// BlobStore persists an uploaded file under key and returns its public URL.
type BlobStore interface {
	Put(key string, r io.Reader, contentType string) (string, error)
	Delete(key string) error
}
