// Package storage contains the object-store abstraction the submission
// pipeline keeps uploads in (S3-compatible; MinIO in deployment).
// Implementations stream only; uploads never touch local disk.
package storage

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// uploadPrefix namespaces registration uploads inside the bucket.
const uploadPrefix = "registrations"

// PutObjectOptions define optional parameters for storing an upload.
// Size should be the exact byte count when known; -1 lets the backend
// buffer/chunk. ContentType should be the server-sniffed type, not the
// browser-reported one.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored upload.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Store is the file-storage collaborator. Keys are caller-generated and must
// be collision-free (see UploadKey), so concurrent submissions never
// overwrite each other's files.
type Store interface {
	// Put stores an upload under the given key from the provided reader.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves a stored upload as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// PresignGet returns a time-limited URL for downloading the upload
	// without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// UploadKey generates a collision-resistant storage key for one upload,
// keeping only the extension of the original filename.
func UploadKey(originalFilename string) string {
	ext := filepath.Ext(originalFilename)
	return filepath.ToSlash(filepath.Join(uploadPrefix, uuid.New().String()+ext))
}
