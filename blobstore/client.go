package blobstore

import (
	"context"
	"io"
	"time"
)

// Client is the uniform contract over every storage backend. A Client is
// bound to one directory key for its lifetime and is safe for concurrent
// use.
type Client interface {
	// Local reports whether blobs are served from the local filesystem.
	// When true, callers use Blob.LocalPath instead of the URL methods.
	Local() bool

	// Blob returns a handle to the object at key, or nil when no object
	// exists. A missing object is never an error.
	Blob(ctx context.Context, key string) (Blob, error)

	// Exists reports whether an object exists at key.
	Exists(ctx context.Context, key string) (bool, error)

	// Upload writes the content of r to key, replacing any existing object.
	Upload(ctx context.Context, key string, r io.Reader) error

	// Download opens the object at key. The caller closes the reader.
	// A missing object is a NOT_FOUND error.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object at key. Deleting a missing key succeeds.
	Delete(ctx context.Context, key string) error
}

// Blob is a handle to one stored object. Handles are short-lived and carry
// no state beyond the key, the object attributes seen at lookup and a
// reference to the owning driver.
type Blob interface {
	// Key returns the object key within the directory.
	Key() string

	// Attributes returns the metadata observed when the handle was created.
	Attributes() Attributes

	// InternalDownloadURL returns a URL reachable from the internal network.
	// It never routes through a CDN. Panics on local blobs.
	InternalDownloadURL(ctx context.Context) (string, error)

	// PublicDownloadURL returns a URL reachable from outside, signed or
	// CDN-routed as configured. Panics on local blobs.
	PublicDownloadURL(ctx context.Context) (string, error)

	// LocalPath returns the filesystem path. Panics on remote blobs.
	LocalPath() string
}

// Attributes is the object metadata reported by the backend.
type Attributes struct {
	ETag         string
	Size         int64
	LastModified time.Time
}

// Describer is implemented by clients that can name their backend and
// directory key. Wrappers forward to the wrapped client.
type Describer interface {
	Backend() string
	DirectoryKey() string
}

// NotApplicable panics with a message naming the misused operation. Drivers
// call it from Blob methods that do not apply to their backend.
func NotApplicable(backend, op string) {
	panic("blobstore: " + op + " is not applicable to " + backend + " blobs")
}
