// Package testutil provides an in-memory blobstore.Client for tests of
// code that consumes artifact stores.
package testutil

import (
	"bytes"
	"context"
	"crypto/md5" //nolint:gosec // etag only
	"encoding/hex"
	"io"
	"path"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kbukum/artifactstore/blobstore"
	"github.com/kbukum/artifactstore/errors"
)

// MemoryClient is a concurrency-safe in-memory blobstore.Client. It counts
// Blob lookups so tests can assert that no lookup happened.
type MemoryClient struct {
	dir         string
	local       bool
	internalURL string
	publicURL   string
	localRoot   string

	mu      sync.RWMutex
	objects map[string]object
	err     error

	lookups atomic.Int64
}

type object struct {
	data     []byte
	modified time.Time
}

// Option configures a MemoryClient.
type Option func(*MemoryClient)

// Local makes the client report Local() == true with paths under root.
func Local(root string) Option {
	return func(c *MemoryClient) {
		c.local = true
		c.localRoot = root
	}
}

// WithURLs sets the base URLs used for internal and public download URLs.
func WithURLs(internal, public string) Option {
	return func(c *MemoryClient) {
		c.internalURL = internal
		c.publicURL = public
	}
}

// NewMemoryClient creates an empty client bound to directoryKey.
func NewMemoryClient(directoryKey string, opts ...Option) *MemoryClient {
	c := &MemoryClient{
		dir:         directoryKey,
		internalURL: "http://blobstore.internal",
		publicURL:   "https://blobstore.example.com",
		objects:     make(map[string]object),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Put stores data at key.
func (c *MemoryClient) Put(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.objects[key] = object{data: append([]byte(nil), data...), modified: time.Now()}
}

// FailWith makes every subsequent operation return err. Pass nil to reset.
func (c *MemoryClient) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// Lookups returns the number of Blob calls made.
func (c *MemoryClient) Lookups() int64 { return c.lookups.Load() }

func (c *MemoryClient) Local() bool          { return c.local }
func (c *MemoryClient) Backend() string      { return "memory" }
func (c *MemoryClient) DirectoryKey() string { return c.dir }

func (c *MemoryClient) Blob(_ context.Context, key string) (blobstore.Blob, error) {
	c.lookups.Add(1)
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return nil, c.err
	}
	obj, ok := c.objects[key]
	if !ok {
		return nil, nil
	}
	sum := md5.Sum(obj.data) //nolint:gosec // etag only
	return &memoryBlob{
		client: c,
		key:    key,
		attrs: blobstore.Attributes{
			ETag:         hex.EncodeToString(sum[:]),
			Size:         int64(len(obj.data)),
			LastModified: obj.modified,
		},
	}, nil
}

func (c *MemoryClient) Exists(_ context.Context, key string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return false, c.err
	}
	_, ok := c.objects[key]
	return ok, nil
}

func (c *MemoryClient) Upload(_ context.Context, key string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.objects[key] = object{data: data, modified: time.Now()}
	return nil
}

func (c *MemoryClient) Download(_ context.Context, key string) (io.ReadCloser, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return nil, c.err
	}
	obj, ok := c.objects[key]
	if !ok {
		return nil, errors.NotFound("blob", key)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (c *MemoryClient) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	delete(c.objects, key)
	return nil
}

type memoryBlob struct {
	client *MemoryClient
	key    string
	attrs  blobstore.Attributes
}

func (b *memoryBlob) Key() string                      { return b.key }
func (b *memoryBlob) Attributes() blobstore.Attributes { return b.attrs }

func (b *memoryBlob) InternalDownloadURL(context.Context) (string, error) {
	if b.client.local {
		blobstore.NotApplicable("local", "InternalDownloadURL")
	}
	return b.client.internalURL + "/" + b.client.dir + "/" + b.key, nil
}

func (b *memoryBlob) PublicDownloadURL(context.Context) (string, error) {
	if b.client.local {
		blobstore.NotApplicable("local", "PublicDownloadURL")
	}
	return b.client.publicURL + "/" + b.client.dir + "/" + b.key + "?signature=test", nil
}

func (b *memoryBlob) LocalPath() string {
	if !b.client.local {
		blobstore.NotApplicable("remote", "LocalPath")
	}
	return path.Join(b.client.localRoot, b.client.dir, b.key)
}

var _ blobstore.Client = (*MemoryClient)(nil)
