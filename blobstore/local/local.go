// Package local implements the blobstore driver on the local filesystem.
// It backs development and test deployments, where the remote object store
// is configured with provider "local".
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kbukum/artifactstore/blobstore"
	apperrors "github.com/kbukum/artifactstore/errors"
	"github.com/kbukum/artifactstore/logger"
)

// BackendName identifies this driver in errors, logs and metrics.
const BackendName = "local"

// Client implements blobstore.Client on the directory root/{directoryKey}.
type Client struct {
	root      string
	directory string
}

// New creates the directory root/{directoryKey} if needed and returns a
// client rooted there.
func New(root, directoryKey string, log *logger.Logger) (*Client, error) {
	abs, err := filepath.Abs(filepath.Join(root, directoryKey))
	if err != nil {
		return nil, apperrors.Configurationf("local: resolve root: %v", err).WithCause(err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, apperrors.Configurationf("local: create root %s: %v", abs, err).WithCause(err)
	}
	if log != nil {
		log.Debug("local client created", logger.Fields(logger.FieldDirectoryKey, directoryKey, "root", abs))
	}
	return &Client{root: abs, directory: directoryKey}, nil
}

func (c *Client) Local() bool          { return true }
func (c *Client) Backend() string      { return BackendName }
func (c *Client) DirectoryKey() string { return c.directory }

// Root returns the absolute directory blobs are stored under.
func (c *Client) Root() string { return c.root }

// path maps key into the root, rejecting keys that would escape it.
func (c *Client) path(key string) (string, error) {
	p := filepath.Join(c.root, filepath.FromSlash(key))
	if p == c.root || !strings.HasPrefix(p, c.root+string(filepath.Separator)) {
		return "", apperrors.InvalidInput("key", fmt.Sprintf("%q is not a valid blob key", key))
	}
	return p, nil
}

// Blob stats root/key. A key that cannot name a file under the root
// is reported absent, like any other missing blob.
func (c *Client) Blob(_ context.Context, key string) (blobstore.Blob, error) {
	p, err := c.path(key)
	if err != nil {
		return nil, nil
	}
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperrors.StorageUnavailable(BackendName, err)
	}
	if info.IsDir() {
		return nil, nil
	}
	return &Blob{
		key:  key,
		path: p,
		attrs: blobstore.Attributes{
			ETag:         fmt.Sprintf("%x-%x", info.ModTime().UnixNano(), info.Size()),
			Size:         info.Size(),
			LastModified: info.ModTime(),
		},
	}, nil
}

func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	b, err := c.Blob(ctx, key)
	return b != nil, err
}

// Upload writes to a temporary file and renames it over root/key, so
// readers never observe a partial blob.
func (c *Client) Upload(_ context.Context, key string, r io.Reader) error {
	p, err := c.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return apperrors.StorageUnavailable(BackendName, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return apperrors.StorageUnavailable(BackendName, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return apperrors.StorageUnavailable(BackendName, err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.StorageUnavailable(BackendName, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return apperrors.StorageUnavailable(BackendName, err)
	}
	return nil
}

func (c *Client) Download(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := c.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NotFound("blob", key)
		}
		return nil, apperrors.StorageUnavailable(BackendName, err)
	}
	return f, nil
}

func (c *Client) Delete(_ context.Context, key string) error {
	p, err := c.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return apperrors.StorageUnavailable(BackendName, err)
	}
	return nil
}

// Blob is a file that existed when it was looked up.
type Blob struct {
	key   string
	path  string
	attrs blobstore.Attributes
}

func (b *Blob) Key() string                      { return b.key }
func (b *Blob) Attributes() blobstore.Attributes { return b.attrs }
func (b *Blob) LocalPath() string                { return b.path }

func (b *Blob) InternalDownloadURL(context.Context) (string, error) {
	blobstore.NotApplicable(BackendName, "InternalDownloadURL")
	return "", nil
}

func (b *Blob) PublicDownloadURL(context.Context) (string, error) {
	blobstore.NotApplicable(BackendName, "PublicDownloadURL")
	return "", nil
}

var (
	_ blobstore.Client    = (*Client)(nil)
	_ blobstore.Describer = (*Client)(nil)
)
