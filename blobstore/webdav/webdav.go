// Package webdav implements the blobstore driver for a WebDAV blobstore.
//
// The blobstore exposes two trees: /admin/{dir}/{key} for authenticated
// reads and writes, and /read/{dir}/{key} for downloads.
package webdav

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/leg100/surl/v2"

	"github.com/kbukum/artifactstore/blobstore"
	apperrors "github.com/kbukum/artifactstore/errors"
	"github.com/kbukum/artifactstore/httpclient"
	"github.com/kbukum/artifactstore/logger"
)

// BackendName identifies this driver in errors, logs and metrics.
const BackendName = "webdav"

// Client implements blobstore.Client against one WebDAV directory.
type Client struct {
	http      *httpclient.Client
	private   string
	public    string
	directory string
	signer    *surl.Signer
	expiry    time.Duration
	now       func() time.Time
}

// New creates a client for directory from resolved WebDAV connection params.
func New(conn *blobstore.WebDAVConnection, directory string, log *logger.Logger) (*Client, error) {
	cfg := httpclient.Config{
		BaseURL: conn.PrivateEndpoint,
		Timeout: conn.Timeout,
	}
	if conn.Username != "" {
		cfg.Auth = httpclient.BasicAuth(conn.Username, conn.Password)
	}
	if conn.CACertPath != "" || conn.SkipVerify {
		cfg.TLS = &httpclient.TLSConfig{CAFile: conn.CACertPath, SkipVerify: conn.SkipVerify}
	}

	hc, err := httpclient.New(cfg)
	if err != nil {
		return nil, apperrors.Configurationf("webdav: %v", err).WithCause(err)
	}

	c := &Client{
		http:      hc,
		private:   strings.TrimRight(conn.PrivateEndpoint, "/"),
		public:    strings.TrimRight(conn.PublicEndpoint, "/"),
		directory: directory,
		expiry:    conn.URLExpiry,
		now:       time.Now,
	}
	if conn.Secret != "" {
		c.signer = surl.New([]byte(conn.Secret))
	}

	if log != nil {
		log.Debug("webdav client created", logger.Fields(
			logger.FieldDirectoryKey, directory,
			"endpoint", c.private,
			"signed", c.signer != nil,
		))
	}
	return c, nil
}

func (c *Client) Local() bool          { return false }
func (c *Client) Backend() string      { return BackendName }
func (c *Client) DirectoryKey() string { return c.directory }

func (c *Client) adminPath(key string) string {
	return "/admin/" + escapePath(c.directory) + "/" + escapePath(key)
}

func (c *Client) readPath(key string) string {
	return "/read/" + escapePath(c.directory) + "/" + escapePath(key)
}

// Blob issues a HEAD against the admin tree.
func (c *Client) Blob(ctx context.Context, key string) (blobstore.Blob, error) {
	resp, err := c.http.Do(ctx, httpclient.Request{Method: http.MethodHead, Path: c.adminPath(key)})
	if err != nil {
		if httpclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, unavailable(err)
	}

	attrs := blobstore.Attributes{ETag: resp.Headers.Get("ETag")}
	if n, err := strconv.ParseInt(resp.Headers.Get("Content-Length"), 10, 64); err == nil {
		attrs.Size = n
	}
	if t, err := http.ParseTime(resp.Headers.Get("Last-Modified")); err == nil {
		attrs.LastModified = t
	}
	return &Blob{client: c, key: key, attrs: attrs}, nil
}

func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	b, err := c.Blob(ctx, key)
	return b != nil, err
}

func (c *Client) Upload(ctx context.Context, key string, r io.Reader) error {
	_, err := c.http.Do(ctx, httpclient.Request{
		Method:  http.MethodPut,
		Path:    c.adminPath(key),
		Headers: map[string]string{"Content-Type": "application/octet-stream"},
		Body:    r,
	})
	if err != nil {
		return unavailable(err)
	}
	return nil
}

func (c *Client) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := c.http.DoStream(ctx, httpclient.Request{Method: http.MethodGet, Path: c.adminPath(key)})
	if err != nil {
		if httpclient.IsNotFound(err) {
			return nil, apperrors.NotFound("blob", key).WithCause(err)
		}
		return nil, unavailable(err)
	}
	return resp.Body, nil
}

// Delete removes key. A 404 counts as success.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.http.Do(ctx, httpclient.Request{Method: http.MethodDelete, Path: c.adminPath(key)})
	if err != nil && !httpclient.IsNotFound(err) {
		return unavailable(err)
	}
	return nil
}

// unavailable translates a failed call. Timeouts are flagged in the
// details so a slow blobstore reads differently from a refused one.
func unavailable(err error) error {
	appErr := apperrors.StorageUnavailable(BackendName, err)
	if httpclient.IsTimeout(err) {
		appErr.WithDetail("timeout", true)
	}
	return appErr
}

// Blob is an object that existed when it was looked up.
type Blob struct {
	client *Client
	key    string
	attrs  blobstore.Attributes
}

func (b *Blob) Key() string                      { return b.key }
func (b *Blob) Attributes() blobstore.Attributes { return b.attrs }

// InternalDownloadURL returns the private read URL. It relies on the
// internal network being trusted and is never signed.
func (b *Blob) InternalDownloadURL(context.Context) (string, error) {
	return b.client.private + b.client.readPath(b.key), nil
}

// PublicDownloadURL returns the public read URL, signed with an expiry
// when the connection has a secret.
func (b *Blob) PublicDownloadURL(context.Context) (string, error) {
	u := b.client.public + b.client.readPath(b.key)
	if b.client.signer == nil {
		return u, nil
	}
	signed, err := b.client.signer.Sign(u, b.client.now().Add(b.client.expiry))
	if err != nil {
		return "", unavailable(err)
	}
	return signed, nil
}

func (b *Blob) LocalPath() string {
	blobstore.NotApplicable(BackendName, "LocalPath")
	return ""
}

// escapePath escapes each segment of p, keeping the separators.
func escapePath(p string) string {
	segments := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

var (
	_ blobstore.Client    = (*Client)(nil)
	_ blobstore.Describer = (*Client)(nil)
)
