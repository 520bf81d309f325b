package blobstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/leg100/surl/v2"

	"github.com/kbukum/artifactstore/errors"
)

// CDN rewrites backend public URLs onto a content-delivery endpoint.
type CDN struct {
	endpoint *url.URL
	signer   *surl.Signer
	ttl      time.Duration
	now      func() time.Time
}

// NewCDN builds a CDN from a resolved CDNConfig.
func NewCDN(cfg CDNConfig) (*CDN, error) {
	endpoint, err := url.Parse(cfg.EndpointURI)
	if err != nil || endpoint.Host == "" {
		return nil, errors.Configurationf("cdn endpoint_uri %q must be an absolute URL", cfg.EndpointURI)
	}
	c := &CDN{endpoint: endpoint, ttl: cfg.TTL, now: time.Now}
	if c.ttl <= 0 {
		c.ttl = DefaultCDNTTL
	}
	if cfg.SigningKey != "" {
		c.signer = surl.New([]byte(cfg.SigningKey))
	}
	return c, nil
}

// Host returns the CDN host.
func (c *CDN) Host() string { return c.endpoint.Host }

// Rewrite maps backendURL for key onto the CDN endpoint. The path becomes
// the endpoint path joined with key, and the backend query string, which
// carries the backend signature, is forwarded unchanged. With a signing
// key the result is also signed for the configured TTL.
func (c *CDN) Rewrite(key, backendURL string) (string, error) {
	backend, err := url.Parse(backendURL)
	if err != nil {
		return "", fmt.Errorf("parse backend url: %w", err)
	}

	u := *c.endpoint
	u.Path = strings.TrimRight(c.endpoint.Path, "/") + "/" + strings.TrimLeft(key, "/")
	u.RawPath = ""
	u.RawQuery = backend.RawQuery
	u.Fragment = ""

	if c.signer == nil {
		return u.String(), nil
	}
	return c.signer.Sign(u.String(), c.now().Add(c.ttl))
}

// Verify checks a URL signed by Rewrite.
func (c *CDN) Verify(signed string) error {
	if c.signer == nil {
		return fmt.Errorf("cdn has no signing key")
	}
	return c.signer.Verify(signed)
}

// WithCDN decorates client so that PublicDownloadURL routes through cdn.
// Internal URLs and local paths are untouched.
func WithCDN(client Client, cdn *CDN) Client {
	return &cdnClient{Client: client, cdn: cdn}
}

type cdnClient struct {
	Client
	cdn *CDN
}

func (c *cdnClient) Blob(ctx context.Context, key string) (Blob, error) {
	b, err := c.Client.Blob(ctx, key)
	if err != nil || b == nil {
		return nil, err
	}
	return &cdnBlob{Blob: b, cdn: c.cdn}, nil
}

func (c *cdnClient) Backend() string      { return backendOf(c.Client) + "+cdn" }
func (c *cdnClient) DirectoryKey() string { return directoryKeyOf(c.Client) }

type cdnBlob struct {
	Blob
	cdn *CDN
}

func (b *cdnBlob) PublicDownloadURL(ctx context.Context) (string, error) {
	raw, err := b.Blob.PublicDownloadURL(ctx)
	if err != nil {
		return "", err
	}
	return b.cdn.Rewrite(b.Key(), raw)
}

func backendOf(c Client) string {
	if d, ok := c.(Describer); ok {
		return d.Backend()
	}
	return "unknown"
}

func directoryKeyOf(c Client) string {
	if d, ok := c.(Describer); ok {
		return d.DirectoryKey()
	}
	return ""
}
