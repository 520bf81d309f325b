// Package provider builds blobstore clients from configuration. It is the
// only place where drivers are selected and the only place configuration
// errors surface.
package provider

import (
	"context"
	"fmt"

	"github.com/kbukum/artifactstore/blobstore"
	"github.com/kbukum/artifactstore/blobstore/local"
	"github.com/kbukum/artifactstore/blobstore/s3"
	"github.com/kbukum/artifactstore/blobstore/webdav"
	"github.com/kbukum/artifactstore/errors"
	"github.com/kbukum/artifactstore/logger"
	"github.com/kbukum/artifactstore/observability"
)

// Options tune the wrappers applied around the driver.
type Options struct {
	// Metrics records per-operation metrics. Nil disables metrics.
	Metrics *observability.BlobMetrics
}

// Option configures Provide.
type Option func(*Options)

// WithMetrics records blob metrics on m.
func WithMetrics(m *observability.BlobMetrics) Option {
	return func(o *Options) { o.Metrics = m }
}

// Provide resolves cfg and returns a client bound to directoryKey.
//
// The driver is chosen from the resolved backend: the remote object store
// maps to the S3 driver, or to the local driver when its provider is
// "local", and webdav maps to the WebDAV driver. A configured CDN wraps
// remote clients. Every client is then wrapped with error translation and
// instrumentation.
func Provide(cfg blobstore.StorageConfig, directoryKey string, log *logger.Logger, opts ...Option) (blobstore.Client, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if log == nil {
		log = logger.NewNop()
	}
	if directoryKey == "" {
		return nil, errors.Configuration("directory_key is required")
	}

	resolved, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}

	l := log.WithComponent("blobstore").WithFields(logger.Fields(logger.FieldDirectoryKey, directoryKey))

	client, err := newDriver(resolved, directoryKey, l)
	if err != nil {
		return nil, err
	}

	if resolved.CDN != nil {
		cdn, err := blobstore.NewCDN(*resolved.CDN)
		if err != nil {
			return nil, err
		}
		client = blobstore.WithCDN(client, cdn)
		l.Debug("public urls routed through cdn", logger.Fields("cdn_host", cdn.Host()))
	}

	client = blobstore.WithInstrumentation(blobstore.WithErrorHandling(client), o.Metrics, l)

	l.Info("blobstore client provisioned", logger.Fields(
		logger.FieldBackend, client.(blobstore.Describer).Backend(),
		"local", client.Local(),
	))
	return client, nil
}

func newDriver(resolved blobstore.ResolvedConfig, directoryKey string, log *logger.Logger) (blobstore.Client, error) {
	switch resolved.Backend {
	case blobstore.BackendRemote:
		if resolved.Remote.IsLocal() {
			return local.New(resolved.Remote.LocalRoot, directoryKey, log)
		}
		return s3.New(context.Background(), resolved.Remote, directoryKey, log)
	case blobstore.BackendWebDAV:
		return webdav.New(resolved.WebDAV, directoryKey, log)
	default:
		// Resolve rejects unknown backends.
		panic(fmt.Sprintf("provider: unhandled backend %q", resolved.Backend))
	}
}
