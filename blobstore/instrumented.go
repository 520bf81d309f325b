package blobstore

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/artifactstore/errors"
	"github.com/kbukum/artifactstore/logger"
	"github.com/kbukum/artifactstore/observability"
)

// Operation names used for spans, metrics and logs.
const (
	OpBlob        = "blob"
	OpExists      = "exists"
	OpUpload      = "upload"
	OpDownload    = "download"
	OpDelete      = "delete"
	OpInternalURL = "internal_download_url"
	OpPublicURL   = "public_download_url"
)

// WithInstrumentation records a span, metrics and a debug log line for
// every operation on client. A nil metrics disables metric recording.
func WithInstrumentation(client Client, metrics *observability.BlobMetrics, log *logger.Logger) Client {
	if log == nil {
		log = logger.NewNop()
	}
	backend, dir := backendOf(client), directoryKeyOf(client)
	return &instrumentedClient{
		Client:  client,
		backend: backend,
		dir:     dir,
		metrics: metrics,
		log: log.WithFields(logger.Fields(
			logger.FieldBackend, backend,
			logger.FieldDirectoryKey, dir,
		)),
	}
}

type instrumentedClient struct {
	Client
	backend string
	dir     string
	metrics *observability.BlobMetrics
	log     *logger.Logger
}

func (c *instrumentedClient) Backend() string      { return c.backend }
func (c *instrumentedClient) DirectoryKey() string { return c.dir }

// observe starts a span for op on key and returns the function that ends it.
func (c *instrumentedClient) observe(ctx context.Context, op, key string) (context.Context, func(status string, err error)) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "blobstore."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(observability.AttrBackend, c.backend),
			attribute.String(observability.AttrDirectoryKey, c.dir),
			attribute.String(observability.AttrBlobKey, key),
			attribute.String(observability.AttrOperation, op),
		),
	)

	return ctx, func(status string, err error) {
		d := time.Since(start)
		if err != nil {
			status = observability.StatusError
			observability.SetSpanError(span, err)
		}
		span.End()

		if c.metrics != nil {
			c.metrics.RecordOperation(ctx, c.backend, c.dir, op, status, d)
			if err != nil {
				c.metrics.RecordError(ctx, c.backend, op, errorCode(err))
			}
		}

		fields := logger.Fields(
			logger.FieldOperation, op,
			logger.FieldBlobKey, key,
			logger.FieldStatus, status,
			logger.FieldDuration, d.Milliseconds(),
		)
		if err != nil {
			c.log.WithError(err).Warn("blob operation failed", fields)
			return
		}
		c.log.Debug("blob operation", fields)
	}
}

func (c *instrumentedClient) Blob(ctx context.Context, key string) (Blob, error) {
	ctx, done := c.observe(ctx, OpBlob, key)
	b, err := c.Client.Blob(ctx, key)
	if err != nil {
		done("", err)
		return nil, err
	}
	if b == nil {
		done(observability.StatusNotFound, nil)
		return nil, nil
	}
	done(observability.StatusOK, nil)
	return &instrumentedBlob{Blob: b, client: c}, nil
}

func (c *instrumentedClient) Exists(ctx context.Context, key string) (bool, error) {
	ctx, done := c.observe(ctx, OpExists, key)
	ok, err := c.Client.Exists(ctx, key)
	status := observability.StatusOK
	if !ok {
		status = observability.StatusNotFound
	}
	done(status, err)
	return ok, err
}

func (c *instrumentedClient) Upload(ctx context.Context, key string, r io.Reader) error {
	ctx, done := c.observe(ctx, OpUpload, key)
	err := c.Client.Upload(ctx, key, r)
	done(observability.StatusOK, err)
	return err
}

func (c *instrumentedClient) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	ctx, done := c.observe(ctx, OpDownload, key)
	rc, err := c.Client.Download(ctx, key)
	if errors.IsNotFound(err) {
		done(observability.StatusNotFound, nil)
		return nil, err
	}
	done(observability.StatusOK, err)
	return rc, err
}

func (c *instrumentedClient) Delete(ctx context.Context, key string) error {
	ctx, done := c.observe(ctx, OpDelete, key)
	err := c.Client.Delete(ctx, key)
	done(observability.StatusOK, err)
	return err
}

type instrumentedBlob struct {
	Blob
	client *instrumentedClient
}

func (b *instrumentedBlob) InternalDownloadURL(ctx context.Context) (u string, err error) {
	ctx, done := b.client.observe(ctx, OpInternalURL, b.Key())
	defer finish(done, &err)
	return b.Blob.InternalDownloadURL(ctx)
}

func (b *instrumentedBlob) PublicDownloadURL(ctx context.Context) (u string, err error) {
	ctx, done := b.client.observe(ctx, OpPublicURL, b.Key())
	defer finish(done, &err)
	return b.Blob.PublicDownloadURL(ctx)
}

// finish ends an observation, including when the wrapped call panics as
// NotApplicable does. The panic is re-raised.
func finish(done func(status string, err error), err *error) {
	if r := recover(); r != nil {
		done(observability.StatusError, fmt.Errorf("panic: %v", r))
		panic(r)
	}
	done(observability.StatusOK, *err)
}

func errorCode(err error) string {
	if appErr, ok := errors.AsAppError(err); ok {
		return string(appErr.Code)
	}
	return "unknown"
}
