package blobstore

import (
	"context"
	"io"

	"github.com/kbukum/artifactstore/errors"
)

// WithErrorHandling guarantees that every failure leaving client is an
// AppError. Errors that do not already carry a storage, lookup or input
// code are wrapped as STORAGE_UNAVAILABLE. Nothing is retried.
func WithErrorHandling(client Client) Client {
	return &errorHandlingClient{Client: client, backend: backendOf(client)}
}

type errorHandlingClient struct {
	Client
	backend string
}

func (c *errorHandlingClient) translate(err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := errors.AsAppError(err); ok {
		switch appErr.Code {
		case errors.ErrCodeStorageUnavailable, errors.ErrCodeNotFound, errors.ErrCodeConfiguration, errors.ErrCodeInvalidInput:
			return appErr
		}
	}
	return errors.StorageUnavailable(c.backend, err)
}

func (c *errorHandlingClient) Blob(ctx context.Context, key string) (Blob, error) {
	b, err := c.Client.Blob(ctx, key)
	if err != nil {
		return nil, c.translate(err)
	}
	if b == nil {
		return nil, nil
	}
	return &errorHandlingBlob{Blob: b, client: c}, nil
}

func (c *errorHandlingClient) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := c.Client.Exists(ctx, key)
	return ok, c.translate(err)
}

func (c *errorHandlingClient) Upload(ctx context.Context, key string, r io.Reader) error {
	return c.translate(c.Client.Upload(ctx, key, r))
}

func (c *errorHandlingClient) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := c.Client.Download(ctx, key)
	if err != nil {
		return nil, c.translate(err)
	}
	return rc, nil
}

func (c *errorHandlingClient) Delete(ctx context.Context, key string) error {
	return c.translate(c.Client.Delete(ctx, key))
}

func (c *errorHandlingClient) Backend() string      { return c.backend }
func (c *errorHandlingClient) DirectoryKey() string { return directoryKeyOf(c.Client) }

type errorHandlingBlob struct {
	Blob
	client *errorHandlingClient
}

func (b *errorHandlingBlob) InternalDownloadURL(ctx context.Context) (string, error) {
	u, err := b.Blob.InternalDownloadURL(ctx)
	if err != nil {
		return "", b.client.translate(err)
	}
	return u, nil
}

func (b *errorHandlingBlob) PublicDownloadURL(ctx context.Context) (string, error) {
	u, err := b.Blob.PublicDownloadURL(ctx)
	if err != nil {
		return "", b.client.translate(err)
	}
	return u, nil
}
