// Package s3 implements the remote object-store driver on Amazon S3 and
// S3-compatible services.
package s3

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/kbukum/artifactstore/blobstore"
	apperrors "github.com/kbukum/artifactstore/errors"
	"github.com/kbukum/artifactstore/logger"
)

// BackendName identifies this driver in errors, logs and metrics.
const BackendName = "s3"

// Client implements blobstore.Client on one S3 bucket.
type Client struct {
	api           *awss3.Client
	presign       *awss3.PresignClient
	publicPresign *awss3.PresignClient
	bucket        string
	expiry        time.Duration
}

// New creates a client for bucket from resolved remote connection params.
// No network call is made.
func New(ctx context.Context, conn *blobstore.RemoteConnection, bucket string, log *logger.Logger) (*Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(conn.Region),
		// A BuildableClient keeps transport options such as AWS_CA_BUNDLE
		// applicable on top of the timeout.
		awsconfig.WithHTTPClient(awshttp.NewBuildableClient().WithTimeout(conn.Timeout)),
	}
	if conn.AccessKeyID != "" && conn.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conn.AccessKeyID, conn.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, apperrors.Configurationf("s3: load aws config: %v", err).WithCause(err)
	}

	api := awss3.NewFromConfig(awsCfg, clientOptions(conn, conn.Endpoint))
	c := &Client{
		api:           api,
		presign:       awss3.NewPresignClient(api),
		publicPresign: awss3.NewPresignClient(api),
		bucket:        bucket,
		expiry:        conn.URLExpiry,
	}
	if conn.PublicEndpoint != "" {
		c.publicPresign = awss3.NewPresignClient(awss3.NewFromConfig(awsCfg, clientOptions(conn, conn.PublicEndpoint)))
	}

	if log != nil {
		log.Debug("s3 client created", logger.Fields(
			logger.FieldDirectoryKey, bucket,
			"region", conn.Region,
			"endpoint", conn.Endpoint,
		))
	}
	return c, nil
}

// clientOptions disables SDK retries; retry policy belongs to callers.
func clientOptions(conn *blobstore.RemoteConnection, endpoint string) func(*awss3.Options) {
	return func(o *awss3.Options) {
		o.RetryMaxAttempts = 1
		o.UsePathStyle = conn.ForcePathStyle
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}
}

func (c *Client) Local() bool          { return false }
func (c *Client) Backend() string      { return BackendName }
func (c *Client) DirectoryKey() string { return c.bucket }

// Blob issues a HEAD request for key.
func (c *Client) Blob(ctx context.Context, key string) (blobstore.Blob, error) {
	out, err := c.api.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, apperrors.StorageUnavailable(BackendName, err)
	}

	attrs := blobstore.Attributes{
		ETag: aws.ToString(out.ETag),
		Size: aws.ToInt64(out.ContentLength),
	}
	if out.LastModified != nil {
		attrs.LastModified = *out.LastModified
	}
	return &Blob{client: c, key: key, attrs: attrs}, nil
}

func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	b, err := c.Blob(ctx, key)
	return b != nil, err
}

func (c *Client) Upload(ctx context.Context, key string, r io.Reader) error {
	_, err := c.api.PutObject(ctx, &awss3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	if err != nil {
		return apperrors.StorageUnavailable(BackendName, fmt.Errorf("put %s: %w", key, err))
	}
	return nil
}

func (c *Client) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := c.api.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("blob", key).WithCause(err)
		}
		return nil, apperrors.StorageUnavailable(BackendName, fmt.Errorf("get %s: %w", key, err))
	}
	return out.Body, nil
}

// Delete removes key. S3 reports success for missing keys.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.api.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil && !isNotFound(err) {
		return apperrors.StorageUnavailable(BackendName, fmt.Errorf("delete %s: %w", key, err))
	}
	return nil
}

func (c *Client) presignGet(ctx context.Context, presigner *awss3.PresignClient, key string) (string, error) {
	req, err := presigner.PresignGetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, awss3.WithPresignExpires(c.expiry))
	if err != nil {
		return "", apperrors.StorageUnavailable(BackendName, fmt.Errorf("presign %s: %w", key, err))
	}
	return req.URL, nil
}

// Blob is an object that existed when it was looked up.
type Blob struct {
	client *Client
	key    string
	attrs  blobstore.Attributes
}

func (b *Blob) Key() string                      { return b.key }
func (b *Blob) Attributes() blobstore.Attributes { return b.attrs }

// InternalDownloadURL presigns a GET against the configured endpoint.
func (b *Blob) InternalDownloadURL(ctx context.Context) (string, error) {
	return b.client.presignGet(ctx, b.client.presign, b.key)
}

// PublicDownloadURL presigns a GET against the public endpoint when one is
// configured, otherwise against the regular endpoint.
func (b *Blob) PublicDownloadURL(ctx context.Context) (string, error) {
	return b.client.presignGet(ctx, b.client.publicPresign, b.key)
}

func (b *Blob) LocalPath() string {
	blobstore.NotApplicable(BackendName, "LocalPath")
	return ""
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	if stderrors.As(err, &notFound) {
		return true
	}
	var noSuchKey *types.NoSuchKey
	if stderrors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	var respErr *awshttp.ResponseError
	return stderrors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound
}

var (
	_ blobstore.Client    = (*Client)(nil)
	_ blobstore.Describer = (*Client)(nil)
)
