package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Operation status values recorded on blob metrics.
const (
	StatusOK       = "ok"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

// Meter returns the module meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// BlobMetrics holds the instruments recorded per blob operation.
type BlobMetrics struct {
	operations metric.Int64Counter
	duration   metric.Float64Histogram
	errors     metric.Int64Counter
}

// NewBlobMetrics creates the blob instruments on meter.
func NewBlobMetrics(meter metric.Meter) (*BlobMetrics, error) {
	operations, err := meter.Int64Counter("blobstore.operations",
		metric.WithDescription("Blob operations by backend, operation and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating blobstore.operations counter: %w", err)
	}

	duration, err := meter.Float64Histogram("blobstore.operation.duration",
		metric.WithDescription("Duration of blob operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating blobstore.operation.duration histogram: %w", err)
	}

	errs, err := meter.Int64Counter("blobstore.errors",
		metric.WithDescription("Failed blob operations by backend and error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating blobstore.errors counter: %w", err)
	}

	return &BlobMetrics{operations: operations, duration: duration, errors: errs}, nil
}

// RecordOperation records one completed blob operation.
func (m *BlobMetrics) RecordOperation(ctx context.Context, backend, directoryKey, operation, status string, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.String("directory_key", directoryKey),
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
	m.operations.Add(ctx, 1, attrs)
	m.duration.Record(ctx, d.Seconds(), attrs)
}

// RecordError counts a failed operation by error code.
func (m *BlobMetrics) RecordError(ctx context.Context, backend, operation, code string) {
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.String("operation", operation),
		attribute.String("code", code),
	))
}
