// Package observability wires OpenTelemetry tracing and metrics.
//
// Exporters are optional. Without Init the global no-op providers are used
// and StartSpan / BlobMetrics cost close to nothing.
//
//	shutdown, err := observability.Init(ctx, observability.Config{
//	    Endpoint: "localhost:4318",
//	    Insecure: true,
//	}, "blobctl", version.Get().String())
//	defer shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "blobstore.blob")
//	defer span.End()
package observability
