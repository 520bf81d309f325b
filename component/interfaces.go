package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed service.
type Component interface {
	// Name returns the unique name of the component.
	Name() string
	// Start provisions the component. It must be called before use.
	Start(ctx context.Context) error
	// Stop releases the component's resources.
	Stop(ctx context.Context) error
	// Health returns the current health of the component.
	Health(ctx context.Context) Health
}

// Description summarises a component for startup output.
type Description struct {
	// Name is the display name. Falls back to Component.Name when empty.
	Name string
	// Type categorizes the component, e.g. "blobstore".
	Type string
	// Details is a one-line configuration summary.
	Details string
}

// Describable is optionally implemented by components that can summarise
// their configuration.
type Describable interface {
	Describe() Description
}
