package artifact

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kbukum/artifactstore/blobstore"
	"github.com/kbukum/artifactstore/blobstore/provider"
	"github.com/kbukum/artifactstore/component"
	"github.com/kbukum/artifactstore/logger"
)

// ComponentName is the registry name of the artifact store component.
const ComponentName = "artifact-blobstores"

// healthProbeKey is looked up on every store by Health. It is never written.
const healthProbeKey = "__health_probe__"

// Component provisions the artifact stores on Start and reports their
// health. It is the single initialization point for Stores.
type Component struct {
	cfg  Config
	log  *logger.Logger
	opts []provider.Option

	mu     sync.RWMutex
	stores *Stores
}

// NewComponent creates an unstarted component.
func NewComponent(cfg Config, log *logger.Logger, opts ...provider.Option) *Component {
	if log == nil {
		log = logger.NewNop()
	}
	return &Component{cfg: cfg, log: log.WithComponent(ComponentName), opts: opts}
}

func (c *Component) Name() string { return ComponentName }

// Start provisions all four stores. Configuration errors are returned
// unchanged.
func (c *Component) Start(_ context.Context) error {
	stores, err := NewStores(c.cfg, c.log, c.opts...)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.stores = stores
	c.mu.Unlock()

	c.log.Info("artifact blobstores started", logger.Fields("backends", c.summary()))
	return nil
}

// Stop drops the stores. Clients hold no resources that need closing.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	c.stores = nil
	c.mu.Unlock()
	return nil
}

// Stores returns the provisioned stores, or nil before Start.
func (c *Component) Stores() *Stores {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stores
}

// Health looks up a probe key on every store. Any backend failure marks
// the component unhealthy.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: ComponentName, Status: component.StatusHealthy}

	stores := c.Stores()
	if stores == nil {
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
		return h
	}

	var failures []string
	for _, kind := range Kinds {
		if _, err := stores.Store(kind).Exists(ctx, healthProbeKey); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", kind, err))
		}
	}
	if len(failures) > 0 {
		h.Status = component.StatusUnhealthy
		h.Message = strings.Join(failures, "; ")
	}
	return h
}

// Describe summarises the backend of every store.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Artifact Blobstores",
		Type:    "blobstore",
		Details: c.summary(),
	}
}

func (c *Component) summary() string {
	stores := c.Stores()
	parts := make([]string, 0, len(Kinds))
	for _, kind := range Kinds {
		sc := c.cfg.Store(kind)
		backend := string(sc.BackendType)
		if stores != nil {
			if d, ok := stores.Store(kind).(blobstore.Describer); ok {
				backend = d.Backend()
			}
		}
		if backend == "" {
			backend = string(blobstore.BackendRemote)
		}
		parts = append(parts, fmt.Sprintf("%s=%s:%s", kind, sc.DirectoryKey, backend))
	}
	return strings.Join(parts, " ")
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)
