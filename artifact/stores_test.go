package artifact

import (
	"context"
	"strings"
	"testing"

	"github.com/kbukum/artifactstore/blobstore"
	"github.com/kbukum/artifactstore/component"
	"github.com/kbukum/artifactstore/errors"
)

func TestNewStores_Local(t *testing.T) {
	stores, err := NewStores(localConfig(t.TempDir()), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, kind := range Kinds {
		c := stores.Store(kind)
		if c == nil {
			t.Fatalf("no client for %s", kind)
		}
		if !c.Local() {
			t.Errorf("%s: expected local client", kind)
		}
		d, ok := c.(blobstore.Describer)
		if !ok {
			t.Fatalf("%s: client does not describe itself", kind)
		}
		if d.DirectoryKey() != localConfig("").Store(kind).DirectoryKey {
			t.Errorf("%s: directory key = %q", kind, d.DirectoryKey())
		}
	}
	if stores.Store("unknown") != nil {
		t.Error("expected nil client for unknown kind")
	}
}

func TestNewStores_ConfigurationErrorNamesStore(t *testing.T) {
	cfg := localConfig(t.TempDir())
	cfg.Droplets.StorageConfig = blobstore.StorageConfig{BackendType: blobstore.BackendRemote}

	_, err := NewStores(cfg, nil)
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeConfiguration {
		t.Fatalf("expected CONFIGURATION_ERROR, got %v", err)
	}
	if appErr.Details["store"] != string(KindDroplets) {
		t.Errorf("details = %v", appErr.Details)
	}
}

func TestComponent_Lifecycle(t *testing.T) {
	c := NewComponent(localConfig(t.TempDir()), nil)
	ctx := context.Background()

	if h := c.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("health before start = %s", h.Status)
	}
	if c.Stores() != nil {
		t.Error("stores available before start")
	}

	if err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("health = %s (%s)", h.Status, h.Message)
	}
	if c.Stores() == nil {
		t.Fatal("stores not provisioned")
	}

	desc := c.Describe()
	for _, want := range []string{"packages=cc-packages:local", "buildpacks=cc-buildpacks:local"} {
		if !strings.Contains(desc.Details, want) {
			t.Errorf("details %q missing %q", desc.Details, want)
		}
	}

	if err := c.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if c.Stores() != nil {
		t.Error("stores kept after stop")
	}
}

func TestComponent_StartFailsOnBadConfig(t *testing.T) {
	cfg := localConfig(t.TempDir())
	cfg.BuildpackCache.DirectoryKey = cfg.Packages.DirectoryKey

	c := NewComponent(cfg, nil)
	if err := c.Start(context.Background()); !errors.IsConfigurationError(err) {
		t.Errorf("expected CONFIGURATION_ERROR, got %v", err)
	}
}
