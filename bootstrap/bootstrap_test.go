package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/artifactstore/component"
	"github.com/kbukum/artifactstore/config"
	"github.com/kbukum/artifactstore/logger"
)

// testConfig is a minimal config satisfying the Config interface.
type testConfig struct {
	config.ServiceConfig
}

// mockComponent implements component.Component for testing.
type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   component.Health
	started  bool
	stopped  bool
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	m.started = true
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	m.stopped = true
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) component.Health {
	return m.health
}
func (m *mockComponent) Describe() component.Description {
	return component.Description{Type: "mock", Details: "in memory"}
}

func healthy(name string) *mockComponent {
	return &mockComponent{name: name, health: component.Health{Name: name, Status: component.StatusHealthy}}
}

func newTestConfig(name, version string) *testConfig {
	return &testConfig{
		ServiceConfig: config.ServiceConfig{
			Name:        name,
			Version:     version,
			Environment: "development",
		},
	}
}

func newTestApp(t *testing.T, opts ...Option) *App[*testConfig] {
	t.Helper()
	opts = append([]Option{WithLogger(logger.NewNop())}, opts...)
	app, err := NewApp(newTestConfig("test-svc", "1.0.0"), opts...)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

func TestNewApp(t *testing.T) {
	cfg := newTestConfig("test-svc", "1.0.0")
	app, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Name != "test-svc" {
		t.Errorf("expected name 'test-svc', got %q", app.Name)
	}
	if app.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %q", app.Version)
	}
	if app.Components == nil {
		t.Error("expected non-nil components registry")
	}
	if app.Logger == nil {
		t.Error("expected non-nil logger")
	}
	if !app.Cfg.Debug {
		t.Error("expected development defaults to be applied")
	}
}

func TestNewAppValidation(t *testing.T) {
	cfg := &testConfig{}
	if _, err := NewApp(cfg); err == nil {
		t.Error("expected validation error for missing name")
	}
}

func TestRegisterComponentDuplicate(t *testing.T) {
	app := newTestApp(t)
	if err := app.RegisterComponent(healthy("db")); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := app.RegisterComponent(healthy("db")); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestReadyCheck(t *testing.T) {
	tests := []struct {
		name    string
		status  component.HealthStatus
		wantErr bool
	}{
		{"healthy", component.StatusHealthy, false},
		{"degraded", component.StatusDegraded, true},
		{"unhealthy", component.StatusUnhealthy, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t)
			_ = app.RegisterComponent(&mockComponent{
				name:   "store",
				health: component.Health{Name: "store", Status: tc.status, Message: "probe"},
			})
			err := app.ReadyCheck(context.Background())
			if (err != nil) != tc.wantErr {
				t.Errorf("ReadyCheck() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestRunTaskLifecycle(t *testing.T) {
	var events []string
	app := newTestApp(t)
	comp := healthy("store")
	_ = app.RegisterComponent(comp)
	app.OnStart(func(ctx context.Context) error {
		events = append(events, "start")
		return nil
	})
	app.OnStop(func(ctx context.Context) error {
		events = append(events, "stop")
		return nil
	})

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		if !comp.started {
			t.Error("component not started before task")
		}
		events = append(events, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}
	if got := strings.Join(events, ","); got != "start,task,stop" {
		t.Errorf("events = %s", got)
	}
	if !comp.stopped {
		t.Error("component not stopped")
	}
}

func TestRunTaskErrors(t *testing.T) {
	taskErr := fmt.Errorf("task failed")
	stopErr := fmt.Errorf("stop failed")

	t.Run("task error wins over stop error", func(t *testing.T) {
		app := newTestApp(t)
		_ = app.RegisterComponent(&mockComponent{name: "c", stopErr: stopErr})
		err := app.RunTask(context.Background(), func(context.Context) error { return taskErr })
		if err != taskErr {
			t.Errorf("expected task error, got %v", err)
		}
	})

	t.Run("stop error surfaces", func(t *testing.T) {
		app := newTestApp(t)
		app.OnStop(func(context.Context) error { return stopErr })
		err := app.RunTask(context.Background(), func(context.Context) error { return nil })
		if err == nil || !strings.Contains(err.Error(), "stop failed") {
			t.Errorf("expected stop error, got %v", err)
		}
	})

	t.Run("component start error skips task", func(t *testing.T) {
		app := newTestApp(t)
		first := healthy("first")
		_ = app.RegisterComponent(first)
		_ = app.RegisterComponent(&mockComponent{name: "broken", startErr: fmt.Errorf("boom")})
		ran := false
		err := app.RunTask(context.Background(), func(context.Context) error { ran = true; return nil })
		if err == nil {
			t.Fatal("expected start error")
		}
		if ran {
			t.Error("task ran after failed startup")
		}
		if !first.stopped {
			t.Error("started component not stopped after failed startup")
		}
	})
}

func TestRunTaskCancellation(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := app.RunTask(ctx, func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	})
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestWithGracefulTimeout(t *testing.T) {
	app := newTestApp(t, WithGracefulTimeout(3*time.Second))
	if app.gracefulTimeout != 3*time.Second {
		t.Errorf("timeout = %v", app.gracefulTimeout)
	}
	if newTestApp(t).gracefulTimeout != 15*time.Second {
		t.Error("unexpected default timeout")
	}
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	app := newTestApp(t, WithSummary(&buf))
	_ = app.RegisterComponent(healthy("store"))
	_ = app.RegisterComponent(&mockComponent{
		name:   "cache",
		health: component.Health{Name: "cache", Status: component.StatusUnhealthy, Message: "unreachable"},
	})

	if err := app.RunTask(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"test-svc 1.0.0", "├── store [mock]: in memory", "└── ❌ cache: unhealthy (unreachable)"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestHealthStatusIcon(t *testing.T) {
	tests := []struct {
		status component.HealthStatus
		want   string
	}{
		{component.StatusHealthy, "✅"},
		{component.StatusDegraded, "⚠️"},
		{component.StatusUnhealthy, "❌"},
		{"unknown", "❓"},
	}
	for _, tt := range tests {
		if got := healthStatusIcon(tt.status); got != tt.want {
			t.Errorf("healthStatusIcon(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
