package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Store         struct {
		DirectoryKey     string         `mapstructure:"directory_key"`
		Timeout          time.Duration  `mapstructure:"timeout"`
		Params           map[string]any `mapstructure:"params"`
		ConnectionParams map[string]any `mapstructure:"connection_params"`
	} `mapstructure:"store"`
}

type fakeFS struct {
	files  map[string]bool
	loaded []string
}

func (f *fakeFS) Exists(path string) bool { return f.files[path] }

func (f *fakeFS) LoadEnv(path string) error {
	f.loaded = append(f.loaded, path)
	return nil
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development with debug logging", func(t *testing.T) {
		cfg := ServiceConfig{Name: "blobctl"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" || !cfg.Debug {
			t.Errorf("got env=%q debug=%v", cfg.Environment, cfg.Debug)
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug level, got %q", cfg.Logging.Level)
		}
	})

	t.Run("production keeps info level", func(t *testing.T) {
		cfg := ServiceConfig{Name: "blobctl", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug || cfg.Logging.Level != "info" {
			t.Errorf("got debug=%v level=%q", cfg.Debug, cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		cfg    ServiceConfig
		errMsg string
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: "staging"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "config.name is required"},
		{"bad environment", ServiceConfig{Name: "svc", Environment: "qa"}, "config.environment must be one of"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.errMsg == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("expected error containing %q, got %v", tc.errMsg, err)
			}
		})
	}
}

func TestResolver(t *testing.T) {
	fs := &fakeFS{files: map[string]bool{
		"./config.yml":             true,
		"./cmd/blobctl/config.yml": true,
		"./.env":                   true,
		"./.env.blobctl":           true,
	}}
	r := &Resolver{FileSystem: fs}

	got := r.Resolve("blobctl", Options{})
	if got.ConfigFile != "./cmd/blobctl/config.yml" {
		t.Errorf("config file = %q", got.ConfigFile)
	}
	if got.EnvFile != "./.env.blobctl" {
		t.Errorf("env file = %q", got.EnvFile)
	}

	got = r.Resolve("blobctl", Options{ConfigFile: "/etc/blobctl.yml"})
	if got.ConfigFile != "/etc/blobctl.yml" {
		t.Errorf("explicit path not honoured: %q", got.ConfigFile)
	}
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yaml := `
name: blobctl
environment: staging
logging:
  level: warn
store:
  directory_key: cc-packages
  timeout: 5s
  params:
    provider: local
    local_root: /tmp/blobs
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	var cfg testConfig
	if err := Load("blobctl", &cfg, WithConfigFile(path), WithEnvPrefix("BLOBCTL_TEST_YAML")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Name != "blobctl" || cfg.Environment != "staging" || cfg.Logging.Level != "warn" {
		t.Errorf("unexpected service config: %+v", cfg.ServiceConfig)
	}
	if cfg.Store.DirectoryKey != "cc-packages" || cfg.Store.Timeout != 5*time.Second {
		t.Errorf("unexpected store config: %+v", cfg.Store)
	}
	if cfg.Store.Params["local_root"] != "/tmp/blobs" {
		t.Errorf("params not decoded: %v", cfg.Store.Params)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("name: blobctl\nlogging:\n  level: info\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BLOBCTLENV_LOGGING_LEVEL", "error")
	t.Setenv("BLOBCTLENV_STORE_DIRECTORY_KEY", "cc-droplets")

	var cfg testConfig
	if err := Load("blobctl", &cfg, WithConfigFile(path), WithEnvPrefix("BLOBCTLENV")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("expected env override, got %q", cfg.Logging.Level)
	}
	if cfg.Store.DirectoryKey != "cc-droplets" {
		t.Errorf("expected nested underscore key override, got %q", cfg.Store.DirectoryKey)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	var cfg testConfig
	err := Load("blobctl", &cfg, WithConfigFile(filepath.Join(t.TempDir(), "nope.yml")))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestLoadUsesEnvFile(t *testing.T) {
	fs := &fakeFS{files: map[string]bool{"custom.env": true}}
	var cfg testConfig
	withFS := func(o *Options) { o.FileSystem = fs }
	if err := Load("blobctl", &cfg, withFS, WithEnvFile("custom.env")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(fs.loaded, []string{"custom.env"}) {
		t.Errorf("env file not loaded: %v", fs.loaded)
	}
}

func TestLoadKeepsEmptyMaps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yaml := `
name: blobctl
store:
  directory_key: cc-packages
  params: {}
  connection_params: {}
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	var cfg testConfig
	if err := Load("blobctl", &cfg, WithConfigFile(path), WithEnvPrefix("BLOBCTL_TEST_EMPTY")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Store.Params == nil || len(cfg.Store.Params) != 0 {
		t.Errorf("expected empty non-nil params, got %#v", cfg.Store.Params)
	}
	if cfg.Store.ConnectionParams == nil {
		t.Error("expected empty non-nil connection_params")
	}

	var absent testConfig
	if err := os.WriteFile(path, []byte("name: blobctl
store:
  directory_key: cc-packages
"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Load("blobctl", &absent, WithConfigFile(path), WithEnvPrefix("BLOBCTL_TEST_EMPTY")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if absent.Store.Params != nil {
		t.Errorf("omitted params should stay nil, got %#v", absent.Store.Params)
	}
}

func TestLoadEnvOverridesUnderscoredMapKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yaml := `
name: blobctl
store:
  connection_params:
    provider: local
    local_root: /from/file
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BLOBCTLCONN_STORE_CONNECTION_PARAMS_LOCAL_ROOT", "/from/env")
	t.Setenv("BLOBCTLCONN_STORE_CONNECTION_PARAMS_SECRET_ACCESS_KEY", "s3cr3t")

	var cfg testConfig
	if err := Load("blobctl", &cfg, WithConfigFile(path), WithEnvPrefix("BLOBCTLCONN")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	params := cfg.Store.ConnectionParams
	if params["local_root"] != "/from/env" {
		t.Errorf("local_root = %v, want env override", params["local_root"])
	}
	if params["secret_access_key"] != "s3cr3t" {
		t.Errorf("secret_access_key = %v", params["secret_access_key"])
	}
	if params["provider"] != "local" {
		t.Errorf("file value lost: %v", params)
	}
}

func TestKeyVariants(t *testing.T) {
	got := keyVariants("LOGGING_NO_COLOR")
	want := []string{"logging.no.color", "logging_no.color", "logging.no_color", "logging_no_color"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("keyVariants() = %v, want %v", got, want)
	}
	if got := keyVariants("NAME"); !reflect.DeepEqual(got, []string{"name"}) {
		t.Errorf("single part = %v", got)
	}

	variants := keyVariants("BLOBSTORES_PACKAGES_REMOTE_CONNECTION_PARAMS_LOCAL_ROOT")
	if len(variants) != 64 {
		t.Errorf("expected every split, got %d variants", len(variants))
	}
	found := false
	for _, v := range variants {
		if v == "blobstores.packages.remote_connection_params.local_root" {
			found = true
		}
	}
	if !found {
		t.Error("struct path missing from variants")
	}
}
