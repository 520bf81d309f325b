package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/kbukum/artifactstore/blobstore"
	"github.com/kbukum/artifactstore/errors"
)

func backendOf(t *testing.T, c blobstore.Client) string {
	t.Helper()
	d, ok := c.(blobstore.Describer)
	if !ok {
		t.Fatalf("client %T does not describe its backend", c)
	}
	return d.Backend()
}

func TestProvide_BackendSelection(t *testing.T) {
	tests := []struct {
		name    string
		cfg     blobstore.StorageConfig
		backend string
		local   bool
	}{
		{
			"unset type with empty remote params",
			blobstore.StorageConfig{RemoteConnectionParams: map[string]any{}},
			"s3", false,
		},
		{
			"explicit remote",
			blobstore.StorageConfig{BackendType: blobstore.BackendRemote, RemoteConnectionParams: map[string]any{"region": "eu-west-1"}},
			"s3", false,
		},
		{
			"webdav with empty params",
			blobstore.StorageConfig{BackendType: blobstore.BackendWebDAV, WebDAVConnectionParams: map[string]any{}},
			"webdav", false,
		},
		{
			"local provider",
			blobstore.StorageConfig{RemoteConnectionParams: map[string]any{"provider": "local", "local_root": "ROOT"}},
			"local", true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if root, ok := tc.cfg.RemoteConnectionParams["local_root"]; ok && root == "ROOT" {
				tc.cfg.RemoteConnectionParams["local_root"] = t.TempDir()
			}
			c, err := Provide(tc.cfg, "pkg", nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := backendOf(t, c); got != tc.backend {
				t.Errorf("backend = %q, want %q", got, tc.backend)
			}
			if c.Local() != tc.local {
				t.Errorf("Local() = %v, want %v", c.Local(), tc.local)
			}
			if c.(blobstore.Describer).DirectoryKey() != "pkg" {
				t.Error("directory key not bound")
			}
		})
	}
}

func TestProvide_ConfigurationErrors(t *testing.T) {
	cdn := &blobstore.CDNConfig{EndpointURI: "http://cdn.example.com"}
	tests := []struct {
		name string
		cfg  blobstore.StorageConfig
		dir  string
	}{
		{"remote without params", blobstore.StorageConfig{BackendType: blobstore.BackendRemote}, "pkg"},
		{"remote without params but with cdn and webdav params", blobstore.StorageConfig{
			BackendType: blobstore.BackendRemote, WebDAVConnectionParams: map[string]any{}, CDN: cdn,
		}, "pkg"},
		{"cdn on webdav", blobstore.StorageConfig{
			BackendType: blobstore.BackendWebDAV, WebDAVConnectionParams: map[string]any{}, CDN: cdn,
		}, "pkg"},
		{"cdn on local provider", blobstore.StorageConfig{
			RemoteConnectionParams: map[string]any{"provider": "local", "local_root": os.TempDir()}, CDN: cdn,
		}, "pkg"},
		{"missing directory key", blobstore.StorageConfig{RemoteConnectionParams: map[string]any{}}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Provide(tc.cfg, tc.dir, nil)
			if !errors.IsConfigurationError(err) {
				t.Errorf("expected CONFIGURATION_ERROR, got %v", err)
			}
		})
	}
}

func TestProvide_CDNRoutesOnlyPublicURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead && r.URL.Path == "/cc-droplets/K" {
			w.Header().Set("ETag", `"e"`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cfg := blobstore.StorageConfig{
		RemoteConnectionParams: map[string]any{
			"endpoint":          srv.URL,
			"access_key_id":     "id",
			"secret_access_key": "secret",
			"force_path_style":  true,
		},
		CDN: &blobstore.CDNConfig{EndpointURI: "http://cdn.example.com"},
	}
	c, err := Provide(cfg, "cc-droplets", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	blob, err := c.Blob(ctx, "K")
	if err != nil || blob == nil {
		t.Fatalf("expected blob, got %v / %v", blob, err)
	}

	public, err := blob.PublicDownloadURL(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if u, _ := url.Parse(public); u.Host != "cdn.example.com" {
		t.Errorf("public url host = %q", u.Host)
	}

	internal, err := blob.InternalDownloadURL(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if u, _ := url.Parse(internal); u.Host == "cdn.example.com" {
		t.Errorf("internal url routed through cdn: %s", internal)
	}

	missing, err := c.Blob(ctx, "absent")
	if err != nil || missing != nil {
		t.Errorf("expected nil blob without error, got %v / %v", missing, err)
	}
}

func TestProvide_LocalDriverPaths(t *testing.T) {
	root := t.TempDir()
	c, err := Provide(blobstore.StorageConfig{
		RemoteConnectionParams: map[string]any{"provider": "Local", "local_root": root},
	}, "cc-packages", nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(root, "cc-packages", "guid"), []byte("bits"), 0o600); err != nil {
		t.Fatal(err)
	}
	blob, err := c.Blob(context.Background(), "guid")
	if err != nil || blob == nil {
		t.Fatalf("expected blob, got %v / %v", blob, err)
	}
	if blob.LocalPath() != filepath.Join(root, "cc-packages", "guid") {
		t.Errorf("LocalPath() = %q", blob.LocalPath())
	}
}
