package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClient_Do_HEADWithBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD, got %s", r.Method)
		}
		if r.URL.Path != "/admin/cc-packages/abc" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "admin" || pass != "secret" {
			t.Errorf("expected basic auth, got %q/%q", user, pass)
		}
		if r.Header.Get("X-Request") != "yes" {
			t.Error("expected request header")
		}
		w.Header().Set("ETag", `"v1"`)
	}))
	defer srv.Close()

	c, err := New(Config{
		BaseURL: srv.URL + "/",
		Auth:    BasicAuth("admin", "secret"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := c.Do(context.Background(), Request{
		Method:  http.MethodHead,
		Path:    "/admin/cc-packages/abc",
		Headers: map[string]string{"X-Request": "yes"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.IsSuccess() {
		t.Errorf("expected success, got %d", resp.StatusCode)
	}
	if resp.Headers.Get("ETag") != `"v1"` {
		t.Errorf("expected ETag header, got %q", resp.Headers.Get("ETag"))
	}
}

func TestClient_Do_ClassifiesStatus(t *testing.T) {
	tests := []struct {
		status int
		code   ErrorCode
	}{
		{http.StatusNotFound, ErrCodeNotFound},
		{http.StatusUnauthorized, ErrCodeAuth},
		{http.StatusConflict, ErrCodeValidation},
		{http.StatusBadGateway, ErrCodeServer},
	}
	for _, tc := range tests {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			c, _ := New(Config{BaseURL: srv.URL})
			resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"})
			if err == nil {
				t.Fatal("expected error")
			}
			e, ok := err.(*Error)
			if !ok {
				t.Fatalf("expected *Error, got %T", err)
			}
			if e.Code != tc.code || e.StatusCode != tc.status {
				t.Errorf("got code=%s status=%d", e.Code, e.StatusCode)
			}
			if resp == nil || resp.StatusCode != tc.status {
				t.Error("expected response to accompany classified error")
			}
		})
	}
}

func TestClient_Do_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, _ := New(Config{BaseURL: url})
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if err == nil {
		t.Fatal("expected error")
	}
	var e *Error
	if !errors.As(err, &e) || e.Code != ErrCodeConnection {
		t.Errorf("expected connection error, got %v", err)
	}
}

func TestClient_Do_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/slow"})
	if !IsTimeout(err) {
		t.Errorf("expected timeout error, got %v", err)
	}
}

func TestClient_DoStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, "droplet-bits")
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})

	resp, err := c.DoStream(context.Background(), Request{Method: http.MethodGet, Path: "/file"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Close()
	data, _ := io.ReadAll(resp.Body)
	if string(data) != "droplet-bits" {
		t.Errorf("unexpected body %q", data)
	}

	_, err = c.DoStream(context.Background(), Request{Method: http.MethodGet, Path: "/missing"})
	if !IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestClient_DoStream_HeaderTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := c.DoStream(context.Background(), Request{Method: http.MethodGet, Path: "/stalled"})
	if !IsTimeout(err) {
		t.Errorf("expected timeout error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed >= time.Second {
		t.Errorf("stream waited %v for headers", elapsed)
	}
}

func TestClient_DoStream_BodyOutlivesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "head-")
		w.(http.Flusher).Flush()
		time.Sleep(100 * time.Millisecond)
		_, _ = io.WriteString(w, "tail")
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	resp, err := c.DoStream(context.Background(), Request{Method: http.MethodGet, Path: "/slow-body"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil || string(data) != "head-tail" {
		t.Errorf("got %q, %v", data, err)
	}
}

func TestClient_URL(t *testing.T) {
	c, _ := New(Config{BaseURL: "http://dav.internal/"})
	if got := c.URL("/read/x"); got != "http://dav.internal/read/x" {
		t.Errorf("URL() = %q", got)
	}
	if got := c.URL("https://other/x"); got != "https://other/x" {
		t.Errorf("absolute URL should pass through, got %q", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := (&Config{Timeout: -time.Second}).Validate(); err == nil {
		t.Error("expected negative timeout to be rejected")
	}
	cfg := Config{Timeout: time.Second, TLS: &TLSConfig{CertFile: "only-cert.pem"}}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "cert_file and key_file") {
		t.Errorf("expected cert/key pairing error, got %v", err)
	}
	if _, err := New(Config{TLS: &TLSConfig{CAFile: "/nonexistent/ca.pem"}}); err == nil {
		t.Error("expected CA read error")
	}
}
