package httpclient

import (
	"fmt"
	"time"
)

// DefaultTimeout applies when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Config describes one blobstore endpoint.
type Config struct {
	// BaseURL prefixes relative request paths.
	BaseURL string
	// Timeout bounds a buffered call end to end. For streamed calls it
	// bounds the wait for response headers only.
	Timeout time.Duration
	// Auth is sent with every request when set.
	Auth *BasicCredentials
	// TLS overrides the transport's trust settings.
	TLS *TLSConfig
}

// ApplyDefaults fills in the timeout.
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}

// Validate rejects negative timeouts and incomplete TLS settings.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("httpclient: timeout %s is negative", c.Timeout)
	}
	if c.TLS != nil {
		return c.TLS.Validate()
	}
	return nil
}
