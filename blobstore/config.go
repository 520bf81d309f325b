package blobstore

import (
	"net/url"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/kbukum/artifactstore/errors"
	"github.com/kbukum/artifactstore/validation"
)

// BackendType selects the storage backend family.
type BackendType string

const (
	// BackendRemote is the remote object store. It is the default.
	BackendRemote BackendType = "remote-object-store"
	// BackendWebDAV is a WebDAV blobstore.
	BackendWebDAV BackendType = "webdav"
)

// Object-store providers accepted in remote connection params.
const (
	ProviderAWS   = "aws"
	ProviderLocal = "local"
)

// Default configuration values.
const (
	DefaultRegion         = "us-east-1"
	DefaultURLExpiry      = time.Hour
	DefaultTimeout        = 30 * time.Second
	DefaultCDNTTL         = time.Hour
	DefaultWebDAVEndpoint = "http://blobstore.service.internal"
)

// StorageConfig is the per-store deployment configuration as loaded from
// config files. Connection params stay untyped until Resolve.
//
// Presence matters: a non-nil empty map counts as supplied.
type StorageConfig struct {
	BackendType            BackendType    `yaml:"backend_type" mapstructure:"backend_type"`
	RemoteConnectionParams map[string]any `yaml:"remote_connection_params" mapstructure:"remote_connection_params"`
	WebDAVConnectionParams map[string]any `yaml:"webdav_connection_params" mapstructure:"webdav_connection_params"`
	CDN                    *CDNConfig     `yaml:"cdn" mapstructure:"cdn"`
}

// CDNConfig routes public URLs through a content-delivery endpoint.
type CDNConfig struct {
	EndpointURI string        `yaml:"endpoint_uri" mapstructure:"endpoint_uri" validate:"required,url"`
	SigningKey  string        `yaml:"signing_key" mapstructure:"signing_key"`
	TTL         time.Duration `yaml:"ttl" mapstructure:"ttl" validate:"gte=0"`
}

// RemoteConnection holds the decoded remote connection params.
type RemoteConnection struct {
	Provider        string        `mapstructure:"provider" validate:"oneof=aws local"`
	Region          string        `mapstructure:"region"`
	Endpoint        string        `mapstructure:"endpoint" validate:"omitempty,url"`
	PublicEndpoint  string        `mapstructure:"public_endpoint" validate:"omitempty,url"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	ForcePathStyle  bool          `mapstructure:"force_path_style"`
	LocalRoot       string        `mapstructure:"local_root" validate:"required_if=Provider local"`
	URLExpiry       time.Duration `mapstructure:"url_expiry" validate:"gte=0"`
	Timeout         time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// IsLocal reports whether the local filesystem provider is selected.
func (c *RemoteConnection) IsLocal() bool { return c.Provider == ProviderLocal }

// ApplyDefaults fills in zero-valued fields.
func (c *RemoteConnection) ApplyDefaults() {
	c.Provider = strings.ToLower(c.Provider)
	if c.Provider == "" {
		c.Provider = ProviderAWS
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.URLExpiry == 0 {
		c.URLExpiry = DefaultURLExpiry
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}

// WebDAVConnection holds the decoded WebDAV connection params.
type WebDAVConnection struct {
	PrivateEndpoint string        `mapstructure:"private_endpoint" validate:"url"`
	PublicEndpoint  string        `mapstructure:"public_endpoint" validate:"url"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Secret          string        `mapstructure:"secret"`
	URLExpiry       time.Duration `mapstructure:"url_expiry" validate:"gte=0"`
	Timeout         time.Duration `mapstructure:"timeout" validate:"gte=0"`
	CACertPath      string        `mapstructure:"ca_cert_path"`
	SkipVerify      bool          `mapstructure:"skip_verify"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *WebDAVConnection) ApplyDefaults() {
	if c.PrivateEndpoint == "" {
		c.PrivateEndpoint = DefaultWebDAVEndpoint
	}
	if c.PublicEndpoint == "" {
		c.PublicEndpoint = c.PrivateEndpoint
	}
	if c.URLExpiry == 0 {
		c.URLExpiry = DefaultURLExpiry
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}

// ResolvedConfig is a validated StorageConfig. Exactly one of Remote and
// WebDAV is set, matching Backend.
type ResolvedConfig struct {
	Backend BackendType
	Remote  *RemoteConnection
	WebDAV  *WebDAVConnection
	CDN     *CDNConfig
}

// Resolve validates the configuration and decodes the connection params
// of the selected backend. It is pure and meant to run once, when a store
// is provisioned. Every failure is a CONFIGURATION_ERROR.
func (c StorageConfig) Resolve() (ResolvedConfig, error) {
	resolved := ResolvedConfig{Backend: c.BackendType}
	if resolved.Backend == "" {
		resolved.Backend = BackendRemote
	}

	switch resolved.Backend {
	case BackendRemote:
		if c.RemoteConnectionParams == nil {
			return ResolvedConfig{}, errors.Configuration("remote_connection_params are required for the remote-object-store backend")
		}
		remote := &RemoteConnection{}
		if err := decodeParams(c.RemoteConnectionParams, remote); err != nil {
			return ResolvedConfig{}, errors.Configurationf("invalid remote_connection_params: %v", err).WithCause(err)
		}
		remote.ApplyDefaults()
		if err := validation.Validate(remote); err != nil {
			return ResolvedConfig{}, errors.Configurationf("invalid remote_connection_params: %v", err).WithCause(err)
		}
		resolved.Remote = remote

	case BackendWebDAV:
		if c.WebDAVConnectionParams == nil {
			return ResolvedConfig{}, errors.Configuration("webdav_connection_params are required for the webdav backend")
		}
		dav := &WebDAVConnection{}
		if err := decodeParams(c.WebDAVConnectionParams, dav); err != nil {
			return ResolvedConfig{}, errors.Configurationf("invalid webdav_connection_params: %v", err).WithCause(err)
		}
		dav.ApplyDefaults()
		if err := validation.Validate(dav); err != nil {
			return ResolvedConfig{}, errors.Configurationf("invalid webdav_connection_params: %v", err).WithCause(err)
		}
		resolved.WebDAV = dav

	default:
		return ResolvedConfig{}, errors.Configurationf("unknown backend_type %q", c.BackendType)
	}

	if c.CDN != nil {
		cdn, err := resolveCDN(*c.CDN, resolved)
		if err != nil {
			return ResolvedConfig{}, err
		}
		resolved.CDN = cdn
	}
	return resolved, nil
}

func resolveCDN(cdn CDNConfig, resolved ResolvedConfig) (*CDNConfig, error) {
	if resolved.Backend != BackendRemote {
		return nil, errors.Configurationf("cdn is only supported for the remote-object-store backend, not %s", resolved.Backend)
	}
	if resolved.Remote.IsLocal() {
		return nil, errors.Configuration("cdn is not supported for the local provider")
	}
	if err := validation.Validate(&cdn); err != nil {
		return nil, errors.Configurationf("invalid cdn: %v", err).WithCause(err)
	}
	u, err := url.Parse(cdn.EndpointURI)
	if err != nil || u.Host == "" {
		return nil, errors.Configurationf("cdn endpoint_uri %q must be an absolute URL", cdn.EndpointURI)
	}
	if cdn.TTL == 0 {
		cdn.TTL = DefaultCDNTTL
	}
	return &cdn, nil
}

// decodeParams decodes a loosely typed params map into out. Numbers and
// strings are converted where the field type asks for it, so values from
// YAML and environment overrides both decode.
func decodeParams(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(params)
}
