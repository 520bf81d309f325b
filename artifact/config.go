package artifact

import (
	"github.com/kbukum/artifactstore/blobstore"
	"github.com/kbukum/artifactstore/errors"
)

// Kind names an artifact class.
type Kind string

const (
	KindPackages       Kind = "packages"
	KindDroplets       Kind = "droplets"
	KindBuildpackCache Kind = "buildpack_cache"
	KindBuildpacks     Kind = "buildpacks"
)

// Kinds lists every artifact class in provisioning order.
var Kinds = []Kind{KindPackages, KindDroplets, KindBuildpackCache, KindBuildpacks}

// StoreConfig is the storage configuration of one artifact store.
type StoreConfig struct {
	DirectoryKey            string `yaml:"directory_key" mapstructure:"directory_key"`
	blobstore.StorageConfig `yaml:",inline" mapstructure:",squash"`
}

// Config holds one StoreConfig per artifact class.
type Config struct {
	Packages       StoreConfig `yaml:"packages" mapstructure:"packages"`
	Droplets       StoreConfig `yaml:"droplets" mapstructure:"droplets"`
	BuildpackCache StoreConfig `yaml:"buildpack_cache" mapstructure:"buildpack_cache"`
	Buildpacks     StoreConfig `yaml:"buildpacks" mapstructure:"buildpacks"`
}

// Store returns the configuration for kind.
func (c Config) Store(kind Kind) StoreConfig {
	switch kind {
	case KindPackages:
		return c.Packages
	case KindDroplets:
		return c.Droplets
	case KindBuildpackCache:
		return c.BuildpackCache
	case KindBuildpacks:
		return c.Buildpacks
	}
	return StoreConfig{}
}

// Validate checks that every store names a directory key and that no two
// stores share one.
func (c *Config) Validate() error {
	seen := make(map[string]Kind, len(Kinds))
	for _, kind := range Kinds {
		key := c.Store(kind).DirectoryKey
		if key == "" {
			return errors.Configurationf("blobstores.%s.directory_key is required", kind)
		}
		if other, dup := seen[key]; dup {
			return errors.Configurationf("blobstores.%s and blobstores.%s share directory_key %q", other, kind, key)
		}
		seen[key] = kind
	}
	return nil
}
