package artifact

import (
	"github.com/kbukum/artifactstore/blobstore"
	"github.com/kbukum/artifactstore/blobstore/provider"
	"github.com/kbukum/artifactstore/errors"
	"github.com/kbukum/artifactstore/logger"
)

// Stores holds the four artifact blobstores. It is immutable after
// construction and safe for concurrent use.
type Stores struct {
	Packages       blobstore.Client
	Droplets       blobstore.Client
	BuildpackCache blobstore.Client
	Buildpacks     blobstore.Client
}

// NewStores provisions every artifact store from cfg. Any configuration
// problem fails the whole set.
func NewStores(cfg Config, log *logger.Logger, opts ...provider.Option) (*Stores, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clients := make(map[Kind]blobstore.Client, len(Kinds))
	for _, kind := range Kinds {
		sc := cfg.Store(kind)
		client, err := provider.Provide(sc.StorageConfig, sc.DirectoryKey, log, opts...)
		if err != nil {
			if appErr, ok := errors.AsAppError(err); ok {
				appErr.WithDetail("store", string(kind))
			}
			return nil, err
		}
		clients[kind] = client
	}

	return &Stores{
		Packages:       clients[KindPackages],
		Droplets:       clients[KindDroplets],
		BuildpackCache: clients[KindBuildpackCache],
		Buildpacks:     clients[KindBuildpacks],
	}, nil
}

// Store returns the client for kind, or nil for an unknown kind.
func (s *Stores) Store(kind Kind) blobstore.Client {
	switch kind {
	case KindPackages:
		return s.Packages
	case KindDroplets:
		return s.Droplets
	case KindBuildpackCache:
		return s.BuildpackCache
	case KindBuildpacks:
		return s.Buildpacks
	}
	return nil
}
