package urlgen

import (
	"context"

	"github.com/kbukum/artifactstore/artifact"
	"github.com/kbukum/artifactstore/blobstore"
)

// External generates URLs usable from outside the internal network.
type External struct {
	generator
}

// NewExternal creates a public URL generator over stores.
func NewExternal(stores *artifact.Stores) *External {
	return &External{generator{
		stores: stores,
		url: func(ctx context.Context, b blobstore.Blob) (string, error) {
			return b.PublicDownloadURL(ctx)
		},
	}}
}

var _ Generator = (*External)(nil)
