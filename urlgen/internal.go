package urlgen

import (
	"context"

	"github.com/kbukum/artifactstore/artifact"
	"github.com/kbukum/artifactstore/blobstore"
)

// Internal generates direct backend URLs. They never route through a CDN.
type Internal struct {
	generator
}

// NewInternal creates an internal URL generator over stores.
func NewInternal(stores *artifact.Stores) *Internal {
	return &Internal{generator{
		stores: stores,
		url: func(ctx context.Context, b blobstore.Blob) (string, error) {
			return b.InternalDownloadURL(ctx)
		},
	}}
}

var _ Generator = (*Internal)(nil)
