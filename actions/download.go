// Package actions holds request-level operations that choose between
// serving an artifact from local disk and redirecting to a URL.
package actions

import (
	"context"

	"github.com/kbukum/artifactstore/artifact"
	"github.com/kbukum/artifactstore/blobstore"
	"github.com/kbukum/artifactstore/errors"
	"github.com/kbukum/artifactstore/urlgen"
)

// PackageDownload resolves where a package's bits can be fetched from.
type PackageDownload struct {
	stores *artifact.Stores
}

// NewPackageDownload creates a PackageDownload over stores.
func NewPackageDownload(stores *artifact.Stores) *PackageDownload {
	return &PackageDownload{stores: stores}
}

// Download returns the file path when the package store is local and the
// public URL otherwise. Exactly one of path and url is set on success.
func (a *PackageDownload) Download(ctx context.Context, pkg artifact.Package) (path, url string, err error) {
	return download(ctx, a.stores.Packages, "package", pkg.GUID)
}

// DropletDownload resolves where a droplet can be fetched from.
type DropletDownload struct {
	stores *artifact.Stores
}

// NewDropletDownload creates a DropletDownload over stores.
func NewDropletDownload(stores *artifact.Stores) *DropletDownload {
	return &DropletDownload{stores: stores}
}

// Download behaves like PackageDownload.Download for droplet.
func (a *DropletDownload) Download(ctx context.Context, droplet artifact.Droplet) (path, url string, err error) {
	return download(ctx, a.stores.Droplets, "droplet", droplet.BlobstoreKey)
}

func download(ctx context.Context, store blobstore.Client, resource, key string) (string, string, error) {
	if key == "" {
		return "", "", errors.InvalidInput("key", "must not be empty")
	}
	found, err := urlgen.Lookup(ctx, store, key)
	if err != nil {
		return "", "", err
	}
	blob, ok := found.Get()
	if !ok {
		return "", "", errors.NotFound(resource, key)
	}
	if store.Local() {
		return blob.LocalPath(), "", nil
	}
	url, err := blob.PublicDownloadURL(ctx)
	if err != nil {
		return "", "", err
	}
	return "", url, nil
}
