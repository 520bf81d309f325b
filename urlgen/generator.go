package urlgen

import (
	"context"

	"github.com/kbukum/artifactstore/artifact"
	"github.com/kbukum/artifactstore/blobstore"
	"github.com/kbukum/artifactstore/util"
)

// Generator is implemented by Internal and External.
type Generator interface {
	PackageDownloadURL(ctx context.Context, pkg artifact.Package) (util.Optional[string], error)
	AppPackageDownloadURL(ctx context.Context, app artifact.App) (util.Optional[string], error)
	BuildpackCacheDownloadURL(ctx context.Context, app artifact.App) (util.Optional[string], error)
	VersionedBuildpackCacheDownloadURL(ctx context.Context, appGUID, stack string) (util.Optional[string], error)
	AdminBuildpackDownloadURL(ctx context.Context, bp artifact.Buildpack) (util.Optional[string], error)
	DropletDownloadURL(ctx context.Context, app artifact.App) (util.Optional[string], error)
	VersionedDropletDownloadURL(ctx context.Context, droplet artifact.Droplet) (util.Optional[string], error)
}

type urlFunc func(ctx context.Context, b blobstore.Blob) (string, error)

// generator holds the shared key derivation. Internal and External differ
// only in the URL they take from a blob.
type generator struct {
	stores *artifact.Stores
	url    urlFunc
}

func (g generator) PackageDownloadURL(ctx context.Context, pkg artifact.Package) (util.Optional[string], error) {
	return g.resolve(ctx, g.stores.Packages, key(pkg.GUID))
}

func (g generator) AppPackageDownloadURL(ctx context.Context, app artifact.App) (util.Optional[string], error) {
	return g.resolve(ctx, g.stores.Packages, key(app.GUID))
}

func (g generator) BuildpackCacheDownloadURL(ctx context.Context, app artifact.App) (util.Optional[string], error) {
	return g.resolve(ctx, g.stores.BuildpackCache, key(app.BuildpackCacheKey))
}

func (g generator) VersionedBuildpackCacheDownloadURL(ctx context.Context, appGUID, stack string) (util.Optional[string], error) {
	return g.resolve(ctx, g.stores.BuildpackCache, util.Some(artifact.VersionedBuildpackCacheKey(appGUID, stack)))
}

func (g generator) AdminBuildpackDownloadURL(ctx context.Context, bp artifact.Buildpack) (util.Optional[string], error) {
	return g.resolve(ctx, g.stores.Buildpacks, key(bp.Key))
}

// DropletDownloadURL resolves the app's current droplet. An app that has
// not been staged yields an empty result without touching the store.
func (g generator) DropletDownloadURL(ctx context.Context, app artifact.App) (util.Optional[string], error) {
	dropletKey, _ := util.FlatMap(util.FromPtr(app.CurrentDroplet), func(d artifact.Droplet) (util.Optional[string], error) {
		return key(d.BlobstoreKey), nil
	})
	return g.resolve(ctx, g.stores.Droplets, dropletKey)
}

func (g generator) VersionedDropletDownloadURL(ctx context.Context, droplet artifact.Droplet) (util.Optional[string], error) {
	return g.resolve(ctx, g.stores.Droplets, key(droplet.BlobstoreKey))
}

// resolve threads an optional key through the blob lookup and the URL
// method. Absence at either hop short-circuits.
func (g generator) resolve(ctx context.Context, store blobstore.Client, k util.Optional[string]) (util.Optional[string], error) {
	blob, err := util.FlatMap(k, func(k string) (util.Optional[blobstore.Blob], error) {
		return Lookup(ctx, store, k)
	})
	if err != nil {
		return util.None[string](), err
	}
	return util.FlatMap(blob, func(b blobstore.Blob) (util.Optional[string], error) {
		u, err := g.url(ctx, b)
		if err != nil {
			return util.None[string](), err
		}
		return util.Some(u), nil
	})
}

// Lookup wraps store.Blob, mapping an absent blob to an empty Optional.
func Lookup(ctx context.Context, store blobstore.Client, k string) (util.Optional[blobstore.Blob], error) {
	b, err := store.Blob(ctx, k)
	if err != nil || b == nil {
		return util.None[blobstore.Blob](), err
	}
	return util.Some(b), nil
}

// key treats an empty domain key as absent.
func key(k string) util.Optional[string] {
	if k == "" {
		return util.None[string]()
	}
	return util.Some(k)
}
