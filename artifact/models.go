package artifact

// App is the subset of an application the blob layer reads.
type App struct {
	GUID string
	// BuildpackCacheKey is the key of the app's unversioned buildpack cache.
	BuildpackCacheKey string
	// CurrentDroplet is nil until the app has been staged.
	CurrentDroplet *Droplet
}

// Package is an uploaded application source package.
type Package struct {
	GUID string
}

// Droplet is a staged, runnable build.
type Droplet struct {
	GUID         string
	BlobstoreKey string
}

// Buildpack is an admin buildpack.
type Buildpack struct {
	Key string
}

// VersionedBuildpackCacheKey returns the per-stack buildpack cache key.
func VersionedBuildpackCacheKey(appGUID, stack string) string {
	return appGUID + "/" + stack
}
