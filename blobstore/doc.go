// Package blobstore defines the storage client contract shared by every
// artifact store, and the configuration, CDN, error-handling and
// instrumentation layers wrapped around the concrete drivers.
//
// Drivers live in sub-packages (s3, webdav, local). Callers obtain a Client
// through provider.Provide and never construct drivers directly.
//
//	client, err := provider.Provide(cfg, "cc-packages", log)
//	blob, err := client.Blob(ctx, pkg.GUID)
//	if blob == nil {
//	    // absent
//	}
//	if client.Local() {
//	    path := blob.LocalPath()
//	} else {
//	    url, err := blob.PublicDownloadURL(ctx)
//	}
package blobstore
