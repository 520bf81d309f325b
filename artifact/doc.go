// Package artifact binds the four artifact classes (packages, droplets,
// buildpack caches, admin buildpacks) to blobstore clients.
//
// Stores is the explicitly constructed context object handed to URL
// generators and download actions. Component owns its lifecycle.
package artifact
