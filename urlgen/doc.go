// Package urlgen translates artifact domain references into download URLs.
//
// Internal generators return backend URLs for the trusted internal network.
// External generators return public URLs, signed or CDN-routed depending
// on the store's configuration. Every method returns an empty Optional,
// never an error, when the artifact has no backing blob.
package urlgen
