// Package errors provides the structured error type shared by the blobstore
// packages. Every failure that crosses a package boundary is an *AppError
// carrying a machine-readable code, an HTTP status hint and a retryable flag.
//
// Two codes matter to callers of the storage layer:
//
//   - CONFIGURATION_ERROR: the deployment configuration cannot produce a
//     client. Raised once at provisioning time and never retried.
//   - STORAGE_UNAVAILABLE: the backend could not be reached or answered
//     with a failure. Marked retryable; retrying is the caller's policy.
//
// A missing blob is not an error anywhere in this module.
package errors
