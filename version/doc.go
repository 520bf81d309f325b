// Package version reports the build version of blobctl.
//
// Version and GitCommit are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/artifactstore/version.Version=1.4.0" ./cmd/blobctl
//
// Without ldflags the VCS stamp embedded by the Go toolchain is used.
package version
