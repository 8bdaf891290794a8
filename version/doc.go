// Package version exposes build information for the running binary.
//
// Version, commit and build time are set at compile time:
//
//	go build -ldflags "-X github.com/librosapp/authkit/version.Version=1.2.0" ./cmd/librosauth
package version
