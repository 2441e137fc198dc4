// Package version reports build information for gostream binaries.
//
// Version and Commit are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/gostream/version.Version=1.2.0" ./cmd/streambench
//
// Fields left empty are filled from the module build info embedded by the
// Go toolchain.
package version
