// Package version reports the hostkit build a runtime was compiled from.
//
// Version and GitCommit can be set at link time:
//
//	go build -ldflags "-X github.com/kbukum/hostkit/version.Version=1.2.0"
//
// Otherwise the commit and dirty flag come from the module build info.
package version
