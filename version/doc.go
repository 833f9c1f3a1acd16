// Package version exposes build information set through ldflags:
//
//	go build -ldflags "\
//	  -X github.com/ncobase/postfeed/version.Version=1.2.3 \
//	  -X github.com/ncobase/postfeed/version.Branch=main \
//	  -X github.com/ncobase/postfeed/version.Revision=abc123 \
//	  -X 'github.com/ncobase/postfeed/version.BuiltAt=$(date)'"
//
// Unset revision and build time fall back to the VCS stamp the go tool
// embeds in the binary.
package version
