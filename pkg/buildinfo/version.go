// Package buildinfo holds version information stamped in at link time:
//
//	go build -ldflags "-X github.com/mab8192/tcgprint/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/mab8192/tcgprint/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/mab8192/tcgprint/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

// Name is the program name used in document metadata and HTTP headers.
const Name = "tcgprint"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Creator identifies this build, e.g. "tcgprint v1.0.0".
func Creator() string {
	return Name + " " + Version
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
