// Package buildinfo prints the version data stamped into the binaries with
// -ldflags "-X github.com/dmitrijs2005/authdash/internal/buildinfo.Version=...".
package buildinfo

import (
	"fmt"
	"io"
)

var (
	Version = "N/A"
	Date    = "N/A"
	Commit  = "N/A"
)

// PrintBuildData writes the build version, date and commit to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version)
	fmt.Fprintf(w, "Build date: %s\n", Date)
	fmt.Fprintf(w, "Build commit: %s\n", Commit)
}

// Fields returns the build data as logger key/value pairs.
func Fields() []any {
	return []any{"version", Version, "date", Date, "commit", Commit}
}
