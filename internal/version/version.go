// Package version holds build metadata injected via -ldflags.
package version

// Version is the semantic version of this build.
var Version = "dev"

// Commit is the git revision the binary was built from.
var Commit = ""

// BuildDate is the build timestamp.
var BuildDate = ""
