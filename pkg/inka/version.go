// Package inka holds build information shared by the inka binaries.
package inka

// Version is the inka release version.
const Version = "0.1.0"

// Commit is the source revision, set at build time with -ldflags.
var Commit = "unknown"
