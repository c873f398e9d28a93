// Package version holds the build version string.
package version

// Version is the current wikistats version.
const Version = "0.3.1"
