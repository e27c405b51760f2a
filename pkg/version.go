// Package geopephub keeps build information of the application.
package geopephub

var (
	// Version of the application, set by the build flags.
	Version = "v0.1.0"
	// Build timestamp, set by the build flags.
	Build = "n/a"
)
