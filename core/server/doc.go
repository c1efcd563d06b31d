// Package server holds the HTTP server configuration.
//
// The read-only archive API is served by cmd/start.go; this package only
// defines the listen port and the API key that protects every route.
package server
