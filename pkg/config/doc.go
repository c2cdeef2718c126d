// Package config loads, validates, and writes the infscroll configuration
// file.
//
// It combines the window, source, and UI configuration into a single YAML
// document. The document is validated against a JSON schema reflected from
// the Go types before it is decoded, then checked again in Go for the
// constraints a schema cannot express.
package config
