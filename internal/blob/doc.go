// Package blob serves product files from an object bucket.
//
// The Store interface abstracts a read-only bucket of named objects.
// FSStore implements it over a local directory with path-traversal
// guarding, which is sufficient for single-host deployments where the
// product files ship alongside the binary or on a mounted volume.
package blob
