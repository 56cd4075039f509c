// Package command provides CLI command definitions for linkgate-cli.
//
// The catalog and grant commands open the configured storage engine
// directly, so with the embedded Badger engine they must run while the
// server is stopped; the Redis engine can be administered live. The
// system commands talk to a running server over HTTP.
package command
