// Package storage provides key-value storage for linkgate.
//
// The KV interface abstracts a flat keyspace with per-key TTL. Two
// production engines are provided: an embedded Badger store and a
// Redis client store. An in-memory engine lives in the memory
// subpackage for tests and single-process deployments.
//
// GrantStore layers grant persistence on top of any KV engine: grants
// live under the "t:" prefix as JSON, optionally sealed at rest.
package storage
