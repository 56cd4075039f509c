// Package catalog maps SKUs to deliverable files.
//
// Two sources are provided:
//
//   - KVCatalog: mappings under "sku:file:" and "sku:title:" keys in
//     the KV store, writable at runtime through the admin CLI
//   - FileCatalog: a YAML file reloaded on change via fsnotify
//
// Chain combines sources with first-hit-wins semantics, letting a
// deployment pin products in a config file while overriding or adding
// via the KV store.
package catalog
