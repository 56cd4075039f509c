// Package domain defines the core domain models for linkgate.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling:
//
//   - DownloadGrant: a single-token authorization to download one
//     product file within a bounded time window
//   - Product: the catalog view of a SKU (filename, display title)
//   - DomainError: structured business errors with LG-* codes
package domain
