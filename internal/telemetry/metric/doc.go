// Package metric provides Prometheus metrics for linkgate.
//
// One Metrics value owns every instrument the service emits: grant
// issuance and redemption counters, checkout outcomes, and HTTP
// request latencies. It registers against a private registry so tests
// can create as many instances as they like.
package metric
