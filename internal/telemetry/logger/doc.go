// Package logger provides structured logging for linkgate.
//
// It wraps log/slog to provide structured JSON logging with automatic
// redaction of sensitive values:
//
//   - download tokens (64-char hex) are masked to a short hint
//   - payment provider secrets (sk_ prefixed) are masked
//   - buyer emails keep only their domain
//   - values under password/secret/key/... keys are fully redacted
//
// A request-scoped logger travels in the context; L(ctx) retrieves it
// enriched with the request ID.
package logger
