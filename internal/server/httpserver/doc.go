// Package httpserver provides the HTTP transport for linkgate.
//
// It wires the request handlers behind a stdlib mux with per-route
// middleware chains (panic recovery, request IDs, CORS, per-IP rate
// limiting, body limits, access logging and latency metrics) and wraps
// http.Server with lifecycle helpers for graceful shutdown.
package httpserver
