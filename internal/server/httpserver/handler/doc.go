// Package handler implements the HTTP endpoints for linkgate.
//
// The endpoints keep the wire contract of the storefront they serve:
// JSON endpoints report errors as {"error": "..."} bodies, the
// browser-facing download and thank-you endpoints use plain-text
// errors, and downloads stream with attachment disposition. Structured
// error codes travel in the X-Error-Code header so clients stay
// unaware of internal taxonomy.
package handler
