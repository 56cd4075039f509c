// Package payment talks to the Dodo Payments API.
//
// The service never renders its own checkout; it proxies checkout
// session creation to Dodo and hands the hosted payment link back to
// the storefront. Requests carry bearer auth and an idempotency key,
// and are retried once on transport failure or 5xx.
package payment
