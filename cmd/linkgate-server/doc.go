// Package main provides the entry point for linkgate-server.
//
// linkgate-server issues short-lived download tokens for purchased
// products, redeems them into file streams and brokers checkout
// creation at the payment provider.
package main
