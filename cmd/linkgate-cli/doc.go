// Package main provides the entry point for linkgate-cli.
//
// linkgate-cli manages the product catalog and download grants, and
// checks the health of a running linkgate-server.
package main
