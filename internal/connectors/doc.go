// Package connectors provides the clients that talk to external APIs.
// The graph subpackage implements the Microsoft Graph connector the
// core services are built on: transport, device-code authentication,
// token refresh, pagination, and rate limiting.
package connectors
