// Package server provides the HTTP server for the Reflect API.
//
// the server is configured through environment variables
// (see internal/config/config.go for details)
//
// Routing is split between the protocol handlers in
// internal/stablecoin/handlers and the common infrastructure handlers
// (health, readiness, version) in internal/server/handlers.
//
// middleware is in internal/server/middleware
package server
