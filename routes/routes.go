// Package routes wires the HTTP API.
//
// - api.go: /v1 routes and probes
// - web.go: index and docs
// - middleware.go: request ID
//
// Usage:
//
//	routes.SetupAllRoutes(router, centerController, adminController)
package routes
