// Package server exposes the feature container over HTTP.
//
// The server is a Gin engine wrapped in h2c and runs as a lifecycle
// component. Introspection routes:
//
//	GET /healthz          aggregated component health, 503 when unhealthy
//	GET /info             service and build information
//	GET /features         every registration with its build state
//	GET /features/:name   one registration, 404 when unknown
package server
