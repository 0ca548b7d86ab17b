// Package app is the top-level feature. Its dependency descriptor gathers
// every use case the application surface needs, while its public API
// stays narrow.
package app
