// Package injector provides lazily built, process-wide feature components.
//
// A feature declares three things: the narrow API it publishes to other
// features, the Dependencies it needs from them, and a concrete component
// that implements the API. A Delegate ties them together. It holds a
// replaceable DependencyProvider, builds the component at most once on first
// access, and hands callers the API view.
//
// The composition root installs every provider before any holder is read:
//
//	login.Holder().SetDependencyProvider(func() login.Dependencies {
//		return login.Dependencies{DataStore: datastore.Holder().MustGet().Repository()}
//	})
//
//	api, err := login.Holder().Get()
//
// Build failures (missing provider, provider or factory error or panic,
// re-entrant access from the goroutine that is building) are returned as
// *errors.AppError values and are never cached, so a later Get retries.
package injector
