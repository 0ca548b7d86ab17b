package injector

// DependencyProvider produces the dependencies of a feature. It is invoked
// at most once per successful build, on the goroutine that performs it.
type DependencyProvider[D any] func() D

// Factory builds a feature component from its dependencies.
type Factory[D, C any] func(D) (C, error)

// ComponentHolder is the surface a feature exposes to the composition root
// and to sibling features. The full component stays inside the feature.
type ComponentHolder[API, Deps any] interface {
	// Get builds the component on first use and returns its API.
	Get() (API, error)
	// MustGet is Get for provider closures; it panics with the build error.
	MustGet() API
	// SetDependencyProvider installs or replaces the provider. Once the
	// component is built the cached instance is kept.
	SetDependencyProvider(p DependencyProvider[Deps])
	DependencyProvider() DependencyProvider[Deps]
}
