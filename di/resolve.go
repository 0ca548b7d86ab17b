package di

import "fmt"

// MustResolve resolves a registration with type safety, panics on error.
//
// Example:
//
//	api := di.MustResolve[app.API](c, di.Names.App)
func MustResolve[T any](c Container, key string) T {
	result, err := Resolve[T](c, key)
	if err != nil {
		panic(err)
	}
	return result
}

// Resolve resolves a registration with type safety. Build errors are
// wrapped so errors.HasCode still sees their codes.
func Resolve[T any](c Container, key string) (T, error) {
	var zero T
	instance, err := c.Resolve(key)
	if err != nil {
		return zero, fmt.Errorf("di: failed to resolve %s: %w", key, err)
	}
	result, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("di: registration %s is %T, expected %T", key, instance, zero)
	}
	return result, nil
}

// TryResolve resolves a registration, returning false on any failure.
func TryResolve[T any](c Container, key string) (T, bool) {
	result, err := Resolve[T](c, key)
	return result, err == nil
}
