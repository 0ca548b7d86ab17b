// Package version exposes build metadata for featurekit binaries.
//
// Values are injected with -ldflags and fall back to the module build info:
//
//	go build -ldflags "-X github.com/kbukum/featurekit/version.Version=1.2.0" ./cmd/pokebase
package version
