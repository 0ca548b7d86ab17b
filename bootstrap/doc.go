// Package bootstrap is the composition root for featurekit binaries.
//
// An App loads nothing by itself: the binary loads its config, creates the
// App, registers feature holders with RegisterFeature, installs dependency
// providers in an OnConfigure callback, and calls Run. Startup then:
//
//  1. initializes OpenTelemetry when observability.enabled is set,
//  2. runs configure callbacks so every provider is in place,
//  3. starts components in registration order, which builds features
//     listed in features.eager,
//  4. prints a summary of features, routes and health.
//
// Shutdown stops components in reverse order, closes built features and
// flushes telemetry.
package bootstrap
