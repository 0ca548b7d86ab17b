// Package component defines lifecycle-managed parts of an application.
//
// A Registry starts components in registration order, stops them in
// reverse, and aggregates their health. FeatureComponent lets a feature
// holder take part: eager features are built during Start, and every built
// feature is closed during Stop.
package component
