// Package datastore is the feature that owns the persisted user session.
//
// It has no feature dependencies; the composition root provides only a
// namespace that scopes the stored data.
package datastore
