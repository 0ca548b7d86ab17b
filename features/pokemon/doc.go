// Package pokemon is the collection feature: a seeded species and move
// catalog, the pokemon owned by the signed-in user, and damage ranges.
//
// Every use case that touches owned pokemon resolves the user from the
// session stored by the datastore feature, authenticated by login.
package pokemon
