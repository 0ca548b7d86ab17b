// Package redis wraps go-redis with featurekit logging, a lifecycle
// component and a JSON typed store. The datastore feature uses it as its
// session backend when redis is enabled.
package redis
