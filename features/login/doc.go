// Package login is the account feature: registration, password login and
// session tokens. Passwords are hashed with bcrypt; sessions carry an HS256
// JWT whose subject is the user id, persisted through the datastore feature.
package login
