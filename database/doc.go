// Package database opens a SQLite database through gorm with featurekit
// logging, maps gorm errors to AppErrors and runs the connection as a
// lifecycle component. The login feature keeps accounts here when enabled.
package database
