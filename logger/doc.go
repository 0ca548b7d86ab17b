// Package logger provides structured logging for featurekit applications
// using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with map-based structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("injector")
//	log.Info("component built", logger.Fields("feature", "login"))
package logger
