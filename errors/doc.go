// Package errors provides the structured error type shared by every featurekit
// package.
//
// AppError carries a machine-readable code, a human message, a retryable flag
// and a recommended HTTP status. The container reports its own failures
// (missing dependency provider, cyclic dependency, failed build) with the
// configuration codes defined in codes.go so callers can branch on HasCode
// instead of matching strings.
package errors
