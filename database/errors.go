package database

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/kbukum/featurekit/errors"
)

var busyPatterns = []string{
	"database is locked",
	"database table is locked",
	"sql: database is closed",
	"driver: bad connection",
}

// IsRetryable reports whether err is a transient lock or connection error.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range busyPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// FromDatabase converts a gorm error into an AppError for resource.
func FromDatabase(err error, resource string) *apperrors.AppError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound(resource, "").WithCause(err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.AlreadyExists(resource).WithCause(err)
	case IsRetryable(err):
		return apperrors.New(apperrors.ErrCodeServiceUnavailable,
			"Database is temporarily unavailable. Please try again.",
			http.StatusServiceUnavailable).WithCause(err)
	default:
		return apperrors.Internal(err)
	}
}
