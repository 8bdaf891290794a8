package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/librosapp/authkit/errors"
)

// IsNotFoundError checks if the error is a GORM record-not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports a unique-constraint violation. TranslateError
// maps most drivers onto gorm.ErrDuplicatedKey; sqlite builds without the
// translator still surface the raw constraint message.
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// FromDatabase converts a database error to an AppError.
func FromDatabase(err error, resource string) *apperrors.AppError {
	switch {
	case err == nil:
		return nil
	case IsNotFoundError(err):
		return apperrors.NotFound(resource, "")
	case IsDuplicateError(err):
		return apperrors.AlreadyExists("El recurso ya existe").WithCause(err)
	default:
		return apperrors.DatabaseError(err)
	}
}
