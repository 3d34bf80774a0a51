package usecase

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "jalsetu.io/jalsetu/internal/pkg/errors"
)

func internalErr(err error) *apperrors.AppError {
	return apperrors.Wrap(err, apperrors.CodeInternal, "internal error", 500)
}

// isUniqueViolation detects unique-index failures across the Postgres and
// SQLite drivers. gorm translates the Postgres error; the SQLite driver
// only exposes the message text.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
