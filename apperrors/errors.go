package apperrors

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel error kinds. Handlers and the global error handler map these to
// HTTP status codes; services wrap them with field/entity context via %w.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("conflict with existing resource")
	ErrValidation        = errors.New("validation failed")
	ErrSyncFailure       = errors.New("external sync failed")
	ErrIllegalTransition = errors.New("illegal status transition")
)

// NotFoundf wraps ErrNotFound with a message identifying the missing entity.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// Conflictf wraps ErrConflict with a message identifying the offending field.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrConflict)...)
}

// Validationf wraps ErrValidation with a message identifying the bad input.
func Validationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

// FromDB translates storage-layer errors into the application taxonomy.
// Unique-index violations become Conflict regardless of what the racy
// application-level pre-checks saw; the database constraint is the source
// of truth for uniqueness.
func FromDB(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("unique constraint violated: %w", ErrConflict)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("still referenced by other rows: %w", ErrConflict)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
