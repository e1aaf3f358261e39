package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"pos-fbr-backend/apperrors"
)

func TestFromDB_TranslatesConstraintErrors(t *testing.T) {
	assert.NoError(t, apperrors.FromDB(nil))

	dup := apperrors.FromDB(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey))
	assert.ErrorIs(t, dup, apperrors.ErrConflict)

	fk := apperrors.FromDB(fmt.Errorf("delete: %w", gorm.ErrForeignKeyViolated))
	assert.ErrorIs(t, fk, apperrors.ErrConflict)

	missing := apperrors.FromDB(gorm.ErrRecordNotFound)
	assert.ErrorIs(t, missing, apperrors.ErrNotFound)

	// Everything else passes through untouched.
	opaque := errors.New("disk on fire")
	assert.Equal(t, opaque, apperrors.FromDB(opaque))
}

func TestWrapHelpersCarrySentinels(t *testing.T) {
	assert.ErrorIs(t, apperrors.NotFoundf("branch %d", 7), apperrors.ErrNotFound)
	assert.ErrorIs(t, apperrors.Conflictf("usin %q", "U-1"), apperrors.ErrConflict)
	assert.ErrorIs(t, apperrors.Validationf("bad total"), apperrors.ErrValidation)
}
