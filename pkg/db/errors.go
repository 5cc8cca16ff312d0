package db

import (
	"errors"

	"gorm.io/gorm"

	pkgerrors "github.com/tradekart/tradekart-backend/pkg/errors"
)

// TranslateError maps driver-level errors onto the platform error taxonomy.
func TranslateError(err error, notFoundMessage string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "duplicate record")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database error")
}
