package application

import (
	"errors"

	"github.com/linskybing/formbuilder-go/internal/apperr"
	"gorm.io/gorm"
)

// storeErr converts a repository error into an apperr kind. Errors that are
// already typed pass through unchanged.
func storeErr(op, what string, err error) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFoundf(op, "%s not found", what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Validationf(op, "%s conflicts with an existing record", what)
	}
	return apperr.Persistence(op, err)
}
