package service

import (
	"errors"

	apperrors "github.com/Payphone-Digital/clinic-admin/internal/errors"
	"gorm.io/gorm"
)

// storeError translates repository errors. notFound and conflict choose the
// domain error reported for a missing row and a unique violation.
func storeError(err error, notFound, conflict *apperrors.DomainError) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return conflict
	case apperrors.IsDomainError(err):
		return err
	default:
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
}
