package repository

import (
	"errors"

	"gorm.io/gorm"
)

// translate maps GORM errors onto the package errors.
// NewDB enables TranslateError so unique violations arrive as gorm.ErrDuplicatedKey.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
