package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/repo"
)

var (
	ErrValidation   = errors.New("validation")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// storeErr maps repository errors onto the service sentinels.
func storeErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s not found: %w", what, ErrNotFound)
	case errors.Is(err, repo.ErrAlreadyExists):
		return fmt.Errorf("%s already exists: %w", what, ErrConflict)
	default:
		return err
	}
}
