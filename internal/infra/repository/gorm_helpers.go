package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/fieldops/internal/domain"
)

// notFound folds gorm's sentinel into the domain one so use cases stay
// independent of the ORM.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

func unscoped(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}

// jobView preloads the joins every job response carries. Customers keep
// showing after a soft delete so history stays readable.
func jobView(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Customer", unscoped).
		Preload("Service").
		Preload("AssignedUser")
}
