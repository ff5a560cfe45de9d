package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, user *StaffUser) error
	Find(ctx context.Context, db *gorm.DB) ([]StaffUser, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*StaffUser, error)
	FindByUsername(ctx context.Context, db *gorm.DB, username string) (*StaffUser, error)
	Update(ctx context.Context, db *gorm.DB, user *StaffUser) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
}
