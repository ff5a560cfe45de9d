package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CreateCategory(ctx context.Context, db *gorm.DB, category *ServiceCategory) error
	FindCategories(ctx context.Context, db *gorm.DB) ([]ServiceCategory, error)
	FindCategoryByID(ctx context.Context, db *gorm.DB, id int64) (*ServiceCategory, error)
	UpdateCategory(ctx context.Context, db *gorm.DB, category *ServiceCategory) error
	DeleteCategory(ctx context.Context, db *gorm.DB, id int64) error
	CountServicesInCategory(ctx context.Context, db *gorm.DB, categoryID int64) (int64, error)

	CreateService(ctx context.Context, db *gorm.DB, svc *ServiceItem) error
	FindServices(ctx context.Context, db *gorm.DB, filter ListServicesRequest) ([]ServiceItem, error)
	FindServiceByID(ctx context.Context, db *gorm.DB, id int64) (*ServiceItem, error)
	FindServiceByIDs(ctx context.Context, db *gorm.DB, ids []int64) ([]ServiceItem, error)
	UpdateService(ctx context.Context, db *gorm.DB, svc *ServiceItem) error
	DeleteService(ctx context.Context, db *gorm.DB, id int64) error
	CountServices(ctx context.Context, db *gorm.DB) (int64, error)
}
