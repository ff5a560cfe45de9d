package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/abogados-sv/facturacion/internal/catalog/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) CreateCategory(ctx context.Context, db *gorm.DB, category *domain.ServiceCategory) error {
	return db.WithContext(ctx).Create(category).Error
}

func (r *repo) FindCategories(ctx context.Context, db *gorm.DB) ([]domain.ServiceCategory, error) {
	var items []domain.ServiceCategory
	err := db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *repo) FindCategoryByID(ctx context.Context, db *gorm.DB, id int64) (*domain.ServiceCategory, error) {
	var c domain.ServiceCategory
	err := db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repo) UpdateCategory(ctx context.Context, db *gorm.DB, category *domain.ServiceCategory) error {
	return db.WithContext(ctx).Save(category).Error
}

func (r *repo) DeleteCategory(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Delete(&domain.ServiceCategory{}, "id = ?", id).Error
}

func (r *repo) CountServicesInCategory(ctx context.Context, db *gorm.DB, categoryID int64) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.ServiceItem{}).
		Where("category_id = ?", categoryID).
		Count(&n).Error
	return n, err
}

func (r *repo) CreateService(ctx context.Context, db *gorm.DB, svc *domain.ServiceItem) error {
	return db.WithContext(ctx).Create(svc).Error
}

func (r *repo) FindServices(ctx context.Context, db *gorm.DB, filter domain.ListServicesRequest) ([]domain.ServiceItem, error) {
	stmt := db.WithContext(ctx).Model(&domain.ServiceItem{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where("name LIKE ? OR code LIKE ?", like, like)
	}
	if filter.Active != nil {
		stmt = stmt.Where("active = ?", *filter.Active)
	}
	if filter.Category != 0 {
		stmt = stmt.Where("category_id = ?", filter.Category)
	}
	var items []domain.ServiceItem
	err := stmt.Order("code ASC").Find(&items).Error
	return items, err
}

func (r *repo) FindServiceByID(ctx context.Context, db *gorm.DB, id int64) (*domain.ServiceItem, error) {
	var s domain.ServiceItem
	err := db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repo) FindServiceByIDs(ctx context.Context, db *gorm.DB, ids []int64) ([]domain.ServiceItem, error) {
	var items []domain.ServiceItem
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *repo) UpdateService(ctx context.Context, db *gorm.DB, svc *domain.ServiceItem) error {
	return db.WithContext(ctx).Save(svc).Error
}

func (r *repo) DeleteService(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Delete(&domain.ServiceItem{}, "id = ?", id).Error
}

func (r *repo) CountServices(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.ServiceItem{}).Count(&n).Error
	return n, err
}
