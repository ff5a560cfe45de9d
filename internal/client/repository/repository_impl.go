package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/abogados-sv/facturacion/internal/client/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	return db.WithContext(ctx).Create(client).Error
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, filter domain.ListClientsRequest) ([]domain.Client, error) {
	stmt := db.WithContext(ctx).Model(&domain.Client{}).Where("is_deleted = ?", false)
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where("name LIKE ? OR dui LIKE ? OR nit LIKE ?", like, like, like)
	}
	if filter.Type != "" {
		stmt = stmt.Where("client_type = ?", filter.Type)
	}
	var items []domain.Client
	err := stmt.Order("name ASC").Find(&items).Error
	return items, err
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Client, error) {
	var c domain.Client
	err := db.WithContext(ctx).First(&c, "id = ? AND is_deleted = ?", id, false).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	return db.WithContext(ctx).Save(client).Error
}
