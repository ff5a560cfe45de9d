package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/abogados-sv/facturacion/internal/staffuser/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, user *domain.StaffUser) error {
	return db.WithContext(ctx).Create(user).Error
}

func (r *repo) Find(ctx context.Context, db *gorm.DB) ([]domain.StaffUser, error) {
	var items []domain.StaffUser
	err := db.WithContext(ctx).Order("username ASC").Find(&items).Error
	return items, err
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.StaffUser, error) {
	var u domain.StaffUser
	err := db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repo) FindByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.StaffUser, error) {
	var u domain.StaffUser
	err := db.WithContext(ctx).First(&u, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, user *domain.StaffUser) error {
	return db.WithContext(ctx).Save(user).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Delete(&domain.StaffUser{}, "id = ?", id).Error
}
