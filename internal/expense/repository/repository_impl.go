package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/abogados-sv/facturacion/internal/expense/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, expense *domain.Expense) error {
	return db.WithContext(ctx).Create(expense).Error
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, filter domain.ListExpensesRequest) ([]domain.Expense, error) {
	stmt := db.WithContext(ctx).Model(&domain.Expense{})
	if filter.From != nil {
		stmt = stmt.Where("expense_date >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("expense_date <= ?", *filter.To)
	}
	var items []domain.Expense
	err := stmt.Order("expense_date DESC").Find(&items).Error
	return items, err
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Expense, error) {
	var e domain.Expense
	err := db.WithContext(ctx).First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, expense *domain.Expense) error {
	return db.WithContext(ctx).Save(expense).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Delete(&domain.Expense{}, "id = ?", id).Error
}
