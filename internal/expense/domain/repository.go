package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, expense *Expense) error
	Find(ctx context.Context, db *gorm.DB, filter ListExpensesRequest) ([]Expense, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Expense, error)
	Update(ctx context.Context, db *gorm.DB, expense *Expense) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
}
