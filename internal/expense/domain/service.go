package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound           = errors.New("not_found")
	ErrInvalidDescription = errors.New("invalid_description")
	ErrInvalidAmount      = errors.New("invalid_amount")
)

type ExpenseRequest struct {
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate string          `json:"expense_date"`
}

type ListExpensesRequest struct {
	From *time.Time
	To   *time.Time
}

type Service interface {
	Create(ctx context.Context, req ExpenseRequest) (*Expense, error)
	List(ctx context.Context, req ListExpensesRequest) ([]Expense, error)
	Get(ctx context.Context, id int64) (*Expense, error)
	Update(ctx context.Context, id int64, req ExpenseRequest) (*Expense, error)
	Delete(ctx context.Context, id int64) error
}
