package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is an operating cost entry used for the monthly profit report.
type Expense struct {
	ID          int64           `json:"id" gorm:"primaryKey"`
	Description string          `json:"description" gorm:"size:255;not null"`
	Category    string          `json:"category" gorm:"size:64"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric(10,2)"`
	ExpenseDate time.Time       `json:"expense_date" gorm:"type:date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Expense) TableName() string {
	return "expenses"
}
