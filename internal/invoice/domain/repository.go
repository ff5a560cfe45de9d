package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	Find(ctx context.Context, db *gorm.DB, filter ListInvoicesRequest) ([]Invoice, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Invoice, error)
	Update(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	ReplaceItems(ctx context.Context, db *gorm.DB, invoiceID int64, items []InvoiceItem) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	FindItems(ctx context.Context, db *gorm.DB, invoiceID int64) ([]InvoiceItem, error)
}
