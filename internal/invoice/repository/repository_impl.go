package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/abogados-sv/facturacion/internal/invoice/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Create(invoice).Error
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, filter domain.ListInvoicesRequest) ([]domain.Invoice, error) {
	stmt := db.WithContext(ctx).Model(&domain.Invoice{}).Preload("Items")
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where("number LIKE ? OR client_name LIKE ?", like, like)
	}
	if filter.DTEStatus != "" {
		stmt = stmt.Where("dte_status = ?", filter.DTEStatus)
	}
	if filter.From != nil {
		stmt = stmt.Where("invoice_date >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("invoice_date <= ?", *filter.To)
	}
	var items []domain.Invoice
	err := stmt.Order("invoice_date DESC, number DESC").Find(&items).Error
	return items, err
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := db.WithContext(ctx).Preload("Items").First(&inv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Omit("Items").Save(invoice).Error
}

func (r *repo) ReplaceItems(ctx context.Context, db *gorm.DB, invoiceID int64, items []domain.InvoiceItem) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.InvoiceItem{}, "invoice_id = ?", invoiceID).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.InvoiceItem{}, "invoice_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Invoice{}, "id = ?", id).Error
	})
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Invoice{}).Count(&n).Error
	return n, err
}

func (r *repo) FindItems(ctx context.Context, db *gorm.DB, invoiceID int64) ([]domain.InvoiceItem, error) {
	var items []domain.InvoiceItem
	err := db.WithContext(ctx).Where("invoice_id = ?", invoiceID).Find(&items).Error
	return items, err
}
