package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("not_found")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidCategory = errors.New("invalid_category")
	ErrInvalidPrice    = errors.New("invalid_price")
	ErrDuplicateCode   = errors.New("duplicate_code")
	ErrCategoryInUse   = errors.New("category_in_use")
)

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

type ServiceRequest struct {
	Code           string              `json:"code"`
	Name           string              `json:"name"`
	CategoryID     int64               `json:"category"`
	UnitPrice      decimal.Decimal     `json:"unit_price"`
	WholesalePrice decimal.NullDecimal `json:"wholesale_price"`
	Active         *bool               `json:"active"`
}

type ListServicesRequest struct {
	Search   string
	Active   *bool
	Category int64
}

type QuickPriceRequest struct {
	UnitPrice      decimal.Decimal     `json:"unit_price"`
	WholesalePrice decimal.NullDecimal `json:"wholesale_price"`
	Cost           decimal.Decimal     `json:"cost"`
}

type QuickPriceResult struct {
	Service       *ServiceItem    `json:"service"`
	Profit        decimal.Decimal `json:"profit"`
	ProfitPercent decimal.Decimal `json:"profit_percent"`
}

type Service interface {
	CreateCategory(ctx context.Context, req CategoryRequest) (*ServiceCategory, error)
	ListCategories(ctx context.Context) ([]ServiceCategory, error)
	UpdateCategory(ctx context.Context, id int64, req CategoryRequest) (*ServiceCategory, error)
	DeleteCategory(ctx context.Context, id int64) error

	CreateService(ctx context.Context, req ServiceRequest) (*ServiceItem, error)
	ListServices(ctx context.Context, req ListServicesRequest) ([]ServiceItem, error)
	GetService(ctx context.Context, id int64) (*ServiceItem, error)
	UpdateService(ctx context.Context, id int64, req ServiceRequest) (*ServiceItem, error)
	DeleteService(ctx context.Context, id int64) error

	// QuickPriceChange updates a service's prices in place and reports
	// the resulting profit margin over the supplied cost. Zero cost
	// reports a zero margin, not an infinite one.
	QuickPriceChange(ctx context.Context, id int64, req QuickPriceRequest) (*QuickPriceResult, error)
}
