package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceCategory groups catalog services.
type ServiceCategory struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:text;not null"`
	Description string    `json:"description" gorm:"type:text;not null;default:''"`
	Active      bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ServiceCategory) TableName() string { return "service_categories" }

// Service is a billable catalog entry. WholesalePrice is optional; tier
// resolution falls back to UnitPrice when it is null.
type ServiceItem struct {
	ID             int64               `json:"id" gorm:"primaryKey"`
	Code           string              `json:"code" gorm:"type:text;not null;uniqueIndex:ux_services_code"`
	Name           string              `json:"name" gorm:"type:text;not null"`
	CategoryID     int64               `json:"category" gorm:"column:category_id;not null;index"`
	UnitPrice      decimal.Decimal     `json:"unit_price" gorm:"type:numeric(10,2);not null"`
	WholesalePrice decimal.NullDecimal `json:"wholesale_price" gorm:"type:numeric(10,2)"`
	Active         bool                `json:"active" gorm:"not null;default:true"`
	CreatedAt      time.Time           `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time           `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ServiceItem) TableName() string { return "services" }

// WholesaleOrNil adapts the nullable column to the pricing resolver.
func (s *ServiceItem) WholesaleOrNil() *decimal.Decimal {
	if !s.WholesalePrice.Valid {
		return nil
	}
	v := s.WholesalePrice.Decimal
	return &v
}
