package domain

import "time"

// Client types mirror the fiscal document they usually receive.
const (
	TypeConsumidorFinal = "CF"
	TypeCreditoFiscal   = "CCF"
	TypeSujetoExcluido  = "SX"
)

// Client is a billable party of the firm. Rows are soft deleted so
// historical invoices keep their reference.
type Client struct {
	ID               int64     `json:"id" gorm:"primaryKey"`
	Name             string    `json:"name" gorm:"size:255;not null"`
	ClientType       string    `json:"client_type" gorm:"size:3;default:CF"`
	DUI              string    `json:"dui" gorm:"column:dui;size:16"`
	NIT              string    `json:"nit" gorm:"column:nit;size:20"`
	NRC              string    `json:"nrc" gorm:"column:nrc;size:20"`
	Email            string    `json:"email" gorm:"size:255"`
	Phone            string    `json:"phone" gorm:"size:32"`
	Address          string    `json:"address"`
	DepartmentCode   string    `json:"department_code" gorm:"size:4"`
	MunicipalityCode string    `json:"municipality_code" gorm:"size:4"`
	ActivityCode     string    `json:"activity_code" gorm:"size:8"`
	IsDeleted        bool      `json:"-" gorm:"default:false"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Client) TableName() string {
	return "clients"
}
