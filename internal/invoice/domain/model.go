package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document types accepted by the console.
const (
	DocConsumidorFinal = "CF"
	DocCreditoFiscal   = "CCF"
	DocSujetoExcluido  = "SX"
)

// DTE lifecycle states shown to the operator.
const (
	DTEStatusAprobado  = "Aprobado"
	DTEStatusPendiente = "Pendiente"
	DTEStatusRechazado = "Rechazado"
)

// Payment methods accepted by the console.
var PaymentMethods = []string{"Efectivo", "Tarjeta", "Transferencia", "Cheque"}

// Invoice is the stored head of an emitted sale. Totals carry the
// invoice-level IVA split, not a sum of per-line splits.
type Invoice struct {
	ID            int64           `json:"id" gorm:"primaryKey"`
	Number        string          `json:"number" gorm:"size:64;uniqueIndex:ux_invoices_number"`
	InvoiceDate   time.Time       `json:"invoice_date" gorm:"type:date"`
	ClientID      *int64          `json:"client_id"`
	ClientName    string          `json:"client_name" gorm:"size:255"`
	DocumentType  string          `json:"document_type" gorm:"size:3;default:CF"`
	PaymentMethod string          `json:"payment_method" gorm:"size:32;default:Efectivo"`
	Observations  string          `json:"observations"`
	HasCreditNote bool            `json:"has_credit_note" gorm:"default:false"`
	Subtotal      decimal.Decimal `json:"subtotal" gorm:"type:numeric(10,2)"`
	IVA           decimal.Decimal `json:"iva" gorm:"column:iva;type:numeric(10,2)"`
	Total         decimal.Decimal `json:"total" gorm:"type:numeric(10,2)"`
	DTEStatus     string          `json:"dte_status" gorm:"column:dte_status;size:16;default:Pendiente"`
	CreatedBy     *int64          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Items []InvoiceItem `json:"items" gorm:"foreignKey:InvoiceID"`
}

func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem records a line with the price snapshots taken at save time
// plus the override audit trail.
type InvoiceItem struct {
	ID                     int64               `json:"id" gorm:"primaryKey"`
	InvoiceID              int64               `json:"invoice_id" gorm:"index"`
	ServiceID              *int64              `json:"service_id"`
	ServiceName            string              `json:"service_name" gorm:"size:255"`
	Quantity               int64               `json:"quantity" gorm:"default:1"`
	UnitPriceSnapshot      decimal.Decimal     `json:"unit_price_snapshot" gorm:"type:numeric(10,2)"`
	WholesalePriceSnapshot decimal.NullDecimal `json:"wholesale_price_snapshot" gorm:"type:numeric(10,2)"`
	PriceType              string              `json:"price_type" gorm:"size:16;default:UNIT"`
	AppliedUnitPrice       decimal.Decimal     `json:"applied_unit_price" gorm:"type:numeric(10,2)"`
	LineSubtotal           decimal.Decimal     `json:"line_subtotal" gorm:"type:numeric(10,2)"`
	PriceOverridden        bool                `json:"price_overridden" gorm:"default:false"`
	OverrideReason         string              `json:"override_reason"`
	OverrideAuthorizedBy   string              `json:"override_authorized_by" gorm:"size:64"`
	OverrideAuthorizedAt   *time.Time          `json:"override_authorized_at"`
	IsNoSujeta             bool                `json:"is_no_sujeta" gorm:"default:false"`
}

func (InvoiceItem) TableName() string {
	return "invoice_items"
}
