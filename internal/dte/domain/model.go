package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// DTE document type codes used by Hacienda.
const (
	TipoFactura        = "01" // consumidor final
	TipoCreditoFiscal  = "03"
	TipoSujetoExcluido = "14"
)

// Record lifecycle states.
const (
	StatusPendiente = "PENDIENTE" // created or gateway unreachable
	StatusProcesado = "PROCESADO" // accepted by the gateway
	StatusRechazado = "RECHAZADO" // explicit rejection
)

// Record stores one transmission attempt chain for an invoice, with the
// exact request and response payloads for audit.
type Record struct {
	ID               int64             `json:"id" gorm:"primaryKey"`
	InvoiceID        int64             `json:"invoice_id" gorm:"index"`
	DTEType          string            `json:"dte_type" gorm:"column:dte_type;size:2"`
	Status           string            `json:"status" gorm:"size:16;default:PENDIENTE"`
	NumeroControl    string            `json:"numero_control" gorm:"size:64;uniqueIndex:ux_dte_records_control"`
	CodigoGeneracion string            `json:"codigo_generacion" gorm:"size:64"`
	SelloRecibido    string            `json:"sello_recibido" gorm:"size:128"`
	HaciendaState    string            `json:"hacienda_state" gorm:"size:32"`
	Observations     string            `json:"observations"`
	ReceiverName     string            `json:"receiver_name" gorm:"size:255"`
	Total            decimal.Decimal   `json:"total" gorm:"type:numeric(12,2)"`
	RequestPayload   datatypes.JSONMap `json:"request_payload"`
	ResponsePayload  datatypes.JSONMap `json:"response_payload"`
	SentCount        int               `json:"sent_count"`
	LastSentAt       *time.Time        `json:"last_sent_at"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

func (Record) TableName() string {
	return "dte_records"
}
