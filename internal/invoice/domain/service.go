package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = errors.New("not_found")
	ErrNoItems          = errors.New("no_items")
	ErrInvalidDocType   = errors.New("invalid_document_type")
	ErrInvalidPayment   = errors.New("invalid_payment_method")
	ErrUnknownService   = errors.New("unknown_service")
	ErrOverrideRequired = errors.New("override_authorization_required")
	ErrInvalidItemPrice = errors.New("invalid_item_price")
	ErrHasCreditNote    = errors.New("invoice_has_credit_note")
	ErrDuplicateNumber  = errors.New("duplicate_number")
)

// ItemRequest is one line of the console submission. Prices arrive as the
// console last showed them; the service re-derives everything it can and
// only trusts an off-list price when the override token checks out.
type ItemRequest struct {
	ServiceID        int64           `json:"service_id"`
	Name             string          `json:"name"`
	Quantity         int64           `json:"quantity"`
	PriceType        string          `json:"price_type"`
	AppliedUnitPrice decimal.Decimal `json:"applied_unit_price"`
	IsNoSujeta       bool            `json:"is_no_sujeta"`
	OverrideReason   string          `json:"override_reason"`
}

type InvoiceRequest struct {
	Number        string        `json:"number"`
	InvoiceDate   string        `json:"invoice_date"`
	ClientID      *int64        `json:"client_id"`
	ClientName    string        `json:"client_name"`
	DocumentType  string        `json:"document_type"`
	PaymentMethod string        `json:"payment_method"`
	Observations  string        `json:"observations"`
	Items         []ItemRequest `json:"services"`
	OverrideToken string        `json:"override_token"`
}

type ListInvoicesRequest struct {
	Search    string
	DTEStatus string
	From      *time.Time
	To        *time.Time
}

type Service interface {
	Create(ctx context.Context, req InvoiceRequest) (*Invoice, error)
	Update(ctx context.Context, id int64, req InvoiceRequest) (*Invoice, error)
	List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, error)
	Get(ctx context.Context, id int64) (*Invoice, error)
	Delete(ctx context.Context, id int64) error
}

// Transmitter sends the fiscal document for a saved invoice. Failures are
// reported but never abort the save.
type Transmitter interface {
	Send(ctx context.Context, invoice *Invoice) error
}
