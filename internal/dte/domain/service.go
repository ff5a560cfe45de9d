package domain

import (
	"context"
	"errors"

	invoicedomain "github.com/abogados-sv/facturacion/internal/invoice/domain"
)

var (
	ErrDisabled         = errors.New("dte_disabled")
	ErrInvoiceNotFound  = errors.New("invoice_not_found")
	ErrNotApproved      = errors.New("dte_not_approved")
	ErrGatewayRejected  = errors.New("dte_rejected")
	ErrGatewayOffline   = errors.New("dte_gateway_offline")
	ErrUnknownDocType   = errors.New("unknown_document_type")
	ErrAlreadyProcessed = errors.New("dte_already_processed")
)

type Service interface {
	// Send builds and transmits the fiscal document for an invoice. A
	// gateway that cannot be reached leaves the invoice Pendiente.
	Send(ctx context.Context, invoice *invoicedomain.Invoice) error
	// Resend retries transmission for a pending invoice by id.
	Resend(ctx context.Context, invoiceID int64) (*Record, error)
	// Invalidate posts an invalidation event for an approved DTE.
	Invalidate(ctx context.Context, invoiceID int64, reason string) (*Record, error)
	// Records lists the transmission history for an invoice.
	Records(ctx context.Context, invoiceID int64) ([]Record, error)
}
